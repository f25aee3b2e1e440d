package pulse

// Publisher is a convenience handle that stamps every event it publishes
// with a fixed source name, so subscribers can filter on where an event
// came from.
type Publisher struct {
	bus    *Bus
	source string
}

// NewPublisher creates a publisher that publishes on behalf of the named
// module.
func NewPublisher(b *Bus, source string) *Publisher {
	return &Publisher{bus: b, source: source}
}

// Source returns the publisher's source name.
func (p *Publisher) Source() string {
	return p.source
}

// Bus returns the underlying bus.
func (p *Publisher) Bus() *Bus {
	return p.bus
}

// PublishFrom publishes a payload through the publisher, stamping its
// source. The source cannot be overridden per call.
func PublishFrom[T any](p *Publisher, payload T, opts ...PublishOption) {
	Publish(p.bus, payload, append(opts, WithSource(p.source))...)
}
