package event

// Priority is the tier an event is published at and a subscription is
// registered under. It governs two things at once: the order subscriptions
// are visited during a dispatch cascade (High first), and delivery
// eligibility - a subscription receives an event only if its tier is at or
// above the event's priority. High-tier subscriptions therefore see every
// event, while Low-tier subscriptions see only Low-priority events.
type Priority int

const (
	// PriorityHigh is the highest tier. High subscriptions receive events
	// of every priority.
	PriorityHigh Priority = iota

	// PriorityNormal is the default tier. Normal subscriptions receive
	// Normal- and High-priority events.
	PriorityNormal

	// PriorityLow is the lowest tier. Low subscriptions receive only
	// Low-priority events.
	PriorityLow
)

// Tiers is the fixed cascade order, highest tier first.
var Tiers = [...]Priority{PriorityHigh, PriorityNormal, PriorityLow}

// Valid returns true if p is one of the defined priorities.
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}
