package event

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Tag is a stable textual identifier for a concrete event type. Payloads are
// matched to subscriptions by tag comparison followed by a checked type
// assertion, so a callback can never be invoked with a payload of the wrong
// concrete type.
type Tag string

// String returns the tag as a string.
func (t Tag) String() string {
	return string(t)
}

// TagFor returns the tag for the concrete type T. The tag is derived from
// the fully qualified type name and is stable for the life of the process.
func TagFor[T any]() Tag {
	return Tag(reflect.TypeOf((*T)(nil)).Elem().String())
}

// TagOf returns the tag for a payload's dynamic type.
func TagOf(payload any) Tag {
	if payload == nil {
		return ""
	}
	return Tag(reflect.TypeOf(payload).String())
}

// Metadata is the standard information attached to every event instance.
// Subscribers receive it by value: each callback observes a private copy,
// never shared mutable state.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was published.
	Timestamp time.Time

	// Priority is the tier the event was published at.
	Priority Priority

	// Tag identifies the payload's concrete type.
	Tag Tag

	// Source identifies the module that published the event. Optional.
	Source string

	// State is the current lifecycle state.
	State State

	// QueuePos is the number of events already queued ahead of this one
	// at publish time. It is a snapshot; concurrent dequeues may make it
	// stale immediately.
	QueuePos int

	// ProcessingTime is how long the dispatch cascade took. Valid only
	// once State is StateCompleted.
	ProcessingTime time.Duration
}

// NewMetadata creates metadata for a freshly published event.
func NewMetadata(tag Tag, priority Priority, source string) Metadata {
	return Metadata{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Priority:  priority,
		Tag:       tag,
		Source:    source,
		State:     StateCreated,
	}
}

// Transition advances the lifecycle state. It returns false and leaves the
// state unchanged if the transition is not legal.
func (m *Metadata) Transition(next State) bool {
	if !m.State.CanTransition(next) {
		return false
	}
	m.State = next
	return true
}

// Envelope is a queued, type-erased event record. It is created at publish
// time, owned solely by the queue until popped by the dispatch worker, and
// discarded after dispatch.
type Envelope struct {
	// Payload is the type-erased event value.
	Payload any

	// Tag is a copy of the payload's type tag.
	Tag Tag

	// Meta is the event's metadata. The worker mutates it during dispatch;
	// subscribers only ever see copies.
	Meta Metadata
}

// NewEnvelope boxes a payload with fresh metadata.
func NewEnvelope(payload any, tag Tag, priority Priority, source string) *Envelope {
	return &Envelope{
		Payload: payload,
		Tag:     tag,
		Meta:    NewMetadata(tag, priority, source),
	}
}
