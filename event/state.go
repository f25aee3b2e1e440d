package event

// State tracks an event instance through its lifecycle. Transitions are
// monotonic: Created -> Queued -> Processing -> Completed or Failed, with
// no transitions out of a terminal state and no states skipped.
type State int32

const (
	// StateCreated is the initial state assigned at publish time.
	StateCreated State = iota

	// StateQueued means the event has been pushed onto the queue.
	StateQueued

	// StateProcessing means the dispatch worker has popped the event and
	// is running the cascade.
	StateProcessing

	// StateCompleted means every eligible subscription was invoked without
	// failure. Terminal.
	StateCompleted

	// StateFailed means a callback returned an error or panicked during
	// dispatch. Terminal.
	StateFailed
)

// Terminal returns true if no further transitions are allowed from s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CanTransition returns true if moving from s to next is a legal
// lifecycle transition.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateCreated:
		return next == StateQueued
	case StateQueued:
		return next == StateProcessing
	case StateProcessing:
		return next == StateCompleted || next == StateFailed
	default:
		return false
	}
}

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateQueued:
		return "queued"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
