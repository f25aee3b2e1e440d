package pulse

import (
	"errors"
	"fmt"

	"github.com/dshills/pulse/event"
)

// Sentinel errors for the bus.
var (
	// ErrAlreadyRunning is returned when Start is called on a running bus.
	ErrAlreadyRunning = errors.New("event bus is already running")

	// ErrNotRunning is returned when Stop is called on a stopped bus.
	ErrNotRunning = errors.New("event bus is not running")

	// ErrNilCallback is returned when a nil callback is provided.
	ErrNilCallback = errors.New("callback cannot be nil")

	// ErrNilFilter is returned when a nil filter is provided.
	ErrNilFilter = errors.New("filter cannot be nil")

	// ErrCallbackPanic is matched by errors.Is against PanicError.
	ErrCallbackPanic = errors.New("callback panicked")

	// ErrSubscriberClosed is returned when registering through a closed
	// Subscriber.
	ErrSubscriberClosed = errors.New("subscriber is closed")
)

// CallbackError wraps an error returned by a subscriber callback with the
// subscription and event type it failed on.
type CallbackError struct {
	// Subscription is the ID of the subscription whose callback failed.
	Subscription SubscriptionID

	// Tag is the event type being dispatched.
	Tag event.Tag

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback error for subscription %d on %s: %v", e.Subscription, e.Tag, e.Err)
}

// Unwrap returns the underlying error.
func (e *CallbackError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered panic from subscriber code as an error.
type PanicError struct {
	// Subscription is the ID of the subscription whose code panicked.
	Subscription SubscriptionID

	// Tag is the event type being dispatched.
	Tag event.Tag

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic for subscription %d on %s: %v", e.Subscription, e.Tag, e.Value)
}

// Is allows errors.Is to match PanicError with ErrCallbackPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrCallbackPanic
}
