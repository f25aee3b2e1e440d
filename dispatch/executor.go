package dispatch

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/dshills/pulse/event"
)

// Callback is a type-erased subscriber callback. The payload's concrete
// type has already been checked against the subscription's tag by the time
// a Callback runs.
type Callback func(ctx context.Context, payload any, meta event.Metadata) error

// Predicate is a type-erased filter. It gates delivery to a single
// subscription: return false to skip the callback for this event.
type Predicate func(payload any, meta event.Metadata) bool

// PanicHandler is called when subscriber code panics during execution.
// It receives the event's tag, the panic value, and the captured stack.
type PanicHandler func(tag event.Tag, panicValue any, stack []byte)

// Result is the outcome of invoking one piece of subscriber code.
type Result struct {
	// Err is the error returned by the callback, if any.
	Err error

	// Panicked is true if the subscriber code panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the subscriber code ran.
	Duration time.Duration
}

// Failed returns true if the invocation ended in an error or a panic.
func (r Result) Failed() bool {
	return r.Err != nil || r.Panicked
}

// Executor runs subscriber code with panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets the handler called when subscriber code panics.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoke runs a callback and returns the outcome. Panics are recovered,
// never propagated.
func (e *Executor) Invoke(ctx context.Context, cb Callback, payload any, meta event.Metadata) (result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = debug.Stack()
			e.handlePanic(meta.Tag, r, result.PanicStack)
		}
	}()

	result.Err = cb(ctx, payload, meta)
	return result
}

// Evaluate runs a filter predicate. A panicking filter fails the event the
// same way a panicking callback does, so the result carries the panic
// outcome alongside the verdict.
func (e *Executor) Evaluate(f Predicate, payload any, meta event.Metadata) (pass bool, result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			pass = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = debug.Stack()
			e.handlePanic(meta.Tag, r, result.PanicStack)
		}
	}()

	pass = f(payload, meta)
	return pass, result
}

// handlePanic calls the panic handler if one is set, shielding the caller
// from a panic handler that itself panics.
func (e *Executor) handlePanic(tag event.Tag, value any, stack []byte) {
	if e.panicHandler == nil {
		return
	}
	defer func() { _ = recover() }()
	e.panicHandler(tag, value, stack)
}
