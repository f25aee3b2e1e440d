// Package dispatch provides the failure boundary around subscriber code.
//
// The Executor invokes type-erased callbacks and filter predicates with
// panic recovery, stack capture, and timing, so that a misbehaving
// subscriber can fail its event without taking down the dispatch worker.
package dispatch
