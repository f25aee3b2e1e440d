package pulse

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/pulse/dispatch"
	"github.com/dshills/pulse/event"
	"github.com/dshills/pulse/queue"
)

// run is the dispatch worker: the single consumer of the event queue. It
// exits when the queue reports exhaustion after shutdown.
func (b *Bus) run(ctx context.Context, q *queue.Queue, done chan struct{}) {
	defer close(done)

	b.logger.Info("dispatch worker started")

	for {
		env, ok := q.Pop()
		if !ok {
			break
		}
		if !b.running.Load() {
			// Stop was requested; whatever is left in the queue is
			// discarded, not delivered.
			b.discarded.Add(1)
			continue
		}
		b.dispatch(ctx, env)
	}

	b.logger.Info("dispatch worker stopped",
		zap.Uint64("discarded", b.discarded.Load()))
}

// dispatch runs one event through the cascade and settles its lifecycle.
func (b *Bus) dispatch(ctx context.Context, env *event.Envelope) {
	b.transition(env, event.StateProcessing)

	start := time.Now()
	res, subID := b.cascade(ctx, env)
	elapsed := time.Since(start)

	if res.Failed() {
		b.transition(env, event.StateFailed)
		b.failed.Add(1)
		b.collector.RecordFailure(ctx, env.Tag.String())

		var err error
		if res.Panicked {
			b.panicked.Add(1)
			err = &PanicError{
				Subscription: subID,
				Tag:          env.Tag,
				Value:        res.PanicValue,
				Stack:        string(res.PanicStack),
			}
		} else {
			err = &CallbackError{Subscription: subID, Tag: env.Tag, Err: res.Err}
		}
		b.logger.Error("event dispatch failed",
			zap.String("type", env.Tag.String()),
			zap.Error(err))
		return
	}

	env.Meta.ProcessingTime = elapsed
	b.transition(env, event.StateCompleted)
	b.completed.Add(1)
	b.collector.Record(ctx, env.Tag.String(), elapsed)
}

// cascade walks the tiers High to Normal to Low, invoking every matching,
// filter-passing subscription, and stops after the event's own tier: a
// subscription receives an event only if its tier is at or above the
// event's priority.
//
// The whole cascade is one failure boundary. The first callback error or
// panic (a panicking filter counts) aborts the remaining subscribers for
// this event and is returned along with the offending subscription's ID.
func (b *Bus) cascade(ctx context.Context, env *event.Envelope) (dispatch.Result, SubscriptionID) {
	for _, tier := range event.Tiers {
		for _, sub := range b.registry.snapshot(tier) {
			if sub.tag != env.Tag {
				continue
			}

			if sub.filter != nil {
				pass, res := b.exec.Evaluate(sub.filter, env.Payload, env.Meta)
				if res.Failed() {
					return res, sub.id
				}
				if !pass {
					continue
				}
			}

			res := b.exec.Invoke(ctx, sub.callback, env.Payload, env.Meta)
			b.invoked.Add(1)
			if res.Failed() {
				return res, sub.id
			}

			if sub.once {
				b.registry.remove(sub.id)
			}
		}

		if tier == env.Meta.Priority {
			break
		}
	}
	return dispatch.Result{}, 0
}

// transition advances an envelope's lifecycle state and emits the debug
// trace for it. Illegal transitions are ignored.
func (b *Bus) transition(env *event.Envelope, next event.State) {
	if !env.Meta.Transition(next) {
		return
	}

	fields := []zap.Field{
		zap.String("type", env.Tag.String()),
		zap.Stringer("state", next),
		zap.Int("queue_pos", env.Meta.QueuePos),
	}
	if next == event.StateCompleted {
		fields = append(fields, zap.Duration("processing_time", env.Meta.ProcessingTime))
	}
	b.logger.Debug("event state changed", fields...)
}
