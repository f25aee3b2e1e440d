// Package pulse provides a concurrent, priority-ordered, type-safe
// publish/subscribe event bus for a single process.
//
// The bus decouples producers (input handling, UI state changes,
// application lifecycle) from consumers without direct dependencies.
// Producers publish from any goroutine; one dedicated worker goroutine
// drains the queue and invokes callbacks, so callbacks always run on the
// dispatch goroutine.
//
// # Architecture
//
//	 producers (any goroutine)                    dispatch goroutine
//	┌───────────┐                          ┌────────────────────────────┐
//	│ Publish[T]│──▶ queue.Queue (FIFO) ──▶│ worker: priority cascade   │
//	└───────────┘    blocking pop          │  High ▶ Normal ▶ Low       │
//	┌───────────┐                          │  stop at event's own tier  │
//	│Subscribe[T]──▶ registry (3 tiers) ◀──│ copy-out tier snapshots    │
//	└───────────┘                          └──────────┬─────────────────┘
//	                                                  ▼
//	                                       metrics.Collector (per-type
//	                                       averages, optional OTel)
//
// # Priority cascade
//
// Priority governs delivery eligibility, not just ordering. For an event
// published at priority P, the worker walks the tiers High, Normal, Low in
// order, invoking every matching subscription, and stops after tier P:
//
//   - High-tier subscribers receive every event regardless of priority.
//   - Normal-tier subscribers receive Normal- and High-priority events.
//   - Low-tier subscribers receive only Low-priority events.
//
// Across distinct events the only ordering is FIFO publish order; within
// one event's dispatch, tiers run High to Low and insertion order is
// preserved inside a tier.
//
// # Basic usage
//
//	bus := pulse.New(pulse.WithLogger(logger))
//	if err := bus.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Stop(context.Background())
//
//	type CursorMoved struct{ Line, Col int }
//
//	id, _ := pulse.Subscribe(bus, func(ctx context.Context, e CursorMoved, meta event.Metadata) error {
//	    // runs on the dispatch goroutine
//	    return nil
//	}, pulse.WithPriority(event.PriorityHigh))
//
//	pulse.Publish(bus, CursorMoved{Line: 10, Col: 4})
//	bus.Unsubscribe(id)
//
// # Filtering
//
//	pulse.SubscribeWithFilter(bus,
//	    func(e CursorMoved, meta event.Metadata) bool { return e.Line > 50 },
//	    handler)
//
// # Failure isolation
//
// Each event's dispatch is one failure boundary. If a callback returns an
// error or panics, the event is marked failed, its remaining subscribers
// are skipped, and the worker moves on to the next queued event. Nothing
// propagates back to the publisher.
//
// # Thread safety
//
// All public types are safe for concurrent use. Subscribe and Unsubscribe
// may be called from inside callbacks: the worker iterates copy-out
// snapshots of the registry, so no lock is held across a callback.
// Callbacks must be non-blocking or bounded; a slow callback delays every
// subsequently queued event regardless of priority.
//
// # Subpackages
//
//   - event: priorities, lifecycle states, type tags, metadata
//   - queue: the blocking FIFO of pending events
//   - dispatch: panic-recovered callback execution
//   - metrics: per-type duration collection and averages
package pulse
