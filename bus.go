package pulse

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/pulse/dispatch"
	"github.com/dshills/pulse/event"
	"github.com/dshills/pulse/metrics"
	"github.com/dshills/pulse/queue"
)

// Bus is a priority-ordered, type-safe publish/subscribe dispatcher for a
// single process. Producers on any goroutine publish fire-and-forget;
// exactly one background worker pops the queue and invokes callbacks, so
// callbacks always execute on the dispatch goroutine, never on the
// publishing one.
//
// Create one Bus per process, Start it, and hand it to producers and
// consumers by reference.
type Bus struct {
	registry  *registry
	exec      *dispatch.Executor
	collector *metrics.Collector
	logger    *zap.Logger

	// Lifecycle. mu guards Start/Stop; q is swapped atomically so Publish
	// never takes the lifecycle lock.
	mu      sync.Mutex
	q       atomic.Pointer[queue.Queue]
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}

	// Stats.
	published atomic.Uint64
	invoked   atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
	discarded atomic.Uint64
}

// New creates a bus with the given options. The dispatch worker does not
// run until Start is called.
func New(opts ...Option) *Bus {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Bus{
		registry: newRegistry(),
		logger:   cfg.logger,
	}

	if cfg.otelMetrics {
		c, err := metrics.NewInstrumented()
		if err != nil {
			b.logger.Warn("metrics instrumentation failed, using in-memory metrics only",
				zap.Error(err))
			c = metrics.New()
		}
		b.collector = c
	} else {
		b.collector = metrics.New()
	}

	b.exec = dispatch.NewExecutor(dispatch.WithPanicHandler(func(tag event.Tag, value any, stack []byte) {
		b.logger.Error("subscriber panic recovered",
			zap.String("type", tag.String()),
			zap.Any("panic", value),
			zap.ByteString("stack", stack))
	}))

	return b
}

// Start launches the dispatch worker. It returns ErrAlreadyRunning if the
// bus is already started.
func (b *Bus) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running.Load() {
		return ErrAlreadyRunning
	}

	q := queue.New()
	b.q.Store(q)

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})
	b.running.Store(true)

	go b.run(ctx, q, b.done)
	return nil
}

// Stop shuts the bus down: it stops accepting the queue's contents, wakes
// the worker, and waits for it to exit or for ctx to expire. Events still
// queued at shutdown are discarded, not delivered. Publish calls racing
// with Stop are accepted best-effort but may never be dispatched.
func (b *Bus) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running.Swap(false) {
		return ErrNotRunning
	}

	if q := b.q.Load(); q != nil {
		q.Shutdown()
	}

	var err error
	select {
	case <-b.done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	// Released after the join so in-flight callbacks keep a live context;
	// on a timed-out join it unblocks context-aware callbacks.
	b.cancel()
	return err
}

// IsRunning returns true if the dispatch worker is running.
func (b *Bus) IsRunning() bool {
	return b.running.Load()
}

// Publish boxes a payload and enqueues it at the given priority, returning
// immediately. Nothing about dispatch outcomes is surfaced to the caller.
func Publish[T any](b *Bus, payload T, opts ...PublishOption) {
	cfg := defaultPublishConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	tag := event.TagFor[T]()
	env := event.NewEnvelope(payload, tag, cfg.priority, cfg.source)
	b.published.Add(1)

	q := b.q.Load()
	if q == nil {
		b.discarded.Add(1)
		b.logger.Debug("event discarded, bus never started", zap.String("type", tag.String()))
		return
	}

	pos, ok := q.Push(env)
	if !ok {
		b.discarded.Add(1)
		b.logger.Debug("event discarded, bus shutting down", zap.String("type", tag.String()))
		return
	}

	b.logger.Debug("event state changed",
		zap.String("type", tag.String()),
		zap.Stringer("state", event.StateQueued),
		zap.Int("queue_pos", pos))
}

// Subscribe registers a callback for events whose payload is of type T.
// The callback runs on the dispatch goroutine; it must be non-blocking or
// bounded, since a slow callback delays every subsequently queued event.
func Subscribe[T any](b *Bus, cb func(ctx context.Context, payload T, meta event.Metadata) error, opts ...SubscriptionOption) (SubscriptionID, error) {
	if cb == nil {
		return 0, ErrNilCallback
	}
	return b.register(event.TagFor[T](), adaptCallback(cb), nil, opts), nil
}

// SubscribeWithFilter registers a callback gated by a predicate: the
// callback is invoked only for events where the filter returns true. The
// filter also runs on the dispatch goroutine.
func SubscribeWithFilter[T any](b *Bus, filter Filter[T], cb func(ctx context.Context, payload T, meta event.Metadata) error, opts ...SubscriptionOption) (SubscriptionID, error) {
	if filter == nil {
		return 0, ErrNilFilter
	}
	if cb == nil {
		return 0, ErrNilCallback
	}
	return b.register(event.TagFor[T](), adaptCallback(cb), adaptFilter(filter), opts), nil
}

// register inserts a type-erased subscription into the registry.
func (b *Bus) register(tag event.Tag, cb dispatch.Callback, filter dispatch.Predicate, opts []SubscriptionOption) SubscriptionID {
	cfg := defaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := b.registry.add(cfg.priority, tag, cb, filter, cfg.once)
	b.logger.Debug("subscription added",
		zap.Uint64("id", uint64(id)),
		zap.String("type", tag.String()),
		zap.Stringer("tier", cfg.priority))
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are tolerated: the call
// logs a warning and reports false rather than failing.
func (b *Bus) Unsubscribe(id SubscriptionID) bool {
	if !b.registry.remove(id) {
		b.logger.Warn("unsubscribe of unknown subscription", zap.Uint64("id", uint64(id)))
		return false
	}
	b.logger.Debug("subscription removed", zap.Uint64("id", uint64(id)))
	return true
}

// PerformanceMetrics returns the mean processing duration per event type,
// over every completed dispatch since the bus was created.
func (b *Bus) PerformanceMetrics() map[string]time.Duration {
	return b.collector.Averages()
}

// Stats is a snapshot of bus counters.
type Stats struct {
	// Published is the number of Publish calls.
	Published uint64

	// Invoked is the number of callback invocations.
	Invoked uint64

	// Completed is the number of events dispatched without failure.
	Completed uint64

	// Failed is the number of events whose dispatch failed.
	Failed uint64

	// Panicked is the subset of Failed caused by a panic.
	Panicked uint64

	// Discarded is the number of events dropped undelivered at shutdown.
	Discarded uint64

	// QueueDepth is the current number of pending events.
	QueueDepth int

	// Subscriptions is the current number of registered subscriptions.
	Subscriptions int
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	depth := 0
	if q := b.q.Load(); q != nil {
		depth = q.Len()
	}
	return Stats{
		Published:     b.published.Load(),
		Invoked:       b.invoked.Load(),
		Completed:     b.completed.Load(),
		Failed:        b.failed.Load(),
		Panicked:      b.panicked.Load(),
		Discarded:     b.discarded.Load(),
		QueueDepth:    depth,
		Subscriptions: b.registry.count(),
	}
}

// adaptCallback type-erases a typed callback. The type assertion is
// checked: a tag collision can skip a delivery but never invoke the
// callback with a payload of the wrong concrete type.
func adaptCallback[T any](cb func(ctx context.Context, payload T, meta event.Metadata) error) dispatch.Callback {
	return func(ctx context.Context, payload any, meta event.Metadata) error {
		p, ok := payload.(T)
		if !ok {
			return nil
		}
		return cb(ctx, p, meta)
	}
}

// adaptFilter type-erases a typed filter with the same checked assertion.
func adaptFilter[T any](f Filter[T]) dispatch.Predicate {
	return func(payload any, meta event.Metadata) bool {
		p, ok := payload.(T)
		if !ok {
			return false
		}
		return f(p, meta)
	}
}
