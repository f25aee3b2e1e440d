package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/dshills/pulse"

// Collector records per-event-type processing durations and exposes
// per-type averages. It is safe for concurrent use, though the bus only
// writes to it from the dispatch worker.
type Collector struct {
	mu      sync.Mutex
	samples map[string][]time.Duration

	inst *instruments
}

// instruments are the OpenTelemetry instruments a collector can mirror
// recordings to.
type instruments struct {
	dispatches metric.Int64Counter
	latency    metric.Float64Histogram
	failures   metric.Int64Counter
}

// New creates a collector without OpenTelemetry instrumentation.
func New() *Collector {
	return &Collector{
		samples: make(map[string][]time.Duration),
	}
}

// NewInstrumented creates a collector that also records to OpenTelemetry
// instruments on the global meter provider. Configure the provider before
// calling this:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewInstrumented() (*Collector, error) {
	meter := otel.Meter(scopeName)

	dispatches, err := meter.Int64Counter("pulse.dispatch.events",
		metric.WithDescription("Number of events dispatched"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("pulse.dispatch.latency_ms",
		metric.WithDescription("Per-event dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("pulse.dispatch.failures",
		metric.WithDescription("Number of events whose dispatch failed"),
	)
	if err != nil {
		return nil, err
	}

	c := New()
	c.inst = &instruments{
		dispatches: dispatches,
		latency:    latency,
		failures:   failures,
	}
	return c, nil
}

// Record appends a completed dispatch duration for the given type tag.
func (c *Collector) Record(ctx context.Context, tag string, d time.Duration) {
	c.mu.Lock()
	c.samples[tag] = append(c.samples[tag], d)
	c.mu.Unlock()

	if c.inst != nil {
		attrs := metric.WithAttributes(attribute.String("event_type", tag))
		c.inst.dispatches.Add(ctx, 1, attrs)
		c.inst.latency.Record(ctx, float64(d)/float64(time.Millisecond), attrs)
	}
}

// RecordFailure counts a failed dispatch for the given type tag. Failed
// dispatches do not contribute duration samples.
func (c *Collector) RecordFailure(ctx context.Context, tag string) {
	if c.inst != nil {
		attrs := metric.WithAttributes(attribute.String("event_type", tag))
		c.inst.dispatches.Add(ctx, 1, attrs)
		c.inst.failures.Add(ctx, 1, attrs)
	}
}

// Averages returns, for every type with at least one recorded duration,
// the arithmetic mean of all durations recorded since process start.
func (c *Collector) Averages() map[string]time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]time.Duration, len(c.samples))
	for tag, ds := range c.samples {
		var total time.Duration
		for _, d := range ds {
			total += d
		}
		out[tag] = total / time.Duration(len(ds))
	}
	return out
}

// Count returns the number of recorded durations for a type tag.
func (c *Collector) Count(tag string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples[tag])
}

// Reset discards all recorded samples. OpenTelemetry instruments are
// cumulative and unaffected.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = make(map[string][]time.Duration)
}
