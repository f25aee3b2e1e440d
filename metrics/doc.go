// Package metrics collects per-event-type processing durations.
//
// The Collector keeps every recorded duration since process start (no
// windowing or eviction) and exposes per-type arithmetic means. It can
// optionally mirror each recording to OpenTelemetry instruments registered
// against the global meter provider.
package metrics
