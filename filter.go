package pulse

import "github.com/dshills/pulse/event"

// Filter is a typed delivery predicate. It gates delivery to a single
// subscription: return true to deliver the event, false to skip it.
type Filter[T any] func(payload T, meta event.Metadata) bool

// And combines filters so the event is delivered only if every filter
// passes. With no filters it always passes.
func And[T any](filters ...Filter[T]) Filter[T] {
	return func(payload T, meta event.Metadata) bool {
		for _, f := range filters {
			if !f(payload, meta) {
				return false
			}
		}
		return true
	}
}

// Or combines filters so the event is delivered if any filter passes.
// With no filters it never passes.
func Or[T any](filters ...Filter[T]) Filter[T] {
	return func(payload T, meta event.Metadata) bool {
		for _, f := range filters {
			if f(payload, meta) {
				return true
			}
		}
		return false
	}
}

// Not inverts a filter.
func Not[T any](f Filter[T]) Filter[T] {
	return func(payload T, meta event.Metadata) bool {
		return !f(payload, meta)
	}
}

// FromSources passes only events published from one of the given sources.
func FromSources[T any](sources ...string) Filter[T] {
	set := make(map[string]bool, len(sources))
	for _, s := range sources {
		set[s] = true
	}
	return func(_ T, meta event.Metadata) bool {
		return set[meta.Source]
	}
}

// ExcludeSource passes everything except events from the given source.
func ExcludeSource[T any](source string) Filter[T] {
	return func(_ T, meta event.Metadata) bool {
		return meta.Source != source
	}
}

// AtOrAbove passes only events published at or above the given priority.
func AtOrAbove[T any](p event.Priority) Filter[T] {
	return func(_ T, meta event.Metadata) bool {
		return meta.Priority <= p
	}
}
