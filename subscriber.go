package pulse

import (
	"context"
	"sync"

	"github.com/dshills/pulse/event"
)

// Subscriber is a convenience handle that tracks the subscriptions a
// component registers, so they can all be removed with one Close call when
// the component shuts down.
type Subscriber struct {
	bus *Bus

	mu     sync.Mutex
	ids    []SubscriptionID
	closed bool
}

// NewSubscriber creates a subscriber bound to the given bus.
func NewSubscriber(b *Bus) *Subscriber {
	return &Subscriber{bus: b}
}

// On registers a callback through the subscriber and tracks it.
func On[T any](s *Subscriber, cb func(ctx context.Context, payload T, meta event.Metadata) error, opts ...SubscriptionOption) (SubscriptionID, error) {
	id, err := Subscribe(s.bus, cb, opts...)
	if err != nil {
		return 0, err
	}
	if err := s.track(id); err != nil {
		s.bus.Unsubscribe(id)
		return 0, err
	}
	return id, nil
}

// OnFiltered registers a filtered callback through the subscriber and
// tracks it.
func OnFiltered[T any](s *Subscriber, filter Filter[T], cb func(ctx context.Context, payload T, meta event.Metadata) error, opts ...SubscriptionOption) (SubscriptionID, error) {
	id, err := SubscribeWithFilter(s.bus, filter, cb, opts...)
	if err != nil {
		return 0, err
	}
	if err := s.track(id); err != nil {
		s.bus.Unsubscribe(id)
		return 0, err
	}
	return id, nil
}

// track records a subscription ID, rejecting it if the subscriber has
// already been closed.
func (s *Subscriber) track(id SubscriptionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSubscriberClosed
	}
	s.ids = append(s.ids, id)
	return nil
}

// Unsubscribe removes one tracked subscription.
func (s *Subscriber) Unsubscribe(id SubscriptionID) bool {
	s.mu.Lock()
	for i, tracked := range s.ids {
		if tracked == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	return s.bus.Unsubscribe(id)
}

// Close unsubscribes every tracked subscription. Further registrations
// through this subscriber fail with ErrSubscriberClosed.
func (s *Subscriber) Close() {
	s.mu.Lock()
	ids := s.ids
	s.ids = nil
	s.closed = true
	s.mu.Unlock()

	for _, id := range ids {
		s.bus.Unsubscribe(id)
	}
}

// Count returns the number of tracked subscriptions.
func (s *Subscriber) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Closed returns true if Close has been called.
func (s *Subscriber) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
