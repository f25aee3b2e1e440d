package pulse

import (
	"context"
	"sync"
	"testing"

	"github.com/dshills/pulse/dispatch"
	"github.com/dshills/pulse/event"
)

func nopCallback() dispatch.Callback {
	return func(ctx context.Context, payload any, meta event.Metadata) error {
		return nil
	}
}

func TestRegistry_Add(t *testing.T) {
	r := newRegistry()
	tag := event.TagFor[testPing]()

	r.add(event.PriorityHigh, tag, nopCallback(), nil, false)
	r.add(event.PriorityHigh, tag, nopCallback(), nil, false)
	r.add(event.PriorityLow, tag, nopCallback(), nil, false)

	if r.count() != 3 {
		t.Errorf("expected 3 subscriptions, got %d", r.count())
	}
	if r.countTier(event.PriorityHigh) != 2 {
		t.Errorf("expected 2 in high tier, got %d", r.countTier(event.PriorityHigh))
	}
	if r.countTier(event.PriorityNormal) != 0 {
		t.Errorf("expected empty normal tier, got %d", r.countTier(event.PriorityNormal))
	}
	if r.countTier(event.PriorityLow) != 1 {
		t.Errorf("expected 1 in low tier, got %d", r.countTier(event.PriorityLow))
	}
}

func TestRegistry_IDs_MonotonicNeverReused(t *testing.T) {
	r := newRegistry()
	tag := event.TagFor[testPing]()

	first := r.add(event.PriorityNormal, tag, nopCallback(), nil, false)
	second := r.add(event.PriorityNormal, tag, nopCallback(), nil, false)
	if second <= first {
		t.Errorf("expected increasing IDs, got %d then %d", first, second)
	}

	r.remove(first)
	third := r.add(event.PriorityNormal, tag, nopCallback(), nil, false)
	if third <= second {
		t.Errorf("expected removed ID to never be reused, got %d after %d", third, second)
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := newRegistry()
	tag := event.TagFor[testPing]()

	id := r.add(event.PriorityLow, tag, nopCallback(), nil, false)
	if !r.remove(id) {
		t.Error("expected removal of existing subscription")
	}
	if r.count() != 0 {
		t.Errorf("expected empty registry, got %d", r.count())
	}

	// Unknown and already-removed IDs are no-ops.
	if r.remove(id) {
		t.Error("expected second removal to report false")
	}
	if r.remove(SubscriptionID(9999)) {
		t.Error("expected removal of unknown ID to report false")
	}
}

func TestRegistry_Snapshot_InsertionOrder(t *testing.T) {
	r := newRegistry()
	tag := event.TagFor[testPing]()

	a := r.add(event.PriorityNormal, tag, nopCallback(), nil, false)
	b := r.add(event.PriorityNormal, tag, nopCallback(), nil, false)
	c := r.add(event.PriorityNormal, tag, nopCallback(), nil, false)

	subs := r.snapshot(event.PriorityNormal)
	if len(subs) != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", len(subs))
	}
	want := []SubscriptionID{a, b, c}
	for i, sub := range subs {
		if sub.id != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], sub.id)
		}
	}
}

func TestRegistry_Snapshot_IsCopy(t *testing.T) {
	r := newRegistry()
	tag := event.TagFor[testPing]()

	id := r.add(event.PriorityNormal, tag, nopCallback(), nil, false)
	subs := r.snapshot(event.PriorityNormal)

	// Mutating the registry after snapshotting must not disturb the
	// snapshot the worker is iterating.
	r.remove(id)
	if len(subs) != 1 || subs[0].id != id {
		t.Error("expected snapshot to be unaffected by concurrent removal")
	}
	if r.snapshot(event.PriorityNormal) != nil {
		t.Error("expected fresh snapshot to reflect removal")
	}
}

func TestRegistry_ConcurrentAddRemove(t *testing.T) {
	r := newRegistry()
	tag := event.TagFor[testPing]()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := r.add(event.PriorityNormal, tag, nopCallback(), nil, false)
				r.snapshot(event.PriorityNormal)
				r.remove(id)
			}
		}()
	}
	wg.Wait()

	if r.count() != 0 {
		t.Errorf("expected empty registry after balanced add/remove, got %d", r.count())
	}
}
