package pulse

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/pulse/dispatch"
	"github.com/dshills/pulse/event"
)

// registry is the priority-bucketed collection of subscriptions. It has its
// own lock, independent of the queue and the metrics store, and the lock is
// never held across a callback invocation: the worker iterates copy-out
// snapshots, so Subscribe/Unsubscribe called from inside a callback cannot
// deadlock against the cascade calling it.
type registry struct {
	mu     sync.RWMutex
	tiers  [len(event.Tiers)][]*subscription
	nextID atomic.Uint64
}

// newRegistry creates an empty registry.
func newRegistry() *registry {
	return &registry{}
}

// add allocates a fresh subscription ID and inserts a subscription under
// the given tier. Insertion order within a tier is preserved.
func (r *registry) add(tier event.Priority, tag event.Tag, cb dispatch.Callback, filter dispatch.Predicate, once bool) SubscriptionID {
	id := SubscriptionID(r.nextID.Add(1))

	sub := &subscription{
		id:       id,
		tag:      tag,
		tier:     tier,
		callback: cb,
		filter:   filter,
		once:     once,
	}

	r.mu.Lock()
	r.tiers[tier] = append(r.tiers[tier], sub)
	r.mu.Unlock()

	return id
}

// remove scans all tiers for the subscription and removes the first match.
// Returns whether anything was removed.
func (r *registry) remove(id SubscriptionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for t := range r.tiers {
		subs := r.tiers[t]
		for i, sub := range subs {
			if sub.id == id {
				r.tiers[t] = append(subs[:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// snapshot returns a copy of the current subscriptions for a tier, in
// insertion order. The worker iterates the copy with no lock held.
func (r *registry) snapshot(tier event.Priority) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.tiers[tier]
	if len(subs) == 0 {
		return nil
	}
	out := make([]*subscription, len(subs))
	copy(out, subs)
	return out
}

// count returns the total number of registered subscriptions.
func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for t := range r.tiers {
		n += len(r.tiers[t])
	}
	return n
}

// countTier returns the number of subscriptions registered under a tier.
func (r *registry) countTier(tier event.Priority) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tiers[tier])
}
