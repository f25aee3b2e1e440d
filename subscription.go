package pulse

import (
	"github.com/dshills/pulse/dispatch"
	"github.com/dshills/pulse/event"
)

// SubscriptionID identifies a subscription. IDs are process-unique,
// monotonically increasing, and never reused, even after unsubscription.
type SubscriptionID uint64

// subscription pairs a type-erased callback with the concrete event type it
// accepts and the tier it was registered under. The registry owns it
// exclusively from registration until removal.
type subscription struct {
	id       SubscriptionID
	tag      event.Tag
	tier     event.Priority
	callback dispatch.Callback
	filter   dispatch.Predicate // nil means deliver unconditionally
	once     bool
}
