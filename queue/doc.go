// Package queue provides the unbounded blocking FIFO the bus stores pending
// events in. A single consumer (the dispatch worker) pops from it while any
// number of producers push concurrently.
//
// The queue is guarded by one mutex and a condition variable. Push stamps the
// event's queue position under the same lock that performs the insertion, so
// the stamp and the insertion are atomic with respect to other producers.
// Shutdown is idempotent: it wakes every waiter, and once the queue drains,
// Pop reports that no further items will arrive.
package queue
