package tarn

import (
	"sync"
	"sync/atomic"
)

// snapshot is one immutable version of store state.
type snapshot[S any] struct {
	value   S
	version uint64
}

// cell holds the current snapshot and the root subscriber registry.
// Reads load the pointer without locking, so a reducer or subscriber
// can always call Get. Writers serialize on mu, and sweep items are
// enqueued while mu is held so subscribers observe versions in commit
// order.
type cell[S any] struct {
	mu      sync.Mutex
	current atomic.Pointer[snapshot[S]]
	subs    []*stateSub[S]
}

// stateSub is one registered observer of the cell.
type stateSub[S any] struct {
	fn        func(S)
	cancelled atomic.Bool
	sub       *Subscription
}

// remove detaches one subscriber from the registry. Sweeps iterate
// their own copy of the registry, so a concurrent removal only stops
// deliveries that have not started yet; the cancelled flag stops the
// rest.
func (c *cell[S]) remove(entry *stateSub[S]) {
	entry.cancelled.Store(true)
	c.mu.Lock()
	for i, e := range c.subs {
		if e == entry {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
}

// completeAll cancels and completes every subscriber at teardown.
func (c *cell[S]) completeAll() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, e := range subs {
		e.cancelled.Store(true)
		e.sub.complete()
	}
}
