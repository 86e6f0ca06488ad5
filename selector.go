package tarn

import (
	"context"
	"sync"
	"sync/atomic"
)

// SelectorOption configures a derived sequence.
type SelectorOption func(*selectorConfig)

type selectorConfig struct {
	batched bool
}

// Batched defers a selector's recomputation to the end of each delivery
// sweep: however many of its upstreams emit during one sweep, the
// selector recomputes once and subscribers see at most one emission
// carrying the settled result. Without it a selector recomputes eagerly
// on every upstream emission, including the intermediate states of a
// diamond-shaped graph.
func Batched() SelectorOption {
	return func(c *selectorConfig) { c.batched = true }
}

// selSub is one registered observer of a selector.
type selSub[R any] struct {
	fn        func(R)
	cancelled atomic.Bool
	sub       *Subscription
}

// Selector is a derived, memoized sequence over a store or other
// selectors. The projection runs once per upstream change no matter
// how many subscribers are attached, the result is multicast, and an
// emission is suppressed when the projected value equals the previous
// one.
//
// Selectors are lazy: upstream subscriptions attach on the first
// Subscribe and detach when the last subscriber cancels, which also
// clears the memo so a later subscriber starts from a fresh
// projection.
type Selector[R comparable] struct {
	rt *runtime

	// mu guards the fields below and the upstream slots captured by
	// the attach/compute/detach closures.
	mu        sync.Mutex
	subs      []*selSub[R]
	attached  bool
	attaching bool
	completed bool
	queued    bool
	last      R
	hasLast   bool

	batched bool
	attach  func()
	detach  func()
	compute func() (R, bool)
}

// Select derives a memoized sequence from the store: project runs once
// per committed value, and subscribers only hear about results that
// differ from the previous one. That change test uses ==, which is why
// R must be comparable; project a small struct of fields rather than a
// map or slice.
//
// Example:
//
//	total := tarn.Select(store, func(s CartState) int {
//	    n := 0
//	    for _, it := range s.Items {
//	        n += it.Qty
//	    }
//	    return n
//	})
//	sub := total.Subscribe(func(n int) { badge.SetCount(n) })
func Select[S any, R comparable](s *Store[S], project func(S) R, opts ...SelectorOption) *Selector[R] {
	var cfg selectorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	n := &Selector[R]{rt: s.rt, batched: cfg.batched}

	var (
		latest S
		ready  bool
		sub    *Subscription
	)
	n.compute = func() (R, bool) {
		if !ready {
			var zero R
			return zero, false
		}
		return project(latest), true
	}
	n.attach = func() {
		sub = s.Subscribe(func(v S) {
			n.mu.Lock()
			latest = v
			ready = true
			n.mu.Unlock()
			n.invalidate()
		})
	}
	n.detach = func() {
		if sub != nil {
			sub.Cancel()
			sub = nil
		}
		n.mu.Lock()
		ready = false
		n.mu.Unlock()
	}

	s.rt.registerSelector(n)
	return n
}

// Subscribe registers fn for projected values. The first subscriber
// attaches the upstream subscriptions, which replay their current
// values and produce the selector's first emission once the projection
// has input. Later subscribers get the memoized value replayed.
// Cancelling the last subscriber detaches upstream and clears the
// memo.
func (n *Selector[R]) Subscribe(fn func(R)) *Subscription {
	entry := &selSub[R]{fn: fn}
	entry.sub = newSubscription(func() { n.remove(entry) })

	n.mu.Lock()
	if n.completed {
		n.mu.Unlock()
		return completedSubscription()
	}
	n.subs = append(n.subs, entry)
	if !n.attached {
		n.attached = true
		n.attaching = true
		n.mu.Unlock()

		n.attach()

		// The subscriber may have cancelled during the attach replay.
		n.mu.Lock()
		n.attaching = false
		empty := len(n.subs) == 0 && !n.completed
		if empty {
			n.reset()
		}
		n.mu.Unlock()
		if empty {
			n.detach()
		}
		return entry.sub
	}

	if n.hasLast {
		v := n.last
		n.mu.Unlock()
		n.rt.dispatch(func() {
			if entry.cancelled.Load() {
				return
			}
			entry.fn(v)
		})
		return entry.sub
	}
	n.mu.Unlock()
	return entry.sub
}

// Watch adapts the selector to the Source contract: the channel
// carries each distinct projected value and closes when ctx ends or
// the store is destroyed.
func (n *Selector[R]) Watch(ctx context.Context) (<-chan R, error) {
	return watchAdapter(n.rt, ctx, n.Subscribe)
}

// invalidate marks the selector dirty after an upstream emission.
// Eager selectors recompute immediately; batched ones join the
// end-of-sweep flush queue, once per sweep.
func (n *Selector[R]) invalidate() {
	if !n.batched {
		n.recompute()
		return
	}
	n.mu.Lock()
	if n.queued || n.completed {
		n.mu.Unlock()
		return
	}
	n.queued = true
	n.mu.Unlock()
	n.rt.enqueueFlush(n)
}

// flushNow runs the deferred recompute at the end of a delivery sweep.
func (n *Selector[R]) flushNow() {
	n.mu.Lock()
	n.queued = false
	n.mu.Unlock()
	n.recompute()
}

// recompute runs the projection and multicasts the result when it
// differs from the memoized previous value. Emissions happen outside
// the selector lock.
func (n *Selector[R]) recompute() {
	v, emit, targets := n.step()
	if !emit {
		return
	}
	for _, t := range targets {
		if t.cancelled.Load() {
			continue
		}
		t.fn(v)
	}
}

// step is the locked half of recompute. The projection runs under mu;
// a panic inside it unwinds to whoever committed the upstream change
// with the lock released.
func (n *Selector[R]) step() (R, bool, []*selSub[R]) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var zero R
	if n.completed || !n.attached {
		return zero, false, nil
	}
	v, ready := n.compute()
	if !ready {
		return zero, false, nil
	}
	if n.hasLast && v == n.last {
		return zero, false, nil
	}
	n.last = v
	n.hasLast = true
	targets := make([]*selSub[R], len(n.subs))
	copy(targets, n.subs)
	return v, true, targets
}

// remove detaches one subscriber; the last one out also detaches
// upstream, unless an attach is still in flight on another frame.
func (n *Selector[R]) remove(entry *selSub[R]) {
	entry.cancelled.Store(true)
	n.mu.Lock()
	for i, e := range n.subs {
		if e == entry {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	lastGone := n.attached && !n.attaching && len(n.subs) == 0 && !n.completed
	if lastGone {
		n.reset()
	}
	n.mu.Unlock()
	if lastGone {
		n.detach()
	}
}

// reset clears attachment and the memo. Caller holds mu.
func (n *Selector[R]) reset() {
	n.attached = false
	n.hasLast = false
	var zero R
	n.last = zero
}

// complete ends the sequence at store teardown.
func (n *Selector[R]) complete() {
	n.mu.Lock()
	if n.completed {
		n.mu.Unlock()
		return
	}
	n.completed = true
	subs := n.subs
	n.subs = nil
	wasAttached := n.attached
	n.attached = false
	n.mu.Unlock()

	if wasAttached {
		n.detach()
	}
	for _, e := range subs {
		e.cancelled.Store(true)
		e.sub.complete()
	}
}
