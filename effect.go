package tarn

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
)

// effectBuffer is the capacity of an effect's merged input channel.
const effectBuffer = 64

// EffectFunc consumes an effect's merged input stream. It runs on its
// own goroutine; the channel closes at store teardown, and ctx cancels
// at the same time for runners that block elsewhere.
type EffectFunc[V any] func(ctx context.Context, values <-chan V)

// Effect is a named side-effect channel owned by a store. All Call and
// Bind traffic for the effect merges, in arrival order, into one input
// stream consumed by a single runner invocation. The runner starts
// lazily on the first Call or Bind and lives until teardown, so
// stateful consumption (batching, dedup, sliding windows) works across
// dispatches.
type Effect[V any] struct {
	rt   *runtime
	name string
	run  EffectFunc[V]

	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	started bool
	in      chan V
	done    chan struct{}
}

// NewEffect declares an effect on the store. The runner does not start
// until the first Call or Bind.
//
// Example:
//
//	saver := tarn.NewEffect(store, "save", func(ctx context.Context, orders <-chan Order) {
//	    for o := range orders {
//	        if err := db.Save(ctx, o); err != nil {
//	            log.Printf("save %s: %v", o.ID, err)
//	        }
//	    }
//	})
func NewEffect[S, V any](s *Store[S], name string, run EffectFunc[V]) *Effect[V] {
	e := &Effect[V]{
		rt:   s.rt,
		name: name,
		run:  run,
		in:   make(chan V, effectBuffer),
		done: make(chan struct{}),
	}
	s.rt.registerEffect(e)
	return e
}

// NewEffectPipeline declares an effect whose values run through a
// Handler pipeline one at a time. A pipeline error is recorded as an
// effect fault; it never stops the effect, which keeps consuming until
// teardown.
func NewEffectPipeline[S, V any](s *Store[S], name string, h *Handler[V]) *Effect[V] {
	return NewEffect[S, V](s, name, func(ctx context.Context, values <-chan V) {
		for v := range values {
			if _, err := h.Process(ctx, v); err != nil {
				s.rt.effectFault(name, err)
			}
		}
	})
}

// start materializes the runner on first use.
func (e *Effect[V]) start() {
	e.once.Do(func() {
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return
		}
		e.started = true
		e.mu.Unlock()

		capitan.Emit(e.rt.ctx, EffectStarted,
			KeyStore.Field(e.rt.name),
			KeyEffect.Field(e.name))
		go func() {
			defer close(e.done)
			e.run(e.rt.ctx, e.in)
		}()
	})
}

// Name returns the effect's name as carried in signals and faults.
func (e *Effect[V]) Name() string {
	return e.name
}

// Call dispatches one value into the effect, starting the runner on
// its first invocation. After teardown it is a no-op. Call only blocks
// when the input buffer is full and the runner has stalled; teardown
// unblocks it.
func (e *Effect[V]) Call(v V) {
	e.start()
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	select {
	case e.in <- v:
	case <-e.rt.ctx.Done():
	}
}

// Bind merges a source into the effect's input: each value the source
// emits becomes one dispatch, interleaved with other bindings and
// direct calls in arrival order. Each Bind gets its own cancellable
// Binding; cancelling it leaves the effect and its other inputs
// running.
func (e *Effect[V]) Bind(ctx context.Context, src Source[V]) (*Binding, error) {
	e.start()
	return bindSource(e.rt, ctx, src, "effect:"+e.name, func(v V) error {
		e.Call(v)
		return nil
	})
}

// shutdown completes the merged input and waits for a started runner
// to drain, bounded by the store's close timeout.
func (e *Effect[V]) shutdown() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	started := e.started
	close(e.in)
	e.mu.Unlock()

	if !started {
		return
	}
	timer := e.rt.clock.NewTimer(e.rt.closeTimeout)
	defer timer.Stop()
	select {
	case <-e.done:
	case <-timer.C():
		e.rt.effectFault(e.name, fmt.Errorf("runner still draining after %v", e.rt.closeTimeout))
	}
}
