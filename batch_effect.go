package tarn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// BatchEffect groups an effect's input into slices before handing them
// to the runner: a batch closes when it reaches maxSize values or when
// maxLatency has elapsed since its first value, whichever comes first.
// Everything else matches Effect: one merged input fed by Call and
// Bind, a single lazily started runner, and teardown that drains the
// input within the store's close timeout.
type BatchEffect[V any] struct {
	rt         *runtime
	name       string
	run        EffectFunc[[]V]
	maxSize    int
	maxLatency time.Duration

	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	started bool
	in      chan V
	done    chan struct{}
}

// NewBatchEffect declares a batching effect on the store. Batching
// suits operations that are cheaper in bulk, such as database inserts
// or batch API calls.
//
// Example:
//
//	flusher := tarn.NewBatchEffect(store, "bulk-insert", 100, time.Second,
//	    func(ctx context.Context, batches <-chan []Order) {
//	        for batch := range batches {
//	            if err := db.BulkInsert(ctx, batch); err != nil {
//	                log.Printf("insert %d orders: %v", len(batch), err)
//	            }
//	        }
//	    })
func NewBatchEffect[S, V any](s *Store[S], name string, maxSize int, maxLatency time.Duration, run EffectFunc[[]V]) *BatchEffect[V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	e := &BatchEffect[V]{
		rt:         s.rt,
		name:       name,
		run:        run,
		maxSize:    maxSize,
		maxLatency: maxLatency,
		in:         make(chan V, effectBuffer),
		done:       make(chan struct{}),
	}
	s.rt.registerEffect(e)
	return e
}

// NewBatchEffectPipeline declares a batching effect whose batches run
// through a Handler pipeline one at a time. A pipeline error is
// recorded as an effect fault; the next batch proceeds regardless.
func NewBatchEffectPipeline[S, V any](s *Store[S], name string, maxSize int, maxLatency time.Duration, h *Handler[[]V]) *BatchEffect[V] {
	return NewBatchEffect[S, V](s, name, maxSize, maxLatency, func(ctx context.Context, batches <-chan []V) {
		for batch := range batches {
			if _, err := h.Process(ctx, batch); err != nil {
				s.rt.effectFault(name, err)
			}
		}
	})
}

// start materializes the collector and runner on first use.
func (e *BatchEffect[V]) start() {
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

		batches := make(chan []V)
		go e.collect(batches)
		go func() {
			defer close(e.done)
			e.run(e.rt.ctx, batches)
		}()
	})
}

// collect groups input values into batches. The latency timer arms on
// the first value of each batch; a size flush leaves the timer running,
// and its late fire hits an empty buffer and does nothing.
func (e *BatchEffect[V]) collect(out chan<- []V) {
	defer close(out)

	var (
		timer clockz.Timer
		buf   []V
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		out <- buf
		buf = nil
	}

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case v, ok := <-e.in:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				flush()
				return
			}
			buf = append(buf, v)
			if len(buf) == 1 {
				if timer == nil {
					timer = e.rt.clock.NewTimer(e.maxLatency)
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C():
						default:
						}
					}
					timer.Reset(e.maxLatency)
				}
			}
			if len(buf) >= e.maxSize {
				flush()
			}

		case <-timerC:
			flush()
		}
	}
}

// Name returns the effect's name as carried in signals and faults.
func (e *BatchEffect[V]) Name() string {
	return e.name
}

// Call dispatches one value into the effect, starting the collector
// and runner on its first invocation. After teardown it is a no-op.
func (e *BatchEffect[V]) Call(v V) {
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

// Bind merges a source into the effect's input, interleaved with other
// bindings and direct calls in arrival order. Each Bind gets its own
// cancellable Binding.
func (e *BatchEffect[V]) Bind(ctx context.Context, src Source[V]) (*Binding, error) {
	e.start()
	return bindSource(e.rt, ctx, src, "effect:"+e.name, func(v V) error {
		e.Call(v)
		return nil
	})
}

// shutdown completes the merged input, which flushes any partial batch,
// and waits for a started runner to drain.
func (e *BatchEffect[V]) shutdown() {
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
