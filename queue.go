package tarn

import (
	"context"
	"sync"
)

// emitQueue buffers values between a subscriber callback and the pump
// goroutine feeding a Watch channel. It is unbounded so the callback
// never blocks a delivery sweep on a slow channel reader.
type emitQueue[V any] struct {
	mu    sync.Mutex
	items []V
	wake  chan struct{}
}

func newEmitQueue[V any]() *emitQueue[V] {
	return &emitQueue[V]{wake: make(chan struct{}, 1)}
}

func (q *emitQueue[V]) push(v V) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *emitQueue[V]) pop() (V, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero V
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

// watchAdapter turns a callback subscription into a Source channel.
// The callback only queues; a pump goroutine moves values onto the
// channel in order. The channel closes when ctx ends, the store tears
// down, or the subscription completes, in the last case after queued
// values have been flushed to the reader.
func watchAdapter[V any](rt *runtime, ctx context.Context, subscribe func(func(V)) *Subscription) (<-chan V, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	out := make(chan V)
	if rt.currentState() == StateDestroyed {
		close(out)
		return out, nil
	}

	q := newEmitQueue[V]()
	sub := subscribe(func(v V) { q.push(v) })

	rt.wg.Add(1)
	go func() {
		defer rt.wg.Done()
		defer close(out)
		defer sub.Cancel()
		for {
			for {
				v, ok := q.pop()
				if !ok {
					break
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				case <-rt.ctx.Done():
					return
				}
			}
			select {
			case <-q.wake:
			case <-ctx.Done():
				return
			case <-rt.ctx.Done():
				return
			case <-sub.Done():
				// Flush values queued before completion.
				for {
					v, ok := q.pop()
					if !ok {
						return
					}
					select {
					case out <- v:
					case <-ctx.Done():
						return
					case <-rt.ctx.Done():
						return
					}
				}
			}
		}
	}()
	return out, nil
}
