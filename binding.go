package tarn

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// Subscription is the handle for one observer of a store or selector
// sequence. Cancel detaches the observer; Done closes when the
// subscription ends, whether by Cancel or by the sequence completing at
// store teardown.
type Subscription struct {
	once sync.Once
	done chan struct{}
	stop func()
}

func newSubscription(stop func()) *Subscription {
	return &Subscription{done: make(chan struct{}), stop: stop}
}

func completedSubscription() *Subscription {
	s := newSubscription(nil)
	s.complete()
	return s
}

// Cancel detaches the observer. Idempotent. A delivery already in
// flight on another goroutine may still land.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
		close(s.done)
	})
}

// Done closes when the subscription has ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// complete ends the subscription without detaching; teardown has
// already discarded the registry it belonged to.
func (s *Subscription) complete() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Binding is the per-call handle returned when a source is bound to a
// dispatcher. Each Bind call gets its own binding; cancelling one stops
// only that source's consumption and leaves every other binding and the
// store itself untouched.
type Binding struct {
	id     string
	op     string
	rt     *runtime
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu  sync.Mutex
	err error

	pump func() bool
}

func newBinding(rt *runtime, op string, cancel context.CancelFunc) *Binding {
	return &Binding{
		id:     uuid.Must(uuid.NewV7()).String(),
		op:     op,
		rt:     rt,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the binding's unique identifier, as carried in signals.
func (b *Binding) ID() string {
	return b.id
}

// Cancel closes the binding and stops consuming its source. Idempotent.
func (b *Binding) Cancel() {
	b.finish(nil)
}

// Done closes when the binding has ended: cancelled, source completed,
// store torn down, or failed.
func (b *Binding) Done() <-chan struct{} {
	return b.done
}

// Err reports why the binding ended. It is nil after cancellation or
// completion; after a failure it holds the UninitializedError or
// FaultError that closed the binding. Meaningful once Done has closed.
func (b *Binding) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Pump delivers the next pending value synchronously in sync mode. It
// returns false when nothing is pending or the binding has ended.
// Outside sync mode it always returns false.
func (b *Binding) Pump() bool {
	if b.pump == nil {
		return false
	}
	return b.pump()
}

func (b *Binding) finish(err error) {
	b.once.Do(func() {
		if err != nil {
			b.mu.Lock()
			b.err = err
			b.mu.Unlock()
			b.rt.faults.record(b.op, err)
			capitan.Emit(context.Background(), SourceFaulted,
				KeyStore.Field(b.rt.name),
				KeyBinding.Field(b.id),
				KeyOp.Field(b.op),
				KeyError.Field(err.Error()))
		}
		if b.cancel != nil {
			b.cancel()
		}
		b.rt.bindings.Remove(b)
		capitan.Emit(context.Background(), SourceUnbound,
			KeyStore.Field(b.rt.name),
			KeyBinding.Field(b.id),
			KeyOp.Field(b.op))
		close(b.done)
	})
}

// bindSource subscribes src on behalf of a dispatcher. Values already
// available are applied synchronously before it returns; if one of them
// fails, the error is returned with the binding already closed. Later
// values are applied in arrival order by a pump goroutine, or by
// Binding.Pump in sync mode. A failure on the asynchronous path records
// the error on the binding and closes only this binding.
func bindSource[V any](rt *runtime, ctx context.Context, src Source[V], op string, apply func(V) error) (*Binding, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if rt.currentState() == StateDestroyed {
		b := newBinding(rt, op, nil)
		b.finish(nil)
		return b, nil
	}

	bctx, cancel := context.WithCancel(ctx)
	ch, err := src.Watch(bctx)
	if err != nil {
		cancel()
		return nil, err
	}

	b := newBinding(rt, op, cancel)
	rt.bindings.Add(b)
	capitan.Emit(rt.ctx, SourceBound,
		KeyStore.Field(rt.name),
		KeyBinding.Field(b.id),
		KeyOp.Field(op))

	// Synchronous emissions: consume everything already waiting.
drain:
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				b.finish(nil)
				return b, nil
			}
			rt.metrics.OnSourceValue()
			if aerr := apply(v); aerr != nil {
				b.finish(aerr)
				return b, aerr
			}
		default:
			break drain
		}
	}

	if rt.syncMode {
		b.pump = func() bool {
			select {
			case <-b.done:
				return false
			default:
			}
			select {
			case v, ok := <-ch:
				if !ok {
					b.finish(nil)
					return false
				}
				rt.metrics.OnSourceValue()
				if aerr := apply(v); aerr != nil {
					b.finish(aerr)
					return false
				}
				return true
			default:
				return false
			}
		}
		return b, nil
	}

	rt.wg.Add(1)
	go func() {
		defer rt.wg.Done()
		for {
			select {
			case <-bctx.Done():
				b.finish(nil)
				return
			case <-rt.ctx.Done():
				b.finish(nil)
				return
			case v, ok := <-ch:
				if !ok {
					b.finish(nil)
					return
				}
				rt.metrics.OnSourceValue()
				if aerr := apply(v); aerr != nil {
					b.finish(aerr)
					return
				}
			}
		}
	}()
	return b, nil
}
