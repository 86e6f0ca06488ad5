package tarn

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// runtime carries the store machinery that does not depend on the state
// type: the delivery loop, the batched-selector queue, binding and
// selector registries, lifecycle state, and diagnostics plumbing.
// Typed components (selectors, effects, bindings) hold a *runtime so
// they can participate without knowing the state type.
type runtime struct {
	name         string
	clock        clockz.Clock
	metrics      MetricsProvider
	syncMode     bool
	closeTimeout time.Duration
	owner        any

	ctx    context.Context
	cancel context.CancelFunc
	state  atomic.Int32
	wg     sync.WaitGroup

	bindings mapset.Set[*Binding]
	faults   *faultLog

	// Delivery loop. Every subscriber callback runs as an item on this
	// queue, drained single-flight: the goroutine that finds the queue
	// idle drains it, and items enqueued from inside a callback run
	// after the current item, in order. This is what keeps reentrant
	// updates deadlock-free while preserving arrival order.
	loopMu   sync.Mutex
	loopQ    []func()
	draining bool

	// Batched selectors marked dirty during the current sweep.
	flushMu sync.Mutex
	flushQ  []flusher

	selMu     sync.Mutex
	selectors []completer

	effMu   sync.Mutex
	effects []stoppable

	closeOnce sync.Once
}

// completer is a sequence that must complete at teardown.
type completer interface{ complete() }

// flusher is a batched selector waiting for its end-of-sweep recompute.
type flusher interface{ flushNow() }

// stoppable is an effect that teardown must drain.
type stoppable interface{ shutdown() }

func newRuntime(cfg config) *runtime {
	ctx, cancel := context.WithCancel(context.Background())
	rt := &runtime{
		name:         cfg.name,
		clock:        cfg.clock,
		metrics:      cfg.metrics,
		syncMode:     cfg.syncMode,
		closeTimeout: cfg.closeTimeout,
		owner:        cfg.owner,
		ctx:          ctx,
		cancel:       cancel,
		bindings:     mapset.NewSet[*Binding](),
		faults:       newFaultLog(cfg.faultHistory, cfg.clock),
	}
	rt.state.Store(int32(StateUninitialized))
	return rt
}

func (rt *runtime) currentState() State {
	return State(rt.state.Load())
}

// enqueue appends a delivery item without starting the drain. Writers
// append while still holding the snapshot lock so that items line up in
// version order, then kick after releasing it.
func (rt *runtime) enqueue(f func()) {
	rt.loopMu.Lock()
	rt.loopQ = append(rt.loopQ, f)
	rt.loopMu.Unlock()
}

// kick drains the delivery queue unless another goroutine already is.
func (rt *runtime) kick() {
	rt.loopMu.Lock()
	if rt.draining || len(rt.loopQ) == 0 {
		rt.loopMu.Unlock()
		return
	}
	rt.draining = true
	rt.loopMu.Unlock()
	rt.drain()
}

// dispatch enqueues one item and drains.
func (rt *runtime) dispatch(f func()) {
	rt.enqueue(f)
	rt.kick()
}

func (rt *runtime) drain() {
	// A panicking subscriber propagates to whoever triggered the
	// change. The queue keeps its remaining items; the next change
	// resumes delivery.
	defer func() {
		rt.loopMu.Lock()
		rt.draining = false
		rt.loopMu.Unlock()
	}()
	for {
		rt.loopMu.Lock()
		if len(rt.loopQ) == 0 {
			rt.loopMu.Unlock()
			return
		}
		f := rt.loopQ[0]
		rt.loopQ = rt.loopQ[1:]
		rt.loopMu.Unlock()
		f()
		rt.flush()
	}
}

// flush recomputes batched selectors marked dirty during the item that
// just ran. A recomputation may dirty further batched selectors, so the
// loop runs until the queue stays empty.
func (rt *runtime) flush() {
	for {
		rt.flushMu.Lock()
		if len(rt.flushQ) == 0 {
			rt.flushMu.Unlock()
			return
		}
		q := rt.flushQ
		rt.flushQ = nil
		rt.flushMu.Unlock()
		for _, n := range q {
			n.flushNow()
		}
	}
}

func (rt *runtime) enqueueFlush(n flusher) {
	rt.flushMu.Lock()
	rt.flushQ = append(rt.flushQ, n)
	rt.flushMu.Unlock()
}

func (rt *runtime) registerSelector(n completer) {
	rt.selMu.Lock()
	rt.selectors = append(rt.selectors, n)
	rt.selMu.Unlock()
}

func (rt *runtime) registerEffect(e stoppable) {
	rt.effMu.Lock()
	rt.effects = append(rt.effects, e)
	rt.effMu.Unlock()
}

// initialized performs the one-time transition out of
// StateUninitialized: metrics, signals, then the owner's init hook.
func (rt *runtime) initialized() {
	if !rt.state.CompareAndSwap(int32(StateUninitialized), int32(StateActive)) {
		return
	}
	rt.metrics.OnStateChange(StateUninitialized, StateActive)
	capitan.Emit(rt.ctx, StoreStateChanged,
		KeyStore.Field(rt.name),
		KeyOldState.Field(StateUninitialized.String()),
		KeyNewState.Field(StateActive.String()))
	capitan.Emit(rt.ctx, StoreInitialized, KeyStore.Field(rt.name))
	if h, ok := rt.owner.(InitHook); ok {
		capitan.Emit(rt.ctx, HookInvoked, KeyStore.Field(rt.name), KeyHook.Field("init"))
		h.OnStateInit()
	}
}

// rejected records a refused mutation.
func (rt *runtime) rejected(op, reason string, err error) {
	rt.metrics.OnUpdateRejected(reason)
	if err != nil {
		rt.faults.record(op, err)
		capitan.Emit(rt.ctx, UpdateRejected,
			KeyStore.Field(rt.name),
			KeyOp.Field(op),
			KeyReason.Field(reason),
			KeyError.Field(err.Error()))
		return
	}
	capitan.Emit(rt.ctx, UpdateRejected,
		KeyStore.Field(rt.name),
		KeyOp.Field(op),
		KeyReason.Field(reason))
}

// effectFault records a failed effect pipeline pass.
func (rt *runtime) effectFault(effect string, err error) {
	fault := &FaultError{Op: "effect:" + effect, Err: err}
	rt.faults.record(fault.Op, fault)
	rt.metrics.OnEffectFault(effect)
	capitan.Emit(rt.ctx, EffectFaulted,
		KeyStore.Field(rt.name),
		KeyEffect.Field(effect),
		KeyError.Field(err.Error()))
}

// shutdown tears the runtime down: cancel the container context, close
// live bindings, wait for pumps, drain effects, complete selectors.
// Cell subscribers complete in Store.Close after this returns.
func (rt *runtime) shutdown() {
	rt.cancel()
	for _, b := range rt.bindings.ToSlice() {
		b.finish(nil)
	}
	rt.wg.Wait()

	rt.effMu.Lock()
	effects := append([]stoppable(nil), rt.effects...)
	rt.effMu.Unlock()
	for _, e := range effects {
		e.shutdown()
	}

	rt.selMu.Lock()
	selectors := append([]completer(nil), rt.selectors...)
	rt.selMu.Unlock()
	for _, n := range selectors {
		n.complete()
	}
}
