package tarn

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Defaults applied by New when no option overrides them.
const (
	// DefaultFaultHistory is how many faults a store retains for
	// FaultHistory.
	DefaultFaultHistory = 16

	// DefaultCloseTimeout bounds how long Close waits for a running
	// effect to finish draining its input.
	DefaultCloseTimeout = 5 * time.Second
)

// config collects construction options before the runtime is built.
type config struct {
	name         string
	clock        clockz.Clock
	metrics      MetricsProvider
	owner        any
	faultHistory int
	closeTimeout time.Duration
	syncMode     bool
}

// Option configures a store at construction.
type Option func(*config)

// WithName overrides the name carried in errors, signals, and metrics.
// The default is derived from the state type, e.g. "Store[appState]".
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithClock substitutes the clock behind interval sources, fault
// timestamps, and teardown timers. Tests pass a fake clock to drive
// time-based sources deterministically.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithMetrics installs a metrics provider. The default discards
// everything.
func WithMetrics(m MetricsProvider) Option {
	return func(c *config) { c.metrics = m }
}

// WithOwner declares the component the store belongs to. An owner that
// implements ConstructHook or InitHook is called back at the matching
// lifecycle points.
func WithOwner(owner any) Option {
	return func(c *config) { c.owner = owner }
}

// WithFaultHistory sets how many faults the store retains. Zero
// disables retention entirely.
func WithFaultHistory(n int) Option {
	return func(c *config) { c.faultHistory = n }
}

// WithCloseTimeout bounds how long Close waits for each running effect
// to drain before giving up on it.
func WithCloseTimeout(d time.Duration) Option {
	return func(c *config) { c.closeTimeout = d }
}

// WithSyncMode disables the asynchronous pumps behind Bind so tests can
// step bound sources by hand with Binding.Pump. Values a source has
// already emitted are still consumed synchronously at bind time.
func WithSyncMode() Option {
	return func(c *config) { c.syncMode = true }
}

// Store is a single-owner container for one value of type S. It starts
// empty: until the first Set arrives, reads fail with
// UninitializedError and no subscriber or selector observes anything.
// From then on every mutation commits a new immutable snapshot, and
// subscribers receive committed values in order.
//
// All methods are safe for concurrent use. Reads are lock-free.
// Mutations serialize on a writer lock, so an updater always runs
// against the latest committed value, including when it was triggered
// from inside a subscriber callback.
type Store[S any] struct {
	rt   *runtime
	cell cell[S]
}

// New constructs an empty store. Nothing is observable until the first
// Set; an owner passed via WithOwner gets its ConstructHook invoked
// before New returns.
func New[S any](opts ...Option) *Store[S] {
	cfg := config{
		clock:        clockz.RealClock,
		metrics:      NoOpMetricsProvider{},
		faultHistory: DefaultFaultHistory,
		closeTimeout: DefaultCloseTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = defaultName[S]()
	}

	s := &Store[S]{rt: newRuntime(cfg)}

	capitan.Emit(s.rt.ctx, StoreCreated,
		KeyStore.Field(s.rt.name),
		KeyState.Field(s.rt.currentState().String()))

	if h, ok := cfg.owner.(ConstructHook); ok {
		capitan.Emit(s.rt.ctx, HookInvoked,
			KeyStore.Field(s.rt.name),
			KeyHook.Field("construct"))
		h.OnStoreConstruct()
	}
	return s
}

// NewWithState constructs a store already holding initial. The owner's
// construct hook still runs first, then the initial value commits and
// the init hook fires, exactly as if New were followed by Set.
func NewWithState[S any](initial S, opts ...Option) *Store[S] {
	s := New[S](opts...)
	s.Set(initial)
	return s
}

func defaultName[S any]() string {
	t := reflect.TypeOf((*S)(nil)).Elem()
	return fmt.Sprintf("Store[%s]", t.String())
}

// Set replaces the store's value. The first Set initializes the store
// and releases everything held back by the uninitialized gate: replays,
// selectors, and the owner's init hook.
func (s *Store[S]) Set(v S) {
	_ = s.apply("set", false, func(S) S { return v })
}

// Update commits the value derived from the current one. The store
// must be initialized. Updates triggered from inside a subscriber
// callback are applied immediately but delivered after the in-flight
// sweep, so observers still see every version in commit order.
func (s *Store[S]) Update(fn func(S) S) error {
	return s.apply("update", true, fn)
}

// Patch shallow-merges a partial change: mutate receives a copy of the
// current value, assigns the fields it wants to change, and the copy
// commits as the next value. The store must be initialized.
func (s *Store[S]) Patch(mutate func(*S)) error {
	return s.apply("patch", true, func(cur S) S {
		next := cur
		mutate(&next)
		return next
	})
}

// apply is the single mutation path: reject when destroyed or
// uninitialized, commit, then run the side effects of a successful
// commit in order.
func (s *Store[S]) apply(op string, requireInit bool, reduce func(S) S) error {
	if s.rt.currentState() == StateDestroyed {
		s.rt.rejected(op, "destroyed", nil)
		return nil
	}
	start := s.rt.clock.Now()

	first, err := s.commit(requireInit, reduce)
	if err != nil {
		s.rt.rejected(op, "uninitialized", err)
		return err
	}
	if first {
		s.rt.initialized()
	}
	s.rt.metrics.OnUpdateApplied(s.rt.clock.Since(start))
	s.rt.kick()
	return nil
}

// commit performs the locked portion of a mutation: run the reducer
// against the latest snapshot, store its successor, and enqueue the
// delivery sweep while still holding the lock so sweeps line up in
// version order.
func (s *Store[S]) commit(requireInit bool, reduce func(S) S) (first bool, err error) {
	s.cell.mu.Lock()
	defer s.cell.mu.Unlock()

	cur := s.cell.current.Load()
	if requireInit && cur == nil {
		return false, &UninitializedError{Store: s.rt.name}
	}

	var base S
	var version uint64
	if cur != nil {
		base = cur.value
		version = cur.version
	}
	next := reduce(base) // may panic; the defer releases the lock

	s.cell.current.Store(&snapshot[S]{value: next, version: version + 1})

	if len(s.cell.subs) > 0 {
		targets := make([]*stateSub[S], len(s.cell.subs))
		copy(targets, s.cell.subs)
		s.rt.enqueue(func() {
			for _, t := range targets {
				if t.cancelled.Load() {
					continue
				}
				t.fn(next)
			}
		})
	}
	return cur == nil, nil
}

// Get returns the current value. It fails with UninitializedError until
// the first Set commits. After Close it keeps returning the final
// value.
func (s *Store[S]) Get() (S, error) {
	if snap := s.cell.current.Load(); snap != nil {
		return snap.value, nil
	}
	var zero S
	return zero, &UninitializedError{Store: s.rt.name}
}

// Read projects the current value without subscribing. The projection
// runs synchronously on the caller; a panic inside it surfaces at the
// call site.
func Read[S, R any](s *Store[S], project func(S) R) (R, error) {
	v, err := s.Get()
	if err != nil {
		var zero R
		return zero, err
	}
	return project(v), nil
}

// Subscribe registers fn to receive every committed value, starting
// with a replay of the current one when the store is initialized. An
// uninitialized store delivers nothing until its first Set. Callbacks
// for one store run sequentially.
func (s *Store[S]) Subscribe(fn func(S)) *Subscription {
	entry := &stateSub[S]{fn: fn}
	entry.sub = newSubscription(func() { s.cell.remove(entry) })

	s.cell.mu.Lock()
	if s.rt.currentState() == StateDestroyed {
		s.cell.mu.Unlock()
		return completedSubscription()
	}
	s.cell.subs = append(s.cell.subs, entry)
	cur := s.cell.current.Load()
	if cur != nil {
		v := cur.value
		s.rt.enqueue(func() {
			if entry.cancelled.Load() {
				return
			}
			entry.fn(v)
		})
	}
	s.cell.mu.Unlock()

	if cur != nil {
		s.rt.kick()
	}
	return entry.sub
}

// Watch adapts the store to the Source contract: the returned channel
// carries the replayed current value followed by every later commit,
// and closes when ctx ends or the store is destroyed. A store can
// therefore feed another store's Bind directly.
func (s *Store[S]) Watch(ctx context.Context) (<-chan S, error) {
	return watchAdapter(s.rt, ctx, s.Subscribe)
}

// State reports the store's lifecycle state.
func (s *Store[S]) State() State {
	return s.rt.currentState()
}

// Name returns the store's name as carried in errors and signals.
func (s *Store[S]) Name() string {
	return s.rt.name
}

// LastFault returns the most recent recorded fault, or nil.
func (s *Store[S]) LastFault() *Fault {
	return s.rt.faults.last()
}

// FaultHistory returns retained faults, oldest first.
func (s *Store[S]) FaultHistory() []Fault {
	return s.rt.faults.history()
}

// Close tears the store down: live bindings are cancelled, effect
// inputs complete and drain, selector and subscriber Done channels
// close. Idempotent. A closed store ignores further mutations, and
// reads keep returning the final value.
func (s *Store[S]) Close() error {
	s.rt.closeOnce.Do(func() {
		old := State(s.rt.state.Swap(int32(StateDestroyed)))
		s.rt.shutdown()
		s.cell.completeAll()
		s.rt.metrics.OnStateChange(old, StateDestroyed)
		capitan.Emit(context.Background(), StoreStateChanged,
			KeyStore.Field(s.rt.name),
			KeyOldState.Field(old.String()),
			KeyNewState.Field(StateDestroyed.String()))
		capitan.Emit(context.Background(), StoreDestroyed,
			KeyStore.Field(s.rt.name))
	})
	return nil
}
