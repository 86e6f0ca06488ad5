/*
Package tarn provides a single-owner reactive state container: one
current value per store, mutated only through dispatchers the owner
defines, observed through ordered subscriptions and memoized
selectors, with side effects consumed from merged input streams.

A store starts empty. Nothing is observable until the first Set
commits, and value-dependent mutations fail with UninitializedError
until then. From the first commit on, subscribers see every version in
commit order, selectors recompute once per change, and reads are
lock-free.

# Basic Usage

Create a store, mutate it through dispatchers, observe it through
subscriptions:

	type CartState struct {
	    Items    int
	    Checkout bool
	}

	store := tarn.NewWithState(CartState{})

	addItems := tarn.NewUpdater(store, func(s CartState, n int) CartState {
	    s.Items += n
	    return s
	})

	sub := store.Subscribe(func(s CartState) {
	    fmt.Printf("items=%d checkout=%v\n", s.Items, s.Checkout)
	})
	defer sub.Cancel()

	addItems.Call(2)
	store.Patch(func(s *CartState) { s.Checkout = true })

# Selectors

Selectors derive memoized values from the store. The projection runs
once per change no matter how many subscribers listen, and emissions
are suppressed when the projected value did not change:

	items := tarn.Select(store, func(s CartState) int { return s.Items })
	ready := tarn.Select(store, func(s CartState) bool { return s.Checkout })

	summary := tarn.Select2(items, ready, func(n int, ok bool) string {
	    return fmt.Sprintf("%d items, checkout=%v", n, ok)
	}, tarn.Batched())

Batched defers a combination to the end of the delivery sweep, so one
state change produces one settled emission instead of one per
upstream.

# Sources

Anything implementing Source can feed a dispatcher. Each Bind returns
its own cancellable handle:

	ticks := tarn.NewIntervalSource(clock, time.Second)
	binding, err := addItems.Bind(ctx, ticks)
	...
	binding.Cancel()

File-backed stores decode and validate payloads before they reach
state:

	src := tarn.NewFileSource[Limits]("/etc/app/limits.yaml", tarn.WithValidation())
	binding, err := limitsUpdater.Bind(ctx, src)

# Effects

Effects consume values off the state path. All Call and Bind traffic
for one effect merges into a single stream, consumed by one runner
that starts on first use and lives until teardown:

	saver := tarn.NewEffect(store, "save", func(ctx context.Context, orders <-chan Order) {
	    for o := range orders {
	        save(ctx, o)
	    }
	})
	saver.Call(order)

Pipeline-shaped effects get retries, timeouts, and circuit breaking
from pipz connectors:

	h := tarn.ForEach("publish", publishFn).
	    WithRetry(3).
	    WithTimeout(5 * time.Second)
	publisher := tarn.NewEffectPipeline(store, "publish", h)

NewBatchEffect collects values into size- or latency-bounded batches
before the runner sees them, and Transitions exposes the commit stream
as before/after pairs for audit-shaped effects:

	audit := tarn.NewEffect(store, "audit", func(ctx context.Context, changes <-chan tarn.Transition[CartState]) {
	    for c := range changes {
	        log(c.Previous, c.Current)
	    }
	})
	audit.Bind(ctx, tarn.Transitions(store))

# Lifecycle

Close is idempotent and tears everything down in order: bindings
cancel, effect inputs complete and drain, subscriber and selector Done
channels close. A closed store ignores further mutations; reads keep
returning the final value.

The package is built on top of:
  - pipz: for composable effect pipelines
  - capitan: for lifecycle signals
  - clockz: for testable time
*/
package tarn
