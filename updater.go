package tarn

import "context"

// Updater binds a value-shaped mutation to a store: fn folds an
// incoming value into the next state. One updater serves both the
// imperative path (Call) and the stream path (Bind), mirroring how the
// store itself splits Set and Bind-style input.
type Updater[S, V any] struct {
	store *Store[S]
	fn    func(S, V) S
}

// NewUpdater declares a reusable mutation on the store.
//
// Example:
//
//	addItem := tarn.NewUpdater(store, func(s CartState, item Item) CartState {
//	    s.Items = append(append([]Item(nil), s.Items...), item)
//	    return s
//	})
//	addItem.Call(item)
func NewUpdater[S, V any](s *Store[S], fn func(S, V) S) *Updater[S, V] {
	return &Updater[S, V]{store: s, fn: fn}
}

// Call folds one value into state immediately. It fails with
// UninitializedError before the store's first Set; a panic inside fn
// surfaces at the call site.
func (u *Updater[S, V]) Call(v V) error {
	return u.store.apply("update", true, func(cur S) S {
		return u.fn(cur, v)
	})
}

// Bind subscribes the updater to src: every value the source emits is
// folded into state in arrival order. Values the source already has
// ready are applied before Bind returns, and an error applying one of
// them is returned here directly, with the binding already closed.
// Errors on later values close only this binding; inspect them with
// Binding.Err.
func (u *Updater[S, V]) Bind(ctx context.Context, src Source[V]) (*Binding, error) {
	return bindSource(u.store.rt, ctx, src, "update", u.applyBound)
}

// applyBound is the Bind-side variant of Call: a panicking fn becomes
// a FaultError that closes the binding instead of unwinding the pump
// goroutine.
func (u *Updater[S, V]) applyBound(v V) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FaultError{Op: "update", Recovered: r}
		}
	}()
	return u.Call(v)
}

// Patcher binds a partial-update mutation to a store: fn assigns the
// fields carried by an incoming value onto a copy of the current
// state, which then commits as the next value.
type Patcher[S, V any] struct {
	store *Store[S]
	fn    func(*S, V)
}

// NewPatcher declares a reusable partial update on the store.
//
// Example:
//
//	setUser := tarn.NewPatcher(store, func(s *SessionState, u User) {
//	    s.User = u
//	    s.LoggedIn = true
//	})
func NewPatcher[S, V any](s *Store[S], fn func(*S, V)) *Patcher[S, V] {
	return &Patcher[S, V]{store: s, fn: fn}
}

// Call merges one value into state immediately. It fails with
// UninitializedError before the store's first Set; a panic inside fn
// surfaces at the call site.
func (p *Patcher[S, V]) Call(v V) error {
	return p.store.apply("patch", true, func(cur S) S {
		next := cur
		p.fn(&next, v)
		return next
	})
}

// Bind subscribes the patcher to src with the same synchronous-drain
// and per-binding error semantics as Updater.Bind.
func (p *Patcher[S, V]) Bind(ctx context.Context, src Source[V]) (*Binding, error) {
	return bindSource(p.store.rt, ctx, src, "patch", p.applyBound)
}

func (p *Patcher[S, V]) applyBound(v V) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FaultError{Op: "patch", Recovered: r}
		}
	}()
	return p.Call(v)
}

// Bind subscribes the store's Set to a source of full values: each
// value the source emits replaces state, the first one initializing
// the store. Errors follow the same per-binding rules as Updater.Bind.
func (s *Store[S]) Bind(ctx context.Context, src Source[S]) (*Binding, error) {
	return bindSource(s.rt, ctx, src, "set", func(v S) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &FaultError{Op: "set", Recovered: r}
			}
		}()
		s.Set(v)
		return nil
	})
}

// BindPatch subscribes the store's Patch to a stream of mutations:
// each function the source emits is applied as a shallow merge, in
// arrival order, under the same initialization requirement as Patch.
func (s *Store[S]) BindPatch(ctx context.Context, src Source[func(*S)]) (*Binding, error) {
	return bindSource(s.rt, ctx, src, "patch", func(mutate func(*S)) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &FaultError{Op: "patch", Recovered: r}
			}
		}()
		return s.Patch(mutate)
	})
}
