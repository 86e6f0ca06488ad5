package tarn

// SelectFrom derives a selector from another selector, with the same
// memoization, change suppression, and lazy attach semantics as
// Select.
func SelectFrom[A, R comparable](sa *Selector[A], project func(A) R, opts ...SelectorOption) *Selector[R] {
	var cfg selectorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	n := &Selector[R]{rt: sa.rt, batched: cfg.batched}

	var (
		va  A
		oka bool
		sub *Subscription
	)
	n.compute = func() (R, bool) {
		if !oka {
			var zero R
			return zero, false
		}
		return project(va), true
	}
	n.attach = func() {
		sub = sa.Subscribe(func(v A) {
			n.mu.Lock()
			va, oka = v, true
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
		oka = false
		n.mu.Unlock()
	}

	sa.rt.registerSelector(n)
	return n
}

// Select2 combines two selectors: combine runs each time either
// upstream emits, once both have produced a value, and the result is
// subject to the same change suppression as Select. Combining eagerly
// means a change reaching both upstreams produces an intermediate
// result from the first and the settled result from the second; pass
// Batched to collapse those into the settled result only.
//
// Example:
//
//	summary := tarn.Select2(count, total, func(n int, sum int) string {
//	    return fmt.Sprintf("%d items, %d total", n, sum)
//	}, tarn.Batched())
func Select2[A, B, R comparable](sa *Selector[A], sb *Selector[B], combine func(A, B) R, opts ...SelectorOption) *Selector[R] {
	var cfg selectorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	n := &Selector[R]{rt: sa.rt, batched: cfg.batched}

	var (
		va   A
		vb   B
		oka  bool
		okb  bool
		subs []*Subscription
	)
	n.compute = func() (R, bool) {
		if !oka || !okb {
			var zero R
			return zero, false
		}
		return combine(va, vb), true
	}
	n.attach = func() {
		subs = []*Subscription{
			sa.Subscribe(func(v A) {
				n.mu.Lock()
				va, oka = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sb.Subscribe(func(v B) {
				n.mu.Lock()
				vb, okb = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
		}
	}
	n.detach = func() {
		for _, s := range subs {
			s.Cancel()
		}
		subs = nil
		n.mu.Lock()
		oka, okb = false, false
		n.mu.Unlock()
	}

	sa.rt.registerSelector(n)
	return n
}

// Select3 combines three selectors with Select2's semantics.
func Select3[A, B, C, R comparable](sa *Selector[A], sb *Selector[B], sc *Selector[C], combine func(A, B, C) R, opts ...SelectorOption) *Selector[R] {
	var cfg selectorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	n := &Selector[R]{rt: sa.rt, batched: cfg.batched}

	var (
		va   A
		vb   B
		vc   C
		oka  bool
		okb  bool
		okc  bool
		subs []*Subscription
	)
	n.compute = func() (R, bool) {
		if !oka || !okb || !okc {
			var zero R
			return zero, false
		}
		return combine(va, vb, vc), true
	}
	n.attach = func() {
		subs = []*Subscription{
			sa.Subscribe(func(v A) {
				n.mu.Lock()
				va, oka = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sb.Subscribe(func(v B) {
				n.mu.Lock()
				vb, okb = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sc.Subscribe(func(v C) {
				n.mu.Lock()
				vc, okc = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
		}
	}
	n.detach = func() {
		for _, s := range subs {
			s.Cancel()
		}
		subs = nil
		n.mu.Lock()
		oka, okb, okc = false, false, false
		n.mu.Unlock()
	}

	sa.rt.registerSelector(n)
	return n
}

// Select4 combines four selectors with Select2's semantics.
func Select4[A, B, C, D, R comparable](sa *Selector[A], sb *Selector[B], sc *Selector[C], sd *Selector[D], combine func(A, B, C, D) R, opts ...SelectorOption) *Selector[R] {
	var cfg selectorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	n := &Selector[R]{rt: sa.rt, batched: cfg.batched}

	var (
		va   A
		vb   B
		vc   C
		vd   D
		oka  bool
		okb  bool
		okc  bool
		okd  bool
		subs []*Subscription
	)
	n.compute = func() (R, bool) {
		if !oka || !okb || !okc || !okd {
			var zero R
			return zero, false
		}
		return combine(va, vb, vc, vd), true
	}
	n.attach = func() {
		subs = []*Subscription{
			sa.Subscribe(func(v A) {
				n.mu.Lock()
				va, oka = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sb.Subscribe(func(v B) {
				n.mu.Lock()
				vb, okb = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sc.Subscribe(func(v C) {
				n.mu.Lock()
				vc, okc = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sd.Subscribe(func(v D) {
				n.mu.Lock()
				vd, okd = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
		}
	}
	n.detach = func() {
		for _, s := range subs {
			s.Cancel()
		}
		subs = nil
		n.mu.Lock()
		oka, okb, okc, okd = false, false, false, false
		n.mu.Unlock()
	}

	sa.rt.registerSelector(n)
	return n
}

// Select5 combines five selectors with Select2's semantics.
func Select5[A, B, C, D, E, R comparable](sa *Selector[A], sb *Selector[B], sc *Selector[C], sd *Selector[D], se *Selector[E], combine func(A, B, C, D, E) R, opts ...SelectorOption) *Selector[R] {
	var cfg selectorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	n := &Selector[R]{rt: sa.rt, batched: cfg.batched}

	var (
		va   A
		vb   B
		vc   C
		vd   D
		ve   E
		oka  bool
		okb  bool
		okc  bool
		okd  bool
		oke  bool
		subs []*Subscription
	)
	n.compute = func() (R, bool) {
		if !oka || !okb || !okc || !okd || !oke {
			var zero R
			return zero, false
		}
		return combine(va, vb, vc, vd, ve), true
	}
	n.attach = func() {
		subs = []*Subscription{
			sa.Subscribe(func(v A) {
				n.mu.Lock()
				va, oka = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sb.Subscribe(func(v B) {
				n.mu.Lock()
				vb, okb = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sc.Subscribe(func(v C) {
				n.mu.Lock()
				vc, okc = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			sd.Subscribe(func(v D) {
				n.mu.Lock()
				vd, okd = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
			se.Subscribe(func(v E) {
				n.mu.Lock()
				ve, oke = v, true
				n.mu.Unlock()
				n.invalidate()
			}),
		}
	}
	n.detach = func() {
		for _, s := range subs {
			s.Cancel()
		}
		subs = nil
		n.mu.Lock()
		oka, okb, okc, okd, oke = false, false, false, false, false
		n.mu.Unlock()
	}

	sa.rt.registerSelector(n)
	return n
}
