package tarn

import "context"

// Transition pairs a committed value with the one it replaced. The
// first transition an observer sees carries the zero value as Previous
// and sets Initial.
type Transition[S any] struct {
	Previous S
	Current  S
	Initial  bool
}

// Transitions adapts a store into a source of Transition pairs, one
// per observed commit. Bound to an effect it hands the runner both
// sides of every change:
//
//	audit := tarn.NewEffect(store, "audit", func(ctx context.Context, changes <-chan tarn.Transition[Config]) {
//	    for c := range changes {
//	        log.Printf("port %d -> %d", c.Previous.Port, c.Current.Port)
//	    }
//	})
//	binding, err := audit.Bind(ctx, tarn.Transitions(store))
func Transitions[S any](s *Store[S]) Source[Transition[S]] {
	return transitionSource[S]{store: s}
}

type transitionSource[S any] struct {
	store *Store[S]
}

func (ts transitionSource[S]) Watch(ctx context.Context) (<-chan Transition[S], error) {
	values, err := ts.store.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Transition[S])
	go func() {
		defer close(out)
		var prev S
		first := true
		for v := range values {
			tr := Transition[S]{Previous: prev, Current: v, Initial: first}
			select {
			case out <- tr:
			case <-ctx.Done():
				return
			}
			prev = v
			first = false
		}
	}()
	return out, nil
}
