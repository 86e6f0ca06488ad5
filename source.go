package tarn

import "context"

// Source emits a sequence of typed values for a store to consume.
// Sources are handed to dispatcher Bind calls, which subscribe on the
// caller's behalf and apply each value through the update pipeline.
//
// Implementations emit on the returned channel and close it when the
// sequence completes or the context is canceled. Values sitting in the
// channel at bind time count as synchronous emissions: the binder
// consumes them before Bind returns.
type Source[V any] interface {
	// Watch begins emitting values. The channel is closed when the
	// sequence completes or ctx is canceled.
	Watch(ctx context.Context) (<-chan V, error)
}

// Values returns a source that emits each argument in order and then
// completes. All values are available synchronously at bind time, so a
// dispatcher bound to one applies them before Bind returns.
func Values[V any](vs ...V) Source[V] {
	return valuesSource[V](vs)
}

type valuesSource[V any] []V

func (s valuesSource[V]) Watch(_ context.Context) (<-chan V, error) {
	ch := make(chan V, len(s))
	for _, v := range s {
		ch <- v
	}
	close(ch)
	return ch, nil
}
