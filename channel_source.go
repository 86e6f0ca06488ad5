package tarn

import "context"

// ChannelSource wraps an existing typed channel as a Source.
// Useful for testing and for callers that already produce values on a
// channel of their own.
type ChannelSource[V any] struct {
	ch   <-chan V
	sync bool
}

// NewChannelSource creates a ChannelSource that forwards values from
// the given channel through an internal goroutine.
func NewChannelSource[V any](ch <-chan V) *ChannelSource[V] {
	return &ChannelSource[V]{ch: ch, sync: false}
}

// NewSyncChannelSource creates a ChannelSource that returns the source
// channel directly without an intermediate goroutine. Values buffered
// in ch are visible to the binder synchronously, and with WithSyncMode
// delivery is driven entirely by Binding.Pump for deterministic tests.
func NewSyncChannelSource[V any](ch <-chan V) *ChannelSource[V] {
	return &ChannelSource[V]{ch: ch, sync: true}
}

// Watch returns a channel that emits values from the wrapped channel.
func (s *ChannelSource[V]) Watch(ctx context.Context) (<-chan V, error) {
	if s.sync {
		return s.ch, nil
	}

	out := make(chan V)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-s.ch:
				if !ok {
					return
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
