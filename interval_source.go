package tarn

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"
)

// IntervalSource emits an incrementing counter (0, 1, 2, ...) on a
// fixed period. Emission timing comes from the provided clock, so tests
// drive it deterministically with clockz.NewFakeClock.
type IntervalSource struct {
	clock clockz.Clock
	every time.Duration
}

// NewIntervalSource creates a source that emits every period. The clock
// must not be nil; pass clockz.RealClock outside tests.
func NewIntervalSource(clock clockz.Clock, every time.Duration) *IntervalSource {
	return &IntervalSource{clock: clock, every: every}
}

// Watch begins the timer loop. The counter channel is unbuffered: a
// tick is delivered when the consumer receives it, and the next period
// starts only after delivery.
func (s *IntervalSource) Watch(ctx context.Context) (<-chan int, error) {
	if s.every <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", s.every)
	}

	out := make(chan int)
	go func() {
		defer close(out)
		timer := s.clock.NewTimer(s.every)
		defer timer.Stop()

		n := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C():
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
				n++
				timer.Reset(s.every)
			}
		}
	}()
	return out, nil
}
