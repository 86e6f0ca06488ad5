package tarn

import "time"

// MetricsProvider allows integration with metrics systems like
// Prometheus, StatsD, etc. Implement this interface to receive
// callbacks on key store events.
type MetricsProvider interface {
	// OnStateChange is called when the store transitions between
	// lifecycle states.
	OnStateChange(from, to State)

	// OnUpdateApplied is called when a mutation commits. Duration is
	// the time taken to run the reducer and store the snapshot.
	OnUpdateApplied(duration time.Duration)

	// OnUpdateRejected is called when a mutation is refused. Reason is
	// "uninitialized" or "destroyed".
	OnUpdateRejected(reason string)

	// OnSourceValue is called for each value consumed from a bound
	// source.
	OnSourceValue()

	// OnEffectFault is called when an effect pipeline pass fails.
	OnEffectFault(effect string)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)        {}
func (NoOpMetricsProvider) OnUpdateApplied(_ time.Duration) {}
func (NoOpMetricsProvider) OnUpdateRejected(_ string)       {}
func (NoOpMetricsProvider) OnSourceValue()                  {}
func (NoOpMetricsProvider) OnEffectFault(_ string)          {}
