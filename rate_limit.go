package tarn

import "github.com/zoobzio/pipz"

// WithRateLimit adds rate limiting capability to the handler.
//
// Processing is limited to the specified rate per second with the given
// burst capacity, using a token bucket. When tokens are exhausted the
// pass waits for capacity; use WithRateLimitDrop to discard values
// instead of waiting.
//
// Parameters:
//   - rps: sustained rate in values per second
//   - burst: maximum burst size above the sustained rate
//
// Example:
//
//	// Limit to 100 values per second with burst of 10
//	h := tarn.ForEach("notify", notifyFn).
//	    WithRateLimit(100, 10)
func (h *Handler[V]) WithRateLimit(rps float64, burst int) *Handler[V] {
	limiter := pipz.NewRateLimiter[V]("rate-limit", rps, burst)
	return &Handler[V]{
		processor: pipz.NewSequence("rate-limited", limiter, h.processor),
	}
}

// WithRateLimitDrop adds rate limiting that drops values when limited.
//
// Similar to WithRateLimit but configured to fail a pass immediately
// when the rate limit is exceeded instead of waiting for capacity.
func (h *Handler[V]) WithRateLimitDrop(rps float64, burst int) *Handler[V] {
	limiter := pipz.NewRateLimiter[V]("rate-limit", rps, burst).SetMode("drop")
	return &Handler[V]{
		processor: pipz.NewSequence("rate-limited", limiter, h.processor),
	}
}
