package tarn

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithCircuitBreaker adds circuit breaker protection to the handler.
//
// The circuit breaker prevents cascading failures by stopping calls to
// a failing handler. After the threshold number of consecutive
// failures, the circuit opens and all passes fail immediately. After
// the timeout period, the circuit enters half-open state to test if
// the handler has recovered.
//
// Parameters:
//   - threshold: consecutive failures before opening the circuit
//   - timeout: how long to wait before attempting recovery
//
// Example:
//
//	// Open after 5 consecutive failures, try recovery after 30s
//	h := tarn.ForEach("external-api", callFn).
//	    WithCircuitBreaker(5, 30*time.Second)
func (h *Handler[V]) WithCircuitBreaker(threshold int, timeout time.Duration) *Handler[V] {
	return &Handler[V]{
		processor: pipz.NewCircuitBreaker("circuit-breaker", h.processor, threshold, timeout),
	}
}
