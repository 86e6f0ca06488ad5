package tarn

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithRetry adds retry capability to the handler.
//
// Failed passes are retried up to the specified number of attempts.
// Retries are immediate without delay. For exponential backoff between
// attempts, use WithBackoff instead.
//
// The same value is passed to each retry attempt. Retries stop
// immediately if the context is canceled.
//
// Example:
//
//	// Retry up to 3 times on failure
//	h := tarn.ForEach("publish", publishFn).
//	    WithRetry(3)
func (h *Handler[V]) WithRetry(attempts int) *Handler[V] {
	return &Handler[V]{
		processor: pipz.NewRetry("retry", h.processor, attempts),
	}
}

// WithBackoff adds exponential backoff retry to the handler.
//
// Failed passes are retried with exponentially increasing delays
// between attempts. The delay starts at baseDelay and doubles with
// each retry.
//
// This is preferred over WithRetry for operations that might fail due
// to temporary overload or rate limiting.
//
// Example:
//
//	// Retry 5 times with exponential backoff starting at 1 second
//	h := tarn.ForEach("api-call", callFn).
//	    WithBackoff(5, time.Second)
func (h *Handler[V]) WithBackoff(attempts int, baseDelay time.Duration) *Handler[V] {
	return &Handler[V]{
		processor: pipz.NewBackoff("backoff", h.processor, attempts, baseDelay),
	}
}
