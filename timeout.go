package tarn

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithTimeout adds timeout protection to the handler.
//
// Each pass is limited to the specified duration. If processing takes
// longer, it is canceled and fails with a timeout error. This protects
// against handlers that hang or take too long.
//
// The timeout applies to the entire pipeline built so far, including
// any retries added before it in the chain.
//
// Example:
//
//	// Timeout after 5 seconds
//	h := tarn.ForEach("slow-api", callFn).
//	    WithTimeout(5 * time.Second)
func (h *Handler[V]) WithTimeout(duration time.Duration) *Handler[V] {
	return &Handler[V]{
		processor: pipz.NewTimeout("timeout", h.processor, duration),
	}
}
