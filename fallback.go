package tarn

import "github.com/zoobzio/pipz"

// WithFallback adds fallback handlers for when the primary fails.
//
// If the pipeline built so far returns an error, each fallback is
// attempted in order with the same value until one succeeds. This is
// useful for backup strategies or degraded functionality.
//
// Example:
//
//	// Try the primary handler, fall back to the secondary on failure
//	primary := tarn.ForEach("publish", publishFn)
//	backup := tarn.ForEach("spool", spoolFn)
//
//	h := primary.WithFallback(backup)
func (h *Handler[V]) WithFallback(fallbacks ...*Handler[V]) *Handler[V] {
	all := make([]pipz.Chainable[V], 0, len(fallbacks)+1)
	all = append(all, h.processor)
	for _, f := range fallbacks {
		all = append(all, f.processor)
	}
	return &Handler[V]{
		processor: pipz.NewFallback("fallback", all...),
	}
}
