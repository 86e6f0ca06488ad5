package tarn

import (
	"context"

	"github.com/zoobzio/pipz"
)

// WithFilter adds conditional processing to the handler.
//
// Values are only processed if they pass the predicate; values that do
// not match skip the pipeline silently. Filtering happens before any
// other processing in the chain built so far.
//
// Example:
//
//	// Only process orders above the audit threshold
//	h := tarn.ForEach("audit", auditFn).
//	    WithFilter(func(ctx context.Context, o Order) bool {
//	        return o.Total >= auditThreshold
//	    })
func (h *Handler[V]) WithFilter(predicate func(context.Context, V) bool) *Handler[V] {
	return &Handler[V]{
		processor: pipz.NewFilter("filter", predicate, h.processor),
	}
}
