package tarn

import (
	"context"

	"github.com/zoobzio/pipz"
)

// Handler is a processing pipeline for effect values, built on pipz
// connectors. Start one with ForEach, layer reliability onto it with
// the With* methods, then hand it to NewEffectPipeline. Decorators
// return a new handler, so a partial chain can be shared and extended
// without affecting pipelines already built from it.
type Handler[V any] struct {
	processor pipz.Chainable[V]
}

// ForEach creates a handler that invokes fn for every value.
//
// The name identifies the handler in pipeline error messages. The
// context passed to fn is the store's container context; it cancels at
// teardown, so long-running work inside fn should honor it.
//
// Example:
//
//	audit := tarn.ForEach("audit", func(ctx context.Context, o Order) error {
//	    return auditLog.Write(ctx, o)
//	})
func ForEach[V any](name string, fn func(context.Context, V) error) *Handler[V] {
	return &Handler[V]{
		processor: pipz.Effect(pipz.Name(name), fn),
	}
}

// NewHandler wraps an existing pipz processor as a handler, for
// pipelines assembled directly from pipz connectors.
func NewHandler[V any](processor pipz.Chainable[V]) *Handler[V] {
	return &Handler[V]{processor: processor}
}

// Process runs one value through the pipeline.
func (h *Handler[V]) Process(ctx context.Context, v V) (V, error) {
	return h.processor.Process(ctx, v)
}
