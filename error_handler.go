package tarn

import "github.com/zoobzio/pipz"

// WithErrorHandler adds an error processing pipeline.
//
// When the main pipeline returns an error, the error handler is
// executed with the error details. This is useful for logging,
// alerting, or dead-lettering. The original error still propagates and
// is recorded as an effect fault.
//
// The error handler receives a *pipz.Error[V] containing the original
// value and error information.
//
// Example:
//
//	errorHandler := pipz.Effect("error-logger", func(ctx context.Context, perr *pipz.Error[Order]) error {
//	    log.Printf("failed to process order %s: %v", perr.InputData.ID, perr.Err)
//	    return deadLetter.Send(ctx, perr.InputData)
//	})
//
//	h := tarn.ForEach("publish", publishFn).
//	    WithErrorHandler(errorHandler)
func (h *Handler[V]) WithErrorHandler(errorHandler pipz.Chainable[*pipz.Error[V]]) *Handler[V] {
	return &Handler[V]{
		processor: pipz.NewHandle("error-handler", h.processor, errorHandler),
	}
}
