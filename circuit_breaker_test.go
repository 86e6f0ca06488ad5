package tarn_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/driftlock/tarn"
)

// TestWithCircuitBreaker tests circuit breaker functionality
func TestWithCircuitBreaker(t *testing.T) {
	var shouldFail atomic.Bool
	shouldFail.Store(true)

	handler := tarn.ForEach("flaky", func(ctx context.Context, v string) error {
		if shouldFail.Load() {
			return errors.New("simulated failure")
		}
		return nil
	}).WithCircuitBreaker(2, 100*time.Millisecond) // Open after 2 failures

	// First two calls should fail and open the circuit
	for i := 0; i < 2; i++ {
		if _, err := handler.Process(context.Background(), "data"); err == nil {
			t.Error("expected error")
		}
	}

	// Circuit should be open now
	_, err := handler.Process(context.Background(), "data")
	if err == nil {
		t.Fatal("expected circuit breaker open error")
	}
	if !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Errorf("expected circuit breaker error, got: %v", err)
	}

	// Allow the handler to succeed for recovery
	shouldFail.Store(false)

	// Wait for circuit to go to half-open
	time.Sleep(150 * time.Millisecond)

	// This should succeed and close the circuit
	if _, err := handler.Process(context.Background(), "data"); err != nil {
		t.Errorf("expected success after circuit recovery, got: %v", err)
	}
}
