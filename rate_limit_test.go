package tarn_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/driftlock/tarn"
)

// TestWithRateLimit tests rate limiting functionality
func TestWithRateLimit(t *testing.T) {
	var count int32

	handler := tarn.ForEach("ingest", func(ctx context.Context, n int) error {
		atomic.AddInt32(&count, 1)
		return nil
	}).WithRateLimit(10, 1) // 10 per second, burst 1

	start := time.Now()

	// Try to process 5 values quickly
	for i := 0; i < 5; i++ {
		if _, err := handler.Process(context.Background(), i); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	elapsed := time.Since(start)

	// With rate of 10/sec and burst of 1, processing 5 values should
	// take ~400ms (1 immediate, then 4 more at 100ms intervals)
	if elapsed < 300*time.Millisecond {
		t.Errorf("rate limiting too fast: %v", elapsed)
	}

	if n := atomic.LoadInt32(&count); n != 5 {
		t.Errorf("expected 5 values processed, got %d", n)
	}
}

// TestWithRateLimitDrop tests rate limiting with drop mode
func TestWithRateLimitDrop(t *testing.T) {
	var processed int32

	handler := tarn.ForEach("ingest", func(ctx context.Context, n int) error {
		atomic.AddInt32(&processed, 1)
		return nil
	}).WithRateLimitDrop(10, 1) // Very low rate to force drops

	// Send many values quickly; the first passes, the rest are shed
	for i := 0; i < 10; i++ {
		_, _ = handler.Process(context.Background(), i)
	}

	count := atomic.LoadInt32(&processed)
	if count >= 10 {
		t.Errorf("expected some values to be dropped, but processed %d/10", count)
	}
	if count == 0 {
		t.Error("expected at least one value to be processed")
	}
}
