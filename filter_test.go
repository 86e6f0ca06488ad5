package tarn_test

import (
	"context"
	"strings"
	"testing"

	"github.com/driftlock/tarn"
)

// TestWithFilter tests filtering functionality
func TestWithFilter(t *testing.T) {
	var processed []string

	handler := tarn.ForEach("audit", func(ctx context.Context, v string) error {
		processed = append(processed, v)
		return nil
	}).WithFilter(func(ctx context.Context, v string) bool {
		return strings.HasPrefix(v, "ok:")
	})

	for _, v := range []string{"ok:a", "skip:b", "ok:c", "skip:d"} {
		if _, err := handler.Process(context.Background(), v); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	// Only matching values reach the handler
	if len(processed) != 2 {
		t.Fatalf("expected 2 processed values, got %d", len(processed))
	}
	if processed[0] != "ok:a" || processed[1] != "ok:c" {
		t.Errorf("unexpected processed values: %v", processed)
	}
}

type tenantContextKey string

// TestFilterWithContext tests filtering based on context values
func TestFilterWithContext(t *testing.T) {
	callCount := 0

	handler := tarn.ForEach("audit", func(ctx context.Context, v string) error {
		callCount++
		return nil
	}).WithFilter(func(ctx context.Context, v string) bool {
		return ctx.Value(tenantContextKey("tenant-id")) == "premium"
	})

	// Premium tenant passes the filter
	premiumCtx := context.WithValue(context.Background(), tenantContextKey("tenant-id"), "premium")
	_, _ = handler.Process(premiumCtx, "premium-data")

	// Basic tenant is filtered out
	basicCtx := context.WithValue(context.Background(), tenantContextKey("tenant-id"), "basic")
	_, _ = handler.Process(basicCtx, "basic-data")

	if callCount != 1 {
		t.Errorf("expected 1 call for premium tenant, got %d", callCount)
	}
}
