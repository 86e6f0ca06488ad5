package tarn_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/driftlock/tarn"
	"github.com/zoobzio/pipz"
)

// TestForEach tests basic handler invocation
func TestForEach(t *testing.T) {
	var got []string
	handler := tarn.ForEach("record", func(ctx context.Context, v string) error {
		got = append(got, v)
		return nil
	})

	out, err := handler.Process(context.Background(), "a")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if out != "a" {
		t.Errorf("expected value passed through, got %q", out)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("expected handler invoked with 'a', got %v", got)
	}
}

// TestForEachError tests that handler errors propagate
func TestForEachError(t *testing.T) {
	boom := errors.New("persist failed")
	handler := tarn.ForEach("record", func(ctx context.Context, v string) error {
		return boom
	})

	if _, err := handler.Process(context.Background(), "a"); err == nil {
		t.Error("expected error to propagate")
	}
}

// TestNewHandler tests wrapping a raw pipz chainable
func TestNewHandler(t *testing.T) {
	doubled := pipz.Apply("double", func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	handler := tarn.NewHandler(doubled)
	out, err := handler.Process(context.Background(), 21)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if out != 42 {
		t.Errorf("expected 42, got %d", out)
	}
}

// TestHandlerComposition tests stacking decorators
func TestHandlerComposition(t *testing.T) {
	var attempts int32
	handler := tarn.ForEach("flaky", func(ctx context.Context, v string) error {
		if atomic.AddInt32(&attempts, 1) < 2 {
			return errors.New("first try fails")
		}
		return nil
	}).WithRetry(2).WithTimeout(time.Second)

	if _, err := handler.Process(context.Background(), "data"); err != nil {
		t.Errorf("expected retry inside timeout to succeed, got: %v", err)
	}
	if n := atomic.LoadInt32(&attempts); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}
