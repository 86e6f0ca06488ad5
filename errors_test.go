package tarn

import (
	"errors"
	"fmt"
	"testing"
)

func TestUninitializedError_Message(t *testing.T) {
	err := &UninitializedError{Store: "CartStore"}
	want := "CartStore has not been initialized yet. Please make sure it is initialized before updating/getting."
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestIsUninitialized(t *testing.T) {
	err := &UninitializedError{Store: "CartStore"}
	if !IsUninitialized(err) {
		t.Error("expected IsUninitialized to match")
	}
	if !IsUninitialized(fmt.Errorf("apply: %w", err)) {
		t.Error("expected IsUninitialized to match wrapped error")
	}
	if IsUninitialized(errors.New("other")) {
		t.Error("expected IsUninitialized to reject unrelated error")
	}
	if IsUninitialized(nil) {
		t.Error("expected IsUninitialized to reject nil")
	}
}

func TestFaultError_WithError(t *testing.T) {
	cause := errors.New("boom")
	err := &FaultError{Op: "update", Err: cause}

	if err.Error() != "update fault: boom" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestFaultError_WithPanic(t *testing.T) {
	err := &FaultError{Op: "patch", Recovered: "exploded"}

	if err.Error() != "patch fault: panic: exploded" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if errors.Unwrap(err) != nil {
		t.Error("expected no underlying error for a panic fault")
	}
}

func TestFaultError_As(t *testing.T) {
	var fe *FaultError
	wrapped := fmt.Errorf("binding: %w", &FaultError{Op: "update", Recovered: 7})
	if !errors.As(wrapped, &fe) {
		t.Fatal("expected errors.As to match FaultError")
	}
	if fe.Op != "update" {
		t.Errorf("expected op 'update', got %q", fe.Op)
	}
}
