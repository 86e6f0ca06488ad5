package tarn

import (
	"errors"
	"fmt"
)

// UninitializedError reports an access to store state before any value
// was set. It is returned synchronously from reads and reducer-style
// updates, and recorded on the specific binding when a bound source
// delivers into an uninitialized store.
type UninitializedError struct {
	// Store is the configured name of the store that rejected the access.
	Store string
}

func (e *UninitializedError) Error() string {
	return e.Store + " has not been initialized yet. Please make sure it is initialized before updating/getting."
}

// IsUninitialized reports whether err is, or wraps, an UninitializedError.
func IsUninitialized(err error) bool {
	var ue *UninitializedError
	return errors.As(err, &ue)
}

// FaultError reports a failure raised by user-supplied code running on
// an asynchronous path: a reducer or patch function that panicked while
// applying a bound value, or an effect pipeline that returned an error.
//
// Synchronous calls do not produce FaultError; a panic inside a reducer
// invoked through Set, Update, Patch, or a dispatcher's Call propagates
// to the caller unrecovered.
type FaultError struct {
	// Op names the operation that faulted, such as "update", "patch",
	// or "effect:<name>".
	Op string

	// Recovered holds the recovered panic value when the fault was a
	// panic. It is nil when the fault was an ordinary error.
	Recovered any

	// Err holds the underlying error when the fault was an ordinary
	// error, such as an effect pipeline failure.
	Err error
}

func (e *FaultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s fault: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s fault: panic: %v", e.Op, e.Recovered)
}

// Unwrap exposes the underlying error for errors.Is and errors.As.
func (e *FaultError) Unwrap() error {
	return e.Err
}
