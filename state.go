package tarn

// State represents the current lifecycle state of a Store.
type State int32

const (
	// StateUninitialized indicates the store exists but has never held a
	// value. Reads and reducer-style updates are rejected until the first
	// direct write arrives.
	StateUninitialized State = iota

	// StateActive indicates the store holds a value and accepts reads,
	// updates, and subscriptions.
	StateActive

	// StateDestroyed indicates Close has run. The final value remains
	// readable but all mutation is ignored and every sequence the store
	// produced has completed.
	StateDestroyed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
