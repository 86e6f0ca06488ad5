package tarn

import "github.com/zoobzio/capitan"

// Field keys for store events.
var (
	// KeyStore is the name of the store emitting the event.
	KeyStore = capitan.NewStringKey("store")

	// KeyState is the store's lifecycle state.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyOp is the mutation kind: "set", "update", or "patch".
	KeyOp = capitan.NewStringKey("op")

	// KeyReason is why a mutation was refused.
	KeyReason = capitan.NewStringKey("reason")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyBinding is the identifier of a source binding.
	KeyBinding = capitan.NewStringKey("binding")

	// KeyEffect is the name of an effect.
	KeyEffect = capitan.NewStringKey("effect")

	// KeyHook is the owner lifecycle hook being invoked.
	KeyHook = capitan.NewStringKey("hook")

	// KeyPath is the filesystem path a file source is watching.
	KeyPath = capitan.NewStringKey("path")
)
