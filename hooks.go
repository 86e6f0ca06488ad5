package tarn

// ConstructHook is implemented by owners that want a callback when
// their store is constructed. It runs exactly once, synchronously,
// before New returns, and always before OnStateInit even when the
// store is built with NewWithState.
type ConstructHook interface {
	OnStoreConstruct()
}

// InitHook is implemented by owners that want a callback when their
// store receives its first value. It runs exactly once, synchronously,
// inside the mutation that initialized the store; the committed value
// is already readable from inside the hook.
type InitHook interface {
	OnStateInit()
}
