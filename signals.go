package tarn

import "github.com/zoobzio/capitan"

// Store lifecycle signals.
var (
	// StoreCreated is emitted when a store is constructed.
	StoreCreated = capitan.NewSignal(
		"tarn.store.created",
		"Store constructed",
	)

	// StoreInitialized is emitted once, when the first value commits.
	StoreInitialized = capitan.NewSignal(
		"tarn.store.initialized",
		"First value committed",
	)

	// StoreStateChanged is emitted when a store transitions between
	// lifecycle states.
	StoreStateChanged = capitan.NewSignal(
		"tarn.store.state.changed",
		"Store state transition",
	)

	// StoreDestroyed is emitted when a store finishes teardown.
	StoreDestroyed = capitan.NewSignal(
		"tarn.store.destroyed",
		"Store torn down",
	)
)

// Mutation signals.
var (
	// UpdateRejected is emitted when a mutation is refused, either
	// because the store is uninitialized or already destroyed.
	UpdateRejected = capitan.NewSignal(
		"tarn.update.rejected",
		"Mutation refused",
	)
)

// Source binding signals.
var (
	// SourceBound is emitted when a source is bound to a dispatcher.
	SourceBound = capitan.NewSignal(
		"tarn.source.bound",
		"Source bound to dispatcher",
	)

	// SourceUnbound is emitted when a binding ends, for any reason.
	SourceUnbound = capitan.NewSignal(
		"tarn.source.unbound",
		"Source binding ended",
	)

	// SourceFaulted is emitted when a bound value fails to apply and
	// the failure closes the binding.
	SourceFaulted = capitan.NewSignal(
		"tarn.source.faulted",
		"Bound value failed to apply",
	)

	// SourceSkipped is emitted when a file source discards an unusable
	// payload and keeps watching.
	SourceSkipped = capitan.NewSignal(
		"tarn.source.skipped",
		"Source payload discarded",
	)
)

// Effect signals.
var (
	// EffectStarted is emitted when an effect's runner materializes on
	// first use.
	EffectStarted = capitan.NewSignal(
		"tarn.effect.started",
		"Effect runner started",
	)

	// EffectFaulted is emitted when an effect pipeline pass fails or a
	// runner outlives the close timeout.
	EffectFaulted = capitan.NewSignal(
		"tarn.effect.faulted",
		"Effect pass failed",
	)
)

// Owner hook signals.
var (
	// HookInvoked is emitted before an owner lifecycle hook runs.
	HookInvoked = capitan.NewSignal(
		"tarn.hook.invoked",
		"Owner lifecycle hook invoked",
	)
)
