package tarn

import "testing"

// hookOwner records lifecycle callbacks in order.
type hookOwner struct {
	calls []string
}

func (h *hookOwner) OnStoreConstruct() { h.calls = append(h.calls, "construct") }
func (h *hookOwner) OnStateInit()      { h.calls = append(h.calls, "init") }

// constructOnlyOwner implements just ConstructHook.
type constructOnlyOwner struct {
	constructed int
}

func (h *constructOnlyOwner) OnStoreConstruct() { h.constructed++ }

func TestHooks_ConstructRunsOnce(t *testing.T) {
	owner := &constructOnlyOwner{}
	store := New[int](WithOwner(owner))
	defer store.Close()

	if owner.constructed != 1 {
		t.Errorf("expected 1 construct callback, got %d", owner.constructed)
	}

	store.Set(1)
	store.Set(2)
	if owner.constructed != 1 {
		t.Errorf("expected construct to stay at 1, got %d", owner.constructed)
	}
}

func TestHooks_InitRunsOnceAtFirstCommit(t *testing.T) {
	owner := &hookOwner{}
	store := New[int](WithOwner(owner))
	defer store.Close()

	if len(owner.calls) != 1 || owner.calls[0] != "construct" {
		t.Fatalf("expected only construct before init, got %v", owner.calls)
	}

	store.Set(1)
	if len(owner.calls) != 2 || owner.calls[1] != "init" {
		t.Fatalf("expected init after first commit, got %v", owner.calls)
	}

	store.Set(2)
	if len(owner.calls) != 2 {
		t.Errorf("expected no further hook calls, got %v", owner.calls)
	}
}

func TestHooks_ConstructBeforeInitWithInitialState(t *testing.T) {
	owner := &hookOwner{}
	store := NewWithState(7, WithOwner(owner))
	defer store.Close()

	if len(owner.calls) != 2 {
		t.Fatalf("expected both hooks, got %v", owner.calls)
	}
	if owner.calls[0] != "construct" || owner.calls[1] != "init" {
		t.Errorf("expected construct before init, got %v", owner.calls)
	}
}

func TestHooks_InitSeesCommittedValue(t *testing.T) {
	// The init hook fires inside the initializing mutation; the value
	// must already be readable.
	probe := &initProbe{}
	store := New[int](WithOwner(probe))
	defer store.Close()
	probe.store = store

	store.Set(41)
	if probe.read != 41 {
		t.Errorf("expected init hook to read 41, got %d", probe.read)
	}
}

type initProbe struct {
	store *Store[int]
	read  int
}

func (p *initProbe) OnStateInit() {
	if v, err := p.store.Get(); err == nil {
		p.read = v
	}
}
