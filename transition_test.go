package tarn

import (
	"context"
	"sync"
	"testing"
	"time"
)

func recvTransition(t *testing.T, ch <-chan Transition[int]) Transition[int] {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while expecting a transition")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a transition")
	}
	return Transition[int]{}
}

func TestTransitions_PairsCommits(t *testing.T) {
	store := NewWithState(1)
	defer store.Close()

	ch, err := Transitions(store).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	first := recvTransition(t, ch)
	if !first.Initial || first.Current != 1 {
		t.Errorf("expected initial transition to 1, got %+v", first)
	}

	store.Set(2)
	next := recvTransition(t, ch)
	if next.Initial || next.Previous != 1 || next.Current != 2 {
		t.Errorf("expected 1 -> 2, got %+v", next)
	}
}

func TestTransitions_FeedEffect(t *testing.T) {
	store := NewWithState("a")
	defer store.Close()

	var mu sync.Mutex
	var seen []string
	landed := make(chan struct{}, 8)
	audit := NewEffect(store, "audit", func(ctx context.Context, changes <-chan Transition[string]) {
		for c := range changes {
			mu.Lock()
			seen = append(seen, c.Previous+">"+c.Current)
			mu.Unlock()
			landed <- struct{}{}
		}
	})

	if _, err := audit.Bind(context.Background(), Transitions(store)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	store.Set("b")

	for i := 0; i < 2; i++ {
		select {
		case <-landed:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for transition")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{">a", "a>b"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i, v := range want {
		if seen[i] != v {
			t.Errorf("transition %d: expected %q, got %q", i, v, seen[i])
		}
	}
}

func TestTransitions_CompletesAtClose(t *testing.T) {
	store := NewWithState(1)

	ch, err := Transitions(store).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if got := recvTransition(t, ch); got.Current != 1 {
		t.Fatalf("expected replayed transition, got %+v", got)
	}

	store.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for transition stream to complete")
		}
	}
}
