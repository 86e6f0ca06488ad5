package tarn

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type limitsConfig struct {
	MaxConns int    `json:"max_conns" yaml:"max_conns" validate:"gte=0"`
	Name     string `json:"name" yaml:"name"`
}

type quotaConfig struct {
	Limit int `yaml:"limit"`
}

func (q quotaConfig) Validate() error {
	if q.Limit > 100 {
		return errors.New("limit too high")
	}
	return nil
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFileSource_InitialValueAtBind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")
	writeConfig(t, path, "max_conns: 10\nname: api\n")

	store := New[limitsConfig](WithSyncMode())
	defer store.Close()

	b, err := store.Bind(context.Background(), NewFileSource[limitsConfig](path))
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// The file's current contents count as a synchronous emission,
	// so the store is initialized before Bind returns.
	got, err := store.Get()
	if err != nil {
		t.Fatalf("expected store initialized at bind: %v", err)
	}
	if got.MaxConns != 10 || got.Name != "api" {
		t.Errorf("expected initial contents decoded, got %+v", got)
	}

	b.Cancel()
}

func TestFileSource_EmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")
	writeConfig(t, path, "max_conns: 1\nname: api\n")

	store := New[limitsConfig]()
	defer store.Close()

	ch, err := store.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if _, err := store.Bind(context.Background(), NewFileSource[limitsConfig](path)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	waitFor := func(want int) {
		deadline := time.After(2 * time.Second)
		for {
			select {
			case v, ok := <-ch:
				if !ok {
					t.Fatal("store channel closed while waiting")
				}
				if v.MaxConns == want {
					return
				}
			case <-deadline:
				t.Fatalf("timed out waiting for max_conns=%d", want)
			}
		}
	}

	waitFor(1)

	// A payload caught mid-edit is skipped; the source keeps
	// watching and picks up the next good write.
	writeConfig(t, path, "max_conns: [broken\n")
	writeConfig(t, path, "max_conns: 2\nname: api\n")
	waitFor(2)
}

func TestFileSource_SkipsInvalidInitialPayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")
	writeConfig(t, path, "max_conns: -3\nname: api\n")

	store := New[limitsConfig](WithSyncMode())
	defer store.Close()

	b, err := store.Bind(context.Background(), NewFileSource[limitsConfig](path, WithValidation()))
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// The tag-invalid payload is skipped, not applied.
	if _, err := store.Get(); !IsUninitialized(err) {
		t.Fatal("expected invalid initial payload skipped")
	}

	// The binding stays open; the source is still watching.
	select {
	case <-b.Done():
		t.Error("expected binding still open after skip")
	default:
	}
}

func TestFileSource_CustomValidator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quota.yaml")
	writeConfig(t, path, "limit: 900\n")

	store := New[quotaConfig](WithSyncMode())
	defer store.Close()

	if _, err := store.Bind(context.Background(), NewFileSource[quotaConfig](path, WithValidation())); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	if _, err := store.Get(); !IsUninitialized(err) {
		t.Fatal("expected payload rejected by the value's Validate method")
	}
}

func TestFileSource_WithCodecPinned(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.json")
	writeConfig(t, path, `{"max_conns": 7, "name": "api"}`)

	store := New[limitsConfig](WithSyncMode())
	defer store.Close()

	if _, err := store.Bind(context.Background(), NewFileSource[limitsConfig](path, WithCodec(JSONCodec{}))); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("expected initial JSON decoded: %v", err)
	}
	if got.MaxConns != 7 {
		t.Errorf("expected 7, got %d", got.MaxConns)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource[limitsConfig](filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := src.Watch(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
