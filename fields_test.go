package tarn

import "testing"

func TestKeyStore(t *testing.T) {
	field := KeyStore.Field("Store[int]")
	if field.Key().Name() != "store" {
		t.Errorf("expected key 'store', got %q", field.Key().Name())
	}
}

func TestKeyState(t *testing.T) {
	field := KeyState.Field("active")
	if field.Key().Name() != "state" {
		t.Errorf("expected key 'state', got %q", field.Key().Name())
	}
}

func TestKeyOldState(t *testing.T) {
	field := KeyOldState.Field("uninitialized")
	if field.Key().Name() != "old_state" {
		t.Errorf("expected key 'old_state', got %q", field.Key().Name())
	}
}

func TestKeyNewState(t *testing.T) {
	field := KeyNewState.Field("active")
	if field.Key().Name() != "new_state" {
		t.Errorf("expected key 'new_state', got %q", field.Key().Name())
	}
}

func TestKeyOp(t *testing.T) {
	field := KeyOp.Field("update")
	if field.Key().Name() != "op" {
		t.Errorf("expected key 'op', got %q", field.Key().Name())
	}
}

func TestKeyReason(t *testing.T) {
	field := KeyReason.Field("uninitialized")
	if field.Key().Name() != "reason" {
		t.Errorf("expected key 'reason', got %q", field.Key().Name())
	}
}

func TestKeyError(t *testing.T) {
	field := KeyError.Field("something went wrong")
	if field.Key().Name() != "error" {
		t.Errorf("expected key 'error', got %q", field.Key().Name())
	}
}

func TestKeyBinding(t *testing.T) {
	field := KeyBinding.Field("0190b5a8")
	if field.Key().Name() != "binding" {
		t.Errorf("expected key 'binding', got %q", field.Key().Name())
	}
}

func TestKeyEffect(t *testing.T) {
	field := KeyEffect.Field("save")
	if field.Key().Name() != "effect" {
		t.Errorf("expected key 'effect', got %q", field.Key().Name())
	}
}

func TestKeyHook(t *testing.T) {
	field := KeyHook.Field("init")
	if field.Key().Name() != "hook" {
		t.Errorf("expected key 'hook', got %q", field.Key().Name())
	}
}

func TestKeyPath(t *testing.T) {
	field := KeyPath.Field("/etc/app/config.yaml")
	if field.Key().Name() != "path" {
		t.Errorf("expected key 'path', got %q", field.Key().Name())
	}
}
