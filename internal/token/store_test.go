package token

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get(); ok {
		t.Error("Expected no credential in a fresh store")
	}

	if err := store.Set("abc123"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, ok := store.Get(); !ok || got != "abc123" {
		t.Errorf("Expected 'abc123', got %q (ok=%v)", got, ok)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Error("Expected no credential after clear")
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileStore(path)

	if _, ok := store.Get(); ok {
		t.Error("Expected no credential before Set")
	}

	if err := store.Set("secret-credential"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, ok := store.Get(); !ok || got != "secret-credential" {
		t.Errorf("Expected stored credential, got %q (ok=%v)", got, ok)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
		}
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Error("Expected no credential after clear")
	}

	// Clearing an already-clear store is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("Second clear failed: %v", err)
	}
}

func TestFileStore_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  tok-with-newline\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store := NewFileStore(path)
	got, ok := store.Get()
	if !ok || got != "tok-with-newline" {
		t.Errorf("Expected trimmed credential, got %q (ok=%v)", got, ok)
	}
}
