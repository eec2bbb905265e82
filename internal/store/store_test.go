package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set(KeyOverlayAnchor, "bottomRight"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(KeyOverlayAnchor)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "bottomRight" {
		t.Fatalf("Get() = %q, want %q", got, "bottomRight")
	}
}

func TestSetOverwrites(t *testing.T) {
	s := openTestStore(t)

	for _, value := range []string{"topLeft", "topCenter", "bottomLeft"} {
		if err := s.Set(KeyOverlayAnchor, value); err != nil {
			t.Fatalf("Set(%q) error = %v", value, err)
		}
	}
	got, err := s.Get(KeyOverlayAnchor)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "bottomLeft" {
		t.Fatalf("Get() = %q, want last written value", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("never.set"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetBool(KeyOverlayExpanded, true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	got, err := s.GetBool(KeyOverlayExpanded)
	if err != nil {
		t.Fatalf("GetBool() error = %v", err)
	}
	if !got {
		t.Fatal("GetBool() = false, want true")
	}

	if _, err := s.GetBool("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetBool() of missing key error = %v, want ErrNotFound", err)
	}
}

func TestGetBoolRejectsNonBoolean(t *testing.T) {
	s := openTestStore(t)
	if err := s.Set(KeyOverlayExpanded, "sideways"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := s.GetBool(KeyOverlayExpanded); err == nil {
		t.Fatal("GetBool() of non-boolean value error = nil, want error")
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
	// Deleting again is a no-op.
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() of missing key error = %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Set(KeyOverlayAnchor, "topCenter"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	got, err := second.Get(KeyOverlayAnchor)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got != "topCenter" {
		t.Fatalf("Get() after reopen = %q, want %q", got, "topCenter")
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("Open(\"\") error = nil, want error")
	}
}

func TestDefaultPathNextToConfig(t *testing.T) {
	got := DefaultPath("/home/user/.config/queenmama/config.yaml")
	want := filepath.Join("/home/user/.config/queenmama", "state.db")
	if got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}
