//go:build !windows

package singleinstance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestTryLockAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.pid")

	lock, err := TryLock(path)
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("pidfile missing after TryLock: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pidfile still present after Release: %v", err)
	}
}

func TestTryLockSecondInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.pid")

	lock, err := TryLock(path)
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	defer lock.Release()

	if _, err := TryLock(path); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second TryLock() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestTryLockReplacesStalePidfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.pid")

	// A pid beyond the kernel's default maximum cannot be running.
	if err := os.WriteFile(path, []byte("99999999\n"), 0o600); err != nil {
		t.Fatalf("seed pidfile: %v", err)
	}

	lock, err := TryLock(path)
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	defer lock.Release()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pidfile: %v", err)
	}
	want := fmt.Sprintf("%d\n", os.Getpid())
	if string(data) != want {
		t.Fatalf("pidfile = %q, want %q", data, want)
	}
}

func TestTryLockGarbledPidfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.pid")
	if err := os.WriteFile(path, []byte("not a pid"), 0o600); err != nil {
		t.Fatalf("seed pidfile: %v", err)
	}

	lock, err := TryLock(path)
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	lock.Release()
}

func TestReleaseNil(t *testing.T) {
	var lock *Lock
	if err := lock.Release(); err != nil {
		t.Fatalf("Release() on nil lock error = %v", err)
	}
}

func TestDefaultLockName(t *testing.T) {
	name := DefaultLockName()
	if name == "" {
		t.Fatal("DefaultLockName() returned empty string")
	}
	if filepath.Ext(name) != ".pid" {
		t.Fatalf("DefaultLockName() = %q, want .pid suffix", name)
	}
}
