//go:build linux

package autostart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	origExecutable := executableFn
	executableFn = func() (string, error) { return "/opt/queenmama/queenmama-lite", nil }
	t.Cleanup(func() { executableFn = origExecutable })
	return dir
}

func TestEnableWritesDesktopEntry(t *testing.T) {
	dir := withTestEnv(t)

	if err := Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	path := filepath.Join(dir, "autostart", appName+".desktop")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("desktop entry not written: %v", err)
	}
	entry := string(raw)
	if !strings.Contains(entry, "Exec=/opt/queenmama/queenmama-lite --hidden") {
		t.Fatalf("desktop entry missing hidden launch command:\n%s", entry)
	}
	if !strings.Contains(entry, "[Desktop Entry]") {
		t.Fatalf("desktop entry missing header:\n%s", entry)
	}

	on, err := Enabled()
	if err != nil {
		t.Fatalf("Enabled() error = %v", err)
	}
	if !on {
		t.Fatal("Enabled() = false after Enable()")
	}
}

func TestDisableRemovesEntryAndIsIdempotent(t *testing.T) {
	withTestEnv(t)

	if err := Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := Disable(); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	on, err := Enabled()
	if err != nil {
		t.Fatalf("Enabled() error = %v", err)
	}
	if on {
		t.Fatal("Enabled() = true after Disable()")
	}
	// Disabling again must not error.
	if err := Disable(); err != nil {
		t.Fatalf("second Disable() error = %v", err)
	}
}

func TestSync(t *testing.T) {
	withTestEnv(t)

	if err := Sync(true); err != nil {
		t.Fatalf("Sync(true) error = %v", err)
	}
	if on, _ := Enabled(); !on {
		t.Fatal("Sync(true) did not enable autostart")
	}
	if err := Sync(false); err != nil {
		t.Fatalf("Sync(false) error = %v", err)
	}
	if on, _ := Enabled(); on {
		t.Fatal("Sync(false) did not disable autostart")
	}
}
