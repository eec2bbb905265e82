package main

import "testing"

func TestGetStatus(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.configPath = "/tmp/config.yaml"
	app.setOverlayVisible(true)

	status := app.GetStatus()
	if !status.OverlayVisible {
		t.Fatal("status.OverlayVisible = false, want true")
	}
	if status.TrayActive {
		t.Fatal("status.TrayActive = true with no tray running")
	}
	if status.ConfigPath != "/tmp/config.yaml" {
		t.Fatalf("status.ConfigPath = %q", status.ConfigPath)
	}
	if status.StatePersisted {
		t.Fatal("status.StatePersisted = true with no store")
	}
	if status.EventMirrorURL != "" {
		t.Fatalf("status.EventMirrorURL = %q, want empty without mirror", status.EventMirrorURL)
	}
}

func TestGetShortcutsStable(t *testing.T) {
	app, _, _ := newTestApp(t)

	bindings := app.GetShortcuts()
	if len(bindings) != 4 {
		t.Fatalf("GetShortcuts() returned %d bindings, want 4", len(bindings))
	}
	if bindings[0].ID != "toggle_overlay" {
		t.Fatalf("first binding = %q, want toggle_overlay", bindings[0].ID)
	}
}
