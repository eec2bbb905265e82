package main

import (
	"context"
	"path/filepath"
	"testing"

	"queenmama-lite/internal/config"
)

func TestSaveConfigPersistsAndEmits(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	app, _, events := newTestApp(t)
	app.configPath = filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	cfg.LaunchHidden = true
	if err := app.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := config.Load(app.configPath)
	if err != nil {
		t.Fatalf("Load() after save error = %v", err)
	}
	if !loaded.LaunchHidden {
		t.Fatal("saved config lost launch_hidden")
	}
	if !app.getConfigSnapshot().LaunchHidden {
		t.Fatal("in-memory config not updated")
	}

	var found bool
	for _, event := range *events {
		if event.name != "config_changed" {
			continue
		}
		found = true
		payload, ok := event.payload.(configUpdatedEvent)
		if !ok {
			t.Fatalf("config_changed payload = %T, want configUpdatedEvent", event.payload)
		}
		if payload.Version == 0 {
			t.Fatal("config_changed version = 0, want monotonic versions starting at 1")
		}
	}
	if !found {
		t.Fatal("config_changed event not emitted")
	}
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	app, _, events := newTestApp(t)
	app.configPath = filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	cfg.FeedbackURL = "not a url"
	if err := app.SaveConfig(cfg); err == nil {
		t.Fatal("SaveConfig() with invalid URL error = nil, want error")
	}
	for _, event := range *events {
		if event.name == "config_changed" {
			t.Fatal("config_changed emitted for rejected save")
		}
	}
}

func TestSaveConfigVersionsIncrease(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	app, _, events := newTestApp(t)
	app.configPath = filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	if err := app.SaveConfig(cfg); err != nil {
		t.Fatalf("first SaveConfig() error = %v", err)
	}
	cfg.Autostart = false
	cfg.LaunchHidden = true
	if err := app.SaveConfig(cfg); err != nil {
		t.Fatalf("second SaveConfig() error = %v", err)
	}

	var versions []uint64
	for _, event := range *events {
		if event.name == "config_changed" {
			versions = append(versions, event.payload.(configUpdatedEvent).Version)
		}
	}
	if len(versions) != 2 || versions[1] <= versions[0] {
		t.Fatalf("config_changed versions = %v, want strictly increasing pair", versions)
	}
}

func TestFlushPendingConfigLoadWarnings(t *testing.T) {
	app, _, events := newTestApp(t)

	app.addPendingConfigLoadWarning("  ")
	app.addPendingConfigLoadWarning("first problem")
	app.addPendingConfigLoadWarning("second problem")
	app.flushPendingConfigLoadWarnings()

	if len(*events) != 1 {
		t.Fatalf("events = %d, want 1 combined warning", len(*events))
	}
	payload := (*events)[0].payload.(map[string]string)
	if payload["message"] != "first problem\nsecond problem" {
		t.Fatalf("warning message = %q", payload["message"])
	}

	// Consumed: a second flush emits nothing.
	app.flushPendingConfigLoadWarnings()
	if len(*events) != 1 {
		t.Fatalf("events after second flush = %d, want 1", len(*events))
	}
}

func TestFlushWarningsWithoutContext(t *testing.T) {
	app := NewApp(false)
	app.addPendingConfigLoadWarning("problem")
	// Must not panic and must keep the warning until a context exists.
	app.flushPendingConfigLoadWarnings()

	app.setRuntimeContext(context.Background())
	if got := app.consumePendingConfigLoadWarning(); got != "problem" {
		t.Fatalf("pending warning = %q, want retained %q", got, "problem")
	}
}
