package main

import (
	"context"
	"errors"
	"testing"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

func TestOverlayWindowRequiresContext(t *testing.T) {
	app := NewApp(false)
	overlay := &wailsOverlayWindow{app: app}

	if _, err := overlay.Visible(); !errors.Is(err, errNoRuntimeContext) {
		t.Fatalf("Visible() error = %v, want errNoRuntimeContext", err)
	}
	if err := overlay.Show(); !errors.Is(err, errNoRuntimeContext) {
		t.Fatalf("Show() error = %v, want errNoRuntimeContext", err)
	}
	if err := overlay.SetSize(420, 100); !errors.Is(err, errNoRuntimeContext) {
		t.Fatalf("SetSize() error = %v, want errNoRuntimeContext", err)
	}
}

func TestOverlayWindowVisibleCombinesMinimised(t *testing.T) {
	app := NewApp(false)
	app.setRuntimeContext(context.Background())
	overlay := &wailsOverlayWindow{app: app}

	minimised := false
	origIsMin := runtimeWindowIsMinimisedFn
	runtimeWindowIsMinimisedFn = func(_ context.Context) bool { return minimised }
	t.Cleanup(func() { runtimeWindowIsMinimisedFn = origIsMin })

	app.setOverlayVisible(true)
	if visible, err := overlay.Visible(); err != nil || !visible {
		t.Fatalf("Visible() = %v, %v; want true, nil", visible, err)
	}

	// A minimised window counts as hidden so toggle restores it.
	minimised = true
	if visible, err := overlay.Visible(); err != nil || visible {
		t.Fatalf("Visible() with minimised window = %v, %v; want false, nil", visible, err)
	}

	minimised = false
	app.setOverlayVisible(false)
	if visible, err := overlay.Visible(); err != nil || visible {
		t.Fatalf("Visible() after hide = %v, %v; want false, nil", visible, err)
	}
}

func TestOverlayWindowShowTracksState(t *testing.T) {
	app := NewApp(false)
	app.setRuntimeContext(context.Background())
	overlay := &wailsOverlayWindow{app: app}

	shown, unminimised := false, false
	origShow := runtimeWindowShowFn
	origUnmin := runtimeWindowUnminimiseFn
	origHide := runtimeWindowHideFn
	runtimeWindowShowFn = func(_ context.Context) { shown = true }
	runtimeWindowUnminimiseFn = func(_ context.Context) { unminimised = true }
	runtimeWindowHideFn = func(_ context.Context) { shown = false }
	t.Cleanup(func() {
		runtimeWindowShowFn = origShow
		runtimeWindowUnminimiseFn = origUnmin
		runtimeWindowHideFn = origHide
	})

	if err := overlay.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if !shown || !unminimised {
		t.Fatalf("Show() shown=%v unminimised=%v, want both", shown, unminimised)
	}
	app.overlayMu.Lock()
	tracked := app.overlayVisible
	app.overlayMu.Unlock()
	if !tracked {
		t.Fatal("overlayVisible not tracked after Show")
	}

	if err := overlay.Hide(); err != nil {
		t.Fatalf("Hide() error = %v", err)
	}
	app.overlayMu.Lock()
	tracked = app.overlayVisible
	app.overlayMu.Unlock()
	if tracked {
		t.Fatal("overlayVisible not cleared after Hide")
	}
}

func TestOverlayWindowScreenSelection(t *testing.T) {
	app := NewApp(false)
	app.setRuntimeContext(context.Background())
	overlay := &wailsOverlayWindow{app: app}

	var screens []runtime.Screen
	var screensErr error
	origScreens := runtimeScreenGetAllFn
	runtimeScreenGetAllFn = func(_ context.Context) ([]runtime.Screen, error) {
		return screens, screensErr
	}
	t.Cleanup(func() { runtimeScreenGetAllFn = origScreens })

	screens = []runtime.Screen{
		{IsPrimary: true, Width: 2560, Height: 1440},
		{IsCurrent: true, Width: 1920, Height: 1080},
	}
	w, h, err := overlay.Screen()
	if err != nil || w != 1920 || h != 1080 {
		t.Fatalf("Screen() = %d,%d,%v; want the current screen", w, h, err)
	}

	// No current screen: fall back to the primary.
	screens = []runtime.Screen{
		{Width: 1024, Height: 768},
		{IsPrimary: true, Width: 2560, Height: 1440},
	}
	w, h, err = overlay.Screen()
	if err != nil || w != 2560 {
		t.Fatalf("Screen() = %d,%d,%v; want the primary screen", w, h, err)
	}

	screens = nil
	if _, _, err := overlay.Screen(); err == nil {
		t.Fatal("Screen() with no screens error = nil, want error")
	}

	screensErr = errors.New("enumeration failed")
	if _, _, err := overlay.Screen(); err == nil {
		t.Fatal("Screen() with enumeration failure error = nil, want error")
	}
}

func TestBrowserMainWindowShowOpensDashboard(t *testing.T) {
	app := NewApp(false)
	app.setRuntimeContext(context.Background())
	cfg := app.getConfigSnapshot()
	cfg.DashboardURL = "https://dash.example"
	app.setConfigSnapshot(cfg)
	main := &browserMainWindow{app: app}

	var openedURL string
	origOpen := runtimeBrowserOpenURLFn
	runtimeBrowserOpenURLFn = func(_ context.Context, url string) { openedURL = url }
	t.Cleanup(func() { runtimeBrowserOpenURLFn = origOpen })

	if err := main.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if openedURL != "https://dash.example" {
		t.Fatalf("opened URL = %q, want dashboard URL", openedURL)
	}

	if visible, err := main.Visible(); err != nil || visible {
		t.Fatalf("Visible() = %v, %v; browser window is never tracked as visible", visible, err)
	}
	if err := main.Hide(); err != nil {
		t.Fatalf("Hide() error = %v, want nil no-op", err)
	}
}
