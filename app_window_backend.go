package main

import (
	"errors"

	"queenmama-lite/internal/windowmgr"
)

// errNoRuntimeContext guards window operations invoked before Wails startup
// completes or after shutdown began.
var errNoRuntimeContext = errors.New("runtime context is not available")

// wailsOverlayWindow adapts the Wails webview window to the window manager's
// Placeable interface. Wails has exactly one webview window per process and
// the overlay is it; the main dashboard lives in the browser.
//
// Visibility: Wails does not expose an "is visible" query, so the app tracks
// the last Show/Hide it issued (overlayVisible) and combines it with the OS
// minimised state. Minimised counts as not visible so that toggling a
// minimised overlay brings it back instead of hiding it further.
type wailsOverlayWindow struct {
	app *App
}

func (w *wailsOverlayWindow) Visible() (bool, error) {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return false, errNoRuntimeContext
	}
	minimised := runtimeWindowIsMinimisedFn(ctx)

	w.app.overlayMu.Lock()
	visible := w.app.overlayVisible && !minimised
	w.app.overlayMu.Unlock()
	return visible, nil
}

func (w *wailsOverlayWindow) Show() error {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return errNoRuntimeContext
	}
	runtimeWindowShowFn(ctx)
	runtimeWindowUnminimiseFn(ctx)
	w.app.setOverlayVisible(true)
	return nil
}

func (w *wailsOverlayWindow) Hide() error {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return errNoRuntimeContext
	}
	runtimeWindowHideFn(ctx)
	w.app.setOverlayVisible(false)
	return nil
}

func (w *wailsOverlayWindow) Focus() error {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return errNoRuntimeContext
	}
	// Wails has no explicit focus call; re-asserting always-on-top raises
	// the window and hands it keyboard focus on all three platforms.
	runtimeWindowSetAlwaysOnTopFn(ctx, true)
	return nil
}

func (w *wailsOverlayWindow) SetSize(width, height int) error {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return errNoRuntimeContext
	}
	runtimeWindowSetSizeFn(ctx, width, height)
	return nil
}

func (w *wailsOverlayWindow) Size() (int, int, error) {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return 0, 0, errNoRuntimeContext
	}
	width, height := runtimeWindowGetSizeFn(ctx)
	return width, height, nil
}

func (w *wailsOverlayWindow) SetPosition(x, y int) error {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return errNoRuntimeContext
	}
	runtimeWindowSetPositionFn(ctx, x, y)
	return nil
}

func (w *wailsOverlayWindow) SetAlwaysOnTop(onTop bool) error {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return errNoRuntimeContext
	}
	runtimeWindowSetAlwaysOnTopFn(ctx, onTop)
	return nil
}

func (w *wailsOverlayWindow) Screen() (int, int, error) {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return 0, 0, errNoRuntimeContext
	}
	screens, err := runtimeScreenGetAllFn(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, screen := range screens {
		if screen.IsCurrent {
			return screen.Width, screen.Height, nil
		}
	}
	for _, screen := range screens {
		if screen.IsPrimary {
			return screen.Width, screen.Height, nil
		}
	}
	if len(screens) > 0 {
		return screens[0].Width, screens[0].Height, nil
	}
	return 0, 0, errors.New("no screens reported")
}

var _ windowmgr.Placeable = (*wailsOverlayWindow)(nil)

// browserMainWindow represents the main dashboard, which opens in the user's
// default browser rather than a second webview. Show navigates there; the
// browser owns the window afterwards, so Hide and Focus are no-ops and
// Visible always reports false.
type browserMainWindow struct {
	app *App
}

func (w *browserMainWindow) Visible() (bool, error) {
	return false, nil
}

func (w *browserMainWindow) Show() error {
	ctx := w.app.runtimeContext()
	if ctx == nil {
		return errNoRuntimeContext
	}
	cfg := w.app.getConfigSnapshot()
	runtimeBrowserOpenURLFn(ctx, cfg.DashboardURL)
	return nil
}

func (w *browserMainWindow) Hide() error { return nil }

func (w *browserMainWindow) Focus() error { return nil }

var _ windowmgr.Window = (*browserMainWindow)(nil)
