package main

import (
	"log/slog"

	"queenmama-lite/internal/store"
	"queenmama-lite/internal/windowmgr"
)

// ToggleOverlay flips the overlay's visibility and returns the new state.
func (a *App) ToggleOverlay() (bool, error) {
	// CAS guard prevents double-toggle when a second trigger fires while
	// OS window operations are still in progress.
	if !a.overlayToggling.CompareAndSwap(false, true) {
		slog.Debug("[window] toggle already in progress, skipping")
		a.overlayMu.Lock()
		visible := a.overlayVisible
		a.overlayMu.Unlock()
		return visible, nil
	}
	defer a.overlayToggling.Store(false)

	return a.windows.ToggleOverlay()
}

// SetOverlayExpanded switches the overlay between its collapsed and expanded
// sizes. The new state is persisted so it survives a restart.
func (a *App) SetOverlayExpanded(expanded bool) error {
	if err := a.windows.SetOverlayExpanded(expanded); err != nil {
		return err
	}
	a.persistBool(store.KeyOverlayExpanded, expanded)
	return nil
}

// MoveOverlay repositions the overlay to the named screen anchor. position is
// one of the camelCase anchor names, for example "topRight".
func (a *App) MoveOverlay(position string) error {
	pos, err := windowmgr.ParsePosition(position)
	if err != nil {
		return err
	}
	if err := a.windows.MoveOverlay(pos); err != nil {
		return err
	}
	a.persistString(store.KeyOverlayAnchor, pos.String())
	return nil
}

// ShowMainWindow opens the main dashboard.
func (a *App) ShowMainWindow() error {
	return a.windows.ShowMainWindow()
}

func (a *App) showOverlay() error {
	overlay, ok := a.registry.Lookup(windowmgr.OverlayWindowName)
	if !ok {
		return windowmgr.ErrOverlayNotFound
	}
	if err := overlay.Show(); err != nil {
		return err
	}
	return overlay.Focus()
}

func (a *App) hideOverlay() error {
	overlay, ok := a.registry.Lookup(windowmgr.OverlayWindowName)
	if !ok {
		return windowmgr.ErrOverlayNotFound
	}
	return overlay.Hide()
}

// persistString writes a state key, tolerating a missing or failed store.
func (a *App) persistString(key, value string) {
	if a.state == nil {
		return
	}
	if err := a.state.Set(key, value); err != nil {
		slog.Warn("[state] persist failed", "key", key, "error", err)
	}
}

func (a *App) persistBool(key string, value bool) {
	if a.state == nil {
		return
	}
	if err := a.state.SetBool(key, value); err != nil {
		slog.Warn("[state] persist failed", "key", key, "error", err)
	}
}
