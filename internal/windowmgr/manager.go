package windowmgr

import (
	"errors"
	"log/slog"
)

// Names of the windows expected in the static window configuration.
const (
	OverlayWindowName = "overlay"
	MainWindowName    = "main"
)

// EventOverlayExpandedChanged carries a boolean payload with the new
// expanded state so the frontend can adjust its layout.
const EventOverlayExpandedChanged = "overlay_expanded_changed"

// Operation errors. The messages are part of the UI wire contract: the
// frontend matches them verbatim, so they keep their original casing.
var (
	ErrOverlayNotFound = errors.New("Overlay window not found")
	ErrMainNotFound    = errors.New("Main window not found")
	ErrNoMonitor       = errors.New("No monitor found")
)

// EventEmitter delivers fire-and-forget events to the UI layer.
type EventEmitter interface {
	Emit(name string, payload any)
}

// EventEmitterFunc adapts a function to EventEmitter.
type EventEmitterFunc func(name string, payload any)

// Emit calls f.
func (f EventEmitterFunc) Emit(name string, payload any) { f(name, payload) }

// Manager exposes the window operations invocable from the UI layer. It holds
// no window state of its own: visibility and geometry are read from the
// handle on every call, so the OS remains the single source of truth.
type Manager struct {
	registry *Registry
	emitter  EventEmitter
}

// NewManager creates a Manager over registry. emitter may be nil when no UI
// context exists yet; events are then dropped.
func NewManager(registry *Registry, emitter EventEmitter) *Manager {
	return &Manager{registry: registry, emitter: emitter}
}

func (m *Manager) overlay() (Window, error) {
	w, ok := m.registry.Lookup(OverlayWindowName)
	if !ok {
		return nil, ErrOverlayNotFound
	}
	return w, nil
}

func (m *Manager) placeableOverlay() (Placeable, error) {
	w, err := m.overlay()
	if err != nil {
		return nil, err
	}
	p, ok := w.(Placeable)
	if !ok {
		return nil, ErrOverlayNotFound
	}
	return p, nil
}

// ToggleOverlay flips the overlay's visibility and returns the new state.
// Showing also takes input focus; hiding does not touch focus.
func (m *Manager) ToggleOverlay() (bool, error) {
	overlay, err := m.overlay()
	if err != nil {
		return false, err
	}
	visible, err := overlay.Visible()
	if err != nil {
		return false, err
	}
	if visible {
		if err := overlay.Hide(); err != nil {
			return false, err
		}
	} else {
		if err := overlay.Show(); err != nil {
			return false, err
		}
		if err := overlay.Focus(); err != nil {
			return false, err
		}
	}
	return !visible, nil
}

// SetOverlayExpanded resizes the overlay between its two fixed sizes and
// notifies the UI. Position is left untouched.
func (m *Manager) SetOverlayExpanded(expanded bool) error {
	overlay, err := m.placeableOverlay()
	if err != nil {
		return err
	}
	width, height := OverlayCollapsedWidth, OverlayCollapsedHeight
	if expanded {
		width, height = OverlayExpandedWidth, OverlayExpandedHeight
	}
	if err := overlay.SetSize(width, height); err != nil {
		return err
	}
	m.emit(EventOverlayExpandedChanged, expanded)
	return nil
}

// MoveOverlay repositions the overlay to one of the six screen anchors using
// the current screen and overlay outer sizes. The position is applied with a
// single OS call.
func (m *Manager) MoveOverlay(pos Position) error {
	if _, ok := positionNames[pos]; !ok {
		return errors.New("unknown overlay position")
	}
	overlay, err := m.placeableOverlay()
	if err != nil {
		return err
	}
	screenW, screenH, err := overlay.Screen()
	if err != nil || screenW <= 0 || screenH <= 0 {
		return ErrNoMonitor
	}
	windowW, windowH, err := overlay.Size()
	if err != nil {
		return err
	}
	x, y := anchorCoordinates(pos, screenW, screenH, windowW, windowH)
	return overlay.SetPosition(x, y)
}

// ShowMainWindow raises and focuses the main dashboard window.
func (m *Manager) ShowMainWindow() error {
	w, ok := m.registry.Lookup(MainWindowName)
	if !ok {
		return ErrMainNotFound
	}
	if err := w.Show(); err != nil {
		return err
	}
	return w.Focus()
}

// SetupOverlay applies the startup defaults: collapsed size, top-right
// placement with the startup top padding, always on top. Best effort; a
// missing overlay or failing OS call is logged and startup continues.
func (m *Manager) SetupOverlay() {
	overlay, err := m.placeableOverlay()
	if err != nil {
		slog.Warn("[window] overlay setup skipped", "error", err)
		return
	}
	if err := overlay.SetSize(OverlayCollapsedWidth, OverlayCollapsedHeight); err != nil {
		slog.Warn("[window] overlay initial resize failed", "error", err)
	}
	if screenW, _, err := overlay.Screen(); err == nil && screenW > 0 {
		x, y := startupCoordinates(screenW, OverlayCollapsedWidth)
		if err := overlay.SetPosition(x, y); err != nil {
			slog.Warn("[window] overlay initial placement failed", "error", err)
		}
	} else {
		slog.Warn("[window] overlay initial placement skipped: no screen", "error", err)
	}
	if err := overlay.SetAlwaysOnTop(true); err != nil {
		slog.Warn("[window] overlay always-on-top failed", "error", err)
	}
}

func (m *Manager) emit(name string, payload any) {
	if m.emitter == nil {
		slog.Warn("[window] event dropped because no emitter is attached", "event", name)
		return
	}
	m.emitter.Emit(name, payload)
}
