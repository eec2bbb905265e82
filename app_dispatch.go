package main

import (
	"log/slog"

	"queenmama-lite/internal/hotkeys"
	"queenmama-lite/internal/notify"
	"queenmama-lite/internal/tray"
)

// shellActionKind discriminates shellAction variants.
type shellActionKind int

const (
	actionMenuClicked shellActionKind = iota
	actionTrayClicked
	actionShortcutFired
)

// shellAction is a typed message describing one user interaction with the
// native shell. Tray and hotkey callbacks construct these and hand them to
// the central dispatcher, which owns all side effects. Keeping the triggers
// side-effect free makes the interaction surface testable without a tray
// icon or registered hotkeys.
type shellAction struct {
	kind     shellActionKind
	menu     tray.MenuAction
	shortcut hotkeys.Action
}

func menuClicked(menu tray.MenuAction) shellAction {
	return shellAction{kind: actionMenuClicked, menu: menu}
}

func trayClicked() shellAction {
	return shellAction{kind: actionTrayClicked}
}

func shortcutFired(shortcut hotkeys.Action) shellAction {
	return shellAction{kind: actionShortcutFired, shortcut: shortcut}
}

// handleShortcut adapts the hotkey manager callback to the dispatcher.
// Called from the hotkey listener goroutine.
func (a *App) handleShortcut(action hotkeys.Action) {
	a.dispatch(shortcutFired(action))
}

// dispatch executes the side effects for one shell action. All tray and
// shortcut handling funnels through here.
func (a *App) dispatch(action shellAction) {
	if a.shuttingDown.Load() {
		slog.Debug("[dispatch] dropped during shutdown", "kind", action.kind)
		return
	}

	switch action.kind {
	case actionMenuClicked:
		a.dispatchMenu(action.menu)
	case actionTrayClicked:
		if _, err := a.ToggleOverlay(); err != nil {
			slog.Warn("[dispatch] tray click toggle failed", "error", err)
		}
	case actionShortcutFired:
		a.dispatchShortcut(action.shortcut)
	default:
		slog.Warn("[dispatch] unknown action kind", "kind", action.kind)
	}
}

func (a *App) dispatchMenu(menu tray.MenuAction) {
	switch menu {
	case tray.ActionShowOverlay:
		if err := a.showOverlay(); err != nil {
			slog.Warn("[dispatch] show overlay failed", "error", err)
		}
	case tray.ActionHideOverlay:
		if err := a.hideOverlay(); err != nil {
			slog.Warn("[dispatch] hide overlay failed", "error", err)
		}
	case tray.ActionStartSession:
		a.emitShellEvent("tray_action", "start_session")
		notify.SessionStarted()
	case tray.ActionStopSession:
		a.emitShellEvent("tray_action", "stop_session")
		notify.SessionStopped()
	case tray.ActionOpenDashboard:
		if err := a.ShowMainWindow(); err != nil {
			slog.Warn("[dispatch] open dashboard failed", "error", err)
		}
	case tray.ActionFeedback:
		a.emitShellEvent("tray_action", "feedback")
		a.openFeedbackPage()
	case tray.ActionQuit:
		ctx := a.runtimeContext()
		if ctx == nil {
			slog.Warn("[dispatch] quit dropped because runtime context is nil")
			return
		}
		runtimeQuitFn(ctx)
	default:
		slog.Warn("[dispatch] unknown menu action", "action", menu.String())
	}
}

// dispatchShortcut forwards the shortcut to the frontend and, for the overlay
// toggle, acts directly so the shortcut works while the webview is hidden.
func (a *App) dispatchShortcut(shortcut hotkeys.Action) {
	a.emitShellEvent("shortcut", string(shortcut))
	if shortcut == hotkeys.ActionToggleOverlay {
		if _, err := a.ToggleOverlay(); err != nil {
			slog.Warn("[dispatch] shortcut toggle failed", "error", err)
		}
	}
}

func (a *App) openFeedbackPage() {
	ctx := a.runtimeContext()
	if ctx == nil {
		slog.Warn("[dispatch] feedback page dropped because runtime context is nil")
		return
	}
	cfg := a.getConfigSnapshot()
	runtimeBrowserOpenURLFn(ctx, cfg.FeedbackURL)
}
