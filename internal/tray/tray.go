package tray

import (
	_ "embed"
)

//go:embed icon.png
var iconData []byte

// appTitle is the product name shown next to the tray icon.
const appTitle = "Queen Mama LITE"

// MenuAction identifies a tray menu selection. The controller only reports
// what was clicked; all side effects live in the application dispatcher.
type MenuAction int

const (
	ActionShowOverlay MenuAction = iota
	ActionHideOverlay
	ActionStartSession
	ActionStopSession
	ActionOpenDashboard
	ActionFeedback
	ActionQuit
)

var actionNames = map[MenuAction]string{
	ActionShowOverlay:   "show_overlay",
	ActionHideOverlay:   "hide_overlay",
	ActionStartSession:  "start_session",
	ActionStopSession:   "stop_session",
	ActionOpenDashboard: "open_dashboard",
	ActionFeedback:      "feedback",
	ActionQuit:          "quit",
}

// String returns the stable menu item id.
func (a MenuAction) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Options configures the tray controller.
type Options struct {
	// Tooltip is the hover text on the tray icon.
	Tooltip string

	// OnAction is invoked from the tray goroutine for every menu selection,
	// including ActionQuit. Must be non-blocking.
	OnAction func(MenuAction)

	// OnIconClicked is invoked when the tray icon itself is activated with a
	// primary click, on platforms that report icon clicks separately from
	// menu activation. getlantern/systray reports no such event on any
	// platform today, so no current backend fires this hook; the Show/Hide
	// menu items cover the toggle. Kept so a future backend can wire it
	// without touching callers. Optional.
	OnIconClicked func()
}
