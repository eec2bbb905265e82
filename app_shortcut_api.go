package main

import "queenmama-lite/internal/hotkeys"

// GetShortcuts returns the global shortcut bindings with key labels formatted
// for the current platform, for display in the settings surface.
func (a *App) GetShortcuts() []hotkeys.Binding {
	return hotkeys.Bindings()
}
