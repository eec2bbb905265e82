//go:build linux

package hotkeys

import "golang.design/x/hotkey"

// X11 hardware keycodes (evdev layout, keycode = evdev code + 8).
const (
	keycodeBackslash = 51
	keycodeReturn    = 36
	keycodeS         = 39
	keycodeR         = 27
)

// chord is a (modifiers, key) pair for golang.design/x/hotkey.
type chord struct {
	modifiers []hotkey.Modifier
	key       hotkey.Key
}

// chords maps each action to its fixed key chord. The primary modifier is
// Ctrl on Linux.
var chords = map[Action]chord{
	ActionToggleOverlay: {modifiers: []hotkey.Modifier{hotkey.ModCtrl}, key: hotkey.Key(keycodeBackslash)},
	ActionTriggerAssist: {modifiers: []hotkey.Modifier{hotkey.ModCtrl}, key: hotkey.Key(keycodeReturn)},
	ActionToggleSession: {modifiers: []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, key: hotkey.Key(keycodeS)},
	ActionClearContext:  {modifiers: []hotkey.Modifier{hotkey.ModCtrl}, key: hotkey.Key(keycodeR)},
}
