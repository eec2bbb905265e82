//go:build darwin

package hotkeys

import "golang.design/x/hotkey"

// Carbon virtual key codes (HIToolbox Events.h). Layout-dependent codes use
// the ANSI positions, matching the chords of the macOS app.
const (
	vkANSIBackslash = 0x2A // kVK_ANSI_Backslash
	vkReturn        = 0x24 // kVK_Return
	vkANSIS         = 0x01 // kVK_ANSI_S
	vkANSIR         = 0x0F // kVK_ANSI_R
)

// chord is a (modifiers, key) pair for golang.design/x/hotkey.
type chord struct {
	modifiers []hotkey.Modifier
	key       hotkey.Key
}

// chords maps each action to its fixed key chord. The primary modifier is
// Cmd on macOS.
var chords = map[Action]chord{
	ActionToggleOverlay: {modifiers: []hotkey.Modifier{hotkey.ModCmd}, key: hotkey.Key(vkANSIBackslash)},
	ActionTriggerAssist: {modifiers: []hotkey.Modifier{hotkey.ModCmd}, key: hotkey.Key(vkReturn)},
	ActionToggleSession: {modifiers: []hotkey.Modifier{hotkey.ModCmd, hotkey.ModShift}, key: hotkey.Key(vkANSIS)},
	ActionClearContext:  {modifiers: []hotkey.Modifier{hotkey.ModCmd}, key: hotkey.Key(vkANSIR)},
}
