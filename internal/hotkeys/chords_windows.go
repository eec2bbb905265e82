//go:build windows

package hotkeys

// Win32 RegisterHotKey modifier flags and virtual-key codes.
const (
	modControl = 0x0002
	modShift   = 0x0004

	vkReturn = 0x0D // VK_RETURN
	vkR      = 0x52
	vkS      = 0x53
	vkOem5   = 0xDC // VK_OEM_5, the backslash key on US layouts
)

// chord is a (modifier bitmask, virtual-key) pair for RegisterHotKey.
type chord struct {
	modifiers uint32
	key       uint32
}

// chords maps each action to its fixed key chord. The primary modifier is
// Ctrl on Windows (Cmd on macOS, see chords_darwin.go).
var chords = map[Action]chord{
	ActionToggleOverlay: {modifiers: modControl, key: vkOem5},
	ActionTriggerAssist: {modifiers: modControl, key: vkReturn},
	ActionToggleSession: {modifiers: modControl | modShift, key: vkS},
	ActionClearContext:  {modifiers: modControl, key: vkR},
}
