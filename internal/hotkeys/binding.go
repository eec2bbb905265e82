package hotkeys

import "runtime"

// Action is a symbolic user intent decoupled from its trigger. The string
// values are part of the UI wire contract (payload of the "shortcut" event).
type Action string

const (
	ActionToggleOverlay Action = "toggle_overlay"
	ActionTriggerAssist Action = "trigger_assist"
	ActionToggleSession Action = "toggle_session"
	ActionClearContext  Action = "clear_context"
)

// Actions lists the registered actions in their stable display order.
var Actions = []Action{
	ActionToggleOverlay,
	ActionTriggerAssist,
	ActionToggleSession,
	ActionClearContext,
}

// Binding describes one global shortcut for display in a settings surface.
type Binding struct {
	ID          Action `json:"id"`
	Keys        string `json:"keys"`
	Description string `json:"description"`
}

var descriptions = map[Action]string{
	ActionToggleOverlay: "Toggle overlay visibility",
	ActionTriggerAssist: "Trigger AI assist",
	ActionToggleSession: "Start/Stop session",
	ActionClearContext:  "Clear context",
}

// macOS uses symbol glyphs, everything else textual "Ctrl+" labels.
var keyLabels = map[string]map[Action]string{
	"darwin": {
		ActionToggleOverlay: `⌘\`,
		ActionTriggerAssist: "⌘↩",
		ActionToggleSession: "⌘⇧S",
		ActionClearContext:  "⌘R",
	},
	"other": {
		ActionToggleOverlay: `Ctrl+\`,
		ActionTriggerAssist: "Ctrl+Enter",
		ActionToggleSession: "Ctrl+Shift+S",
		ActionClearContext:  "Ctrl+R",
	},
}

// Bindings returns the four shortcut bindings with key labels formatted for
// the current platform. The result is a fresh slice on every call.
func Bindings() []Binding {
	return bindingsForOS(runtime.GOOS)
}

func bindingsForOS(goos string) []Binding {
	labels, ok := keyLabels[goos]
	if !ok {
		labels = keyLabels["other"]
	}
	out := make([]Binding, 0, len(Actions))
	for _, action := range Actions {
		out = append(out, Binding{
			ID:          action,
			Keys:        labels[action],
			Description: descriptions[action],
		})
	}
	return out
}
