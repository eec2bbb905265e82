package tray

import "testing"

func TestMenuActionIDs(t *testing.T) {
	tests := []struct {
		action MenuAction
		want   string
	}{
		{ActionShowOverlay, "show_overlay"},
		{ActionHideOverlay, "hide_overlay"},
		{ActionStartSession, "start_session"},
		{ActionStopSession, "stop_session"},
		{ActionOpenDashboard, "open_dashboard"},
		{ActionFeedback, "feedback"},
		{ActionQuit, "quit"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Fatalf("MenuAction(%d).String() = %q, want %q", int(tt.action), got, tt.want)
		}
	}
	if got := MenuAction(99).String(); got != "unknown" {
		t.Fatalf("MenuAction(99).String() = %q, want %q", got, "unknown")
	}
}

func TestTrayTitleUsesFullProductName(t *testing.T) {
	if appTitle != "Queen Mama LITE" {
		t.Fatalf("appTitle = %q, want the full product name", appTitle)
	}
}

func TestIconAssetEmbedded(t *testing.T) {
	if len(iconData) == 0 {
		t.Fatal("embedded tray icon is empty")
	}
	// PNG signature.
	sig := []byte{0x89, 'P', 'N', 'G'}
	for i, b := range sig {
		if iconData[i] != b {
			t.Fatalf("icon byte %d = %#x, want %#x (PNG signature)", i, iconData[i], b)
		}
	}
}
