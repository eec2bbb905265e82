// Package notify sends best-effort desktop notifications for session
// lifecycle changes. Delivery failures are logged and never propagated;
// a missed toast is not worth interrupting the shell for.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

const appTitle = "Queen Mama LITE"

var notifyFn = beeep.Notify

// SessionStarted announces that a coaching session began.
func SessionStarted() {
	send("Session started", "Queen Mama is listening.")
}

// SessionStopped announces that the session ended.
func SessionStopped() {
	send("Session stopped", "Queen Mama is taking a break.")
}

func send(title, body string) {
	if err := notifyFn(appTitle+": "+title, body, ""); err != nil {
		slog.Warn("[notify] notification delivery failed", "title", title, "error", err)
	}
}
