//go:build darwin

package tray

import (
	"errors"
	"log/slog"
)

// Controller stub for macOS. getlantern/systray requires the process main
// thread on macOS, which the webview event loop already owns, so the menu bar
// item is skipped there; the overlay shortcuts and in-app controls cover the
// same operations.
type Controller struct{}

// Run logs that the tray is unavailable and returns immediately.
func Run(opts Options) (*Controller, error) {
	if opts.OnAction == nil {
		return nil, errors.New("tray requires an OnAction handler")
	}
	slog.Info("[tray] system tray is unavailable on this platform, skipping")
	return &Controller{}, nil
}

// Stop is a no-op on macOS.
func (c *Controller) Stop() {}
