//go:build windows || linux

package tray

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
)

// Controller owns the systray lifecycle on platforms where the tray can run
// off the main thread (getlantern/systray locks its own OS thread there).
type Controller struct {
	opts     Options
	stopOnce sync.Once
	stopCh   chan struct{}
}

// Run starts the system tray on its own goroutine and returns the controller
// immediately. systray locks an OS thread for its loop; the webview keeps the
// main thread.
func Run(opts Options) (*Controller, error) {
	if opts.OnAction == nil {
		return nil, errors.New("tray requires an OnAction handler")
	}
	c := &Controller{opts: opts, stopCh: make(chan struct{})}
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("[tray] systray loop recovered from panic", "panic", rec)
			}
		}()
		systray.Run(c.onReady, c.onExit)
	}()
	return c, nil
}

// Stop tears the tray down. Safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		systray.Quit()
	})
}

func (c *Controller) onReady() {
	slog.Info("[tray] initializing system tray")

	systray.SetIcon(iconData)
	systray.SetTitle(appTitle)
	tooltip := c.opts.Tooltip
	if tooltip == "" {
		tooltip = appTitle
	}
	systray.SetTooltip(tooltip)

	showOverlay := systray.AddMenuItem("Show Overlay", "Show the assistant overlay")
	hideOverlay := systray.AddMenuItem("Hide Overlay", "Hide the assistant overlay")
	systray.AddSeparator()
	startSession := systray.AddMenuItem("Start Session", "Start a coaching session")
	stopSession := systray.AddMenuItem("Stop Session", "Stop the current session")
	systray.AddSeparator()
	openDashboard := systray.AddMenuItem("Open Dashboard", "Open the dashboard window")
	feedback := systray.AddMenuItem("Give Feedback", "Send feedback to the team")
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit Queen Mama", "Quit the application")

	go c.handleMenuEvents(menuChannels{
		showOverlay:   showOverlay.ClickedCh,
		hideOverlay:   hideOverlay.ClickedCh,
		startSession:  startSession.ClickedCh,
		stopSession:   stopSession.ClickedCh,
		openDashboard: openDashboard.ClickedCh,
		feedback:      feedback.ClickedCh,
		quit:          quit.ClickedCh,
	})
}

func (c *Controller) onExit() {
	slog.Info("[tray] system tray exited")
}

type menuChannels struct {
	showOverlay   <-chan struct{}
	hideOverlay   <-chan struct{}
	startSession  <-chan struct{}
	stopSession   <-chan struct{}
	openDashboard <-chan struct{}
	feedback      <-chan struct{}
	quit          <-chan struct{}
}

func (c *Controller) handleMenuEvents(ch menuChannels) {
	for {
		select {
		case <-c.stopCh:
			return

		case <-ch.showOverlay:
			c.dispatch(ActionShowOverlay)
		case <-ch.hideOverlay:
			c.dispatch(ActionHideOverlay)
		case <-ch.startSession:
			c.dispatch(ActionStartSession)
		case <-ch.stopSession:
			c.dispatch(ActionStopSession)
		case <-ch.openDashboard:
			c.dispatch(ActionOpenDashboard)
		case <-ch.feedback:
			c.dispatch(ActionFeedback)
		case <-ch.quit:
			c.dispatch(ActionQuit)
			return
		}
	}
}

func (c *Controller) dispatch(action MenuAction) {
	slog.Debug("[tray] menu item clicked", "item", action.String())
	c.opts.OnAction(action)
}
