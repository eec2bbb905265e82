package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"queenmama-lite/internal/autostart"
	"queenmama-lite/internal/config"
	"queenmama-lite/internal/ipc"
	"queenmama-lite/internal/store"
	"queenmama-lite/internal/tray"
	"queenmama-lite/internal/windowmgr"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

type appRuntimeLogger interface {
	Warningf(context.Context, string, ...interface{})
	Infof(context.Context, string, ...interface{})
	Errorf(context.Context, string, ...interface{})
}

type wailsRuntimeLogger struct{}

func formatRuntimeLogMessage(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (wailsRuntimeLogger) Warningf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Warn(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogWarningf(ctx, message, args...)
}

func (wailsRuntimeLogger) Infof(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Info(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogInfof(ctx, message, args...)
}

func (wailsRuntimeLogger) Errorf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Error(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogErrorf(ctx, message, args...)
}

var (
	runtimeEventsEmitFn                            = runtime.EventsEmit
	runtimeLogger                 appRuntimeLogger = wailsRuntimeLogger{}
	runtimeWindowShowFn                            = runtime.WindowShow
	runtimeWindowHideFn                            = runtime.WindowHide
	runtimeWindowIsMinimisedFn                     = runtime.WindowIsMinimised
	runtimeWindowUnminimiseFn                      = runtime.WindowUnminimise
	runtimeWindowSetAlwaysOnTopFn                  = runtime.WindowSetAlwaysOnTop
	runtimeWindowSetSizeFn                         = runtime.WindowSetSize
	runtimeWindowGetSizeFn                         = runtime.WindowGetSize
	runtimeWindowSetPositionFn                     = runtime.WindowSetPosition
	runtimeScreenGetAllFn                          = runtime.ScreenGetAll
	runtimeBrowserOpenURLFn                        = runtime.BrowserOpenURL
	runtimeQuitFn                                  = runtime.Quit
	trayRunFn                                      = tray.Run
)

const shutdownWaitTimeout = 10 * time.Second

func (a *App) addPendingConfigLoadWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	a.startupWarnMu.Lock()
	a.configLoadWarnings = append(a.configLoadWarnings, trimmed)
	a.startupWarnMu.Unlock()
}

func (a *App) consumePendingConfigLoadWarning() string {
	a.startupWarnMu.Lock()
	defer a.startupWarnMu.Unlock()
	if len(a.configLoadWarnings) == 0 {
		return ""
	}
	message := strings.Join(a.configLoadWarnings, "\n")
	a.configLoadWarnings = nil
	return message
}

func (a *App) startup(ctx context.Context) {
	a.setRuntimeContext(ctx)
	a.setOverlayVisible(!a.startHidden)

	a.configPath = config.DefaultPath()
	cfg, err := config.EnsureFile(a.configPath)
	if err != nil {
		// Config load/parse failures are non-fatal. Continue with defaults
		// and surface a warning to the user.
		cfg = config.DefaultConfig()
		a.addPendingConfigLoadWarning(
			"Failed to load config file at startup. Running with defaults. Error: " + err.Error(),
		)
		runtimeLogger.Warningf(ctx, "failed to load config from %s: %v", a.configPath, err)
	}
	a.setConfigSnapshot(cfg)

	if st, openErr := store.Open(store.DefaultPath(a.configPath)); openErr != nil {
		runtimeLogger.Warningf(ctx, "state store unavailable, placement will not persist: %v", openErr)
	} else {
		a.state = st
	}

	a.registry.Register(windowmgr.OverlayWindowName, &wailsOverlayWindow{app: a})
	a.registry.Register(windowmgr.MainWindowName, &browserMainWindow{app: a})
	a.windows.SetupOverlay()
	a.restoreOverlayPlacement(cfg)
	if cfg.LaunchHidden && !a.startHidden {
		if hideErr := a.hideOverlay(); hideErr != nil {
			runtimeLogger.Warningf(ctx, "launch_hidden: initial hide failed: %v", hideErr)
		}
	} else if a.state != nil && !a.startHidden {
		// The overlay stays hidden across restarts when the user closed it
		// before quitting, unless launch_hidden already forced the matter.
		if visible, getErr := a.state.GetBool(store.KeyOverlayVisible); getErr == nil && !visible {
			if hideErr := a.hideOverlay(); hideErr != nil {
				runtimeLogger.Warningf(ctx, "restoring hidden overlay failed: %v", hideErr)
			}
		}
	}

	// Shortcut registration failing means the product's primary entry point
	// is gone, so treat it as fatal.
	if err := a.hotkeys.Start(a.handleShortcut); err != nil {
		runtimeLogger.Errorf(ctx, "global shortcut registration failed: %v", err)
		a.emitShellEvent("startup_error", "Failed to register global shortcuts: "+err.Error())
		runtimeQuitFn(ctx)
		return
	}

	if err := autostart.Sync(cfg.Autostart); err != nil {
		runtimeLogger.Warningf(ctx, "autostart sync failed: %v", err)
	}

	a.ipcServer = ipc.NewServer("", ipc.HandlerFunc(a.handleIPCRequest))
	if err := a.ipcServer.Start(); err != nil {
		runtimeLogger.Warningf(ctx, "activation endpoint failed: %v", err)
		a.ipcServer = nil
	} else {
		runtimeLogger.Infof(ctx, "activation endpoint listening: %s", a.ipcServer.Endpoint())
	}

	if err := a.mirror.Start(ctx); err != nil {
		runtimeLogger.Warningf(ctx, "event mirror failed: %v", err)
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	a.bgCancel = cancel
	a.startConfigWatcher(bgCtx)
	a.startTray()

	a.flushPendingConfigLoadWarnings()
}

// restoreOverlayPlacement reapplies the persisted overlay anchor and expanded
// state, falling back to the configured default anchor. Best effort.
func (a *App) restoreOverlayPlacement(cfg config.Config) {
	anchor := ""
	if a.state != nil {
		if saved, err := a.state.Get(store.KeyOverlayAnchor); err == nil {
			anchor = saved
		}
	}
	if anchor == "" {
		anchor = cfg.DefaultAnchor
	}
	if anchor != "" {
		if pos, err := windowmgr.ParsePosition(anchor); err != nil {
			slog.Warn("[window] ignoring invalid persisted anchor", "anchor", anchor, "error", err)
		} else if err := a.windows.MoveOverlay(pos); err != nil {
			slog.Warn("[window] persisted anchor restore failed", "anchor", anchor, "error", err)
		}
	}

	if a.state == nil {
		return
	}
	if expanded, err := a.state.GetBool(store.KeyOverlayExpanded); err == nil && expanded {
		if err := a.windows.SetOverlayExpanded(true); err != nil {
			slog.Warn("[window] persisted expanded restore failed", "error", err)
		}
	}
}

// startTray launches the system tray controller. Run spawns the systray loop
// on its own goroutine and returns the controller handle for shutdown.
func (a *App) startTray() {
	ctl, err := trayRunFn(tray.Options{
		Tooltip:       "Queen Mama LITE",
		OnAction:      func(action tray.MenuAction) { a.dispatch(menuClicked(action)) },
		OnIconClicked: func() { a.dispatch(trayClicked()) },
	})
	if err != nil {
		runtimeLogger.Warningf(a.runtimeContext(), "tray unavailable: %v", err)
		return
	}
	a.trayMu.Lock()
	a.trayCtl = ctl
	a.trayMu.Unlock()
}

func (a *App) handleIPCRequest(req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandActivate:
		a.bringOverlayToFront()
		return ipc.Response{OK: true}
	default:
		return ipc.Response{Error: "unknown command: " + req.Command}
	}
}

func (a *App) shutdown(_ context.Context) {
	a.shuttingDown.Store(true)
	logCtx := a.runtimeContext()

	a.trayMu.Lock()
	ctl := a.trayCtl
	a.trayCtl = nil
	a.trayMu.Unlock()
	if ctl != nil {
		ctl.Stop()
	}

	if err := a.hotkeys.Stop(); err != nil {
		runtimeLogger.Warningf(logCtx, "hotkeys stop failed: %v", err)
	}
	if a.ipcServer != nil {
		if err := a.ipcServer.Stop(); err != nil {
			runtimeLogger.Warningf(logCtx, "activation endpoint stop failed: %v", err)
		}
	}
	if a.mirror != nil {
		if err := a.mirror.Stop(); err != nil {
			runtimeLogger.Warningf(logCtx, "event mirror stop failed: %v", err)
		}
	}
	if a.bgCancel != nil {
		a.bgCancel()
		a.bgCancel = nil
	}
	if !waitWithTimeout(a.bgWG.Wait, shutdownWaitTimeout) {
		runtimeLogger.Warningf(logCtx, "timed out waiting for background workers during shutdown")
	}
	if a.state != nil {
		if err := a.state.SetBool(store.KeyOverlayVisible, a.isOverlayVisible()); err != nil {
			runtimeLogger.Warningf(logCtx, "persisting overlay visibility failed: %v", err)
		}
		if err := a.state.Close(); err != nil {
			runtimeLogger.Warningf(logCtx, "state store close failed: %v", err)
		}
	}
}

func waitWithTimeout(waitFn func(), timeout time.Duration) bool {
	// Best effort timeout guard for shutdown paths. The waiting goroutine may
	// outlive timeout when waitFn blocks indefinitely, but this function is only
	// used during process shutdown where eventual completion is expected.
	done := make(chan struct{})
	go func() {
		waitFn()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// bringOverlayToFront shows and raises the overlay.
// Used when a second instance signals the first to activate.
func (a *App) bringOverlayToFront() {
	ctx := a.runtimeContext()
	if ctx == nil {
		slog.Warn("[ipc] activation dropped because runtime context is nil")
		return
	}
	a.raiseOverlay(ctx)
	a.setOverlayVisible(true)
}

func (a *App) raiseOverlay(ctx context.Context) {
	runtimeWindowShowFn(ctx)
	runtimeWindowUnminimiseFn(ctx)
	runtimeWindowSetAlwaysOnTopFn(ctx, true)
}

func (a *App) setOverlayVisible(visible bool) {
	a.overlayMu.Lock()
	a.overlayVisible = visible
	a.overlayMu.Unlock()
}

func (a *App) isOverlayVisible() bool {
	a.overlayMu.Lock()
	defer a.overlayMu.Unlock()
	return a.overlayVisible
}
