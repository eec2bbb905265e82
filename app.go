package main

import (
	"context"
	"sync"
	"sync/atomic"

	"queenmama-lite/internal/config"
	"queenmama-lite/internal/hotkeys"
	"queenmama-lite/internal/ipc"
	"queenmama-lite/internal/store"
	"queenmama-lite/internal/tray"
	"queenmama-lite/internal/windowmgr"
	"queenmama-lite/internal/wsserver"
)

// App is the Wails-bound application service.
type App struct {
	// Runtime context lifecycle.
	ctx   context.Context
	ctxMu sync.RWMutex

	// Configuration state and startup warnings.
	// Lock ordering (outer -> inner):
	//   cfgSaveMu -> cfgMu
	//
	// Independent locks: do not assume ordering across these.
	//   overlayMu, startupWarnMu, ctxMu, trayMu
	cfgMu              sync.RWMutex
	cfgSaveMu          sync.Mutex
	configEventVersion atomic.Uint64
	cfg                config.Config
	configPath         string
	startupWarnMu      sync.Mutex
	configLoadWarnings []string

	// startHidden is set from the command line before startup() runs and is
	// read-only afterwards; safe to access without a mutex.
	startHidden bool

	// Backend services. windows, registry, hotkeys and mirror are assigned
	// in NewApp and never reassigned, so hotkey and tray goroutines may read
	// them freely. state and ipcServer are assigned during startup() before
	// those goroutines exist; nil when the service failed to start. A mirror
	// whose Start failed stays usable: Broadcast without a listener is a
	// no-op.
	windows   *windowmgr.Manager
	registry  *windowmgr.Registry
	hotkeys   *hotkeys.Manager
	state     *store.Store
	ipcServer *ipc.Server
	mirror    *wsserver.Hub

	// Tray controller handle. Set during startup, cleared and stopped
	// during shutdown.
	trayMu  sync.Mutex
	trayCtl *tray.Controller

	// Overlay visibility state.
	// overlayVisible mirrors the last Show/Hide issued to the OS; combined
	// with WindowIsMinimised it answers "is the overlay on screen".
	overlayMu       sync.Mutex
	overlayVisible  bool
	overlayToggling atomic.Bool // CAS guard against double-toggle from rapid hotkey fire
	shuttingDown    atomic.Bool // set at the start of shutdown(); checked by worker restart loops

	// Background worker cancellation/waits.
	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// NewApp creates the app service. startHidden keeps the overlay hidden until
// the user summons it.
func NewApp(startHidden bool) *App {
	a := &App{
		startHidden: startHidden,
		registry:    windowmgr.NewRegistry(),
		hotkeys:     hotkeys.NewManager(),
		mirror:      wsserver.NewHub(wsserver.HubOptions{}),
	}
	a.windows = windowmgr.NewManager(a.registry, windowmgr.EventEmitterFunc(a.emitShellEvent))
	return a
}

// GetEventMirrorURL returns the WebSocket endpoint that mirrors shell events
// for auxiliary observers. Empty string when the mirror is not running.
func (a *App) GetEventMirrorURL() string {
	if a.mirror == nil {
		return ""
	}
	return a.mirror.URL()
}
