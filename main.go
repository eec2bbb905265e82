package main

import (
	"embed"
	"errors"
	"log/slog"
	"os"
	"slices"

	"queenmama-lite/internal/autostart"
	"queenmama-lite/internal/ipc"
	"queenmama-lite/internal/singleinstance"
	"queenmama-lite/internal/windowmgr"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// Single-instance check BEFORE any Wails/WebView initialization.
	// A second webview process fighting over the same overlay placement
	// and tray icon is never what the user wants.
	lock, err := singleinstance.TryLock(singleinstance.DefaultLockName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Info("[single] another instance is already running, signaling activation")
		if _, sendErr := ipc.Send("", ipc.NewRequest(ipc.CommandActivate)); sendErr != nil {
			slog.Warn("[single] failed to signal existing instance", "error", sendErr)
		}
		return
	}
	if err != nil {
		// Lock creation failed for an unexpected reason. Continue startup
		// without the guard rather than refusing to launch.
		slog.Warn("[single] lock creation failed, proceeding without single-instance guard", "error", err)
	}
	if lock != nil {
		defer func() {
			if releaseErr := lock.Release(); releaseErr != nil {
				slog.Warn("[single] lock release failed", "error", releaseErr)
			}
		}()
	}

	// Autostart launches pass --hidden so login does not flash the overlay.
	startHidden := slices.Contains(os.Args[1:], autostart.HiddenFlag)

	app := NewApp(startHidden)

	err = wails.Run(&options.App{
		Title:         "Queen Mama",
		Width:         windowmgr.OverlayCollapsedWidth,
		Height:        windowmgr.OverlayCollapsedHeight,
		DisableResize: true,
		Frameless:     true,
		AlwaysOnTop:   true,
		StartHidden:   startHidden,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 16, G: 12, B: 24, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []any{
			app,
		},
	})

	if err != nil {
		slog.Error("[startup] wails run failed", "error", err)
	}
}
