package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"queenmama-lite/internal/config"

	"github.com/fsnotify/fsnotify"
)

// configReloadDebounce coalesces the burst of filesystem events an editor
// save produces (create temp, write, rename) into a single reload.
const configReloadDebounce = 200 * time.Millisecond

// Restart policy for a panicking watcher session: doubling delay between
// attempts, capped, with a bounded attempt count.
const (
	watcherRestartInitialDelay = 100 * time.Millisecond
	watcherRestartMaxDelay     = 5 * time.Second
	watcherRestartMaxAttempts  = 10
)

// logWatcherPanic reports a recovered watcher panic with its stack. Returns
// false when recovered is nil so callers can pass recover() directly.
func logWatcherPanic(recovered any) bool {
	if recovered == nil {
		return false
	}
	slog.Error("[config] watcher recovered from panic",
		"panic", recovered,
		"stack", string(debug.Stack()),
	)
	return true
}

// watcherRestartDelayAfter doubles the restart delay up to the cap.
func watcherRestartDelayAfter(current time.Duration) time.Duration {
	if current <= 0 {
		return watcherRestartInitialDelay
	}
	next := current * 2
	if next > watcherRestartMaxDelay || next < current {
		return watcherRestartMaxDelay
	}
	return next
}

// startConfigWatcher reloads the config file when it changes on disk so
// edits apply without a restart. The watcher restarts itself after a panic
// with exponential backoff.
func (a *App) startConfigWatcher(ctx context.Context) {
	if a.configPath == "" {
		return
	}

	a.bgWG.Add(1)
	go func() {
		defer a.bgWG.Done()
		restartDelay := watcherRestartInitialDelay
		for attempt := 0; attempt < watcherRestartMaxAttempts; attempt++ {
			panicked := false
			func() {
				defer func() {
					if logWatcherPanic(recover()) {
						panicked = true
					}
				}()
				a.watchConfigFile(ctx)
			}()
			if !panicked || ctx.Err() != nil || a.shuttingDown.Load() {
				return
			}
			slog.Warn("[config] restarting watcher after panic",
				"restartDelay", restartDelay,
				"attempt", attempt+1,
			)
			restartTimer := time.NewTimer(restartDelay)
			select {
			case <-ctx.Done():
				if !restartTimer.Stop() {
					<-restartTimer.C
				}
				return
			case <-restartTimer.C:
			}
			restartDelay = watcherRestartDelayAfter(restartDelay)
		}
		slog.Error("[config] watcher exceeded max retries, giving up",
			"maxRetries", watcherRestartMaxAttempts)
	}()
}

// watchConfigFile runs one watcher session until ctx is cancelled or the
// watcher breaks. The parent directory is watched rather than the file:
// atomic saves replace the file by rename, which would orphan a file watch.
func (a *App) watchConfigFile(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("[config] watcher unavailable", "error", err)
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(a.configPath)
	if err := watcher.Add(dir); err != nil {
		slog.Warn("[config] cannot watch config directory", "dir", dir, "error", err)
		return
	}

	var reloadTimer *time.Timer
	defer func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
	}()

	base := filepath.Base(a.configPath)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if reloadTimer == nil {
				reloadTimer = time.AfterFunc(configReloadDebounce, a.reloadConfigFromDisk)
			} else {
				reloadTimer.Reset(configReloadDebounce)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("[config] watcher error", "error", watchErr)
		}
	}
}

// reloadConfigFromDisk applies an external edit of the config file.
func (a *App) reloadConfigFromDisk() {
	if a.shuttingDown.Load() {
		return
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		slog.Warn("[config] reload failed, keeping previous config", "error", err)
		return
	}
	if cfg == a.getConfigSnapshot() {
		// SaveConfig already applied this revision; skip the echo from our
		// own atomic write.
		return
	}
	a.setConfigSnapshot(cfg)
	a.applyConfigSideEffects(cfg)
	a.emitShellEvent("config_changed", configUpdatedEvent{
		Config:             cfg,
		Version:            a.configEventVersion.Add(1),
		UpdatedAtUnixMilli: time.Now().UnixMilli(),
	})
	slog.Info("[config] reloaded after external edit", "path", a.configPath)
}
