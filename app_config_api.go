package main

import (
	"log/slog"
	"time"

	"queenmama-lite/internal/autostart"
	"queenmama-lite/internal/config"
)

type configUpdatedEvent struct {
	Config             config.Config `json:"config"`
	Version            uint64        `json:"version"`
	UpdatedAtUnixMilli int64         `json:"updated_at_unix_milli"`
}

// GetConfig returns loaded config.
func (a *App) GetConfig() config.Config {
	return a.getConfigSnapshot()
}

// GetConfigAndFlushWarnings returns loaded config and emits any pending startup warnings.
func (a *App) GetConfigAndFlushWarnings() config.Config {
	a.flushPendingConfigLoadWarnings()
	return a.getConfigSnapshot()
}

func (a *App) flushPendingConfigLoadWarnings() {
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	if warning := a.consumePendingConfigLoadWarning(); warning != "" {
		a.emitShellEventWithContext(ctx, "config_load_failed", map[string]string{
			"message": warning,
		})
	}
}

// SaveConfig validates and persists cfg to disk, then updates in-memory
// config and applies the runtime-affecting settings. The config_changed
// event carries the normalized config (with defaults filled).
func (a *App) SaveConfig(cfg config.Config) error {
	event, err := a.saveConfigWithLock(cfg)
	if err != nil {
		return err
	}
	a.applyConfigSideEffects(event.Config)
	// Event emission intentionally happens outside cfgSaveMu.
	// Concurrent saves are ordered by Version, and frontend consumers must
	// treat the highest version as authoritative.
	a.emitShellEvent("config_changed", event)
	return nil
}

// saveConfigWithLock serializes config writes. Save normalizes cfg, so the
// snapshot stored in memory is re-read from the validated value.
func (a *App) saveConfigWithLock(cfg config.Config) (configUpdatedEvent, error) {
	a.cfgSaveMu.Lock()
	defer a.cfgSaveMu.Unlock()

	if err := config.Save(a.configPath, cfg); err != nil {
		return configUpdatedEvent{}, err
	}
	// Re-load to pick up the defaults Save filled in.
	normalized, err := config.Load(a.configPath)
	if err != nil {
		// The file was just written; a load failure here means a racing
		// external edit. Keep the submitted value.
		slog.Warn("[config] re-load after save failed", "error", err)
		normalized = cfg
	}
	a.setConfigSnapshot(normalized)
	return configUpdatedEvent{
		Config:             normalized,
		Version:            a.configEventVersion.Add(1),
		UpdatedAtUnixMilli: time.Now().UnixMilli(),
	}, nil
}

// applyConfigSideEffects re-applies the settings that reach outside the
// process: the login item and the default overlay anchor.
func (a *App) applyConfigSideEffects(cfg config.Config) {
	if err := autostart.Sync(cfg.Autostart); err != nil {
		runtimeLogger.Warningf(a.runtimeContext(), "autostart sync failed: %v", err)
	}
	// A changed default anchor only applies when no explicit placement has
	// been persisted; restoreOverlayPlacement owns that precedence.
	a.restoreOverlayPlacement(cfg)
}
