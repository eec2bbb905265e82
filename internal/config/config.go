package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"queenmama-lite/internal/windowmgr"

	"go.yaml.in/yaml/v3"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB
	maxRenameRetry           = 10
	// Windows file lock releases (antivirus/indexing) typically settle quickly.
	// Use a short linear backoff: baseDelay * (1..maxRenameRetry).
	renameRetryBaseDelay = 10 * time.Millisecond

	defaultFeedbackURL  = "https://queenmama.featurebase.app"
	defaultDashboardURL = "https://app.queenmama.ai/dashboard"
)

var userHomeDirFn = os.UserHomeDir

// Config is the Queen Mama LITE shell configuration.
type Config struct {
	// FeedbackURL is opened in the default browser by the tray Feedback item.
	FeedbackURL string `yaml:"feedback_url" json:"feedback_url"`
	// DashboardURL is the address of the main dashboard window.
	DashboardURL string `yaml:"dashboard_url" json:"dashboard_url"`
	// Autostart registers the application as a login item with --hidden.
	Autostart bool `yaml:"autostart" json:"autostart"`
	// LaunchHidden keeps the overlay hidden at startup.
	LaunchHidden bool `yaml:"launch_hidden" json:"launch_hidden"`
	// DefaultAnchor is the overlay anchor applied at startup when no
	// persisted placement exists. Empty means the built-in top-right
	// startup placement.
	DefaultAnchor string `yaml:"default_anchor,omitempty" json:"default_anchor,omitempty"`
}

// DefaultConfig returns the shipped defaults.
func DefaultConfig() Config {
	return Config{
		FeedbackURL:  defaultFeedbackURL,
		DashboardURL: defaultDashboardURL,
	}
}

// DefaultPath resolves the config file path: LOCALAPPDATA/APPDATA on Windows,
// ~/Library/Application Support on macOS, ~/.config elsewhere, falling back
// to os.TempDir() when the home directory cannot be resolved.
func DefaultPath() string {
	base := ""
	if runtime.GOOS == "windows" {
		base = strings.TrimSpace(os.Getenv("LOCALAPPDATA"))
		if base == "" {
			base = strings.TrimSpace(os.Getenv("APPDATA"))
		}
	}
	if base == "" {
		home, err := userHomeDirFn()
		if err != nil {
			// Keep config path resolvable even in restricted environments.
			slog.Warn("[config] using temp dir as config path fallback", "error", err)
			base = os.TempDir()
		} else if runtime.GOOS == "darwin" {
			base = filepath.Join(home, "Library", "Application Support")
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, "queenmama", "config.yaml")
}

// Load reads the config file. A missing file returns defaults without error;
// a malformed file returns defaults together with the parse error so the
// caller can surface a warning and continue.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		slog.Warn("[config] failed to parse config, using defaults", "path", path, "error", err)
		return DefaultConfig(), err
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EnsureFile writes the default config if missing and returns the loaded config.
func EnsureFile(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Save validates and persists cfg using an atomic temp-file + rename write.
func Save(path string, cfg Config) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config path required")
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("save config: marshal: %w", err)
	}
	if err := atomicWrite(path, raw); err != nil {
		return err
	}
	slog.Debug("[config] config saved", "path", path)
	return nil
}

func applyDefaultsAndValidate(cfg *Config) error {
	if strings.TrimSpace(cfg.FeedbackURL) == "" {
		cfg.FeedbackURL = defaultFeedbackURL
	}
	if strings.TrimSpace(cfg.DashboardURL) == "" {
		cfg.DashboardURL = defaultDashboardURL
	}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"feedback_url", cfg.FeedbackURL},
		{"dashboard_url", cfg.DashboardURL},
	} {
		parsed, err := url.Parse(field.value)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%s %q must be an http(s) URL", field.name, field.value)
		}
	}
	if anchor := strings.TrimSpace(cfg.DefaultAnchor); anchor != "" {
		if _, err := windowmgr.ParsePosition(anchor); err != nil {
			return fmt.Errorf("default_anchor: %w", err)
		}
		cfg.DefaultAnchor = anchor
	}
	return nil
}

// readLimitedFile reads at most limit bytes and errors when the file is larger.
func readLimitedFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, limit)
	}
	return raw, nil
}

// atomicWrite writes config data using temp-file + rename to avoid partial
// writes and retries rename on Windows to tolerate transient file locks.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save config: mkdir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("save config: create temp: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			if closeErr := tmpFile.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
				slog.Warn("[config] failed to close temp file", "path", tmpPath, "error", closeErr)
			}
		}
		if err != nil {
			if removeErr := os.Remove(tmpPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				slog.Warn("[config] failed to remove temp file", "path", tmpPath, "error", removeErr)
			}
		}
	}()

	if err = tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("save config: chmod temp: %w", err)
	}
	if _, err = tmpFile.Write(data); err != nil {
		return fmt.Errorf("save config: write: %w", err)
	}
	if err = tmpFile.Sync(); err != nil {
		return fmt.Errorf("save config: sync: %w", err)
	}
	err = tmpFile.Close()
	tmpFile = nil
	if err != nil {
		return fmt.Errorf("save config: close: %w", err)
	}

	if err = renameFileWithRetry(tmpPath, path); err != nil {
		return fmt.Errorf("save config: rename: %w", err)
	}
	return nil
}

func renameFileWithRetry(oldPath, newPath string) error {
	var lastErr error
	for attempt := 1; attempt <= maxRenameRetry; attempt++ {
		lastErr = os.Rename(oldPath, newPath)
		if lastErr == nil {
			return nil
		}
		time.Sleep(renameRetryBaseDelay * time.Duration(attempt))
	}
	return lastErr
}
