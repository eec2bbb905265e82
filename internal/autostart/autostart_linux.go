//go:build linux

package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	userHomeDirFn = os.UserHomeDir
	getenvFn      = os.Getenv
)

func desktopFilePath() (string, error) {
	dir := strings.TrimSpace(getenvFn("XDG_CONFIG_HOME"))
	if dir == "" {
		home, err := userHomeDirFn()
		if err != nil {
			return "", fmt.Errorf("autostart: resolve home: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autostart", appName+".desktop"), nil
}

func enabled() (bool, error) {
	path, err := desktopFilePath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func enable(exe string) error {
	path, err := desktopFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("autostart: mkdir autostart dir: %w", err)
	}
	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=Queen Mama LITE
Exec=%s %s
X-GNOME-Autostart-enabled=true
`, exe, HiddenFlag)
	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("autostart: write desktop entry: %w", err)
	}
	return nil
}

func disable() error {
	path, err := desktopFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("autostart: remove desktop entry: %w", err)
	}
	return nil
}
