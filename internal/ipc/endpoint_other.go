//go:build !windows

package ipc

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// DefaultEndpoint returns the per-user unix socket path.
func DefaultEndpoint() string {
	dir := os.TempDir()
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		dir = runtimeDir
	}
	return filepath.Join(dir, fmt.Sprintf("queenmama-%s.sock", currentUsername()))
}

func listen(endpoint string) (net.Listener, error) {
	// A previous crash can leave a stale socket file behind. Only remove it
	// when nothing is accepting on it.
	if _, err := os.Stat(endpoint); err == nil {
		conn, dialErr := net.DialTimeout("unix", endpoint, time.Second)
		if dialErr == nil {
			conn.Close()
			return nil, errors.New("socket is already in use")
		}
		if err := os.Remove(endpoint); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	}

	listener, err := net.Listen("unix", endpoint)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(endpoint, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}
	return listener, nil
}

func dial(endpoint string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", endpoint, timeout)
}
