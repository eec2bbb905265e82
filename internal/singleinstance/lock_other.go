//go:build !windows

// Package singleinstance guards against a second copy of the shell
// starting for the same user session.
package singleinstance

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning reports that another process already holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

var invalidNameRune = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Lock owns a pidfile for the lifetime of the process.
type Lock struct {
	path string
}

// DefaultLockName returns the per-user pidfile path, preferring the
// session runtime directory over the shared temp directory.
func DefaultLockName() string {
	name := "user"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = invalidNameRune.ReplaceAllString(u.Username, "_")
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "queenmama-"+name+".pid")
}

// TryLock attempts to create the pidfile without blocking. A pidfile
// whose recorded process is gone is treated as stale and replaced.
func TryLock(path string) (*Lock, error) {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", os.Getpid())
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				os.Remove(path)
				return nil, werr
			}
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		if pidfileAlive(path) {
			return nil, ErrAlreadyRunning
		}
		// Stale pidfile from a crashed instance. Remove and retry once.
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, ErrAlreadyRunning
}

// Release removes the pidfile so another instance may start.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// pidfileAlive reports whether the pid recorded in the file still
// names a running process. Unreadable or garbled files count as stale.
func pidfileAlive(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false
	}
	// Signal 0 probes for existence without delivering anything.
	err = syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
