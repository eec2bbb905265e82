//go:build windows

// Package singleinstance guards against a second copy of the shell
// starting for the same user session.
package singleinstance

import (
	"errors"
	"os/user"
	"regexp"
	"strings"

	"golang.org/x/sys/windows"
)

// ErrAlreadyRunning reports that another process already holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

var invalidNameRune = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Lock holds a named Win32 mutex for the lifetime of the process.
type Lock struct {
	handle windows.Handle
}

// DefaultLockName returns the per-user mutex name. The Global prefix
// makes the lock span all desktop sessions of the same user.
func DefaultLockName() string {
	name := "user"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
		if i := strings.LastIndexByte(name, '\\'); i >= 0 {
			name = name[i+1:]
		}
		name = invalidNameRune.ReplaceAllString(name, "_")
	}
	return `Global\queenmama-` + name
}

// TryLock attempts to acquire the named mutex without blocking.
// It returns ErrAlreadyRunning when another process owns it.
func TryLock(name string) (*Lock, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, err
	}
	handle, err := windows.CreateMutex(nil, false, namePtr)
	if err != nil {
		// CreateMutex hands back a valid handle alongside
		// ERROR_ALREADY_EXISTS when another process owns the name.
		if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
			if handle != 0 {
				windows.CloseHandle(handle)
			}
			return nil, ErrAlreadyRunning
		}
		return nil, err
	}
	return &Lock{handle: handle}, nil
}

// Release closes the mutex handle so another instance may start.
func (l *Lock) Release() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(l.handle)
	l.handle = 0
	return err
}
