// Package autostart registers the application as a login item. The launch
// command carries --hidden so an autostarted instance keeps the overlay
// hidden until the user summons it.
package autostart

import (
	"os"
)

// HiddenFlag is appended to the autostart launch command and checked by main
// at startup.
const HiddenFlag = "--hidden"

const appName = "QueenMamaLITE"

var executableFn = os.Executable

// Enabled reports whether the login item is currently registered.
func Enabled() (bool, error) {
	return enabled()
}

// Enable registers the current executable as a login item. Idempotent.
func Enable() error {
	exe, err := executableFn()
	if err != nil {
		return err
	}
	return enable(exe)
}

// Disable removes the login item. Removing an absent item is a no-op.
func Disable() error {
	return disable()
}

// Sync brings the login item in line with want.
func Sync(want bool) error {
	if want {
		return Enable()
	}
	return Disable()
}
