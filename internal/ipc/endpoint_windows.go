//go:build windows

package ipc

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

const pipePrefix = `\\.\pipe\queenmama-`

// DefaultEndpoint returns the per-user named pipe path.
func DefaultEndpoint() string {
	return pipePrefix + currentUsername()
}

func listen(endpoint string) (net.Listener, error) {
	// Restrict the pipe to the current user: SYSTEM, Administrators and the
	// owner get full access, everyone else none.
	config := &winio.PipeConfig{
		SecurityDescriptor: "D:P(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;OW)",
	}
	return winio.ListenPipe(endpoint, config)
}

func dial(endpoint string, timeout time.Duration) (net.Conn, error) {
	return winio.DialPipe(endpoint, &timeout)
}
