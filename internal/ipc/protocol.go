// Package ipc carries activation requests between application instances: a
// second launch asks the running instance to bring the overlay forward
// instead of starting a duplicate shell.
package ipc

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/google/uuid"
)

// CommandActivate asks the running instance to show and focus the overlay.
const CommandActivate = "activate"

const maxFrameBytes = 16 * 1024

// Request is a single activation request. ID is a fresh UUID used to
// correlate log lines across the two processes.
type Request struct {
	ID      string `json:"id"`
	Command string `json:"command"`
}

// Response acknowledges a request.
type Response struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewRequest creates a Request with a fresh correlation ID.
func NewRequest(command string) Request {
	return Request{ID: uuid.NewString(), Command: command}
}

// Handler processes one request and produces its response.
type Handler interface {
	Handle(req Request) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req Request) Response

// Handle calls f.
func (f HandlerFunc) Handle(req Request) Response { return f(req) }

func encodeFrame(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(raw) > maxFrameBytes {
		return nil, fmt.Errorf("frame exceeds %d bytes", maxFrameBytes)
	}
	return append(raw, '\n'), nil
}

func sanitizeUsername(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

func currentUsername() string {
	username := strings.TrimSpace(os.Getenv("USERNAME"))
	if username == "" {
		if current, err := user.Current(); err == nil {
			username = current.Username
		}
	}
	return sanitizeUsername(username)
}
