// Package wsserver mirrors shell events over a localhost WebSocket so
// that auxiliary frontends (dev panel, external dashboards) can observe
// the same event stream the webview receives.
package wsserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// writeDeadline bounds a single WebSocket write. Localhost writes that
// take longer than this mean the client is frozen or gone.
const writeDeadline = 5 * time.Second

// readDeadline is how long the server waits for any read activity,
// pongs included, before declaring the connection dead. It allows for
// roughly three missed pings.
const readDeadline = 90 * time.Second

// pingInterval is the keepalive ping cadence.
const pingInterval = 30 * time.Second

// maxReadMessageSize caps incoming messages. Clients only ever send
// small control frames; anything larger is malformed.
const maxReadMessageSize = 4 * 1024

// wsUpgrader is shared across connections; the Upgrader is stateless.
var wsUpgrader = websocket.Upgrader{
	// The server binds to 127.0.0.1 only, so origin checking adds
	// nothing and breaks webview user agents with odd Origin headers.
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 8 * 1024,
}

// Envelope is the JSON frame sent for every mirrored event.
type Envelope struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
	TS      int64  `json:"ts"`
}

// HubOptions configures the event mirror server.
type HubOptions struct {
	// Addr is the listen address. Use "127.0.0.1:0" for an OS-assigned
	// port. Binding anything other than loopback is not supported.
	Addr string
}

// Hub serves the mirrored event stream to a single WebSocket client.
//
// Single-connection model: the mirror exists for one local observer at
// a time, and a new connection replaces the old one so that a page
// reload never wedges the stream.
//
// Lock ordering (never acquire in reverse):
//
//	writeMu -> mu
//
// mu protects conn. writeMu serializes WriteMessage calls because
// gorilla/websocket does not support concurrent writes.
//
// Any write failure disconnects the client; the client reconnects.
type Hub struct {
	opts HubOptions

	mu   sync.RWMutex
	conn *websocket.Conn

	writeMu sync.Mutex

	listener net.Listener
	server   *http.Server
	url      string // "ws://127.0.0.1:<port>/events", set after Start

	// closeOnce makes Stop idempotent. A stopped Hub is not reusable.
	closeOnce sync.Once
}

// NewHub creates a Hub with the given options. The hub does not listen
// until Start is called.
func NewHub(opts HubOptions) *Hub {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	return &Hub{opts: opts}
}

// Start begins listening and serving WebSocket connections. ctx becomes
// the BaseContext of the HTTP server; the server itself must be stopped
// explicitly via Stop.
//
// Start must be called exactly once, before any concurrent use.
func (h *Hub) Start(ctx context.Context) error {
	if h.server != nil {
		return fmt.Errorf("wsserver: already started")
	}

	ln, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("wsserver: listen: %w", err)
	}
	h.listener = ln

	port := ln.Addr().(*net.TCPAddr).Port
	h.url = fmt.Sprintf("ws://127.0.0.1:%d/events", port)

	mux := http.NewServeMux()
	mux.HandleFunc("/events", h.handleWS)

	h.server = &http.Server{
		Handler: mux,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if serveErr := h.server.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("[mirror] server error", "error", serveErr)
		}
	}()

	slog.Info("[mirror] server started", "url", h.url)
	return nil
}

// Stop shuts down the HTTP server and closes any active connection.
// Safe to call multiple times.
func (h *Hub) Stop() error {
	var stopErr error
	h.closeOnce.Do(func() {
		h.mu.Lock()
		conn := h.conn
		h.conn = nil
		h.mu.Unlock()

		if conn != nil {
			if err := conn.Close(); err != nil {
				slog.Debug("[mirror] connection close during stop", "error", err)
			}
		}

		if h.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				stopErr = fmt.Errorf("wsserver: shutdown: %w", err)
			}
		}

		slog.Info("[mirror] server stopped")
	})
	return stopErr
}

// URL returns the WebSocket URL clients dial, for example
// "ws://127.0.0.1:54321/events". Empty before Start.
func (h *Hub) URL() string {
	return h.url
}

// HasActiveConnection reports whether an observer is connected.
func (h *Hub) HasActiveConnection() bool {
	h.mu.RLock()
	active := h.conn != nil
	h.mu.RUnlock()
	return active
}

// Broadcast sends one event envelope to the connected observer. Each
// envelope carries a fresh UUID and a millisecond timestamp so clients
// can deduplicate and order frames after a reconnect.
//
// No-op when no client is connected. Write errors close the connection.
func (h *Hub) Broadcast(event string, payload any) {
	if event == "" {
		return
	}

	h.mu.RLock()
	conn := h.conn
	h.mu.RUnlock()

	if conn == nil {
		return
	}

	frame, err := json.Marshal(Envelope{
		ID:      uuid.NewString(),
		Event:   event,
		Payload: payload,
		TS:      time.Now().UnixMilli(),
	})
	if err != nil {
		slog.Warn("[mirror] failed to encode event", "event", event, "error", err)
		return
	}

	h.writeMu.Lock()
	if !h.setWriteDeadlineOrClose(conn, writeDeadline) {
		h.writeMu.Unlock()
		return
	}
	writeErr := conn.WriteMessage(websocket.TextMessage, frame)
	h.clearWriteDeadline(conn)
	h.writeMu.Unlock()

	if writeErr != nil {
		slog.Warn("[mirror] write failed, closing connection", "event", event, "error", writeErr)
		h.clearIfCurrent(conn)
		h.closeConn(conn, "write error in Broadcast")
	}
}

// clearIfCurrent clears the hub's connection only if conn is still the
// current one. Caller must not hold h.mu.
func (h *Hub) clearIfCurrent(conn *websocket.Conn) bool {
	h.mu.Lock()
	isCurrent := h.conn == conn
	if isCurrent {
		h.conn = nil
	}
	h.mu.Unlock()
	return isCurrent
}

// closeConn closes a connection. Double-close is expected when several
// goroutines race to tear down the same connection; gorilla's Close on
// an already-closed connection just returns an error.
func (h *Hub) closeConn(conn *websocket.Conn, reason string) {
	if closeErr := conn.Close(); closeErr != nil {
		slog.Debug("[mirror] connection close", "reason", reason, "error", closeErr)
	}
}

// setWriteDeadlineOrClose sets a write deadline. If that fails the
// connection is unusable and gets closed.
func (h *Hub) setWriteDeadlineOrClose(conn *websocket.Conn, d time.Duration) bool {
	if err := conn.SetWriteDeadline(time.Now().Add(d)); err != nil {
		slog.Warn("[mirror] SetWriteDeadline failed, closing connection", "error", err)
		h.clearIfCurrent(conn)
		h.closeConn(conn, "SetWriteDeadline failure")
		return false
	}
	return true
}

// clearWriteDeadline resets the deadline after a successful write.
// Failure here is non-fatal; the next write sets a fresh deadline.
func (h *Hub) clearWriteDeadline(conn *websocket.Conn) {
	if err := conn.SetWriteDeadline(time.Time{}); err != nil {
		slog.Debug("[mirror] clearWriteDeadline failed (non-fatal)", "error", err)
	}
}

// handleWS upgrades HTTP to WebSocket and runs the read pump. A new
// connection replaces the old one.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("[mirror] upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(maxReadMessageSize)

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		slog.Warn("[mirror] SetReadDeadline failed on new connection", "error", err)
		h.closeConn(conn, "initial SetReadDeadline failure")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	h.mu.Lock()
	oldConn := h.conn
	h.conn = conn
	h.mu.Unlock()

	if oldConn != nil {
		// Close outside the lock to keep lock ordering simple.
		h.closeConn(oldConn, "replaced by new connection")
	}

	slog.Info("[mirror] client connected", "remoteAddr", conn.RemoteAddr())

	pingDone := make(chan struct{})
	go h.pingLoop(conn, pingDone)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[mirror] handleWS recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}

		close(pingDone)
		h.clearIfCurrent(conn)
		h.closeConn(conn, "read pump exit")
		slog.Info("[mirror] client disconnected")
	}()

	// The stream is one-way. The read pump exists to notice the close
	// handshake and to keep the pong handler fed; inbound frames are
	// otherwise discarded.
	for {
		if _, _, readErr := conn.ReadMessage(); readErr != nil {
			if websocket.IsUnexpectedCloseError(readErr, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("[mirror] read error", "error", readErr)
			}
			return
		}
	}
}

// pingLoop sends periodic pings so dead observers are detected. One
// goroutine per connection; exits when done closes or a ping fails.
func (h *Hub) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[mirror] pingLoop recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			h.clearIfCurrent(conn)
			h.closeConn(conn, "pingLoop panic recovery")
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.writeMu.Lock()
			if !h.setWriteDeadlineOrClose(conn, writeDeadline) {
				h.writeMu.Unlock()
				return
			}
			pingErr := conn.WriteMessage(websocket.PingMessage, nil)
			h.clearWriteDeadline(conn)
			h.writeMu.Unlock()

			if pingErr != nil {
				slog.Debug("[mirror] ping failed, connection likely dead", "error", pingErr)
				h.clearIfCurrent(conn)
				h.closeConn(conn, "ping failure")
				return
			}
		}
	}
}
