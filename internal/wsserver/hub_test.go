package wsserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(HubOptions{})
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { h.Stop() })
	return h
}

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(h.URL(), nil)
	if err != nil {
		t.Fatalf("dial %s: %v", h.URL(), err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForConnection polls until the hub registers a client. The HTTP
// upgrade completes asynchronously relative to the dialer returning.
func waitForConnection(t *testing.T, h *Hub) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.HasActiveConnection() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("hub never registered the connection")
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Fatalf("message type = %d, want TextMessage", msgType)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env
}

func TestStartAssignsLoopbackURL(t *testing.T) {
	h := startHub(t)
	if !strings.HasPrefix(h.URL(), "ws://127.0.0.1:") {
		t.Fatalf("URL() = %q, want ws://127.0.0.1:<port>/events", h.URL())
	}
	if !strings.HasSuffix(h.URL(), "/events") {
		t.Fatalf("URL() = %q, want /events path", h.URL())
	}
}

func TestStartTwice(t *testing.T) {
	h := startHub(t)
	if err := h.Start(context.Background()); err == nil {
		t.Fatal("second Start() error = nil, want error")
	}
}

func TestURLEmptyBeforeStart(t *testing.T) {
	h := NewHub(HubOptions{})
	if h.URL() != "" {
		t.Fatalf("URL() before Start = %q, want empty", h.URL())
	}
}

func TestBroadcastDeliversEnvelope(t *testing.T) {
	h := startHub(t)
	conn := dialHub(t, h)
	waitForConnection(t, h)

	h.Broadcast("overlay_expanded_changed", map[string]bool{"expanded": true})

	env := readEnvelope(t, conn)
	if env.Event != "overlay_expanded_changed" {
		t.Fatalf("env.Event = %q, want %q", env.Event, "overlay_expanded_changed")
	}
	if _, err := uuid.Parse(env.ID); err != nil {
		t.Fatalf("env.ID = %q is not a UUID: %v", env.ID, err)
	}
	if env.TS == 0 {
		t.Fatal("env.TS = 0, want a timestamp")
	}
	payload, ok := env.Payload.(map[string]any)
	if !ok {
		t.Fatalf("env.Payload = %T, want map", env.Payload)
	}
	if payload["expanded"] != true {
		t.Fatalf("payload expanded = %v, want true", payload["expanded"])
	}
}

func TestBroadcastEnvelopeIDsAreUnique(t *testing.T) {
	h := startHub(t)
	conn := dialHub(t, h)
	waitForConnection(t, h)

	h.Broadcast("shortcut", "toggle_overlay")
	h.Broadcast("shortcut", "trigger_assist")

	first := readEnvelope(t, conn)
	second := readEnvelope(t, conn)
	if first.ID == second.ID {
		t.Fatalf("envelope IDs both %q, want unique", first.ID)
	}
}

func TestBroadcastWithoutClientIsNoop(t *testing.T) {
	h := startHub(t)
	// Must not panic or block.
	h.Broadcast("tray_action", "start_session")
	if h.HasActiveConnection() {
		t.Fatal("HasActiveConnection() = true, want false")
	}
}

func TestBroadcastEmptyEventIsNoop(t *testing.T) {
	h := startHub(t)
	conn := dialHub(t, h)
	waitForConnection(t, h)

	h.Broadcast("", nil)
	h.Broadcast("shortcut", "clear_context")

	env := readEnvelope(t, conn)
	if env.Event != "shortcut" {
		t.Fatalf("env.Event = %q, want the non-empty event only", env.Event)
	}
}

func TestNewConnectionReplacesOld(t *testing.T) {
	h := startHub(t)
	oldConn := dialHub(t, h)
	waitForConnection(t, h)

	newConn := dialHub(t, h)

	// The old connection is closed by the hub; its read pump sees an
	// error once the replacement lands.
	oldConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := oldConn.ReadMessage(); err == nil {
		t.Fatal("old connection still readable, want closed")
	}

	h.Broadcast("shortcut", "toggle_session")
	env := readEnvelope(t, newConn)
	if env.Event != "shortcut" {
		t.Fatalf("env.Event = %q, want %q", env.Event, "shortcut")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := startHub(t)
	dialHub(t, h)
	waitForConnection(t, h)

	if err := h.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
	if h.HasActiveConnection() {
		t.Fatal("HasActiveConnection() = true after Stop")
	}
}

func TestClientDisconnectClearsConnection(t *testing.T) {
	h := startHub(t)
	conn := dialHub(t, h)
	waitForConnection(t, h)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !h.HasActiveConnection() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("hub still reports a connection after client close")
}
