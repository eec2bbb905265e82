package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

const (
	connReadTimeout          = 10 * time.Second
	maxConcurrentConnections = 8
)

// Server listens for activation requests from later instances.
type Server struct {
	endpoint string
	handler  Handler

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	listener net.Listener
	started  bool
	wg       sync.WaitGroup
	slots    chan struct{}
}

// NewServer constructs a Server. An empty endpoint uses DefaultEndpoint().
func NewServer(endpoint string, handler Handler) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	if endpoint == "" {
		endpoint = DefaultEndpoint()
	}
	return &Server{
		endpoint: endpoint,
		handler:  handler,
		ctx:      ctx,
		cancel:   cancel,
		slots:    make(chan struct{}, maxConcurrentConnections),
	}
}

// Endpoint returns the listen address.
func (s *Server) Endpoint() string {
	return s.endpoint
}

// Start begins accepting activation requests.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("ipc server already started")
	}
	if s.handler == nil {
		return errors.New("ipc server requires a handler")
	}

	listener, err := listen(s.endpoint)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.endpoint, err)
	}
	s.listener = listener
	s.started = true

	s.wg.Add(1)
	go s.acceptLoop(listener)
	return nil
}

// Stop closes the listener and waits for in-flight connections.
func (s *Server) Stop() error {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.started = false
	s.mu.Unlock()

	s.cancel()
	var err error
	if listener != nil {
		err = listener.Close()
	}
	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop(listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			slog.Warn("[ipc] accept failed", "error", err)
			return
		}

		select {
		case s.slots <- struct{}{}:
		case <-s.ctx.Done():
			conn.Close()
			return
		}

		s.wg.Add(1)
		go func(conn net.Conn) {
			defer s.wg.Done()
			defer func() { <-s.slots }()
			defer conn.Close()
			s.serveConn(conn)
		}(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	if err := conn.SetDeadline(time.Now().Add(connReadTimeout)); err != nil {
		slog.Warn("[ipc] set deadline failed", "error", err)
		return
	}

	reader := bufio.NewReaderSize(conn, maxFrameBytes+1)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		slog.Warn("[ipc] read request failed", "error", err)
		return
	}
	if len(line) > maxFrameBytes {
		slog.Warn("[ipc] oversized request dropped", "bytes", len(line))
		return
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		slog.Warn("[ipc] malformed request dropped", "error", err)
		return
	}

	resp := s.handler.Handle(req)
	resp.ID = req.ID

	frame, err := encodeFrame(resp)
	if err != nil {
		slog.Warn("[ipc] encode response failed", "error", err)
		return
	}
	if _, err := conn.Write(frame); err != nil {
		slog.Warn("[ipc] write response failed", "error", err)
	}
}
