// Package server accepts TCP connections and speaks the newline-delimited
// JSON protocol, one goroutine per connection. It owns no store state: every
// request is handed to the injected dispatcher and the response written back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/dotcommander/kvd/internal/dispatch"
	"github.com/dotcommander/kvd/internal/protocol"
)

// Server serves the kvd protocol on a TCP listener.
type Server struct {
	addr       string
	dispatcher *dispatch.Dispatcher
}

// New returns a server that will listen on addr and route requests through
// dispatcher.
func New(addr string, dispatcher *dispatch.Dispatcher) *Server {
	return &Server{addr: addr, dispatcher: dispatcher}
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is cancelled. Each connection is
// handled on its own goroutine; the listener is closed when ctx ends.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	defer l.Close()
	slog.Info("listening", "addr", l.Addr().String())

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Warn("accept failed", "error", err.Error())
			continue
		}
		go s.handleConn(conn)
	}
}

// handleConn serves one client session: requests in, responses out, until
// the client hangs up or sends something undecodable. A bad command never
// ends the session — the dispatcher turns it into an ERROR response.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	slog.Info("client connected", "conn_id", connID, "remote", conn.RemoteAddr().String())

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req protocol.Request
		if err := dec.Decode(&req); err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Warn("decode failed", "conn_id", connID, "error", err.Error())
			}
			slog.Info("client disconnected", "conn_id", connID)
			return
		}

		resp := s.dispatcher.Dispatch(req)
		if resp.Status == protocol.StatusError {
			slog.Debug("command failed", "conn_id", connID, "command", req.Command, "result", resp.Result)
		}
		if err := enc.Encode(resp); err != nil {
			slog.Warn("write failed", "conn_id", connID, "error", err.Error())
			return
		}
	}
}
