// Package web serves the shooter to browsers over WebSocket.
//
// Each connection plays its own game. The server streams a JSON snapshot
// once per frame plus every engine signal, and accepts fire, reset, welcome
// and dismiss commands.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-commando/internal/clock"
	"github.com/vovakirdan/tui-commando/internal/config"
	"github.com/vovakirdan/tui-commando/internal/core"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
	"github.com/vovakirdan/tui-commando/internal/session"
	"github.com/vovakirdan/tui-commando/internal/storage"
)

const (
	writeWait       = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config holds configuration for the web server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Game is the shooter configuration every session plays with.
	Game config.CommandoConfig

	// FPS is both the simulation frame rate and the snapshot rate.
	FPS int

	// Seed is mixed with the session id to seed each game; 0 uses the clock.
	Seed int64

	// SendBuffer is the number of outgoing messages queued per connection.
	SendBuffer int
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:    ":8080",
		Game:       config.DefaultCommandoConfig(),
		FPS:        60,
		SendBuffer: 64,
	}
}

// Server hosts one game per WebSocket connection.
type Server struct {
	config   Config
	clock    clock.Clock
	journal  *storage.Journal
	logger   *log.Logger
	sessions *session.Registry
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithJournal records every session in j.
func WithJournal(j *storage.Journal) Option {
	return func(s *Server) { s.journal = j }
}

// WithLogger sets the server logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithClock replaces the wall clock driving games and snapshots.
func WithClock(c clock.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// NewServer creates a web server with the given configuration.
func NewServer(cfg Config, opts ...Option) *Server {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	s := &Server{
		config:   cfg,
		clock:    clock.Real(),
		logger:   log.New(io.Discard),
		sessions: session.NewRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes: /ws for games and /healthz for health checks.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Sessions returns the number of connected players.
func (s *Server) Sessions() int {
	return s.sessions.Count()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck // Best-effort health response
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := uuid.NewString()
	logger := s.logger.With("session", id)

	engine := commando.New(s.config.Game,
		commando.WithSeed(core.SessionSeed(s.config.Seed, id)),
		commando.WithLogger(logger),
	)
	scheduler := commando.Drive(engine, s.clock, s.config.FPS)
	s.attachJournal(engine, id)

	out := session.NewOutbox[ServerMessage](id, s.config.SendBuffer)
	out.OnClose(func() {
		//nolint:errcheck // Unblocks the reader
		conn.Close()
	})
	engine.Subscribe(commando.SinkFunc(func(sig commando.Signal) {
		out.Send(signalMessage(sig))
	}))
	s.sessions.Register(out)

	logger.Info("client connected", "remote", r.RemoteAddr)
	err = s.serveSession(r.Context(), conn, engine, out)

	scheduler.Stop()
	out.Close()
	s.sessions.Unregister(id)

	if err != nil {
		logger.Warn("client disconnected", "error", err)
		return
	}
	logger.Info("client disconnected")
}

// attachJournal registers the session and subscribes its journal sink.
func (s *Server) attachJournal(engine *commando.Engine, id string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.BeginSession(id, "web"); err != nil {
		s.logger.Warn("journal unavailable for session", "session", id, "error", err)
		return
	}
	engine.Subscribe(s.journal.Sink(id, s.logger))
}

// serveSession runs the reader and the writer until either ends.
// The writer is the only goroutine that writes to conn.
func (s *Server) serveSession(ctx context.Context, conn *websocket.Conn, engine *commando.Engine, out *session.Outbox[ServerMessage]) error {
	if err := s.write(conn, ServerMessage{Type: MsgHello, Session: out.ID()}); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer out.Close()
		return s.readLoop(conn, engine, out)
	})
	g.Go(func() error {
		defer out.Close()
		return s.writeLoop(ctx, conn, engine, out)
	})
	return g.Wait()
}

func (s *Server) readLoop(conn *websocket.Conn, engine *commando.Engine, out *session.Outbox[ServerMessage]) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			select {
			case <-out.Done():
				return nil
			default:
			}
			return fmt.Errorf("web: read: %w", err)
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			out.Send(errorMessage(fmt.Errorf("malformed message: %w", err)))
			continue
		}
		if err := apply(engine, msg); err != nil {
			out.Send(errorMessage(err))
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, engine *commando.Engine, out *session.Outbox[ServerMessage]) error {
	ticker := s.clock.NewTicker(time.Second / time.Duration(s.config.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-out.Done():
			return nil
		case msg := <-out.Messages():
			if err := s.write(conn, msg); err != nil {
				return err
			}
		case <-ticker.C():
			if err := s.write(conn, stateMessage(engine.Snapshot())); err != nil {
				return err
			}
		}
	}
}

func (s *Server) write(conn *websocket.Conn, msg ServerMessage) error {
	//nolint:errcheck // A failed deadline surfaces on the write
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("web: write %s: %w", msg.Type, err)
	}
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("web: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then closes every
// session and shuts the HTTP server down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting web server", "address", ln.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down...", "sessions", s.sessions.Count())

		// Hijacked WebSocket connections are not tracked by http.Server.
		s.sessions.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
