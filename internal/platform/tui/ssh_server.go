package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-commando/internal/config"
	"github.com/vovakirdan/tui-commando/internal/core"
	"github.com/vovakirdan/tui-commando/internal/games/commando"
	"github.com/vovakirdan/tui-commando/internal/session"
	"github.com/vovakirdan/tui-commando/internal/storage"
)

type contextKey struct{}

// sessionIDKey holds the session id in the SSH context.
var sessionIDKey = contextKey{}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// DBPath is the path to the session journal. Empty disables journaling.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the shooter configuration every session plays with.
	Game config.CommandoConfig

	// FPS is the frame rate of each session.
	FPS int

	// Seed is mixed with the session id to seed each game; 0 uses the clock.
	Seed int64
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arcade/commando.db",
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultCommandoConfig(),
		FPS:         60,
	}
}

// SSHServer wraps a Wish SSH server. Every connection plays its own game.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	journal  *storage.Journal
	logger   *log.Logger
	sessions *session.Registry
}

// sshHandle adapts an SSH session to session.Handle.
type sshHandle struct {
	id string
	s  ssh.Session
}

func (h sshHandle) ID() string            { return h.id }
func (h sshHandle) Close()                { h.s.Close() } //nolint:errcheck // Best-effort disconnect
func (h sshHandle) Done() <-chan struct{} { return h.s.Context().Done() }

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "commando-ssh",
		})
	}

	srv := &SSHServer{
		config:   cfg,
		logger:   logger,
		sessions: session.NewRegistry(),
	}

	if cfg.DBPath != "" {
		journal, err := storage.Open(cfg.DBPath)
		if err != nil {
			// Continue without the journal
			logger.Warn("could not open session journal", "error", err)
		} else {
			srv.journal = journal
		}
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if srv.journal != nil {
			srv.journal.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates an engine and a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	id, _ := sshSession.Context().Value(sessionIDKey).(string)
	if id == "" {
		id = uuid.NewString()
	}
	runtime := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.FPS,
		Seed:     core.SessionSeed(s.config.Seed, id),
	}

	engine := commando.New(s.config.Game,
		commando.WithSeed(runtime.Seed),
		commando.WithLogger(s.logger.With("session", id)),
	)
	s.attachJournal(engine, id, "ssh")

	s.logger.Info("game created", "user", sshSession.User(), "session", id)

	model := NewModel(engine, runtime,
		WithBell(sshSession),
		WithLogger(s.logger),
	)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// attachJournal registers the session and subscribes its journal sink.
func (s *SSHServer) attachJournal(engine *commando.Engine, id, transport string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.BeginSession(id, transport); err != nil {
		s.logger.Warn("journal unavailable for session", "session", id, "error", err)
		return
	}
	engine.Subscribe(s.journal.Sink(id, s.logger))
}

// loggingMiddleware assigns the session id, tracks the session and logs
// its start and end.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := uuid.NewString()
		sshSession.Context().SetValue(sessionIDKey, id)
		s.sessions.Register(sshHandle{id: id, s: sshSession})

		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"session", id,
			"active", s.sessions.Count(),
		)
		next(sshSession)
		s.sessions.Unregister(id)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"session", id,
		)
	}
}

// Sessions returns the number of connected players.
func (s *SSHServer) Sessions() int {
	return s.sessions.Count()
}

// ListenAndServe starts the SSH server and blocks until ctx is canceled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.sessions.CloseAll()
	err := s.server.Shutdown(ctx)

	if s.journal != nil {
		s.journal.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
