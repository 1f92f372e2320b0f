package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// guestSlot is used when a client connects without a user name.
const guestSlot = "guest"

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2323").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// DBPath is the SQLite database holding every player's save slot.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	TickRate        int
	FinalizeDelayMS int
	AnonymousName   string
}

// SSHServerConfigFrom builds the server config from the loaded settings.
// Players are keyed by SSH user, so the SQLite database is used even when
// local play is configured for the JSON file backend.
func SSHServerConfigFrom(cfg config.T2048Config) SSHServerConfig {
	dbPath := cfg.Storage.Path
	if cfg.Storage.Backend != config.BackendSQLite {
		dbPath = config.DefaultT2048Config().Storage.Path
	}
	return SSHServerConfig{
		Address:         cfg.Server.SSHAddr,
		HostKeyPath:     cfg.Server.HostKeyPath,
		DBPath:          dbPath,
		IdleTimeout:     cfg.IdleTimeout(),
		TickRate:        cfg.Timing.TickRate,
		FinalizeDelayMS: cfg.Timing.FinalizeDelayMS,
		AnonymousName:   cfg.Player.AnonymousName,
	}
}

// SSHServer wraps a Wish SSH server. Every session plays its own game,
// saved in the slot named after the SSH user.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. A nil logger gets a default one.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "2048-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		// Sessions still play, they just start fresh every time.
		logger.Warn("could not open game database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler boots the user's saved game and wraps it in a Model.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	slot := sshSession.User()
	if slot == "" {
		slot = guestSlot
	}

	rc := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}
	engine, scores := s.newEngine(slot, rc)

	model := NewModel(engine, Options{
		Config: rc,
		Scores: scores,
		Slot:   slot,
	})
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

func (s *SSHServer) newEngine(slot string, rc core.RuntimeConfig) (*t2048.Engine, ScoreSource) {
	logger := s.logger.With("slot", slot)
	opts := []t2048.Option{
		t2048.WithSeed(time.Now().UnixNano()),
		t2048.WithLogger(logger),
		t2048.WithFinalizeDelay(rc.TicksFor(s.config.FinalizeDelayMS)),
		t2048.WithAnonymousName(s.config.AnonymousName),
	}

	var scores ScoreSource
	if s.store != nil {
		ss := s.store.Slot(slot)
		opts = append(opts,
			t2048.WithGateway(t2048.NewGateway(ss, logger)),
			t2048.WithScoreRecorder(ss),
		)
		scores = s.store
	}

	engine := t2048.New(opts...)
	if engine.Boot() {
		logger.Debug("restored saved game")
	}
	return engine, scores
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
