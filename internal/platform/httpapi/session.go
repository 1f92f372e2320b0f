// Package httpapi serves one 2048 game over HTTP. Commands are plain JSON
// requests; engine notifications are pushed to WebSocket clients.
package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Session serializes access to one engine and drives its clock.
type Session struct {
	mu         sync.Mutex
	engine     *t2048.Engine
	hub        *Hub
	tickRate   int
	logger     *log.Logger
	lastReject string
}

// NewSession wraps an engine that has already been booted. Engine events are
// forwarded to the session's hub.
func NewSession(engine *t2048.Engine, tickRate int, logger *log.Logger) *Session {
	if tickRate <= 0 {
		tickRate = 60
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		engine:   engine,
		hub:      NewHub(logger),
		tickRate: tickRate,
		logger:   logger,
	}
	engine.Subscribe(t2048.ListenerFunc(s.onEvent))
	return s
}

// onEvent runs inside engine calls, so s.mu is already held.
func (s *Session) onEvent(ev t2048.Event) {
	if r, ok := ev.(t2048.MoveRejected); ok {
		s.lastReject = r.Reason
	}
	s.hub.Broadcast(ev)
}

// Hub returns the notification hub.
func (s *Session) Hub() *Hub {
	return s.hub
}

// Run ticks the engine and the hub until ctx is done.
func (s *Session) Run(ctx context.Context) {
	go s.hub.Run(ctx)

	ticker := time.NewTicker(time.Second / time.Duration(s.tickRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return
		case <-ticker.C:
			s.mu.Lock()
			s.engine.Tick()
			s.mu.Unlock()
		}
	}
}

// Flush finalizes a pending move.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Flush()
}

// Snapshot returns the current game state.
func (s *Session) Snapshot() t2048.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// WithSnapshot calls fn with the current game. No engine event is emitted
// while fn runs.
func (s *Session) WithSnapshot(fn func(t2048.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine.Snapshot())
}

// NewGame starts over. started is false while a name is owed for the best
// score and keepBest is set.
func (s *Session) NewGame(keepBest bool) (started bool, snap t2048.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	started = s.engine.NewGame(keepBest)
	return started, s.engine.Snapshot()
}

// Move applies dir. When the move is refused, reason holds the rejection.
func (s *Session) Move(dir string) (accepted bool, reason string, snap t2048.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReject = ""
	accepted = s.engine.MoveString(dir)
	return accepted, s.lastReject, s.engine.Snapshot()
}

// ToggleSound flips the sound preference.
func (s *Session) ToggleSound() t2048.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.ToggleSound()
	return s.engine.Snapshot()
}

// SubmitName answers a pending name prompt.
func (s *Session) SubmitName(name string) (t2048.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.engine.SubmitName(name)
	return s.engine.Snapshot(), err
}
