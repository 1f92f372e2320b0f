package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const defaultScoreLimit = 20

// ScoreSource lists recorded games.
type ScoreSource interface {
	TopScores(limit int) ([]storage.ScoreEntry, error)
	SlotScores(slot string, limit int) ([]storage.ScoreEntry, error)
}

// Server bundles the router with the game session.
type Server struct {
	r       *chi.Mux
	session *Session
	scores  ScoreSource
	logger  *log.Logger
}

// New installs middleware and registers routes. scores may be nil.
func New(session *Session, scores ScoreSource, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{r: chi.NewRouter(), session: session, scores: scores, logger: logger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Get("/state", s.handleState)
		r.Post("/new", s.handleNew)
		r.Post("/move", s.handleMove)
		r.Post("/sound", s.handleSound)
		r.Post("/name", s.handleName)
		r.Get("/scores", s.handleScores)
	})

	s.r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.session.Hub().ServeWS(w, r, s.session)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ListenAndServe serves on addr and runs the session clock until ctx is
// done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sessionCtx, stopSession := context.WithCancel(ctx)
	defer stopSession()
	go s.session.Run(sessionCtx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

type newGameReq struct {
	KeepBest *bool `json:"keepBest"`
}

type moveReq struct {
	Direction string `json:"direction"`
}

type moveRes struct {
	Accepted bool           `json:"accepted"`
	Reason   string         `json:"reason,omitempty"`
	State    t2048.Snapshot `json:"state"`
}

type nameReq struct {
	Name string `json:"name"`
}

type scoreRes struct {
	Rank      int       `json:"rank"`
	Slot      string    `json:"slot"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"maxTile"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleNew keeps the best score unless the body says otherwise. An empty
// body is allowed.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	keepBest := req.KeepBest == nil || *req.KeepBest
	started, snap := s.session.NewGame(keepBest)
	if !started {
		writeError(w, http.StatusConflict, "name_pending")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	accepted, reason, snap := s.session.Move(req.Direction)
	status := http.StatusOK
	if reason == t2048.RejectBadDirection {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, moveRes{Accepted: accepted, Reason: reason, State: snap})
}

func (s *Server) handleSound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.ToggleSound())
}

func (s *Server) handleName(w http.ResponseWriter, r *http.Request) {
	var req nameReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	snap, err := s.session.SubmitName(req.Name)
	if errors.Is(err, t2048.ErrNoNamePending) {
		writeError(w, http.StatusConflict, "no_name_pending")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleScores lists score history, optionally for one slot.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeJSON(w, http.StatusOK, []scoreRes{})
		return
	}

	limit := defaultScoreLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}

	var (
		entries []storage.ScoreEntry
		err     error
	)
	if slot := r.URL.Query().Get("slot"); slot != "" {
		entries, err = s.scores.SlotScores(slot, limit)
	} else {
		entries, err = s.scores.TopScores(limit)
	}
	if err != nil {
		s.logger.Error("cannot list scores", "error", err)
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	out := make([]scoreRes, len(entries))
	for i, e := range entries {
		out[i] = scoreRes{
			Rank:      i + 1,
			Slot:      e.Slot,
			Name:      e.Name,
			Score:     e.Score,
			MaxTile:   e.MaxTile,
			Moves:     e.Moves,
			CreatedAt: e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeBody decodes a JSON body. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
