// Package t2048 implements the rules of the 2048 sliding-tile puzzle: the
// board, move resolution, win and loss, score and best-score attribution,
// and the persisted game record. Presentation layers drive an Engine and
// listen for its Events.
package t2048

import (
	"errors"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	// InitialTiles is how many tiles a new game starts with.
	InitialTiles = 2
	// SpawnFourProbability is the chance a spawned tile is a 4 instead of a 2.
	SpawnFourProbability = 0.10
	// DefaultAnonymousName is used when a blank name is submitted.
	DefaultAnonymousName = "Anonymous"
)

// ErrNoNamePending is returned by SubmitName when no name was requested.
var ErrNoNamePending = errors.New("t2048: no name is pending")

// Rand is the randomness the engine needs. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// IDSource produces unique tile ids.
type IDSource func() TileID

// NewUUID is the default IDSource.
func NewUUID() TileID {
	return TileID(uuid.NewString())
}

// ScoreRecord describes a finished game for score history.
type ScoreRecord struct {
	Score   int
	Name    string
	MaxTile int
	Moves   int
}

// ScoreRecorder keeps finished games.
type ScoreRecorder interface {
	RecordScore(rec ScoreRecord) error
}

// Engine owns one game. It is not safe for concurrent use; callers that
// share an engine across goroutines must serialize access.
type Engine struct {
	state *GameState

	rng           Rand
	newID         IDSource
	gateway       *Gateway
	recorder      ScoreRecorder
	listeners     []Listener
	logger        *log.Logger
	finalizeDelay int
	anonymousName string

	pending      *pendingMove
	pop          *popEffect
	awaitingName bool
	moves        int

	screenW  int
	screenH  int
	tooSmall bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the random source used for spawns.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed uses a math/rand source seeded with seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithIDSource injects the tile id generator.
func WithIDSource(f IDSource) Option {
	return func(e *Engine) { e.newID = f }
}

// WithGateway enables persistence.
func WithGateway(g *Gateway) Option {
	return func(e *Engine) { e.gateway = g }
}

// WithScoreRecorder receives every finished game.
func WithScoreRecorder(r ScoreRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithListener subscribes l to engine events. May be given more than once.
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listeners = append(e.listeners, l) }
}

// WithLogger sets the logger for non-fatal problems.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithFinalizeDelay sets how many ticks pass between committing a move and
// finalizing it. Zero finalizes inside Move.
func WithFinalizeDelay(ticks int) Option {
	return func(e *Engine) { e.finalizeDelay = max(ticks, 0) }
}

// WithAnonymousName sets the name recorded for blank submissions.
func WithAnonymousName(name string) Option {
	return func(e *Engine) {
		if name = strings.TrimSpace(name); name != "" {
			e.anonymousName = name
		}
	}
}

// New creates an engine with an empty board. Call Boot or NewGame to start.
func New(opts ...Option) *Engine {
	e := &Engine{
		state:         NewGameState(),
		newID:         NewUUID,
		anonymousName: DefaultAnonymousName,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Subscribe adds a listener after construction.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l.Notify(ev)
	}
}

// Boot restores the saved game, or starts a fresh one keeping nothing when
// no usable save exists. It reports whether a save was restored.
func (e *Engine) Boot() bool {
	if e.gateway == nil {
		e.NewGame(true)
		return false
	}
	s, ok := e.gateway.Load()
	if !ok {
		e.NewGame(true)
		return false
	}

	e.state = s
	e.pending = nil
	e.pop = nil
	e.awaitingName = false
	e.moves = 0
	e.state.raiseBest()
	if s.Status == StatusWon && !HasMoves(s.Board) {
		s.Status = StatusOver
	}

	if s.Status == StatusOver {
		if s.NameOwedOnRestore() {
			e.requestName()
		} else {
			e.acknowledgeGameOver(false)
		}
	}
	return true
}

// NewGame clears the board and score and spawns the opening tiles. Best and
// its attribution survive only when keepBest is set; sound always survives.
// A move still in flight is finalized first. While a name is owed for the
// best score, NewGame(true) refuses and reports false; a hard reset records
// the finished game unnamed and goes ahead.
func (e *Engine) NewGame(keepBest bool) bool {
	e.Flush()
	if e.awaitingName {
		if keepBest {
			return false
		}
		e.awaitingName = false
		e.acknowledgeGameOver(true)
	}

	prev := e.state.Status
	e.pop = nil
	e.moves = 0
	e.state.resetFor(keepBest)

	for range InitialTiles {
		e.spawnRandomTile()
	}
	e.save()

	e.emit(ScoreChanged{Score: 0, Best: e.state.Best})
	if prev != StatusPlaying {
		e.emit(StatusChanged{Status: StatusPlaying})
	}
	return true
}

// MoveString parses a direction name and moves. Unknown names are rejected
// with a MoveRejected event.
func (e *Engine) MoveString(dir string) bool {
	d, ok := ParseDirection(dir)
	if !ok {
		e.emit(MoveRejected{Direction: dir, Reason: RejectBadDirection})
		return false
	}
	return e.Move(d)
}

// Move commits a move immediately and schedules its finalize step. It
// reports whether the move was accepted.
func (e *Engine) Move(dir Direction) bool {
	if reason := e.moveBlocker(dir); reason != "" {
		e.emit(MoveRejected{Direction: dir.String(), Reason: reason})
		return false
	}

	bestBefore := e.state.Best
	res := Resolve(e.state.Board, dir)
	if !res.Changed {
		e.emit(MoveRejected{Direction: dir.String(), Reason: RejectNoChange})
		return false
	}

	e.state.Board.Apply(res)
	e.moves++
	for _, m := range res.Moves {
		e.emit(TileMoved{ID: m.ID, From: m.From, To: m.To, Merged: m.Merged})
	}
	for _, m := range res.Merges {
		e.emit(TileMerged{From: m.From, To: m.To, Value: m.Value})
	}
	if res.Gained > 0 {
		e.state.addScore(res.Gained)
		e.emit(ScoreChanged{Score: e.state.Score, Best: e.state.Best})
	}

	e.pending = newPendingMove(bestBefore, e.finalizeDelay, res)
	if e.finalizeDelay == 0 {
		e.finalize()
	}
	return true
}

func (e *Engine) moveBlocker(dir Direction) string {
	switch {
	case !dir.Valid():
		return RejectBadDirection
	case e.pending != nil:
		return RejectInFlight
	case e.awaitingName:
		return RejectNamePending
	case !e.state.Status.AcceptsMoves():
		return RejectGameOver
	}
	return ""
}

// Tick advances effects and the finalize countdown by one tick.
func (e *Engine) Tick() {
	e.tickEffects()
	if e.pending == nil {
		return
	}
	e.pending.ticksLeft--
	if e.pending.ticksLeft <= 0 {
		e.finalize()
	}
}

// Flush finalizes a pending move right away.
func (e *Engine) Flush() {
	if e.pending != nil {
		e.finalize()
	}
}

func (e *Engine) finalize() {
	p := e.pending
	e.pending = nil

	e.spawnRandomTile()
	e.state.raiseBest()

	prev := e.state.Status
	next := NextStatus(prev, e.state.Board)
	locked := next == StatusWon && !HasMoves(e.state.Board)
	if locked {
		e.state.Status = StatusOver
	} else {
		e.state.Status = next
	}
	e.save()

	if next != prev {
		e.emit(StatusChanged{Status: next})
	}
	// The winning move filled the board: the win is announced, then the loss.
	if locked {
		e.emit(StatusChanged{Status: StatusOver})
	}
	if e.state.Status == StatusOver && prev != StatusOver {
		if e.state.NameOwed(p.bestBefore) {
			e.requestName()
		} else {
			e.acknowledgeGameOver(true)
		}
	}
}

func (e *Engine) requestName() {
	e.awaitingName = true
	e.emit(NameRequired{DefaultName: e.state.BestName})
}

func (e *Engine) acknowledgeGameOver(record bool) {
	s := e.state
	if record && e.recorder != nil && s.Score > 0 {
		name := ""
		if s.Score == s.Best && s.BestNamedAt == s.Best {
			name = s.BestName
		}
		err := e.recorder.RecordScore(ScoreRecord{
			Score:   s.Score,
			Name:    name,
			MaxTile: s.Board.MaxValue(),
			Moves:   e.moves,
		})
		if err != nil {
			e.logger.Warn("could not record score", "score", s.Score, "error", err)
		}
	}
	e.emit(GameOver{Score: s.Score, Best: s.Best, BestName: s.BestName})
}

// SubmitName answers a NameRequired prompt. A blank name records the
// anonymous name.
func (e *Engine) SubmitName(name string) error {
	if !e.awaitingName {
		return ErrNoNamePending
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = e.anonymousName
	}
	e.state.nameBest(name)
	e.awaitingName = false
	e.save()
	e.acknowledgeGameOver(true)
	return nil
}

// ToggleSound flips the sound preference and returns the new value.
func (e *Engine) ToggleSound() bool {
	e.state.SoundEnabled = !e.state.SoundEnabled
	// A pending move saves when it finalizes.
	if e.pending == nil {
		e.save()
	}
	e.emit(SoundToggled{Enabled: e.state.SoundEnabled})
	return e.state.SoundEnabled
}

// InFlight reports whether a committed move is waiting to finalize.
func (e *Engine) InFlight() bool {
	return e.pending != nil
}

// AwaitingName reports whether a NameRequired prompt is outstanding.
func (e *Engine) AwaitingName() bool {
	return e.awaitingName
}

func (e *Engine) spawnRandomTile() {
	empty := e.state.Board.EmptyCells()
	if len(empty) == 0 {
		return
	}
	cell := empty[e.rng.Intn(len(empty))]
	value := 2
	if e.rng.Float64() < SpawnFourProbability {
		value = 4
	}
	t, err := e.state.Board.SpawnTile(e.newID(), value, cell)
	if err != nil {
		e.logger.Error("spawn failed", "cell", cell, "error", err)
		return
	}
	e.pop = &popEffect{id: t.ID, ticks: popDuration}
	e.emit(TileSpawned{Tile: *t})
}

func (e *Engine) save() {
	if e.gateway == nil {
		return
	}
	_ = e.gateway.Save(e.state)
}

// Step is the per-frame entry point used by the terminal client.
func (e *Engine) Step(in core.InputFrame) core.StepResult {
	e.Tick()

	if e.tooSmall {
		return core.StepResult{State: e.State()}
	}

	switch {
	case in.Has(core.ActionNewGame):
		e.NewGame(true)
	case in.Has(core.ActionHardReset):
		e.NewGame(false)
	case in.Has(core.ActionToggleSound):
		e.ToggleSound()
	case in.Has(core.ActionUp):
		e.Move(DirUp)
	case in.Has(core.ActionDown):
		e.Move(DirDown)
	case in.Has(core.ActionLeft):
		e.Move(DirLeft)
	case in.Has(core.ActionRight):
		e.Move(DirRight)
	}

	return core.StepResult{State: e.State()}
}

// SetScreenSize tells the renderer how much room it has.
func (e *Engine) SetScreenSize(w, h int) {
	e.screenW = w
	e.screenH = h
	e.tooSmall = w < minScreenW || h < minScreenH
}

// State returns the coarse state the platform loop needs.
func (e *Engine) State() core.GameState {
	return core.GameState{
		Score:    e.state.Score,
		GameOver: e.state.Status == StatusOver,
		Paused:   e.awaitingName || e.tooSmall,
	}
}
