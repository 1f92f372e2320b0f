package t2048

// Event is a notification emitted by the engine for presentation layers.
type Event interface {
	// Kind is a stable lowercase name, used on the wire.
	Kind() string
	gameEvent()
}

// TileSpawned is emitted when a new tile appears.
type TileSpawned struct {
	Tile Tile `json:"tile"`
}

// TileMoved is emitted for each tile that changes cell during a move.
type TileMoved struct {
	ID     TileID `json:"id"`
	From   Cell   `json:"from"`
	To     Cell   `json:"to"`
	Merged bool   `json:"merged"`
}

// TileMerged is emitted when From is absorbed into To.
type TileMerged struct {
	From  TileID `json:"from"`
	To    TileID `json:"to"`
	Value int    `json:"value"`
}

// MoveRejected is emitted when a move request changes nothing or is not allowed.
type MoveRejected struct {
	Direction string `json:"direction"`
	Reason    string `json:"reason"`
}

// StatusChanged is emitted when the status actually changes.
type StatusChanged struct {
	Status Status `json:"status"`
}

// NameRequired asks the player to name a new best score.
type NameRequired struct {
	DefaultName string `json:"defaultName"`
}

// GameOver acknowledges a finished game. When a name is owed it follows the
// name submission instead of the move.
type GameOver struct {
	Score    int    `json:"score"`
	Best     int    `json:"best"`
	BestName string `json:"bestName"`
}

// ScoreChanged is emitted whenever the score changes, including resets.
type ScoreChanged struct {
	Score int `json:"score"`
	Best  int `json:"best"`
}

// SoundToggled carries the new sound preference.
type SoundToggled struct {
	Enabled bool `json:"enabled"`
}

func (TileSpawned) Kind() string   { return "tileSpawned" }
func (TileMoved) Kind() string     { return "tileMoved" }
func (TileMerged) Kind() string    { return "tileMerged" }
func (MoveRejected) Kind() string  { return "moveRejected" }
func (StatusChanged) Kind() string { return "statusChanged" }
func (NameRequired) Kind() string  { return "nameRequired" }
func (GameOver) Kind() string      { return "gameOver" }
func (ScoreChanged) Kind() string  { return "scoreChanged" }
func (SoundToggled) Kind() string  { return "soundToggled" }

func (TileSpawned) gameEvent()   {}
func (TileMoved) gameEvent()     {}
func (TileMerged) gameEvent()    {}
func (MoveRejected) gameEvent()  {}
func (StatusChanged) gameEvent() {}
func (NameRequired) gameEvent()  {}
func (GameOver) gameEvent()      {}
func (ScoreChanged) gameEvent()  {}
func (SoundToggled) gameEvent()  {}

// Rejection reasons carried by MoveRejected.
const (
	RejectNoChange     = "no-change"
	RejectInFlight     = "in-flight"
	RejectGameOver     = "game-over"
	RejectNamePending  = "name-pending"
	RejectBadDirection = "bad-direction"
)

// Listener receives engine notifications. Listeners run synchronously on the
// engine's goroutine and must not call back into the engine.
type Listener interface {
	Notify(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Notify calls f(e).
func (f ListenerFunc) Notify(e Event) { f(e) }

// Recorder is a Listener that keeps every event, mostly for tests and the
// headless CLI.
type Recorder struct {
	Events []Event
}

// Notify appends e.
func (r *Recorder) Notify(e Event) { r.Events = append(r.Events, e) }

// Kinds returns the recorded event kinds in order.
func (r *Recorder) Kinds() []string {
	kinds := make([]string, len(r.Events))
	for i, e := range r.Events {
		kinds[i] = e.Kind()
	}
	return kinds
}

// Reset drops recorded events.
func (r *Recorder) Reset() { r.Events = nil }
