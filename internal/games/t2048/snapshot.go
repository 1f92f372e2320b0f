package t2048

// Snapshot is a read-only copy of the engine state for presentation layers.
type Snapshot struct {
	Tiles        []Tile                    `json:"tiles"`
	Board        [BoardSize][BoardSize]int `json:"board"`
	Score        int                       `json:"score"`
	Best         int                       `json:"best"`
	BestName     string                    `json:"bestName"`
	BestNamedAt  int                       `json:"bestNamedAt"`
	Status       Status                    `json:"status"`
	SoundEnabled bool                      `json:"soundEnabled"`
	MaxTile      int                       `json:"maxTile"`
	Moves        int                       `json:"moves"`
	InFlight     bool                      `json:"inFlight"`
	AwaitingName bool                      `json:"awaitingName"`
}

// Snapshot returns the current state. Mutating the result does not affect
// the engine.
func (e *Engine) Snapshot() Snapshot {
	s := e.state
	return Snapshot{
		Tiles:        s.Board.Tiles(),
		Board:        s.Board.Values(),
		Score:        s.Score,
		Best:         s.Best,
		BestName:     s.BestName,
		BestNamedAt:  s.BestNamedAt,
		Status:       s.Status,
		SoundEnabled: s.SoundEnabled,
		MaxTile:      s.Board.MaxValue(),
		Moves:        e.moves,
		InFlight:     e.pending != nil,
		AwaitingName: e.awaitingName,
	}
}
