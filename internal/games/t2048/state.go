package t2048

// GameState is the whole persisted aggregate: board, score tracking, status
// and the sound preference.
type GameState struct {
	Board        *Board
	Score        int
	Best         int
	BestName     string
	BestNamedAt  int
	Status       Status
	SoundEnabled bool
}

// NewGameState returns an empty playing state with sound on.
func NewGameState() *GameState {
	return &GameState{
		Board:        NewBoard(),
		Status:       StatusPlaying,
		SoundEnabled: true,
	}
}

// resetFor clears the board, score and status for a new game. The sound
// preference always survives; best and its attribution survive when keepBest.
func (s *GameState) resetFor(keepBest bool) {
	s.Board = NewBoard()
	s.Score = 0
	s.Status = StatusPlaying
	if !keepBest {
		s.Best = 0
		s.BestName = ""
		s.BestNamedAt = 0
	}
}
