package t2048

// addScore credits a move's gain and lifts best if the score passed it.
func (s *GameState) addScore(gained int) {
	s.Score += gained
	s.raiseBest()
}

// raiseBest sets best to max(best, score) and reports whether it rose.
func (s *GameState) raiseBest() bool {
	if s.Score > s.Best {
		s.Best = s.Score
		return true
	}
	return false
}

// NameOwed reports whether a game that just ended owes a name for the best
// score: the score beat the best held before the move, and the current best
// has not been named yet.
func (s *GameState) NameOwed(bestBefore int) bool {
	return s.Score > bestBefore && s.BestNamedAt < s.Best
}

// NameOwedOnRestore is the restore-time check for a saved finished game.
// The best held before the final move is unknown, so a score equal to an
// unnamed best stands in for it.
func (s *GameState) NameOwedOnRestore() bool {
	return s.Status == StatusOver && s.Score == s.Best && s.BestNamedAt < s.Best
}

// nameBest attributes the current best to name.
func (s *GameState) nameBest(name string) {
	s.BestName = name
	s.BestNamedAt = s.Best
}
