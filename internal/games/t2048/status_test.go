package t2048

import "testing"

func TestNextStatus(t *testing.T) {
	locked := [BoardSize][BoardSize]int{
		{2, 4, 8, 16},
		{4, 8, 16, 32},
		{8, 16, 32, 64},
		{16, 32, 64, 128},
	}
	lockedWin := locked
	lockedWin[0][0] = 2048

	tests := []struct {
		name string
		prev Status
		rows [BoardSize][BoardSize]int
		want Status
	}{
		{"open board stays playing", StatusPlaying, [BoardSize][BoardSize]int{{2, 4}}, StatusPlaying},
		{"reaching 2048 wins", StatusPlaying, [BoardSize][BoardSize]int{{2048}}, StatusWon},
		{"locked board is over", StatusPlaying, locked, StatusOver},
		{"win is checked before loss", StatusPlaying, lockedWin, StatusWon},
		{"won stays won", StatusWon, [BoardSize][BoardSize]int{{4096, 2}}, StatusWon},
		{"won can still lock up", StatusWon, lockedWin, StatusOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextStatus(tt.prev, boardFrom(t, tt.rows)); got != tt.want {
				t.Errorf("NextStatus(%s) = %s, want %s", tt.prev, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"playing": StatusPlaying,
		"won":     StatusWon,
		"over":    StatusOver,
		"":        StatusPlaying,
		"WON":     StatusPlaying,
	} {
		if got := ParseStatus(in); got != want {
			t.Errorf("ParseStatus(%q) = %s, want %s", in, got, want)
		}
	}
	if StatusOver.AcceptsMoves() || !StatusWon.AcceptsMoves() {
		t.Error("only over should refuse moves")
	}
}

func TestNameOwed(t *testing.T) {
	tests := []struct {
		name       string
		score      int
		best       int
		namedAt    int
		bestBefore int
		want       bool
	}{
		{"new unnamed best", 300, 300, 100, 100, true},
		{"tied previous best", 100, 100, 0, 100, false},
		{"below best", 80, 100, 0, 100, false},
		{"already named", 300, 300, 300, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &GameState{Score: tt.score, Best: tt.best, BestNamedAt: tt.namedAt}
			if got := s.NameOwed(tt.bestBefore); got != tt.want {
				t.Errorf("NameOwed(%d) = %v, want %v", tt.bestBefore, got, tt.want)
			}
		})
	}
}

func TestScoreRaisesBest(t *testing.T) {
	s := NewGameState()
	s.Best = 10
	s.addScore(4)
	if s.Score != 4 || s.Best != 10 {
		t.Errorf("score=%d best=%d", s.Score, s.Best)
	}
	s.addScore(8)
	if s.Score != 12 || s.Best != 12 {
		t.Errorf("score=%d best=%d, want best to follow", s.Score, s.Best)
	}

	s.nameBest("ann")
	if s.BestName != "ann" || s.BestNamedAt != 12 {
		t.Errorf("name=%q at=%d", s.BestName, s.BestNamedAt)
	}
}
