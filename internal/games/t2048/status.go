package t2048

// WinTile is the tile value that wins the game.
const WinTile = 2048

// Status is the lifecycle state of a game.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusOver    Status = "over"
)

// ParseStatus coerces a stored status; anything unknown becomes playing.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusWon:
		return StatusWon
	case StatusOver:
		return StatusOver
	default:
		return StatusPlaying
	}
}

// AcceptsMoves reports whether moves may be committed in this status.
// A won game can keep going until the board locks up.
func (s Status) AcceptsMoves() bool {
	return s != StatusOver
}

// NextStatus computes the status after a committed move and its spawn.
// Reaching WinTile only counts while still playing, so the win fires once.
func NextStatus(prev Status, b *Board) Status {
	if prev == StatusPlaying && b.MaxValue() >= WinTile {
		return StatusWon
	}
	if !HasMoves(b) {
		return StatusOver
	}
	if prev == StatusWon {
		return StatusWon
	}
	return StatusPlaying
}
