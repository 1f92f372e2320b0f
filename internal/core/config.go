package core

// RuntimeConfig contains configuration passed to the engine at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed; 0 means use current time in platform layer
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TicksFor converts a duration in milliseconds to a tick count at the
// configured rate, rounding up so a non-zero delay is never skipped.
func (c RuntimeConfig) TicksFor(ms int) int {
	if ms <= 0 {
		return 0
	}
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return (ms*rate + 999) / 1000
}

// GameState is the coarse state the platform needs after each tick.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
	Paused   bool // Whether input is being held (prompt open, window too small)
}

// StepResult is returned by Step() after each simulation tick.
type StepResult struct {
	State GameState
}
