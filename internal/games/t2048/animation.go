package t2048

// Highlight durations in ticks (~100ms at 60fps).
const popDuration = 6

// pendingMove is a committed move whose finalize step (spawn, status,
// persistence, name prompt) has not run yet. While it exists the engine
// rejects further moves.
type pendingMove struct {
	bestBefore int
	ticksLeft  int
	merged     map[TileID]bool
}

func newPendingMove(bestBefore, delay int, res MoveResult) *pendingMove {
	p := &pendingMove{
		bestBefore: bestBefore,
		ticksLeft:  delay,
		merged:     make(map[TileID]bool, len(res.Merges)),
	}
	for _, m := range res.Merges {
		p.merged[m.To] = true
	}
	return p
}

// popEffect marks the most recently spawned tile for a short time.
type popEffect struct {
	id    TileID
	ticks int
}

// advance counts one tick down; it reports true when the effect is done.
func (p *popEffect) advance() bool {
	p.ticks--
	return p.ticks <= 0
}

// tickEffects runs once per Tick before the finalize countdown.
func (e *Engine) tickEffects() {
	if e.pop != nil && e.pop.advance() {
		e.pop = nil
	}
}

// tileEffect reports how a tile should be emphasized right now.
func (e *Engine) tileEffect(id TileID) (merged, fresh bool) {
	if e.pending != nil && e.pending.merged[id] {
		merged = true
	}
	if e.pop != nil && e.pop.id == id {
		fresh = true
	}
	return merged, fresh
}
