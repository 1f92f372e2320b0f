package t2048

import "strings"

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every direction in a stable order.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection accepts "up/down/left/right" and the WASD letters.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "w":
		return DirUp, true
	case "down", "s":
		return DirDown, true
	case "left", "l", "a":
		return DirLeft, true
	case "right", "r", "d":
		return DirRight, true
	}
	return 0, false
}

// lineCell maps the i-th position (counted from the leading edge) of line k
// to a board cell. Lines are rows for left/right and columns for up/down.
func lineCell(dir Direction, k, i int) Cell {
	switch dir {
	case DirLeft:
		return Cell{Row: k, Col: i}
	case DirRight:
		return Cell{Row: k, Col: BoardSize - 1 - i}
	case DirUp:
		return Cell{Row: i, Col: k}
	default:
		return Cell{Row: BoardSize - 1 - i, Col: k}
	}
}

// TileMove records where a tile travelled during a move. A tile consumed by
// a merge moves onto the surviving tile's cell and is flagged Merged.
type TileMove struct {
	ID     TileID
	From   Cell
	To     Cell
	Merged bool
}

// Merge records two equal tiles combining. From is the trailing tile, which
// is destroyed; To is the leading tile, which survives with the doubled Value.
type Merge struct {
	From  TileID
	To    TileID
	Value int
	At    Cell
}

// MoveResult is the outcome of resolving a move against a board.
type MoveResult struct {
	Direction Direction
	Moves     []TileMove
	Merges    []Merge
	Gained    int
	Changed   bool

	layout [cellCount]TileID
}

// Resolve computes a move without mutating the board. Each line is read from
// the leading edge; the leading-most equal pair merges first and a merged
// tile cannot merge again in the same move.
func Resolve(b *Board, dir Direction) MoveResult {
	res := MoveResult{Direction: dir}
	if !dir.Valid() {
		res.layout = b.grid
		return res
	}

	for k := range BoardSize {
		var (
			out      [BoardSize]TileID
			outValue [BoardSize]int
			merged   [BoardSize]bool
			writePos int
		)

		for i := range BoardSize {
			from := lineCell(dir, k, i)
			id := b.grid[from.index()]
			if id == "" {
				continue
			}
			value := b.tiles[id].Value

			if writePos > 0 && !merged[writePos-1] && outValue[writePos-1] == value {
				at := lineCell(dir, k, writePos-1)
				newVal := value * 2
				outValue[writePos-1] = newVal
				merged[writePos-1] = true
				res.Merges = append(res.Merges, Merge{From: id, To: out[writePos-1], Value: newVal, At: at})
				res.Moves = append(res.Moves, TileMove{ID: id, From: from, To: at, Merged: true})
				res.Gained += newVal
				res.Changed = true
				continue
			}

			to := lineCell(dir, k, writePos)
			out[writePos] = id
			outValue[writePos] = value
			if to != from {
				res.Moves = append(res.Moves, TileMove{ID: id, From: from, To: to})
				res.Changed = true
			}
			writePos++
		}

		for i := range writePos {
			res.layout[lineCell(dir, k, i).index()] = out[i]
		}
	}

	return res
}

// Apply commits a result produced by Resolve on this same board.
func (b *Board) Apply(res MoveResult) {
	if !res.Changed {
		return
	}
	for _, m := range res.Merges {
		b.tiles[m.To].Value = m.Value
		b.RemoveTile(m.From)
	}
	b.grid = res.layout
	for i, id := range b.grid {
		if id == "" {
			continue
		}
		c := cellAt(i)
		t := b.tiles[id]
		t.Row, t.Col = c.Row, c.Col
	}
}

// HasMoves reports whether any move could change the board: an empty cell
// exists, or two orthogonally adjacent tiles share a value.
func HasMoves(b *Board) bool {
	if b.Len() < cellCount {
		return true
	}
	m := b.Values()
	for y := range BoardSize {
		for x := range BoardSize {
			val := m[y][x]
			if x < BoardSize-1 && m[y][x+1] == val {
				return true
			}
			if y < BoardSize-1 && m[y+1][x] == val {
				return true
			}
		}
	}
	return false
}
