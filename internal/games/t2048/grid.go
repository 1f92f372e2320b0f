package t2048

import (
	"errors"
	"fmt"
	"sort"
)

// BoardSize is the board dimension. The grid is always 4x4.
const BoardSize = 4

// cellCount is the number of cells on the board.
const cellCount = BoardSize * BoardSize

// TileID identifies a tile for its whole life on the board.
type TileID string

// Cell addresses a board position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) index() int {
	return c.Row*BoardSize + c.Col
}

func (c Cell) valid() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

func cellAt(index int) Cell {
	return Cell{Row: index / BoardSize, Col: index % BoardSize}
}

// Tile is a numbered tile on the board.
type Tile struct {
	ID    TileID `json:"id"`
	Value int    `json:"value"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// Cell returns the tile's position.
func (t Tile) Cell() Cell {
	return Cell{Row: t.Row, Col: t.Col}
}

// OccupiedCellError is returned when spawning into a cell that is not empty.
type OccupiedCellError struct {
	Cell     Cell
	Occupant TileID
}

func (e *OccupiedCellError) Error() string {
	if e.Occupant == "" {
		return fmt.Sprintf("t2048: cell (%d,%d) is off the board", e.Cell.Row, e.Cell.Col)
	}
	return fmt.Sprintf("t2048: cell (%d,%d) is occupied by tile %s", e.Cell.Row, e.Cell.Col, e.Occupant)
}

// Board holds the occupancy grid and the tile mapping. Every id in the grid
// has exactly one tile record whose Row/Col equal that cell, and every tile
// record is referenced by exactly one cell.
type Board struct {
	grid  [cellCount]TileID
	tiles map[TileID]*Tile
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{tiles: make(map[TileID]*Tile)}
}

// SpawnTile places a new tile in an empty cell.
func (b *Board) SpawnTile(id TileID, value int, at Cell) (*Tile, error) {
	if !at.valid() {
		return nil, &OccupiedCellError{Cell: at}
	}
	if occ := b.grid[at.index()]; occ != "" {
		return nil, &OccupiedCellError{Cell: at, Occupant: occ}
	}
	if _, dup := b.tiles[id]; dup || id == "" {
		return nil, fmt.Errorf("t2048: tile id %q is empty or already in use", id)
	}
	t := &Tile{ID: id, Value: value, Row: at.Row, Col: at.Col}
	b.grid[at.index()] = id
	b.tiles[id] = t
	return t, nil
}

// EmptyCells returns every unoccupied cell in row-major order.
func (b *Board) EmptyCells() []Cell {
	var cells []Cell
	for i, id := range b.grid {
		if id == "" {
			cells = append(cells, cellAt(i))
		}
	}
	return cells
}

// RemoveTile deletes a tile from the mapping and clears any cell holding it.
func (b *Board) RemoveTile(id TileID) {
	t, ok := b.tiles[id]
	if !ok {
		return
	}
	if c := t.Cell(); c.valid() && b.grid[c.index()] == id {
		b.grid[c.index()] = ""
	}
	delete(b.tiles, id)
}

// At returns the tile in a cell, or nil.
func (b *Board) At(c Cell) *Tile {
	if !c.valid() {
		return nil
	}
	id := b.grid[c.index()]
	if id == "" {
		return nil
	}
	return b.tiles[id]
}

// Tile looks up a tile by id.
func (b *Board) Tile(id TileID) (Tile, bool) {
	t, ok := b.tiles[id]
	if !ok {
		return Tile{}, false
	}
	return *t, true
}

// Tiles returns copies of all tiles in row-major order.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, 0, len(b.tiles))
	for _, t := range b.tiles {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Cell().index() < out[j].Cell().index()
	})
	return out
}

// Len returns the number of tiles on the board.
func (b *Board) Len() int {
	return len(b.tiles)
}

// MaxValue returns the highest tile value, or 0 on an empty board.
func (b *Board) MaxValue() int {
	maxVal := 0
	for _, t := range b.tiles {
		if t.Value > maxVal {
			maxVal = t.Value
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func (b *Board) Sum() int {
	total := 0
	for _, t := range b.tiles {
		total += t.Value
	}
	return total
}

// Values returns the board as a value matrix indexed [row][col], 0 for empty.
func (b *Board) Values() [BoardSize][BoardSize]int {
	var m [BoardSize][BoardSize]int
	for i, id := range b.grid {
		if id == "" {
			continue
		}
		c := cellAt(i)
		m[c.Row][c.Col] = b.tiles[id].Value
	}
	return m
}

// Check verifies the grid/tile consistency invariant.
func (b *Board) Check() error {
	seen := make(map[TileID]bool, len(b.tiles))
	for i, id := range b.grid {
		if id == "" {
			continue
		}
		if seen[id] {
			return fmt.Errorf("t2048: tile %s appears in more than one cell", id)
		}
		seen[id] = true
		t, ok := b.tiles[id]
		if !ok {
			return fmt.Errorf("t2048: cell %d references unknown tile %s", i, id)
		}
		if t.Cell() != cellAt(i) {
			return fmt.Errorf("t2048: tile %s records (%d,%d) but sits in cell %d", id, t.Row, t.Col, i)
		}
		if !isTileValue(t.Value) {
			return fmt.Errorf("t2048: tile %s has invalid value %d", id, t.Value)
		}
	}
	if len(seen) != len(b.tiles) {
		return errors.New("t2048: tile mapping holds tiles that are not on the grid")
	}
	return nil
}

// isTileValue reports whether v is a power of two no smaller than 2.
func isTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
