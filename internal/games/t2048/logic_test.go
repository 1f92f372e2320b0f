package t2048

import (
	"fmt"
	"math/rand"
	"testing"
)

// boardFrom builds a board from a value matrix. Tile ids encode their
// starting cell, e.g. "r0c1".
func boardFrom(t *testing.T, rows [BoardSize][BoardSize]int) *Board {
	t.Helper()
	b := NewBoard()
	for r := range BoardSize {
		for c := range BoardSize {
			if rows[r][c] == 0 {
				continue
			}
			id := TileID(fmt.Sprintf("r%dc%d", r, c))
			if _, err := b.SpawnTile(id, rows[r][c], Cell{Row: r, Col: c}); err != nil {
				t.Fatalf("SpawnTile(%s): %v", id, err)
			}
		}
	}
	return b
}

func TestResolveRowLeft(t *testing.T) {
	tests := []struct {
		name     string
		input    [4]int
		expected [4]int
		gained   int
		changed  bool
	}{
		{
			name:     "simple merge",
			input:    [4]int{2, 2, 0, 0},
			expected: [4]int{4, 0, 0, 0},
			gained:   4,
			changed:  true,
		},
		{
			name:     "merge with trailing tile",
			input:    [4]int{2, 2, 2, 0},
			expected: [4]int{4, 2, 0, 0},
			gained:   4,
			changed:  true,
		},
		{
			name:     "double merge",
			input:    [4]int{2, 2, 2, 2},
			expected: [4]int{4, 4, 0, 0},
			gained:   8,
			changed:  true,
		},
		{
			name:     "merged tile does not merge again",
			input:    [4]int{2, 2, 4, 0},
			expected: [4]int{4, 4, 0, 0},
			gained:   4,
			changed:  true,
		},
		{
			name:     "one merge per tile",
			input:    [4]int{4, 4, 4, 4},
			expected: [4]int{8, 8, 0, 0},
			gained:   16,
			changed:  true,
		},
		{
			name:     "no merge possible",
			input:    [4]int{2, 4, 8, 16},
			expected: [4]int{2, 4, 8, 16},
		},
		{
			name:     "slide with gap",
			input:    [4]int{0, 0, 2, 2},
			expected: [4]int{4, 0, 0, 0},
			gained:   4,
			changed:  true,
		},
		{
			name:     "merge across gaps",
			input:    [4]int{2, 0, 0, 2},
			expected: [4]int{4, 0, 0, 0},
			gained:   4,
			changed:  true,
		},
		{
			name:     "already compacted",
			input:    [4]int{4, 2, 0, 0},
			expected: [4]int{4, 2, 0, 0},
		},
		{
			name:     "empty row",
			input:    [4]int{0, 0, 0, 0},
			expected: [4]int{0, 0, 0, 0},
		},
		{
			name:     "single tile",
			input:    [4]int{0, 4, 0, 0},
			expected: [4]int{4, 0, 0, 0},
			changed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, [BoardSize][BoardSize]int{tt.input})
			res := Resolve(b, DirLeft)
			b.Apply(res)

			if got := b.Values()[0]; got != tt.expected {
				t.Errorf("row = %v, want %v", got, tt.expected)
			}
			if res.Gained != tt.gained {
				t.Errorf("gained = %d, want %d", res.Gained, tt.gained)
			}
			if res.Changed != tt.changed {
				t.Errorf("changed = %v, want %v", res.Changed, tt.changed)
			}
			if err := b.Check(); err != nil {
				t.Errorf("board inconsistent after move: %v", err)
			}
		})
	}
}

func TestResolveDirections(t *testing.T) {
	start := [BoardSize][BoardSize]int{
		{2, 0, 2, 4},
		{0, 0, 0, 4},
		{2, 0, 0, 8},
		{0, 0, 0, 8},
	}

	tests := []struct {
		dir      Direction
		expected [BoardSize][BoardSize]int
		gained   int
	}{
		{
			dir: DirLeft,
			expected: [BoardSize][BoardSize]int{
				{4, 4, 0, 0},
				{4, 0, 0, 0},
				{2, 8, 0, 0},
				{8, 0, 0, 0},
			},
			gained: 4,
		},
		{
			dir: DirRight,
			expected: [BoardSize][BoardSize]int{
				{0, 0, 4, 4},
				{0, 0, 0, 4},
				{0, 0, 2, 8},
				{0, 0, 0, 8},
			},
			gained: 4,
		},
		{
			dir: DirUp,
			expected: [BoardSize][BoardSize]int{
				{4, 0, 2, 8},
				{0, 0, 0, 16},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			gained: 28,
		},
		{
			dir: DirDown,
			expected: [BoardSize][BoardSize]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 8},
				{4, 0, 2, 16},
			},
			gained: 28,
		},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			b := boardFrom(t, start)
			res := Resolve(b, tt.dir)
			b.Apply(res)
			if got := b.Values(); got != tt.expected {
				t.Errorf("board = %v, want %v", got, tt.expected)
			}
			if res.Gained != tt.gained {
				t.Errorf("gained = %d, want %d", res.Gained, tt.gained)
			}
		})
	}
}

func TestMergeKeepsLeadingTile(t *testing.T) {
	b := boardFrom(t, [BoardSize][BoardSize]int{{0, 2, 0, 2}})
	res := Resolve(b, DirRight)
	if len(res.Merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(res.Merges))
	}
	m := res.Merges[0]
	if m.To != "r0c3" || m.From != "r0c1" || m.Value != 4 {
		t.Errorf("merge = %+v, want r0c1 into r0c3 making 4", m)
	}

	b.Apply(res)
	if _, ok := b.Tile("r0c1"); ok {
		t.Error("trailing tile should be destroyed")
	}
	survivor, ok := b.Tile("r0c3")
	if !ok || survivor.Value != 4 || survivor.Cell() != (Cell{Row: 0, Col: 3}) {
		t.Errorf("survivor = %+v, %v", survivor, ok)
	}
}

func TestResolveDoesNotMutate(t *testing.T) {
	b := boardFrom(t, [BoardSize][BoardSize]int{{2, 2, 4, 0}})
	before := b.Values()
	_ = Resolve(b, DirLeft)
	if b.Values() != before {
		t.Error("Resolve must not change the board")
	}
}

func TestValueConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := range 200 {
		var rows [BoardSize][BoardSize]int
		for r := range BoardSize {
			for c := range BoardSize {
				if rng.Intn(3) > 0 {
					rows[r][c] = 2 << rng.Intn(4)
				}
			}
		}
		for _, dir := range Directions {
			b := boardFrom(t, rows)
			before := b.Sum()
			res := Resolve(b, dir)
			b.Apply(res)
			if before != b.Sum() {
				t.Fatalf("round %d %s: tile sum %d before, %d after", round, dir, before, b.Sum())
			}
			mergeTotal := 0
			for _, m := range res.Merges {
				mergeTotal += m.Value
			}
			if mergeTotal != res.Gained {
				t.Fatalf("round %d %s: merge values %d != gained %d", round, dir, mergeTotal, res.Gained)
			}
			if err := b.Check(); err != nil {
				t.Fatalf("round %d %s: %v", round, dir, err)
			}
		}
	}
}

func TestHasMoves(t *testing.T) {
	tests := []struct {
		name     string
		board    [BoardSize][BoardSize]int
		expected bool
	}{
		{
			name:     "empty board",
			expected: true,
		},
		{
			name: "one empty cell",
			board: [BoardSize][BoardSize]int{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 0},
			},
			expected: true,
		},
		{
			name: "full with horizontal pair",
			board: [BoardSize][BoardSize]int{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 8, 8},
			},
			expected: true,
		},
		{
			name: "full with vertical pair",
			board: [BoardSize][BoardSize]int{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 8},
				{4, 2, 4, 8},
			},
			expected: true,
		},
		{
			name: "locked",
			board: [BoardSize][BoardSize]int{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 2},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, tt.board)
			if got := HasMoves(b); got != tt.expected {
				t.Errorf("HasMoves = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"left", DirLeft, true},
		{"RIGHT", DirRight, true},
		{" up ", DirUp, true},
		{"s", DirDown, true},
		{"a", DirLeft, true},
		{"diagonal", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDirection(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
