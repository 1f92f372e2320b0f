package t2048

import (
	"errors"
	"reflect"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	s := NewGameState()
	s.Board = boardFrom(t, [BoardSize][BoardSize]int{
		{2, 0, 0, 4},
		{0, 2048, 0, 0},
		{0, 0, 8, 0},
		{16, 0, 0, 2},
	})
	s.Score = 3120
	s.Best = 5000
	s.BestName = "김철수"
	s.BestNamedAt = 4800
	s.Status = StatusWon
	s.SoundEnabled = false

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, ok := Decode(data)
	if !ok {
		t.Fatalf("Decode rejected %s", data)
	}

	if got.Board.grid != s.Board.grid {
		t.Errorf("grid = %v, want %v", got.Board.grid, s.Board.grid)
	}
	if !reflect.DeepEqual(got.Board.Tiles(), s.Board.Tiles()) {
		t.Errorf("tiles = %v, want %v", got.Board.Tiles(), s.Board.Tiles())
	}
	got.Board, s.Board = nil, nil
	if !reflect.DeepEqual(got, s) {
		t.Errorf("state = %+v, want %+v", got, s)
	}
}

func TestDecodeRejects(t *testing.T) {
	empty16 := `[null,null,null,null,null,null,null,null,null,null,null,null,null,null,null,null]`

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{grid:`},
		{"not an object", `[1,2,3]`},
		{"missing grid", `{"tiles":{}}`},
		{"grid wrong length", `{"grid":[null,null],"tiles":{}}`},
		{"grid not array", `{"grid":{},"tiles":{}}`},
		{"missing tiles", `{"grid":` + empty16 + `}`},
		{"tiles is array", `{"grid":` + empty16 + `,"tiles":[]}`},
		{"grid entry is a number", `{"grid":[1,null,null,null,null,null,null,null,null,null,null,null,null,null,null,null],"tiles":{}}`},
		{"unknown tile id", `{"grid":["a",null,null,null,null,null,null,null,null,null,null,null,null,null,null,null],"tiles":{}}`},
		{"orphan tile", `{"grid":` + empty16 + `,"tiles":{"a":{"value":2}}}`},
		{"bad tile value", `{"grid":["a",null,null,null,null,null,null,null,null,null,null,null,null,null,null,null],"tiles":{"a":{"value":3}}}`},
		{"string tile value", `{"grid":["a",null,null,null,null,null,null,null,null,null,null,null,null,null,null,null],"tiles":{"a":{"value":"2"}}}`},
		{"duplicate placement", `{"grid":["a","a",null,null,null,null,null,null,null,null,null,null,null,null,null,null],"tiles":{"a":{"value":2}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Decode([]byte(tt.data)); ok {
				t.Errorf("Decode accepted %s", tt.data)
			}
		})
	}
}

func TestDecodeCoerces(t *testing.T) {
	const grid = `"grid":["a",null,null,null,null,null,null,null,null,null,null,null,null,null,null,"b"],"tiles":{"a":{"id":"a","value":2,"row":9,"col":9},"b":{"value":4}}`

	tests := []struct {
		name  string
		extra string
		check func(t *testing.T, s *GameState)
	}{
		{
			name:  "defaults",
			extra: ``,
			check: func(t *testing.T, s *GameState) {
				if s.Score != 0 || s.Best != 0 || s.BestName != "" || s.BestNamedAt != 0 {
					t.Errorf("scalars = %+v", s)
				}
				if s.Status != StatusPlaying || !s.SoundEnabled {
					t.Errorf("status=%s sound=%v", s.Status, s.SoundEnabled)
				}
			},
		},
		{
			name:  "numeric strings and junk",
			extra: `,"score":"120","best":"abc","bestNamedAt":true`,
			check: func(t *testing.T, s *GameState) {
				if s.Score != 120 || s.Best != 0 || s.BestNamedAt != 0 {
					t.Errorf("score=%d best=%d namedAt=%d", s.Score, s.Best, s.BestNamedAt)
				}
			},
		},
		{
			name:  "negative and fractional",
			extra: `,"score":-5,"best":99.9`,
			check: func(t *testing.T, s *GameState) {
				if s.Score != 0 || s.Best != 99 {
					t.Errorf("score=%d best=%d", s.Score, s.Best)
				}
			},
		},
		{
			name:  "unknown status",
			extra: `,"status":"paused"`,
			check: func(t *testing.T, s *GameState) {
				if s.Status != StatusPlaying {
					t.Errorf("status = %s", s.Status)
				}
			},
		},
		{
			name:  "over status",
			extra: `,"status":"over"`,
			check: func(t *testing.T, s *GameState) {
				if s.Status != StatusOver {
					t.Errorf("status = %s", s.Status)
				}
			},
		},
		{
			name:  "wrong typed name and sound",
			extra: `,"bestName":42,"soundEnabled":"no"`,
			check: func(t *testing.T, s *GameState) {
				if s.BestName != "" || !s.SoundEnabled {
					t.Errorf("name=%q sound=%v", s.BestName, s.SoundEnabled)
				}
			},
		},
		{
			name:  "sound off",
			extra: `,"soundEnabled":false`,
			check: func(t *testing.T, s *GameState) {
				if s.SoundEnabled {
					t.Error("sound should be off")
				}
			},
		},
		{
			name:  "namedAt above best",
			extra: `,"best":100,"bestNamedAt":250`,
			check: func(t *testing.T, s *GameState) {
				if s.BestNamedAt != 100 {
					t.Errorf("namedAt = %d, want clamped to 100", s.BestNamedAt)
				}
			},
		},
		{
			name:  "grid position wins over tile record",
			extra: ``,
			check: func(t *testing.T, s *GameState) {
				a, _ := s.Board.Tile("a")
				b, _ := s.Board.Tile("b")
				if a.Cell() != (Cell{0, 0}) || b.Cell() != (Cell{3, 3}) || b.Value != 4 {
					t.Errorf("a=%+v b=%+v", a, b)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := Decode([]byte(`{` + grid + tt.extra + `}`))
			if !ok {
				t.Fatal("Decode rejected a usable record")
			}
			tt.check(t, s)
		})
	}
}

func TestEncodeRefusesDriftedBoard(t *testing.T) {
	s := NewGameState()
	s.Board = boardFrom(t, [BoardSize][BoardSize]int{{2, 4}})
	s.Board.tiles["r0c1"].Row = 3

	if _, err := Encode(s); err == nil {
		t.Error("Encode should refuse a tile that disagrees with the grid")
	}
	if err := NewGateway(&MemoryBackend{}, nil).Save(s); err == nil {
		t.Error("Save should surface the encode error")
	}
}

func TestGatewayLoad(t *testing.T) {
	g := NewGateway(&MemoryBackend{}, nil)
	if _, ok := g.Load(); ok {
		t.Error("empty backend should load nothing")
	}

	failing := &failingBackend{err: errors.New("io error")}
	if _, ok := NewGateway(failing, nil).Load(); ok {
		t.Error("read error should load nothing")
	}
	if err := NewGateway(failing, nil).Save(NewGameState()); err == nil {
		t.Error("write error should be returned")
	}
}

type failingBackend struct {
	err error
}

func (f *failingBackend) ReadState() ([]byte, error) { return nil, f.err }
func (f *failingBackend) WriteState([]byte) error    { return f.err }
