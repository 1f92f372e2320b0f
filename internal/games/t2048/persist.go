package t2048

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// ErrNoState is returned by a Backend that has nothing stored.
var ErrNoState = errors.New("t2048: no saved state")

// Backend stores one serialized game.
type Backend interface {
	ReadState() ([]byte, error)
	WriteState(data []byte) error
}

// record is the persisted JSON shape.
type record struct {
	Grid         [cellCount]*TileID `json:"grid"`
	Tiles        map[TileID]Tile    `json:"tiles"`
	Score        int                `json:"score"`
	Best         int                `json:"best"`
	BestName     string             `json:"bestName"`
	BestNamedAt  int                `json:"bestNamedAt"`
	Status       Status             `json:"status"`
	SoundEnabled bool               `json:"soundEnabled"`
}

// Encode serializes a state into the persisted record format. A board whose
// grid and tiles disagree is refused.
func Encode(s *GameState) ([]byte, error) {
	if err := s.Board.Check(); err != nil {
		return nil, err
	}
	rec := record{
		Tiles:        make(map[TileID]Tile, s.Board.Len()),
		Score:        s.Score,
		Best:         s.Best,
		BestName:     s.BestName,
		BestNamedAt:  s.BestNamedAt,
		Status:       s.Status,
		SoundEnabled: s.SoundEnabled,
	}
	for i, id := range s.Board.grid {
		if id == "" {
			continue
		}
		id := id
		rec.Grid[i] = &id
	}
	for _, t := range s.Board.Tiles() {
		rec.Tiles[t.ID] = t
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("t2048: encode state: %w", err)
	}
	return data, nil
}

// Decode parses a persisted record. It reports false when the data does not
// describe a usable game: malformed JSON, a grid that is not 16 ids-or-null,
// a missing tile mapping, or tiles that do not line up with the grid.
// Scalar fields are coerced rather than rejected.
func Decode(data []byte) (*GameState, bool) {
	if !gjson.ValidBytes(data) {
		return nil, false
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, false
	}

	grid := root.Get("grid")
	tiles := root.Get("tiles")
	if !grid.IsArray() || !tiles.IsObject() {
		return nil, false
	}
	cells := grid.Array()
	if len(cells) != cellCount {
		return nil, false
	}

	records := make(map[string]gjson.Result)
	tiles.ForEach(func(key, value gjson.Result) bool {
		records[key.String()] = value
		return true
	})

	board := NewBoard()
	for i, entry := range cells {
		switch entry.Type {
		case gjson.Null:
			continue
		case gjson.String:
			if entry.Str == "" {
				continue
			}
		default:
			return nil, false
		}
		id := TileID(entry.Str)
		value := records[entry.Str].Get("value")
		if value.Type != gjson.Number || value.Num != math.Trunc(value.Num) || !isTileValue(int(value.Num)) {
			return nil, false
		}
		if _, err := board.SpawnTile(id, int(value.Num), cellAt(i)); err != nil {
			return nil, false
		}
	}

	if len(records) != board.Len() || board.Check() != nil {
		return nil, false
	}

	s := &GameState{
		Board:        board,
		Score:        coerceInt(root.Get("score")),
		Best:         coerceInt(root.Get("best")),
		BestNamedAt:  coerceInt(root.Get("bestNamedAt")),
		Status:       ParseStatus(root.Get("status").String()),
		SoundEnabled: true,
	}
	if name := root.Get("bestName"); name.Type == gjson.String {
		s.BestName = name.Str
	}
	if sound := root.Get("soundEnabled"); sound.IsBool() {
		s.SoundEnabled = sound.Bool()
	}
	if s.BestNamedAt > s.Best {
		s.BestNamedAt = s.Best
	}
	return s, true
}

// coerceInt reads a lenient non-negative integer: numbers, numeric strings
// and booleans convert; anything else, including NaN and negatives, is 0.
func coerceInt(r gjson.Result) int {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = v
	case gjson.True:
		return 1
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// Gateway saves and loads games through a Backend. Failures never reach the
// player: a failed save is logged, and a failed or unusable load looks like
// an empty slot.
type Gateway struct {
	backend Backend
	logger  *log.Logger
}

// NewGateway wraps a backend. A nil logger discards.
func NewGateway(b Backend, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gateway{backend: b, logger: logger}
}

// Save writes the state. The error is returned for callers that care; the
// engine ignores it.
func (g *Gateway) Save(s *GameState) error {
	data, err := Encode(s)
	if err == nil {
		err = g.backend.WriteState(data)
	}
	if err != nil {
		g.logger.Warn("could not save game", "error", err)
	}
	return err
}

// Load reads the stored game. ok is false when nothing usable is stored.
func (g *Gateway) Load() (*GameState, bool) {
	data, err := g.backend.ReadState()
	if err != nil {
		if !errors.Is(err, ErrNoState) {
			g.logger.Warn("could not read saved game", "error", err)
		}
		return nil, false
	}
	s, ok := Decode(data)
	if !ok {
		g.logger.Warn("discarding unreadable saved game", "bytes", len(data))
	}
	return s, ok
}

// MemoryBackend keeps the serialized game in memory.
type MemoryBackend struct {
	Data     []byte
	WriteErr error
	Writes   int
}

// ReadState returns the stored bytes or ErrNoState.
func (m *MemoryBackend) ReadState() ([]byte, error) {
	if m.Data == nil {
		return nil, ErrNoState
	}
	return m.Data, nil
}

// WriteState stores a copy of data unless WriteErr is set.
func (m *MemoryBackend) WriteState(data []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Data = append([]byte(nil), data...)
	m.Writes++
	return nil
}
