package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndLoadGame(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LoadGame("alice"); !errors.Is(err, t2048.ErrNoState) {
		t.Fatalf("LoadGame on empty slot: err = %v, want ErrNoState", err)
	}

	if err := store.SaveGame("alice", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if err := store.SaveGame("alice", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("SaveGame() overwrite failed: %v", err)
	}
	if err := store.SaveGame("bob", []byte(`{"v":3}`)); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	got, err := store.LoadGame("alice")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("LoadGame = %s, want the latest save", got)
	}

	saves, err := store.Saves()
	if err != nil {
		t.Fatalf("Saves() failed: %v", err)
	}
	if len(saves) != 2 {
		t.Errorf("Saves() = %d entries, want 2", len(saves))
	}

	if err := store.DeleteGame("alice"); err != nil {
		t.Fatalf("DeleteGame() failed: %v", err)
	}
	if _, err := store.LoadGame("alice"); !errors.Is(err, t2048.ErrNoState) {
		t.Errorf("after delete: err = %v, want ErrNoState", err)
	}
}

func TestScoreHistory(t *testing.T) {
	store := openTestStore(t)

	records := []struct {
		slot string
		rec  t2048.ScoreRecord
	}{
		{"alice", t2048.ScoreRecord{Score: 100, Name: "ann", MaxTile: 16, Moves: 30}},
		{"alice", t2048.ScoreRecord{Score: 50, MaxTile: 8, Moves: 12}},
		{"bob", t2048.ScoreRecord{Score: 200, Name: "bo", MaxTile: 32, Moves: 70}},
	}
	for _, r := range records {
		if _, err := store.SaveScore(r.slot, r.rec); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	top, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(top))
	}
	if top[0].Score != 200 || top[0].Slot != "bob" || top[0].Name != "bo" || top[0].MaxTile != 32 {
		t.Errorf("top entry = %+v", top[0])
	}
	if top[2].Score != 50 {
		t.Errorf("Expected lowest score to be 50, got %d", top[2].Score)
	}
	if top[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be parsed")
	}

	mine, err := store.SlotScores("alice", 1)
	if err != nil {
		t.Fatalf("SlotScores() failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Score != 100 {
		t.Errorf("SlotScores = %+v", mine)
	}

	high, err := store.HighScore()
	if err != nil || high != 200 {
		t.Errorf("HighScore = %d, %v; want 200", high, err)
	}

	if err := store.ClearScores("alice"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	top, _ = store.TopScores(10)
	if len(top) != 1 {
		t.Errorf("after clearing alice: %d scores, want 1", len(top))
	}
}

func TestHighScoreEmpty(t *testing.T) {
	store := openTestStore(t)
	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() = %d, want 0", high)
	}
}

func TestSlotStoreDrivesEngine(t *testing.T) {
	store := openTestStore(t)
	slot := store.Slot("carol")

	e := t2048.New(t2048.WithSeed(1), t2048.WithGateway(t2048.NewGateway(slot, nil)))
	e.NewGame(true)
	e.ToggleSound()
	want := e.Snapshot()

	restored := t2048.New(t2048.WithGateway(t2048.NewGateway(slot, nil)))
	if !restored.Boot() {
		t.Fatal("Boot did not find the saved game")
	}
	got := restored.Snapshot()
	if got.Board != want.Board || got.SoundEnabled {
		t.Errorf("restored board %v sound %v, want %v sound false", got.Board, got.SoundEnabled, want.Board)
	}
}
