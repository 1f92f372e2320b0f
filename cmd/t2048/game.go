package main

import (
	"fmt"
	"io"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// gameHandle is an engine wired to the configured storage.
type gameHandle struct {
	engine *t2048.Engine
	// store is nil for the file backend.
	store  *storage.Store
	closer io.Closer
	// where names the save location for logs.
	where string
}

func (g *gameHandle) Close() error {
	if g.closer != nil {
		return g.closer.Close()
	}
	return nil
}

// openGame wires an engine to the configured backend and boots it. Headless
// commands pass a zero delay so every move finalizes before the process exits.
func openGame(finalizeDelayTicks int, extra ...t2048.Option) (*gameHandle, error) {
	opts := []t2048.Option{
		t2048.WithLogger(logger),
		t2048.WithFinalizeDelay(finalizeDelayTicks),
		t2048.WithAnonymousName(settings.Player.AnonymousName),
	}
	if flagSeed != 0 {
		opts = append(opts, t2048.WithSeed(flagSeed))
	}

	h := &gameHandle{}
	switch settings.Storage.Backend {
	case config.BackendFile:
		fs, err := storage.NewFileStore(settings.Storage.Path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, t2048.WithGateway(t2048.NewGateway(fs, logger)))
		h.where = fs.Path()

	default:
		store, err := storage.Open(settings.Storage.Path)
		if err != nil {
			return nil, err
		}
		slot := store.Slot(settings.Storage.Slot)
		opts = append(opts,
			t2048.WithGateway(t2048.NewGateway(slot, logger)),
			t2048.WithScoreRecorder(slot),
		)
		h.store = store
		h.closer = store
		h.where = settings.Storage.Path + "#" + slot.Name()
	}

	h.engine = t2048.New(append(opts, extra...)...)
	if h.engine.Boot() {
		logger.Debug("restored saved game", "from", h.where)
	} else {
		logger.Debug("started a new game", "at", h.where)
	}
	return h, nil
}

// openStore opens the SQLite store for commands that only read history.
func openStore() (*storage.Store, error) {
	if settings.Storage.Backend != config.BackendSQLite {
		return nil, fmt.Errorf("score history needs the sqlite backend (current: %s)", settings.Storage.Backend)
	}
	return storage.Open(settings.Storage.Path)
}
