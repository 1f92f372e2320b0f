package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// FileStore keeps one serialized game in a JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates the parent directory of path if needed.
func NewFileStore(path string) (*FileStore, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// ReadState implements t2048.Backend.
func (f *FileStore) ReadState() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, t2048.ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %s: %w", f.path, err)
	}
	return data, nil
}

// WriteState implements t2048.Backend. The file is replaced atomically so a
// crash never leaves a half-written game behind.
func (f *FileStore) WriteState(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".2048-*.json")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: cannot write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: cannot close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("storage: cannot replace %s: %w", f.path, err)
	}
	return nil
}

// Delete removes the file. A missing file is not an error.
func (f *FileStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: cannot delete %s: %w", f.path, err)
	}
	return nil
}

var _ t2048.Backend = (*FileStore)(nil)
