package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileTier stores each key as a JSON file under a data directory. This is
// the primary tier, the durable analogue of the browser's localStorage.
type FileTier struct {
	name string
	dir  string
}

// NewFileTier creates the data directory if needed.
func NewFileTier(name, dir string) (*FileTier, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileTier{name: name, dir: dir}, nil
}

func (f *FileTier) Name() string { return f.name }

func (f *FileTier) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileTier) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return data, nil
}

// Set writes via a temp file and rename so a crash mid-write cannot leave a
// truncated blob behind.
func (f *FileTier) Set(_ context.Context, key string, blob []byte) error {
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("failed to replace blob %q: %w", key, err)
	}
	return nil
}
