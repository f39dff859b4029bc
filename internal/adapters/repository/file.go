package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirPermission  = 0o750
	fileExtension  = ".json"
	tempFilePrefix = ".tmp-"
)

// fileBackend stores one JSON file per session. Writes go to a temp file
// that is renamed over the target, so readers see either the old or the new
// history, never a partial one.
type fileBackend struct {
	dir string
}

// OpenFile creates a store that keeps each session in dir/<id>.json, with
// the id base64url-encoded so any opaque id maps to a safe file name.
func OpenFile(dir string, opts ...Option) (*HistoryStore, error) {
	if dir == "" {
		return nil, errors.New("empty history directory")
	}
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return nil, fmt.Errorf("create history directory %s: %w", dir, err)
	}
	return newHistoryStore(&fileBackend{dir: dir}, opts...), nil
}

func (f *fileBackend) name() string { return BackendFile }

func (f *fileBackend) path(sessionID string) string {
	return filepath.Join(f.dir, base64.RawURLEncoding.EncodeToString([]byte(sessionID))+fileExtension)
}

func (f *fileBackend) load(_ context.Context, sessionID string) ([]byte, error) {
	data, err := os.ReadFile(f.path(sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNoRecord
	}
	return data, err
}

func (f *fileBackend) save(_ context.Context, sessionID string, data []byte) (err error) {
	tmp, err := os.CreateTemp(f.dir, tempFilePrefix+"*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(sessionID))
}

func (f *fileBackend) remove(_ context.Context, sessionID string) error {
	err := os.Remove(f.path(sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (f *fileBackend) close() error { return nil }
