package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/odorcolor/internal/domain"
)

// JSONFileStore keeps the collection in <dir>/<key>.json.
type JSONFileStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONFile creates a file-backed repository in dir.
func NewJSONFile(dir, key string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &JSONFileStore{path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the backing file path.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Ping checks that the store directory is still accessible.
func (s *JSONFileStore) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("stat store directory: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per operation.
func (s *JSONFileStore) Close() error {
	return nil
}

func (s *JSONFileStore) read() []domain.Response {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read stored responses, treating as empty", "path", s.path, "error", err)
		}
		return []domain.Response{}
	}
	return decodeCollection(data, s.path)
}

// LoadResponses returns the stored collection, or an empty one on any fault.
func (s *JSONFileStore) LoadResponses(_ context.Context) []domain.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// AppendResponse rewrites the file with resp appended. The new content is
// written to a temp file and renamed into place.
func (s *JSONFileStore) AppendResponse(_ context.Context, resp domain.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readForAppend()
	if err != nil {
		return err
	}
	blob, err := encodeCollection(append(existing, resp))
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0600); err != nil {
		return fmt.Errorf("write responses: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace responses: %w", err)
	}
	return nil
}

// readForAppend returns the current collection. A corrupt file is copied to
// <key>.corrupt-<unixnano>.json before being treated as empty, so the write
// that follows never discards stored data.
func (s *JSONFileStore) readForAppend() ([]domain.Response, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Response{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read responses: %w", err)
	}

	existing, parseErr := parseCollection(data)
	if parseErr == nil {
		return existing, nil
	}

	key := strings.TrimSuffix(filepath.Base(s.path), ".json")
	backup := filepath.Join(filepath.Dir(s.path), corruptKey(key, time.Now())+".json")
	if err := os.WriteFile(backup, data, 0600); err != nil {
		return nil, fmt.Errorf("preserve corrupt responses: %w", err)
	}
	slog.Warn("Stored responses are corrupt, moved aside before append",
		"path", s.path, "backup", backup, "error", parseErr)
	return []domain.Response{}, nil
}

// ClearResponses removes the backing file.
func (s *JSONFileStore) ClearResponses(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear responses: %w", err)
	}
	slog.Info("Stored responses cleared", "path", s.path)
	return nil
}
