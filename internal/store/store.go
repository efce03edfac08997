// Package store persists the survey response collection.
//
// The collection is a single serialized JSON array under one named key. Every
// append rewrites the whole blob. Reads never fail and degrade to an empty
// collection when the blob is absent or unreadable. An append over a corrupt
// blob first copies it aside under "<key>.corrupt-<unixnano>".
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashureev/odorcolor/internal/domain"
)

// DefaultKey is the name the collection is stored under.
const DefaultKey = "odorColorResponses"

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Repository defines the interface for persisting survey responses.
type Repository interface {
	// AppendResponse adds one response to the end of the collection.
	AppendResponse(ctx context.Context, resp domain.Response) error

	// LoadResponses returns the full collection, or an empty one if storage
	// is missing or unreadable.
	LoadResponses(ctx context.Context) []domain.Response

	// ClearResponses irreversibly deletes the collection. Callers must have
	// obtained explicit confirmation first.
	ClearResponses(ctx context.Context) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases the backing storage.
	Close() error
}

// Open returns the repository for driver, rooted at path, storing under key.
func Open(driver, path, key string) (Repository, error) {
	if key == "" {
		key = DefaultKey
	}
	switch driver {
	case DriverSQLite, "":
		s, err := NewSQLite(path, key)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverFile:
		s, err := NewJSONFile(path, key)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// decodeCollection parses a stored blob for reading. Corruption is logged and
// swallowed.
func decodeCollection(blob []byte, source string) []domain.Response {
	out, err := parseCollection(blob)
	if err != nil {
		slog.Warn("Stored responses are corrupt, treating as empty", "source", source, "error", err)
		return []domain.Response{}
	}
	return out
}

// parseCollection is the strict decode used before a write. Append must not
// overwrite a blob it could not read.
func parseCollection(blob []byte) ([]domain.Response, error) {
	if len(blob) == 0 {
		return []domain.Response{}, nil
	}
	var out []domain.Response
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	if out == nil {
		out = []domain.Response{}
	}
	return out, nil
}

// corruptKey names the copy a corrupt collection is moved to before an append.
func corruptKey(key string, now time.Time) string {
	return fmt.Sprintf("%s.corrupt-%d", key, now.UnixNano())
}

func encodeCollection(responses []domain.Response) ([]byte, error) {
	blob, err := json.Marshal(responses)
	if err != nil {
		return nil, fmt.Errorf("encode responses: %w", err)
	}
	return blob, nil
}
