package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository as one row of a key/value table.
type SQLiteStore struct {
	db  *sql.DB
	key string
	mu  sync.Mutex // serializes read-modify-write within this process
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath, key string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, key: key}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) readBlob(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}) ([]byte, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	return []byte(value), nil
}

// LoadResponses returns the stored collection, or an empty one on any fault.
func (s *SQLiteStore) LoadResponses(ctx context.Context) []domain.Response {
	blob, err := s.readBlob(ctx, s.db)
	if err != nil {
		slog.Warn("Failed to read stored responses, treating as empty", "error", err)
		return []domain.Response{}
	}
	return decodeCollection(blob, "sqlite:"+s.key)
}

// AppendResponse rewrites the collection with resp appended. SQLITE_BUSY and
// locked errors are retried with exponential backoff.
func (s *SQLiteStore) AppendResponse(ctx context.Context, resp domain.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := shared.RetryOnConflict(ctx, 3, 50*time.Millisecond, "append_response", func() error {
		return s.appendOnce(ctx, resp)
	})
	if err != nil {
		return fmt.Errorf("append response: %w", err)
	}
	return nil
}

func (s *SQLiteStore) appendOnce(ctx context.Context, resp domain.Response) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	blob, err := s.readBlob(ctx, tx)
	if err != nil {
		return err
	}
	existing, parseErr := parseCollection(blob)
	if parseErr != nil {
		backup := corruptKey(s.key, time.Now())
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
			backup, string(blob), time.Now().Unix(),
		); err != nil {
			return fmt.Errorf("preserve corrupt %s: %w", s.key, err)
		}
		slog.Warn("Stored responses are corrupt, moved aside before append",
			"key", s.key, "backup", backup, "error", parseErr)
		existing = []domain.Response{}
	}

	next, err := encodeCollection(append(existing, resp))
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		s.key, string(next), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ClearResponses deletes the stored collection.
func (s *SQLiteStore) ClearResponses(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, s.key)
	if err != nil {
		return fmt.Errorf("clear responses: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil {
		slog.Info("Stored responses cleared", "key", s.key, "rows", rows)
	}
	return nil
}
