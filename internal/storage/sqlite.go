package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/raysh454/fraudeye/internal/logging"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteDB owns the database file. Use Namespace to get a Store view.
type SQLiteDB struct {
	db     *sql.DB
	logger logging.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. path may be ":memory:" for a private in-memory database.
func OpenSQLite(path string, logger logging.Logger) (*SQLiteDB, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening storage database: %w", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := applySchema(db, path != ":memory:"); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("opened storage database", logging.Field{Key: "path", Value: path})
	return &SQLiteDB{db: db, logger: logger}, nil
}

func applySchema(db *sql.DB, wal bool) error {
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	if wal {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Namespace returns a Store whose keys are scoped to ns.
func (s *SQLiteDB) Namespace(ns string) *SQLiteStore {
	return &SQLiteStore{db: s.db, namespace: ns, logger: s.logger}
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is a namespaced view over SQLiteDB.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
	logger    logging.Logger
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ? LIMIT 1`,
		s.namespace, key,
	).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get %s/%s: %w", s.namespace, key, err)
	}
	return v, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE namespace = ? AND key = ?`, s.namespace, key,
	); err != nil {
		return fmt.Errorf("remove %s/%s: %w", s.namespace, key, err)
	}
	return nil
}
