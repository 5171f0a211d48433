package registry

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	version    INTEGER NOT NULL,
	path       TEXT NOT NULL,
	run_id     TEXT NOT NULL DEFAULT '',
	metrics    TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	UNIQUE (name, version)
);
CREATE INDEX IF NOT EXISTS idx_artifacts_name ON artifacts (name);
`

// SqlStore implements Store on SQLite (cgo-free driver).
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates the registry database at path, creating the parent
// directory if needed.
func Open(path string) (*SqlStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("open registry: %w", err)
		}
	}
	return open(path)
}

// OpenMemory opens an in-memory registry for testing.
func OpenMemory() (*SqlStore, error) {
	return open(":memory:")
}

func open(dsn string) (*SqlStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init registry schema: %w", err)
	}
	return &SqlStore{db: db}, nil
}

func (s *SqlStore) Close() error {
	return s.db.Close()
}

// Register implements Store.
func (s *SqlStore) Register(rec *ArtifactRecord) (int64, error) {
	if rec == nil || rec.Name == "" {
		return 0, &WriteError{Op: "register", Err: errors.New("record needs a name")}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, &WriteError{Op: "register", Err: err}
	}
	defer tx.Rollback()

	version := rec.Version
	if version == 0 {
		if err := tx.QueryRow(
			"SELECT COALESCE(MAX(version), 0) + 1 FROM artifacts WHERE name = ?", rec.Name,
		).Scan(&version); err != nil {
			return 0, &WriteError{Op: "register", Err: err}
		}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	// RFC3339 storage keeps whole seconds; normalize so a written record
	// compares equal to its read-back.
	createdAt = createdAt.UTC().Truncate(time.Second)
	metrics, err := json.Marshal(rec.Metrics)
	if err != nil {
		return 0, &WriteError{Op: "register", Err: err}
	}

	res, err := tx.Exec(
		"INSERT INTO artifacts (name, version, path, run_id, metrics, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		rec.Name, version, rec.Path, rec.RunID, string(metrics), createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, &WriteError{Op: "register", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &WriteError{Op: "register", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return 0, &WriteError{Op: "register", Err: err}
	}

	rec.ID = id
	rec.Version = version
	rec.CreatedAt = createdAt
	return id, nil
}

// Latest implements Store.
func (s *SqlStore) Latest(name string) (*ArtifactRecord, error) {
	row := s.db.QueryRow(
		"SELECT id, name, version, path, run_id, metrics, created_at FROM artifacts WHERE name = ? ORDER BY id DESC LIMIT 1",
		name,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	return rec, err
}

// List implements Store.
func (s *SqlStore) List(name string) ([]*ArtifactRecord, error) {
	query := "SELECT id, name, version, path, run_id, metrics, created_at FROM artifacts ORDER BY id ASC"
	args := []any{}
	if name != "" {
		query = "SELECT id, name, version, path, run_id, metrics, created_at FROM artifacts WHERE name = ? ORDER BY id ASC"
		args = append(args, name)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var out []*ArtifactRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// NextVersion implements Store.
func (s *SqlStore) NextVersion(name string) (int, error) {
	var next int
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(version), 0) + 1 FROM artifacts WHERE name = ?", name,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next version: %w", err)
	}
	return next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ArtifactRecord, error) {
	var rec ArtifactRecord
	var metrics, createdAt string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Version, &rec.Path, &rec.RunID, &metrics, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(metrics), &rec.Metrics); err != nil {
		return nil, fmt.Errorf("parse metrics for artifact %d: %w", rec.ID, err)
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for artifact %d: %w", rec.ID, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
