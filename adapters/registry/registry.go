// Package registry is the append-only artifact registry: every registered
// model version gets one record, records are never updated or deleted,
// newer versions supersede older ones.
package registry

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDBFile is the registry database filename inside the registry directory.
const DefaultDBFile = "registry.db"

// ErrEmpty is returned by Latest when nothing has been registered under
// the requested name.
var ErrEmpty = errors.New("registry: no artifacts registered")

// WriteError wraps a failure to append to the registry store.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("registry %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ArtifactRecord identifies one registered artifact version. Immutable
// once appended.
type ArtifactRecord struct {
	ID        int64
	Name      string
	Version   int
	Path      string // filesystem path of the registered artifact copy
	RunID     string // run that produced the artifact
	Metrics   map[string]float64
	CreatedAt time.Time
}

// Store is the persistence facade for the registry. CLI and stage code use
// only this interface; implementation is SQLite or in-memory.
type Store interface {
	// Register appends a record and returns its store id. A record with
	// Version 0 is assigned the next version for its name. Storage
	// failures surface as *WriteError.
	Register(rec *ArtifactRecord) (int64, error)
	// Latest returns the most recently appended record for name, or ErrEmpty.
	Latest(name string) (*ArtifactRecord, error)
	// List returns all records for name, oldest first. An empty name
	// lists every record.
	List(name string) ([]*ArtifactRecord, error)
	// NextVersion returns 1 + the highest version registered for name.
	NextVersion(name string) (int, error)
	Close() error
}
