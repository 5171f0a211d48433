package registry

import (
	"errors"
	"sync"
	"time"
)

// MemStore is an in-memory Store for tests. Implements Store.
type MemStore struct {
	mu      sync.Mutex
	nextID  int64
	records []*ArtifactRecord // append order
}

// NewMemStore returns a new in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Register implements Store.
func (s *MemStore) Register(rec *ArtifactRecord) (int64, error) {
	if rec == nil || rec.Name == "" {
		return 0, &WriteError{Op: "register", Err: errors.New("record needs a name")}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Version == 0 {
		rec.Version = s.nextVersionLocked(rec.Name)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	// Match the sqlite store's whole-second timestamp granularity.
	rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Second)
	s.nextID++
	rec.ID = s.nextID

	cp := *rec
	cp.Metrics = copyMetrics(rec.Metrics)
	s.records = append(s.records, &cp)
	return rec.ID, nil
}

// Latest implements Store.
func (s *MemStore) Latest(name string) (*ArtifactRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Name == name {
			cp := *s.records[i]
			cp.Metrics = copyMetrics(cp.Metrics)
			return &cp, nil
		}
	}
	return nil, ErrEmpty
}

// List implements Store.
func (s *MemStore) List(name string) ([]*ArtifactRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*ArtifactRecord
	for _, rec := range s.records {
		if name != "" && rec.Name != name {
			continue
		}
		cp := *rec
		cp.Metrics = copyMetrics(cp.Metrics)
		out = append(out, &cp)
	}
	return out, nil
}

// NextVersion implements Store.
func (s *MemStore) NextVersion(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextVersionLocked(name), nil
}

func (s *MemStore) nextVersionLocked(name string) int {
	max := 0
	for _, rec := range s.records {
		if rec.Name == name && rec.Version > max {
			max = rec.Version
		}
	}
	return max + 1
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }

func copyMetrics(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
