package registry

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// runStoreSuite exercises the Store contract against any implementation.
func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	t.Run("LatestEmpty", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		_, err := s.Latest("credit-default")
		if !errors.Is(err, ErrEmpty) {
			t.Errorf("Latest on empty registry: got %v, want ErrEmpty", err)
		}
	})

	t.Run("RegisterThenLatest", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		rec := &ArtifactRecord{
			Name:    "credit-default",
			Path:    "/registry/credit-default/v1/model.json",
			RunID:   "run-1",
			Metrics: map[string]float64{"weighted_f1": 0.81},
		}
		id, err := s.Register(rec)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if id == 0 || rec.Version != 1 {
			t.Errorf("id=%d version=%d", id, rec.Version)
		}
		if rec.CreatedAt.IsZero() {
			t.Error("CreatedAt should be stamped")
		}

		got, err := s.Latest("credit-default")
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if diff := cmp.Diff(rec, got); diff != "" {
			t.Errorf("latest record mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("VersionsIncrement", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		for i := 1; i <= 3; i++ {
			if _, err := s.Register(&ArtifactRecord{Name: "m"}); err != nil {
				t.Fatalf("Register %d: %v", i, err)
			}
		}
		latest, err := s.Latest("m")
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if latest.Version != 3 {
			t.Errorf("latest version: got %d, want 3", latest.Version)
		}
		next, err := s.NextVersion("m")
		if err != nil {
			t.Fatalf("NextVersion: %v", err)
		}
		if next != 4 {
			t.Errorf("next version: got %d, want 4", next)
		}
	})

	t.Run("ListOldestFirst", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		for i := 0; i < 3; i++ {
			if _, err := s.Register(&ArtifactRecord{Name: "m"}); err != nil {
				t.Fatalf("Register: %v", err)
			}
		}
		if _, err := s.Register(&ArtifactRecord{Name: "other"}); err != nil {
			t.Fatalf("Register: %v", err)
		}

		recs, err := s.List("m")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("List(m): got %d records", len(recs))
		}
		for i, rec := range recs {
			if rec.Version != i+1 {
				t.Errorf("record %d: version %d", i, rec.Version)
			}
		}

		all, err := s.List("")
		if err != nil {
			t.Fatalf("List all: %v", err)
		}
		if len(all) != 4 {
			t.Errorf("List all: got %d records", len(all))
		}
	})

	t.Run("RejectsUnnamed", func(t *testing.T) {
		s := open(t)
		defer s.Close()
		_, err := s.Register(&ArtifactRecord{})
		var werr *WriteError
		if !errors.As(err, &werr) {
			t.Errorf("expected *WriteError, got %v", err)
		}
	})
}

func TestSqlStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := Open(filepath.Join(t.TempDir(), "registry.db"))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return s
	})
}

func TestMemStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemStore()
	})
}

func TestSqlStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := s.Register(&ArtifactRecord{Name: "m", CreatedAt: created}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Latest("m")
	if err != nil {
		t.Fatalf("Latest after reopen: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, created)
	}
}
