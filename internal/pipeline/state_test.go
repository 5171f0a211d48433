package pipeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSaveLoadLatestRun(t *testing.T) {
	stateDir := t.TempDir()

	run := &Run{
		ID:     "run-abc",
		Status: RunSucceeded,
		Stages: []*Result{
			{Stage: StagePrep, Status: StatusSucceeded, Metrics: map[string]float64{"num_samples": 100}},
			{Stage: StageTrain, Status: StatusSucceeded},
		},
		StartedAt:  time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 2, 1, 9, 5, 0, 0, time.UTC),
	}
	if err := SaveRun(stateDir, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := LoadLatestRun(stateDir)
	if err != nil {
		t.Fatalf("LoadLatestRun: %v", err)
	}
	if diff := cmp.Diff(run, got, cmpopts.IgnoreUnexported(Run{})); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRun_LatestTracksNewest(t *testing.T) {
	stateDir := t.TempDir()

	first := &Run{ID: "run-1", Status: RunFailed}
	second := &Run{ID: "run-2", Status: RunSucceeded}
	if err := SaveRun(stateDir, first); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := SaveRun(stateDir, second); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := LoadLatestRun(stateDir)
	if err != nil {
		t.Fatalf("LoadLatestRun: %v", err)
	}
	if got.ID != "run-2" {
		t.Errorf("latest run: got %s", got.ID)
	}
}

func TestLoadLatestRun_Empty(t *testing.T) {
	got, err := LoadLatestRun(t.TempDir())
	if err != nil {
		t.Fatalf("LoadLatestRun: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil run, got %+v", got)
	}
}
