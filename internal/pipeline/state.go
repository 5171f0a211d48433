package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunStatus is the overall outcome of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is the persisted record of one end-to-end execution.
type Run struct {
	ID         string    `json:"id"`
	Status     RunStatus `json:"status"`
	Stages     []*Result `json:"stages"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	err error
}

// Err returns the *StageError of the failed stage, or nil for a
// successful run. Only populated on Runs produced by Runner.Run; loaded
// records carry the message in the stage Result instead.
func (r *Run) Err() error { return r.err }

// Failed returns the result of the failed stage, or nil.
func (r *Run) Failed() *Result {
	for _, res := range r.Stages {
		if res.Status == StatusFailed {
			return res
		}
	}
	return nil
}

// latestFile points the status command at the newest run record.
const latestFile = "latest.json"

// SaveRun writes the run record under stateDir as <id>.json and refreshes
// latest.json.
func SaveRun(stateDir string, run *Run) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stateDir, run.ID+".json"), data, 0o644); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stateDir, latestFile), data, 0o644); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// LoadLatestRun reads the most recent run record. Returns nil, nil when no
// run has been recorded yet.
func LoadLatestRun(stateDir string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(stateDir, latestFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse run record: %w", err)
	}
	return &run, nil
}
