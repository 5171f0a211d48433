// Package pipeline sequences the fixed stage workflow: prep, train,
// evaluate, register. Stages run one at a time in dependency order; the
// first failure ends the run and every later stage is skipped. There are
// no retries at this layer.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"foundry/adapters/registry"
	"foundry/internal/config"
	"foundry/internal/workspace"
)

// StageName identifies one step of the workflow.
type StageName string

const (
	StagePrep     StageName = "prep"
	StageTrain    StageName = "train"
	StageEvaluate StageName = "evaluate"
	StageRegister StageName = "register"
)

// Order returns the fixed execution order.
func Order() []StageName {
	return []StageName{StagePrep, StageTrain, StageEvaluate, StageRegister}
}

// Status of a single stage within a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Env carries everything a stage needs: the immutable settings, the
// directory layout, the artifact registry, and a logger. Stages read it,
// never write it; the one exception is RunID, which the Runner stamps
// before dispatching.
type Env struct {
	Settings *config.Settings
	Layout   *workspace.Layout
	Registry registry.Store
	Log      *slog.Logger
	RunID    string
}

// Result records the outcome of one stage execution. Never mutated after
// creation.
type Result struct {
	Stage      StageName          `json:"stage"`
	Status     Status             `json:"status"`
	OutputDir  string             `json:"output_dir,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Error      string             `json:"error,omitempty"`
	StartedAt  time.Time          `json:"started_at,omitzero"`
	FinishedAt time.Time          `json:"finished_at,omitzero"`
}

// Duration returns the stage wall time.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Stage is one executable step of the workflow.
type Stage interface {
	Name() StageName
	// Run executes the stage's transform against the layout and settings
	// in env. A nil error means the returned Result has StatusSucceeded.
	Run(ctx context.Context, env *Env) (*Result, error)
}

// StageError wraps the underlying cause of a stage failure.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
