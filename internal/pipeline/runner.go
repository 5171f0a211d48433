package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Runner drives the stages of one run, strictly sequentially.
type Runner struct {
	stages []Stage
}

// NewRunner returns a Runner over the given stages, executed in the order
// given.
func NewRunner(stages ...Stage) *Runner {
	return &Runner{stages: stages}
}

// Run executes every stage until the first failure. The failed stage's
// Result carries the error message; all later stages are recorded as
// Skipped and the run finishes Failed. Err on the returned Run yields the
// wrapped *StageError.
func (r *Runner) Run(ctx context.Context, env *Env) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
	}
	env.RunID = run.ID

	failedAt := -1
	for i, stage := range r.stages {
		if env.Log != nil {
			env.Log.Info("stage dispatched", "stage", string(stage.Name()), "run_id", run.ID)
		}
		started := time.Now().UTC()
		res, err := stage.Run(ctx, env)
		if err != nil {
			var serr *StageError
			if !errors.As(err, &serr) {
				err = &StageError{Stage: stage.Name(), Err: err}
			}
			run.Stages = append(run.Stages, &Result{
				Stage:      stage.Name(),
				Status:     StatusFailed,
				Error:      err.Error(),
				StartedAt:  started,
				FinishedAt: time.Now().UTC(),
			})
			if env.Log != nil {
				env.Log.Error("stage failed", "stage", string(stage.Name()), "error", err)
			}
			failedAt = i
			run.err = err
			break
		}
		res.Status = StatusSucceeded
		run.Stages = append(run.Stages, res)
		if env.Log != nil {
			env.Log.Info("stage succeeded", "stage", string(stage.Name()), "duration", res.Duration().String())
		}
	}

	if failedAt >= 0 {
		for _, stage := range r.stages[failedAt+1:] {
			run.Stages = append(run.Stages, &Result{Stage: stage.Name(), Status: StatusSkipped})
		}
		run.Status = RunFailed
	} else {
		run.Status = RunSucceeded
	}
	run.FinishedAt = time.Now().UTC()
	return run
}
