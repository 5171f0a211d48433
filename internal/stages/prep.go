// Package stages holds the four concrete workflow stages. Each one reads
// its designated directory roles, runs its transform, and rewrites its
// output location from scratch, so a rerun always starts clean.
package stages

import (
	"context"
	"path/filepath"
	"time"

	"foundry/internal/dataset"
	"foundry/internal/pipeline"
	"foundry/internal/workspace"
)

// Prep splits the raw dataset into train and test files.
type Prep struct{}

// Name implements pipeline.Stage.
func (Prep) Name() pipeline.StageName { return pipeline.StagePrep }

// Run implements pipeline.Stage.
func (Prep) Run(_ context.Context, env *pipeline.Env) (*pipeline.Result, error) {
	started := time.Now().UTC()
	cfg := env.Settings

	inputPath := filepath.Join(env.Layout.InputDir, cfg.Data.DataFile)
	frame, err := dataset.LoadCSV(inputPath, cfg.Data.LabelColumn)
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StagePrep, Err: err}
	}

	if err := workspace.ClearDir(env.Layout.OutputDir); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StagePrep, Err: err}
	}

	train, test := dataset.Split(frame, cfg.Data.SplitRatio, cfg.Data.Seed)
	if err := train.SaveCSV(filepath.Join(env.Layout.OutputDir, cfg.Data.TrainFile)); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StagePrep, Err: err}
	}
	if err := test.SaveCSV(filepath.Join(env.Layout.OutputDir, cfg.Data.TestFile)); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StagePrep, Err: err}
	}

	env.Log.Info("data split written",
		"samples", frame.Len(), "train", train.Len(), "test", test.Len(), "seed", cfg.Data.Seed)

	return &pipeline.Result{
		Stage:     pipeline.StagePrep,
		Status:    pipeline.StatusSucceeded,
		OutputDir: env.Layout.OutputDir,
		Metrics: map[string]float64{
			"num_samples":       float64(frame.Len()),
			"num_features":      float64(frame.NumFeatures()),
			"num_train_samples": float64(train.Len()),
			"num_test_samples":  float64(test.Len()),
		},
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}, nil
}
