package stages

import (
	"context"
	"path/filepath"
	"time"

	"foundry/internal/dataset"
	"foundry/internal/model"
	"foundry/internal/pipeline"
	"foundry/internal/workspace"
)

// Train fits the classifier on the prepared training set and writes the
// model artifact.
type Train struct{}

// Name implements pipeline.Stage.
func (Train) Name() pipeline.StageName { return pipeline.StageTrain }

// Run implements pipeline.Stage.
func (Train) Run(_ context.Context, env *pipeline.Env) (*pipeline.Result, error) {
	started := time.Now().UTC()
	cfg := env.Settings

	trainPath := filepath.Join(env.Layout.OutputDir, cfg.Data.TrainFile)
	frame, err := dataset.LoadCSV(trainPath, cfg.Data.LabelColumn)
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageTrain, Err: err}
	}

	env.Log.Info("fitting model",
		"samples", frame.Len(), "features", frame.NumFeatures(),
		"n_estimators", cfg.Train.NEstimators, "learning_rate", cfg.Train.LearningRate)

	booster, err := model.Fit(frame.X, frame.Y, cfg.Train.NEstimators, cfg.Train.LearningRate)
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageTrain, Err: err}
	}
	booster.Features = frame.Columns

	if err := workspace.ClearDir(env.Layout.ModelDir); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageTrain, Err: err}
	}
	modelPath := filepath.Join(env.Layout.ModelDir, cfg.Model.File)
	if err := booster.Save(modelPath); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageTrain, Err: err}
	}
	env.Log.Info("model saved", "path", modelPath, "stumps", len(booster.Stumps))

	correct := 0
	for i, row := range frame.X {
		if booster.Predict(row) == frame.Y[i] {
			correct++
		}
	}

	return &pipeline.Result{
		Stage:     pipeline.StageTrain,
		Status:    pipeline.StatusSucceeded,
		OutputDir: env.Layout.ModelDir,
		Metrics: map[string]float64{
			"train_accuracy": float64(correct) / float64(frame.Len()),
			"n_estimators":   float64(len(booster.Stumps)),
		},
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}, nil
}
