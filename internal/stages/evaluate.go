package stages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"foundry/adapters/registry"
	"foundry/internal/dataset"
	"foundry/internal/metrics"
	"foundry/internal/model"
	"foundry/internal/pipeline"
	"foundry/internal/workspace"
)

// confusionFile is the rendered confusion matrix inside the eval dir.
const confusionFile = "confusion_matrix.txt"

// Evaluate scores the current model on the test set, scores the last
// registered model on the same set when one exists, and writes the
// better-than-last flag that gates registration.
type Evaluate struct{}

// Name implements pipeline.Stage.
func (Evaluate) Name() pipeline.StageName { return pipeline.StageEvaluate }

// Run implements pipeline.Stage.
func (Evaluate) Run(ctx context.Context, env *pipeline.Env) (*pipeline.Result, error) {
	started := time.Now().UTC()
	cfg := env.Settings

	testPath := filepath.Join(env.Layout.OutputDir, cfg.Data.TestFile)
	test, err := dataset.LoadCSV(testPath, cfg.Data.LabelColumn)
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageEvaluate, Err: err}
	}

	current, err := model.Load(filepath.Join(env.Layout.ModelDir, cfg.Model.File))
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageEvaluate, Err: err}
	}

	if err := workspace.ClearDir(env.Layout.EvalDir); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageEvaluate, Err: err}
	}

	lastRec, err := env.Registry.Latest(cfg.Model.Name)
	if err != nil && !errors.Is(err, registry.ErrEmpty) {
		return nil, &pipeline.StageError{Stage: pipeline.StageEvaluate, Err: err}
	}

	// The current and the last registered model are scored on the same
	// test set; the two evaluations are independent, so run them
	// concurrently. Stage order stays sequential, this is inside one stage.
	var currentReport, lastReport *metrics.Report
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := scoreModel(current, test)
		if err != nil {
			return err
		}
		if err := r.Save(filepath.Join(env.Layout.EvalDir, cfg.Eval.EvalFile)); err != nil {
			return err
		}
		cm := metrics.ConfusionMatrix(test.Y, current.PredictAll(test.X))
		if err := os.WriteFile(filepath.Join(env.Layout.EvalDir, confusionFile), []byte(metrics.RenderConfusion(cm)+"\n"), 0o644); err != nil {
			return fmt.Errorf("write confusion matrix: %w", err)
		}
		currentReport = r
		return nil
	})
	if lastRec != nil {
		g.Go(func() error {
			last, err := model.Load(lastRec.Path)
			if err != nil {
				return fmt.Errorf("load last registered model v%d: %w", lastRec.Version, err)
			}
			r, err := scoreModel(last, test)
			if err != nil {
				return err
			}
			r.ModelName = lastRec.Name
			r.ModelVersion = lastRec.Version
			if err := r.Save(filepath.Join(env.Layout.EvalDir, cfg.Eval.LastModelFile)); err != nil {
				return err
			}
			lastReport = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageEvaluate, Err: err}
	}

	betterThanLast := 0.0
	if lastReport == nil {
		betterThanLast = 1
		env.Log.Info("no registered model yet; current model is the best so far")
	} else {
		env.Log.Info("compared to last registered model",
			"current_weighted_f1", currentReport.WeightedAvg.F1,
			"last_weighted_f1", lastReport.WeightedAvg.F1,
			"last_version", lastReport.ModelVersion)
		if currentReport.WeightedAvg.F1 > lastReport.WeightedAvg.F1 {
			betterThanLast = 1
		}
	}

	flagPath := filepath.Join(env.Layout.EvalDir, cfg.Eval.BetterThanLastFile)
	if err := os.WriteFile(flagPath, []byte(fmt.Sprintf("%d", int(betterThanLast))), 0o644); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageEvaluate, Err: fmt.Errorf("write comparison flag: %w", err)}
	}

	return &pipeline.Result{
		Stage:     pipeline.StageEvaluate,
		Status:    pipeline.StatusSucceeded,
		OutputDir: env.Layout.EvalDir,
		Metrics: map[string]float64{
			"accuracy":         currentReport.Accuracy,
			"weighted_f1":      currentReport.WeightedAvg.F1,
			"better_than_last": betterThanLast,
		},
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}, nil
}

func scoreModel(m *model.Booster, test *dataset.Frame) (*metrics.Report, error) {
	return metrics.Classification(test.Y, m.PredictAll(test.X))
}
