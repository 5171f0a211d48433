package stages

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"foundry/adapters/registry"
	"foundry/internal/metrics"
	"foundry/internal/pipeline"
)

// Register appends the current model to the artifact registry when the
// evaluate stage flagged it as better than the last registered version.
// Skipping registration is a success: the gate held.
type Register struct{}

// Name implements pipeline.Stage.
func (Register) Name() pipeline.StageName { return pipeline.StageRegister }

// Run implements pipeline.Stage.
func (Register) Run(_ context.Context, env *pipeline.Env) (*pipeline.Result, error) {
	started := time.Now().UTC()
	cfg := env.Settings

	flagPath := filepath.Join(env.Layout.EvalDir, cfg.Eval.BetterThanLastFile)
	raw, err := os.ReadFile(flagPath)
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageRegister, Err: fmt.Errorf("read comparison flag: %w", err)}
	}
	better, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageRegister, Err: fmt.Errorf("parse comparison flag %q: %w", raw, err)}
	}

	if better != 1 {
		env.Log.Info("model is not better than the last; skipping registration", "model", cfg.Model.Name)
		return &pipeline.Result{
			Stage:      pipeline.StageRegister,
			Status:     pipeline.StatusSucceeded,
			OutputDir:  env.Layout.RegistryDir,
			Metrics:    map[string]float64{"registered": 0},
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
		}, nil
	}

	report, err := metrics.LoadReport(filepath.Join(env.Layout.EvalDir, cfg.Eval.EvalFile))
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageRegister, Err: err}
	}

	version, err := env.Registry.NextVersion(cfg.Model.Name)
	if err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageRegister, Err: err}
	}

	srcPath := filepath.Join(env.Layout.ModelDir, cfg.Model.File)
	destDir := filepath.Join(env.Layout.RegistryDir, cfg.Model.Name, fmt.Sprintf("v%d", version))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageRegister, Err: fmt.Errorf("prepare registry dir: %w", err)}
	}
	destPath := filepath.Join(destDir, cfg.Model.File)
	if err := copyFile(srcPath, destPath); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageRegister, Err: err}
	}

	rec := &registry.ArtifactRecord{
		Name:    cfg.Model.Name,
		Version: version,
		Path:    destPath,
		RunID:   env.RunID,
		Metrics: map[string]float64{
			"accuracy":    report.Accuracy,
			"weighted_f1": report.WeightedAvg.F1,
		},
	}
	if _, err := env.Registry.Register(rec); err != nil {
		return nil, &pipeline.StageError{Stage: pipeline.StageRegister, Err: err}
	}
	env.Log.Info("model registered", "model", cfg.Model.Name, "version", version, "path", destPath)

	return &pipeline.Result{
		Stage:     pipeline.StageRegister,
		Status:    pipeline.StatusSucceeded,
		OutputDir: env.Layout.RegistryDir,
		Metrics: map[string]float64{
			"registered": 1,
			"version":    float64(version),
		},
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy model: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("copy model: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy model: %w", err)
	}
	return out.Close()
}
