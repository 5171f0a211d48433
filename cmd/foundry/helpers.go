package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"foundry/adapters/registry"
	"foundry/internal/config"
	"foundry/internal/format"
	"foundry/internal/logging"
	"foundry/internal/pipeline"
	"foundry/internal/workspace"
)

// loadSettings reads the --config file. Every command needs one.
func loadSettings() (*config.Settings, error) {
	if rootFlags.configPath == "" {
		return nil, errors.New("a settings file is required (--config)")
	}
	return config.Load(rootFlags.configPath)
}

// openRegistry opens (or creates) the registry database inside dir.
func openRegistry(dir string) (registry.Store, error) {
	return registry.Open(filepath.Join(dir, registry.DefaultDBFile))
}

// newEnv assembles a stage environment for a single-stage invocation.
// Runner-driven runs overwrite RunID with the run's own ID.
func newEnv(cfg *config.Settings, layout *workspace.Layout, reg registry.Store, component string) *pipeline.Env {
	return &pipeline.Env{
		Settings: cfg,
		Layout:   layout,
		Registry: reg,
		Log:      logging.New(component),
		RunID:    uuid.NewString(),
	}
}

// printStageResult writes a one-stage summary with its metrics, sorted by
// name for stable output.
func printStageResult(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "Stage:   %s\n", res.Stage)
	fmt.Fprintf(w, "Status:  %s\n", res.Status)
	if res.OutputDir != "" {
		fmt.Fprintf(w, "Output:  %s\n", res.OutputDir)
	}
	if len(res.Metrics) > 0 {
		names := make([]string, 0, len(res.Metrics))
		for name := range res.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "Metrics:\n")
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %g\n", name, res.Metrics[name])
		}
	}
}

// renderRun renders the per-stage status table for a run record.
func renderRun(run *pipeline.Run) string {
	tb := format.NewTable(format.ASCII)
	tb.Header("STAGE", "STATUS", "DURATION", "DETAIL")
	for _, res := range run.Stages {
		duration := ""
		if res.Status == pipeline.StatusSucceeded || res.Status == pipeline.StatusFailed {
			duration = format.FmtDuration(res.Duration())
		}
		detail := stageDetail(res)
		tb.Row(string(res.Stage), string(res.Status), duration, detail)
	}
	tb.Footer("run", string(run.Status), "", format.Truncate(run.ID, 13))
	return tb.String()
}

// stageDetail picks the most telling metric for the status table.
func stageDetail(res *pipeline.Result) string {
	switch {
	case res.Error != "":
		return format.Truncate(res.Error, 48)
	case res.Stage == pipeline.StagePrep && res.Metrics != nil:
		return fmt.Sprintf("train=%s test=%s",
			format.FmtCount(int(res.Metrics["num_train_samples"])),
			format.FmtCount(int(res.Metrics["num_test_samples"])))
	case res.Stage == pipeline.StageTrain && res.Metrics != nil:
		return fmt.Sprintf("train_accuracy=%s", format.FmtMetric(res.Metrics["train_accuracy"]))
	case res.Stage == pipeline.StageEvaluate && res.Metrics != nil:
		return fmt.Sprintf("weighted_f1=%s", format.FmtMetric(res.Metrics["weighted_f1"]))
	case res.Stage == pipeline.StageRegister && res.Metrics != nil:
		if res.Metrics["registered"] == 1 {
			return fmt.Sprintf("registered v%d", int(res.Metrics["version"]))
		}
		return "skipped: not better than last"
	}
	return ""
}
