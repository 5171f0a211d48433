package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"foundry/internal/pipeline"
	"foundry/internal/stages"
	"foundry/internal/workspace"
)

var runFlags struct {
	workspaceDir string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline over a workspace",
	Long: "Run executes prep, train, evaluate and register in order over the\n" +
		"standard workspace layout (data/input, data/output, models, eval,\n" +
		"registry) and records the run under .foundry/runs.",
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.workspaceDir, "workspace", "w", "", "Workspace root directory (required)")

	_ = runCmd.MarkFlagRequired("workspace")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	layout := workspace.DefaultLayout(runFlags.workspaceDir)
	if err := layout.Ensure(); err != nil {
		return err
	}
	reg, err := openRegistry(layout.RegistryDir)
	if err != nil {
		return err
	}
	defer reg.Close()

	env := newEnv(cfg, layout, reg, "run")
	runner := pipeline.NewRunner(stages.Prep{}, stages.Train{}, stages.Evaluate{}, stages.Register{})
	run := runner.Run(cmd.Context(), env)

	if err := pipeline.SaveRun(layout.StateDir, run); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderRun(run))
	if run.Status == pipeline.RunFailed {
		return run.Err()
	}
	return nil
}
