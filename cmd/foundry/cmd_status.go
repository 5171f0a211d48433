package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"foundry/internal/pipeline"
)

var statusFlags struct {
	workspaceDir string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest run for a workspace",
	RunE:  runStatus,
}

func init() {
	f := statusCmd.Flags()
	f.StringVarP(&statusFlags.workspaceDir, "workspace", "w", "", "Workspace root directory (required)")

	_ = statusCmd.MarkFlagRequired("workspace")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	stateDir := filepath.Join(statusFlags.workspaceDir, ".foundry", "runs")
	run, err := pipeline.LoadLatestRun(stateDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if run == nil {
		fmt.Fprintf(out, "No runs recorded in %s\n", statusFlags.workspaceDir)
		fmt.Fprintf(out, "Start one with 'foundry run --workspace %s --config <file>'.\n", statusFlags.workspaceDir)
		return nil
	}

	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Status:   %s\n", run.Status)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(out, renderRun(run))
	return nil
}
