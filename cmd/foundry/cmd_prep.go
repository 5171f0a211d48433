package main

import (
	"github.com/spf13/cobra"

	"foundry/internal/stages"
	"foundry/internal/workspace"
)

var prepFlags struct {
	inputDir  string
	outputDir string
}

var prepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Split the raw dataset into train and test sets",
	RunE:  runPrep,
}

func init() {
	f := prepCmd.Flags()
	f.StringVar(&prepFlags.inputDir, "input-dir", "", "Input data directory (required)")
	f.StringVar(&prepFlags.outputDir, "output-dir", "", "Output data directory (required)")

	_ = prepCmd.MarkFlagRequired("input-dir")
	_ = prepCmd.MarkFlagRequired("output-dir")
}

func runPrep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	layout := &workspace.Layout{
		InputDir:  prepFlags.inputDir,
		OutputDir: prepFlags.outputDir,
	}
	env := newEnv(cfg, layout, nil, "prep")

	res, err := (stages.Prep{}).Run(cmd.Context(), env)
	if err != nil {
		return err
	}
	printStageResult(cmd.OutOrStdout(), res)
	return nil
}
