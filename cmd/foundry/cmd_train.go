package main

import (
	"github.com/spf13/cobra"

	"foundry/internal/stages"
	"foundry/internal/workspace"
)

var trainFlags struct {
	dataDir  string
	modelDir string
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the classifier on the prepared training set",
	RunE:  runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.StringVar(&trainFlags.dataDir, "data-dir", "", "Prepared data directory (required)")
	f.StringVar(&trainFlags.modelDir, "model-dir", "", "Model output directory (required)")

	_ = trainCmd.MarkFlagRequired("data-dir")
	_ = trainCmd.MarkFlagRequired("model-dir")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	layout := &workspace.Layout{
		OutputDir: trainFlags.dataDir,
		ModelDir:  trainFlags.modelDir,
	}
	env := newEnv(cfg, layout, nil, "train")

	res, err := (stages.Train{}).Run(cmd.Context(), env)
	if err != nil {
		return err
	}
	printStageResult(cmd.OutOrStdout(), res)
	return nil
}
