package main

import (
	"github.com/spf13/cobra"

	"foundry/internal/stages"
	"foundry/internal/workspace"
)

var evaluateFlags struct {
	dataDir     string
	modelDir    string
	evalDir     string
	registryDir string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score the model on the test set and compare it to the last registered version",
	RunE:  runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVar(&evaluateFlags.dataDir, "data-dir", "", "Prepared data directory (required)")
	f.StringVar(&evaluateFlags.modelDir, "model-dir", "", "Model directory (required)")
	f.StringVar(&evaluateFlags.evalDir, "eval-dir", "", "Evaluation output directory (required)")
	f.StringVar(&evaluateFlags.registryDir, "registry-dir", "", "Model registry directory (required)")

	_ = evaluateCmd.MarkFlagRequired("data-dir")
	_ = evaluateCmd.MarkFlagRequired("model-dir")
	_ = evaluateCmd.MarkFlagRequired("eval-dir")
	_ = evaluateCmd.MarkFlagRequired("registry-dir")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	reg, err := openRegistry(evaluateFlags.registryDir)
	if err != nil {
		return err
	}
	defer reg.Close()

	layout := &workspace.Layout{
		OutputDir:   evaluateFlags.dataDir,
		ModelDir:    evaluateFlags.modelDir,
		EvalDir:     evaluateFlags.evalDir,
		RegistryDir: evaluateFlags.registryDir,
	}
	env := newEnv(cfg, layout, reg, "evaluate")

	res, err := (stages.Evaluate{}).Run(cmd.Context(), env)
	if err != nil {
		return err
	}
	printStageResult(cmd.OutOrStdout(), res)
	return nil
}
