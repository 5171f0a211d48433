package main

import (
	"github.com/spf13/cobra"

	"foundry/internal/stages"
	"foundry/internal/workspace"
)

var registerFlags struct {
	modelDir    string
	evalDir     string
	registryDir string
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the model if evaluation flagged it better than the last",
	RunE:  runRegister,
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registerFlags.modelDir, "model-dir", "", "Model directory (required)")
	f.StringVar(&registerFlags.evalDir, "eval-dir", "", "Evaluation result directory (required)")
	f.StringVar(&registerFlags.registryDir, "registry-dir", "", "Model registry directory (required)")

	_ = registerCmd.MarkFlagRequired("model-dir")
	_ = registerCmd.MarkFlagRequired("eval-dir")
	_ = registerCmd.MarkFlagRequired("registry-dir")
}

func runRegister(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	reg, err := openRegistry(registerFlags.registryDir)
	if err != nil {
		return err
	}
	defer reg.Close()

	layout := &workspace.Layout{
		ModelDir:    registerFlags.modelDir,
		EvalDir:     registerFlags.evalDir,
		RegistryDir: registerFlags.registryDir,
	}
	env := newEnv(cfg, layout, reg, "register")

	res, err := (stages.Register{}).Run(cmd.Context(), env)
	if err != nil {
		return err
	}
	printStageResult(cmd.OutOrStdout(), res)
	return nil
}
