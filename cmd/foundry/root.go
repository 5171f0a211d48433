package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"foundry/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	quiet      bool
	logLevel   string
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "foundry",
	Short: "Staged model-delivery pipeline: prep, train, evaluate, register",
	Long: "Foundry runs a fixed model-delivery workflow over a directory layout:\n" +
		"split the raw dataset, train a classifier, evaluate it against the last\n" +
		"registered version, and register it when it wins.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: setupLogging,
	SilenceUsage:      true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.configPath, "config", "c", "", "Path to the pipeline settings file (YAML or JSON)")
	pf.BoolVarP(&rootFlags.quiet, "quiet", "q", false, "Suppress informational logging")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(prepCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(artifactsCmd)
	rootCmd.Version = version
}

func setupLogging(_ *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(rootFlags.logLevel)
	if err != nil {
		return err
	}
	if !logging.ValidFormat(rootFlags.logFormat) {
		return fmt.Errorf("invalid log-format %q (want text or json)", rootFlags.logFormat)
	}
	if rootFlags.quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logging.Init(level, rootFlags.logFormat)
	return nil
}
