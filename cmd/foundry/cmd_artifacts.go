package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"foundry/adapters/registry"
	"foundry/internal/format"
)

var artifactsFlags struct {
	registryDir string
	model       string
	latest      bool
}

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List registered model versions",
	RunE:  runArtifacts,
}

func init() {
	f := artifactsCmd.Flags()
	f.StringVar(&artifactsFlags.registryDir, "registry-dir", "", "Model registry directory (required)")
	f.StringVar(&artifactsFlags.model, "model", "", "Restrict to one model name")
	f.BoolVar(&artifactsFlags.latest, "latest", false, "Show only the most recent record")

	_ = artifactsCmd.MarkFlagRequired("registry-dir")
}

func runArtifacts(cmd *cobra.Command, _ []string) error {
	reg, err := openRegistry(artifactsFlags.registryDir)
	if err != nil {
		return err
	}
	defer reg.Close()

	var recs []*registry.ArtifactRecord
	if artifactsFlags.latest {
		if artifactsFlags.model == "" {
			return errors.New("--latest requires --model")
		}
		rec, err := reg.Latest(artifactsFlags.model)
		if errors.Is(err, registry.ErrEmpty) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registry is empty.")
			return nil
		}
		if err != nil {
			return err
		}
		recs = []*registry.ArtifactRecord{rec}
	} else {
		recs, err = reg.List(artifactsFlags.model)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Registry is empty.")
			return nil
		}
	}

	tb := format.NewTable(format.ASCII)
	tb.Header("MODEL", "VERSION", "WEIGHTED F1", "CREATED", "PATH")
	for _, rec := range recs {
		tb.Row(
			rec.Name,
			fmt.Sprintf("v%d", rec.Version),
			format.FmtMetric(rec.Metrics["weighted_f1"]),
			rec.CreatedAt.Format("2006-01-02 15:04"),
			format.Truncate(rec.Path, 56),
		)
	}
	tb.Columns(format.ColumnConfig{Number: 3, Align: format.AlignRight})
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
	return nil
}
