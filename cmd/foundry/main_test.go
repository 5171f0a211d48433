package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cliConfig = `
data:
  data_file: credit.csv
  train_file: train.csv
  test_file: test.csv
  split_ratio: 0.8
model:
  type: gradient_boosting
  file: model.json
  name: credit-default
train:
  n_estimators: 10
  learning_rate: 0.3
`

// writeFixture lays out a workspace with a config file and a 100-row
// separable input dataset, and returns the workspace root and config path.
func writeFixture(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()

	configPath := filepath.Join(root, "modelling.yaml")
	if err := os.WriteFile(configPath, []byte(cliConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	inputDir := filepath.Join(root, "data", "input")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	b.WriteString("feature_1,feature_2,label\n")
	for i := 0; i < 100; i++ {
		label := 0
		if i >= 50 {
			label = 1
		}
		fmt.Fprintf(&b, "%d,%d,%d\n", i, i%5, label)
	}
	if err := os.WriteFile(filepath.Join(inputDir, "credit.csv"), []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, configPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_PrepCommand(t *testing.T) {
	root, configPath := writeFixture(t)
	outputDir := filepath.Join(root, "data", "output")

	out, err := execute(t,
		"prep",
		"--config", configPath,
		"--input-dir", filepath.Join(root, "data", "input"),
		"--output-dir", outputDir,
		"--quiet",
	)
	if err != nil {
		t.Fatalf("prep: %v\n%s", err, out)
	}

	if !strings.Contains(out, "num_train_samples: 80") {
		t.Errorf("expected split summary in output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "train.csv")); err != nil {
		t.Errorf("train.csv missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "test.csv")); err != nil {
		t.Errorf("test.csv missing: %v", err)
	}
}

func TestCLI_RunAndStatus(t *testing.T) {
	root, configPath := writeFixture(t)

	out, err := execute(t,
		"run",
		"--config", configPath,
		"--workspace", root,
		"--quiet",
	)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	for _, want := range []string{"prep", "train", "evaluate", "register", "succeeded"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in run output:\n%s", want, out)
		}
	}

	out, err = execute(t, "status", "--workspace", root, "--quiet")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Status:   succeeded") {
		t.Errorf("expected succeeded status:\n%s", out)
	}

	out, err = execute(t,
		"artifacts",
		"--registry-dir", filepath.Join(root, "registry"),
		"--quiet",
	)
	if err != nil {
		t.Fatalf("artifacts: %v\n%s", err, out)
	}
	if !strings.Contains(out, "credit-default") || !strings.Contains(out, "v1") {
		t.Errorf("expected registered v1 in listing:\n%s", out)
	}
}

func TestCLI_MissingConfigFails(t *testing.T) {
	rootFlags.configPath = ""
	out, err := execute(t, "prep", "--input-dir", t.TempDir(), "--output-dir", t.TempDir())
	if err == nil {
		t.Fatalf("expected error without --config:\n%s", out)
	}
}
