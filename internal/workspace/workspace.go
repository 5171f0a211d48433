// Package workspace fixes the directory roles of a pipeline run.
//
// Each stage reads from and writes to designated roles only: prep consumes
// the input dir and owns the output dir, train owns the model dir, evaluate
// owns the eval dir, register owns the registry dir. Handoff between stages
// is by directory: the producer writes and relinquishes, the consumer
// reads only.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout names the directories one run works with. Zero-value fields are
// legal for single-stage invocations that do not touch the missing roles.
type Layout struct {
	Root        string // workspace root ("" when dirs are given individually)
	InputDir    string // raw input dataset
	OutputDir   string // processed train/test files
	ModelDir    string // trained model artifact
	EvalDir     string // evaluation reports and the better-than-last flag
	RegistryDir string // registered model copies and the registry DB
	StateDir    string // persisted run records
}

// DefaultLayout returns the standard layout rooted at root.
func DefaultLayout(root string) *Layout {
	return &Layout{
		Root:        root,
		InputDir:    filepath.Join(root, "data", "input"),
		OutputDir:   filepath.Join(root, "data", "output"),
		ModelDir:    filepath.Join(root, "models"),
		EvalDir:     filepath.Join(root, "eval"),
		RegistryDir: filepath.Join(root, "registry"),
		StateDir:    filepath.Join(root, ".foundry", "runs"),
	}
}

// Ensure creates every non-empty directory of the layout.
func (l *Layout) Ensure() error {
	for _, dir := range []string{l.InputDir, l.OutputDir, l.ModelDir, l.EvalDir, l.RegistryDir, l.StateDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure %s: %w", dir, err)
		}
	}
	return nil
}

// ClearDir makes dir exist and contain no regular files, so a rerun starts
// from a clean slate. Subdirectories are left in place.
func ClearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("clear %s: %w", dir, err)
		}
	}
	return nil
}
