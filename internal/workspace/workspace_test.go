package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout("/ws")
	if l.InputDir != filepath.Join("/ws", "data", "input") {
		t.Errorf("InputDir: got %q", l.InputDir)
	}
	if l.RegistryDir != filepath.Join("/ws", "registry") {
		t.Errorf("RegistryDir: got %q", l.RegistryDir)
	}
	if l.StateDir != filepath.Join("/ws", ".foundry", "runs") {
		t.Errorf("StateDir: got %q", l.StateDir)
	}
}

func TestEnsure(t *testing.T) {
	l := DefaultLayout(t.TempDir())
	if err := l.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	for _, dir := range []string{l.InputDir, l.OutputDir, l.ModelDir, l.EvalDir, l.RegistryDir, l.StateDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s: %v", dir, err)
		}
	}
}

func TestEnsure_SkipsEmptyRoles(t *testing.T) {
	l := &Layout{InputDir: filepath.Join(t.TempDir(), "in")}
	if err := l.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stale.csv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "keep"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := ClearDir(dir); err != nil {
		t.Fatalf("ClearDir: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "stale.csv")); !os.IsNotExist(err) {
		t.Error("stale file should be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "keep")); err != nil {
		t.Error("subdirectory should survive")
	}
}

func TestClearDir_CreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	if err := ClearDir(dir); err != nil {
		t.Fatalf("ClearDir: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected created directory: %v", err)
	}
}
