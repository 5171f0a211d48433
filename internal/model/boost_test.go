package model

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// separable returns a two-feature dataset where label = 1 iff feature 0 > 0.
func separable() ([][]float64, []float64) {
	var x [][]float64
	var y []float64
	for i := -10; i < 10; i++ {
		if i == 0 {
			continue
		}
		x = append(x, []float64{float64(i), float64(i % 3)})
		if i > 0 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	return x, y
}

func TestFit_Separable(t *testing.T) {
	x, y := separable()
	b, err := Fit(x, y, 20, 0.5)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if b.Type != TypeGradientBoosting {
		t.Errorf("type: got %q", b.Type)
	}
	if len(b.Stumps) == 0 {
		t.Fatal("expected at least one stump")
	}

	for i, row := range x {
		if got := b.Predict(row); got != y[i] {
			t.Errorf("sample %v: predicted %v, want %v", row, got, y[i])
		}
	}
}

func TestFit_Deterministic(t *testing.T) {
	x, y := separable()
	b1, err := Fit(x, y, 10, 0.1)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	b2, err := Fit(x, y, 10, 0.1)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if diff := cmp.Diff(b1, b2); diff != "" {
		t.Errorf("same inputs must give the same model:\n%s", diff)
	}
}

func TestFit_ConstantFeatures(t *testing.T) {
	x := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	y := []float64{0, 1, 0}
	b, err := Fit(x, y, 5, 0.1)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	// Nothing to split on: the model is bias-only and predicts the majority class.
	if len(b.Stumps) != 0 {
		t.Errorf("expected no stumps, got %d", len(b.Stumps))
	}
	if got := b.Predict([]float64{1, 1}); got != 0 {
		t.Errorf("majority prediction: got %v", got)
	}
}

func TestFit_Errors(t *testing.T) {
	if _, err := Fit(nil, nil, 5, 0.1); err == nil {
		t.Error("expected error for empty dataset")
	}
	if _, err := Fit([][]float64{{1}}, []float64{0, 1}, 5, 0.1); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := Fit([][]float64{{1, 2}, {1}}, []float64{0, 1}, 5, 0.1); err == nil {
		t.Error("expected error for ragged matrix")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	x, y := separable()
	b, err := Fit(x, y, 10, 0.3)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	b.Features = []string{"feature_1", "feature_2"}

	path := filepath.Join(t.TempDir(), "model.json")
	if err := b.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}

	want := b.PredictAll(x)
	have := got.PredictAll(x)
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("loaded model predicts differently:\n%s", diff)
	}
}

func TestLoad_RejectsWrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	b := &Booster{Type: "random_forest"}
	if err := b.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected type error")
	}
}
