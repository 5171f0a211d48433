// Package metrics computes the evaluation report for a binary classifier:
// accuracy, per-class precision/recall/F1, macro and weighted averages,
// and the confusion matrix. The weighted F1 drives the better-than-last
// registration gate.
package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"foundry/internal/format"
)

// ClassMetrics is one row of the classification report.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// Report summarizes one model's performance on one test set.
type Report struct {
	ModelName    string                  `json:"model_name,omitempty"`
	ModelVersion int                     `json:"model_version,omitempty"`
	Accuracy     float64                 `json:"accuracy"`
	Classes      map[string]ClassMetrics `json:"classes"`
	MacroAvg     ClassMetrics            `json:"macro avg"`
	WeightedAvg  ClassMetrics            `json:"weighted avg"`
}

// Classification builds a report from true and predicted 0/1 labels.
func Classification(yTrue, yPred []float64) (*Report, error) {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("classification: need equal, non-zero label counts (got %d true, %d predicted)", len(yTrue), len(yPred))
	}

	// tp[c], fp[c], fn[c] per class label.
	counts := map[float64]*struct{ tp, fp, fn, support int }{}
	classFor := func(label float64) *struct{ tp, fp, fn, support int } {
		c, ok := counts[label]
		if !ok {
			c = &struct{ tp, fp, fn, support int }{}
			counts[label] = c
		}
		return c
	}

	correct := 0
	for i := range yTrue {
		actual, predicted := yTrue[i], yPred[i]
		classFor(actual).support++
		if actual == predicted {
			classFor(actual).tp++
			correct++
		} else {
			classFor(actual).fn++
			classFor(predicted).fp++
		}
	}

	report := &Report{
		Accuracy: float64(correct) / float64(len(yTrue)),
		Classes:  make(map[string]ClassMetrics, len(counts)),
	}

	labels := make([]float64, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	total := len(yTrue)
	for _, label := range labels {
		c := counts[label]
		m := ClassMetrics{
			Precision: safeDiv(c.tp, c.tp+c.fp),
			Recall:    safeDiv(c.tp, c.tp+c.fn),
			Support:   c.support,
		}
		m.F1 = f1(m.Precision, m.Recall)
		report.Classes[fmt.Sprintf("%g", label)] = m

		report.MacroAvg.Precision += m.Precision / float64(len(labels))
		report.MacroAvg.Recall += m.Recall / float64(len(labels))
		report.MacroAvg.F1 += m.F1 / float64(len(labels))
		report.MacroAvg.Support += c.support

		w := float64(c.support) / float64(total)
		report.WeightedAvg.Precision += w * m.Precision
		report.WeightedAvg.Recall += w * m.Recall
		report.WeightedAvg.F1 += w * m.F1
		report.WeightedAvg.Support += c.support
	}
	return report, nil
}

// ConfusionMatrix returns counts[actual][predicted] for binary 0/1 labels.
func ConfusionMatrix(yTrue, yPred []float64) [2][2]int {
	var cm [2][2]int
	for i := range yTrue {
		actual, predicted := 0, 0
		if yTrue[i] >= 0.5 {
			actual = 1
		}
		if yPred[i] >= 0.5 {
			predicted = 1
		}
		cm[actual][predicted]++
	}
	return cm
}

// RenderConfusion renders the matrix as a fixed-width table, the pipeline's
// stand-in for a confusion matrix plot.
func RenderConfusion(cm [2][2]int) string {
	tb := format.NewTable(format.ASCII)
	tb.Header("", "predicted 0", "predicted 1")
	tb.Row("actual 0", cm[0][0], cm[0][1])
	tb.Row("actual 1", cm[1][0], cm[1][1])
	tb.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
	)
	return tb.String()
}

// Save writes the report as indented JSON at path.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// LoadReport reads a report written by Save.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	if r.Classes == nil {
		return nil, errors.New("parse report: no class metrics")
	}
	return &r, nil
}

func safeDiv(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
