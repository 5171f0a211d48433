// Package model implements the gradient-boosted-stumps binary classifier
// the train stage fits and the evaluate stage scores.
//
// The booster is additive logistic regression: a log-odds bias plus
// n_estimators depth-1 trees, each fit to the current pseudo-residuals by
// exhaustive least-squares search over feature thresholds. Training is
// fully deterministic for a fixed dataset and hyperparameters.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
)

// TypeGradientBoosting tags the serialized model format.
const TypeGradientBoosting = "gradient_boosting"

// Stump is a single-split decision tree on one feature.
type Stump struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      float64 `json:"left"`  // additive value when x[feature] < threshold
	Right     float64 `json:"right"` // additive value when x[feature] >= threshold
}

func (s Stump) value(x []float64) float64 {
	if x[s.Feature] < s.Threshold {
		return s.Left
	}
	return s.Right
}

// Booster is a trained ensemble.
type Booster struct {
	Type         string   `json:"type"`
	Bias         float64  `json:"bias"`
	LearningRate float64  `json:"learning_rate"`
	Stumps       []Stump  `json:"stumps"`
	Features     []string `json:"features,omitempty"`
}

// Fit trains a booster on 0/1 labels. nEstimators stumps are added, each
// scaled by learningRate.
func Fit(x [][]float64, y []float64, nEstimators int, learningRate float64) (*Booster, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("fit: need equal, non-zero sample counts (got %d features rows, %d labels)", len(x), len(y))
	}
	numFeatures := len(x[0])
	if numFeatures == 0 {
		return nil, errors.New("fit: no feature columns")
	}
	for _, row := range x {
		if len(row) != numFeatures {
			return nil, errors.New("fit: ragged feature matrix")
		}
	}

	b := &Booster{
		Type:         TypeGradientBoosting,
		Bias:         logOdds(mean(y)),
		LearningRate: learningRate,
	}

	scores := make([]float64, len(y))
	for i := range scores {
		scores[i] = b.Bias
	}

	residuals := make([]float64, len(y))
	for iter := 0; iter < nEstimators; iter++ {
		for i := range y {
			residuals[i] = y[i] - sigmoid(scores[i])
		}
		stump, ok := bestStump(x, residuals, numFeatures)
		if !ok {
			break // every feature is constant; nothing left to split on
		}
		b.Stumps = append(b.Stumps, stump)
		for i, row := range x {
			scores[i] += learningRate * stump.value(row)
		}
	}
	return b, nil
}

// bestStump finds the least-squares stump over all features and candidate
// thresholds (midpoints between adjacent distinct values).
func bestStump(x [][]float64, residuals []float64, numFeatures int) (Stump, bool) {
	n := len(x)
	best := Stump{}
	bestSSE := math.Inf(1)
	found := false

	vals := make([]float64, n)
	order := make([]int, n)
	for feature := 0; feature < numFeatures; feature++ {
		for i, row := range x {
			vals[i] = row[feature]
			order[i] = i
		}
		sort.Slice(order, func(a, c int) bool { return vals[order[a]] < vals[order[c]] })

		// Prefix sums over residuals in sorted-value order let each
		// threshold be scored in O(1).
		prefixSum := make([]float64, n+1)
		prefixSq := make([]float64, n+1)
		for i, idx := range order {
			r := residuals[idx]
			prefixSum[i+1] = prefixSum[i] + r
			prefixSq[i+1] = prefixSq[i] + r*r
		}

		for i := 1; i < n; i++ {
			lo, hi := vals[order[i-1]], vals[order[i]]
			if lo == hi {
				continue
			}
			threshold := (lo + hi) / 2
			leftN, rightN := float64(i), float64(n-i)
			leftSum := prefixSum[i]
			rightSum := prefixSum[n] - leftSum
			leftMean := leftSum / leftN
			rightMean := rightSum / rightN
			// SSE = sum(r^2) - n_left*mean_left^2 - n_right*mean_right^2
			sse := prefixSq[n] - leftN*leftMean*leftMean - rightN*rightMean*rightMean
			if sse < bestSSE {
				bestSSE = sse
				best = Stump{Feature: feature, Threshold: threshold, Left: leftMean, Right: rightMean}
				found = true
			}
		}
	}
	return best, found
}

// Score returns the raw additive score for one sample.
func (b *Booster) Score(x []float64) float64 {
	score := b.Bias
	for _, s := range b.Stumps {
		score += b.LearningRate * s.value(x)
	}
	return score
}

// PredictProba returns P(label=1) for one sample.
func (b *Booster) PredictProba(x []float64) float64 {
	return sigmoid(b.Score(x))
}

// Predict returns the 0/1 label for one sample.
func (b *Booster) Predict(x []float64) float64 {
	if b.PredictProba(x) >= 0.5 {
		return 1
	}
	return 0
}

// PredictAll returns 0/1 labels for every row of x.
func (b *Booster) PredictAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = b.Predict(row)
	}
	return out
}

// Save writes the model as JSON at path.
func (b *Booster) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// Load reads a model from path and verifies its type tag.
func Load(path string) (*Booster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	var b Booster
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if b.Type != TypeGradientBoosting {
		return nil, fmt.Errorf("parse model %s: unsupported type %q", path, b.Type)
	}
	return &b, nil
}

func mean(y []float64) float64 {
	var sum float64
	for _, v := range y {
		sum += v
	}
	return sum / float64(len(y))
}

// logOdds clamps p away from 0 and 1 so the bias stays finite even for
// single-class training sets.
func logOdds(p float64) float64 {
	const eps = 1e-6
	p = math.Min(math.Max(p, eps), 1-eps)
	return math.Log(p / (1 - p))
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
