// Package config loads and validates the pipeline settings file.
//
// Settings are read once at startup, validated, and treated as immutable
// for the rest of the run: stages receive the loaded value and never
// write to it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ModelTypeGradientBoosting is the only model type the train stage supports.
const ModelTypeGradientBoosting = "gradient_boosting"

// Error describes a rejected settings file. Key is empty for file-level
// problems (unreadable, unparsable).
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// DataSettings names the dataset files and the train/test split.
type DataSettings struct {
	DataFile    string  `yaml:"data_file" json:"data_file"`
	TrainFile   string  `yaml:"train_file" json:"train_file"`
	TestFile    string  `yaml:"test_file" json:"test_file"`
	LabelColumn string  `yaml:"label_column" json:"label_column"`
	SplitRatio  float64 `yaml:"split_ratio" json:"split_ratio"`
	Seed        int64   `yaml:"seed" json:"seed"`
}

// ModelSettings identifies the model artifact.
type ModelSettings struct {
	Type string `yaml:"type" json:"type"`
	File string `yaml:"file" json:"file"`
	Name string `yaml:"name" json:"name"`
}

// TrainSettings are the booster hyperparameters.
type TrainSettings struct {
	NEstimators  int     `yaml:"n_estimators" json:"n_estimators"`
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
}

// EvalSettings names the evaluation output files inside the eval directory.
type EvalSettings struct {
	EvalFile           string `yaml:"eval_file" json:"eval_file"`
	LastModelFile      string `yaml:"last_model_file" json:"last_model_file"`
	BetterThanLastFile string `yaml:"better_than_last_file" json:"better_than_last_file"`
}

// Settings is the validated, immutable configuration for one run.
type Settings struct {
	Data  DataSettings  `yaml:"data" json:"data"`
	Model ModelSettings `yaml:"model" json:"model"`
	Train TrainSettings `yaml:"train" json:"train"`
	Eval  EvalSettings  `yaml:"eval" json:"eval"`
}

// Load reads a settings file (YAML or JSON) and returns the validated
// Settings. Format is detected by extension or, failing that, by content.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Reason: fmt.Sprintf("read %s: %v", path, err)}
	}
	return Parse(data, filepath.Ext(path))
}

// Parse parses settings from bytes. ext is the file extension (".json",
// ".yaml") as a format hint; empty means detect from content.
func Parse(data []byte, ext string) (*Settings, error) {
	s, err := unmarshal(data, ext)
	if err != nil {
		return nil, err
	}
	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func unmarshal(data []byte, ext string) (*Settings, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	useJSON := ext == ".json"
	if ext == "" {
		// Detect: JSON documents start with '{', everything else is YAML.
		useJSON = strings.HasPrefix(strings.TrimSpace(string(data)), "{")
	}

	var s Settings
	if useJSON {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, &Error{Reason: fmt.Sprintf("parse json: %v", err)}
		}
		return &s, nil
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &Error{Reason: fmt.Sprintf("parse yaml: %v", err)}
	}
	return &s, nil
}

// DefaultSeed is used when data.seed is unset. Reruns must reproduce the
// same split, so the shuffle is always seeded.
const DefaultSeed = 42

func (s *Settings) applyDefaults() {
	if s.Data.LabelColumn == "" {
		s.Data.LabelColumn = "label"
	}
	if s.Data.Seed == 0 {
		s.Data.Seed = DefaultSeed
	}
	if s.Train.NEstimators == 0 {
		s.Train.NEstimators = 100
	}
	if s.Train.LearningRate == 0 {
		s.Train.LearningRate = 0.1
	}
	if s.Eval.EvalFile == "" {
		s.Eval.EvalFile = "eval.json"
	}
	if s.Eval.LastModelFile == "" {
		s.Eval.LastModelFile = "eval_last_model.json"
	}
	if s.Eval.BetterThanLastFile == "" {
		s.Eval.BetterThanLastFile = "better_than_last"
	}
}

func (s *Settings) validate() error {
	required := []struct {
		key, val string
	}{
		{"data.data_file", s.Data.DataFile},
		{"data.train_file", s.Data.TrainFile},
		{"data.test_file", s.Data.TestFile},
		{"model.type", s.Model.Type},
		{"model.file", s.Model.File},
		{"model.name", s.Model.Name},
	}
	for _, r := range required {
		if r.val == "" {
			return &Error{Key: r.key, Reason: "required key missing"}
		}
	}

	if s.Model.Type != ModelTypeGradientBoosting {
		return &Error{Key: "model.type", Reason: fmt.Sprintf("unsupported type %q (only %q)", s.Model.Type, ModelTypeGradientBoosting)}
	}
	if s.Data.SplitRatio <= 0 || s.Data.SplitRatio >= 1 {
		return &Error{Key: "data.split_ratio", Reason: fmt.Sprintf("must be in (0, 1), got %v", s.Data.SplitRatio)}
	}
	if s.Train.NEstimators < 0 {
		return &Error{Key: "train.n_estimators", Reason: fmt.Sprintf("must be positive, got %d", s.Train.NEstimators)}
	}
	if s.Train.LearningRate < 0 || s.Train.LearningRate > 1 {
		return &Error{Key: "train.learning_rate", Reason: fmt.Sprintf("must be in (0, 1], got %v", s.Train.LearningRate)}
	}
	return nil
}
