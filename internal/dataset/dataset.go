// Package dataset reads and writes the flat CSV datasets the pipeline
// moves between stages, and performs the deterministic train/test split.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
)

// Frame is a labelled tabular dataset: one float column per feature plus
// one label column, located by name in the CSV header.
type Frame struct {
	Columns []string // feature column names, label excluded
	Label   string   // label column name
	X       [][]float64
	Y       []float64
}

// Len returns the number of samples.
func (f *Frame) Len() int { return len(f.X) }

// NumFeatures returns the number of feature columns.
func (f *Frame) NumFeatures() int { return len(f.Columns) }

// LoadCSV reads a headered CSV file. labelColumn must name one of the
// header columns; every value must parse as a float.
func LoadCSV(path, labelColumn string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("read %s: empty file, header required", path)
	}

	header := records[0]
	labelIdx := -1
	for i, col := range header {
		if col == labelColumn {
			labelIdx = i
			break
		}
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("read %s: label column %q not in header %v", path, labelColumn, header)
	}

	frame := &Frame{Label: labelColumn}
	for i, col := range header {
		if i != labelIdx {
			frame.Columns = append(frame.Columns, col)
		}
	}

	for rowNum, rec := range records[1:] {
		features := make([]float64, 0, len(header)-1)
		var label float64
		for i, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("read %s: row %d column %q: %w", path, rowNum+2, header[i], err)
			}
			if i == labelIdx {
				label = v
			} else {
				features = append(features, v)
			}
		}
		frame.X = append(frame.X, features)
		frame.Y = append(frame.Y, label)
	}
	return frame, nil
}

// SaveCSV writes the frame with a header row, features first and the label
// column last.
func (f *Frame) SaveCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append(append([]string{}, f.Columns...), f.Label)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i, row := range f.X {
		rec := make([]string, 0, len(row)+1)
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rec = append(rec, strconv.FormatFloat(f.Y[i], 'g', -1, 64))
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Split shuffles the frame with the given seed and divides it into train
// and test parts. ratio is the training fraction; the train part gets
// round(ratio*n) samples. The same seed always produces the same split.
func Split(f *Frame, ratio float64, seed int64) (train, test *Frame) {
	n := f.Len()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	nTrain := int(math.Round(ratio * float64(n)))
	train = f.subset(idx[:nTrain])
	test = f.subset(idx[nTrain:])
	return train, test
}

func (f *Frame) subset(idx []int) *Frame {
	out := &Frame{Columns: f.Columns, Label: f.Label}
	for _, i := range idx {
		out.X = append(out.X, f.X[i])
		out.Y = append(out.Y, f.Y[i])
	}
	return out
}
