// Package timedataset holds integer indexed observation series and generators of synthetic
// series for tests, benchmarks and demos. The index of an observation implies its period.
package timedataset

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrNoTrainingData = errors.New("no training data")
	ErrNonFinite      = errors.New("observation is not finite")
)

// TimeDataset is an ordered series of observations
type TimeDataset struct {
	Y []float64
}

// NewUnivariateDataset returns a dataset holding a copy of y. Every value must be finite.
func NewUnivariateDataset(y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value %f at index %d, %w", v, i, ErrNonFinite)
		}
	}
	return &TimeDataset{Y: slices.Clone(y)}, nil
}

func (td *TimeDataset) Copy() *TimeDataset {
	return &TimeDataset{Y: slices.Clone(td.Y)}
}

func (td *TimeDataset) Len() int {
	return len(td.Y)
}

// Split returns the first n observations and the rest as separate datasets
func (td *TimeDataset) Split(n int) (*TimeDataset, *TimeDataset) {
	n = min(max(n, 0), len(td.Y))
	return &TimeDataset{Y: slices.Clone(td.Y[:n])}, &TimeDataset{Y: slices.Clone(td.Y[n:])}
}

// Index returns 0..n-1 as floats, the time feature of a series of length n
func Index(n int) []float64 {
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	return idx
}
