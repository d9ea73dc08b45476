// Package stats scores fitted values against observations and tests residuals for leftover
// autocorrelation.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrResLenMismatch = errors.New("residuals and observations have different lengths")

// Scores summarizes one-step prediction errors over the observations they were made for
type Scores struct {
	// N is the number of scored observations
	N int `json:"n"`

	MSE float64 `json:"mean_squared_error"`

	// MAPE is the mean absolute percentage error over the observations that are not zero
	MAPE float64 `json:"mean_absolute_percentage_error"`

	// R2 is 1 - SSres/SStot, or 0 when the observations are constant
	R2 float64 `json:"r_squared"`
}

// ScoreResiduals scores the residuals e[i] = actual[i] - predicted[i] of a fit. Both slices are
// expected to be finite. Empty input scores as the zero value.
func ScoreResiduals(residuals, actual []float64) (Scores, error) {
	if len(residuals) != len(actual) {
		return Scores{}, fmt.Errorf("expected %d residuals, but got %d, %w", len(actual), len(residuals), ErrResLenMismatch)
	}
	n := len(actual)
	if n == 0 {
		return Scores{}, nil
	}

	ssRes := floats.Dot(residuals, residuals)

	var pct float64
	var nonZero int
	for i, y := range actual {
		if y == 0 {
			continue
		}
		pct += math.Abs(residuals[i] / y)
		nonZero++
	}

	s := Scores{
		N:   n,
		MSE: ssRes / float64(n),
	}
	if nonZero > 0 {
		s.MAPE = pct / float64(nonZero)
	}

	mean := stat.Mean(actual, nil)
	var ssTot float64
	for _, y := range actual {
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot > 0 {
		s.R2 = 1 - ssRes/ssTot
	}
	return s, nil
}
