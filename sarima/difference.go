package sarima

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Difference applies d lag-1 differencing passes followed by seasonalD lag-period passes. Seasonal
// passes are skipped when period is 0 or 1. The input is never modified. A pass whose lag is not
// shorter than the series it is applied to fails with ErrInvalidInput.
func Difference(series []float64, d, seasonalD, period int) ([]float64, error) {
	if d < 0 || seasonalD < 0 || period < 0 {
		return nil, fmt.Errorf("negative differencing order, %w", ErrInvalidOrder)
	}
	z := make([]float64, len(series))
	copy(z, series)

	var err error
	for i := 0; i < d; i++ {
		if z, err = diff(z, 1); err != nil {
			return nil, fmt.Errorf("unable to apply first difference pass %d, %w", i+1, err)
		}
	}
	if period <= 1 {
		return z, nil
	}
	for i := 0; i < seasonalD; i++ {
		if z, err = diff(z, period); err != nil {
			return nil, fmt.Errorf("unable to apply seasonal difference pass %d, %w", i+1, err)
		}
	}
	return z, nil
}

func diff(x []float64, lag int) ([]float64, error) {
	if lag >= len(x) {
		return nil, fmt.Errorf("lag %d with only %d points, %w", lag, len(x), ErrInvalidInput)
	}
	out := make([]float64, len(x)-lag)
	floats.SubTo(out, x[lag:], x[:len(x)-lag])
	return out, nil
}

// differencePolynomial expands (1-B)^d (1-B^s)^D into its coefficients c where c[k] multiplies
// the value k steps back.
func differencePolynomial(d, seasonalD, period int) []float64 {
	poly := []float64{1}
	for i := 0; i < d; i++ {
		poly = polyMul(poly, []float64{1, -1})
	}
	if period <= 1 {
		return poly
	}
	seasonal := make([]float64, period+1)
	seasonal[0] = 1
	seasonal[period] = -1
	for i := 0; i < seasonalD; i++ {
		poly = polyMul(poly, seasonal)
	}
	return poly
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// Integrate reverses Difference for values that continue history. Given the differenced values
// that follow the end of history, it returns the same number of values on the scale of history.
// history must hold at least d + D*period points.
func Integrate(history, differenced []float64, d, seasonalD, period int) ([]float64, error) {
	if d < 0 || seasonalD < 0 || period < 0 {
		return nil, fmt.Errorf("negative differencing order, %w", ErrInvalidOrder)
	}
	poly := differencePolynomial(d, seasonalD, period)
	degree := len(poly) - 1
	if len(history) < degree {
		return nil, fmt.Errorf("need %d points of history to integrate but got %d, %w", degree, len(history), ErrInvalidInput)
	}

	n := len(history)
	level := make([]float64, n+len(differenced))
	copy(level, history)
	for i, w := range differenced {
		t := n + i
		next := w
		for k := 1; k <= degree; k++ {
			next -= poly[k] * level[t-k]
		}
		level[t] = next
	}
	return level[n:], nil
}
