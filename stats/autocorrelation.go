package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInsufficientData = errors.New("insufficient data points")
	ErrZeroVariance     = errors.New("series has zero variance")
	ErrInvalidLag       = errors.New("lag must be at least 1")
)

// MinLjungBoxPoints is the shortest residual series a Ljung-Box test is run on
const MinLjungBoxPoints = 10

// ACF returns the autocorrelation of y for lags 0 through maxLag. maxLag is capped at len(y)-1.
func ACF(y []float64, maxLag int) ([]float64, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrInsufficientData
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("got %d, %w", maxLag, ErrInvalidLag)
	}
	maxLag = min(maxLag, n-1)

	mean := stat.Mean(y, nil)
	var variance float64
	for _, v := range y {
		variance += (v - mean) * (v - mean)
	}
	if variance == 0 {
		return nil, ErrZeroVariance
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		var sum float64
		for i := k; i < n; i++ {
			sum += (y[i] - mean) * (y[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf, nil
}

// LjungBoxResult is the portmanteau test for residual autocorrelation. A small PValue rejects
// the hypothesis that the residuals are uncorrelated up to Lags.
type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"`
}

// LjungBox tests residuals for autocorrelation up to lags. fitdf is the number of estimated
// coefficients and is taken off the degrees of freedom, which never go below 1.
func LjungBox(residuals []float64, lags, fitdf int) (*LjungBoxResult, error) {
	n := len(residuals)
	if n < MinLjungBoxPoints {
		return nil, fmt.Errorf("need %d residuals but got %d, %w", MinLjungBoxPoints, n, ErrInsufficientData)
	}
	if lags < 1 {
		return nil, fmt.Errorf("got %d, %w", lags, ErrInvalidLag)
	}
	lags = min(lags, n-1)

	acf, err := ACF(residuals, lags)
	if err != nil {
		return nil, fmt.Errorf("unable to compute autocorrelation, %w", err)
	}

	var q float64
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)
	chi := distuv.ChiSquared{K: float64(dof)}
	return &LjungBoxResult{
		Statistic: q,
		PValue:    1 - chi.CDF(q),
		Lags:      lags,
		DOF:       dof,
	}, nil
}
