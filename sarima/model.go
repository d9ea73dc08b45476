// Package sarima fits seasonal autoregressive integrated moving average models by conditional
// sum of squares and produces recursive multi-step forecasts.
package sarima

import (
	"fmt"
	"math"
	"slices"

	"github.com/denguelab/go-sarima/stats"
)

// FitQuality tells whether the coefficients came out of the optimizer or are the seed fallback
type FitQuality int

const (
	FitOptimized FitQuality = iota
	FitDefaulted
)

func (q FitQuality) String() string {
	switch q {
	case FitOptimized:
		return "optimized"
	case FitDefaulted:
		return "defaulted"
	default:
		return "unknown"
	}
}

// MarshalText encodes the quality by name
func (q FitQuality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText decodes a quality name written by MarshalText
func (q *FitQuality) UnmarshalText(text []byte) error {
	switch string(text) {
	case "optimized":
		*q = FitOptimized
	case "defaulted":
		*q = FitDefaulted
	default:
		return fmt.Errorf("unknown fit quality %q", text)
	}
	return nil
}

// Model is an unfitted seasonal model of a given order
type Model struct {
	order Order
	opt   *Options
}

// New validates the order and options and returns an unfitted model. If no options are provided
// the defaults are used.
func New(order Order, opt *Options) (*Model, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	optCopy := *opt
	return &Model{order: order, opt: &optCopy}, nil
}

func (m *Model) Order() Order {
	return m.order
}

// Fit differences the series and estimates the coefficients. The series is not retained; it has
// to be passed again to ForecastFrom when the order integrates.
func (m *Model) Fit(series []float64) (*Fitted, error) {
	if m == nil || m.opt == nil {
		return nil, fmt.Errorf("model not initialized with New, %w", ErrInvalidInput)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("empty series, %w", ErrInvalidInput)
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite value at index %d, %w", i, ErrInvalidInput)
		}
	}

	if n := m.order.NumCoefficients(); n > len(series) {
		return nil, fmt.Errorf("order %s needs %d coefficients but the series has %d points, %w",
			m.order, n, len(series), ErrInvalidInput)
	}

	z, err := Difference(series, m.order.D, m.order.SeasonalD, m.order.Period)
	if err != nil {
		return nil, fmt.Errorf("series of %d points too short for order %s, %w", len(series), m.order, err)
	}

	est := estimateCoefficients(z, m.order, m.opt)
	start := min(m.order.MaxLag(), len(z))
	innovations := Innovations(z, est.coef, m.order, start)

	var objective float64
	for _, e := range innovations[start:] {
		objective += e * e
	}
	scores, err := stats.ScoreResiduals(innovations[start:], z[start:])
	if err != nil {
		return nil, fmt.Errorf("unable to score fit, %w", err)
	}

	return &Fitted{
		trained:     true,
		order:       m.order,
		quality:     est.quality,
		fallback:    est.fallback,
		evaluations: est.evaluations,
		coef:        est.coef,
		working:     z,
		innovations: innovations,
		start:       start,
		objective:   objective,
		scores:      scores,
	}, nil
}

// Fitted is a seasonal model with estimated coefficients. It is immutable and safe for
// concurrent use.
type Fitted struct {
	trained     bool
	order       Order
	quality     FitQuality
	fallback    error
	evaluations int

	coef        Coefficients
	working     []float64
	innovations []float64
	start       int
	objective   float64
	scores      stats.Scores
}

func (f *Fitted) valid() error {
	if f == nil || !f.trained {
		return ErrNotFitted
	}
	return nil
}

func (f *Fitted) Order() Order {
	return f.order
}

func (f *Fitted) Quality() FitQuality {
	return f.quality
}

// Fallback returns why the seed coefficients were kept, or nil for an optimized fit
func (f *Fitted) Fallback() error {
	return f.fallback
}

// Evaluations is the number of objective evaluations the optimizer spent
func (f *Fitted) Evaluations() int {
	return f.evaluations
}

// Coefficients returns a copy of the fitted coefficients
func (f *Fitted) Coefficients() Coefficients {
	return f.coef.Clone()
}

// WorkingSeries returns a copy of the differenced series the model was estimated on
func (f *Fitted) WorkingSeries() []float64 {
	return slices.Clone(f.working)
}

// Residuals returns the in-sample one-step innovations from the first index every lag can reach
func (f *Fitted) Residuals() []float64 {
	return slices.Clone(f.innovations[f.start:])
}

// Objective is the conditional sum of squares at the fitted coefficients
func (f *Fitted) Objective() float64 {
	return f.objective
}

// Scores returns the in-sample one-step prediction scores on the working series
func (f *Fitted) Scores() stats.Scores {
	return f.scores
}

// LjungBox tests the in-sample residuals for autocorrelation up to lags, counting every fitted
// coefficient against the degrees of freedom.
func (f *Fitted) LjungBox(lags int) (*stats.LjungBoxResult, error) {
	if err := f.valid(); err != nil {
		return nil, err
	}
	fitdf := f.order.NumCoefficients()
	if f.coef.Intercept != 0 {
		fitdf++
	}
	return stats.LjungBox(f.innovations[f.start:], lags, fitdf)
}
