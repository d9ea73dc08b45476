package sarima

import (
	"fmt"
	"math"
)

const (
	DefaultBound          = 1.5
	DefaultMaxEvaluations = 2000
	DefaultSeedValue      = 0.1
)

// Options configures the conditional sum of squares estimator
type Options struct {
	// Bound is the symmetric box [-Bound, Bound] every coefficient is held in
	Bound float64 `json:"bound"`

	// MaxEvaluations caps objective evaluations of the optimizer. Hitting the cap is treated as a
	// failed optimization.
	MaxEvaluations int `json:"max_evaluations"`

	// SeedValue initializes every coefficient that is not seeded by regression
	SeedValue float64 `json:"seed_value"`

	// IncludeIntercept adds a constant term to the optimized parameters
	IncludeIntercept bool `json:"include_intercept"`
}

// NewDefaultOptions returns the estimator defaults
func NewDefaultOptions() *Options {
	return &Options{
		Bound:          DefaultBound,
		MaxEvaluations: DefaultMaxEvaluations,
		SeedValue:      DefaultSeedValue,
	}
}

// Validate checks the options are usable
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("nil options, %w", ErrInvalidOptions)
	}
	if math.IsNaN(o.Bound) || math.IsInf(o.Bound, 0) || o.Bound <= 0 {
		return fmt.Errorf("bound must be positive and finite but got %f, %w", o.Bound, ErrInvalidOptions)
	}
	if o.MaxEvaluations < 1 {
		return fmt.Errorf("max evaluations must be at least 1 but got %d, %w", o.MaxEvaluations, ErrInvalidOptions)
	}
	if math.IsNaN(o.SeedValue) || math.Abs(o.SeedValue) > o.Bound {
		return fmt.Errorf("seed value %f outside of bound %f, %w", o.SeedValue, o.Bound, ErrInvalidOptions)
	}
	return nil
}
