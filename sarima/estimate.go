package sarima

import (
	"errors"
	"fmt"
	"math"

	"github.com/denguelab/go-sarima/models"
	"gonum.org/v1/gonum/optimize"
)

// boxPenalty scales the quadratic cost of candidates that leave the coefficient box
const boxPenalty = 1e3

var (
	errInsufficientData   = errors.New("working series too short to estimate coefficients")
	errNoFreeParameters   = errors.New("no free parameters to optimize")
	errOptimizationFailed = errors.New("optimization failed")
)

type estimate struct {
	coef        Coefficients
	quality     FitQuality
	evaluations int
	fallback    error
}

// seedCoefficients is the starting point of the optimizer and the fallback when it cannot be
// used. Every coefficient starts at the seed value except the AR block, which takes the slopes of
// an OLS regression of z on its first p lags when that regression can be fitted.
func seedCoefficients(z []float64, order Order, opt *Options) Coefficients {
	c := newCoefficients(order)
	fill := func(block []float64) {
		for i := range block {
			block[i] = opt.SeedValue
		}
	}
	fill(c.AR)
	fill(c.MA)
	if order.Seasonal() {
		fill(c.SeasonalAR)
		fill(c.SeasonalMA)
	}

	p := order.P
	if p == 0 || len(z) <= p {
		return c
	}
	x := make([][]float64, len(z)-p)
	y := make([]float64, len(z)-p)
	for t := p; t < len(z); t++ {
		row := make([]float64, p)
		for j := 0; j < p; j++ {
			row[j] = z[t-1-j]
		}
		x[t-p] = row
		y[t-p] = z[t]
	}
	lr, err := models.FitOLS(x, y)
	if err != nil {
		return c
	}
	for i, v := range lr.Coef() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return c
		}
		c.AR[i] = v
	}
	return c
}

// estimateCoefficients minimizes the conditional sum of squares of z. It never fails: whenever
// the optimizer cannot run or does not converge the seed coefficients are returned with
// FitDefaulted and the cause recorded in fallback.
func estimateCoefficients(z []float64, order Order, opt *Options) estimate {
	seed := seedCoefficients(z, order, opt)
	defaulted := func(err error) estimate {
		return estimate{coef: seed, quality: FitDefaulted, fallback: err}
	}

	start := order.MaxLag()
	if len(z)-2 < start {
		return defaulted(fmt.Errorf("%d points with max lag %d, %w", len(z), start, errInsufficientData))
	}
	l := layout{order: order, intercept: opt.IncludeIntercept}
	if l.size() == 0 {
		return defaulted(errNoFreeParameters)
	}

	x, evals, err := minimize(z, l.pack(seed), l, start, opt)
	if err != nil {
		return defaulted(err)
	}
	return estimate{
		coef:        l.unpack(x),
		quality:     FitOptimized,
		evaluations: evals,
	}
}

// minimize runs Nelder-Mead from x0. The box is enforced by evaluating the projection of every
// candidate onto it plus a penalty on the distance outside, so the returned point is projected too.
func minimize(z, x0 []float64, l layout, start int, opt *Options) (x []float64, evals int, err error) {
	defer func() {
		if r := recover(); r != nil {
			x, evals = nil, 0
			err = fmt.Errorf("optimizer panic: %v, %w", r, errOptimizationFailed)
		}
	}()

	bound := opt.Bound
	boxed := make([]float64, len(x0))
	clampTo(boxed, x0, bound)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return boxedObjective(z, l, start, bound, x)
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: opt.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-9,
			Relative:   1e-12,
			Iterations: 50,
		},
	}
	result, err := optimize.Minimize(problem, boxed, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, 0, fmt.Errorf("%v, %w", err, errOptimizationFailed)
	}
	switch result.Status {
	case optimize.FunctionEvaluationLimit, optimize.IterationLimit, optimize.RuntimeLimit, optimize.Failure:
		return nil, result.FuncEvaluations, fmt.Errorf("stopped with status %s after %d evaluations, %w",
			result.Status, result.FuncEvaluations, errOptimizationFailed)
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) || result.F == math.MaxFloat64 {
		return nil, result.FuncEvaluations, fmt.Errorf("non-finite objective %f, %w", result.F, errOptimizationFailed)
	}

	x = make([]float64, len(result.X))
	clampTo(x, result.X, bound)
	for _, v := range x {
		if math.IsNaN(v) {
			return nil, result.FuncEvaluations, fmt.Errorf("non-finite coefficient, %w", errOptimizationFailed)
		}
	}
	return x, result.FuncEvaluations, nil
}

// boxedObjective is the conditional sum of squares at the projection of x onto [-bound, bound]
// plus a penalty growing with the squared distance of x from the box.
func boxedObjective(z []float64, l layout, start int, bound float64, x []float64) float64 {
	clamped := make([]float64, len(x))
	outside := clampTo(clamped, x, bound)

	rss := ConditionalSumOfSquares(z, l.unpack(clamped), l.order, start)
	if math.IsNaN(rss) || math.IsInf(rss, 0) {
		return math.MaxFloat64
	}
	return rss + boxPenalty*outside*(1+rss)
}

// clampTo writes src projected onto [-bound, bound] into dst and returns the squared distance
// between the two.
func clampTo(dst, src []float64, bound float64) float64 {
	var dist float64
	for i, v := range src {
		c := math.Max(-bound, math.Min(bound, v))
		dst[i] = c
		if !math.IsNaN(v) {
			dist += (v - c) * (v - c)
		}
	}
	return dist
}
