// Package predictor combines a least squares trend regression and a seasonal model over a series
// of case counts with optional covariates.
package predictor

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/denguelab/go-sarima/internal/logging"
	"github.com/denguelab/go-sarima/internal/metrics"
	"github.com/denguelab/go-sarima/models"
	"github.com/denguelab/go-sarima/sarima"
	"github.com/denguelab/go-sarima/stats"
	"github.com/denguelab/go-sarima/timedataset"
)

var (
	ErrNoCases             = errors.New("cases required")
	ErrSarimaNotFitted     = errors.New("fit sarima first")
	ErrRegressionNotFitted = errors.New("fit regression first")
)

// Options configures the predictor. Every field is optional.
type Options struct {
	Logger  *logging.Logger
	Metrics *metrics.Metrics
	Sarima  *sarima.Options
}

// NewDefaultOptions logs to the global logger, records no metrics and uses the default
// estimator options.
func NewDefaultOptions() *Options {
	return &Options{
		Logger: logging.Global(),
		Sarima: sarima.NewDefaultOptions(),
	}
}

// Predictor owns a case series and the models fitted on it. It is not safe for concurrent use.
type Predictor struct {
	opt        *Options
	cases      *timedataset.TimeDataset
	covariates [][]float64

	regression *models.OLSRegression
	model      *sarima.Fitted
}

// New creates a predictor over cases. Covariates are kept only when there is one row per case and
// every row has the same, non-zero width; otherwise they are ignored.
func New(cases []float64, covariates [][]float64, opt *Options) (*Predictor, error) {
	if len(cases) == 0 {
		return nil, ErrNoCases
	}
	td, err := timedataset.NewUnivariateDataset(cases)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrNoCases, err)
	}

	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.Logger == nil {
		opt.Logger = logging.Global()
	}

	p := &Predictor{
		opt:   opt,
		cases: td,
	}
	if usableCovariates(covariates, len(cases)) {
		p.covariates = make([][]float64, len(covariates))
		for i, row := range covariates {
			p.covariates[i] = slices.Clone(row)
		}
	} else if covariates != nil {
		opt.Logger.Debug("ignoring covariates", "rows", len(covariates), "cases", len(cases))
	}
	return p, nil
}

func usableCovariates(covariates [][]float64, n int) bool {
	if len(covariates) != n || n == 0 {
		return false
	}
	width := len(covariates[0])
	if width == 0 {
		return false
	}
	for _, row := range covariates {
		if len(row) != width {
			return false
		}
	}
	return true
}

// TimeIndex is the n x 1 design of time indices 0..n-1
func TimeIndex(n int) [][]float64 {
	x := make([][]float64, n)
	for i, v := range timedataset.Index(n) {
		x[i] = []float64{v}
	}
	return x
}

// Cases returns a copy of the case series
func (p *Predictor) Cases() []float64 {
	return slices.Clone(p.cases.Y)
}

// HasCovariates reports whether covariates were kept
func (p *Predictor) HasCovariates() bool {
	return p.covariates != nil
}

// FitRegression regresses the cases on the covariates, or on the time index when there are none.
func (p *Predictor) FitRegression() error {
	x := p.covariates
	if x == nil {
		x = TimeIndex(p.cases.Len())
	}
	lr, err := models.FitOLS(x, p.cases.Y)
	p.opt.Metrics.ObserveRegressionFit(err)
	if err != nil {
		return fmt.Errorf("unable to fit regression, %w", err)
	}
	p.regression = lr

	p.opt.Logger.Debug("fitted regression",
		"features", len(x[0]),
		"r_squared", lr.RSquared(),
		"adjusted_r_squared", lr.AdjustedRSquared(),
	)
	return nil
}

// Regression returns the fitted regression or nil before FitRegression
func (p *Predictor) Regression() *models.OLSRegression {
	return p.regression
}

// Fitted returns the in-sample regression predictions
func (p *Predictor) Fitted() ([]float64, error) {
	if p.regression == nil {
		return nil, ErrRegressionNotFitted
	}
	return p.regression.Fitted(), nil
}

// FitSarima fits a seasonal model of the given order on the cases. A fit whose optimizer fell
// back to the seed coefficients succeeds and is logged as a warning.
func (p *Predictor) FitSarima(order sarima.Order) error {
	m, err := sarima.New(order, p.opt.Sarima)
	if err != nil {
		return err
	}

	start := time.Now()
	fitted, err := m.Fit(p.cases.Y)
	if err != nil {
		return err
	}
	p.opt.Metrics.ObserveSarimaFit(fitted.Quality().String(), time.Since(start))
	p.model = fitted

	logger := p.opt.Logger.With("order", order.String(), "quality", fitted.Quality().String())
	if fitted.Quality() == sarima.FitDefaulted {
		logger.Warn("seasonal model kept seed coefficients", "error", fitted.Fallback())
	}
	logger.Debug("fitted seasonal model",
		"objective", fitted.Objective(),
		"evaluations", fitted.Evaluations(),
		"duration", time.Since(start),
	)
	return nil
}

// Sarima returns the fitted seasonal model or nil before FitSarima
func (p *Predictor) Sarima() *sarima.Fitted {
	return p.model
}

// ForecastSarima forecasts steps case counts past the end of the series
func (p *Predictor) ForecastSarima(steps int) ([]float64, error) {
	if p.model == nil {
		return nil, ErrSarimaNotFitted
	}
	var original []float64
	if p.model.Order().Integrated() {
		original = p.cases.Y
	}
	res, err := p.model.ForecastFrom(original, steps)
	if err != nil {
		return nil, err
	}
	p.opt.Metrics.ObserveForecast(steps)
	return res, nil
}

// Diagnostics describes how well the seasonal model explains the cases
type Diagnostics struct {
	Scores   stats.Scores          `json:"scores"`
	LjungBox *stats.LjungBoxResult `json:"ljung_box,omitempty"`

	// ResidualOutliers are indices into the cases whose one-step residual falls outside the
	// Tukey fences of all residuals
	ResidualOutliers []int `json:"residual_outliers"`

	// CovariateVIF is the variance inflation factor of each covariate column
	CovariateVIF []float64 `json:"covariate_vif,omitempty"`
}

// Diagnostics scores the seasonal model's residuals. Tests that need more data than is
// available are left out rather than failing.
func (p *Predictor) Diagnostics() (*Diagnostics, error) {
	if p.model == nil {
		return nil, ErrSarimaNotFitted
	}
	residuals := p.model.Residuals()
	diag := &Diagnostics{
		Scores:           p.model.Scores(),
		ResidualOutliers: []int{},
	}

	offset := p.cases.Len() - len(residuals)
	for _, idx := range stats.DetectOutliers(residuals, 0.25, 0.75, 1.5) {
		diag.ResidualOutliers = append(diag.ResidualOutliers, idx+offset)
	}

	lags := 10
	if order := p.model.Order(); order.Seasonal() {
		lags = 2 * order.Period
	}
	lb, err := p.model.LjungBox(lags)
	switch {
	case err == nil:
		diag.LjungBox = lb
	case errors.Is(err, stats.ErrInsufficientData), errors.Is(err, stats.ErrZeroVariance):
		p.opt.Logger.Debug("skipping ljung-box test", "error", err)
	default:
		return nil, fmt.Errorf("unable to test residuals, %w", err)
	}

	if p.covariates != nil && len(p.covariates[0]) > 1 {
		vif, err := stats.VarianceInflationFactor(transpose(p.covariates))
		if err != nil {
			p.opt.Logger.Debug("skipping variance inflation factors", "error", err)
		} else {
			for i, v := range vif {
				if math.IsInf(v, 1) {
					vif[i] = math.MaxFloat64
				}
			}
			diag.CovariateVIF = vif
		}
	}
	return diag, nil
}

func transpose(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := make([][]float64, len(rows[0]))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
		for i, row := range rows {
			cols[j][i] = row[j]
		}
	}
	return cols
}
