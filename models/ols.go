package models

import (
	"fmt"
	"math"

	mat_ "github.com/denguelab/go-sarima/mat"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MaxConditionNumber is the largest condition number of X'X accepted before the design is treated
// as singular.
const MaxConditionNumber = 1e15

// OLSOptions represents input options to run the OLS Regression
type OLSOptions struct {
	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool
}

// Validate runs basic validation on OLS options
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		o = NewDefaultOLSOptions()
	}

	return o, nil
}

// NewDefaultOLSOptions returns a default set of OLS Regression options
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// OLSRegression computes ordinary least squares by solving the normal equation
// beta = (X'X)^-1 X'y with an LU factorization of X'X.
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64

	fitted      []float64
	rSquared    float64
	adjRSquared float64
	trained     bool
}

// NewOLSRegression initializes an ordinary least squares model ready for fitting
func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

// FitOLS fits an intercept model from row-major features and a response slice. Each row of x is one
// observation and must have the same number of features.
func FitOLS(x [][]float64, y []float64) (*OLSRegression, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, ErrNoObservations
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("training data has %d rows and target has %d rows, %w", len(x), len(y), ErrTargetLenMismatch)
	}

	xMx, err := mat_.NewDenseFromArray(x)
	if err != nil {
		return nil, fmt.Errorf("unable to build design matrix, %w, %w", err, ErrInvalidInput)
	}
	yMx, err := mat_.NewColumn(y)
	if err != nil {
		return nil, fmt.Errorf("unable to build target matrix, %w, %w", err, ErrInvalidInput)
	}

	model, err := NewOLSRegression(nil)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(xMx, yMx); err != nil {
		return nil, err
	}
	return model, nil
}

// Fit the model according to the given training data. x has one row per observation and y is a
// single column with the same number of rows.
func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, _ := x.Dims()
	if m == 0 {
		return ErrNoObservations
	}

	ym, yn := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}
	if yn != 1 {
		return fmt.Errorf("target has %d columns, %w", yn, ErrTargetShape)
	}

	design := x
	if o.opt.FitIntercept {
		design = mat_.PrependOnes(x)
	}
	_, p := design.Dims()

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	var lu mat.LU
	lu.Factorize(&xtx)
	cond := lu.Cond()
	if math.IsNaN(cond) || math.IsInf(cond, 0) || cond > MaxConditionNumber {
		return fmt.Errorf("condition number of X'X is %g with %d observations and %d parameters, %w", cond, m, p, ErrSingularDesign)
	}

	var xty mat.Dense
	xty.Mul(design.T(), y)

	var beta mat.Dense
	if err := lu.SolveTo(&beta, false, &xty); err != nil {
		return fmt.Errorf("unable to solve normal equation, %s, %w", err, ErrSingularDesign)
	}
	c := mat.Col(nil, 0, &beta)

	if o.opt.FitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
	} else {
		o.intercept = 0.0
		o.coef = c
	}

	var fittedMx mat.Dense
	fittedMx.Mul(design, &beta)
	o.fitted = mat.Col(nil, 0, &fittedMx)

	yCol := mat.Col(nil, 0, y)
	o.rSquared = rSquared(o.fitted, yCol)
	o.adjRSquared = adjustedRSquared(o.rSquared, m, p)
	o.trained = true

	return nil
}

// Predict using the OLS model
func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if !o.trained {
		return nil, ErrNotFitted
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}

	_, xn := x.Dims()
	if xn != len(o.coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn, len(o.coef), ErrFeatureLenMismatch)
	}

	coefMx := mat.NewVecDense(len(o.coef), o.Coef())

	var res mat.VecDense
	res.MulVec(x, coefMx)

	out := make([]float64, res.Len())
	for i := range out {
		out[i] = res.AtVec(i) + o.intercept
	}
	return out, nil
}

// PredictRow predicts the response for a single observation. The row must hold one value per
// trained feature and must not include the constant column.
func (o *OLSRegression) PredictRow(row []float64) (float64, error) {
	if !o.trained {
		return 0.0, ErrNotFitted
	}
	if len(row) != len(o.coef) {
		return 0.0, fmt.Errorf("got %d features in row, but expected %d, %w", len(row), len(o.coef), ErrFeatureLenMismatch)
	}

	res := o.intercept
	for i, v := range row {
		res += o.coef[i] * v
	}
	return res, nil
}

// PredictRows predicts the response for each row
func (o *OLSRegression) PredictRows(rows [][]float64) ([]float64, error) {
	out := make([]float64, 0, len(rows))
	for i, row := range rows {
		res, err := o.PredictRow(row)
		if err != nil {
			return nil, fmt.Errorf("at row %d, %w", i, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// Score computes the coefficient of determination of the prediction
func (o *OLSRegression) Score(x, y mat.Matrix) (float64, error) {
	if o.opt == nil {
		return 0.0, ErrNoOptions
	}
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()

	ym, _ := y.Dims()
	if m != ym {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	res, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}

	return rSquared(res, mat.Col(nil, 0, y)), nil
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}

// Coefficient returns the trained coefficient of feature i where 0 is the first feature column
func (o *OLSRegression) Coefficient(i int) (float64, error) {
	if i < 0 || i >= len(o.coef) {
		return 0.0, fmt.Errorf("index %d with %d features, %w", i, len(o.coef), ErrCoefficientIndex)
	}
	return o.coef[i], nil
}

// Coefficients returns the full coefficient vector with the intercept first followed by the feature
// coefficients.
func (o *OLSRegression) Coefficients() []float64 {
	c := make([]float64, 0, len(o.coef)+1)
	c = append(c, o.intercept)
	c = append(c, o.coef...)
	return c
}

// Fitted returns the predictions over the training design
func (o *OLSRegression) Fitted() []float64 {
	f := make([]float64, len(o.fitted))
	copy(f, o.fitted)
	return f
}

// RSquared is the coefficient of determination against the training data
func (o *OLSRegression) RSquared() float64 {
	return o.rSquared
}

// AdjustedRSquared penalizes RSquared by the number of fitted parameters
func (o *OLSRegression) AdjustedRSquared() float64 {
	return o.adjRSquared
}

// rSquared is 1 - SSres/SStot, or 0 for a constant response
func rSquared(predicted, actual []float64) float64 {
	mean := stat.Mean(actual, nil)
	var ssTot, ssRes float64
	for i := range actual {
		ssTot += (actual[i] - mean) * (actual[i] - mean)
		ssRes += (actual[i] - predicted[i]) * (actual[i] - predicted[i])
	}
	if ssTot <= 0 {
		return 0.0
	}
	return 1.0 - ssRes/ssTot
}

func adjustedRSquared(r2 float64, n, p int) float64 {
	if n <= p {
		return r2
	}
	return 1.0 - (1.0-r2)*float64(n-1)/float64(n-p)
}
