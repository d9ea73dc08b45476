package models

import (
	"testing"

	mat_ "github.com/denguelab/go-sarima/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOLSOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *OLSOptions
		err      error
		expected *OLSOptions
	}{
		"nil": {nil, nil, NewDefaultOLSOptions()},
		"valid": {
			&OLSOptions{
				FitIntercept: true,
			}, nil,
			&OLSOptions{
				FitIntercept: true,
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestOLSRegression(t *testing.T) {
	tol := 1e-5
	testData := map[string]struct {
		x         [][]float64
		y         []float64
		opt       *OLSOptions
		intercept float64
		coef      []float64
	}{
		"ols model intercept": {
			x: [][]float64{
				{0, 0},
				{3, 5},
				{9, 20},
				{12, 6},
				{15, 10},
			},
			y:         []float64{2, 31, 109, 62, 87},
			intercept: 2.0,
			coef:      []float64{3.0, 4.0},
		},
		"ols model no intercept": {
			x: [][]float64{
				{1, 0, 0},
				{1, 3, 5},
				{1, 9, 20},
				{1, 12, 6},
				{1, 15, 10},
			},
			y: []float64{2, 31, 109, 62, 87},
			opt: &OLSOptions{
				FitIntercept: false,
			},
			intercept: 0.0,
			coef:      []float64{2.0, 3.0, 4.0},
		},
		"simple line": {
			x:         [][]float64{{0}, {1}, {2}, {3}, {4}, {5}},
			y:         []float64{3, 5, 7, 9, 11, 13},
			intercept: 3.0,
			coef:      []float64{2.0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := mat_.NewDenseFromArray(td.x)
			require.Nil(t, err)

			y := mat.NewDense(len(td.y), 1, td.y)

			model, err := NewOLSRegression(td.opt)
			require.Nil(t, err)

			testModel(t, model, x, y, td.intercept, td.coef, tol)
		})
	}
}

func TestFitOLSPerfectLine(t *testing.T) {
	x := make([][]float64, 0, 20)
	y := make([]float64, 0, 20)
	for i := 0; i < 20; i++ {
		x = append(x, []float64{float64(i)})
		y = append(y, 3.0+2.0*float64(i))
	}

	model, err := FitOLS(x, y)
	require.Nil(t, err)

	assert.InDelta(t, 3.0, model.Intercept(), 1e-9)
	slope, err := model.Coefficient(0)
	require.Nil(t, err)
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 1.0, model.RSquared(), 1e-9)
	assert.InDelta(t, 1.0, model.AdjustedRSquared(), 1e-9)
	assert.InDeltaSlice(t, []float64{3.0, 2.0}, model.Coefficients(), 1e-9)
	assert.InDeltaSlice(t, y, model.Fitted(), 1e-9)
}

func TestFitOLSErrors(t *testing.T) {
	testData := map[string]struct {
		x   [][]float64
		y   []float64
		err error
	}{
		"nil x": {
			x:   nil,
			y:   []float64{1, 2},
			err: ErrInvalidInput,
		},
		"nil y": {
			x:   [][]float64{{1}, {2}},
			y:   nil,
			err: ErrInvalidInput,
		},
		"row count mismatch": {
			x:   [][]float64{{1}, {2}, {3}},
			y:   []float64{1, 2},
			err: ErrInvalidInput,
		},
		"ragged rows": {
			x:   [][]float64{{1, 2}, {2}, {3, 4}},
			y:   []float64{1, 2, 3},
			err: ErrInvalidInput,
		},
		"identical columns": {
			x:   [][]float64{{1, 1}, {2, 2}, {3, 3}, {5, 5}, {8, 8}},
			y:   []float64{1, 3, 2, 5, 4},
			err: ErrSingularDesign,
		},
		"more features than observations": {
			x:   [][]float64{{1, 4, 2}, {2, 9, 7}},
			y:   []float64{1, 3},
			err: ErrSingularDesign,
		},
		"constant feature collinear with intercept": {
			x:   [][]float64{{2}, {2}, {2}, {2}},
			y:   []float64{1, 3, 2, 5},
			err: ErrSingularDesign,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := FitOLS(td.x, td.y)
			require.Error(t, err)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestOLSConstantResponse(t *testing.T) {
	model, err := FitOLS([][]float64{{0}, {1}, {2}, {3}}, []float64{5, 5, 5, 5})
	require.Nil(t, err)

	assert.InDelta(t, 5.0, model.Intercept(), 1e-9)
	assert.Equal(t, 0.0, model.RSquared())
	// 1 - (1 - 0) * (4 - 1) / (4 - 2)
	assert.InDelta(t, -0.5, model.AdjustedRSquared(), 1e-12)
}

func TestOLSAdjustedRSquared(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}}
	y := []float64{1.2, 2.9, 5.3, 6.8, 9.4, 10.7, 13.1, 15.2}

	model, err := FitOLS(x, y)
	require.Nil(t, err)

	n, p := 8.0, 2.0
	expected := 1.0 - (1.0-model.RSquared())*(n-1)/(n-p)
	assert.InDelta(t, expected, model.AdjustedRSquared(), 1e-12)
	assert.Less(t, model.AdjustedRSquared(), model.RSquared())
	assert.Greater(t, model.RSquared(), 0.99)
}

func TestOLSPredictRows(t *testing.T) {
	model, err := FitOLS(
		[][]float64{{0, 0}, {3, 5}, {9, 20}, {12, 6}, {15, 10}},
		[]float64{2, 31, 109, 62, 87},
	)
	require.Nil(t, err)

	res, err := model.PredictRow([]float64{1, 1})
	require.Nil(t, err)
	assert.InDelta(t, 9.0, res, 1e-6)

	batch, err := model.PredictRows([][]float64{{1, 1}, {2, 0}})
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{9.0, 8.0}, batch, 1e-6)

	_, err = model.PredictRow([]float64{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = model.PredictRows([][]float64{{1, 1}, {1, 2, 3}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = model.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = model.Coefficient(2)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestOLSAccessorsReturnCopies(t *testing.T) {
	model, err := FitOLS([][]float64{{0}, {1}, {2}}, []float64{1, 3, 5})
	require.Nil(t, err)

	c := model.Coefficients()
	c[0] = 100
	coef := model.Coef()
	coef[0] = 100
	fitted := model.Fitted()
	fitted[0] = 100

	assert.InDelta(t, 1.0, model.Intercept(), 1e-9)
	assert.InDeltaSlice(t, []float64{2.0}, model.Coef(), 1e-9)
	assert.InDelta(t, 1.0, model.Fitted()[0], 1e-9)
}

func TestOLSNotFitted(t *testing.T) {
	model, err := NewOLSRegression(nil)
	require.Nil(t, err)

	_, err = model.PredictRow([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = model.Predict(mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrNotFitted)

	err = model.Fit(nil, mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func BenchmarkOLSRegression(b *testing.B) {
	x, y, err := generateBenchData(1000, 10)
	if err != nil {
		b.Fatal(err)
	}

	for i := 0; i < b.N; i++ {
		model, err := NewOLSRegression(nil)
		if err != nil {
			b.Error(err)
			continue
		}
		if err := model.Fit(x, y); err != nil {
			b.Error(err)
			continue
		}
	}
}
