package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreResiduals(t *testing.T) {
	testData := map[string]struct {
		residuals []float64
		actual    []float64
		err       error
		expected  Scores
	}{
		"perfect": {
			residuals: []float64{0, 0, 0},
			actual:    []float64{1, 2, 3},
			expected:  Scores{N: 3, MSE: 0, MAPE: 0, R2: 1},
		},
		"offset": {
			residuals: []float64{-1, -1, -1, -1},
			actual:    []float64{1, 2, 3, 4},
			expected:  Scores{N: 4, MSE: 1, MAPE: (1.0 + 0.5 + 1.0/3.0 + 0.25) / 4.0, R2: 0.2},
		},
		"zero actual left out of percentage": {
			residuals: []float64{-1, 1, 1},
			actual:    []float64{0, 5, 2},
			expected:  Scores{N: 3, MSE: 1, MAPE: (0.2 + 0.5) / 2.0, R2: 1 - 27.0/114.0},
		},
		"all zero actual": {
			residuals: []float64{1, -1},
			actual:    []float64{0, 0},
			expected:  Scores{N: 2, MSE: 1, MAPE: 0, R2: 0},
		},
		"constant actual": {
			residuals: []float64{0.5, -0.5},
			actual:    []float64{4, 4},
			expected:  Scores{N: 2, MSE: 0.25, MAPE: 0.125, R2: 0},
		},
		"empty": {
			expected: Scores{},
		},
		"length mismatch": {
			residuals: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := ScoreResiduals(td.residuals, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected.N, res.N, "n")
			assert.InDelta(t, td.expected.MSE, res.MSE, 1e-9, "mse")
			assert.InDelta(t, td.expected.MAPE, res.MAPE, 1e-9, "mape")
			assert.InDelta(t, td.expected.R2, res.R2, 1e-9, "r2")
		})
	}
}

func TestDetectOutliers(t *testing.T) {
	y := []float64{1, 2, 1, 2, 1, 2, 1, 2, 1, 50}
	assert.Equal(t, []int{9}, DetectOutliers(y, 0.1, 0.9, 1.0))

	assert.Nil(t, DetectOutliers(nil, 0.1, 0.9, 1.0))
	assert.Nil(t, DetectOutliers([]float64{3, 3, 3}, 0.0, 1.0, 0.0))
}

func TestVarianceInflationFactor(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	b := []float64{2, 1, 4, 3, 6, 5, 8, 7}
	c := []float64{5, 3, 8, 1, 9, 2, 7, 4}

	vif, err := VarianceInflationFactor([][]float64{a, b, c})
	require.Nil(t, err)
	require.Len(t, vif, 3)
	for _, v := range vif {
		assert.GreaterOrEqual(t, v, 1.0)
	}
	// a and b track each other closely while c is noise
	assert.Greater(t, vif[0], vif[2])

	dup, err := VarianceInflationFactor([][]float64{a, a})
	require.Nil(t, err)
	assert.Greater(t, dup[0], 1e6)

	_, err = VarianceInflationFactor([][]float64{a})
	assert.ErrorIs(t, err, ErrMinimumFeatures)

	_, err = VarianceInflationFactor([][]float64{a, {1, 2}})
	assert.ErrorIs(t, err, ErrFeatureLenMismatch)
}
