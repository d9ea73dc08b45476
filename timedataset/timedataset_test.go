package timedataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnivariateDataset(t *testing.T) {
	testData := map[string]struct {
		y   []float64
		err error
	}{
		"valid":    {y: []float64{1, 2, 3}},
		"empty":    {y: nil, err: ErrNoTrainingData},
		"nan":      {y: []float64{1, math.NaN()}, err: ErrNonFinite},
		"infinite": {y: []float64{math.Inf(-1)}, err: ErrNonFinite},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := NewUnivariateDataset(td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.y, res.Y)

			// dataset owns its copy
			td.y[0] = 100
			assert.Equal(t, 1.0, res.Y[0])
		})
	}
}

func TestSplit(t *testing.T) {
	td, err := NewUnivariateDataset([]float64{1, 2, 3, 4, 5})
	require.Nil(t, err)

	train, test := td.Split(3)
	assert.Equal(t, []float64{1, 2, 3}, train.Y)
	assert.Equal(t, []float64{4, 5}, test.Y)

	all, none := td.Split(10)
	assert.Equal(t, 5, all.Len())
	assert.Equal(t, 0, none.Len())

	cp := td.Copy()
	cp.Y[0] = 9
	assert.Equal(t, 1.0, td.Y[0])
}

func TestIndex(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 2, 3}, Index(4))
	assert.Empty(t, Index(0))
}
