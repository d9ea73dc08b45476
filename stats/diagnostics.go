package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/denguelab/go-sarima/models"
)

var (
	ErrMinimumFeatures    = errors.New("need at least 2 features to compute VIF")
	ErrFeatureLenMismatch = errors.New("some feature length is not consistent")
	ErrFeatureLen         = errors.New("must have at least 2 points per feature")
)

// DetectOutliers returns the indices of values outside the inner percentile range widened by the
// tukey factor on both sides.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy))*upperPerc)) - 1
	lowerIdx = min(max(lowerIdx, 0), len(yCopy)-1)
	upperIdx = min(max(upperIdx, lowerIdx), len(yCopy)-1)

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// VarianceInflationFactor regresses each feature column on the remaining columns and returns
// 1/(1-R2) per column. Columns perfectly explained by the others report +Inf.
func VarianceInflationFactor(features [][]float64) ([]float64, error) {
	if len(features) < 2 {
		return nil, ErrMinimumFeatures
	}
	m := len(features[0])
	for _, feature := range features {
		if len(feature) < 2 {
			return nil, ErrFeatureLen
		}
		if len(feature) != m {
			return nil, ErrFeatureLenMismatch
		}
	}

	vif := make([]float64, len(features))
	for col, target := range features {
		x := make([][]float64, m)
		for i := 0; i < m; i++ {
			row := make([]float64, 0, len(features)-1)
			for other, feature := range features {
				if other == col {
					continue
				}
				row = append(row, feature[i])
			}
			x[i] = row
		}

		model, err := models.FitOLS(x, target)
		if err != nil {
			if errors.Is(err, models.ErrSingularDesign) {
				vif[col] = math.Inf(1)
				continue
			}
			return nil, fmt.Errorf("unable to regress feature %d, %w", col, err)
		}
		r2 := model.RSquared()
		if r2 >= 1.0 {
			vif[col] = math.Inf(1)
			continue
		}
		vif[col] = 1.0 / (1.0 - r2)
	}
	return vif, nil
}
