package predictor

import "slices"

// sampleCases is four years of synthetic monthly dengue case counts
var sampleCases = []float64{
	45, 52, 61, 78, 88, 95, 102, 98, 85, 72, 58, 48,
	50, 55, 65, 82, 92, 100, 108, 104, 88, 75, 62, 51,
	48, 54, 68, 85, 94, 103, 112, 106, 90, 78, 64, 52,
	52, 58, 70, 86, 96, 105, 115, 108, 92, 80, 66, 55,
}

// SampleCases returns a copy of the built in monthly sample series
func SampleCases() []float64 {
	return slices.Clone(sampleCases)
}
