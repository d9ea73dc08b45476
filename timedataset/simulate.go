package timedataset

import (
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
)

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) Clone() Series {
	return slices.Clone(s)
}

// SetConst sets every value with an index in [start, end) to val
func (s Series) SetConst(val float64, start, end int) Series {
	for i := max(start, 0); i < min(end, len(s)); i++ {
		s[i] = val
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateWaveY is a sine wave completing order cycles every period observations
func GenerateWaveY(n int, amp, period, order, offset float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/period*(float64(i)+offset))
		y = append(y, val)
	}
	return Series(y)
}

// GenerateNoise draws gaussian noise whose scale is modulated by a wave of the given period
func GenerateNoise(rng *rand.Rand, n int, noiseScale, amp, period, order, offset float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		scale := noiseScale + amp*math.Sin(2.0*math.Pi*order/period*(float64(i)+offset))
		y = append(y, rng.NormFloat64()*scale)
	}
	return Series(y)
}

// GenerateChange is zero before index chpt and bias + slope*(i-chpt) from it onwards
func GenerateChange(n, chpt int, bias, slope float64) Series {
	y := make([]float64, n)
	for i := max(chpt, 0); i < n; i++ {
		y[i] = bias + slope*float64(i-chpt)
	}
	return Series(y)
}

// GenerateTrend is the line bias + slope*i
func GenerateTrend(n int, bias, slope float64) Series {
	return GenerateChange(n, 0, bias, slope)
}

func GeneratePulseY(n int, amp, period, order, offset, duty float64) Series {
	y := make([]float64, 0, n)
	cycleCutoff := 1.0 - duty/2.0
	for i := 0; i < n; i++ {
		cyclePos := math.Cos(2.0 * math.Pi * order / period * (float64(i) + offset))
		val := 0.0
		if cyclePos >= cycleCutoff {
			val = amp
		}

		y = append(y, val)
	}
	return Series(y)
}

// GenerateAR simulates y[t] = sum(phi[i]*y[t-1-i]) + noise with gaussian noise of the given
// scale. The first burnIn points are discarded so the result starts near the stationary regime.
func GenerateAR(rng *rand.Rand, n int, phi []float64, noiseScale float64, burnIn int) Series {
	total := n + max(burnIn, 0)
	y := make([]float64, total)
	for t := 0; t < total; t++ {
		val := rng.NormFloat64() * noiseScale
		for i, c := range phi {
			if t-1-i < 0 {
				break
			}
			val += c * y[t-1-i]
		}
		y[t] = val
	}
	return Series(y[total-n:])
}
