package sarima

// predictAt is the one-step prediction of z[t] from earlier values of z and e. Terms that would
// reach before the start of the series are left out.
func predictAt(z, e []float64, coef Coefficients, period, t int) float64 {
	pred := coef.Intercept
	for i, phi := range coef.AR {
		j := t - 1 - i
		if j < 0 {
			break
		}
		pred += phi * z[j]
	}
	for i, theta := range coef.MA {
		j := t - 1 - i
		if j < 0 {
			break
		}
		pred += theta * e[j]
	}
	if period <= 1 {
		return pred
	}
	for i, phi := range coef.SeasonalAR {
		j := t - period*(i+1)
		if j < 0 {
			break
		}
		pred += phi * z[j]
	}
	for i, theta := range coef.SeasonalMA {
		j := t - period*(i+1)
		if j < 0 {
			break
		}
		pred += theta * e[j]
	}
	return pred
}

// Innovations returns the one-step prediction errors of z under coef for every index from start
// onward. Entries before start are zero and contribute nothing to later MA terms.
func Innovations(z []float64, coef Coefficients, order Order, start int) []float64 {
	e := make([]float64, len(z))
	start = max(start, 0)
	period := order.period()
	for t := start; t < len(z); t++ {
		e[t] = z[t] - predictAt(z, e, coef, period, t)
	}
	return e
}

// ConditionalSumOfSquares is the sum of squared innovations of z under coef over [start, len(z)).
func ConditionalSumOfSquares(z []float64, coef Coefficients, order Order, start int) float64 {
	e := Innovations(z, coef, order, start)
	var rss float64
	for t := max(start, 0); t < len(e); t++ {
		rss += e[t] * e[t]
	}
	return rss
}
