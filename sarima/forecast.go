package sarima

import "fmt"

// ForecastDifferenced forecasts steps values of the working series. Forecasts feed later AR terms
// and future innovations are taken as zero.
func (f *Fitted) ForecastDifferenced(steps int) ([]float64, error) {
	if err := f.valid(); err != nil {
		return nil, err
	}
	if steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1 but got %d, %w", steps, ErrInvalidInput)
	}

	n := len(f.working)
	z := make([]float64, n+steps)
	copy(z, f.working)
	e := make([]float64, n+steps)
	copy(e, f.innovations)

	period := f.order.period()
	for t := n; t < n+steps; t++ {
		z[t] = predictAt(z, e, f.coef, period, t)
	}
	return z[n:], nil
}

// Forecast forecasts steps values on the scale of the fitted series. Orders that difference the
// series need it back to integrate and fail with ErrMissingSeriesForIntegration; use ForecastFrom.
func (f *Fitted) Forecast(steps int) ([]float64, error) {
	return f.ForecastFrom(nil, steps)
}

// ForecastFrom forecasts steps values following original, the series the model was fitted on.
// original may be nil when the order does not difference and otherwise must have the fitted
// length.
func (f *Fitted) ForecastFrom(original []float64, steps int) ([]float64, error) {
	if err := f.valid(); err != nil {
		return nil, err
	}
	if f.order.Integrated() {
		if len(original) == 0 {
			return nil, fmt.Errorf("order %s, %w", f.order, ErrMissingSeriesForIntegration)
		}
		if n := f.seriesLen(); len(original) != n {
			return nil, fmt.Errorf("model was fitted on %d points but got %d to integrate, %w", n, len(original), ErrInvalidInput)
		}
	}

	diffForecast, err := f.ForecastDifferenced(steps)
	if err != nil {
		return nil, err
	}
	if !f.order.Integrated() {
		return diffForecast, nil
	}

	level, err := Integrate(original, diffForecast, f.order.D, f.order.seasonalDiff(), f.order.period())
	if err != nil {
		return nil, fmt.Errorf("unable to integrate forecast, %w", err)
	}
	return level, nil
}

// seriesLen is the length of the series the model was fitted on
func (f *Fitted) seriesLen() int {
	return len(f.working) + f.order.D + f.order.seasonalDiff()*f.order.period()
}
