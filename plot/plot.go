// Package plot renders case series and their forecasts as Apache Echarts html pages.
package plot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoHistory = errors.New("no history to plot")

// missing is the echarts marker for a gap in a line
const missing = "-"

// ForecastData is everything drawn on a forecast page. Fitted and Residuals align with the start
// of History when shorter; Forecast continues after its end.
type ForecastData struct {
	History   []float64
	Fitted    []float64
	Forecast  []float64
	Residuals []float64
}

// LineSeries generates an echart multi-line chart over an integer index axis. Each series is
// drawn from the first index and NaN values are left as gaps.
func LineSeries(title string, seriesName []string, n int, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	x := make([]int, n)
	for i := range x {
		x[i] = i
	}
	line = line.SetXAxis(x)

	for i, series := range seriesName {
		var vals []float64
		if i < len(y) {
			vals = y[i]
		}
		line = line.AddSeries(series, lineData(vals, n))
	}
	return line
}

func lineData(y []float64, n int) []opts.LineData {
	data := make([]opts.LineData, n)
	for i := range data {
		if i >= len(y) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			data[i] = opts.LineData{Value: missing}
			continue
		}
		data[i] = opts.LineData{Value: y[i]}
	}
	return data
}

// shift places y starting at offset on an axis of length n, padding the rest with NaN
func shift(y []float64, offset, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	for i, v := range y {
		if offset+i >= n {
			break
		}
		out[offset+i] = v
	}
	return out
}

// Forecast writes a page with the history, fitted values and forecast on one chart and the
// residuals on a second chart when present.
func Forecast(w io.Writer, title string, data ForecastData) error {
	if len(data.History) == 0 {
		return ErrNoHistory
	}
	n := len(data.History) + len(data.Forecast)

	forecast := shift(data.Forecast, len(data.History), n)
	if len(data.Forecast) > 0 {
		// connect the forecast line to the last observation
		forecast[len(data.History)-1] = data.History[len(data.History)-1]
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		LineSeries(
			title,
			[]string{"Cases", "Fitted", "Forecast"},
			n,
			[][]float64{data.History, data.Fitted, forecast},
		),
	)
	if len(data.Residuals) > 0 {
		residuals := shift(data.Residuals, len(data.History)-len(data.Residuals), len(data.History))
		page.AddCharts(
			LineSeries("Residual", []string{"Residual"}, len(data.History), [][]float64{residuals}),
		)
	}
	return page.Render(w)
}

// ForecastFile renders Forecast into a new html file at path
func ForecastFile(path, title string, data ForecastData) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create plot file, %w", err)
	}
	if err := Forecast(file, title, data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
