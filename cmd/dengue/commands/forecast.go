package commands

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/denguelab/go-sarima/plot"
	"github.com/denguelab/go-sarima/predictor"
	"github.com/denguelab/go-sarima/sarima"
)

// ForecastOptions are the flags of the forecast command
type ForecastOptions struct {
	InputFile    string
	Order        string
	Steps        int
	OutputFormat string
	PlotFile     string
	Profile      string
}

// ForecastResult is the json output of the forecast command
type ForecastResult struct {
	Order        sarima.Order           `json:"order"`
	Quality      sarima.FitQuality      `json:"quality"`
	Coefficients sarima.Coefficients    `json:"coefficients"`
	Regression   []float64              `json:"regression_coefficients"`
	Covariates   bool                   `json:"covariates"`
	RSquared     float64                `json:"regression_r_squared"`
	Forecast     []float64              `json:"forecast"`
	Diagnostics  *predictor.Diagnostics `json:"diagnostics"`
}

// NewForecastCmd fits a seasonal model of a given order on a csv of cases and forecasts it
func NewForecastCmd(g *GlobalOptions) *cobra.Command {
	opts := &ForecastOptions{}

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast a csv of case counts with a seasonal ARIMA model",
		Example: `  # Configured order, six steps
  dengue forecast --input cases.csv

  # Yearly seasonal random walk for a year, as json with a chart
  dengue forecast --input cases.csv --order 0,1,1,0,1,1,12 --steps 12 --format json --plot out.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd.OutOrStdout(), g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "csv of cases with optional covariate columns (required)")
	cmd.Flags().StringVar(&opts.Order, "order", "", "model order as p,d,q,P,D,Q,s (defaults to the configured order)")
	cmd.Flags().IntVar(&opts.Steps, "steps", 0, "number of steps to forecast (defaults to the configured steps)")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "text", "output format (text, json)")
	cmd.Flags().StringVar(&opts.PlotFile, "plot", "", "write an html chart to this file")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "profile the fit (cpu, mem)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runForecast(w io.Writer, g *GlobalOptions, opts *ForecastOptions) error {
	switch opts.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile %q, expected cpu or mem", opts.Profile)
	}
	if opts.OutputFormat != "text" && opts.OutputFormat != "json" {
		return fmt.Errorf("unknown format %q, expected text or json", opts.OutputFormat)
	}

	order := g.cfg.Sarima.Order()
	if opts.Order != "" {
		var err error
		if order, err = sarima.ParseOrder(opts.Order); err != nil {
			return err
		}
	}
	steps := g.cfg.Forecast.DefaultSteps
	if opts.Steps != 0 {
		steps = g.cfg.Forecast.ClampSteps(opts.Steps)
	}

	p, err := predictor.LoadCSV(opts.InputFile, &predictor.Options{
		Logger: g.logger,
		Sarima: g.cfg.Sarima.Options(),
	})
	if err != nil {
		return err
	}
	if err := p.FitRegression(); err != nil {
		return err
	}
	if err := p.FitSarima(order); err != nil {
		return err
	}
	forecast, err := p.ForecastSarima(steps)
	if err != nil {
		return err
	}
	diag, err := p.Diagnostics()
	if err != nil {
		return err
	}

	lr := p.Regression()
	res := ForecastResult{
		Order:        order,
		Quality:      p.Sarima().Quality(),
		Coefficients: p.Sarima().Coefficients(),
		Regression:   lr.Coefficients(),
		Covariates:   p.HasCovariates(),
		RSquared:     lr.RSquared(),
		Forecast:     forecast,
		Diagnostics:  diag,
	}

	if opts.PlotFile != "" {
		fitted, err := p.Fitted()
		if err != nil {
			return err
		}
		data := plot.ForecastData{
			History:   p.Cases(),
			Fitted:    fitted,
			Forecast:  forecast,
			Residuals: p.Sarima().Residuals(),
		}
		if err := plot.ForecastFile(opts.PlotFile, "SARIMA"+order.String(), data); err != nil {
			return err
		}
		g.logger.Info("Wrote forecast chart", "path", opts.PlotFile)
	}

	if opts.OutputFormat == "json" {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
		return nil
	}
	printForecast(w, opts.InputFile, &res)
	return nil
}

func printForecast(w io.Writer, name string, res *ForecastResult) {
	fmt.Fprintf(w, "SARIMA%s fit of %s (%s)\n", res.Order, name, res.Quality)
	fmt.Fprintf(w, "AR:          %s\n", formatValues(res.Coefficients.AR))
	fmt.Fprintf(w, "MA:          %s\n", formatValues(res.Coefficients.MA))
	fmt.Fprintf(w, "Seasonal AR: %s\n", formatValues(res.Coefficients.SeasonalAR))
	fmt.Fprintf(w, "Seasonal MA: %s\n", formatValues(res.Coefficients.SeasonalMA))
	fmt.Fprintf(w, "Intercept:   %.4f\n", res.Coefficients.Intercept)
	if res.Covariates {
		fmt.Fprintf(w, "Regression:  %s (R-squared %.4f)\n", formatValues(res.Regression), res.RSquared)
	} else {
		fmt.Fprintf(w, "Trend:       %.4f + %.4f t (R-squared %.4f)\n", res.Regression[0], res.Regression[1], res.RSquared)
	}

	d := res.Diagnostics
	fmt.Fprintf(w, "\nIn-sample MSE %.4f, MAPE %.4f, R-squared %.4f\n", d.Scores.MSE, d.Scores.MAPE, d.Scores.R2)
	if d.LjungBox != nil {
		fmt.Fprintf(w, "Ljung-Box Q(%d) = %.4f, p = %.4f\n", d.LjungBox.Lags, d.LjungBox.Statistic, d.LjungBox.PValue)
	}
	if len(d.ResidualOutliers) > 0 {
		fmt.Fprintf(w, "Residual outliers at %v\n", d.ResidualOutliers)
	}
	if len(d.CovariateVIF) > 0 {
		fmt.Fprintf(w, "Covariate VIF: %s\n", formatValues(d.CovariateVIF))
	}

	fmt.Fprintf(w, "\nForecast (%d steps): %s\n", len(res.Forecast), formatValues(res.Forecast))
}
