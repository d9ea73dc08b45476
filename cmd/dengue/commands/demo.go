package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/denguelab/go-sarima/predictor"
	"github.com/denguelab/go-sarima/sarima"
)

const demoSteps = 6

var demoOrder = sarima.Order{P: 1, Q: 1, SeasonalP: 1, SeasonalQ: 1, Period: 12}

// NewDemoCmd runs the trend regression and seasonal forecast over the built in sample series and,
// when given, a csv file.
func NewDemoCmd(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo [csv]",
		Short: "Run the regression and a seasonal forecast on the sample data",
		Example: `  # Sample series only
  dengue demo

  # Also forecast a csv of cases with optional covariate columns
  dengue demo cases.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), g, args)
		},
	}
}

func runDemo(w io.Writer, g *GlobalOptions, args []string) error {
	opt := &predictor.Options{
		Logger: g.logger,
		Sarima: g.cfg.Sarima.Options(),
	}

	p, err := predictor.New(predictor.SampleCases(), nil, opt)
	if err != nil {
		return err
	}
	if err := p.FitRegression(); err != nil {
		return err
	}

	lr := p.Regression()
	fitted, err := p.Fitted()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Time index regression")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Intercept:          %.4f\n", lr.Intercept())
	fmt.Fprintf(w, "Slope:              %.4f\n", lr.Coefficients()[1])
	fmt.Fprintf(w, "R-squared:          %.4f\n", lr.RSquared())
	fmt.Fprintf(w, "Adjusted R-squared: %.4f\n", lr.AdjustedRSquared())
	fmt.Fprintf(w, "First fitted:       %s\n", formatValues(fitted[:min(5, len(fitted))]))

	if err := demoForecast(w, "sample", p); err != nil {
		return err
	}

	if len(args) == 0 {
		return nil
	}
	csvPred, err := predictor.LoadCSV(args[0], opt)
	if err != nil {
		fmt.Fprintf(w, "\nUnable to read %s: %v\n", args[0], err)
		return nil
	}
	if err := demoForecast(w, args[0], csvPred); err != nil {
		fmt.Fprintf(w, "\nUnable to forecast %s: %v\n", args[0], err)
	}
	return nil
}

func demoForecast(w io.Writer, name string, p *predictor.Predictor) error {
	if err := p.FitSarima(demoOrder); err != nil {
		return err
	}
	forecast, err := p.ForecastSarima(demoSteps)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nSARIMA%s forecast of %s (%d cases, %s)\n",
		demoOrder, name, len(p.Cases()), p.Sarima().Quality())
	fmt.Fprintf(w, "%s\n", formatValues(forecast))
	return nil
}

func formatValues(vals []float64) string {
	out := ""
	for i, v := range vals {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%.2f", v)
	}
	return "[" + out + "]"
}
