// Package commands holds the dengue command line interface
package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/denguelab/go-sarima/internal/config"
	"github.com/denguelab/go-sarima/internal/logging"
)

// GlobalOptions are the persistent flags shared by every command along with the configuration
// and logger they resolve to.
type GlobalOptions struct {
	ConfigFile string
	Verbose    bool

	cfg    *config.Config
	logger *logging.Logger
}

// NewRootCmd builds the dengue command tree
func NewRootCmd() *cobra.Command {
	g := &GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "dengue",
		Short: "Dengue case trend regression and seasonal forecasting",
		Long: `Fits a least squares time trend and a seasonal ARIMA model to monthly
dengue case counts and forecasts the coming months.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init(cmd.Name())
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.ConfigFile, "config", "", "config file (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewDemoCmd(g))
	rootCmd.AddCommand(NewForecastCmd(g))
	rootCmd.AddCommand(NewServeCmd(g))

	return rootCmd
}

func (g *GlobalOptions) init(command string) error {
	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// stdout carries command output everywhere but serve
	if command != "serve" && cfg.Logging.OutputPath == "stdout" {
		cfg.Logging.OutputPath = "stderr"
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if g.Verbose {
		logger = logging.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr}, zerolog.DebugLevel)
	}
	logging.SetGlobal(logger)

	if g.Verbose && g.ConfigFile != "" {
		logger.Debug("Using config file", "path", g.ConfigFile)
	}

	g.cfg = cfg
	g.logger = logger
	return nil
}
