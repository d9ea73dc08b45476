package config

import (
	"errors"
	"fmt"

	"github.com/denguelab/go-sarima/sarima"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Sarima   SarimaConfig   `mapstructure:"sarima"`
	Forecast ForecastConfig `mapstructure:"forecast"`
}

// ServerConfig represents the http server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // trace, debug, info, warn, error
	Format     string `mapstructure:"format"`      // json or console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr or a file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix or Kitchen for console output
}

// SarimaConfig is the default model order used when a request does not carry one, and the
// estimator settings. Keys are spelled out since viper keys are case insensitive.
type SarimaConfig struct {
	AR           int `mapstructure:"ar"`
	Diff         int `mapstructure:"diff"`
	MA           int `mapstructure:"ma"`
	SeasonalAR   int `mapstructure:"seasonal_ar"`
	SeasonalDiff int `mapstructure:"seasonal_diff"`
	SeasonalMA   int `mapstructure:"seasonal_ma"`
	Period       int `mapstructure:"period"`

	Bound            float64 `mapstructure:"bound"`
	MaxEvaluations   int     `mapstructure:"max_evaluations"`
	IncludeIntercept bool    `mapstructure:"include_intercept"`
}

// ForecastConfig bounds the number of forecast steps a request may ask for
type ForecastConfig struct {
	DefaultSteps int `mapstructure:"default_steps"`
	MinSteps     int `mapstructure:"min_steps"`
	MaxSteps     int `mapstructure:"max_steps"`
}

// Order returns the configured default model order
func (c SarimaConfig) Order() sarima.Order {
	return sarima.Order{
		P:         c.AR,
		D:         c.Diff,
		Q:         c.MA,
		SeasonalP: c.SeasonalAR,
		SeasonalD: c.SeasonalDiff,
		SeasonalQ: c.SeasonalMA,
		Period:    c.Period,
	}
}

// Options returns the estimator options
func (c SarimaConfig) Options() *sarima.Options {
	opt := sarima.NewDefaultOptions()
	opt.Bound = c.Bound
	opt.MaxEvaluations = c.MaxEvaluations
	opt.IncludeIntercept = c.IncludeIntercept
	return opt
}

// ClampSteps returns steps limited to [MinSteps, MaxSteps]
func (c ForecastConfig) ClampSteps(steps int) int {
	return max(c.MinSteps, min(c.MaxSteps, steps))
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := c.Sarima.Validate(); err != nil {
		return fmt.Errorf("sarima config: %w", err)
	}
	if err := c.Forecast.Validate(); err != nil {
		return fmt.Errorf("forecast config: %w", err)
	}
	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: %w", c.Port, ErrInvalidConfig)
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid level %q: %w", c.Level, ErrInvalidConfig)
	}
	switch c.Format {
	case "json", "console", "pretty":
	default:
		return fmt.Errorf("invalid format %q: %w", c.Format, ErrInvalidConfig)
	}
	return nil
}

// Validate checks the default order and the estimator options
func (c *SarimaConfig) Validate() error {
	if err := c.Order().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate requires 1 <= min_steps <= default_steps <= max_steps
func (c *ForecastConfig) Validate() error {
	if c.MinSteps < 1 {
		return fmt.Errorf("min_steps must be at least 1 but got %d: %w", c.MinSteps, ErrInvalidConfig)
	}
	if c.DefaultSteps < c.MinSteps || c.DefaultSteps > c.MaxSteps {
		return fmt.Errorf("default_steps %d outside [%d, %d]: %w", c.DefaultSteps, c.MinSteps, c.MaxSteps, ErrInvalidConfig)
	}
	return nil
}
