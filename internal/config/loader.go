package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/denguelab/go-sarima/sarima"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DENGUE_SARIMA_PERIOD
const EnvPrefix = "DENGUE"

// Load loads configuration from file. With an empty path the usual locations are searched and
// a missing file falls back to the defaults. PORT overrides server.port.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/dengue")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind port env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output_path", def.Logging.OutputPath)
	v.SetDefault("logging.time_format", def.Logging.TimeFormat)

	v.SetDefault("sarima.ar", def.Sarima.AR)
	v.SetDefault("sarima.diff", def.Sarima.Diff)
	v.SetDefault("sarima.ma", def.Sarima.MA)
	v.SetDefault("sarima.seasonal_ar", def.Sarima.SeasonalAR)
	v.SetDefault("sarima.seasonal_diff", def.Sarima.SeasonalDiff)
	v.SetDefault("sarima.seasonal_ma", def.Sarima.SeasonalMA)
	v.SetDefault("sarima.period", def.Sarima.Period)
	v.SetDefault("sarima.bound", def.Sarima.Bound)
	v.SetDefault("sarima.max_evaluations", def.Sarima.MaxEvaluations)
	v.SetDefault("sarima.include_intercept", def.Sarima.IncludeIntercept)

	v.SetDefault("forecast.default_steps", def.Forecast.DefaultSteps)
	v.SetDefault("forecast.min_steps", def.Forecast.MinSteps)
	v.SetDefault("forecast.max_steps", def.Forecast.MaxSteps)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration. The default order is SARIMA(1,0,1)(1,0,1)12 and
// forecasts default to 6 steps within [1, 60].
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 7000,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
		Sarima: SarimaConfig{
			AR:             1,
			MA:             1,
			SeasonalAR:     1,
			SeasonalMA:     1,
			Period:         12,
			Bound:          sarima.DefaultBound,
			MaxEvaluations: sarima.DefaultMaxEvaluations,
		},
		Forecast: ForecastConfig{
			DefaultSteps: 6,
			MinSteps:     1,
			MaxSteps:     60,
		},
	}
}
