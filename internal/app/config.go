package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration,
// e.g. ODEGRID_LOG_LEVEL for log.level.
const EnvPrefix = "ODEGRID"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ModelPaths are model files or directories of them. They come from the
	// command line, never from a config file.
	ModelPaths []string `mapstructure:"-"`

	Log      LogConfig      `mapstructure:"log"`
	Validate ValidateConfig `mapstructure:"validate"`
	Naming   NamingConfig   `mapstructure:"naming"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ValidateConfig struct {
	RemoveUnused bool `mapstructure:"remove_unused"`
}

type NamingConfig struct {
	Reserved  []string          `mapstructure:"reserved"`
	Prefixes  map[string]string `mapstructure:"prefixes"`
	Separator string            `mapstructure:"separator"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// File receives the metrics in the Prometheus text format when the app
	// is closed. Setting it enables metrics.
	File string `mapstructure:"file"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// File receives the spans as JSON lines and enables tracing. Enabled
	// without a file sends spans to the log writer.
	File string `mapstructure:"file"`
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ModelPaths) == 0 {
		return nil, errors.New("at least one model path is required")
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Log.Level)
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.Log.Format)
	}
	if cfg.Metrics.File != "" {
		cfg.Metrics.Enabled = true
	}
	if cfg.Tracing.File != "" {
		cfg.Tracing.Enabled = true
	}
	if strings.ContainsAny(cfg.Naming.Separator, ". ") {
		return nil, fmt.Errorf("invalid naming separator %q", cfg.Naming.Separator)
	}
	return &cfg, nil
}

// NewViper returns a viper instance with every key defaulted and bound to
// its ODEGRID_* environment variable.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("validate.remove_unused", false)
	v.SetDefault("naming.reserved", []string{})
	v.SetDefault("naming.prefixes", map[string]string{})
	v.SetDefault("naming.separator", "_")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.file", "")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the optional config file into v and builds a validated
// Config for the given model paths.
func LoadConfig(v *viper.Viper, configFile string, modelPaths []string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.ModelPaths = modelPaths
	return NewConfig(cfg)
}
