// Package config loads the sigdemo settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the demo configuration.
type Config struct {
	Runtime RuntimeConfig `mapstructure:"runtime"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// RuntimeConfig holds the reactive runtime settings.
type RuntimeConfig struct {
	MaxPasses int `mapstructure:"max_passes"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds the Prometheus observer settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// TracingConfig holds the OpenTelemetry observer settings.
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	TracerName string `mapstructure:"tracer_name"`
}

// flag name for each config key, bound when the flag set defines it
var flagKeys = map[string]string{
	"runtime.max_passes": "max-passes",
	"log.level":          "log-level",
	"log.format":         "log-format",
	"metrics.enabled":    "metrics",
	"tracing.enabled":    "trace",
}

// Load reads configuration from defaults, the config file, env and flags, in increasing priority.
// Env var overrides use prefix SIGDEMO_. The config file is $SIGDEMO_CONFIG, or the --config flag,
// or config.toml in ~/.config/sigdemo when present.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("runtime.max_passes", 1000)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "sig")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.tracer_name", "sigdemo")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SIGDEMO_CONFIG")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			cfgPath = f.Value.String()
		}
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "sigdemo"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SIGDEMO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, name := range flagKeys {
		if flags == nil {
			break
		}
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	// a missing default config file is fine, an explicit one must exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks the values Load cannot enforce by type.
func (c Config) Validate() error {
	if c.Runtime.MaxPasses <= 0 {
		return fmt.Errorf("runtime.max_passes must be positive, got %d", c.Runtime.MaxPasses)
	}

	if _, err := c.Log.level(); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (c LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds the logger described by the config, writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}
