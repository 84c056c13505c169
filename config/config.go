// Package config loads the command line settings from an optional YAML file
// and CCSIM_ environment variables.
package config

import (
	"fmt"
	"strings"

	"callcenter-sim/runmodel"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CCSIM"

// Config holds the settings shared by all commands.
type Config struct {
	// Strict rejects models with dangling references instead of repairing
	// them.
	Strict bool `mapstructure:"strict"`
	// MaxThreads limits the simulation threads; zero or less means one per
	// core.
	MaxThreads int    `mapstructure:"max_threads"`
	Language   string `mapstructure:"language"`
	LogLevel   string `mapstructure:"log_level"`
	Format     string `mapstructure:"format"`
}

// Load reads the configuration. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("strict", true)
	v.SetDefault("max_threads", 0)
	v.SetDefault("language", "en")
	v.SetDefault("log_level", "info")
	v.SetDefault("format", "text")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the output format and the log level.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", c.Format)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// Level returns the configured log level, info when it cannot be parsed.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Options returns the compiler options.
func (c *Config) Options() runmodel.Options {
	return runmodel.Options{
		Strict:   c.Strict,
		Threads:  c.MaxThreads,
		Language: c.Language,
	}
}
