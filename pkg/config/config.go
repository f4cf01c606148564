// Package config provides configuration loading and validation for propconv.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidExtension    = errors.New("output extension must start with a dot")
	ErrInvalidReportFormat = errors.New("invalid report format")
	ErrInvalidColorMode    = errors.New("invalid color mode")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidLogFormat    = errors.New("invalid log format")
)

// EnvPrefix prefixes every environment variable read by [LoadConfig].
const EnvPrefix = "PROPCONV"

// Config holds all configuration for propconv.
type Config struct {
	Rules   RulesConfig   `mapstructure:"rules"`
	Output  OutputConfig  `mapstructure:"output"`
	Report  ReportConfig  `mapstructure:"report"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// RulesConfig selects the import rule table.
type RulesConfig struct {
	// File is a YAML rule table. Empty means the compiled-in table.
	File string `mapstructure:"file"`
}

// OutputConfig controls where converted files are written.
type OutputConfig struct {
	Extension string `mapstructure:"extension"`
	InPlace   bool   `mapstructure:"in_place"`
}

// ReportConfig controls the batch report.
type ReportConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics output configuration.
type MetricsConfig struct {
	// Textfile receives the Prometheus text exposition after a batch.
	Textfile string `mapstructure:"textfile"`
}

// LoadConfig loads configuration from file and environment variables. With
// an empty configPath, .propconv.yaml is looked up in the working directory
// and the home directory; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".propconv")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("rules.file", DefaultRulesFile)

	viperCfg.SetDefault("output.extension", DefaultOutputExtension)
	viperCfg.SetDefault("output.in_place", DefaultOutputInPlace)

	viperCfg.SetDefault("report.format", DefaultReportFormat)
	viperCfg.SetDefault("report.color", DefaultReportColor)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("metrics.textfile", DefaultMetricsTextfile)
}

func validateConfig(config *Config) error {
	if !strings.HasPrefix(config.Output.Extension, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, config.Output.Extension)
	}

	if !slices.Contains(ReportFormats, config.Report.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidReportFormat, config.Report.Format)
	}

	if !slices.Contains(ColorModes, config.Report.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColorMode, config.Report.Color)
	}

	if !slices.Contains(LogLevels, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains(LogFormats, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}
