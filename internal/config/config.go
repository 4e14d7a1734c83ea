// Package config loads engine-wide defaults (profile, worker count,
// threshold sizes) from an optional config file and the environment,
// following the same viper-backed layered-defaults pattern used
// elsewhere in this codebase's services.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidProfile = errors.New("invalid default profile")
	ErrInvalidWorkers = errors.New("worker count must be non-negative")
	ErrInvalidSample  = errors.New("sampling threshold must be positive")
)

// Default configuration values.
const (
	defaultProfile         = "balanced"
	defaultWorkers         = 0 // 0 means min(block_count, logical_cpu_count)
	defaultSampleThreshold = "64KiB"
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
)

var validProfiles = map[string]bool{
	"lightning": true, "fast": true, "balanced": true, "high": true, "max": true,
}

// Config holds engine-wide defaults. CLI flags always take priority over
// these when both are set; Config only fills in what the caller omits.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig holds compression-engine defaults.
type EngineConfig struct {
	DefaultProfile  string `mapstructure:"default_profile"`
	Workers         int    `mapstructure:"workers"`
	SampleThreshold string `mapstructure:"sample_threshold"`
}

// LoggingConfig holds structured-logging defaults.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SampleThresholdBytes parses EngineConfig.SampleThreshold via humanize,
// falling back to the compiled-in default on a parse failure since this
// value has already passed validation by the time anything reads it.
func (e EngineConfig) SampleThresholdBytes() uint64 {
	n, err := humanize.ParseBytes(e.SampleThreshold)
	if err != nil {
		n, _ = humanize.ParseBytes(defaultSampleThreshold)
	}
	return n
}

// Defaults returns the package's compiled-in configuration, with no
// config file or environment layered on top. This is the bottom layer
// of the precedence chain: CLI flags override a loaded Config, which
// overrides Defaults().
func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultProfile:  defaultProfile,
			Workers:         defaultWorkers,
			SampleThreshold: defaultSampleThreshold,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load reads configuration from configPath (if non-empty), the current
// directory, and the TURBOZIP_-prefixed environment, layered over
// compiled-in defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("turbozip")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/turbozip")
	}

	v.SetEnvPrefix("TURBOZIP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.default_profile", defaultProfile)
	v.SetDefault("engine.workers", defaultWorkers)
	v.SetDefault("engine.sample_threshold", defaultSampleThreshold)

	v.SetDefault("logging.level", defaultLoggingLevel)
	v.SetDefault("logging.format", defaultLoggingFormat)
}

func validate(cfg *Config) error {
	if !validProfiles[cfg.Engine.DefaultProfile] {
		return fmt.Errorf("%w: %q", ErrInvalidProfile, cfg.Engine.DefaultProfile)
	}
	if cfg.Engine.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Engine.Workers)
	}
	if _, err := humanize.ParseBytes(cfg.Engine.SampleThreshold); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSample, err)
	}
	return nil
}
