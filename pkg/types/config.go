package types

import (
	"errors"
	"log/slog"
	"strings"
)

// Config holds the runtime settings loaded from config.yaml, CROPS_* env vars
// and global flags.
type Config struct {
	Language      string `mapstructure:"language" yaml:"language,omitempty"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	CropDir       string `mapstructure:"crop_dir" yaml:"crop_dir,omitempty"`
	DefaultSource string `mapstructure:"default_source" yaml:"default_source"`
}

// Configuration defaults.
const (
	DefaultLogLevel = "info"
	DefaultSource   = "seeds"
)

// Config validation errors.
var (
	ErrLogLevelUnknown = errors.New("unknown log level")
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		LogLevel:      DefaultLogLevel,
		DefaultSource: DefaultSource,
	}
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog.Level. An empty value means info.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, ErrLogLevelUnknown
	}
}
