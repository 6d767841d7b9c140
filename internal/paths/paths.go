// Package paths resolves the configuration directory and the directory crop
// files are read from and created in.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user configuration directory.
const AppName = "crops"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CROPS_CONFIG_DIR"
	EnvCropDir   = "CROPS_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/crops (fallback ~/.config/crops)
// macOS:   ~/Library/Application Support/crops
// Windows: %APPDATA%/crops
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > CROPS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveCropDir returns the directory relative crop paths are resolved
// against: flag > configYAMLValue > CROPS_DIR env. It returns "" when none is
// set, meaning paths are used as given (relative to the working directory).
func ResolveCropDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(expandHome(configYAMLValue))
	}
	if env := os.Getenv(EnvCropDir); env != "" {
		return filepath.Abs(expandHome(env))
	}
	return "", nil
}

// expandHome replaces a leading "~/" with the user's home directory, which
// shells do for flags but not for config values.
func expandHome(p string) string {
	if len(p) < 2 || p[:2] != "~/" {
		return p
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
