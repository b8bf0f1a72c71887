// Package paths resolves where the notebook keeps its configuration and
// its data. Each location follows flag > environment > platform default;
// the data directory also honours the data_dir key of config.yaml.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform locations.
const AppName = "notebook"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "NOTEBOOK_CONFIG_DIR"
	EnvDataDir   = "NOTEBOOK_DATA_DIR"
)

// File names inside the configuration directory.
const (
	ConfigFileName    = "config.yaml"
	EnvFileName       = ".env"
	TemplatesFileName = "templates.yaml"
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
// Linux:   $XDG_CONFIG_HOME/notebook (fallback ~/.config/notebook)
// macOS:   ~/Library/Application Support/notebook
// Windows: %APPDATA%/notebook
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	return userDir()
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/notebook (fallback ~/.local/share/notebook)
// Others:  same as DefaultConfigDir
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	return userDir()
}

func xdgDir(env, homeRel string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// userDir covers macOS (~/Library/Application Support) and Windows
// (%APPDATA%).
func userDir() (string, error) {
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > NOTEBOOK_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory:
// flag > config.yaml data_dir > NOTEBOOK_DATA_DIR > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDir, flag, configValue, os.Getenv(EnvDataDir))
}

// resolve returns the first non-empty candidate as an absolute path, or
// the default.
func resolve(def func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return def()
}

// ConfigFile returns the path of config.yaml in dir.
func ConfigFile(dir string) string { return filepath.Join(dir, ConfigFileName) }

// EnvFile returns the path of the .env file in dir.
func EnvFile(dir string) string { return filepath.Join(dir, EnvFileName) }

// TemplatesFile returns the path of the user templates file in dir.
func TemplatesFile(dir string) string { return filepath.Join(dir, TemplatesFileName) }
