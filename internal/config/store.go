package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pakrecharge/topup/internal/topup"
)

const (
	appName    = "pakrecharge"
	configFile = "config.yaml"
)

var (
	// Global settings instance (loaded lazily)
	globalSettings     *Settings
	globalSettingsOnce sync.Once
	globalSettingsErr  error

	// Set by --config
	overridePath string

	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// SetPath makes every later load and save use path instead of the OS
// location. An empty path restores the default.
func SetPath(path string) {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	overridePath = path
	globalSettingsOnce = sync.Once{}
}

// GetConfigDir returns the OS-appropriate configuration directory for the application.
//   - Linux: $XDG_CONFIG_HOME/pakrecharge or $HOME/.config/pakrecharge
//   - macOS: $HOME/.config/pakrecharge
//   - Windows: %LOCALAPPDATA%\pakrecharge
func GetConfigDir() (string, error) {
	if overridePath != "" {
		return filepath.Dir(overridePath), nil
	}

	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			// Fallback to USERPROFILE\AppData\Local if LOCALAPPDATA not set
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the settings file.
func GetConfigPath() (string, error) {
	if overridePath != "" {
		return overridePath, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Exists reports whether a settings file is present.
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load loads the settings from disk.
// If the file doesn't exist, returns the defaults.
// Thread-safe - multiple calls will return the same instance.
func Load() (*Settings, error) {
	globalSettingsOnce.Do(func() {
		path, err := GetConfigPath()
		if err != nil {
			globalSettingsErr = topup.NewConfigError("failed to get config path", err)
			return
		}
		globalSettings, globalSettingsErr = LoadFile(path)
	})
	return globalSettings, globalSettingsErr
}

// Reload reloads the settings from disk, discarding any in-memory changes.
func Reload() (*Settings, error) {
	fileMutex.Lock()
	globalSettingsOnce = sync.Once{}
	fileMutex.Unlock()
	return Load()
}

// LoadFile reads settings from a specific file. A missing file yields the
// defaults; anything unreadable or invalid is a config error.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewSettings(), nil
	}
	if err != nil {
		return nil, topup.NewConfigError("failed to read config file", err)
	}

	settings, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// Parse decodes and validates settings YAML.
func Parse(data []byte) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, topup.NewConfigError("failed to parse config file", err)
	}

	if settings.Version != CurrentVersion {
		return nil, topup.NewConfigError(
			fmt.Sprintf("unsupported config version: %d (expected %d)", settings.Version, CurrentVersion), nil)
	}

	settings.fillDefaults()

	if errs := settings.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, topup.NewConfigError("invalid settings: "+strings.Join(msgs, "; "), errors.Join(errs...))
	}

	return &settings, nil
}

// Marshal encodes settings with a descriptive header.
func (s *Settings) Marshal(location string) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# PakRecharge Settings
# Catalog offered by the top-up form, session timing and server preferences.
# Durations use Go syntax (2s, 500ms). Delete this file to restore defaults.
#
# Location: ` + location + `

`)
	return append(header, data...), nil
}

// Save saves the settings to disk.
// Performs an atomic write to prevent corruption on crash.
func (s *Settings) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Create directory with user-only permissions (0700)
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := s.Marshal(configPath)
	if err != nil {
		return err
	}

	// Write to temporary file first (atomic write)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		// Clean up temp file on error
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig writes the default settings to disk. Refuses to
// overwrite an existing file unless force is set.
func CreateDefaultConfig(force bool) (string, error) {
	path, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if !force && Exists() {
		return path, fmt.Errorf("config file already exists: %s", path)
	}
	return path, NewSettings().Save()
}
