package config

import (
	"os"
	"path/filepath"
)

const appName = "nvprime"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			RenderNode:  "/dev/dri/renderD128",
			StrictMatch: false,
		},
		Backend: BackendConfig{
			Kind:        BackendHost,
			CUDALibrary: "libcuda.so.1",
			Host: HostBackendConfig{
				PitchAlignment: 256,
				DeviceCount:    1,
			},
		},
		Copy: CopyConfig{
			Stream: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// GetConfigDir returns $XDG_CONFIG_HOME/nvprime, defaulting to ~/.config/nvprime.
func GetConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appName), nil
}

// GetConfigFile returns the default config file path.
func GetConfigFile() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
