package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading.
type Manager struct {
	config     *Config
	viper      *viper.Viper
	explicit   bool
	configFile string
	mu         sync.RWMutex
}

// NewManager creates a configuration manager that searches the XDG config
// directory and the working directory for config.toml.
func NewManager() (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	m := &Manager{viper: v, configFile: filepath.Join(configDir, "config.toml")}
	if err := m.bindEnv(); err != nil {
		return nil, err
	}
	m.setDefaults()
	return m, nil
}

// NewManagerForFile creates a configuration manager bound to one file. The
// file must exist when Load is called.
func NewManagerForFile(path string) (*Manager, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)

	m := &Manager{viper: v, explicit: true, configFile: path}
	if err := m.bindEnv(); err != nil {
		return nil, err
	}
	m.setDefaults()
	return m, nil
}

func (m *Manager) bindEnv() error {
	m.viper.SetEnvPrefix("NVPRIME")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	// Short aliases for the settings most often overridden from a shell.
	bindings := map[string]string{
		"logging.level":      "NVPRIME_LOG_LEVEL",
		"logging.format":     "NVPRIME_LOG_FORMAT",
		"backend.kind":       "NVPRIME_BACKEND",
		"device.render_node": "NVPRIME_RENDER_NODE",
	}
	for key, env := range bindings {
		if err := m.viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// Load reads defaults, the config file when present, and environment
// overrides, then normalizes and validates the result.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.ConfigFileUsed(),
			err,
		)
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !m.explicit && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.configFile, err)
}

func normalizeConfig(config *Config) {
	config.Backend.Kind = BackendKind(strings.ToLower(strings.TrimSpace(string(config.Backend.Kind))))
	if config.Backend.Kind == "" {
		config.Backend.Kind = BackendHost
	}
	config.Backend.Host.DeviceUUID = strings.TrimSpace(config.Backend.Host.DeviceUUID)
	config.Device.RenderNode = strings.TrimSpace(config.Device.RenderNode)
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Level == "warning" {
		config.Logging.Level = "warn"
	}
}

// Get returns a copy of the loaded configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// ConfigFileUsed returns the file Load read, or the path it would have
// created when no file was found.
func (m *Manager) ConfigFileUsed() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return m.configFile
}

// WriteDefault writes the default configuration and its JSON schema next to
// each other. An existing config file is left untouched.
func (m *Manager) WriteDefault() (string, error) {
	configFile := m.configFile
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	if err := GenerateSchemaFile(filepath.Dir(configFile)); err != nil {
		return configFile, err
	}
	return configFile, nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("device.render_node", defaults.Device.RenderNode)
	m.viper.SetDefault("device.strict_match", defaults.Device.StrictMatch)

	m.viper.SetDefault("backend.kind", string(defaults.Backend.Kind))
	m.viper.SetDefault("backend.cuda_library", defaults.Backend.CUDALibrary)
	m.viper.SetDefault("backend.host.pitch_alignment", defaults.Backend.Host.PitchAlignment)
	m.viper.SetDefault("backend.host.device_uuid", defaults.Backend.Host.DeviceUUID)
	m.viper.SetDefault("backend.host.device_count", defaults.Backend.Host.DeviceCount)

	m.viper.SetDefault("copy.stream", defaults.Copy.Stream)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}
