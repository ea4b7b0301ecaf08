package config

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/bnema/nvprime/internal/domain/entity"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateDevice(config)...)
	validationErrors = append(validationErrors, validateBackend(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateDevice(config *Config) []string {
	if config.Device.RenderNode == "" {
		return []string{"device.render_node must not be empty"}
	}
	return nil
}

func validateBackend(config *Config) []string {
	var validationErrors []string

	switch config.Backend.Kind {
	case BackendCUDA:
		if config.Backend.CUDALibrary == "" {
			validationErrors = append(validationErrors, "backend.cuda_library must not be empty")
		}
	case BackendHost:
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("backend.kind must be %q or %q, got %q", BackendCUDA, BackendHost, config.Backend.Kind))
	}

	host := config.Backend.Host
	if host.PitchAlignment == 0 || bits.OnesCount32(host.PitchAlignment) != 1 {
		validationErrors = append(validationErrors, "backend.host.pitch_alignment must be a power of two")
	}
	if host.DeviceCount < 1 {
		validationErrors = append(validationErrors, "backend.host.device_count must be at least 1")
	}
	if host.DeviceUUID != "" {
		if _, err := entity.ParseDeviceUUID(host.DeviceUUID); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("backend.host.device_uuid: %v", err))
		}
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string

	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, "logging.level must be one of trace, debug, info, warn, error")
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, "logging.format must be console or json")
	}
	return validationErrors
}
