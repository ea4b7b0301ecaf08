// Package config loads nvprime settings through Viper and generates their
// JSON schema.
package config

// File permission constants
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config represents the complete nvprime configuration.
type Config struct {
	// Device selects the DRM render node and how strictly the compute device is correlated.
	Device DeviceConfig `mapstructure:"device" toml:"device" json:"device"`
	// Backend selects the driver stack the exporter runs on.
	Backend BackendConfig `mapstructure:"backend" toml:"backend" json:"backend"`
	// Copy controls how decoded frames are copied into backing stores.
	Copy CopyConfig `mapstructure:"copy" toml:"copy" json:"copy"`
	// Logging controls log level and output format.
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" json:"logging"`
}

// DeviceConfig holds the DRM device settings.
type DeviceConfig struct {
	// RenderNode is opened read-write when the caller supplies no DRM fd.
	RenderNode string `mapstructure:"render_node" toml:"render_node" json:"render_node" jsonschema:"default=/dev/dri/renderD128"`
	// StrictMatch makes a failed UUID correlation an error instead of falling back to device 0.
	StrictMatch bool `mapstructure:"strict_match" toml:"strict_match" json:"strict_match"`
}

// BackendKind selects the driver implementation.
type BackendKind string

const (
	BackendCUDA BackendKind = "cuda"
	BackendHost BackendKind = "host"
)

// BackendConfig holds the driver backend settings.
type BackendConfig struct {
	// Kind is "cuda" for the NVIDIA driver or "host" for the host-memory backend.
	Kind BackendKind `mapstructure:"kind" toml:"kind" json:"kind" jsonschema:"enum=cuda,enum=host,default=host"`
	// CUDALibrary is the path or soname of the CUDA driver library.
	CUDALibrary string `mapstructure:"cuda_library" toml:"cuda_library" json:"cuda_library" jsonschema:"default=libcuda.so.1"`
	// Host configures the host-memory backend.
	Host HostBackendConfig `mapstructure:"host" toml:"host" json:"host"`
}

// HostBackendConfig holds the host-memory backend settings.
type HostBackendConfig struct {
	// PitchAlignment is the row alignment of planes, a power of two.
	PitchAlignment uint32 `mapstructure:"pitch_alignment" toml:"pitch_alignment" json:"pitch_alignment" jsonschema:"default=256"`
	// DeviceUUID is the allocator device identity; random when empty.
	DeviceUUID string `mapstructure:"device_uuid" toml:"device_uuid" json:"device_uuid,omitempty"`
	// DeviceCount is the number of simulated compute devices.
	DeviceCount int `mapstructure:"device_count" toml:"device_count" json:"device_count" jsonschema:"minimum=1,default=1"`
}

// CopyConfig holds the frame copy settings.
type CopyConfig struct {
	// Stream is the compute stream both plane copies are issued on. 0 is the default stream.
	Stream uint64 `mapstructure:"stream" toml:"stream" json:"stream"`
}

// LoggingConfig holds the logging settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	// Format is "console" or "json".
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json,default=console"`
}
