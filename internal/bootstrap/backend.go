package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/infrastructure/config"
	"github.com/bnema/nvprime/internal/infrastructure/cuda"
	"github.com/bnema/nvprime/internal/infrastructure/drm"
	"github.com/bnema/nvprime/internal/infrastructure/fdio"
	"github.com/bnema/nvprime/internal/infrastructure/hostmem"
	"github.com/bnema/nvprime/internal/logging"
)

// ErrNoAllocator is returned when an exporter is requested from a backend
// whose buffer allocator lives in the embedding driver.
var ErrNoAllocator = errors.New("backend has no buffer allocator; the cuda backend is driven by the VA-API driver")

// FrameMemory allocates and fills device memory, standing in for a decoder
// output.
type FrameMemory interface {
	AllocDevice(size uint64) (entity.DevicePtr, error)
	FillDevice(ptr entity.DevicePtr, offset uint64, value byte, n uint64) error
	FreeDevice(ptr entity.DevicePtr) error
}

// DeviceNamer is implemented by compute APIs that can name their devices.
type DeviceNamer interface {
	DeviceName(index int) (string, error)
}

// Backend is an opened driver stack.
type Backend struct {
	Kind config.BackendKind
	// Allocator is nil when the allocator belongs to the embedding driver.
	Allocator port.BufferAllocator
	Compute   port.ComputeAPI
	Frames    FrameMemory

	close func() error
}

// OpenBackend opens the backend selected by cfg.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	log := logging.FromContext(ctx)

	switch cfg.Backend.Kind {
	case config.BackendCUDA:
		driver, err := cuda.Open(cfg.Backend.CUDALibrary)
		if err != nil {
			return nil, fmt.Errorf("open cuda backend: %w", err)
		}
		log.Debug().Str("library", cfg.Backend.CUDALibrary).Msg("cuda backend opened")
		return &Backend{
			Kind:    config.BackendCUDA,
			Compute: driver,
			Frames:  driver,
			close:   driver.Close,
		}, nil

	case config.BackendHost:
		opts := hostmem.Options{
			PitchAlignment: cfg.Backend.Host.PitchAlignment,
			DeviceCount:    cfg.Backend.Host.DeviceCount,
		}
		if cfg.Backend.Host.DeviceUUID != "" {
			uuid, err := entity.ParseDeviceUUID(cfg.Backend.Host.DeviceUUID)
			if err != nil {
				return nil, fmt.Errorf("backend.host.device_uuid: %w", err)
			}
			opts.DeviceUUID = uuid
		}
		device, err := hostmem.New(opts)
		if err != nil {
			return nil, fmt.Errorf("open host backend: %w", err)
		}
		log.Debug().Int("devices", cfg.Backend.Host.DeviceCount).Msg("host backend opened")
		return &Backend{
			Kind:      config.BackendHost,
			Allocator: device.Allocator(),
			Compute:   device.Compute(),
			Frames:    device.Compute(),
			close:     device.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend.Kind)
	}
}

// Close releases the backend. An exporter built on it must be closed first.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// ExporterOptionsFromConfig maps configuration onto exporter options. The
// render node is always opened by the exporter.
func ExporterOptionsFromConfig(cfg *config.Config) ExporterOptions {
	return ExporterOptions{
		DRMFD:       NoDRMFD,
		RenderNode:  cfg.Device.RenderNode,
		StrictMatch: cfg.Device.StrictMatch,
		Stream:      entity.Stream(cfg.Copy.Stream),
	}
}

// NewExporter builds an exporter over the backend with the system render
// node opener and descriptor table.
func (b *Backend) NewExporter(ctx context.Context, opts ExporterOptions) (*Exporter, error) {
	if b.Allocator == nil {
		return nil, ErrNoAllocator
	}
	return NewExporter(ctx, ExporterDeps{
		Allocator:   b.Allocator,
		Compute:     b.Compute,
		FDs:         fdio.New(),
		RenderNodes: drm.NewOpener(),
	}, opts)
}
