package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/logging"
)

// DeviceMatch is the outcome of device correlation.
type DeviceMatch struct {
	// Index is the compute device to use.
	Index int
	// UUID is the allocator's device identity.
	UUID entity.DeviceUUID
	// Matched is false when Index is the fallback rather than a UUID match.
	Matched bool
}

// CorrelateDeviceUseCase maps the allocator's GPU onto a compute device index.
type CorrelateDeviceUseCase struct {
	allocator port.BufferAllocator
	compute   port.ComputeAPI
	strict    bool
}

// NewCorrelateDeviceUseCase creates a new CorrelateDeviceUseCase. With strict
// set, a missing match is an error instead of a fallback to device 0.
func NewCorrelateDeviceUseCase(allocator port.BufferAllocator, compute port.ComputeAPI, strict bool) *CorrelateDeviceUseCase {
	return &CorrelateDeviceUseCase{
		allocator: allocator,
		compute:   compute,
		strict:    strict,
	}
}

// Execute returns the first compute device whose UUID equals the allocator's.
// Devices whose UUID cannot be read are skipped.
func (uc *CorrelateDeviceUseCase) Execute(ctx context.Context) (DeviceMatch, error) {
	log := logging.FromContext(ctx)

	uuid, err := uc.allocator.DeviceUUID(ctx)
	if err != nil {
		return DeviceMatch{}, fmt.Errorf("read allocator device uuid: %w", err)
	}

	count, err := uc.compute.DeviceCount()
	if err != nil {
		log.Warn().Err(err).Msg("compute device enumeration failed")
		count = 0
	}

	for i := 0; i < count; i++ {
		candidate, err := uc.compute.DeviceUUID(i)
		if err != nil {
			log.Debug().Err(err).Int("device", i).Msg("skipping compute device without uuid")
			continue
		}
		if candidate == uuid {
			log.Debug().Int("device", i).Str("uuid", uuid.String()).Msg("correlated compute device")
			return DeviceMatch{Index: i, UUID: uuid, Matched: true}, nil
		}
	}

	if uc.strict {
		return DeviceMatch{UUID: uuid}, fmt.Errorf("%w: GPU-%s among %d devices", ErrNoMatchingDevice, uuid, count)
	}

	log.Warn().
		Str("uuid", uuid.String()).
		Int("devices", count).
		Msg("no compute device matches allocator device, using device 0")
	return DeviceMatch{Index: 0, UUID: uuid}, nil
}
