// Package port defines interfaces for external dependencies.
package port

import (
	"context"

	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/pkg/drm"
)

// PlaneRequest describes one plane to allocate.
type PlaneRequest struct {
	Width         uint32
	Height        uint32
	Channels      uint32
	BitsPerSample uint32
}

// PlaneAllocation is a freshly allocated plane. ImportFD and ExportFD are
// two independent descriptors for the same memory: ImportFD is handed to
// the compute API, ExportFD stays with the backing store for dma-buf export.
// The receiver owns both.
type PlaneAllocation struct {
	ImportFD int
	ExportFD int
	Size     uint64
	Pitch    uint32
	Offset   uint32
	Modifier drm.Modifier
}

// BufferAllocator is the low-level buffer-allocation subsystem that owns the
// driver context for one GPU.
type BufferAllocator interface {
	// DeviceUUID returns the identity of the GPU behind the driver context.
	DeviceUUID(ctx context.Context) (entity.DeviceUUID, error)

	// AllocatePlane allocates one planar image.
	AllocatePlane(ctx context.Context, req PlaneRequest) (*PlaneAllocation, error)

	// Close releases the driver context.
	Close() error
}
