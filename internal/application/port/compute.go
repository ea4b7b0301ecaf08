package port

import "github.com/bnema/nvprime/internal/domain/entity"

// MipmappedArrayDesc describes how external memory is viewed as an array.
type MipmappedArrayDesc struct {
	Offset    uint64
	Width     uint32
	Height    uint32
	Depth     uint32
	Format    entity.ArrayFormat
	Channels  uint32
	NumLevels uint32
}

// Copy2D is a pitched device-to-array copy.
type Copy2D struct {
	SrcDevice    entity.DevicePtr
	SrcXInBytes  uint64
	SrcY         uint64
	SrcPitch     uint64
	DstArray     entity.Array
	DstXInBytes  uint64
	DstY         uint64
	WidthInBytes uint64
	Height       uint64
}

// ComputeAPI is the subset of the GPU compute driver used to import
// allocator memory and fill it with decoded pictures.
type ComputeAPI interface {
	// DeviceCount returns the number of compute devices.
	DeviceCount() (int, error)
	// DeviceUUID returns the UUID of the device at index.
	DeviceUUID(index int) (entity.DeviceUUID, error)

	// ImportExternalMemory imports an opaque fd. On success the compute API
	// owns fd; on failure the caller still owns it.
	ImportExternalMemory(fd int, size uint64) (entity.ExternalMemory, error)
	// MapMipmappedArray maps a mipmapped array onto imported memory.
	MapMipmappedArray(mem entity.ExternalMemory, desc MipmappedArrayDesc) (entity.MipmappedArray, error)
	// MipmappedArrayLevel returns the array for one mip level.
	MipmappedArrayLevel(m entity.MipmappedArray, level uint32) (entity.Array, error)

	// Memcpy2DAsync enqueues a copy on stream and returns immediately.
	Memcpy2DAsync(c Copy2D, stream entity.Stream) error
	// Memcpy2D copies on the default stream and returns once the copy and
	// all prior work on the default stream has completed.
	Memcpy2D(c Copy2D) error
	// StreamSynchronize waits for all work queued on stream.
	StreamSynchronize(stream entity.Stream) error

	DestroyArray(a entity.Array) error
	DestroyMipmappedArray(m entity.MipmappedArray) error
	DestroyExternalMemory(mem entity.ExternalMemory) error
}

// DeviceBinder is implemented by compute APIs that need a device context
// bound before any resource call.
type DeviceBinder interface {
	MakeCurrent(index int) error
}
