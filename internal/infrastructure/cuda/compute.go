package cuda

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
)

// DeviceCount returns the number of CUDA devices.
func (d *Driver) DeviceCount() (int, error) {
	var n int32
	if err := d.check("cuDeviceGetCount", d.fn.cuDeviceGetCount(unsafe.Pointer(&n))); err != nil {
		return 0, err
	}
	return int(n), nil
}

// DeviceUUID returns the UUID of the device at index.
func (d *Driver) DeviceUUID(index int) (entity.DeviceUUID, error) {
	var uuid entity.DeviceUUID
	var dev int32
	if err := d.check("cuDeviceGet", d.fn.cuDeviceGet(unsafe.Pointer(&dev), int32(index))); err != nil {
		return uuid, err
	}
	if err := d.check("cuDeviceGetUuid", d.fn.cuDeviceGetUuid(unsafe.Pointer(&uuid[0]), dev)); err != nil {
		return uuid, err
	}
	return uuid, nil
}

// ImportExternalMemory imports fd as opaque-fd external memory. The driver
// takes ownership of fd only when the import succeeds.
func (d *Driver) ImportExternalMemory(fd int, size uint64) (entity.ExternalMemory, error) {
	desc := externalMemoryHandleDesc{
		Type: externalMemoryHandleTypeOpaqueFD,
		Size: size,
	}
	binary.NativeEndian.PutUint32(desc.Handle[:4], uint32(int32(fd)))

	var mem uintptr
	err := d.withContext("cuImportExternalMemory", func() int32 {
		return d.fn.cuImportExternalMemory(unsafe.Pointer(&mem), unsafe.Pointer(&desc))
	})
	if err != nil {
		return 0, err
	}
	return entity.ExternalMemory(mem), nil
}

// MapMipmappedArray maps a mipmapped array onto imported memory.
func (d *Driver) MapMipmappedArray(mem entity.ExternalMemory, desc port.MipmappedArrayDesc) (entity.MipmappedArray, error) {
	cdesc := externalMemoryMipmappedArrayDesc{
		Offset: desc.Offset,
		ArrayDesc: array3DDescriptor{
			Width:       uint64(desc.Width),
			Height:      uint64(desc.Height),
			Depth:       uint64(desc.Depth),
			Format:      uint32(desc.Format),
			NumChannels: desc.Channels,
		},
		NumLevels: desc.NumLevels,
	}

	var mip uintptr
	err := d.withContext("cuExternalMemoryGetMappedMipmappedArray", func() int32 {
		return d.fn.cuExternalMemoryGetMappedMipmappedArray(unsafe.Pointer(&mip), uintptr(mem), unsafe.Pointer(&cdesc))
	})
	if err != nil {
		return 0, err
	}
	return entity.MipmappedArray(mip), nil
}

// MipmappedArrayLevel returns the array for one mip level.
func (d *Driver) MipmappedArrayLevel(m entity.MipmappedArray, level uint32) (entity.Array, error) {
	var arr uintptr
	err := d.withContext("cuMipmappedArrayGetLevel", func() int32 {
		return d.fn.cuMipmappedArrayGetLevel(unsafe.Pointer(&arr), uintptr(m), level)
	})
	if err != nil {
		return 0, err
	}
	return entity.Array(arr), nil
}

func toMemcpy2D(c port.Copy2D) memcpy2D {
	return memcpy2D{
		SrcXInBytes:   c.SrcXInBytes,
		SrcY:          c.SrcY,
		SrcMemoryType: memoryTypeDevice,
		SrcDevice:     uint64(c.SrcDevice),
		SrcPitch:      c.SrcPitch,
		DstXInBytes:   c.DstXInBytes,
		DstY:          c.DstY,
		DstMemoryType: memoryTypeArray,
		DstArray:      uintptr(c.DstArray),
		WidthInBytes:  c.WidthInBytes,
		Height:        c.Height,
	}
}

// Memcpy2DAsync enqueues a device-to-array copy on stream.
func (d *Driver) Memcpy2DAsync(c port.Copy2D, stream entity.Stream) error {
	cp := toMemcpy2D(c)
	return d.withContext("cuMemcpy2DAsync", func() int32 {
		return d.fn.cuMemcpy2DAsync(unsafe.Pointer(&cp), uintptr(stream))
	})
}

// Memcpy2D copies synchronously on the default stream.
func (d *Driver) Memcpy2D(c port.Copy2D) error {
	cp := toMemcpy2D(c)
	return d.withContext("cuMemcpy2D", func() int32 {
		return d.fn.cuMemcpy2D(unsafe.Pointer(&cp))
	})
}

// StreamSynchronize waits for all work queued on stream.
func (d *Driver) StreamSynchronize(stream entity.Stream) error {
	return d.withContext("cuStreamSynchronize", func() int32 {
		return d.fn.cuStreamSynchronize(uintptr(stream))
	})
}

func (d *Driver) DestroyArray(a entity.Array) error {
	return d.withContext("cuArrayDestroy", func() int32 {
		return d.fn.cuArrayDestroy(uintptr(a))
	})
}

func (d *Driver) DestroyMipmappedArray(m entity.MipmappedArray) error {
	return d.withContext("cuMipmappedArrayDestroy", func() int32 {
		return d.fn.cuMipmappedArrayDestroy(uintptr(m))
	})
}

func (d *Driver) DestroyExternalMemory(mem entity.ExternalMemory) error {
	return d.withContext("cuDestroyExternalMemory", func() int32 {
		return d.fn.cuDestroyExternalMemory(uintptr(mem))
	})
}

var (
	_ port.ComputeAPI   = (*Driver)(nil)
	_ port.DeviceBinder = (*Driver)(nil)
)

// String describes the selected device for logs.
func (d *Driver) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == 0 {
		return "cuda(no device)"
	}
	return fmt.Sprintf("cuda(device %d)", d.device)
}

// AllocDevice allocates size bytes of device memory.
func (d *Driver) AllocDevice(size uint64) (entity.DevicePtr, error) {
	var ptr uint64
	err := d.withContext("cuMemAlloc", func() int32 {
		return d.fn.cuMemAlloc(unsafe.Pointer(&ptr), size)
	})
	if err != nil {
		return 0, err
	}
	return entity.DevicePtr(ptr), nil
}

// FillDevice sets n bytes starting at ptr+offset to value.
func (d *Driver) FillDevice(ptr entity.DevicePtr, offset uint64, value byte, n uint64) error {
	return d.withContext("cuMemsetD8", func() int32 {
		return d.fn.cuMemsetD8(uint64(ptr)+offset, value, n)
	})
}

// FreeDevice frees device memory from AllocDevice.
func (d *Driver) FreeDevice(ptr entity.DevicePtr) error {
	return d.withContext("cuMemFree", func() int32 {
		return d.fn.cuMemFree(uint64(ptr))
	})
}
