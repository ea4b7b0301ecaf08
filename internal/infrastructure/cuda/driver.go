// Package cuda binds the CUDA driver API at runtime through purego and
// implements port.ComputeAPI on top of it.
//
// Every call runs with the selected device's primary context pushed on a
// locked OS thread, so callers never deal with per-thread current contexts.
package cuda

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// DefaultLibrary is the soname of the driver library.
const DefaultLibrary = "libcuda.so.1"

type symbols struct {
	cuInit                                  func(flags uint32) int32
	cuDeviceGetCount                        func(count unsafe.Pointer) int32
	cuDeviceGet                             func(device unsafe.Pointer, ordinal int32) int32
	cuDeviceGetUuid                         func(uuid unsafe.Pointer, device int32) int32
	cuDeviceGetName                         func(name unsafe.Pointer, length int32, device int32) int32
	cuDevicePrimaryCtxRetain                func(ctx unsafe.Pointer, device int32) int32
	cuDevicePrimaryCtxRelease               func(device int32) int32
	cuCtxPushCurrent                        func(ctx uintptr) int32
	cuCtxPopCurrent                         func(ctx unsafe.Pointer) int32
	cuImportExternalMemory                  func(mem unsafe.Pointer, desc unsafe.Pointer) int32
	cuExternalMemoryGetMappedMipmappedArray func(mip unsafe.Pointer, mem uintptr, desc unsafe.Pointer) int32
	cuMipmappedArrayGetLevel                func(array unsafe.Pointer, mip uintptr, level uint32) int32
	cuMemcpy2D                              func(desc unsafe.Pointer) int32
	cuMemcpy2DAsync                         func(desc unsafe.Pointer, stream uintptr) int32
	cuStreamSynchronize                     func(stream uintptr) int32
	cuArrayDestroy                          func(array uintptr) int32
	cuMipmappedArrayDestroy                 func(mip uintptr) int32
	cuDestroyExternalMemory                 func(mem uintptr) int32
	cuGetErrorName                          func(code int32, name unsafe.Pointer) int32
	cuMemAlloc                              func(ptr unsafe.Pointer, size uint64) int32
	cuMemsetD8                              func(ptr uint64, value uint8, n uint64) int32
	cuMemFree                               func(ptr uint64) int32
}

// Driver is a loaded CUDA driver library. Select a device with MakeCurrent
// before using the compute methods.
type Driver struct {
	lib uintptr
	fn  symbols

	mu     sync.Mutex
	ctx    uintptr
	device int32
	closed bool
}

// Open loads the driver library from path (DefaultLibrary when empty),
// resolves every entry point and initializes the driver.
func Open(path string) (*Driver, error) {
	paths := []string{path}
	if path == "" {
		paths = []string{DefaultLibrary, "libcuda.so"}
	}

	var lastErr error
	for _, p := range paths {
		lib, err := purego.Dlopen(p, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		d := &Driver{lib: lib, device: -1}
		if err := d.bind(); err != nil {
			_ = purego.Dlclose(lib)
			lastErr = err
			continue
		}
		if err := d.check("cuInit", d.fn.cuInit(0)); err != nil {
			_ = purego.Dlclose(lib)
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrLibraryNotFound, lastErr)
}

func (d *Driver) bind() error {
	entries := []struct {
		fptr any
		name string
	}{
		{&d.fn.cuInit, "cuInit"},
		{&d.fn.cuDeviceGetCount, "cuDeviceGetCount"},
		{&d.fn.cuDeviceGet, "cuDeviceGet"},
		{&d.fn.cuDeviceGetUuid, "cuDeviceGetUuid"},
		{&d.fn.cuDeviceGetName, "cuDeviceGetName"},
		{&d.fn.cuDevicePrimaryCtxRetain, "cuDevicePrimaryCtxRetain"},
		{&d.fn.cuDevicePrimaryCtxRelease, "cuDevicePrimaryCtxRelease_v2"},
		{&d.fn.cuCtxPushCurrent, "cuCtxPushCurrent_v2"},
		{&d.fn.cuCtxPopCurrent, "cuCtxPopCurrent_v2"},
		{&d.fn.cuImportExternalMemory, "cuImportExternalMemory"},
		{&d.fn.cuExternalMemoryGetMappedMipmappedArray, "cuExternalMemoryGetMappedMipmappedArray"},
		{&d.fn.cuMipmappedArrayGetLevel, "cuMipmappedArrayGetLevel"},
		{&d.fn.cuMemcpy2D, "cuMemcpy2D_v2"},
		{&d.fn.cuMemcpy2DAsync, "cuMemcpy2DAsync_v2"},
		{&d.fn.cuStreamSynchronize, "cuStreamSynchronize"},
		{&d.fn.cuArrayDestroy, "cuArrayDestroy"},
		{&d.fn.cuMipmappedArrayDestroy, "cuMipmappedArrayDestroy"},
		{&d.fn.cuDestroyExternalMemory, "cuDestroyExternalMemory"},
		{&d.fn.cuGetErrorName, "cuGetErrorName"},
		{&d.fn.cuMemAlloc, "cuMemAlloc_v2"},
		{&d.fn.cuMemsetD8, "cuMemsetD8_v2"},
		{&d.fn.cuMemFree, "cuMemFree_v2"},
	}
	for _, e := range entries {
		sym, err := purego.Dlsym(d.lib, e.name)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", e.name, err)
		}
		purego.RegisterFunc(e.fptr, sym)
	}
	return nil
}

// MakeCurrent retains the primary context of the device at index and uses
// it for every later call. A previously selected context is released.
func (d *Driver) MakeCurrent(index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	var dev int32
	if err := d.check("cuDeviceGet", d.fn.cuDeviceGet(unsafe.Pointer(&dev), int32(index))); err != nil {
		return err
	}
	var ctx uintptr
	if err := d.check("cuDevicePrimaryCtxRetain", d.fn.cuDevicePrimaryCtxRetain(unsafe.Pointer(&ctx), dev)); err != nil {
		return err
	}
	if d.ctx != 0 {
		_ = d.check("cuDevicePrimaryCtxRelease", d.fn.cuDevicePrimaryCtxRelease(d.device))
	}
	d.ctx, d.device = ctx, dev
	return nil
}

// DeviceName returns the marketing name of the device at index.
func (d *Driver) DeviceName(index int) (string, error) {
	var dev int32
	if err := d.check("cuDeviceGet", d.fn.cuDeviceGet(unsafe.Pointer(&dev), int32(index))); err != nil {
		return "", err
	}
	buf := make([]byte, 256)
	if err := d.check("cuDeviceGetName", d.fn.cuDeviceGetName(unsafe.Pointer(&buf[0]), int32(len(buf)), dev)); err != nil {
		return "", err
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}

// Close releases the primary context and unloads the library.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true

	var errs []error
	if d.ctx != 0 {
		errs = append(errs, d.check("cuDevicePrimaryCtxRelease", d.fn.cuDevicePrimaryCtxRelease(d.device)))
		d.ctx = 0
	}
	if err := purego.Dlclose(d.lib); err != nil {
		errs = append(errs, fmt.Errorf("dlclose: %w", err))
	}
	return errors.Join(errs...)
}

// withContext runs call with the selected context current on a locked
// thread and converts its result.
func (d *Driver) withContext(op string, call func() int32) error {
	d.mu.Lock()
	ctx, closed := d.ctx, d.closed
	d.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if ctx == 0 {
		return ErrNoContext
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := d.check("cuCtxPushCurrent", d.fn.cuCtxPushCurrent(ctx)); err != nil {
		return err
	}
	res := call()
	var popped uintptr
	_ = d.fn.cuCtxPopCurrent(unsafe.Pointer(&popped))
	return d.check(op, res)
}

func (d *Driver) check(op string, code int32) error {
	if code == resultSuccess {
		return nil
	}
	return &Error{Op: op, Code: code, Name: d.errorName(code)}
}

func (d *Driver) errorName(code int32) string {
	var name *byte
	if d.fn.cuGetErrorName == nil || d.fn.cuGetErrorName(code, unsafe.Pointer(&name)) != resultSuccess || name == nil {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Add(unsafe.Pointer(name), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(name, n))
}
