// Package hostmem is a host-memory rendition of the GPU driver stack.
//
// Planes are memfd-backed buffers standing in for dma-bufs, and the compute
// side maps imported descriptors into the process so copies land in the
// same pages the exported descriptors refer to. It is used by the selftest
// command and by tests that need real file descriptors.
package hostmem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/pkg/drm"
)

// DefaultPitchAlignment matches the row alignment of linear NVIDIA surfaces.
const DefaultPitchAlignment = 256

var (
	ErrClosed         = errors.New("hostmem: closed")
	ErrInvalidRequest = errors.New("hostmem: invalid request")
)

// Allocator hands out memfd-backed planes. It implements
// port.BufferAllocator and port.DiagnosticEmitter.
type Allocator struct {
	uuid       entity.DeviceUUID
	pitchAlign uint32

	mu       sync.Mutex
	sink     port.DiagnosticSink
	minLevel port.DiagnosticLevel
	closed   bool

	allocations atomic.Int64
}

// NewAllocator creates an allocator whose driver context reports uuid.
func NewAllocator(uuid entity.DeviceUUID, pitchAlignment uint32) *Allocator {
	if pitchAlignment == 0 {
		pitchAlignment = DefaultPitchAlignment
	}
	return &Allocator{uuid: uuid, pitchAlign: pitchAlignment}
}

// DeviceUUID returns the UUID given at construction.
func (a *Allocator) DeviceUUID(_ context.Context) (entity.DeviceUUID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return entity.DeviceUUID{}, ErrClosed
	}
	return a.uuid, nil
}

// AllocatePlane creates a memfd sized for the plane and returns it together
// with a second descriptor for import.
func (a *Allocator) AllocatePlane(ctx context.Context, req port.PlaneRequest) (*port.PlaneAllocation, error) {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	if req.Width == 0 || req.Height == 0 || req.Channels == 0 || req.Channels > 4 {
		return nil, fmt.Errorf("%w: %dx%d with %d channels", ErrInvalidRequest, req.Width, req.Height, req.Channels)
	}
	if req.BitsPerSample != 8 && req.BitsPerSample != 16 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrInvalidRequest, req.BitsPerSample)
	}

	pitch := alignUp(req.Width*req.Channels*req.BitsPerSample/8, a.pitchAlign)
	size := alignUp64(uint64(pitch)*uint64(req.Height), uint64(unix.Getpagesize()))

	fd, err := unix.MemfdCreate("nvprime-plane", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("ftruncate plane to %d bytes: %w", size, err)
	}
	importFD, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("dup plane fd: %w", err)
	}

	a.allocations.Add(1)
	a.report(ctx, port.DiagnosticDebug, "AllocatePlane",
		fmt.Sprintf("allocated %dx%d plane (%d ch, %d bpc): pitch %d, size %d", req.Width, req.Height, req.Channels, req.BitsPerSample, pitch, size))

	return &port.PlaneAllocation{
		ImportFD: importFD,
		ExportFD: fd,
		Size:     size,
		Pitch:    pitch,
		Modifier: drm.ModifierLinear,
	}, nil
}

// Allocations returns how many planes were allocated so far.
func (a *Allocator) Allocations() int64 {
	return a.allocations.Load()
}

// SetDiagnosticSink routes allocator messages at or above minLevel to sink.
func (a *Allocator) SetDiagnosticSink(sink port.DiagnosticSink, minLevel port.DiagnosticLevel) {
	a.mu.Lock()
	a.sink = sink
	a.minLevel = minLevel
	a.mu.Unlock()
}

// Close releases the driver context. Planes already handed out stay valid.
func (a *Allocator) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	a.closed = true
	return nil
}

func (a *Allocator) report(ctx context.Context, level port.DiagnosticLevel, command, text string) {
	a.mu.Lock()
	sink, minLevel := a.sink, a.minLevel
	a.mu.Unlock()
	if sink == nil || level < minLevel {
		return
	}
	sink.Report(ctx, port.DiagnosticMessage{
		Level:     level,
		Subsystem: "hostmem",
		Command:   command,
		Text:      text,
	})
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) / align * align
}

func alignUp64(v, align uint64) uint64 {
	return (v + align - 1) / align * align
}
