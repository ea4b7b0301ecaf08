package entity

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/nvprime/pkg/drm"
)

const (
	// MaxPlanes is the number of plane slots reserved per store.
	MaxPlanes = 4
	// PlaneCount420 is the number of planes used by 4:2:0 layouts.
	PlaneCount420 = 2
)

// PlaneReleaser destroys the resources owned by one plane.
type PlaneReleaser interface {
	DestroyArray(Array) error
	DestroyMipmappedArray(MipmappedArray) error
	DestroyExternalMemory(ExternalMemory) error
	CloseFD(fd int) error
}

// Plane is one image plane of a backing store together with every resource
// that keeps it alive: the dma-buf fd used for export and the compute
// handles imported from the allocator's import fd.
type Plane struct {
	FD       int
	Size     uint64
	Stride   uint32
	Offset   uint32
	Modifier drm.Modifier

	Width    uint32
	Height   uint32
	Channels uint32

	ExternalMemory ExternalMemory
	MipmappedArray MipmappedArray
	Array          Array
}

// NewPlane returns a plane with no populated resources.
func NewPlane() Plane {
	return Plane{FD: -1}
}

// Populated reports whether the plane holds any resource.
func (p *Plane) Populated() bool {
	return p.FD >= 0 || p.Array != 0 || p.MipmappedArray != 0 || p.ExternalMemory != 0
}

// Release destroys the plane resources in dependency order: array, then
// mipmapped array, then external memory, then the fd. Every populated
// resource is released exactly once even when an earlier step fails.
func (p *Plane) Release(r PlaneReleaser) error {
	var errs []error
	if p.Array != 0 {
		if err := r.DestroyArray(p.Array); err != nil {
			errs = append(errs, fmt.Errorf("destroy array: %w", err))
		}
		p.Array = 0
	}
	if p.MipmappedArray != 0 {
		if err := r.DestroyMipmappedArray(p.MipmappedArray); err != nil {
			errs = append(errs, fmt.Errorf("destroy mipmapped array: %w", err))
		}
		p.MipmappedArray = 0
	}
	if p.ExternalMemory != 0 {
		if err := r.DestroyExternalMemory(p.ExternalMemory); err != nil {
			errs = append(errs, fmt.Errorf("destroy external memory: %w", err))
		}
		p.ExternalMemory = 0
	}
	if p.FD >= 0 {
		if err := r.CloseFD(p.FD); err != nil {
			errs = append(errs, fmt.Errorf("close fd %d: %w", p.FD, err))
		}
		p.FD = -1
	}
	return errors.Join(errs...)
}

var storeSeq atomic.Uint64

// BackingStore is the GPU memory servicing one surface: a luma plane and an
// interleaved chroma plane, each exportable as a dma-buf.
//
// Once a store is attached, its fields may only be read inside Use: Release
// zeroes them under the store lock, and the fd numbers it closes can be
// reused by the kernel right away.
type BackingStore struct {
	ID        uint64
	Fourcc    drm.Fourcc
	Width     uint32
	Height    uint32
	NumPlanes int
	Planes    [MaxPlanes]Plane

	mu        sync.RWMutex
	owner     atomic.Pointer[Surface]
	destroyed atomic.Bool
}

// NewBackingStore returns an empty store with every plane unpopulated.
func NewBackingStore(width, height uint32, fourcc drm.Fourcc) *BackingStore {
	b := &BackingStore{
		ID:        storeSeq.Add(1),
		Fourcc:    fourcc,
		Width:     width,
		Height:    height,
		NumPlanes: PlaneCount420,
	}
	for i := range b.Planes {
		b.Planes[i] = NewPlane()
	}
	return b
}

// Owner returns the surface the store is attached to, if any.
func (b *BackingStore) Owner() *Surface {
	return b.owner.Load()
}

// Destroyed reports whether Release has run.
func (b *BackingStore) Destroyed() bool {
	return b.destroyed.Load()
}

// Use runs fn with the store read-locked. It returns ErrStoreDestroyed
// without calling fn once Release has started. Release waits for every
// running fn before it touches the planes.
func (b *BackingStore) Use(fn func(*BackingStore) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.destroyed.Load() {
		return fmt.Errorf("%w: store %d", ErrStoreDestroyed, b.ID)
	}
	return fn(b)
}

// Release notifies the owning surface, then releases every plane. Only the
// first call does anything; later calls return nil.
func (b *BackingStore) Release(r PlaneReleaser) error {
	if !b.destroyed.CompareAndSwap(false, true) {
		return nil
	}
	if s := b.owner.Swap(nil); s != nil {
		s.storeDestroyed(b)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for i := range b.Planes {
		if err := b.Planes[i].Release(r); err != nil {
			errs = append(errs, fmt.Errorf("plane %d: %w", i, err))
		}
	}

	b.Fourcc = 0
	b.Width, b.Height = 0, 0
	b.NumPlanes = 0
	for i := range b.Planes {
		b.Planes[i] = NewPlane()
	}
	return errors.Join(errs...)
}
