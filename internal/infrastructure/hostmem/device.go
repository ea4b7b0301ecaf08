package hostmem

import (
	"crypto/rand"
	"errors"

	"github.com/bnema/nvprime/internal/domain/entity"
)

// Options configures a host device set.
type Options struct {
	// PitchAlignment is the row alignment shared by planes and arrays.
	PitchAlignment uint32
	// DeviceUUID identifies the device the allocator context belongs to.
	// A random UUID is generated when zero.
	DeviceUUID entity.DeviceUUID
	// DeviceCount is the number of compute devices. The allocator's device
	// is the last one so correlation has to search past index 0.
	DeviceCount int
}

// Device pairs an allocator with a compute API over the same memory model.
type Device struct {
	allocator *Allocator
	compute   *Compute
}

// New builds a device set. Compute devices other than the allocator's get
// random UUIDs.
func New(opts Options) (*Device, error) {
	if opts.DeviceCount <= 0 {
		opts.DeviceCount = 1
	}
	if opts.DeviceUUID.IsZero() {
		if _, err := rand.Read(opts.DeviceUUID[:]); err != nil {
			return nil, err
		}
	}

	uuids := make([]entity.DeviceUUID, opts.DeviceCount)
	for i := range uuids[:len(uuids)-1] {
		if _, err := rand.Read(uuids[i][:]); err != nil {
			return nil, err
		}
	}
	uuids[len(uuids)-1] = opts.DeviceUUID

	return &Device{
		allocator: NewAllocator(opts.DeviceUUID, opts.PitchAlignment),
		compute:   NewCompute(uuids, opts.PitchAlignment),
	}, nil
}

// Allocator returns the buffer allocator.
func (d *Device) Allocator() *Allocator { return d.allocator }

// Compute returns the compute API.
func (d *Device) Compute() *Compute { return d.compute }

// Close closes the compute API. The allocator is closed by its owner.
func (d *Device) Close() error {
	if err := d.compute.Close(); err != nil && !errors.Is(err, ErrClosed) {
		return err
	}
	return nil
}
