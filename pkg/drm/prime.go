package drm

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// MaxPRIMEEntries is the fixed capacity of the objects and layers arrays,
// and of the per-layer plane arrays.
const MaxPRIMEEntries = 4

// PRIMEObject is one dma-buf backing one or more layers.
type PRIMEObject struct {
	FD                int32
	Size              uint32
	DRMFormatModifier Modifier
}

// PRIMELayer is one image layer of the surface.
type PRIMELayer struct {
	DRMFormat   Fourcc
	NumPlanes   uint32
	ObjectIndex [MaxPRIMEEntries]uint32
	Offset      [MaxPRIMEEntries]uint32
	Pitch       [MaxPRIMEEntries]uint32
}

// PRIMEDescriptor mirrors the DRM PRIME 2 multi-planar surface export shape.
// File descriptors in Objects belong to whoever received the descriptor.
type PRIMEDescriptor struct {
	Fourcc     Fourcc
	Width      uint32
	Height     uint32
	NumObjects uint32
	Objects    [MaxPRIMEEntries]PRIMEObject
	NumLayers  uint32
	Layers     [MaxPRIMEEntries]PRIMELayer
}

// Validate checks the internal consistency of counts and object references.
func (d *PRIMEDescriptor) Validate() error {
	if d.NumObjects == 0 || d.NumObjects > MaxPRIMEEntries {
		return fmt.Errorf("invalid object count %d", d.NumObjects)
	}
	if d.NumLayers == 0 || d.NumLayers > MaxPRIMEEntries {
		return fmt.Errorf("invalid layer count %d", d.NumLayers)
	}
	for i := uint32(0); i < d.NumObjects; i++ {
		if d.Objects[i].FD < 0 {
			return fmt.Errorf("object %d has no fd", i)
		}
	}
	for i := uint32(0); i < d.NumLayers; i++ {
		l := d.Layers[i]
		if l.NumPlanes == 0 || l.NumPlanes > MaxPRIMEEntries {
			return fmt.Errorf("layer %d: invalid plane count %d", i, l.NumPlanes)
		}
		for p := uint32(0); p < l.NumPlanes; p++ {
			if l.ObjectIndex[p] >= d.NumObjects {
				return fmt.Errorf("layer %d plane %d references object %d of %d", i, p, l.ObjectIndex[p], d.NumObjects)
			}
		}
	}
	return nil
}

// Close closes every object fd held by the descriptor and marks them -1.
func (d *PRIMEDescriptor) Close() error {
	var errs []error
	for i := uint32(0); i < d.NumObjects && i < MaxPRIMEEntries; i++ {
		if d.Objects[i].FD < 0 {
			continue
		}
		if err := unix.Close(int(d.Objects[i].FD)); err != nil {
			errs = append(errs, fmt.Errorf("close object %d: %w", i, err))
		}
		d.Objects[i].FD = -1
	}
	return errors.Join(errs...)
}
