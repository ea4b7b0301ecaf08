package entity

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DeviceUUID is the 16-byte identity shared by the buffer allocator and the
// compute API for one physical GPU.
type DeviceUUID [16]byte

// String formats the UUID the way nvidia-smi prints it, without the
// "GPU-" prefix.
func (u DeviceUUID) String() string {
	h := hex.EncodeToString(u[:])
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}

// IsZero reports whether every byte is zero.
func (u DeviceUUID) IsZero() bool {
	return u == DeviceUUID{}
}

// ParseDeviceUUID parses 32 hex digits with optional dashes and an optional
// "GPU-" prefix.
func ParseDeviceUUID(s string) (DeviceUUID, error) {
	var u DeviceUUID
	s = strings.TrimPrefix(strings.TrimSpace(s), "GPU-")
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 32 {
		return u, fmt.Errorf("device uuid must have 32 hex digits, got %d", len(s))
	}
	if _, err := hex.Decode(u[:], []byte(s)); err != nil {
		return u, fmt.Errorf("device uuid: %w", err)
	}
	return u, nil
}

// Compute API handles. Zero means "not populated".
type (
	// DevicePtr is a device address holding decoded picture data.
	DevicePtr uintptr
	// ExternalMemory is memory imported from an opaque fd.
	ExternalMemory uintptr
	// MipmappedArray is a mipmapped array mapped onto external memory.
	MipmappedArray uintptr
	// Array is one level of a mipmapped array, used as a copy target.
	Array uintptr
	// Stream is an execution stream; 0 is the default stream.
	Stream uintptr
)

// ArrayFormat is the element type of a compute array.
type ArrayFormat uint32

// Values match CUarray_format.
const (
	ArrayFormatUint8  ArrayFormat = 0x01
	ArrayFormatUint16 ArrayFormat = 0x02
)

// ElementSize returns the byte size of one channel element.
func (f ArrayFormat) ElementSize() uint32 {
	if f == ArrayFormatUint16 {
		return 2
	}
	return 1
}

// ArrayFormatForBits picks the array format for a sample bit depth.
func ArrayFormatForBits(bits uint32) ArrayFormat {
	if bits == 8 {
		return ArrayFormatUint8
	}
	return ArrayFormatUint16
}
