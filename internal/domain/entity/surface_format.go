package entity

import (
	"fmt"
	"strings"

	"github.com/bnema/nvprime/pkg/drm"
)

// SurfaceFormat is the decoder output layout of a surface.
// Only 4:2:0 two-plane layouts are supported.
type SurfaceFormat int

const (
	// SurfaceFormatNV12 is 4:2:0 with 8-bit samples.
	SurfaceFormatNV12 SurfaceFormat = iota
	// SurfaceFormatP016 is 4:2:0 with 10 or 12 significant bits stored in
	// 16-bit samples.
	SurfaceFormatP016
)

// Valid reports whether f is a known format.
func (f SurfaceFormat) Valid() bool {
	return f == SurfaceFormatNV12 || f == SurfaceFormatP016
}

// BitsPerSample returns the storage size of one sample in bits.
func (f SurfaceFormat) BitsPerSample() uint32 {
	if f == SurfaceFormatNV12 {
		return 8
	}
	return 16
}

// BytesPerSample returns 1 for NV12 and 2 otherwise.
func (f SurfaceFormat) BytesPerSample() uint32 {
	return f.BitsPerSample() / 8
}

// Fourcc returns the DRM format exported for surfaces of this layout.
func (f SurfaceFormat) Fourcc() drm.Fourcc {
	if f == SurfaceFormatNV12 {
		return drm.FormatNV12
	}
	return drm.FormatP016
}

func (f SurfaceFormat) String() string {
	switch f {
	case SurfaceFormatNV12:
		return "nv12"
	case SurfaceFormatP016:
		return "p016"
	default:
		return fmt.Sprintf("SurfaceFormat(%d)", int(f))
	}
}

// ParseSurfaceFormat accepts "nv12", "p010", "p012" and "p016".
func ParseSurfaceFormat(s string) (SurfaceFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nv12":
		return SurfaceFormatNV12, nil
	case "p010", "p012", "p016":
		return SurfaceFormatP016, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}
