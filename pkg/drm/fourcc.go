// Package drm holds the DRM buffer metadata shared with display consumers:
// fourcc format codes, format modifiers and the PRIME surface descriptor.
package drm

import "fmt"

// Fourcc is a DRM pixel format code as defined in drm_fourcc.h.
type Fourcc uint32

// FourccCode packs four characters the way the fourcc_code macro does.
func FourccCode(a, b, c, d byte) Fourcc {
	return Fourcc(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// Formats used by 4:2:0 decode surfaces and their per-plane layers.
var (
	FormatNV12 = FourccCode('N', 'V', '1', '2')
	FormatP010 = FourccCode('P', '0', '1', '0')
	FormatP012 = FourccCode('P', '0', '1', '2')
	FormatP016 = FourccCode('P', '0', '1', '6')

	FormatR8     = FourccCode('R', '8', ' ', ' ')
	FormatR16    = FourccCode('R', '1', '6', ' ')
	FormatRG88   = FourccCode('R', 'G', '8', '8')
	FormatRG1616 = FourccCode('R', 'G', '3', '2')
)

// String returns the four characters of the code, e.g. "NV12".
func (f Fourcc) String() string {
	b := []byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", uint32(f))
		}
	}
	return string(b)
}

// Is420 reports whether the format is one of the 4:2:0 two-plane layouts.
func (f Fourcc) Is420() bool {
	switch f {
	case FormatNV12, FormatP010, FormatP012, FormatP016:
		return true
	}
	return false
}

// LumaLayerFormat returns the single-plane layer format for the Y plane.
func (f Fourcc) LumaLayerFormat() Fourcc {
	if f == FormatNV12 {
		return FormatR8
	}
	return FormatR16
}

// ChromaLayerFormat returns the single-plane layer format for the
// interleaved CbCr plane.
func (f Fourcc) ChromaLayerFormat() Fourcc {
	if f == FormatNV12 {
		return FormatRG88
	}
	return FormatRG1616
}
