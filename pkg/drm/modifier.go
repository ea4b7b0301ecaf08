package drm

import "fmt"

// Modifier describes the tiling/compression layout of a buffer.
type Modifier uint64

// Vendor identifiers occupying the top byte of a modifier.
const (
	VendorNone   uint8 = 0x00
	VendorIntel  uint8 = 0x01
	VendorAMD    uint8 = 0x02
	VendorNVIDIA uint8 = 0x03
)

const (
	// ModifierLinear is a plain row-major layout.
	ModifierLinear Modifier = 0
	// ModifierInvalid marks an unknown or absent modifier.
	ModifierInvalid Modifier = 0x00ffffffffffffff
)

// ModifierCode builds a modifier the way fourcc_mod_code does.
func ModifierCode(vendor uint8, value uint64) Modifier {
	return Modifier(uint64(vendor)<<56 | (value & 0x00ffffffffffffff))
}

// NVIDIABlockLinear2D builds DRM_FORMAT_MOD_NVIDIA_BLOCK_LINEAR_2D.
// c: compression, s: sector layout, g: GOB kind generation, k: page kind,
// h: log2 of the block height in GOBs.
func NVIDIABlockLinear2D(c, s, g, k, h uint64) Modifier {
	return ModifierCode(VendorNVIDIA,
		0x10|(h&0xf)|(k&0xff)<<12|(g&0x3)<<20|(s&0x1)<<22|(c&0x7)<<23)
}

// Vendor returns the vendor byte.
func (m Modifier) Vendor() uint8 {
	return uint8(uint64(m) >> 56)
}

// IsBlockLinear reports whether m is an NVIDIA 16Bx2 block-linear layout.
func (m Modifier) IsBlockLinear() bool {
	return m.Vendor() == VendorNVIDIA && uint64(m)&0x10 != 0
}

// BlockHeightLog2 returns the log2 block height in GOBs of a block-linear
// modifier, or 0 for other layouts.
func (m Modifier) BlockHeightLog2() int {
	if !m.IsBlockLinear() {
		return 0
	}
	return int(uint64(m) & 0xf)
}

func (m Modifier) String() string {
	switch {
	case m == ModifierLinear:
		return "LINEAR"
	case m == ModifierInvalid:
		return "INVALID"
	case m.IsBlockLinear():
		return fmt.Sprintf("NVIDIA_BLOCK_LINEAR_2D(h=%d)", m.BlockHeightLog2())
	default:
		return fmt.Sprintf("0x%016x", uint64(m))
	}
}
