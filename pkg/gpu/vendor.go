// Package gpu classifies GPUs by PCI vendor and kernel driver.
package gpu

import "strings"

// Vendor represents GPU vendor types
type Vendor string

const (
	VendorAMD     Vendor = "amd"
	VendorNVIDIA  Vendor = "nvidia"
	VendorIntel   Vendor = "intel"
	VendorUnknown Vendor = "unknown"
)

// PCI vendor IDs.
const (
	PCIVendorAMD    uint16 = 0x1002
	PCIVendorNVIDIA uint16 = 0x10de
	PCIVendorIntel  uint16 = 0x8086
)

// VendorFromPCIID maps a PCI vendor ID to a Vendor.
func VendorFromPCIID(id uint16) Vendor {
	switch id {
	case PCIVendorAMD:
		return VendorAMD
	case PCIVendorNVIDIA:
		return VendorNVIDIA
	case PCIVendorIntel:
		return VendorIntel
	default:
		return VendorUnknown
	}
}

// VendorFromDriver maps a DRM kernel driver name to a Vendor.
func VendorFromDriver(driver string) Vendor {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "nvidia", "nvidia-drm", "nouveau", "nova":
		return VendorNVIDIA
	case "amdgpu", "radeon":
		return VendorAMD
	case "i915", "xe":
		return VendorIntel
	default:
		return VendorUnknown
	}
}

// Classify prefers the PCI vendor ID and falls back to the driver name.
func Classify(pciVendor uint16, driver string) Vendor {
	if v := VendorFromPCIID(pciVendor); v != VendorUnknown {
		return v
	}
	return VendorFromDriver(driver)
}

// IsNVIDIAProprietary reports whether driver is the NVIDIA kernel module,
// the only one whose render nodes back the exported surfaces.
func IsNVIDIAProprietary(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "nvidia", "nvidia-drm":
		return true
	}
	return false
}
