package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		pci    uint16
		driver string
		want   Vendor
	}{
		{"nvidia by pci", 0x10de, "", VendorNVIDIA},
		{"amd by pci", 0x1002, "whatever", VendorAMD},
		{"intel by driver", 0, "i915", VendorIntel},
		{"nouveau driver", 0, "nouveau", VendorNVIDIA},
		{"pci wins over driver", 0x8086, "amdgpu", VendorIntel},
		{"virtual device", 0x1af4, "virtio_gpu", VendorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.pci, tt.driver))
		})
	}
}

func TestIsNVIDIAProprietary(t *testing.T) {
	assert.True(t, IsNVIDIAProprietary("nvidia"))
	assert.True(t, IsNVIDIAProprietary(" NVIDIA-drm\n"))
	assert.False(t, IsNVIDIAProprietary("nouveau"))
	assert.False(t, IsNVIDIAProprietary(""))
}
