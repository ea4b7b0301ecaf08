package drm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestFourccCode_MatchesKernelValues(t *testing.T) {
	assert.Equal(t, Fourcc(0x3231564e), FormatNV12)
	assert.Equal(t, Fourcc(0x36313050), FormatP016)
	assert.Equal(t, Fourcc(0x20203852), FormatR8)
	assert.Equal(t, Fourcc(0x38384752), FormatRG88)
	assert.Equal(t, Fourcc(0x32334752), FormatRG1616)
}

func TestFourcc_String(t *testing.T) {
	assert.Equal(t, "NV12", FormatNV12.String())
	assert.Equal(t, "R8  ", FormatR8.String())
	assert.Equal(t, "0x00000001", Fourcc(1).String())
}

func TestFourcc_LayerFormats(t *testing.T) {
	tests := []struct {
		format Fourcc
		luma   Fourcc
		chroma Fourcc
	}{
		{FormatNV12, FormatR8, FormatRG88},
		{FormatP010, FormatR16, FormatRG1616},
		{FormatP016, FormatR16, FormatRG1616},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			assert.True(t, tt.format.Is420())
			assert.Equal(t, tt.luma, tt.format.LumaLayerFormat())
			assert.Equal(t, tt.chroma, tt.format.ChromaLayerFormat())
		})
	}
	assert.False(t, FormatR8.Is420())
}

func TestModifier_NVIDIABlockLinear(t *testing.T) {
	m := NVIDIABlockLinear2D(0, 1, 2, 0xfe, 4)
	assert.Equal(t, VendorNVIDIA, m.Vendor())
	assert.True(t, m.IsBlockLinear())
	assert.Equal(t, 4, m.BlockHeightLog2())
	assert.Equal(t, "NVIDIA_BLOCK_LINEAR_2D(h=4)", m.String())

	assert.False(t, ModifierLinear.IsBlockLinear())
	assert.Equal(t, "LINEAR", ModifierLinear.String())
	assert.Equal(t, "INVALID", ModifierInvalid.String())
}

func TestPRIMEDescriptor_Validate(t *testing.T) {
	d := PRIMEDescriptor{
		Fourcc:     FormatNV12,
		NumObjects: 2,
		NumLayers:  2,
	}
	d.Objects[0].FD = 10
	d.Objects[1].FD = 11
	d.Layers[0] = PRIMELayer{DRMFormat: FormatR8, NumPlanes: 1}
	d.Layers[1] = PRIMELayer{DRMFormat: FormatRG88, NumPlanes: 1}
	d.Layers[1].ObjectIndex[0] = 1
	require.NoError(t, d.Validate())

	d.Layers[1].ObjectIndex[0] = 2
	assert.Error(t, d.Validate())

	d.Layers[1].ObjectIndex[0] = 1
	d.Objects[1].FD = -1
	assert.Error(t, d.Validate())
}

func TestPRIMEDescriptor_Close(t *testing.T) {
	fd, err := unix.MemfdCreate("drm-test", unix.MFD_CLOEXEC)
	require.NoError(t, err)

	d := PRIMEDescriptor{NumObjects: 2}
	d.Objects[0].FD = int32(fd)
	d.Objects[1].FD = -1

	require.NoError(t, d.Close())
	assert.Equal(t, int32(-1), d.Objects[0].FD)

	_, err = unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	assert.ErrorIs(t, err, unix.EBADF)

	// Second close is a no-op.
	require.NoError(t, d.Close())
}
