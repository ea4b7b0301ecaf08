package bootstrap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nvprime/internal/bootstrap"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/pkg/drm"
)

func TestRunSelftest(t *testing.T) {
	tests := []struct {
		name   string
		format entity.SurfaceFormat
		fourcc drm.Fourcc
		luma   drm.Fourcc
	}{
		{name: "nv12", format: entity.SurfaceFormatNV12, fourcc: drm.FormatNV12, luma: drm.FormatR8},
		{name: "p016", format: entity.SurfaceFormatP016, fourcc: drm.FormatP016, luma: drm.FormatR16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			device := newHostDevice(t, 2)
			exp := newHostExporter(t, ctx, device)
			t.Cleanup(func() { _ = exp.Close(ctx) })

			report, err := bootstrap.RunSelftest(ctx, exp, device.Compute(), bootstrap.SelftestOptions{
				Width:    96,
				Height:   48,
				Format:   tt.format,
				Surfaces: 6,
				Workers:  4,
			})
			require.NoError(t, err)

			assert.True(t, report.OK())
			assert.Equal(t, 6, report.ResolvedSurfaces)
			assert.Equal(t, 12, report.VerifiedPlanes)
			assert.Zero(t, report.LeakedFDs)
			assert.True(t, report.Device.Matched)
			assert.Equal(t, tt.fourcc, report.Descriptor.Fourcc)
			assert.Equal(t, tt.luma, report.Descriptor.Layers[0].DRMFormat)
			assert.Equal(t, int32(-1), report.Descriptor.Objects[0].FD)

			var names []string
			for _, p := range report.Phases {
				names = append(names, p.Name)
			}
			assert.Equal(t, []string{"frame", "create", "resolve", "export", "describe", "detach", "destroy"}, names)
			assert.Zero(t, exp.LiveStores())
		})
	}
}

func TestRunSelftest_NoSurfaces(t *testing.T) {
	ctx := testContext()
	device := newHostDevice(t, 1)
	exp := newHostExporter(t, ctx, device)
	t.Cleanup(func() { _ = exp.Close(ctx) })

	_, err := bootstrap.RunSelftest(ctx, exp, device.Compute(), bootstrap.SelftestOptions{
		Width: 16, Height: 16, Format: entity.SurfaceFormatNV12,
	})
	assert.Error(t, err)
}

type failingFrames struct{ err error }

func (f failingFrames) AllocDevice(uint64) (entity.DevicePtr, error) { return 0, f.err }
func (failingFrames) FillDevice(entity.DevicePtr, uint64, byte, uint64) error {
	return nil
}
func (failingFrames) FreeDevice(entity.DevicePtr) error { return nil }

func TestRunSelftest_FrameAllocationFailure(t *testing.T) {
	ctx := testContext()
	exp := newHostExporter(t, ctx, newHostDevice(t, 1))
	t.Cleanup(func() { _ = exp.Close(ctx) })

	oom := errors.New("out of memory")
	_, err := bootstrap.RunSelftest(ctx, exp, failingFrames{err: oom}, bootstrap.SelftestOptions{
		Width: 16, Height: 16, Format: entity.SurfaceFormatNV12, Surfaces: 1,
	})
	assert.ErrorIs(t, err, oom)
	assert.Zero(t, exp.LiveStores())
}

func TestRunSelftest_InvalidGeometry(t *testing.T) {
	ctx := testContext()
	device := newHostDevice(t, 1)
	exp := newHostExporter(t, ctx, device)
	t.Cleanup(func() { _ = exp.Close(ctx) })

	_, err := bootstrap.RunSelftest(ctx, exp, device.Compute(), bootstrap.SelftestOptions{
		Width: 15, Height: 16, Format: entity.SurfaceFormatNV12, Surfaces: 1,
	})
	assert.ErrorIs(t, err, entity.ErrInvalidDimensions)
}
