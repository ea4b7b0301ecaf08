package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nvprime/internal/application/port/mocks"
	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/pkg/drm"
)

func TestDescribeSurfaceUseCase_Execute_NV12_1080p(t *testing.T) {
	ctx := testContext()
	stack := newHostStack(t, 0)

	s, err := stack.registry.NewSurface(1920, 1080, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)
	store, err := stack.resolve.Resolve(ctx, s)
	require.NoError(t, err)

	desc, err := stack.describe.Execute(ctx, s)
	require.NoError(t, err)
	require.NoError(t, desc.Validate())

	assert.Equal(t, drm.FormatNV12, desc.Fourcc)
	assert.Equal(t, uint32(1920), desc.Width)
	assert.Equal(t, uint32(1080), desc.Height)
	assert.Equal(t, uint32(2), desc.NumLayers)
	assert.Equal(t, uint32(2), desc.NumObjects)
	assert.Equal(t, drm.FormatR8, desc.Layers[0].DRMFormat)
	assert.Equal(t, drm.FormatRG88, desc.Layers[1].DRMFormat)

	for i := 0; i < entity.PlaneCount420; i++ {
		obj, layer, plane := desc.Objects[i], desc.Layers[i], store.Planes[i]
		assert.NotEqual(t, plane.FD, int(obj.FD), "object %d must be a duplicate", i)
		assert.Equal(t, uint32(plane.Size), obj.Size)
		assert.Equal(t, plane.Modifier, obj.DRMFormatModifier)
		assert.Equal(t, uint32(1), layer.NumPlanes)
		assert.Equal(t, uint32(i), layer.ObjectIndex[0])
		assert.Equal(t, plane.Offset, layer.Offset[0])
		assert.Equal(t, plane.Stride, layer.Pitch[0])
	}

	// Closing the duplicates leaves the store's descriptors open.
	require.NoError(t, desc.Close())
	assert.True(t, fdIsOpen(store.Planes[0].FD))
	assert.True(t, fdIsOpen(store.Planes[1].FD))

	// The duplicates outlive the store.
	again, err := stack.describe.Execute(ctx, s)
	require.NoError(t, err)
	require.NoError(t, stack.registry.Detach(ctx, s))
	assert.True(t, fdIsOpen(int(again.Objects[0].FD)))
	assert.True(t, fdIsOpen(int(again.Objects[1].FD)))
	require.NoError(t, again.Close())
}

func TestDescribeSurfaceUseCase_Execute_HighBitDepthLayers(t *testing.T) {
	ctx := testContext()
	stack := newHostStack(t, 0)

	s, err := stack.registry.NewSurface(640, 480, entity.SurfaceFormatP016, 0)
	require.NoError(t, err)
	_, err = stack.resolve.Resolve(ctx, s)
	require.NoError(t, err)

	desc, err := stack.describe.Execute(ctx, s)
	require.NoError(t, err)
	defer desc.Close()

	assert.Equal(t, drm.FormatP016, desc.Fourcc)
	assert.Equal(t, drm.FormatR16, desc.Layers[0].DRMFormat)
	assert.Equal(t, drm.FormatRG1616, desc.Layers[1].DRMFormat)
}

func TestDescribeSurfaceUseCase_Execute_Unresolved(t *testing.T) {
	ctx := testContext()

	fds := mocks.NewMockFileDescriptors(t)
	s, err := entity.NewSurface(64, 32, entity.SurfaceFormatNV12, 5)
	require.NoError(t, err)

	_, err = usecase.NewDescribeSurfaceUseCase(fds).Execute(ctx, s)
	assert.ErrorIs(t, err, usecase.ErrSurfaceNotResolved)
}

func TestDescribeSurfaceUseCase_Execute_DupFailureClosesEarlierDuplicates(t *testing.T) {
	ctx := testContext()

	fds := mocks.NewMockFileDescriptors(t)
	s, err := entity.NewSurface(64, 32, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)
	require.NoError(t, s.Bind(fakeStore(1)))

	dupErr := errors.New("EMFILE")
	fds.EXPECT().Dup(10).Return(40, nil)
	fds.EXPECT().Dup(11).Return(-1, dupErr)
	fds.EXPECT().Close(40).Return(nil)

	desc, err := usecase.NewDescribeSurfaceUseCase(fds).Execute(ctx, s)
	assert.Nil(t, desc)
	assert.ErrorIs(t, err, dupErr)
}
