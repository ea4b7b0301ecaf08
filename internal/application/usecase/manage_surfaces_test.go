package usecase_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nvprime/internal/application/port/mocks"
	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/pkg/drm"
)

// fakeStore returns a store whose plane handles encode the store number.
func fakeStore(n int) *entity.BackingStore {
	store := entity.NewBackingStore(64, 32, drm.FormatNV12)
	for i := 0; i < entity.PlaneCount420; i++ {
		base := uintptr(n*0x100 + i*0x10)
		store.Planes[i].FD = n*10 + i
		store.Planes[i].Array = entity.Array(base + 1)
		store.Planes[i].MipmappedArray = entity.MipmappedArray(base + 2)
		store.Planes[i].ExternalMemory = entity.ExternalMemory(base + 3)
	}
	return store
}

// recordReleases makes every destroy and close call succeed and appends it
// to calls.
func recordReleases(compute *mocks.MockComputeAPI, fds *mocks.MockFileDescriptors, calls *[]string) {
	compute.EXPECT().DestroyArray(mock.Anything).RunAndReturn(func(a entity.Array) error {
		*calls = append(*calls, fmt.Sprintf("array:%#x", a))
		return nil
	}).Maybe()
	compute.EXPECT().DestroyMipmappedArray(mock.Anything).RunAndReturn(func(m entity.MipmappedArray) error {
		*calls = append(*calls, fmt.Sprintf("mipmap:%#x", m))
		return nil
	}).Maybe()
	compute.EXPECT().DestroyExternalMemory(mock.Anything).RunAndReturn(func(e entity.ExternalMemory) error {
		*calls = append(*calls, fmt.Sprintf("extmem:%#x", e))
		return nil
	}).Maybe()
	fds.EXPECT().Close(mock.Anything).RunAndReturn(func(fd int) error {
		*calls = append(*calls, fmt.Sprintf("fd:%d", fd))
		return nil
	}).Maybe()
}

func TestSurfaceRegistry_AttachDetach(t *testing.T) {
	ctx := testContext()

	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)
	var calls []string
	recordReleases(compute, fds, &calls)

	registry := usecase.NewSurfaceRegistry(compute, fds)
	s, err := registry.NewSurface(64, 32, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)

	store := fakeStore(1)
	require.NoError(t, registry.Attach(s, store))
	assert.Same(t, store, s.BackingStore())
	assert.Same(t, s, store.Owner())
	assert.Equal(t, 1, registry.Len())

	assert.ErrorIs(t, registry.Attach(s, fakeStore(2)), entity.ErrSurfaceAlreadyBound)
	assert.Equal(t, 1, registry.Len())

	require.NoError(t, registry.Detach(ctx, s))
	assert.Nil(t, s.BackingStore())
	assert.Nil(t, store.Owner())
	assert.True(t, store.Destroyed())
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, []string{
		"array:0x101", "mipmap:0x102", "extmem:0x103", "fd:10",
		"array:0x111", "mipmap:0x112", "extmem:0x113", "fd:11",
	}, calls)

	// Detaching again is a no-op.
	require.NoError(t, registry.Detach(ctx, s))
	assert.Len(t, calls, 8)
}

func TestSurfaceRegistry_NewSurfaceValidates(t *testing.T) {
	registry := usecase.NewSurfaceRegistry(mocks.NewMockComputeAPI(t), mocks.NewMockFileDescriptors(t))

	_, err := registry.NewSurface(63, 32, entity.SurfaceFormatNV12, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidDimensions)
	_, err = registry.NewSurface(64, 32, entity.SurfaceFormat(7), 0)
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestSurfaceRegistry_DestroyAllReverseOrder(t *testing.T) {
	ctx := testContext()

	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)
	var calls []string
	recordReleases(compute, fds, &calls)

	registry := usecase.NewSurfaceRegistry(compute, fds)
	surfaces := make([]*entity.Surface, 3)
	for i := range surfaces {
		s, err := registry.NewSurface(64, 32, entity.SurfaceFormatNV12, i)
		require.NoError(t, err)
		require.NoError(t, registry.Attach(s, fakeStore(i+1)))
		surfaces[i] = s
	}

	require.NoError(t, registry.DestroyAll(ctx))
	assert.Equal(t, 0, registry.Len())
	for _, s := range surfaces {
		assert.Nil(t, s.BackingStore())
		assert.Equal(t, entity.StateUnbound, s.State())
	}

	require.Len(t, calls, 24)
	assert.Equal(t, "array:0x301", calls[0])
	assert.Equal(t, "array:0x201", calls[8])
	assert.Equal(t, "array:0x101", calls[16])

	require.NoError(t, registry.DestroyAll(ctx))
	assert.Len(t, calls, 24)
}

func TestSurfaceRegistry_DestroyAllJoinsErrors(t *testing.T) {
	ctx := testContext()

	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)

	busy := errors.New("CUDA_ERROR_CONTEXT_IS_DESTROYED")
	compute.EXPECT().DestroyArray(mock.Anything).Return(busy)
	compute.EXPECT().DestroyMipmappedArray(mock.Anything).Return(nil)
	compute.EXPECT().DestroyExternalMemory(mock.Anything).Return(nil)
	fds.EXPECT().Close(mock.Anything).Return(nil)

	registry := usecase.NewSurfaceRegistry(compute, fds)
	registry.Track(fakeStore(1))
	registry.Track(fakeStore(2))

	err := registry.DestroyAll(ctx)
	assert.ErrorIs(t, err, busy)
	assert.Equal(t, 0, registry.Len())
	compute.AssertNumberOfCalls(t, "DestroyArray", 4)
	fds.AssertNumberOfCalls(t, "Close", 4)
}

func TestSurfaceRegistry_ResourceBalance(t *testing.T) {
	ctx := testContext()
	stack := newHostStack(t, 0)

	baseline := openFDs(t)

	const n = 16
	for i := 0; i < n; i++ {
		s, err := stack.registry.NewSurface(320, 240, entity.SurfaceFormatNV12, i)
		require.NoError(t, err)
		_, err = stack.resolve.Resolve(ctx, s)
		require.NoError(t, err)
	}
	assert.Equal(t, n, stack.registry.Len())
	assert.Equal(t, baseline+2*n, openFDs(t))

	require.NoError(t, stack.registry.DestroyAll(ctx))
	assert.Equal(t, baseline, openFDs(t))

	stats := stack.device.Compute().Stats()
	assert.Zero(t, stats.Arrays)
	assert.Zero(t, stats.MipmappedArrays)
	assert.Zero(t, stats.ExternalMemories)
}
