package usecase_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/application/port/mocks"
	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/pkg/drm"
)

func TestAllocateBackingStoreUseCase_Execute_PlaneGeometry(t *testing.T) {
	sizes := [][2]uint32{{2, 2}, {64, 32}, {1280, 720}, {1920, 1080}, {3840, 2160}}
	formats := []entity.SurfaceFormat{entity.SurfaceFormatNV12, entity.SurfaceFormatP016}

	for _, format := range formats {
		for _, size := range sizes {
			t.Run(fmt.Sprintf("%s_%dx%d", format, size[0], size[1]), func(t *testing.T) {
				ctx := testContext()
				stack := newHostStack(t, 0)

				w, h := size[0], size[1]
				s, err := entity.NewSurface(w, h, format, 0)
				require.NoError(t, err)

				store, err := stack.allocate.Execute(ctx, s)
				require.NoError(t, err)
				defer func() { require.NoError(t, stack.registry.Release(ctx, store)) }()

				bps := uint64(format.BytesPerSample())
				luma, chroma := store.Planes[0], store.Planes[1]

				assert.Equal(t, format.Fourcc(), store.Fourcc)
				assert.Equal(t, entity.PlaneCount420, store.NumPlanes)
				assert.GreaterOrEqual(t, luma.Size, uint64(w)*uint64(h)*bps)
				assert.GreaterOrEqual(t, chroma.Size, uint64(w/2)*uint64(h/2)*2*bps)
				assert.GreaterOrEqual(t, uint64(luma.Stride), uint64(w)*bps)
				assert.GreaterOrEqual(t, uint64(chroma.Stride), uint64(w/2)*2*bps)
				assert.Equal(t, uint32(1), luma.Channels)
				assert.Equal(t, uint32(2), chroma.Channels)
				assert.Equal(t, [2]uint32{w / 2, h / 2}, [2]uint32{chroma.Width, chroma.Height})

				for i := 0; i < entity.PlaneCount420; i++ {
					p := store.Planes[i]
					assert.True(t, fdIsOpen(p.FD), "plane %d fd", i)
					assert.NotZero(t, p.ExternalMemory)
					assert.NotZero(t, p.MipmappedArray)
					assert.NotZero(t, p.Array)
				}
				assert.False(t, store.Planes[2].Populated())
			})
		}
	}
}

func TestAllocateBackingStoreUseCase_Execute_RequestsPerFormat(t *testing.T) {
	tests := []struct {
		format entity.SurfaceFormat
		bits   uint32
		array  entity.ArrayFormat
	}{
		{entity.SurfaceFormatNV12, 8, entity.ArrayFormatUint8},
		{entity.SurfaceFormatP016, 16, entity.ArrayFormatUint16},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			ctx := testContext()

			allocator := mocks.NewMockBufferAllocator(t)
			compute := mocks.NewMockComputeAPI(t)
			fds := mocks.NewMockFileDescriptors(t)

			luma := port.PlaneRequest{Width: 64, Height: 32, Channels: 1, BitsPerSample: tt.bits}
			chroma := port.PlaneRequest{Width: 32, Height: 16, Channels: 2, BitsPerSample: tt.bits}

			allocator.EXPECT().AllocatePlane(ctx, luma).
				Return(&port.PlaneAllocation{ImportFD: 11, ExportFD: 10, Size: 4096, Pitch: 256}, nil)
			allocator.EXPECT().AllocatePlane(ctx, chroma).
				Return(&port.PlaneAllocation{ImportFD: 21, ExportFD: 20, Size: 4096, Pitch: 256}, nil)

			compute.EXPECT().ImportExternalMemory(11, uint64(4096)).Return(entity.ExternalMemory(0x100), nil)
			compute.EXPECT().ImportExternalMemory(21, uint64(4096)).Return(entity.ExternalMemory(0x200), nil)
			compute.EXPECT().MapMipmappedArray(entity.ExternalMemory(0x100), port.MipmappedArrayDesc{
				Width: 64, Height: 32, Format: tt.array, Channels: 1, NumLevels: 1,
			}).Return(entity.MipmappedArray(0x110), nil)
			compute.EXPECT().MapMipmappedArray(entity.ExternalMemory(0x200), port.MipmappedArrayDesc{
				Width: 32, Height: 16, Format: tt.array, Channels: 2, NumLevels: 1,
			}).Return(entity.MipmappedArray(0x210), nil)
			compute.EXPECT().MipmappedArrayLevel(entity.MipmappedArray(0x110), uint32(0)).Return(entity.Array(0x111), nil)
			compute.EXPECT().MipmappedArrayLevel(entity.MipmappedArray(0x210), uint32(0)).Return(entity.Array(0x211), nil)

			s, err := entity.NewSurface(64, 32, tt.format, 1)
			require.NoError(t, err)

			store, err := usecase.NewAllocateBackingStoreUseCase(allocator, compute, fds).Execute(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, 10, store.Planes[0].FD)
			assert.Equal(t, 20, store.Planes[1].FD)
			assert.Equal(t, entity.Array(0x111), store.Planes[0].Array)
			assert.Equal(t, entity.Array(0x211), store.Planes[1].Array)
			assert.Nil(t, store.Owner())
		})
	}
}

func TestAllocateBackingStoreUseCase_Execute_ImportFailureReleasesEverything(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)

	allocator.EXPECT().AllocatePlane(ctx, mock.Anything).
		Return(&port.PlaneAllocation{ImportFD: 11, ExportFD: 10, Size: 4096, Pitch: 256}, nil).Once()
	allocator.EXPECT().AllocatePlane(ctx, mock.Anything).
		Return(&port.PlaneAllocation{ImportFD: 21, ExportFD: 20, Size: 4096, Pitch: 256}, nil).Once()

	compute.EXPECT().ImportExternalMemory(11, uint64(4096)).Return(entity.ExternalMemory(0x100), nil)
	compute.EXPECT().MapMipmappedArray(entity.ExternalMemory(0x100), mock.Anything).Return(entity.MipmappedArray(0x110), nil)
	compute.EXPECT().MipmappedArrayLevel(entity.MipmappedArray(0x110), uint32(0)).Return(entity.Array(0x111), nil)

	importErr := errors.New("CUDA_ERROR_OUT_OF_MEMORY")
	compute.EXPECT().ImportExternalMemory(21, uint64(4096)).Return(0, importErr)

	// The failed import leaves fd 21 with the caller.
	fds.EXPECT().Close(21).Return(nil)

	mock.InOrder(
		compute.EXPECT().DestroyArray(entity.Array(0x111)).Return(nil).Call,
		compute.EXPECT().DestroyMipmappedArray(entity.MipmappedArray(0x110)).Return(nil).Call,
		compute.EXPECT().DestroyExternalMemory(entity.ExternalMemory(0x100)).Return(nil).Call,
		fds.EXPECT().Close(10).Return(nil).Call,
		fds.EXPECT().Close(20).Return(nil).Call,
	)

	s, err := entity.NewSurface(64, 32, entity.SurfaceFormatNV12, 4)
	require.NoError(t, err)

	store, err := usecase.NewAllocateBackingStoreUseCase(allocator, compute, fds).Execute(ctx, s)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.ErrorIs(t, err, usecase.ErrAllocationFailed)
	assert.ErrorIs(t, err, importErr)
	assert.Nil(t, s.BackingStore())
}

func TestAllocateBackingStoreUseCase_Execute_ImportFDCloseFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	ctx := bufferContext(&buf)

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)

	allocator.EXPECT().AllocatePlane(ctx, mock.Anything).
		Return(&port.PlaneAllocation{ImportFD: 11, ExportFD: 10, Size: 4096, Pitch: 256}, nil).Once()
	compute.EXPECT().ImportExternalMemory(11, uint64(4096)).Return(0, errors.New("CUDA_ERROR_INVALID_HANDLE"))
	fds.EXPECT().Close(11).Return(unix.EBADF)
	fds.EXPECT().Close(10).Return(nil)

	s, err := entity.NewSurface(64, 32, entity.SurfaceFormatNV12, 4)
	require.NoError(t, err)

	_, err = usecase.NewAllocateBackingStoreUseCase(allocator, compute, fds).Execute(ctx, s)
	require.ErrorIs(t, err, usecase.ErrAllocationFailed)
	assert.NotErrorIs(t, err, unix.EBADF)

	out := buf.String()
	assert.Contains(t, out, "failed to close import fd after failed import")
	assert.Contains(t, out, `"fd":11`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestAllocateBackingStoreUseCase_Execute_MapFailureKeepsImportedFD(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)

	allocator.EXPECT().AllocatePlane(ctx, mock.Anything).
		Return(&port.PlaneAllocation{ImportFD: 11, ExportFD: 10, Size: 4096, Pitch: 256}, nil).Once()
	compute.EXPECT().ImportExternalMemory(11, uint64(4096)).Return(entity.ExternalMemory(0x100), nil)

	mapErr := errors.New("CUDA_ERROR_INVALID_VALUE")
	compute.EXPECT().MapMipmappedArray(entity.ExternalMemory(0x100), mock.Anything).Return(0, mapErr)

	mock.InOrder(
		compute.EXPECT().DestroyExternalMemory(entity.ExternalMemory(0x100)).Return(nil).Call,
		fds.EXPECT().Close(10).Return(nil).Call,
	)

	s, err := entity.NewSurface(64, 32, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)

	_, err = usecase.NewAllocateBackingStoreUseCase(allocator, compute, fds).Execute(ctx, s)
	assert.ErrorIs(t, err, mapErr)
	assert.ErrorIs(t, err, usecase.ErrAllocationFailed)
}

func TestAllocateBackingStoreUseCase_Execute_AllocatorFailure(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)

	allocErr := errors.New("NvKmsKapiAllocateMemory failed")
	allocator.EXPECT().AllocatePlane(ctx, mock.Anything).Return(nil, allocErr)

	s, err := entity.NewSurface(64, 32, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)

	_, err = usecase.NewAllocateBackingStoreUseCase(allocator, compute, fds).Execute(ctx, s)
	assert.ErrorIs(t, err, allocErr)
	assert.ErrorIs(t, err, usecase.ErrAllocationFailed)
}

func TestAllocateBackingStoreUseCase_Execute_HostFormatsMatchDescriptorLayers(t *testing.T) {
	ctx := testContext()
	stack := newHostStack(t, 0)

	s, err := entity.NewSurface(64, 32, entity.SurfaceFormatP016, 0)
	require.NoError(t, err)
	store, err := stack.allocate.Execute(ctx, s)
	require.NoError(t, err)
	defer stack.registry.Release(ctx, store)

	assert.Equal(t, drm.FormatP016, store.Fourcc)
	assert.Equal(t, drm.ModifierLinear, store.Planes[0].Modifier)
}
