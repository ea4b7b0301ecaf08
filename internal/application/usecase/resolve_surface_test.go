package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/application/port/mocks"
	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/infrastructure/hostmem"
)

// writeFrame fills a pitched NV12-style picture in device memory: luma rows
// hold lumaValue, chroma rows hold chromaValue.
func writeFrame(t *testing.T, compute *hostmem.Compute, w, h, bps, pitch uint64, lumaValue, chromaValue byte) entity.DevicePtr {
	t.Helper()
	ptr, err := compute.AllocDevice(pitch * (h + h/2))
	require.NoError(t, err)

	row := make([]byte, w*bps)
	for i := range row {
		row[i] = lumaValue
	}
	for y := uint64(0); y < h; y++ {
		require.NoError(t, compute.WriteDevice(ptr, y*pitch, row))
	}
	for i := range row {
		row[i] = chromaValue
	}
	for y := h; y < h+h/2; y++ {
		require.NoError(t, compute.WriteDevice(ptr, y*pitch, row))
	}
	return ptr
}

// assertPlaneFilled maps an exported object and checks that every row of the plane
// holds want.
func assertPlaneFilled(t *testing.T, fd int32, size, pitch uint32, rows int, rowBytes int, want byte) {
	t.Helper()
	data, err := unix.Mmap(int(fd), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	require.NoError(t, err)
	defer unix.Munmap(data)

	for y := 0; y < rows; y++ {
		off := y * int(pitch)
		for x, b := range data[off : off+rowBytes] {
			if b != want {
				t.Fatalf("row %d byte %d: got %#x, want %#x", y, x, b, want)
			}
		}
	}
}

func TestResolveSurfaceUseCase_Resolve_Idempotent(t *testing.T) {
	ctx := testContext()
	stack := newHostStack(t, 0)

	s, err := stack.registry.NewSurface(128, 64, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)

	first, err := stack.resolve.Resolve(ctx, s)
	require.NoError(t, err)
	second, err := stack.resolve.Resolve(ctx, s)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(2), stack.device.Allocator().Allocations())
	assert.Equal(t, 1, stack.registry.Len())
	assert.Equal(t, entity.StateResolved, s.State())
}

func TestResolveSurfaceUseCase_Resolve_Concurrent(t *testing.T) {
	ctx := testContext()
	stack := newHostStack(t, 0)

	s, err := stack.registry.NewSurface(256, 128, entity.SurfaceFormatNV12, 9)
	require.NoError(t, err)

	const workers = 100
	stores := make([]*entity.BackingStore, workers)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			store, err := stack.resolve.Resolve(ctx, s)
			stores[i] = store
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(entity.PlaneCount420), stack.device.Allocator().Allocations())
	assert.Equal(t, 1, stack.registry.Len())
	for i := range stores {
		assert.Same(t, s.BackingStore(), stores[i])
	}
}

func TestResolveSurfaceUseCase_TeardownRacesExportAndDescribe(t *testing.T) {
	ctx := testContext()
	stack := newHostStack(t, 0)
	compute := stack.device.Compute()

	const w, h = 64, 32
	pitch := uint64(128)
	ptr := writeFrame(t, compute, w, h, 1, pitch, 0x21, 0x84)
	t.Cleanup(func() { _ = compute.FreeDevice(ptr) })

	before := openFDs(t)

	for i := 0; i < 200; i++ {
		s, err := stack.registry.NewSurface(w, h, entity.SurfaceFormatNV12, i)
		require.NoError(t, err)
		_, err = stack.resolve.Resolve(ctx, s)
		require.NoError(t, err)

		var g errgroup.Group
		g.Go(func() error {
			err := stack.resolve.ExportFrame(ctx, s, ptr, pitch)
			if err != nil && !errors.Is(err, entity.ErrStoreDestroyed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			desc, err := stack.describe.Execute(ctx, s)
			if errors.Is(err, usecase.ErrSurfaceNotResolved) {
				return nil
			}
			if err != nil {
				return err
			}
			defer desc.Close()
			// The duplicates must still refer to the plane memory.
			for j := uint32(0); j < desc.NumObjects; j++ {
				var st unix.Stat_t
				if err := unix.Fstat(int(desc.Objects[j].FD), &st); err != nil {
					return err
				}
				if uint64(st.Size) < uint64(desc.Objects[j].Size) {
					return fmt.Errorf("object %d: fd is %d bytes, want %d", j, st.Size, desc.Objects[j].Size)
				}
			}
			return desc.Validate()
		})
		g.Go(func() error {
			return stack.registry.DestroyAll(ctx)
		})
		require.NoError(t, g.Wait())
		if err := s.WaitResolved(ctx); err != nil {
			require.ErrorIs(t, err, entity.ErrStoreDestroyed, "iteration %d", i)
		}
	}

	require.NoError(t, stack.registry.DestroyAll(ctx))
	assert.Equal(t, 0, stack.registry.Len())
	assert.Equal(t, before, openFDs(t))
}

func TestResolveSurfaceUseCase_Resolve_FailureLeavesSurfaceUnbound(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)

	allocErr := errors.New("out of video memory")
	allocator.EXPECT().AllocatePlane(ctx, mock.Anything).Return(nil, allocErr).Once()

	registry := usecase.NewSurfaceRegistry(compute, fds)
	uc := usecase.NewResolveSurfaceUseCase(usecase.NewAllocateBackingStoreUseCase(allocator, compute, fds), registry, compute, 0)

	s, err := registry.NewSurface(64, 32, entity.SurfaceFormatNV12, 2)
	require.NoError(t, err)

	_, err = uc.Resolve(ctx, s)
	assert.ErrorIs(t, err, allocErr)
	assert.Equal(t, entity.StateUnbound, s.State())
	assert.Equal(t, 0, registry.Len())

	// A retry starts from scratch.
	allocator.EXPECT().AllocatePlane(ctx, mock.Anything).Return(nil, allocErr).Once()
	_, err = uc.Resolve(ctx, s)
	assert.ErrorIs(t, err, usecase.ErrAllocationFailed)
}

func TestResolveSurfaceUseCase_ExportFrame_CopiesBothPlanes(t *testing.T) {
	tests := []struct {
		name   string
		format entity.SurfaceFormat
		stream entity.Stream
	}{
		{"nv12 default stream", entity.SurfaceFormatNV12, 0},
		{"nv12 stream", entity.SurfaceFormatNV12, 3},
		{"p016 default stream", entity.SurfaceFormatP016, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			stack := newHostStack(t, tt.stream)
			compute := stack.device.Compute()

			const w, h = 96, 48
			bps := uint64(tt.format.BytesPerSample())
			pitch := uint64(512)
			ptr := writeFrame(t, compute, w, h, bps, pitch, 0x5a, 0xc3)

			s, err := stack.registry.NewSurface(w, h, tt.format, 1)
			require.NoError(t, err)
			require.NoError(t, stack.resolve.ExportFrame(ctx, s, ptr, pitch))
			require.NoError(t, s.WaitResolved(ctx))
			assert.Equal(t, entity.StateResolved, s.State())

			desc, err := stack.describe.Execute(ctx, s)
			require.NoError(t, err)
			defer desc.Close()

			luma, chroma := desc.Objects[0], desc.Objects[1]
			assertPlaneFilled(t, luma.FD, luma.Size, desc.Layers[0].Pitch[0], h, int(w*bps), 0x5a)
			assertPlaneFilled(t, chroma.FD, chroma.Size, desc.Layers[1].Pitch[0], h/2, int(w*bps), 0xc3)

			require.NoError(t, compute.FreeDevice(ptr))
		})
	}
}

func TestResolveSurfaceUseCase_ExportFrame_NullPointerSkipsCopy(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)

	registry := usecase.NewSurfaceRegistry(compute, fds)
	uc := usecase.NewResolveSurfaceUseCase(usecase.NewAllocateBackingStoreUseCase(allocator, compute, fds), registry, compute, 0)

	s, err := registry.NewSurface(64, 32, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)
	require.NoError(t, registry.Attach(s, fakeStore(1)))

	s.BeginResolving()
	require.NoError(t, uc.ExportFrame(ctx, s, 0, 64))
	assert.Equal(t, entity.StateResolving, s.State())
}

func TestResolveSurfaceUseCase_ExportFrame_CopyParameters(t *testing.T) {
	ctx := testContext()

	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)
	registry := usecase.NewSurfaceRegistry(compute, fds)
	uc := usecase.NewResolveSurfaceUseCase(nil, registry, compute, 0)

	s, err := registry.NewSurface(1920, 1080, entity.SurfaceFormatP016, 0)
	require.NoError(t, err)
	store := fakeStore(1)
	require.NoError(t, registry.Attach(s, store))

	const ptr = entity.DevicePtr(0x7f0000)
	const pitch = 4096

	mock.InOrder(
		compute.EXPECT().Memcpy2DAsync(port.Copy2D{
			SrcDevice:    ptr,
			SrcPitch:     pitch,
			DstArray:     store.Planes[0].Array,
			WidthInBytes: 3840,
			Height:       1080,
		}, entity.Stream(0)).Return(nil).Call,
		compute.EXPECT().Memcpy2D(port.Copy2D{
			SrcDevice:    ptr,
			SrcY:         1080,
			SrcPitch:     pitch,
			DstArray:     store.Planes[1].Array,
			WidthInBytes: 3840,
			Height:       540,
		}).Return(nil).Call,
	)

	require.NoError(t, uc.ExportFrame(ctx, s, ptr, pitch))
	assert.Equal(t, entity.StateResolved, s.State())
}

func TestResolveSurfaceUseCase_ExportFrame_NonDefaultStreamSynchronizes(t *testing.T) {
	ctx := testContext()

	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)
	registry := usecase.NewSurfaceRegistry(compute, fds)
	uc := usecase.NewResolveSurfaceUseCase(nil, registry, compute, 5)

	s, err := registry.NewSurface(64, 32, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)
	require.NoError(t, registry.Attach(s, fakeStore(1)))

	mock.InOrder(
		compute.EXPECT().Memcpy2DAsync(mock.MatchedBy(func(c port.Copy2D) bool { return c.SrcY == 0 }), entity.Stream(5)).Return(nil).Call,
		compute.EXPECT().Memcpy2DAsync(mock.MatchedBy(func(c port.Copy2D) bool { return c.SrcY == 32 }), entity.Stream(5)).Return(nil).Call,
		compute.EXPECT().StreamSynchronize(entity.Stream(5)).Return(nil).Call,
	)

	require.NoError(t, uc.ExportFrame(ctx, s, 0x1000, 64))
}

func TestResolveSurfaceUseCase_ExportFrame_CopyFailureWakesWaiters(t *testing.T) {
	ctx := testContext()

	compute := mocks.NewMockComputeAPI(t)
	fds := mocks.NewMockFileDescriptors(t)
	registry := usecase.NewSurfaceRegistry(compute, fds)
	uc := usecase.NewResolveSurfaceUseCase(nil, registry, compute, 0)

	s, err := registry.NewSurface(64, 32, entity.SurfaceFormatNV12, 0)
	require.NoError(t, err)
	require.NoError(t, registry.Attach(s, fakeStore(1)))

	copyErr := errors.New("CUDA_ERROR_ILLEGAL_ADDRESS")
	release := make(chan struct{})
	compute.EXPECT().Memcpy2DAsync(mock.Anything, entity.Stream(0)).Return(nil)
	compute.EXPECT().Memcpy2D(mock.Anything).RunAndReturn(func(port.Copy2D) error {
		<-release
		return copyErr
	})

	s.BeginResolving()
	var wg sync.WaitGroup
	waitErrs := make(chan error, 4)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			waitErrs <- s.WaitResolved(context.Background())
		}()
	}

	exportErr := make(chan error, 1)
	go func() { exportErr <- uc.ExportFrame(ctx, s, 0x1000, 64) }()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, entity.StateResolving, s.State())
	close(release)

	err = <-exportErr
	assert.ErrorIs(t, err, usecase.ErrCopyFailed)
	assert.ErrorIs(t, err, copyErr)

	wg.Wait()
	close(waitErrs)
	for werr := range waitErrs {
		assert.ErrorIs(t, werr, copyErr)
	}
	assert.Equal(t, entity.StateResolved, s.State())
}

func TestResolveSurfaceUseCase_Resolve_AttachIsNotInFlight(t *testing.T) {
	ctx := testContext()
	stack := newHostStack(t, 0)

	s, err := stack.registry.NewSurface(64, 32, entity.SurfaceFormatNV12, 5)
	require.NoError(t, err)
	assert.Equal(t, entity.StateUnbound, s.State())

	_, err = stack.resolve.Resolve(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, entity.StateResolved, s.State())

	s.BeginResolving()
	assert.Equal(t, entity.StateResolving, s.State())
	s.FinishResolving(nil)
	assert.Equal(t, entity.StateResolved, s.State())
}
