package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/logging"
)

// planeReleaser adapts the compute API and fd closer to entity.PlaneReleaser.
type planeReleaser struct {
	port.ComputeAPI
	fds port.FileDescriptors
}

func (r planeReleaser) CloseFD(fd int) error {
	return r.fds.Close(fd)
}

// AllocateBackingStoreUseCase allocates the luma and chroma planes of a
// surface and imports them into the compute API.
type AllocateBackingStoreUseCase struct {
	allocator port.BufferAllocator
	compute   port.ComputeAPI
	fds       port.FileDescriptors
}

// NewAllocateBackingStoreUseCase creates a new AllocateBackingStoreUseCase.
func NewAllocateBackingStoreUseCase(
	allocator port.BufferAllocator,
	compute port.ComputeAPI,
	fds port.FileDescriptors,
) *AllocateBackingStoreUseCase {
	return &AllocateBackingStoreUseCase{
		allocator: allocator,
		compute:   compute,
		fds:       fds,
	}
}

// Execute returns a fully populated store for s, or an error wrapping
// ErrAllocationFailed. On failure every resource created so far has been
// released and no store is returned.
func (uc *AllocateBackingStoreUseCase) Execute(ctx context.Context, s *entity.Surface) (*entity.BackingStore, error) {
	log := logging.FromContext(ctx)

	bits := s.Format.BitsPerSample()
	requests := [entity.PlaneCount420]port.PlaneRequest{
		{Width: s.Width, Height: s.Height, Channels: 1, BitsPerSample: bits},
		{Width: s.Width / 2, Height: s.Height / 2, Channels: 2, BitsPerSample: bits},
	}

	store := entity.NewBackingStore(s.Width, s.Height, s.Format.Fourcc())
	for i, req := range requests {
		if err := uc.allocatePlane(ctx, &store.Planes[i], req); err != nil {
			if rerr := store.Release(planeReleaser{uc.compute, uc.fds}); rerr != nil {
				log.Warn().Err(rerr).Msg("cleanup of partial backing store incomplete")
			}
			return nil, fmt.Errorf("%w: plane %d: %w", ErrAllocationFailed, i, err)
		}
	}

	log.Debug().
		Uint64("store", store.ID).
		Uint32("width", s.Width).
		Uint32("height", s.Height).
		Str("fourcc", store.Fourcc.String()).
		Int("luma_fd", store.Planes[0].FD).
		Int("chroma_fd", store.Planes[1].FD).
		Msg("allocated backing store")
	return store, nil
}

func (uc *AllocateBackingStoreUseCase) allocatePlane(ctx context.Context, p *entity.Plane, req port.PlaneRequest) error {
	alloc, err := uc.allocator.AllocatePlane(ctx, req)
	if err != nil {
		return fmt.Errorf("allocate %dx%d: %w", req.Width, req.Height, err)
	}

	p.FD = alloc.ExportFD
	p.Size = alloc.Size
	p.Stride = alloc.Pitch
	p.Offset = alloc.Offset
	p.Modifier = alloc.Modifier
	p.Width = req.Width
	p.Height = req.Height
	p.Channels = req.Channels

	// The import consumes ImportFD only when it succeeds.
	mem, err := uc.compute.ImportExternalMemory(alloc.ImportFD, alloc.Size)
	if err != nil {
		if cerr := uc.fds.Close(alloc.ImportFD); cerr != nil {
			logging.FromContext(ctx).Warn().
				Err(cerr).
				Int("fd", alloc.ImportFD).
				Msg("failed to close import fd after failed import")
		}
		return fmt.Errorf("import external memory: %w", err)
	}
	p.ExternalMemory = mem

	mip, err := uc.compute.MapMipmappedArray(mem, port.MipmappedArrayDesc{
		Width:     req.Width,
		Height:    req.Height,
		Depth:     0,
		Format:    entity.ArrayFormatForBits(req.BitsPerSample),
		Channels:  req.Channels,
		NumLevels: 1,
	})
	if err != nil {
		return fmt.Errorf("map mipmapped array: %w", err)
	}
	p.MipmappedArray = mip

	arr, err := uc.compute.MipmappedArrayLevel(mip, 0)
	if err != nil {
		return fmt.Errorf("get mipmapped array level: %w", err)
	}
	p.Array = arr
	return nil
}
