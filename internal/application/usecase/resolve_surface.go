package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/logging"
)

// ResolveSurfaceUseCase makes sure a surface has a backing store and fills
// it with decoded pictures.
type ResolveSurfaceUseCase struct {
	allocate *AllocateBackingStoreUseCase
	registry *SurfaceRegistry
	compute  port.ComputeAPI
	stream   entity.Stream
}

// NewResolveSurfaceUseCase creates a new ResolveSurfaceUseCase. Both plane
// copies of a frame are issued on stream.
func NewResolveSurfaceUseCase(
	allocate *AllocateBackingStoreUseCase,
	registry *SurfaceRegistry,
	compute port.ComputeAPI,
	stream entity.Stream,
) *ResolveSurfaceUseCase {
	return &ResolveSurfaceUseCase{
		allocate: allocate,
		registry: registry,
		compute:  compute,
		stream:   stream,
	}
}

// Resolve returns the store of s, allocating and attaching one first if s
// is unbound. On failure s stays unbound and a later call retries.
//
// Resolve does not mark s as resolving: a surface with a freshly attached
// store reports StateResolved until a frame is in flight. The decode
// pipeline calls BeginResolving before submitting a picture, and
// ExportFrame does so around its copies.
func (uc *ResolveSurfaceUseCase) Resolve(ctx context.Context, s *entity.Surface) (*entity.BackingStore, error) {
	s.Lock()
	defer s.Unlock()

	if store := s.BackingStore(); store != nil {
		return store, nil
	}

	store, err := uc.allocate.Execute(ctx, s)
	if err != nil {
		logging.FromContext(ctx).Error().
			Err(err).
			Int("surface", s.PictureIndex).
			Uint32("width", s.Width).
			Uint32("height", s.Height).
			Str("format", s.Format.String()).
			Msg("failed to allocate backing store for surface")
		return nil, err
	}

	if err := uc.registry.Attach(s, store); err != nil {
		_ = uc.registry.Release(ctx, store)
		return nil, err
	}
	return store, nil
}

// ExportFrame resolves s and copies the decoded picture at ptr into it.
// The picture is a luma plane of Height rows followed by the interleaved
// chroma plane, both with the given pitch. A zero ptr only resolves; the
// surface is then expected to be filled elsewhere and its resolving state
// is left untouched.
func (uc *ResolveSurfaceUseCase) ExportFrame(ctx context.Context, s *entity.Surface, ptr entity.DevicePtr, pitch uint64) error {
	log := logging.FromContext(ctx)

	store, err := uc.Resolve(ctx, s)
	if err != nil {
		return err
	}

	if ptr == 0 {
		log.Debug().Int("surface", s.PictureIndex).Msg("exporting surface without device pointer, skipping copy")
		return nil
	}

	s.BeginResolving()
	err = uc.copyFrame(s, store, ptr, pitch)
	s.FinishResolving(err)

	if err != nil {
		log.Error().Err(err).Int("surface", s.PictureIndex).Uint64("store", store.ID).Msg("frame copy failed")
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	return nil
}

// copyFrame issues the luma copy asynchronously and waits for both planes
// on the same stream before returning. The store stays read-locked until
// the copies have landed, so teardown cannot destroy the arrays under them.
func (uc *ResolveSurfaceUseCase) copyFrame(s *entity.Surface, store *entity.BackingStore, ptr entity.DevicePtr, pitch uint64) error {
	return store.Use(func(b *entity.BackingStore) error {
		return uc.copyPlanes(s, b, ptr, pitch)
	})
}

func (uc *ResolveSurfaceUseCase) copyPlanes(s *entity.Surface, store *entity.BackingStore, ptr entity.DevicePtr, pitch uint64) error {
	rowBytes := uint64(s.Width) * uint64(s.Format.BytesPerSample())

	luma := port.Copy2D{
		SrcDevice:    ptr,
		SrcPitch:     pitch,
		DstArray:     store.Planes[0].Array,
		WidthInBytes: rowBytes,
		Height:       uint64(s.Height),
	}
	chroma := port.Copy2D{
		SrcDevice:    ptr,
		SrcY:         uint64(s.Height),
		SrcPitch:     pitch,
		DstArray:     store.Planes[1].Array,
		WidthInBytes: rowBytes,
		Height:       uint64(s.Height / 2),
	}

	if err := uc.compute.Memcpy2DAsync(luma, uc.stream); err != nil {
		return fmt.Errorf("copy luma: %w", err)
	}

	// The synchronous copy on the default stream also waits for the luma
	// copy. Any other stream needs an explicit synchronize.
	if uc.stream == 0 {
		if err := uc.compute.Memcpy2D(chroma); err != nil {
			return fmt.Errorf("copy chroma: %w", err)
		}
		return nil
	}
	if err := uc.compute.Memcpy2DAsync(chroma, uc.stream); err != nil {
		return fmt.Errorf("copy chroma: %w", err)
	}
	if err := uc.compute.StreamSynchronize(uc.stream); err != nil {
		return fmt.Errorf("synchronize stream: %w", err)
	}
	return nil
}
