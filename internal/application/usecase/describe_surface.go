package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/logging"
	"github.com/bnema/nvprime/pkg/drm"
)

// DescribeSurfaceUseCase builds PRIME descriptors for resolved surfaces.
type DescribeSurfaceUseCase struct {
	fds port.FileDescriptors
}

// NewDescribeSurfaceUseCase creates a new DescribeSurfaceUseCase.
func NewDescribeSurfaceUseCase(fds port.FileDescriptors) *DescribeSurfaceUseCase {
	return &DescribeSurfaceUseCase{fds: fds}
}

// Execute describes the store of s with one object and one layer per plane.
// Object fds are fresh duplicates owned by the caller. It does not resolve
// or wait; an unbound surface yields ErrSurfaceNotResolved.
func (uc *DescribeSurfaceUseCase) Execute(ctx context.Context, s *entity.Surface) (*drm.PRIMEDescriptor, error) {
	store := s.BackingStore()
	if store == nil {
		return nil, fmt.Errorf("%w: surface %d", ErrSurfaceNotResolved, s.PictureIndex)
	}

	var desc *drm.PRIMEDescriptor
	err := store.Use(func(b *entity.BackingStore) error {
		var err error
		desc, err = uc.describe(b)
		return err
	})
	if errors.Is(err, entity.ErrStoreDestroyed) {
		return nil, fmt.Errorf("%w: surface %d: %w", ErrSurfaceNotResolved, s.PictureIndex, err)
	}
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug().
		Int("surface", s.PictureIndex).
		Str("fourcc", desc.Fourcc.String()).
		Int32("luma_fd", desc.Objects[0].FD).
		Int32("chroma_fd", desc.Objects[1].FD).
		Msg("described surface")
	return desc, nil
}

// describe runs with the store read-locked, so the plane fds stay open
// while they are duplicated.
func (uc *DescribeSurfaceUseCase) describe(store *entity.BackingStore) (*drm.PRIMEDescriptor, error) {
	formats := [entity.PlaneCount420]drm.Fourcc{
		store.Fourcc.LumaLayerFormat(),
		store.Fourcc.ChromaLayerFormat(),
	}

	desc := &drm.PRIMEDescriptor{
		Fourcc:     store.Fourcc,
		Width:      store.Width,
		Height:     store.Height,
		NumObjects: entity.PlaneCount420,
		NumLayers:  entity.PlaneCount420,
	}

	dups := make([]int, 0, entity.PlaneCount420)
	fail := func(err error) (*drm.PRIMEDescriptor, error) {
		for _, fd := range dups {
			_ = uc.fds.Close(fd)
		}
		return nil, err
	}

	for i := 0; i < entity.PlaneCount420; i++ {
		p := store.Planes[i]
		if p.Size > math.MaxUint32 {
			return fail(fmt.Errorf("%w: plane %d is %d bytes", ErrPlaneTooLarge, i, p.Size))
		}
		fd, err := uc.fds.Dup(p.FD)
		if err != nil {
			return fail(fmt.Errorf("duplicate plane %d fd: %w", i, err))
		}
		dups = append(dups, fd)

		desc.Objects[i] = drm.PRIMEObject{
			FD:                int32(fd),
			Size:              uint32(p.Size),
			DRMFormatModifier: p.Modifier,
		}
		desc.Layers[i] = drm.PRIMELayer{
			DRMFormat:   formats[i],
			NumPlanes:   1,
			ObjectIndex: [drm.MaxPRIMEEntries]uint32{uint32(i)},
			Offset:      [drm.MaxPRIMEEntries]uint32{p.Offset},
			Pitch:       [drm.MaxPRIMEEntries]uint32{p.Stride},
		}
	}
	return desc, nil
}
