package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/logging"
)

// SurfaceRegistry owns every live backing store and the lifecycle operations
// that bind stores to surfaces. Its mutex guards only the store collection;
// per-surface work uses the surface's own lock.
type SurfaceRegistry struct {
	releaser planeReleaser

	mu     sync.Mutex
	stores []*entity.BackingStore
}

// NewSurfaceRegistry creates an empty registry releasing stores through
// compute and fds.
func NewSurfaceRegistry(compute port.ComputeAPI, fds port.FileDescriptors) *SurfaceRegistry {
	return &SurfaceRegistry{releaser: planeReleaser{compute, fds}}
}

// NewSurface returns an unbound surface after validating its geometry.
func (r *SurfaceRegistry) NewSurface(width, height uint32, format entity.SurfaceFormat, pictureIndex int) (*entity.Surface, error) {
	return entity.NewSurface(width, height, format, pictureIndex)
}

// Attach binds store to s and starts tracking it. It fails with
// entity.ErrSurfaceAlreadyBound if s already has a store.
func (r *SurfaceRegistry) Attach(s *entity.Surface, store *entity.BackingStore) error {
	if err := s.Bind(store); err != nil {
		return err
	}
	r.Track(store)
	return nil
}

// Track adds store to the live collection.
func (r *SurfaceRegistry) Track(store *entity.BackingStore) {
	r.mu.Lock()
	r.stores = append(r.stores, store)
	r.mu.Unlock()
}

// Detach unbinds and destroys the store of s. It is a no-op when s is
// unbound.
func (r *SurfaceRegistry) Detach(ctx context.Context, s *entity.Surface) error {
	store := s.Unbind()
	if store == nil {
		return nil
	}

	r.mu.Lock()
	if i := slices.Index(r.stores, store); i >= 0 {
		r.stores = slices.Delete(r.stores, i, i+1)
	}
	r.mu.Unlock()

	return r.destroy(ctx, store)
}

// DestroyAll destroys every live store, newest first, and empties the
// collection. Owning surfaces are left unbound.
func (r *SurfaceRegistry) DestroyAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.stores)
	var errs []error
	for i := n - 1; i >= 0; i-- {
		if err := r.destroy(ctx, r.stores[i]); err != nil {
			errs = append(errs, err)
		}
		r.stores[i] = nil
		r.stores = r.stores[:i]
	}

	if n > 0 {
		logging.FromContext(ctx).Debug().Int("stores", n).Msg("destroyed all backing stores")
	}
	return errors.Join(errs...)
}

// Len returns the number of live stores.
func (r *SurfaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Release destroys a store that was never attached.
func (r *SurfaceRegistry) Release(ctx context.Context, store *entity.BackingStore) error {
	return r.destroy(ctx, store)
}

func (r *SurfaceRegistry) destroy(ctx context.Context, store *entity.BackingStore) error {
	id := store.ID
	if err := store.Release(r.releaser); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Uint64("store", id).Msg("backing store release incomplete")
		return err
	}
	return nil
}
