// Package entity defines the surfaces, backing stores and device identities
// shared by the exporter layers.
package entity

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// ResolveState is the position of a surface in its resolution lifecycle.
type ResolveState int

const (
	// StateUnbound means no backing store is attached.
	StateUnbound ResolveState = iota
	// StateResolving means decoded data is on its way into the store, as
	// marked by BeginResolving.
	StateResolving
	// StateResolved means the store holds a complete frame.
	StateResolved
)

func (s ResolveState) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("ResolveState(%d)", int(s))
	}
}

// Surface is a decode target identified to the decoder by its picture index.
// It owns at most one backing store at a time.
//
// The surface mutex serializes store allocation and guards the resolving
// flag; waiters block on the associated condition variable. The store
// pointer itself is atomic so teardown can clear it without taking the
// surface mutex.
type Surface struct {
	Width        uint32
	Height       uint32
	Format       SurfaceFormat
	PictureIndex int

	mu        sync.Mutex
	cond      *sync.Cond
	resolving bool
	lastErr   error

	store atomic.Pointer[BackingStore]
}

// NewSurface validates the geometry and format and returns an unbound surface.
func NewSurface(width, height uint32, format SurfaceFormat, pictureIndex int) (*Surface, error) {
	if width == 0 || height == 0 || width%2 != 0 || height%2 != 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	s := &Surface{
		Width:        width,
		Height:       height,
		Format:       format,
		PictureIndex: pictureIndex,
	}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

// Lock acquires the surface mutex.
func (s *Surface) Lock() { s.mu.Lock() }

// Unlock releases the surface mutex.
func (s *Surface) Unlock() { s.mu.Unlock() }

// BackingStore returns the attached store or nil.
func (s *Surface) BackingStore() *BackingStore {
	return s.store.Load()
}

// Bind attaches store to the surface and records the surface as the store's
// owner. It fails if a store is already attached.
func (s *Surface) Bind(store *BackingStore) error {
	if !s.store.CompareAndSwap(nil, store) {
		return ErrSurfaceAlreadyBound
	}
	store.owner.Store(s)
	return nil
}

// Unbind detaches and returns the current store, or nil when unbound.
func (s *Surface) Unbind() *BackingStore {
	store := s.store.Swap(nil)
	if store != nil {
		store.owner.CompareAndSwap(s, nil)
	}
	return store
}

// storeDestroyed clears the surface pointer if it still refers to b.
func (s *Surface) storeDestroyed(b *BackingStore) {
	s.store.CompareAndSwap(b, nil)
}

// State reports the current lifecycle state. Resolving is tracked by
// BeginResolving/FinishResolving only, so a surface whose store was just
// attached and never written reports StateResolved: attaching is not a
// frame in flight.
func (s *Surface) State() ResolveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Surface) stateLocked() ResolveState {
	switch {
	case s.resolving:
		return StateResolving
	case s.store.Load() == nil:
		return StateUnbound
	default:
		return StateResolved
	}
}

// BeginResolving marks a frame as in flight for this surface. Waiters block
// until FinishResolving is called.
func (s *Surface) BeginResolving() {
	s.mu.Lock()
	s.resolving = true
	s.lastErr = nil
	s.mu.Unlock()
}

// FinishResolving clears the in-flight mark, records the outcome and wakes
// every waiter.
func (s *Surface) FinishResolving(err error) {
	s.mu.Lock()
	s.resolving = false
	s.lastErr = err
	s.cond.Broadcast()
	s.mu.Unlock()
}

// WaitResolved blocks while a frame is in flight. It returns the error
// recorded by FinishResolving, or ctx.Err() if ctx ends first.
func (s *Surface) WaitResolved(ctx context.Context) error {
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		})
		defer stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.resolving {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.cond.Wait()
	}
	return s.lastErr
}
