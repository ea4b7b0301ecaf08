// Package bootstrap wires the surface export use cases to their collaborators.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/logging"
	"github.com/bnema/nvprime/pkg/drm"
)

// NoDRMFD asks NewExporter to open the render node itself.
const NoDRMFD = -1

// ErrExporterClosed is returned by every Exporter method after Close.
var ErrExporterClosed = errors.New("exporter closed")

var errNilSurface = errors.New("nil surface")

// ExporterDeps are the collaborators an Exporter drives. The exporter takes
// ownership of Allocator and closes it on Close. Compute stays with the
// caller.
type ExporterDeps struct {
	Allocator   port.BufferAllocator
	Compute     port.ComputeAPI
	FDs         port.FileDescriptors
	RenderNodes port.RenderNodeOpener
}

// ExporterOptions configure an Exporter.
type ExporterOptions struct {
	// DRMFD is the caller's DRM device fd. It is duplicated, never closed.
	// NoDRMFD opens RenderNode instead.
	DRMFD       int
	RenderNode  string
	StrictMatch bool
	// Stream carries both plane copies of every exported frame.
	Stream entity.Stream
}

// Exporter is the driver-facing entry point: it owns the surfaces' backing
// stores, the DRM fd and the allocator context for one GPU.
type Exporter struct {
	deps     ExporterDeps
	drmFD    int
	match    usecase.DeviceMatch
	registry *usecase.SurfaceRegistry
	resolve  *usecase.ResolveSurfaceUseCase
	describe *usecase.DescribeSurfaceUseCase
	timer    *PhaseTimer

	mu     sync.RWMutex
	closed bool
}

// NewExporter installs driver diagnostics, acquires a DRM fd and correlates
// the allocator's GPU with a compute device.
func NewExporter(ctx context.Context, deps ExporterDeps, opts ExporterOptions) (*Exporter, error) {
	ctx = logging.WithComponent(ctx, "exporter")
	log := logging.FromContext(ctx)
	timer := NewPhaseTimer()

	if deps.Allocator == nil || deps.Compute == nil || deps.FDs == nil {
		return nil, errors.New("exporter requires an allocator, a compute API and a descriptor table")
	}

	if emitter, ok := deps.Allocator.(port.DiagnosticEmitter); ok {
		logging.InstallDiagnostics(ctx, emitter)
	}
	timer.Mark("diagnostics")

	drmFD, err := acquireDRMFD(ctx, deps, opts)
	if err != nil {
		return nil, err
	}
	timer.Mark("drm")

	match, err := usecase.NewCorrelateDeviceUseCase(deps.Allocator, deps.Compute, opts.StrictMatch).Execute(ctx)
	if err != nil {
		closeDRMFD(ctx, deps.FDs, drmFD)
		return nil, err
	}
	timer.Mark("correlate")

	if binder, ok := deps.Compute.(port.DeviceBinder); ok {
		if err := binder.MakeCurrent(match.Index); err != nil {
			closeDRMFD(ctx, deps.FDs, drmFD)
			return nil, fmt.Errorf("bind compute device %d: %w", match.Index, err)
		}
		timer.Mark("bind")
	}

	registry := usecase.NewSurfaceRegistry(deps.Compute, deps.FDs)
	allocate := usecase.NewAllocateBackingStoreUseCase(deps.Allocator, deps.Compute, deps.FDs)

	e := &Exporter{
		deps:     deps,
		drmFD:    drmFD,
		match:    match,
		registry: registry,
		resolve:  usecase.NewResolveSurfaceUseCase(allocate, registry, deps.Compute, opts.Stream),
		describe: usecase.NewDescribeSurfaceUseCase(deps.FDs),
		timer:    timer,
	}

	timer.LogDebug(ctx, "exporter init timing")
	log.Info().
		Int("device", match.Index).
		Str("uuid", match.UUID.String()).
		Bool("matched", match.Matched).
		Int("drm_fd", drmFD).
		Msg("exporter ready")
	return e, nil
}

func acquireDRMFD(ctx context.Context, deps ExporterDeps, opts ExporterOptions) (int, error) {
	log := logging.FromContext(ctx)

	if opts.DRMFD >= 0 {
		fd, err := deps.FDs.Dup(opts.DRMFD)
		if err != nil {
			return -1, fmt.Errorf("duplicate drm fd %d: %w", opts.DRMFD, err)
		}
		return fd, nil
	}

	if deps.RenderNodes == nil || opts.RenderNode == "" {
		return -1, errors.New("no drm fd supplied and no render node configured")
	}
	fd, err := deps.RenderNodes.Open(ctx, opts.RenderNode)
	if err != nil {
		return -1, fmt.Errorf("open render node %s: %w", opts.RenderNode, err)
	}
	log.Info().Str("render_node", opts.RenderNode).Int("fd", fd).Msg("opened drm render node manually")
	return fd, nil
}

func closeDRMFD(ctx context.Context, fds port.FileDescriptors, fd int) {
	if err := fds.Close(fd); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Int("fd", fd).Msg("failed to close drm fd")
	}
}

// DeviceMatch reports which compute device the exporter copies with.
func (e *Exporter) DeviceMatch() usecase.DeviceMatch {
	return e.match
}

// DRMFD returns the exporter's own DRM fd.
func (e *Exporter) DRMFD() int {
	return e.drmFD
}

// InitPhases returns how long each init step took.
func (e *Exporter) InitPhases() []Phase {
	return e.timer.Phases()
}

// LiveStores returns the number of backing stores still tracked.
func (e *Exporter) LiveStores() int {
	return e.registry.Len()
}

func (e *Exporter) enter() error {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return ErrExporterClosed
	}
	return nil
}

func (e *Exporter) leave() {
	e.mu.RUnlock()
}

// enterSurface is enter for methods taking a surface.
func (e *Exporter) enterSurface(s *entity.Surface) error {
	if s == nil {
		return errNilSurface
	}
	return e.enter()
}

// NewSurface creates an unbound surface.
func (e *Exporter) NewSurface(width, height uint32, format entity.SurfaceFormat, pictureIndex int) (*entity.Surface, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	defer e.leave()
	return e.registry.NewSurface(width, height, format, pictureIndex)
}

// Resolve makes sure s has a backing store.
func (e *Exporter) Resolve(ctx context.Context, s *entity.Surface) error {
	if err := e.enterSurface(s); err != nil {
		return err
	}
	defer e.leave()
	_, err := e.resolve.Resolve(ctx, s)
	return err
}

// ExportFrame copies the decoded frame at ptr into the backing store of s,
// resolving it first. A zero ptr only resolves.
func (e *Exporter) ExportFrame(ctx context.Context, s *entity.Surface, ptr entity.DevicePtr, pitch uint64) error {
	if err := e.enterSurface(s); err != nil {
		return err
	}
	defer e.leave()
	return e.resolve.ExportFrame(ctx, s, ptr, pitch)
}

// Describe fills a PRIME descriptor for a resolved surface. The caller owns
// the descriptor's fds.
func (e *Exporter) Describe(ctx context.Context, s *entity.Surface) (*drm.PRIMEDescriptor, error) {
	if err := e.enterSurface(s); err != nil {
		return nil, err
	}
	defer e.leave()
	return e.describe.Execute(ctx, s)
}

// ExportBackingImage prepares store for export. Stores from this exporter
// are always exportable, so there is nothing to do.
func (e *Exporter) ExportBackingImage(_ context.Context, _ *entity.BackingStore) error {
	if err := e.enter(); err != nil {
		return err
	}
	e.leave()
	return nil
}

// Detach destroys the backing store of s, if any.
func (e *Exporter) Detach(ctx context.Context, s *entity.Surface) error {
	if err := e.enterSurface(s); err != nil {
		return err
	}
	defer e.leave()
	return e.registry.Detach(ctx, s)
}

// DestroyAll destroys every tracked backing store.
func (e *Exporter) DestroyAll(ctx context.Context) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()
	return e.registry.DestroyAll(ctx)
}

// Close destroys all backing stores, closes the DRM fd and releases the
// allocator. Every step runs even if an earlier one fails.
func (e *Exporter) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrExporterClosed
	}
	e.closed = true

	ctx = logging.WithComponent(ctx, "exporter")
	var errs []error
	if err := e.registry.DestroyAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("destroy stores: %w", err))
	}
	if err := e.deps.FDs.Close(e.drmFD); err != nil {
		errs = append(errs, fmt.Errorf("close drm fd: %w", err))
	}
	if err := e.deps.Allocator.Close(); err != nil {
		errs = append(errs, fmt.Errorf("release allocator: %w", err))
	}

	err := errors.Join(errs...)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("exporter teardown incomplete")
	} else {
		logging.FromContext(ctx).Debug().Msg("exporter closed")
	}
	return err
}
