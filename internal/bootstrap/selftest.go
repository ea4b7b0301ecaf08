package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/infrastructure/fdio"
	"github.com/bnema/nvprime/internal/logging"
	"github.com/bnema/nvprime/pkg/drm"
)

// Fill values of the synthetic frame.
const (
	selftestLuma   byte = 0x51
	selftestChroma byte = 0xa3
)

// resolversPerSurface is how many goroutines race to resolve each surface.
const resolversPerSurface = 3

// SelftestOptions configure RunSelftest.
type SelftestOptions struct {
	Width    uint32
	Height   uint32
	Format   entity.SurfaceFormat
	Surfaces int
	Workers  int
}

// SelftestReport is the outcome of a selftest run.
type SelftestReport struct {
	Options SelftestOptions
	Device  usecase.DeviceMatch
	Phases  []Phase

	ResolvedSurfaces int
	VerifiedPlanes   int
	// Descriptor is the first exported descriptor. Its fds are closed.
	Descriptor drm.PRIMEDescriptor
	// LeakedFDs is the change in open descriptors across the run.
	LeakedFDs int
}

// OK reports whether the run released everything it created.
func (r *SelftestReport) OK() bool {
	return r.LeakedFDs == 0 && r.ResolvedSurfaces == r.Options.Surfaces &&
		r.VerifiedPlanes == 2*r.Options.Surfaces
}

// RunSelftest drives the whole surface lifecycle on exp: concurrent
// resolution, frame export, descriptor export with content checks, detach
// and bulk teardown. Exported planes must be mappable by the host.
func RunSelftest(ctx context.Context, exp *Exporter, frames FrameMemory, opts SelftestOptions) (*SelftestReport, error) {
	ctx = logging.WithComponent(ctx, "selftest")
	log := logging.FromContext(ctx)

	if opts.Surfaces <= 0 {
		return nil, errors.New("selftest needs at least one surface")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	before, err := fdio.CountOpen()
	if err != nil {
		return nil, fmt.Errorf("count descriptors: %w", err)
	}

	report := &SelftestReport{Options: opts, Device: exp.DeviceMatch()}
	timer := NewPhaseTimer()

	pitch := uint64(opts.Width) * uint64(opts.Format.BytesPerSample())
	lumaSize := pitch * uint64(opts.Height)
	ptr, err := frames.AllocDevice(lumaSize + lumaSize/2)
	if err != nil {
		return nil, fmt.Errorf("allocate frame: %w", err)
	}
	defer func() {
		if err := frames.FreeDevice(ptr); err != nil {
			log.Warn().Err(err).Msg("failed to free frame")
		}
	}()
	if err := frames.FillDevice(ptr, 0, selftestLuma, lumaSize); err != nil {
		return nil, fmt.Errorf("fill luma: %w", err)
	}
	if err := frames.FillDevice(ptr, lumaSize, selftestChroma, lumaSize/2); err != nil {
		return nil, fmt.Errorf("fill chroma: %w", err)
	}
	timer.Mark("frame")

	surfaces := make([]*entity.Surface, opts.Surfaces)
	for i := range surfaces {
		s, err := exp.NewSurface(opts.Width, opts.Height, opts.Format, i)
		if err != nil {
			return nil, err
		}
		surfaces[i] = s
	}
	timer.Mark("create")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, s := range surfaces {
		for range resolversPerSurface {
			g.Go(func() error { return exp.Resolve(gctx, s) })
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	timer.Mark("resolve")

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, s := range surfaces {
		g.Go(func() error {
			if err := exp.ExportFrame(gctx, s, ptr, pitch); err != nil {
				return err
			}
			return s.WaitResolved(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	for _, s := range surfaces {
		if s.State() == entity.StateResolved {
			report.ResolvedSurfaces++
		}
	}
	timer.Mark("export")

	for i, s := range surfaces {
		desc, err := exp.Describe(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("describe surface %d: %w", i, err)
		}
		verified, verr := verifyDescriptor(desc, opts)
		report.VerifiedPlanes += verified
		if cerr := desc.Close(); cerr != nil {
			log.Warn().Err(cerr).Int("surface", i).Msg("failed to close descriptor")
		}
		if i == 0 {
			report.Descriptor = *desc
		}
		if verr != nil {
			return nil, fmt.Errorf("surface %d: %w", i, verr)
		}
	}
	timer.Mark("describe")

	for i := 0; i < len(surfaces); i += 2 {
		if err := exp.Detach(ctx, surfaces[i]); err != nil {
			return nil, fmt.Errorf("detach surface %d: %w", i, err)
		}
	}
	timer.Mark("detach")

	if err := exp.DestroyAll(ctx); err != nil {
		return nil, fmt.Errorf("destroy all: %w", err)
	}
	if n := exp.LiveStores(); n != 0 {
		return nil, fmt.Errorf("%d backing stores survived teardown", n)
	}
	timer.Mark("destroy")
	report.Phases = timer.Phases()

	after, err := fdio.CountOpen()
	if err != nil {
		return nil, fmt.Errorf("count descriptors: %w", err)
	}
	report.LeakedFDs = after - before

	log.Info().
		Int("surfaces", report.ResolvedSurfaces).
		Int("planes", report.VerifiedPlanes).
		Int("leaked_fds", report.LeakedFDs).
		Dur("total", timer.Total()).
		Msg("selftest finished")
	return report, nil
}

// verifyDescriptor maps each exported plane and checks every visible byte
// holds the fill value. It returns the number of planes that matched.
func verifyDescriptor(desc *drm.PRIMEDescriptor, opts SelftestOptions) (int, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	if desc.Fourcc != opts.Format.Fourcc() {
		return 0, fmt.Errorf("fourcc %s, want %s", desc.Fourcc, opts.Format.Fourcc())
	}

	rowBytes := int(opts.Width * opts.Format.BytesPerSample())
	planes := []struct {
		rows  int
		value byte
	}{
		{rows: int(opts.Height), value: selftestLuma},
		{rows: int(opts.Height / 2), value: selftestChroma},
	}

	verified := 0
	for i, p := range planes {
		layer := desc.Layers[i]
		obj := desc.Objects[layer.ObjectIndex[0]]
		if err := verifyPlane(int(obj.FD), int(obj.Size), int(layer.Offset[0]), int(layer.Pitch[0]), rowBytes, p.rows, p.value); err != nil {
			return verified, fmt.Errorf("plane %d: %w", i, err)
		}
		verified++
	}
	return verified, nil
}

func verifyPlane(fd, size, offset, pitch, rowBytes, rows int, want byte) error {
	if offset+pitch*(rows-1)+rowBytes > size {
		return fmt.Errorf("plane of %d rows at pitch %d exceeds object size %d", rows, pitch, size)
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("map plane: %w", err)
	}
	defer func() { _ = unix.Munmap(data) }()

	for y := 0; y < rows; y++ {
		row := data[offset+y*pitch : offset+y*pitch+rowBytes]
		for x, b := range row {
			if b != want {
				return fmt.Errorf("byte %d of row %d is %#x, want %#x", x, y, b, want)
			}
		}
	}
	return nil
}
