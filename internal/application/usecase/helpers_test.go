package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/domain/entity"
	"github.com/bnema/nvprime/internal/infrastructure/fdio"
	"github.com/bnema/nvprime/internal/infrastructure/hostmem"
	"github.com/bnema/nvprime/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func bufferContext(buf *bytes.Buffer) context.Context {
	logger := zerolog.New(buf).Level(zerolog.DebugLevel)
	return logging.WithContext(context.Background(), logger)
}

// hostStack wires the use cases to the host-memory backend.
type hostStack struct {
	device   *hostmem.Device
	registry *usecase.SurfaceRegistry
	resolve  *usecase.ResolveSurfaceUseCase
	describe *usecase.DescribeSurfaceUseCase
	allocate *usecase.AllocateBackingStoreUseCase
}

func newHostStack(t *testing.T, stream entity.Stream) *hostStack {
	t.Helper()

	device, err := hostmem.New(hostmem.Options{PitchAlignment: 64})
	require.NoError(t, err)

	fds := fdio.New()
	compute := device.Compute()
	allocate := usecase.NewAllocateBackingStoreUseCase(device.Allocator(), compute, fds)
	registry := usecase.NewSurfaceRegistry(compute, fds)

	st := &hostStack{
		device:   device,
		registry: registry,
		resolve:  usecase.NewResolveSurfaceUseCase(allocate, registry, compute, stream),
		describe: usecase.NewDescribeSurfaceUseCase(fds),
		allocate: allocate,
	}
	t.Cleanup(func() {
		_ = registry.DestroyAll(context.Background())
		_ = device.Close()
	})
	return st
}

func openFDs(t *testing.T) int {
	t.Helper()
	n, err := fdio.CountOpen()
	require.NoError(t, err)
	return n
}

func fdIsOpen(fd int) bool {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return err == nil
}
