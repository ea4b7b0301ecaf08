package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nvprime/internal/application/port/mocks"
	"github.com/bnema/nvprime/internal/application/usecase"
	"github.com/bnema/nvprime/internal/domain/entity"
)

func uuidOf(b byte) entity.DeviceUUID {
	var u entity.DeviceUUID
	for i := range u {
		u[i] = b
	}
	return u
}

func expectDevices(compute *mocks.MockComputeAPI, uuids ...entity.DeviceUUID) {
	compute.EXPECT().DeviceCount().Return(len(uuids), nil)
	for i, u := range uuids {
		compute.EXPECT().DeviceUUID(i).Return(u, nil).Maybe()
	}
}

func TestCorrelateDeviceUseCase_Execute_MatchesIndex(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)

	allocator.EXPECT().DeviceUUID(ctx).Return(uuidOf(0xc2), nil)
	expectDevices(compute, uuidOf(0xa0), uuidOf(0xb1), uuidOf(0xc2), uuidOf(0xd3))

	uc := usecase.NewCorrelateDeviceUseCase(allocator, compute, false)
	match, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, match.Index)
	assert.True(t, match.Matched)
	assert.Equal(t, uuidOf(0xc2), match.UUID)
}

func TestCorrelateDeviceUseCase_Execute_FirstMatchWins(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)

	allocator.EXPECT().DeviceUUID(ctx).Return(uuidOf(0x11), nil)
	expectDevices(compute, uuidOf(0x00), uuidOf(0x11), uuidOf(0x11))

	match, err := usecase.NewCorrelateDeviceUseCase(allocator, compute, false).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, match.Index)
}

func TestCorrelateDeviceUseCase_Execute_NoMatchFallsBackToZero(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)

	allocator.EXPECT().DeviceUUID(ctx).Return(uuidOf(0xff), nil)
	expectDevices(compute, uuidOf(0xa0), uuidOf(0xb1), uuidOf(0xc2), uuidOf(0xd3))

	match, err := usecase.NewCorrelateDeviceUseCase(allocator, compute, false).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, match.Index)
	assert.False(t, match.Matched)
}

func TestCorrelateDeviceUseCase_Execute_EmptyEnumeration(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)

	allocator.EXPECT().DeviceUUID(ctx).Return(uuidOf(0x01), nil)
	compute.EXPECT().DeviceCount().Return(0, errors.New("CUDA_ERROR_NOT_INITIALIZED"))

	match, err := usecase.NewCorrelateDeviceUseCase(allocator, compute, false).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, match.Index)
	assert.False(t, match.Matched)
}

func TestCorrelateDeviceUseCase_Execute_StrictNoMatch(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)

	allocator.EXPECT().DeviceUUID(ctx).Return(uuidOf(0xff), nil)
	expectDevices(compute, uuidOf(0xa0), uuidOf(0xb1))

	_, err := usecase.NewCorrelateDeviceUseCase(allocator, compute, true).Execute(ctx)
	assert.ErrorIs(t, err, usecase.ErrNoMatchingDevice)
}

func TestCorrelateDeviceUseCase_Execute_SkipsUnreadableDevice(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)

	allocator.EXPECT().DeviceUUID(ctx).Return(uuidOf(0x22), nil)
	compute.EXPECT().DeviceCount().Return(2, nil)
	compute.EXPECT().DeviceUUID(0).Return(entity.DeviceUUID{}, errors.New("CUDA_ERROR_INVALID_DEVICE"))
	compute.EXPECT().DeviceUUID(1).Return(uuidOf(0x22), nil)

	match, err := usecase.NewCorrelateDeviceUseCase(allocator, compute, true).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, match.Index)
}

func TestCorrelateDeviceUseCase_Execute_AllocatorError(t *testing.T) {
	ctx := testContext()

	allocator := mocks.NewMockBufferAllocator(t)
	compute := mocks.NewMockComputeAPI(t)

	boom := errors.New("no driver context")
	allocator.EXPECT().DeviceUUID(ctx).Return(entity.DeviceUUID{}, boom)

	_, err := usecase.NewCorrelateDeviceUseCase(allocator, compute, false).Execute(ctx)
	assert.ErrorIs(t, err, boom)
}
