package usecase

import "errors"

// Surface lifecycle errors.
var (
	ErrNoMatchingDevice   = errors.New("no compute device matches the allocator device")
	ErrAllocationFailed   = errors.New("backing store allocation failed")
	ErrCopyFailed         = errors.New("frame copy failed")
	ErrSurfaceNotResolved = errors.New("surface has no backing store")
	ErrPlaneTooLarge      = errors.New("plane does not fit a PRIME descriptor")
)
