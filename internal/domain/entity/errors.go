package entity

import "errors"

var (
	ErrInvalidDimensions   = errors.New("surface dimensions must be even and non-zero")
	ErrUnsupportedFormat   = errors.New("unsupported surface format")
	ErrSurfaceAlreadyBound = errors.New("surface already has a backing store")
	ErrStoreDestroyed      = errors.New("backing store was destroyed")
)
