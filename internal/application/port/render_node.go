package port

import "context"

// RenderNode describes a DRM render node found on the system.
type RenderNode struct {
	Path     string // e.g. /dev/dri/renderD128
	Driver   string // kernel driver name, e.g. nvidia-drm
	VendorID uint16
	DeviceID uint16
	PCISlot  string
}

// RenderNodeOpener finds and opens DRM render nodes.
type RenderNodeOpener interface {
	// List returns the render nodes present on the system.
	List(ctx context.Context) ([]RenderNode, error)
	// Open opens path read-write with close-on-exec.
	Open(ctx context.Context, path string) (int, error)
}
