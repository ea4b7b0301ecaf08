// Package drm discovers and opens DRM render nodes.
package drm

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/logging"
)

const (
	defaultSysfsRoot = "/sys/class/drm"
	defaultDevRoot   = "/dev/dri"
)

// Opener implements port.RenderNodeOpener using sysfs and /dev/dri.
type Opener struct {
	sysfsRoot string
	devRoot   string
}

// NewOpener creates an opener for the real system paths.
func NewOpener() *Opener {
	return &Opener{sysfsRoot: defaultSysfsRoot, devRoot: defaultDevRoot}
}

// NewOpenerAt creates an opener rooted elsewhere (used by tests).
func NewOpenerAt(sysfsRoot, devRoot string) *Opener {
	return &Opener{sysfsRoot: sysfsRoot, devRoot: devRoot}
}

// List returns every renderD* node, sorted by path.
func (o *Opener) List(ctx context.Context) ([]port.RenderNode, error) {
	log := logging.FromContext(ctx)

	matches, err := filepath.Glob(filepath.Join(o.sysfsRoot, "renderD*"))
	if err != nil {
		return nil, fmt.Errorf("glob render nodes: %w", err)
	}
	sort.Strings(matches)

	nodes := make([]port.RenderNode, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		node := port.RenderNode{Path: filepath.Join(o.devRoot, name)}

		deviceDir := filepath.Join(m, "device")
		node.VendorID = readHexID(filepath.Join(deviceDir, "vendor"))
		node.DeviceID = readHexID(filepath.Join(deviceDir, "device"))
		node.Driver, node.PCISlot = readUevent(filepath.Join(deviceDir, "uevent"))

		log.Debug().
			Str("node", node.Path).
			Str("driver", node.Driver).
			Str("pci_slot", node.PCISlot).
			Msg("found render node")

		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Open opens path read-write with close-on-exec.
func (*Opener) Open(ctx context.Context, path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("open %s: %w", path, err)
	}
	logging.FromContext(ctx).Debug().Str("node", path).Int("fd", fd).Msg("opened render node")
	return fd, nil
}

func readHexID(path string) uint16 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(string(data)), "0x"), 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}

func readUevent(path string) (driver, slot string) {
	file, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "DRIVER="):
			driver = strings.TrimPrefix(line, "DRIVER=")
		case strings.HasPrefix(line, "PCI_SLOT_NAME="):
			slot = strings.TrimPrefix(line, "PCI_SLOT_NAME=")
		}
	}
	return driver, slot
}
