// Package fdio implements port.FileDescriptors on top of Unix system calls.
package fdio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Unix duplicates and closes descriptors with fcntl/close.
// It implements port.FileDescriptors.
type Unix struct{}

// New returns a Unix descriptor helper.
func New() *Unix {
	return &Unix{}
}

// Dup returns a close-on-exec duplicate of fd.
func (*Unix) Dup(fd int) (int, error) {
	if fd < 0 {
		return -1, fmt.Errorf("dup: invalid fd %d", fd)
	}
	nfd, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("dup fd %d: %w", fd, err)
	}
	return nfd, nil
}

// Close closes fd. EINTR is not retried: on Linux the descriptor is
// released even when close is interrupted.
func (*Unix) Close(fd int) error {
	if err := unix.Close(fd); err != nil && !errors.Is(err, unix.EINTR) {
		return fmt.Errorf("close fd %d: %w", fd, err)
	}
	return nil
}

// CountOpen returns the number of descriptors open in this process.
func CountOpen() (int, error) {
	entries, err := os.ReadDir(filepath.Join("/proc", "self", "fd"))
	if err != nil {
		return 0, err
	}
	// ReadDir itself holds one descriptor while listing.
	return len(entries) - 1, nil
}
