package port

// FileDescriptors duplicates and closes Unix file descriptors.
type FileDescriptors interface {
	// Dup returns a new close-on-exec descriptor for the same open file.
	Dup(fd int) (int, error)
	Close(fd int) error
}
