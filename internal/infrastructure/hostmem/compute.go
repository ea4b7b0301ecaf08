package hostmem

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bnema/nvprime/internal/application/port"
	"github.com/bnema/nvprime/internal/domain/entity"
)

var (
	ErrInvalidHandle = errors.New("hostmem: invalid handle")
	ErrInvalidValue  = errors.New("hostmem: invalid value")
	ErrResourceBusy  = errors.New("hostmem: resource still in use")
)

type externalMemory struct {
	data []byte
	refs int
}

type mipmappedArray struct {
	mem      entity.ExternalMemory
	data     []byte
	pitch    uint64
	rowBytes uint64
	height   uint64
	refs     int
}

type array struct {
	mip      entity.MipmappedArray
	data     []byte
	pitch    uint64
	rowBytes uint64
	height   uint64
}

// Stats counts live compute resources.
type Stats struct {
	ExternalMemories  int
	MipmappedArrays   int
	Arrays            int
	DeviceAllocations int
}

// Compute implements port.ComputeAPI on host memory. Imported fds are
// mapped shared, so copies are visible through the allocator's export fd.
// Each stream is a FIFO worker; work on one stream runs in submission order.
type Compute struct {
	devices    []entity.DeviceUUID
	pitchAlign uint64

	mu      sync.Mutex
	next    uintptr
	extmems map[entity.ExternalMemory]*externalMemory
	mipmaps map[entity.MipmappedArray]*mipmappedArray
	arrays  map[entity.Array]*array
	device  map[entity.DevicePtr][]byte
	streams map[entity.Stream]*stream
	closed  bool
}

// NewCompute creates a compute API exposing one device per UUID. The pitch
// alignment must match the allocator's so mapped arrays line up with the
// exported plane layout.
func NewCompute(devices []entity.DeviceUUID, pitchAlignment uint32) *Compute {
	if pitchAlignment == 0 {
		pitchAlignment = DefaultPitchAlignment
	}
	return &Compute{
		devices:    append([]entity.DeviceUUID(nil), devices...),
		pitchAlign: uint64(pitchAlignment),
		next:       0x1000,
		extmems:    make(map[entity.ExternalMemory]*externalMemory),
		mipmaps:    make(map[entity.MipmappedArray]*mipmappedArray),
		arrays:     make(map[entity.Array]*array),
		device:     make(map[entity.DevicePtr][]byte),
		streams:    make(map[entity.Stream]*stream),
	}
}

func (c *Compute) handleLocked() uintptr {
	h := c.next
	c.next += 0x100
	return h
}

// DeviceCount returns the number of configured devices.
func (c *Compute) DeviceCount() (int, error) {
	return len(c.devices), nil
}

// DeviceUUID returns the UUID of the device at index.
func (c *Compute) DeviceUUID(index int) (entity.DeviceUUID, error) {
	if index < 0 || index >= len(c.devices) {
		return entity.DeviceUUID{}, fmt.Errorf("%w: device %d", ErrInvalidValue, index)
	}
	return c.devices[index], nil
}

// DeviceName names the device at index.
func (c *Compute) DeviceName(index int) (string, error) {
	if index < 0 || index >= len(c.devices) {
		return "", fmt.Errorf("%w: device %d", ErrInvalidValue, index)
	}
	return fmt.Sprintf("Host memory device %d", index), nil
}

// ImportExternalMemory maps fd and closes it on success.
func (c *Compute) ImportExternalMemory(fd int, size uint64) (entity.ExternalMemory, error) {
	if size == 0 {
		return 0, fmt.Errorf("%w: zero size", ErrInvalidValue)
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return 0, fmt.Errorf("fstat fd %d: %w", fd, err)
	}
	if uint64(st.Size) < size {
		return 0, fmt.Errorf("%w: fd %d holds %d bytes, want %d", ErrInvalidValue, fd, st.Size, size)
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return 0, fmt.Errorf("mmap fd %d: %w", fd, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = unix.Munmap(data)
		return 0, ErrClosed
	}
	h := entity.ExternalMemory(c.handleLocked())
	c.extmems[h] = &externalMemory{data: data}
	c.mu.Unlock()

	_ = unix.Close(fd)
	return h, nil
}

// MapMipmappedArray views imported memory as a pitched 2D array. Only a
// single level is supported.
func (c *Compute) MapMipmappedArray(mem entity.ExternalMemory, desc port.MipmappedArrayDesc) (entity.MipmappedArray, error) {
	if desc.NumLevels != 1 || desc.Depth != 0 {
		return 0, fmt.Errorf("%w: %d levels, depth %d", ErrInvalidValue, desc.NumLevels, desc.Depth)
	}
	if desc.Width == 0 || desc.Height == 0 || desc.Channels == 0 || desc.Channels > 4 {
		return 0, fmt.Errorf("%w: %dx%d with %d channels", ErrInvalidValue, desc.Width, desc.Height, desc.Channels)
	}

	rowBytes := uint64(desc.Width) * uint64(desc.Channels) * uint64(desc.Format.ElementSize())
	pitch := (rowBytes + c.pitchAlign - 1) / c.pitchAlign * c.pitchAlign
	span := pitch * uint64(desc.Height)

	c.mu.Lock()
	defer c.mu.Unlock()
	ext, ok := c.extmems[mem]
	if !ok {
		return 0, fmt.Errorf("%w: external memory %#x", ErrInvalidHandle, mem)
	}
	if desc.Offset+span > uint64(len(ext.data)) {
		return 0, fmt.Errorf("%w: array needs %d bytes at offset %d, memory has %d", ErrInvalidValue, span, desc.Offset, len(ext.data))
	}

	h := entity.MipmappedArray(c.handleLocked())
	c.mipmaps[h] = &mipmappedArray{
		mem:      mem,
		data:     ext.data[desc.Offset : desc.Offset+span],
		pitch:    pitch,
		rowBytes: rowBytes,
		height:   uint64(desc.Height),
	}
	ext.refs++
	return h, nil
}

// MipmappedArrayLevel returns the level-0 array.
func (c *Compute) MipmappedArrayLevel(m entity.MipmappedArray, level uint32) (entity.Array, error) {
	if level != 0 {
		return 0, fmt.Errorf("%w: level %d", ErrInvalidValue, level)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	mip, ok := c.mipmaps[m]
	if !ok {
		return 0, fmt.Errorf("%w: mipmapped array %#x", ErrInvalidHandle, m)
	}
	h := entity.Array(c.handleLocked())
	c.arrays[h] = &array{
		mip:      m,
		data:     mip.data,
		pitch:    mip.pitch,
		rowBytes: mip.rowBytes,
		height:   mip.height,
	}
	mip.refs++
	return h, nil
}

// Memcpy2DAsync validates the copy and queues it on stream.
func (c *Compute) Memcpy2DAsync(cp port.Copy2D, s entity.Stream) error {
	run, err := c.prepareCopy(cp)
	if err != nil {
		return err
	}
	st, err := c.stream(s)
	if err != nil {
		return err
	}
	return st.enqueue(run)
}

// Memcpy2D queues the copy on the default stream and waits for it.
func (c *Compute) Memcpy2D(cp port.Copy2D) error {
	if err := c.Memcpy2DAsync(cp, 0); err != nil {
		return err
	}
	return c.StreamSynchronize(0)
}

// StreamSynchronize waits for every operation queued on s.
func (c *Compute) StreamSynchronize(s entity.Stream) error {
	st, err := c.stream(s)
	if err != nil {
		return err
	}
	return st.synchronize()
}

func (c *Compute) prepareCopy(cp port.Copy2D) (func(), error) {
	if cp.WidthInBytes == 0 || cp.Height == 0 {
		return func() {}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	src, ok := c.device[cp.SrcDevice]
	if !ok {
		return nil, fmt.Errorf("%w: device pointer %#x", ErrInvalidHandle, cp.SrcDevice)
	}
	dst, ok := c.arrays[cp.DstArray]
	if !ok {
		return nil, fmt.Errorf("%w: array %#x", ErrInvalidHandle, cp.DstArray)
	}

	if cp.SrcXInBytes+cp.WidthInBytes > cp.SrcPitch {
		return nil, fmt.Errorf("%w: source row of %d bytes at x=%d exceeds pitch %d", ErrInvalidValue, cp.WidthInBytes, cp.SrcXInBytes, cp.SrcPitch)
	}
	srcEnd := (cp.SrcY+cp.Height-1)*cp.SrcPitch + cp.SrcXInBytes + cp.WidthInBytes
	if srcEnd > uint64(len(src)) {
		return nil, fmt.Errorf("%w: source region ends at %d, allocation has %d bytes", ErrInvalidValue, srcEnd, len(src))
	}
	if cp.DstXInBytes+cp.WidthInBytes > dst.rowBytes || cp.DstY+cp.Height > dst.height {
		return nil, fmt.Errorf("%w: %dx%d copy at (%d,%d) exceeds %dx%d array", ErrInvalidValue,
			cp.WidthInBytes, cp.Height, cp.DstXInBytes, cp.DstY, dst.rowBytes, dst.height)
	}

	srcData, dstData, dstPitch := src, dst.data, dst.pitch
	return func() {
		for row := uint64(0); row < cp.Height; row++ {
			s := (cp.SrcY+row)*cp.SrcPitch + cp.SrcXInBytes
			d := (cp.DstY+row)*dstPitch + cp.DstXInBytes
			copy(dstData[d:d+cp.WidthInBytes], srcData[s:s+cp.WidthInBytes])
		}
	}, nil
}

// DestroyArray destroys a level array after pending stream work drains.
func (c *Compute) DestroyArray(a entity.Array) error {
	c.synchronizeAll()
	c.mu.Lock()
	defer c.mu.Unlock()
	arr, ok := c.arrays[a]
	if !ok {
		return fmt.Errorf("%w: array %#x", ErrInvalidHandle, a)
	}
	delete(c.arrays, a)
	if mip, ok := c.mipmaps[arr.mip]; ok {
		mip.refs--
	}
	return nil
}

// DestroyMipmappedArray fails with ErrResourceBusy while level arrays exist.
func (c *Compute) DestroyMipmappedArray(m entity.MipmappedArray) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	mip, ok := c.mipmaps[m]
	if !ok {
		return fmt.Errorf("%w: mipmapped array %#x", ErrInvalidHandle, m)
	}
	if mip.refs > 0 {
		return fmt.Errorf("%w: mipmapped array %#x has %d arrays", ErrResourceBusy, m, mip.refs)
	}
	delete(c.mipmaps, m)
	if ext, ok := c.extmems[mip.mem]; ok {
		ext.refs--
	}
	return nil
}

// DestroyExternalMemory unmaps imported memory. It fails with
// ErrResourceBusy while mipmapped arrays still view it.
func (c *Compute) DestroyExternalMemory(mem entity.ExternalMemory) error {
	c.synchronizeAll()
	c.mu.Lock()
	defer c.mu.Unlock()
	ext, ok := c.extmems[mem]
	if !ok {
		return fmt.Errorf("%w: external memory %#x", ErrInvalidHandle, mem)
	}
	if ext.refs > 0 {
		return fmt.Errorf("%w: external memory %#x has %d mipmapped arrays", ErrResourceBusy, mem, ext.refs)
	}
	delete(c.extmems, mem)
	if err := unix.Munmap(ext.data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

// AllocDevice allocates size bytes of zeroed device memory.
func (c *Compute) AllocDevice(size uint64) (entity.DevicePtr, error) {
	if size == 0 {
		return 0, fmt.Errorf("%w: zero size", ErrInvalidValue)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	h := entity.DevicePtr(c.handleLocked())
	c.device[h] = make([]byte, size)
	return h, nil
}

// WriteDevice copies data into a device allocation at offset.
func (c *Compute) WriteDevice(ptr entity.DevicePtr, offset uint64, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ok := c.device[ptr]
	if !ok {
		return fmt.Errorf("%w: device pointer %#x", ErrInvalidHandle, ptr)
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("%w: write of %d bytes at %d exceeds %d", ErrInvalidValue, len(data), offset, len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

// FillDevice sets n bytes starting at offset to value.
func (c *Compute) FillDevice(ptr entity.DevicePtr, offset uint64, value byte, n uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ok := c.device[ptr]
	if !ok {
		return fmt.Errorf("%w: device pointer %#x", ErrInvalidHandle, ptr)
	}
	if offset+n > uint64(len(buf)) {
		return fmt.Errorf("%w: fill of %d bytes at %d exceeds %d", ErrInvalidValue, n, offset, len(buf))
	}
	for i := range buf[offset : offset+n] {
		buf[offset+uint64(i)] = value
	}
	return nil
}

// FreeDevice frees a device allocation after pending stream work drains.
func (c *Compute) FreeDevice(ptr entity.DevicePtr) error {
	c.synchronizeAll()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.device[ptr]; !ok {
		return fmt.Errorf("%w: device pointer %#x", ErrInvalidHandle, ptr)
	}
	delete(c.device, ptr)
	return nil
}

// Stats returns the number of live resources of each kind.
func (c *Compute) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		ExternalMemories:  len(c.extmems),
		MipmappedArrays:   len(c.mipmaps),
		Arrays:            len(c.arrays),
		DeviceAllocations: len(c.device),
	}
}

// Close stops the stream workers and unmaps any memory still imported.
func (c *Compute) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	streams := c.streams
	c.streams = nil
	c.mu.Unlock()

	for _, st := range streams {
		st.stop()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for h, ext := range c.extmems {
		if err := unix.Munmap(ext.data); err != nil {
			errs = append(errs, fmt.Errorf("munmap %#x: %w", h, err))
		}
	}
	clear(c.extmems)
	clear(c.mipmaps)
	clear(c.arrays)
	clear(c.device)
	return errors.Join(errs...)
}

func (c *Compute) stream(s entity.Stream) (*stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	st, ok := c.streams[s]
	if !ok {
		st = newStream()
		c.streams[s] = st
	}
	return st, nil
}

func (c *Compute) synchronizeAll() {
	c.mu.Lock()
	streams := make([]*stream, 0, len(c.streams))
	for _, st := range c.streams {
		streams = append(streams, st)
	}
	c.mu.Unlock()
	for _, st := range streams {
		_ = st.synchronize()
	}
}
