package cuda

// Layouts of the driver API structures passed by pointer. Field order and
// padding follow cuda.h for LP64.

const (
	externalMemoryHandleTypeOpaqueFD = 1

	memoryTypeDevice = 2
	memoryTypeArray  = 3

	resultSuccess = 0
)

// externalMemoryHandleDesc is CUDA_EXTERNAL_MEMORY_HANDLE_DESC.
type externalMemoryHandleDesc struct {
	Type     uint32
	_        uint32
	Handle   [16]byte // union { int fd; win32 handle/name; nvSciBufObject }
	Size     uint64
	Flags    uint32
	Reserved [16]uint32
	_        uint32
}

// array3DDescriptor is CUDA_ARRAY3D_DESCRIPTOR.
type array3DDescriptor struct {
	Width       uint64
	Height      uint64
	Depth       uint64
	Format      uint32
	NumChannels uint32
	Flags       uint32
	_           uint32
}

// externalMemoryMipmappedArrayDesc is CUDA_EXTERNAL_MEMORY_MIPMAPPED_ARRAY_DESC.
type externalMemoryMipmappedArrayDesc struct {
	Offset    uint64
	ArrayDesc array3DDescriptor
	NumLevels uint32
	Reserved  [16]uint32
	_         uint32
}

// memcpy2D is CUDA_MEMCPY2D.
type memcpy2D struct {
	SrcXInBytes   uint64
	SrcY          uint64
	SrcMemoryType uint32
	_             uint32
	SrcHost       uintptr
	SrcDevice     uint64
	SrcArray      uintptr
	SrcPitch      uint64

	DstXInBytes   uint64
	DstY          uint64
	DstMemoryType uint32
	_             uint32
	DstHost       uintptr
	DstDevice     uint64
	DstArray      uintptr
	DstPitch      uint64

	WidthInBytes uint64
	Height       uint64
}
