// Package opencl specifies the boundary between the caching allocators and
// the native OpenCL runtime. Only the slice of the API that device-memory
// caching requires is modeled here: creating buffers and 2-D images and
// releasing memory objects. The production implementation wraps a real
// OpenCL binding; tests substitute an in-process fake.
package opencl

// MemObject is an opaque handle to a device-resident memory object. The
// handle carries no size or shape information of its own, so consumers that
// need to know what a handle refers to must track that on the side.
type MemObject uintptr

// NilMemObject is the zero memory object, returned from failed or
// unsupported allocation paths.
const NilMemObject MemObject = 0

// MemFlags control the access mode of a memory object at creation time.
type MemFlags uint64

const (
	// MemReadWrite requests a memory object that kernels may both read and
	// write
	MemReadWrite MemFlags = 1 << 0
)

// MemObjectType discriminates the kinds of memory object the runtime can
// create.
type MemObjectType uint32

const (
	// MemObjectBuffer is a linear device buffer
	MemObjectBuffer MemObjectType = 0x10F0
	// MemObjectImage2D is a two-dimensional image object
	MemObjectImage2D MemObjectType = 0x10F1
)

// ChannelOrder is the channel layout of an image's pixel format.
type ChannelOrder uint32

const (
	// ChannelOrderRGBA is the four-channel layout used for tensor-backed
	// images
	ChannelOrderRGBA ChannelOrder = 0x10B5
)

// ChannelType is the per-channel storage type of an image's pixel format.
type ChannelType uint32

const (
	// ChannelTypeHalfFloat stores each channel as a 16-bit float
	ChannelTypeHalfFloat ChannelType = 0x10DD
	// ChannelTypeFloat stores each channel as a 32-bit float
	ChannelTypeFloat ChannelType = 0x10DE
)

// ImageFormat describes the pixel format of an image object.
type ImageFormat struct {
	Order ChannelOrder
	Type  ChannelType
}

// PixelBytes returns the byte footprint of a single pixel in this format.
func (f ImageFormat) PixelBytes() int {
	channelBytes := 4
	if f.Type == ChannelTypeHalfFloat {
		channelBytes = 2
	}

	// RGBA is the only supported channel order
	return 4 * channelBytes
}

// ImageDesc describes the geometry of an image object to create. For 2-D
// images without a backing host buffer, every field other than Type, Width
// and Height must be left zero.
type ImageDesc struct {
	Type   MemObjectType
	Width  int
	Height int

	Depth      int
	ArraySize  int
	RowPitch   int
	SlicePitch int
	MipLevels  int
	Samples    int
}

// Context is the device context against which memory objects are created.
// Both creation methods return a failure Result alongside a non-nil error
// when the native call does not succeed; on Success the error is nil.
//
// The native allocation calls are synchronous and run on the calling
// goroutine with no cancellation support.
type Context interface {
	// CreateBuffer allocates a linear device buffer of exactly size bytes
	CreateBuffer(flags MemFlags, size int) (MemObject, Result, error)
	// CreateImage2D allocates a 2-D image object with the provided pixel
	// format and geometry
	CreateImage2D(flags MemFlags, format ImageFormat, desc ImageDesc) (MemObject, Result, error)
	// ReleaseMemObject returns a memory object to the runtime. Release of a
	// valid handle is assumed to always succeed.
	ReleaseMemObject(mem MemObject) Result
}
