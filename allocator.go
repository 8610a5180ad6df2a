// Package clam provides caching device-memory allocators for an OpenCL
// compute backend. Allocators hand out device-resident memory objects and,
// on Free, park them internally for exact-match reuse instead of releasing
// them to the runtime; native creation only happens on a cache miss and
// native release only at allocator teardown.
package clam

import "github.com/oclwrapper/clam/opencl"

const (
	// BufferAllocatorName is the fixed identity the buffer allocator
	// installs itself under
	BufferAllocatorName = "OpenCLBuffer"
	// Image2DAllocatorName is the fixed identity the 2-D image allocator
	// installs itself under
	Image2DAllocatorName = "OpenCLImage2D"
)

// DeviceKind is the kind of device an allocator places memory on. It is
// consumed by the host framework when routing tensor placement decisions.
type DeviceKind int32

const (
	// DeviceKindGPU places memory on the GPU device
	DeviceKindGPU DeviceKind = iota
)

func (k DeviceKind) String() string {
	if k == DeviceKindGPU {
		return "GPU"
	}
	return "Unknown"
}

// MemKind is the kind of native memory object an allocator produces.
type MemKind int32

const (
	// MemKindBuffer marks allocators producing linear device buffers
	MemKindBuffer MemKind = iota
	// MemKindImage2D marks allocators producing 2-D image objects
	MemKindImage2D
)

func (k MemKind) String() string {
	switch k {
	case MemKindBuffer:
		return "Buffer"
	case MemKindImage2D:
		return "Image2D"
	}
	return "Unknown"
}

// MemoryInfo is the identity an allocator registers with the host framework:
// a fixed name plus the device-kind/memory-kind tag used for routing.
type MemoryInfo struct {
	Name       string
	DeviceKind DeviceKind
	MemKind    MemKind
}

// Allocator is the host framework's routing surface over the caching
// allocators. Alloc takes a scalar byte size; allocators whose memory
// objects require a shape rather than a size reject this path with
// ErrSizeAllocNotSupported and expose their own shaped entry points instead.
//
// Allocators are not synchronized unless created with
// AllocatorCreateSynchronized: each instance assumes single-writer access to
// its cache and metadata tables, and hosts with concurrent producers must
// serialize externally.
type Allocator interface {
	// Alloc returns a device memory object of exactly size bytes, reusing a
	// previously freed object of the same size when one is available
	Alloc(size int) (opencl.MemObject, error)
	// Free returns a memory object to the allocator for reuse. No native
	// release occurs; the allocator retains ownership of the handle until
	// Destroy.
	Free(mem opencl.MemObject) error
	// MemoryInfo returns the allocator's fixed identity
	MemoryInfo() MemoryInfo
	// Destroy releases every memory object this allocator ever created and
	// clears all internal state. Callers are responsible for having returned
	// all handles first.
	Destroy()
}
