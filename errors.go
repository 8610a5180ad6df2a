package clam

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/oclwrapper/clam/opencl"
)

var (
	// ErrUnknownMemObject is returned from Free when the provided memory
	// object was not created by this allocator (or was already released).
	// Freeing a handle with no metadata record is a caller contract
	// violation and is reported rather than silently tolerated.
	ErrUnknownMemObject = errors.New("mem object is not owned by this allocator")

	// ErrSizeAllocNotSupported is returned from the size-only Alloc path of
	// allocators whose memory objects require a shape, not a scalar size.
	ErrSizeAllocNotSupported = errors.New("size-only allocation is not supported by this allocator")

	// ErrDescPackerRequired is returned from AllocTensor when the allocator
	// was created without a descriptor packing function.
	ErrDescPackerRequired = errors.New("no descriptor packing function was configured for this allocator")
)

// AllocationError indicates the native allocation primitive returned a
// non-success code. It is always surfaced to the caller; the allocator never
// retries or falls back to another allocation strategy.
type AllocationError struct {
	// Result is the native code the runtime failed with
	Result opencl.Result

	cause error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("native memory object allocation failed with %s", e.Result)
}

func (e *AllocationError) Unwrap() error {
	return e.cause
}

// ValidationError indicates requested image dimensions violate the device
// limits this allocator was created with, or are non-positive. It is raised
// before any native call is attempted.
type ValidationError struct {
	// Dimension names the offending dimension, "width" or "height"
	Dimension string
	// Extent is the requested size along that dimension
	Extent int
	// Limit is the device-reported maximum for that dimension
	Limit int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("image %s %d is invalid: must be greater than 0 and at most %d", e.Dimension, e.Extent, e.Limit)
}
