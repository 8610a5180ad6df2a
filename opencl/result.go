package opencl

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Result is a status code returned by the native OpenCL runtime from the
// memory-object entry points this module consumes. The values mirror the
// codes defined by the OpenCL headers.
type Result int32

const (
	// Success indicates the native call completed without error
	Success Result = 0

	// ErrMemObjectAllocationFailure indicates the runtime could not allocate
	// device memory for the requested buffer or image
	ErrMemObjectAllocationFailure Result = -4
	// ErrOutOfResources indicates the device ran out of resources servicing
	// the request
	ErrOutOfResources Result = -5
	// ErrOutOfHostMemory indicates the host ran out of memory servicing the
	// request
	ErrOutOfHostMemory Result = -6
	// ErrInvalidValue indicates an argument to the native call was rejected
	ErrInvalidValue Result = -30
	// ErrInvalidImageSize indicates the requested image dimensions are not
	// supported by the device
	ErrInvalidImageSize Result = -40
	// ErrInvalidBufferSize indicates the requested buffer size is zero or
	// exceeds the device's maximum allocation size
	ErrInvalidBufferSize Result = -61
)

var resultNames = map[Result]string{
	Success:                       "CL_SUCCESS",
	ErrMemObjectAllocationFailure: "CL_MEM_OBJECT_ALLOCATION_FAILURE",
	ErrOutOfResources:             "CL_OUT_OF_RESOURCES",
	ErrOutOfHostMemory:            "CL_OUT_OF_HOST_MEMORY",
	ErrInvalidValue:               "CL_INVALID_VALUE",
	ErrInvalidImageSize:           "CL_INVALID_IMAGE_SIZE",
	ErrInvalidBufferSize:          "CL_INVALID_BUFFER_SIZE",
}

func (r Result) String() string {
	name, ok := resultNames[r]
	if !ok {
		return fmt.Sprintf("unknown result code %d", int32(r))
	}
	return name
}

// ToError returns nil for Success and an error describing the result code
// otherwise.
func (r Result) ToError() error {
	if r == Success {
		return nil
	}
	return errors.Errorf("opencl runtime returned %s", r)
}
