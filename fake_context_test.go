package clam

import (
	"github.com/oclwrapper/clam/opencl"
)

// fakeContext is an in-process stand-in for the native device context. It
// mints sequential handles and records every call so tests can assert on the
// native traffic an allocator generates.
type fakeContext struct {
	nextHandle uintptr

	bufferCalls int
	imageCalls  int

	// failWith makes every creation call fail with the given code when it
	// is not Success
	failWith opencl.Result

	lastBufferFlags opencl.MemFlags
	lastBufferSize  int
	lastImageFlags  opencl.MemFlags
	lastImageFormat opencl.ImageFormat
	lastImageDesc   opencl.ImageDesc

	released map[opencl.MemObject]int
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		released: make(map[opencl.MemObject]int),
	}
}

func (c *fakeContext) mint() opencl.MemObject {
	c.nextHandle++
	return opencl.MemObject(c.nextHandle)
}

func (c *fakeContext) CreateBuffer(flags opencl.MemFlags, size int) (opencl.MemObject, opencl.Result, error) {
	c.bufferCalls++
	c.lastBufferFlags = flags
	c.lastBufferSize = size

	if c.failWith != opencl.Success {
		return opencl.NilMemObject, c.failWith, c.failWith.ToError()
	}

	return c.mint(), opencl.Success, nil
}

func (c *fakeContext) CreateImage2D(flags opencl.MemFlags, format opencl.ImageFormat, desc opencl.ImageDesc) (opencl.MemObject, opencl.Result, error) {
	c.imageCalls++
	c.lastImageFlags = flags
	c.lastImageFormat = format
	c.lastImageDesc = desc

	if c.failWith != opencl.Success {
		return opencl.NilMemObject, c.failWith, c.failWith.ToError()
	}

	return c.mint(), opencl.Success, nil
}

func (c *fakeContext) ReleaseMemObject(mem opencl.MemObject) opencl.Result {
	c.released[mem]++
	return opencl.Success
}
