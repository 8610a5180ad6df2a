package clam

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/oclwrapper/clam/internal/utils"
	"github.com/oclwrapper/clam/opencl"
)

// Image2DAllocator is a caching allocator for 2-D device image objects,
// keyed by the full image descriptor. Image objects are format- and
// shape-typed at creation and cannot be resized or reinterpreted cheaply,
// so reuse requires an exact width, height and channel format match; the
// channel format is fixed per allocator instance by the UseFP16 flag it was
// created with.
type Image2DAllocator struct {
	logger *slog.Logger
	ctx    opencl.Context
	mutex  utils.OptionalRWMutex
	cache  *reuseCache[Image2DDesc]
	info   MemoryInfo

	format    opencl.ImageFormat
	maxWidth  int
	maxHeight int
	packDesc  DescPacker
}

var _ Allocator = (*Image2DAllocator)(nil)

// Alloc is the scalar entry point of the Allocator interface. 2-D images
// require a shape, not a size, so this path is not supported: it returns the
// nil memory object and an error wrapping ErrSizeAllocNotSupported, and
// never reaches the native runtime. Use AllocImage2D or AllocTensor instead.
func (a *Image2DAllocator) Alloc(size int) (opencl.MemObject, error) {
	a.logger.Debug("Image2DAllocator::Alloc")

	return opencl.NilMemObject, errors.WithStack(ErrSizeAllocNotSupported)
}

// AllocTensor returns an image object backing the provided tensor shape,
// computing the image descriptor through the packing function this allocator
// was created with.
func (a *Image2DAllocator) AllocTensor(shape TensorShape) (opencl.MemObject, error) {
	a.logger.Debug("Image2DAllocator::AllocTensor")

	if a.packDesc == nil {
		return opencl.NilMemObject, errors.WithStack(ErrDescPackerRequired)
	}

	return a.AllocImage2D(a.packDesc(shape))
}

// AllocImage2D returns an image object matching desc. When a previously
// freed image of the exact same descriptor is parked, it is handed back with
// no native call. On a miss, the descriptor is validated against the device
// limits before any native work: a violation surfaces as *ValidationError.
// Native failures surface as *AllocationError carrying the runtime's code.
func (a *Image2DAllocator) AllocImage2D(desc Image2DDesc) (opencl.MemObject, error) {
	a.logger.Debug("Image2DAllocator::AllocImage2D")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if mem, ok := a.cache.popFree(desc); ok {
		// Parked images already passed validation at creation
		a.logger.Debug("reused image", "mem", uint64(mem))
		return mem, nil
	}

	if desc.Height <= 0 || desc.Height > a.maxHeight {
		return opencl.NilMemObject, errors.WithStack(&ValidationError{Dimension: "height", Extent: desc.Height, Limit: a.maxHeight})
	}
	if desc.Width <= 0 || desc.Width > a.maxWidth {
		return opencl.NilMemObject, errors.WithStack(&ValidationError{Dimension: "width", Extent: desc.Width, Limit: a.maxWidth})
	}

	// Depth, array, pitch, mip and sample fields must all be zero for a 2-D
	// image with no backing host buffer
	mem, res, err := a.ctx.CreateImage2D(opencl.MemReadWrite, a.format, opencl.ImageDesc{
		Type:   opencl.MemObjectImage2D,
		Width:  desc.Width,
		Height: desc.Height,
	})
	if res != opencl.Success {
		return opencl.NilMemObject, errors.WithStack(&AllocationError{Result: res, cause: err})
	}

	a.logger.Debug("allocated image", "mem", uint64(mem), "width", desc.Width, "height", desc.Height)
	a.cache.recordNew(mem, desc)
	DebugValidate(a.cache)

	return mem, nil
}

// Free parks the image on the free list for its recorded descriptor, making
// it available for reuse. The image is not released to the runtime. Freeing
// a memory object this allocator does not own returns an error wrapping
// ErrUnknownMemObject.
func (a *Image2DAllocator) Free(mem opencl.MemObject) error {
	a.logger.Debug("Image2DAllocator::Free")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	desc, err := a.cache.parkFree(mem)
	if err != nil {
		return err
	}

	a.logger.Debug("parked image", "mem", uint64(mem), "width", desc.Width, "height", desc.Height)
	DebugValidate(a.cache)

	return nil
}

// MemoryInfo returns the allocator's fixed identity.
func (a *Image2DAllocator) MemoryInfo() MemoryInfo {
	return a.info
}

// Destroy releases every image this allocator ever created, whether in-use
// or parked, and clears all state. The caller is responsible for having
// returned all handles before teardown.
func (a *Image2DAllocator) Destroy() {
	a.logger.Debug("Image2DAllocator::Destroy")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.cache.releaseAll(a.ctx, a.logger)
}

// AddCacheStatistics accumulates this allocator's cache activity into stats.
func (a *Image2DAllocator) AddCacheStatistics(stats *CacheStatistics) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	a.cache.addCacheStatistics(stats)
}

// PrintDetailedMap writes a json blob with details about the allocator's
// cache contents to the provided writer.
func (a *Image2DAllocator) PrintDetailedMap(writer *jwriter.Writer) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	obj := writer.Object()
	defer obj.End()

	obj.Name("Name").String(a.info.Name)
	obj.Name("MemKind").String(a.info.MemKind.String())
	a.cache.printDetailedMap(obj, Image2DDesc.String)
}
