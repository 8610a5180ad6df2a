package clam

import (
	"log/slog"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/oclwrapper/clam/internal/utils"
	"github.com/oclwrapper/clam/opencl"
)

// BufferAllocator is a caching allocator for linear device buffers, keyed by
// exact byte size. A freed buffer is parked for reuse by a later Alloc of
// the same size; buffers of any other size always trigger a fresh native
// allocation. Tensor shapes recur heavily across inference iterations, so
// the steady-state hit rate is high despite the exact matching.
type BufferAllocator struct {
	logger *slog.Logger
	ctx    opencl.Context
	mutex  utils.OptionalRWMutex
	cache  *reuseCache[int]
	info   MemoryInfo
}

var _ Allocator = (*BufferAllocator)(nil)

// Alloc returns a device buffer of exactly size bytes. When a previously
// freed buffer of that size is parked, it is handed back with no native
// call; otherwise a new buffer is created through the device context. Native
// failures surface as *AllocationError carrying the runtime's code.
func (a *BufferAllocator) Alloc(size int) (opencl.MemObject, error) {
	a.logger.Debug("BufferAllocator::Alloc")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if mem, ok := a.cache.popFree(size); ok {
		a.logger.Debug("reused buffer", "mem", uint64(mem))
		return mem, nil
	}

	mem, res, err := a.ctx.CreateBuffer(opencl.MemReadWrite, size)
	if res != opencl.Success {
		return opencl.NilMemObject, errors.WithStack(&AllocationError{Result: res, cause: err})
	}

	a.logger.Debug("allocated buffer", "mem", uint64(mem), "size", size)
	a.cache.recordNew(mem, size)
	DebugValidate(a.cache)

	return mem, nil
}

// Free parks the buffer on the free list for its recorded size, making it
// available for reuse. The buffer is not released to the runtime. Freeing a
// memory object this allocator does not own returns an error wrapping
// ErrUnknownMemObject.
func (a *BufferAllocator) Free(mem opencl.MemObject) error {
	a.logger.Debug("BufferAllocator::Free")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	size, err := a.cache.parkFree(mem)
	if err != nil {
		return err
	}

	a.logger.Debug("parked buffer", "mem", uint64(mem), "size", size)
	DebugValidate(a.cache)

	return nil
}

// MemoryInfo returns the allocator's fixed identity.
func (a *BufferAllocator) MemoryInfo() MemoryInfo {
	return a.info
}

// Destroy releases every buffer this allocator ever created, whether in-use
// or parked, and clears all state. The caller is responsible for having
// returned all handles before teardown.
func (a *BufferAllocator) Destroy() {
	a.logger.Debug("BufferAllocator::Destroy")

	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.cache.releaseAll(a.ctx, a.logger)
}

// AddCacheStatistics accumulates this allocator's cache activity into stats.
func (a *BufferAllocator) AddCacheStatistics(stats *CacheStatistics) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	a.cache.addCacheStatistics(stats)
}

// PrintDetailedMap writes a json blob with details about the allocator's
// cache contents to the provided writer.
func (a *BufferAllocator) PrintDetailedMap(writer *jwriter.Writer) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	obj := writer.Object()
	defer obj.End()

	obj.Name("Name").String(a.info.Name)
	obj.Name("MemKind").String(a.info.MemKind.String())
	a.cache.printDetailedMap(obj, strconv.Itoa)
}
