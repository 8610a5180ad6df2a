package clam

import (
	"log/slog"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/oclwrapper/clam/opencl"
)

// reuseCache is the exact-match reuse skeleton shared by both allocators,
// parameterized over the allocation key: a byte size for buffers, a full
// image descriptor for 2-D images. It never splits, merges or evicts —
// a parked memory object can only be reused under the same key it was
// created with, and is only released back to the runtime by releaseAll.
//
// The metadata table is the sole source of truth for the key of a live
// memory object, since native handles carry no size or shape of their own.
type reuseCache[K comparable] struct {
	// meta holds one record per memory object ever created and not yet
	// released, whether in-use or parked
	meta *swiss.Map[opencl.MemObject, K]
	// freeLists holds parked memory objects per key, most recently freed
	// last
	freeLists map[K][]opencl.MemObject

	nativeAllocationCount int
	reuseCount            int
	parkedCount           int

	// sizeOf converts a key to the byte footprint of one memory object of
	// that key
	sizeOf func(key K) int
	// compare is a total order over keys, used for deterministic reporting
	compare func(a, b K) int
}

func newReuseCache[K comparable](sizeOf func(key K) int, compare func(a, b K) int) *reuseCache[K] {
	return &reuseCache[K]{
		meta:      swiss.NewMap[opencl.MemObject, K](42),
		freeLists: make(map[K][]opencl.MemObject),
		sizeOf:    sizeOf,
		compare:   compare,
	}
}

// popFree returns the most recently parked memory object for key, if any.
func (c *reuseCache[K]) popFree(key K) (opencl.MemObject, bool) {
	list := c.freeLists[key]
	if len(list) == 0 {
		return opencl.NilMemObject, false
	}

	mem := list[len(list)-1]
	c.freeLists[key] = list[:len(list)-1]
	c.parkedCount--
	c.reuseCount++
	return mem, true
}

// recordNew registers the metadata record for a freshly created memory
// object.
func (c *reuseCache[K]) recordNew(mem opencl.MemObject, key K) {
	c.meta.Put(mem, key)
	c.nativeAllocationCount++
}

// parkFree places a memory object on the free list for its recorded key and
// returns that key. A memory object with no metadata record was never
// created by this cache; that is a caller contract violation and is
// reported, never defaulted.
func (c *reuseCache[K]) parkFree(mem opencl.MemObject) (K, error) {
	key, ok := c.meta.Get(mem)
	if !ok {
		return key, errors.Wrapf(ErrUnknownMemObject, "mem object %#x", uintptr(mem))
	}

	c.freeLists[key] = append(c.freeLists[key], mem)
	c.parkedCount++
	return key, nil
}

// releaseAll issues exactly one native release per live memory object,
// in-use and parked alike, then clears all state. Release of a valid handle
// never fails; a non-success code is logged and otherwise ignored.
func (c *reuseCache[K]) releaseAll(ctx opencl.Context, logger *slog.Logger) {
	c.meta.Iter(func(mem opencl.MemObject, key K) bool {
		res := ctx.ReleaseMemObject(mem)
		if res != opencl.Success {
			logger.Warn("release of mem object did not succeed", "mem", uint64(mem), "result", res.String())
		} else {
			logger.Debug("released mem object", "mem", uint64(mem))
		}
		return false
	})

	c.meta = swiss.NewMap[opencl.MemObject, K](42)
	c.freeLists = make(map[K][]opencl.MemObject)
	c.nativeAllocationCount = 0
	c.reuseCount = 0
	c.parkedCount = 0
}

func (c *reuseCache[K]) addCacheStatistics(stats *CacheStatistics) {
	stats.NativeAllocationCount += c.nativeAllocationCount
	stats.ReuseCount += c.reuseCount
	stats.ParkedCount += c.parkedCount
	stats.InUseCount += c.meta.Count() - c.parkedCount

	liveBytes := 0
	c.meta.Iter(func(mem opencl.MemObject, key K) bool {
		liveBytes += c.sizeOf(key)
		return false
	})

	parkedBytes := 0
	for key, list := range c.freeLists {
		parkedBytes += len(list) * c.sizeOf(key)
	}

	stats.ParkedBytes += parkedBytes
	stats.InUseBytes += liveBytes - parkedBytes
}

func (c *reuseCache[K]) printDetailedMap(json jwriter.ObjectState, keyString func(key K) string) {
	json.Name("NativeAllocations").Int(c.nativeAllocationCount)
	json.Name("Reuses").Int(c.reuseCount)
	json.Name("LiveMemObjects").Int(c.meta.Count())
	json.Name("ParkedMemObjects").Int(c.parkedCount)

	keys := make([]K, 0, len(c.freeLists))
	for key := range c.freeLists {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, c.compare)

	listState := json.Name("FreeLists").Array()
	defer listState.End()

	for _, key := range keys {
		list := c.freeLists[key]

		obj := listState.Object()
		obj.Name("Key").String(keyString(key))
		obj.Name("Count").Int(len(list))
		obj.Name("Bytes").Int(len(list) * c.sizeOf(key))
		obj.End()
	}
}

// Validate checks the cache invariants: every parked memory object has a
// metadata record whose key matches the free list holding it, appears in
// exactly one free list, and the parked counter matches the free list
// contents.
func (c *reuseCache[K]) Validate() error {
	seen := make(map[opencl.MemObject]struct{})
	actualParked := 0

	for key, list := range c.freeLists {
		for _, mem := range list {
			if _, duplicate := seen[mem]; duplicate {
				return errors.Errorf("mem object %#x appears in more than one free list position", uintptr(mem))
			}
			seen[mem] = struct{}{}
			actualParked++

			recordedKey, ok := c.meta.Get(mem)
			if !ok {
				return errors.Errorf("parked mem object %#x has no metadata record", uintptr(mem))
			}
			if recordedKey != key {
				return errors.Errorf("parked mem object %#x sits in the free list for a key that does not match its metadata record", uintptr(mem))
			}
		}
	}

	if actualParked != c.parkedCount {
		return errors.Errorf("the listed number of parked mem objects (%d) does not match the actual number parked (%d)", c.parkedCount, actualParked)
	}

	if actualParked > c.meta.Count() {
		return errors.Errorf("more mem objects are parked (%d) than have metadata records (%d)", actualParked, c.meta.Count())
	}

	return nil
}
