package clam

import (
	"cmp"
	"testing"

	"github.com/oclwrapper/clam/opencl"
	"github.com/stretchr/testify/require"
)

func newIntCache() *reuseCache[int] {
	return newReuseCache[int](
		func(size int) int { return size },
		cmp.Compare[int],
	)
}

func TestReuseCachePopFreeEmpty(t *testing.T) {
	cache := newIntCache()

	mem, ok := cache.popFree(256)
	require.False(t, ok)
	require.Equal(t, opencl.NilMemObject, mem)
}

func TestReuseCacheParkUnknown(t *testing.T) {
	cache := newIntCache()

	_, err := cache.parkFree(opencl.MemObject(1))
	require.ErrorIs(t, err, ErrUnknownMemObject)
	require.NoError(t, cache.Validate())
}

func TestReuseCacheRoundTrip(t *testing.T) {
	cache := newIntCache()
	mem := opencl.MemObject(1)

	cache.recordNew(mem, 256)
	require.NoError(t, cache.Validate())

	key, err := cache.parkFree(mem)
	require.NoError(t, err)
	require.Equal(t, 256, key)
	require.NoError(t, cache.Validate())

	popped, ok := cache.popFree(256)
	require.True(t, ok)
	require.Equal(t, mem, popped)
	require.NoError(t, cache.Validate())
}

func TestReuseCacheValidateCatchesDoublePark(t *testing.T) {
	cache := newIntCache()
	mem := opencl.MemObject(1)

	cache.recordNew(mem, 256)

	_, err := cache.parkFree(mem)
	require.NoError(t, err)

	// A double Free is a caller contract violation the park path cannot
	// distinguish on its own; Validate reports the duplicate entry.
	_, err = cache.parkFree(mem)
	require.NoError(t, err)
	require.Error(t, cache.Validate())
}

func TestReuseCacheReleaseAllClearsState(t *testing.T) {
	cache := newIntCache()
	ctx := newFakeContext()

	memA := opencl.MemObject(1)
	memB := opencl.MemObject(2)
	cache.recordNew(memA, 256)
	cache.recordNew(memB, 512)

	_, err := cache.parkFree(memA)
	require.NoError(t, err)

	cache.releaseAll(ctx, newNopLogger())

	require.Len(t, ctx.released, 2)
	require.Equal(t, 0, cache.meta.Count())
	require.Empty(t, cache.freeLists)
	require.NoError(t, cache.Validate())

	var stats CacheStatistics
	cache.addCacheStatistics(&stats)
	require.Equal(t, CacheStatistics{}, stats)
}
