package clam

// CacheStatistics is a snapshot of one allocator's cache activity and
// current contents. Counts accumulate from creation until Destroy.
type CacheStatistics struct {
	// NativeAllocationCount is the number of memory objects created through
	// the native runtime
	NativeAllocationCount int
	// ReuseCount is the number of Alloc calls served from a free list with
	// no native call
	ReuseCount int

	// InUseCount is the number of memory objects currently handed out to
	// the caller
	InUseCount int
	// ParkedCount is the number of memory objects currently sitting in free
	// lists awaiting reuse
	ParkedCount int
	// InUseBytes is the byte footprint of in-use memory objects
	InUseBytes int
	// ParkedBytes is the byte footprint of parked memory objects
	ParkedBytes int
}

func (s *CacheStatistics) Clear() {
	s.NativeAllocationCount = 0
	s.ReuseCount = 0
	s.InUseCount = 0
	s.ParkedCount = 0
	s.InUseBytes = 0
	s.ParkedBytes = 0
}

func (s *CacheStatistics) AddCacheStatistics(other *CacheStatistics) {
	s.NativeAllocationCount += other.NativeAllocationCount
	s.ReuseCount += other.ReuseCount
	s.InUseCount += other.InUseCount
	s.ParkedCount += other.ParkedCount
	s.InUseBytes += other.InUseBytes
	s.ParkedBytes += other.ParkedBytes
}
