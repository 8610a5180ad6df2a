package clam

import (
	"cmp"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/oclwrapper/clam/internal/utils"
	"github.com/oclwrapper/clam/opencl"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

const (
	// AllocatorCreateSynchronized guards the allocator's cache and metadata
	// tables with an internal mutex, making it safe to share across
	// goroutines. Without this flag the allocator assumes ownership and
	// exclusive invocation by a single execution context at a time, and
	// consumers with concurrent producers must serialize access externally.
	AllocatorCreateSynchronized CreateFlags = 1 << iota
)

func (f CreateFlags) String() string {
	var names []string
	if f&AllocatorCreateSynchronized != 0 {
		names = append(names, "AllocatorCreateSynchronized")
	}
	return strings.Join(names, "|")
}

// CreateOptions contains optional settings when creating a buffer allocator
type CreateOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags
}

// NewBufferAllocator creates a caching allocator for linear device buffers.
//
// logger - Receives diagnostic lines for allocation, reuse and release
// events. May be nil, in which case nothing is logged.
//
// ctx - The device context buffers will be created against
//
// options - Optional parameters: it is valid to leave all the fields blank
func NewBufferAllocator(logger *slog.Logger, ctx opencl.Context, options CreateOptions) (*BufferAllocator, error) {
	if ctx == nil {
		return nil, errors.New("a device context is required to create a buffer allocator")
	}
	if logger == nil {
		logger = newNopLogger()
	}

	return &BufferAllocator{
		logger: logger,
		ctx:    ctx,
		mutex:  utils.OptionalRWMutex{UseMutex: options.Flags&AllocatorCreateSynchronized != 0},
		cache: newReuseCache[int](
			func(size int) int { return size },
			cmp.Compare[int],
		),
		info: MemoryInfo{
			Name:       BufferAllocatorName,
			DeviceKind: DeviceKindGPU,
			MemKind:    MemKindBuffer,
		},
	}, nil
}

// Image2DAllocatorCreateInfo contains the required device capabilities and
// settings when creating a 2-D image allocator
type Image2DAllocatorCreateInfo struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags

	// UseFP16 selects the half-float pixel channel type for every image
	// created by this allocator instead of the full 32-bit float. The
	// precision is fixed for the allocator's lifetime.
	UseFP16 bool

	// MaxImageWidth is the device-reported maximum 2-D image width. It must
	// be positive.
	MaxImageWidth int
	// MaxImageHeight is the device-reported maximum 2-D image height. It
	// must be positive.
	MaxImageHeight int

	// PackDesc converts tensor shapes to image descriptors for the
	// AllocTensor convenience path. It may be left nil if that path is not
	// used.
	PackDesc DescPacker
}

// NewImage2DAllocator creates a caching allocator for 2-D device image
// objects. The device limits in info are required: missing or invalid
// capabilities are a construction-time error rather than a later
// allocation-time surprise.
//
// logger - Receives diagnostic lines for allocation, reuse and release
// events. May be nil, in which case nothing is logged.
//
// ctx - The device context images will be created against
func NewImage2DAllocator(logger *slog.Logger, ctx opencl.Context, info Image2DAllocatorCreateInfo) (*Image2DAllocator, error) {
	if ctx == nil {
		return nil, errors.New("a device context is required to create an image allocator")
	}
	if info.MaxImageWidth <= 0 {
		return nil, errors.Errorf("Image2DAllocatorCreateInfo.MaxImageWidth must be positive, but was %d", info.MaxImageWidth)
	}
	if info.MaxImageHeight <= 0 {
		return nil, errors.Errorf("Image2DAllocatorCreateInfo.MaxImageHeight must be positive, but was %d", info.MaxImageHeight)
	}
	if logger == nil {
		logger = newNopLogger()
	}

	format := opencl.ImageFormat{
		Order: opencl.ChannelOrderRGBA,
		Type:  opencl.ChannelTypeFloat,
	}
	if info.UseFP16 {
		format.Type = opencl.ChannelTypeHalfFloat
	}

	return &Image2DAllocator{
		logger: logger,
		ctx:    ctx,
		mutex:  utils.OptionalRWMutex{UseMutex: info.Flags&AllocatorCreateSynchronized != 0},
		cache: newReuseCache[Image2DDesc](
			func(desc Image2DDesc) int { return desc.Width * desc.Height * format.PixelBytes() },
			Image2DDesc.Compare,
		),
		info: MemoryInfo{
			Name:       Image2DAllocatorName,
			DeviceKind: DeviceKindGPU,
			MemKind:    MemKindImage2D,
		},
		format:    format,
		maxWidth:  info.MaxImageWidth,
		maxHeight: info.MaxImageHeight,
		packDesc:  info.PackDesc,
	}, nil
}
