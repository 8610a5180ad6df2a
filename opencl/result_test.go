package opencl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultString(t *testing.T) {
	require.Equal(t, "CL_SUCCESS", Success.String())
	require.Equal(t, "CL_MEM_OBJECT_ALLOCATION_FAILURE", ErrMemObjectAllocationFailure.String())
	require.Equal(t, "unknown result code -9999", Result(-9999).String())
}

func TestResultToError(t *testing.T) {
	require.NoError(t, Success.ToError())

	err := ErrOutOfResources.ToError()
	require.Error(t, err)
	require.Contains(t, err.Error(), "CL_OUT_OF_RESOURCES")
}

func TestImageFormatPixelBytes(t *testing.T) {
	fp32 := ImageFormat{Order: ChannelOrderRGBA, Type: ChannelTypeFloat}
	require.Equal(t, 16, fp32.PixelBytes())

	fp16 := ImageFormat{Order: ChannelOrderRGBA, Type: ChannelTypeHalfFloat}
	require.Equal(t, 8, fp16.PixelBytes())
}
