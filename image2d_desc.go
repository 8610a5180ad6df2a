package clam

import (
	"cmp"
	"fmt"
)

// TensorShape is the dimension vector of a tensor awaiting device placement.
type TensorShape []int64

// DescPacker converts a tensor shape into the 2-D image descriptor that will
// back it on the device. The packing convention is owned by the execution
// engine, not by this module; implementations must be pure, so the same
// shape always yields the same descriptor.
type DescPacker func(shape TensorShape) Image2DDesc

// Image2DDesc is the reuse equality class for 2-D image objects: two images
// are interchangeable exactly when their width and height match (the pixel
// format is fixed per allocator and so does not appear here).
type Image2DDesc struct {
	Width  int
	Height int
}

// Compare provides a total order over descriptors, by width and then height.
func (d Image2DDesc) Compare(other Image2DDesc) int {
	if c := cmp.Compare(d.Width, other.Width); c != 0 {
		return c
	}
	return cmp.Compare(d.Height, other.Height)
}

func (d Image2DDesc) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}
