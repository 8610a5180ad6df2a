package clam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImage2DDescCompare(t *testing.T) {
	require.Equal(t, 0, Image2DDesc{Width: 64, Height: 32}.Compare(Image2DDesc{Width: 64, Height: 32}))
	require.Negative(t, Image2DDesc{Width: 32, Height: 64}.Compare(Image2DDesc{Width: 64, Height: 32}))
	require.Positive(t, Image2DDesc{Width: 64, Height: 33}.Compare(Image2DDesc{Width: 64, Height: 32}))
}

func TestImage2DDescString(t *testing.T) {
	require.Equal(t, "64x32", Image2DDesc{Width: 64, Height: 32}.String())
}
