//go:build gocv

package analyzer

import (
	"fmt"

	"gocv.io/x/gocv"
)

// goCVExtractor runs OpenCV's Canny on the grid
type goCVExtractor struct {
	low, high float32
}

func newGoCVExtractor(low, high float64) (EdgeExtractor, error) {
	return &goCVExtractor{low: float32(low), high: float32(high)}, nil
}

func (e *goCVExtractor) Extract(grid *Grid) (*EdgeMask, error) {
	if grid == nil || grid.Width <= 0 || grid.Height <= 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidInput)
	}

	src, err := gocv.NewMatFromBytes(grid.Height, grid.Width, gocv.MatTypeCV8U, grid.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap grid: %w", err)
	}
	defer src.Close()

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(src, &edges, e.low, e.high)

	data := edges.ToBytes()
	mask := NewEdgeMask(grid.Width, grid.Height)
	for i := range mask.Bits {
		mask.Bits[i] = data[i] != 0
	}
	return mask, nil
}
