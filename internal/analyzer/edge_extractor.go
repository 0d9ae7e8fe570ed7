package analyzer

import (
	"fmt"
)

// tan(22.5°) and tan(67.5°) split gradient directions into four sectors
const (
	tan22 = 0.41421356237309503
	tan67 = 2.414213562373095
)

// gradient sectors used by non-maximum suppression
const (
	sectorHorizontal uint8 = iota // compare left/right
	sectorVertical                // compare up/down
	sectorDiagonal                // compare up-left/down-right
	sectorAntiDiagonal            // compare up-right/down-left
)

// EdgeExtractor turns an intensity grid into a binary edge mask
type EdgeExtractor interface {
	Extract(grid *Grid) (*EdgeMask, error)
}

// NewEdgeExtractor returns the extractor selected by opts.EdgeBackend
func NewEdgeExtractor(opts Options) (EdgeExtractor, error) {
	switch opts.EdgeBackend {
	case BackendNative, "":
		return &cannyExtractor{low: opts.CannyLow, high: opts.CannyHigh}, nil
	case BackendGoCV:
		return newGoCVExtractor(opts.CannyLow, opts.CannyHigh)
	default:
		return nil, fmt.Errorf("%w: unknown edge backend %q", ErrInvalidConfiguration, opts.EdgeBackend)
	}
}

// cannyExtractor is a Canny detector with a 3x3 Sobel and L1 magnitude.
// The outer one-pixel frame is never an edge.
type cannyExtractor struct {
	low, high float64
}

func (c *cannyExtractor) Extract(grid *Grid) (*EdgeMask, error) {
	if grid == nil || grid.Width <= 0 || grid.Height <= 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidInput)
	}
	width, height := grid.Width, grid.Height
	mask := NewEdgeMask(width, height)
	if width < 3 || height < 3 {
		return mask, nil
	}

	magnitude := make([]int32, width*height)
	sector := make([]uint8, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			gx := sobelX(grid, x, y)
			gy := sobelY(grid, x, y)
			i := y*width + x
			magnitude[i] = abs32(gx) + abs32(gy)
			sector[i] = gradientSector(gx, gy)
		}
	}

	// 0: not an edge, 1: weak candidate, 2: strong
	state := make([]uint8, width*height)
	stack := make([]int, 0, width)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			m := magnitude[i]
			if float64(m) <= c.low {
				continue
			}
			var before, after int32
			switch sector[i] {
			case sectorHorizontal:
				before, after = magnitude[i-1], magnitude[i+1]
			case sectorVertical:
				before, after = magnitude[i-width], magnitude[i+width]
			case sectorDiagonal:
				before, after = magnitude[i-width-1], magnitude[i+width+1]
			default:
				before, after = magnitude[i-width+1], magnitude[i+width-1]
			}
			if !(m > before && m >= after) {
				continue
			}
			if float64(m) > c.high {
				state[i] = 2
				stack = append(stack, i)
			} else {
				state[i] = 1
			}
		}
	}

	// hysteresis: grow strong pixels through 8-connected weak candidates
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		mask.Bits[i] = true
		for _, d := range [8]int{-width - 1, -width, -width + 1, -1, 1, width - 1, width, width + 1} {
			j := i + d
			if state[j] == 1 {
				state[j] = 2
				stack = append(stack, j)
			}
		}
	}
	return mask, nil
}

// gradientSector quantizes the gradient direction; y grows downward
func gradientSector(gx, gy int32) uint8 {
	ax, ay := float64(abs32(gx)), float64(abs32(gy))
	switch {
	case ay <= ax*tan22:
		return sectorHorizontal
	case ay >= ax*tan67:
		return sectorVertical
	case (gx > 0) == (gy > 0):
		return sectorDiagonal
	default:
		return sectorAntiDiagonal
	}
}

// sobelX computes Sobel X gradient
func sobelX(g *Grid, x, y int) int32 {
	return -1*int32(g.At(x-1, y-1)) + 1*int32(g.At(x+1, y-1)) +
		-2*int32(g.At(x-1, y)) + 2*int32(g.At(x+1, y)) +
		-1*int32(g.At(x-1, y+1)) + 1*int32(g.At(x+1, y+1))
}

// sobelY computes Sobel Y gradient
func sobelY(g *Grid, x, y int) int32 {
	return -1*int32(g.At(x-1, y-1)) - 2*int32(g.At(x, y-1)) - 1*int32(g.At(x+1, y-1)) +
		1*int32(g.At(x-1, y+1)) + 2*int32(g.At(x, y+1)) + 1*int32(g.At(x+1, y+1))
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
