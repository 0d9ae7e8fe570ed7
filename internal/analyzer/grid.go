package analyzer

import (
	"fmt"
	"image"
)

// Grid is a single-channel intensity plane with origin at (0,0)
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGrid allocates a zeroed grid
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At returns the intensity at (x, y)
func (g *Grid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set stores the intensity at (x, y)
func (g *Grid) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// GrayscaleGrid converts img to luminance using BT.601 weights.
// *image.Gray is copied through unchanged.
func GrayscaleGrid(img image.Image) (*Grid, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image is nil", ErrInvalidInput)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image has zero area (%dx%d)", ErrInvalidInput, width, height)
	}

	grid := NewGrid(width, height)
	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < height; y++ {
			offset := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(grid.Pix[y*width:(y+1)*width], src.Pix[offset:offset+width])
		}
	default:
		for y := 0; y < height; y++ {
			row := grid.Pix[y*width : (y+1)*width]
			for x := 0; x < width; x++ {
				r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				row[x] = luminance(r, g, b)
			}
		}
	}
	return grid, nil
}

// luminance takes 16-bit channels and returns an 8-bit BT.601 luma.
// Integer weights keep the conversion exact for gray inputs.
func luminance(r, g, b uint32) uint8 {
	y := (299*r + 587*g + 114*b + 500) / 1000
	return uint8(y >> 8)
}

// EdgeMask marks edge pixels of a grid
type EdgeMask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewEdgeMask allocates an empty mask
func NewEdgeMask(width, height int) *EdgeMask {
	return &EdgeMask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At reports whether (x, y) is an edge pixel
func (m *EdgeMask) At(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// Set marks (x, y)
func (m *EdgeMask) Set(x, y int, v bool) {
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of edge pixels
func (m *EdgeMask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}
