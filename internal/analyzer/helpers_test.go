package analyzer

import (
	"image"
	"image/color"
	"math/rand"
)

// createTestImage creates a simple test image for testing purposes
func createTestImage(width, height int, fillColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fillColor)
		}
	}
	return img
}

// createCheckerboard creates a black/white checkerboard with square cells of the given period
func createCheckerboard(size, period int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/period+y/period)%2 == 1 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// createNoiseImage creates an RGB white-noise image from a fixed seed
func createNoiseImage(width, height int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
			continue
		}
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

// createRectanglesImage draws a few random filled rectangles on a gray background
func createRectanglesImage(size int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := createTestImage(size, size, color.RGBA{90, 90, 90, 255})
	for n := 0; n < 1+rng.Intn(5); n++ {
		w, h := 10+rng.Intn(size/2), 10+rng.Intn(size/2)
		x0, y0 := rng.Intn(size-w), rng.Intn(size-h)
		fill := color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255}
		for y := y0; y < y0+h; y++ {
			for x := x0; x < x0+w; x++ {
				img.Set(x, y, fill)
			}
		}
	}
	return img
}

// gridLineMask marks every row and column that is a multiple of period
func gridLineMask(size, period int) *EdgeMask {
	mask := NewEdgeMask(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			mask.Set(x, y, x%period == 0 || y%period == 0)
		}
	}
	return mask
}

// noiseMask sets each pixel independently with probability p
func noiseMask(width, height int, p float64, seed int64) *EdgeMask {
	rng := rand.New(rand.NewSource(seed))
	mask := NewEdgeMask(width, height)
	for i := range mask.Bits {
		mask.Bits[i] = rng.Float64() < p
	}
	return mask
}
