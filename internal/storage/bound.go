package storage

import (
	"image"

	"golang.org/x/image/draw"
)

// Bound downsamples img so its longer side is at most maxDim.
// Smaller images and maxDim <= 0 return img unchanged.
func Bound(img image.Image, maxDim int) image.Image {
	if img == nil || maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := max(w, h)
	if longest <= maxDim {
		return img
	}

	nw := max(1, w*maxDim/longest)
	nh := max(1, h*maxDim/longest)
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
