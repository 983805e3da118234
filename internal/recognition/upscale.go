package recognition

import (
	"image"

	"golang.org/x/image/draw"
)

// Upscale enlarges img by factor with bilinear interpolation, the resampling
// the recognizer models were tuned against. Factors below 2 return img
// unchanged.
func Upscale(img image.Image, factor int) image.Image {
	if img == nil || factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
