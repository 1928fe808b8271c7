package flow

import (
	"image"

	"golang.org/x/image/draw"
)

// DecimatedSize is the grid size produced by scaling bounds by factor.
func DecimatedSize(bounds image.Rectangle, factor float64) (int, int) {
	w := int(float64(bounds.Dx()) * factor)
	h := int(float64(bounds.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// DecimateGray downscales src by factor into a grayscale image, reusing dst
// when it already has the right size.
func DecimateGray(dst *image.Gray, src image.Image, factor float64) *image.Gray {
	w, h := DecimatedSize(src.Bounds(), factor)
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		dst = image.NewGray(image.Rect(0, 0, w, h))
	}
	draw.BiLinear.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst
}

// Mirror flips src horizontally into dst, reusing dst when it matches.
func Mirror(dst, src *image.RGBA) *image.RGBA {
	b := src.Rect
	if dst == nil || dst.Rect != b {
		dst = image.NewRGBA(b)
	}
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		srow := src.Pix[y*src.Stride : y*src.Stride+w*4]
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			copy(drow[x*4:x*4+4], srow[(w-1-x)*4:(w-x)*4])
		}
	}
	return dst
}

// ToRGBA converts img to RGBA at size, scaling when the bounds differ.
func ToRGBA(img image.Image, size image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(size)
	if img.Bounds().Size() == size.Size() {
		draw.Draw(dst, size, img, img.Bounds().Min, draw.Src)
		return dst
	}
	draw.BiLinear.Scale(dst, size, img, img.Bounds(), draw.Src, nil)
	return dst
}

func copyRGBA(dst, src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	if dst == nil || dst.Rect != src.Rect || dst.Stride != src.Stride {
		dst = &image.RGBA{
			Pix:    make([]uint8, len(src.Pix)),
			Stride: src.Stride,
			Rect:   src.Rect,
		}
	}
	copy(dst.Pix, src.Pix)
	return dst
}
