package wfc

import (
	"image"
	"image/color"
)

// RGB is a pixel with alpha stripped. Pattern equality compares RGB only.
type RGB struct {
	R, G, B uint8
}

// RGBA returns the colour as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff} }

// Bitmap is a decoded source image in row-major order.
type Bitmap struct {
	W, H int
	Pix  []color.NRGBA
}

// NewBitmap allocates a transparent black bitmap.
func NewBitmap(w, h int) *Bitmap {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Bitmap{W: w, H: h, Pix: make([]color.NRGBA, w*h)}
}

// FromImage copies img into a Bitmap anchored at the origin.
func FromImage(img image.Image) *Bitmap {
	b := img.Bounds()
	bm := NewBitmap(b.Dx(), b.Dy())
	for y := 0; y < bm.H; y++ {
		for x := 0; x < bm.W; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			bm.Pix[y*bm.W+x] = c
		}
	}
	return bm
}

// Set writes a pixel.
func (b *Bitmap) Set(x, y int, c color.NRGBA) { b.Pix[y*b.W+x] = c }

// At returns the pixel at (x, y).
func (b *Bitmap) At(x, y int) color.NRGBA { return b.Pix[y*b.W+x] }

// RGB returns the pixel at (x, y) without alpha.
func (b *Bitmap) RGB(x, y int) RGB {
	c := b.Pix[y*b.W+x]
	return RGB{R: c.R, G: c.G, B: c.B}
}

func (b *Bitmap) valid() bool {
	return b != nil && b.W >= 0 && b.H >= 0 && len(b.Pix) == b.W*b.H
}
