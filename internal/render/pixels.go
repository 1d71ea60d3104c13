package render

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"github.com/lucasb-eyer/go-colorful"

	"wfc-synth/internal/wfc"
)

// Contradiction is the colour of a cell whose domain emptied.
var Contradiction = color.RGBA{R: 230, G: 41, B: 55, A: 255}

var (
	openDark  = colorful.Color{}
	openLight = colorful.Color{R: 30.0 / 255, G: 30.0 / 255, B: 30.0 / 255}
)

// CellColor maps a cell to its display colour: the representative colour of
// its final pattern once collapsed, a dim grey proportional to the remaining
// possibilities while open, and Contradiction when nothing is left.
func CellColor(c *wfc.Cell, patternCount int, colors []color.RGBA) color.RGBA {
	if c.Collapsed() && c.Final() >= 0 && c.Final() < len(colors) {
		return colors[c.Final()]
	}
	if c.Count() == 0 || patternCount <= 0 {
		return Contradiction
	}
	t := float64(c.Count()) / float64(patternCount)
	r, g, b := openDark.BlendRgb(openLight, t).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// FillWaveRGBA writes one RGBA pixel per cell into buf, which must hold
// 4*wave.Len() bytes.
func FillWaveRGBA(buf []byte, wave *wfc.Wave, colors []color.RGBA) {
	n := wave.PatternCount()
	for i := 0; i < wave.Len(); i++ {
		col := CellColor(wave.At(i), n, colors)
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Image renders the wave at one pixel per cell.
func Image(wave *wfc.Wave, colors []color.RGBA) *image.RGBA {
	s := wave.Size()
	img := image.NewRGBA(image.Rect(0, 0, s.W, s.H))
	FillWaveRGBA(img.Pix, wave, colors)
	return img
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling so
// cells stay crisp squares.
func Scale(img image.Image, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*scale, b.Dy()*scale, transform.NearestNeighbor)
}

// Source converts a bitmap back to an image for previews.
func Source(bm *wfc.Bitmap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, bm.W, bm.H))
	for y := 0; y < bm.H; y++ {
		for x := 0; x < bm.W; x++ {
			img.SetNRGBA(x, y, bm.At(x, y))
		}
	}
	return img
}
