//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"wfc-synth/internal/wfc"
)

// GridPainter updates a single RGBA image from a wave.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads the wave into the painter image and draws it at (x, y).
func (gp *GridPainter) Blit(dst *ebiten.Image, wave *wfc.Wave, colors []color.RGBA, scale, x, y int) {
	if wave == nil || wave.Len() != gp.w*gp.h {
		return
	}
	FillWaveRGBA(gp.buf, wave, colors)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(x), float64(y))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
