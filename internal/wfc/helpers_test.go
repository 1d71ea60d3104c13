package wfc

import (
	"image/color"

	pcore "wfc-synth/pkg/core"
)

var palette = map[byte]color.NRGBA{
	'.': {R: 0, G: 0, B: 0, A: 255},
	'#': {R: 200, G: 60, B: 40, A: 255},
	'o': {R: 240, G: 240, B: 230, A: 255},
	'~': {R: 40, G: 90, B: 200, A: 255},
}

// bitmapFromRows builds a source from ASCII rows using the test palette.
func bitmapFromRows(rows ...string) *Bitmap {
	bm := NewBitmap(len(rows[0]), len(rows))
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			bm.Set(x, y, palette[row[x]])
		}
	}
	return bm
}

func uniformBitmap(w, h int) *Bitmap {
	bm := NewBitmap(w, h)
	for i := range bm.Pix {
		bm.Pix[i] = palette['~']
	}
	return bm
}

func checkerBitmap(w, h int) *Bitmap {
	bm := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				bm.Set(x, y, palette['.'])
			} else {
				bm.Set(x, y, palette['o'])
			}
		}
	}
	return bm
}

// noiseBitmap fills a source with colours drawn from the first k palette entries.
func noiseBitmap(w, h, k int, seed int64) *Bitmap {
	keys := []byte{'.', '#', 'o', '~'}
	rng := pcore.NewRNG(seed)
	bm := NewBitmap(w, h)
	for i := range bm.Pix {
		bm.Pix[i] = palette[keys[rng.IntN(k)]]
	}
	return bm
}

func brickBitmap() *Bitmap {
	return bitmapFromRows(
		"########o###",
		"########o###",
		"oooooooooooo",
		"###o########",
		"###o########",
		"oooooooooooo",
		"########o###",
		"########o###",
		"oooooooooooo",
	)
}
