package brick

import (
	"image"
	"image/color"
	"strconv"

	"wfc-synth/internal/core"
)

// Config controls the brick wall sample.
type Config struct {
	Width       int
	Height      int
	BrickWidth  int
	BrickHeight int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Width: 32, Height: 32, BrickWidth: 8, BrickHeight: 3}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	for key, dst := range map[string]*int{
		"w":            &c.Width,
		"h":            &c.Height,
		"brick_width":  &c.BrickWidth,
		"brick_height": &c.BrickHeight,
	} {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
				*dst = parsed
			}
		}
	}
	return c
}

var (
	mortar = color.NRGBA{R: 214, G: 208, B: 196, A: 255}
	clay   = color.NRGBA{R: 168, G: 64, B: 44, A: 255}
	shade  = color.NRGBA{R: 132, G: 48, B: 34, A: 255}
)

// New renders a running-bond wall: every course is offset by half a brick,
// and the bottom row of each brick is a darker shade.
func New(cfg Config) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for y := 0; y < cfg.Height; y++ {
		course := y / cfg.BrickHeight
		row := y % cfg.BrickHeight
		offset := 0
		if course%2 == 1 {
			offset = cfg.BrickWidth / 2
		}
		for x := 0; x < cfg.Width; x++ {
			col := (x + offset) % cfg.BrickWidth
			switch {
			case row == cfg.BrickHeight-1 || col == cfg.BrickWidth-1:
				img.SetNRGBA(x, y, mortar)
			case row == cfg.BrickHeight-2:
				img.SetNRGBA(x, y, shade)
			default:
				img.SetNRGBA(x, y, clay)
			}
		}
	}
	return img
}

func init() {
	core.RegisterSource("brick", func(cfg map[string]string) image.Image {
		return New(FromMap(cfg))
	})
}
