package checker

import (
	"image"
	"image/color"
	"strconv"

	"wfc-synth/internal/core"
)

// Config controls the checkerboard sample.
type Config struct {
	Width  int
	Height int
	Cell   int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Width: 16, Height: 16, Cell: 2}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["cell"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Cell = parsed
		}
	}
	return c
}

// New renders a two-colour board of Cell×Cell squares.
func New(cfg Config) image.Image {
	dark := color.NRGBA{R: 24, G: 24, B: 32, A: 255}
	light := color.NRGBA{R: 236, G: 232, B: 220, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			if (x/cfg.Cell+y/cfg.Cell)%2 == 0 {
				img.SetNRGBA(x, y, dark)
			} else {
				img.SetNRGBA(x, y, light)
			}
		}
	}
	return img
}

func init() {
	core.RegisterSource("checker", func(cfg map[string]string) image.Image {
		return New(FromMap(cfg))
	})
}
