package rooms

import (
	"image"
	"image/color"
	"strconv"

	"wfc-synth/internal/core"
)

// Config controls the room-and-corridor sample.
type Config struct {
	Rooms int
	Size  int
	Door  int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Rooms: 3, Size: 9, Door: 3}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["rooms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Rooms = parsed
		}
	}
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 5 {
			c.Size = parsed
		}
	}
	if v, ok := cfg["door"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Door = parsed
		}
	}
	if c.Door > c.Size-4 {
		c.Door = c.Size - 4
	}
	return c
}

var (
	floor = color.NRGBA{R: 222, G: 210, B: 180, A: 255}
	wall  = color.NRGBA{R: 40, G: 40, B: 48, A: 255}
)

// New renders a Rooms×Rooms block of square rooms sharing one-pixel walls,
// with a centred doorway in every wall.
func New(cfg Config) image.Image {
	side := cfg.Rooms*(cfg.Size-1) + 1
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	pitch := cfg.Size - 1
	lo := (pitch - cfg.Door + 1) / 2
	hi := lo + cfg.Door
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			rx, ry := x%pitch, y%pitch
			isWall := rx == 0 || ry == 0
			if isWall && rx == 0 && ry >= lo && ry < hi && x > 0 && x < side-1 {
				isWall = false
			}
			if isWall && ry == 0 && rx >= lo && rx < hi && y > 0 && y < side-1 {
				isWall = false
			}
			if isWall {
				img.SetNRGBA(x, y, wall)
			} else {
				img.SetNRGBA(x, y, floor)
			}
		}
	}
	return img
}

func init() {
	core.RegisterSource("rooms", func(cfg map[string]string) image.Image {
		return New(FromMap(cfg))
	})
}
