package rooms

import (
	"testing"

	"wfc-synth/internal/core"
)

func TestRoomsDimensions(t *testing.T) {
	img := New(Config{Rooms: 2, Size: 7, Door: 2})
	if b := img.Bounds(); b.Dx() != 13 || b.Dy() != 13 {
		t.Fatalf("bounds = %v, expected 13x13", b)
	}
}

func TestRoomsOuterWallIsClosed(t *testing.T) {
	img := New(DefaultConfig())
	side := img.Bounds().Dx()
	for i := 0; i < side; i++ {
		if img.At(i, 0) != wall || img.At(0, i) != wall || img.At(i, side-1) != wall || img.At(side-1, i) != wall {
			t.Fatalf("outer wall open at offset %d", i)
		}
	}
}

func TestRoomsInteriorWallsHaveDoors(t *testing.T) {
	cfg := DefaultConfig()
	img := New(cfg)
	pitch := cfg.Size - 1
	open := 0
	for y := 1; y < pitch; y++ {
		if img.At(pitch, y) == floor {
			open++
		}
	}
	if open != cfg.Door {
		t.Fatalf("doorway width = %d, expected %d", open, cfg.Door)
	}
	if _, ok := core.Sources()["rooms"]; !ok {
		t.Fatal("rooms source not registered")
	}
}

func TestFromMapClampsDoor(t *testing.T) {
	c := FromMap(map[string]string{"size": "6", "door": "10"})
	if c.Door != 2 {
		t.Fatalf("door = %d, expected clamp to 2", c.Door)
	}
}
