package checker

import (
	"testing"

	"wfc-synth/internal/wfc"
	pcore "wfc-synth/pkg/core"
)

func TestCheckerCellSize(t *testing.T) {
	img := New(Config{Width: 8, Height: 8, Cell: 2})
	if img.At(0, 0) != img.At(1, 1) {
		t.Fatal("pixels inside one square should match")
	}
	if img.At(0, 0) == img.At(2, 0) {
		t.Fatal("adjacent squares should differ")
	}
}

func TestCheckerGeneratesWithoutContradiction(t *testing.T) {
	cfg := wfc.DefaultConfig()
	cfg.Width, cfg.Height = 20, 20
	e, err := wfc.NewEngine(cfg, wfc.FromImage(New(DefaultConfig())), pcore.NewRNG(3))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if err := e.Prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	st, err := e.Run(0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if st != wfc.StatusComplete {
		t.Fatalf("status = %v, expected complete", st)
	}
}
