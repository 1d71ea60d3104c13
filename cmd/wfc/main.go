//go:build ebiten

package main

import (
	"errors"
	"flag"

	"wfc-synth/internal/app"
	"wfc-synth/internal/core"
	"wfc-synth/internal/wfc"
	pcore "wfc-synth/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	rate := flag.Int("rate", 60, "auto-run batches per second")
	flag.Parse()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	src, err := app.LoadSource(cfg.Source, nil)
	if err != nil {
		log.Fatal(err)
	}
	ec := cfg.Engine()
	rng := pcore.NewRNG(ec.Seed)
	if ec.Seed == 0 {
		rng = pcore.NewTimeRNG()
		ec.Seed = rng.Seed()
	}
	engine, err := wfc.NewEngine(ec, src, rng)
	if err != nil {
		log.Fatal(err)
	}
	log.WithFields(logrus.Fields{
		"source": cfg.Source, "src_w": src.W, "src_h": src.H,
		"w": ec.Width, "h": ec.Height, "seed": ec.Seed,
	}).Info("starting")

	ctrl := app.NewController(engine, core.NewFixedStep(*rate), log)
	game := app.New(ctrl, cfg.Scale, log)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("Wave Function Collapse - " + cfg.Source)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
