package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"wfc-synth/internal/app"
	"wfc-synth/internal/batch"
	"wfc-synth/internal/render"
	"wfc-synth/internal/wfc"
)

func main() {
	cfg := app.NewConfig()
	cfg.Scale = 4
	cfg.Bind(flag.CommandLine)
	runs := flag.Int("runs", 8, "number of outputs to generate")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	retries := flag.Int("retries", 3, "extra attempts with a derived seed after a contradiction")
	out := flag.String("out", "out", "directory for PNG output")
	flag.Parse()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	src, err := app.LoadSource(cfg.Source, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := batch.Run(ctx, src, batch.Options{
		Config:  cfg.Engine(),
		Runs:    *runs,
		Workers: *workers,
		Retries: *retries,
		Log:     log,
	})
	if err != nil {
		log.WithError(err).Warn("batch interrupted")
	}

	complete := 0
	for _, res := range results {
		if res.Err != nil || res.Image == nil {
			continue
		}
		if res.Status == wfc.StatusComplete {
			complete++
		}
		name := fmt.Sprintf("wfc-%03d-seed%d-%s.png", res.Index, res.Seed, res.Status)
		path := filepath.Join(*out, name)
		if err := writePNG(path, render.Scale(res.Image, cfg.Scale)); err != nil {
			log.WithError(err).WithField("path", path).Error("write failed")
			continue
		}
		log.WithFields(logrus.Fields{"run_id": res.RunID, "path": path}).Debug("wrote output")
	}

	log.WithFields(logrus.Fields{
		"runs":     len(results),
		"complete": complete,
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
		"out":      *out,
	}).Info("batch finished")
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
