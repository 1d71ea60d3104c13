// Package batch generates several outputs from one source in parallel,
// retrying a run with a derived seed when it ends in a contradiction.
package batch

import (
	"context"
	"image"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"wfc-synth/internal/render"
	"wfc-synth/internal/wfc"
	pcore "wfc-synth/pkg/core"
)

// seedStride separates the seeds of consecutive retries.
const seedStride = 1_000_003

// Options controls a batch.
type Options struct {
	Config wfc.Config
	// Runs is the number of outputs; run i starts from Config.Seed+i.
	Runs    int
	Workers int
	// Retries is how many extra attempts a contradicted run gets.
	Retries int
	Log     logrus.FieldLogger
}

// Result describes one finished run.
type Result struct {
	RunID    string
	Index    int
	Seed     int64
	Attempts int
	Status   wfc.Status
	Steps    int
	Patterns int
	Elapsed  time.Duration
	Image    *image.RGBA
	Err      error
}

type job struct {
	index int
	seed  int64
}

// Run generates opts.Runs outputs from src. Results are ordered by index.
// Cancelling ctx stops work between step batches and returns ctx.Err().
func Run(ctx context.Context, src *wfc.Bitmap, opts Options) ([]Result, error) {
	if opts.Runs <= 0 {
		return nil, nil
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > opts.Runs {
		workers = opts.Runs
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	jobs := make(chan job)
	results := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := &worker{src: src, opts: opts, log: log}
			for j := range jobs {
				results <- w.run(ctx, j)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < opts.Runs; i++ {
			select {
			case jobs <- job{index: i, seed: opts.Config.Seed + int64(i)}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []Result
	for res := range results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// worker keeps one engine so patterns and adjacency are built once and each
// job only pays for grid initialization and generation.
type worker struct {
	src    *wfc.Bitmap
	opts   Options
	log    logrus.FieldLogger
	rng    *pcore.RNG
	engine *wfc.Engine
}

func (w *worker) run(ctx context.Context, j job) Result {
	res := Result{RunID: uuid.NewString(), Index: j.index}
	entry := w.log.WithFields(logrus.Fields{"run_id": res.RunID, "index": j.index})
	start := time.Now()

	for attempt := 0; attempt <= w.opts.Retries; attempt++ {
		seed := j.seed + int64(attempt)*seedStride
		res.Seed = seed
		res.Attempts = attempt + 1

		if err := w.prepare(seed); err != nil {
			res.Err = err
			entry.WithError(err).Error("setup failed")
			break
		}
		res.Patterns = w.engine.Library().Len()

		st, err := w.generate(ctx)
		res.Status = st
		res.Steps = w.engine.Solver().Steps()
		if err != nil {
			res.Err = err
			entry.WithError(err).Warn("generation stopped")
			break
		}
		if st == wfc.StatusComplete {
			break
		}
		x, y, _ := w.engine.Solver().Contradiction()
		entry.WithFields(logrus.Fields{
			"seed": seed, "attempt": res.Attempts, "steps": res.Steps, "x": x, "y": y,
		}).Info("contradiction")
	}

	res.Elapsed = time.Since(start)
	if w.engine != nil && w.engine.Wave() != nil {
		res.Image = render.Image(w.engine.Wave(), w.engine.Library().Colors())
	}
	entry.WithFields(logrus.Fields{
		"seed":     res.Seed,
		"attempts": res.Attempts,
		"status":   res.Status.String(),
		"steps":    res.Steps,
		"elapsed":  res.Elapsed.Round(time.Millisecond).String(),
	}).Info("run finished")
	return res
}

func (w *worker) prepare(seed int64) error {
	if w.engine == nil {
		w.rng = pcore.NewRNG(seed)
		e, err := wfc.NewEngine(w.opts.Config, w.src, w.rng)
		if err != nil {
			return err
		}
		w.engine = e
	} else {
		if err := w.engine.Err(); err != nil {
			return err
		}
		w.rng.Reseed(seed)
		if err := w.engine.Reset(); err != nil {
			return err
		}
	}
	return w.engine.Prepare()
}

func (w *worker) generate(ctx context.Context) (wfc.Status, error) {
	for {
		if err := ctx.Err(); err != nil {
			return w.engine.Status(), err
		}
		st, err := w.engine.AutoRun()
		if err != nil || st.Terminal() {
			return st, err
		}
	}
}
