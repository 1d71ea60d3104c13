package wfc

import (
	"wfc-synth/internal/core"
)

// Stage identifies which part of the pipeline an Engine is working on.
type Stage uint8

const (
	StageExtract Stage = iota
	StageAdjacency
	StageInit
	StageGenerate
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageExtract:
		return "extract"
	case StageAdjacency:
		return "adjacency"
	case StageInit:
		return "init"
	case StageGenerate:
		return "generate"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

var (
	_ core.Phase = (*Extractor)(nil)
	_ core.Phase = (*AdjacencyBuilder)(nil)
	_ core.Phase = (*Initializer)(nil)
)

// Engine owns every piece of state for one source: the dictionary, the
// adjacency table, the wave and the solver. Setup runs as three resumable
// phases so a caller can bound the work done per call.
type Engine struct {
	cfg Config
	rng Rand
	src *Bitmap

	lib    *Library
	table  *Table
	wave   *Wave
	solver *Solver

	extractor *Extractor
	builder   *AdjacencyBuilder
	init      *Initializer

	stage Stage
	err   error
}

// NewEngine starts extraction from src. Nothing is scanned until Update,
// Advance or Prepare is called.
func NewEngine(cfg Config, src *Bitmap, rng Rand) (*Engine, error) {
	e := &Engine{cfg: cfg, rng: rng}
	if err := e.Reextract(src); err != nil {
		return nil, err
	}
	return e, nil
}

// Reextract discards the dictionary, table and solver and restarts setup
// from a new source. The wave is rebuilt once the new pattern count is known.
func (e *Engine) Reextract(src *Bitmap) error {
	lib := NewLibrary(e.cfg.MaxPatterns)
	ex, err := NewExtractor(src, lib)
	if err != nil {
		return err
	}
	e.src = src
	e.lib = lib
	e.extractor = ex
	e.table = nil
	e.builder = nil
	e.init = nil
	e.solver = nil
	e.err = nil
	e.stage = StageExtract
	return nil
}

// Reset restarts grid initialization keeping the current patterns. It is an
// error to reset before the adjacency table is complete.
func (e *Engine) Reset() error {
	if e.table == nil || e.stage == StageExtract || e.stage == StageAdjacency || e.stage == StageFailed {
		return ErrNotReady
	}
	return e.startInit()
}

// Update advances the current setup phase by its configured budget.
func (e *Engine) Update() (bool, error) {
	switch e.stage {
	case StageExtract:
		return e.Advance(e.cfg.ExtractBudget)
	case StageAdjacency:
		return e.Advance(e.cfg.AdjacencyBudget)
	case StageInit:
		return e.Advance(e.cfg.InitBudget)
	}
	return e.Advance(0)
}

// Advance performs up to budget units of the current setup phase and moves
// to the next phase when it completes. It reports whether setup is finished.
// A budget <= 0 finishes the current phase.
func (e *Engine) Advance(budget int) (bool, error) {
	var done bool
	var err error
	switch e.stage {
	case StageFailed:
		return false, e.err
	case StageGenerate:
		return true, nil
	case StageExtract:
		if done, err = e.extractor.Advance(budget); done {
			e.builder = NewAdjacencyBuilder(e.lib)
			e.stage = StageAdjacency
		}
	case StageAdjacency:
		if done, err = e.builder.Advance(budget); done {
			e.table = e.builder.Table()
			e.builder = nil
			err = e.startInit()
		}
	case StageInit:
		if done, err = e.init.Advance(budget); done {
			e.solver.Reset()
			e.init = nil
			e.stage = StageGenerate
		}
	}
	if err != nil {
		e.err = err
		e.stage = StageFailed
		return false, err
	}
	return e.stage == StageGenerate, nil
}

// Prepare runs every remaining setup phase to completion.
func (e *Engine) Prepare() error {
	for {
		ready, err := e.Advance(0)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
	}
}

func (e *Engine) startInit() error {
	n := e.lib.Len()
	switch {
	case e.wave == nil:
		e.wave = NewWave(e.cfg.Width, e.cfg.Height, n)
	case e.wave.PatternCount() != n || e.solver == nil:
		e.wave.Rebuild(n)
	}
	if e.solver == nil {
		s, err := NewSolver(e.wave, e.table, e.lib.Frequencies(), e.rng)
		if err != nil {
			return err
		}
		e.solver = s
	}
	e.init = NewInitializer(e.wave)
	e.stage = StageInit
	return nil
}

// Ready reports whether generation may run.
func (e *Engine) Ready() bool { return e.stage == StageGenerate }

// Stage returns the current pipeline stage.
func (e *Engine) Stage() Stage { return e.stage }

// Err returns the error that failed setup, if any.
func (e *Engine) Err() error { return e.err }

// Step runs one generation cycle.
func (e *Engine) Step() (Status, error) {
	if !e.Ready() {
		return StatusReady, ErrNotReady
	}
	return e.solver.Step()
}

// Run performs up to budget generation steps; budget <= 0 runs to a
// terminal state.
func (e *Engine) Run(budget int) (Status, error) {
	if !e.Ready() {
		return StatusReady, ErrNotReady
	}
	return e.solver.Run(budget)
}

// AutoRun performs one bounded batch of steps sized by Config.AutoRunSteps.
func (e *Engine) AutoRun() (Status, error) {
	n := e.cfg.AutoRunSteps
	if n <= 0 {
		n = 1
	}
	return e.Run(n)
}

// Status reports the solver state, or StatusReady while setup is running.
func (e *Engine) Status() Status {
	if !e.Ready() {
		return StatusReady
	}
	return e.solver.Status()
}

// Progress reports the active setup phase, or generation progress once ready.
func (e *Engine) Progress() core.Progress {
	switch e.stage {
	case StageExtract:
		return e.extractor.Progress()
	case StageAdjacency:
		return e.builder.Progress()
	case StageInit:
		return e.init.Progress()
	}
	return e.Generation()
}

// Generation reports collapse steps taken against the number of cells.
func (e *Engine) Generation() core.Progress {
	p := core.Progress{Name: "generate", Total: e.cfg.Width * e.cfg.Height}
	if e.solver != nil && e.Ready() {
		p.Count = e.solver.Steps()
		p.Done = e.solver.Done()
	}
	return p
}

// Operation describes what the engine is doing, for status lines.
func (e *Engine) Operation() string {
	switch e.stage {
	case StageExtract:
		return "Extracting patterns from input image..."
	case StageAdjacency:
		return "Building adjacency rules..."
	case StageInit:
		return "Initializing grid..."
	case StageFailed:
		return "Failed: " + e.err.Error()
	}
	switch e.solver.Status() {
	case StatusComplete:
		return "Generation complete!"
	case StatusContradiction:
		return "Contradiction"
	case StatusReady:
		return "Ready"
	}
	return "Generating"
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Source returns the bitmap patterns were last extracted from.
func (e *Engine) Source() *Bitmap { return e.src }

// Library returns the current dictionary. It may be partially filled while
// extraction is running.
func (e *Engine) Library() *Library { return e.lib }

// Table returns the adjacency table, or nil before it is built.
func (e *Engine) Table() *Table { return e.table }

// Wave returns the output grid, or nil before the first initialization.
func (e *Engine) Wave() *Wave { return e.wave }

// Solver returns the solver, or nil before the first initialization.
func (e *Engine) Solver() *Solver { return e.solver }

// Controls lists the parameters that may be changed while the engine runs.
func (e *Engine) Controls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "auto_run_steps", Label: "Steps per batch", Step: 5, Min: 1, Max: 1000},
	}
}

// SetIntParameter changes a run-time parameter listed by Controls.
func (e *Engine) SetIntParameter(key string, value int) bool {
	for _, c := range e.Controls() {
		if c.Key != key {
			continue
		}
		if c.Clamp(value) != value {
			return false
		}
		switch key {
		case "auto_run_steps":
			e.cfg.AutoRunSteps = value
			return true
		}
	}
	return false
}

// Parameters exposes the engine state for display.
func (e *Engine) Parameters() core.ParameterSnapshot {
	steps := 0
	if e.solver != nil {
		steps = e.solver.Steps()
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Output",
			Params: []core.Parameter{
				core.IntParam("w", "Width", e.cfg.Width),
				core.IntParam("h", "Height", e.cfg.Height),
				core.Int64Param("seed", "Seed", e.cfg.Seed),
			},
		},
		{
			Name: "Patterns",
			Params: []core.Parameter{
				core.IntParam("patterns", "Patterns", e.lib.Len()),
				core.IntParam("max_patterns", "Max patterns", e.cfg.MaxPatterns),
				core.IntParam("pattern_size", "Pattern size", PatternSize),
			},
		},
		{
			Name: "Generation",
			Params: []core.Parameter{
				core.StringParam("stage", "Stage", e.stage.String()),
				core.StringParam("status", "Status", e.Status().String()),
				core.IntParam("steps", "Steps", steps),
				core.IntParam("auto_run_steps", "Steps per batch", e.cfg.AutoRunSteps),
			},
		},
	}}
}
