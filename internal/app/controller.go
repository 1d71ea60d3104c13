package app

import (
	"github.com/sirupsen/logrus"

	"wfc-synth/internal/core"
	"wfc-synth/internal/wfc"
)

// Pacer throttles auto-run batches. *core.FixedStep satisfies it.
type Pacer interface {
	ShouldStep() bool
	Restart()
}

type runMode uint8

const (
	modeIdle runMode = iota
	modeStep
	modeAuto
)

// Controller turns viewer commands into engine calls. Setup phases advance
// one budgeted slice per Tick; generation only runs once setup is finished.
type Controller struct {
	engine *wfc.Engine
	source *wfc.Bitmap
	pacer  Pacer
	log    logrus.FieldLogger

	mode runMode

	lastStage  wfc.Stage
	lastStatus wfc.Status
}

// NewController drives engine. pacer may be nil to run one auto batch per tick.
func NewController(engine *wfc.Engine, pacer Pacer, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		engine:    engine,
		source:    engine.Source(),
		pacer:     pacer,
		log:       log,
		lastStage: engine.Stage(),
	}
}

// Engine returns the driven engine.
func (c *Controller) Engine() *wfc.Engine { return c.engine }

// Auto reports whether auto-run is on.
func (c *Controller) Auto() bool { return c.mode == modeAuto }

// ToggleAuto switches auto-run. It is ignored until setup has finished.
func (c *Controller) ToggleAuto() {
	if !c.engine.Ready() {
		return
	}
	if c.mode == modeAuto {
		c.mode = modeIdle
		return
	}
	c.mode = modeAuto
	if c.pacer != nil {
		c.pacer.Restart()
	}
}

// StepOnce runs a single generation cycle.
func (c *Controller) StepOnce() error {
	if !c.engine.Ready() {
		return nil
	}
	c.mode = modeStep
	_, err := c.engine.Step()
	c.report()
	return err
}

// ResetGrid starts a new generation with the current patterns.
func (c *Controller) ResetGrid() error {
	if !c.engine.Ready() {
		return nil
	}
	c.mode = modeIdle
	if err := c.engine.Reset(); err != nil {
		return err
	}
	c.log.Debug("grid reset")
	c.report()
	return nil
}

// Reextract rebuilds the dictionary from the current source.
func (c *Controller) Reextract() error {
	return c.Load(c.source)
}

// Load switches to a new source and restarts setup from extraction.
func (c *Controller) Load(src *wfc.Bitmap) error {
	if !c.engine.Ready() && c.engine.Stage() != wfc.StageFailed {
		return nil
	}
	c.mode = modeIdle
	if err := c.engine.Reextract(src); err != nil {
		return err
	}
	c.source = src
	c.log.WithFields(logrus.Fields{"w": src.W, "h": src.H}).Info("re-extracting patterns")
	c.report()
	return nil
}

// Tick performs one frame of work: a setup slice while setup is running,
// otherwise an auto-run batch when auto-run is on and the pacer allows it.
func (c *Controller) Tick() error {
	defer c.report()
	if !c.engine.Ready() {
		if c.engine.Stage() == wfc.StageFailed {
			return nil
		}
		_, err := c.engine.Update()
		return err
	}
	if c.mode != modeAuto {
		return nil
	}
	if c.engine.Status().Terminal() {
		c.mode = modeIdle
		return nil
	}
	if c.pacer != nil && !c.pacer.ShouldStep() {
		return nil
	}
	_, err := c.engine.AutoRun()
	return err
}

// Operation is the status line shown to the user. It refines the engine's
// label with the viewer's run mode.
func (c *Controller) Operation() string {
	op := c.engine.Operation()
	if !c.engine.Ready() || c.engine.Status().Terminal() {
		return op
	}
	switch c.mode {
	case modeAuto:
		return "Generating (Auto mode)"
	case modeStep:
		return "Generating (Step mode)"
	}
	if c.engine.Solver().Steps() > 0 {
		return "Paused"
	}
	return op
}

// Progress reports the active setup phase or generation progress.
func (c *Controller) Progress() core.Progress { return c.engine.Progress() }

// Parameters returns the engine snapshot plus the viewer's own state.
func (c *Controller) Parameters() core.ParameterSnapshot {
	snap := c.engine.Parameters()
	snap.Groups = append(snap.Groups, core.ParameterGroup{
		Name:   "Viewer",
		Params: []core.Parameter{core.BoolParam("auto", "Auto-run", c.Auto())},
	})
	return snap
}

// Controls lists the adjustable engine parameters.
func (c *Controller) Controls() []core.ParameterControl { return c.engine.Controls() }

// SetIntParameter forwards to the engine.
func (c *Controller) SetIntParameter(key string, value int) bool {
	return c.engine.SetIntParameter(key, value)
}

// Source returns the bitmap currently being sampled.
func (c *Controller) Source() *wfc.Bitmap { return c.source }

// report logs stage and status transitions.
func (c *Controller) report() {
	e := c.engine
	if st := e.Stage(); st != c.lastStage {
		switch st {
		case wfc.StageAdjacency:
			c.log.WithField("patterns", e.Library().Len()).Info("extracted unique patterns")
		case wfc.StageGenerate:
			c.log.WithFields(logrus.Fields{
				"w": e.Config().Width, "h": e.Config().Height, "patterns": e.Library().Len(),
			}).Info("grid initialized")
		case wfc.StageFailed:
			c.log.WithError(e.Err()).Error("setup failed")
		}
		c.lastStage = st
	}
	status := e.Status()
	if status == c.lastStatus {
		return
	}
	c.lastStatus = status
	switch status {
	case wfc.StatusComplete:
		c.log.WithField("steps", e.Solver().Steps()).Info("generation complete")
	case wfc.StatusContradiction:
		x, y, _ := e.Solver().Contradiction()
		c.log.WithFields(logrus.Fields{"x": x, "y": y, "steps": e.Solver().Steps()}).Warn("contradiction")
	}
}
