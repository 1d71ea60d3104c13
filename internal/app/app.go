//go:build ebiten

package app

import (
	"image/color"

	"wfc-synth/internal/render"
	"wfc-synth/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

// Game adapts a Controller to the ebiten.Game interface.
type Game struct {
	ctrl    *Controller
	painter *render.GridPainter
	hud     *ui.HUD
	log     logrus.FieldLogger

	scale int
}

// New constructs a Game for the provided controller.
func New(ctrl *Controller, scale int, log logrus.FieldLogger) *Game {
	if scale <= 0 {
		scale = 1
	}
	cfg := ctrl.Engine().Config()
	g := &Game{
		ctrl:    ctrl,
		painter: render.NewGridPainter(cfg.Width, cfg.Height),
		hud:     ui.NewHUD(ctrl, ui.PanelWidth),
		log:     log,
		scale:   scale,
	}
	g.hud.SetSource(render.Source(ctrl.Source()))
	return g
}

// Update handles per-frame input and advances the engine.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.ctrl.ToggleAuto()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.check(g.ctrl.StepOnce())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.check(g.ctrl.ResetGrid())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.check(g.ctrl.Reextract())
	}

	g.check(g.ctrl.Tick())
	g.hud.Update(g.viewWidth())
	return nil
}

// check logs errors; a failed engine shows its error in the HUD instead of
// closing the window.
func (g *Game) check(err error) {
	if err != nil {
		g.log.WithError(err).Error("engine error")
	}
}

// Draw renders the output grid, or setup progress while it is being built.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	e := g.ctrl.Engine()
	if e.Ready() {
		g.painter.Blit(screen, e.Wave(), e.Library().Colors(), g.scale, 0, 0)
	} else {
		g.hud.DrawSetup(screen, g.viewWidth())
	}
	_, h := g.Layout(0, 0)
	g.hud.Draw(screen, g.viewWidth(), h)
}

func (g *Game) viewWidth() int {
	return g.ctrl.Engine().Config().Width * g.scale
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	cfg := g.ctrl.Engine().Config()
	h := cfg.Height * g.scale
	if h < minHeight {
		h = minHeight
	}
	return cfg.Width*g.scale + g.hud.Width(), h
}

const minHeight = 560
