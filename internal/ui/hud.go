//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"wfc-synth/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Model is what the HUD reads from and writes to.
type Model interface {
	Operation() string
	Progress() core.Progress
	Parameters() core.ParameterSnapshot
	Controls() []core.ParameterControl
	core.IntParameterSetter
}

var (
	panelBg    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	barBg      = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	barFg      = color.RGBA{R: 0, G: 228, B: 48, A: 255}
)

var helpLines = []string{
	"SPACE  auto-run",
	"S      single step",
	"R      reset grid",
	"N      re-extract patterns",
	"Q/Esc  quit",
}

// HUD renders the side panel: status line, progress bar, source preview,
// parameter snapshot, adjustable controls and key help.
type HUD struct {
	model Model
	width int

	panel      *ebiten.Image
	lastHeight int
	source     *ebiten.Image

	snapshot core.ParameterSnapshot
	progress core.Progress
	op       string

	controls     []hudControlState
	panelOffsetX int
}

// NewHUD constructs a HUD for the provided model and panel width.
func NewHUD(model Model, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{model: model, width: width}
	for _, ctrl := range model.Controls() {
		h.controls = append(h.controls, hudControlState{control: ctrl, value: "--"})
	}
	return h
}

// Width reports the panel width.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// SetSource replaces the preview of the sampled image.
func (h *HUD) SetSource(img image.Image) {
	if h == nil || img == nil {
		return
	}
	h.source = ebiten.NewImageFromImage(img)
}

// Update refreshes the cached model state and handles HUD clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.model.Parameters()
	h.progress = h.model.Progress()
	h.op = h.model.Operation()
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelBg)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Wave Function Collapse", face, panelPadding, y, titleColor)
	y += lineSpacing
	text.Draw(h.panel, h.op, face, panelPadding, y, labelColor)
	y += barGap
	drawBar(h.panel, panelPadding, y, h.width-2*panelPadding, barHeight, h.progress.Fraction())
	y += barHeight + lineSpacing
	text.Draw(h.panel, progressLine(h.progress), face, panelPadding, y, dimColor)
	y += lineSpacing

	if h.source != nil {
		b := h.source.Bounds()
		s := previewScale(b.Dx(), b.Dy(), h.width-2*panelPadding, previewMax)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(s), float64(s))
		op.GeoM.Translate(panelPadding, float64(y))
		h.panel.DrawImage(h.source, op)
		y += b.Dy()*s + lineSpacing
	}

	for _, g := range h.snapshot.Groups {
		y += groupGap
		text.Draw(h.panel, g.Name, face, panelPadding, y, titleColor)
		for _, p := range g.Params {
			y += lineSpacing
			text.Draw(h.panel, p.Label, face, panelPadding+indent, y, dimColor)
			vw := text.BoundString(face, p.Value).Dx()
			text.Draw(h.panel, p.Value, face, h.width-panelPadding-vw, y, labelColor)
		}
	}

	y += groupGap
	h.layoutControls(y)
	h.drawControls()
	y += len(h.controls)*controlHeight + groupGap

	for _, line := range helpLines {
		y += lineSpacing
		text.Draw(h.panel, line, face, panelPadding, y, dimColor)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

// DrawSetup paints the full-size progress view shown while setup phases run.
func (h *HUD) DrawSetup(screen *ebiten.Image, width int) {
	if h == nil {
		return
	}
	face := basicfont.Face7x13
	x := panelPadding * 2
	y := setupTop
	text.Draw(screen, h.op, face, x, y, color.White)
	y += lineSpacing
	text.Draw(screen, progressLine(h.progress), face, x, y, dimColor)
	if p, ok := h.snapshot.Lookup("patterns"); ok {
		y += lineSpacing
		text.Draw(screen, "Unique patterns found: "+p.Value, face, x, y, dimColor)
	}
	y += barGap
	w := width - 2*x - percentWidth
	if w < 1 {
		w = 1
	}
	f := h.progress.Fraction()
	drawBar(screen, x, y, w, barHeight, f)
	text.Draw(screen, fmt.Sprintf("%.1f%%", f*100), face, x+w+panelPadding, y+barHeight-5, color.White)
}

func progressLine(p core.Progress) string {
	switch p.Name {
	case "extract":
		return fmt.Sprintf("Scanning patterns: %d of %d", p.Count, p.Total)
	case "adjacency":
		return fmt.Sprintf("Processing rule %d of %d", p.Count, p.Total)
	case "init":
		return fmt.Sprintf("Initializing cell %d of %d", p.Count, p.Total)
	}
	return fmt.Sprintf("Collapsed %d of %d cells", p.Count, p.Total)
}

func drawBar(dst *ebiten.Image, x, y, w, hgt int, f float64) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(hgt), barBg, false)
	if f > 0 {
		vector.DrawFilledRect(dst, float32(x), float32(y), float32(float64(w)*f), float32(hgt), barFg, false)
	}
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(hgt), 1, color.White, false)
}

func previewScale(w, h, maxW, maxH int) int {
	if w <= 0 || h <= 0 {
		return 1
	}
	s := maxW / w
	if hs := maxH / h; hs < s {
		s = hs
	}
	if s < 1 {
		s = 1
	}
	return s
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		parsed, err := strconv.Atoi(param.Value)
		if err != nil {
			state.hasValue = false
			state.value = "--"
			continue
		}
		state.intValue = parsed
		state.value = param.Value
		state.hasValue = true
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, 1)
			return
		}
	}
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	if !h.canAdjust(state, direction) {
		return
	}
	target := state.control.Clamp(state.intValue + direction*stepOf(state.control))
	if h.model.SetIntParameter(state.control.Key, target) {
		state.intValue = target
		state.value = strconv.Itoa(target)
	}
}

func (h *HUD) canAdjust(state *hudControlState, direction int) bool {
	if state == nil || direction == 0 || !state.hasValue {
		return false
	}
	target := state.intValue + direction*stepOf(state.control)
	return state.control.Clamp(target) != state.intValue
}

func stepOf(c core.ParameterControl) int {
	if c.Step <= 0 {
		return 1
	}
	return c.Step
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, labelColor)
		valueColor := labelColor
		if !state.hasValue {
			valueColor = dimColor
		}
		vw := text.BoundString(face, state.value).Dx()
		text.Draw(h.panel, state.value, face, state.minusRect.Min.X-buttonGap-vw, labelY, valueColor)

		h.drawButton(state.minusRect, "-", h.canAdjust(state, -1))
		h.drawButton(state.plusRect, "+", h.canAdjust(state, 1))
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	vector.DrawFilledRect(h.panel, float32(rect.Min.X), float32(rect.Min.Y), float32(rect.Dx()), float32(rect.Dy()), bg, false)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls(top int) {
	for i := range h.controls {
		rowTop := top + i*controlHeight
		buttonY := rowTop + (controlHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = rowTop
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control  core.ParameterControl
	value    string
	intValue int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// PanelWidth is the default HUD width in pixels.
const PanelWidth = 240

const (
	panelPadding   = 12
	headerBaseline = 18
	lineSpacing    = 16
	groupGap       = 10
	indent         = 8
	barGap         = 10
	barHeight      = 14
	previewMax     = 96
	controlHeight  = 32
	buttonSize     = 22
	buttonGap      = 6
	labelBaseline  = 20
	setupTop       = 120
	percentWidth   = 60
)
