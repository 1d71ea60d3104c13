//go:build !ebiten

package ui

import "image"

// PanelWidth is the default HUD width in pixels.
const PanelWidth = 240

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(any, int) *HUD { return nil }

// Width is zero in the headless build.
func (h *HUD) Width() int { return 0 }

// SetSource is a no-op in the headless build.
func (h *HUD) SetSource(image.Image) {}

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}

// DrawSetup is a no-op in the headless build.
func (h *HUD) DrawSetup(any, int) {}
