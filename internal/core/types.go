package core

import "image"

// Size describes the dimensions of a grid.
type Size struct {
	W int
	H int
}

// Progress is a snapshot of a resumable phase for progress indicators.
type Progress struct {
	Name  string
	Count int
	Total int
	Done  bool
}

// Fraction returns Count/Total clamped to [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		if p.Done {
			return 1
		}
		return 0
	}
	f := float64(p.Count) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Phase is a resumable unit of setup work. Advance performs at most budget
// elementary units and reports whether the phase has finished. Cursor state
// lives in the implementation so calls can be spread across frames.
type Phase interface {
	Advance(budget int) (bool, error)
	Progress() Progress
}

// SourceFactory constructs a sample source image using an optional
// configuration map.
type SourceFactory func(cfg map[string]string) image.Image

var sources = map[string]SourceFactory{}

// RegisterSource adds a sample source factory under the provided name.
func RegisterSource(name string, f SourceFactory) {
	if name == "" || f == nil {
		return
	}
	sources[name] = f
}

// Sources exposes the registry of available sample sources.
func Sources() map[string]SourceFactory {
	return sources
}
