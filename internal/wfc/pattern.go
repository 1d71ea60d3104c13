package wfc

import (
	"image/color"

	"wfc-synth/internal/core"
)

// PatternSize is the side length N of the square windows sampled from the source.
const PatternSize = 3

type block [PatternSize * PatternSize]RGB

// Pattern is a deduplicated N×N window of the source with its occurrence count.
type Pattern struct {
	Index     int
	Frequency int
	pixels    block
}

// Pixel returns the pattern pixel at (x, y), both in [0, PatternSize).
func (p *Pattern) Pixel(x, y int) RGB { return p.pixels[y*PatternSize+x] }

// Center returns the middle pixel, used as the representative colour.
func (p *Pattern) Center() RGB { return p.Pixel(PatternSize/2, PatternSize/2) }

// Color is the opaque representative colour of the pattern.
func (p *Pattern) Color() color.RGBA { return p.Center().RGBA() }

// Library is the ordered pattern dictionary. Indices follow first-seen order.
type Library struct {
	patterns []Pattern
	limit    int
}

// NewLibrary returns an empty dictionary holding at most limit patterns.
// A limit <= 0 means unlimited.
func NewLibrary(limit int) *Library {
	return &Library{limit: limit}
}

// Len reports the number of distinct patterns.
func (l *Library) Len() int { return len(l.patterns) }

// Limit reports the configured capacity (0 when unlimited).
func (l *Library) Limit() int {
	if l.limit < 0 {
		return 0
	}
	return l.limit
}

// Pattern returns the pattern at index i. The pointer must not be modified.
func (l *Library) Pattern(i int) *Pattern { return &l.patterns[i] }

// Frequencies returns a copy of the per-pattern occurrence counts.
func (l *Library) Frequencies() []int {
	out := make([]int, len(l.patterns))
	for i := range l.patterns {
		out[i] = l.patterns[i].Frequency
	}
	return out
}

// Colors returns the representative colour of every pattern, by index.
func (l *Library) Colors() []color.RGBA {
	out := make([]color.RGBA, len(l.patterns))
	for i := range l.patterns {
		out[i] = l.patterns[i].Color()
	}
	return out
}

func (l *Library) find(px *block) int {
	for i := range l.patterns {
		if l.patterns[i].pixels == *px {
			return i
		}
	}
	return -1
}

// record counts one occurrence of px, appending a new pattern when unseen.
func (l *Library) record(px *block) bool {
	if i := l.find(px); i >= 0 {
		l.patterns[i].Frequency++
		return true
	}
	if l.limit > 0 && len(l.patterns) >= l.limit {
		return false
	}
	l.patterns = append(l.patterns, Pattern{Index: len(l.patterns), Frequency: 1, pixels: *px})
	return true
}

func (l *Library) clear() { l.patterns = l.patterns[:0] }

// Extractor scans every N×N window of a source in row-major order and feeds
// the windows into a Library. One window is one unit of work.
type Extractor struct {
	src *Bitmap
	lib *Library

	w, h  int
	x, y  int
	count int
	total int
	done  bool
	err   error
}

// NewExtractor clears lib and prepares a scan of src.
func NewExtractor(src *Bitmap, lib *Library) (*Extractor, error) {
	if !src.valid() || src.W < PatternSize || src.H < PatternSize {
		return nil, ErrEmptySource
	}
	lib.clear()
	return &Extractor{
		src:   src,
		lib:   lib,
		w:     src.W,
		h:     src.H,
		total: (src.W - PatternSize + 1) * (src.H - PatternSize + 1),
	}, nil
}

// Extract runs a complete scan of src in one call.
func Extract(src *Bitmap, limit int) (*Library, error) {
	lib := NewLibrary(limit)
	ex, err := NewExtractor(src, lib)
	if err != nil {
		return nil, err
	}
	if _, err := ex.Advance(0); err != nil {
		return nil, err
	}
	return lib, nil
}

// Advance processes up to budget windows; budget <= 0 finishes the scan.
// Overflowing the library's capacity stops the scan with a *CapacityError
// that every later call repeats.
func (e *Extractor) Advance(budget int) (bool, error) {
	if e.err != nil {
		return false, e.err
	}
	if e.done {
		return true, nil
	}
	if e.src.W != e.w || e.src.H != e.h || len(e.src.Pix) != e.w*e.h {
		return false, invalidResume("extract", "source is %dx%d, scan started on %dx%d", e.src.W, e.src.H, e.w, e.h)
	}
	var px block
	for n := 0; budget <= 0 || n < budget; n++ {
		if e.y > e.h-PatternSize {
			e.done = true
			return true, nil
		}
		for py := 0; py < PatternSize; py++ {
			for qx := 0; qx < PatternSize; qx++ {
				px[py*PatternSize+qx] = e.src.RGB(e.x+qx, e.y+py)
			}
		}
		if !e.lib.record(&px) {
			e.err = &CapacityError{Limit: e.lib.limit, X: e.x, Y: e.y}
			return false, e.err
		}
		e.count++
		e.x++
		if e.x > e.w-PatternSize {
			e.x = 0
			e.y++
		}
	}
	if e.y > e.h-PatternSize {
		e.done = true
	}
	return e.done, nil
}

// Progress reports windows scanned so far.
func (e *Extractor) Progress() core.Progress {
	return core.Progress{Name: "extract", Count: e.count, Total: e.total, Done: e.done}
}

// Library returns the dictionary being filled.
func (e *Extractor) Library() *Library { return e.lib }

// Err returns the terminal error, if any.
func (e *Extractor) Err() error { return e.err }
