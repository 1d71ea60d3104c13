package wfc

import (
	"github.com/bits-and-blooms/bitset"

	"wfc-synth/internal/core"
)

// Domain is the set of pattern indices still possible for a cell. The cached
// count is maintained on every removal and never recomputed.
type Domain struct {
	bits  *bitset.BitSet
	count int
}

func newDomain(n int) Domain { return Domain{bits: bitset.New(uint(n))} }

// Has reports whether pattern p is still possible.
func (d *Domain) Has(p int) bool { return d.bits.Test(uint(p)) }

// Count is the number of patterns still possible.
func (d *Domain) Count() int { return d.count }

// Values lists the possible patterns in ascending order.
func (d *Domain) Values() []int {
	out := make([]int, 0, d.count)
	for i, ok := d.bits.NextSet(0); ok; i, ok = d.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// popcount recounts the set bits. Only consistency checks use it.
func (d *Domain) popcount() int { return int(d.bits.Count()) }

func (d *Domain) fill(n int) {
	d.bits.ClearAll()
	if n > 0 {
		d.bits.FlipRange(0, uint(n))
	}
	d.count = n
}

func (d *Domain) remove(p int) {
	d.bits.Clear(uint(p))
	d.count--
}

func (d *Domain) collapseTo(p int) {
	d.bits.ClearAll()
	d.bits.Set(uint(p))
	d.count = 1
}

// Cell is one output position.
type Cell struct {
	Domain
	collapsed bool
	final     int
}

// Collapsed reports whether the cell has been assigned its final pattern.
func (c *Cell) Collapsed() bool { return c.collapsed }

// Final returns the chosen pattern, or -1 before collapse.
func (c *Cell) Final() int { return c.final }

// Contradicted reports the dead-end state: no possibilities and not collapsed.
func (c *Cell) Contradicted() bool { return !c.collapsed && c.count == 0 }

// Entropy is the number of remaining possibilities, or -1 once collapsed.
func (c *Cell) Entropy() int {
	if c.collapsed {
		return -1
	}
	return c.count
}

// Wave holds one Cell per output position. It is sized for a fixed pattern
// count; a new dictionary requires Rebuild.
type Wave struct {
	grid     core.Grid
	patterns int
	cells    []Cell

	// epoch changes on every Rebuild so running phases can detect it.
	epoch       int
	initialized bool
	open        int
}

// NewWave allocates a w×h wave for patternCount patterns. Cells are empty
// until initialized.
func NewWave(w, h, patternCount int) *Wave {
	wv := &Wave{grid: core.NewGrid(w, h)}
	wv.Rebuild(patternCount)
	return wv
}

// Rebuild replaces every cell with fresh, uninitialized storage sized for
// patternCount.
func (w *Wave) Rebuild(patternCount int) {
	if patternCount < 0 {
		patternCount = 0
	}
	w.patterns = patternCount
	w.cells = make([]Cell, w.grid.Len())
	for i := range w.cells {
		w.cells[i] = Cell{Domain: newDomain(patternCount), final: -1}
	}
	w.epoch++
	w.initialized = false
	w.open = 0
}

// Initialize sets every cell to the full domain in one call.
func (w *Wave) Initialize() {
	NewInitializer(w).Advance(0)
}

// Reset re-initializes with the same dimensions and pattern count.
func (w *Wave) Reset() { w.Initialize() }

// Size reports the grid dimensions.
func (w *Wave) Size() core.Size { return core.Size{W: w.grid.W, H: w.grid.H} }

// Grid returns the wave geometry.
func (w *Wave) Grid() core.Grid { return w.grid }

// PatternCount reports the dictionary size the wave was built against.
func (w *Wave) PatternCount() int { return w.patterns }

// Initialized reports whether every cell has been set to the full domain
// since the last Rebuild or reset started.
func (w *Wave) Initialized() bool { return w.initialized }

// Open reports the number of cells not yet collapsed.
func (w *Wave) Open() int { return w.open }

// Cell returns the cell at (x, y).
func (w *Wave) Cell(x, y int) *Cell { return &w.cells[w.grid.Index(x, y)] }

// At returns the cell at linear index i.
func (w *Wave) At(i int) *Cell { return &w.cells[i] }

// Len reports the number of cells.
func (w *Wave) Len() int { return len(w.cells) }

// Finals returns every cell's chosen pattern in row-major order, -1 where
// the cell is still open.
func (w *Wave) Finals() []int {
	out := make([]int, len(w.cells))
	for i := range w.cells {
		out[i] = w.cells[i].final
	}
	return out
}

// Consistent reports whether every cached count matches its bit-set and
// every collapsed cell holds exactly one pattern.
func (w *Wave) Consistent() bool {
	for i := range w.cells {
		c := &w.cells[i]
		if c.count != c.popcount() {
			return false
		}
		if c.collapsed && c.count != 1 {
			return false
		}
	}
	return true
}

// Initializer resets cells to the full domain one cell per unit of work.
type Initializer struct {
	wave *Wave

	epoch    int
	patterns int
	w, h     int
	x, y     int
	count    int
	total    int
	done     bool
}

// NewInitializer starts a fresh initialization pass over w.
func NewInitializer(w *Wave) *Initializer {
	w.initialized = false
	w.open = 0
	return &Initializer{
		wave:     w,
		epoch:    w.epoch,
		patterns: w.patterns,
		w:        w.grid.W,
		h:        w.grid.H,
		total:    w.grid.Len(),
	}
}

// Advance initializes up to budget cells; budget <= 0 finishes the pass.
func (in *Initializer) Advance(budget int) (bool, error) {
	if in.done {
		return true, nil
	}
	wv := in.wave
	if wv.epoch != in.epoch || wv.patterns != in.patterns || wv.grid.W != in.w || wv.grid.H != in.h {
		return false, invalidResume("init", "wave is %dx%d with %d patterns, pass started on %dx%d with %d",
			wv.grid.W, wv.grid.H, wv.patterns, in.w, in.h, in.patterns)
	}
	for n := 0; budget <= 0 || n < budget; n++ {
		if in.y >= in.h || in.total == 0 {
			break
		}
		c := wv.Cell(in.x, in.y)
		c.collapsed = false
		c.final = -1
		c.fill(in.patterns)
		in.count++
		in.x++
		if in.x >= in.w {
			in.x = 0
			in.y++
		}
	}
	if in.y >= in.h || in.total == 0 {
		in.done = true
		wv.initialized = true
		wv.open = in.total
	}
	return in.done, nil
}

// Progress reports cells initialized so far.
func (in *Initializer) Progress() core.Progress {
	return core.Progress{Name: "init", Count: in.count, Total: in.total, Done: in.done}
}
