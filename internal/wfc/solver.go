package wfc

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"wfc-synth/internal/core"
)

// Rand is the random source the solver draws from. *core.RNG from pkg/core
// and *rand.Rand from math/rand/v2 both satisfy it.
type Rand interface {
	IntN(n int) int
}

// Status is the solver's position in its per-run state machine.
type Status uint8

const (
	StatusReady Status = iota
	StatusSelecting
	StatusCollapsing
	StatusPropagating
	StatusComplete
	StatusContradiction
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusSelecting:
		return "selecting"
	case StatusCollapsing:
		return "collapsing"
	case StatusPropagating:
		return "propagating"
	case StatusComplete:
		return "complete"
	case StatusContradiction:
		return "contradiction"
	}
	return "unknown"
}

// Terminal reports whether no further steps can change the wave.
func (s Status) Terminal() bool { return s == StatusComplete || s == StatusContradiction }

// Solver runs select, collapse, propagate cycles over a Wave.
type Solver struct {
	wave    *Wave
	table   *Table
	weights []int
	rng     Rand

	epoch    int
	status   Status
	steps    int
	conflict int

	dirty     []bool
	queue     []int
	support   *bitset.BitSet
	revisions int
	options   []int
}

// NewSolver binds a solver to a wave, its adjacency table and per-pattern
// weights. The three must agree on the pattern count.
func NewSolver(wave *Wave, table *Table, weights []int, rng Rand) (*Solver, error) {
	n := wave.PatternCount()
	if table.Len() != n || len(weights) != n {
		return nil, fmt.Errorf("wfc: solver inputs disagree: wave %d, table %d, weights %d patterns",
			n, table.Len(), len(weights))
	}
	s := &Solver{
		wave:     wave,
		table:    table,
		weights:  weights,
		rng:      rng,
		epoch:    wave.epoch,
		conflict: -1,
		support:  bitset.New(uint(n)),
	}
	return s, nil
}

// Reset clears the generation counters. The wave itself is reset separately.
func (s *Solver) Reset() {
	s.status = StatusReady
	s.steps = 0
	s.conflict = -1
	s.revisions = 0
}

// Status returns the current state.
func (s *Solver) Status() Status { return s.status }

// Steps reports completed collapse+propagate cycles.
func (s *Solver) Steps() int { return s.steps }

// Done reports whether the run reached a terminal state.
func (s *Solver) Done() bool { return s.status.Terminal() }

// Contradiction returns the cell whose domain emptied, if any.
func (s *Solver) Contradiction() (x, y int, ok bool) {
	if s.conflict < 0 {
		return 0, 0, false
	}
	x, y = s.wave.grid.Coords(s.conflict)
	return x, y, true
}

// Revisions reports how many arc revisions the last propagation performed.
func (s *Solver) Revisions() int { return s.revisions }

// Wave returns the wave being solved.
func (s *Solver) Wave() *Wave { return s.wave }

// SelectCell finds the open cell with the fewest possibilities. The scan
// starts at a random column and row and wraps around; the first strict
// minimum in that order wins. ok is false when no open cell with a non-empty
// domain remains. An open cell with an empty domain is recorded as the
// contradiction.
func (s *Solver) SelectCell() (x, y int, ok bool) {
	g := s.wave.grid
	if g.Len() == 0 {
		return 0, 0, false
	}
	startX := s.rng.IntN(g.W)
	startY := s.rng.IntN(g.H)

	best := -1
	bestEntropy := 0
	for i := 0; i < g.H; i++ {
		cy := (startY + i) % g.H
		for j := 0; j < g.W; j++ {
			cx := (startX + j) % g.W
			idx := g.Index(cx, cy)
			c := &s.wave.cells[idx]
			if c.collapsed {
				continue
			}
			if c.count == 0 {
				if s.conflict < 0 {
					s.conflict = idx
				}
				continue
			}
			if best < 0 || c.count < bestEntropy {
				best = idx
				bestEntropy = c.count
			}
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	x, y = g.Coords(best)
	return x, y, true
}

// Collapse picks one of the cell's remaining patterns with probability
// proportional to its weight and fixes the cell to it.
func (s *Solver) Collapse(x, y int) (int, error) {
	if !s.wave.grid.InBounds(x, y) {
		return -1, &CollapseError{X: x, Y: y, Reason: "out of bounds"}
	}
	c := s.wave.Cell(x, y)
	if c.collapsed {
		return -1, &CollapseError{X: x, Y: y, Reason: "already collapsed"}
	}
	if c.count == 0 {
		return -1, &CollapseError{X: x, Y: y, Reason: "no possibilities left"}
	}

	s.options = s.options[:0]
	total := 0
	for p, ok := c.bits.NextSet(0); ok; p, ok = c.bits.NextSet(p + 1) {
		s.options = append(s.options, int(p))
		total += s.weights[p]
	}

	chosen := s.options[0]
	if total > 0 {
		r := s.rng.IntN(total)
		for _, p := range s.options {
			r -= s.weights[p]
			if r < 0 {
				chosen = p
				break
			}
		}
	}

	c.collapseTo(chosen)
	c.collapsed = true
	c.final = chosen
	s.wave.open--
	return chosen, nil
}

// Propagate removes, to a fixpoint, every neighbouring possibility that no
// remaining pattern of an adjacent cell supports, starting from (x, y).
// Collapsed cells are never revised. It returns false as soon as an open
// cell loses its last possibility. An out-of-bounds start changes nothing.
func (s *Solver) Propagate(x, y int) bool {
	g := s.wave.grid
	if !g.InBounds(x, y) {
		return true
	}
	if len(s.dirty) != g.Len() {
		s.dirty = make([]bool, g.Len())
	}
	s.queue = s.queue[:0]
	s.revisions = 0

	start := g.Index(x, y)
	s.dirty[start] = true
	s.queue = append(s.queue, start)

	for head := 0; head < len(s.queue); head++ {
		ci := s.queue[head]
		s.dirty[ci] = false
		cur := &s.wave.cells[ci]
		cx, cy := g.Coords(ci)

		for _, d := range core.Directions {
			ni, ok := g.Neighbor(cx, cy, d)
			if !ok {
				continue
			}
			nb := &s.wave.cells[ni]
			if nb.collapsed {
				continue
			}
			s.revisions++

			s.support.ClearAll()
			for p, ok := cur.bits.NextSet(0); ok; p, ok = cur.bits.NextSet(p + 1) {
				s.support.InPlaceUnion(s.table.supports(int(p), d))
			}

			changed := false
			for p, ok := nb.bits.NextSet(0); ok; p, ok = nb.bits.NextSet(p + 1) {
				if s.support.Test(p) {
					continue
				}
				nb.remove(int(p))
				changed = true
			}
			if !changed {
				continue
			}
			if nb.count == 0 {
				s.conflict = ni
				s.drain(head + 1)
				return false
			}
			if !s.dirty[ni] {
				s.dirty[ni] = true
				s.queue = append(s.queue, ni)
			}
		}
	}
	s.queue = s.queue[:0]
	return true
}

// drain clears dirty marks left behind by an aborted propagation.
func (s *Solver) drain(from int) {
	for _, i := range s.queue[from:] {
		s.dirty[i] = false
	}
	s.queue = s.queue[:0]
}

// Step performs one select, collapse, propagate cycle.
func (s *Solver) Step() (Status, error) {
	if s.status.Terminal() {
		return s.status, nil
	}
	if s.wave.epoch != s.epoch || s.wave.patterns != s.table.Len() {
		return s.status, invalidResume("solve", "wave rebuilt for %d patterns after solver bound to %d",
			s.wave.patterns, s.table.Len())
	}
	if !s.wave.initialized {
		return s.status, ErrNotReady
	}

	s.status = StatusSelecting
	x, y, ok := s.SelectCell()
	if s.conflict >= 0 {
		s.status = StatusContradiction
		return s.status, nil
	}
	if !ok {
		s.status = StatusComplete
		return s.status, nil
	}

	s.status = StatusCollapsing
	if _, err := s.Collapse(x, y); err != nil {
		return s.status, err
	}

	s.status = StatusPropagating
	if !s.Propagate(x, y) {
		s.status = StatusContradiction
		return s.status, nil
	}
	s.steps++

	s.status = StatusSelecting
	if s.wave.open == 0 {
		s.status = StatusComplete
	}
	return s.status, nil
}

// Run performs up to budget steps, stopping early on a terminal state.
// A budget <= 0 runs until the state is terminal.
func (s *Solver) Run(budget int) (Status, error) {
	for n := 0; budget <= 0 || n < budget; n++ {
		st, err := s.Step()
		if err != nil || st.Terminal() {
			return st, err
		}
	}
	return s.status, nil
}
