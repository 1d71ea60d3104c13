package wfc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfc-synth/internal/core"
	pcore "wfc-synth/pkg/core"
)

// seqRand replays fixed draws, reduced modulo n.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) IntN(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func newSolverFor(t *testing.T, src *Bitmap, w, h int, rng Rand) (*Library, *Table, *Wave, *Solver) {
	t.Helper()
	lib, err := Extract(src, 0)
	require.NoError(t, err)
	tab := BuildTable(lib)
	wave := NewWave(w, h, lib.Len())
	wave.Initialize()
	s, err := NewSolver(wave, tab, lib.Frequencies(), rng)
	require.NoError(t, err)
	return lib, tab, wave, s
}

func requireCollapsedNeighboursCompatible(t *testing.T, wave *Wave, tab *Table) {
	t.Helper()
	g := wave.Grid()
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := wave.Cell(x, y)
			if !c.Collapsed() {
				continue
			}
			for _, d := range core.Directions {
				ni, ok := g.Neighbor(x, y, d)
				if !ok || !wave.At(ni).Collapsed() {
					continue
				}
				require.True(t, tab.Compatible(c.Final(), wave.At(ni).Final(), d),
					"cell (%d,%d) pattern %d clashes with its %v neighbour", x, y, c.Final(), d)
			}
		}
	}
}

func TestUniformSourceCompletes(t *testing.T) {
	lib, _, wave, s := newSolverFor(t, uniformBitmap(4, 4), 10, 10, pcore.NewRNG(1))
	require.Equal(t, 1, lib.Len())
	require.Equal(t, 4, lib.Pattern(0).Frequency)

	st, err := s.Run(0)
	require.NoError(t, err)
	require.Equal(t, StatusComplete, st)
	assert.Equal(t, 100, s.Steps())
	_, _, conflicted := s.Contradiction()
	assert.False(t, conflicted)
	for _, f := range wave.Finals() {
		require.Equal(t, 0, f)
	}

	st, err = s.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, st)
	assert.Equal(t, 100, s.Steps())
}

func TestIncompatiblePatternsContradict(t *testing.T) {
	wave := NewWave(2, 1, 2)
	wave.Initialize()
	s, err := NewSolver(wave, NewTable(2), []int{1, 1}, pcore.NewRNG(3))
	require.NoError(t, err)

	st, err := s.Run(0)
	require.NoError(t, err)
	assert.Equal(t, StatusContradiction, st)
	assert.NotEqual(t, StatusComplete, st)
	assert.Equal(t, 0, s.Steps())

	x, y, ok := s.Contradiction()
	require.True(t, ok)
	assert.True(t, wave.Cell(x, y).Contradicted())
	assert.True(t, wave.Consistent())

	// Terminal: no recovery on further steps.
	st, err = s.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusContradiction, st)
}

func TestEmptyOpenCellIsContradiction(t *testing.T) {
	tab := NewTable(2)
	tab.Allow(0, 0, core.Right)
	wave := NewWave(3, 1, 2)
	wave.Initialize()
	c := wave.Cell(2, 0)
	c.remove(0)
	c.remove(1)

	s, err := NewSolver(wave, tab, []int{1, 1}, pcore.NewRNG(9))
	require.NoError(t, err)
	st, err := s.Step()
	require.NoError(t, err)
	assert.Equal(t, StatusContradiction, st)
	x, y, ok := s.Contradiction()
	require.True(t, ok)
	assert.Equal(t, [2]int{2, 0}, [2]int{x, y})
}

func TestCheckerSourceAlternates(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		_, tab, wave, s := newSolverFor(t, checkerBitmap(6, 6), 9, 7, pcore.NewRNG(seed))
		st, err := s.Run(0)
		require.NoError(t, err)
		require.Equal(t, StatusComplete, st, "seed %d", seed)
		for y := 0; y < 7; y++ {
			for x := 0; x+1 < 9; x++ {
				require.NotEqual(t, wave.Cell(x, y).Final(), wave.Cell(x+1, y).Final())
			}
		}
		requireCollapsedNeighboursCompatible(t, wave, tab)
	}
}

func TestSelectCellStartsAtRandomOffset(t *testing.T) {
	wave := NewWave(7, 5, 3)
	wave.Initialize()
	rng := pcore.NewRNG(31)
	ref := pcore.NewRNG(31)
	s, err := NewSolver(wave, NewTable(3), []int{1, 1, 1}, rng)
	require.NoError(t, err)

	x, y, ok := s.SelectCell()
	require.True(t, ok)
	assert.Equal(t, ref.IntN(7), x, "column offset is drawn first")
	assert.Equal(t, ref.IntN(5), y)
}

func TestSelectCellFirstMinimumInScanOrder(t *testing.T) {
	wave := NewWave(7, 5, 3)
	wave.Initialize()
	shrink := func(x, y int) {
		c := wave.Cell(x, y)
		c.remove(0)
		c.remove(1)
	}
	shrink(1, 0)
	shrink(5, 3)

	s, err := NewSolver(wave, NewTable(3), []int{1, 1, 1}, &seqRand{vals: []int{4, 2}})
	require.NoError(t, err)
	x, y, ok := s.SelectCell()
	require.True(t, ok)
	assert.Equal(t, [2]int{5, 3}, [2]int{x, y}, "scan from row 2 reaches row 3 before wrapping to row 0")

	shrink(2, 2)
	x, y, _ = s.SelectCell()
	assert.Equal(t, [2]int{2, 2}, [2]int{x, y}, "start row wins after wrapping its columns")

	shrink(6, 2)
	x, y, _ = s.SelectCell()
	assert.Equal(t, [2]int{6, 2}, [2]int{x, y}, "column 6 precedes the wrapped column 2")
}

func TestSelectCellSkipsCollapsed(t *testing.T) {
	wave := NewWave(2, 1, 2)
	wave.Initialize()
	s, err := NewSolver(wave, NewTable(2), []int{1, 1}, &seqRand{vals: []int{0}})
	require.NoError(t, err)
	_, err = s.Collapse(0, 0)
	require.NoError(t, err)
	x, y, ok := s.SelectCell()
	require.True(t, ok)
	assert.Equal(t, [2]int{1, 0}, [2]int{x, y})
}

func TestCollapseWeighting(t *testing.T) {
	wave := NewWave(1, 1, 2)
	tab := NewTable(2)
	s, err := NewSolver(wave, tab, []int{1, 3}, pcore.NewRNG(2024))
	require.NoError(t, err)

	const trials = 4000
	counts := [2]int{}
	for i := 0; i < trials; i++ {
		wave.Reset()
		s.Reset()
		p, err := s.Collapse(0, 0)
		require.NoError(t, err)
		counts[p]++
	}
	ratio := float64(counts[1]) / trials
	assert.InDelta(t, 0.75, ratio, 0.03, "counts %v", counts)
}

func TestCollapseWalksWeights(t *testing.T) {
	wave := NewWave(1, 1, 3)
	wave.Initialize()
	// weights 2,1,5: draw 2 lands on pattern 1, draw 3 on pattern 2.
	s, err := NewSolver(wave, NewTable(3), []int{2, 1, 5}, &seqRand{vals: []int{2, 3}})
	require.NoError(t, err)
	p, err := s.Collapse(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p)

	wave.Reset()
	p, err = s.Collapse(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, p)
	assert.Equal(t, 1, wave.Cell(0, 0).Count())
	assert.Equal(t, 2, wave.Cell(0, 0).Final())
}

func TestIllegalCollapse(t *testing.T) {
	wave := NewWave(2, 1, 2)
	wave.Initialize()
	s, err := NewSolver(wave, NewTable(2), []int{1, 1}, pcore.NewRNG(5))
	require.NoError(t, err)

	_, err = s.Collapse(0, 0)
	require.NoError(t, err)
	_, err = s.Collapse(0, 0)
	require.ErrorIs(t, err, ErrIllegalCollapse)
	var ce *CollapseError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "already collapsed", ce.Reason)

	c := wave.Cell(1, 0)
	c.remove(0)
	c.remove(1)
	_, err = s.Collapse(1, 0)
	assert.ErrorIs(t, err, ErrIllegalCollapse)
	assert.False(t, c.Collapsed())
}

func TestDomainsShrinkMonotonicallyAndStayConsistent(t *testing.T) {
	for seed := int64(0); seed < 6; seed++ {
		_, tab, wave, s := newSolverFor(t, brickBitmap(), 12, 10, pcore.NewRNG(seed))
		n := wave.PatternCount()
		prev := make([][]int, wave.Len())
		for i := range prev {
			prev[i] = wave.At(i).Values()
		}
		for guard := 0; ; guard++ {
			require.Less(t, guard, wave.Len()+1, "more steps than cells")
			st, err := s.Step()
			require.NoError(t, err)
			require.True(t, wave.Consistent(), "count cache diverged at step %d", s.Steps())
			require.LessOrEqual(t, s.Revisions(), 4*(wave.Len()*n+1), "propagation exceeded its revision bound")
			for i := range prev {
				cur := wave.At(i).Values()
				require.Subset(t, prev[i], cur, "cell %d regained a pattern", i)
				prev[i] = cur
			}
			if st.Terminal() {
				break
			}
		}
		requireCollapsedNeighboursCompatible(t, wave, tab)
	}
}

func TestRunBudgetBoundsSteps(t *testing.T) {
	_, _, _, s := newSolverFor(t, uniformBitmap(3, 3), 10, 10, pcore.NewRNG(4))
	st, err := s.Run(25)
	require.NoError(t, err)
	assert.Equal(t, StatusSelecting, st)
	assert.Equal(t, 25, s.Steps())
}

func TestSolverRequiresInitializedWave(t *testing.T) {
	wave := NewWave(2, 2, 1)
	tab := NewTable(1)
	tab.Allow(0, 0, core.Up)
	s, err := NewSolver(wave, tab, []int{1}, pcore.NewRNG(1))
	require.NoError(t, err)
	_, err = s.Step()
	assert.ErrorIs(t, err, ErrNotReady)

	wave.Rebuild(1)
	wave.Initialize()
	_, err = s.Step()
	assert.ErrorIs(t, err, ErrInvalidResume)
}

func TestNewSolverRejectsMismatchedInputs(t *testing.T) {
	wave := NewWave(2, 2, 3)
	_, err := NewSolver(wave, NewTable(2), []int{1, 1, 1}, pcore.NewRNG(1))
	assert.Error(t, err)
	_, err = NewSolver(wave, NewTable(3), []int{1}, pcore.NewRNG(1))
	assert.Error(t, err)
}

func TestPropagateIgnoresOutOfBoundsStart(t *testing.T) {
	wave := NewWave(2, 2, 2)
	wave.Initialize()
	s, err := NewSolver(wave, NewTable(2), []int{1, 1}, pcore.NewRNG(1))
	require.NoError(t, err)

	for _, pt := range [][2]int{{-1, 0}, {2, 0}, {0, 2}, {5, -3}} {
		require.NotPanics(t, func() {
			assert.True(t, s.Propagate(pt[0], pt[1]))
		})
	}
	for i := 0; i < wave.Len(); i++ {
		assert.Equal(t, 2, wave.At(i).Count())
	}
	assert.Equal(t, 0, s.Revisions())
}
