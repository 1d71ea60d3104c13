package wfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveInitializeFullDomains(t *testing.T) {
	w := NewWave(5, 4, 7)
	require.False(t, w.Initialized())
	w.Initialize()
	require.True(t, w.Initialized())
	assert.Equal(t, 20, w.Open())

	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		assert.False(t, c.Collapsed())
		assert.Equal(t, -1, c.Final())
		assert.Equal(t, 7, c.Count())
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, c.Values())
	}
	assert.True(t, w.Consistent())
}

func TestInitializerIncremental(t *testing.T) {
	w := NewWave(5, 4, 3)
	in := NewInitializer(w)
	require.Equal(t, 20, in.Progress().Total)

	calls := 0
	for {
		done, err := in.Advance(6)
		require.NoError(t, err)
		calls++
		if done {
			break
		}
		require.False(t, w.Initialized(), "wave must not report ready mid-pass")
	}
	assert.Equal(t, 4, calls)
	assert.True(t, w.Initialized())
	assert.Equal(t, 20, in.Progress().Count)
	assert.Equal(t, 3, w.Cell(4, 3).Count())
}

func TestInitializerRejectsRebuiltWave(t *testing.T) {
	w := NewWave(4, 4, 3)
	in := NewInitializer(w)
	_, err := in.Advance(5)
	require.NoError(t, err)

	w.Rebuild(9)
	_, err = in.Advance(5)
	assert.ErrorIs(t, err, ErrInvalidResume)
}

func TestInitializerRejectsRebuildWithSameCount(t *testing.T) {
	w := NewWave(4, 4, 3)
	in := NewInitializer(w)
	_, err := in.Advance(5)
	require.NoError(t, err)

	w.Rebuild(3)
	_, err = in.Advance(5)
	assert.ErrorIs(t, err, ErrInvalidResume)
}

func TestWaveResetRestoresDomains(t *testing.T) {
	w := NewWave(3, 3, 4)
	w.Initialize()
	c := w.Cell(1, 1)
	c.remove(2)
	c.collapseTo(1)
	c.collapsed = true
	c.final = 1
	w.Cell(0, 0).remove(3)

	w.Reset()
	assert.False(t, w.Cell(1, 1).Collapsed())
	assert.Equal(t, 4, w.Cell(1, 1).Count())
	assert.Equal(t, 4, w.Cell(0, 0).Count())
	assert.True(t, w.Consistent())
}

func TestWaveRebuildReplacesStorage(t *testing.T) {
	w := NewWave(2, 2, 3)
	w.Initialize()
	w.Rebuild(5)
	assert.Equal(t, 5, w.PatternCount())
	assert.False(t, w.Initialized())
	w.Initialize()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, w.Cell(1, 0).Values())
}

func TestDomainRemoveKeepsCountInSync(t *testing.T) {
	w := NewWave(1, 1, 70)
	w.Initialize()
	c := w.Cell(0, 0)
	for p := 0; p < 70; p += 3 {
		c.remove(p)
	}
	assert.Equal(t, c.popcount(), c.Count())
	assert.False(t, c.Has(0))
	assert.True(t, c.Has(68))
	assert.True(t, w.Consistent())
}

func TestEmptyWaveInitializes(t *testing.T) {
	w := NewWave(0, 3, 2)
	done, err := NewInitializer(w).Advance(1)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 0, w.Open())
}
