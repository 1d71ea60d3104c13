package wfc

import (
	"github.com/bits-and-blooms/bitset"

	"wfc-synth/internal/core"
)

// Compatible reports whether b may sit one step from a in direction d: the
// strip of a that b would overlap must equal the matching strip of b.
func Compatible(a, b *Pattern, d core.Direction) bool {
	dx, dy := d.Offset()
	for y := 0; y < PatternSize; y++ {
		by := y - dy
		if by < 0 || by >= PatternSize {
			continue
		}
		for x := 0; x < PatternSize; x++ {
			bx := x - dx
			if bx < 0 || bx >= PatternSize {
				continue
			}
			if a.Pixel(x, y) != b.Pixel(bx, by) {
				return false
			}
		}
	}
	return true
}

// Table is the read-only compatibility relation. For each direction and
// pattern i it stores the set of patterns j allowed at that side of i.
type Table struct {
	n     int
	allow [4][]*bitset.BitSet
}

// NewTable returns an n-pattern table with every pair incompatible.
func NewTable(n int) *Table {
	t := &Table{n: n}
	for d := range t.allow {
		t.allow[d] = make([]*bitset.BitSet, n)
		for i := range t.allow[d] {
			t.allow[d][i] = bitset.New(uint(n))
		}
	}
	return t
}

// Len reports the pattern count the table was built for.
func (t *Table) Len() int { return t.n }

// Compatible reports whether j may be placed one step from i in direction d.
func (t *Table) Compatible(i, j int, d core.Direction) bool {
	return t.allow[d][i].Test(uint(j))
}

// Set records the compatibility of (i, j, d).
func (t *Table) Set(i, j int, d core.Direction, ok bool) {
	t.allow[d][i].SetTo(uint(j), ok)
}

// Allow marks (i, j, d) and its mirror (j, i, opposite(d)) compatible.
func (t *Table) Allow(i, j int, d core.Direction) {
	t.Set(i, j, d, true)
	t.Set(j, i, d.Opposite(), true)
}

// supports returns the patterns allowed at side d of pattern i.
func (t *Table) supports(i int, d core.Direction) *bitset.BitSet { return t.allow[d][i] }

// Equal reports whether both tables encode the same relation.
func (t *Table) Equal(o *Table) bool {
	if t.n != o.n {
		return false
	}
	for d := range t.allow {
		for i := range t.allow[d] {
			if !t.allow[d][i].Equal(o.allow[d][i]) {
				return false
			}
		}
	}
	return true
}

// BuildTable evaluates every (i, j, d) triple in one call.
func BuildTable(lib *Library) *Table {
	b := NewAdjacencyBuilder(lib)
	b.Advance(0)
	return b.Table()
}

// AdjacencyBuilder fills a Table one (i, j, d) triple per unit of work,
// iterating d fastest, then j, then i.
type AdjacencyBuilder struct {
	lib   *Library
	table *Table

	n       int
	i, j, d int
	count   int
	total   int
	done    bool
}

// NewAdjacencyBuilder prepares a table sized to the library's current length.
func NewAdjacencyBuilder(lib *Library) *AdjacencyBuilder {
	n := lib.Len()
	return &AdjacencyBuilder{
		lib:   lib,
		table: NewTable(n),
		n:     n,
		total: n * n * 4,
		done:  n == 0,
	}
}

// Advance evaluates up to budget triples; budget <= 0 finishes the table.
func (b *AdjacencyBuilder) Advance(budget int) (bool, error) {
	if b.done {
		return true, nil
	}
	if b.lib.Len() != b.n {
		return false, invalidResume("adjacency", "library holds %d patterns, build started with %d", b.lib.Len(), b.n)
	}
	for k := 0; budget <= 0 || k < budget; k++ {
		if b.i >= b.n {
			break
		}
		d := core.Direction(b.d)
		b.table.Set(b.i, b.j, d, Compatible(b.lib.Pattern(b.i), b.lib.Pattern(b.j), d))
		b.count++
		b.d++
		if b.d >= 4 {
			b.d = 0
			b.j++
			if b.j >= b.n {
				b.j = 0
				b.i++
			}
		}
	}
	b.done = b.i >= b.n
	return b.done, nil
}

// Progress reports triples evaluated so far.
func (b *AdjacencyBuilder) Progress() core.Progress {
	return core.Progress{Name: "adjacency", Count: b.count, Total: b.total, Done: b.done}
}

// Table returns the table being filled. It is only complete once Advance
// has reported done.
func (b *AdjacencyBuilder) Table() *Table { return b.table }
