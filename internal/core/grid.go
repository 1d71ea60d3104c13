package core

// Direction names one of the four grid neighbours. The numbering matches the
// adjacency table layout: up, right, down, left.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists every direction in table order.
var Directions = [4]Direction{Up, Right, Down, Left}

var (
	dirDX = [4]int{0, 1, 0, -1}
	dirDY = [4]int{-1, 0, 1, 0}
)

// Offset returns the unit step for the direction.
func (d Direction) Offset() (int, int) { return dirDX[d], dirDY[d] }

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction { return (d + 2) % 4 }

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return "invalid"
}

// Grid describes a fixed-size 2D lattice stored in row-major order.
type Grid struct {
	W, H int
}

// NewGrid returns a Grid with the given dimensions. Negative sizes clamp to zero.
func NewGrid(w, h int) Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Grid{W: w, H: h}
}

// Len reports the number of cells.
func (g Grid) Len() int { return g.W * g.H }

// Index returns the linear slice index for coordinates (x, y).
func (g Grid) Index(x, y int) int { return y*g.W + x }

// Coords converts a linear index back to coordinates.
func (g Grid) Coords(i int) (int, int) { return i % g.W, i / g.W }

// InBounds reports whether (x, y) lies inside the grid.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Neighbor returns the linear index one step from (x, y) in direction d, or
// false when the step leaves the grid. There is no wrapping.
func (g Grid) Neighbor(x, y int, d Direction) (int, bool) {
	dx, dy := d.Offset()
	nx, ny := x+dx, y+dy
	if !g.InBounds(nx, ny) {
		return 0, false
	}
	return g.Index(nx, ny), true
}
