package geom

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid provides an interface for reasoning over a 1D slice of sample points
// as if it were a regular 3D lattice. x is the fastest-varying index.
type Grid struct {
	Origin, Step         r3.Vec
	Width                [3]int
	Length, Area, Volume int
}

// NewGrid returns a new Grid instance.
func NewGrid(origin, step r3.Vec, width [3]int) *Grid {
	g := &Grid{}
	g.Init(origin, step, width)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(origin, step r3.Vec, width [3]int) {
	g.Origin = origin
	g.Step = step
	g.Width = width

	g.Length = width[0]
	g.Area = width[0] * width[1]
	g.Volume = width[0] * width[1] * width[2]
}

// Linspace returns the origin and step of n evenly spaced samples covering
// [lo, hi]. A single sample sits at lo.
func Linspace(lo, hi float64, n int) (origin, step float64) {
	if n <= 1 {
		return lo, 0
	}
	return lo, (hi - lo) / float64(n-1)
}

// Idx returns the grid index corresponding to a set of coordinates.
func (g *Grid) Idx(x, y, z int) int {
	return x + y*g.Length + z*g.Area
}

// IdxCheck returns an index and true if the given coordinate are valid and
// false otherwise.
func (g *Grid) IdxCheck(x, y, z int) (idx int, ok bool) {
	if !g.BoundsCheck(x, y, z) {
		return -1, false
	}

	return g.Idx(x, y, z), true
}

// BoundsCheck returns true if the given coordinates are within the Grid and
// false otherwise.
func (g *Grid) BoundsCheck(x, y, z int) bool {
	return (0 <= x && 0 <= y && 0 <= z) &&
		(x < g.Width[0] && y < g.Width[1] && z < g.Width[2])
}

// Coords returns the x, y, and z coordinates of the given grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx % g.Length
	y = (idx % g.Area) / g.Length
	z = idx / g.Area
	return x, y, z
}

// Point returns the position of the sample with the given grid index.
func (g *Grid) Point(idx int) r3.Vec {
	x, y, z := g.Coords(idx)
	return r3.Vec{
		X: g.Origin.X + float64(x)*g.Step.X,
		Y: g.Origin.Y + float64(y)*g.Step.Y,
		Z: g.Origin.Z + float64(z)*g.Step.Z,
	}
}

// Points returns the positions of every sample in grid index order, in the
// [][]float64 form accepted by batch queries.
func (g *Grid) Points() [][]float64 {
	out := make([][]float64, g.Volume)
	for i := range out {
		p := g.Point(i)
		out[i] = []float64{p.X, p.Y, p.Z}
	}
	return out
}
