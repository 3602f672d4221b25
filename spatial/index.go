/*package spatial provides nearest-neighbor lookup over a fixed set of node
positions.
*/
package spatial

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// MinNeighbors is the smallest neighbor set that can hold a tetrahedron.
const MinNeighbors = 4

// pivotSamples is the number of points sampled when choosing a split plane.
const pivotSamples = 100

// ErrEmpty is returned when an Index is built over no points.
var ErrEmpty = errors.New("spatial: no points to index")

// Neighbor is a node returned by a nearest-neighbor query.
type Neighbor struct {
	Index int     // Index of the node in the slice the Index was built from.
	Dist  float64 // Euclidean distance to the query point.
}

// point is a node position tagged with its index.
type point struct {
	r3.Vec
	idx int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	}
	panic("spatial: illegal dimension")
}

func (p point) Dims() int { return 3 }

// Distance returns the squared distance, as kdtree requires.
func (p point) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.Vec, c.(point).Vec))
}

type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p points) Pivot(d kdtree.Dim) int {
	pl := plane{points: p, dim: d}
	return kdtree.Partition(pl, kdtree.MedianOfRandoms(pl, pivotSamples))
}

// plane sorts points along a single axis.
type plane struct {
	points
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.points[i].Compare(p.points[j], p.dim) < 0
}
func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

// Index is a static k-d tree over a set of node positions. It is read-only
// after Build returns and may be queried from any number of goroutines.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// Build constructs an Index over positions. The positions are copied.
func Build(positions []r3.Vec) (*Index, error) {
	if len(positions) == 0 {
		return nil, ErrEmpty
	}

	ps := make(points, len(positions))
	for i, v := range positions {
		if !finite(v) {
			return nil, errors.Errorf("spatial: position %d (%v) is not finite", i, v)
		}
		ps[i] = point{Vec: v, idx: i}
	}

	return &Index{tree: kdtree.New(ps, false), n: len(ps)}, nil
}

func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int { return idx.n }

// Query returns the min(k, Len()) nodes closest to q, ordered by increasing
// distance. Nodes at equal distance are ordered by index, so the result does
// not depend on the shape of the tree.
func (idx *Index) Query(q r3.Vec, k int) []Neighbor {
	if k <= 0 {
		return nil
	}
	if k > idx.n {
		k = idx.n
	}
	qp := point{Vec: q, idx: -1}

	// The first pass finds the k-th smallest distance. Every node at that
	// distance is then collected so ties can be broken by index.
	nk := kdtree.NewNKeeper(k)
	idx.tree.NearestSet(nk, qp)
	if len(nk.Heap) == 0 {
		return nil
	}
	r2 := nk.Heap[len(nk.Heap)-1].Dist

	dk := kdtree.NewDistKeeper(r2)
	idx.tree.NearestSet(dk, qp)

	out := make([]Neighbor, 0, len(dk.Heap))
	d2 := make([]float64, 0, len(dk.Heap))
	for _, c := range dk.Heap {
		out = append(out, Neighbor{Index: c.Comparable.(point).idx})
		d2 = append(d2, c.Dist)
	}
	sort.Sort(byDist{out, d2})

	if len(out) > k {
		out, d2 = out[:k], d2[:k]
	}
	for i := range out {
		out[i].Dist = math.Sqrt(d2[i])
	}
	return out
}

// byDist orders neighbors by squared distance, then by index.
type byDist struct {
	ns []Neighbor
	d2 []float64
}

func (b byDist) Len() int { return len(b.ns) }
func (b byDist) Less(i, j int) bool {
	if b.d2[i] != b.d2[j] {
		return b.d2[i] < b.d2[j]
	}
	return b.ns[i].Index < b.ns[j].Index
}
func (b byDist) Swap(i, j int) {
	b.ns[i], b.ns[j] = b.ns[j], b.ns[i]
	b.d2[i], b.d2[j] = b.d2[j], b.d2[i]
}
