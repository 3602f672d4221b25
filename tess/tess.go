/*package tess builds Delaunay tetrahedralizations of small point sets and
locates the simplex which encloses a query point.

The point sets handled here are the neighborhoods of single query points, so
they contain a few dozen points at most. Simplices are found by testing
candidate tetrahedra directly against the empty circumsphere criterion.
*/
package tess

import (
	"math"

	geor3 "github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/meshinterp/geom"
)

const (
	// Eps is the relative tolerance of the geometric predicates. Lengths are
	// measured against the extent of the point set.
	Eps = 1e-10
	// ContainEps is how far outside a simplex, in barycentric units, a point
	// may lie and still be enclosed by it.
	ContainEps = 1e-9
	// sphereEps is the relative amount by which a point must fall inside a
	// circumsphere to violate the Delaunay criterion. Cospherical points do
	// not.
	sphereEps = 1e-9
)

var (
	// ErrDegenerateGeometry is returned when no simplex can be found for a
	// query. Errors returned by this package which describe a more specific
	// cause wrap it.
	ErrDegenerateGeometry = errors.New("tess: degenerate geometry")
	// ErrFlat is returned when the points are coincident, collinear or
	// coplanar.
	ErrFlat = errors.Wrap(ErrDegenerateGeometry, "points do not span three dimensions")
	// ErrOutside is returned when the query point is not enclosed by any
	// Delaunay simplex of the points.
	ErrOutside = errors.Wrap(ErrDegenerateGeometry, "no simplex encloses the query point")
)

// Simplex is a tetrahedron given as four indices into a point set. The
// indices are increasing.
type Simplex [4]int

// Tetra returns the corners of s.
func (s Simplex) Tetra(points []r3.Vec) geom.Tetra {
	return geom.Tetra{points[s[0]], points[s[1]], points[s[2]], points[s[3]]}
}

// Tessellation is the set of Delaunay simplices of a point set. When five or
// more points are cospherical every tetrahedron with an empty circumsphere is
// kept, so simplices may overlap.
type Tessellation struct {
	Points    []r3.Vec
	Simplices []Simplex
	extent    float64
}

// Tessellate computes every Delaunay simplex of points. It is exhaustive and
// meant for small sets.
func Tessellate(points []r3.Vec) (*Tessellation, error) {
	extent := geom.Extent(points)
	if dim, _ := geom.AffineDim(points, Eps*extent); dim < 3 {
		return nil, ErrFlat
	}

	t := &Tessellation{
		Points: append([]r3.Vec(nil), points...), extent: extent,
	}
	minVol := Eps * extent * extent * extent

	eachSimplex(len(points), func(s Simplex) {
		tet := s.Tetra(points)
		if tet.Volume() > minVol && emptySphere(points, s, &tet) {
			t.Simplices = append(t.Simplices, s)
		}
	})

	return t, nil
}

// Locate returns the simplex of t which encloses q.
func (t *Tessellation) Locate(q r3.Vec) (Simplex, error) {
	best, bestW := Simplex{}, math.Inf(-1)
	for _, s := range t.Simplices {
		tet := s.Tetra(t.Points)
		w, ok := tet.Barycentric(q, 0)
		if !ok {
			continue
		}
		if m := geom.MinCoord(&w); m >= -ContainEps && m > bestW {
			best, bestW = s, m
		}
	}

	if math.IsInf(bestW, -1) {
		return Simplex{}, ErrOutside
	}
	return best, nil
}

// Locate returns the Delaunay simplex of points which encloses q. If several
// do, the one whose smallest barycentric coordinate at q is largest is
// returned, and ties go to the first in lexicographic order.
//
// An error wrapping ErrDegenerateGeometry is returned if the points do not
// span three dimensions or if q is outside of all of their simplices.
func Locate(points []r3.Vec, q r3.Vec) (Simplex, error) {
	extent := geom.Extent(points)
	if dim, _ := geom.AffineDim(points, Eps*extent); dim < 3 {
		return Simplex{}, ErrFlat
	}
	if !inHull(points, q, Eps*extent) {
		return Simplex{}, ErrOutside
	}

	minVol := Eps * extent * extent * extent
	best, bestW := Simplex{}, math.Inf(-1)

	eachSimplex(len(points), func(s Simplex) {
		tet := s.Tetra(points)
		w, ok := tet.Barycentric(q, minVol)
		if !ok {
			return
		}
		m := geom.MinCoord(&w)
		if m < -ContainEps || m <= bestW {
			return
		}
		if emptySphere(points, s, &tet) {
			best, bestW = s, m
		}
	})

	if math.IsInf(bestW, -1) {
		return Simplex{}, ErrOutside
	}
	return best, nil
}

// eachSimplex calls fn on every 4-subset of [0, n) in lexicographic order.
func eachSimplex(n int, fn func(Simplex)) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for l := k + 1; l < n; l++ {
					fn(Simplex{i, j, k, l})
				}
			}
		}
	}
}

// emptySphere returns true if no point outside of s lies strictly inside the
// circumsphere of tet.
func emptySphere(points []r3.Vec, s Simplex, tet *geom.Tetra) bool {
	c, r2, ok := tet.Circumsphere()
	if !ok || math.IsInf(r2, 0) || math.IsNaN(r2) {
		return false
	}

	lim := r2 * (1 - sphereEps)
	for i := range points {
		if i == s[0] || i == s[1] || i == s[2] || i == s[3] {
			continue
		}
		if r3.Norm2(r3.Sub(points[i], c)) < lim {
			return false
		}
	}
	return true
}

// inHull returns false if q is farther than tol outside the convex hull of
// points. points must span three dimensions.
func inHull(points []r3.Vec, q r3.Vec, tol float64) bool {
	cloud := make([]geor3.Vector, len(points))
	var centroid r3.Vec
	for i, p := range points {
		cloud[i] = geor3.Vector{X: p.X, Y: p.Y, Z: p.Z}
		centroid = r3.Add(centroid, p)
	}
	centroid = r3.Scale(1/float64(len(points)), centroid)

	qh := new(quickhull.QuickHull)
	hull := qh.ConvexHull(cloud, true, true, 0)
	if len(hull.Indices) < 12 {
		// Not a closed polyhedron. Leave the decision to the simplex search.
		return true
	}

	for f := 0; f+2 < len(hull.Indices); f += 3 {
		a := points[hull.Indices[f]]
		b := points[hull.Indices[f+1]]
		c := points[hull.Indices[f+2]]

		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		norm := r3.Norm(n)
		if norm == 0 {
			continue
		}
		n = r3.Scale(1/norm, n)

		// The centroid is strictly inside, so the face points outward on the
		// side the centroid is not.
		dc := r3.Dot(r3.Sub(centroid, a), n)
		dq := r3.Dot(r3.Sub(q, a), n)
		if dc == 0 {
			continue
		}
		if dc > 0 {
			dq = -dq
		}
		if dq > tol {
			return false
		}
	}
	return true
}
