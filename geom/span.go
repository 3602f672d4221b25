package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds returns the corners of the axis-aligned bounding box of ps.
func Bounds(ps []r3.Vec) (min, max r3.Vec) {
	if len(ps) == 0 {
		return min, max
	}

	min, max = ps[0], ps[0]
	for _, p := range ps[1:] {
		min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
		min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
		min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
	}
	return min, max
}

// Extent returns the length of the diagonal of the bounding box of ps. It is
// the length scale that tolerances in this package are measured against.
func Extent(ps []r3.Vec) float64 {
	min, max := Bounds(ps)
	return r3.Norm(r3.Sub(max, min))
}

// AffineDim returns the dimension of the affine hull of ps: -1 for an empty
// set, 0 for coincident points, 1 for collinear points, 2 for coplanar points
// and 3 otherwise. Distances not larger than tol are treated as zero.
//
// idxs holds the indices of dim+1 points which span the hull. They are chosen
// greedily (farthest from the current span, first index on ties).
func AffineDim(ps []r3.Vec, tol float64) (dim int, idxs [4]int) {
	if len(ps) == 0 {
		return -1, idxs
	}
	p0 := ps[0]

	// Farthest point from p0.
	i1, d1 := farthest(ps, func(p r3.Vec) float64 {
		return r3.Norm(r3.Sub(p, p0))
	})
	if d1 <= tol {
		return 0, idxs
	}
	idxs[1] = i1
	dir := r3.Unit(r3.Sub(ps[i1], p0))

	// Farthest point from the line (p0, p1).
	i2, d2 := farthest(ps, func(p r3.Vec) float64 {
		return r3.Norm(r3.Cross(r3.Sub(p, p0), dir))
	})
	if d2 <= tol {
		return 1, idxs
	}
	idxs[2] = i2
	n := r3.Unit(r3.Cross(r3.Sub(ps[i1], p0), r3.Sub(ps[i2], p0)))

	// Farthest point from the plane (p0, p1, p2).
	i3, d3 := farthest(ps, func(p r3.Vec) float64 {
		return math.Abs(r3.Dot(r3.Sub(p, p0), n))
	})
	if d3 <= tol {
		return 2, idxs
	}
	idxs[3] = i3

	return 3, idxs
}

func farthest(ps []r3.Vec, dist func(r3.Vec) float64) (idx int, d float64) {
	for i := range ps {
		if di := dist(ps[i]); di > d {
			idx, d = i, di
		}
	}
	return idx, d
}
