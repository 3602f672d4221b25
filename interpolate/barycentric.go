package interpolate

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/meshinterp/geom"
)

// ErrSingularMatrix is returned when the barycentric system of a tetrahedron
// cannot be solved reliably.
var ErrSingularMatrix = errors.New("interpolate: singular barycentric system")

// Weights returns the barycentric weights of q with respect to the corners
// in pos. They are the solution of
//
//	[ 1    1    1    1   ] [w0]   [1  ]
//	[ x0   x1   x2   x3  ] [w1] = [q.X]
//	[ y0   y1   y2   y3  ] [w2]   [q.Y]
//	[ z0   z1   z2   z3  ] [w3]   [q.Z]
//
// The corners are shifted so that q is at the origin and scaled by the size of
// the tetrahedron before solving, which leaves the weights unchanged.
func Weights(pos *[4]r3.Vec, q r3.Vec) (w [4]float64, err error) {
	scale := geom.Extent(pos[:])
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return w, ErrSingularMatrix
	}

	a := mat.NewDense(4, 4, nil)
	for j := range pos {
		d := r3.Scale(1/scale, r3.Sub(pos[j], q))
		a.Set(0, j, 1)
		a.Set(1, j, d.X)
		a.Set(2, j, d.Y)
		a.Set(3, j, d.Z)
	}

	lu := &mat.LU{}
	lu.Factorize(a)

	b := mat.NewVecDense(4, []float64{1, 0, 0, 0})
	x := mat.NewVecDense(4, w[:])
	if err := lu.SolveVecTo(x, false, b); err != nil {
		return w, ErrSingularMatrix
	}

	for i := range w {
		if math.IsNaN(w[i]) || math.IsInf(w[i], 0) {
			return w, ErrSingularMatrix
		}
	}
	return w, nil
}

// Barycentric linearly interpolates the values at the corners of a
// tetrahedron to q. Each element of vals holds every channel at one corner.
// The result is written to out if it has room and is returned.
func Barycentric(
	pos [4]r3.Vec, vals [4][]float64, q r3.Vec, out []float64,
) ([]float64, error) {
	w, err := Weights(&pos, q)
	if err != nil {
		return nil, err
	}

	out = output(out, len(vals[0]))
	for c := range out {
		sum := 0.0
		for i := range vals {
			sum += w[i] * vals[i][c]
		}
		out[c] = sum
	}
	return out, nil
}

// InRange returns true if every channel of result lies between the smallest
// and largest value of that channel in vals.
func InRange(result []float64, vals [][]float64) bool {
	if len(vals) == 0 {
		return false
	}

	for c := range result {
		lo, hi := vals[0][c], vals[0][c]
		for _, v := range vals[1:] {
			lo, hi = math.Min(lo, v[c]), math.Max(hi, v[c])
		}
		if !(result[c] >= lo && result[c] <= hi) {
			return false
		}
	}
	return true
}
