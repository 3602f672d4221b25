/*package geom contains the geometric predicates used to tessellate and
interpolate over unstructured point sets: signed volumes, barycentric
coordinates, circumspheres and affine spans of small point sets.
*/
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Tetra is a tetrahedron. (Duh!)
type Tetra [4]r3.Vec

// SignedVolume computes the signed volume of the tetrahedron with the given
// corners. The sign is positive if c4 is on the side of the plane (c1, c2, c3)
// that (c2 - c1) x (c3 - c1) points towards.
func SignedVolume(c1, c2, c3, c4 r3.Vec) float64 {
	u, v, w := r3.Sub(c2, c1), r3.Sub(c3, c1), r3.Sub(c4, c1)
	return r3.Dot(u, r3.Cross(v, w)) / 6.0
}

// SignedVolume computes the signed volume of a tetrahedron.
func (t *Tetra) SignedVolume() float64 {
	return SignedVolume(t[0], t[1], t[2], t[3])
}

// Volume computes the volume of a tetrahedron.
func (t *Tetra) Volume() float64 {
	return math.Abs(t.SignedVolume())
}

// Barycentric computes the barycentric coordinates of v with respect to the
// corners of t. Each coordinate is the signed volume of the tetrahedron
// obtained by replacing that corner with v, divided by the volume of t, so
// the coordinates always sum to one.
//
// ok is false if the volume of t is not larger than minVol, in which case the
// coordinates are meaningless.
func (t *Tetra) Barycentric(v r3.Vec, minVol float64) (w [4]float64, ok bool) {
	vol := t.SignedVolume()
	if math.Abs(vol) <= minVol || math.IsNaN(vol) {
		return w, false
	}

	w[0] = SignedVolume(v, t[1], t[2], t[3]) / vol
	w[1] = SignedVolume(t[0], v, t[2], t[3]) / vol
	w[2] = SignedVolume(t[0], t[1], v, t[3]) / vol
	w[3] = SignedVolume(t[0], t[1], t[2], v) / vol
	return w, true
}

// Contains returns true if v is inside t or within tol (in barycentric units)
// of its boundary. Degenerate tetrahedra contain nothing.
func (t *Tetra) Contains(v r3.Vec, tol float64) bool {
	w, ok := t.Barycentric(v, 0)
	if !ok {
		return false
	}
	return MinCoord(&w) >= -tol
}

// MinCoord returns the smallest of a set of barycentric coordinates.
func MinCoord(w *[4]float64) float64 {
	min := w[0]
	for i := 1; i < 4; i++ {
		if w[i] < min {
			min = w[i]
		}
	}
	return min
}

// Circumsphere returns the center and squared radius of the sphere passing
// through all four corners of t. ok is false if t is flat.
func (t *Tetra) Circumsphere() (center r3.Vec, r2 float64, ok bool) {
	u, v, w := r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]), r3.Sub(t[3], t[0])
	vw, wu, uv := r3.Cross(v, w), r3.Cross(w, u), r3.Cross(u, v)

	den := 2 * r3.Dot(u, vw)
	if den == 0 || math.IsNaN(den) {
		return center, 0, false
	}

	off := r3.Add(r3.Add(r3.Scale(r3.Norm2(u), vw), r3.Scale(r3.Norm2(v), wu)),
		r3.Scale(r3.Norm2(w), uv))
	off = r3.Scale(1/den, off)

	return r3.Add(t[0], off), r3.Norm2(off), true
}

// Barycenter computes the barycenter of a tetrahedron.
func (t *Tetra) Barycenter() r3.Vec {
	sum := r3.Add(r3.Add(t[0], t[1]), r3.Add(t[2], t[3]))
	return r3.Scale(0.25, sum)
}
