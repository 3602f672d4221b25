/*package interpolate estimates field values at a query point from the values
at nearby nodes: linear interpolation across an enclosing tetrahedron, and a
family of low-order schemes for when no tetrahedron is available.
*/
package interpolate

// TriInterpolator is a scalar field which can be evaluated anywhere in 3D
// space.
type TriInterpolator interface {
	Eval(x, y, z float64) float64
	EvalAll(xs, ys, zs []float64, out ...[]float64) []float64
}

// output returns a slice of length n, reusing out if it is large enough.
func output(out []float64, n int) []float64 {
	if cap(out) >= n {
		return out[:n]
	}
	return make([]float64, n)
}
