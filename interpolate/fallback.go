package interpolate

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scheme identifies a low-order interpolation scheme used when no enclosing
// tetrahedron can be found.
type Scheme int

const (
	SchemeInverseDistance Scheme = iota
	SchemeMean
	SchemeNearest
	SchemeConstant
)

var schemeNames = []string{"InverseDistance", "Mean", "Nearest", "Constant"}

func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// ParseScheme returns the Scheme with the given name. Case is ignored.
func ParseScheme(name string) (Scheme, error) {
	for i, n := range schemeNames {
		if strings.EqualFold(n, name) {
			return Scheme(i), nil
		}
	}
	return 0, errors.Errorf(
		"interpolate: unknown fallback scheme '%s', valid schemes are %s",
		name, strings.Join(schemeNames, ", "),
	)
}

// Fallback is a configured low-order scheme.
type Fallback struct {
	Scheme   Scheme
	Power    float64 // Distance exponent of SchemeInverseDistance.
	Constant float64 // Value returned by SchemeConstant.
}

// DefaultFallback is inverse distance weighting with an exponent of 1.
var DefaultFallback = Fallback{Scheme: SchemeInverseDistance, Power: 1}

// Eval applies the scheme to the nodes at pos with values vals.
func (f Fallback) Eval(
	pos []r3.Vec, vals [][]float64, q r3.Vec, out []float64,
) []float64 {
	switch f.Scheme {
	case SchemeMean:
		return Mean(vals, out)
	case SchemeNearest:
		return Nearest(pos, vals, q, out)
	case SchemeConstant:
		return Constant(f.Constant, len(vals[0]), out)
	default:
		return InverseDistance(pos, vals, q, f.Power, out)
	}
}

// InverseDistance returns sum(v_i / d_i^p) / sum(1 / d_i^p), where d_i is the
// distance from q to pos[i]. If q coincides with a node, that node's values
// are returned.
func InverseDistance(
	pos []r3.Vec, vals [][]float64, q r3.Vec, power float64, out []float64,
) []float64 {
	out = output(out, len(vals[0]))
	for c := range out {
		out[c] = 0
	}

	norm := 0.0
	for i, p := range pos {
		d := r3.Norm(r3.Sub(p, q))
		if d == 0 {
			copy(out, vals[i])
			return out
		}

		w := math.Pow(d, -power)
		norm += w
		floats.AddScaled(out, w, vals[i])
	}

	floats.Scale(1/norm, out)
	return out
}

// Mean returns the unweighted mean of vals.
func Mean(vals [][]float64, out []float64) []float64 {
	out = output(out, len(vals[0]))
	for c := range out {
		out[c] = 0
	}
	for _, v := range vals {
		floats.Add(out, v)
	}
	floats.Scale(1/float64(len(vals)), out)
	return out
}

// Nearest returns the values of the node closest to q. Ties go to the lowest
// index.
func Nearest(pos []r3.Vec, vals [][]float64, q r3.Vec, out []float64) []float64 {
	best, bestD2 := 0, math.Inf(+1)
	for i, p := range pos {
		if d2 := r3.Norm2(r3.Sub(p, q)); d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}

	out = output(out, len(vals[0]))
	copy(out, vals[best])
	return out
}

// Constant fills a result of n channels with x.
func Constant(x float64, n int, out []float64) []float64 {
	out = output(out, n)
	for c := range out {
		out[c] = x
	}
	return out
}
