/*package meshinterp evaluates a field which is only known at a scattered set
of nodes at arbitrary points in 3D space.

Each query point is handled independently: its nearest nodes are found with a
k-d tree, the Delaunay simplex of those nodes which encloses the point is
located, and the node values are linearly interpolated across it. When no
simplex encloses the point, or when the interpolated value falls outside of
the range of the simplex's values, a configurable low-order scheme is used
instead.
*/
package meshinterp

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/meshinterp/interpolate"
	"github.com/phil-mansfield/meshinterp/nodes"
	"github.com/phil-mansfield/meshinterp/spatial"
	"github.com/phil-mansfield/meshinterp/tess"
)

// Field is an interpolated field. It is immutable and safe for concurrent
// use.
type Field struct {
	store *nodes.Store
	index *spatial.Index
	cfg   Config
	log   *logrus.Logger
}

var _ interpolate.TriInterpolator = &Field{}

// workspace holds the per-query buffers of a single worker.
type workspace struct {
	pos  []r3.Vec
	vals [][]float64
}

func newWorkspace(k int) *workspace {
	return &workspace{
		pos:  make([]r3.Vec, 0, k),
		vals: make([][]float64, 0, k),
	}
}

// New creates a Field over the nodes in store.
func New(store *nodes.Store, cfg Config) (*Field, error) {
	if store == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "nil node store")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ValueChannels == 0 {
		cfg.ValueChannels = store.Channels()
	} else if cfg.ValueChannels != store.Channels() {
		return nil, errors.Wrapf(
			ErrInvalidConfig, "ValueChannels is %d, but nodes have %d values",
			cfg.ValueChannels, store.Channels(),
		)
	}

	index, err := spatial.Build(store.Positions())
	if err != nil {
		return nil, errors.Wrap(err, "meshinterp: building spatial index")
	}

	f := &Field{store: store, index: index, cfg: cfg, log: cfg.logger()}
	f.log.WithFields(logrus.Fields{
		"nodes":     store.Len(),
		"channels":  store.Channels(),
		"neighbors": cfg.NeighborCount,
		"fallback":  cfg.Fallback.Scheme,
	}).Debug("meshinterp: built field")

	return f, nil
}

// NewFromSlices creates a Field from index-aligned node positions and values.
func NewFromSlices(
	positions [][3]float64, values [][]float64, cfg Config,
) (*Field, error) {
	store, err := nodes.FromSlices(positions, values)
	if err != nil {
		return nil, err
	}
	return New(store, cfg)
}

// Nodes returns the node store the Field interpolates.
func (f *Field) Nodes() *nodes.Store { return f.store }

// Config returns the Field's configuration.
func (f *Field) Config() Config { return f.cfg }

// Query evaluates the field at q, which must have three coordinates.
func (f *Field) Query(q []float64) (Result, error) {
	if len(q) != 3 {
		return Result{}, &ShapeError{Index: -1, Len: len(q)}
	}
	return f.QueryVec(r3.Vec{X: q[0], Y: q[1], Z: q[2]}), nil
}

// QueryVec evaluates the field at q.
func (f *Field) QueryVec(q r3.Vec) Result {
	return f.eval(q, newWorkspace(f.cfg.NeighborCount))
}

// QueryBatch evaluates the field at every point in qs and returns the results
// in the same order. The shape of every point is checked before any are
// evaluated. If d is nil, the Dispatcher described by Config.Workers is used.
func (f *Field) QueryBatch(qs [][]float64, d Dispatcher) ([]Result, error) {
	for i := range qs {
		if len(qs[i]) != 3 {
			return nil, &ShapeError{Index: i, Len: len(qs[i])}
		}
	}
	if d == nil {
		d = dispatcher(f.cfg.Workers)
	}

	out := make([]Result, len(qs))
	ws := make([]*workspace, d.Workers())
	for i := range ws {
		ws[i] = newWorkspace(f.cfg.NeighborCount)
	}

	err := d.Dispatch(len(qs), func(w, i int) error {
		q := qs[i]
		out[i] = f.eval(r3.Vec{X: q[0], Y: q[1], Z: q[2]}, ws[w])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Eval returns the first channel of the field at (x, y, z).
func (f *Field) Eval(x, y, z float64) float64 {
	return f.QueryVec(r3.Vec{X: x, Y: y, Z: z}).Values[0]
}

// EvalAll evaluates the first channel of the field at every (xs[i], ys[i],
// zs[i]). If an output array is given, the output is written to that array
// (the array is still returned as a convenience).
//
// If more than one output array is provided, only the first is used.
func (f *Field) EvalAll(xs, ys, zs []float64, out ...[]float64) []float64 {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		panic("Length of input slices are not equal.")
	}
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}

	w := newWorkspace(f.cfg.NeighborCount)
	for i := range xs {
		out[0][i] = f.eval(r3.Vec{X: xs[i], Y: ys[i], Z: zs[i]}, w).Values[0]
	}
	return out[0]
}

func (f *Field) eval(q r3.Vec, w *workspace) Result {
	if !finite(q) {
		return f.outOfBounds(q, "non-finite query point")
	}

	ns := f.index.Query(q, f.cfg.NeighborCount)
	if len(ns) < spatial.MinNeighbors {
		return f.outOfBounds(q, "too few nodes to form a tetrahedron")
	}
	if ns[0].Dist == 0 {
		return Result{
			Values: append([]float64(nil), f.store.Value(ns[0].Index)...),
			Method: MethodExact,
		}
	}

	w.pos, w.vals = w.pos[:0], w.vals[:0]
	for _, n := range ns {
		w.pos = append(w.pos, f.store.Position(n.Index))
		w.vals = append(w.vals, f.store.Value(n.Index))
	}

	s, err := tess.Locate(w.pos, q)
	if err != nil {
		return f.fallback(q, w.pos, w.vals, err)
	}

	var (
		sPos  [4]r3.Vec
		sVals [4][]float64
	)
	for i, j := range s {
		sPos[i], sVals[i] = w.pos[j], w.vals[j]
	}

	out, err := interpolate.Barycentric(sPos, sVals, q, nil)
	if err != nil {
		return f.fallback(q, w.pos, w.vals, err)
	}
	if !interpolate.InRange(out, sVals[:]) {
		return f.fallback(q, w.pos, w.vals, errOutOfRange)
	}

	return Result{Values: out, Method: MethodBarycentric}
}

var errOutOfRange = errors.New("barycentric value outside of simplex range")

func (f *Field) fallback(
	q r3.Vec, pos []r3.Vec, vals [][]float64, reason error,
) Result {
	if f.log.IsLevelEnabled(logrus.DebugLevel) {
		f.log.WithFields(logrus.Fields{
			"point":  q,
			"nodes":  len(pos),
			"scheme": f.cfg.Fallback.Scheme,
		}).Debugf("meshinterp: falling back: %v", reason)
	}

	out := f.cfg.Fallback.Eval(pos, vals, q, nil)
	return Result{Values: out, Method: fallbackMethods[f.cfg.Fallback.Scheme]}
}

var fallbackMethods = map[interpolate.Scheme]Method{
	interpolate.SchemeInverseDistance: MethodInverseDistance,
	interpolate.SchemeMean:            MethodMean,
	interpolate.SchemeNearest:         MethodNearest,
	interpolate.SchemeConstant:        MethodConstant,
}

func (f *Field) outOfBounds(q r3.Vec, reason string) Result {
	if f.log.IsLevelEnabled(logrus.DebugLevel) {
		f.log.WithField("point", q).Debugf("meshinterp: out of bounds: %s", reason)
	}

	vals := make([]float64, f.cfg.ValueChannels)
	for i := range vals {
		vals[i] = f.cfg.OutOfBoundsValue
	}
	return Result{Values: vals, Method: MethodOutOfBounds}
}

func finite(v r3.Vec) bool {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
