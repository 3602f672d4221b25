package meshinterp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Method records how a Result was computed.
type Method int

const (
	// MethodOutOfBounds marks a result holding the out-of-bounds sentinel.
	MethodOutOfBounds Method = iota
	// MethodExact means the query point coincides with a node.
	MethodExact
	// MethodBarycentric means linear interpolation across an enclosing
	// Delaunay simplex.
	MethodBarycentric
	MethodInverseDistance
	MethodMean
	MethodNearest
	MethodConstant
)

var methodNames = []string{
	"OutOfBounds", "Exact", "Barycentric",
	"InverseDistance", "Mean", "Nearest", "Constant",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Result is the field value at a single query point.
type Result struct {
	Values []float64 // One value per channel.
	Method Method
}

// OutOfBounds returns true if r holds the out-of-bounds sentinel.
func (r Result) OutOfBounds() bool { return r.Method == MethodOutOfBounds }

// ShapeError is returned when a query point does not have three
// coordinates.
type ShapeError struct {
	Index int // Position of the point in a batch, or -1 for a single query.
	Len   int // Number of coordinates given.
}

func (e *ShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf(
			"meshinterp: query point has %d coordinates, expected 3", e.Len,
		)
	}
	return fmt.Sprintf(
		"meshinterp: query point %d has %d coordinates, expected 3",
		e.Index, e.Len,
	)
}

// IsShapeError returns true if err is or wraps a *ShapeError.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}
