/*package nodes holds the immutable node set that a field is interpolated
from: node positions and the values sampled at them, aligned by node id.
*/
package nodes

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrEmpty is returned when a Store would contain no nodes.
	ErrEmpty = errors.New("nodes: no nodes given")
	// ErrChannels is returned when value records do not all carry the same,
	// positive, number of channels.
	ErrChannels = errors.New("nodes: inconsistent value channels")
	// ErrNonFinite is returned when a node position is NaN or infinite.
	ErrNonFinite = errors.New("nodes: non-finite node position")
)

// AlignmentError is returned when the position and value records do not
// describe the same set of node ids.
type AlignmentError struct {
	Index        int   // Position in the id-sorted records, or -1.
	PosID, ValID int64 // Ids found at Index.
	Positions    int   // Number of position records.
	Values       int   // Number of value records.
	Duplicate    bool  // PosID appears more than once.
}

func (e *AlignmentError) Error() string {
	switch {
	case e.Positions != e.Values:
		return fmt.Sprintf(
			"nodes: %d position records but %d value records",
			e.Positions, e.Values,
		)
	case e.Duplicate:
		return fmt.Sprintf(
			"nodes: node id %d appears more than once", e.PosID,
		)
	default:
		return fmt.Sprintf(
			"nodes: position id %d does not match value id %d at index %d",
			e.PosID, e.ValID, e.Index,
		)
	}
}

// PositionRecord is the position of a single node.
type PositionRecord struct {
	ID  int64
	Pos [3]float64
}

// ValueRecord holds the field value(s) at a single node.
type ValueRecord struct {
	ID   int64
	Vals []float64
}

// Loader produces position and value records from some external source. Each
// id must appear exactly once in each of the two record sets.
type Loader interface {
	Positions() ([]PositionRecord, error)
	Values() ([]ValueRecord, error)
}

// Store is an id-sorted set of node positions and values. It is read-only
// after construction and may be shared between goroutines.
type Store struct {
	ids      []int64
	pos      []r3.Vec
	vals     []float64
	channels int
}

// Load reads the records supplied by l and aligns them into a Store.
func Load(l Loader) (*Store, error) {
	pos, err := l.Positions()
	if err != nil {
		return nil, errors.Wrap(err, "nodes: loading positions")
	}
	vals, err := l.Values()
	if err != nil {
		return nil, errors.Wrap(err, "nodes: loading values")
	}
	return New(pos, vals)
}

// New sorts the position and value records by id and verifies that they are
// pairwise identity-matched. The input slices are not modified.
func New(pos []PositionRecord, vals []ValueRecord) (*Store, error) {
	if len(pos) != len(vals) {
		return nil, &AlignmentError{
			Index: -1, Positions: len(pos), Values: len(vals),
		}
	} else if len(pos) == 0 {
		return nil, ErrEmpty
	}

	pos = append([]PositionRecord(nil), pos...)
	vals = append([]ValueRecord(nil), vals...)
	sort.SliceStable(pos, func(i, j int) bool { return pos[i].ID < pos[j].ID })
	sort.SliceStable(vals, func(i, j int) bool { return vals[i].ID < vals[j].ID })

	channels := len(vals[0].Vals)
	if channels == 0 {
		return nil, errors.Wrapf(ErrChannels, "node %d has no values", vals[0].ID)
	}

	s := &Store{
		ids:      make([]int64, len(pos)),
		pos:      make([]r3.Vec, len(pos)),
		vals:     make([]float64, len(pos)*channels),
		channels: channels,
	}

	for i := range pos {
		if pos[i].ID != vals[i].ID {
			return nil, &AlignmentError{
				Index: i, PosID: pos[i].ID, ValID: vals[i].ID,
				Positions: len(pos), Values: len(vals),
			}
		} else if i > 0 && pos[i].ID == pos[i-1].ID {
			return nil, &AlignmentError{
				Index: i, PosID: pos[i].ID, ValID: vals[i].ID,
				Positions: len(pos), Values: len(vals), Duplicate: true,
			}
		} else if len(vals[i].Vals) != channels {
			return nil, errors.Wrapf(
				ErrChannels, "node %d has %d values, expected %d",
				vals[i].ID, len(vals[i].Vals), channels,
			)
		}

		p := pos[i].Pos
		if !finite(p[0]) || !finite(p[1]) || !finite(p[2]) {
			return nil, errors.Wrapf(ErrNonFinite, "node %d at %v", pos[i].ID, p)
		}

		s.ids[i] = pos[i].ID
		s.pos[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
		copy(s.vals[i*channels:(i+1)*channels], vals[i].Vals)
	}

	return s, nil
}

// FromSlices creates a Store from index-aligned positions and values. Node ids
// are the slice indices.
func FromSlices(positions [][3]float64, values [][]float64) (*Store, error) {
	pos := make([]PositionRecord, len(positions))
	for i := range positions {
		pos[i] = PositionRecord{ID: int64(i), Pos: positions[i]}
	}
	vals := make([]ValueRecord, len(values))
	for i := range values {
		vals[i] = ValueRecord{ID: int64(i), Vals: values[i]}
	}
	return New(pos, vals)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Len returns the number of nodes.
func (s *Store) Len() int { return len(s.ids) }

// Channels returns the number of values stored at each node.
func (s *Store) Channels() int { return s.channels }

// ID returns the external id of node i.
func (s *Store) ID(i int) int64 { return s.ids[i] }

// Position returns the position of node i.
func (s *Store) Position(i int) r3.Vec { return s.pos[i] }

// Value returns the values at node i. The returned slice aliases the Store's
// internal buffer and must not be modified.
func (s *Store) Value(i int) []float64 {
	return s.vals[i*s.channels : (i+1)*s.channels : (i+1)*s.channels]
}

// IDs returns a copy of the node ids, in storage order.
func (s *Store) IDs() []int64 {
	return append([]int64(nil), s.ids...)
}

// Positions returns a copy of the node positions, in storage order.
func (s *Store) Positions() []r3.Vec {
	return append([]r3.Vec(nil), s.pos...)
}

// Values returns a copy of the node values, in storage order.
func (s *Store) Values() [][]float64 {
	out := make([][]float64, s.Len())
	for i := range out {
		out[i] = append([]float64(nil), s.Value(i)...)
	}
	return out
}
