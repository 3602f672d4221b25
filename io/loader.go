/*package io reads node files and slice configuration files and writes the
results of slice scans.
*/
package io

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"
	"github.com/pkg/errors"

	"github.com/phil-mansfield/meshinterp/nodes"
)

const (
	FormatCSV   = "csv"
	FormatTable = "table"
)

var formats = map[string]bool{FormatCSV: true, FormatTable: true}

var (
	_ nodes.Loader = &CSVLoader{}
	_ nodes.Loader = &TableLoader{}
)

// NewLoader returns a Loader for the given format, which is one of "CSV" and
// "Table" (case is ignored). If channels is zero, every column after the id
// column of the value file is read.
func NewLoader(format, nodeFile, valueFile string, channels int) (nodes.Loader, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return &CSVLoader{NodeFile: nodeFile, ValueFile: valueFile, Channels: channels}, nil
	case FormatTable:
		if channels == 0 {
			channels = 1
		}
		return NewTableLoader(nodeFile, valueFile, channels), nil
	}
	return nil, errors.Errorf("io: unrecognized node file format '%s'", format)
}

// CSVLoader reads comma-separated node files. Both files start with a single
// header row. Rows of NodeFile are id, x, y, z and rows of ValueFile are id,
// v1, v2, ...
type CSVLoader struct {
	NodeFile, ValueFile string
	// Channels is the number of values read from each row of ValueFile. Zero
	// means every column after the id.
	Channels int
}

// Positions reads NodeFile.
func (l *CSVLoader) Positions() ([]nodes.PositionRecord, error) {
	rows, err := readCSV(l.NodeFile)
	if err != nil {
		return nil, err
	}

	out := make([]nodes.PositionRecord, len(rows))
	for i, row := range rows {
		if len(row) < 4 {
			return nil, errors.Errorf(
				"io: line %d of %s has %d columns, expected id, x, y, z",
				i+2, l.NodeFile, len(row),
			)
		}
		xs, err := parseFloats(row[:4])
		if err != nil {
			return nil, errors.Wrapf(err, "io: line %d of %s", i+2, l.NodeFile)
		}
		id, err := toID(xs[0])
		if err != nil {
			return nil, errors.Wrapf(err, "io: line %d of %s", i+2, l.NodeFile)
		}
		out[i] = nodes.PositionRecord{ID: id, Pos: [3]float64{xs[1], xs[2], xs[3]}}
	}
	return out, nil
}

// Values reads ValueFile.
func (l *CSVLoader) Values() ([]nodes.ValueRecord, error) {
	rows, err := readCSV(l.ValueFile)
	if err != nil {
		return nil, err
	}

	out := make([]nodes.ValueRecord, len(rows))
	for i, row := range rows {
		n := len(row) - 1
		if l.Channels > 0 {
			n = l.Channels
		}
		if n < 1 || len(row) < n+1 {
			return nil, errors.Errorf(
				"io: line %d of %s has %d columns, expected an id and %d values",
				i+2, l.ValueFile, len(row), n,
			)
		}

		xs, err := parseFloats(row[:n+1])
		if err != nil {
			return nil, errors.Wrapf(err, "io: line %d of %s", i+2, l.ValueFile)
		}
		id, err := toID(xs[0])
		if err != nil {
			return nil, errors.Wrapf(err, "io: line %d of %s", i+2, l.ValueFile)
		}
		out[i] = nodes.ValueRecord{ID: id, Vals: xs[1:]}
	}
	return out, nil
}

// readCSV returns every row of a CSV file after the header.
func readCSV(fname string) ([][]string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "io")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.Comment = '#'

	if _, err := r.Read(); err == io.EOF {
		return nil, errors.Errorf("io: %s is empty", fname)
	} else if err != nil {
		return nil, errors.Wrapf(err, "io: reading header of %s", fname)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "io: reading %s", fname)
	}
	return rows, nil
}

func parseFloats(strs []string) ([]float64, error) {
	out := make([]float64, len(strs))
	for i, s := range strs {
		x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// toID converts a node id read as a float to an integer.
func toID(x float64) (int64, error) {
	if x != math.Trunc(x) || math.Abs(x) > 1<<53 {
		return 0, errors.Errorf("node id %g is not an integer", x)
	}
	return int64(x), nil
}

// TableLoader reads whitespace-separated text tables.
type TableLoader struct {
	NodeFile, ValueFile string
	// NodeColumns are the columns of the id, x, y and z of each node.
	NodeColumns [4]int
	// ValueColumns are the columns of the id and then every value of each
	// node.
	ValueColumns []int
}

// NewTableLoader returns a TableLoader where nodes are stored as id, x, y, z
// and values as id, v1, ..., v_channels.
func NewTableLoader(nodeFile, valueFile string, channels int) *TableLoader {
	l := &TableLoader{
		NodeFile: nodeFile, ValueFile: valueFile,
		NodeColumns:  [4]int{0, 1, 2, 3},
		ValueColumns: make([]int, channels+1),
	}
	for i := range l.ValueColumns {
		l.ValueColumns[i] = i
	}
	return l
}

// Positions reads NodeFile.
func (l *TableLoader) Positions() ([]nodes.PositionRecord, error) {
	cols, err := table.ReadTable(l.NodeFile, l.NodeColumns[:], nil)
	if err != nil {
		return nil, errors.Wrapf(err, "io: reading %s", l.NodeFile)
	}

	ids, xs, ys, zs := cols[0], cols[1], cols[2], cols[3]
	out := make([]nodes.PositionRecord, len(ids))
	for i := range out {
		id, err := toID(ids[i])
		if err != nil {
			return nil, errors.Wrapf(err, "io: row %d of %s", i, l.NodeFile)
		}
		out[i] = nodes.PositionRecord{ID: id, Pos: [3]float64{xs[i], ys[i], zs[i]}}
	}
	return out, nil
}

// Values reads ValueFile.
func (l *TableLoader) Values() ([]nodes.ValueRecord, error) {
	if len(l.ValueColumns) < 2 {
		return nil, errors.Errorf(
			"io: %d value columns given, need an id and at least one value",
			len(l.ValueColumns),
		)
	}

	cols, err := table.ReadTable(l.ValueFile, l.ValueColumns, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "io: reading %s", l.ValueFile)
	}

	ids := cols[0]
	out := make([]nodes.ValueRecord, len(ids))
	for i := range out {
		id, err := toID(ids[i])
		if err != nil {
			return nil, errors.Wrapf(err, "io: row %d of %s", i, l.ValueFile)
		}
		vals := make([]float64, len(cols)-1)
		for c := range vals {
			vals[c] = cols[c+1][i]
		}
		out[i] = nodes.ValueRecord{ID: id, Vals: vals}
	}
	return out, nil
}
