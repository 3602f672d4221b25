package io

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/phil-mansfield/meshinterp"
)

// WriteSlice writes one row per query point with the columns x, y, z, value
// and method, where value is the given channel of the result.
func WriteSlice(
	w io.Writer, pts [][]float64, res []meshinterp.Result, channel int,
) error {
	if len(pts) != len(res) {
		return errors.Errorf(
			"io: %d points but %d results", len(pts), len(res),
		)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# x y z value method")
	for i := range pts {
		if channel >= len(res[i].Values) {
			return errors.Errorf(
				"io: channel %d requested, but results have %d channels",
				channel, len(res[i].Values),
			)
		}
		fmt.Fprintf(
			bw, "%.8g %.8g %.8g %.10g %s\n",
			pts[i][0], pts[i][1], pts[i][2], res[i].Values[channel],
			res[i].Method,
		)
	}
	return bw.Flush()
}

// WriteSliceFile writes a slice to the named file. See WriteSlice.
func WriteSliceFile(
	fname string, pts [][]float64, res []meshinterp.Result, channel int,
) error {
	f, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "io")
	}

	if err := WriteSlice(f, pts, res, channel); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
