package io

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/meshinterp"
	"github.com/phil-mansfield/meshinterp/interpolate"
)

const ExampleSliceFile = `[Field]

#######################
# Optional Parameters #
#######################

# Number of nearest nodes which are tessellated around each query point. Must
# be in the range [4, 32]. Larger values find an enclosing tetrahedron more
# often but make each query slower.
# NeighborCount = 10

# Value written to points where nothing can be interpolated (e.g. when there
# are fewer than four nodes).
# OutOfBoundsValue = 0

# Number of values at each node. If set, the value file must contain exactly
# this many value columns. By default this is read from the value file.
# ValueChannels = 1

# Scheme used when a query point is not inside any local Delaunay tetrahedron.
# Must be one of [ InverseDistance | Mean | Nearest | Constant ].
# Fallback = InverseDistance

# Exponent of the inverse distance weights.
# InverseDistancePower = 1

# Value returned by the Constant fallback.
# FallbackConstant = -0.1

# Number of goroutines used to evaluate the slice. Negative values use one per
# CPU, 0 and 1 evaluate sequentially.
# Workers = -1

[Input]

#######################
# Required Parameters #
#######################

# Node positions. For CSV input: one header row, then rows of id, x, y, z.
NodeFile = path/to/nodes.csv
# Node values. For CSV input: one header row, then rows of id, v1, v2, ...
ValueFile = path/to/values.csv

#######################
# Optional Parameters #
#######################

# Must be one of [ CSV | Table ]. Table files are whitespace-separated text
# with the same column layout as the CSV files and no header.
# Format = CSV

[Slice]

#######################
# Required Parameters #
#######################

# The slice is a regular XPoints x YPoints grid covering [XMin, XMax] x
# [YMin, YMax] at height Z.
XMin = -8.5
XMax = 0
YMin = -5
YMax = 12
Z = 0

# File that the slice is written to as a text table with columns
# x, y, z, value, method.
Output = path/to/slice.txt

#######################
# Optional Parameters #
#######################

# XPoints = 100
# YPoints = 200

# The value channel written to Output.
# Channel = 0

# If set, a plot of the slice profile along x is saved to this file.
# Plot = path/to/profile.png`

// FieldConfig is the [Field] section of a slice file.
type FieldConfig struct {
	NeighborCount        int
	OutOfBoundsValue     float64
	ValueChannels        int
	Fallback             string
	FallbackConstant     float64
	InverseDistancePower float64
	Workers              int
}

func (con *FieldConfig) ValidNeighborCount() bool {
	return con.NeighborCount >= meshinterp.MinNeighborCount &&
		con.NeighborCount <= meshinterp.MaxNeighborCount
}
func (con *FieldConfig) ValidValueChannels() bool {
	return con.ValueChannels >= 0
}
func (con *FieldConfig) ValidFallback() bool {
	_, err := interpolate.ParseScheme(con.Fallback)
	return err == nil
}
func (con *FieldConfig) ValidInverseDistancePower() bool {
	return con.InverseDistancePower > 0 &&
		!math.IsInf(con.InverseDistancePower, 0)
}

// Config converts con into a meshinterp.Config.
func (con *FieldConfig) Config() (meshinterp.Config, error) {
	scheme, err := interpolate.ParseScheme(con.Fallback)
	if err != nil {
		return meshinterp.Config{}, err
	}

	cfg := meshinterp.Config{
		NeighborCount:    con.NeighborCount,
		OutOfBoundsValue: con.OutOfBoundsValue,
		ValueChannels:    con.ValueChannels,
		Fallback: interpolate.Fallback{
			Scheme:   scheme,
			Power:    con.InverseDistancePower,
			Constant: con.FallbackConstant,
		},
		Workers: con.Workers,
	}
	return cfg, cfg.Validate()
}

// InputConfig is the [Input] section of a slice file.
type InputConfig struct {
	NodeFile, ValueFile string
	Format              string
}

func (con *InputConfig) ValidNodeFile() bool {
	return con.NodeFile != ""
}
func (con *InputConfig) ValidValueFile() bool {
	return con.ValueFile != ""
}
func (con *InputConfig) ValidFormat() bool {
	_, ok := formats[strings.ToLower(con.Format)]
	return ok
}

// SliceConfig is the [Slice] section of a slice file.
type SliceConfig struct {
	// Required
	XMin, XMax, YMin, YMax, Z float64
	Output                    string

	// Optional
	XPoints, YPoints int
	Channel          int
	Plot             string
}

func (con *SliceConfig) ValidX() bool {
	return con.XMin < con.XMax && con.XPoints > 0
}
func (con *SliceConfig) ValidY() bool {
	return con.YMin < con.YMax && con.YPoints > 0
}
func (con *SliceConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SliceConfig) ValidChannel() bool {
	return con.Channel >= 0
}
func (con *SliceConfig) ValidPlot() bool {
	return con.Plot != ""
}

// SliceWrapper holds every section of a slice file.
type SliceWrapper struct {
	Field FieldConfig
	Input InputConfig
	Slice SliceConfig
}

// DefaultSliceWrapper returns a SliceWrapper with every optional parameter
// set to its default.
func DefaultSliceWrapper() *SliceWrapper {
	wrap := &SliceWrapper{}
	wrap.Field.NeighborCount = meshinterp.DefaultNeighborCount
	wrap.Field.Fallback = interpolate.SchemeInverseDistance.String()
	wrap.Field.InverseDistancePower = 1
	wrap.Field.FallbackConstant = -0.1
	wrap.Field.Workers = -1
	wrap.Input.Format = "CSV"
	wrap.Slice.XPoints = 100
	wrap.Slice.YPoints = 200
	return wrap
}

// CheckInit returns a descriptive error for the first invalid parameter in
// wrap.
func (wrap *SliceWrapper) CheckInit() error {
	f, in, s := &wrap.Field, &wrap.Input, &wrap.Slice

	switch {
	case !f.ValidNeighborCount():
		return fmt.Errorf(
			"NeighborCount must be in range [%d, %d], but is %d.",
			meshinterp.MinNeighborCount, meshinterp.MaxNeighborCount,
			f.NeighborCount,
		)
	case !f.ValidValueChannels():
		return fmt.Errorf("ValueChannels must be non-negative, but is %d.", f.ValueChannels)
	case !f.ValidFallback():
		return fmt.Errorf(
			"Fallback must be one of [InverseDistance | Mean | Nearest | "+
				"Constant]. '%s' is not recognized.", f.Fallback,
		)
	case !f.ValidInverseDistancePower():
		return fmt.Errorf(
			"InverseDistancePower must be positive and finite, but is %g.",
			f.InverseDistancePower,
		)
	case !in.ValidNodeFile():
		return fmt.Errorf("Invalid/non-existent 'NodeFile' value.")
	case !in.ValidValueFile():
		return fmt.Errorf("Invalid/non-existent 'ValueFile' value.")
	case !in.ValidFormat():
		return fmt.Errorf(
			"Format must be one of [CSV | Table]. '%s' is not recognized.",
			in.Format,
		)
	case !s.ValidX():
		return fmt.Errorf(
			"Slice needs XMin < XMax and positive XPoints, but has "+
				"XMin = %g, XMax = %g, XPoints = %d.", s.XMin, s.XMax, s.XPoints,
		)
	case !s.ValidY():
		return fmt.Errorf(
			"Slice needs YMin < YMax and positive YPoints, but has "+
				"YMin = %g, YMax = %g, YPoints = %d.", s.YMin, s.YMax, s.YPoints,
		)
	case !s.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !s.ValidChannel():
		return fmt.Errorf("Channel must be non-negative, but is %d.", s.Channel)
	}
	return nil
}

// ReadSliceConfig reads and checks a slice file.
func ReadSliceConfig(fname string) (*SliceWrapper, error) {
	wrap := DefaultSliceWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	if err := wrap.CheckInit(); err != nil {
		return nil, err
	}
	return wrap, nil
}
