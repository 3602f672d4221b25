package main

import (
	"flag"
	"fmt"
	"runtime"
	"strings"
	"time"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phil-mansfield/meshinterp"
	"github.com/phil-mansfield/meshinterp/geom"
	"github.com/phil-mansfield/meshinterp/io"
	"github.com/phil-mansfield/meshinterp/nodes"
)

const (
	// profileRows is the number of constant-y rows drawn in a profile plot.
	profileRows = 5
)

var colors = []string{
	"DarkSlateBlue", "DarkTurquoise", "DarkViolet", "DeepPink", "DimGray",
}

func main() {
	var (
		sliceStr, exampleConfig string
		verbose                 bool
	)
	flag.StringVar(
		&sliceStr, "Slice", "",
		"Configuration file for [Slice] mode. Scans the field over a "+
			"constant-z slice and writes the result to a text table.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Slice'.",
	)
	flag.BoolVar(&verbose, "Verbose", false, "Log every fallback evaluation.")

	flag.Parse()

	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	modeName, err := getModeName(flag.CommandLine, "Slice", "ExampleConfig")
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Slice":
		wrap, err := io.ReadSliceConfig(sliceStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		sliceMain(wrap)

	case "ExampleConfig":
		switch exampleConfig {
		case "Slice":
			fmt.Println(io.ExampleSliceFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only recognized " +
					"argument is 'Slice'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the one mode flag among modes that was set on fs.
func getModeName(fs *flag.FlagSet, modes ...string) (string, error) {
	set := []string{}
	fs.Visit(func(f *flag.Flag) {
		for _, m := range modes {
			if f.Name == m {
				set = append(set, m)
			}
		}
	})

	switch len(set) {
	case 0:
		return "", errors.Errorf(
			"meshslice: one of -%s must be set", strings.Join(modes, ", -"),
		)
	case 1:
		return set[0], nil
	}
	return "", errors.Errorf(
		"meshslice: -%s cannot be combined", strings.Join(set, " and -"),
	)
}

func sliceMain(wrap *io.SliceWrapper) {
	con := &wrap.Slice

	loader, err := io.NewLoader(
		wrap.Input.Format, wrap.Input.NodeFile, wrap.Input.ValueFile,
		wrap.Field.ValueChannels,
	)
	if err != nil {
		log.Fatal(err.Error())
	}
	store, err := nodes.Load(loader)
	if err != nil {
		log.Fatal(err.Error())
	}
	if con.Channel >= store.Channels() {
		log.Fatalf(
			"Channel is %d, but nodes only have %d values.",
			con.Channel, store.Channels(),
		)
	}

	cfg, err := wrap.Field.Config()
	if err != nil {
		log.Fatal(err.Error())
	}
	cfg.Logger = log.StandardLogger()

	field, err := meshinterp.New(store, cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Infof(
		"Loaded %d nodes with %d values from %s.",
		store.Len(), store.Channels(), wrap.Input.NodeFile,
	)

	g := sliceGrid(con)
	pts := g.Points()

	t0 := time.Now()
	res, err := field.QueryBatch(pts, nil)
	if err != nil {
		log.Fatal(err.Error())
	}
	logSummary(res, time.Since(t0))

	if err := io.WriteSliceFile(con.Output, pts, res, con.Channel); err != nil {
		log.Fatal(err.Error())
	}
	log.Infof("Wrote slice to %s.", con.Output)

	if con.ValidPlot() {
		plotProfiles(g, res, con)
		plt.Execute()
		log.Infof("Wrote profile plot to %s.", con.Plot)
	}
}

// sliceGrid returns the grid of query points described by con.
func sliceGrid(con *io.SliceConfig) *geom.Grid {
	x0, dx := geom.Linspace(con.XMin, con.XMax, con.XPoints)
	y0, dy := geom.Linspace(con.YMin, con.YMax, con.YPoints)
	return geom.NewGrid(
		r3.Vec{X: x0, Y: y0, Z: con.Z}, r3.Vec{X: dx, Y: dy},
		[3]int{con.XPoints, con.YPoints, 1},
	)
}

func logSummary(res []meshinterp.Result, dt time.Duration) {
	counts := make(map[meshinterp.Method]int)
	for i := range res {
		counts[res[i].Method]++
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	exact := counts[meshinterp.MethodExact]
	bary := counts[meshinterp.MethodBarycentric]
	oob := counts[meshinterp.MethodOutOfBounds]

	log.WithFields(log.Fields{
		"exact":       exact,
		"barycentric": bary,
		"fallback":    len(res) - exact - bary - oob,
		"outOfBounds": oob,
	}).Infof(
		"Evaluated %d points in %s. Alloc: %5d MB, Sys: %5d MB",
		len(res), dt, ms.Alloc>>20, ms.Sys>>20,
	)
}

// plotProfiles plots the chosen channel along x for a few evenly spaced rows
// of the slice.
func plotProfiles(g *geom.Grid, res []meshinterp.Result, con *io.SliceConfig) {
	xs := make([]float64, g.Width[0])
	for i := range xs {
		xs[i] = g.Point(g.Idx(i, 0, 0)).X
	}

	rows := profileRows
	if rows > g.Width[1] {
		rows = g.Width[1]
	}

	plt.Figure()
	lo, hi := 0.0, 0.0
	for r := 0; r < rows; r++ {
		y := 0
		if rows > 1 {
			y = r * (g.Width[1] - 1) / (rows - 1)
		}
		vals := make([]float64, len(xs))
		for x := range vals {
			vals[x] = res[g.Idx(x, y, 0)].Values[con.Channel]
		}
		if r == 0 {
			lo, hi = floats.Min(vals), floats.Max(vals)
		} else {
			lo, hi = minMax(lo, hi, vals)
		}
		plt.Plot(xs, vals, plt.LW(2), plt.C(colors[r%len(colors)]))
	}

	plt.Title(fmt.Sprintf(
		`Channel %d at $z$ = %.3g, $y$ in [%.3g, %.3g]`,
		con.Channel, con.Z, con.YMin, con.YMax,
	))
	plt.XLabel(`$x$`, plt.FontSize(16))
	plt.YLabel(`Field value`, plt.FontSize(16))
	plt.XLim(con.XMin, con.XMax)
	if hi > lo {
		pad := 0.05 * (hi - lo)
		plt.YLim(lo-pad, hi+pad)
	}
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(con.Plot)
}

func minMax(lo, hi float64, xs []float64) (float64, float64) {
	if m := floats.Min(xs); m < lo {
		lo = m
	}
	if m := floats.Max(xs); m > hi {
		hi = m
	}
	return lo, hi
}
