// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart draws assembled series as line and bar charts.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rqbench/rqstat/series"
)

// Default image dimensions.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// A Curve is one series of a line figure.
type Curve struct {
	Label  string
	Color  color.Color // nil picks a palette color
	Dash   string      // solid, dashed or dotted
	Marker string
	Points []series.Point
}

// A Figure is a line chart.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Curves []Curve

	// Errors draws each point's Err as a symmetric error bar.
	Errors bool

	LogX bool
	LogY bool

	// SizeTicks labels the x ticks with SizeLabel instead of plain
	// numbers.
	SizeTicks bool
}

// points adapts a series to plotter.XYer and plotter.YErrorer.
type points struct {
	pts []series.Point
	// clip keeps the low end of error bars above zero for log axes.
	clip bool
}

func (p points) Len() int { return len(p.pts) }

func (p points) XY(i int) (float64, float64) { return p.pts[i].X, p.pts[i].Y }

func (p points) YError(i int) (float64, float64) {
	low, high := p.pts[i].Err, p.pts[i].Err
	if p.clip {
		low = math.Min(low, p.pts[i].Y/2)
	}
	return low, high
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = 1 * vg.Millimeter
	p.Add(plotter.NewGrid())
	return p
}

// visible reports whether pt can be placed on f's axes. Log axes
// cannot show values at or below zero.
func (f *Figure) visible(pt series.Point) bool {
	return !(f.LogX && pt.X <= 0) && !(f.LogY && pt.Y <= 0)
}

// Hidden returns the number of points Line leaves out because a log
// axis cannot show them.
func (f *Figure) Hidden() int {
	n := 0
	for _, c := range f.Curves {
		for _, pt := range c.Points {
			if !f.visible(pt) {
				n++
			}
		}
	}
	return n
}

// Line builds the plot of line figure f. Points that a log axis cannot
// show are left out (see Hidden), as are curves left with no points.
func Line(f *Figure) (*plot.Plot, error) {
	if len(f.Curves) == 0 {
		return nil, errors.New("chart: figure has no curves")
	}
	p := newPlot(f.Title, f.XLabel, f.YLabel)
	colors, err := paletteColors(len(f.Curves))
	if err != nil {
		return nil, err
	}

	seen := make(map[float64]bool)
	var xs []float64
	for i, c := range f.Curves {
		if len(c.Points) == 0 {
			return nil, fmt.Errorf("chart: curve %q has no points", c.Label)
		}
		var kept []series.Point
		for _, pt := range c.Points {
			if f.visible(pt) {
				kept = append(kept, pt)
			}
		}
		if len(kept) == 0 {
			continue
		}
		pts := points{kept, f.LogY}
		l, s, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("chart: curve %q: %w", c.Label, err)
		}
		col := c.Color
		if col == nil {
			col = colors[i]
		}
		l.LineStyle.Color = col
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Dashes = dashes(c.Dash)
		s.GlyphStyle.Shape = glyph(c.Marker)
		s.GlyphStyle.Color = col
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(l, s)
		if f.Errors {
			eb, err := plotter.NewYErrorBars(pts)
			if err != nil {
				return nil, fmt.Errorf("chart: curve %q: %w", c.Label, err)
			}
			eb.LineStyle.Color = col
			p.Add(eb)
		}
		p.Legend.Add(c.Label, l, s)
		for _, pt := range kept {
			if !seen[pt.X] {
				seen[pt.X] = true
				xs = append(xs, pt.X)
			}
		}
	}
	if len(xs) == 0 {
		return nil, errors.New("chart: no point can be shown on the log axes")
	}
	sort.Float64s(xs)

	if f.LogX {
		p.X.Scale = plot.LogScale{}
	}
	if f.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}
	if f.LogX || f.SizeTicks {
		p.X.Tick.Marker = plot.ConstantTicks(xTicks(xs, f.SizeTicks))
	}
	return p, nil
}

func xTicks(xs []float64, sizes bool) []plot.Tick {
	ticks := make([]plot.Tick, len(xs))
	for i, x := range xs {
		ticks[i].Value = x
		if sizes && x == math.Trunc(x) {
			ticks[i].Label = SizeLabel(int(x))
		} else {
			ticks[i].Label = strconv.FormatFloat(x, 'g', -1, 64)
		}
	}
	return ticks
}

// A BarGroup is one bar in every category of a bar figure.
type BarGroup struct {
	Label  string
	Color  color.Color // nil picks a palette color
	Values []float64
}

// A BarFigure is a grouped bar chart.
type BarFigure struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Groups     []BarGroup

	// Reference draws a dashed line at y = 1.
	Reference bool
}

// Bars builds the plot of bar figure f.
func Bars(f *BarFigure) (*plot.Plot, error) {
	if len(f.Groups) == 0 || len(f.Categories) == 0 {
		return nil, errors.New("chart: bar figure has no bars")
	}
	p := newPlot(f.Title, f.XLabel, f.YLabel)
	colors, err := paletteColors(len(f.Groups))
	if err != nil {
		return nil, err
	}

	barWidth := vg.Points(12)
	barSpacing := vg.Points(2)
	// Width of the bar group, center to center.
	groupWidth := (barWidth + barSpacing) * vg.Length(len(f.Groups)-1)

	for i, g := range f.Groups {
		if len(g.Values) != len(f.Categories) {
			return nil, fmt.Errorf("chart: bar group %q has %d values for %d categories", g.Label, len(g.Values), len(f.Categories))
		}
		bc, err := plotter.NewBarChart(plotter.Values(g.Values), barWidth)
		if err != nil {
			return nil, fmt.Errorf("chart: bar group %q: %w", g.Label, err)
		}
		bc.Offset = (barWidth+barSpacing)*vg.Length(i) - groupWidth/2
		bc.Color = g.Color
		if bc.Color == nil {
			bc.Color = colors[i]
		}
		bc.LineStyle.Width = 0
		p.Add(bc)
		p.Legend.Add(g.Label, bc)
	}
	p.NominalX(f.Categories...)

	if f.Reference {
		ref := plotter.NewFunction(func(float64) float64 { return 1 })
		ref.Dashes = dashes("dashed")
		ref.Color = color.Gray{Y: 96}
		p.Add(ref)
		if p.Y.Max < 1 {
			p.Y.Max = 1.1
		}
	}
	return p, nil
}

// Save writes p to path. The image format is taken from the file
// extension: png, svg or pdf.
func Save(p *plot.Plot, path string, w, h vg.Length) (err error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	switch format {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("%s: unsupported image format %q", path, format)
	}
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = wt.WriteTo(f)
	return err
}

// SizeLabel formats a size for an axis tick. Multiples of 1024 use
// binary suffixes (8K is 8192), other multiples of 1000 use decimal
// ones (10K is 10000).
func SizeLabel(v int) string {
	for _, u := range []struct {
		div    int
		suffix string
	}{
		{1 << 30, "G"}, {1 << 20, "M"}, {1 << 10, "K"},
		{1e9, "G"}, {1e6, "M"}, {1e3, "K"},
	} {
		if v != 0 && v%u.div == 0 {
			return strconv.Itoa(v/u.div) + u.suffix
		}
	}
	return strconv.Itoa(v)
}
