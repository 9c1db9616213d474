// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rqbench/rqstat/chartspec"
	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/series"
	"github.com/rqbench/rqstat/trialstat"
)

func TestSizeLabel(t *testing.T) {
	for _, test := range []struct {
		v    int
		want string
	}{
		{0, "0"},
		{8, "8"},
		{256, "256"},
		{1024, "1K"},
		{8192, "8K"},
		{65536, "64K"},
		{1 << 20, "1M"},
		{1000, "1K"},
		{10000, "10K"},
		{100000, "100K"},
		{1000000, "1M"},
		{1500, "1500"},
	} {
		if got := SizeLabel(test.v); got != test.want {
			t.Errorf("SizeLabel(%d) = %q, want %q", test.v, got, test.want)
		}
	}
}

func TestStyleNames(t *testing.T) {
	for _, m := range chartspec.Markers {
		if m != "circle" && glyph(m) == (draw.CircleGlyph{}) {
			t.Errorf("marker %q draws a circle", m)
		}
	}
	for _, d := range chartspec.Dashes {
		if got := dashes(d); (d == "solid") != (got == nil) {
			t.Errorf("dashes(%q) = %v", d, got)
		}
	}
	for _, n := range []int{1, 5, 20} {
		cs, err := paletteColors(n)
		require.NoError(t, err)
		require.Len(t, cs, n)
	}
}

func curve(label string, ys ...float64) Curve {
	c := Curve{Label: label}
	for i, y := range ys {
		c.Points = append(c.Points, series.Point{X: float64(int(8) << (3 * uint(i))), Y: y, Err: y / 10})
	}
	return c
}

func checkFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	if info.Size() == 0 {
		t.Errorf("%s is empty", path)
	}
}

func TestLine(t *testing.T) {
	dir := t.TempDir()
	for _, test := range []struct {
		name string
		fig  Figure
	}{
		{"linear", Figure{Curves: []Curve{curve("a", 1, 2, 3)}}},
		{"log", Figure{
			Title:  "log axes",
			Curves: []Curve{curve("a", 1, 20, 300), curve("b", 2, 1, 0.5)},
			Errors: true, LogX: true, LogY: true, SizeTicks: true,
		}},
		{"styled", Figure{Curves: []Curve{{
			Label: "s", Color: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, Dash: "dotted", Marker: "ring",
			Points: []series.Point{{X: 1, Y: 4}, {X: 36, Y: 40}},
		}}}},
	} {
		t.Run(test.name, func(t *testing.T) {
			p, err := Line(&test.fig)
			require.NoError(t, err)
			for _, ext := range []string{".png", ".svg"} {
				path := filepath.Join(dir, test.name+ext)
				require.NoError(t, Save(p, path, DefaultWidth, DefaultHeight))
				checkFile(t, path)
			}
		})
	}
}

func TestLineLogHidesNonPositive(t *testing.T) {
	f := &Figure{
		Curves: []Curve{
			{Label: "a", Points: []series.Point{{X: 0, Y: 5}, {X: 8, Y: 6}, {X: 64, Y: 7}}},
			{Label: "b", Points: []series.Point{{X: 8, Y: 0}, {X: 64, Y: 2, Err: 4}}},
		},
		Errors: true, LogX: true, LogY: true, SizeTicks: true,
	}
	require.Equal(t, 2, f.Hidden())
	p, err := Line(f)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "log.png")
	require.NoError(t, Save(p, path, DefaultWidth, DefaultHeight))
	checkFile(t, path)

	f.LogY = false
	require.Equal(t, 1, f.Hidden())

	only := &Figure{Curves: []Curve{{Label: "z", Points: []series.Point{{X: 0, Y: 1}}}}, LogX: true}
	if _, err := Line(only); err == nil {
		t.Errorf("Line with no point on the log axis succeeded")
	}
}

func TestAutoMemoryZeroSize(t *testing.T) {
	stats := make(map[expkey.Key]trialstat.Stat)
	stats[expkey.MemoryKey("vcasbst", 0)] = trialstat.Stat{Mean: 10, StdDev: 1, N: 1}
	stats[expkey.MemoryKey("vcasbst", 8)] = trialstat.Stat{Mean: 12, StdDev: 1, N: 1}
	stats[expkey.MemoryKey("bst.rq_lockfree", 0)] = trialstat.Stat{Mean: 9, N: 1}
	stats[expkey.MemoryKey("bst.rq_lockfree", 8)] = trialstat.Stat{Mean: 11, N: 1}
	tab := trialstat.NewTable(stats)

	cat := chartspec.Default()
	charts := chartspec.Auto(tab.Keys())
	require.Len(t, charts, 1)
	ch := &charts[0]
	require.True(t, ch.LogX)
	require.Equal(t, []int{0, 8}, ch.X)

	res := series.Assemble(tab, cat.LineSpec(ch))
	require.Len(t, res.Series, 2)
	f, err := NewFigure(cat, ch, res)
	require.NoError(t, err)
	require.Equal(t, 2, f.Hidden())
	p, err := Line(f)
	require.NoError(t, err)
	for _, ext := range []string{".png", ".svg"} {
		path := filepath.Join(t.TempDir(), "memory"+ext)
		require.NoError(t, Save(p, path, DefaultWidth, DefaultHeight))
		checkFile(t, path)
	}
}

func TestXTicks(t *testing.T) {
	ticks := xTicks([]float64{8, 1024, 1.5}, true)
	var labels []string
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	require.Equal(t, []string{"8", "1K", "1.5"}, labels)
	ticks = xTicks([]float64{1024}, false)
	require.Equal(t, "1024", ticks[0].Label)
}

func TestLineErrors(t *testing.T) {
	if _, err := Line(&Figure{}); err == nil {
		t.Errorf("Line of empty figure succeeded")
	}
	if _, err := Line(&Figure{Curves: []Curve{{Label: "empty"}}}); err == nil {
		t.Errorf("Line of empty curve succeeded")
	}
	p, err := Line(&Figure{Curves: []Curve{curve("a", 1)}})
	require.NoError(t, err)
	if err := Save(p, filepath.Join(t.TempDir(), "x.gif"), DefaultWidth, DefaultHeight); err == nil {
		t.Errorf("Save to .gif succeeded")
	}
}

func TestBars(t *testing.T) {
	fig := &BarFigure{
		Title:      "normalized",
		Categories: []string{"succ-1", "range-256"},
		Groups: []BarGroup{
			{Label: "CT-64", Values: []float64{1, 0.8}},
			{Label: "VcasCT-64", Values: []float64{0.9, 0.7}},
		},
		Reference: true,
	}
	p, err := Bars(fig)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "sub", "bars.png")
	require.NoError(t, Save(p, path, DefaultWidth, DefaultHeight))
	checkFile(t, path)

	fig.Groups[0].Values = fig.Groups[0].Values[:1]
	if _, err := Bars(fig); err == nil {
		t.Errorf("Bars with a short group succeeded")
	}
}

func TestNewFigure(t *testing.T) {
	cat := chartspec.Default()
	ch := chartspec.Chart{Name: "x", Title: "T", XLabel: "threads", Errors: true}
	res := series.Result{Series: []series.Series{
		{Algorithm: "KIWI", Points: []series.Point{{X: 1, Y: 1}}},
		{Algorithm: "Unknown", Points: []series.Point{{X: 1, Y: 2}}},
	}, LogY: true}
	f, err := NewFigure(cat, &ch, res)
	require.NoError(t, err)
	if f.Title != "T" || !f.Errors || !f.LogY || len(f.Curves) != 2 {
		t.Fatalf("figure = %+v", f)
	}
	if f.Curves[0].Color == nil {
		t.Errorf("KIWI has no catalogue color")
	}
	if f.Curves[1].Color != nil || f.Curves[1].Label != "Unknown" {
		t.Errorf("unknown algorithm curve = %+v", f.Curves[1])
	}

	bars := NewBarFigure(cat, &ch, series.BarResult{
		Categories: []string{"a"},
		Series:     []series.Bars{{Label: "b", Values: []float64{1}}},
	})
	if !bars.Reference || len(bars.Groups) != 1 || bars.Groups[0].Label != "b" {
		t.Errorf("bar figure = %+v", bars)
	}
}
