// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rqbench/rqstat/chartspec"
	"github.com/rqbench/rqstat/series"
)

// paletteColors returns n colors of a qualitative palette, repeating
// them if n exceeds its size.
func paletteColors(n int) ([]color.Color, error) {
	// Paired has between 3 and 12 colors.
	size := n
	if size < 3 {
		size = 3
	} else if size > 12 {
		size = 12
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", size)
	if err != nil {
		return nil, err
	}
	cs := pal.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = cs[i%len(cs)]
	}
	return out, nil
}

func dashes(name string) []vg.Length {
	switch name {
	case "dashed":
		return []vg.Length{vg.Points(6), vg.Points(3)}
	case "dotted":
		return []vg.Length{vg.Points(1), vg.Points(2)}
	}
	return nil
}

func glyph(name string) draw.GlyphDrawer {
	switch name {
	case "triangle":
		return draw.TriangleGlyph{}
	case "square":
		return draw.SquareGlyph{}
	case "cross":
		return draw.CrossGlyph{}
	case "plus":
		return draw.PlusGlyph{}
	case "ring":
		return draw.RingGlyph{}
	case "pyramid":
		return draw.PyramidGlyph{}
	case "box":
		return draw.BoxGlyph{}
	}
	return draw.CircleGlyph{}
}

// NewFigure returns the line figure of chart ch, drawing res with the
// names and styles of cat.
func NewFigure(cat *chartspec.Catalogue, ch *chartspec.Chart, res series.Result) (*Figure, error) {
	f := &Figure{
		Title:     cat.Title(ch),
		XLabel:    ch.XLabel,
		YLabel:    ch.YLabel,
		Errors:    ch.Errors,
		LogX:      ch.LogX,
		LogY:      res.LogY,
		SizeTicks: ch.SizeTicks,
	}
	for _, s := range res.Series {
		st := cat.Styles[s.Algorithm]
		c := Curve{
			Label:  cat.Name(s.Algorithm),
			Dash:   st.Dash,
			Marker: st.Marker,
			Points: s.Points,
		}
		rgba, ok, err := st.RGBA()
		if err != nil {
			return nil, fmt.Errorf("style of %s: %w", s.Algorithm, err)
		}
		if ok {
			c.Color = rgba
		}
		f.Curves = append(f.Curves, c)
	}
	return f, nil
}

// NewBarFigure returns the bar figure of chart ch from res. Bars are
// normalized, so the figure has a reference line at 1.
func NewBarFigure(cat *chartspec.Catalogue, ch *chartspec.Chart, res series.BarResult) *BarFigure {
	f := &BarFigure{
		Title:      cat.Title(ch),
		XLabel:     ch.XLabel,
		YLabel:     ch.YLabel,
		Categories: res.Categories,
		Reference:  true,
	}
	for _, b := range res.Series {
		f.Groups = append(f.Groups, BarGroup{Label: b.Label, Values: b.Values})
	}
	return f
}
