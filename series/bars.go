// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import "github.com/rqbench/rqstat/expkey"

// A BarSpec describes a grouped bar chart of normalized values.
//
// The bar of series s in category c has the key
// s.Patch.Apply(c.Patch.Apply(Base)) and is divided by the value at
// s.Baseline applied to that key.
type BarSpec struct {
	Base       expkey.Key
	Series     []BarSeries
	Categories []Category
}

// A BarSeries is one bar of every category.
type BarSeries struct {
	Label    string
	Patch    expkey.Patch
	Baseline expkey.Patch
}

// A Category is one group of bars.
type Category struct {
	Label string
	Patch expkey.Patch
}

// A BarResult is the assembled content of a bar chart.
type BarResult struct {
	Categories []string
	Series     []Bars
	Omitted    []Omission
}

// Bars are the values of one BarSeries, one per category.
type Bars struct {
	Label  string
	Values []float64
	Errs   []float64
}

// BarKey returns the key of series s in category c.
func (spec *BarSpec) BarKey(s BarSeries, c Category) expkey.Key {
	return s.Patch.Apply(c.Patch.Apply(spec.Base))
}

// Normalize looks up every bar of spec in tab. Like Assemble, a
// series missing any bar or baseline is omitted entirely.
func Normalize(tab Lookuper, spec BarSpec) BarResult {
	var res BarResult
	for _, c := range spec.Categories {
		res.Categories = append(res.Categories, c.Label)
	}
series:
	for _, s := range spec.Series {
		bars := Bars{Label: s.Label}
		for _, c := range spec.Categories {
			k := spec.BarKey(s, c)
			st, ok := tab.Lookup(k)
			if !ok {
				res.Omitted = append(res.Omitted, Omission{s.Label, k})
				continue series
			}
			bk := s.Baseline.Apply(k)
			base, ok := tab.Lookup(bk)
			if !ok {
				res.Omitted = append(res.Omitted, Omission{s.Label, bk})
				continue series
			}
			bars.Values = append(bars.Values, st.Mean/base.Mean)
			bars.Errs = append(bars.Errs, st.StdDev/base.Mean)
		}
		res.Series = append(res.Series, bars)
	}
	return res
}

// Overhead returns the throughput lost by variant relative to base,
// as a percentage of base. It reports false if either key has no
// data.
func Overhead(tab Lookuper, base, variant expkey.Key) (float64, bool) {
	b, ok := tab.Lookup(base)
	if !ok {
		return 0, false
	}
	v, ok := tab.Lookup(variant)
	if !ok {
		return 0, false
	}
	return 100 * (b.Mean - v.Mean) / b.Mean, true
}
