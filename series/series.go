// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package series assembles per-algorithm chart series from a table of
// aggregate statistics.
//
// Assembly is all-or-nothing per algorithm: an algorithm appears in a
// chart only if every point of its series has data. Missing data is
// never an error; it is reported as an Omission so that a partial
// experiment matrix still produces a chart of what is there.
package series

import (
	"fmt"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/trialstat"
)

// A Lookuper maps keys to aggregate statistics. *trialstat.Table
// implements Lookuper.
type Lookuper interface {
	Lookup(expkey.Key) (trialstat.Stat, bool)
}

// A Transform is applied to every point of an assembled series.
type Transform int

const (
	// None leaves values unchanged.
	None Transform = iota
	// Log leaves values unchanged and asks for a logarithmic y axis.
	Log
	// PercentOfBaseline expresses each value as a percentage of the
	// same metric at a baseline configuration.
	PercentOfBaseline
	// ScaledByX multiplies each value by its x coordinate, turning a
	// per-query rate into a keys-visited rate.
	ScaledByX
)

var transformNames = [...]string{None: "none", Log: "log", PercentOfBaseline: "percent", ScaledByX: "scaled"}

func (t Transform) String() string {
	if t < 0 || int(t) >= len(transformNames) {
		return fmt.Sprintf("Transform(%d)", int(t))
	}
	return transformNames[t]
}

func (t Transform) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Transform) UnmarshalText(text []byte) error {
	for i, name := range transformNames {
		if string(text) == name {
			*t = Transform(i)
			return nil
		}
	}
	return fmt.Errorf("unknown transform %q", text)
}

// A Spec describes the series of one chart.
type Spec struct {
	// Algorithms lists the algorithms to plot, in legend order.
	Algorithms []string

	// Axis is the key field varied along the x axis, taking each
	// value of X in turn. All other fields come from Fixed, except
	// Algorithm, which is set from Algorithms.
	Axis  expkey.Field
	X     []int
	Fixed expkey.Key

	// AxisFunc, if non-nil, replaces the single-field substitution
	// of Axis for axes that vary several fields together.
	AxisFunc func(k expkey.Key, x int) expkey.Key

	Transform Transform

	// Baseline maps a plotted key to the key it is compared with
	// under PercentOfBaseline. Nil compares each key with itself.
	Baseline func(expkey.Key) expkey.Key

	// Exclude, if non-nil, drops algorithms that are not comparable
	// in this chart.
	Exclude Predicate
}

// A Point is one point of a series.
type Point struct {
	X   float64
	Y   float64
	Err float64
}

// A Series is one algorithm's points, in the order of Spec.X.
type Series struct {
	Algorithm string
	Points    []Point
}

// An Omission records an algorithm dropped for lack of data and the
// first key it was missing.
type Omission struct {
	Algorithm string
	Missing   expkey.Key
}

func (o Omission) String() string {
	return fmt.Sprintf("%s: no data for %s", o.Algorithm, o.Missing)
}

// A Result is the assembled content of one chart.
type Result struct {
	// Series has one entry per included algorithm, in the order of
	// Spec.Algorithms. Each has exactly len(Spec.X) points.
	Series []Series

	// Omitted lists the algorithms dropped for missing data.
	Omitted []Omission

	// Excluded lists the algorithms dropped by Spec.Exclude.
	Excluded []string

	// LogY is set by the Log transform.
	LogY bool
}

// Key returns the key of algorithm alg at axis value x.
func (s *Spec) Key(alg string, x int) expkey.Key {
	var k expkey.Key
	if s.AxisFunc != nil {
		k = s.AxisFunc(s.Fixed, x)
	} else {
		k = s.Fixed.With(s.Axis, x)
	}
	k.Algorithm = alg
	return k
}

// Assemble looks up the series of every algorithm of spec in tab.
func Assemble(tab Lookuper, spec Spec) Result {
	res := Result{LogY: spec.Transform == Log}
algs:
	for _, alg := range spec.Algorithms {
		if spec.Exclude != nil && spec.Exclude(alg, spec.Fixed) {
			res.Excluded = append(res.Excluded, alg)
			continue
		}
		pts := make([]Point, 0, len(spec.X))
		for _, x := range spec.X {
			k := spec.Key(alg, x)
			st, ok := tab.Lookup(k)
			if !ok {
				res.Omitted = append(res.Omitted, Omission{alg, k})
				continue algs
			}
			pt := Point{X: float64(x), Y: st.Mean, Err: st.StdDev}
			switch spec.Transform {
			case PercentOfBaseline:
				bk := k
				if spec.Baseline != nil {
					bk = spec.Baseline(k)
				}
				base, ok := tab.Lookup(bk)
				if !ok {
					res.Omitted = append(res.Omitted, Omission{alg, bk})
					continue algs
				}
				pt.Y = 100 * pt.Y / base.Mean
				pt.Err = 100 * pt.Err / base.Mean
			case ScaledByX:
				pt.Y *= pt.X
				pt.Err *= pt.X
			}
			pts = append(pts, pt)
		}
		res.Series = append(res.Series, Series{alg, pts})
	}
	return res
}

// PatchBaseline returns a Baseline function that applies p.
func PatchBaseline(p expkey.Patch) func(expkey.Key) expkey.Key {
	return p.Apply
}
