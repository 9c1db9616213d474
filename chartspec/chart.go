// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chartspec

import (
	"errors"
	"fmt"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/series"
)

// A Kind is the shape of a chart.
type Kind int

const (
	// Line charts plot one series per algorithm over an axis.
	Line Kind = iota
	// Bars charts plot groups of normalized bars.
	Bars
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Bars:
		return "bars"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "line":
		*k = Line
	case "bars":
		*k = Bars
	default:
		return fmt.Errorf("unknown chart kind %q", text)
	}
	return nil
}

// A Chart defines one chart, or one chart per variant if Each is set.
type Chart struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title,omitempty"`
	Kind  Kind   `yaml:"kind"`

	// Fixed gives the parameters shared by every point.
	Fixed expkey.Patch `yaml:"fixed"`

	// Line charts.
	Algorithms []string         `yaml:"algorithms,omitempty"`
	Axis       expkey.Field     `yaml:"axis,omitempty"`
	X          []int            `yaml:"x,omitempty"`
	Transform  series.Transform `yaml:"transform,omitempty"`
	Baseline   *expkey.Patch    `yaml:"baseline,omitempty"`
	// MaxKeyPerX, if non-zero, varies the key range with the axis:
	// each point has MaxKey = MaxKeyPerX * x.
	MaxKeyPerX int `yaml:"maxkeyPerX,omitempty"`
	// Exclude applies the catalogue's exclusions.
	Exclude bool `yaml:"exclude,omitempty"`
	// Errors draws standard deviation error bars.
	Errors bool `yaml:"errors,omitempty"`
	LogX   bool `yaml:"logx,omitempty"`
	// SizeTicks labels x ticks as sizes (8, 64, 1K, ...).
	SizeTicks bool `yaml:"sizeTicks,omitempty"`

	// Bar charts.
	Bars       []BarSeries `yaml:"bars,omitempty"`
	Categories []Category  `yaml:"categories,omitempty"`

	XLabel string `yaml:"xlabel,omitempty"`
	YLabel string `yaml:"ylabel,omitempty"`

	// Each expands the chart into one chart per variant.
	Each []Variant `yaml:"each,omitempty"`
}

// A Variant overrides parts of a Chart.
type Variant struct {
	// Suffix is appended to the chart name, separated by "-".
	Suffix   string        `yaml:"suffix"`
	Title    string        `yaml:"title,omitempty"`
	Fixed    expkey.Patch  `yaml:"fixed"`
	Baseline *expkey.Patch `yaml:"baseline,omitempty"`
}

// A BarSeries is one bar of every category of a bar chart. Its value
// is divided by the value of the same key with Baseline applied.
type BarSeries struct {
	Label    string       `yaml:"label"`
	Patch    expkey.Patch `yaml:"patch"`
	Baseline expkey.Patch `yaml:"baseline"`
}

// A Category is one group of bars, or one workload of an overhead
// table.
type Category struct {
	Label string       `yaml:"label"`
	Patch expkey.Patch `yaml:"patch"`
}

// Expand returns the charts defined by ch: ch itself if it has no
// variants, or one chart per variant.
func (ch *Chart) Expand() []Chart {
	if len(ch.Each) == 0 {
		return []Chart{*ch}
	}
	out := make([]Chart, 0, len(ch.Each))
	for _, v := range ch.Each {
		c := *ch
		c.Each = nil
		if v.Suffix != "" {
			c.Name += "-" + v.Suffix
		}
		if v.Title != "" {
			c.Title = v.Title
		}
		c.Fixed = ch.Fixed.Merge(v.Fixed)
		if v.Baseline != nil {
			c.Baseline = v.Baseline
		}
		out = append(out, c)
	}
	return out
}

// FixedKey returns the key holding ch's fixed parameters.
func (ch *Chart) FixedKey() expkey.Key {
	return ch.Fixed.Apply(expkey.Key{})
}

// Descriptor returns the benchmark descriptor used to look up the
// title of ch: the workload of a Point chart, "<N>t-<M>k-<op>" for an
// RQ chart, and "memory" for a Memory chart.
func (ch *Chart) Descriptor() string {
	k := ch.FixedKey()
	switch k.Family {
	case expkey.Point:
		return k.Workload()
	case expkey.RQ:
		return fmt.Sprintf("%dt-%dk-%s", k.Threads, k.MaxKey, k.Op)
	}
	return k.Family.String()
}

func (ch *Chart) validate() error {
	if ch.Name == "" {
		return errors.New("missing name")
	}
	switch ch.Kind {
	case Line:
		if len(ch.Algorithms) == 0 {
			return errors.New("line chart has no algorithms")
		}
		if len(ch.X) == 0 {
			return errors.New("line chart has no x values")
		}
		if ch.MaxKeyPerX < 0 {
			return errors.New("maxkeyPerX is negative")
		}
		if ch.Baseline != nil && ch.Transform != series.PercentOfBaseline {
			return fmt.Errorf("baseline given for %v transform", ch.Transform)
		}
		if ch.Baseline != nil && ch.Baseline.IsZero() {
			return errors.New("baseline substitutes nothing")
		}
		if len(ch.Bars) > 0 || len(ch.Categories) > 0 {
			return errors.New("line chart has bars")
		}
	case Bars:
		if len(ch.Bars) == 0 || len(ch.Categories) == 0 {
			return errors.New("bar chart needs bars and categories")
		}
		if len(ch.Algorithms) > 0 || len(ch.X) > 0 {
			return errors.New("bar chart has line chart fields")
		}
		for _, b := range ch.Bars {
			if b.Baseline.IsZero() {
				return fmt.Errorf("bar %q has no baseline", b.Label)
			}
		}
	}
	return nil
}

// LineSpec returns the series specification of line chart ch.
func (c *Catalogue) LineSpec(ch *Chart) series.Spec {
	spec := series.Spec{
		Algorithms: ch.Algorithms,
		Axis:       ch.Axis,
		X:          ch.X,
		Fixed:      ch.FixedKey(),
		Transform:  ch.Transform,
	}
	if ch.Baseline != nil {
		spec.Baseline = series.PatchBaseline(*ch.Baseline)
	}
	if f := ch.MaxKeyPerX; f != 0 {
		axis := ch.Axis
		spec.AxisFunc = func(k expkey.Key, x int) expkey.Key {
			k = k.With(axis, x)
			k.MaxKey = f * x
			return k
		}
	}
	if ch.Exclude {
		spec.Exclude = c.Exclude()
	}
	return spec
}

// BarSpec returns the bar specification of bar chart ch.
func (c *Catalogue) BarSpec(ch *Chart) series.BarSpec {
	spec := series.BarSpec{Base: ch.FixedKey()}
	for _, b := range ch.Bars {
		spec.Series = append(spec.Series, series.BarSeries{Label: b.Label, Patch: b.Patch, Baseline: b.Baseline})
	}
	for _, cat := range ch.Categories {
		spec.Categories = append(spec.Categories, series.Category{Label: cat.Label, Patch: cat.Patch})
	}
	return spec
}
