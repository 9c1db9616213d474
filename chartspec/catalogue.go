// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chartspec defines the chart catalogue: the set of charts to
// produce from an aggregate table together with the display names,
// styles and titles used to draw them.
//
// A catalogue is a YAML document:
//
//	names:
//	  VcasChromaticBatchBSTGC64: VcasCT-64
//	styles:
//	  VcasChromaticBatchBSTGC64: {color: "#d62728", dash: solid, marker: ring}
//	benchmarks:
//	  166666k-3i-2d-0rq-10s: Lookup heavy - 100K Keys
//	exclusions:
//	  - algorithms: [BatchBST64]
//	    when: {rq: true}
//	charts:
//	  - name: scalability
//	    kind: line
//	    algorithms: [KIWI, LFCA]
//	    axis: threads
//	    x: [1, 36, 72, 140]
//	    fixed: {maxkey: 166666, ratio: 3i-2d-0rq, rqsize: 10}
//
// Default returns the built-in catalogue.
package chartspec

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/series"
)

// A Catalogue is a set of chart definitions and display tables.
type Catalogue struct {
	// Names maps algorithm names to display names.
	Names map[string]string `yaml:"names"`

	// Styles maps algorithm names to line styles.
	Styles map[string]Style `yaml:"styles"`

	// Benchmarks maps benchmark descriptors to chart titles. A
	// descriptor is a Point key's workload, such as
	// "166666k-3i-2d-0rq-10s", or an RQ chart's "72t-200000k-rqs".
	Benchmarks map[string]string `yaml:"benchmarks"`

	// Exclusions drop algorithms from charts that request them.
	Exclusions []Exclusion `yaml:"exclusions"`

	Charts    []Chart    `yaml:"charts"`
	Overheads []Overhead `yaml:"overheads"`
}

// A Style describes how one algorithm is drawn.
type Style struct {
	Color  string `yaml:"color"`  // "#rrggbb"
	Dash   string `yaml:"dash"`   // solid, dashed or dotted
	Marker string `yaml:"marker"` // see Markers
}

// Dashes and Markers list the style names a catalogue may use.
var (
	Dashes  = []string{"solid", "dashed", "dotted"}
	Markers = []string{"circle", "triangle", "square", "cross", "plus", "ring", "pyramid", "box"}
)

// RGBA parses s.Color. It reports false if the color is unset.
func (s Style) RGBA() (color.RGBA, bool, error) {
	if s.Color == "" {
		return color.RGBA{}, false, nil
	}
	hex, ok := strings.CutPrefix(s.Color, "#")
	if !ok || len(hex) != 6 {
		return color.RGBA{}, false, fmt.Errorf("bad color %q: want #rrggbb", s.Color)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false, fmt.Errorf("bad color %q: %w", s.Color, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true, nil
}

// An Exclusion leaves Algorithms out of a chart whose fixed parameters
// satisfy When.
type Exclusion struct {
	Algorithms []string  `yaml:"algorithms"`
	When       Condition `yaml:"when"`
}

// A Condition holds when all of its set fields hold. An empty
// Condition always holds.
type Condition struct {
	// RQ, if set, requires that range queries are (or are not)
	// configured.
	RQ *bool `yaml:"rq,omitempty"`
	// MaxKey, if set, requires this key range.
	MaxKey *int `yaml:"maxkey,omitempty"`
}

func (c Condition) predicate() series.Predicate {
	var ps []series.Predicate
	if c.RQ != nil {
		p := series.RQConfigured()
		if !*c.RQ {
			p = series.Not(p)
		}
		ps = append(ps, p)
	}
	if c.MaxKey != nil {
		ps = append(ps, series.MaxKeyIs(*c.MaxKey))
	}
	return series.All(ps...)
}

// Exclude returns the predicate that holds when any exclusion of c
// applies.
func (c *Catalogue) Exclude() series.Predicate {
	ps := make([]series.Predicate, len(c.Exclusions))
	for i, e := range c.Exclusions {
		ps[i] = series.ExcludeAlgorithms(e.Algorithms, e.When.predicate())
	}
	return series.Any(ps...)
}

// Name returns the display name of algorithm alg.
func (c *Catalogue) Name(alg string) string {
	if n, ok := c.Names[alg]; ok {
		return n
	}
	return alg
}

// Title returns the display title of ch: its own title if set, or
// the title of its benchmark descriptor, or its name.
func (c *Catalogue) Title(ch *Chart) string {
	if ch.Title != "" {
		return ch.Title
	}
	if t, ok := c.Benchmarks[ch.Descriptor()]; ok {
		return t
	}
	return ch.Name
}

//go:embed default.yaml
var defaultYAML []byte

// Default returns a fresh copy of the built-in catalogue, which
// reproduces the charts of the vCAS artifact evaluation.
func Default() *Catalogue {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic("bad default catalogue: " + err.Error())
	}
	return c
}

// Load reads and validates the catalogue in file path.
func Load(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalogue. Unknown fields are
// an error.
func Parse(data []byte) (*Catalogue, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	c := new(Catalogue)
	if err := dec.Decode(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the styles and chart definitions of c.
func (c *Catalogue) Validate() error {
	for alg, s := range c.Styles {
		if _, _, err := s.RGBA(); err != nil {
			return fmt.Errorf("style of %s: %w", alg, err)
		}
		if s.Dash != "" && !contains(Dashes, s.Dash) {
			return fmt.Errorf("style of %s: unknown dash %q", alg, s.Dash)
		}
		if s.Marker != "" && !contains(Markers, s.Marker) {
			return fmt.Errorf("style of %s: unknown marker %q", alg, s.Marker)
		}
	}
	seen := make(map[string]bool)
	for i := range c.Charts {
		for _, ch := range c.Charts[i].Expand() {
			if err := ch.validate(); err != nil {
				return fmt.Errorf("chart %q: %w", ch.Name, err)
			}
			if seen[ch.Name] {
				return fmt.Errorf("duplicate chart name %q", ch.Name)
			}
			seen[ch.Name] = true
		}
	}
	for _, o := range c.Overheads {
		if o.Name == "" || len(o.Pairs) == 0 || len(o.Workloads) == 0 {
			return fmt.Errorf("overhead table %q needs a name, pairs and workloads", o.Name)
		}
	}
	return nil
}

// Expanded returns every chart of c with its variants expanded.
func (c *Catalogue) Expanded() []Chart {
	var out []Chart
	for i := range c.Charts {
		out = append(out, c.Charts[i].Expand()...)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// An Overhead is a table of the throughput lost by instrumented
// algorithm variants relative to their bases.
type Overhead struct {
	Name      string       `yaml:"name"`
	Fixed     expkey.Patch `yaml:"fixed"`
	Threads   []int        `yaml:"threads"`
	Workloads []Category   `yaml:"workloads"`
	Pairs     []Pair       `yaml:"pairs"`
}

// A Pair names a base algorithm and its instrumented variant.
type Pair struct {
	Label   string `yaml:"label"`
	Base    string `yaml:"base"`
	Variant string `yaml:"variant"`
}

// An OverheadRow is one entry of an overhead table.
type OverheadRow struct {
	Workload string
	Threads  int
	Pair     string
	Percent  float64
	OK       bool // false if either key has no data
}

// Rows computes the overhead table from tab. Rows are ordered by
// workload, then threads, then pair.
func (o *Overhead) Rows(tab series.Lookuper) []OverheadRow {
	var rows []OverheadRow
	for _, w := range o.Workloads {
		k := w.Patch.Apply(o.Fixed.Apply(expkey.Key{}))
		for _, th := range o.Threads {
			k.Threads = th
			for _, p := range o.Pairs {
				base, variant := k, k
				base.Algorithm, variant.Algorithm = p.Base, p.Variant
				pct, ok := series.Overhead(tab, base, variant)
				rows = append(rows, OverheadRow{w.Label, th, p.Label, pct, ok})
			}
		}
	}
	return rows
}
