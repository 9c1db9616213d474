// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chartspec

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/series"
	"github.com/rqbench/rqstat/trialstat"
)

func findChart(t *testing.T, c *Catalogue, name string) Chart {
	t.Helper()
	for _, ch := range c.Expanded() {
		if ch.Name == name {
			return ch
		}
	}
	t.Fatalf("no chart named %q", name)
	return Chart{}
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	var names []string
	for _, ch := range c.Expanded() {
		names = append(names, ch.Name)
	}
	for _, want := range []string{
		"scalability-lookup-heavy-100K", "sorted",
		"rq-normal-rqs-72t-100K", "rq-normal-updates-36t-100M", "rq-log-rqs-72t-100M",
		"rq-scaled-rqs-36t-100K", "rq-percent-rqs-72t-100K", "rq-percent-updates-72t-100M",
		"vary-size-rqs", "vary-size-updates", "complex", "overhead", "memory",
	} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Errorf("default catalogue has no chart %q", want)
		}
	}
	for _, n := range names {
		if strings.HasPrefix(n, "rq-percent") && strings.Contains(n, "36t") {
			t.Errorf("percent chart %q at 36 threads has no baseline", n)
		}
	}

	if got := c.Name("VcasChromaticBatchBSTGC64"); got != "VcasCT-64" {
		t.Errorf("Name = %q", got)
	}
	if got := c.Name("Unknown"); got != "Unknown" {
		t.Errorf("Name of unknown algorithm = %q", got)
	}
}

func TestDefaultExclusions(t *testing.T) {
	c := Default()
	exclude := c.Exclude()
	noRQ := expkey.PointKey("", 36, 166666, expkey.Ratio{Insert: 3, Delete: 2}, 10)
	withRQ := expkey.PointKey("", 36, 166666, expkey.Ratio{Insert: 30, Delete: 20, RQ: 1}, 1024)
	sorted := expkey.PointKey("", 36, 2000000000, expkey.Ratio{Insert: 100}, 10)

	for _, test := range []struct {
		alg  string
		k    expkey.Key
		want bool
	}{
		{"BatchBST64", noRQ, false},
		{"BatchBST64", withRQ, true},
		{"BatchBST64", sorted, true},
		{"ChromaticBatchBST64", expkey.RQKey("", 72, 200000, 8, expkey.Range, expkey.RQs), true},
		{"VcasBatchBSTGC64", withRQ, false},
	} {
		if got := exclude(test.alg, test.k); got != test.want {
			t.Errorf("exclude(%s, %s) = %v, want %v", test.alg, test.k, got, test.want)
		}
	}
}

func TestTitle(t *testing.T) {
	c := Default()
	for _, test := range []struct{ chart, want string }{
		{"scalability-lookup-heavy-100K", "Lookup heavy - 100K Keys"},
		{"rq-normal-rqs-36t-100M", "RQ only - 100M Keys"},
		{"complex", "Throughput of Complex Queries on Vcas-ChromaticTree"},
		{"memory", "Memory usage"},
	} {
		ch := findChart(t, c, test.chart)
		if got := c.Title(&ch); !strings.HasPrefix(got, test.want) {
			t.Errorf("Title(%s) = %q, want prefix %q", test.chart, got, test.want)
		}
	}
}

func TestLineSpec(t *testing.T) {
	c := Default()

	ch := findChart(t, c, "rq-percent-updates-72t-100K")
	spec := c.LineSpec(&ch)
	k := spec.Key("LFCA", 256)
	if want := "RQ-LFCA-72t-200000k-256s-updates"; k.String() != want {
		t.Errorf("key = %s, want %s", k, want)
	}
	if want := "LFCA-36t-200000k-50i-50d-0rq-10s"; spec.Baseline(k).String() != want {
		t.Errorf("baseline = %s, want %s", spec.Baseline(k), want)
	}

	ch = findChart(t, c, "vary-size-rqs")
	spec = c.LineSpec(&ch)
	if k := spec.Key("LFCA", 1000); k.String() != "RQ-LFCA-72t-2000k-1000s-rqs" {
		t.Errorf("vary-size key = %s", k)
	}
	if spec.Transform != series.Log {
		t.Errorf("vary-size transform = %v, want log", spec.Transform)
	}
}

func TestBarSpec(t *testing.T) {
	c := Default()
	ch := findChart(t, c, "complex")
	spec := c.BarSpec(&ch)
	var keys []string
	for _, cat := range spec.Categories {
		keys = append(keys, spec.BarKey(spec.Series[3], cat).String())
	}
	want := []string{
		"RQ-VcasChromaticBatchBSTGC64-72t-200000000k-2s-succ-rqs",
		"RQ-VcasChromaticBatchBSTGC64-72t-200000000k-256s-succ-rqs",
		"RQ-VcasChromaticBatchBSTGC64-72t-200000000k-256s-rqs",
		"RQ-VcasChromaticBatchBSTGC64-72t-200000000k-256s-findif-rqs",
		"RQ-VcasChromaticBatchBSTGC64-72t-200000000k-256s-multisearch-rqs",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("bar keys (-want +got):\n%s", diff)
	}
	base := spec.Series[3].Baseline.Apply(expkey.Key{Family: expkey.RQ, Algorithm: "x", Threads: 72})
	if base.Algorithm != "ChromaticBatchBST64" || base.Threads != 36 {
		t.Errorf("baseline = %s", base)
	}
}

func TestOverheadRows(t *testing.T) {
	c := Default()
	o := c.Overheads[0]
	tab := make(map[expkey.Key]trialstat.Stat)
	k := expkey.PointKey("BatchBST64", 140, 166666, expkey.Ratio{Insert: 3, Delete: 2}, 10)
	tab[k] = trialstat.Stat{Mean: 10}
	k.Algorithm = "VcasBatchBSTGC64"
	tab[k] = trialstat.Stat{Mean: 9}

	rows := o.Rows(trialstat.NewTable(tab))
	if len(rows) != 4*4*2 {
		t.Fatalf("got %d rows, want 32", len(rows))
	}
	var ok []OverheadRow
	for _, r := range rows {
		if r.OK {
			ok = append(ok, r)
		}
	}
	want := []OverheadRow{{Workload: "lookup heavy small", Threads: 140, Pair: "bst", Percent: 10, OK: true}}
	if diff := cmp.Diff(want, ok); diff != "" {
		t.Errorf("rows with data (-want +got):\n%s", diff)
	}
}

func TestStyle(t *testing.T) {
	c := Default()
	rgba, ok, err := c.Styles["KIWI"].RGBA()
	require.NoError(t, err)
	if !ok || rgba != (color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}) {
		t.Errorf("KIWI color = %v, %v", rgba, ok)
	}
	if _, ok, err := (Style{}).RGBA(); ok || err != nil {
		t.Errorf("empty color = %v, %v", ok, err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct{ name, yaml, want string }{
		{"transform", "charts: [{name: a, kind: line, algorithms: [x], x: [1], transform: cube}]", "unknown transform"},
		{"axis", "charts: [{name: a, kind: line, algorithms: [x], x: [1], axis: ratio}]", "unknown key field"},
		{"family", "charts: [{name: a, kind: line, algorithms: [x], x: [1], fixed: {family: disk}}]", "unknown key family"},
		{"kind", "charts: [{name: a, kind: pie}]", "unknown chart kind"},
		{"field", "charts: [{name: a, kind: line, algorithms: [x], x: [1], colour: red}]", "colour"},
		{"empty line", "charts: [{name: a, kind: line}]", "no algorithms"},
		{"empty bars", "charts: [{name: a, kind: bars}]", "bars and categories"},
		{"duplicate", "charts: [{name: a, kind: line, algorithms: [x], x: [1]}, {name: a, kind: line, algorithms: [x], x: [1]}]", "duplicate"},
		{"baseline", "charts: [{name: a, kind: line, algorithms: [x], x: [1], baseline: {threads: 1}}]", "baseline"},
		{"empty baseline", "charts: [{name: a, kind: line, algorithms: [x], x: [1], transform: percent, baseline: {}}]", "substitutes nothing"},
		{"bar baseline", "charts: [{name: a, kind: bars, bars: [{label: b, patch: {threads: 1}}], categories: [{label: c}]}]", `bar "b" has no baseline`},
		{"color", "styles: {x: {color: red}}", "bad color"},
		{"marker", "styles: {x: {marker: star}}", "unknown marker"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.yaml))
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("Parse error = %v, want one containing %q", err, test.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.yaml")
	data := `
names: {A: Alpha}
charts:
  - name: threads
    kind: line
    algorithms: [A]
    axis: threads
    x: [1, 2]
    fixed: {maxkey: 100, ratio: 10i-10d-0rq, rqsize: 8}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o666))
	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Charts, 1)
	want := expkey.PointKey("", 0, 100, expkey.Ratio{Insert: 10, Delete: 10}, 8)
	if got := c.Charts[0].FixedKey(); got != want {
		t.Errorf("fixed key = %s, want %s", got, want)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load of missing file succeeded")
	}
}

func TestAuto(t *testing.T) {
	r := expkey.Ratio{Insert: 10, Delete: 10}
	keys := []expkey.Key{
		expkey.PointKey("A", 4, 1000, r, 8),
		expkey.PointKey("A", 1, 1000, r, 8),
		expkey.PointKey("B", 1, 2000, r, 8),
		expkey.RQKey("C", 8, 100, 64, expkey.Range, expkey.RQs),
		expkey.RQKey("C", 8, 100, 8, expkey.Range, expkey.Updates),
	}
	charts := Auto(keys)
	var names []string
	for _, ch := range charts {
		names = append(names, ch.Name)
		require.NoError(t, ch.validate())
	}
	if diff := cmp.Diff([]string{"scalability", "rqsize-updates", "rqsize-rqs"}, names); diff != "" {
		t.Fatalf("chart names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 4}, charts[0].X); diff != "" {
		t.Errorf("threads (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, charts[0].Algorithms); diff != "" {
		t.Errorf("algorithms (-want +got):\n%s", diff)
	}
	if k := charts[0].FixedKey(); k.MaxKey != 1000 || k.RQSize != 8 || k.Ratio != r {
		t.Errorf("scalability fixed key = %s", k)
	}
	if k := charts[2].FixedKey(); k.Family != expkey.RQ || k.Op != expkey.RQs || k.Threads != 8 {
		t.Errorf("rqsize fixed key = %s", k)
	}
}
