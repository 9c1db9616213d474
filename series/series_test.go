// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/trialstat"
)

type mapTable map[expkey.Key]trialstat.Stat

func (m mapTable) Lookup(k expkey.Key) (trialstat.Stat, bool) {
	st, ok := m[k]
	return st, ok
}

var fixed = expkey.PointKey("", 0, 10000, expkey.Ratio{Insert: 10, Delete: 10}, 100)

func pointTable(entries map[string][]int) mapTable {
	tab := make(mapTable)
	for alg, threads := range entries {
		for _, th := range threads {
			k := fixed.With(expkey.Threads, th)
			k.Algorithm = alg
			tab[k] = trialstat.Stat{Mean: float64(th), StdDev: 0.5, N: 5}
		}
	}
	return tab
}

func TestAssembleAllOrNothing(t *testing.T) {
	tab := pointTable(map[string][]int{"A": {1, 2, 4}, "B": {1, 2}})
	res := Assemble(tab, Spec{
		Algorithms: []string{"A", "B"},
		Axis:       expkey.Threads,
		X:          []int{1, 2, 4},
		Fixed:      fixed,
	})
	want := []Series{{"A", []Point{{1, 1, 0.5}, {2, 2, 0.5}, {4, 4, 0.5}}}}
	if diff := cmp.Diff(want, res.Series); diff != "" {
		t.Errorf("series (-want +got):\n%s", diff)
	}
	missing := fixed.With(expkey.Threads, 4)
	missing.Algorithm = "B"
	if diff := cmp.Diff([]Omission{{"B", missing}}, res.Omitted); diff != "" {
		t.Errorf("omitted (-want +got):\n%s", diff)
	}
	if res.LogY {
		t.Errorf("LogY set without Log transform")
	}
}

func TestAssembleOrder(t *testing.T) {
	tab := pointTable(map[string][]int{"A": {1}, "B": {1}, "C": {1}})
	res := Assemble(tab, Spec{Algorithms: []string{"C", "A", "B"}, Axis: expkey.Threads, X: []int{1}, Fixed: fixed})
	var got []string
	for _, s := range res.Series {
		got = append(got, s.Algorithm)
	}
	if diff := cmp.Diff([]string{"C", "A", "B"}, got); diff != "" {
		t.Errorf("algorithm order (-want +got):\n%s", diff)
	}
}

func TestAssembleTransforms(t *testing.T) {
	tab := pointTable(map[string][]int{"A": {1, 2, 4}})
	x := []int{1, 2, 4}

	t.Run("self-baseline", func(t *testing.T) {
		res := Assemble(tab, Spec{Algorithms: []string{"A"}, Axis: expkey.Threads, X: x, Fixed: fixed, Transform: PercentOfBaseline})
		for _, pt := range res.Series[0].Points {
			if pt.Y != 100 {
				t.Errorf("self-baseline point %v, want y=100", pt)
			}
		}
	})

	t.Run("baseline", func(t *testing.T) {
		one := 1
		res := Assemble(tab, Spec{
			Algorithms: []string{"A"}, Axis: expkey.Threads, X: x, Fixed: fixed,
			Transform: PercentOfBaseline,
			Baseline:  PatchBaseline(expkey.Patch{Threads: &one}),
		})
		want := []Point{{1, 100, 50}, {2, 200, 50}, {4, 400, 50}}
		if diff := cmp.Diff(want, res.Series[0].Points); diff != "" {
			t.Errorf("points (-want +got):\n%s", diff)
		}
	})

	t.Run("missing baseline", func(t *testing.T) {
		eight := 8
		res := Assemble(tab, Spec{
			Algorithms: []string{"A"}, Axis: expkey.Threads, X: x, Fixed: fixed,
			Transform: PercentOfBaseline,
			Baseline:  PatchBaseline(expkey.Patch{Threads: &eight}),
		})
		if len(res.Series) != 0 || len(res.Omitted) != 1 || res.Omitted[0].Missing.Threads != 8 {
			t.Errorf("got %+v, want A omitted for its baseline", res)
		}
	})

	t.Run("scaled", func(t *testing.T) {
		res := Assemble(tab, Spec{Algorithms: []string{"A"}, Axis: expkey.Threads, X: x, Fixed: fixed, Transform: ScaledByX})
		want := []Point{{1, 1, 0.5}, {2, 4, 1}, {4, 16, 2}}
		if diff := cmp.Diff(want, res.Series[0].Points); diff != "" {
			t.Errorf("points (-want +got):\n%s", diff)
		}
	})

	t.Run("log", func(t *testing.T) {
		res := Assemble(tab, Spec{Algorithms: []string{"A"}, Axis: expkey.Threads, X: x, Fixed: fixed, Transform: Log})
		if !res.LogY || res.Series[0].Points[2].Y != 4 {
			t.Errorf("got %+v, want unchanged values with LogY", res)
		}
	})
}

func TestAssembleAxisFunc(t *testing.T) {
	tab := make(mapTable)
	for _, size := range []int{1000, 10000} {
		k := expkey.RQKey("LFCA", 72, 2*size, size, expkey.Range, expkey.RQs)
		tab[k] = trialstat.Stat{Mean: 1}
	}
	res := Assemble(tab, Spec{
		Algorithms: []string{"LFCA"},
		X:          []int{1000, 10000},
		Fixed:      expkey.RQKey("", 72, 0, 0, expkey.Range, expkey.RQs),
		AxisFunc: func(k expkey.Key, x int) expkey.Key {
			k.RQSize, k.MaxKey = x, 2*x
			return k
		},
	})
	if len(res.Series) != 1 || len(res.Series[0].Points) != 2 {
		t.Errorf("got %+v, want one two-point series", res)
	}
}

func TestPredicates(t *testing.T) {
	noRQ := fixed
	withRQ := fixed
	withRQ.Ratio.RQ = 10
	huge := fixed.With(expkey.MaxKey, 2000000000)

	batch := ExcludeAlgorithms([]string{"BatchBST64", "ChromaticBatchBST64"}, Any(RQConfigured(), MaxKeyIs(2000000000)))
	for _, test := range []struct {
		alg  string
		k    expkey.Key
		want bool
	}{
		{"BatchBST64", noRQ, false},
		{"BatchBST64", withRQ, true},
		{"ChromaticBatchBST64", huge, true},
		{"KIWI", withRQ, false},
		{"BatchBST64", expkey.RQKey("x", 1, 1, 1, expkey.Range, expkey.RQs), true},
	} {
		if got := batch(test.alg, test.k); got != test.want {
			t.Errorf("exclude(%s, %s) = %v, want %v", test.alg, test.k, got, test.want)
		}
	}

	if Not(RQConfigured())("", withRQ) {
		t.Errorf("Not(RQConfigured) holds with range queries")
	}
	if !All(Not(RQConfigured()), MaxKeyIs(10000))("", noRQ) {
		t.Errorf("All(...) does not hold for %s", noRQ)
	}

	tab := pointTable(map[string][]int{"BatchBST64": {1}, "KIWI": {1}})
	res := Assemble(tab, Spec{
		Algorithms: []string{"BatchBST64", "KIWI"},
		Axis:       expkey.Threads, X: []int{1}, Fixed: fixed,
		Exclude: batch,
	})
	if len(res.Series) != 2 || len(res.Excluded) != 0 {
		t.Errorf("without range queries got %+v", res)
	}
}
