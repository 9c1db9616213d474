// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialstat

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rqbench/rqstat/expkey"
)

func TestDiagnose(t *testing.T) {
	ok := key
	short := key.With(expkey.Threads, 8)
	huge := key.With(expkey.MaxKey, 2000000000)
	slow := key.With(expkey.Threads, 16)

	b := NewBuilder(&BuilderOptions{Scale: 1})
	add := func(k expkey.Key, n int, elapsed float64) {
		for i := 0; i < n; i++ {
			if err := b.Add(expkey.Observation{Key: k, Value: 1, Elapsed: elapsed}, "f"); err != nil {
				t.Fatal(err)
			}
		}
	}
	// Only the post-warm-up half counts, so a slow first run is fine
	// for ok but a slow last run is not for slow.
	add(ok, 1, 9)
	add(ok, 9, 5)
	add(short, 7, 5)
	add(huge, 10, 5)
	add(slow, 9, 5)
	add(slow, 1, 6)

	got := b.Table().Diagnose(Options{})
	// Ordered by canonical key: "BST-16t-" < "BST-4t-" < "BST-8t-".
	want := []Diagnostic{
		{Key: slow, Kind: KindLongRun, Elapsed: 6},
		{Key: huge, Kind: KindTrialCount, Count: 10, Want: 20},
		{Key: short, Kind: KindTrialCount, Count: 7, Want: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diagnose (-want +got):\n%s", diff)
	}
}

func TestDiagnoseOptions(t *testing.T) {
	b := NewBuilder(&BuilderOptions{Scale: 1})
	for i := 0; i < 3; i++ {
		b.Add(expkey.Observation{Key: key, Value: 1, Elapsed: 100}, "f")
	}
	tab := b.Table()
	got := tab.Diagnose(Options{
		ExpectTrials: func(expkey.Key) int { return 0 },
		MaxElapsed:   -1,
	})
	if len(got) != 0 {
		t.Errorf("disabled checks reported %v", got)
	}
	got = tab.Diagnose(Options{ExpectTrials: func(expkey.Key) int { return 3 }, MaxElapsed: 200})
	if len(got) != 0 {
		t.Errorf("passing checks reported %v", got)
	}
}

func TestDiagnoseLoadedTable(t *testing.T) {
	tab := NewTable(map[expkey.Key]Stat{key: {Mean: 1, N: 1}})
	if got := tab.Diagnose(Options{}); len(got) != 0 {
		t.Errorf("table without raw data reported %v", got)
	}
	if st, ok := tab.Lookup(key); !ok || st.Mean != 1 {
		t.Errorf("Lookup = %+v, %v", st, ok)
	}
}
