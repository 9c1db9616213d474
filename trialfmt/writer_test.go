// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfmt

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rqbench/rqstat/expkey"
)

func TestWriterRoundTrip(t *testing.T) {
	trials := []Record{
		&Trial{Algorithm: "BST", Threads: 4, Ratio: expkey.Ratio{Insert: 10, Delete: 10}, MaxKey: 10000, RQSize: 100,
			Elapsed: 5.25, Ops: OpCounts{1, 2, 3, 4, 0, 0}, Throughput: 1234.5, HasThroughput: true, Experiment: "x"},
		&SyntaxError{"f", 1, "ignored"},
		&Trial{Algorithm: "KIWI", Index: 1, Threads: 72, Ratio: expkey.UpdateOnly, MaxKey: 200000, RQSize: 8,
			Elapsed: 2, Ops: OpCounts{10, 10, 10, 10, 30, 10}, Experiment: "complex, succ"},
	}

	var buf strings.Builder
	w := NewWriter(&buf)
	for _, rec := range trials {
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if !strings.HasPrefix(buf.String(), header) {
		t.Errorf("output does not start with canonical header:\n%s", buf.String())
	}

	got, err := parseAll(t, buf.String(), CSV)
	if err != nil {
		t.Fatal(err)
	}
	want := []Record{trials[0], trials[2]}
	if diff := cmp.Diff(want, got, ignorePos); diff != "" {
		t.Errorf("round trip differs (-want +got):\n%s", diff)
	}
}

func TestWriterRejectsSamples(t *testing.T) {
	w := NewWriter(new(strings.Builder))
	if err := w.Write(&Sample{Algorithm: "x"}); err == nil {
		t.Errorf("writing a Sample succeeded")
	}
}
