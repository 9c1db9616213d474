// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestAlign(t *testing.T) {
	check := func(s string, a align, w int, want string) {
		t.Helper()
		if got := a.pad(s, w); got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", alignLeft, 5, "abc  ")
	check("abc", alignRight, 5, "  abc")
	check("abcdef", alignRight, 3, "abcdef")
	check("☃", alignRight, 4, "   ☃")
}

func TestTable(t *testing.T) {
	defer func(old bool) { color.NoColor = old }(color.NoColor)
	color.NoColor = true

	var tab Table
	check := func(want string) {
		t.Helper()
		var got strings.Builder
		if err := tab.Format(&got); err != nil {
			t.Fatal(err)
		}
		if got.String() != want {
			t.Errorf("want:\n%sgot:\n%s", want, got.String())
		}
		tab = Table{}
	}

	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a  b  c\nd  e  f\n")

	// No trailing spaces after the last cell.
	tab.Row().Cell("a").Cell("b")
	tab.Row().Cell("long").Cell("long")
	check("a     b\nlong  long\n")

	tab.Row().Cell("key", Heading).Cell("n", Heading, Right)
	tab.Row().Cell("x").Cellf("%d", 10)
	check("key   n\nx    10\n")

	// Short rows.
	tab.Row().Cell("a")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a\nd  e  f\n")

	// Cell without Row starts one.
	tab.Cell("x", Warning)
	check("x\n")
}
