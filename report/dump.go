// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"

	"github.com/aclements/go-gg/table"

	"github.com/rqbench/rqstat/trialstat"
)

type statRow struct {
	Key    string
	Mean   float64
	StdDev float64
	N      int
}

func statRows(tab *trialstat.Table) []statRow {
	rows := make([]statRow, 0, tab.Len())
	for _, k := range tab.Keys() {
		st, _ := tab.Lookup(k)
		rows = append(rows, statRow{k.String(), st.Mean, st.StdDev, st.N})
	}
	return rows
}

// Dump prints tab as an aligned text table.
func Dump(w io.Writer, tab *trialstat.Table) error {
	return table.Fprint(w, table.TableFromStructs(statRows(tab)), "%s", "%.4f", "%.4f", "%d")
}
