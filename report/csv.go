// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report exports aggregate tables and chart series as CSV,
// HTML and plain text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/series"
	"github.com/rqbench/rqstat/trialstat"
)

var tableHeader = []string{
	"key", "family", "algorithm", "threads", "maxkey", "ratio", "rqsize", "query", "op",
	"mean", "stddev", "n",
}

// CSV writes one row per key of tab, in key order.
func CSV(out io.Writer, tab *trialstat.Table) error {
	rows := [][]string{tableHeader}
	for _, k := range tab.Keys() {
		st, _ := tab.Lookup(k)
		rows = append(rows, keyRow(k, st))
	}
	return writeAll(out, rows)
}

func keyRow(k expkey.Key, st trialstat.Stat) []string {
	ratio, query, op := "", "", ""
	switch k.Family {
	case expkey.Point:
		ratio = k.Ratio.String()
	case expkey.RQ:
		query, op = k.Query.String(), k.Op.String()
	}
	return []string{
		k.String(), k.Family.String(), k.Algorithm,
		strconv.Itoa(k.Threads), strconv.Itoa(k.MaxKey), ratio, strconv.Itoa(k.RQSize), query, op,
		strof(st.Mean), strof(st.StdDev), strconv.Itoa(st.N),
	}
}

// SeriesCSV writes the series of one chart, one row per algorithm.
// The header holds axis, the axis label, followed by each x value and
// its "±" column.
func SeriesCSV(out io.Writer, axis string, res series.Result) error {
	hdr := []string{axis}
	if len(res.Series) > 0 {
		for _, p := range res.Series[0].Points {
			hdr = append(hdr, strconv.FormatFloat(p.X, 'g', -1, 64), "±")
		}
	}
	rows := [][]string{hdr}
	for _, s := range res.Series {
		row := []string{s.Algorithm}
		for _, p := range s.Points {
			row = append(row, strof(p.Y), strof(p.Err))
		}
		rows = append(rows, row)
	}
	return writeAll(out, rows)
}

// BarsCSV writes the bars of one chart, one row per series.
func BarsCSV(out io.Writer, res series.BarResult) error {
	rows := [][]string{append([]string{"series"}, res.Categories...)}
	for _, b := range res.Series {
		row := []string{b.Label}
		for _, v := range b.Values {
			row = append(row, strof(v))
		}
		rows = append(rows, row)
	}
	return writeAll(out, rows)
}

func writeAll(out io.Writer, rows [][]string) error {
	w := csv.NewWriter(out)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func strof(x float64) string {
	return fmt.Sprintf("%f", x)
}
