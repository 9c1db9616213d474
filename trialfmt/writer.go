// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfmt

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// A Writer writes trials in the columnar CSV format, with the columns
// in canonical order.
type Writer struct {
	w     *csv.Writer
	first bool
	row   []string
}

// NewWriter returns a writer that writes CSV trial results to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w), first: true, row: make([]string, len(Columns))}
}

// Write writes Record rec to w. The header row is written before the
// first trial. *SyntaxError records are ignored. Samples and
// malformed-input errors have no CSV representation and are an error.
func (w *Writer) Write(rec Record) error {
	switch rec := rec.(type) {
	case *Trial:
		if w.first {
			if err := w.w.Write(Columns); err != nil {
				return err
			}
			w.first = false
		}
		w.fill(rec)
		if err := w.w.Write(w.row); err != nil {
			return err
		}
	case *SyntaxError:
		return nil
	default:
		return fmt.Errorf("cannot write %T as CSV", rec)
	}
	w.w.Flush()
	return w.w.Error()
}

func (w *Writer) fill(t *Trial) {
	itoa := func(v int64) string { return strconv.FormatInt(v, 10) }
	w.row[colThroughput] = ""
	if t.HasThroughput {
		w.row[colThroughput] = strconv.FormatFloat(t.Throughput, 'f', -1, 64)
	}
	w.row[colName] = t.Algorithm
	w.row[colThreads] = strconv.Itoa(t.Threads)
	w.row[colRatio] = t.Ratio.String()
	w.row[colMaxKey] = strconv.Itoa(t.MaxKey)
	w.row[colRQSize] = strconv.Itoa(t.RQSize)
	w.row[colTime] = strconv.FormatFloat(t.Elapsed, 'f', -1, 64)
	w.row[colInsTrue] = itoa(t.Ops.InsertTrue)
	w.row[colInsFalse] = itoa(t.Ops.InsertFalse)
	w.row[colDelTrue] = itoa(t.Ops.DeleteTrue)
	w.row[colDelFalse] = itoa(t.Ops.DeleteFalse)
	w.row[colRQTrue] = itoa(t.Ops.RQTrue)
	w.row[colRQFalse] = itoa(t.Ops.RQFalse)
	w.row[colExperiment] = t.Experiment
}
