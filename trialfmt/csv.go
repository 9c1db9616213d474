// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rqbench/rqstat/expkey"
)

// Columns is the set of columns a CSV results file must provide, in
// the order Writer emits them. Readers locate them by name, so input
// files may order them arbitrarily and may carry extra columns.
var Columns = []string{
	"throughput", "name", "nthreads", "ratio", "maxkey", "rqsize", "time",
	"ninstrue", "ninsfalse", "ndeltrue", "ndelfalse", "nrqtrue", "nrqfalse",
	"merged-experiment",
}

// Indexes into Columns.
const (
	colThroughput = iota
	colName
	colThreads
	colRatio
	colMaxKey
	colRQSize
	colTime
	colInsTrue
	colInsFalse
	colDelTrue
	colDelFalse
	colRQTrue
	colRQFalse
	colExperiment
)

func (r *Reader) scanCSV() (Record, error) {
	for {
		row, err := r.csv.Read()
		if row != nil || err == nil {
			r.line, _ = r.csv.FieldPos(0)
		}
		if err == io.EOF {
			if r.cols == nil {
				return nil, r.newMalformed("missing header", nil)
			}
			return nil, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				r.line = perr.Line
				return r.newSyntaxError(perr.Err.Error()), nil
			}
			return nil, fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
		}
		if isBlank(row) {
			continue
		}
		if r.cols == nil {
			if err := r.parseHeader(row); err != nil {
				return nil, err
			}
			continue
		}
		rec, err := r.parseRow(row)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseHeader resolves the column order of this file.
func (r *Reader) parseHeader(row []string) error {
	index := make(map[string]int, len(row))
	for i, name := range row {
		name = strings.TrimSpace(name)
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	var missing []string
	cols := make([]int, len(Columns))
	for i, name := range Columns {
		j, ok := index[name]
		if !ok {
			missing = append(missing, name)
		}
		cols[i] = j
	}
	if len(missing) == len(Columns) {
		return r.newMalformed("missing header", nil)
	}
	if len(missing) > 0 {
		return r.newMalformed("header lacks column(s) "+strings.Join(missing, ", "), nil)
	}
	r.cols = cols
	return nil
}

// parseRow parses one data row. It returns nil, nil for a repeated
// header row.
func (r *Reader) parseRow(row []string) (Record, error) {
	cell := func(col int) (string, bool) {
		i := r.cols[col]
		if i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}
	vals := make([]string, len(Columns))
	for col := range Columns {
		v, ok := cell(col)
		if !ok {
			return r.newSyntaxError(fmt.Sprintf("row has %d fields, too few for column %q", len(row), Columns[col])), nil
		}
		vals[col] = v
	}
	if vals[colThroughput] == Columns[colThroughput] {
		// A header repeated by concatenated result files.
		return nil, nil
	}

	t := &Trial{
		Algorithm:  vals[colName],
		Index:      r.nTrial,
		Experiment: vals[colExperiment],
		fileName:   r.fileName,
		line:       r.line,
	}
	if t.Algorithm == "" {
		return nil, r.newMalformed("empty algorithm name", nil)
	}

	var err error
	atoi := func(col int) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = strconv.Atoi(vals[col])
		if err != nil {
			err = r.newMalformed(fmt.Sprintf("bad %s %q", Columns[col], vals[col]), err)
		}
		return v
	}
	atoi64 := func(col int) int64 {
		if err != nil {
			return 0
		}
		var v int64
		v, err = strconv.ParseInt(vals[col], 10, 64)
		if err != nil {
			err = r.newMalformed(fmt.Sprintf("bad %s %q", Columns[col], vals[col]), err)
		}
		return v
	}
	atof := func(col int) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = strconv.ParseFloat(vals[col], 64)
		if err != nil {
			err = r.newMalformed(fmt.Sprintf("bad %s %q", Columns[col], vals[col]), err)
		} else if math.IsNaN(v) || math.IsInf(v, 0) {
			err = r.newMalformed(fmt.Sprintf("bad %s %q: not a finite number", Columns[col], vals[col]), nil)
		}
		return v
	}

	t.Threads = atoi(colThreads)
	t.MaxKey = atoi(colMaxKey)
	// Some harnesses print the range query size as a float ("8.0").
	t.RQSize = int(atof(colRQSize))
	t.Elapsed = atof(colTime)
	t.Ops = OpCounts{
		InsertTrue:  atoi64(colInsTrue),
		InsertFalse: atoi64(colInsFalse),
		DeleteTrue:  atoi64(colDelTrue),
		DeleteFalse: atoi64(colDelFalse),
		RQTrue:      atoi64(colRQTrue),
		RQFalse:     atoi64(colRQFalse),
	}
	if vals[colThroughput] != "" {
		t.Throughput = atof(colThroughput)
		t.HasThroughput = true
	}
	if err != nil {
		return nil, err
	}
	if t.Ratio, err = expkey.ParseRatio(vals[colRatio]); err != nil {
		return nil, r.newMalformed("bad ratio", err)
	}
	if !(t.Elapsed > 0) {
		return nil, r.newMalformed(fmt.Sprintf("elapsed time %v is not positive", vals[colTime]), nil)
	}
	r.nTrial++
	return t, nil
}
