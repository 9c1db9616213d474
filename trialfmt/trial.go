// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfmt

import (
	"fmt"

	"github.com/rqbench/rqstat/expkey"
)

// A Record is a single record read from a benchmark results file. It
// may be a *Trial, a *Sample, a *SyntaxError or a
// *MalformedInputError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based line number within that file. If this record was not
	// read from a file, it returns "", 0.
	Pos() (fileName string, line int)
}

// OpCounts are the per-operation counters of one trial. The True and
// False variants count operations that did and did not modify (or
// find) a key.
type OpCounts struct {
	InsertTrue, InsertFalse int64
	DeleteTrue, DeleteFalse int64
	RQTrue, RQFalse         int64
}

// Updates returns the number of insert and delete operations.
func (c OpCounts) Updates() int64 {
	return c.InsertTrue + c.InsertFalse + c.DeleteTrue + c.DeleteFalse
}

// RQs returns the number of range queries.
func (c OpCounts) RQs() int64 {
	return c.RQTrue + c.RQFalse
}

// Total returns the number of counted operations.
func (c OpCounts) Total() int64 {
	return c.Updates() + c.RQs()
}

// A Trial is one row of a benchmark run.
type Trial struct {
	Algorithm string
	// Index is the 0-based position of this trial among the trials
	// of its file.
	Index   int
	Threads int
	Ratio   expkey.Ratio
	MaxKey  int
	RQSize  int
	// Elapsed is the trial's run time in seconds. It is always > 0.
	Elapsed float64
	Ops     OpCounts

	// Throughput is the operations per second reported by the
	// harness. It is meaningful only if HasThroughput is set.
	Throughput    float64
	HasThroughput bool

	// Experiment is the free-text tag naming the experiment script
	// that produced this trial.
	Experiment string

	fileName string
	line     int
}

// Pos returns the file name and line number of t.
func (t *Trial) Pos() (fileName string, line int) {
	return t.fileName, t.line
}

// Rate returns the total throughput of t in operations per second,
// either as reported or as total operations over elapsed time.
func (t *Trial) Rate() float64 {
	if t.HasThroughput {
		return t.Throughput
	}
	return float64(t.Ops.Total()) / t.Elapsed
}

// IsRangeQuery reports whether t belongs to a range-query experiment.
// Such experiments reuse the update-only ratio but perform range
// queries on dedicated threads.
func (t *Trial) IsRangeQuery() bool {
	return t.Ratio == expkey.UpdateOnly && t.Ops.RQs() > 0
}

// Observations maps t to the raw values it contributes to aggregation.
//
// A range-query trial yields an update-throughput and a
// range-query-throughput observation; its query type comes from the
// experiment tag. If the tag names no complex query, the trial is
// treated as a plain range query and tagMissing is set, since a log
// mixing complex and plain range-query runs without tags cannot be
// told apart. Any other trial yields one total-throughput observation.
func (t *Trial) Observations() (obs []expkey.Observation, tagMissing bool) {
	if t.IsRangeQuery() {
		q, ok := expkey.QueryFromTag(t.Experiment)
		upd := expkey.RQKey(t.Algorithm, t.Threads, t.MaxKey, t.RQSize, q, expkey.Updates)
		rqs := expkey.RQKey(t.Algorithm, t.Threads, t.MaxKey, t.RQSize, q, expkey.RQs)
		return []expkey.Observation{
			{Key: upd, Value: float64(t.Ops.Updates()) / t.Elapsed, Elapsed: t.Elapsed},
			{Key: rqs, Value: float64(t.Ops.RQs()) / t.Elapsed, Elapsed: t.Elapsed},
		}, !ok
	}
	k := expkey.PointKey(t.Algorithm, t.Threads, t.MaxKey, t.Ratio, t.RQSize)
	return []expkey.Observation{{Key: k, Value: t.Rate(), Elapsed: t.Elapsed}}, false
}

// A Metric identifies the quantity of a Sample.
type Metric int

const (
	// UpdateRate is update operations per second.
	UpdateRate Metric = iota
	// RQRate is range queries per second.
	RQRate
	// MemoryBytes is memory in use after the run.
	MemoryBytes
)

func (m Metric) String() string {
	switch m {
	case UpdateRate:
		return "update-rate"
	case RQRate:
		return "rq-rate"
	case MemoryBytes:
		return "memory"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// A Sample is one derived measurement recovered from a free-text log.
type Sample struct {
	Algorithm string
	Threads   int
	MaxKey    int
	RQSize    int
	Metric    Metric
	Value     float64

	fileName string
	line     int
}

// Pos returns the file name and line number of s.
func (s *Sample) Pos() (fileName string, line int) {
	return s.fileName, s.line
}

// Observation maps s to the raw value it contributes to aggregation.
func (s *Sample) Observation() expkey.Observation {
	var k expkey.Key
	switch s.Metric {
	case UpdateRate:
		k = expkey.RQKey(s.Algorithm, s.Threads, s.MaxKey, s.RQSize, expkey.Range, expkey.Updates)
	case RQRate:
		k = expkey.RQKey(s.Algorithm, s.Threads, s.MaxKey, s.RQSize, expkey.Range, expkey.RQs)
	default:
		k = expkey.MemoryKey(s.Algorithm, s.RQSize)
	}
	return expkey.Observation{Key: k, Value: s.Value}
}
