// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expkey defines the canonical key that identifies one
// benchmark experiment configuration and one derived metric of it.
//
// A Key is a comparable value: two Keys are == exactly when they
// describe the same experiment, regardless of which file or input
// format the parameters were recovered from. Key.String is the single
// canonical serialization used for display, CSV export and storage.
package expkey

import (
	"fmt"
	"strconv"
	"strings"
)

// A Family distinguishes the independent key families.
type Family int

const (
	// Point keys identify simple scalability experiments measured
	// by total throughput.
	Point Family = iota
	// RQ keys identify experiments that measure concurrent update
	// throughput and range-query throughput separately.
	RQ
	// Memory keys identify memory usage measurements.
	Memory
)

var familyNames = [...]string{Point: "point", RQ: "rq", Memory: "memory"}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return familyNames[f]
}

func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Family) UnmarshalText(text []byte) error {
	for i, name := range familyNames {
		if string(text) == name {
			*f = Family(i)
			return nil
		}
	}
	return fmt.Errorf("unknown key family %q", text)
}

// An Op is the metric suffix of an RQ key.
type Op int

const (
	// Total is the op of Point and Memory keys.
	Total Op = iota
	Updates
	RQs
)

var opNames = [...]string{Total: "", Updates: "updates", RQs: "rqs"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Op) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "total":
		*o = Total
	case "updates":
		*o = Updates
	case "rqs":
		*o = RQs
	default:
		return fmt.Errorf("unknown op %q", text)
	}
	return nil
}

// A QueryType identifies the complex-query sub-experiment of an RQ
// key. Range is a plain range query and adds no suffix.
type QueryType int

const (
	Range QueryType = iota
	Succ
	FindIf
	Multisearch
	MultisearchNonatomic
)

var queryNames = [...]string{
	Range:                "range",
	Succ:                 "succ",
	FindIf:               "findif",
	Multisearch:          "multisearch",
	MultisearchNonatomic: "multisearch-nonatomic",
}

func (q QueryType) String() string {
	if q < 0 || int(q) >= len(queryNames) {
		return fmt.Sprintf("QueryType(%d)", int(q))
	}
	return queryNames[q]
}

func (q QueryType) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *QueryType) UnmarshalText(text []byte) error {
	for i, name := range queryNames {
		if string(text) == name {
			*q = QueryType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown query type %q", text)
}

// tagOrder is the order in which experiment tags are matched. The
// first match wins, so "multisearch-nonatomic" must precede
// "multisearch".
var tagOrder = []QueryType{FindIf, Succ, MultisearchNonatomic, Multisearch}

// QueryFromTag returns the complex-query type named by a free-text
// experiment tag. If the tag names no complex query, it returns
// Range and false.
func QueryFromTag(tag string) (QueryType, bool) {
	for _, q := range tagOrder {
		if strings.Contains(tag, queryNames[q]) {
			return q, true
		}
	}
	return Range, false
}

// A Key identifies one experiment configuration and derived metric.
//
// Fields that are not part of a family's serialization are ignored by
// String but still participate in ==. Constructors and Trial mapping
// leave them zero; code that builds Keys by hand should do the same.
type Key struct {
	Family    Family
	Algorithm string
	Threads   int
	MaxKey    int
	Ratio     Ratio // Point only
	RQSize    int
	Query     QueryType // RQ only
	Op        Op        // RQ only
}

// PointKey returns the key of a simple scalability experiment.
func PointKey(alg string, threads, maxKey int, ratio Ratio, rqSize int) Key {
	return Key{Family: Point, Algorithm: alg, Threads: threads, MaxKey: maxKey, Ratio: ratio, RQSize: rqSize}
}

// RQKey returns the key of one op of a range-query experiment.
func RQKey(alg string, threads, maxKey, rqSize int, q QueryType, op Op) Key {
	return Key{Family: RQ, Algorithm: alg, Threads: threads, MaxKey: maxKey, RQSize: rqSize, Query: q, Op: op}
}

// MemoryKey returns the key of a memory usage measurement.
func MemoryKey(alg string, rqSize int) Key {
	return Key{Family: Memory, Algorithm: alg, RQSize: rqSize}
}

// String returns the canonical serialization of k:
//
//	Point:  alg-4t-10000k-10i-10d-0rq-100s
//	RQ:     RQ-alg-72t-200000k-256s[-querytype]-{updates|rqs}
//	Memory: MEM-alg-256s
func (k Key) String() string {
	var b strings.Builder
	switch k.Family {
	case Point:
		b.WriteString(k.Algorithm)
		b.WriteByte('-')
		b.WriteString(k.Benchmark())
	case RQ:
		b.WriteString("RQ-")
		b.WriteString(k.Algorithm)
		b.WriteByte('-')
		writeInt(&b, k.Threads, "t-")
		writeInt(&b, k.MaxKey, "k-")
		writeInt(&b, k.RQSize, "s")
		if k.Query != Range {
			b.WriteByte('-')
			b.WriteString(k.Query.String())
		}
		if k.Op != Total {
			b.WriteByte('-')
			b.WriteString(k.Op.String())
		}
	case Memory:
		b.WriteString("MEM-")
		b.WriteString(k.Algorithm)
		b.WriteByte('-')
		writeInt(&b, k.RQSize, "s")
	default:
		return fmt.Sprintf("<%v %s>", k.Family, k.Algorithm)
	}
	return b.String()
}

// Benchmark returns the algorithm-independent part of a Point key,
// for example "4t-10000k-10i-10d-0rq-100s". Chart titles are looked
// up by the portion of this after the thread count; see Workload.
func (k Key) Benchmark() string {
	var b strings.Builder
	writeInt(&b, k.Threads, "t-")
	b.WriteString(k.Workload())
	return b.String()
}

// Workload returns the thread- and algorithm-independent part of a
// Point key, for example "10000k-10i-10d-0rq-100s".
func (k Key) Workload() string {
	var b strings.Builder
	writeInt(&b, k.MaxKey, "k-")
	b.WriteString(k.Ratio.String())
	b.WriteByte('-')
	writeInt(&b, k.RQSize, "s")
	return b.String()
}

func writeInt(b *strings.Builder, v int, sfx string) {
	b.WriteString(strconv.Itoa(v))
	b.WriteString(sfx)
}

// Less orders keys by their canonical serialization.
func Less(a, b Key) bool {
	return a.String() < b.String()
}

// An Observation is one raw per-trial value destined for aggregation
// under Key. Elapsed is the trial's run time in seconds, or 0 if the
// source does not record it.
type Observation struct {
	Key     Key
	Value   float64
	Elapsed float64
}
