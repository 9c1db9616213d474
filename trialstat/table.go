// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialstat

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/rqbench/rqstat/expkey"
)

// A Stat summarizes the post-warm-up values of one key.
type Stat struct {
	Mean   float64
	StdDev float64 // population standard deviation
	N      int     // number of values after trimming
}

// A Table is an immutable mapping from keys to aggregate statistics.
type Table struct {
	stats   map[expkey.Key]Stat
	keys    []expkey.Key
	raw     map[expkey.Key]rawInfo
	dropped []expkey.Key
}

type rawInfo struct {
	count      int
	maxElapsed float64 // longest post-warm-up trial, or 0
}

// Table computes the aggregate statistics of every key added to b.
//
// Values are divided by the builder's scale and, unless warm-up
// trimming is disabled, the first half of each key's values is
// discarded. Keys whose mean is exactly zero are left out of the
// table and listed by Dropped.
func (b *Builder) Table() *Table {
	t := &Table{
		stats: make(map[expkey.Key]Stat, len(b.order)),
		raw:   make(map[expkey.Key]rawInfo, len(b.order)),
	}
	for _, k := range b.order {
		g := b.groups[k]
		values, elapsed := g.values, g.elapsed
		if !b.keepWarmup {
			values, elapsed = values.Trim(), elapsed.Trim()
		}
		info := rawInfo{count: len(g.values)}
		if len(elapsed) > 0 {
			_, info.maxElapsed = stats.Bounds(elapsed)
		}
		t.raw[k] = info

		xs := make([]float64, len(values))
		for i, v := range values {
			xs[i] = v / b.scale
		}
		st := Stat{Mean: stats.Mean(xs), StdDev: pstdev(xs), N: len(xs)}
		if st.Mean == 0 {
			t.dropped = append(t.dropped, k)
			continue
		}
		t.stats[k] = st
		t.keys = append(t.keys, k)
	}
	sortKeys(t.keys)
	sortKeys(t.dropped)
	return t
}

// NewTable returns a Table holding the given statistics, for example
// ones loaded back from storage. It has no raw trial information, so
// Diagnose reports nothing for it.
func NewTable(st map[expkey.Key]Stat) *Table {
	t := &Table{stats: make(map[expkey.Key]Stat, len(st))}
	for k, s := range st {
		t.stats[k] = s
		t.keys = append(t.keys, k)
	}
	sortKeys(t.keys)
	return t
}

// pstdev returns the population standard deviation of xs.
func pstdev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	return math.Sqrt(stats.Variance(xs) * float64(n-1) / float64(n))
}

func sortKeys(keys []expkey.Key) {
	sort.Slice(keys, func(i, j int) bool { return expkey.Less(keys[i], keys[j]) })
}

// Lookup returns the statistics of key k.
func (t *Table) Lookup(k expkey.Key) (Stat, bool) {
	st, ok := t.stats[k]
	return st, ok
}

// Means returns a new map from each key to its mean.
func (t *Table) Means() map[expkey.Key]float64 {
	m := make(map[expkey.Key]float64, len(t.stats))
	for k, st := range t.stats {
		m[k] = st.Mean
	}
	return m
}

// StdDevs returns a new map from each key to its standard deviation.
func (t *Table) StdDevs() map[expkey.Key]float64 {
	m := make(map[expkey.Key]float64, len(t.stats))
	for k, st := range t.stats {
		m[k] = st.StdDev
	}
	return m
}

// Keys returns the keys of t ordered by canonical serialization. The
// caller must not modify the result.
func (t *Table) Keys() []expkey.Key {
	return t.keys
}

// Len returns the number of keys in t.
func (t *Table) Len() int {
	return len(t.keys)
}

// Dropped returns the keys left out of t because their mean was zero.
func (t *Table) Dropped() []expkey.Key {
	return t.dropped
}
