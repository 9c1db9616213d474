// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialstat

import (
	"fmt"

	"github.com/rqbench/rqstat/expkey"
)

// A Kind classifies a Diagnostic.
type Kind int

const (
	// KindTrialCount means a key has an unexpected number of trials.
	KindTrialCount Kind = iota
	// KindLongRun means a post-warm-up trial ran longer than allowed.
	KindLongRun
)

func (k Kind) String() string {
	switch k {
	case KindTrialCount:
		return "trial count"
	case KindLongRun:
		return "long run"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Diagnostic flags a key whose trials look suspicious.
type Diagnostic struct {
	Key  expkey.Key
	Kind Kind

	// For KindTrialCount, Count is the number of raw trials and Want
	// the expected number.
	Count, Want int

	// For KindLongRun, Elapsed is the longest post-warm-up trial in
	// seconds.
	Elapsed float64
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case KindTrialCount:
		return fmt.Sprintf("%s: %d trials, want %d", d.Key, d.Count, d.Want)
	case KindLongRun:
		return fmt.Sprintf("%s: ran too long (%.2fs)", d.Key, d.Elapsed)
	}
	return fmt.Sprintf("%s: %v", d.Key, d.Kind)
}

// Options configures Diagnose.
type Options struct {
	// ExpectTrials returns the expected number of raw trials for a
	// key, or 0 to skip the check. Nil means DefaultExpectTrials.
	ExpectTrials func(expkey.Key) int

	// MaxElapsed is the longest allowed post-warm-up trial in
	// seconds. Zero means DefaultMaxElapsed; negative disables the
	// check.
	MaxElapsed float64
}

// DefaultMaxElapsed is the default limit on post-warm-up trial time.
const DefaultMaxElapsed = 5.5

// hugeKeyRange is the key range whose runs are repeated twice as often.
const hugeKeyRange = 2000000000

// DefaultExpectTrials expects 10 trials per key, or 20 for keys with
// a key range of two billion.
func DefaultExpectTrials(k expkey.Key) int {
	if k.MaxKey == hugeKeyRange {
		return 20
	}
	return 10
}

// Diagnose checks each key of t for an unexpected trial count and
// for overlong trials, and returns the findings ordered by key. Keys
// dropped for a zero mean are checked too.
func (t *Table) Diagnose(opts Options) []Diagnostic {
	expect := opts.ExpectTrials
	if expect == nil {
		expect = DefaultExpectTrials
	}
	maxElapsed := opts.MaxElapsed
	if maxElapsed == 0 {
		maxElapsed = DefaultMaxElapsed
	}

	keys := append(append([]expkey.Key(nil), t.keys...), t.dropped...)
	sortKeys(keys)

	var out []Diagnostic
	for _, k := range keys {
		info, ok := t.raw[k]
		if !ok {
			continue
		}
		if want := expect(k); want > 0 && info.count != want {
			out = append(out, Diagnostic{Key: k, Kind: KindTrialCount, Count: info.count, Want: want})
		}
		if maxElapsed > 0 && info.maxElapsed > maxElapsed {
			out = append(out, Diagnostic{Key: k, Kind: KindLongRun, Elapsed: info.maxElapsed})
		}
	}
	return out
}
