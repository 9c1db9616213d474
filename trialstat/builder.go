// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialstat aggregates raw per-trial observations into a table
// of per-key statistics.
package trialstat

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/trialfmt"
)

// A DupePolicy says what to do when a key that has already been seen
// in one input file appears again in a later one.
type DupePolicy int

const (
	// DupeReplace discards the values from earlier files.
	DupeReplace DupePolicy = iota
	// DupeCombine appends the later values in arrival order.
	DupeCombine
	// DupeReject makes Add return a *DuplicateKeyError.
	DupeReject
)

var dupeNames = [...]string{DupeReplace: "replace", DupeCombine: "combine", DupeReject: "reject"}

func (p DupePolicy) String() string {
	if p < 0 || int(p) >= len(dupeNames) {
		return fmt.Sprintf("DupePolicy(%d)", int(p))
	}
	return dupeNames[p]
}

// ParseDupePolicy parses the name of a DupePolicy.
func ParseDupePolicy(s string) (DupePolicy, error) {
	for i, name := range dupeNames {
		if s == name {
			return DupePolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown duplicate policy %q (want one of %s)", s, strings.Join(dupeNames[:], ", "))
}

// A DuplicateKeyError reports a key that appears in more than one
// input file under DupeReject.
type DuplicateKeyError struct {
	Key           expkey.Key
	First, Second string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: key %s already read from %s", e.Second, e.Key, e.First)
}

// DefaultScale converts raw per-second rates to millions per second
// and raw byte counts to megabytes.
const DefaultScale = 1e6

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Dupes is the policy for keys that appear in several files.
	Dupes DupePolicy

	// KeepWarmup disables warm-up trimming. Harnesses that discard
	// their own warm-up runs should set it.
	KeepWarmup bool

	// Scale divides every raw value. Zero means DefaultScale.
	Scale float64

	// Warn receives non-fatal notes. Nil means print to stderr.
	Warn func(format string, args ...interface{})
}

// A Builder accumulates observations in arrival order and computes a
// Table from them.
type Builder struct {
	dupes      DupePolicy
	keepWarmup bool
	scale      float64
	warn       func(format string, args ...interface{})

	groups map[expkey.Key]*group
	order  []expkey.Key
}

type group struct {
	file    string
	values  Ordered
	elapsed Ordered
}

// Ordered is a list of per-trial values in the order the trials were
// read. Warm-up trimming depends on this order, so values are never
// sorted or deduplicated.
type Ordered []float64

// Trim returns the values left after discarding the first half,
// rounding the discarded count down.
func (o Ordered) Trim() Ordered {
	return o[len(o)/2:]
}

// NewBuilder returns a Builder configured by opts. A nil opts uses
// the defaults.
func NewBuilder(opts *BuilderOptions) *Builder {
	if opts == nil {
		opts = &BuilderOptions{}
	}
	b := &Builder{
		dupes:      opts.Dupes,
		keepWarmup: opts.KeepWarmup,
		scale:      opts.Scale,
		warn:       opts.Warn,
		groups:     make(map[expkey.Key]*group),
	}
	if b.scale == 0 {
		b.scale = DefaultScale
	}
	if b.warn == nil {
		b.warn = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format, args...)
		}
	}
	return b
}

// Add appends one observation read from fileName.
//
// Under DupeReplace, the first observation of a key from a new file
// discards that key's values from earlier files and reports it to the
// warning callback. Under DupeReject it
// is an error and the observation is not added.
func (b *Builder) Add(obs expkey.Observation, fileName string) error {
	g, ok := b.groups[obs.Key]
	if !ok {
		g = &group{file: fileName}
		b.groups[obs.Key] = g
		b.order = append(b.order, obs.Key)
	} else if g.file != fileName {
		switch b.dupes {
		case DupeReject:
			return &DuplicateKeyError{Key: obs.Key, First: g.file, Second: fileName}
		case DupeReplace:
			b.warn("%s: %d values from %s replaced by %s\n", obs.Key, len(g.values), g.file, fileName)
			g.values, g.elapsed = g.values[:0], g.elapsed[:0]
		}
		g.file = fileName
	}
	g.values = append(g.values, obs.Value)
	if obs.Elapsed > 0 {
		g.elapsed = append(g.elapsed, obs.Elapsed)
	}
	return nil
}

// AddFiles adds every record of files.
//
// Observations are staged per file and committed only once the file
// has been read completely, so a file that turns out to be malformed
// contributes nothing. Under DupeReject, a file that repeats any key
// already read from another file contributes nothing either. Each malformed file and each duplicate key is
// collected into the returned error; reading continues with the next
// file. Syntax errors and range-query trials without a query tag are
// reported to the warning callback.
func (b *Builder) AddFiles(files *trialfmt.Files) error {
	var errs *multierror.Error
	var (
		cur      string
		staged   []expkey.Observation
		untagged int
	)
	commit := func() {
		if untagged > 0 {
			b.warn("%s: %d range-query trials have no query tag; treating them as plain range queries\n", cur, untagged)
		}
		reported := make(map[expkey.Key]bool)
		if b.dupes == DupeReject {
			// A file with any duplicate key is rejected whole.
			for _, obs := range staged {
				if g, ok := b.groups[obs.Key]; ok && g.file != cur && !reported[obs.Key] {
					reported[obs.Key] = true
					errs = multierror.Append(errs, &DuplicateKeyError{Key: obs.Key, First: g.file, Second: cur})
				}
			}
			if len(reported) > 0 {
				staged, untagged = staged[:0], 0
				return
			}
		}
		for _, obs := range staged {
			if err := b.Add(obs, cur); err != nil {
				if !reported[obs.Key] {
					reported[obs.Key] = true
					errs = multierror.Append(errs, err)
				}
			}
		}
		staged, untagged = staged[:0], 0
	}

	for files.Scan() {
		rec := files.Result()
		name, _ := rec.Pos()
		if name != cur {
			commit()
			cur = name
		}
		switch rec := rec.(type) {
		case *trialfmt.MalformedInputError:
			staged, untagged = staged[:0], 0
			errs = multierror.Append(errs, rec)
		case *trialfmt.SyntaxError:
			b.warn("%v\n", rec)
		case *trialfmt.Trial:
			obs, missing := rec.Observations()
			staged = append(staged, obs...)
			if missing {
				untagged++
			}
		case *trialfmt.Sample:
			staged = append(staged, rec.Observation())
		}
	}
	commit()
	if err := files.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// Len returns the number of distinct keys added so far.
func (b *Builder) Len() int {
	return len(b.order)
}

// Raw returns the raw values of key k in arrival order, before
// scaling and trimming.
func (b *Builder) Raw(k expkey.Key) Ordered {
	if g, ok := b.groups[k]; ok {
		return g.values
	}
	return nil
}
