// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import "github.com/rqbench/rqstat/expkey"

// A Predicate reports whether algorithm alg should be left out of a
// chart whose fixed parameters are k.
type Predicate func(alg string, k expkey.Key) bool

// ExcludeAlgorithms excludes the named algorithms whenever cond holds.
// A nil cond always holds.
func ExcludeAlgorithms(algs []string, cond Predicate) Predicate {
	set := make(map[string]bool, len(algs))
	for _, a := range algs {
		set[a] = true
	}
	return func(alg string, k expkey.Key) bool {
		return set[alg] && (cond == nil || cond(alg, k))
	}
}

// RQConfigured holds when the fixed parameters run range queries: an
// RQ key, or a point workload with a non-zero range-query share.
func RQConfigured() Predicate {
	return func(_ string, k expkey.Key) bool {
		return k.Family == expkey.RQ || k.Ratio.RQ > 0
	}
}

// MaxKeyIs holds when the fixed key range is n.
func MaxKeyIs(n int) Predicate {
	return func(_ string, k expkey.Key) bool {
		return k.MaxKey == n
	}
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(alg string, k expkey.Key) bool {
		return !p(alg, k)
	}
}

// Any holds when at least one of ps holds.
func Any(ps ...Predicate) Predicate {
	return func(alg string, k expkey.Key) bool {
		for _, p := range ps {
			if p(alg, k) {
				return true
			}
		}
		return false
	}
}

// All holds when every one of ps holds.
func All(ps ...Predicate) Predicate {
	return func(alg string, k expkey.Key) bool {
		for _, p := range ps {
			if !p(alg, k) {
				return false
			}
		}
		return true
	}
}
