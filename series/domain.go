// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"github.com/aclements/go-gg/generic/slice"

	"github.com/rqbench/rqstat/expkey"
)

// Domain returns the distinct values of field f among the keys for
// which filter holds, in increasing order. A nil filter accepts every
// key.
func Domain(keys []expkey.Key, f expkey.Field, filter func(expkey.Key) bool) []int {
	var vals []int
	for _, k := range keys {
		if filter == nil || filter(k) {
			vals = append(vals, k.Get(f))
		}
	}
	if len(vals) == 0 {
		return nil
	}
	vals = slice.Nub(vals).([]int)
	slice.Sort(vals)
	return vals
}

// Algorithms returns the distinct algorithms among the keys for which
// filter holds, in order of first appearance.
func Algorithms(keys []expkey.Key, filter func(expkey.Key) bool) []string {
	var algs []string
	for _, k := range keys {
		if filter == nil || filter(k) {
			algs = append(algs, k.Algorithm)
		}
	}
	if len(algs) == 0 {
		return nil
	}
	return slice.Nub(algs).([]string)
}

// Ratios returns the distinct workload ratios of the Point keys for
// which filter holds, in order of first appearance.
func Ratios(keys []expkey.Key, filter func(expkey.Key) bool) []expkey.Ratio {
	var rs []expkey.Ratio
	for _, k := range keys {
		if k.Family == expkey.Point && (filter == nil || filter(k)) {
			rs = append(rs, k.Ratio)
		}
	}
	if len(rs) == 0 {
		return nil
	}
	return slice.Nub(rs).([]expkey.Ratio)
}

// FamilyIs returns a key filter that accepts keys of family f.
func FamilyIs(f expkey.Family) func(expkey.Key) bool {
	return func(k expkey.Key) bool { return k.Family == f }
}
