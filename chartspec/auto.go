// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chartspec

import (
	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/series"
)

// Auto returns charts discovered from the keys of a table, for inputs
// that were not produced by a known experiment script:
//
//   - a thread scalability chart of the Point keys, at the smallest
//     key range and range-query size and the first ratio seen;
//   - update and range-query throughput charts over range-query size
//     of the RQ keys, at the smallest thread count and key range;
//   - a memory chart over range-query size of the Memory keys.
//
// Each chart includes every algorithm seen for its family, in order
// of first appearance.
func Auto(keys []expkey.Key) []Chart {
	var charts []Chart
	p := series.FamilyIs(expkey.Point)
	if threads := series.Domain(keys, expkey.Threads, p); threads != nil {
		maxKey := series.Domain(keys, expkey.MaxKey, p)[0]
		rqSize := series.Domain(keys, expkey.RQSize, p)[0]
		ratio := series.Ratios(keys, nil)[0]
		charts = append(charts, Chart{
			Name:       "scalability",
			Kind:       Line,
			Fixed:      expkey.Patch{MaxKey: &maxKey, Ratio: &ratio, RQSize: &rqSize},
			Algorithms: series.Algorithms(keys, p),
			Axis:       expkey.Threads,
			X:          threads,
			Errors:     true,
			XLabel:     "Number of threads",
			YLabel:     "Total throughput (Mop/s)",
		})
	}

	rq := series.FamilyIs(expkey.RQ)
	if sizes := series.Domain(keys, expkey.RQSize, rq); sizes != nil {
		threads := series.Domain(keys, expkey.Threads, rq)[0]
		maxKey := series.Domain(keys, expkey.MaxKey, rq)[0]
		fam := expkey.RQ
		for _, op := range []expkey.Op{expkey.Updates, expkey.RQs} {
			op := op
			label := "Update throughput (Mop/s)"
			if op == expkey.RQs {
				label = "RQ throughput (Mop/s)"
			}
			charts = append(charts, Chart{
				Name:       "rqsize-" + op.String(),
				Kind:       Line,
				Fixed:      expkey.Patch{Family: &fam, Threads: &threads, MaxKey: &maxKey, Op: &op},
				Algorithms: series.Algorithms(keys, rq),
				Axis:       expkey.RQSize,
				X:          sizes,
				Errors:     true,
				LogX:       true,
				SizeTicks:  true,
				XLabel:     "Range query size",
				YLabel:     label,
			})
		}
	}

	mem := series.FamilyIs(expkey.Memory)
	if sizes := series.Domain(keys, expkey.RQSize, mem); sizes != nil {
		fam := expkey.Memory
		charts = append(charts, Chart{
			Name:       "memory",
			Kind:       Line,
			Fixed:      expkey.Patch{Family: &fam},
			Algorithms: series.Algorithms(keys, mem),
			Axis:       expkey.RQSize,
			X:          sizes,
			Errors:     true,
			LogX:       true,
			SizeTicks:  true,
			XLabel:     "Range query size",
			YLabel:     "Memory Usage (MB)",
		})
	}
	return charts
}
