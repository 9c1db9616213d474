// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// An AlgMarker maps a substring of a free-text log line to the
// algorithm that subsequent measurements belong to.
type AlgMarker struct {
	Substr    string
	Algorithm string
}

// DefaultAlgMarkers are the algorithm markers of the C++ harness.
// They are checked in order and the first match wins.
var DefaultAlgMarkers = []AlgMarker{
	{"vcasbst", "vcasbst"},
	{"bst.rq_unsafe", "bst.rq_unsafe"},
	{"bst.rq_lockfree", "bst.rq_lockfree"},
}

// logState is the state carried between lines of a free-text log.
// It is reset at the start of every file.
type logState struct {
	alg     string // "" until an algorithm marker is seen
	rqSize  int
	maxKey  int
	hasKey  bool
	work    int
	rq      int
	hasThr  bool
	alloc   int64
	hasLoc  bool
	nodeSz  int64
	hasNode bool
}

func (s *logState) reset() {
	*s = logState{}
}

func (r *Reader) threads() int {
	if r.log.hasThr {
		return r.log.work + r.log.rq
	}
	return r.Defaults.Threads
}

func (r *Reader) maxKey() int {
	if r.log.hasKey {
		return r.log.maxKey
	}
	return r.Defaults.MaxKey
}

// Substrings of C++ harness output lines.
const (
	markUpdateRate = "update throughput"
	markRQRate     = "rq throughput"
	markNodeSize   = "recmgr status for objects of size"
	markAlloc      = "allocated   :"
	markDealloc    = "deallocated :"
)

// parseLogLine advances the C++ log state machine by one line and
// returns the record the line produces, if any.
func (r *Reader) parseLogLine(line string) Record {
	markers := r.AlgMarkers
	if markers == nil {
		markers = DefaultAlgMarkers
	}
	for _, m := range markers {
		if strings.Contains(line, m.Substr) {
			r.log.alg = m.Algorithm
			return nil
		}
	}

	if key, val, ok := parseSetting(line); ok {
		var dst *int
		switch key {
		case "RQSIZE":
			dst = &r.log.rqSize
		case "MAXKEY":
			dst, r.log.hasKey = &r.log.maxKey, true
		case "WORK_THREADS":
			dst, r.log.hasThr = &r.log.work, true
		case "RQ_THREADS":
			dst, r.log.hasThr = &r.log.rq, true
		default:
			return nil
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return r.newSyntaxError(fmt.Sprintf("bad %s value %q", key, val))
		}
		*dst = n
		return nil
	}

	switch {
	case strings.Contains(line, markUpdateRate):
		return r.rateSample(UpdateRate, line)
	case strings.Contains(line, markRQRate):
		return r.rateSample(RQRate, line)
	case strings.Contains(line, markNodeSize):
		f := strings.Fields(line)
		if len(f) < 7 {
			return r.newSyntaxError("node size line too short")
		}
		n, err := strconv.ParseInt(f[6], 10, 64)
		if err != nil {
			return r.newSyntaxError(fmt.Sprintf("bad node size %q", f[6]))
		}
		r.log.nodeSz, r.log.hasNode = n, true
	case strings.Contains(line, markDealloc):
		n, serr := r.counterField(line)
		if serr != nil {
			return serr
		}
		if r.log.alg == "" {
			return r.newSyntaxError("memory report before any algorithm marker")
		}
		if !r.log.hasLoc || !r.log.hasNode {
			return r.newSyntaxError("deallocation count without allocation count and node size")
		}
		return &Sample{
			Algorithm: r.log.alg,
			Threads:   r.threads(),
			MaxKey:    r.maxKey(),
			RQSize:    r.log.rqSize,
			Metric:    MemoryBytes,
			Value:     float64((r.log.alloc - n) * r.log.nodeSz),
			fileName:  r.fileName,
			line:      r.line,
		}
	case strings.Contains(line, markAlloc):
		n, serr := r.counterField(line)
		if serr != nil {
			return serr
		}
		r.log.alloc, r.log.hasLoc = n, true
	}
	return nil
}

// parseSetting parses a "KEY=value" line as printed by the C++
// harness for its compile-time and command-line parameters.
func parseSetting(line string) (key, val string, ok bool) {
	key, val, ok = strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, strings.TrimSpace(val), true
}

func (r *Reader) counterField(line string) (int64, *SyntaxError) {
	f := strings.Fields(line)
	if len(f) < 3 {
		return 0, r.newSyntaxError("counter line too short")
	}
	n, err := strconv.ParseInt(f[2], 10, 64)
	if err != nil {
		return 0, r.newSyntaxError(fmt.Sprintf("bad counter %q", f[2]))
	}
	return n, nil
}

func (r *Reader) rateSample(m Metric, line string) Record {
	if r.log.alg == "" {
		return r.newSyntaxError(m.String() + " before any algorithm marker")
	}
	f := strings.Fields(line)
	v, err := strconv.ParseFloat(f[len(f)-1], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return r.newSyntaxError(fmt.Sprintf("bad %s %q", m, f[len(f)-1]))
	}
	return &Sample{
		Algorithm: r.log.alg,
		Threads:   r.threads(),
		MaxKey:    r.maxKey(),
		RQSize:    r.log.rqSize,
		Metric:    m,
		Value:     v,
		fileName:  r.fileName,
		line:      r.line,
	}
}

// Substrings of JVM memory log lines.
const (
	markJVMRQSize = "-rqsize"
	markJVMAlg    = "rqoverlapRandom"
	markJVMMemory = "Memory Usage After Benchmark"
)

// parseJVMMemoryLine advances the JVM memory log state machine by one
// line and returns the record the line produces, if any.
func (r *Reader) parseJVMMemoryLine(line string) Record {
	if strings.Contains(line, markJVMRQSize) {
		for _, word := range strings.Fields(line) {
			if !strings.Contains(word, markJVMRQSize) {
				continue
			}
			num := strings.Replace(word, markJVMRQSize, "", 1)
			n, err := strconv.Atoi(num)
			if err != nil {
				return r.newSyntaxError(fmt.Sprintf("bad range query size %q", word))
			}
			r.log.rqSize = n
		}
	}
	switch {
	case strings.Contains(line, markJVMAlg):
		alg, _, _ := strings.Cut(strings.TrimSpace(line), "-")
		r.log.alg = alg
	case strings.Contains(line, markJVMMemory):
		if r.log.alg == "" {
			return r.newSyntaxError("memory report before any algorithm line")
		}
		f := strings.Fields(line)
		if len(f) < 2 {
			return r.newSyntaxError("memory report too short")
		}
		v, err := strconv.ParseFloat(f[len(f)-2], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return r.newSyntaxError(fmt.Sprintf("bad memory usage %q", f[len(f)-2]))
		}
		return &Sample{
			Algorithm: r.log.alg,
			Threads:   r.threads(),
			MaxKey:    r.maxKey(),
			RQSize:    r.log.rqSize,
			Metric:    MemoryBytes,
			Value:     v,
			fileName:  r.fileName,
			line:      r.line,
		}
	}
	return nil
}
