// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trialfmt reads and writes the raw result files produced by
// concurrent data structure benchmark harnesses.
//
// Three input formats are understood: the columnar CSV written by the
// JVM harness, the free-text output of the C++ microbenchmark, and the
// free-text memory log of the JVM harness. A Reader turns any of them
// into a sequence of Records.
package trialfmt

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// A Format identifies one input file format.
type Format int

const (
	// CSV is the columnar format with a header row.
	CSV Format = iota
	// Log is the free-text output of the C++ harness, covering both
	// throughput and record-manager memory reports.
	Log
	// JVMMemory is the free-text memory log of the JVM harness.
	JVMMemory
)

var formatNames = [...]string{CSV: "csv", Log: "log", JVMMemory: "jvmmem"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if s == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input format %q (want csv, log or jvmmem)", s)
}

// A Reader reads benchmark result files.
//
// Its API is modeled on bufio.Scanner. Unlike bufio.Scanner, each
// Record returned by Result is freshly allocated and may be retained
// by the caller.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	// Defaults supplies experiment parameters that free-text logs
	// may not print.
	Defaults Defaults

	// AlgMarkers is the ordered table of substrings that select the
	// current algorithm in a Log file. If nil, DefaultAlgMarkers is
	// used.
	AlgMarkers []AlgMarker

	format   Format
	fileName string
	line     int
	err      error // fatal error
	result   Record

	// CSV state.
	csv    *csv.Reader
	cols   []int // column index of each required column, nil before header
	nTrial int

	// Free-text state.
	s   *bufio.Scanner
	log logState
}

// Defaults are fallback experiment parameters for free-text logs.
type Defaults struct {
	Threads int
	MaxKey  int
}

// A SyntaxError represents a line of a results file that could not be
// understood. It is not fatal: the line is skipped and reading
// continues.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A MalformedInputError is a fatal error in a results file. The file
// cannot be used and reading it stops.
type MalformedInputError struct {
	FileName string
	Line     int
	Msg      string
	Err      error // underlying error, may be nil
}

func (e *MalformedInputError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *MalformedInputError) Error() string {
	if e.Line == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.FileName, e.Msg, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.FileName, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s:%d: %s: %v", e.FileName, e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

var noResult = &SyntaxError{"", 0, "Reader.Scan has not been called"}

// NewReader constructs a reader to parse format f from r. fileName is
// used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string, f Format) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, f)
	return reader
}

// Reset resets the reader to begin reading from a new input in format
// f. All per-file parser state is cleared; Defaults and AlgMarkers
// are kept.
func (r *Reader) Reset(ior io.Reader, fileName string, f Format) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.format = f
	r.fileName = fileName
	r.line = 0
	r.err = nil
	r.result = noResult
	r.cols = nil
	r.nTrial = 0
	r.csv, r.s = nil, nil
	r.log.reset()

	switch f {
	case CSV:
		r.csv = csv.NewReader(ior)
		r.csv.FieldsPerRecord = -1
		r.csv.LazyQuotes = true
		r.csv.ReuseRecord = true
	default:
		r.s = bufio.NewScanner(ior)
	}
}

func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

func (r *Reader) newMalformed(msg string, err error) *MalformedInputError {
	return &MalformedInputError{r.fileName, r.line, msg, err}
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Result method to get the
// record. If Scan reaches EOF, an I/O error occurs or the input is
// malformed, it returns false, in which case the caller should use
// the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	var rec Record
	var err error
	switch r.format {
	case CSV:
		rec, err = r.scanCSV()
	case Log, JVMMemory:
		rec, err = r.scanText()
	default:
		err = fmt.Errorf("%s: unknown format %v", r.fileName, r.format)
	}
	if err != nil {
		r.err = err
		return false
	}
	if rec == nil {
		return false
	}
	r.result = rec
	return true
}

// scanText processes lines until one produces a record.
func (r *Reader) scanText() (Record, error) {
	for r.s.Scan() {
		r.line++
		var rec Record
		if r.format == Log {
			rec = r.parseLogLine(r.s.Text())
		} else {
			rec = r.parseJVMMemoryLine(r.s.Text())
		}
		if rec != nil {
			return rec, nil
		}
	}
	if err := r.s.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return nil, nil
}

// Result returns the record that was just read by Scan. It is a
// *Trial or *Sample on success, or a *SyntaxError for a skipped line.
func (r *Reader) Result() Record {
	return r.result
}

// Err returns the first fatal error encountered by the Reader: an I/O
// error or a *MalformedInputError. It returns nil after a clean EOF.
func (r *Reader) Err() error {
	return r.err
}

// IsMalformed reports whether err is or wraps a *MalformedInputError.
func IsMalformed(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}
