// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialfmt

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// A Files reads benchmark results from a sequence of input files.
//
// Each file is opened only while it is being read and is closed
// before the next one is opened, including when reading it fails.
//
// A malformed or unopenable file does not stop the sequence: its
// *MalformedInputError is returned as a Record and Scan moves on to
// the next file. Records already returned from that file are not
// retracted; callers that must not use partial files should stage
// records per file (see trialstat.Builder.AddFiles).
type Files struct {
	// Paths is the list of file names to read in.
	//
	// A path may be prefixed with a format name and a colon, as in
	// "log:run1.txt", to override Format for that file.
	Paths []string

	// Format is the format of files without a format prefix.
	Format Format

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	AllowStdin bool

	// Defaults and AlgMarkers configure the underlying Reader.
	Defaults   Defaults
	AlgMarkers []AlgMarker

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet.
	inputs []input

	reader  Reader
	file    *os.File
	isStdin bool
	pending Record
	err     error
}

type input struct {
	path    string
	label   string
	format  Format
	isStdin bool
}

// SplitPath splits an optional "format:" prefix from path. If the
// prefix does not name a format, the whole string is the path.
func SplitPath(path string, def Format) (string, Format) {
	if pfx, rest, ok := strings.Cut(path, ":"); ok {
		if f, err := ParseFormat(pfx); err == nil {
			return rest, f
		}
	}
	return path, def
}

func (f *Files) init() {
	f.inputs = []input{}
	pathCount := make(map[string]int)
	if f.AllowStdin && len(f.Paths) == 0 {
		f.inputs = append(f.inputs, input{"-", "-", f.Format, true})
	}
	for _, p := range f.Paths {
		path, format := SplitPath(p, f.Format)
		pathCount[path]++
		f.inputs = append(f.inputs, input{path, path, format, f.AllowStdin && path == "-"})
	}

	// A path given more than once is read once per mention, each
	// under its own name, so a duplicate key policy sees the copies
	// as separate files instead of silently pooling their trials.
	pathI := make(map[string]int)
	for i := range f.inputs {
		inp := &f.inputs[i]
		if pathCount[inp.path] <= 1 {
			continue
		}
		inp.label = fmt.Sprintf("%s#%d", inp.path, pathI[inp.path])
		pathI[inp.path]++
	}
}

// Scan advances to the next record in the sequence of files and
// reports whether a record was read. The caller should use the Result
// method to get the record. A file that cannot be opened yields a
// *MalformedInputError record. If Scan reaches the end of the file
// sequence, or if an I/O error occurs while reading, it returns false.
// In this case, the caller should use the Err method to check for
// errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.inputs == nil {
		f.init()
	}

	for {
		if f.file == nil {
			if len(f.inputs) == 0 {
				return false
			}
			inp := f.inputs[0]
			f.inputs = f.inputs[1:]

			if inp.isStdin {
				f.isStdin, f.file = true, os.Stdin
			} else {
				file, err := os.Open(inp.path)
				if err != nil {
					f.pending = &MalformedInputError{FileName: inp.label, Msg: "cannot open", Err: err}
					return true
				}
				f.isStdin, f.file = false, file
			}
			f.reader.Defaults = f.Defaults
			f.reader.AlgMarkers = f.AlgMarkers
			f.reader.Reset(f.file, inp.label, inp.format)
		}

		if f.reader.Scan() {
			f.pending = nil
			return true
		}
		err := f.reader.Err()
		f.closeFile()
		var malformed *MalformedInputError
		if errors.As(err, &malformed) {
			f.pending = malformed
			return true
		}
		if err != nil {
			f.err = fmt.Errorf("reading %s: %w", f.reader.fileName, err)
			return false
		}
	}
}

func (f *Files) closeFile() {
	if !f.isStdin {
		f.file.Close()
	}
	f.file = nil
}

// Result returns the record that was just read by Scan.
func (f *Files) Result() Record {
	if f.pending != nil {
		return f.pending
	}
	return f.reader.Result()
}

// Err returns the error that stopped Scan, if any.
// If Scan stopped because it read each file to completion,
// or if Scan has not yet returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}

// Close closes the file currently being read, if any. It is only
// needed when the caller stops calling Scan before it returns false.
func (f *Files) Close() {
	if f.file != nil {
		f.closeFile()
	}
}
