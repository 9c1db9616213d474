// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expkey

import "fmt"

// A Field names a numeric Key field that a chart axis can vary.
type Field int

const (
	Threads Field = iota
	MaxKey
	RQSize
)

var fieldNames = [...]string{Threads: "threads", MaxKey: "maxkey", RQSize: "rqsize"}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	for i, name := range fieldNames {
		if string(text) == name {
			*f = Field(i)
			return nil
		}
	}
	return fmt.Errorf("unknown key field %q", text)
}

// Get returns the value of field f in k.
func (k Key) Get(f Field) int {
	switch f {
	case Threads:
		return k.Threads
	case MaxKey:
		return k.MaxKey
	case RQSize:
		return k.RQSize
	}
	panic("bad key field " + f.String())
}

// With returns a copy of k with field f set to v.
func (k Key) With(f Field, v int) Key {
	switch f {
	case Threads:
		k.Threads = v
	case MaxKey:
		k.MaxKey = v
	case RQSize:
		k.RQSize = v
	default:
		panic("bad key field " + f.String())
	}
	return k
}

// A Patch is a set of optional field substitutions. Nil fields leave
// the corresponding Key field unchanged.
//
// Patches are how charts describe related experiments: the baseline
// of a percent chart is the plotted key with Threads replaced, the
// bars of an overhead chart are one key with Algorithm replaced, and
// so on.
type Patch struct {
	Family    *Family    `yaml:"family,omitempty"`
	Algorithm *string    `yaml:"algorithm,omitempty"`
	Threads   *int       `yaml:"threads,omitempty"`
	MaxKey    *int       `yaml:"maxkey,omitempty"`
	Ratio     *Ratio     `yaml:"ratio,omitempty"`
	RQSize    *int       `yaml:"rqsize,omitempty"`
	Query     *QueryType `yaml:"query,omitempty"`
	Op        *Op        `yaml:"op,omitempty"`
}

// Apply returns k with p's substitutions applied.
//
// Changing the Family clears the fields the new family does not
// serialize, so that a patched key is == to one built directly.
func (p Patch) Apply(k Key) Key {
	if p.Family != nil && *p.Family != k.Family {
		k.Family = *p.Family
		switch k.Family {
		case Point:
			k.Query, k.Op = Range, Total
		case RQ:
			k.Ratio = Ratio{}
		case Memory:
			k.Threads, k.MaxKey, k.Ratio, k.Query, k.Op = 0, 0, Ratio{}, Range, Total
		}
	}
	if p.Algorithm != nil {
		k.Algorithm = *p.Algorithm
	}
	if p.Threads != nil {
		k.Threads = *p.Threads
	}
	if p.MaxKey != nil {
		k.MaxKey = *p.MaxKey
	}
	if p.Ratio != nil {
		k.Ratio = *p.Ratio
	}
	if p.RQSize != nil {
		k.RQSize = *p.RQSize
	}
	if p.Query != nil {
		k.Query = *p.Query
	}
	if p.Op != nil {
		k.Op = *p.Op
	}
	return k
}

// Merge returns a Patch that applies p and then q.
func (p Patch) Merge(q Patch) Patch {
	if q.Family != nil {
		p.Family = q.Family
	}
	if q.Algorithm != nil {
		p.Algorithm = q.Algorithm
	}
	if q.Threads != nil {
		p.Threads = q.Threads
	}
	if q.MaxKey != nil {
		p.MaxKey = q.MaxKey
	}
	if q.Ratio != nil {
		p.Ratio = q.Ratio
	}
	if q.RQSize != nil {
		p.RQSize = q.RQSize
	}
	if q.Query != nil {
		p.Query = q.Query
	}
	if q.Op != nil {
		p.Op = q.Op
	}
	return p
}

// IsZero reports whether p substitutes nothing.
func (p Patch) IsZero() bool {
	return p == Patch{}
}
