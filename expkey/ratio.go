// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expkey

import (
	"fmt"
	"strconv"
	"strings"
)

// A Ratio is a workload mix in percent of operations: inserts,
// deletes and range queries. The remainder are lookups.
type Ratio struct {
	Insert, Delete, RQ int
}

// UpdateOnly is the ratio that range-query experiments reuse to
// signal concurrent updates and range queries on separate threads.
var UpdateOnly = Ratio{50, 50, 0}

// String returns r in the form "50i-50d-0rq".
func (r Ratio) String() string {
	return strconv.Itoa(r.Insert) + "i-" + strconv.Itoa(r.Delete) + "d-" + strconv.Itoa(r.RQ) + "rq"
}

// ParseRatio parses a ratio in the form "50i-50d-0rq".
func ParseRatio(s string) (Ratio, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Ratio{}, fmt.Errorf("malformed ratio %q", s)
	}
	var r Ratio
	for i, sfx := range []string{"i", "d", "rq"} {
		num, ok := strings.CutSuffix(parts[i], sfx)
		if !ok {
			return Ratio{}, fmt.Errorf("malformed ratio %q: part %q lacks %q", s, parts[i], sfx)
		}
		n, err := strconv.Atoi(num)
		if err != nil || n < 0 {
			return Ratio{}, fmt.Errorf("malformed ratio %q: bad percentage %q", s, num)
		}
		switch i {
		case 0:
			r.Insert = n
		case 1:
			r.Delete = n
		case 2:
			r.RQ = n
		}
	}
	return r, nil
}

func (r Ratio) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Ratio) UnmarshalText(text []byte) error {
	v, err := ParseRatio(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
