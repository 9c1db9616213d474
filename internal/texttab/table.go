// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out plain text tables for terminal summaries.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can chain them to
// build up a row at once.
type Table struct {
	rows [][]cell
	cols int
}

type cell struct {
	value     string
	alignment align
	style     *color.Color
}

// A CellOption changes how one cell is drawn.
type CellOption func(c *cell)

var (
	Left  CellOption = func(c *cell) { c.alignment = alignLeft }
	Right CellOption = func(c *cell) { c.alignment = alignRight }
)

var headingStyle = color.New(color.Bold)

// Heading draws the cell in bold on a color terminal.
var Heading CellOption = func(c *cell) { c.style = headingStyle }

// Warning draws the cell in red on a color terminal.
var Warning CellOption = func(c *cell) { c.style = color.New(color.FgRed) }

type align int

const (
	alignLeft align = iota
	alignRight
)

func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if a == alignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	c := cell{value: value}
	for _, o := range opts {
		o(&c)
	}
	r := len(t.rows) - 1
	t.rows[r] = append(t.rows[r], c)
	if len(t.rows[r]) > t.cols {
		t.cols = len(t.rows[r])
	}
	return t
}

// Cellf adds a formatted cell at the end of the current row.
func (t *Table) Cellf(format string, args ...interface{}) *Table {
	return t.Cell(fmt.Sprintf(format, args...))
}

// Format lays out table t and writes it to w. Columns are separated by
// two spaces, and the last cell of a row is not padded.
func (t *Table) Format(w io.Writer) error {
	ws := make([]int, t.cols)
	for _, row := range t.rows {
		for i, c := range row {
			if n := utf8.RuneCountInString(c.value); n > ws[i] {
				ws[i] = n
			}
		}
	}
	var b strings.Builder
	for _, row := range t.rows {
		b.Reset()
		for i, c := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			s := c.value
			if i < len(row)-1 || c.alignment == alignRight {
				s = c.alignment.pad(s, ws[i])
			}
			if c.style != nil {
				s = c.style.Sprint(s)
			}
			b.WriteString(s)
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
