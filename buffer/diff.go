// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/diff.go
// Summary: Frame diff computation over cell grids.
// Usage: Feed the result to a presenter; discard it after the frame.

package buffer

import "errors"

// ErrSizeMismatch reports a diff attempt across different grid sizes.
// Buffers must share one width × height for the duration of a frame;
// getting here is a caller bug, not a runtime condition to retry.
var ErrSizeMismatch = errors.New("buffer: diff requires equal dimensions")

// Span is a maximal run of changed cells on one row sharing one style.
type Span struct {
	// X is the starting column.
	X int
	// Cells are the changed cells, left to right. All share one style.
	Cells []Cell
}

// Style returns the span's shared style.
func (s Span) Style() Style {
	if len(s.Cells) == 0 {
		return Style{}
	}
	return s.Cells[0].Style()
}

// RowDelta carries the changed spans of a single row.
type RowDelta struct {
	Row   int
	Spans []Span
}

// BufferDiff is an ordered, row-major set of changed cell runs between two
// frames. It borrows nothing: spans copy the changed cells, so the diff
// stays valid for its one-frame lifetime even if the frames move on.
type BufferDiff struct {
	Rows []RowDelta
	// Scanned and Changed count cells, for callers that track change
	// rates. They do not affect the diff itself.
	Scanned int
	Changed int
}

// Empty reports whether the two frames were identical.
func (d BufferDiff) Empty() bool { return len(d.Rows) == 0 }

// Diff computes the changed spans between two equally sized frames by a
// full row-major scan. Identical frames yield an empty diff.
func Diff(old, new *Buffer) (BufferDiff, error) {
	if old.width != new.width || old.height != new.height {
		return BufferDiff{}, ErrSizeMismatch
	}
	var d BufferDiff
	for y := 0; y < new.height; y++ {
		diffRow(&d, old, new, y)
	}
	return d, nil
}

// DiffDirty computes the same result as Diff but scans only rows flagged
// in dirty, which the buffer owner maintains as a superset of the rows
// actually touched since the last flip. It is purely an optimization:
// with honest bookkeeping the output is identical to Diff.
func DiffDirty(old, new *Buffer, dirty []bool) (BufferDiff, error) {
	if old.width != new.width || old.height != new.height {
		return BufferDiff{}, ErrSizeMismatch
	}
	var d BufferDiff
	for y := 0; y < new.height; y++ {
		if y < len(dirty) && !dirty[y] {
			continue
		}
		diffRow(&d, old, new, y)
	}
	return d, nil
}

// diffRow appends the changed spans of row y, coalescing consecutive
// changed cells that share a style into single spans.
func diffRow(d *BufferDiff, old, new *Buffer, y int) {
	oldRow := old.Row(y)
	newRow := new.Row(y)
	d.Scanned += len(newRow)

	var spans []Span
	for x := 0; x < len(newRow); {
		if newRow[x] == oldRow[x] {
			x++
			continue
		}
		// Open a span at the first change and extend while changes
		// continue under the same style.
		start := x
		style := newRow[x]
		x++
		for x < len(newRow) && newRow[x] != oldRow[x] && newRow[x].SameStyle(style) {
			x++
		}
		span := Span{X: start, Cells: append([]Cell{}, newRow[start:x]...)}
		spans = append(spans, span)
		d.Changed += x - start
	}
	if len(spans) > 0 {
		d.Rows = append(d.Rows, RowDelta{Row: y, Spans: spans})
	}
}
