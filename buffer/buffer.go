// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/buffer.go
// Summary: Rectangular cell grid and the double-buffered Surface.
// Usage: Applications draw into Surface.Current each frame, diff against
//        the previous frame and flip after presenting.

package buffer

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/framegrace/vtcore/sanitize"
)

// Buffer is a width × height cell grid, row-major.
type Buffer struct {
	width, height int
	cells         []Cell
}

// NewBuffer allocates a grid of empty default-styled cells.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// At returns the cell at (x, y); out-of-bounds positions read as the
// zero cell.
func (b *Buffer) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Set writes the cell at (x, y); out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = c
}

// Row returns the backing slice for row y. Callers must treat it as
// read-only.
func (b *Buffer) Row(y int) []Cell {
	if y < 0 || y >= b.height {
		return nil
	}
	return b.cells[y*b.width : (y+1)*b.width]
}

// Fill overwrites every cell.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Clear resets every cell to the empty default.
func (b *Buffer) Clear() {
	b.Fill(Cell{})
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := NewBuffer(b.width, b.height)
	copy(out.cells, b.cells)
	return out
}

// CopyFrom overwrites this buffer with the contents of src. Both buffers
// must share dimensions; mismatched sizes are dropped silently (callers
// resize first).
func (b *Buffer) CopyFrom(src *Buffer) {
	if b.width != src.width || b.height != src.height {
		return
	}
	copy(b.cells, src.cells)
}

// Resize grows or shrinks the grid, preserving the overlapping content.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([]Cell, width*height)
	rows := min(b.height, height)
	cols := min(b.width, width)
	for y := 0; y < rows; y++ {
		copy(cells[y*width:y*width+cols], b.cells[y*b.width:y*b.width+cols])
	}
	b.width, b.height = width, height
	b.cells = cells
}

// WriteText writes tagged text starting at (x, y) and returns the number
// of columns consumed. Content is split into grapheme clusters; wide
// clusters occupy two columns with an empty continuation cell. Control
// runes never enter the grid, whatever the trust tag says: a cell holds
// display content only. Writing stops at the right edge.
func (b *Buffer) WriteText(x, y int, t sanitize.Text, fg, bg Color, attr Attribute) int {
	if y < 0 || y >= b.height {
		return 0
	}

	cx := x
	remaining := t.String()
	state := -1
	for len(remaining) > 0 {
		var cluster string
		cluster, remaining, _, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		if cluster == "" {
			break
		}
		if hasControl(cluster) {
			continue
		}
		w := runewidth.StringWidth(cluster)
		if w <= 0 {
			// Zero-width cluster: attach nothing, occupy nothing.
			continue
		}
		if cx+w > b.width {
			break
		}
		cell := Cell{Content: cluster, FG: fg, BG: bg, Attr: attr, Wide: w == 2}
		b.Set(cx, y, cell)
		if w == 2 {
			b.Set(cx+1, y, Cell{FG: fg, BG: bg, Attr: attr})
		}
		cx += w
	}
	return cx - x
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}

// Surface owns the previous/current frame pair plus the dirty-row side
// table the diff engine's fast path consumes. It is a plain caller-held
// value: nothing here is global, and nothing is locked. One diff+present
// cycle per frame, flip between cycles.
type Surface struct {
	prev, curr *Buffer
	dirty      []bool
	allDirty   bool
}

// NewSurface builds a surface with two empty frames. The first diff marks
// everything dirty so an initial full paint happens naturally.
func NewSurface(width, height int) *Surface {
	return &Surface{
		prev:     NewBuffer(width, height),
		curr:     NewBuffer(width, height),
		dirty:    make([]bool, height),
		allDirty: true,
	}
}

// Current returns the frame being built. Mutating it directly is allowed
// but bypasses dirty tracking; pair direct writes with MarkDirty, or use
// Set/WriteText/Fill below.
func (s *Surface) Current() *Buffer { return s.curr }

// Previous returns the last flipped frame. Read-only.
func (s *Surface) Previous() *Buffer { return s.prev }

func (s *Surface) Width() int  { return s.curr.width }
func (s *Surface) Height() int { return s.curr.height }

// Set writes a cell into the current frame and marks its row dirty.
func (s *Surface) Set(x, y int, c Cell) {
	s.curr.Set(x, y, c)
	s.MarkDirty(y)
}

// WriteText writes tagged text into the current frame, marking the row.
func (s *Surface) WriteText(x, y int, t sanitize.Text, fg, bg Color, attr Attribute) int {
	n := s.curr.WriteText(x, y, t, fg, bg, attr)
	if n > 0 {
		s.MarkDirty(y)
	}
	return n
}

// Fill floods the current frame and marks everything dirty.
func (s *Surface) Fill(c Cell) {
	s.curr.Fill(c)
	s.MarkAllDirty()
}

// MarkDirty flags one row as possibly changed since the last flip.
func (s *Surface) MarkDirty(row int) {
	if row >= 0 && row < len(s.dirty) {
		s.dirty[row] = true
	}
}

// MarkAllDirty flags every row.
func (s *Surface) MarkAllDirty() { s.allDirty = true }

// DirtyRows returns the current dirty-row table. The all-dirty flag
// expands to every row.
func (s *Surface) DirtyRows() []bool {
	rows := make([]bool, len(s.dirty))
	if s.allDirty {
		for i := range rows {
			rows[i] = true
		}
		return rows
	}
	copy(rows, s.dirty)
	return rows
}

// Diff compares the previous and current frames using the dirty-row fast
// path. Output is identical to a full Diff of the same pair.
func (s *Surface) Diff() (BufferDiff, error) {
	return DiffDirty(s.prev, s.curr, s.DirtyRows())
}

// Flip records the current frame as presented: previous becomes a copy of
// current and the dirty table resets. Call once per rendered frame, after
// the presenter has consumed the diff.
func (s *Surface) Flip() {
	s.prev.CopyFrom(s.curr)
	for i := range s.dirty {
		s.dirty[i] = false
	}
	s.allDirty = false
}

// Resize resizes both frames and the dirty table, forcing a full repaint.
func (s *Surface) Resize(width, height int) {
	s.prev.Resize(width, height)
	s.curr.Resize(width, height)
	s.dirty = make([]bool, height)
	s.allDirty = true
}
