// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/buffer_test.go
// Summary: Grid, WriteText and Surface behaviour.

package buffer

import (
	"testing"

	"github.com/framegrace/vtcore/sanitize"
)

func TestBufferBounds(t *testing.T) {
	b := NewBuffer(4, 3)
	b.Set(3, 2, NewCell('x'))
	if b.At(3, 2).Content != "x" {
		t.Error("in-bounds set/get failed")
	}

	// Out-of-bounds writes drop, reads return the zero cell.
	b.Set(-1, 0, NewCell('y'))
	b.Set(4, 0, NewCell('y'))
	b.Set(0, 3, NewCell('y'))
	if b.At(-1, 0) != (Cell{}) || b.At(4, 0) != (Cell{}) || b.At(0, 3) != (Cell{}) {
		t.Error("out-of-bounds access should be inert")
	}
}

func TestBufferResizePreservesContent(t *testing.T) {
	b := NewBuffer(3, 2)
	b.Set(0, 0, NewCell('a'))
	b.Set(2, 1, NewCell('b'))

	b.Resize(5, 4)
	if b.At(0, 0).Content != "a" || b.At(2, 1).Content != "b" {
		t.Error("grow lost content")
	}

	b.Resize(2, 1)
	if b.At(0, 0).Content != "a" {
		t.Error("shrink lost top-left content")
	}
	if b.Width() != 2 || b.Height() != 1 {
		t.Errorf("size = %dx%d", b.Width(), b.Height())
	}
}

func TestWriteTextBasic(t *testing.T) {
	b := NewBuffer(10, 1)
	n := b.WriteText(0, 0, sanitize.Trusted("hi!"), DefaultFG, DefaultBG, 0)
	if n != 3 {
		t.Fatalf("columns consumed = %d", n)
	}
	for i, want := range []string{"h", "i", "!"} {
		if got := b.At(i, 0).Content; got != want {
			t.Errorf("cell %d = %q, want %q", i, got, want)
		}
	}
}

func TestWriteTextWideAndCluster(t *testing.T) {
	b := NewBuffer(10, 1)
	n := b.WriteText(0, 0, sanitize.Trusted("世a"), DefaultFG, DefaultBG, 0)
	if n != 3 {
		t.Fatalf("columns consumed = %d", n)
	}
	wide := b.At(0, 0)
	if wide.Content != "世" || !wide.Wide {
		t.Errorf("wide cell = %+v", wide)
	}
	if cont := b.At(1, 0); cont.Content != "" || cont.Wide {
		t.Errorf("continuation cell = %+v", cont)
	}
	if b.At(2, 0).Content != "a" {
		t.Error("cell after wide char misplaced")
	}

	// Combining mark stays in one cell with its base.
	b2 := NewBuffer(4, 1)
	b2.WriteText(0, 0, sanitize.Trusted("éx"), DefaultFG, DefaultBG, 0)
	if got := b2.At(0, 0).Content; got != "é" {
		t.Errorf("cluster cell = %q", got)
	}
	if b2.At(1, 0).Content != "x" {
		t.Error("cell after cluster misplaced")
	}
}

func TestWriteTextStopsAtEdge(t *testing.T) {
	b := NewBuffer(3, 1)
	n := b.WriteText(0, 0, sanitize.Trusted("abcdef"), DefaultFG, DefaultBG, 0)
	if n != 3 {
		t.Errorf("columns consumed = %d", n)
	}
	// A wide char that would straddle the edge is not written at all.
	b2 := NewBuffer(3, 1)
	n = b2.WriteText(2, 0, sanitize.Trusted("世"), DefaultFG, DefaultBG, 0)
	if n != 0 || b2.At(2, 0).Content != "" {
		t.Errorf("wide char leaked past edge: n=%d cell=%+v", n, b2.At(2, 0))
	}
}

func TestWriteTextNeverStoresControls(t *testing.T) {
	b := NewBuffer(20, 1)
	// Even trusted text cannot put control bytes into cells; the trust
	// tag governs sequence stripping, not cell content rules.
	b.WriteText(0, 0, sanitize.Trusted("a\x1bb\tc"), DefaultFG, DefaultBG, 0)
	for x := 0; x < b.Width(); x++ {
		if hasControl(b.At(x, 0).Content) {
			t.Fatalf("control byte stored at cell %d: %q", x, b.At(x, 0).Content)
		}
	}

	// The sanitized path strips the whole SGR sequence upstream.
	b2 := NewBuffer(20, 1)
	n := b2.WriteText(0, 0, sanitize.Sanitized("x\x1b[31my"), DefaultFG, DefaultBG, 0)
	if n != 2 || b2.At(0, 0).Content != "x" || b2.At(1, 0).Content != "y" {
		t.Errorf("sanitized write: n=%d cells=%q%q", n, b2.At(0, 0).Content, b2.At(1, 0).Content)
	}
}

func TestSurfaceDirtyTracking(t *testing.T) {
	s := NewSurface(4, 3)
	s.Flip() // clear the initial all-dirty state

	s.Set(1, 2, NewCell('z'))
	dirty := s.DirtyRows()
	if dirty[0] || dirty[1] || !dirty[2] {
		t.Errorf("dirty rows = %v", dirty)
	}

	s.MarkAllDirty()
	for i, d := range s.DirtyRows() {
		if !d {
			t.Errorf("row %d not dirty after MarkAllDirty", i)
		}
	}

	s.Flip()
	for i, d := range s.DirtyRows() {
		if d {
			t.Errorf("row %d dirty after flip", i)
		}
	}
}

func TestSurfaceDiffFlipCycle(t *testing.T) {
	s := NewSurface(5, 2)
	s.Flip()

	s.WriteText(0, 0, sanitize.Trusted("ab"), DefaultFG, DefaultBG, 0)
	d, err := s.Diff()
	if err != nil {
		t.Fatal(err)
	}
	if d.Empty() || len(d.Rows) != 1 || d.Rows[0].Row != 0 {
		t.Fatalf("diff = %+v", d)
	}

	s.Flip()
	d, err = s.Diff()
	if err != nil {
		t.Fatal(err)
	}
	if !d.Empty() {
		t.Errorf("post-flip diff not empty: %+v", d)
	}
}

func TestSurfaceResizeForcesRepaint(t *testing.T) {
	s := NewSurface(3, 2)
	s.Flip()
	s.Resize(4, 3)
	for i, d := range s.DirtyRows() {
		if !d {
			t.Errorf("row %d not dirty after resize", i)
		}
	}
	if s.Width() != 4 || s.Height() != 3 {
		t.Errorf("size = %dx%d", s.Width(), s.Height())
	}
}
