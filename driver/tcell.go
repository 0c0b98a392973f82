// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: driver/tcell.go
// Summary: Presents cell surfaces onto a tcell screen.
// Usage: Programs that own the terminal via tcell hand their Surface to
//        Screen.Present once per frame instead of serializing ANSI.

package driver

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/vtcore/buffer"
)

type styleKey struct {
	fg, bg buffer.Color
	attr   buffer.Attribute
}

// Screen adapts a tcell.Screen to the buffer/diff pipeline. Styles are
// cached per (fg, bg, attr) triple since frames reuse a handful of styles
// across thousands of cells.
type Screen struct {
	screen     tcell.Screen
	styleCache map[styleKey]tcell.Style
}

// NewScreen allocates and wraps a fresh tcell screen. Call Init before
// use and Fini on the way out.
func NewScreen() (*Screen, error) {
	ts, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return WrapScreen(ts), nil
}

// WrapScreen wraps an existing screen, including simulation screens in
// tests.
func WrapScreen(ts tcell.Screen) *Screen {
	return &Screen{
		screen:     ts,
		styleCache: make(map[styleKey]tcell.Style),
	}
}

func (d *Screen) Init() error { return d.screen.Init() }

func (d *Screen) Fini() { d.screen.Fini() }

func (d *Screen) Size() (int, int) { return d.screen.Size() }

func (d *Screen) HideCursor() { d.screen.HideCursor() }

func (d *Screen) ShowCursor(x, y int) { d.screen.ShowCursor(x, y) }

func (d *Screen) PollEvent() tcell.Event { return d.screen.PollEvent() }

// Underlying exposes the wrapped tcell.Screen for code paths that still
// need direct access.
func (d *Screen) Underlying() tcell.Screen { return d.screen }

// Present pushes one frame: diff the surface, apply the changed spans,
// show, flip. The surface must match the screen size; resize it from the
// tcell resize event before drawing.
func (d *Screen) Present(s *buffer.Surface) error {
	diff, err := s.Diff()
	if err != nil {
		return err
	}
	d.Apply(diff)
	d.screen.Show()
	s.Flip()
	return nil
}

// Apply writes the diff's spans into the screen's backing grid without
// showing them. Continuation cells of wide glyphs are skipped; tcell
// manages the second column itself.
func (d *Screen) Apply(diff buffer.BufferDiff) {
	for _, rd := range diff.Rows {
		for _, span := range rd.Spans {
			style := d.getStyle(span.Style())
			x := span.X
			for i := 0; i < len(span.Cells); {
				c := span.Cells[i]
				if c.Content == "" {
					d.screen.SetContent(x, rd.Row, ' ', nil, style)
					x++
					i++
					continue
				}
				mainc, combc := splitCluster(c.Content)
				d.screen.SetContent(x, rd.Row, mainc, combc, style)
				if c.Wide {
					x += 2
					i += 2
				} else {
					x++
					i++
				}
			}
		}
	}
}

func (d *Screen) getStyle(s buffer.Style) tcell.Style {
	key := styleKey{fg: s.FG, bg: s.BG, attr: s.Attr}
	if st, ok := d.styleCache[key]; ok {
		return st
	}
	st := tcell.StyleDefault.
		Foreground(toTcellColor(s.FG)).
		Background(toTcellColor(s.BG))
	if s.Attr&buffer.AttrBold != 0 {
		st = st.Bold(true)
	}
	if s.Attr&buffer.AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if s.Attr&buffer.AttrReverse != 0 {
		st = st.Reverse(true)
	}
	if s.Attr&buffer.AttrBlink != 0 {
		st = st.Blink(true)
	}
	if s.Attr&buffer.AttrDim != 0 {
		st = st.Dim(true)
	}
	if s.Attr&buffer.AttrItalic != 0 {
		st = st.Italic(true)
	}
	d.styleCache[key] = st
	return st
}

func toTcellColor(c buffer.Color) tcell.Color {
	switch c.Mode {
	case buffer.ColorModeStandard, buffer.ColorMode256:
		return tcell.PaletteColor(int(c.Value))
	case buffer.ColorModeRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}

// splitCluster separates a grapheme cluster into tcell's main rune plus
// combining runes.
func splitCluster(s string) (rune, []rune) {
	runes := []rune(s)
	if len(runes) == 0 {
		return ' ', nil
	}
	if len(runes) == 1 {
		return runes[0], nil
	}
	return runes[0], runes[1:]
}
