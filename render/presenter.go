// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/presenter.go
// Summary: Turns a frame diff into the minimal ANSI byte stream.
// Usage: p := render.NewPresenter(profile); out := p.Present(frame, diff)

package render

import (
	"bytes"
	"strconv"

	"github.com/framegrace/vtcore/buffer"
)

// Presenter serializes frame diffs into ANSI output. It holds only the
// capability profile: Present carries no state between calls, so the same
// frame and diff always produce the same bytes.
type Presenter struct {
	profile Profile
}

// NewPresenter builds a presenter for the given terminal profile.
func NewPresenter(p Profile) *Presenter {
	return &Presenter{profile: p}
}

// Profile returns the profile the presenter was built with.
func (p *Presenter) Profile() Profile { return p.profile }

// Present encodes the diff of a frame as ANSI bytes. Cursor positioning
// is emitted only when the write position is discontinuous, and SGR only
// when the run style changes. An empty diff yields no output at all, not
// even frame bracketing. The diff must have been computed against frame
// as the new side; spans carry the cells, so frame itself is not re-read.
func (p *Presenter) Present(frame *buffer.Buffer, diff buffer.BufferDiff) []byte {
	if diff.Empty() {
		return nil
	}

	var out bytes.Buffer
	if p.profile.SyncOutput {
		out.WriteString("\x1b[?2026h")
	}

	// Terminal state is unknown at frame start, so the first run always
	// sets position and style explicitly.
	curRow, curCol := -1, -1
	haveStyle := false
	var active buffer.Style

	for _, rd := range diff.Rows {
		for _, span := range rd.Spans {
			if rd.Row != curRow || span.X != curCol {
				writeCUP(&out, rd.Row, span.X)
				curRow, curCol = rd.Row, span.X
			}
			style := p.profile.AdaptStyle(span.Style())
			if !haveStyle || style != active {
				writeSGR(&out, style)
				active, haveStyle = style, true
			}
			for i := 0; i < len(span.Cells); {
				c := span.Cells[i]
				if c.Content == "" {
					out.WriteByte(' ')
					curCol++
					i++
					continue
				}
				out.WriteString(c.Content)
				if c.Wide {
					// The continuation cell is implied by the glyph;
					// never emit it separately.
					curCol += 2
					i += 2
				} else {
					curCol++
					i++
				}
			}
		}
	}

	if haveStyle && active != (buffer.Style{}) {
		out.WriteString("\x1b[0m")
	}
	if p.profile.SyncOutput {
		out.WriteString("\x1b[?2026l")
	}
	return out.Bytes()
}

// writeCUP emits an absolute cursor move. Grid coordinates are 0-based,
// the wire is 1-based.
func writeCUP(out *bytes.Buffer, row, col int) {
	out.WriteString("\x1b[")
	out.WriteString(strconv.Itoa(row + 1))
	out.WriteByte(';')
	out.WriteString(strconv.Itoa(col + 1))
	out.WriteByte('H')
}

// writeSGR emits the full SGR for a style. Every run starts from a reset
// so stale attributes never leak between runs; default colors need no
// parameter beyond the leading 0.
func writeSGR(out *bytes.Buffer, s buffer.Style) {
	out.WriteString("\x1b[0")
	if s.Attr&buffer.AttrBold != 0 {
		out.WriteString(";1")
	}
	if s.Attr&buffer.AttrDim != 0 {
		out.WriteString(";2")
	}
	if s.Attr&buffer.AttrItalic != 0 {
		out.WriteString(";3")
	}
	if s.Attr&buffer.AttrUnderline != 0 {
		out.WriteString(";4")
	}
	if s.Attr&buffer.AttrBlink != 0 {
		out.WriteString(";5")
	}
	if s.Attr&buffer.AttrReverse != 0 {
		out.WriteString(";7")
	}
	writeColor(out, s.FG, false)
	writeColor(out, s.BG, true)
	out.WriteByte('m')
}

func writeColor(out *bytes.Buffer, c buffer.Color, background bool) {
	switch c.Mode {
	case buffer.ColorModeStandard:
		base := 30
		if c.Value >= 8 {
			base = 90 - 8
		}
		if background {
			base += 10
		}
		out.WriteByte(';')
		out.WriteString(strconv.Itoa(base + int(c.Value)))
	case buffer.ColorMode256:
		if background {
			out.WriteString(";48;5;")
		} else {
			out.WriteString(";38;5;")
		}
		out.WriteString(strconv.Itoa(int(c.Value)))
	case buffer.ColorModeRGB:
		if background {
			out.WriteString(";48;2;")
		} else {
			out.WriteString(";38;2;")
		}
		out.WriteString(strconv.Itoa(int(c.R)))
		out.WriteByte(';')
		out.WriteString(strconv.Itoa(int(c.G)))
		out.WriteByte(';')
		out.WriteString(strconv.Itoa(int(c.B)))
	}
}
