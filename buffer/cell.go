// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/cell.go
// Summary: Cell, color and attribute model for the render grid.
// Usage: Shared by the diff engine, presenter and drivers.

package buffer

import "strings"

// ColorMode defines how a Color value is interpreted.
type ColorMode int

const (
	// ColorModeDefault is the terminal's default foreground/background.
	ColorModeDefault ColorMode = iota
	// ColorModeStandard is the basic 16 ANSI colors (Value 0-15).
	ColorModeStandard
	// ColorMode256 is the 256-color palette (Value 0-255).
	ColorMode256
	// ColorModeRGB is 24-bit true color (R, G, B).
	ColorModeRGB
)

// Color represents a cell color in one of several encodings.
type Color struct {
	Mode    ColorMode
	Value   uint8
	R, G, B uint8
}

// Predefined default colors for convenience.
var (
	DefaultFG = Color{Mode: ColorModeDefault}
	DefaultBG = Color{Mode: ColorModeDefault}
)

// RGB builds a true-color Color.
func RGB(r, g, b uint8) Color {
	return Color{Mode: ColorModeRGB, R: r, G: g, B: b}
}

// Standard builds one of the basic 16 ANSI colors.
func Standard(v uint8) Color {
	return Color{Mode: ColorModeStandard, Value: v}
}

// Palette builds a 256-color palette Color.
func Palette(v uint8) Color {
	return Color{Mode: ColorMode256, Value: v}
}

// Attribute is a bitmask of text attributes.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrUnderline
	AttrReverse
	AttrBlink
	AttrDim
	AttrItalic
)

// String returns a human-readable representation of the attribute flags.
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	if a&AttrBold != 0 {
		parts = append(parts, "bold")
	}
	if a&AttrUnderline != 0 {
		parts = append(parts, "underline")
	}
	if a&AttrReverse != 0 {
		parts = append(parts, "reverse")
	}
	if a&AttrBlink != 0 {
		parts = append(parts, "blink")
	}
	if a&AttrDim != 0 {
		parts = append(parts, "dim")
	}
	if a&AttrItalic != 0 {
		parts = append(parts, "italic")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// Style groups the visual properties a run of cells can share.
type Style struct {
	FG   Color
	BG   Color
	Attr Attribute
}

// Cell represents a single grid position.
//
// Content holds one grapheme cluster: a single codepoint in the common
// case, or a multi-codepoint cluster (emoji ZWJ sequences, combining
// marks). An empty Content renders as a blank; the cell to the right of a
// wide cell stays empty as its continuation.
type Cell struct {
	Content string
	FG      Color
	BG      Color
	Attr    Attribute
	// Wide marks a two-column cell; the next cell on the row is its
	// continuation and carries no content of its own.
	Wide bool
}

// NewCell builds a plain single-rune cell with default colors.
func NewCell(r rune) Cell {
	return Cell{Content: string(r)}
}

// Style returns the cell's visual style.
func (c Cell) Style() Style {
	return Style{FG: c.FG, BG: c.BG, Attr: c.Attr}
}

// SameStyle reports whether two cells can share one SGR run.
func (c Cell) SameStyle(o Cell) bool {
	return c.FG == o.FG && c.BG == o.BG && c.Attr == o.Attr
}
