// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/profile.go
// Summary: Terminal capability profile and color downgrading.
// Usage: Supplied to the presenter; detected from the environment or
//        constructed explicitly by the embedding program.

package render

import (
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/framegrace/vtcore/buffer"
)

// ColorDepth is the highest color encoding a terminal accepts.
type ColorDepth int

const (
	// Color16 allows only the basic ANSI colors.
	Color16 ColorDepth = iota
	// Color256 allows the indexed 256-color palette.
	Color256
	// ColorTrue allows 24-bit SGR color.
	ColorTrue
)

// String returns a human-readable name for the depth.
func (d ColorDepth) String() string {
	switch d {
	case Color16:
		return "16-color"
	case Color256:
		return "256-color"
	case ColorTrue:
		return "truecolor"
	default:
		return "unknown"
	}
}

// Profile describes what the output terminal can accept. The presenter
// reads it and never mutates it.
type Profile struct {
	Depth ColorDepth
	// SyncOutput brackets each presented frame in synchronized-output
	// markers (DEC mode 2026) when true.
	SyncOutput bool
}

// Detect derives a profile from the environment (TERM, COLORTERM...).
// WithTTY keeps the answer env-driven even when stdout is a pipe, so
// detection behaves the same under tests and CI. Synchronized output has
// no reliable environment signal, so it starts off and is enabled by
// callers that have confirmed support (for example via a DECRPM exchange
// on mode 2026).
func Detect() Profile {
	out := termenv.NewOutput(os.Stdout, termenv.WithTTY(true))
	switch out.EnvColorProfile() {
	case termenv.TrueColor:
		return Profile{Depth: ColorTrue}
	case termenv.ANSI256:
		return Profile{Depth: Color256}
	default:
		return Profile{Depth: Color16}
	}
}

// Adapt downgrades a color to something the profile can express. Colors
// already within the profile's depth pass through unchanged.
func (p Profile) Adapt(c buffer.Color) buffer.Color {
	switch p.Depth {
	case ColorTrue:
		return c
	case Color256:
		if c.Mode == buffer.ColorModeRGB {
			return buffer.Palette(nearestIndex(rgbToColorful(c.R, c.G, c.B), 16, 256))
		}
		return c
	default:
		switch c.Mode {
		case buffer.ColorModeRGB:
			return buffer.Standard(nearestIndex(rgbToColorful(c.R, c.G, c.B), 0, 16))
		case buffer.ColorMode256:
			if c.Value < 16 {
				return buffer.Standard(c.Value)
			}
			return buffer.Standard(nearestIndex(xtermPalette[c.Value], 0, 16))
		}
		return c
	}
}

// AdaptStyle downgrades both colors of a style.
func (p Profile) AdaptStyle(s buffer.Style) buffer.Style {
	s.FG = p.Adapt(s.FG)
	s.BG = p.Adapt(s.BG)
	return s
}

func rgbToColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// nearestIndex returns the xterm palette index in [lo, hi) with the
// smallest perceptual distance to c. The RGB→256 path starts at 16 so
// user-themed base colors are never chosen for arbitrary RGB values.
func nearestIndex(c colorful.Color, lo, hi int) uint8 {
	best := lo
	bestDist := c.DistanceLab(xtermPalette[lo])
	for i := lo + 1; i < hi; i++ {
		if d := c.DistanceLab(xtermPalette[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

// xtermPalette holds the conventional RGB values of the 256 xterm colors:
// 16 base colors, a 6×6×6 cube, then a 24-step gray ramp.
var xtermPalette = buildXtermPalette()

func buildXtermPalette() [256]colorful.Color {
	var p [256]colorful.Color

	base := [16][3]uint8{
		{0x00, 0x00, 0x00}, {0x80, 0x00, 0x00}, {0x00, 0x80, 0x00}, {0x80, 0x80, 0x00},
		{0x00, 0x00, 0x80}, {0x80, 0x00, 0x80}, {0x00, 0x80, 0x80}, {0xc0, 0xc0, 0xc0},
		{0x80, 0x80, 0x80}, {0xff, 0x00, 0x00}, {0x00, 0xff, 0x00}, {0xff, 0xff, 0x00},
		{0x00, 0x00, 0xff}, {0xff, 0x00, 0xff}, {0x00, 0xff, 0xff}, {0xff, 0xff, 0xff},
	}
	for i, rgb := range base {
		p[i] = rgbToColorful(rgb[0], rgb[1], rgb[2])
	}

	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[idx] = rgbToColorful(levels[r], levels[g], levels[b])
				idx++
			}
		}
	}

	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		p[232+i] = rgbToColorful(v, v, v)
	}
	return p
}
