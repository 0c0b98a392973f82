// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sanitize/sanitize.go
// Summary: Strips escape sequences and control bytes from untrusted text.
// Usage: Every string that did not originate inside the application goes
//        through Sanitize (or the Text wrapper) before it can reach a
//        cell buffer.
//
// Untrusted bytes shown as logs or tool output must stay data: a crafted
// escape sequence could reposition the cursor, flip terminal modes, spoof
// prompts or set a misleading window title. Sanitize drops every ESC-led
// sequence, DEL, and each C0 control except TAB, LF and CR.

package sanitize

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// IsClean reports whether input contains no ESC, no DEL, no forbidden
// C0 control and no invalid UTF-8. Clean input passes through Sanitize
// untouched; invalid bytes must reach the slow path so they get dropped.
func IsClean(input string) bool {
	if strings.IndexByte(input, 0x1b) >= 0 || strings.IndexByte(input, 0x7f) >= 0 {
		return false
	}
	for i := 0; i < len(input); i++ {
		if isForbiddenC0(input[i]) {
			return false
		}
	}
	return utf8.ValidString(input)
}

// Sanitize returns input with all escape sequences, DEL and forbidden C0
// controls removed. The common case, text with nothing to strip, returns
// the input string itself with no allocation; only dirty input pays for a
// rebuild. Sanitize never fails: bytes it cannot safely interpret
// (unterminated sequences, invalid UTF-8) are dropped silently.
func Sanitize(input string) string {
	if IsClean(input) {
		return input
	}
	return sanitizeSlow(input)
}

// SanitizeBytes is Sanitize for byte slices, for callers sitting on raw
// reads (pty output, sockets). Clean input returns the input slice
// itself; dirty input returns a fresh slice and leaves the input alone.
func SanitizeBytes(input []byte) []byte {
	if isCleanBytes(input) {
		return input
	}
	return []byte(sanitizeSlow(string(input)))
}

func isCleanBytes(input []byte) bool {
	if bytes.IndexByte(input, 0x1b) >= 0 || bytes.IndexByte(input, 0x7f) >= 0 {
		return false
	}
	for _, b := range input {
		if isForbiddenC0(b) {
			return false
		}
	}
	return utf8.Valid(input)
}

// Forbidden: 0x00-0x08, 0x0B-0x0C, 0x0E-0x1A, 0x1C-0x1F.
// Allowed: TAB (0x09), LF (0x0A), CR (0x0D).
func isForbiddenC0(b byte) bool {
	return b < 0x20 && b != 0x09 && b != 0x0a && b != 0x0d && b != 0x1b
}

func sanitizeSlow(input string) string {
	var out strings.Builder
	out.Grow(len(input))

	for i := 0; i < len(input); {
		b := input[i]
		switch {
		case b == 0x1b:
			i = skipEscape(input, i)
		case b == 0x09 || b == 0x0a || b == 0x0d:
			out.WriteByte(b)
			i++
		case b < 0x20 || b == 0x7f:
			i++
		case b < 0x80:
			out.WriteByte(b)
			i++
		default:
			r, size := utf8.DecodeRuneInString(input[i:])
			if r == utf8.RuneError && size == 1 {
				// Invalid lead or continuation byte: drop just this byte.
				i++
				continue
			}
			out.WriteString(input[i : i+size])
			i += size
		}
	}
	return out.String()
}

// skipEscape consumes one escape sequence starting at the ESC byte and
// returns the index just past it. Truncated sequences consume to the end
// of the input.
//
// Recognized forms:
//   - CSI:  ESC [ ... final byte in 0x40-0x7E
//   - OSC:  ESC ] ... BEL or ESC \
//   - DCS/PM/APC: ESC P|^|_ ... ESC \
//   - single-character escape: ESC + one printable byte
func skipEscape(input string, start int) int {
	i := start + 1
	if i >= len(input) {
		return i
	}

	switch input[i] {
	case '[':
		i++
		for i < len(input) {
			if b := input[i]; b >= 0x40 && b <= 0x7e {
				return i + 1
			}
			i++
		}
	case ']':
		i++
		for i < len(input) {
			if input[i] == 0x07 {
				return i + 1
			}
			if input[i] == 0x1b && i+1 < len(input) && input[i+1] == '\\' {
				return i + 2
			}
			i++
		}
	case 'P', '^', '_':
		i++
		for i < len(input) {
			if input[i] == 0x1b && i+1 < len(input) && input[i+1] == '\\' {
				return i + 2
			}
			i++
		}
	default:
		if b := input[i]; b >= 0x20 && b <= 0x7e {
			return i + 1
		}
		// ESC with no recognizable follower: drop the ESC alone.
	}
	return i
}
