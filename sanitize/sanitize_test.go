// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sanitize/sanitize_test.go
// Summary: Sanitizer coverage: stripping, fast path, idempotence,
//          UTF-8 handling, trust tagging.

package sanitize

import (
	"strings"
	"testing"
)

func TestFastPathCleanInput(t *testing.T) {
	cases := []string{
		"",
		"Normal log message without escapes",
		"Line1\nLine2\tTabbed\rCarriage",
		"Hello 世界 👨‍👩‍👧",
		"ABCXYZabcxyz0123456789!@#$%^&*()",
	}
	for _, c := range cases {
		if !IsClean(c) {
			t.Errorf("IsClean(%q) = false", c)
		}
		if got := Sanitize(c); got != c {
			t.Errorf("Sanitize(%q) = %q, want unchanged", c, got)
		}
	}
}

func TestSanitizeBytes(t *testing.T) {
	clean := []byte("plain pty output\n")
	if got := SanitizeBytes(clean); &got[0] != &clean[0] {
		t.Error("clean bytes should return the input slice itself")
	}

	dirty := []byte("a\x1b[31mb\x00c")
	got := SanitizeBytes(dirty)
	if string(got) != "abc" {
		t.Errorf("SanitizeBytes = %q", got)
	}
	if string(dirty) != "a\x1b[31mb\x00c" {
		t.Error("input slice was mutated")
	}
}

func TestStripsCSISequences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Evil \x1b[31mred\x1b[0m text", "Evil red text"},
		{"Before\x1b[2;5HAfter", "BeforeAfter"},
		{"Text\x1b[2JCleared", "TextCleared"},
		{"\x1b[1mBold\x1b[0m \x1b[4mUnder\x1b[24m \x1b[38;5;196mColor\x1b[0m", "Bold Under Color"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStripsStringSequences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Text\x1b]0;Evil Title\x07More", "TextMore"},
		{"Text\x1b]0;Evil Title\x1b\\More", "TextMore"},
		{"Click \x1b]8;;https://evil.example\x07here\x1b]8;;\x07 please", "Click here please"},
		{"Before\x1bPdevice control\x1b\\After", "BeforeAfter"},
		{"Before\x1b_apc payload\x1b\\After", "BeforeAfter"},
		{"Before\x1b^privacy\x1b\\After", "BeforeAfter"},
		{"Before\x1b7Middle\x1b8After", "BeforeMiddleAfter"},
		{"Before\x1b!After", "BeforeAfter"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStripsControlBytes(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello\x00World", "HelloWorld"},
		{"Hello\x07World", "HelloWorld"},
		{"Hello\x08World", "HelloWorld"},
		{"Hello\x0bWorld", "HelloWorld"},
		{"Hello\x0cWorld", "HelloWorld"},
		{"Hello\x7fWorld", "HelloWorld"},
		{"Line1\nTab\tCR\r kept \x00\x1f dropped", "Line1\nTab\tCR\r kept  dropped"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncatedSequences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello\x1b[", "Hello"},
		{"Hello\x1b]0;Title", "Hello"},
		{"Hello\x1bPdcs", "Hello"},
		{"Hello\x1b", "Hello"},
		{"\x1b", ""},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInvalidUTF8DroppedByteWise(t *testing.T) {
	// Invalid lead byte dropped, following valid text kept.
	if got := Sanitize("ok\xffmore"); got != "okmore" {
		t.Errorf("invalid lead: %q", got)
	}
	// Truncated multi-byte sequence at end of input.
	if got := Sanitize("ok\xc2"); got != "ok" {
		t.Errorf("truncated rune: %q", got)
	}
	// Orphan continuation bytes dropped singly, not as a run with neighbors.
	if got := Sanitize("a\x80\x80b"); got != "ab" {
		t.Errorf("orphan continuations: %q", got)
	}
	// Valid multi-byte sequences survive alongside escapes.
	if got := Sanitize("世\x1b[31m界\x1b[0m"); got != "世界" {
		t.Errorf("unicode with escapes: %q", got)
	}
}

func TestInvalidUTF8NeverTakesFastPath(t *testing.T) {
	// These contain no controls at all, so only the UTF-8 check can keep
	// them off the zero-copy path.
	for _, in := range []string{"ok\xffmore", "ok\xc2", "a\x80\x80b"} {
		if IsClean(in) {
			t.Errorf("IsClean(%q) = true for invalid UTF-8", in)
		}
	}

	b := []byte("ok\xffmore")
	got := SanitizeBytes(b)
	if string(got) != "okmore" {
		t.Errorf("SanitizeBytes = %q, want %q", got, "okmore")
	}
	if len(got) > 0 && &got[0] == &b[0] {
		t.Error("invalid UTF-8 input must not be returned as the input slice")
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain",
		"Evil \x1b[31mred\x1b[0m text",
		"\x1b]0;Title\x07body",
		"mixed\x00controls\x1b[2Jand\xffbytes",
		"\x1b\x1b\x1b[",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestOutputNeverContainsForbiddenBytes(t *testing.T) {
	inputs := []string{
		"Normal text",
		"\x1b[31mRed\x1b[0m",
		"\x1b]0;Title\x07",
		"\x1bPDCS\x1b\\",
		"Mixed\x1b[1m\x1b]8;;url\x07text\x1b]8;;\x07\x1b[0m",
		"\x00\x01\x02\x03\x04\x05\x06\x07\x08\x0b\x0c\x0e\x0f",
		"\x10\x11\x12\x13\x14\x15\x16\x17\x18\x19\x1a\x1c\x1d\x1e\x1f",
		"", "\x1b", "\x1b[", "\x1b]",
	}
	for _, in := range inputs {
		out := Sanitize(in)
		if strings.IndexByte(out, 0x1b) >= 0 {
			t.Errorf("output contains ESC for %q", in)
		}
		if strings.IndexByte(out, 0x7f) >= 0 {
			t.Errorf("output contains DEL for %q", in)
		}
		for i := 0; i < len(out); i++ {
			if isForbiddenC0(out[i]) {
				t.Errorf("output contains 0x%02x for %q", out[i], in)
			}
		}
	}
}

func TestTextTrustTag(t *testing.T) {
	dirty := "Hello \x1b[31mWorld\x1b[0m"

	s := Sanitized(dirty)
	if s.IsTrusted() || !s.IsSanitized() {
		t.Error("Sanitized text mis-tagged")
	}
	if s.String() != "Hello World" {
		t.Errorf("Sanitized text = %q", s.String())
	}

	tr := Trusted(dirty)
	if !tr.IsTrusted() || tr.IsSanitized() {
		t.Error("Trusted text mis-tagged")
	}
	if tr.String() != dirty {
		t.Errorf("Trusted text = %q", tr.String())
	}

	var zero Text
	if zero.IsTrusted() || zero.String() != "" {
		t.Error("zero Text should be empty and untrusted")
	}
}
