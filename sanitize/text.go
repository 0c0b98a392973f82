// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sanitize/text.go
// Summary: Trust-tagged text wrapper for the render pipeline.
// Usage: Buffer write paths accept Text, never bare strings, so every
//        sanitizer bypass is a grep-able Trusted() call site.

package sanitize

// Text is a string tagged with its trust level. The tag lives in the type,
// not in a runtime flag a call site could forget to set: constructing a
// Text forces the choice between Sanitized (stripped) and Trusted
// (verbatim, escape sequences allowed). The zero value is empty sanitized
// text.
type Text struct {
	s       string
	trusted bool
}

// Sanitized wraps untrusted input, stripping it first.
func Sanitized(s string) Text {
	return Text{s: Sanitize(s)}
}

// Trusted wraps input verbatim, escape sequences included. Only use for
// content the application itself produced; this is the deliberate,
// auditable sanitizer bypass.
func Trusted(s string) Text {
	return Text{s: s, trusted: true}
}

// String returns the wrapped text.
func (t Text) String() string { return t.s }

// IsTrusted reports whether the text skipped sanitization.
func (t Text) IsTrusted() bool { return t.trusted }

// IsSanitized reports whether the text went through the sanitizer.
func (t Text) IsSanitized() bool { return !t.trusted }
