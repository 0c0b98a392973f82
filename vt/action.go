// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/action.go
// Summary: Action set emitted by the escape lexer.
// Usage: Consumed by the reply engine and by hosting render loops.

package vt

// ActionKind identifies one decoded terminal action.
type ActionKind int

const (
	// ActionPrint is a printable rune for the current cursor position.
	ActionPrint ActionKind = iota
	// ActionControl is a bare C0 control byte (BS, TAB, LF, CR, BEL...).
	ActionControl
	// ActionEscape is a complete escape sequence the lexer does not
	// interpret itself. Seq holds the raw bytes including the leading ESC.
	ActionEscape
	// ActionDeviceAttributes is a DA1 query (CSI c / CSI 0 c).
	ActionDeviceAttributes
	// ActionDeviceAttributesSecondary is a DA2 query (CSI > c / CSI > 0 c).
	ActionDeviceAttributesSecondary
	// ActionDeviceStatusReport is a DSR status query (CSI 5 n).
	ActionDeviceStatusReport
	// ActionCursorPositionReport is a DSR cursor query (CSI 6 n).
	ActionCursorPositionReport
)

// String returns a human-readable name for the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionPrint:
		return "print"
	case ActionControl:
		return "control"
	case ActionEscape:
		return "escape"
	case ActionDeviceAttributes:
		return "device-attributes"
	case ActionDeviceAttributesSecondary:
		return "device-attributes-secondary"
	case ActionDeviceStatusReport:
		return "device-status-report"
	case ActionCursorPositionReport:
		return "cursor-position-report"
	default:
		return "unknown"
	}
}

// Action is one decoded unit of terminal input.
//
// Print actions carry Rune, Control actions carry Byte. Escape and query
// actions carry the raw sequence bytes in Seq, so transcripts can record
// exactly what arrived.
type Action struct {
	Kind ActionKind
	Rune rune
	Byte byte
	Seq  []byte
}
