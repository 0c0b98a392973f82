// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/modes.go
// Summary: DEC private mode snapshot and the DECRPM reporting table.
// Usage: Owned by the terminal-state holder; read by the reply engine.

package vt

// Modes is a snapshot of the DEC private modes a terminal-state owner
// tracks. The zero value is not useful; NewModes applies the conventional
// power-on defaults (autowrap on, cursor visible).
type Modes struct {
	appCursorKeys  bool
	originMode     bool
	autoWrap       bool
	cursorVisible  bool
	mouseButton    bool
	mouseCell      bool
	mouseAll       bool
	focusEvents    bool
	mouseSGR       bool
	altScreen      bool
	bracketedPaste bool
	syncOutput     bool
}

// NewModes returns a mode snapshot with power-on defaults.
func NewModes() *Modes {
	return &Modes{autoWrap: true, cursorVisible: true}
}

// Set toggles a DEC private mode by number, mirroring DECSET/DECRST.
// Unrecognized mode numbers are ignored.
func (m *Modes) Set(mode uint16, on bool) {
	switch mode {
	case 1:
		m.appCursorKeys = on
	case 6:
		m.originMode = on
	case 7:
		m.autoWrap = on
	case 25:
		m.cursorVisible = on
	case 1000:
		m.mouseButton = on
	case 1002:
		m.mouseCell = on
	case 1003:
		m.mouseAll = on
	case 1004:
		m.focusEvents = on
	case 1006:
		m.mouseSGR = on
	case 1049:
		m.altScreen = on
	case 2004:
		m.bracketedPaste = on
	case 2026:
		m.syncOutput = on
	}
}

func (m *Modes) AppCursorKeys() bool  { return m.appCursorKeys }
func (m *Modes) OriginMode() bool     { return m.originMode }
func (m *Modes) AutoWrap() bool       { return m.autoWrap }
func (m *Modes) CursorVisible() bool  { return m.cursorVisible }
func (m *Modes) MouseButton() bool    { return m.mouseButton }
func (m *Modes) MouseCellMotion() bool { return m.mouseCell }
func (m *Modes) MouseAllMotion() bool { return m.mouseAll }
func (m *Modes) FocusEvents() bool    { return m.focusEvents }
func (m *Modes) MouseSGR() bool       { return m.mouseSGR }
func (m *Modes) AltScreen() bool      { return m.altScreen }
func (m *Modes) BracketedPaste() bool { return m.bracketedPaste }
func (m *Modes) SyncOutput() bool     { return m.syncOutput }

// decrpmModes is the single source of truth for which DEC private modes
// DECRPM can report on. Supporting a new mode is one table entry.
var decrpmModes = map[uint16]func(*Modes) bool{
	1:    (*Modes).AppCursorKeys,
	6:    (*Modes).OriginMode,
	7:    (*Modes).AutoWrap,
	25:   (*Modes).CursorVisible,
	1000: (*Modes).MouseButton,
	1002: (*Modes).MouseCellMotion,
	1003: (*Modes).MouseAllMotion,
	1004: (*Modes).FocusEvents,
	1006: (*Modes).MouseSGR,
	1049: (*Modes).AltScreen,
	2004: (*Modes).BracketedPaste,
	2026: (*Modes).SyncOutput,
}

// decrpmStatus resolves the DECRPM status digit for a mode: 0 when the
// mode is not recognized (or no snapshot is available), 1 enabled,
// 2 disabled.
func decrpmStatus(m *Modes, mode uint16) int {
	if m == nil {
		return 0
	}
	accessor, ok := decrpmModes[mode]
	if !ok {
		return 0
	}
	if accessor(m) {
		return 1
	}
	return 2
}
