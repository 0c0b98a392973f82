// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/parser.go
// Summary: Streaming escape-sequence lexer that turns raw bytes into Actions.
// Usage: Feed PTY or application output; route query actions to ReplyEngine.

package vt

import "unicode/utf8"

type lexState int

const (
	stateGround lexState = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape
	stateDCS
	stateDCSEscape
	stateCharset
)

// maxSeqBytes bounds how much of a single control sequence the lexer will
// buffer before abandoning it as garbage.
const maxSeqBytes = 256

// Parser is a streaming lexer for terminal byte streams. It recognizes the
// query sequences the reply engine answers natively and surfaces every other
// complete escape sequence as an ActionEscape for generic handling.
//
// State survives across Feed calls, so sequences split over reads are
// reassembled. A Parser is not safe for concurrent use.
type Parser struct {
	state lexState
	seq   []byte
	// pending holds the tail of an incomplete UTF-8 rune between Feed calls.
	pending []byte
}

// NewParser returns a lexer in the ground state.
func NewParser() *Parser {
	return &Parser{
		seq:     make([]byte, 0, 64),
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Feed lexes data and returns the completed actions, in input order.
// Incomplete trailing sequences are carried over to the next call.
func (p *Parser) Feed(data []byte) []Action {
	var actions []Action

	if len(p.pending) > 0 {
		data = append(append([]byte{}, p.pending...), data...)
		p.pending = p.pending[:0]
	}

	for i := 0; i < len(data); {
		b := data[i]
		size := 1

		switch p.state {
		case stateGround:
			switch {
			case b == 0x1b:
				p.state = stateEscape
				p.seq = append(p.seq[:0], b)
			case b < 0x20 || b == 0x7f:
				actions = append(actions, Action{Kind: ActionControl, Byte: b})
			default:
				r, n := utf8.DecodeRune(data[i:])
				if r == utf8.RuneError && n == 1 && !utf8.FullRune(data[i:]) {
					// Incomplete rune at end of chunk; stash and stop.
					p.pending = append(p.pending, data[i:]...)
					return actions
				}
				size = n
				actions = append(actions, Action{Kind: ActionPrint, Rune: r})
			}

		case stateEscape:
			p.seq = append(p.seq, b)
			switch b {
			case '[':
				p.state = stateCSI
			case ']':
				p.state = stateOSC
			case 'P', '^', '_':
				p.state = stateDCS
			case '(', ')':
				p.state = stateCharset
			default:
				// Single-character escape (ESC 7, ESC =, ESC M, ...).
				actions = append(actions, p.finishEscape())
			}

		case stateCSI:
			p.seq = append(p.seq, b)
			if b >= 0x40 && b <= 0x7e {
				actions = append(actions, p.finishEscape())
			} else if len(p.seq) > maxSeqBytes {
				p.reset()
			}

		case stateOSC:
			if b == 0x07 {
				p.reset() // OSC payloads are dropped, not surfaced
			} else if b == 0x1b {
				p.state = stateOSCEscape
			} else if len(p.seq) > maxSeqBytes {
				p.reset()
			} else {
				p.seq = append(p.seq, b)
			}

		case stateOSCEscape:
			if b == '\\' {
				p.reset()
			} else {
				// Not ST; the ESC opens a fresh sequence instead.
				p.restartEscape()
				continue
			}

		case stateDCS:
			if b == 0x1b {
				p.state = stateDCSEscape
			} else if len(p.seq) > maxSeqBytes {
				p.reset()
			} else {
				p.seq = append(p.seq, b)
			}

		case stateDCSEscape:
			if b == '\\' {
				p.reset()
			} else {
				p.restartEscape()
				continue
			}

		case stateCharset:
			p.reset()
		}

		i += size
	}

	return actions
}

// finishEscape classifies the buffered sequence and resets to ground.
func (p *Parser) finishEscape() Action {
	seq := append([]byte{}, p.seq...)
	p.reset()

	// Query actions keep the raw bytes so transcripts can store the
	// sequence exactly as it arrived.
	if q, ok := ParseQuery(seq); ok {
		switch q.Kind {
		case QueryPrimaryDeviceAttributes:
			return Action{Kind: ActionDeviceAttributes, Seq: seq}
		case QuerySecondaryDeviceAttributes:
			return Action{Kind: ActionDeviceAttributesSecondary, Seq: seq}
		case QueryDeviceStatus:
			return Action{Kind: ActionDeviceStatusReport, Seq: seq}
		case QueryCursorPosition:
			return Action{Kind: ActionCursorPositionReport, Seq: seq}
		}
	}
	return Action{Kind: ActionEscape, Seq: seq}
}

func (p *Parser) reset() {
	p.state = stateGround
	p.seq = p.seq[:0]
}

// restartEscape abandons the current string sequence and re-enters the
// escape state as if a fresh ESC had just arrived.
func (p *Parser) restartEscape() {
	p.state = stateEscape
	p.seq = append(p.seq[:0], 0x1b)
}
