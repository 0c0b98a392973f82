// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/reply.go
// Summary: Deterministic reply encoder for terminal queries.
// Usage: Host loops route decoded queries here and flush the returned
//        bytes back to the controlled program in arrival order.

package vt

import "fmt"

// da1Reply is the fixed primary device attributes capability list.
const da1Reply = "\x1b[?64;1;2;4;6;9;15;18;21;22c"

// ReplyContext carries the terminal state needed to answer a query.
// Row and Col are zero-based; replies convert to the 1-indexed wire form.
// Modes may be nil, in which case every DECRPM answer reports status 0.
type ReplyContext struct {
	Row   uint16
	Col   uint16
	Modes *Modes
}

// ReplyEngine encodes replies for decoded terminal queries. It is a small
// copyable value whose only state is the DA2 identity triple; replies are a
// pure function of (engine, query, context).
type ReplyEngine struct {
	// TerminalID is the DA2 terminal type identifier.
	TerminalID uint16
	// Version is the DA2 firmware/version field.
	Version uint16
	// ROM is the DA2 ROM cartridge field, usually 0.
	ROM uint16
}

// XTermLike returns the conventional xterm-compatible DA2 identity.
func XTermLike() ReplyEngine {
	return ReplyEngine{TerminalID: 1, Version: 10, ROM: 0}
}

// Reply encodes the byte reply for a decoded query.
func (e ReplyEngine) Reply(q TerminalQuery, ctx ReplyContext) []byte {
	switch q.Kind {
	case QueryDeviceStatus:
		return []byte("\x1b[0n")
	case QueryCursorPosition:
		return []byte(fmt.Sprintf("\x1b[%d;%dR", sat1(ctx.Row), sat1(ctx.Col)))
	case QueryExtendedCursorPosition:
		return []byte(fmt.Sprintf("\x1b[?%d;%dR", sat1(ctx.Row), sat1(ctx.Col)))
	case QueryPrimaryDeviceAttributes:
		return []byte(da1Reply)
	case QuerySecondaryDeviceAttributes:
		return []byte(fmt.Sprintf("\x1b[>%d;%d;%dc", e.TerminalID, e.Version, e.ROM))
	case QueryDecModeReport:
		return []byte(fmt.Sprintf("\x1b[?%d;%d$y", q.Mode, decrpmStatus(ctx.Modes, q.Mode)))
	}
	return nil
}

// QueryFromAction extracts a supported query from a lexer action, covering
// both the natively recognized kinds and raw escape payloads.
func QueryFromAction(a Action) (TerminalQuery, bool) {
	switch a.Kind {
	case ActionDeviceAttributes:
		return TerminalQuery{Kind: QueryPrimaryDeviceAttributes}, true
	case ActionDeviceAttributesSecondary:
		return TerminalQuery{Kind: QuerySecondaryDeviceAttributes}, true
	case ActionDeviceStatusReport:
		return TerminalQuery{Kind: QueryDeviceStatus}, true
	case ActionCursorPositionReport:
		return TerminalQuery{Kind: QueryCursorPosition}, true
	case ActionEscape:
		return ParseQuery(a.Seq)
	}
	return TerminalQuery{}, false
}

// ReplyForAction decodes and answers a lexer action in one call. The second
// return is false when the action is not a supported query.
func (e ReplyEngine) ReplyForAction(a Action, ctx ReplyContext) ([]byte, bool) {
	q, ok := QueryFromAction(a)
	if !ok {
		return nil, false
	}
	return e.Reply(q, ctx), true
}

// ReplyForBytes decodes and answers a raw escape payload in one call.
func (e ReplyEngine) ReplyForBytes(seq []byte, ctx ReplyContext) ([]byte, bool) {
	q, ok := ParseQuery(seq)
	if !ok {
		return nil, false
	}
	return e.Reply(q, ctx), true
}

// sat1 converts a zero-based coordinate to the 1-indexed wire form,
// saturating instead of wrapping at the 16-bit ceiling.
func sat1(v uint16) uint16 {
	if v == 0xffff {
		return v
	}
	return v + 1
}
