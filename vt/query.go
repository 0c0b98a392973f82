// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/query.go
// Summary: Decodes terminal query escape sequences into typed queries.
// Usage: Consumed by the reply engine; callers may also decode directly.

package vt

// QueryKind identifies one supported terminal query.
type QueryKind int

const (
	// QueryDeviceStatus is the DSR operating-status query (CSI 5 n).
	QueryDeviceStatus QueryKind = iota
	// QueryCursorPosition is the DSR cursor-position query (CSI 6 n).
	QueryCursorPosition
	// QueryExtendedCursorPosition is the DECXCPR query (CSI ? 6 n).
	QueryExtendedCursorPosition
	// QueryPrimaryDeviceAttributes is DA1 (CSI c / CSI 0 c).
	QueryPrimaryDeviceAttributes
	// QuerySecondaryDeviceAttributes is DA2 (CSI > c / CSI > 0 c).
	QuerySecondaryDeviceAttributes
	// QueryDecModeReport is the DECRPM mode-status query (CSI ? Ps $ p).
	QueryDecModeReport
)

// String returns a human-readable name for the query kind.
func (k QueryKind) String() string {
	switch k {
	case QueryDeviceStatus:
		return "device-status"
	case QueryCursorPosition:
		return "cursor-position"
	case QueryExtendedCursorPosition:
		return "extended-cursor-position"
	case QueryPrimaryDeviceAttributes:
		return "primary-device-attributes"
	case QuerySecondaryDeviceAttributes:
		return "secondary-device-attributes"
	case QueryDecModeReport:
		return "dec-mode-report"
	default:
		return "unknown"
	}
}

// TerminalQuery is a decoded terminal query. Mode is meaningful only for
// QueryDecModeReport.
type TerminalQuery struct {
	Kind QueryKind
	Mode uint16
}

// ParseQuery decodes a query from a raw escape payload. The sequence must
// be complete and start with ESC '['; anything else reports false so the
// caller can fall through to generic escape handling. Decoding is total:
// malformed or truncated input never panics.
func ParseQuery(seq []byte) (TerminalQuery, bool) {
	if len(seq) < 3 || seq[0] != 0x1b || seq[1] != '[' {
		return TerminalQuery{}, false
	}

	final := seq[len(seq)-1]
	params := seq[2 : len(seq)-1]

	switch final {
	case 'n':
		return parseDSRQuery(params)
	case 'c':
		return parseDAQuery(params)
	case 'p':
		return parseDECRPMQuery(params)
	}
	return TerminalQuery{}, false
}

func parseDSRQuery(params []byte) (TerminalQuery, bool) {
	switch string(params) {
	case "5":
		return TerminalQuery{Kind: QueryDeviceStatus}, true
	case "6":
		return TerminalQuery{Kind: QueryCursorPosition}, true
	case "?6":
		return TerminalQuery{Kind: QueryExtendedCursorPosition}, true
	}
	return TerminalQuery{}, false
}

func parseDAQuery(params []byte) (TerminalQuery, bool) {
	switch string(params) {
	case "", "0":
		return TerminalQuery{Kind: QueryPrimaryDeviceAttributes}, true
	case ">", ">0":
		return TerminalQuery{Kind: QuerySecondaryDeviceAttributes}, true
	}
	return TerminalQuery{}, false
}

func parseDECRPMQuery(params []byte) (TerminalQuery, bool) {
	if len(params) < 2 || params[0] != '?' || params[len(params)-1] != '$' {
		return TerminalQuery{}, false
	}
	mode, ok := parseUint16(params[1 : len(params)-1])
	if !ok {
		return TerminalQuery{}, false
	}
	return TerminalQuery{Kind: QueryDecModeReport, Mode: mode}, true
}

// parseUint16 parses an ASCII decimal into a uint16. Accumulation saturates
// so oversized input is rejected rather than wrapped; any non-digit byte or
// an empty slice rejects too.
func parseUint16(b []byte) (uint16, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var v uint32
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint32(c-'0')
		if v > 0xffff {
			return 0, false
		}
	}
	return uint16(v), true
}
