// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vt/parser_test.go
// Summary: Lexer coverage: streaming reassembly, query recognition,
//          string-sequence dropping.

package vt

import (
	"bytes"
	"testing"
)

func feedAll(t *testing.T, chunks ...string) []Action {
	t.Helper()
	p := NewParser()
	var actions []Action
	for _, c := range chunks {
		actions = append(actions, p.Feed([]byte(c))...)
	}
	return actions
}

func TestFeedPlainText(t *testing.T) {
	actions := feedAll(t, "hi\n")
	if len(actions) != 3 {
		t.Fatalf("expected 3 actions, got %d: %+v", len(actions), actions)
	}
	if actions[0].Kind != ActionPrint || actions[0].Rune != 'h' {
		t.Errorf("unexpected first action: %+v", actions[0])
	}
	if actions[2].Kind != ActionControl || actions[2].Byte != '\n' {
		t.Errorf("unexpected LF action: %+v", actions[2])
	}
}

func TestFeedRecognizesQueries(t *testing.T) {
	actions := feedAll(t, "\x1b[c\x1b[>c\x1b[5n\x1b[6n")
	want := []ActionKind{
		ActionDeviceAttributes,
		ActionDeviceAttributesSecondary,
		ActionDeviceStatusReport,
		ActionCursorPositionReport,
	}
	if len(actions) != len(want) {
		t.Fatalf("expected %d actions, got %d", len(want), len(actions))
	}
	for i, k := range want {
		if actions[i].Kind != k {
			t.Errorf("action %d = %v, want %v", i, actions[i].Kind, k)
		}
	}
}

func TestFeedSurfacesUnknownCSI(t *testing.T) {
	actions := feedAll(t, "\x1b[31m")
	if len(actions) != 1 || actions[0].Kind != ActionEscape {
		t.Fatalf("expected one escape action, got %+v", actions)
	}
	if !bytes.Equal(actions[0].Seq, []byte("\x1b[31m")) {
		t.Errorf("escape payload = %q", actions[0].Seq)
	}
	// DECXCPR and DECRPM arrive as escapes and decode via ParseQuery.
	actions = feedAll(t, "\x1b[?6n\x1b[?2004$p")
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	for _, a := range actions {
		if _, ok := QueryFromAction(a); !ok {
			t.Errorf("action %+v should decode as a query", a)
		}
	}
}

func TestFeedReassemblesSplitSequences(t *testing.T) {
	actions := feedAll(t, "\x1b", "[", "6", "n")
	if len(actions) != 1 || actions[0].Kind != ActionCursorPositionReport {
		t.Fatalf("split CSI not reassembled: %+v", actions)
	}

	// Split inside a multi-byte rune.
	world := []byte("世") // 3 bytes
	p := NewParser()
	first := p.Feed(world[:2])
	if len(first) != 0 {
		t.Fatalf("incomplete rune should emit nothing, got %+v", first)
	}
	rest := p.Feed(world[2:])
	if len(rest) != 1 || rest[0].Rune != '世' {
		t.Fatalf("rune not reassembled: %+v", rest)
	}
}

func TestFeedDropsStringSequences(t *testing.T) {
	cases := []string{
		"\x1b]0;title\x07",
		"\x1b]0;title\x1b\\",
		"\x1bPsome dcs\x1b\\",
		"\x1b_apc payload\x1b\\",
		"\x1b^pm payload\x1b\\",
	}
	for _, c := range cases {
		if actions := feedAll(t, c+"x"); len(actions) != 1 || actions[0].Rune != 'x' {
			t.Errorf("feed(%q): expected only trailing print, got %+v", c, actions)
		}
	}
}

func TestFeedSingleCharEscape(t *testing.T) {
	actions := feedAll(t, "\x1b7")
	if len(actions) != 1 || actions[0].Kind != ActionEscape {
		t.Fatalf("expected escape action, got %+v", actions)
	}
	if !bytes.Equal(actions[0].Seq, []byte("\x1b7")) {
		t.Errorf("payload = %q", actions[0].Seq)
	}
}

func TestFeedRunawaySequenceIsBounded(t *testing.T) {
	p := NewParser()
	junk := bytes.Repeat([]byte(";"), 4*maxSeqBytes)
	p.Feed([]byte("\x1b["))
	p.Feed(junk)
	// Lexer must have bailed back to ground rather than buffering forever.
	actions := p.Feed([]byte("ok"))
	if len(actions) != 2 || actions[0].Rune != 'o' {
		t.Fatalf("lexer stuck after runaway sequence: %+v", actions)
	}
}
