// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/vtreply/main.go
// Summary: Stdin/stdout reply filter for terminal queries.
// Usage: Pipe a program's output through vtreply to answer its DSR, DA
//        and DECRPM queries with a fixed identity, e.g. in CI pipelines
//        where no real terminal sits on the other end.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/framegrace/vtcore/capture"
	"github.com/framegrace/vtcore/vt"
)

func main() {
	row := flag.Int("row", 1, "Cursor row reported to position queries (1-based)")
	col := flag.Int("col", 1, "Cursor column reported to position queries (1-based)")
	termID := flag.Int("id", 1, "DA2 terminal identifier")
	version := flag.Int("version", 10, "DA2 firmware version")
	rom := flag.Int("rom", 0, "DA2 ROM cartridge field")
	passthrough := flag.Bool("passthrough", false, "Echo non-query input to stdout as well")
	dbPath := flag.String("db", "", "Optional transcript database for recorded exchanges")
	session := flag.String("session", "vtreply", "Session name for the transcript")
	verbose := flag.Bool("verbose", false, "Log each exchange to stderr")
	flag.Parse()

	if *row < 1 || *col < 1 || *row > 0x10000 || *col > 0x10000 {
		fmt.Fprintln(os.Stderr, "row and col must be in 1..65536")
		os.Exit(2)
	}

	var store capture.TranscriptStore
	if *dbPath != "" {
		s, err := capture.OpenStore(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open transcript: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	engine := vt.ReplyEngine{
		TerminalID: uint16(*termID),
		Version:    uint16(*version),
		ROM:        uint16(*rom),
	}
	ctx := vt.ReplyContext{
		Row:   uint16(*row - 1),
		Col:   uint16(*col - 1),
		Modes: vt.NewModes(),
	}

	parser := vt.NewParser()
	out := os.Stdout
	buf := make([]byte, 4096)
	for {
		n, readErr := os.Stdin.Read(buf)
		if n > 0 {
			for _, a := range parser.Feed(buf[:n]) {
				reply, ok := engine.ReplyForAction(a, ctx)
				if !ok {
					if *passthrough {
						echo(out, a)
					}
					continue
				}
				if _, err := out.Write(reply); err != nil {
					log.Fatalf("Vtreply: write failed: %v", err)
				}
				if *verbose {
					log.Printf("Vtreply: %q -> %q", a.Seq, reply)
				}
				if store != nil {
					if err := store.RecordExchange(*session, a.Seq, reply); err != nil {
						log.Printf("Vtreply: transcript write failed: %v", err)
					}
				}
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				log.Printf("Vtreply: stdin read ended: %v", readErr)
			}
			return
		}
	}
}

// echo re-serializes a non-query action for passthrough mode.
func echo(w io.Writer, a vt.Action) {
	switch a.Kind {
	case vt.ActionPrint:
		fmt.Fprintf(w, "%c", a.Rune)
	case vt.ActionControl:
		w.Write([]byte{a.Byte})
	case vt.ActionEscape:
		w.Write(a.Seq)
	}
}
