// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/celldemo/main.go
// Summary: Animated demo of the surface/diff/present pipeline.
// Usage: Run in a real terminal; draws a bouncing banner using only the
//        diffed ANSI byte stream, no tcell. Ctrl-C exits.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/framegrace/vtcore/buffer"
	"github.com/framegrace/vtcore/capture"
	"github.com/framegrace/vtcore/render"
	"github.com/framegrace/vtcore/sanitize"
)

func main() {
	fps := flag.Int("fps", 30, "Frames per second")
	frames := flag.Int("frames", 0, "Stop after N frames (0 = until interrupted)")
	sync := flag.Bool("sync", false, "Bracket frames in synchronized-output markers")
	dbPath := flag.String("db", "", "Optional transcript database for presented frames")
	flag.Parse()

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, "celldemo needs a terminal on stdout")
		os.Exit(1)
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read terminal size: %v\n", err)
		os.Exit(1)
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enter raw mode: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	var store *capture.SQLiteStore
	if *dbPath != "" {
		store, err = capture.OpenStore(*dbPath)
		if err != nil {
			log.Fatalf("Celldemo: failed to open transcript: %v", err)
		}
		defer store.Close()
	}

	profile := render.Detect()
	profile.SyncOutput = *sync
	presenter := render.NewPresenter(profile)
	surface := buffer.NewSurface(cols, rows)

	// Alternate screen with hidden cursor for the demo's lifetime.
	os.Stdout.WriteString("\x1b[?1049h\x1b[?25l")
	defer os.Stdout.WriteString("\x1b[?25h\x1b[?1049l")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	banner := sanitize.Sanitized("vtcore \x1b[31mdiff\x1b[0m demo") // strips to plain text
	x, y, dx, dy := 0, 0, 1, 1
	var seq int64
	for {
		select {
		case <-sigCh:
			return
		case <-ticker.C:
		}

		surface.Current().Clear()
		surface.MarkAllDirty()
		fg := buffer.Palette(uint8(40 + seq%180))
		surface.WriteText(x, y, banner, fg, buffer.DefaultBG, buffer.AttrBold)

		diff, err := surface.Diff()
		if err != nil {
			log.Fatalf("Celldemo: diff failed: %v", err)
		}
		frame := presenter.Present(surface.Current(), diff)
		if _, err := os.Stdout.Write(frame); err != nil {
			log.Fatalf("Celldemo: write failed: %v", err)
		}
		surface.Flip()

		if store != nil {
			if err := store.RecordFrame("celldemo", seq, frame); err != nil {
				log.Printf("Celldemo: transcript write failed: %v", err)
			}
		}

		seq++
		if *frames > 0 && seq >= int64(*frames) {
			return
		}

		x += dx
		y += dy
		if x <= 0 || x+len("vtcore diff demo") >= cols {
			dx = -dx
		}
		if y <= 0 || y+1 >= rows {
			dy = -dy
		}
	}
}
