// Copyright © 2025 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: harness/pty.go
// Summary: Runs a child program on a pty and answers its terminal queries.
// Usage: Test rigs call Capture to observe what a full-screen program
//        emits without a real terminal on the other end.

package harness

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"

	"github.com/framegrace/vtcore/capture"
	"github.com/framegrace/vtcore/vt"
)

// Options configures a capture run. The zero value works: an 80x24 pty,
// an xterm-like identity, cursor pinned at the origin and no transcript.
type Options struct {
	Rows, Cols uint16

	// Env entries are appended to the command's environment. TERM is the
	// caller's responsibility; the harness does not guess one.
	Env []string

	// Engine answers device attribute queries. Nil selects XTermLike.
	Engine *vt.ReplyEngine

	// Cursor supplies the position reported to DSR 6 / DECXCPR queries.
	// Nil reports the origin.
	Cursor func() (row, col uint16)

	// Modes backs DECRPM replies. Nil reports every mode unrecognized.
	Modes *vt.Modes

	// Store, when set, records every exchange under Session.
	Store   capture.TranscriptStore
	Session string
}

// Result holds everything observed during a capture run.
type Result struct {
	// Output is the raw byte stream the child wrote, queries included.
	Output []byte
	// Actions is the decoded form of Output.
	Actions []vt.Action
	// Queries and Replies pair up in arrival order.
	Queries []vt.TerminalQuery
	Replies [][]byte
	// ExitErr is the child's wait error, nil on clean exit.
	ExitErr error
}

// Capture starts cmd on a pty, reads its output to EOF and answers every
// recognized terminal query immediately, the way a real terminal would.
// Cancelling ctx kills the child; the partial result is still returned.
func Capture(ctx context.Context, cmd *exec.Cmd, opts Options) (*Result, error) {
	if opts.Rows == 0 {
		opts.Rows = 24
	}
	if opts.Cols == 0 {
		opts.Cols = 80
	}
	engine := opts.Engine
	if engine == nil {
		e := vt.XTermLike()
		engine = &e
	}

	if len(opts.Env) > 0 {
		// A nil cmd.Env means "inherit"; make that explicit before
		// appending so the extra entries never replace PATH, HOME and
		// friends.
		if cmd.Env == nil {
			cmd.Env = os.Environ()
		}
		cmd.Env = append(cmd.Env, opts.Env...)
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: opts.Rows,
		Cols: opts.Cols,
	})
	if err != nil {
		log.Printf("Harness: failed to start pty: %v", err)
		return nil, err
	}
	defer ptmx.Close()

	// A cancelled context kills the child, which unblocks the read loop
	// below via pty EOF.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			if cmd.Process != nil {
				cmd.Process.Kill()
			}
		case <-stop:
		}
	}()

	res := &Result{}
	parser := vt.NewParser()
	buf := make([]byte, 4096)
	for {
		n, readErr := ptmx.Read(buf)
		if n > 0 {
			res.Output = append(res.Output, buf[:n]...)
			for _, a := range parser.Feed(buf[:n]) {
				res.Actions = append(res.Actions, a)
				q, ok := vt.QueryFromAction(a)
				if !ok {
					continue
				}
				reply := engine.Reply(q, replyContext(opts))
				res.Queries = append(res.Queries, q)
				res.Replies = append(res.Replies, reply)
				if _, err := ptmx.Write(reply); err != nil {
					log.Printf("Harness: reply write failed: %v", err)
				}
				if opts.Store != nil {
					if err := opts.Store.RecordExchange(opts.Session, a.Seq, reply); err != nil {
						log.Printf("Harness: transcript write failed: %v", err)
					}
				}
			}
		}
		if readErr != nil {
			// Linux ptys report EIO at child exit; both mean done.
			if !errors.Is(readErr, io.EOF) && !isClosedPty(readErr) {
				log.Printf("Harness: pty read ended: %v", readErr)
			}
			break
		}
	}

	res.ExitErr = cmd.Wait()
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, nil
}

func replyContext(opts Options) vt.ReplyContext {
	var row, col uint16
	if opts.Cursor != nil {
		row, col = opts.Cursor()
	}
	return vt.ReplyContext{Row: row, Col: col, Modes: opts.Modes}
}

// isClosedPty reports the EIO a Linux pty returns once the child side is
// gone.
func isClosedPty(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) ||
		strings.HasSuffix(err.Error(), "input/output error")
}
