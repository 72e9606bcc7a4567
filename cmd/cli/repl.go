package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/kurihiro0119/hackathon-eval-client/internal/errors"
	"github.com/kurihiro0119/hackathon-eval-client/internal/session"
	"github.com/kurihiro0119/hackathon-eval-client/internal/view"
)

const replHelp = `Commands:
  submit <urls>        submit URLs separated by spaces or commas
  select <row|url>     show the detailed report of a result
  show                 expand or collapse the report body
  help                 show this help
  quit                 leave the session`

// lockedWriter serializes writes from the prompt and from state listeners
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func runSession(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := &lockedWriter{w: cmd.OutOrStdout()}
	sess := opts.newSession(cmd.ErrOrStderr())
	return runREPL(ctx, cmd.InOrStdin(), out, sess, opts.expand)
}

// runREPL drives sess from line commands read from in until EOF or quit.
// The screen is re-rendered to out after every state change.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session, expand bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var expanded atomic.Bool
	expanded.Store(expand)
	// Each screen goes out in a single Write so concurrent renders never interleave
	render := func(st session.State) {
		var buf bytes.Buffer
		view.RenderScreen(&buf, st, view.Options{Expand: expanded.Load()})
		_, _ = out.Write(buf.Bytes())
	}
	defer sess.OnChange(render)()
	render(sess.Snapshot())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-sess.ActivateRanking(gctx)
		return nil
	})

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		verb, arg := splitCommand(scanner.Text())

		switch verb {
		case "":
			continue
		case "quit", "exit", "q":
			// Abandon whatever is still in flight
			cancel()
			return g.Wait()
		case "help", "?":
			fmt.Fprintln(out, replHelp)
		case "submit", "s":
			if sess.Busy() {
				fmt.Fprintln(out, "A submission is already in progress")
				continue
			}
			g.Go(func() error {
				if err := sess.Submit(gctx, arg); apperrors.IsBusy(err) {
					fmt.Fprintln(out, "A submission is already in progress")
				}
				return nil
			})
		case "select", "sel":
			g.Go(func() error {
				if row, err := strconv.Atoi(arg); err == nil {
					var appErr *apperrors.AppError
					if err := sess.SelectRow(gctx, row); errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeBadRequest {
						fmt.Fprintln(out, appErr.Message)
					}
					return nil
				}
				_ = sess.SelectForDetail(gctx, arg)
				return nil
			})
		case "show":
			expanded.Store(!expanded.Load())
			render(sess.Snapshot())
		default:
			fmt.Fprintf(out, "Unknown command %q, type help\n", verb)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return g.Wait()
}

func splitCommand(line string) (verb, arg string) {
	line = strings.TrimSpace(line)
	verb, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(verb), strings.TrimSpace(arg)
}
