// Package cli is the read-line front end, it feeds typed lines to a session
package cli

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goforj/godump"
	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/object"
	"github.com/navionguy/c64basic/parser"
	"github.com/navionguy/c64basic/session"
	"github.com/navionguy/c64basic/terminal"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

// ErrInterrupted comes back from ReadLine when the user hits ^C at the prompt
var ErrInterrupted = errors.New("interrupted")

// messages from the front end itself
const (
	readyMsg   = "READY."
	goodbyeMsg = "GOODBYE!"
)

// LineReader gets one line of text from the user
type LineReader interface {
	// ReadLine blocks for a line, prompt is the text already on the row
	ReadLine(prompt string) (string, error)
	// Remember adds a line to the history
	Remember(line string)
	// Interactive is true when the user's typing is echoed
	Interactive() bool
	Close() error
}

// Option changes how Run behaves
type Option func(*shell)

// WithDump dumps the statements of each immediate line before it runs
func WithDump() Option {
	return func(sh *shell) { sh.dump = true }
}

type shell struct {
	sess *session.Session
	in   LineReader
	out  *terminal.Terminal
	dump bool
}

// Run interacts with the user until BYE or the input runs out
func Run(sess *session.Session, in LineReader, out *terminal.Terminal, opts ...Option) error {
	sh := &shell{sess: sess, in: in, out: out}
	for _, opt := range opts {
		opt(sh)
	}

	if sess.State() != object.AwaitingInput {
		out.Println(readyMsg)
	}

	for !sess.Exited() {
		line, err := in.ReadLine(out.Row())
		if in.Interactive() {
			out.Newline()
		}

		switch {
		case errors.Is(err, ErrInterrupted):
			sh.interrupted()
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		sh.execLine(line)
	}

	out.Println(goodbyeMsg)
	return nil
}

// execLine submits one line and decides if READY. is due
func (sh *shell) execLine(line string) {
	waiting := sh.sess.State() == object.AwaitingInput
	_, _, numbered := ast.SplitLineNumber(line)

	if !waiting {
		if len(strings.TrimSpace(line)) == 0 {
			return
		}
		sh.in.Remember(line)

		if sh.dump && !numbered {
			godump.Dump(parser.ParseLine(line))
		}
	}

	err := sh.sess.SubmitLine(line)
	if err != nil {
		slog.Debug("line failed", "line", line, "err", err)
	}

	if sh.sess.Exited() || sh.sess.State() == object.AwaitingInput {
		return
	}

	if waiting || !numbered || err != nil {
		sh.out.Println(readyMsg)
	}
}

// ^C while a program waits on INPUT breaks into it, otherwise it's ignored
func (sh *shell) interrupted() {
	if sh.sess.State() != object.AwaitingInput {
		return
	}

	sh.sess.Interrupt()
	sh.sess.SupplyInput("")
	sh.out.Println(readyMsg)
}

// Stdin returns a line editor when stdin is a terminal, a plain reader otherwise
func Stdin() LineReader {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return NewPlainReader(os.Stdin)
	}

	l := liner.NewLiner()
	l.SetCtrlCAborts(true)

	return &linerReader{state: l}
}

type linerReader struct {
	state *liner.State
}

func (lr *linerReader) ReadLine(prompt string) (string, error) {
	line, err := lr.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}

	return line, err
}

func (lr *linerReader) Remember(line string) { lr.state.AppendHistory(line) }
func (lr *linerReader) Interactive() bool    { return true }
func (lr *linerReader) Close() error         { return lr.state.Close() }

// NewPlainReader reads lines from r without editing or echo
func NewPlainReader(r io.Reader) LineReader {
	return &plainReader{scanner: bufio.NewScanner(r)}
}

type plainReader struct {
	scanner *bufio.Scanner
}

func (pr *plainReader) ReadLine(string) (string, error) {
	if pr.scanner.Scan() {
		return strings.TrimRight(pr.scanner.Text(), "\r"), nil
	}

	if err := pr.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (pr *plainReader) Remember(string)   {}
func (pr *plainReader) Interactive() bool { return false }
func (pr *plainReader) Close() error      { return nil }
