// Package session is the outside face of the interpreter
// a host submits lines and supplies input, output arrives on its Console
package session

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/berrors"
	"github.com/navionguy/c64basic/evaluator"
	"github.com/navionguy/c64basic/object"
	"github.com/navionguy/c64basic/parser"
)

// errors for calls made at the wrong time
var (
	ErrExited  = errors.New("session has exited")
	ErrNoInput = errors.New("no INPUT is waiting")
)

// Option configures a Session
type Option func(*Session)

// WithStorage sets where LOAD and SAVE go
func WithStorage(st object.Storage) Option {
	return func(s *Session) { s.env.SetStorage(st) }
}

// WithClock replaces the time source behind TI and TI$
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.env.SetClock(clock) }
}

// WithSeed starts RND on a known series
func WithSeed(seed int64) Option {
	return func(s *Session) { s.env.Randomize(seed) }
}

// Session is one user's interpreter, program and variables
type Session struct {
	env    *object.Environment
	exited bool
}

// New returns an idle session with an empty program
func New(term object.Console, opts ...Option) *Session {
	s := &Session{env: object.NewEnvironment(term)}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SubmitLine takes one line as typed
// a leading line number stores it in the program, otherwise it runs now
// while an INPUT is waiting the line goes to it instead
func (s *Session) SubmitLine(text string) error {
	if s.exited {
		return ErrExited
	}

	if s.env.State() == object.AwaitingInput {
		return s.SupplyInput(text)
	}

	num, rest, ok := ast.SplitLineNumber(text)
	if ok {
		return s.storeLine(num, rest)
	}

	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	return s.finish(evaluator.Execute(parser.ParseLine(text), s.env))
}

// SupplyInput answers the INPUT statement the program is waiting on
func (s *Session) SupplyInput(text string) error {
	if s.exited {
		return ErrExited
	}

	if s.env.State() != object.AwaitingInput {
		return ErrNoInput
	}

	return s.finish(evaluator.SupplyInput(s.env, text))
}

// State of the executor
func (s *Session) State() object.State {
	return s.env.State()
}

// Interrupt asks a running program to stop, safe to call from any goroutine
func (s *Session) Interrupt() {
	s.env.Interrupt()
}

// ExportLines returns the program in line number order
func (s *Session) ExportLines() []ast.SourceLine {
	return s.env.Program().Lines()
}

// ImportLines replaces the program
func (s *Session) ImportLines(lines []ast.SourceLine) error {
	if err := evaluator.ImportLines(s.env, lines); err != nil {
		return err
	}

	s.env.SetState(object.Idle)
	return nil
}

// New clears the program and the variables
func (s *Session) New() {
	s.env.New()
	s.env.SetState(object.Idle)
}

// End stops whatever is running
func (s *Session) End() {
	s.env.Code().Stop()
	s.env.ClearStacks()
	s.env.SetInput(nil)
	s.env.SetState(object.Ended)
}

// Exited is true once BYE has been executed
func (s *Session) Exited() bool {
	return s.exited
}

// Get returns the value of a variable
func (s *Session) Get(name string) object.Object {
	return s.env.Get(name)
}

func (s *Session) storeLine(num int, text string) error {
	if !ast.ValidLineNum(num) {
		return s.finish(&object.Error{Code: berrors.Syntax})
	}

	evaluator.StoreLine(s.env, num, text)
	slog.Debug("line stored", "num", num, "lines", s.env.Program().Len())

	s.env.SetState(object.Idle)
	return nil
}

// errors get shown on the console as well as returned
func (s *Session) finish(rc object.Object) error {
	switch rc := rc.(type) {
	case *object.Error:
		if s.env.Terminal() != nil {
			s.env.Terminal().Emit(object.Fragment{Text: rc.Error(), Term: object.TermNewline})
		}
		return rc
	case *object.HaltSignal:
		if rc.Bye {
			s.exited = true
		}
	}

	return nil
}
