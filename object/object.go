// Package object how the interpretor holds objects during execution
package object

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/berrors"
)

// BuiltinFunction is a function defined by the dialect
type BuiltinFunction func(env *Environment, fn *Builtin, args ...Object) Object

// ObjectType can always be displayed as a string
type ObjectType string

// Object is anything an expression can evaluate to
type Object interface {
	Type() ObjectType
	Inspect() string
}

const (
	ERROR_OBJ   = "ERROR"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"
	BUILTIN_OBJ = "BUILTIN"
	HALT_SIGNAL = "HALT"
)

// Console is the output side of the terminal
// the core only ever hands it plain text and structure
type Console interface {
	// Emit displays one fragment of output
	Emit(Fragment)
	// Cls clears the screen contents
	Cls()
	// Color sets foreground and background, both 0..15
	Color(fg, bg int)
	// Screen sets the background/border color, 0..15
	Screen(bg int)
}

// Storage persists programs by name, LOAD and SAVE go through it
type Storage interface {
	Load(name string) ([]ast.SourceLine, error)
	Save(name string, lines []ast.SourceLine) error
}

// ErrNotFound is returned (possibly wrapped) by a Storage that has no such program
var ErrNotFound = errors.New("program not found")

// HttpClient allows me to mock an http.Client, minimally
type HttpClient interface {
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

// Number is the only numeric type, a float64
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }

// Inspect returns the number the way PRINT shows it
func (n *Number) Inspect() string { return FormatNumber(n.Value) }

// String holds a string value
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Error is a runtime or syntax error, it stops execution
type Error struct {
	Code   int    // berrors code
	Line   int    // line number, zero in immediate mode
	Detail string // optional, usually the function name
	Err    error  // underlying cause, storage failures mostly
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return e.Error() }

// Error renders the message, eg. ?ILLEGAL QUANTITY ERROR IN 40 (SQR)
func (e *Error) Error() string {
	var out strings.Builder

	out.WriteString("?")
	out.WriteString(berrors.TextForError(e.Code))
	out.WriteString(" ERROR")

	if e.Line > 0 {
		out.WriteString(" IN " + strconv.Itoa(e.Line))
	}

	if len(e.Detail) > 0 {
		out.WriteString(" (" + e.Detail + ")")
	}

	return out.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Kind gives the error category
func (e *Error) Kind() berrors.Kind { return berrors.KindOf(e.Code) }

// HaltSignal stops execution without being an error
type HaltSignal struct {
	State State  // where the session ends up
	Msg   string // shown to the user, if not empty
	Bye   bool   // leave the interpreter entirely
}

func (hs *HaltSignal) Type() ObjectType { return HALT_SIGNAL }
func (hs *HaltSignal) Inspect() string  { return hs.Msg }

// Builtin is an entry in the function table
type Builtin struct {
	Name    string
	Args    []ObjectType // expected type of each argument
	MinArgs int
	Fn      BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }

// MaxArgs is how many arguments the function will take
func (b *Builtin) MaxArgs() int { return len(b.Args) }

// FormatNumber renders a number the way the dialect prints it
// whole numbers have no decimal point, others get up to 9 significant digits
// and 0.5 comes out as .5
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	if f == math.Trunc(f) && math.Abs(f) < 1e9 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'G', 9, 64)
	if strings.HasPrefix(s, "0.") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-0.") {
		s = "-" + s[2:]
	}

	return s
}

// Truthy is the numeric boolean test, non-zero is true
func Truthy(obj Object) bool {
	n, ok := obj.(*Number)
	return ok && n.Value != 0
}

// Bool returns the dialect's values for true and false
func Bool(b bool) *Number {
	if b {
		return &Number{Value: -1}
	}
	return &Number{Value: 0}
}

// State of the statement executor
type State int

const (
	Idle State = iota
	Running
	AwaitingInput
	Halted
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case AwaitingInput:
		return "AwaitingInput"
	case Halted:
		return "Halted"
	case Ended:
		return "Ended"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
