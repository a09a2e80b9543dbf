package object

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/berrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjects(t *testing.T) {
	tests := []struct {
		obj Object
		exp string
		tp  ObjectType
	}{
		{obj: &Number{Value: 5}, exp: "5", tp: NUMBER_OBJ},
		{obj: &String{Value: "Hello"}, exp: "Hello", tp: STRING_OBJ},
		{obj: &Error{Code: berrors.Syntax, Line: 20}, exp: "?SYNTAX ERROR IN 20", tp: ERROR_OBJ},
		{obj: &Builtin{Name: "ABS"}, exp: "builtin function ABS", tp: BUILTIN_OBJ},
		{obj: &HaltSignal{Msg: "BREAK IN 10"}, exp: "BREAK IN 10", tp: HALT_SIGNAL},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.exp, tt.obj.Inspect())
		assert.Equal(t, tt.tp, tt.obj.Type())
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		exp  string
		kind berrors.Kind
	}{
		{err: &Error{Code: berrors.Syntax, Line: 20}, exp: "?SYNTAX ERROR IN 20", kind: berrors.SyntaxError},
		{err: &Error{Code: berrors.IllegalQuantity, Line: 40, Detail: "SQR"}, exp: "?ILLEGAL QUANTITY ERROR IN 40 (SQR)", kind: berrors.DomainError},
		{err: &Error{Code: berrors.UnDefinedLineNumber}, exp: "?UNDEF'D STATEMENT ERROR", kind: berrors.UndefinedLine},
		{err: &Error{Code: berrors.ReturnWoGosub, Line: 5}, exp: "?RETURN WITHOUT GOSUB ERROR IN 5", kind: berrors.StackUnderflow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.exp, tt.err.Error())
		assert.Equal(t, tt.kind, tt.err.Kind())
	}

	cause := errors.New("disk on fire")
	var err error = &Error{Code: berrors.FileData, Err: fmt.Errorf("saving: %w", cause)}
	assert.True(t, errors.Is(err, cause))

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, berrors.IOError, be.Kind())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		inp float64
		exp string
	}{
		{inp: 0, exp: "0"},
		{inp: 5, exp: "5"},
		{inp: -3, exp: "-3"},
		{inp: 123456789, exp: "123456789"},
		{inp: 0.5, exp: ".5"},
		{inp: -0.25, exp: "-.25"},
		{inp: 3.25, exp: "3.25"},
		{inp: 1.0 / 3.0, exp: ".333333333"},
		{inp: 1e10, exp: "1E+10"},
		{inp: 1e9, exp: "1E+09"},
		{inp: 0.000015, exp: "1.5E-05"},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.exp, FormatNumber(tt.inp), "FormatNumber(%v)", tt.inp)
	}
}

func TestBooleans(t *testing.T) {
	assert.Equal(t, float64(-1), Bool(true).Value)
	assert.Equal(t, float64(0), Bool(false).Value)
	assert.True(t, Truthy(&Number{Value: 2}))
	assert.False(t, Truthy(&Number{}))
	assert.False(t, Truthy(&String{Value: "X"}))
}

func TestFragmentRender(t *testing.T) {
	tests := []struct {
		frag Fragment
		col  int
		exp  string
		ecol int
	}{
		{frag: Fragment{Text: "AB", Term: TermTab}, col: 0, exp: "AB        ", ecol: 10},
		{frag: Fragment{Text: "", Term: TermTab}, col: 10, exp: "          ", ecol: 20},
		{frag: Fragment{Text: "ABC", Term: TermTab}, col: 8, exp: "ABC         ", ecol: 20},
		{frag: Fragment{Text: "X", Term: TermNewline}, col: 5, exp: "X\n", ecol: 0},
		{frag: Fragment{Text: "X", Term: TermNone}, col: 3, exp: "X", ecol: 4},
	}

	for _, tt := range tests {
		txt, col := tt.frag.Render(tt.col)
		assert.Equal(t, tt.exp, txt)
		assert.Equal(t, tt.ecol, col)
	}
}

func TestVarName(t *testing.T) {
	tests := []struct {
		inp string
		exp string
	}{
		{inp: "a", exp: "A"},
		{inp: "count", exp: "CO"},
		{inp: "name$", exp: "NA$"},
		{inp: "A1", exp: "A1"},
		{inp: "TIME", exp: "TI"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.exp, VarName(tt.inp))
	}
}

func TestEnvironmentVariables(t *testing.T) {
	env := NewEnvironment(nil)

	assert.Equal(t, &Number{}, env.Get("A"))
	assert.Equal(t, &String{}, env.Get("A$"))

	require.NoError(t, env.Set("COUNT", &Number{Value: 5}))
	assert.Equal(t, &Number{Value: 5}, env.Get("CO"))
	assert.Equal(t, &String{}, env.Get("CO$"))

	require.NoError(t, env.Set("co$", &String{Value: "X"}))
	assert.Equal(t, &String{Value: "X"}, env.Get("COUNT$"))

	err := env.Set("B", &String{Value: "oops"})
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.Equal(t, &Number{}, env.Get("B"))

	err = env.Set("B$", &Number{Value: 1})
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	err = env.Set("TI", &Number{Value: 1})
	assert.True(t, errors.Is(err, ErrReadOnly))
	err = env.Set("TI$", &String{Value: "000000"})
	assert.True(t, errors.Is(err, ErrReadOnly))

	assert.Len(t, env.Variables(), 2)
	env.ClearVars()
	assert.Equal(t, &Number{}, env.Get("CO"))
}

func TestSystemClock(t *testing.T) {
	env := NewEnvironment(nil)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	env.SetClock(func() time.Time { return now })

	assert.Equal(t, &Number{Value: 0}, env.Get("TI"))
	assert.Equal(t, &String{Value: "000000"}, env.Get("TI$"))

	now = now.Add(2 * time.Second)
	assert.Equal(t, &Number{Value: 120}, env.Get("ti"))
	assert.Equal(t, &String{Value: "000002"}, env.Get("ti$"))

	now = now.Add(time.Hour + time.Minute + time.Second)
	assert.Equal(t, &String{Value: "010103"}, env.Get("TI$"))

	now = now.Add(24 * time.Hour)
	assert.Equal(t, &String{Value: "010103"}, env.Get("TI$"))
}

func TestRandom(t *testing.T) {
	env := NewEnvironment(nil)

	r0 := env.Random(0)
	assert.Equal(t, r0, env.Random(0))

	r1 := env.Random(1)
	assert.True(t, r1 >= 0 && r1 < 1)
	assert.Equal(t, r1, env.Random(0))

	s1 := env.Random(-3)
	env.Random(1)
	assert.Equal(t, s1, env.Random(-3))
	assert.Equal(t, s1, env.Random(0))
}

func TestGosubStackFull(t *testing.T) {
	env := NewEnvironment(nil)

	for i := 0; i < MaxGosubDepth; i++ {
		require.True(t, env.Push(ast.RetPoint{Line: i + 1}))
	}
	assert.False(t, env.Push(ast.RetPoint{Line: 99}))
	assert.Equal(t, MaxGosubDepth, env.StackDepth())

	rp, ok := env.Pop()
	assert.True(t, ok)
	assert.Equal(t, MaxGosubDepth, rp.Line)
}

func TestGosubStack(t *testing.T) {
	env := NewEnvironment(nil)

	_, ok := env.Pop()
	assert.False(t, ok)

	assert.True(t, env.Push(ast.RetPoint{Line: 10, Stmt: 1}))
	assert.True(t, env.Push(ast.RetPoint{Line: 20, Stmt: 0}))
	assert.Equal(t, 2, env.StackDepth())

	rp, ok := env.Pop()
	assert.True(t, ok)
	assert.Equal(t, ast.RetPoint{Line: 20, Stmt: 0}, rp)

	rp, ok = env.Pop()
	assert.True(t, ok)
	assert.Equal(t, ast.RetPoint{Line: 10, Stmt: 1}, rp)
}

func TestForLoops(t *testing.T) {
	env := NewEnvironment(nil)

	_, ok := env.UnwindFor("")
	assert.False(t, ok)

	env.PushFor(ForBlock{Var: "I", Limit: 3, Step: 1})
	env.PushFor(ForBlock{Var: "J", Limit: 3, Step: 1})
	env.PushFor(ForBlock{Var: "K", Limit: 3, Step: 1})

	fb, ok := env.UnwindFor("")
	require.True(t, ok)
	assert.Equal(t, "K", fb.Var)
	assert.Equal(t, 3, env.ForDepth())

	fb, ok = env.UnwindFor("j")
	require.True(t, ok)
	assert.Equal(t, "J", fb.Var)
	assert.Equal(t, 2, env.ForDepth())

	_, ok = env.UnwindFor("Z")
	assert.False(t, ok)
	assert.Equal(t, 2, env.ForDepth())

	// restarting a loop drops it and everything inside it
	env.PushFor(ForBlock{Var: "I", Limit: 9, Step: 2})
	assert.Equal(t, 1, env.ForDepth())
	fb, _ = env.UnwindFor("I")
	assert.Equal(t, float64(9), fb.Limit)

	env.PopFor()
	assert.Equal(t, 0, env.ForDepth())
	env.PopFor()

	env.PushFor(ForBlock{Var: "I"})
	env.Push(ast.RetPoint{Line: 10})
	env.ClearStacks()
	assert.Equal(t, 0, env.ForDepth())
	assert.Equal(t, 0, env.StackDepth())
}

func TestInterrupt(t *testing.T) {
	env := NewEnvironment(nil)

	assert.False(t, env.BreakCheck())
	env.Interrupt()
	assert.True(t, env.BreakCheck())
	assert.False(t, env.BreakCheck())
}

func TestNewClearsEverything(t *testing.T) {
	env := NewEnvironment(nil)

	env.Program().Put(10, "PRINT", nil)
	require.NoError(t, env.Set("A", &Number{Value: 1}))
	env.Push(ast.RetPoint{Line: 10})
	env.SetInput(&PendingInput{})

	env.New()

	assert.Equal(t, 0, env.Program().Len())
	assert.Equal(t, &Number{}, env.Get("A"))
	assert.Equal(t, 0, env.StackDepth())
	assert.Nil(t, env.Input())
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "AwaitingInput", AwaitingInput.String())
	assert.Equal(t, "State(9)", State(9).String())
}
