package builtins

import (
	"math"
	"testing"

	"github.com/navionguy/c64basic/berrors"
	"github.com/navionguy/c64basic/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(v float64) object.Object  { return &object.Number{Value: v} }
func s(v string) object.Object   { return &object.String{Value: v} }
func call(name string, args ...object.Object) object.Object {
	env := object.NewEnvironment(nil)
	fn, ok := Lookup(name)
	if !ok {
		return nil
	}
	return Call(env, fn, args...)
}

func TestBuiltinResults(t *testing.T) {
	tests := []struct {
		fn   string
		args []object.Object
		exp  object.Object
	}{
		{fn: "ABS", args: []object.Object{n(-3.5)}, exp: n(3.5)},
		{fn: "abs", args: []object.Object{n(2)}, exp: n(2)},
		{fn: "ASC", args: []object.Object{s("H")}, exp: n(72)},
		{fn: "ATN", args: []object.Object{n(0)}, exp: n(0)},
		{fn: "CHR$", args: []object.Object{n(72)}, exp: s("H")},
		{fn: "CHR$", args: []object.Object{n(65.9)}, exp: s("A")},
		{fn: "COS", args: []object.Object{n(0)}, exp: n(1)},
		{fn: "EXP", args: []object.Object{n(0)}, exp: n(1)},
		{fn: "INT", args: []object.Object{n(3.7)}, exp: n(3)},
		{fn: "INT", args: []object.Object{n(-3.2)}, exp: n(-4)},
		{fn: "LEFT$", args: []object.Object{s("HELLO"), n(2)}, exp: s("HE")},
		{fn: "LEFT$", args: []object.Object{s("HI"), n(9)}, exp: s("HI")},
		{fn: "LEN", args: []object.Object{s("HELLO")}, exp: n(5)},
		{fn: "LEN", args: []object.Object{s("")}, exp: n(0)},
		{fn: "LOG", args: []object.Object{n(1)}, exp: n(0)},
		{fn: "MID$", args: []object.Object{s("HELLO"), n(2), n(3)}, exp: s("ELL")},
		{fn: "MID$", args: []object.Object{s("HELLO"), n(4)}, exp: s("LO")},
		{fn: "MID$", args: []object.Object{s("HELLO"), n(9)}, exp: s("")},
		{fn: "RIGHT$", args: []object.Object{s("HELLO"), n(3)}, exp: s("LLO")},
		{fn: "RIGHT$", args: []object.Object{s("HELLO"), n(0)}, exp: s("")},
		{fn: "SGN", args: []object.Object{n(-7)}, exp: n(-1)},
		{fn: "SGN", args: []object.Object{n(0)}, exp: n(0)},
		{fn: "SGN", args: []object.Object{n(0.1)}, exp: n(1)},
		{fn: "SIN", args: []object.Object{n(0)}, exp: n(0)},
		{fn: "SQR", args: []object.Object{n(16)}, exp: n(4)},
		{fn: "STR$", args: []object.Object{n(5)}, exp: s(" 5")},
		{fn: "STR$", args: []object.Object{n(-5)}, exp: s("-5")},
		{fn: "STR$", args: []object.Object{n(0.5)}, exp: s(" .5")},
		{fn: "TAN", args: []object.Object{n(0)}, exp: n(0)},
		{fn: "VAL", args: []object.Object{s("12AB")}, exp: n(12)},
		{fn: "VAL", args: []object.Object{s("  -3.5E2X")}, exp: n(-350)},
		{fn: "VAL", args: []object.Object{s("ABC")}, exp: n(0)},
		{fn: "VAL", args: []object.Object{s(" 5")}, exp: n(5)},
		{fn: "VAL", args: []object.Object{s("7E")}, exp: n(7)},
		{fn: "VAL", args: []object.Object{s(".")}, exp: n(0)},
	}

	for _, tt := range tests {
		rc := call(tt.fn, tt.args...)
		assert.Equalf(t, tt.exp, rc, "%s%v", tt.fn, tt.args)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		fn   string
		args []object.Object
		code int
		kind berrors.Kind
	}{
		{fn: "SQR", args: []object.Object{n(-1)}, code: berrors.IllegalQuantity, kind: berrors.DomainError},
		{fn: "LOG", args: []object.Object{n(0)}, code: berrors.IllegalQuantity, kind: berrors.DomainError},
		{fn: "LOG", args: []object.Object{n(-2)}, code: berrors.IllegalQuantity, kind: berrors.DomainError},
		{fn: "EXP", args: []object.Object{n(1000)}, code: berrors.Overflow, kind: berrors.DomainError},
		{fn: "VAL", args: []object.Object{s("1E999")}, code: berrors.Overflow, kind: berrors.DomainError},
		{fn: "CHR$", args: []object.Object{n(256)}, code: berrors.IllegalQuantity, kind: berrors.DomainError},
		{fn: "CHR$", args: []object.Object{n(-1)}, code: berrors.IllegalQuantity, kind: berrors.DomainError},
		{fn: "ASC", args: []object.Object{s("")}, code: berrors.IllegalQuantity, kind: berrors.DomainError},
		{fn: "MID$", args: []object.Object{s("A"), n(0)}, code: berrors.IllegalQuantity, kind: berrors.DomainError},
		{fn: "LEFT$", args: []object.Object{s("A"), n(-1)}, code: berrors.IllegalQuantity, kind: berrors.DomainError},
		{fn: "LEN", args: []object.Object{n(1)}, code: berrors.TypeMismatch, kind: berrors.TypeMismatchError},
		{fn: "ABS", args: []object.Object{s("X")}, code: berrors.TypeMismatch, kind: berrors.TypeMismatchError},
		{fn: "LEFT$", args: []object.Object{s("X"), s("Y")}, code: berrors.TypeMismatch, kind: berrors.TypeMismatchError},
		{fn: "ABS", args: []object.Object{}, code: berrors.ArgCount, kind: berrors.ArityError},
		{fn: "ABS", args: []object.Object{n(1), n(2)}, code: berrors.ArgCount, kind: berrors.ArityError},
		{fn: "MID$", args: []object.Object{s("X")}, code: berrors.ArgCount, kind: berrors.ArityError},
	}

	for _, tt := range tests {
		rc := call(tt.fn, tt.args...)

		err, ok := rc.(*object.Error)
		require.Truef(t, ok, "%s%v gave %T", tt.fn, tt.args, rc)
		assert.Equal(t, tt.code, err.Code, tt.fn)
		assert.Equal(t, tt.kind, err.Kind(), tt.fn)
		assert.Equal(t, tt.fn, err.Detail)
	}
}

func TestAscChrRoundTrip(t *testing.T) {
	for i := 0; i <= 255; i++ {
		ch := call("CHR$", n(float64(i)))
		rc := call("ASC", ch)
		assert.Equal(t, n(float64(i)), rc)
	}
}

func TestValStrRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 1, -1, 42, 3.25, -0.5, 123456, 1e10, 0.000015} {
		assert.Equal(t, x, Val(Str(x)), "VAL(STR$(%v))", x)
	}
}

func TestRnd(t *testing.T) {
	env := object.NewEnvironment(nil)
	fn, _ := Lookup("RND")

	first := Call(env, fn, n(1)).(*object.Number).Value
	assert.True(t, first >= 0 && first < 1)
	assert.Equal(t, first, Call(env, fn, n(0)).(*object.Number).Value)

	a := Call(env, fn, n(-7)).(*object.Number).Value
	Call(env, fn, n(1))
	b := Call(env, fn, n(-7)).(*object.Number).Value
	assert.Equal(t, a, b)
}

func TestTableNames(t *testing.T) {
	for name, fn := range Builtins {
		assert.Equal(t, name, fn.Name)
		assert.True(t, fn.MinArgs >= 1 && fn.MinArgs <= fn.MaxArgs(), name)
	}

	_, ok := Lookup("NOPE")
	assert.False(t, ok)

	assert.False(t, math.IsNaN(Val("1E400")))
}
