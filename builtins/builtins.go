package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/navionguy/c64basic/berrors"
	"github.com/navionguy/c64basic/object"
)

// longest string the dialect allows
const maxStrLen = 255

var numArg = []object.ObjectType{object.NUMBER_OBJ}
var strArg = []object.ObjectType{object.STRING_OBJ}

// Builtins is the function table, keyed by upper case name
var Builtins = map[string]*object.Builtin{
	"ABS": { // absolute value
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return &object.Number{Value: math.Abs(number(args[0]))}
		},
	},
	"ASC": { // character code of the first char in string
		Args: strArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			s := args[0].(*object.String).Value
			if len(s) == 0 {
				return newError(berrors.IllegalQuantity, fn)
			}

			return &object.Number{Value: float64(s[0])}
		},
	},
	"ATN": { // arctangent
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return result(fn, math.Atan(number(args[0])))
		},
	},
	"CHR$": { // single character string for a character code
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			n, ok := byteArg(args[0])
			if !ok {
				return newError(berrors.IllegalQuantity, fn)
			}

			return &object.String{Value: string([]byte{n})}
		},
	},
	"COS": { // cosine, radians
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return result(fn, math.Cos(number(args[0])))
		},
	},
	"EXP": { // e to the power
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return result(fn, math.Exp(number(args[0])))
		},
	},
	"INT": { // largest whole number not greater than the argument
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return &object.Number{Value: math.Floor(number(args[0]))}
		},
	},
	"LEFT$": { // leftmost n characters
		Args: []object.ObjectType{object.STRING_OBJ, object.NUMBER_OBJ},
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			s := args[0].(*object.String).Value
			n, ok := byteArg(args[1])
			if !ok {
				return newError(berrors.IllegalQuantity, fn)
			}

			if int(n) > len(s) {
				return &object.String{Value: s}
			}
			return &object.String{Value: s[:n]}
		},
	},
	"LEN": { // length of a string
		Args: strArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return &object.Number{Value: float64(len(args[0].(*object.String).Value))}
		},
	},
	"LOG": { // natural logarithm
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			x := number(args[0])
			if x <= 0 {
				return newError(berrors.IllegalQuantity, fn)
			}
			return result(fn, math.Log(x))
		},
	},
	"MID$": { // substring, MID$(s, start[, len]) start counts from 1
		Args:    []object.ObjectType{object.STRING_OBJ, object.NUMBER_OBJ, object.NUMBER_OBJ},
		MinArgs: 2,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			s := args[0].(*object.String).Value
			start, ok := byteArg(args[1])
			if !ok || start == 0 {
				return newError(berrors.IllegalQuantity, fn)
			}

			if int(start) > len(s) {
				return &object.String{}
			}
			s = s[start-1:]

			if len(args) == 3 {
				n, ok := byteArg(args[2])
				if !ok {
					return newError(berrors.IllegalQuantity, fn)
				}
				if int(n) < len(s) {
					s = s[:n]
				}
			}

			return &object.String{Value: s}
		},
	},
	"RIGHT$": { // rightmost n characters
		Args: []object.ObjectType{object.STRING_OBJ, object.NUMBER_OBJ},
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			s := args[0].(*object.String).Value
			n, ok := byteArg(args[1])
			if !ok {
				return newError(berrors.IllegalQuantity, fn)
			}

			if int(n) > len(s) {
				return &object.String{Value: s}
			}
			return &object.String{Value: s[len(s)-int(n):]}
		},
	},
	"RND": { // pseudo random number in [0,1)
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return &object.Number{Value: env.Random(number(args[0]))}
		},
	},
	"SGN": { // sign, -1, 0 or 1
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			x := number(args[0])
			switch {
			case x > 0:
				return &object.Number{Value: 1}
			case x < 0:
				return &object.Number{Value: -1}
			}
			return &object.Number{Value: 0}
		},
	},
	"SIN": { // sine, radians
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return result(fn, math.Sin(number(args[0])))
		},
	},
	"SQR": { // square root
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			x := number(args[0])
			if x < 0 {
				return newError(berrors.IllegalQuantity, fn)
			}
			return &object.Number{Value: math.Sqrt(x)}
		},
	},
	"STR$": { // number to string, non-negative numbers get a leading blank
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return &object.String{Value: Str(number(args[0]))}
		},
	},
	"TAN": { // tangent, radians
		Args: numArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return result(fn, math.Tan(number(args[0])))
		},
	},
	"VAL": { // numeric value of the leading part of a string
		Args: strArg,
		Fn: func(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
			return result(fn, Val(args[0].(*object.String).Value))
		},
	},
}

func init() {
	for name, fn := range Builtins {
		fn.Name = name
		if fn.MinArgs == 0 {
			fn.MinArgs = len(fn.Args)
		}
	}
}

// Lookup finds a function by name, any case
func Lookup(name string) (*object.Builtin, bool) {
	fn, ok := Builtins[strings.ToUpper(name)]
	return fn, ok
}

// Call checks the argument count and types, then runs the function
func Call(env *object.Environment, fn *object.Builtin, args ...object.Object) object.Object {
	if len(args) < fn.MinArgs || len(args) > fn.MaxArgs() {
		return newError(berrors.ArgCount, fn)
	}

	for i, arg := range args {
		if arg.Type() != fn.Args[i] {
			return newError(berrors.TypeMismatch, fn)
		}
	}

	return fn.Fn(env, fn, args...)
}

// Str formats a number the way STR$ does
func Str(x float64) string {
	if x >= 0 {
		return " " + object.FormatNumber(x)
	}
	return object.FormatNumber(x)
}

// Val parses the longest numeric prefix of s, zero if there isn't one
func Val(s string) float64 {
	s = strings.TrimLeft(s, " ")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	// exponent only if it has digits
	if i < len(s) && (s[i] == 'E' || s[i] == 'e') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}

	// out of range hands back +/-Inf, VAL turns that into an overflow
	v, _ := strconv.ParseFloat(s[:i], 64)
	return v
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func number(obj object.Object) float64 {
	return obj.(*object.Number).Value
}

// byteArg truncates a numeric argument, it must land in 0..255
func byteArg(obj object.Object) (byte, bool) {
	n := math.Floor(number(obj))
	if n < 0 || n > maxStrLen {
		return 0, false
	}
	return byte(n), true
}

// result checks the math didn't run off the end of the number line
func result(fn *object.Builtin, v float64) object.Object {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return newError(berrors.Overflow, fn)
	}
	return &object.Number{Value: v}
}

func newError(code int, fn *object.Builtin) *object.Error {
	return &object.Error{Code: code, Detail: fn.Name}
}
