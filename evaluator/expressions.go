package evaluator

import (
	"math"
	"strings"

	"github.com/navionguy/c64basic/berrors"
	"github.com/navionguy/c64basic/object"
)

// longest string an expression may build
const maxStrLen = 255

type expression func(string, object.Object, object.Object, *object.Environment) object.Object

// operand types that can meet in an infix expression
// any pairing not listed is a type mismatch
var typeConverters = map[object.ObjectType]expression{
	object.NUMBER_OBJ + object.NUMBER_OBJ: func(operator string, left, right object.Object, env *object.Environment) object.Object {
		return evalNumberInfixExpression(operator, left.(*object.Number).Value, right.(*object.Number).Value)
	},

	object.STRING_OBJ + object.STRING_OBJ: func(operator string, left, right object.Object, env *object.Environment) object.Object {
		return evalStringInfixExpression(operator, left.(*object.String).Value, right.(*object.String).Value)
	},
}

func evalInfixExpression(operator string, left, right object.Object, env *object.Environment) object.Object {
	fn, ok := typeConverters[left.Type()+right.Type()]
	if !ok {
		return stdError(berrors.TypeMismatch)
	}

	return fn(operator, left, right, env)
}

func evalPrefixExpression(operator string, right object.Object) object.Object {
	n, ok := right.(*object.Number)
	if !ok {
		return stdError(berrors.TypeMismatch)
	}

	switch operator {
	case "-":
		return &object.Number{Value: -n.Value}
	case "+":
		return n
	case "NOT":
		v, err := toInt16(n.Value)
		if err != nil {
			return err
		}
		return &object.Number{Value: float64(^v)}
	}

	return stdError(berrors.Syntax)
}

func evalNumberInfixExpression(operator string, leftVal, rightVal float64) object.Object {
	switch operator {
	case "+":
		return numberResult(leftVal + rightVal)
	case "-":
		return numberResult(leftVal - rightVal)
	case "*":
		return numberResult(leftVal * rightVal)
	case "/":
		if rightVal == 0 {
			return stdError(berrors.DivByZero)
		}
		return numberResult(leftVal / rightVal)
	case "^":
		res := math.Pow(leftVal, rightVal)
		if math.IsNaN(res) {
			return stdError(berrors.IllegalQuantity)
		}
		return numberResult(res)
	case "=":
		return object.Bool(leftVal == rightVal)
	case "<>":
		return object.Bool(leftVal != rightVal)
	case "<":
		return object.Bool(leftVal < rightVal)
	case ">":
		return object.Bool(leftVal > rightVal)
	case "<=":
		return object.Bool(leftVal <= rightVal)
	case ">=":
		return object.Bool(leftVal >= rightVal)
	case "AND", "OR":
		return evalLogicalInfixExpression(operator, leftVal, rightVal)
	}

	return stdError(berrors.Syntax)
}

// AND and OR work bit by bit on 16 bit integers
// true being -1 makes them logical operators as well
func evalLogicalInfixExpression(operator string, leftVal, rightVal float64) object.Object {
	l, err := toInt16(leftVal)
	if err != nil {
		return err
	}

	r, err := toInt16(rightVal)
	if err != nil {
		return err
	}

	if operator == "AND" {
		return &object.Number{Value: float64(l & r)}
	}
	return &object.Number{Value: float64(l | r)}
}

func evalStringInfixExpression(operator string, leftVal, rightVal string) object.Object {
	switch operator {
	case "+":
		if len(leftVal)+len(rightVal) > maxStrLen {
			return stdError(berrors.StringTooLong)
		}
		return &object.String{Value: leftVal + rightVal}
	case "=":
		return object.Bool(leftVal == rightVal)
	case "<>":
		return object.Bool(leftVal != rightVal)
	case "<":
		return object.Bool(strings.Compare(leftVal, rightVal) < 0)
	case ">":
		return object.Bool(strings.Compare(leftVal, rightVal) > 0)
	case "<=":
		return object.Bool(strings.Compare(leftVal, rightVal) <= 0)
	case ">=":
		return object.Bool(strings.Compare(leftVal, rightVal) >= 0)
	}

	return stdError(berrors.TypeMismatch)
}

// numberResult catches arithmetic that ran off the end of the number line
func numberResult(v float64) object.Object {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return stdError(berrors.Overflow)
	}
	return &object.Number{Value: v}
}

func toInt16(f float64) (int16, *object.Error) {
	if f < math.MinInt16 || f > math.MaxInt16 {
		return 0, stdError(berrors.IllegalQuantity)
	}
	return int16(f), nil
}
