package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/object"
)

// messages INPUT gives when the reply doesn't fit
const (
	redoMsg  = "?REDO FROM START"
	extraMsg = "?EXTRA IGNORED"
	morePmt  = "?? "
)

// INPUT shows its prompt and suspends until SupplyInput is called
func evalInputStatement(inp *ast.InputStatement, code *ast.Code, env *object.Environment) object.Object {
	env.SetInput(&object.PendingInput{Stmt: inp})
	emit(env, object.Fragment{Text: inp.Prompt + "? "})

	return &object.HaltSignal{State: object.AwaitingInput}
}

// SupplyInput hands a line typed by the user to the waiting INPUT
// once every variable has a value, execution carries on
func SupplyInput(env *object.Environment, text string) object.Object {
	code := env.Code()
	pi := env.Input()

	if env.BreakCheck() {
		return Break(code, env)
	}

	// an empty reply leaves the rest of the variables alone
	if len(strings.TrimSpace(text)) == 0 {
		return resumeInput(code, env)
	}

	vars := pi.Stmt.Vars[pi.Next:]
	fields := splitInput(text)

	vals := make([]object.Object, 0, len(vars))
	for i, v := range vars {
		if i == len(fields) {
			break
		}

		val, ok := inputValue(v, fields[i])
		if !ok {
			emit(env, object.Fragment{Text: redoMsg, Term: object.TermNewline})
			pi.Next = 0
			emit(env, object.Fragment{Text: pi.Stmt.Prompt + "? "})
			return &object.HaltSignal{State: object.AwaitingInput}
		}
		vals = append(vals, val)
	}

	for i, val := range vals {
		if rc := saveVariable(env, vars[i], val); isError(rc) {
			return evalStatementsError(rc.(*object.Error), code, env)
		}
	}
	pi.Next += len(vals)

	if len(fields) > len(vars) {
		emit(env, object.Fragment{Text: extraMsg, Term: object.TermNewline})
	}

	if pi.Next < len(pi.Stmt.Vars) {
		emit(env, object.Fragment{Text: morePmt})
		return &object.HaltSignal{State: object.AwaitingInput}
	}

	return resumeInput(code, env)
}

// pick up with the statement after the INPUT
func resumeInput(code *ast.Code, env *object.Environment) object.Object {
	env.SetInput(nil)
	env.SetState(object.Running)

	return evalStatements(code, env)
}

// converts one reply field to suit the variable it is going into
func inputValue(v *ast.Identifier, field string) (object.Object, bool) {
	if v.IsString() {
		return &object.String{Value: field}, true
	}

	if len(field) == 0 {
		return &object.Number{}, true
	}

	f, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &object.Number{Value: f}, true
}

// splitInput breaks a reply at the commas
// quotes around a field are removed, commas inside them don't split
func splitInput(text string) []string {
	var fields []string
	var cur strings.Builder
	quoted := false

	for _, ch := range text {
		switch {
		case ch == '"':
			quoted = !quoted
		case ch == ',' && !quoted:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}

	return append(fields, strings.TrimSpace(cur.String()))
}
