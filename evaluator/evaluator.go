package evaluator

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/berrors"
	"github.com/navionguy/c64basic/builtins"
	"github.com/navionguy/c64basic/object"
	"github.com/navionguy/c64basic/parser"
)

// limits on the arguments to COLOR, SCREEN and WAIT
const (
	maxColor = 15
	maxWait  = 3600
)

// how long WAIT sleeps before looking for a break
var waitSlice = 50 * time.Millisecond

// Eval returns the object at a node
func Eval(node ast.Node, code *ast.Code, env *object.Environment) object.Object {
	switch node := node.(type) {
	// Statements
	case *ast.ByeCommand:
		return &object.HaltSignal{State: object.Ended, Bye: true}

	case *ast.ClsStatement:
		evalClsStatement(env)

	case *ast.ColorStatement:
		return evalColorStatement(node, code, env)

	case *ast.EndStatement:
		return &object.HaltSignal{State: object.Ended}

	case *ast.ForStatement:
		return evalForStatement(node, code, env)

	case *ast.GosubStatement:
		return evalGosubStatement(node, code, env)

	case *ast.GotoStatement:
		return evalGotoStatement(node.Goto, code, env)

	case *ast.IfStatement:
		return evalIfStatement(node, code, env)

	case *ast.InputStatement:
		return evalInputStatement(node, code, env)

	case *ast.LetStatement:
		val := Eval(node.Value, code, env)
		if isError(val) {
			return val
		}
		return saveVariable(env, node.Name, val)

	case *ast.ListStatement:
		evalListStatement(node, env)

	case *ast.LoadCommand:
		return evalLoadCommand(node, code, env)

	case *ast.NewCommand:
		env.New()
		return &object.HaltSignal{State: object.Idle}

	case *ast.NextStatement:
		return evalNextStatement(node, code, env)

	case *ast.PrintStatement:
		return evalPrintStatement(node, code, env)

	case *ast.RemStatement:
		return nil

	case *ast.ReturnStatement:
		return evalReturnStatement(code, env)

	case *ast.RunCommand:
		return evalRunCommand(node, code, env)

	case *ast.SaveCommand:
		return evalSaveCommand(node, code, env)

	case *ast.ScreenStatement:
		return evalScreenStatement(node, code, env)

	case *ast.StopStatement:
		return Break(code, env)

	case *ast.TrashStatement:
		return &object.Error{Code: node.Code, Detail: node.Detail}

	case *ast.WaitStatement:
		return evalWaitStatement(node, code, env)

	// Expressions
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Identifier:
		return env.Get(node.Value)

	case *ast.GroupedExpression:
		return Eval(node.Exp, code, env)

	case *ast.PrefixExpression:
		right := Eval(node.Right, code, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node.Operator, right)

	case *ast.InfixExpression:
		left := Eval(node.Left, code, env)
		if isError(left) {
			return left
		}
		right := Eval(node.Right, code, env)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node.Operator, left, right, env)

	case *ast.CallExpression:
		return evalCallExpression(node, code, env)
	}

	return nil
}

// Execute runs an immediate mode line
func Execute(stmts []ast.Statement, env *object.Environment) object.Object {
	// an interrupt that arrived while nothing was running is stale
	env.BreakCheck()
	env.ClearStacks()
	env.SetInput(nil)

	code := env.Code()
	code.Direct(stmts)
	env.SetState(object.Running)

	return evalStatements(code, env)
}

// StoreLine parses text and files it in the program under num
// text that won't parse is kept, it raises its error when reached
func StoreLine(env *object.Environment, num int, text string) {
	env.Program().Put(num, text, parser.ParseLine(text))
}

// loop until you run out of code, or something stops execution
func evalStatements(code *ast.Code, env *object.Environment) object.Object {
	inProgram := false

	for code.Next() {
		if env.BreakCheck() {
			return Break(code, env)
		}

		inProgram = code.InProgram()
		rc := Eval(code.Value(), code, env)

		switch rc := rc.(type) {
		case *object.Error:
			return evalStatementsError(rc, code, env)
		case *object.HaltSignal:
			return evalStatementsHalt(rc, code, env)
		}
	}

	if inProgram {
		slog.Debug("program ended")
		env.SetState(object.Ended)
		return nil
	}

	env.SetState(object.Idle)
	return nil
}

// an error stops everything, the program and variables survive
func evalStatementsError(err *object.Error, code *ast.Code, env *object.Environment) object.Object {
	if err.Line == 0 {
		err.Line = code.CurLine()
	}

	slog.Debug("execution halted", "err", err.Error())
	env.ClearStacks()
	env.SetInput(nil)
	code.Stop()
	env.SetState(object.Halted)

	return err
}

// a halt signal stops execution, unless it is waiting for input
func evalStatementsHalt(hs *object.HaltSignal, code *ast.Code, env *object.Environment) object.Object {
	if len(hs.Msg) > 0 {
		emit(env, object.Fragment{Text: hs.Msg, Term: object.TermNewline})
	}

	if hs.State != object.AwaitingInput {
		code.Stop()
	}

	env.SetState(hs.State)
	return hs
}

// Break stops execution where it stands, the stacks are dropped
// but the program and the variables are left alone
func Break(code *ast.Code, env *object.Environment) object.Object {
	msg := "BREAK"
	if code.InProgram() {
		msg += " IN " + strconv.Itoa(code.CurLine())
	}

	env.ClearStacks()
	env.SetInput(nil)

	hs := &object.HaltSignal{State: object.Idle, Msg: msg}
	return evalStatementsHalt(hs, code, env)
}

func evalClsStatement(env *object.Environment) {
	if env.Terminal() != nil {
		env.Terminal().Cls()
	}
}

// COLOR fg,bg hands validated colors to the console
func evalColorStatement(color *ast.ColorStatement, code *ast.Code, env *object.Environment) object.Object {
	fg, err := evalIntParam(color.Params[0], 0, maxColor, code, env)
	if err != nil {
		return err
	}

	bg, err := evalIntParam(color.Params[1], 0, maxColor, code, env)
	if err != nil {
		return err
	}

	if env.Terminal() != nil {
		env.Terminal().Color(fg, bg)
	}
	return nil
}

// SCREEN bg sets the background
func evalScreenStatement(scrn *ast.ScreenStatement, code *ast.Code, env *object.Environment) object.Object {
	bg, err := evalIntParam(scrn.Params[0], 0, maxColor, code, env)
	if err != nil {
		return err
	}

	if env.Terminal() != nil {
		env.Terminal().Screen(bg)
	}
	return nil
}

// WAIT s sleeps, but keeps an eye out for a break
func evalWaitStatement(wt *ast.WaitStatement, code *ast.Code, env *object.Environment) object.Object {
	secs, err := evalNumber(wt.Duration, code, env)
	if err != nil {
		return err
	}

	if !(secs >= 0 && secs <= maxWait) {
		return stdError(berrors.IllegalQuantity)
	}

	deadline := time.Now().Add(time.Duration(secs * float64(time.Second)))
	for left := time.Until(deadline); left > 0; left = time.Until(deadline) {
		if env.BreakCheck() {
			return Break(code, env)
		}
		time.Sleep(min(left, waitSlice))
	}

	return nil
}

// FOR sets the loop variable and pushes a frame
// the body always runs once, NEXT does the testing
func evalForStatement(fs *ast.ForStatement, code *ast.Code, env *object.Environment) object.Object {
	start, err := evalNumber(fs.Start, code, env)
	if err != nil {
		return err
	}

	limit, err := evalNumber(fs.Limit, code, env)
	if err != nil {
		return err
	}

	step := 1.0
	if fs.Step != nil {
		step, err = evalNumber(fs.Step, code, env)
		if err != nil {
			return err
		}
	}

	rc := saveVariable(env, fs.Var, &object.Number{Value: start})
	if isError(rc) {
		return rc
	}

	env.PushFor(object.ForBlock{
		Var:    object.VarName(fs.Var.Value),
		Limit:  limit,
		Step:   step,
		Resume: code.Resume(),
	})
	return nil
}

// NEXT steps the loop variable, loops back or falls through
func evalNextStatement(nxt *ast.NextStatement, code *ast.Code, env *object.Environment) object.Object {
	names := []string{""}
	if len(nxt.Vars) > 0 {
		names = names[:0]
		for _, v := range nxt.Vars {
			names = append(names, v.Value)
		}
	}

	for _, name := range names {
		fb, ok := env.UnwindFor(name)
		if !ok {
			return stdError(berrors.NextWithoutFor)
		}

		val := env.Get(fb.Var).(*object.Number).Value + fb.Step
		env.Set(fb.Var, &object.Number{Value: val})

		done := val > fb.Limit
		if fb.Step < 0 {
			done = val < fb.Limit
		}

		if !done {
			if !code.JumpTo(fb.Resume) {
				return stdError(berrors.UnDefinedLineNumber)
			}
			return nil
		}

		env.PopFor()
	}

	return nil
}

// Transfer control to the indicated line number
// from immediate mode that starts the program running
func evalGotoStatement(line int, code *ast.Code, env *object.Environment) object.Object {
	if !code.Jump(line) {
		return stdError(berrors.UnDefinedLineNumber)
	}

	return nil
}

// GOSUB remembers where to come back to, then jumps
func evalGosubStatement(gsb *ast.GosubStatement, code *ast.Code, env *object.Environment) object.Object {
	if !env.Program().Exists(gsb.Gosub) {
		return stdError(berrors.UnDefinedLineNumber)
	}

	if !env.Push(code.Resume()) {
		return stdError(berrors.OutOfMemory)
	}
	return evalGotoStatement(gsb.Gosub, code, env)
}

func evalReturnStatement(code *ast.Code, env *object.Environment) object.Object {
	rp, ok := env.Pop()
	if !ok {
		return stdError(berrors.ReturnWoGosub)
	}

	if !code.JumpTo(rp) {
		return stdError(berrors.UnDefinedLineNumber)
	}
	return nil
}

// IF guards the rest of its line
func evalIfStatement(ifs *ast.IfStatement, code *ast.Code, env *object.Environment) object.Object {
	cond := Eval(ifs.Condition, code, env)
	if isError(cond) {
		return cond
	}

	if !checkType(cond, object.NUMBER_OBJ) {
		return stdError(berrors.TypeMismatch)
	}

	if !object.Truthy(cond) {
		code.SkipLine()
		return nil
	}

	if ifs.Goto != 0 {
		return evalGotoStatement(ifs.Goto, code, env)
	}

	return nil
}

// RUN starts over, variables and stacks are cleared
func evalRunCommand(run *ast.RunCommand, code *ast.Code, env *object.Environment) object.Object {
	env.ClearVars()
	env.ClearStacks()

	if run.StartLine != 0 && !env.Program().Exists(run.StartLine) {
		return stdError(berrors.UnDefinedLineNumber)
	}

	if !code.Start(run.StartLine) {
		// nothing to run
		return &object.HaltSignal{State: object.Ended}
	}

	slog.Debug("program started", "line", run.StartLine, "lines", env.Program().Len())
	return nil
}

func evalListStatement(stmt *ast.ListStatement, env *object.Environment) {
	start := 0
	stop := 0

	// figure out any limits to the listing
	if len(stmt.Start) > 0 {
		start, _ = strconv.Atoi(stmt.Start)
		if len(stmt.Lrange) == 0 {
			stop = start
		}
	}

	if len(stmt.Stop) > 0 {
		stop, _ = strconv.Atoi(stmt.Stop)
	}

	for _, sl := range env.Program().List(start, stop) {
		emit(env, object.Fragment{Text: sl.String(), Term: object.TermNewline})
	}
}

// evalLoadCommand - replace the program with one from storage
func evalLoadCommand(stmt *ast.LoadCommand, code *ast.Code, env *object.Environment) object.Object {
	name, rc := evalPath(stmt.Path, code, env)
	if rc != nil {
		return rc
	}

	emit(env, object.Fragment{Text: `LOADING "` + name + `"`, Term: object.TermNewline})
	slog.Debug("load", "name", name)

	lines, err := env.Storage().Load(name)
	if err != nil {
		return storageError(err)
	}

	if rc := ImportLines(env, lines); rc != nil {
		return rc
	}

	env.ClearStacks()
	return &object.HaltSignal{State: object.Idle}
}

// evalSaveCommand - write the program out to storage
func evalSaveCommand(stmt *ast.SaveCommand, code *ast.Code, env *object.Environment) object.Object {
	name, rc := evalPath(stmt.Path, code, env)
	if rc != nil {
		return rc
	}

	emit(env, object.Fragment{Text: `SAVING "` + name + `"`, Term: object.TermNewline})
	slog.Debug("save", "name", name, "lines", env.Program().Len())

	if err := env.Storage().Save(name, env.Program().Lines()); err != nil {
		return storageError(err)
	}

	return nil
}

// ImportLines replaces the program with lines
// the old program is untouched if any line number is bad
func ImportLines(env *object.Environment, lines []ast.SourceLine) *object.Error {
	for _, sl := range lines {
		if !ast.ValidLineNum(sl.Num) {
			return &object.Error{Code: berrors.FileData, Detail: strconv.Itoa(sl.Num)}
		}
	}

	env.Program().New()
	env.Code().Stop()
	for _, sl := range lines {
		StoreLine(env, sl.Num, sl.Text)
	}

	return nil
}

// the program name for LOAD and SAVE, plus a check there is somewhere to put it
func evalPath(path ast.Expression, code *ast.Code, env *object.Environment) (string, object.Object) {
	res := Eval(path, code, env)
	if isError(res) {
		return "", res
	}

	str, ok := res.(*object.String)
	if !ok {
		return "", stdError(berrors.TypeMismatch)
	}

	if env.Storage() == nil {
		return "", stdError(berrors.DeviceNotPresent)
	}

	return str.Value, nil
}

// converts a Storage failure into an error the user sees
func storageError(err error) *object.Error {
	code := berrors.FileData
	if errors.Is(err, object.ErrNotFound) {
		code = berrors.FileNotFound
	}

	slog.Debug("storage failed", "err", err)
	return &object.Error{Code: code, Err: err}
}

// PRINT sends each item as a fragment, the separator after it decides
// how the next one lines up
func evalPrintStatement(node *ast.PrintStatement, code *ast.Code, env *object.Environment) object.Object {
	if len(node.Items) == 0 {
		emit(env, object.Fragment{Term: object.TermNewline})
		return nil
	}

	for i, item := range node.Items {
		var frag object.Fragment

		if item != nil {
			val := Eval(item, code, env)
			if isError(val) {
				return val
			}
			frag.Text = val.Inspect()
		}

		switch node.Seperators[i] {
		case ",":
			frag.Term = object.TermTab
		case ";":
			frag.Term = object.TermNone
		default:
			frag.Term = object.TermNone
			if i == len(node.Items)-1 {
				frag.Term = object.TermNewline
			}
		}

		emit(env, frag)
	}

	return nil
}

func evalCallExpression(ce *ast.CallExpression, code *ast.Code, env *object.Environment) object.Object {
	fn, ok := builtins.Lookup(ce.Function)
	if !ok {
		return &object.Error{Code: berrors.UndefinedFunction, Detail: ce.Function}
	}

	args := evalExpressions(ce.Arguments, code, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}

	return builtins.Call(env, fn, args...)
}

func evalExpressions(exps []ast.Expression, code *ast.Code, env *object.Environment) []object.Object {
	var result []object.Object

	for _, e := range exps {
		evaluated := Eval(e, code, env)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

// saveVariable stores val, the name decides what type it may hold
func saveVariable(env *object.Environment, name *ast.Identifier, val object.Object) object.Object {
	err := env.Set(name.Value, val)

	switch {
	case err == nil:
		return val
	case errors.Is(err, object.ErrReadOnly):
		return stdError(berrors.Syntax)
	}

	return stdError(berrors.TypeMismatch)
}

// evaluates an expression that has to be numeric
func evalNumber(exp ast.Expression, code *ast.Code, env *object.Environment) (float64, *object.Error) {
	val := Eval(exp, code, env)
	if err, ok := val.(*object.Error); ok {
		return 0, err
	}

	n, ok := val.(*object.Number)
	if !ok {
		return 0, stdError(berrors.TypeMismatch)
	}
	return n.Value, nil
}

// evaluates a whole number parameter that must fall in lo..hi
func evalIntParam(exp ast.Expression, lo, hi int, code *ast.Code, env *object.Environment) (int, *object.Error) {
	f, err := evalNumber(exp, code, env)
	if err != nil {
		return 0, err
	}

	v := math.Floor(f)
	if !(v >= float64(lo) && v <= float64(hi)) {
		return 0, stdError(berrors.IllegalQuantity)
	}
	return int(v), nil
}

func emit(env *object.Environment, frag object.Fragment) {
	if env.Terminal() != nil {
		env.Terminal().Emit(frag)
	}
}

// output the passed error number, the line gets filled in by whoever halts
func stdError(berr int) *object.Error {
	return &object.Error{Code: berr}
}

func checkType(obj object.Object, want object.ObjectType) bool {
	if obj != nil {
		return obj.Type() == want
	}
	return false
}

func isError(obj object.Object) bool {
	return checkType(obj, object.ERROR_OBJ)
}
