package ast

// DirectLine marks a RetPoint inside the immediate mode line
const DirectLine = -1

// RetPoint is a place execution can come back to
// used by GOSUB and FOR
type RetPoint struct {
	Line int // line number, or DirectLine
	Stmt int // statement index within the line
}

// Code allows iterating over the code lines subject to control transfer
// positioning calls (Direct, Start, Jump...) take effect on the following Next()
//
//	for code.Next() {
//		stmt := code.Value()
//	}
type Code struct {
	prog   *Program
	direct *Line // the immediate mode line, if any
	line   *Line // line currently executing, nil when finished
	stmt   int   // index into line.Stmts
	jumped bool  // position was set, Next() must not advance
}

// NewCode returns a cursor over prog that isn't positioned anywhere yet
func NewCode(prog *Program) *Code {
	return &Code{prog: prog}
}

// Direct positions the cursor at the start of an immediate mode line
func (cd *Code) Direct(stmts []Statement) {
	cd.direct = &Line{Num: DirectLine, Stmts: stmts}
	cd.line = cd.direct
	cd.stmt = 0
	cd.jumped = true
}

// Start positions the cursor at the first program line, or at num if non-zero
// returns false if there is no such line
func (cd *Code) Start(num int) bool {
	if num != 0 {
		return cd.Jump(num)
	}

	first, ok := cd.prog.First()
	if !ok {
		cd.line = nil
		return false
	}
	cd.line = first
	cd.stmt = 0
	cd.jumped = true
	return true
}

// Value sends the current statement, nil when there is none
func (cd *Code) Value() Statement {
	if cd.line == nil || cd.stmt >= len(cd.line.Stmts) {
		return nil
	}

	return cd.line.Stmts[cd.stmt]
}

// Next tries to move to the next statment
// if I can't find one, returns false
func (cd *Code) Next() bool {
	if cd.line == nil {
		return false
	}

	if cd.jumped {
		cd.jumped = false
	} else {
		cd.stmt++
	}

	cd.settle()
	return cd.line != nil
}

// moves past the end of lines, and past lines with nothing to execute
func (cd *Code) settle() {
	for cd.line != nil && cd.stmt >= len(cd.line.Stmts) {
		if cd.line.Num == DirectLine {
			cd.line = nil
			return
		}

		next, ok := cd.prog.After(cd.line.Num)
		if !ok {
			cd.line = nil
			return
		}
		cd.line = next
		cd.stmt = 0
	}
}

// Jump to the target line, returns false if it doesn't exist
func (cd *Code) Jump(target int) bool {
	l, ok := cd.prog.Get(target)
	if !ok {
		return false
	}

	cd.line = l
	cd.stmt = 0
	cd.jumped = true
	return true
}

// JumpTo returns to a saved position
func (cd *Code) JumpTo(rp RetPoint) bool {
	if rp.Line == DirectLine {
		if cd.direct == nil {
			return false
		}
		cd.line = cd.direct
	} else {
		l, ok := cd.prog.Get(rp.Line)
		if !ok {
			return false
		}
		cd.line = l
	}

	cd.stmt = rp.Stmt
	cd.jumped = true
	return true
}

// SkipLine abandons the rest of the current line
func (cd *Code) SkipLine() {
	if cd.line == nil {
		return
	}
	cd.stmt = len(cd.line.Stmts)
	cd.jumped = true
}

// Stop ends execution
func (cd *Code) Stop() {
	cd.line = nil
	cd.jumped = false
}

// Resume returns the position just after the current statement
func (cd *Code) Resume() RetPoint {
	rp := RetPoint{Line: DirectLine, Stmt: cd.stmt + 1}
	if cd.line != nil {
		rp.Line = cd.line.Num
	}
	return rp
}

// CurLine returns the current executing line number or zero if there isn't one
func (cd *Code) CurLine() int {
	if cd.line == nil || cd.line.Num == DirectLine {
		return 0
	}
	return cd.line.Num
}

// InProgram is true while executing stored lines
func (cd *Code) InProgram() bool {
	return cd.line != nil && cd.line.Num != DirectLine
}

// Finished is true once there is nothing left to execute
func (cd *Code) Finished() bool {
	return cd.line == nil
}
