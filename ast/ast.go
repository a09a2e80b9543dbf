package ast

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/navionguy/c64basic/token"
)

// Node defines interface for all node types
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement defines the interface for all statement nodes
type Statement interface {
	Node
	statementNode()
}

//Expression defines interface for all expression nodes
type Expression interface {
	Node
	expressionNode()
}

// ByeCommand leaves the interpreter
type ByeCommand struct {
	Token token.Token
}

func (bye *ByeCommand) statementNode()       {}
func (bye *ByeCommand) TokenLiteral() string { return strings.ToUpper(bye.Token.Literal) }
func (bye *ByeCommand) String() string       { return "BYE" }

// CallExpression is used when calling built in functions
type CallExpression struct {
	Token     token.Token // the function name
	Function  string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode() {}

// TokenLiteral returns my token literal
func (ce *CallExpression) TokenLiteral() string { return strings.ToUpper(ce.Token.Literal) }
func (ce *CallExpression) String() string {
	var out bytes.Buffer

	out.WriteString(ce.Function)
	out.WriteString("(")
	out.WriteString(joinExpressions(ce.Arguments, ", "))
	out.WriteString(")")

	return out.String()
}

// ClsStatement command to clear screen
type ClsStatement struct {
	Token token.Token
}

func (cls *ClsStatement) statementNode() {}

// TokenLiteral should return CLS
func (cls *ClsStatement) TokenLiteral() string { return strings.ToUpper(cls.Token.Literal) }

func (cls *ClsStatement) String() string { return "CLS" }

// ColorStatement sets the foreground and background colors
type ColorStatement struct {
	Token  token.Token
	Params []Expression
}

func (color *ColorStatement) statementNode()       {}
func (color *ColorStatement) TokenLiteral() string { return strings.ToUpper(color.Token.Literal) }
func (color *ColorStatement) String() string {
	return "COLOR " + joinExpressions(color.Params, ",")
}

// EndStatement signals it is time to quit
type EndStatement struct {
	Token token.Token
}

func (end *EndStatement) statementNode() {}

// TokenLiteral is END
func (end *EndStatement) TokenLiteral() string { return strings.ToUpper(end.Token.Literal) }

// String just prettier TokenLiteral
func (end *EndStatement) String() string { return "END" }

// ForStatement starts a counted loop
// FOR I = 1 TO 10 [STEP 2]
type ForStatement struct {
	Token token.Token
	Var   *Identifier
	Start Expression
	Limit Expression
	Step  Expression // nil means a step of 1
}

func (fs *ForStatement) statementNode() {}

// TokenLiteral returns FOR
func (fs *ForStatement) TokenLiteral() string { return strings.ToUpper(fs.Token.Literal) }

func (fs *ForStatement) String() string {
	var out bytes.Buffer

	out.WriteString("FOR ")
	out.WriteString(fs.Var.String())
	out.WriteString(" = ")
	out.WriteString(fs.Start.String())
	out.WriteString(" TO ")
	out.WriteString(fs.Limit.String())

	if fs.Step != nil {
		out.WriteString(" STEP ")
		out.WriteString(fs.Step.String())
	}

	return out.String()
}

// GosubStatement call subroutine
type GosubStatement struct {
	Token token.Token
	Gosub int
}

func (gsb *GosubStatement) statementNode() {}

// TokenLiteral should return GOSUB
func (gsb *GosubStatement) TokenLiteral() string { return strings.ToUpper(gsb.Token.Literal) }
func (gsb *GosubStatement) String() string {
	return fmt.Sprintf("GOSUB %d", gsb.Gosub)
}

// GotoStatement triggers a jump
type GotoStatement struct {
	Token token.Token
	Goto  int
}

func (gt *GotoStatement) statementNode()       {}
func (gt *GotoStatement) TokenLiteral() string { return strings.ToUpper(gt.Token.Literal) }
func (gt *GotoStatement) String() string {
	return fmt.Sprintf("GOTO %d", gt.Goto)
}

// GroupedExpression is enclosed in parentheses
type GroupedExpression struct {
	Token token.Token
	Exp   Expression
}

func (ge *GroupedExpression) expressionNode() {}

// TokenLiteral sends back my token
func (ge *GroupedExpression) TokenLiteral() string {
	return ge.Token.Literal
}

// String the readable version of me
func (ge *GroupedExpression) String() string {
	return "(" + ge.Exp.String() + ")"
}

// Identifier holds a variable name, folded to upper case
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return strings.ToUpper(i.Token.Literal) }
func (i *Identifier) String() string       { return i.Value }

// IsString reports whether the name carries the string suffix
func (i *Identifier) IsString() bool { return strings.HasSuffix(i.Value, "$") }

// IfStatement guards the rest of its line
// when Goto is set, a true condition jumps there
// otherwise it falls into the statements that follow on the line
type IfStatement struct {
	Token     token.Token
	Condition Expression
	Goto      int // zero when the THEN part is inline statements
}

func (ifs *IfStatement) statementNode() {}

// TokenLiteral returns IF
func (ifs *IfStatement) TokenLiteral() string { return strings.ToUpper(ifs.Token.Literal) }

func (ifs *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("IF ")
	out.WriteString(ifs.Condition.String())
	out.WriteString(" THEN")

	if ifs.Goto != 0 {
		out.WriteString(" " + strconv.Itoa(ifs.Goto))
	}

	return out.String()
}

// InfixExpression things like 5 + 6
type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode() {}

//TokenLiteral my token
func (ie *InfixExpression) TokenLiteral() string {
	return ie.Token.Literal
}

// String the readable version of me
func (ie *InfixExpression) String() string {
	var out bytes.Buffer
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	return out.String()
}

// InputStatement reads values from the user into variables
// INPUT ["prompt";] A, B$
type InputStatement struct {
	Token  token.Token
	Prompt string
	Vars   []*Identifier
}

func (inp *InputStatement) statementNode() {}

// TokenLiteral returns INPUT
func (inp *InputStatement) TokenLiteral() string { return strings.ToUpper(inp.Token.Literal) }

func (inp *InputStatement) String() string {
	var out bytes.Buffer

	out.WriteString("INPUT ")
	if len(inp.Prompt) > 0 {
		out.WriteString(`"` + inp.Prompt + `";`)
	}

	for i, id := range inp.Vars {
		out.WriteString(id.String())
		if (i + 1) < len(inp.Vars) {
			out.WriteString(",")
		}
	}

	return out.String()
}

// LetStatement assigns a value, the LET itself is optional
type LetStatement struct {
	Token token.Token
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) statementNode() {}

// TokenLiteral returns LET
func (ls *LetStatement) TokenLiteral() string {
	return "LET"
}

func (ls *LetStatement) String() string {
	var out bytes.Buffer

	if ls.Token.Type == token.LET {
		out.WriteString("LET ")
	}
	out.WriteString(ls.Name.String())
	out.WriteString(" = ")

	if ls.Value != nil {
		out.WriteString(ls.Value.String())
	}

	return out.String()
}

// ListStatement lists the program
// LIST [start][-[stop]]
type ListStatement struct {
	Token  token.Token
	Start  string
	Lrange string
	Stop   string
}

func (lst *ListStatement) statementNode() {}

// TokenLiteral should return LIST
func (lst *ListStatement) TokenLiteral() string { return strings.ToUpper(lst.Token.Literal) }

func (lst *ListStatement) String() string {
	rc := "LIST"
	if len(lst.Start+lst.Lrange+lst.Stop) > 0 {
		rc = rc + " " + lst.Start + lst.Lrange + lst.Stop
	}
	return rc
}

// LoadCommand loads a program from storage
type LoadCommand struct {
	Token token.Token
	Path  Expression
}

func (ld *LoadCommand) statementNode() {}

// TokenLiteral returns LOAD
func (ld *LoadCommand) TokenLiteral() string { return strings.ToUpper(ld.Token.Literal) }

func (ld *LoadCommand) String() string {
	return "LOAD " + ld.Path.String()
}

// NewCommand clears the program and the variables
type NewCommand struct {
	Token token.Token
}

func (new *NewCommand) statementNode()       {}
func (new *NewCommand) TokenLiteral() string { return strings.ToUpper(new.Token.Literal) }
func (new *NewCommand) String() string       { return "NEW" }

// NextStatement closes a FOR loop
// NEXT [I[,J...]]
type NextStatement struct {
	Token token.Token
	Vars  []*Identifier
}

func (nxt *NextStatement) statementNode() {}

// TokenLiteral returns NEXT
func (nxt *NextStatement) TokenLiteral() string { return strings.ToUpper(nxt.Token.Literal) }

func (nxt *NextStatement) String() string {
	var out bytes.Buffer

	out.WriteString("NEXT")
	for i, id := range nxt.Vars {
		if i == 0 {
			out.WriteString(" ")
		} else {
			out.WriteString(",")
		}
		out.WriteString(id.String())
	}

	return out.String()
}

// NumberLiteral holds a numeric constant, eg. 5 or 3.25 or 1E3
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode() {}

// TokenLiteral returns literal value
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }

// String returns the number as typed
func (nl *NumberLiteral) String() string { return nl.Token.Literal }

//PrefixExpression the big one here is - as in -5
type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. -
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode() {}

//TokenLiteral returns read string of Token
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer
	out.WriteString(pe.Operator)
	if pe.Operator == token.NOT {
		out.WriteString(" ")
	}
	out.WriteString(pe.Right.String())
	return out.String()
}

// PrintStatement holds everything to control the output
// Seperators[i] follows Items[i], "" means none was given
type PrintStatement struct {
	Token      token.Token
	Items      []Expression
	Seperators []string
}

func (pe *PrintStatement) statementNode() {}

// TokenLiteral returns my token literal
func (pe *PrintStatement) TokenLiteral() string { return "PRINT" }

func (pe *PrintStatement) String() string {
	var out bytes.Buffer

	out.WriteString(pe.TokenLiteral())

	for i, s := range pe.Items {
		if i == 0 {
			out.WriteString(" ")
		}
		if s != nil {
			out.WriteString(s.String())
		}
		out.WriteString(pe.Seperators[i])
	}

	return out.String()
}

// RemStatement holds a comment about the program
type RemStatement struct {
	Token   token.Token
	Comment string
}

func (rem *RemStatement) statementNode() {}

// TokenLiteral should return REM
func (rem *RemStatement) TokenLiteral() string { return strings.ToUpper(rem.Token.Literal) }

func (rem *RemStatement) String() string {
	return strings.TrimRight("REM "+rem.Comment, " ")
}

// ReturnStatement holds a return
type ReturnStatement struct {
	Token token.Token
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return strings.ToUpper(rs.Token.Literal) }
func (rs *ReturnStatement) String() string       { return "RETURN" }

// RunCommand clears all variables and starts execution
// RUN linenum starts execution at linenum
type RunCommand struct {
	Token     token.Token
	StartLine int
}

func (run *RunCommand) statementNode() {}

// TokenLiteral should return RUN
func (run *RunCommand) TokenLiteral() string { return strings.ToUpper(run.Token.Literal) }

func (run *RunCommand) String() string {
	rc := "RUN"

	if run.StartLine != 0 {
		rc = rc + " " + strconv.Itoa(run.StartLine)
	}

	return rc
}

// SaveCommand writes the program to storage
type SaveCommand struct {
	Token token.Token
	Path  Expression
}

func (sv *SaveCommand) statementNode() {}

// TokenLiteral returns SAVE
func (sv *SaveCommand) TokenLiteral() string { return strings.ToUpper(sv.Token.Literal) }

func (sv *SaveCommand) String() string {
	return "SAVE " + sv.Path.String()
}

// ScreenStatement sets the border/background color
type ScreenStatement struct {
	Token  token.Token
	Params []Expression
}

func (scrn *ScreenStatement) statementNode()       {}
func (scrn *ScreenStatement) TokenLiteral() string { return strings.ToUpper(scrn.Token.Literal) }

// String returns the statement and any parameters as a string
func (scrn *ScreenStatement) String() string {
	return "SCREEN " + joinExpressions(scrn.Params, ",")
}

// StopStatement stops execution as though the user hit break
type StopStatement struct {
	Token token.Token
}

func (stop *StopStatement) statementNode()       {}
func (stop *StopStatement) TokenLiteral() string { return strings.ToUpper(stop.Token.Literal) }
func (stop *StopStatement) String() string       { return "STOP" }

// StringLiteral holds an StringLiteral eg. "Hello World"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode() {}

// TokenLiteral returns literal value
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }

// String returns literal as a string
func (sl *StringLiteral) String() string {
	return `"` + sl.Value + `"`
}

// TrashStatement is what the parser leaves behind when a statement
// can't be understood, executing it raises the recorded error
type TrashStatement struct {
	Token  token.Token
	Code   int    // berrors code to raise
	Detail string // optional, e.g. a function name
	Text   string // what was typed
}

func (ts *TrashStatement) statementNode()       {}
func (ts *TrashStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TrashStatement) String() string       { return ts.Text }

// WaitStatement pauses execution for a number of seconds
type WaitStatement struct {
	Token    token.Token
	Duration Expression
}

func (wt *WaitStatement) statementNode()       {}
func (wt *WaitStatement) TokenLiteral() string { return strings.ToUpper(wt.Token.Literal) }
func (wt *WaitStatement) String() string {
	return "WAIT " + wt.Duration.String()
}

func joinExpressions(exps []Expression, sep string) string {
	var parts []string

	for _, e := range exps {
		if e == nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, e.String())
	}

	return strings.Join(parts, sep)
}
