package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/google/btree"
)

// line numbers a program may use
const (
	MinLineNum = 1
	MaxLineNum = 63999
)

// SourceLine is a program line as the user typed it
type SourceLine struct {
	Num  int
	Text string
}

func (sl SourceLine) String() string {
	return strconv.Itoa(sl.Num) + " " + sl.Text
}

// Line is a stored program line, source text plus the parsed statements
type Line struct {
	Num   int
	Text  string
	Stmts []Statement
}

func lineLess(a, b *Line) bool { return a.Num < b.Num }

//Program holds the stored lines in ascending line number order
type Program struct {
	tree *btree.BTreeG[*Line]
}

// NewProgram returns an empty program
func NewProgram() *Program {
	p := &Program{}
	p.New()
	return p
}

// New throws away every line
func (p *Program) New() {
	p.tree = btree.NewG(8, lineLess)
}

// Put adds, or replaces, a line of code
// empty text deletes the line instead
func (p *Program) Put(num int, text string, stmts []Statement) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		p.Delete(num)
		return
	}

	p.tree.ReplaceOrInsert(&Line{Num: num, Text: text, Stmts: stmts})
}

// Delete removes a line, returns false if it wasn't there
func (p *Program) Delete(num int) bool {
	_, ok := p.tree.Delete(&Line{Num: num})
	return ok
}

// Get returns the line with number num
func (p *Program) Get(num int) (*Line, bool) {
	return p.tree.Get(&Line{Num: num})
}

// Exists just tell you if I could find it
func (p *Program) Exists(num int) bool {
	return p.tree.Has(&Line{Num: num})
}

// First returns the lowest numbered line
func (p *Program) First() (*Line, bool) {
	return p.tree.Min()
}

// After returns the first line numbered higher than num
func (p *Program) After(num int) (*Line, bool) {
	var next *Line

	p.tree.AscendGreaterOrEqual(&Line{Num: num + 1}, func(l *Line) bool {
		next = l
		return false
	})

	return next, next != nil
}

// Len returns the number of lines stored
func (p *Program) Len() int {
	return p.tree.Len()
}

// Lines returns every line in ascending order
func (p *Program) Lines() []SourceLine {
	return p.List(0, 0)
}

// List returns the lines from start through stop inclusive
// a stop of zero means through the end of the program
func (p *Program) List(start, stop int) []SourceLine {
	var rc []SourceLine

	p.tree.AscendGreaterOrEqual(&Line{Num: start}, func(l *Line) bool {
		if stop > 0 && l.Num > stop {
			return false
		}
		rc = append(rc, SourceLine{Num: l.Num, Text: l.Text})
		return true
	})

	return rc
}

// String gives the whole listing, one line per row
func (p *Program) String() string {
	var out bytes.Buffer

	for _, sl := range p.Lines() {
		out.WriteString(sl.String())
		out.WriteString("\n")
	}

	return out.String()
}
