package mocks

import (
	"strings"

	"github.com/navionguy/c64basic/object"
)

// MockTerm records everything sent to the console
type MockTerm struct {
	Frags  []object.Fragment // every fragment emitted, in order
	SawCls bool
	Fg     int // last COLOR foreground, -1 until set
	Bg     int // last COLOR/SCREEN background, -1 until set
}

// NewMockTerm returns a console with no colors set yet
func NewMockTerm() *MockTerm {
	return &MockTerm{Fg: -1, Bg: -1}
}

func (mt *MockTerm) Emit(f object.Fragment) {
	mt.Frags = append(mt.Frags, f)
}

func (mt *MockTerm) Cls() {
	mt.SawCls = true
}

func (mt *MockTerm) Color(fg, bg int) {
	mt.Fg = fg
	mt.Bg = bg
}

func (mt *MockTerm) Screen(bg int) {
	mt.Bg = bg
}

// Output renders the fragments the way a real terminal would lay them out
func (mt *MockTerm) Output() string {
	var out strings.Builder
	col := 0

	for _, f := range mt.Frags {
		var txt string
		txt, col = f.Render(col)
		out.WriteString(txt)
	}

	return out.String()
}

// Lines splits the output at each newline, dropping the final empty piece
func (mt *MockTerm) Lines() []string {
	out := mt.Output()
	if len(out) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

// Reset forgets what has been seen
func (mt *MockTerm) Reset() {
	mt.Frags = nil
	mt.SawCls = false
}
