// Package terminal renders interpreter output onto a text terminal
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/navionguy/c64basic/object"
)

// palette is the sixteen C64 colors as RGB
var palette = [16][3]uint8{
	{0x00, 0x00, 0x00}, // black
	{0xFF, 0xFF, 0xFF}, // white
	{0x88, 0x39, 0x32}, // red
	{0x67, 0xB6, 0xBD}, // cyan
	{0x8B, 0x3F, 0x96}, // purple
	{0x55, 0xA0, 0x49}, // green
	{0x40, 0x31, 0x8D}, // blue
	{0xBF, 0xCE, 0x72}, // yellow
	{0x8B, 0x54, 0x29}, // orange
	{0x57, 0x42, 0x00}, // brown
	{0xB8, 0x69, 0x62}, // light red
	{0x50, 0x50, 0x50}, // dark grey
	{0x78, 0x78, 0x78}, // grey
	{0x94, 0xE0, 0x89}, // light green
	{0x78, 0x69, 0xC4}, // light blue
	{0x9F, 0x9F, 0x9F}, // light grey
}

// Terminal holds the output stream and where the cursor is on the current row
type Terminal struct {
	mtx   sync.Mutex
	out   io.Writer
	col   int
	row   string // text written since the last newline
	color bool   // send ANSI color sequences
}

// New creates a new Terminal writing to out
// color turns on the escape sequences for COLOR, SCREEN and CLS
func New(out io.Writer, color bool) *Terminal {
	return &Terminal{out: out, color: color}
}

// Emit prints one fragment, padding out tab zones
func (t *Terminal) Emit(frag object.Fragment) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	var txt string
	txt, t.col = frag.Render(t.col)
	io.WriteString(t.out, txt)

	if i := strings.LastIndexByte(txt, '\n'); i >= 0 {
		t.row = txt[i+1:]
	} else {
		t.row += txt
	}
}

// Print sends the passed string at the current cursor position
func (t *Terminal) Print(msg string) {
	t.Emit(object.Fragment{Text: msg})
}

// Println prints the string followed by a newline
func (t *Terminal) Println(msg string) {
	t.Emit(object.Fragment{Text: msg, Term: object.TermNewline})
}

// Column reports the cursor column on the current row
func (t *Terminal) Column() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return t.col
}

// Row returns the text already on the current row
func (t *Terminal) Row() string {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return t.row
}

// Newline is called when something outside the terminal, like the
// line editor, has moved the cursor to a fresh row
func (t *Terminal) Newline() {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.col = 0
	t.row = ""
}

// Cls clears the terminal of all text
func (t *Terminal) Cls() {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.col = 0
	t.row = ""
	if !t.color {
		io.WriteString(t.out, "\n")
		return
	}
	io.WriteString(t.out, "\x1B[2J")
	t.locate(1, 1)
}

// Color sets the foreground and background
func (t *Terminal) Color(fg, bg int) {
	if !t.color {
		return
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	io.WriteString(t.out, sgr(38, fg)+sgr(48, bg))
}

// Screen sets the background
func (t *Terminal) Screen(bg int) {
	if !t.color {
		return
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	io.WriteString(t.out, sgr(48, bg))
}

// Reset puts the terminal colors back the way they started
func (t *Terminal) Reset() {
	if t.color {
		io.WriteString(t.out, "\x1B[0m")
	}
}

// locate moves the cursor to the passed row/col
// NOTE: the upper left screen position is 1,1
func (t *Terminal) locate(row, col int) {
	fmt.Fprintf(t.out, "\x1B[%d;%dH", row, col)
}

// sgr builds a 24 bit color sequence, layer is 38 for text or 48 for background
func sgr(layer, c int) string {
	rgb := palette[c&0x0F]
	return fmt.Sprintf("\x1B[%d;2;%d;%d;%dm", layer, rgb[0], rgb[1], rgb[2])
}
