package object

import "strings"

// Terminator says what follows the text of a Fragment
type Terminator int

const (
	TermNone    Terminator = iota // nothing, next output follows directly
	TermNewline                   // end of the line
	TermTab                       // advance to the next print zone
)

// TabWidth is the width of a print zone
const TabWidth = 10

// Fragment is one piece of output
type Fragment struct {
	Text string
	Term Terminator
}

// Render turns the fragment into text, given the current column
// returns the text and the column after it
func (f Fragment) Render(col int) (string, int) {
	var out strings.Builder

	out.WriteString(f.Text)
	col += len(f.Text)

	switch f.Term {
	case TermNewline:
		out.WriteString("\n")
		col = 0
	case TermTab:
		pad := TabWidth - col%TabWidth
		out.WriteString(strings.Repeat(" ", pad))
		col += pad
	}

	return out.String(), col
}
