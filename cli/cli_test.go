package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/navionguy/c64basic/session"
	"github.com/navionguy/c64basic/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptReader plays back lines, a line of the form "!name" returns the matching error
type scriptReader struct {
	lines       []string
	interactive bool

	prompts []string
	history []string
}

var scriptErrs = map[string]error{
	"!int": ErrInterrupted,
	"!bad": errors.New("device gone"),
}

func (sr *scriptReader) ReadLine(prompt string) (string, error) {
	sr.prompts = append(sr.prompts, prompt)
	if len(sr.lines) == 0 {
		return "", io.EOF
	}

	line := sr.lines[0]
	sr.lines = sr.lines[1:]
	if err, ok := scriptErrs[line]; ok {
		return "", err
	}
	return line, nil
}

func (sr *scriptReader) Remember(line string) { sr.history = append(sr.history, line) }
func (sr *scriptReader) Interactive() bool    { return sr.interactive }
func (sr *scriptReader) Close() error         { return nil }

func newShell() (*session.Session, *terminal.Terminal, *bytes.Buffer) {
	var buf bytes.Buffer
	trm := terminal.New(&buf, false)
	return session.New(trm), trm, &buf
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		exp   string
	}{
		{name: "scenario", lines: []string{"10 LET A=5", "20 LET B=A*2", "30 PRINT B", "RUN"}, exp: "READY.\n10\nREADY.\n"},
		{name: "blank lines", lines: []string{"", "   ", "PRINT 1"}, exp: "READY.\n1\nREADY.\n"},
		{name: "error", lines: []string{"PRINT 1/0"}, exp: "READY.\n?DIVISION BY ZERO ERROR\nREADY.\n"},
		{name: "bad line number", lines: []string{"0 PRINT"}, exp: "READY.\n?SYNTAX ERROR\nREADY.\n"},
		{name: "input", lines: []string{`10 INPUT "N";A`, "20 PRINT A*2", "RUN", "21"}, exp: "READY.\nN? 42\nREADY.\n"},
		{name: "redo", lines: []string{"10 INPUT A", "RUN", "X", "3", "PRINT A"}, exp: "READY.\n? ?REDO FROM START\n? READY.\n3\nREADY.\n"},
		{name: "break input", lines: []string{"10 INPUT A", "RUN", "!int", "PRINT 5"}, exp: "READY.\n? BREAK IN 10\nREADY.\n5\nREADY.\n"},
		{name: "ignored break", lines: []string{"PRINT 1", "!int", "PRINT 2"}, exp: "READY.\n1\nREADY.\n2\nREADY.\n"},
		{name: "bye", lines: []string{"BYE", "PRINT 1"}, exp: "READY.\nGOODBYE!\n"},
	}

	for _, tt := range tests {
		sess, trm, buf := newShell()
		sr := &scriptReader{lines: tt.lines}

		require.NoError(t, Run(sess, sr, trm), tt.name)
		assert.Equal(t, tt.exp, buf.String(), tt.name)
	}
}

func TestReadError(t *testing.T) {
	sess, trm, _ := newShell()
	sr := &scriptReader{lines: []string{"PRINT 1", "!bad", "PRINT 2"}}

	err := Run(sess, sr, trm)
	assert.EqualError(t, err, "device gone")
	assert.Equal(t, []string{"PRINT 2"}, sr.lines)
}

func TestPromptsAndHistory(t *testing.T) {
	sess, trm, _ := newShell()
	sr := &scriptReader{lines: []string{`10 INPUT "N";A`, "", "RUN", "21"}, interactive: true}

	require.NoError(t, Run(sess, sr, trm))

	// the INPUT prompt is handed to the editor so it can redraw the row
	assert.Equal(t, []string{"", "", "", "N? ", ""}, sr.prompts)
	assert.Equal(t, []string{`10 INPUT "N";A`, "RUN"}, sr.history)
	assert.Equal(t, 0, trm.Column())
}

func TestStartWaiting(t *testing.T) {
	sess, trm, buf := newShell()
	require.NoError(t, sess.SubmitLine("10 INPUT A"))
	require.NoError(t, sess.SubmitLine("RUN"))

	require.NoError(t, Run(sess, &scriptReader{lines: []string{"7", "PRINT A"}}, trm))
	assert.Equal(t, "? READY.\n7\nREADY.\n", buf.String())
}

func TestDump(t *testing.T) {
	sess, trm, buf := newShell()

	require.NoError(t, Run(sess, &scriptReader{lines: []string{"10 PRINT 1", "A=2:PRINT A"}}, trm, WithDump()))
	assert.Equal(t, "READY.\n2\nREADY.\n", buf.String())
}

func TestPlainReader(t *testing.T) {
	pr := NewPlainReader(strings.NewReader("10 PRINT 1\r\nRUN\n"))
	assert.False(t, pr.Interactive())

	line, err := pr.ReadLine("ignored")
	require.NoError(t, err)
	assert.Equal(t, "10 PRINT 1", line)

	line, err = pr.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "RUN", line)

	_, err = pr.ReadLine("")
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, pr.Close())
}
