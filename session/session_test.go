package session

import (
	"testing"
	"time"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/berrors"
	"github.com/navionguy/c64basic/localfiles"
	"github.com/navionguy/c64basic/mocks"
	"github.com/navionguy/c64basic/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitAll(t *testing.T, s *Session, lines ...string) {
	for _, l := range lines {
		require.NoError(t, s.SubmitLine(l), l)
	}
}

func TestSubmitLine(t *testing.T) {
	mt := mocks.NewMockTerm()
	s := New(mt)

	submitAll(t, s, "10 LET A=5", "20 LET B=A*2", "30 PRINT B", "")
	assert.Equal(t, object.Idle, s.State())
	assert.Empty(t, mt.Frags)

	submitAll(t, s, "RUN")
	assert.Equal(t, []string{"10"}, mt.Lines())
	assert.Equal(t, object.Ended, s.State())
	assert.Equal(t, &object.Number{Value: 10}, s.Get("B"))
}

func TestEditLines(t *testing.T) {
	s := New(mocks.NewMockTerm())

	submitAll(t, s, "30 PRINT 3", "10 PRINT 1", "20 PRINT 2", "20 PRINT 22", "30", "  40   PRINT 4  ")
	assert.Equal(t, []ast.SourceLine{
		{Num: 10, Text: "PRINT 1"},
		{Num: 20, Text: "PRINT 22"},
		{Num: 40, Text: "PRINT 4"},
	}, s.ExportLines())
}

func TestBadLineNumber(t *testing.T) {
	mt := mocks.NewMockTerm()
	s := New(mt)

	for _, inp := range []string{"0 PRINT", "64000 PRINT", "99999999999999999999 PRINT"} {
		mt.Reset()
		err := s.SubmitLine(inp)

		var berr *object.Error
		require.ErrorAs(t, err, &berr, inp)
		assert.Equal(t, berrors.Syntax, berr.Code, inp)
		assert.Equal(t, []string{"?SYNTAX ERROR"}, mt.Lines(), inp)
	}
	assert.Empty(t, s.ExportLines())
}

func TestRuntimeErrorReported(t *testing.T) {
	mt := mocks.NewMockTerm()
	s := New(mt)
	submitAll(t, s, "10 GOTO 99")

	err := s.SubmitLine("RUN")
	require.Error(t, err)
	assert.Equal(t, "?UNDEF'D STATEMENT ERROR IN 10", err.Error())
	assert.Equal(t, []string{"?UNDEF'D STATEMENT ERROR IN 10"}, mt.Lines())
	assert.Equal(t, object.Halted, s.State())

	// the program survives and the next line clears the halt
	submitAll(t, s, "99 PRINT 99")
	assert.Equal(t, object.Idle, s.State())
	assert.Len(t, s.ExportLines(), 2)
}

func TestInputRouting(t *testing.T) {
	mt := mocks.NewMockTerm()
	s := New(mt)
	submitAll(t, s, `10 INPUT "AGE";A`, "20 PRINT A*2", "RUN")
	assert.Equal(t, object.AwaitingInput, s.State())

	// a numbered line is an answer, not program text
	submitAll(t, s, "21")
	assert.Equal(t, object.Ended, s.State())
	assert.Equal(t, []string{"AGE? 42"}, mt.Lines())
	assert.Len(t, s.ExportLines(), 2)

	assert.ErrorIs(t, s.SupplyInput("5"), ErrNoInput)
}

func TestSupplyInput(t *testing.T) {
	mt := mocks.NewMockTerm()
	s := New(mt)
	submitAll(t, s, "10 INPUT N$", `20 PRINT "HI ";N$`, "RUN")

	require.NoError(t, s.SupplyInput("ANN"))
	assert.Equal(t, "? HI ANN\n", mt.Output())
}

func TestInterruptWhileWaiting(t *testing.T) {
	mt := mocks.NewMockTerm()
	s := New(mt)
	submitAll(t, s, "10 INPUT A", "RUN")

	s.Interrupt()
	require.NoError(t, s.SupplyInput(""))
	assert.Equal(t, object.Idle, s.State())
	assert.Equal(t, "? BREAK IN 10\n", mt.Output())
}

func TestImportExport(t *testing.T) {
	s := New(mocks.NewMockTerm())
	lines := []ast.SourceLine{{Num: 10, Text: "A=1"}, {Num: 20, Text: "PRINT A"}}

	require.NoError(t, s.ImportLines(lines))
	assert.Equal(t, lines, s.ExportLines())

	err := s.ImportLines([]ast.SourceLine{{Num: 0, Text: "X"}})
	var berr *object.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, berrors.FileData, berr.Code)
	assert.Equal(t, lines, s.ExportLines())
}

func TestNewAndEnd(t *testing.T) {
	s := New(mocks.NewMockTerm())
	submitAll(t, s, "10 INPUT A", "B=3", "RUN")
	require.Equal(t, object.AwaitingInput, s.State())

	s.End()
	assert.Equal(t, object.Ended, s.State())
	assert.ErrorIs(t, s.SupplyInput("1"), ErrNoInput)

	s.New()
	assert.Equal(t, object.Idle, s.State())
	assert.Empty(t, s.ExportLines())
	assert.Equal(t, &object.Number{}, s.Get("B"))
}

func TestBye(t *testing.T) {
	s := New(mocks.NewMockTerm())
	submitAll(t, s, "BYE")

	assert.True(t, s.Exited())
	assert.ErrorIs(t, s.SubmitLine("PRINT 1"), ErrExited)
	assert.ErrorIs(t, s.SupplyInput("1"), ErrExited)
}

func TestOptions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	a := New(nil, WithSeed(99), WithClock(clock))
	b := New(nil, WithSeed(99))
	submitAll(t, a, "X=RND(1)")
	submitAll(t, b, "X=RND(1)")
	assert.Equal(t, a.Get("X"), b.Get("X"))

	now = now.Add(time.Hour + 2*time.Second)
	assert.Equal(t, &object.String{Value: "010002"}, a.Get("TI$"))

	mt := mocks.NewMockTerm()
	dir := localfiles.Dir{Path: t.TempDir()}
	c := New(mt, WithStorage(dir))
	submitAll(t, c, `10 PRINT "STORED"`, `SAVE "DEMO"`, "NEW", `LOAD "DEMO"`, "RUN")
	assert.Equal(t, []string{`SAVING "DEMO"`, `LOADING "DEMO"`, "STORED"}, mt.Lines())
}
