package object

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/token"
)

// system variables, computed when read
const (
	SysTime    = "TI"
	SysTimeStr = "TI$"
)

// jiffies per second for TI
const jiffyRate = 60

// errors returned by Set
var (
	ErrReadOnly     = errors.New("variable is read only")
	ErrTypeMismatch = errors.New("value does not match variable type")
)

// ForBlock is an active FOR loop
type ForBlock struct {
	Var    string       // normalized loop variable
	Limit  float64      // TO value
	Step   float64      // STEP value
	Resume ast.RetPoint // statement after the FOR
}

// PendingInput is an INPUT waiting on the user
type PendingInput struct {
	Stmt *ast.InputStatement
	Next int // index of the next variable to fill
}

// Environment holds my variables and the state of execution
type Environment struct {
	store    map[string]Object // variables
	program  *ast.Program      // stored program lines
	code     *ast.Code         // execution cursor
	term     Console           // the terminal console object
	storage  Storage           // where LOAD/SAVE go, may be nil
	stack    []ast.RetPoint    // return addresses for GOSUB/RETURN
	forLoops []ForBlock        // any For Loops that are active

	// The following hold "state" information controlled by commands/statements
	rnd    *rand.Rand       // random number generator
	rndVal float64          // most recent generated value
	start  time.Time        // when TI started counting
	clock  func() time.Time // source of the current time
	state  State            // executor state
	input  *PendingInput    // set while AwaitingInput
	brk    atomic.Bool      // an interrupt is pending
}

// NewEnvironment creates a place to store variables
func NewEnvironment(term Console) *Environment {
	e := &Environment{
		store:   make(map[string]Object),
		program: ast.NewProgram(),
		term:    term,
		clock:   time.Now,
	}
	e.code = ast.NewCode(e.program)
	e.start = e.clock()

	// initialize my random number generator
	e.Randomize(37)
	return e
}

// VarName returns the significant part of a variable name
// only the first two characters count, plus the '$' if there is one
func VarName(name string) string {
	name = token.Fold(name)
	str := strings.HasSuffix(name, "$")
	name = strings.TrimSuffix(name, "$")

	if len(name) > 2 {
		name = name[:2]
	}
	if str {
		name += "$"
	}
	return name
}

// IsStringVar reports whether name holds strings
func IsStringVar(name string) bool {
	return strings.HasSuffix(name, "$")
}

// Get attempts to retrieve an object from the environment
// undefined variables are zero or the empty string
func (e *Environment) Get(name string) Object {
	vn := VarName(name)

	switch vn {
	case SysTime:
		return &Number{Value: float64(e.Jiffies())}
	case SysTimeStr:
		return &String{Value: e.clockString()}
	}

	if obj, ok := e.store[vn]; ok {
		return obj
	}

	if IsStringVar(vn) {
		return &String{}
	}
	return &Number{}
}

// Set stores an object in the environment
func (e *Environment) Set(name string, val Object) error {
	vn := VarName(name)

	if vn == SysTime || vn == SysTimeStr {
		return fmt.Errorf("%s: %w", vn, ErrReadOnly)
	}

	switch val.(type) {
	case *String:
		if !IsStringVar(vn) {
			return fmt.Errorf("%s: %w", vn, ErrTypeMismatch)
		}
	case *Number:
		if IsStringVar(vn) {
			return fmt.Errorf("%s: %w", vn, ErrTypeMismatch)
		}
	default:
		return fmt.Errorf("%s: %w", vn, ErrTypeMismatch)
	}

	e.store[vn] = val
	return nil
}

// ClearVars throws away all the variables
func (e *Environment) ClearVars() {
	e.store = make(map[string]Object)
}

// Variables returns the names currently defined
func (e *Environment) Variables() []string {
	var names []string
	for k := range e.store {
		names = append(names, k)
	}
	return names
}

// Jiffies since the clock started
func (e *Environment) Jiffies() int64 {
	return int64(e.clock().Sub(e.start).Seconds() * jiffyRate)
}

// HHMMSS of the elapsed time, wrapping after a day
func (e *Environment) clockString() string {
	secs := int64(e.clock().Sub(e.start).Seconds()) % (24 * 60 * 60)
	return fmt.Sprintf("%02d%02d%02d", secs/3600, (secs/60)%60, secs%60)
}

// SetClock replaces the time source and restarts TI
func (e *Environment) SetClock(clock func() time.Time) {
	e.clock = clock
	e.start = clock()
}

// MaxGosubDepth is how many GOSUBs can be outstanding at once
const MaxGosubDepth = 24

// Push saves a GOSUB return address
// false means the stack is full and nothing was saved
func (e *Environment) Push(ret ast.RetPoint) bool {
	if len(e.stack) >= MaxGosubDepth {
		return false
	}

	e.stack = append(e.stack, ret)
	slog.Debug("gosub push", "line", ret.Line, "stmt", ret.Stmt, "depth", len(e.stack))
	return true
}

// Pop returns the most recent GOSUB return address
func (e *Environment) Pop() (ast.RetPoint, bool) {
	if len(e.stack) == 0 {
		return ast.RetPoint{}, false
	}

	rp := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	slog.Debug("gosub pop", "line", rp.Line, "stmt", rp.Stmt, "depth", len(e.stack))
	return rp, true
}

// StackDepth returns how many GOSUBs are outstanding
func (e *Environment) StackDepth() int {
	return len(e.stack)
}

// PushFor starts a loop, any loop already running on the same variable
// is dropped along with every loop inside it
func (e *Environment) PushFor(fb ForBlock) {
	for i := len(e.forLoops) - 1; i >= 0; i-- {
		if e.forLoops[i].Var == fb.Var {
			e.forLoops = e.forLoops[:i]
			break
		}
	}

	e.forLoops = append(e.forLoops, fb)
	slog.Debug("for push", "var", fb.Var, "limit", fb.Limit, "step", fb.Step, "depth", len(e.forLoops))
}

// UnwindFor finds the loop NEXT refers to, an empty name means the innermost
// loops inside the one found are dropped
func (e *Environment) UnwindFor(name string) (*ForBlock, bool) {
	if len(name) == 0 {
		if len(e.forLoops) == 0 {
			return nil, false
		}
		return &e.forLoops[len(e.forLoops)-1], true
	}

	vn := VarName(name)
	for i := len(e.forLoops) - 1; i >= 0; i-- {
		if e.forLoops[i].Var == vn {
			e.forLoops = e.forLoops[:i+1]
			return &e.forLoops[i], true
		}
	}

	return nil, false
}

// PopFor ends the innermost loop
func (e *Environment) PopFor() {
	if len(e.forLoops) == 0 {
		return
	}
	fb := e.forLoops[len(e.forLoops)-1]
	e.forLoops = e.forLoops[:len(e.forLoops)-1]
	slog.Debug("for pop", "var", fb.Var, "depth", len(e.forLoops))
}

// ForDepth returns how many loops are active
func (e *Environment) ForDepth() int {
	return len(e.forLoops)
}

// ClearStacks drops every GOSUB and FOR frame
func (e *Environment) ClearStacks() {
	e.stack = nil
	e.forLoops = nil
}

// New clears the program and all the variables
func (e *Environment) New() {
	e.program.New()
	e.ClearVars()
	e.ClearStacks()
	e.code.Stop()
	e.input = nil
}

// Program returns the stored program
func (e *Environment) Program() *ast.Program {
	return e.program
}

// Code returns the execution cursor
func (e *Environment) Code() *ast.Code {
	return e.code
}

// Terminal allows access to the terminal console
func (e *Environment) Terminal() Console {
	return e.term
}

// Storage returns where programs are loaded from and saved to
func (e *Environment) Storage() Storage {
	return e.storage
}

// SetStorage sets the LOAD/SAVE collaborator
func (e *Environment) SetStorage(st Storage) {
	e.storage = st
}

// State returns the executor state
func (e *Environment) State() State {
	return e.state
}

// SetState records the executor state
func (e *Environment) SetState(st State) {
	if st != e.state {
		slog.Debug("state change", "from", e.state, "to", st)
	}
	e.state = st
}

// Input returns the INPUT waiting on the user, if any
func (e *Environment) Input() *PendingInput {
	return e.input
}

// SetInput records, or clears with nil, the INPUT waiting on the user
func (e *Environment) SetInput(pi *PendingInput) {
	e.input = pi
}

// Interrupt asks a running program to stop at the next statement
func (e *Environment) Interrupt() {
	e.brk.Store(true)
}

// BreakCheck returns true, once, if an interrupt is pending
func (e *Environment) BreakCheck() bool {
	return e.brk.Swap(false)
}

// Random returns a pseudo random number
// x > 0 the next in the series, x == 0 the last one again
// x < 0 reseeds with x first
func (e *Environment) Random(x float64) float64 {
	if x < 0 {
		e.Randomize(int64(x))
		return e.rndVal
	}

	if x > 0 {
		e.rndVal = e.rnd.Float64()
	}

	return e.rndVal
}

// Randomize starts a new random series
func (e *Environment) Randomize(seed int64) {
	e.rnd = rand.New(rand.NewSource(seed))
	e.rndVal = e.rnd.Float64()
}
