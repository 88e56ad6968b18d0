package interp

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// mustGrid builds a grid from text rows; spaces are empty cells.
func mustGrid(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g := NewGrid()
	for y, row := range rows {
		for x, r := range row {
			if r == ' ' {
				continue
			}
			if err := g.AddCell(Coord(x, y), r); err != nil {
				t.Fatal(err)
			}
		}
	}
	return g
}

// runProgram executes a bounded run of the given rows and returns the result.
func runProgram(t *testing.T, input string, rows ...string) *Result {
	t.Helper()
	e, err := NewEngine(mustGrid(t, rows...))
	if err != nil {
		t.Fatal(err)
	}
	e.SetLimits(Limits{MaxTicks: 10000})
	if input != "" {
		e.SetInput(strings.NewReader(input))
	}
	res, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	return res
}

// ---------------------------------------------------------------------------
// Whole-program runs
// ---------------------------------------------------------------------------

func TestRunAddition(t *testing.T) {
	res := runProgram(t, "", "@", "7", ":", "2", ":", "A", "n", "!")
	if res.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", res.Status)
	}
	if res.Output != "9" {
		t.Errorf("output = %q, want 9", res.Output)
	}
	if res.MaxStackDepth != 2 {
		t.Errorf("max stack depth = %d, want 2", res.MaxStackDepth)
	}
	if res.MaxDroplets != 1 {
		t.Errorf("max droplets = %d, want 1", res.MaxDroplets)
	}
	if res.Collisions != 0 {
		t.Errorf("collisions = %d, want 0", res.Collisions)
	}
}

func TestRunArithmeticTable(t *testing.T) {
	tests := []struct {
		op   rune
		want string
	}{
		{'A', "9"},  // 7 + 2
		{'S', "5"},  // 7 - 2
		{'M', "14"}, // 7 * 2
		{'D', "3"},  // 7 / 2
		{'%', "1"},  // 7 mod 2
	}
	for _, tt := range tests {
		res := runProgram(t, "", "@", "7", ":", "2", ":", string(tt.op), "n", "!")
		if res.Output != tt.want {
			t.Errorf("7 %c 2 printed %q, want %q", tt.op, res.Output, tt.want)
		}
	}
}

func TestRunDivModByZero(t *testing.T) {
	for _, op := range []string{"D", "%"} {
		res := runProgram(t, "", "@", "5", ":", "0", ":", op, "n", "!")
		if res.Output != "0" {
			t.Errorf("5 %s 0 printed %q, want 0", op, res.Output)
		}
	}
}

func TestRunComparisons(t *testing.T) {
	tests := []struct {
		a, b string
		op   string
		want string
	}{
		{"5", "7", "<", "1"},
		{"7", "5", "<", "0"},
		{"7", "5", ">", "1"},
		{"5", "7", ">", "0"},
		{"7", "7", "=", "1"},
		{"7", "5", "=", "0"},
	}
	for _, tt := range tests {
		res := runProgram(t, "", "@", tt.a, ":", tt.b, ":", tt.op, "n", "!")
		if res.Output != tt.want {
			t.Errorf("%s %s %s printed %q, want %q", tt.a, tt.op, tt.b, res.Output, tt.want)
		}
	}
}

func TestRunIncrementDecrement(t *testing.T) {
	res := runProgram(t, "", "@", "5", "+", "+", "n", "!")
	if res.Output != "7" {
		t.Errorf("5++ printed %q, want 7", res.Output)
	}
	res = runProgram(t, "", "@", "~", "n", "!")
	if res.Output != "-1" {
		t.Errorf("0~ printed %q, want -1", res.Output)
	}
}

func TestRunDuplicateAndPop(t *testing.T) {
	res := runProgram(t, "", "@", "3", ":", "d", ";", "n", ";", "n", "!")
	if res.Output != "33" {
		t.Errorf("output = %q, want 33", res.Output)
	}
	// 'd' on an empty stack pushes a zero.
	res = runProgram(t, "", "@", "d", ";", "n", "!")
	if res.Output != "0" {
		t.Errorf("output = %q, want 0", res.Output)
	}
}

func TestRunCharOutput(t *testing.T) {
	// 9*8 = 72 = 'H'
	res := runProgram(t, "", "@", "9", ":", "8", ":", "M", ",", "!")
	if res.Output != "H" {
		t.Errorf("output = %q, want H", res.Output)
	}
}

func TestRunCharOutputOutOfRange(t *testing.T) {
	// A negative code point emits nothing.
	res := runProgram(t, "", "@", "~", ",", "!")
	if res.Output != "" {
		t.Errorf("output = %q, want empty", res.Output)
	}
	if res.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", res.Status)
	}
}

func TestRunNumericOutputNegative(t *testing.T) {
	res := runProgram(t, "", "@", "0", ":", "7", ":", "S", "n", "!")
	if res.Output != "-7" {
		t.Errorf("output = %q, want -7", res.Output)
	}
}

// ---------------------------------------------------------------------------
// Reservoir programs
// ---------------------------------------------------------------------------

func TestRunReservoirStoreLoad(t *testing.T) {
	// Store 5 at (5, 10) via P (10 built as 5+5), then read it back via G.
	res := runProgram(t, "",
		"@",
		"5", ":", "5", ":", "A", ":", // stack [10]
		"5", "P", // put (5,10) = 5
		"5", ":", "5", ":", "A", ":", // stack [10]
		"5", "G", // get (5,10)
		"n", "!")
	if res.Output != "5" {
		t.Errorf("output = %q, want 5", res.Output)
	}
}

func TestRunReservoirUnsetReadsZero(t *testing.T) {
	res := runProgram(t, "", "@", "9", ":", "5", "G", "n", "!")
	if res.Output != "0" {
		t.Errorf("output = %q, want 0", res.Output)
	}
}

// ---------------------------------------------------------------------------
// Subroutines
// ---------------------------------------------------------------------------

func TestRunCallMissConsumesOperands(t *testing.T) {
	// 'C' targeting the empty cell (9,9): operands consumed, no jump.
	e, err := NewEngine(mustGrid(t, "@", "9", ":", "9", ":", "9", "C"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
	d := e.Droplets()[0]
	if d.Pos != Coord(0, 6) {
		t.Fatalf("droplet at %s before call, want (0, 6)", d.Pos)
	}
	if e.Stack().Depth() != 2 {
		t.Fatalf("stack depth = %d before call, want 2", e.Stack().Depth())
	}

	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if d.Pos != Coord(0, 6) || d.Dir != Down {
		t.Errorf("droplet moved to %s dir %s, want unchanged", d.Pos, d.Dir)
	}
	if e.Stack().Depth() != 0 {
		t.Errorf("stack depth = %d, want 0 (operands consumed)", e.Stack().Depth())
	}
	if e.Calls().Depth() != 0 {
		t.Errorf("call stack depth = %d, want 0", e.Calls().Depth())
	}
}

func TestRunReturnOnEmptyCallStackIsNoOp(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@", "R"))
	if err != nil {
		t.Fatal(err)
	}
	e.Step() // @ -> (0,1)
	d := e.Droplets()[0]
	if d.Pos != Coord(0, 1) {
		t.Fatalf("droplet at %s, want (0, 1)", d.Pos)
	}
	e.Step() // R with empty call stack
	if d.Pos != Coord(0, 1) || d.Dir != Down || !d.Active {
		t.Errorf("droplet = %s, want unchanged and active", d)
	}
}

func TestRunCallAndReturn(t *testing.T) {
	// Main column calls the subroutine at (5,0) travelling Right. The
	// return resumes at the 'C' cell, which re-executes; the subroutine
	// leaves [7, 2] on the stack so the second call jumps onto the 'n'
	// cell at (0,7) instead.
	res := runProgram(t, "",
		"@    7:2:0R",
		"0",
		":",
		"1",
		":",
		"5",
		"C",
		"n",
		"!")
	if res.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", res.Status)
	}
	if res.Output != "0" {
		t.Errorf("output = %q, want 0", res.Output)
	}
	if res.MaxCallDepth != 1 {
		t.Errorf("max call depth = %d, want 1", res.MaxCallDepth)
	}
}

func TestRunCallNegativeDirCodeFacesDown(t *testing.T) {
	// dir-code -1 (built via '~') is not a named residue under truncated
	// remainder, so the called droplet travels Down.
	e, err := NewEngine(mustGrid(t,
		"@    -",
		"0",
		":",
		"~",
		":",
		"5",
		"C"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 7; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
	d := e.Droplets()[0]
	if d.Pos != Coord(5, 0) {
		t.Fatalf("droplet at %s after call, want (5, 0)", d.Pos)
	}
	if d.Dir != Down {
		t.Errorf("droplet dir = %s, want down", d.Dir)
	}
}

// ---------------------------------------------------------------------------
// Flow control
// ---------------------------------------------------------------------------

func TestConditionalBranchZeroReverses(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@", "\\"))
	if err != nil {
		t.Fatal(err)
	}
	e.Step() // @ -> (0,1)
	d := e.Droplets()[0]
	e.Step() // '\' with value 0: reverse
	if d.Dir != Up || d.Pos != Coord(0, 0) {
		t.Errorf("droplet = %s, want moving up onto (0, 0)", d)
	}
}

func TestConditionalBranchNonzeroReflects(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@", "1", "\\"))
	if err != nil {
		t.Fatal(err)
	}
	e.Step() // @
	e.Step() // '1'
	d := e.Droplets()[0]
	e.Step() // '\' with value 1 entering Down: go Right
	if d.Dir != Right || d.Pos != Coord(1, 2) {
		t.Errorf("droplet = %s, want moving right onto (1, 2)", d)
	}
}

func TestMirrorReflection(t *testing.T) {
	// '/': droplet moving Down turns Left.
	e, err := NewEngine(mustGrid(t, "@", "/"))
	if err != nil {
		t.Fatal(err)
	}
	e.Step()
	d := e.Droplets()[0]
	e.Step()
	if d.Dir != Left || d.Pos != Coord(-1, 1) {
		t.Errorf("droplet = %s, want moving left onto (-1, 1)", d)
	}
}

func TestForcedDirections(t *testing.T) {
	// 'v' then '^' bounce a droplet forever.
	e, err := NewEngine(mustGrid(t, "@", "v", "^"))
	if err != nil {
		t.Fatal(err)
	}
	e.SetLimits(Limits{MaxTicks: 50})
	res, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusTickTimeout {
		t.Errorf("status = %s, want tick-timeout", res.Status)
	}
	if res.Ticks != 50 {
		t.Errorf("ticks = %d, want 50", res.Ticks)
	}
}

func TestDropletFallsOffGrid(t *testing.T) {
	res := runProgram(t, "", "@", "|")
	if res.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", res.Status)
	}
	if res.Output != "" {
		t.Errorf("output = %q, want empty", res.Output)
	}
}

// ---------------------------------------------------------------------------
// Collisions
// ---------------------------------------------------------------------------

func TestCollisionDestroysBoth(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@--"))
	if err != nil {
		t.Fatal(err)
	}
	e.Droplets()[0].Dir = Right
	e.SpawnDroplet(Coord(2, 0), Left)

	tr, err := e.Step()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Collisions != 2 {
		t.Errorf("collisions = %d, want 2", tr.Collisions)
	}
	if tr.Active != 0 {
		t.Errorf("active = %d, want 0", tr.Active)
	}
	if e.Status() != StatusCompleted {
		t.Errorf("status = %s, want completed", e.Status())
	}
}

func TestCollisionThreeWayDestroysAll(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@-", "---"))
	if err != nil {
		t.Fatal(err)
	}
	// Initial droplet heads down to (0,1); three spawns converge on (1,1).
	e.SpawnDroplet(Coord(1, 0), Down)
	e.SpawnDroplet(Coord(0, 1), Right)
	e.SpawnDroplet(Coord(2, 1), Left)

	tr, err := e.Step()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Collisions != 3 {
		t.Errorf("collisions = %d, want 3", tr.Collisions)
	}
	if tr.Active != 1 {
		t.Errorf("active = %d, want 1 (the initial droplet survives)", tr.Active)
	}
}

func TestCollisionDiscardsSideEffects(t *testing.T) {
	// Both droplets sit on ':' cells and would push, but their shared
	// destination kills them first: the stack must stay empty.
	e, err := NewEngine(mustGrid(t, "@::"))
	if err != nil {
		t.Fatal(err)
	}
	e.Droplets()[0].Dir = Right
	e.SpawnDroplet(Coord(2, 0), Left)

	// Initial droplet at '@' -> dest (1,0); the spawned droplet sits on a
	// ':' cell and also claims (1,0).
	tr, err := e.Step()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Collisions != 2 {
		t.Fatalf("collisions = %d, want 2", tr.Collisions)
	}
	if e.Stack().Depth() != 0 {
		t.Errorf("stack depth = %d, want 0 (side effects discarded)", e.Stack().Depth())
	}
}

func TestLoneDropletNeverCollides(t *testing.T) {
	res := runProgram(t, "", "@-")
	if res.Collisions != 0 {
		t.Errorf("collisions = %d, want 0", res.Collisions)
	}
}

// ---------------------------------------------------------------------------
// Input
// ---------------------------------------------------------------------------

func TestInputChar(t *testing.T) {
	res := runProgram(t, "A", "@", "?", ",", "!")
	if res.Output != "A" {
		t.Errorf("output = %q, want A", res.Output)
	}
}

func TestInputNumeric(t *testing.T) {
	res := runProgram(t, "42\n", "@", "?", "?", "n", "!")
	if res.Output != "42" {
		t.Errorf("output = %q, want 42", res.Output)
	}
}

func TestInputNumericGarbage(t *testing.T) {
	res := runProgram(t, "junk\n", "@", "?", "?", "n", "!")
	if res.Output != "0" {
		t.Errorf("output = %q, want 0", res.Output)
	}
}

func TestInputExhausted(t *testing.T) {
	res := runProgram(t, "", "@", "?", "n", "!")
	if res.Output != "0" {
		t.Errorf("output = %q, want 0", res.Output)
	}
}

// ---------------------------------------------------------------------------
// Engine lifecycle
// ---------------------------------------------------------------------------

func TestNewEngineRequiresStart(t *testing.T) {
	g := NewGrid()
	if err := g.AddCell(Coord(0, 0), '-'); err != nil {
		t.Fatal(err)
	}
	_, err := NewEngine(g)
	var ge *GridError
	if !errors.As(err, &ge) || ge.Kind != ErrNoStart {
		t.Fatalf("error = %v, want no-start GridError", err)
	}
}

func TestWallClockTimeout(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@", "v", "^"))
	if err != nil {
		t.Fatal(err)
	}
	e.SetLimits(Limits{MaxWall: time.Nanosecond})
	res, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusWallTimeout {
		t.Errorf("status = %s, want wall-timeout", res.Status)
	}
}

func TestStepAfterTerminalIsInert(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@", "!"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if e.Status() != StatusCompleted {
		t.Fatalf("status = %s, want completed", e.Status())
	}
	before := e.Tick()
	tr, err := e.Step()
	if err != nil {
		t.Fatal(err)
	}
	if e.Tick() != before || tr.Active != 0 {
		t.Errorf("terminal engine advanced: tick %d -> %d", before, e.Tick())
	}
}

func TestStreamingOutputMatchesResult(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@", "7", ":", "2", ":", "A", "n", "!"))
	if err != nil {
		t.Fatal(err)
	}
	var sink strings.Builder
	e.SetOutput(&sink)
	res, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	if sink.String() != res.Output {
		t.Errorf("streamed %q, accumulated %q", sink.String(), res.Output)
	}
}

func TestTraceEvents(t *testing.T) {
	e, err := NewEngine(mustGrid(t, "@", "5", "!"))
	if err != nil {
		t.Fatal(err)
	}
	var events []TraceEvent
	e.SetTrace(true)
	e.SetTraceFunc(func(ev TraceEvent) { events = append(events, ev) })
	if _, err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("trace events = %d, want 3", len(events))
	}
	first := events[0]
	if first.Tick != 0 || first.Droplet != 0 || first.Symbol != '@' || first.Pos != Coord(0, 0) {
		t.Errorf("first event = %+v", first)
	}
	if events[1].Symbol != '5' || events[2].Symbol != '!' {
		t.Errorf("event symbols = %q, %q", events[1].Symbol, events[2].Symbol)
	}
	if events[2].Value != "5" {
		t.Errorf("final value = %q, want 5", events[2].Value)
	}
}

func TestDigitOverwritesValue(t *testing.T) {
	// Digits set the value outright; they do not accumulate decimal places.
	res := runProgram(t, "", "@", "1", "0", "n", "!")
	if res.Output != "0" {
		t.Errorf("output = %q, want 0", res.Output)
	}
}

func TestInspectors(t *testing.T) {
	g := mustGrid(t, "@", "5", ":")
	e, err := NewEngine(g)
	if err != nil {
		t.Fatal(err)
	}
	if e.Grid() != g {
		t.Error("Grid() does not return the program grid")
	}
	for i := 0; i < 3; i++ {
		e.Step()
	}
	if e.Tick() != 3 {
		t.Errorf("tick = %d, want 3", e.Tick())
	}
	if e.Stack().Depth() != 1 || e.Stack().Peek().String() != "5" {
		t.Errorf("stack = %s", e.Stack())
	}
	if e.Reservoir().Len() != 0 {
		t.Errorf("reservoir len = %d, want 0", e.Reservoir().Len())
	}
	if e.Calls().Depth() != 0 {
		t.Errorf("call stack depth = %d, want 0", e.Calls().Depth())
	}
}
