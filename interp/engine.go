package interp

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("tubular.engine")

// Status is the engine lifecycle state. A run starts Running and ends in
// exactly one of the terminal states. Timeouts are ordinary terminal
// states, not errors.
type Status int

const (
	StatusRunning Status = iota
	StatusCompleted
	StatusTickTimeout
	StatusWallTimeout
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusTickTimeout:
		return "tick-timeout"
	case StatusWallTimeout:
		return "wall-timeout"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the status ends a run.
func (s Status) Terminal() bool { return s != StatusRunning }

// Limits bounds a run. Zero values mean unlimited; both ceilings are
// checked once per tick, so a single tick's work is never interrupted.
type Limits struct {
	MaxTicks uint64
	MaxWall  time.Duration
}

// TickResult summarizes one simulation step.
type TickResult struct {
	Tick       uint64
	Active     int    // droplets alive after the tick
	Collisions int    // droplets destroyed by collision this tick
	Output     string // text emitted this tick
}

// Result is the final report of a run.
type Result struct {
	Status        Status
	Ticks         uint64
	Output        string
	MaxDroplets   int
	MaxStackDepth int
	MaxCallDepth  int
	Collisions    uint64
	Elapsed       time.Duration
}

// TraceEvent is one droplet observation delivered to a trace hook at the
// start of a tick, before any effect of that tick is committed.
type TraceEvent struct {
	Tick    uint64
	Droplet DropletID
	Pos     Coordinate
	Dir     Direction
	Symbol  rune
	Value   string
}

// Engine owns all mutable execution state for one program run: the
// droplet list, the three shared containers, the output accumulator, and
// the tick counter. The grid is read-only throughout. Engines are not safe
// for concurrent use; the simulation is strictly single-threaded.
type Engine struct {
	grid      *Grid
	droplets  []*Droplet
	stack     *DataStack
	reservoir *Reservoir
	calls     *CallStack

	tick    uint64
	status  Status
	nextID  DropletID
	output  strings.Builder
	tickOut strings.Builder
	in      *bufio.Reader
	out     io.Writer // streaming sink, may be nil
	limits  Limits
	verbose bool
	trace   bool
	traceFn func(TraceEvent)

	started     bool
	startTime   time.Time
	maxDroplets int
	collisions  uint64
}

// NewEngine validates the grid and seeds the initial droplet at the start
// cell, facing Down, with value zero and id 0.
func NewEngine(grid *Grid) (*Engine, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	start, ok := grid.Start()
	if !ok {
		return nil, &GridError{Kind: ErrNoStart}
	}

	e := &Engine{
		grid:      grid,
		stack:     NewDataStack(),
		reservoir: NewReservoir(),
		calls:     NewCallStack(),
		status:    StatusRunning,
	}
	e.droplets = append(e.droplets, NewDroplet(e.allocID(), start, Down))
	e.maxDroplets = 1
	return e, nil
}

func (e *Engine) allocID() DropletID {
	id := e.nextID
	e.nextID++
	return id
}

// SetLimits installs the tick and wall-clock ceilings.
func (e *Engine) SetLimits(l Limits) { e.limits = l }

// SetVerbose enables per-tick progress logging.
func (e *Engine) SetVerbose(v bool) { e.verbose = v }

// SetTrace enables per-droplet trace events (see SetTraceFunc).
func (e *Engine) SetTrace(t bool) { e.trace = t }

// SetTraceFunc installs the hook that receives TraceEvents when tracing is
// enabled.
func (e *Engine) SetTraceFunc(fn func(TraceEvent)) { e.traceFn = fn }

// SetOutput streams program output to w as it is produced, tick by tick,
// in addition to the accumulated Result output.
func (e *Engine) SetOutput(w io.Writer) { e.out = w }

// SpawnDroplet injects an extra active droplet. Intended for debugging
// tools and tests; programs themselves start with the single droplet
// seeded by NewEngine.
func (e *Engine) SpawnDroplet(pos Coordinate, dir Direction) *Droplet {
	d := NewDroplet(e.allocID(), pos, dir)
	e.droplets = append(e.droplets, d)
	if len(e.droplets) > e.maxDroplets {
		e.maxDroplets = len(e.droplets)
	}
	return d
}

// Inspection accessors for tracing and debugging tools. The returned
// containers are the live shared instances; callers must not mutate them
// while the engine is running.

// Tick returns the number of completed ticks.
func (e *Engine) Tick() uint64 { return e.tick }

// Status returns the current lifecycle state.
func (e *Engine) Status() Status { return e.status }

// Droplets returns the active droplets in list (commit) order.
func (e *Engine) Droplets() []*Droplet { return e.droplets }

// Stack returns the shared data stack.
func (e *Engine) Stack() *DataStack { return e.stack }

// Reservoir returns the shared sparse memory.
func (e *Engine) Reservoir() *Reservoir { return e.reservoir }

// Calls returns the shared subroutine call stack.
func (e *Engine) Calls() *CallStack { return e.calls }

// Output returns the text accumulated so far.
func (e *Engine) Output() string { return e.output.String() }

// Grid returns the read-only program grid.
func (e *Engine) Grid() *Grid { return e.grid }

func (e *Engine) emit(s string) {
	e.tickOut.WriteString(s)
}

// Step executes one tick: check budgets, plan every droplet from the
// tick-start snapshot, resolve collisions, commit survivors in droplet
// list order, retire the dead, and flush this tick's output.
func (e *Engine) Step() (TickResult, error) {
	if e.status != StatusRunning {
		return TickResult{Tick: e.tick}, nil
	}
	if !e.started {
		e.started = true
		e.startTime = time.Now()
	}

	// Budgets are cooperative and checked only between ticks.
	if e.limits.MaxTicks > 0 && e.tick >= e.limits.MaxTicks {
		e.status = StatusTickTimeout
		e.retireAll()
		return TickResult{Tick: e.tick}, nil
	}
	if e.limits.MaxWall > 0 && time.Since(e.startTime) >= e.limits.MaxWall {
		e.status = StatusWallTimeout
		e.retireAll()
		return TickResult{Tick: e.tick}, nil
	}

	if len(e.droplets) > e.maxDroplets {
		e.maxDroplets = len(e.droplets)
	}

	// Phase 1: plan every active droplet against the snapshot.
	plans := make([]action, len(e.droplets))
	var moves []movement
	for i, d := range e.droplets {
		if !d.Active {
			continue
		}
		if e.trace {
			e.traceDroplet(d)
		}
		a := e.plan(d)
		plans[i] = a
		if a.kind == actAdvance || a.kind == actJump {
			moves = append(moves, movement{id: d.ID, dest: a.dest})
		}
	}

	// Phase 2: every contested destination destroys all its claimants.
	doomed := resolveCollisions(moves)
	collided := 0

	// Phase 3: commit survivors in droplet list order; colliding droplets
	// lose their planned side effects entirely.
	e.tickOut.Reset()
	for i, d := range e.droplets {
		if !d.Active {
			continue
		}
		if doomed[d.ID] {
			d.Active = false
			collided++
			continue
		}
		if err := e.commit(d, plans[i]); err != nil {
			e.status = StatusFailed
			return TickResult{Tick: e.tick}, err
		}
	}
	if collided > 0 {
		e.collisions += uint64(collided)
		if e.verbose {
			log.Infof("tick %d: %d droplets destroyed by collision", e.tick, collided)
		}
	}

	// Phase 4: drop retired droplets from the active list.
	live := e.droplets[:0]
	for _, d := range e.droplets {
		if d.Active {
			live = append(live, d)
		}
	}
	e.droplets = live

	if len(e.droplets) == 0 {
		e.status = StatusCompleted
	}

	out := e.tickOut.String()
	if out != "" {
		e.output.WriteString(out)
		if e.out != nil {
			io.WriteString(e.out, out)
		}
	}

	res := TickResult{
		Tick:       e.tick,
		Active:     len(e.droplets),
		Collisions: collided,
		Output:     out,
	}
	e.tick++

	if e.verbose {
		log.Debugf("tick %d: %d active, stack depth %d", res.Tick, res.Active, e.stack.Depth())
	}
	return res, nil
}

func (e *Engine) traceDroplet(d *Droplet) {
	ev := TraceEvent{
		Tick:    e.tick,
		Droplet: d.ID,
		Pos:     d.Pos,
		Dir:     d.Dir,
		Symbol:  e.grid.Symbol(d.Pos),
		Value:   d.Value.String(),
	}
	if e.traceFn != nil {
		e.traceFn(ev)
	}
	log.Debugf("tick %d: droplet %d at %s dir=%s cell=%q value=%s",
		ev.Tick, ev.Droplet, ev.Pos, ev.Dir, ev.Symbol, ev.Value)
}

// retireAll deactivates every droplet after a budget expiry. The call
// stack is cleared too; the data stack and reservoir keep their contents
// (and high-water marks) for post-mortem inspection.
func (e *Engine) retireAll() {
	for _, d := range e.droplets {
		d.Active = false
	}
	e.droplets = e.droplets[:0]
	e.calls.Clear()
}

// Run steps the engine until a terminal status and returns the final
// report.
func (e *Engine) Run() (*Result, error) {
	for e.status == StatusRunning {
		if _, err := e.Step(); err != nil {
			e.status = StatusFailed
			return nil, err
		}
	}
	var elapsed time.Duration
	if e.started {
		elapsed = time.Since(e.startTime)
	}
	return &Result{
		Status:        e.status,
		Ticks:         e.tick,
		Output:        e.output.String(),
		MaxDroplets:   e.maxDroplets,
		MaxStackDepth: e.stack.MaxDepth(),
		MaxCallDepth:  e.calls.MaxDepth(),
		Collisions:    e.collisions,
		Elapsed:       elapsed,
	}, nil
}
