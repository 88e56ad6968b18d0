package parser

import (
	"fmt"
	"sort"

	"github.com/chazu/tubular/interp"
)

// WarningKind categorizes best-effort findings from strict validation.
// Warnings never block execution; they flag cells that look like mistakes.
type WarningKind int

const (
	// WarnUnreachable marks a cell no droplet can reach from the start.
	WarnUnreachable WarningKind = iota
	// WarnIsolatedPipe marks a pipe none of whose neighbors are cells.
	WarnIsolatedPipe
	// WarnNoSink means the program has no '!' and no output operator, so
	// every droplet must fall off the grid or collide to terminate.
	WarnNoSink
)

// Warning is one strict-mode finding.
type Warning struct {
	Kind  WarningKind
	Coord interp.Coordinate
	Msg   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Coord, w.Msg)
}

// Validate performs the structural checks the engine requires (exactly one
// start marker, size ceiling). With strict enabled it additionally runs
// heuristic checks and returns their findings as warnings.
func Validate(grid *interp.Grid, strict bool) ([]Warning, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if !strict {
		return nil, nil
	}

	var warns []Warning
	warns = append(warns, unreachableCells(grid)...)
	warns = append(warns, isolatedPipes(grid)...)
	warns = append(warns, missingSink(grid)...)

	sort.Slice(warns, func(i, j int) bool {
		a, b := warns[i].Coord, warns[j].Coord
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return warns, nil
}

// state is a (position, direction) pair in the reachability walk.
type state struct {
	pos interp.Coordinate
	dir interp.Direction
}

// unreachableCells flood-fills droplet motion from the start cell and
// reports cells the walk never touched. The walk over-approximates:
// value-dependent branches follow every arm and subroutine jumps are
// assumed able to land on any cell, so a cell reported unreachable really
// is dead unless the program computes jump targets dynamically. 'C' always
// does, so the walk gives up on reachability whenever a 'C' exists at all.
func unreachableCells(grid *interp.Grid) []Warning {
	start, ok := grid.Start()
	if !ok {
		return nil
	}

	hasCall := false
	grid.Cells(func(_ interp.Coordinate, cell interp.Cell) {
		if cell.Symbol == 'C' {
			hasCall = true
		}
	})
	if hasCall {
		// Any cell can be a computed jump target; nothing is provably dead.
		return nil
	}

	reached := make(map[interp.Coordinate]bool)
	seen := make(map[state]bool)
	queue := []state{{pos: start, dir: interp.Down}}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s] {
			continue
		}
		seen[s] = true

		cell, ok := grid.Get(s.pos)
		if !ok {
			continue // walked off the program
		}
		reached[s.pos] = true

		for _, next := range successors(cell.Symbol, s) {
			if !seen[next] {
				queue = append(queue, next)
			}
		}
	}

	var warns []Warning
	grid.Cells(func(c interp.Coordinate, cell interp.Cell) {
		if !reached[c] {
			warns = append(warns, Warning{
				Kind:  WarnUnreachable,
				Coord: c,
				Msg:   fmt.Sprintf("cell %q is unreachable from the start symbol", cell.Symbol),
			})
		}
	})
	return warns
}

// successors lists the states a droplet could occupy after this cell,
// following every arm of value-dependent branches.
func successors(sym rune, s state) []state {
	step := func(d interp.Direction) state {
		return state{pos: s.pos.Step(d), dir: d}
	}
	switch sym {
	case '!':
		return nil
	case '/':
		return []state{step(slashExit(s.dir))}
	case '\\':
		return []state{step(backslashExit(s.dir)), step(s.dir.Opposite())}
	case '^':
		return []state{step(interp.Up)}
	case 'v':
		return []state{step(interp.Down)}
	case 'R':
		// Return target depends on call history; treat as both a stop and
		// a fall-through so neither arm is reported dead.
		return []state{step(s.dir)}
	default:
		return []state{step(s.dir)}
	}
}

func slashExit(d interp.Direction) interp.Direction {
	switch d {
	case interp.Right:
		return interp.Up
	case interp.Down:
		return interp.Left
	case interp.Left:
		return interp.Down
	default:
		return interp.Right
	}
}

func backslashExit(d interp.Direction) interp.Direction {
	switch d {
	case interp.Right:
		return interp.Down
	case interp.Up:
		return interp.Left
	case interp.Left:
		return interp.Up
	default:
		return interp.Right
	}
}

// isolatedPipes reports pipes with no populated neighbor cell: a droplet
// entering one must have fallen in from empty space, which almost always
// indicates a misplaced character.
func isolatedPipes(grid *interp.Grid) []Warning {
	var warns []Warning
	grid.Cells(func(c interp.Coordinate, cell interp.Cell) {
		if !cell.FlowControl {
			return
		}
		for _, d := range []interp.Direction{interp.Up, interp.Right, interp.Down, interp.Left} {
			if _, ok := grid.Get(c.Step(d)); ok {
				return
			}
		}
		warns = append(warns, Warning{
			Kind:  WarnIsolatedPipe,
			Coord: c,
			Msg:   fmt.Sprintf("pipe %q has no neighboring cells", cell.Symbol),
		})
	})
	return warns
}

// missingSink warns when a program has neither a sink nor an output
// operator.
func missingSink(grid *interp.Grid) []Warning {
	found := false
	grid.Cells(func(_ interp.Coordinate, cell interp.Cell) {
		switch cell.Symbol {
		case '!', ',', 'n':
			found = true
		}
	})
	if found {
		return nil
	}
	start, _ := grid.Start()
	return []Warning{{
		Kind:  WarnNoSink,
		Coord: start,
		Msg:   "program has no sink (!) and produces no output",
	}}
}
