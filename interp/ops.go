package interp

// Operation dispatch. Every tick runs in two phases: plan computes each
// droplet's intended action from the tick-start snapshot without touching
// shared state, and commit applies the surviving actions in droplet list
// order. Collision resolution sits between the two, so a colliding
// droplet's planned side effects are discarded before anything mutates.

type actionKind int

const (
	// actAdvance applies the cell's effect (if any) and then steps one
	// cell in the action's direction within the same tick.
	actAdvance actionKind = iota
	// actJump repositions the droplet directly (subroutine call/return);
	// no additional step is taken.
	actJump
	// actStay applies the cell's effect without moving (a call to a
	// nonexistent target, or a return on an empty call stack).
	actStay
	// actDestroy removes the droplet with no side effects and no output.
	actDestroy
)

type action struct {
	kind actionKind
	op   rune       // symbol whose effect runs at commit time
	dir  Direction  // travel direction after the op
	dest Coordinate // landing cell (advance step or jump target)
	wide bool       // '??': the op spans two cells
}

// plan computes the intended action for a droplet sitting on its current
// cell. It reads shared state only through non-mutating peeks; the effect
// of each symbol is applied later by commit.
func (e *Engine) plan(d *Droplet) action {
	cell, ok := e.grid.Get(d.Pos)
	if !ok {
		// Left the defined program area.
		return action{kind: actDestroy}
	}

	sym := cell.Symbol
	switch sym {
	case '!':
		return action{kind: actDestroy}

	case '@', '|', '-':
		return e.advance(d, sym, d.Dir)

	case '/':
		return e.advance(d, sym, reflectSlash(d.Dir))

	case '\\':
		if d.Value.IsZero() {
			// Loop-exit idiom: a zero-valued droplet bounces straight back.
			return e.advance(d, sym, d.Dir.Opposite())
		}
		return e.advance(d, sym, reflectBackslash(d.Dir))

	case '^':
		return e.advance(d, sym, Up)

	case 'v':
		return e.advance(d, sym, Down)

	case 'C':
		return e.planCall(d)

	case 'R':
		return e.planReturn(d)

	case '?':
		a := e.advance(d, sym, d.Dir)
		if e.grid.Symbol(d.NextPos()) == '?' {
			// Numeric input spans both cells; land past the second '?'.
			a.wide = true
			a.dest = a.dest.Step(d.Dir)
		}
		return a

	default:
		if cell.Operator {
			// Digits, arithmetic, comparisons, stack and reservoir ops,
			// output: apply then advance one cell, direction unchanged.
			return e.advance(d, sym, d.Dir)
		}
		// Unrecognized symbol: defensive fallback, unreachable once the
		// parser has rejected it.
		return action{kind: actDestroy}
	}
}

func (e *Engine) advance(d *Droplet, sym rune, dir Direction) action {
	return action{kind: actAdvance, op: sym, dir: dir, dest: d.Pos.Step(dir)}
}

// planCall decodes the jump target of a 'C' cell from a snapshot of the
// stack: dir-code on top, y below it, x from the droplet value. When the
// target cell does not exist the droplet stays put; the operands are still
// consumed at commit time.
func (e *Engine) planCall(d *Droplet) action {
	dirCode := e.stack.PeekAt(0)
	y := e.stack.PeekAt(1)
	target := Coord(int(d.Value.Int64OrZero()), int(y.Int64OrZero()))

	if _, ok := e.grid.Get(target); !ok {
		return action{kind: actStay, op: 'C'}
	}
	return action{
		kind: actJump,
		op:   'C',
		dir:  DirectionFromCode(dirCode),
		dest: target,
	}
}

// planReturn resolves an 'R' cell against the top call-stack frame. An
// empty call stack makes the return a no-op.
func (e *Engine) planReturn(d *Droplet) action {
	f, ok := e.calls.Peek()
	if !ok {
		return action{kind: actStay, op: 'R'}
	}
	return action{kind: actJump, op: 'R', dir: f.Dir, dest: f.Pos}
}

// commit applies a planned action: side effects first, then movement.
// Commits run serially in droplet list order, which fixes the interleaving
// of output and of shared-state mutation within a tick.
func (e *Engine) commit(d *Droplet, a action) error {
	switch a.kind {
	case actDestroy:
		d.Active = false
		return nil

	case actJump:
		if a.op == 'C' {
			// Operands were only peeked at plan time; consume them now.
			e.stack.Pop()
			e.stack.Pop()
			e.calls.Push(Frame{Pos: d.Pos, Dir: d.Dir})
		} else if _, ok := e.calls.Pop(); !ok {
			// plan saw a frame; nothing between plan and commit may pop it.
			return internalErrorf("droplet %d: return committed with empty call stack", d.ID)
		}
		d.Pos = a.dest
		d.Dir = a.dir
		return nil

	case actStay:
		if a.op == 'C' {
			e.stack.Pop()
			e.stack.Pop()
		}
		return nil
	}

	// actAdvance: effect, then one step.
	e.applyEffect(d, a)
	d.Dir = a.dir
	d.Pos = a.dest
	return nil
}

// applyEffect runs the operator semantics of an advance-style cell against
// the shared state. Flow-control symbols fall through with no effect.
func (e *Engine) applyEffect(d *Droplet, a action) {
	sym := a.op
	if sym >= '0' && sym <= '9' {
		d.Value = NewBigInt(int64(sym - '0'))
		return
	}

	switch sym {
	case ':':
		e.stack.Push(d.Value)
	case ';':
		d.Value = e.stack.Pop()
	case 'd':
		e.stack.Duplicate()

	case 'A':
		b, x := e.stack.Pop(), e.stack.Pop()
		d.Value = x.Add(b)
	case 'S':
		b, x := e.stack.Pop(), e.stack.Pop()
		d.Value = x.Sub(b)
	case 'M':
		b, x := e.stack.Pop(), e.stack.Pop()
		d.Value = x.Mul(b)
	case 'D':
		b, x := e.stack.Pop(), e.stack.Pop()
		d.Value = x.SafeDiv(b)
	case '%':
		b, x := e.stack.Pop(), e.stack.Pop()
		d.Value = x.SafeMod(b)

	case '=':
		b, x := e.stack.Pop(), e.stack.Pop()
		d.Value = boolValue(x.Equal(b))
	case '<':
		b, x := e.stack.Pop(), e.stack.Pop()
		d.Value = boolValue(x.Cmp(b) < 0)
	case '>':
		b, x := e.stack.Pop(), e.stack.Pop()
		d.Value = boolValue(x.Cmp(b) > 0)

	case '+':
		d.Value = d.Value.Inc()
	case '~':
		d.Value = d.Value.Dec()

	case 'G':
		y := e.stack.Pop()
		c := Coord(int(d.Value.Int64OrZero()), int(y.Int64OrZero()))
		d.Value = e.reservoir.Get(c)
	case 'P':
		y := e.stack.Pop()
		c := Coord(int(d.Value.Int64OrZero()), int(y.Int64OrZero()))
		e.reservoir.Put(c, d.Value)

	case ',':
		if r, ok := d.Value.Rune(); ok {
			e.emit(string(r))
		}
	case 'n':
		e.emit(d.Value.String())

	case '?':
		if a.wide {
			d.Value = e.readNumericInput()
		} else {
			d.Value = e.readCharInput()
		}
	}
}

func boolValue(b bool) BigInt {
	if b {
		return One()
	}
	return Zero()
}

// reflectSlash maps travel directions across a '/' mirror.
func reflectSlash(d Direction) Direction {
	switch d {
	case Right:
		return Up
	case Down:
		return Left
	case Left:
		return Down
	default: // Up
		return Right
	}
}

// reflectBackslash maps travel directions across a '\' mirror.
func reflectBackslash(d Direction) Direction {
	switch d {
	case Right:
		return Down
	case Up:
		return Left
	case Left:
		return Up
	default: // Down
		return Right
	}
}
