package engine

// Blocked reports whether moving from one cell to another is forbidden.
// Targets off the grid are blocked, then the directed wall index is consulted.
// Every move and every wall/free query goes through here.
func (e *Engine) Blocked(from, to Cell) bool {
	if !e.env.InBounds(to) {
		return true
	}
	_, wall := e.walls[edge{from, to}]
	return wall
}

// WallFrom reports whether moving in direction d would be blocked
func (e *Engine) WallFrom(d Direction) bool {
	return e.Blocked(e.pos, e.pos.Step(d))
}

// FreeFrom reports whether moving in direction d would succeed
func (e *Engine) FreeFrom(d Direction) bool {
	return !e.WallFrom(d)
}

// Move moves the robot one cell in direction d
func (e *Engine) Move(d Direction) error {
	if !d.Valid() {
		return BadCall(string(d), "unknown direction")
	}
	return e.perform(string(d), func() *Error {
		to := e.pos.Step(d)
		if e.Blocked(e.pos, to) {
			return &Error{Kind: KindIllegalMove, Op: string(d), Msg: "an attempt to walk through a wall", Index: -1}
		}
		e.pos = to
		return nil
	})
}

// Paint marks the current cell. Painting a painted cell is a no-op apart from counting.
func (e *Engine) Paint() error {
	return e.perform(ActionPaint, func() *Error {
		e.painted[e.pos] = struct{}{}
		return nil
	})
}

// perform runs a mutating action: effect, callback, then the budget check.
func (e *Engine) perform(name string, effect func() *Error) error {
	if e.crash != nil {
		return e.crash
	}

	if err := effect(); err != nil {
		e.crash = err
		return err
	}

	e.env.Action(name)

	e.actionsDone++
	if e.limit > 0 && e.actionsDone > e.limit {
		e.crash = &Error{Kind: KindActionLimit, Op: name, Msg: "too many actions", Index: -1}
		return e.crash
	}
	return nil
}

// Right moves the robot one column right
func (e *Engine) Right() error { return e.Move(Right) }

// Left moves the robot one column left
func (e *Engine) Left() error { return e.Move(Left) }

// Up moves the robot one row up
func (e *Engine) Up() error { return e.Move(Up) }

// Down moves the robot one row down
func (e *Engine) Down() error { return e.Move(Down) }

// CellIsPainted reports whether the robot stands on a painted cell
func (e *Engine) CellIsPainted() bool {
	return e.IsPainted(e.pos)
}

// CellIsUnpainted reports whether the robot stands on an unpainted cell
func (e *Engine) CellIsUnpainted() bool {
	return !e.IsPainted(e.pos)
}

// WallFromRight reports whether the way right is blocked
func (e *Engine) WallFromRight() bool { return e.WallFrom(Right) }

// WallFromLeft reports whether the way left is blocked
func (e *Engine) WallFromLeft() bool { return e.WallFrom(Left) }

// WallFromUp reports whether the way up is blocked
func (e *Engine) WallFromUp() bool { return e.WallFrom(Up) }

// WallFromDown reports whether the way down is blocked
func (e *Engine) WallFromDown() bool { return e.WallFrom(Down) }

// FreeFromRight reports whether the robot can move right
func (e *Engine) FreeFromRight() bool { return e.FreeFrom(Right) }

// FreeFromLeft reports whether the robot can move left
func (e *Engine) FreeFromLeft() bool { return e.FreeFrom(Left) }

// FreeFromUp reports whether the robot can move up
func (e *Engine) FreeFromUp() bool { return e.FreeFrom(Up) }

// FreeFromDown reports whether the robot can move down
func (e *Engine) FreeFromDown() bool { return e.FreeFrom(Down) }
