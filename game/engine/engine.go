package engine

import "sort"

// edge is a directed crossing between two cells
type edge struct {
	from, to Cell
}

// Engine owns the live simulation state built from an Env
type Engine struct {
	env   *Env
	limit int

	pos         Cell
	painted     map[Cell]struct{}
	walls       map[edge]struct{}
	actionsDone int
	crash       *Error
}

// Option configures an Engine
type Option func(*Engine)

// WithActionLimit sets the action budget. n <= 0 disables it.
func WithActionLimit(n int) Option {
	return func(e *Engine) {
		if n < 0 {
			n = Unbounded
		}
		e.limit = n
	}
}

// New validates env and builds an engine from a copy of it
func New(env *Env, opts ...Option) (*Engine, error) {
	if err := Validate(env); err != nil {
		return nil, err
	}

	e := &Engine{
		env:   env.Clone(),
		limit: DefaultActionLimit,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.ResetEnv()
	return e, nil
}

// ResetEnv rebuilds the live state from the current Env
func (e *Engine) ResetEnv() {
	e.actionsDone = 0
	e.crash = nil

	e.walls = make(map[edge]struct{}, 2*len(e.env.Walls))
	for _, w := range e.env.Walls {
		e.walls[edge{w[0], w[1]}] = struct{}{}
		e.walls[edge{w[1], w[0]}] = struct{}{}
	}

	e.painted = make(map[Cell]struct{}, len(e.env.PaintedCells))
	for _, c := range e.env.PaintedCells {
		e.painted[c] = struct{}{}
	}

	e.pos = Cell{Row: e.env.StartRow, Col: e.env.StartCol}
}

// SetEnv validates env, swaps a copy of it in and resets.
// It is the only way to change the descriptor ResetEnv rebuilds from.
func (e *Engine) SetEnv(env *Env) error {
	if err := Validate(env); err != nil {
		return err
	}
	e.env = env.Clone()
	e.ResetEnv()
	return nil
}

// Env returns a copy of the environment the engine resets from
func (e *Engine) Env() *Env {
	return e.env.Clone()
}

// Position returns the robot's current cell
func (e *Engine) Position() Cell {
	return e.pos
}

// ActionsDone returns the number of mutating actions since the last reset
func (e *Engine) ActionsDone() int {
	return e.actionsDone
}

// ActionLimit returns the action budget, Unbounded when disabled
func (e *Engine) ActionLimit() int {
	return e.limit
}

// Crashed returns the error that ended the current run, or nil
func (e *Engine) Crashed() error {
	if e.crash == nil {
		return nil
	}
	return e.crash
}

// IsPainted reports whether c is painted
func (e *Engine) IsPainted(c Cell) bool {
	_, ok := e.painted[c]
	return ok
}

// PaintedCells returns the painted cells in row-major order
func (e *Engine) PaintedCells() []Cell {
	cells := make([]Cell, 0, len(e.painted))
	for c := range e.painted {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}

// State returns a snapshot of the live state
func (e *Engine) State() State {
	s := State{
		Width:        e.env.Width,
		Height:       e.env.Height,
		Position:     e.pos,
		PaintedCells: e.PaintedCells(),
		ActionsDone:  e.actionsDone,
		ActionLimit:  e.limit,
		Crashed:      e.crash != nil,
	}
	if e.crash != nil {
		s.CrashReason = e.crash.Msg
	}
	return s
}
