// Package robot exposes an engine.Engine as a table of named, zero-argument
// operations, the shape a scripting host binds into its own function objects.
package robot

import (
	"sort"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

// Operation names
const (
	OpRight           = "right"
	OpLeft            = "left"
	OpUp              = "up"
	OpDown            = "down"
	OpPaint           = "paint"
	OpCellIsPainted   = "cell_is_painted"
	OpCellIsUnpainted = "cell_is_unpainted"
	OpWallFromRight   = "wall_from_right"
	OpWallFromLeft    = "wall_from_left"
	OpWallFromUp      = "wall_from_up"
	OpWallFromDown    = "wall_from_down"
	OpFreeFromRight   = "free_from_right"
	OpFreeFromLeft    = "free_from_left"
	OpFreeFromUp      = "free_from_up"
	OpFreeFromDown    = "free_from_down"
	OpResetEnv        = "resetEnv"
)

// OpKind tells what an operation returns
type OpKind string

const (
	// Action operations mutate state and count against the action budget
	Action OpKind = "action"
	// Query operations return a boolean and never fail
	Query OpKind = "query"
	// Control operations manage the run itself
	Control OpKind = "control"
)

// Operation is one entry of the call surface
type Operation struct {
	Name string `json:"name"`
	Kind OpKind `json:"kind"`

	action func(e *engine.Engine) error
	query  func(e *engine.Engine) bool
}

// Result is the outcome of a successful call. Value is set for queries only.
type Result struct {
	Op    string `json:"op"`
	Value *bool  `json:"value,omitempty"`
}

var operations = map[string]Operation{
	OpRight: {Name: OpRight, Kind: Action, action: (*engine.Engine).Right},
	OpLeft:  {Name: OpLeft, Kind: Action, action: (*engine.Engine).Left},
	OpUp:    {Name: OpUp, Kind: Action, action: (*engine.Engine).Up},
	OpDown:  {Name: OpDown, Kind: Action, action: (*engine.Engine).Down},
	OpPaint: {Name: OpPaint, Kind: Action, action: (*engine.Engine).Paint},

	OpCellIsPainted:   {Name: OpCellIsPainted, Kind: Query, query: (*engine.Engine).CellIsPainted},
	OpCellIsUnpainted: {Name: OpCellIsUnpainted, Kind: Query, query: (*engine.Engine).CellIsUnpainted},
	OpWallFromRight:   {Name: OpWallFromRight, Kind: Query, query: (*engine.Engine).WallFromRight},
	OpWallFromLeft:    {Name: OpWallFromLeft, Kind: Query, query: (*engine.Engine).WallFromLeft},
	OpWallFromUp:      {Name: OpWallFromUp, Kind: Query, query: (*engine.Engine).WallFromUp},
	OpWallFromDown:    {Name: OpWallFromDown, Kind: Query, query: (*engine.Engine).WallFromDown},
	OpFreeFromRight:   {Name: OpFreeFromRight, Kind: Query, query: (*engine.Engine).FreeFromRight},
	OpFreeFromLeft:    {Name: OpFreeFromLeft, Kind: Query, query: (*engine.Engine).FreeFromLeft},
	OpFreeFromUp:      {Name: OpFreeFromUp, Kind: Query, query: (*engine.Engine).FreeFromUp},
	OpFreeFromDown:    {Name: OpFreeFromDown, Kind: Query, query: (*engine.Engine).FreeFromDown},

	OpResetEnv: {Name: OpResetEnv, Kind: Control, action: func(e *engine.Engine) error {
		e.ResetEnv()
		return nil
	}},
}

// Operations returns every operation sorted by name
func Operations() []Operation {
	ops := make([]Operation, 0, len(operations))
	for _, op := range operations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// Lookup returns the named operation
func Lookup(name string) (Operation, bool) {
	op, ok := operations[name]
	return op, ok
}

// Module binds the operation table to one engine
type Module struct {
	engine *engine.Engine
}

// New creates a module for e
func New(e *engine.Engine) *Module {
	return &Module{engine: e}
}

// Engine returns the bound engine
func (m *Module) Engine() *engine.Engine {
	return m.engine
}

// Names returns the operation names sorted
func (m *Module) Names() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes the named operation. Operations take no arguments.
func (m *Module) Call(name string, args ...any) (Result, error) {
	op, ok := operations[name]
	if !ok {
		return Result{Op: name}, engine.BadCall(name, "unknown operation")
	}
	if len(args) != 0 {
		return Result{Op: name}, engine.BadCall(name, "%s() takes exactly 0 arguments (%d given)", name, len(args))
	}

	if op.query != nil {
		v := op.query(m.engine)
		return Result{Op: name, Value: &v}, nil
	}
	return Result{Op: name}, op.action(m.engine)
}

// Step is one executed entry of a program trace
type Step struct {
	Idx      int         `json:"idx"`
	Op       string      `json:"op"`
	From     engine.Cell `json:"from"`
	To       engine.Cell `json:"to"`
	Value    *bool       `json:"value,omitempty"`
	Success  bool        `json:"success"`
	ErrorMsg string      `json:"error,omitempty"`
}

// Exec runs ops in order and stops at the first failure.
// The returned trace includes the failing step.
func (m *Module) Exec(ops []string) ([]Step, error) {
	steps := make([]Step, 0, len(ops))
	for i, name := range ops {
		from := m.engine.Position()
		res, err := m.Call(name)
		step := Step{
			Idx:     i + 1,
			Op:      name,
			From:    from,
			To:      m.engine.Position(),
			Value:   res.Value,
			Success: err == nil,
		}
		if err != nil {
			step.ErrorMsg = err.Error()
			steps = append(steps, step)
			return steps, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}
