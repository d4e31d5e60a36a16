package main

import (
	"log"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/robot"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

// Caller runs one robot operation
type Caller interface {
	Call(op string) (*service.CallResult, error)
}

// SweepStats counts what a sweep did
type SweepStats struct {
	Visited int
	Painted int
	Moves   int
	Queries int
}

// Painter walks the grid depth first and paints every unpainted cell.
// It never reads the map: walls are discovered with free_from_* queries
// and the position is tracked locally from successful moves.
type Painter struct {
	caller  Caller
	pos     engine.Cell
	visited map[engine.Cell]bool
	stats   SweepStats
	verbose bool
}

// sweepOrder is the order directions are tried from each cell
var sweepOrder = []engine.Direction{engine.Right, engine.Down, engine.Left, engine.Up}

var freeQuery = map[engine.Direction]string{
	engine.Right: robot.OpFreeFromRight,
	engine.Left:  robot.OpFreeFromLeft,
	engine.Up:    robot.OpFreeFromUp,
	engine.Down:  robot.OpFreeFromDown,
}

var opposite = map[engine.Direction]engine.Direction{
	engine.Right: engine.Left,
	engine.Left:  engine.Right,
	engine.Up:    engine.Down,
	engine.Down:  engine.Up,
}

// NewPainter creates a painter for a robot standing at start
func NewPainter(caller Caller, start engine.Cell) *Painter {
	return &Painter{
		caller:  caller,
		pos:     start,
		visited: make(map[engine.Cell]bool),
	}
}

// Sweep paints every reachable cell and returns to the start.
// It stops at the first failed operation.
func (p *Painter) Sweep() (SweepStats, error) {
	err := p.visit()
	return p.stats, err
}

func (p *Painter) visit() error {
	p.visited[p.pos] = true
	p.stats.Visited++

	unpainted, err := p.query(robot.OpCellIsUnpainted)
	if err != nil {
		return err
	}
	if unpainted {
		if _, err := p.caller.Call(robot.OpPaint); err != nil {
			return err
		}
		p.stats.Painted++
	}

	for _, d := range sweepOrder {
		next := p.pos.Step(d)
		if p.visited[next] {
			continue
		}
		free, err := p.query(freeQuery[d])
		if err != nil {
			return err
		}
		if !free {
			continue
		}

		if err := p.move(d); err != nil {
			return err
		}
		if err := p.visit(); err != nil {
			return err
		}
		if err := p.move(opposite[d]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Painter) move(d engine.Direction) error {
	if _, err := p.caller.Call(string(d)); err != nil {
		return err
	}
	p.pos = p.pos.Step(d)
	p.stats.Moves++
	if p.verbose {
		log.Printf("%s -> (%d,%d)", d, p.pos.Row, p.pos.Col)
	}
	return nil
}

func (p *Painter) query(op string) (bool, error) {
	result, err := p.caller.Call(op)
	if err != nil {
		return false, err
	}
	p.stats.Queries++
	return result.Value != nil && *result.Value, nil
}
