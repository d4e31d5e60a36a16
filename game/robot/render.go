package robot

import (
	"strings"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

// Map symbols used by Render
const (
	SymbolRobot        = 'R'
	SymbolRobotPainted = '@'
	SymbolPainted      = '*'
	SymbolEmpty        = '.'
)

// Render draws the grid as text. Walls between side-by-side cells are drawn
// as '|', walls between stacked cells as '-'. Walls joining non-adjacent
// cells cannot be drawn and are skipped.
//
//	+-----+
//	|. .|*|
//	|-    |
//	|R . .|
//	+-----+
func Render(state engine.State, walls []engine.Wall) string {
	if state.Width <= 0 || state.Height <= 0 {
		return ""
	}

	wallSet := make(map[[2]engine.Cell]bool, 2*len(walls))
	for _, w := range walls {
		if len(w) != 2 {
			continue
		}
		wallSet[[2]engine.Cell{w[0], w[1]}] = true
		wallSet[[2]engine.Cell{w[1], w[0]}] = true
	}
	painted := make(map[engine.Cell]bool, len(state.PaintedCells))
	for _, c := range state.PaintedCells {
		painted[c] = true
	}

	lineWidth := 2*state.Width - 1
	border := "+" + strings.Repeat("-", lineWidth) + "+\n"

	var b strings.Builder
	b.WriteString(border)
	for r := 0; r < state.Height; r++ {
		b.WriteByte('|')
		for c := 0; c < state.Width; c++ {
			cell := engine.Cell{Row: r, Col: c}
			switch {
			case cell == state.Position && painted[cell]:
				b.WriteByte(SymbolRobotPainted)
			case cell == state.Position:
				b.WriteByte(SymbolRobot)
			case painted[cell]:
				b.WriteByte(SymbolPainted)
			default:
				b.WriteByte(SymbolEmpty)
			}
			if c < state.Width-1 {
				if wallSet[[2]engine.Cell{cell, {Row: r, Col: c + 1}}] {
					b.WriteByte('|')
				} else {
					b.WriteByte(' ')
				}
			}
		}
		b.WriteString("|\n")

		if r == state.Height-1 {
			continue
		}
		line := make([]byte, lineWidth)
		for i := range line {
			line[i] = ' '
		}
		hasWall := false
		for c := 0; c < state.Width; c++ {
			if wallSet[[2]engine.Cell{{Row: r, Col: c}, {Row: r + 1, Col: c}}] {
				line[2*c] = '-'
				hasWall = true
			}
		}
		if hasWall {
			b.WriteByte('|')
			b.Write(line)
			b.WriteString("|\n")
		}
	}
	b.WriteString(border)
	return b.String()
}
