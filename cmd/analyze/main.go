// Command analyze prints quick, human-readable heuristics about the scenario
// files in the project's scenarios directory. It summarizes dimensions, walls
// and reachability from the start cell, draws a distance map and compares a
// lower bound on the actions needed to paint every reachable cell with the
// action limit.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

// Analysis holds the heuristics computed for one scenario
type Analysis struct {
	Name             string
	Width, Height    int
	Start            engine.Cell
	Walls            int
	NonAdjacentWalls int
	DuplicateWalls   int
	Painted          int
	Distances        map[engine.Cell]int
	Farthest         engine.Cell
	FarthestDistance int
	DeadEnds         int
	// PaintAllBound is the fewest actions that could paint every reachable cell.
	PaintAllBound int
}

// analyzeScenario computes the heuristics for sc
func analyzeScenario(sc *service.Scenario) (*Analysis, error) {
	eng, err := engine.New(sc.NewEnv(func(string) {}), engine.WithActionLimit(engine.Unbounded))
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:             sc.Name,
		Width:            sc.Width,
		Height:           sc.Height,
		Start:            engine.Cell{Row: sc.StartRow, Col: sc.StartCol},
		Walls:            len(sc.Walls),
		NonAdjacentWalls: len(engine.NonAdjacentWalls(&sc.Env)),
		Painted:          len(sc.PaintedCells),
	}

	seen := map[[2]engine.Cell]bool{}
	for _, w := range sc.Walls {
		key := [2]engine.Cell{w[0], w[1]}
		if w[1].Row < w[0].Row || (w[1].Row == w[0].Row && w[1].Col < w[0].Col) {
			key = [2]engine.Cell{w[1], w[0]}
		}
		if seen[key] {
			a.DuplicateWalls++
		}
		seen[key] = true
	}

	a.Distances = eng.Distances(a.Start)
	a.Farthest = a.Start
	for cell, d := range a.Distances {
		if d > a.FarthestDistance || (d == a.FarthestDistance && less(cell, a.Farthest)) {
			a.Farthest, a.FarthestDistance = cell, d
		}

		open := 0
		for _, dir := range engine.Directions {
			if !eng.Blocked(cell, cell.Step(dir)) {
				open++
			}
		}
		if open == 1 {
			a.DeadEnds++
		}
	}

	// Every reachable cell needs one paint and every cell after the first one move.
	if n := len(a.Distances); n > 0 {
		a.PaintAllBound = 2*n - 1
	}

	return a, nil
}

func less(a, b engine.Cell) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// distanceMap draws the moves needed to reach each cell, "S" at the start and "#" where unreachable
func (a *Analysis) distanceMap() string {
	var b strings.Builder
	for r := 0; r < a.Height; r++ {
		cells := make([]string, a.Width)
		for c := 0; c < a.Width; c++ {
			cell := engine.Cell{Row: r, Col: c}
			d, ok := a.Distances[cell]
			switch {
			case cell == a.Start:
				cells[c] = "  S"
			case !ok:
				cells[c] = "  #"
			default:
				cells[c] = fmt.Sprintf("%3d", d)
			}
		}
		b.WriteString(strings.Join(cells, "") + "\n")
	}
	return b.String()
}

func printAnalysis(out io.Writer, a *Analysis, actionLimit int) {
	total := a.Width * a.Height

	fmt.Fprintf(out, "Name: %s\n", a.Name)
	fmt.Fprintf(out, "Grid Size: %d x %d\n", a.Width, a.Height)
	fmt.Fprintf(out, "Start: (%d, %d)\n", a.Start.Row, a.Start.Col)
	fmt.Fprintf(out, "Walls: %d\n", a.Walls)
	fmt.Fprintf(out, "Painted Cells: %d\n", a.Painted)
	fmt.Fprintf(out, "Reachable Cells: %d/%d\n", len(a.Distances), total)
	fmt.Fprintf(out, "Farthest Cell: (%d, %d) at %d moves\n", a.Farthest.Row, a.Farthest.Col, a.FarthestDistance)
	fmt.Fprintf(out, "Dead Ends: %d\n", a.DeadEnds)
	fmt.Fprint(out, a.distanceMap())

	if a.NonAdjacentWalls > 0 {
		fmt.Fprintf(out, "⚠️  WARNING: %d walls join cells that are not neighbours and never block\n", a.NonAdjacentWalls)
	}
	if a.DuplicateWalls > 0 {
		fmt.Fprintf(out, "⚠️  WARNING: %d walls are listed more than once\n", a.DuplicateWalls)
	}
	if len(a.Distances) < total {
		fmt.Fprintf(out, "⚠️  WARNING: %d cells are unreachable from the start\n", total-len(a.Distances))
	} else {
		fmt.Fprintf(out, "✅ Every cell is reachable from the start\n")
	}

	switch {
	case actionLimit <= 0:
		fmt.Fprintf(out, "✅ No action limit\n")
	case a.PaintAllBound > actionLimit:
		fmt.Fprintf(out, "⚠️  CRITICAL: painting every reachable cell needs at least %d actions, limit is %d\n", a.PaintAllBound, actionLimit)
	default:
		fmt.Fprintf(out, "✅ Painting every reachable cell needs at least %d of %d actions\n", a.PaintAllBound, actionLimit)
	}
}

func analyzeFile(out io.Writer, path string, actionLimit int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	sc, err := config.ParseScenario(data, config.FormatFromFilename(path))
	if err != nil {
		return err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	a, err := analyzeScenario(sc)
	if err != nil {
		return err
	}
	printAnalysis(out, a, actionLimit)
	return nil
}

// scenarioPaths expands the arguments into scenario files; directories are searched one level deep
func scenarioPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && config.FormatFromFilename(entry.Name()) != "" {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Print reachability heuristics for scenario files",
		ArgsUsage: "[FILE|DIR...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "actions-limit",
				Usage:   "Action limit to compare against (0 disables the check)",
				Value:   engine.DefaultActionLimit,
				Sources: cli.EnvVars("ROBOT_ACTIONS_LIMIT"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				args = []string{"scenarios"}
			}

			paths, err := scenarioPaths(args)
			if err != nil {
				return err
			}

			for _, path := range paths {
				fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(path))
				if err := analyzeFile(os.Stdout, path, cmd.Int("actions-limit")); err != nil {
					fmt.Printf("Error: %v\n", err)
				}
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
