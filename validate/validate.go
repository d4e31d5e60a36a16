// Command validate checks the scenario files of a directory (../scenarios by
// default). For each .json, .yaml or .yml file it checks:
//   - syntax and the scenario schema
//   - environment rules: grid size, start cell, painted cells and walls on the grid
//   - walls joining cells that do not share a side (warning, such walls never block)
//   - cells the robot can never reach from the start (warning)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

// maxListed caps how many cells a warning lists
const maxListed = 5

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

// validateScenario loads and validates a single scenario file
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	format := config.FormatFromFilename(filePath)
	if format == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Unsupported file extension")
		return result
	}

	sc, err := config.ParseScenario(data, format)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	eng, err := engine.New(sc.NewEnv(func(string) {}), engine.WithActionLimit(engine.Unbounded))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, i := range engine.NonAdjacentWalls(&sc.Env) {
		w := sc.Walls[i]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Wall %d joins (%d,%d) and (%d,%d), which are not neighbours",
			i, w[0].Row, w[0].Col, w[1].Row, w[1].Col))
	}

	start := engine.Cell{Row: sc.StartRow, Col: sc.StartCol}
	reachable := eng.Distances(start)
	total := sc.Width * sc.Height
	if unreachable := unreachableCells(sc.Width, sc.Height, reachable); len(unreachable) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d/%d cells unreachable from start: %s",
			len(unreachable), total, formatCells(unreachable)))
	}

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", sc.Name),
		fmt.Sprintf("✓ Grid: %dx%d", sc.Width, sc.Height),
		fmt.Sprintf("✓ Start: (%d,%d)", sc.StartRow, sc.StartCol),
		fmt.Sprintf("✓ Walls: %d", len(sc.Walls)),
		fmt.Sprintf("✓ Painted cells: %d", len(sc.PaintedCells)),
		fmt.Sprintf("✓ Reachable cells: %d/%d", len(reachable), total),
	)

	return result
}

func unreachableCells(width, height int, reachable map[engine.Cell]int) []engine.Cell {
	var cells []engine.Cell
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			cell := engine.Cell{Row: r, Col: c}
			if _, ok := reachable[cell]; !ok {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

func formatCells(cells []engine.Cell) string {
	parts := make([]string, 0, maxListed)
	for i, c := range cells {
		if i == maxListed {
			parts = append(parts, fmt.Sprintf("... and %d more", len(cells)-maxListed))
			break
		}
		parts = append(parts, fmt.Sprintf("(%d,%d)", c.Row, c.Col))
	}
	return strings.Join(parts, ", ")
}

// scenarioFiles lists the scenario files of dir in name order
func scenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || config.FormatFromFilename(entry.Name()) == "" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// run validates every scenario in dir, prints a report and reports whether all were valid
func run(dir string, out io.Writer) (bool, error) {
	files, err := scenarioFiles(dir)
	if err != nil {
		return false, fmt.Errorf("error finding scenario files: %w", err)
	}

	allValid := true
	for _, file := range files {
		result := validateScenario(file)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(out, "  ❌ "+e)
			}
		}
		for _, w := range result.Warnings {
			fmt.Fprintln(out, "  ⚠️  "+w)
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintf(out, "✅ All %d scenarios are valid!\n", len(files))
	} else {
		fmt.Fprintln(out, "❌ Some scenarios have errors")
	}
	return allValid, nil
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Validate the scenario files of a directory",
		ArgsUsage: "[DIR]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := "../scenarios"
			if cmd.Args().Present() {
				dir = cmd.Args().First()
			}

			ok, err := run(dir, os.Stdout)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
