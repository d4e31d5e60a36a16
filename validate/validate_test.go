package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateScenario_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "classic.json", `{
		"name": "Classic",
		"width": 3,
		"height": 2,
		"start_row": 1,
		"start_col": 0,
		"walls": [[{"r": 0, "c": 0}, {"r": 0, "c": 1}]],
		"painted_cells": [{"r": 1, "c": 2}]
	}`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected valid scenario, but got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}

	info := strings.Join(result.Info, "\n")
	for _, want := range []string{"Name: Classic", "Grid: 3x2", "Start: (1,0)", "Walls: 1", "Reachable cells: 6/6"} {
		if !strings.Contains(info, want) {
			t.Errorf("Expected %q in info:\n%s", want, info)
		}
	}
}

func TestValidateScenario_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "corridor.yaml", `
name: Corridor
width: 4
height: 1
start_row: 0
start_col: 0
painted_cells:
  - {r: 0, c: 3}
`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected valid YAML scenario, got errors: %v", result.Errors)
	}
}

func TestValidateScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errPart string
	}{
		{
			name:    "malformed json",
			file:    "bad.json",
			content: `{"width": 3,`,
			errPart: "",
		},
		{
			name:    "missing start",
			file:    "nostart.json",
			content: `{"width": 3, "height": 2}`,
			errPart: "start_row",
		},
		{
			name:    "start off grid",
			file:    "offgrid.json",
			content: `{"width": 3, "height": 2, "start_row": 2, "start_col": 0}`,
			errPart: "wrong startRow",
		},
		{
			name:    "wall off grid",
			file:    "wall.json",
			content: `{"width": 3, "height": 2, "start_row": 0, "start_col": 0, "walls": [[{"r": 0, "c": 0}, {"r": 0, "c": 3}]]}`,
			errPart: "wrong cell c (wall number: 0)",
		},
		{
			name:    "unsupported extension",
			file:    "notes.txt",
			content: `width: 3`,
			errPart: "Unsupported file extension",
		},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateScenario(writeFile(t, dir, tt.file, tt.content))
			if result.Valid {
				t.Fatal("Expected invalid scenario")
			}
			if len(result.Errors) == 0 {
				t.Fatal("Expected errors")
			}
			if tt.errPart != "" && !strings.Contains(result.Errors[0], tt.errPart) {
				t.Errorf("Expected error containing %q, got %v", tt.errPart, result.Errors)
			}
		})
	}
}

func TestValidateScenario_MissingFile(t *testing.T) {
	result := validateScenario(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Error("Expected missing file to be invalid")
	}
}

func TestValidateScenario_Warnings(t *testing.T) {
	// The robot is boxed into the left column; wall 2 joins diagonal cells.
	path := writeFile(t, t.TempDir(), "boxed.json", `{
		"width": 2,
		"height": 2,
		"start_row": 0,
		"start_col": 0,
		"walls": [
			[{"r": 0, "c": 0}, {"r": 0, "c": 1}],
			[{"r": 1, "c": 0}, {"r": 1, "c": 1}],
			[{"r": 0, "c": 0}, {"r": 1, "c": 1}]
		]
	}`)

	result := validateScenario(path)
	if !result.Valid {
		t.Fatalf("Expected warnings only, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "Wall 2 joins (0,0) and (1,1)") {
		t.Errorf("Unexpected wall warning: %s", result.Warnings[0])
	}
	if !strings.Contains(result.Warnings[1], "2/4 cells unreachable from start: (0,1), (1,1)") {
		t.Errorf("Unexpected reachability warning: %s", result.Warnings[1])
	}
}

func TestFormatCells_Truncates(t *testing.T) {
	cells := unreachableCells(4, 2, nil)
	got := formatCells(cells)
	if !strings.HasSuffix(got, "... and 3 more") {
		t.Errorf("Expected truncated list, got %s", got)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"width": 2, "height": 1, "start_row": 0, "start_col": 0}`)
	writeFile(t, dir, "b.yml", "width: 1\nheight: 1\nstart_row: 0\nstart_col: 0\n")
	writeFile(t, dir, "README.md", "not a scenario")

	var out bytes.Buffer
	ok, err := run(dir, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !ok {
		t.Errorf("Expected all scenarios valid:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "All 2 scenarios are valid") {
		t.Errorf("Unexpected report:\n%s", out.String())
	}

	writeFile(t, dir, "c.json", `{"width": 0, "height": 1, "start_row": 0, "start_col": 0}`)
	out.Reset()
	ok, err = run(dir, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if ok {
		t.Error("Expected an invalid scenario to fail the run")
	}
	if !strings.Contains(out.String(), "❌ INVALID") {
		t.Errorf("Expected INVALID in report:\n%s", out.String())
	}
}

func TestRun_MissingDir(t *testing.T) {
	var out bytes.Buffer
	if _, err := run(filepath.Join(t.TempDir(), "nope"), &out); err == nil {
		t.Error("Expected error for missing directory")
	}
}
