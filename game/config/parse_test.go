package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
)

func TestFormatFromFilename(t *testing.T) {
	tests := map[string]string{
		"a.json":     FormatJSON,
		"a.JSON":     FormatJSON,
		"a.yaml":     FormatYAML,
		"a.yml":      FormatYAML,
		"a.txt":      "",
		"classic":    "",
		"json":       "",
		"dir/x.yaml": FormatYAML,
	}
	for name, want := range tests {
		assert.Equal(t, want, FormatFromFilename(name), name)
	}
}

func TestParseScenario(t *testing.T) {
	t.Run("json and yaml agree", func(t *testing.T) {
		fromJSON, err := ParseScenario([]byte(`{
			"name": "Corridor",
			"description": "One row with a wall near the end",
			"width": 5, "height": 1, "start_row": 0, "start_col": 0,
			"walls": [[{"r": 0, "c": 3}, {"r": 0, "c": 4}]],
			"painted_cells": [{"r": 0, "c": 2}]
		}`), FormatJSON)
		require.NoError(t, err)

		fromYAML, err := ParseScenario([]byte(corridorYAML), FormatYAML)
		require.NoError(t, err)

		assert.Equal(t, fromJSON, fromYAML)
		assert.Nil(t, fromYAML.Action)
	})

	t.Run("parsed scenario builds an engine", func(t *testing.T) {
		sc, err := ParseScenario([]byte(corridorYAML), FormatYAML)
		require.NoError(t, err)

		var actions []string
		e, err := engine.New(sc.NewEnv(func(name string) { actions = append(actions, name) }))
		require.NoError(t, err)
		require.NoError(t, e.Right())
		require.NoError(t, e.Right())
		assert.True(t, e.CellIsPainted())
		require.NoError(t, e.Right())
		assert.True(t, e.WallFromRight())
		assert.Equal(t, []string{"right", "right", "right"}, actions)
	})

	failures := []struct {
		name   string
		data   string
		format string
		want   string
	}{
		{"unsupported format", `{}`, "toml", "unsupported format"},
		{"bad json", `{`, FormatJSON, "failed to parse json"},
		{"bad yaml", "width: [", FormatYAML, "failed to parse yaml"},
		{"missing width", `{"height": 1, "start_row": 0, "start_col": 0}`, FormatJSON, "width"},
		{"string width", `{"width": "3", "height": 1, "start_row": 0, "start_col": 0}`, FormatJSON, "width"},
		{"fractional height", `{"width": 3, "height": 1.5, "start_row": 0, "start_col": 0}`, FormatJSON, "height"},
		{"unknown field", `{"width": 3, "height": 1, "start_row": 0, "start_col": 0, "startRow": 0}`, FormatJSON, "startRow"},
		{"cell without c", `{"width": 3, "height": 1, "start_row": 0, "start_col": 0, "painted_cells": [{"r": 0}]}`, FormatJSON, "c"},
		{"out of bounds start", `{"width": 3, "height": 1, "start_row": 1, "start_col": 0}`, FormatJSON, "wrong startRow"},
		{"short wall", "width: 3\nheight: 1\nstart_row: 0\nstart_col: 0\nwalls:\n  - [{r: 0, c: 0}]\n", FormatYAML, "wrong wall, number: 0"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidScenario)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
