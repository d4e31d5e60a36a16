// Package config loads robot scenarios from a directory of JSON and YAML files.
//
// A scenario file holds an environment descriptor plus a display name and
// description:
//
//	name: Corridor
//	width: 5
//	height: 1
//	start_row: 0
//	start_col: 0
//	walls:
//	  - [{r: 0, c: 3}, {r: 0, c: 4}]
//	painted_cells:
//	  - {r: 0, c: 2}
//
// YAML documents are converted to JSON, checked against the embedded
// scenario.schema.json for shape, and then checked by engine.Validate for
// bounds. The scenario ID is the file name without its extension.
//
// Usage:
//
//	manager, err := config.NewManager("scenarios")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sc, err := manager.LoadScenario("classic")
//	scenarios, err := manager.ListScenarios()
//	def := manager.GetDefault()
//
// The default scenario is "classic" when present, otherwise the first valid
// file, otherwise a built-in 3x2 grid.
package config
