// Package engine provides the core simulation for the robot grid world.
//
// The engine package implements:
//   - Grid geometry and boundary checks
//   - Walls between neighbouring cells and collision queries
//   - The painted-cell marking layer
//   - An action budget that stops runaway programs
//
// Core Types:
//
// Env describes a scenario: grid size, start position, walls, initially
// painted cells and the Action callback notified after every mutating action.
// Validate checks an Env before it is used. Engine owns the live state built
// from a validated Env and exposes the robot operations as methods.
//
// Usage:
//
//	env := engine.DefaultEnv()
//	env.Walls = []engine.Wall{{{Row: 0, Col: 0}, {Row: 0, Col: 1}}}
//
//	e, err := engine.New(env, engine.WithActionLimit(50))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if e.FreeFromRight() {
//		err = e.Right()
//	}
//	_ = e.Paint()
//	state := e.State()
//
// Failures:
//
// Every failure is an *Error carrying a Kind. Illegal moves leave the robot
// where it was; exceeding the action budget is reported after the action that
// exceeded it has taken effect. Both crash the run: further mutating actions
// return the same error until ResetEnv is called. Queries keep answering.
//
// An Engine is not safe for concurrent use and the Action callback must not
// call back into the Engine that invoked it.
package engine
