// Package mcp provides the Model Context Protocol server for Robot Grid.
//
// The server holds no robot state. Every tool calls the REST API
// served by the api package and turns the JSON response into text
// an agent can read.
//
// MCP Tools:
//   - create_session: Create a session, optionally on a named scenario
//   - list_sessions: List active sessions
//   - list_scenarios: List scenarios from the scenario directory
//   - robot_state: ASCII map, position, paint and action count
//   - robot_call: Run one operation, optionally after a reset
//   - robot_run: Run a program of operations, stopping at the first failure
//   - reset_env: Restore the scenario's start
//   - robot_events: Paginated action history
//   - robot_operations: List operation names and kinds
//
// Transport Modes:
//
// The same server is served over stdio (the "mcp" command) or mounted
// over HTTP at /mcp by the "serve" command.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
