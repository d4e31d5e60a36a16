// Package api provides the HTTP REST API for robot sessions.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions             {"scenario_id": "classic"} (optional body)
//   - GET    /api/sessions             ?sort=created|accessed&order=asc|desc&limit=N
//   - GET    /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Robot:
//   - GET  /api/sessions/{id}/state
//   - POST /api/sessions/{id}/call    {"op": "right", "reset": false}
//   - POST /api/sessions/{id}/run     {"ops": ["right", "paint"]} or {"program": "right right paint"}
//   - POST /api/sessions/{id}/reset
//   - GET  /api/sessions/{id}/events  ?page=1&limit=20&order=desc
//
// Scenarios:
//   - GET  /api/scenarios
//   - POST /api/scenarios             {"id": "tiny", "width": 2, "height": 1, ...}
//   - GET  /api/scenarios/{name}
//
// Other:
//   - GET /api/operations  operation names and kinds
//   - GET /health
//   - GET /ws?session={id} WebSocket feed, see package websocket
//
// Illegal moves and an exhausted action budget are not HTTP errors: the call
// or run result carries success=false and an "error" object with the engine
// error kind. Unknown operations answer 400, unknown sessions and scenarios
// 404. Other errors are returned as JSON with their status code:
//
//	{
//	  "error": "error message",
//	  "code": 404
//	}
//
// Every call and run is logged on one line with a [CALL] or [RUN] tag, and its
// action events and resulting state are pushed to the session's WebSocket
// clients.
//
// Usage:
//
//	hub := websocket.NewHub()
//	server := api.NewServer(robotService, hub)
//	go hub.Run(ctx)
//	http.ListenAndServe(":8080", server)
package api
