// Package websocket pushes live robot updates to browser and script clients.
//
// Clients connect to /ws?session=<id> and receive JSON frames:
//
//	{"session_id": "ab12cd34", "event": "state_update", "state": {...}}
//	{"session_id": "ab12cd34", "event": "action", "data": {"action": "right", ...}}
//
// A client may also send commands, {"op": "right"} or {"op": "paint",
// "reset": true}. The hub hands them to the CommandHandler installed with
// OnCommand, which runs them through the service and broadcasts the outcome.
//
// The Hub goroutine owns registration and fan-out. Broadcasts are queued and
// never block the caller; a client whose queue is full is dropped.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.OnCommand(handler)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
