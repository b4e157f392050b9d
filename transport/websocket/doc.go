// Package websocket provides WebSocket transport for the box puzzle server.
//
// A Hub keeps one room per puzzle session. Each connection runs a read loop
// that forwards commands and a write loop that batches queued updates.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - Incoming: {"action": "move", "ref": "D", "direction": "left"}
//   - Outgoing: {"session_id": "abc1", "event": "state_update", "game_state": {...}}
//
// Incoming commands are passed to the CommandHandler set on the hub. The
// returned state is broadcast to every client of the session; failures are
// reported to the sender only with an "error" event.
//
// Session Integration:
//
// Clients pick their session with a query parameter (?session=abc1) when
// connecting. State updates are broadcast only to clients connected to the
// same session. Every client gets a uuid used in log entries.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetCommandHandler(server)
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
