// Package api provides the HTTP REST API of the box puzzle server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session, body {"puzzle_id": "starter"}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET /api/sessions/unified - Sessions side by side (?sessionIds=a,b or ?puzzleId=p)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current state snapshot
//   - POST /api/sessions/{id}/move - {"ref": "D", "direction": "left", "reset": false}
//   - POST /api/sessions/{id}/nudge - {"ref": "D"}
//   - POST /api/sessions/{id}/slide - {"ref": "D", "direction": "left"}
//   - POST /api/sessions/{id}/click - {"x": 1, "y": 2}
//   - POST /api/sessions/{id}/bulk-move - {"moves": [{"ref": "D", "direction": "left"}], "reset": false}
//   - POST /api/sessions/{id}/shuffle - {"steps": 30, "seed": 7}
//   - POST /api/sessions/{id}/reset - Restore the starting layout
//   - GET /api/sessions/{id}/history - Move log (?page=1&limit=20&order=desc)
//   - GET /api/sessions/{id}/hint - Next step of a shortest solution
//
// Puzzle Catalog:
//   - GET /api/puzzles - List presets and puzzle files
//   - POST /api/puzzles - Validate and save a puzzle
//   - GET /api/puzzles/{name} - Get a puzzle layout
//
// Other:
//   - GET /api/health - Liveness check
//   - GET /ws?session={id} - WebSocket upgrade
//
// A rejected move is not an HTTP error: the response is 200 with
// "success": false and the reject reason in "outcome.reason".
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "session \"zz\": session not found"}
//
// Unknown sessions and puzzles give 404, malformed bodies, directions and
// layouts give 400, and a hint for a puzzle the solver cannot finish gives 422.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
