// Package mcp provides the Model Context Protocol interface for Box Puzzle.
//
// The package is a thin client: every tool call is proxied to the REST API
// of a running server and the JSON response is rendered as text for the
// agent, including an ASCII drawing of the board.
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - puzzle_state: board, pieces and status
//   - move, slide, nudge, click: single moves
//   - bulk_move: several moves in one call
//   - shuffle, reset_puzzle: scramble or restore the board
//   - move_history, hint: accepted moves and the next step of a solution
//   - list_puzzles, puzzle_instructions, describe_cell: reference tools
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
