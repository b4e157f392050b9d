// Package service provides the business logic layer of the box puzzle server.
//
// The service package implements:
//   - Multi-session game management
//   - Puzzle catalog access
//   - Serialized move processing (move, nudge, slide, click, bulk)
//   - Shuffle, reset and solver hints
//   - Per-session move logs
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages the puzzle catalog.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. Every request takes the service mutex, so requests against a
// session are processed one at a time and no move ever overlaps a reset.
// Rejected moves are reported in MoveResult, not as errors; errors are
// reserved for unknown sessions, puzzles and malformed requests.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "starter")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Slide(ctx, info.ID, "D", "left")
package service
