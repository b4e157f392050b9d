package service

import (
	"time"

	"github.com/wricardo/box-puzzle/game/engine"
)

// Event types emitted by game operations
const (
	EventMove    = "move"
	EventBlocked = "blocked"
	EventSolved  = "solved"
	EventReset   = "reset"
	EventShuffle = "shuffle"
)

// Move actions recorded in a session log
const (
	ActionMove  = "move"
	ActionNudge = "nudge"
	ActionSlide = "slide"
	ActionClick = "click"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string               `json:"id"`
	PuzzleID       string               `json:"puzzle_id"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	GameState      *engine.GameState    `json:"game_state"`
	Puzzle         *engine.PuzzleConfig `json:"puzzle"`
}

// MoveRequest is one entry of a bulk move. An empty direction nudges.
type MoveRequest struct {
	Ref       string `json:"ref"`
	Direction string `json:"direction,omitempty"`
	Slide     bool   `json:"slide,omitempty"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool               `json:"success"`
	Outcome   engine.MoveOutcome `json:"outcome"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // Machine-friendly code: a reject reason or "solved"
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	Steps      []StepInfo    `json:"steps,omitempty"`
	Solved     bool          `json:"solved"`
	Message    string        `json:"message,omitempty"`
	ValidMoves []engine.Step `json:"valid_moves,omitempty"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx       int               `json:"idx"`
	Ref       string            `json:"ref"`
	Dir       string            `json:"dir"`
	Group     string            `json:"group,omitempty"`
	Positions []engine.Position `json:"positions,omitempty"`
	Success   bool              `json:"success"`
	Solved    bool              `json:"solved,omitempty"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string            `json:"type"` // "move", "blocked", "solved", "reset", "shuffle"
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Ref       string            `json:"ref,omitempty"`
	Positions []engine.Position `json:"positions,omitempty"`
}

// MoveRecord is one accepted move in a session log. The log is a record of
// play, not an undo stack.
type MoveRecord struct {
	Index     int               `json:"index"`
	Action    string            `json:"action"`
	Ref       string            `json:"ref"`
	Direction engine.Direction  `json:"direction"`
	Group     string            `json:"group,omitempty"`
	Positions []engine.Position `json:"positions"`
	MoveCount int               `json:"move_count"`
	Solved    bool              `json:"solved,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []MoveRecord `json:"moves"`
	TotalMoves  int          `json:"total_moves"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	TotalPages  int          `json:"total_pages"`
	HasNext     bool         `json:"has_next"`
	HasPrevious bool         `json:"has_previous"`
}

// ShuffleResult reports a scramble of the board
type ShuffleResult struct {
	Applied   int               `json:"applied"`
	Seed      uint64            `json:"seed"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// HintResult suggests the next move of a shortest solution
type HintResult struct {
	Step           *engine.Step `json:"step,omitempty"`
	Solved         bool         `json:"solved"`
	SolutionLength int          `json:"solution_length"`
	Explored       int          `json:"explored"`
	Message        string       `json:"message"`
}

// PuzzleInfo provides information about a puzzle in the catalog
type PuzzleInfo struct {
	Filename    string         `json:"filename,omitempty"`
	PuzzleID    string         `json:"puzzle_id"` // The identifier to use for session creation
	Name        string         `json:"name"`      // Display name
	Description string         `json:"description"`
	Variant     engine.Variant `json:"variant"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Source      string         `json:"source"` // "preset" or "file"
}
