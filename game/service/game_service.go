package service

import (
	"context"
	"time"

	"github.com/wricardo/box-puzzle/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, puzzleID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, ref, direction string, reset bool) (*MoveResult, error)
	Nudge(ctx context.Context, sessionID, ref string) (*MoveResult, error)
	Slide(ctx context.Context, sessionID, ref, direction string) (*MoveResult, error)
	Click(ctx context.Context, sessionID string, x, y int) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []MoveRequest, reset bool) (*BulkMoveResult, error)
	Shuffle(ctx context.Context, sessionID string, steps int, seed uint64) (*ShuffleResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	Hint(ctx context.Context, sessionID string) (*HintResult, error)

	// Puzzle catalog
	ListPuzzles(ctx context.Context) ([]*PuzzleInfo, error)
	LoadPuzzle(ctx context.Context, puzzleID string) (*engine.PuzzleConfig, error)
	SavePuzzle(ctx context.Context, puzzleID string, config *engine.PuzzleConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.PuzzleConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	Touch(id string) error
}

// ConfigManager handles puzzle catalog loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.PuzzleConfig, error)
	ListConfigs() ([]*PuzzleInfo, error)
	GetDefault() *engine.PuzzleConfig
	SaveConfig(name string, config *engine.PuzzleConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	PuzzleID       string
	Engine         engine.Engine
	Config         *engine.PuzzleConfig
	History        []MoveRecord
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
