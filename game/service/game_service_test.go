package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/service"
)

var errNotFound = errors.New("session not found")

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.PuzzleConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) Touch(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errNotFound
}

// MockConfigManager implements service.ConfigManager over the built-in presets
type MockConfigManager struct {
	saved map[string]*engine.PuzzleConfig
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{saved: make(map[string]*engine.PuzzleConfig)}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.PuzzleConfig, error) {
	if cfg, ok := m.saved[name]; ok {
		return cfg, nil
	}
	return engine.Preset(name)
}

func (m *MockConfigManager) ListConfigs() ([]*service.PuzzleInfo, error) {
	var infos []*service.PuzzleInfo
	for _, cfg := range engine.Presets() {
		infos = append(infos, &service.PuzzleInfo{
			PuzzleID: cfg.Name,
			Name:     cfg.Name,
			Variant:  cfg.Variant,
			Width:    cfg.Width,
			Height:   cfg.Height,
			Source:   "preset",
		})
	}
	return infos, nil
}

func (m *MockConfigManager) GetDefault() *engine.PuzzleConfig {
	cfg, _ := engine.Preset("starter")
	return cfg
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.PuzzleConfig) error {
	if err := engine.ValidatePuzzleConfig(engine.Normalize(config)); err != nil {
		return err
	}
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T, puzzle string) (service.GameService, string) {
	t.Helper()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	info, err := svc.CreateSession(context.Background(), puzzle)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, info.ID
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	t.Run("create with default puzzle", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected session ID to be generated")
		}
		if info.PuzzleID != "starter" {
			t.Errorf("Expected puzzle 'starter', got '%s'", info.PuzzleID)
		}
		if info.GameState == nil || info.GameState.Moves != 0 {
			t.Error("Expected a fresh game state")
		}
	})

	t.Run("create with named puzzle", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "colors")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.GameState.Variant != engine.VariantTiles {
			t.Errorf("Expected tiles variant, got %s", info.GameState.Variant)
		}
	})

	t.Run("unknown puzzle lists alternatives", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "nope")
		if !errors.Is(err, service.ErrPuzzleNotFound) {
			t.Fatalf("Expected ErrPuzzleNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "starter") {
			t.Errorf("Expected available puzzles in error, got %v", err)
		}
	})
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("accepted move is logged", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		result, err := svc.Move(ctx, id, "D", "left", false)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if !result.Success {
			t.Fatalf("Expected move to succeed: %s", result.Message)
		}
		if result.GameState.Moves != 1 {
			t.Errorf("Expected 1 move, got %d", result.GameState.Moves)
		}
		if len(result.Events) != 1 || result.Events[0].Type != service.EventMove {
			t.Errorf("Expected a single move event, got %+v", result.Events)
		}

		history, err := svc.GetMoveHistory(ctx, id, service.HistoryOptions{})
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if history.TotalMoves != 1 || history.Moves[0].Ref != "D" {
			t.Errorf("Expected one logged move of D, got %+v", history.Moves)
		}
	})

	t.Run("rejected move is a result, not an error", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		result, err := svc.Move(ctx, id, "goal", "up", false)
		if err != nil {
			t.Fatalf("Rejected move must not be an error: %v", err)
		}
		if result.Success {
			t.Error("Expected move to be rejected")
		}
		if result.Outcome.Reason != engine.ReasonOutOfBounds {
			t.Errorf("Expected out_of_bounds, got %s", result.Outcome.Reason)
		}
		if len(result.Events) != 1 || result.Events[0].Type != service.EventBlocked {
			t.Errorf("Expected a blocked event, got %+v", result.Events)
		}
		if result.GameState.Moves != 0 {
			t.Errorf("Expected move counter unchanged, got %d", result.GameState.Moves)
		}
	})

	t.Run("invalid direction", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		_, err := svc.Move(ctx, id, "D", "sideways", false)
		if !errors.Is(err, service.ErrInvalidDirection) {
			t.Errorf("Expected ErrInvalidDirection, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		svc, _ := newTestService(t, "starter")
		_, err := svc.Move(ctx, "zzzz", "D", "left", false)
		if !errors.Is(err, errNotFound) {
			t.Errorf("Expected wrapped not-found error, got %v", err)
		}
	})

	t.Run("reset before move", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		svc.Move(ctx, id, "D", "left", false)
		result, err := svc.Move(ctx, id, "D", "down", true)
		if err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if result.Events[0].Type != service.EventReset {
			t.Errorf("Expected reset event first, got %s", result.Events[0].Type)
		}
		if result.GameState.Moves != 1 {
			t.Errorf("Expected 1 move after reset, got %d", result.GameState.Moves)
		}
	})
}

func TestGameService_SolveWithSlides(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "starter")

	if _, err := svc.Slide(ctx, id, "D", "left"); err != nil {
		t.Fatalf("Slide failed: %v", err)
	}
	result, err := svc.Slide(ctx, id, "goal", "down")
	if err != nil {
		t.Fatalf("Slide failed: %v", err)
	}
	if !result.GameState.Solved {
		t.Fatal("Expected puzzle to be solved")
	}
	if result.GameState.Moves != 2 {
		t.Errorf("Expected 2 moves, got %d", result.GameState.Moves)
	}

	var solved bool
	for _, ev := range result.Events {
		if ev.Type == service.EventSolved {
			solved = true
		}
	}
	if !solved {
		t.Error("Expected a solved event")
	}
}

func TestGameService_NudgeAndClick(t *testing.T) {
	ctx := context.Background()

	t.Run("nudge", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		result, err := svc.Nudge(ctx, id, "D")
		if err != nil {
			t.Fatalf("Nudge failed: %v", err)
		}
		if !result.Success || result.Outcome.Direction != engine.Down {
			t.Errorf("Expected D to move down, got %+v", result.Outcome)
		}
	})

	t.Run("click on a tile group", func(t *testing.T) {
		svc, id := newTestService(t, "colors")
		result, err := svc.Click(ctx, id, 2, 3)
		if err != nil {
			t.Fatalf("Click failed: %v", err)
		}
		if !result.Success || result.Outcome.Direction != engine.Right {
			t.Errorf("Expected lavender to move right, got %+v", result.Outcome)
		}
		if result.GameState.Tiles[15].Tag != "lavender_A" {
			t.Errorf("Expected lavender in the corner, got %s", result.GameState.Tiles[15].Tag)
		}
	})

	t.Run("click on empty cell", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		result, err := svc.Click(ctx, id, 1, 4)
		if err != nil {
			t.Fatalf("Click failed: %v", err)
		}
		if result.Success || result.Outcome.Reason != engine.ReasonInvalidReference {
			t.Errorf("Expected invalid reference, got %+v", result.Outcome)
		}
	})
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()

	t.Run("stops when solved", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		moves := []service.MoveRequest{
			{Ref: "D", Direction: "left"},
			{Ref: "goal", Direction: "down"},
			{Ref: "goal", Direction: "down"},
			{Ref: "goal", Direction: "down"},
			{Ref: "goal", Direction: "up"},
		}
		result, err := svc.BulkMove(ctx, id, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.MovesExecuted != 4 {
			t.Errorf("Expected 4 moves executed, got %d", result.MovesExecuted)
		}
		if !result.Solved || result.StopReasonCode != "solved" {
			t.Errorf("Expected solved stop, got %q", result.StopReasonCode)
		}
		if result.StoppedOnMove != 4 {
			t.Errorf("Expected stop on move 4, got %d", result.StoppedOnMove)
		}
	})

	t.Run("stops at first rejection", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		moves := []service.MoveRequest{
			{Ref: "D", Direction: "left"},
			{Ref: "goal", Direction: "up"},
			{Ref: "goal", Direction: "down"},
		}
		result, err := svc.BulkMove(ctx, id, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.Success {
			t.Error("Expected bulk move to report failure")
		}
		if result.MovesExecuted != 1 || result.StoppedOnMove != 2 {
			t.Errorf("Expected stop on move 2 after 1 move, got %d/%d", result.MovesExecuted, result.StoppedOnMove)
		}
		if result.StopReasonCode != string(engine.ReasonOutOfBounds) {
			t.Errorf("Expected out_of_bounds, got %s", result.StopReasonCode)
		}
	})

	t.Run("nudge and slide entries", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		moves := []service.MoveRequest{
			{Ref: "D", Direction: "left", Slide: true},
			{Ref: "goal", Direction: "down", Slide: true},
		}
		result, err := svc.BulkMove(ctx, id, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Solved || result.GameState.Moves != 2 {
			t.Errorf("Expected solved in 2 moves, got solved=%v moves=%d", result.Solved, result.GameState.Moves)
		}
	})

	t.Run("invalid direction stops", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		result, err := svc.BulkMove(ctx, id, []service.MoveRequest{{Ref: "D", Direction: "north"}}, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if result.StopReasonCode != string(engine.ReasonInvalidDirection) {
			t.Errorf("Expected invalid_direction, got %s", result.StopReasonCode)
		}
	})

	t.Run("truncates long requests", func(t *testing.T) {
		svc, id := newTestService(t, "starter")
		moves := make([]service.MoveRequest, 0, engine.MaxBulkMoves+10)
		for i := 0; i < engine.MaxBulkMoves+10; i++ {
			d := "left"
			if i%2 == 1 {
				d = "right"
			}
			moves = append(moves, service.MoveRequest{Ref: "D", Direction: d})
		}
		result, err := svc.BulkMove(ctx, id, moves, false)
		if err != nil {
			t.Fatalf("BulkMove failed: %v", err)
		}
		if !result.Truncated || result.Limit != engine.MaxBulkMoves {
			t.Error("Expected request to be truncated")
		}
		if result.MovesExecuted != engine.MaxBulkMoves {
			t.Errorf("Expected %d moves, got %d", engine.MaxBulkMoves, result.MovesExecuted)
		}
	})
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "starter")

	for i := 0; i < 5; i++ {
		d := "left"
		if i%2 == 1 {
			d = "right"
		}
		if _, err := svc.Move(ctx, id, "D", d, false); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
	}

	t.Run("desc first page", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, id, service.HistoryOptions{Page: 1, Limit: 2, Order: "desc"})
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if history.TotalMoves != 5 || history.TotalPages != 3 {
			t.Errorf("Expected 5 moves on 3 pages, got %d on %d", history.TotalMoves, history.TotalPages)
		}
		if len(history.Moves) != 2 || history.Moves[0].Index != 5 {
			t.Errorf("Expected most recent move first, got %+v", history.Moves)
		}
		if !history.HasNext || history.HasPrevious {
			t.Error("Expected next page only")
		}
	})

	t.Run("asc last page", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, id, service.HistoryOptions{Page: 3, Limit: 2, Order: "asc"})
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if len(history.Moves) != 1 || history.Moves[0].Index != 5 {
			t.Errorf("Expected the fifth move alone, got %+v", history.Moves)
		}
	})

	t.Run("reset clears the log", func(t *testing.T) {
		if _, err := svc.Reset(ctx, id); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		history, _ := svc.GetMoveHistory(ctx, id, service.HistoryOptions{})
		if history.TotalMoves != 0 {
			t.Errorf("Expected empty log after reset, got %d", history.TotalMoves)
		}
	})
}

func TestGameService_Shuffle(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "boxes")

	a, err := svc.Shuffle(ctx, id, 20, 7)
	if err != nil {
		t.Fatalf("Shuffle failed: %v", err)
	}
	if a.Applied != 20 || a.Seed != 7 {
		t.Errorf("Expected 20 moves with seed 7, got %d with %d", a.Applied, a.Seed)
	}
	if a.GameState.Moves != 0 {
		t.Errorf("Expected move counter cleared, got %d", a.GameState.Moves)
	}

	svc2, id2 := newTestService(t, "boxes")
	b, _ := svc2.Shuffle(ctx, id2, 20, 7)
	for i := range a.GameState.Pieces {
		if a.GameState.Pieces[i] != b.GameState.Pieces[i] {
			t.Fatalf("Expected the same seed to give the same board")
		}
	}
}

func TestGameService_Hint(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t, "starter")

	hint, err := svc.Hint(ctx, id)
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if hint.Step == nil || hint.Step.Ref != "D" || hint.Step.Direction != engine.Left {
		t.Errorf("Expected hint D left, got %+v", hint.Step)
	}
	if hint.SolutionLength != 4 {
		t.Errorf("Expected a 4 move solution, got %d", hint.SolutionLength)
	}

	svc.Slide(ctx, id, "D", "left")
	svc.Slide(ctx, id, "goal", "down")
	hint, err = svc.Hint(ctx, id)
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if !hint.Solved || hint.Step != nil {
		t.Errorf("Expected solved hint, got %+v", hint)
	}
}

func TestGameService_Sessions(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx, "mother"); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}
	sessions, _ := svc.ListSessions(ctx)
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}

	if err := svc.DeleteSession(ctx, sessions[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, sessions[0].ID); err == nil {
		t.Error("Expected deleted session to be gone")
	}
	if err := svc.DeleteSession(ctx, sessions[0].ID); err == nil {
		t.Error("Expected error deleting twice")
	}
}

func TestGameService_Puzzles(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	puzzles, err := svc.ListPuzzles(ctx)
	if err != nil || len(puzzles) != len(engine.PresetNames()) {
		t.Fatalf("Expected every preset listed, got %d (%v)", len(puzzles), err)
	}

	cfg, _ := engine.Preset("starter")
	cfg.Name = "custom"
	if err := svc.SavePuzzle(ctx, "custom", cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := svc.LoadPuzzle(ctx, "custom")
	if err != nil || loaded.Name != "custom" {
		t.Errorf("Expected saved puzzle back, got %v (%v)", loaded, err)
	}

	cfg.Pieces[1].Goal = true
	if err := svc.SavePuzzle(ctx, "broken", cfg); !errors.Is(err, engine.ErrInvalidLayout) {
		t.Errorf("Expected ErrInvalidLayout, got %v", err)
	}
}
