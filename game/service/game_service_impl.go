package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/solver"
)

// DefaultShuffleSteps is used when a shuffle request does not name a step count
const DefaultShuffleSteps = 30

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrPuzzleNotFound   = errors.New("puzzle not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	configs   ConfigManager
	hintLimit int

	// mu serializes every request, reads included: lookups touch the
	// session and info reads its timestamps
	mu sync.Mutex
}

// Option configures a game service
type Option func(*gameServiceImpl)

// WithHintLimit bounds the positions a hint search may expand
func WithHintLimit(limit int) Option {
	return func(s *gameServiceImpl) {
		s.hintLimit = limit
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions:  sessions,
		configs:   configs,
		hintLimit: solver.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, puzzleID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.PuzzleConfig
	var err error
	if puzzleID != "" {
		config, err = s.configs.LoadConfig(puzzleID)
		if err != nil {
			if available := s.puzzleIDs(); len(available) > 0 {
				return nil, fmt.Errorf("%w: %q (available: %v): %v", ErrPuzzleNotFound, puzzleID, available, err)
			}
			return nil, fmt.Errorf("%w: %q: %v", ErrPuzzleNotFound, puzzleID, err)
		}
	} else {
		config = s.configs.GetDefault()
		puzzleID = config.Name
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.PuzzleID = puzzleID

	log.WithFields(log.Fields{"session": sess.ID, "puzzle": puzzleID}).Info("session created")
	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.WithField("session", sessionID).Info("session deleted")
	return nil
}

// Move executes a single unit move, optionally after a reset
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, ref, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	d, ok := engine.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	var events []GameEvent
	if reset {
		events = append(events, s.resetSession(sess))
	}
	out := sess.Engine.AttemptMove(ref, d)
	return s.finish(sess, ActionMove, out, events), nil
}

// Nudge moves a piece or group in the first usable direction
func (s *gameServiceImpl) Nudge(ctx context.Context, sessionID, ref string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	out := sess.Engine.Nudge(ref)
	return s.finish(sess, ActionNudge, out, nil), nil
}

// Slide glides a piece or group as far as it goes; the glide is one move
func (s *gameServiceImpl) Slide(ctx context.Context, sessionID, ref, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	d, ok := engine.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	out := sess.Engine.Slide(ref, d)
	return s.finish(sess, ActionSlide, out, nil), nil
}

// Click nudges whatever covers cell (x,y)
func (s *gameServiceImpl) Click(ctx context.Context, sessionID string, x, y int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	ref, ok := sess.Engine.PieceAt(x, y)
	if !ok {
		state := sess.Engine.State()
		msg := fmt.Sprintf("Nothing to move at (%d,%d)", x, y)
		return &MoveResult{
			Outcome: engine.MoveOutcome{
				Ref:     fmt.Sprintf("%d,%d", x, y),
				Reason:  engine.ReasonInvalidReference,
				Solved:  state.Solved,
				Message: msg,
			},
			GameState: state,
			Message:   msg,
		}, nil
	}
	out := sess.Engine.Nudge(ref)
	return s.finish(sess, ActionClick, out, nil), nil
}

// BulkMove executes moves in order and stops at the first rejection or as
// soon as the puzzle is solved
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []MoveRequest, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}
	if reset {
		result.Events = append(result.Events, s.resetSession(sess))
	}

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, m := range moves {
		var out engine.MoveOutcome
		action := ActionMove
		switch {
		case m.Direction == "":
			action = ActionNudge
			out = sess.Engine.Nudge(m.Ref)
		default:
			d, ok := engine.ParseDirection(m.Direction)
			if !ok {
				result.Success = false
				result.StoppedReason = fmt.Sprintf("move %d: unknown direction %q", i+1, m.Direction)
				result.StopReasonCode = string(engine.ReasonInvalidDirection)
				result.StoppedOnMove = i + 1
				break
			}
			if m.Slide {
				action = ActionSlide
				out = sess.Engine.Slide(m.Ref, d)
			} else {
				out = sess.Engine.AttemptMove(m.Ref, d)
			}
		}
		if result.StoppedOnMove > 0 {
			break
		}

		result.Events = append(result.Events, s.events(out)...)
		step := StepInfo{
			Idx:       i + 1,
			Ref:       m.Ref,
			Dir:       string(out.Direction),
			Group:     out.Group,
			Positions: out.Positions,
			Success:   out.Applied,
			Solved:    out.Solved,
		}
		result.Steps = append(result.Steps, step)

		if !out.Applied {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d rejected: %s", i+1, out.Message)
			result.StopReasonCode = string(out.Reason)
			if out.Reason == engine.ReasonNone {
				result.StopReasonCode = "no_move"
			}
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		s.record(sess, action, out)
		if out.Solved {
			result.StopReasonCode = "solved"
			if i+1 < len(moves) {
				result.StoppedReason = fmt.Sprintf("puzzle solved on move %d", i+1)
				result.StoppedOnMove = i + 1
			}
			break
		}
	}

	result.GameState = sess.Engine.State()
	result.Solved = result.GameState.Solved
	result.Message = result.GameState.Message
	result.ValidMoves = sess.Engine.ValidMoves()
	return result, nil
}

// Shuffle scrambles the board with a seeded random walk of legal moves. A
// zero seed picks one from the clock. The move counter and log start over.
func (s *gameServiceImpl) Shuffle(ctx context.Context, sessionID string, steps int, seed uint64) (*ShuffleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if steps <= 0 {
		steps = DefaultShuffleSteps
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	applied := engine.Shuffle(sess.Engine, rng, steps)
	sess.History = nil

	log.WithFields(log.Fields{"session": sess.ID, "applied": applied, "seed": seed}).Debug("board shuffled")
	return &ShuffleResult{
		Applied:   applied,
		Seed:      seed,
		GameState: sess.Engine.State(),
		Events: []GameEvent{{
			Type:      EventShuffle,
			Message:   fmt.Sprintf("Board shuffled with %d moves", applied),
			Timestamp: time.Now(),
		}},
	}, nil
}

// Reset resets a game session to its starting layout
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.resetSession(sess)
	return sess.Engine.State(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.State(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.History
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []MoveRecord{}
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// Hint searches for the shortest solution from the current position
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Engine.IsSolved() {
		return &HintResult{Solved: true, Message: "Puzzle is already solved"}, nil
	}

	sol, err := solver.Solve(sess.Engine, s.hintLimit)
	if err != nil {
		return nil, fmt.Errorf("hint: %w", err)
	}
	step := sol.Steps[0]
	return &HintResult{
		Step:           &step,
		SolutionLength: len(sol.Steps),
		Explored:       sol.Explored,
		Message:        fmt.Sprintf("Move %s %s (%d moves to solve)", step.Ref, step.Direction, len(sol.Steps)),
	}, nil
}

// ListPuzzles returns the puzzle catalog
func (s *gameServiceImpl) ListPuzzles(ctx context.Context) ([]*PuzzleInfo, error) {
	return s.configs.ListConfigs()
}

// LoadPuzzle loads a specific puzzle layout
func (s *gameServiceImpl) LoadPuzzle(ctx context.Context, puzzleID string) (*engine.PuzzleConfig, error) {
	return s.configs.LoadConfig(puzzleID)
}

// SavePuzzle saves a puzzle layout to the catalog directory
func (s *gameServiceImpl) SavePuzzle(ctx context.Context, puzzleID string, config *engine.PuzzleConfig) error {
	return s.configs.SaveConfig(puzzleID, config)
}

func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	s.sessions.Touch(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		PuzzleID:       sess.PuzzleID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.State(),
		Puzzle:         sess.Config,
	}
}

func (s *gameServiceImpl) puzzleIDs() []string {
	available, err := s.configs.ListConfigs()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(available))
	for _, p := range available {
		ids = append(ids, p.PuzzleID)
	}
	return ids
}

func (s *gameServiceImpl) resetSession(sess *Session) GameEvent {
	sess.Engine.Reset()
	sess.History = nil
	return GameEvent{
		Type:      EventReset,
		Message:   "Puzzle reset to its starting layout",
		Timestamp: time.Now(),
	}
}

// finish records an accepted move and builds the result of a single move
func (s *gameServiceImpl) finish(sess *Session, action string, out engine.MoveOutcome, events []GameEvent) *MoveResult {
	if out.Applied {
		s.record(sess, action, out)
	}
	events = append(events, s.events(out)...)

	state := sess.Engine.State()
	msg := out.Message
	if msg == "" {
		msg = state.Message
	}
	return &MoveResult{
		Success:   out.Applied,
		Outcome:   out,
		GameState: state,
		Message:   msg,
		Events:    events,
	}
}

func (s *gameServiceImpl) record(sess *Session, action string, out engine.MoveOutcome) {
	sess.History = append(sess.History, MoveRecord{
		Index:     len(sess.History) + 1,
		Action:    action,
		Ref:       out.Ref,
		Direction: out.Direction,
		Group:     out.Group,
		Positions: out.Positions,
		MoveCount: sess.Engine.Moves(),
		Solved:    out.Solved,
		Timestamp: time.Now(),
	})
}

// events derives the events of one outcome
func (s *gameServiceImpl) events(out engine.MoveOutcome) []GameEvent {
	now := time.Now()
	if !out.Applied {
		if out.Reason == engine.ReasonNone {
			return nil
		}
		return []GameEvent{{
			Type:      EventBlocked,
			Message:   out.Message,
			Timestamp: now,
			Ref:       out.Ref,
		}}
	}

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s %s", out.Ref, out.Direction),
		Timestamp: now,
		Ref:       out.Ref,
		Positions: out.Positions,
	}}
	if out.Solved {
		events = append(events, GameEvent{
			Type:      EventSolved,
			Message:   out.Message,
			Timestamp: now,
			Ref:       out.Ref,
		})
	}
	return events
}
