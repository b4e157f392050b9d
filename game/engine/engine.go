package engine

import "fmt"

// Engine is the puzzle contract shared by both variants. An engine is not
// safe for concurrent use; callers serialize requests.
type Engine interface {
	// Puzzle identity
	Variant() Variant
	Config() *PuzzleConfig

	// Movement operations
	AttemptMove(ref string, d Direction) MoveOutcome
	Nudge(ref string) MoveOutcome
	Slide(ref string, d Direction) MoveOutcome
	PieceAt(x, y int) (string, bool)
	ValidMoves() []Step

	// Game state management
	State() *GameState
	IsSolved() bool
	Moves() int
	Reset() *GameState

	// Search support
	Key() string
	Clone() Engine

	clearCounter()
}

// NewEngine validates a layout and seeds a new engine from it
func NewEngine(config *PuzzleConfig) (Engine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidLayout)
	}
	cfg := Normalize(config)
	if err := ValidatePuzzleConfig(cfg); err != nil {
		return nil, err
	}

	switch cfg.Variant {
	case VariantTiles:
		return newTileEngine(cfg), nil
	default:
		return newBlockEngine(cfg), nil
	}
}

// mover is the variant-specific half of an engine
type mover interface {
	// check validates a unit move without touching the board
	check(ref string, d Direction) RejectReason
	// commit applies a checked unit move and returns the ref that names the
	// moved piece afterwards. merged is set when the unit joined other tiles
	// at its new position, so it is no longer the unit that was asked for.
	commit(ref string, d Direction) (next string, moved []Position, merged bool)
	// probe picks the nudge direction; found is false when there is none
	probe(ref string) (d Direction, found bool, reason RejectReason)
	IsSolved() bool
}

// core holds the bookkeeping shared by both variants
type core struct {
	config  *PuzzleConfig
	board   Board
	moves   int
	message string
}

func newCore(cfg *PuzzleConfig) core {
	return core{
		config:  cfg,
		board:   Board{Width: cfg.Width, Height: cfg.Height, Exit: cfg.Exit},
		message: cfg.Messages.Welcome,
	}
}

// Config returns the normalized configuration the engine was built from
func (c *core) Config() *PuzzleConfig {
	return c.config
}

// Variant returns the board model
func (c *core) Variant() Variant {
	return c.config.Variant
}

// Moves returns the number of accepted moves since the last reset
func (c *core) Moves() int {
	return c.moves
}

func (c *core) clearCounter() {
	c.moves = 0
	c.message = c.config.Messages.Welcome
}

func (c *core) attempt(m mover, ref string, d Direction) MoveOutcome {
	out := MoveOutcome{Ref: ref, Direction: d}
	if reason := m.check(ref, d); reason != ReasonNone {
		return c.reject(m, out, reason)
	}
	out.Group, out.Positions, _ = m.commit(ref, d)
	c.moves++
	return c.accept(m, out)
}

// slide repeats a unit move until the next one would be rejected, the
// puzzle is solved or the unit merges with another group. The whole glide
// counts as one move.
func (c *core) slide(m mover, ref string, d Direction) MoveOutcome {
	out := MoveOutcome{Ref: ref, Direction: d}
	if reason := m.check(ref, d); reason != ReasonNone {
		return c.reject(m, out, reason)
	}
	cur := ref
	for {
		var merged bool
		cur, out.Positions, merged = m.commit(cur, d)
		if merged || m.IsSolved() || m.check(cur, d) != ReasonNone {
			break
		}
	}
	out.Group = cur
	c.moves++
	return c.accept(m, out)
}

func (c *core) nudge(m mover, ref string) MoveOutcome {
	out := MoveOutcome{Ref: ref}
	d, found, reason := m.probe(ref)
	if reason != ReasonNone {
		return c.reject(m, out, reason)
	}
	if !found {
		if c.config.NudgePolicy == NudgeReport {
			return c.reject(m, out, ReasonNoSlackAdjacent)
		}
		out.Solved = m.IsSolved()
		return out
	}
	return c.attempt(m, ref, d)
}

func (c *core) reject(m mover, out MoveOutcome, reason RejectReason) MoveOutcome {
	msgs := c.config.Messages
	out.Reason = reason
	out.Solved = m.IsSolved()

	switch reason {
	case ReasonBlocked:
		out.Message = msgs.Blocked + fmt.Sprintf(" [%s %s]", out.Ref, out.Direction)
	case ReasonOutOfBounds:
		out.Message = msgs.OutOfBounds + fmt.Sprintf(" [%s %s]", out.Ref, out.Direction)
	case ReasonNoSlackAdjacent:
		out.Message = msgs.NoSlack + fmt.Sprintf(" [%s]", out.Ref)
	case ReasonInvalidReference:
		out.Message = msgs.InvalidReference + fmt.Sprintf(" [%s]", out.Ref)
	case ReasonInvalidDirection:
		out.Message = fmt.Sprintf("Unknown direction %q", out.Direction)
	}
	return out
}

func (c *core) accept(m mover, out MoveOutcome) MoveOutcome {
	out.Applied = true
	out.Solved = m.IsSolved()
	if c.config.Variant != VariantTiles {
		out.Group = ""
	}

	if out.Solved {
		c.message = fmt.Sprintf(c.config.Messages.Solved, c.moves)
	} else {
		c.message = c.config.Messages.Moved + fmt.Sprintf(" [%s %s]", out.Ref, out.Direction)
	}
	out.Message = c.message
	return out
}
