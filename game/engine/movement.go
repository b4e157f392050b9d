package engine

import (
	"sort"
	"strconv"
	"strings"
)

// BlockEngine runs the piece-list variant
type BlockEngine struct {
	core
	pieces *PieceSet
}

func newBlockEngine(cfg *PuzzleConfig) *BlockEngine {
	return &BlockEngine{
		core:   newCore(cfg),
		pieces: NewPieceSet(cfg.Pieces),
	}
}

// AttemptMove moves a piece one cell in direction d
func (e *BlockEngine) AttemptMove(ref string, d Direction) MoveOutcome {
	return e.attempt(e, ref, d)
}

// Slide moves a piece as far as it can go in direction d
func (e *BlockEngine) Slide(ref string, d Direction) MoveOutcome {
	return e.slide(e, ref, d)
}

// Nudge moves a piece in the first direction of ProbeOrder that validates
func (e *BlockEngine) Nudge(ref string) MoveOutcome {
	return e.nudge(e, ref)
}

// check validates bounds first, then collisions with every other piece
func (e *BlockEngine) check(ref string, d Direction) RejectReason {
	dx, dy, ok := d.Delta()
	if !ok {
		return ReasonInvalidDirection
	}
	p, ok := e.pieces.Get(ref)
	if !ok {
		return ReasonInvalidReference
	}

	candidate := p.Rect().Translate(dx, dy)
	if !e.board.Allows(candidate, p.Goal) {
		return ReasonOutOfBounds
	}
	for _, q := range e.pieces.pieces {
		if q.ID == p.ID {
			continue
		}
		if candidate.Overlaps(q.Rect()) {
			return ReasonBlocked
		}
	}
	return ReasonNone
}

func (e *BlockEngine) commit(ref string, d Direction) (string, []Position, bool) {
	dx, dy, _ := d.Delta()
	p, _ := e.pieces.Get(ref)
	e.pieces.SetPosition(ref, p.X+dx, p.Y+dy)
	return ref, []Position{{X: p.X + dx, Y: p.Y + dy}}, false
}

func (e *BlockEngine) probe(ref string) (Direction, bool, RejectReason) {
	if _, ok := e.pieces.Get(ref); !ok {
		return "", false, ReasonInvalidReference
	}
	for _, d := range ProbeOrder {
		if e.check(ref, d) == ReasonNone {
			return d, true, ReasonNone
		}
	}
	return "", false, ReasonNone
}

// IsSolved evaluates the goal piece against the exit
func (e *BlockEngine) IsSolved() bool {
	goal, ok := e.pieces.Goal()
	if !ok {
		return false
	}
	return e.board.Exit.Reached(goal)
}

// PieceAt returns the ID of the piece covering board cell (x,y). Exit cells
// outside the board never match, even under an escaped goal piece.
func (e *BlockEngine) PieceAt(x, y int) (string, bool) {
	if !e.board.InBounds(x, y, 1, 1) {
		return "", false
	}
	p, ok := e.pieces.At(x, y)
	return p.ID, ok
}

// ValidMoves lists every accepted unit move in piece order, then ProbeOrder
func (e *BlockEngine) ValidMoves() []Step {
	var steps []Step
	for _, p := range e.pieces.pieces {
		for _, d := range ProbeOrder {
			if e.check(p.ID, d) == ReasonNone {
				steps = append(steps, Step{Ref: p.ID, Direction: d})
			}
		}
	}
	return steps
}

// Pieces returns a copy of the current pieces
func (e *BlockEngine) Pieces() []Piece {
	return e.pieces.All()
}

// State returns a snapshot of the board
func (e *BlockEngine) State() *GameState {
	return &GameState{
		PuzzleName: e.config.Name,
		Variant:    VariantBlocks,
		Width:      e.board.Width,
		Height:     e.board.Height,
		Pieces:     e.pieces.All(),
		Exit:       copyExit(e.board.Exit),
		Moves:      e.moves,
		Solved:     e.IsSolved(),
		Message:    e.message,
	}
}

// Reset restores the literal starting layout
func (e *BlockEngine) Reset() *GameState {
	e.pieces = NewPieceSet(e.config.Pieces)
	e.clearCounter()
	return e.State()
}

// Key describes the position so that pieces of the same shape are
// interchangeable. The goal piece is always recorded by position.
func (e *BlockEngine) Key() string {
	var b strings.Builder
	others := make([]string, 0, e.pieces.Len())

	for _, p := range e.pieces.pieces {
		if p.Goal {
			b.WriteString("g" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + "|")
			continue
		}
		shape := strconv.Itoa(p.W) + "x" + strconv.Itoa(p.H)
		others = append(others, shape+"@"+strconv.Itoa(p.X)+","+strconv.Itoa(p.Y))
	}
	sort.Strings(others)
	b.WriteString(strings.Join(others, ";"))
	return b.String()
}

// Clone returns an independent copy of the engine
func (e *BlockEngine) Clone() Engine {
	c := *e
	c.pieces = e.pieces.Clone()
	return &c
}

func copyExit(x *Exit) *Exit {
	if x == nil {
		return nil
	}
	c := *x
	return &c
}
