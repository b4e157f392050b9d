package engine

import (
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// TileEngine runs the cell-grid variant. Cells hold tile tags; groups of
// adjacent same-category tiles move as one unit and are recomputed after
// every accepted move.
type TileEngine struct {
	core
	cells   []string
	regions Regions
}

func newTileEngine(cfg *PuzzleConfig) *TileEngine {
	e := &TileEngine{core: newCore(cfg)}
	e.load(cfg.Tiles)
	return e
}

func (e *TileEngine) load(tiles []string) {
	e.cells = append([]string(nil), tiles...)
	e.regions = RecomputeGroups(e.board, e.cells)
}

// AttemptMove shifts a whole group one cell in direction d
func (e *TileEngine) AttemptMove(ref string, d Direction) MoveOutcome {
	return e.attempt(e, ref, d)
}

// Slide shifts a group until it cannot go further in direction d
func (e *TileEngine) Slide(ref string, d Direction) MoveOutcome {
	return e.slide(e, ref, d)
}

// Nudge moves a group towards the first empty cell found next to one of its
// tiles, scanning tiles in group order and neighbours in ProbeOrder
func (e *TileEngine) Nudge(ref string) MoveOutcome {
	return e.nudge(e, ref)
}

// destinations returns the cells the group would occupy after a unit move
func (e *TileEngine) destinations(g Group, d Direction) ([]int, RejectReason) {
	dest := make([]int, len(g.Tiles))
	for i, t := range g.Tiles {
		n, ok := e.board.Neighbor(t, d)
		if !ok {
			return nil, ReasonOutOfBounds
		}
		dest[i] = n
	}

	members := mapset.New[int]()
	for _, t := range g.Tiles {
		members.Put(t)
	}
	for _, n := range dest {
		if e.cells[n] != EmptyTile && !members.Has(n) {
			return nil, ReasonBlocked
		}
	}
	return dest, ReasonNone
}

func (e *TileEngine) check(ref string, d Direction) RejectReason {
	if _, _, ok := d.Delta(); !ok {
		return ReasonInvalidDirection
	}
	g, ok := e.regions.Lookup(ref)
	if !ok {
		return ReasonInvalidReference
	}
	_, reason := e.destinations(g, d)
	return reason
}

// commit clears the group's cells, writes each tile's own tag into its new
// cell and recomputes the regions
func (e *TileEngine) commit(ref string, d Direction) (string, []Position, bool) {
	g, _ := e.regions.Lookup(ref)
	dest, _ := e.destinations(g, d)

	tags := make([]string, len(g.Tiles))
	for i, t := range g.Tiles {
		tags[i] = e.cells[t]
		e.cells[t] = EmptyTile
	}
	positions := make([]Position, len(dest))
	for i, n := range dest {
		e.cells[n] = tags[i]
		x, y := e.board.Coordinate(n)
		positions[i] = Position{X: x, Y: y}
	}

	e.regions = RecomputeGroups(e.board, e.cells)
	moved, _ := e.regions.At(dest[0])
	return moved.ID, positions, len(moved.Tiles) > len(g.Tiles)
}

func (e *TileEngine) probe(ref string) (Direction, bool, RejectReason) {
	g, ok := e.regions.Lookup(ref)
	if !ok {
		return "", false, ReasonInvalidReference
	}
	for _, t := range g.Tiles {
		for _, d := range ProbeOrder {
			if n, ok := e.board.Neighbor(t, d); ok && e.cells[n] == EmptyTile {
				return d, true, ReasonNone
			}
		}
	}
	return "", false, ReasonNone
}

// IsSolved reports whether the goal category fills the exit region
func (e *TileEngine) IsSolved() bool {
	return regionFilled(e.board, e.cells, e.board.Exit, e.config.GoalCategory)
}

// PieceAt returns the id of the group covering (x,y)
func (e *TileEngine) PieceAt(x, y int) (string, bool) {
	if !e.board.InBounds(x, y, 1, 1) {
		return "", false
	}
	g, ok := e.regions.At(e.board.Index(x, y))
	return g.ID, ok
}

// GroupOf returns the group covering a cell index
func (e *TileEngine) GroupOf(idx int) (Group, bool) {
	return e.regions.At(idx)
}

// Groups returns the current groups in scan order
func (e *TileEngine) Groups() []Group {
	return e.regions.Copy()
}

// Cells returns a copy of the tile tags
func (e *TileEngine) Cells() []string {
	return append([]string(nil), e.cells...)
}

// ValidMoves lists every accepted group move in group order, then ProbeOrder
func (e *TileEngine) ValidMoves() []Step {
	var steps []Step
	for _, g := range e.regions.Groups {
		for _, d := range ProbeOrder {
			if _, reason := e.destinations(g, d); reason == ReasonNone {
				steps = append(steps, Step{Ref: g.ID, Direction: d})
			}
		}
	}
	return steps
}

// State returns a snapshot of the grid with current group membership
func (e *TileEngine) State() *GameState {
	tiles := make([]Tile, len(e.cells))
	for i, tag := range e.cells {
		x, y := e.board.Coordinate(i)
		tiles[i] = Tile{Index: i, X: x, Y: y, Tag: tag, Category: Category(tag)}
		if g, ok := e.regions.At(i); ok {
			tiles[i].GroupID = g.ID
		}
	}
	return &GameState{
		PuzzleName:   e.config.Name,
		Variant:      VariantTiles,
		Width:        e.board.Width,
		Height:       e.board.Height,
		Tiles:        tiles,
		Groups:       e.regions.Copy(),
		Exit:         copyExit(e.board.Exit),
		GoalCategory: e.config.GoalCategory,
		Moves:        e.moves,
		Solved:       e.IsSolved(),
		Message:      e.message,
	}
}

// Reset restores the literal starting grid
func (e *TileEngine) Reset() *GameState {
	e.load(e.config.Tiles)
	e.clearCounter()
	return e.State()
}

// Key lists the category of every cell; tags with the same category are
// interchangeable for movement
func (e *TileEngine) Key() string {
	cats := make([]string, len(e.cells))
	for i, tag := range e.cells {
		cats[i] = Category(tag)
	}
	return strings.Join(cats, ",")
}

// Clone returns an independent copy of the engine
func (e *TileEngine) Clone() Engine {
	c := *e
	c.cells = append([]string(nil), e.cells...)
	c.regions = Regions{
		CellGroup: append([]int(nil), e.regions.CellGroup...),
		Groups:    e.regions.Copy(),
	}
	return &c
}
