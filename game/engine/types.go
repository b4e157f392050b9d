package engine

import "strings"

// Variant selects which board model a puzzle uses
type Variant string

const (
	// VariantBlocks is the piece-list variant: multi-cell rectangular pieces.
	VariantBlocks Variant = "blocks"
	// VariantTiles is the cell-grid variant: unit cells grouped by category.
	VariantTiles Variant = "tiles"

	// EmptyTile marks an unoccupied cell in a tile grid
	EmptyTile = "empty"

	// Validation constants
	MinBoardSize        = 1
	MaxBoardSize        = 16
	MaxBulkMoves        = 50
	MaxShuffleSteps     = 1000
	WebSocketBufferSize = 256
)

// Direction is one of the four orthogonal move directions
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// ProbeOrder is the fixed priority used when a piece is nudged without an
// explicit direction. Changing it changes which move a nudge picks.
var ProbeOrder = []Direction{Up, Down, Left, Right}

// ParseDirection converts a case-insensitive direction name
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down, Left, Right:
		return d, true
	}
	return "", false
}

// Delta returns the unit vector for the direction
func (d Direction) Delta() (dx, dy int, ok bool) {
	switch d {
	case Up:
		return 0, -1, true
	case Down:
		return 0, 1, true
	case Left:
		return -1, 0, true
	case Right:
		return 1, 0, true
	}
	return 0, 0, false
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Piece is a rectangular occupant of a blocks board. Only X and Y change
// after initialization.
type Piece struct {
	ID       string `json:"id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	W        int    `json:"w"`
	H        int    `json:"h"`
	Category string `json:"category,omitempty"`
	Label    string `json:"label,omitempty"`
	Goal     bool   `json:"goal,omitempty"`
}

// Rect returns the cells covered by the piece
func (p Piece) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// ExitMatch selects how the goal piece is compared with the exit
type ExitMatch string

const (
	// MatchExact requires the goal piece's top-left to equal the exit's top-left.
	MatchExact ExitMatch = "exact"
	// MatchWithin requires the goal piece's top-left to fall inside the exit rectangle.
	MatchWithin ExitMatch = "within"
)

// Exit is the region that ends the puzzle when the goal reaches it
type Exit struct {
	X           int       `json:"x"`
	Y           int       `json:"y"`
	W           int       `json:"w"`
	H           int       `json:"h"`
	Match       ExitMatch `json:"match,omitempty"`
	AllowEscape bool      `json:"allow_escape,omitempty"`
}

// Rect returns the exit region
func (x *Exit) Rect() Rect {
	return Rect{X: x.X, Y: x.Y, W: x.W, H: x.H}
}

// NudgePolicy decides what a nudge reports when no direction is usable
type NudgePolicy string

const (
	NudgeSilent NudgePolicy = "silent"
	NudgeReport NudgePolicy = "report"
)

// Messages are the texts reported to players
type Messages struct {
	Welcome          string `json:"welcome"`
	Moved            string `json:"moved"`
	Blocked          string `json:"blocked"`
	OutOfBounds      string `json:"out_of_bounds"`
	NoSlack          string `json:"no_slack"`
	InvalidReference string `json:"invalid_reference"`
	Solved           string `json:"solved"`
}

// PuzzleConfig is the literal starting layout of a puzzle, loaded from JSON
// or taken from the built-in presets
type PuzzleConfig struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Variant      Variant     `json:"variant"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	Pieces       []Piece     `json:"pieces,omitempty"`
	Tiles        []string    `json:"tiles,omitempty"`
	Exit         *Exit       `json:"exit,omitempty"`
	GoalCategory string      `json:"goal_category,omitempty"`
	NudgePolicy  NudgePolicy `json:"nudge_policy,omitempty"`
	ExactEmpties int         `json:"exact_empties,omitempty"`
	Messages     Messages    `json:"messages"`
}

// RejectReason explains why a move was not applied
type RejectReason string

const (
	ReasonNone             RejectReason = ""
	ReasonOutOfBounds      RejectReason = "out_of_bounds"
	ReasonBlocked          RejectReason = "blocked"
	ReasonNoSlackAdjacent  RejectReason = "no_slack_adjacent"
	ReasonInvalidReference RejectReason = "invalid_reference"
	ReasonInvalidDirection RejectReason = "invalid_direction"
)

// MoveOutcome is the result of a move request. A rejected move is an
// ordinary outcome and leaves the board untouched.
type MoveOutcome struct {
	Applied   bool         `json:"applied"`
	Ref       string       `json:"ref"`
	Direction Direction    `json:"direction,omitempty"`
	Reason    RejectReason `json:"reason,omitempty"`
	Positions []Position   `json:"positions,omitempty"`
	// Group is the id of the moved tiles after regions were recomputed.
	Group   string `json:"group,omitempty"`
	Solved  bool   `json:"solved"`
	Message string `json:"message,omitempty"`
}

// Step is a single (piece, direction) move
type Step struct {
	Ref       string    `json:"ref"`
	Direction Direction `json:"direction"`
}

// Group is a maximal 4-connected set of same-category tiles. Groups are
// derived data and their ids are only valid for the board they came from.
type Group struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Tiles    []int  `json:"tiles"`
}

// Tile is one cell of a tile grid in a state snapshot
type Tile struct {
	Index    int    `json:"index"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Tag      string `json:"tag"`
	Category string `json:"category,omitempty"`
	GroupID  string `json:"group_id,omitempty"`
}

// GameState is a read-only snapshot of an engine
type GameState struct {
	PuzzleName   string  `json:"puzzle_name"`
	Variant      Variant `json:"variant"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Pieces       []Piece `json:"pieces,omitempty"`
	Tiles        []Tile  `json:"tiles,omitempty"`
	Groups       []Group `json:"groups,omitempty"`
	Exit         *Exit   `json:"exit,omitempty"`
	GoalCategory string  `json:"goal_category,omitempty"`
	Moves        int     `json:"moves"`
	Solved       bool    `json:"solved"`
	Message      string  `json:"message"`
}
