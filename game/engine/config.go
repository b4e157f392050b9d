package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidLayout is wrapped by every layout validation failure
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrUnknownVariant is returned for a variant other than blocks or tiles
	ErrUnknownVariant = errors.New("unknown variant")
)

// DefaultMessages are used for any message a layout leaves empty
var DefaultMessages = Messages{
	Welcome:          "Slide the pieces to free the goal piece.",
	Moved:            "Moved",
	Blocked:          "Blocked by another piece",
	OutOfBounds:      "That would leave the board",
	NoSlack:          "No open space next to that piece",
	InvalidReference: "No such piece",
	Solved:           "Solved in %d moves!",
}

// Normalize returns a deep copy of config with defaults filled in
func Normalize(config *PuzzleConfig) *PuzzleConfig {
	c := *config
	c.Pieces = append([]Piece(nil), config.Pieces...)
	c.Tiles = append([]string(nil), config.Tiles...)
	c.Exit = copyExit(config.Exit)

	if c.Variant == "" {
		c.Variant = VariantBlocks
		if len(c.Tiles) > 0 && len(c.Pieces) == 0 {
			c.Variant = VariantTiles
		}
	}
	if c.NudgePolicy == "" {
		c.NudgePolicy = NudgeSilent
	}
	if c.Exit != nil {
		if c.Exit.Match == "" {
			c.Exit.Match = MatchExact
		}
		if c.Exit.W == 0 {
			c.Exit.W = 1
		}
		if c.Exit.H == 0 {
			c.Exit.H = 1
		}
	}

	m := &c.Messages
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.Welcome, DefaultMessages.Welcome)
	fill(&m.Moved, DefaultMessages.Moved)
	fill(&m.Blocked, DefaultMessages.Blocked)
	fill(&m.OutOfBounds, DefaultMessages.OutOfBounds)
	fill(&m.NoSlack, DefaultMessages.NoSlack)
	fill(&m.InvalidReference, DefaultMessages.InvalidReference)
	fill(&m.Solved, DefaultMessages.Solved)
	return &c
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidLayout, fmt.Sprintf(format, args...))
}

// ValidatePuzzleConfig checks a normalized layout before any move is made
func ValidatePuzzleConfig(config *PuzzleConfig) error {
	if config.Name == "" {
		return invalid("name is required")
	}
	if config.Description == "" {
		return invalid("description is required")
	}
	if config.Width < MinBoardSize || config.Width > MaxBoardSize {
		return invalid("width must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Width)
	}
	if config.Height < MinBoardSize || config.Height > MaxBoardSize {
		return invalid("height must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Height)
	}

	switch config.NudgePolicy {
	case NudgeSilent, NudgeReport:
	default:
		return invalid("nudge_policy must be %q or %q, got %q", NudgeSilent, NudgeReport, config.NudgePolicy)
	}
	if config.Exit != nil {
		switch config.Exit.Match {
		case MatchExact, MatchWithin:
		default:
			return invalid("exit.match must be %q or %q, got %q", MatchExact, MatchWithin, config.Exit.Match)
		}
		if config.Exit.W < 1 || config.Exit.H < 1 {
			return invalid("exit must have positive size")
		}
	}
	if !strings.Contains(config.Messages.Solved, "%d") {
		return invalid("messages.solved must contain %%d for the move count")
	}

	switch config.Variant {
	case VariantBlocks:
		return validateBlocks(config)
	case VariantTiles:
		return validateTiles(config)
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidLayout, ErrUnknownVariant, config.Variant)
	}
}

func validateBlocks(config *PuzzleConfig) error {
	if len(config.Tiles) > 0 {
		return invalid("blocks layout must not define tiles")
	}
	if config.Exit == nil {
		return invalid("blocks layout requires an exit")
	}
	board := Board{Width: config.Width, Height: config.Height, Exit: config.Exit}

	seen := make(map[string]bool, len(config.Pieces))
	goals := 0
	area := 0
	for i, p := range config.Pieces {
		if p.ID == "" {
			return invalid("piece %d has no id", i)
		}
		if seen[p.ID] {
			return invalid("duplicate piece id %q", p.ID)
		}
		seen[p.ID] = true
		if p.W < 1 || p.H < 1 {
			return invalid("piece %q must have positive size, got %dx%d", p.ID, p.W, p.H)
		}
		if !board.Allows(p.Rect(), p.Goal) {
			return invalid("piece %q at (%d,%d) %dx%d is outside the board", p.ID, p.X, p.Y, p.W, p.H)
		}
		for _, q := range config.Pieces[:i] {
			if p.Rect().Overlaps(q.Rect()) {
				return invalid("pieces %q and %q overlap", q.ID, p.ID)
			}
		}
		if p.Goal {
			goals++
		}
		for _, c := range p.Rect().Cells() {
			if board.InBounds(c.X, c.Y, 1, 1) {
				area++
			}
		}
	}
	if goals != 1 {
		return invalid("exactly one goal piece is required, got %d", goals)
	}
	if area >= config.Width*config.Height {
		return invalid("board has no free cell")
	}
	return nil
}

func validateTiles(config *PuzzleConfig) error {
	if len(config.Pieces) > 0 {
		return invalid("tiles layout must not define pieces")
	}
	if len(config.Tiles) != config.Width*config.Height {
		return invalid("tiles must have %d entries to match %dx%d, got %d",
			config.Width*config.Height, config.Width, config.Height, len(config.Tiles))
	}

	empties := 0
	for i, tag := range config.Tiles {
		switch {
		case tag == EmptyTile:
			empties++
		case Category(tag) == "":
			return invalid("tile %d has an empty category", i)
		}
	}
	if empties == 0 {
		return invalid("tiles need at least one %q cell", EmptyTile)
	}
	if config.ExactEmpties > 0 && empties != config.ExactEmpties {
		return invalid("tiles need exactly %d %q cells, got %d", config.ExactEmpties, EmptyTile, empties)
	}

	if config.GoalCategory != "" {
		if config.Exit == nil {
			return invalid("goal_category %q requires an exit region", config.GoalCategory)
		}
		board := Board{Width: config.Width, Height: config.Height}
		if !board.InBounds(config.Exit.X, config.Exit.Y, config.Exit.W, config.Exit.H) {
			return invalid("exit region must lie inside the board")
		}
	}
	return nil
}

// ParsePuzzleConfig decodes and validates a JSON layout
func ParsePuzzleConfig(data []byte) (*PuzzleConfig, error) {
	var config PuzzleConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	normalized := Normalize(&config)
	if err := ValidatePuzzleConfig(normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// LoadPuzzleConfig loads a layout from a JSON file
func LoadPuzzleConfig(filename string) (*PuzzleConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	config, err := ParsePuzzleConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(configPath), err)
	}
	return config, nil
}
