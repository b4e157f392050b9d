package engine

import (
	"fmt"
	"sort"
)

// Built-in layouts. Each call to Preset returns a fresh copy so callers may
// modify the result.
var presets = map[string]PuzzleConfig{
	"princess": {
		Name:        "princess",
		Description: "Escape the princess through the opening at the bottom of the board",
		Variant:     VariantBlocks,
		Width:       4,
		Height:      5,
		Pieces: []Piece{
			{ID: "princess", X: 1, Y: 0, W: 2, H: 2, Category: "princess", Goal: true},
			{ID: "family1", X: 0, Y: 2, W: 1, H: 2, Category: "family"},
			{ID: "family2", X: 3, Y: 0, W: 1, H: 2, Category: "family"},
			{ID: "family3", X: 2, Y: 2, W: 1, H: 2, Category: "family"},
			{ID: "family4", X: 0, Y: 4, W: 2, H: 1, Category: "family"},
		},
		Exit: &Exit{X: 2, Y: 4, W: 2, H: 2, Match: MatchExact, AllowEscape: true},
		Messages: Messages{
			Welcome: "Help the princess escape through the bottom opening.",
			Solved:  "Escaped in %d moves!",
		},
	},
	"mother": {
		Name:        "mother",
		Description: "Bring mother down to the middle of the bottom rows",
		Variant:     VariantBlocks,
		Width:       4,
		Height:      5,
		Pieces: []Piece{
			{ID: "mom", X: 1, Y: 0, W: 2, H: 2, Category: "mom", Label: "母", Goal: true},
			{ID: "child1", X: 0, Y: 0, W: 1, H: 2, Category: "child", Label: "子1"},
			{ID: "child2", X: 3, Y: 0, W: 1, H: 2, Category: "child", Label: "子2"},
			{ID: "dad1", X: 0, Y: 2, W: 1, H: 2, Category: "dad", Label: "父1"},
			{ID: "dad2", X: 3, Y: 2, W: 1, H: 2, Category: "dad", Label: "父2"},
			{ID: "aunt1", X: 1, Y: 3, W: 1, H: 2, Category: "aunt", Label: "叔1"},
			{ID: "aunt2", X: 2, Y: 3, W: 1, H: 2, Category: "aunt", Label: "叔2"},
		},
		Exit:        &Exit{X: 1, Y: 3, W: 1, H: 1, Match: MatchExact},
		NudgePolicy: NudgeSilent,
		Messages: Messages{
			Welcome: "Tap a piece to slide it into an open space.",
			Solved:  "Cleared! Moves: %d",
		},
	},
	"boxes": {
		Name:        "boxes",
		Description: "Ten boxes; bring the big box to the bottom middle",
		Variant:     VariantBlocks,
		Width:       4,
		Height:      5,
		Pieces: []Piece{
			{ID: "1", X: 0, Y: 0, W: 2, H: 2, Goal: true},
			{ID: "2", X: 2, Y: 0, W: 1, H: 2},
			{ID: "3", X: 3, Y: 0, W: 1, H: 1},
			{ID: "4", X: 3, Y: 1, W: 1, H: 1},
			{ID: "5", X: 0, Y: 2, W: 1, H: 2},
			{ID: "6", X: 1, Y: 2, W: 1, H: 1},
			{ID: "7", X: 1, Y: 3, W: 1, H: 1},
			{ID: "8", X: 2, Y: 2, W: 2, H: 1},
			{ID: "9", X: 2, Y: 3, W: 1, H: 1},
			{ID: "10", X: 3, Y: 3, W: 1, H: 1},
		},
		Exit: &Exit{X: 1, Y: 3, W: 1, H: 1, Match: MatchExact},
	},
	"colors": {
		Name:        "colors",
		Description: "Slide groups of colored tiles into the empty cell",
		Variant:     VariantTiles,
		Width:       4,
		Height:      4,
		Tiles: []string{
			"orange_A", "red_A", "red_A", "lime_A",
			"pink_A", "pink_A", "purple_A", "blue_A",
			"pink_A", "lightgray_A", "lightblue_A", "green_A",
			"lightblue_A", "green_A", "lavender_A", "empty",
		},
		ExactEmpties: 1,
		NudgePolicy:  NudgeSilent,
		Messages: Messages{
			Welcome: "Tap a group next to the empty cell to move it.",
		},
	},
	"starter": {
		Name:        "starter",
		Description: "A short warm-up: two slides free the goal block",
		Variant:     VariantBlocks,
		Width:       4,
		Height:      5,
		Pieces: []Piece{
			{ID: "goal", X: 1, Y: 0, W: 2, H: 2, Goal: true},
			{ID: "A", X: 0, Y: 0, W: 1, H: 2},
			{ID: "B", X: 3, Y: 0, W: 1, H: 2},
			{ID: "C", X: 0, Y: 3, W: 1, H: 2},
			{ID: "D", X: 1, Y: 2, W: 1, H: 1},
			{ID: "E", X: 3, Y: 3, W: 1, H: 2},
		},
		Exit: &Exit{X: 1, Y: 3, W: 1, H: 1, Match: MatchExact},
	},
}

// PresetNames returns the built-in layout names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a normalized copy of a built-in layout
func Preset(name string) (*PuzzleConfig, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found", name)
	}
	return Normalize(&p), nil
}

// Presets returns normalized copies of every built-in layout
func Presets() []*PuzzleConfig {
	out := make([]*PuzzleConfig, 0, len(presets))
	for _, name := range PresetNames() {
		cfg, _ := Preset(name)
		out = append(out, cfg)
	}
	return out
}
