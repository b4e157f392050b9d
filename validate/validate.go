// Command validate provides a small CLI that validates puzzle JSON files in a
// configs directory. It checks:
//   - JSON structure and required fields
//   - Board size, piece overlap and bounds, tile counts
//   - Exactly one goal piece for block puzzles
//   - Solvability: a breadth-first search must reach the exit from the
//     starting layout (a search that hits its limit is reported, not failed)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/solver"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single puzzle JSON file
func validateConfig(filePath string, limit int) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	config, err := engine.ParsePuzzleConfig(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	e, err := engine.NewEngine(config)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	state := e.State()

	solvable := validateSolvability(e, config, limit)
	if !solvable.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, solvable.Errors...)
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Variant: %s", config.Variant))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", config.Width, config.Height))
	if config.Variant == engine.VariantTiles {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Groups: %d", len(state.Groups)))
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Pieces: %d", len(state.Pieces)))
	}
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Free cells: %d", engine.CountFreeCells(state)))
	result.Errors = append(result.Errors, solvable.Errors...)
	return result
}

// validateSolvability searches for a solution from the starting layout. Tile
// grids without a goal category are free play and always pass.
func validateSolvability(e engine.Engine, config *engine.PuzzleConfig, limit int) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if config.Variant == engine.VariantTiles && config.GoalCategory == "" {
		result.Errors = append(result.Errors, "✓ Solvability: free play, no goal")
		return result
	}
	if e.IsSolved() {
		result.Valid = false
		result.Errors = append(result.Errors, "Puzzle is already solved at the start")
		return result
	}

	sol, err := solver.Solve(e, limit)
	switch {
	case err == nil:
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Solvability: solved in %d moves (%d positions explored)", len(sol.Steps), sol.Explored))
	case errors.Is(err, solver.ErrLimitReached):
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Solvability: unknown, search stopped after %d positions", limit))
	default:
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Solvability failure: %v", err))
	}
	return result
}

// run validates every *.json file in dir, printing a concise report to w. It
// reports whether all files are valid.
func run(w io.Writer, dir string, limit int) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no puzzle files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file, limit)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All puzzles are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some puzzles have errors")
	}
	return allValid, nil
}

// main validates the configs directory and exits with non-zero status if any
// file is invalid.
func main() {
	cmd := &cli.Command{
		Name:  "validate",
		Usage: "Validate puzzle files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "../configs",
				Usage:   "Directory containing puzzle files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: solver.DefaultLimit,
				Usage: "Maximum positions the solver expands per puzzle",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := run(os.Stdout, cmd.String("config-dir"), cmd.Int("limit"))
			if err != nil {
				return err
			}
			if !ok {
				os.Exit(1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("validate failed")
	}
}
