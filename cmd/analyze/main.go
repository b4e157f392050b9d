// Command analyze prints quick, human-readable heuristics about every puzzle
// in the catalog: built-in presets and the JSON files of a config directory.
// It summarizes dimensions, free cells, the goal's distance to the exit, the
// moves open from the start and what a breadth-first search finds.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/box-puzzle/game/config"
	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/solver"
)

// Analysis holds the heuristics computed for one puzzle
type Analysis struct {
	PuzzleID     string
	Name         string
	Variant      engine.Variant
	Width        int
	Height       int
	Units        int // pieces or tile groups
	FreeCells    int
	GoalDistance int
	HasGoal      bool
	OpenMoves    int
	Solution     *solver.Solution
	SolveErr     error
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Print heuristics and solver results for every puzzle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
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
			return run(os.Stdout, cmd.String("config-dir"), cmd.Int("limit"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("analyze failed")
	}
}

// run analyzes the whole catalog of dir and writes a report to w
func run(w io.Writer, dir string, limit int) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}
	puzzles, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	for _, p := range puzzles {
		fmt.Fprintf(w, "\n=== Analyzing %s (%s) ===\n", p.PuzzleID, p.Source)
		cfg, err := manager.LoadConfig(p.PuzzleID)
		if err != nil {
			fmt.Fprintf(w, "Error loading puzzle: %v\n", err)
			continue
		}
		a, err := analyzeConfig(p.PuzzleID, cfg, limit)
		if err != nil {
			fmt.Fprintf(w, "Error creating engine: %v\n", err)
			continue
		}
		printAnalysis(w, a)
	}
	return nil
}

func analyzeConfig(id string, cfg *engine.PuzzleConfig, limit int) (*Analysis, error) {
	e, err := engine.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	state := e.State()

	a := &Analysis{
		PuzzleID:  id,
		Name:      cfg.Name,
		Variant:   state.Variant,
		Width:     state.Width,
		Height:    state.Height,
		FreeCells: engine.CountFreeCells(state),
		OpenMoves: len(e.ValidMoves()),
	}
	if state.Variant == engine.VariantTiles {
		a.Units = len(state.Groups)
	} else {
		a.Units = len(state.Pieces)
	}
	a.GoalDistance, a.HasGoal = engine.GoalDistance(state)

	a.Solution, a.SolveErr = solver.Solve(e, limit)
	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Variant: %s\n", a.Variant)
	fmt.Fprintf(w, "Board: %d x %d\n", a.Width, a.Height)
	if a.Variant == engine.VariantTiles {
		fmt.Fprintf(w, "Groups: %d\n", a.Units)
	} else {
		fmt.Fprintf(w, "Pieces: %d\n", a.Units)
	}
	fmt.Fprintf(w, "Free Cells: %d\n", a.FreeCells)
	if a.HasGoal {
		fmt.Fprintf(w, "Goal Distance: %d\n", a.GoalDistance)
	}
	fmt.Fprintf(w, "Open Moves: %d\n", a.OpenMoves)

	switch {
	case a.SolveErr == nil && len(a.Solution.Steps) == 0:
		fmt.Fprintf(w, "✅ Already solved at the start\n")
	case a.SolveErr == nil:
		fmt.Fprintf(w, "✅ Solvable in %d moves (%d positions explored)\n", len(a.Solution.Steps), a.Solution.Explored)
	case errors.Is(a.SolveErr, solver.ErrLimitReached):
		fmt.Fprintf(w, "⚠️  WARNING: search limit reached, solvability unknown\n")
	case errors.Is(a.SolveErr, solver.ErrUnsolvable):
		fmt.Fprintf(w, "⚠️  CRITICAL: no solution from the starting layout\n")
	default:
		fmt.Fprintf(w, "Error solving: %v\n", a.SolveErr)
	}
}
