package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/solver"
)

const testPuzzle = `{
	"name": "Test Puzzle",
	"description": "Test configuration",
	"variant": "blocks",
	"width": 3,
	"height": 3,
	"pieces": [
		{"id": "goal", "x": 0, "y": 0, "w": 2, "h": 1, "goal": true},
		{"id": "A", "x": 2, "y": 0, "w": 1, "h": 2}
	],
	"exit": {"x": 0, "y": 2, "w": 2, "h": 1}
}`

func TestAnalyzeConfig_Starter(t *testing.T) {
	cfg, err := engine.Preset("starter")
	if err != nil {
		t.Fatalf("Failed to load preset: %v", err)
	}

	a, err := analyzeConfig("starter", cfg, 0)
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}

	if a.Units != 6 {
		t.Errorf("Expected 6 pieces, got %d", a.Units)
	}
	if a.FreeCells != 7 {
		t.Errorf("Expected 7 free cells, got %d", a.FreeCells)
	}
	if !a.HasGoal || a.GoalDistance != 3 {
		t.Errorf("Expected goal distance 3, got %d (has goal %v)", a.GoalDistance, a.HasGoal)
	}
	if a.OpenMoves != 9 {
		t.Errorf("Expected 9 open moves, got %d", a.OpenMoves)
	}
	if a.SolveErr != nil {
		t.Fatalf("Expected starter to be solvable, got %v", a.SolveErr)
	}
	if len(a.Solution.Steps) != 4 {
		t.Errorf("Expected a 4 move solution, got %d", len(a.Solution.Steps))
	}
}

func TestAnalyzeConfig_Tiles(t *testing.T) {
	cfg, err := engine.Preset("colors")
	if err != nil {
		t.Fatalf("Failed to load preset: %v", err)
	}

	a, err := analyzeConfig("colors", cfg, 1000)
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}
	if a.Variant != engine.VariantTiles {
		t.Errorf("Expected tiles variant, got %s", a.Variant)
	}
	if a.FreeCells != 1 {
		t.Errorf("Expected 1 free cell, got %d", a.FreeCells)
	}
	if a.HasGoal {
		t.Error("Tile grid without goal category should report no goal distance")
	}
}

func TestPrintAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		analysis Analysis
		expected string
	}{
		{
			name:     "solvable",
			analysis: Analysis{Solution: &solver.Solution{Steps: make([]engine.Step, 3), Explored: 12}},
			expected: "Solvable in 3 moves (12 positions explored)",
		},
		{
			name:     "already solved",
			analysis: Analysis{Solution: &solver.Solution{Steps: []engine.Step{}}},
			expected: "Already solved",
		},
		{
			name:     "limit reached",
			analysis: Analysis{SolveErr: solver.ErrLimitReached},
			expected: "search limit reached",
		},
		{
			name:     "unsolvable",
			analysis: Analysis{SolveErr: solver.ErrUnsolvable},
			expected: "no solution",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printAnalysis(&buf, &tt.analysis)
			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("Expected %q in output, got:\n%s", tt.expected, buf.String())
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "small.json"), []byte(testPuzzle), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name": "test", invalid json}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	var buf bytes.Buffer
	if err := run(&buf, dir, 10000); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"=== Analyzing small (file) ===",
		"Solvable in 2 moves",
		"=== Analyzing starter (preset) ===",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output", want)
		}
	}
	if strings.Contains(out, "broken") {
		t.Error("Invalid puzzle file should be skipped")
	}
}

func TestRun_MissingDir(t *testing.T) {
	var buf bytes.Buffer
	if err := run(&buf, "/non/existent/dir", 100); err == nil {
		t.Error("Expected error for missing config directory")
	}
}
