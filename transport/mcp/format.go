package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/service"
)

const (
	emptySymbol = '.'
	exitSymbol  = 'o'
	goalSymbol  = '#'
)

// symbols are handed out to pieces and groups in state order
const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnpqrstuvwxyz0123456789"

func symbolFor(i int) byte {
	if i < len(symbols) {
		return symbols[i]
	}
	return '?'
}

// renderBoard draws the grid with a column header and row numbers, followed
// by a legend mapping each symbol to a piece or group id
func renderBoard(state *engine.GameState) string {
	if state == nil || state.Width <= 0 || state.Height <= 0 {
		return ""
	}

	grid := make([][]byte, state.Height)
	for y := range grid {
		grid[y] = make([]byte, state.Width)
		for x := range grid[y] {
			grid[y][x] = emptySymbol
		}
	}
	inBoard := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < state.Width && y < state.Height
	}

	if state.Exit != nil {
		for y := state.Exit.Y; y < state.Exit.Y+state.Exit.H; y++ {
			for x := state.Exit.X; x < state.Exit.X+state.Exit.W; x++ {
				if inBoard(x, y) {
					grid[y][x] = exitSymbol
				}
			}
		}
	}

	var legend []string
	switch state.Variant {
	case engine.VariantTiles:
		index := make(map[string]int, len(state.Groups))
		for i, g := range state.Groups {
			index[g.ID] = i
			legend = append(legend, fmt.Sprintf("  %c = %s (%s, %d tiles)", symbolFor(i), g.ID, g.Category, len(g.Tiles)))
		}
		for _, t := range state.Tiles {
			if i, ok := index[t.GroupID]; ok && inBoard(t.X, t.Y) {
				grid[t.Y][t.X] = symbolFor(i)
			}
		}
	default:
		n := 0
		for _, p := range state.Pieces {
			sym := goalSymbol
			if !p.Goal {
				sym = rune(symbolFor(n))
				n++
			}
			desc := fmt.Sprintf("  %c = %s %dx%d at (%d,%d)", sym, p.ID, p.W, p.H, p.X, p.Y)
			if p.Goal {
				desc += " goal"
			}
			legend = append(legend, desc)
			for y := p.Y; y < p.Y+p.H; y++ {
				for x := p.X; x < p.X+p.W; x++ {
					if inBoard(x, y) {
						grid[y][x] = byte(sym)
					}
				}
			}
		}
	}

	var b strings.Builder
	b.WriteString("   ")
	for x := 0; x < state.Width; x++ {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")
	for y, row := range grid {
		fmt.Fprintf(&b, "%2d %s\n", y, row)
	}
	if len(legend) > 0 {
		b.WriteString("\nLegend:\n")
		b.WriteString(strings.Join(legend, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle: %s (%s, %dx%d)\n", state.PuzzleName, state.Variant, state.Width, state.Height)
	fmt.Fprintf(&b, "Moves: %d\n", state.Moves)
	if state.Solved {
		b.WriteString("Status: SOLVED\n")
	} else {
		b.WriteString("Status: in progress\n")
	}
	if state.Exit != nil {
		fmt.Fprintf(&b, "Exit: (%d,%d) %dx%d, match %s", state.Exit.X, state.Exit.Y, state.Exit.W, state.Exit.H, state.Exit.Match)
		if state.GoalCategory != "" {
			fmt.Fprintf(&b, ", filled by %s", state.GoalCategory)
		}
		b.WriteString("\n")
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}
	b.WriteString("\n")
	b.WriteString(renderBoard(state))
	return b.String()
}

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\n", info.ID)
	fmt.Fprintf(&b, "Puzzle: %s\n", info.PuzzleID)
	fmt.Fprintf(&b, "Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Last accessed: %s\n\n", info.LastAccessedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(formatGameState(info.GameState))
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	out := result.Outcome
	if result.Success {
		fmt.Fprintf(&b, "✓ %s moved %s", out.Ref, out.Direction)
		if out.Group != "" && out.Group != out.Ref {
			fmt.Fprintf(&b, " (now %s)", out.Group)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("✗ Move rejected")
		if out.Reason != "" {
			fmt.Fprintf(&b, ": %s", out.Reason)
		}
		b.WriteString("\n")
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bulk move for session %s: %d/%d moves executed\n", sessionID, result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d moves\n", result.Limit)
	}
	for _, s := range result.Steps {
		mark := "✓"
		if !s.Success {
			mark = "✗"
		}
		fmt.Fprintf(&b, "  %d. %s %s %s\n", s.Idx, mark, s.Ref, s.Dir)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s (%s)\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
	}
	if len(result.ValidMoves) > 0 && !result.Solved {
		moves := make([]string, len(result.ValidMoves))
		for i, m := range result.ValidMoves {
			moves[i] = fmt.Sprintf("%s %s", m.Ref, m.Direction)
		}
		fmt.Fprintf(&b, "Valid moves now: %s\n", strings.Join(moves, ", "))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (page %d of %d, %d moves total):\n\n", history.Page, history.TotalPages, history.TotalMoves)
	if len(history.Moves) == 0 {
		b.WriteString("No moves yet\n")
		return b.String()
	}
	for _, m := range history.Moves {
		fmt.Fprintf(&b, "%d. [%s] %s %s", m.Index, m.Action, m.Ref, m.Direction)
		if m.Group != "" && m.Group != m.Ref {
			fmt.Fprintf(&b, " -> %s", m.Group)
		}
		if m.Solved {
			b.WriteString(" (solved)")
		}
		b.WriteString("\n")
	}
	if history.HasNext {
		b.WriteString("\nMore moves on the next page\n")
	}
	return b.String()
}

func formatHint(hint *service.HintResult) string {
	if hint.Solved {
		return "Puzzle is already solved"
	}
	if hint.Step == nil {
		return hint.Message
	}
	return fmt.Sprintf("Next: move %s %s\nShortest solution: %d moves (%d positions explored)",
		hint.Step.Ref, hint.Step.Direction, hint.SolutionLength, hint.Explored)
}

// describeCell reports what covers (x,y) in a state snapshot
func describeCell(state *engine.GameState, x, y int) (string, error) {
	if x < 0 || y < 0 || x >= state.Width || y >= state.Height {
		return "", fmt.Errorf("cell (%d,%d) is outside the %dx%d board", x, y, state.Width, state.Height)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d): ", x, y)

	inExit := state.Exit != nil &&
		x >= state.Exit.X && x < state.Exit.X+state.Exit.W &&
		y >= state.Exit.Y && y < state.Exit.Y+state.Exit.H

	found := false
	switch state.Variant {
	case engine.VariantTiles:
		for _, t := range state.Tiles {
			if t.X != x || t.Y != y {
				continue
			}
			if t.Tag != engine.EmptyTile {
				fmt.Fprintf(&b, "tile %s (category %s) in %s", t.Tag, t.Category, t.GroupID)
				found = true
			}
			break
		}
	default:
		for _, p := range state.Pieces {
			if x >= p.X && x < p.X+p.W && y >= p.Y && y < p.Y+p.H {
				fmt.Fprintf(&b, "piece %s %dx%d at (%d,%d)", p.ID, p.W, p.H, p.X, p.Y)
				if p.Category != "" {
					fmt.Fprintf(&b, ", category %s", p.Category)
				}
				if p.Label != "" {
					fmt.Fprintf(&b, ", label %s", p.Label)
				}
				if p.Goal {
					b.WriteString(", goal piece")
				}
				found = true
				break
			}
		}
	}
	if !found {
		b.WriteString("empty")
	}
	if inExit {
		b.WriteString(" [exit]")
	}
	return b.String(), nil
}
