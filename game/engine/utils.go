package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// CountFreeCells counts the board cells no piece or tile occupies
func CountFreeCells(state *GameState) int {
	if state.Variant == VariantTiles {
		free := 0
		for _, t := range state.Tiles {
			if t.Tag == EmptyTile {
				free++
			}
		}
		return free
	}

	board := Board{Width: state.Width, Height: state.Height}
	occupied := 0
	for _, p := range state.Pieces {
		for _, c := range p.Rect().Cells() {
			if board.InBounds(c.X, c.Y, 1, 1) {
				occupied++
			}
		}
	}
	return state.Width*state.Height - occupied
}

// GoalDistance returns the Manhattan distance from the goal piece to the
// exit. It reports false when the state has no goal piece or no exit.
func GoalDistance(state *GameState) (int, bool) {
	if state.Exit == nil {
		return 0, false
	}
	for _, p := range state.Pieces {
		if !p.Goal {
			continue
		}
		target := Position{X: state.Exit.X, Y: state.Exit.Y}
		if state.Exit.Match == MatchWithin && state.Exit.Rect().ContainsPoint(p.X, p.Y) {
			return 0, true
		}
		return ManhattanDistance(Position{X: p.X, Y: p.Y}, target), true
	}
	return 0, false
}

// CountCategory counts the tiles of a category in a tile grid state
func CountCategory(state *GameState, category string) int {
	count := 0
	for _, t := range state.Tiles {
		if t.Category == category {
			count++
		}
	}
	return count
}
