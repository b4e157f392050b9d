package engine

// Reached reports whether the goal piece satisfies the exit. A nil exit is
// never reached.
func (x *Exit) Reached(goal Piece) bool {
	if x == nil {
		return false
	}
	switch x.Match {
	case MatchWithin:
		return x.Rect().ContainsPoint(goal.X, goal.Y)
	default:
		return goal.X == x.X && goal.Y == x.Y
	}
}

// regionFilled reports whether every board cell of the exit region holds a
// tile of the given category
func regionFilled(b Board, cells []string, x *Exit, category string) bool {
	if x == nil || category == "" {
		return false
	}
	covered := 0
	for _, c := range x.Rect().Cells() {
		if !b.InBounds(c.X, c.Y, 1, 1) {
			continue
		}
		if Category(cells[b.Index(c.X, c.Y)]) != category {
			return false
		}
		covered++
	}
	return covered > 0
}
