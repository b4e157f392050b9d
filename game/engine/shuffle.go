package engine

import "math/rand/v2"

// Shuffle scrambles e by a random walk of accepted unit moves, so the result
// is always reachable from the starting layout. The walk avoids undoing the
// previous move when another move is available. It returns the number of
// moves applied and clears the move counter afterwards.
func Shuffle(e Engine, rng *rand.Rand, steps int) int {
	if steps > MaxShuffleSteps {
		steps = MaxShuffleSteps
	}

	applied := 0
	lastCell := -1
	var lastDir Direction
	for i := 0; i < steps; i++ {
		moves := e.ValidMoves()
		if len(moves) == 0 {
			break
		}

		candidates := moves[:0:0]
		for _, m := range moves {
			if lastDir != "" && m.Direction == lastDir.Opposite() && anchor(e, m.Ref) == lastCell {
				continue
			}
			candidates = append(candidates, m)
		}
		if len(candidates) == 0 {
			candidates = moves
		}

		step := candidates[rng.IntN(len(candidates))]
		out := e.AttemptMove(step.Ref, step.Direction)
		if !out.Applied {
			continue
		}
		applied++
		lastDir = step.Direction
		lastCell = -1
		if len(out.Positions) > 0 {
			lastCell = out.Positions[0].Y*maxSide + out.Positions[0].X
		}
	}

	e.clearCounter()
	return applied
}

// maxSide keeps cell keys unique for any board that passes validation
const maxSide = MaxBoardSize + 2

// anchor returns the key of the first cell of the piece or group named ref
func anchor(e Engine, ref string) int {
	switch v := e.(type) {
	case *BlockEngine:
		if p, ok := v.pieces.Get(ref); ok {
			return p.Y*maxSide + p.X
		}
	case *TileEngine:
		if g, ok := v.regions.Lookup(ref); ok && len(g.Tiles) > 0 {
			x, y := v.board.Coordinate(g.Tiles[0])
			return y*maxSide + x
		}
	}
	return -2
}
