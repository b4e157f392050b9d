// Package solver searches puzzle positions breadth-first for the shortest
// sequence of unit moves that solves a puzzle.
package solver

import (
	"errors"

	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/zyedidia/generic/mapset"
)

// DefaultLimit bounds the number of positions a search expands
const DefaultLimit = 200000

var (
	ErrUnsolvable   = errors.New("puzzle has no solution from this position")
	ErrLimitReached = errors.New("search limit reached before a solution was found")
)

// Solution is a shortest list of unit moves. For tile puzzles each ref is the
// group id valid in the position the step is applied to.
type Solution struct {
	Steps    []engine.Step `json:"steps"`
	Explored int           `json:"explored"`
}

type node struct {
	e    engine.Engine
	path []engine.Step
}

// Solve runs a breadth-first search from the current position of e. The
// engine itself is never modified. A limit of zero or less uses DefaultLimit.
func Solve(e engine.Engine, limit int) (*Solution, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if e.IsSolved() {
		return &Solution{Steps: []engine.Step{}}, nil
	}

	visited := mapset.New[string]()
	visited.Put(e.Key())
	queue := []node{{e: e.Clone()}}
	explored := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		explored++
		if explored > limit {
			return nil, ErrLimitReached
		}

		for _, step := range cur.e.ValidMoves() {
			next := cur.e.Clone()
			if out := next.AttemptMove(step.Ref, step.Direction); !out.Applied {
				continue
			}
			key := next.Key()
			if visited.Has(key) {
				continue
			}
			visited.Put(key)

			path := make([]engine.Step, len(cur.path)+1)
			copy(path, cur.path)
			path[len(cur.path)] = step
			if next.IsSolved() {
				return &Solution{Steps: path, Explored: explored}, nil
			}
			queue = append(queue, node{e: next, path: path})
		}
	}
	return nil, ErrUnsolvable
}

// Hint returns the first step of a shortest solution. It reports false when
// the puzzle is already solved.
func Hint(e engine.Engine, limit int) (engine.Step, bool, error) {
	sol, err := Solve(e, limit)
	if err != nil {
		return engine.Step{}, false, err
	}
	if len(sol.Steps) == 0 {
		return engine.Step{}, false, nil
	}
	return sol.Steps[0], true, nil
}

// Reachable counts the distinct positions reachable from e, stopping at limit
func Reachable(e engine.Engine, limit int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	visited := mapset.New[string]()
	visited.Put(e.Key())
	queue := []engine.Engine{e.Clone()}

	for len(queue) > 0 && visited.Size() < limit {
		cur := queue[0]
		queue = queue[1:]
		for _, step := range cur.ValidMoves() {
			next := cur.Clone()
			next.AttemptMove(step.Ref, step.Direction)
			key := next.Key()
			if visited.Has(key) {
				continue
			}
			visited.Put(key)
			queue = append(queue, next)
		}
	}
	return visited.Size()
}
