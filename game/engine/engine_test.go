package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertLayoutInvariant checks that no two pieces overlap and every piece
// stays on the board, with the goal piece also allowed on escape cells
func assertLayoutInvariant(t *testing.T, e Engine) {
	t.Helper()
	state := e.State()
	board := Board{Width: state.Width, Height: state.Height, Exit: state.Exit}

	switch state.Variant {
	case VariantBlocks:
		for i, p := range state.Pieces {
			require.True(t, board.Allows(p.Rect(), p.Goal), "piece %s out of bounds at (%d,%d)", p.ID, p.X, p.Y)
			for _, q := range state.Pieces[i+1:] {
				require.False(t, p.Rect().Overlaps(q.Rect()), "pieces %s and %s overlap", p.ID, q.ID)
			}
		}
	case VariantTiles:
		require.Len(t, state.Tiles, state.Width*state.Height)
		initial := e.Config().Tiles
		assert.Equal(t, countTags(initial), countTags(tagsOf(state.Tiles)), "tiles are conserved")
	}
}

func tagsOf(tiles []Tile) []string {
	out := make([]string, len(tiles))
	for i, tile := range tiles {
		out[i] = tile.Tag
	}
	return out
}

func countTags(tags []string) map[string]int {
	counts := make(map[string]int)
	for _, tag := range tags {
		counts[tag]++
	}
	return counts
}

func TestRandomMoves_PreserveInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, name)
			refs := make([]string, 0)
			for _, p := range e.Config().Pieces {
				refs = append(refs, p.ID)
			}

			for i := 0; i < 300; i++ {
				ref := "group_" + string(rune('0'+rng.IntN(10)))
				if len(refs) > 0 {
					ref = refs[rng.IntN(len(refs))]
				}
				d := ProbeOrder[rng.IntN(len(ProbeOrder))]

				before := e.State()
				movesBefore := e.Moves()
				var out MoveOutcome
				switch rng.IntN(3) {
				case 0:
					out = e.AttemptMove(ref, d)
				case 1:
					out = e.Slide(ref, d)
				default:
					out = e.Nudge(ref)
				}

				if out.Applied {
					assert.Equal(t, movesBefore+1, e.Moves())
				} else {
					assert.Equal(t, before, e.State(), "rejected move changed state")
				}
				assertLayoutInvariant(t, e)
			}
		})
	}
}

func TestShuffle(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t, name)
			rng := rand.New(rand.NewPCG(42, 7))

			applied := Shuffle(e, rng, 40)
			assert.Equal(t, 40, applied)
			assert.Equal(t, 0, e.Moves(), "shuffle clears the move counter")
			assert.Equal(t, e.Config().Messages.Welcome, e.State().Message)
			assertLayoutInvariant(t, e)
		})
	}
}

func TestShuffle_CapsSteps(t *testing.T) {
	e := newTestEngine(t, "starter")
	rng := rand.New(rand.NewPCG(3, 4))

	applied := Shuffle(e, rng, MaxShuffleSteps+500)
	assert.Equal(t, MaxShuffleSteps, applied)
}

func TestShuffle_Deterministic(t *testing.T) {
	a := newTestEngine(t, "boxes")
	b := newTestEngine(t, "boxes")

	Shuffle(a, rand.New(rand.NewPCG(9, 9)), 25)
	Shuffle(b, rand.New(rand.NewPCG(9, 9)), 25)
	assert.Equal(t, a.Key(), b.Key())
}

func TestCountFreeCells(t *testing.T) {
	assert.Equal(t, 7, CountFreeCells(newTestEngine(t, "starter").State()))
	assert.Equal(t, 4, CountFreeCells(newTestEngine(t, "boxes").State()))
	assert.Equal(t, 1, CountFreeCells(newTestEngine(t, "colors").State()))
}

func TestGoalDistance(t *testing.T) {
	e := newTestEngine(t, "starter")
	d, ok := GoalDistance(e.State())
	require.True(t, ok)
	assert.Equal(t, 3, d)

	_, ok = GoalDistance(newTestEngine(t, "colors").State())
	assert.False(t, ok)
}
