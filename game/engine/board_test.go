package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoard_InBounds(t *testing.T) {
	b := Board{Width: 4, Height: 5}

	tests := []struct {
		name       string
		x, y, w, h int
		expected   bool
	}{
		{"top-left cell", 0, 0, 1, 1, true},
		{"whole board", 0, 0, 4, 5, true},
		{"bottom-right 2x2", 2, 3, 2, 2, true},
		{"negative x", -1, 0, 1, 1, false},
		{"negative y", 0, -1, 1, 1, false},
		{"past right edge", 3, 0, 2, 1, false},
		{"past bottom edge", 0, 4, 1, 2, false},
		{"zero width", 0, 0, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, b.InBounds(tt.x, tt.y, tt.w, tt.h))
		})
	}
}

func TestRect_Overlaps(t *testing.T) {
	a := Rect{X: 1, Y: 1, W: 2, H: 2}

	tests := []struct {
		name     string
		other    Rect
		expected bool
	}{
		{"identical", a, true},
		{"shared corner cell", Rect{X: 2, Y: 2, W: 1, H: 1}, true},
		{"touching right edge", Rect{X: 3, Y: 1, W: 1, H: 2}, false},
		{"touching bottom edge", Rect{X: 1, Y: 3, W: 2, H: 1}, false},
		{"far away", Rect{X: 5, Y: 5, W: 1, H: 1}, false},
		{"contains", Rect{X: 0, Y: 0, W: 4, H: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.Overlaps(tt.other))
			assert.Equal(t, tt.expected, tt.other.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestBoard_Allows(t *testing.T) {
	exit := &Exit{X: 1, Y: 4, W: 2, H: 2, Match: MatchExact, AllowEscape: true}
	b := Board{Width: 4, Height: 5, Exit: exit}

	assert.True(t, b.Allows(Rect{X: 1, Y: 4, W: 2, H: 2}, true), "goal may use escape cells")
	assert.False(t, b.Allows(Rect{X: 1, Y: 4, W: 2, H: 2}, false), "other pieces stay on the board")
	assert.False(t, b.Allows(Rect{X: 2, Y: 4, W: 2, H: 2}, true), "cells outside board and exit")

	b.Exit = &Exit{X: 1, Y: 4, W: 2, H: 2, Match: MatchExact}
	assert.False(t, b.Allows(Rect{X: 1, Y: 4, W: 2, H: 2}, true), "escape disabled")
}

func TestBoard_Neighbor(t *testing.T) {
	b := Board{Width: 3, Height: 2}

	n, ok := b.Neighbor(0, Right)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = b.Neighbor(1, Down)
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = b.Neighbor(2, Right)
	assert.False(t, ok, "right edge must not wrap to the next row")

	_, ok = b.Neighbor(3, Left)
	assert.False(t, ok, "left edge must not wrap to the previous row")

	_, ok = b.Neighbor(0, Up)
	assert.False(t, ok)

	_, ok = b.Neighbor(0, Direction("sideways"))
	assert.False(t, ok)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		ok       bool
	}{
		{"up", Up, true},
		{"DOWN", Down, true},
		{" Left ", Left, true},
		{"right", Right, true},
		{"north", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, ok := ParseDirection(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDirection_Opposite(t *testing.T) {
	for _, d := range ProbeOrder {
		assert.Equal(t, d, d.Opposite().Opposite())
		dx, dy, _ := d.Delta()
		ox, oy, _ := d.Opposite().Delta()
		assert.Equal(t, 0, dx+ox)
		assert.Equal(t, 0, dy+oy)
	}
}

func TestExit_Reached(t *testing.T) {
	exact := &Exit{X: 1, Y: 3, W: 1, H: 1, Match: MatchExact}
	assert.True(t, exact.Reached(Piece{X: 1, Y: 3}))
	assert.False(t, exact.Reached(Piece{X: 1, Y: 2}), "one cell away is not solved")

	within := &Exit{X: 1, Y: 3, W: 2, H: 2, Match: MatchWithin}
	assert.True(t, within.Reached(Piece{X: 2, Y: 4}))
	assert.False(t, within.Reached(Piece{X: 3, Y: 3}))

	var none *Exit
	assert.False(t, none.Reached(Piece{}))
}
