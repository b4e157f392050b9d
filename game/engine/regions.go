package engine

import (
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Category returns the part of a tile tag that decides grouping: the text
// before the first underscore. Empty cells have no category.
func Category(tag string) string {
	if tag == EmptyTile || tag == "" {
		return ""
	}
	if i := strings.IndexByte(tag, '_'); i >= 0 {
		return tag[:i]
	}
	return tag
}

// Regions maps every cell of a tile grid to its group
type Regions struct {
	// CellGroup holds a group index per cell, -1 for empty cells
	CellGroup []int
	Groups    []Group
}

// RecomputeGroups flood-fills the grid over the 4-neighbourhood. Group ids
// are assigned in row-major scan order from zero on every call, so they say
// nothing about the groups of a previous board.
func RecomputeGroups(b Board, cells []string) Regions {
	r := Regions{CellGroup: make([]int, len(cells))}
	for i := range r.CellGroup {
		r.CellGroup[i] = -1
	}

	visited := mapset.New[int]()
	for i, tag := range cells {
		if tag == EmptyTile || visited.Has(i) {
			continue
		}

		category := Category(tag)
		idx := len(r.Groups)
		group := Group{ID: "group_" + strconv.Itoa(idx), Category: category}

		queue := []int{i}
		visited.Put(i)
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			group.Tiles = append(group.Tiles, cur)
			r.CellGroup[cur] = idx

			for _, d := range ProbeOrder {
				n, ok := b.Neighbor(cur, d)
				if !ok || visited.Has(n) || cells[n] == EmptyTile {
					continue
				}
				if Category(cells[n]) != category {
					continue
				}
				visited.Put(n)
				queue = append(queue, n)
			}
		}
		r.Groups = append(r.Groups, group)
	}
	return r
}

// Lookup finds a group by id
func (r Regions) Lookup(id string) (Group, bool) {
	for _, g := range r.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// At returns the group covering cell idx
func (r Regions) At(idx int) (Group, bool) {
	if idx < 0 || idx >= len(r.CellGroup) || r.CellGroup[idx] < 0 {
		return Group{}, false
	}
	return r.Groups[r.CellGroup[idx]], true
}

// Copy returns groups that share no slices with r
func (r Regions) Copy() []Group {
	out := make([]Group, len(r.Groups))
	for i, g := range r.Groups {
		out[i] = Group{ID: g.ID, Category: g.Category, Tiles: append([]int(nil), g.Tiles...)}
	}
	return out
}
