package engine

// Rect is an axis-aligned rectangle in cell coordinates
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Overlaps reports whether two rectangles share at least one cell
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X &&
		r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// ContainsPoint reports whether the cell (x,y) lies inside r
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Translate returns r shifted by (dx,dy)
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Cells lists every cell of r in row-major order
func (r Rect) Cells() []Position {
	cells := make([]Position, 0, r.W*r.H)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			cells = append(cells, Position{X: x, Y: y})
		}
	}
	return cells
}

// Board is the fixed W×H coordinate space plus an optional exit
type Board struct {
	Width  int
	Height int
	Exit   *Exit
}

// InBounds reports whether [x,x+w)×[y,y+h) lies entirely inside the board
func (b Board) InBounds(x, y, w, h int) bool {
	return w >= 1 && h >= 1 &&
		x >= 0 && y >= 0 &&
		x+w <= b.Width && y+h <= b.Height
}

// Allows reports whether a piece may occupy r. The goal piece may also use
// exit cells that lie outside the board when the exit allows escape.
func (b Board) Allows(r Rect, goal bool) bool {
	if b.InBounds(r.X, r.Y, r.W, r.H) {
		return true
	}
	if !goal || b.Exit == nil || !b.Exit.AllowEscape {
		return false
	}
	exit := b.Exit.Rect()
	for _, c := range r.Cells() {
		if b.InBounds(c.X, c.Y, 1, 1) || exit.ContainsPoint(c.X, c.Y) {
			continue
		}
		return false
	}
	return true
}

// Index converts a cell to its row-major index
func (b Board) Index(x, y int) int {
	return y*b.Width + x
}

// Coordinate converts a row-major index back to (x,y)
func (b Board) Coordinate(idx int) (x, y int) {
	return idx % b.Width, idx / b.Width
}

// Neighbor returns the index next to idx in direction d, if it is on the board
func (b Board) Neighbor(idx int, d Direction) (int, bool) {
	dx, dy, ok := d.Delta()
	if !ok {
		return 0, false
	}
	x, y := b.Coordinate(idx)
	nx, ny := x+dx, y+dy
	if !b.InBounds(nx, ny, 1, 1) {
		return 0, false
	}
	return b.Index(nx, ny), true
}
