package engine

// PieceSet owns the pieces of a blocks board. It performs no validation:
// only the move executor calls SetPosition, after the move was checked.
type PieceSet struct {
	pieces []Piece
	index  map[string]int
}

// NewPieceSet deep-copies src so the set never aliases a layout
func NewPieceSet(src []Piece) *PieceSet {
	s := &PieceSet{
		pieces: make([]Piece, len(src)),
		index:  make(map[string]int, len(src)),
	}
	copy(s.pieces, src)
	for i, p := range s.pieces {
		s.index[p.ID] = i
	}
	return s
}

// All returns a copy of the pieces in layout order
func (s *PieceSet) All() []Piece {
	out := make([]Piece, len(s.pieces))
	copy(out, s.pieces)
	return out
}

// Get looks up a piece by ID
func (s *PieceSet) Get(id string) (Piece, bool) {
	i, ok := s.index[id]
	if !ok {
		return Piece{}, false
	}
	return s.pieces[i], true
}

// Goal returns the goal piece
func (s *PieceSet) Goal() (Piece, bool) {
	for _, p := range s.pieces {
		if p.Goal {
			return p, true
		}
	}
	return Piece{}, false
}

// At returns the piece covering cell (x,y)
func (s *PieceSet) At(x, y int) (Piece, bool) {
	for _, p := range s.pieces {
		if p.Rect().ContainsPoint(x, y) {
			return p, true
		}
	}
	return Piece{}, false
}

// SetPosition moves a piece. Unknown IDs are ignored.
func (s *PieceSet) SetPosition(id string, x, y int) {
	if i, ok := s.index[id]; ok {
		s.pieces[i].X = x
		s.pieces[i].Y = y
	}
}

// Len returns the number of pieces
func (s *PieceSet) Len() int {
	return len(s.pieces)
}

// Clone returns an independent copy
func (s *PieceSet) Clone() *PieceSet {
	return NewPieceSet(s.pieces)
}
