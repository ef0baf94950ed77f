package strip

import "strconv"

// Notation renders a committed move: kind letter, "x" on capture, the
// 1-based destination, then "#" or "+" for the opponent's status. b must
// already reflect the move.
func Notation(p Piece, destination Square, captured bool, b *Board) string {
	s := p.Kind.String()
	if captured {
		s += "x"
	}
	s += strconv.Itoa(int(destination) + 1)
	enemy := p.Color.Opponent()
	switch {
	case IsCheckmate(enemy, b):
		s += "#"
	case KingAttacked(enemy, b):
		s += "+"
	}
	return s
}

// Move is a committed move.
type Move struct {
	Origin      Square
	Destination Square
	Piece       Piece
	Captured    *Piece
	Notation    string
}

// Apply commits p from origin to destination without any legality check and
// returns the move with its notation. Callers check IsLegalMove first.
func Apply(b *Board, origin, destination Square) (Move, bool) {
	if !origin.Valid() || !destination.Valid() || b[origin] == nil {
		return Move{}, false
	}
	p := *b[origin]
	var captured *Piece
	if t := b[destination]; t != nil && t.Color != p.Color {
		c := *t
		captured = &c
	}
	b[destination] = b[origin]
	b[origin] = nil
	return Move{
		Origin:      origin,
		Destination: destination,
		Piece:       p,
		Captured:    captured,
		Notation:    Notation(p, destination, captured != nil, b),
	}, true
}
