package strip

// MovementAllowed reports whether the piece's movement pattern permits
// origin→destination. Destination occupancy is not considered.
func MovementAllowed(p Piece, origin, destination Square, b *Board) bool {
	if origin == destination || !origin.Valid() || !destination.Valid() {
		return false
	}
	switch p.Kind {
	case King:
		return abs(int(destination-origin)) == 1
	case Knight:
		return abs(int(destination-origin)) == 2
	case Rook:
		step := Square(1)
		if destination < origin {
			step = -1
		}
		for s := origin + step; s != destination; s += step {
			if b[s] != nil {
				return false
			}
		}
		return true
	}
	return false
}

// IsAttacked reports whether any piece of color's opponent can reach sq.
// The occupant of sq is lifted for the check and restored before return;
// a square held by the attacking side is never attacked.
func IsAttacked(sq Square, c Color, b *Board) bool {
	if !sq.Valid() {
		return false
	}
	enemy := c.Opponent()
	occupant := b[sq]
	if occupant != nil && occupant.Color == enemy {
		return false
	}
	b[sq] = nil
	defer func() { b[sq] = occupant }()
	for i, p := range b {
		if p == nil || p.Color != enemy {
			continue
		}
		if MovementAllowed(*p, Square(i), sq, b) {
			return true
		}
	}
	return false
}

// KingAttacked reports whether color's king is attacked. A board without
// that king is never in check.
func KingAttacked(c Color, b *Board) bool {
	k := b.FindKing(c)
	if k < 0 {
		return false
	}
	return IsAttacked(k, c, b)
}

// IsLegalMove simulates the move and rejects it when it leaves the mover's
// king attacked. b is restored before return.
func IsLegalMove(p Piece, origin, destination Square, b *Board) bool {
	if !MovementAllowed(p, origin, destination, b) {
		return false
	}
	if t := b[destination]; t != nil && t.Color == p.Color {
		return false
	}
	moving, captured := b[origin], b[destination]
	if moving == nil {
		moving = &p
	}
	b[destination] = moving
	b[origin] = nil
	inCheck := KingAttacked(p.Color, b)
	b[origin] = moving
	b[destination] = captured
	return !inCheck
}

// HasAnyLegalMove tries every ordered (origin, destination) pair for c and
// stops at the first legal one.
func HasAnyLegalMove(c Color, b *Board) bool {
	for o := Square(0); o < Size; o++ {
		p := b[o]
		if p == nil || p.Color != c {
			continue
		}
		for d := Square(0); d < Size; d++ {
			if o != d && IsLegalMove(*p, o, d, b) {
				return true
			}
		}
	}
	return false
}

// IsCheckmate: king attacked and no legal move.
func IsCheckmate(c Color, b *Board) bool {
	return KingAttacked(c, b) && !HasAnyLegalMove(c, b)
}

// IsStalemate: king not attacked and no legal move.
func IsStalemate(c Color, b *Board) bool {
	return !KingAttacked(c, b) && !HasAnyLegalMove(c, b)
}

// IsInsufficientMaterial reports a bare-kings position.
func IsInsufficientMaterial(b *Board) bool {
	var pieces []Piece
	for _, p := range b {
		if p != nil {
			pieces = append(pieces, *p)
		}
	}
	if len(pieces) != 2 {
		return false
	}
	var wk, bk bool
	for _, p := range pieces {
		if p.Kind != King {
			return false
		}
		if p.Color == White {
			wk = true
		} else {
			bk = true
		}
	}
	return wk && bk
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
