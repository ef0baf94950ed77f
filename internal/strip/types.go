package strip

import (
	"fmt"
	"strings"
)

// Size is the number of squares on the strip.
const Size = 8

// Color identifies a side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Letter returns the single-letter prefix used in piece codes (w/b).
func (c Color) Letter() string {
	if c == White {
		return "w"
	}
	return "b"
}

// Kind is a piece kind. Its value doubles as the notation letter.
type Kind byte

const (
	King   Kind = 'K'
	Knight Kind = 'N'
	Rook   Kind = 'R'
)

// KindFromLetter maps a notation letter to a kind.
func KindFromLetter(b byte) (Kind, bool) {
	switch Kind(b) {
	case King, Knight, Rook:
		return Kind(b), true
	}
	return 0, false
}

func (k Kind) String() string { return string(rune(k)) }

// Piece is a colored piece on the strip.
type Piece struct {
	Color Color `json:"color"`
	Kind  Kind  `json:"kind"`
}

// Code renders the piece as e.g. "wK".
func (p Piece) Code() string { return p.Color.Letter() + p.Kind.String() }

// ParsePiece parses a code like "bN".
func ParsePiece(code string) (Piece, error) {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return Piece{}, fmt.Errorf("invalid piece code %q", code)
	}
	var c Color
	switch code[0] {
	case 'w':
		c = White
	case 'b':
		c = Black
	default:
		return Piece{}, fmt.Errorf("invalid piece color in %q", code)
	}
	k, ok := KindFromLetter(code[1])
	if !ok {
		return Piece{}, fmt.Errorf("invalid piece kind in %q", code)
	}
	return Piece{Color: c, Kind: k}, nil
}

// Square indexes the strip, 0..7.
type Square int

// Valid reports whether s lies on the strip.
func (s Square) Valid() bool { return s >= 0 && s < Size }

// Board holds at most one piece per square. It is a value type; copying a
// Board copies the position.
type Board [Size]*Piece

// StartingBoard returns [wK wN wR _ _ bR bN bK].
func StartingBoard() Board {
	return Board{
		{White, King}, {White, Knight}, {White, Rook},
		nil, nil,
		{Black, Rook}, {Black, Knight}, {Black, King},
	}
}

// At returns the piece on s, nil when empty or off the strip.
func (b Board) At(s Square) *Piece {
	if !s.Valid() {
		return nil
	}
	return b[s]
}

// Clone returns a deep copy, so that pieces are not shared between boards.
func (b Board) Clone() Board {
	var out Board
	for i, p := range b {
		if p != nil {
			cp := *p
			out[i] = &cp
		}
	}
	return out
}

// Equal compares two boards square by square.
func (b Board) Equal(o Board) bool {
	for i := range b {
		x, y := b[i], o[i]
		if (x == nil) != (y == nil) {
			return false
		}
		if x != nil && *x != *y {
			return false
		}
	}
	return true
}

// FindKing returns the square of color's king, or -1.
func (b Board) FindKing(c Color) Square {
	for i, p := range b {
		if p != nil && p.Color == c && p.Kind == King {
			return Square(i)
		}
	}
	return -1
}

// Validate checks that exactly one king of each color is present.
func (b Board) Validate() error {
	kings := map[Color]int{}
	for _, p := range b {
		if p == nil {
			continue
		}
		if p.Color != White && p.Color != Black {
			return fmt.Errorf("invalid piece color %q", p.Color)
		}
		if _, ok := KindFromLetter(byte(p.Kind)); !ok {
			return fmt.Errorf("invalid piece kind %q", p.Kind)
		}
		if p.Kind == King {
			kings[p.Color]++
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("board must hold one king per color (white=%d black=%d)", kings[White], kings[Black])
	}
	return nil
}

// Codes renders the board as piece codes, "" for empty squares.
func (b Board) Codes() []string {
	out := make([]string, Size)
	for i, p := range b {
		if p != nil {
			out[i] = p.Code()
		}
	}
	return out
}

// BoardFromCodes is the inverse of Codes.
func BoardFromCodes(codes []string) (Board, error) {
	var b Board
	if len(codes) != Size {
		return b, fmt.Errorf("board needs %d squares, got %d", Size, len(codes))
	}
	for i, code := range codes {
		if strings.TrimSpace(code) == "" {
			continue
		}
		p, err := ParsePiece(code)
		if err != nil {
			return b, fmt.Errorf("square %d: %w", i, err)
		}
		b[i] = &p
	}
	return b, nil
}

func (b Board) String() string {
	parts := make([]string, Size)
	for i, p := range b {
		if p == nil {
			parts[i] = "__"
			continue
		}
		parts[i] = p.Code()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
