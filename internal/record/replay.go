package record

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/park285/stripchess/internal/strip"
)

var ErrIndexOutOfRange = errors.New("replay index out of range")

var destinationRe = regexp.MustCompile(`\d+`)

// Position is the board reconstructed after a given half-move.
type Position struct {
	// Index is the last applied half-move, -1 for the initial position.
	Index int
	Board strip.Board
	// Turn is the side to move next.
	Turn         strip.Color
	WhiteSeconds float64
	BlackSeconds float64
	// LastMove is the notation of the latest half-move actually applied.
	LastMove string
	// Skipped lists half-moves that left the board unchanged.
	Skipped []int
}

// Reconstruct replays rec from the starting position through half-move
// index. Each token moves the first piece, scanning squares upward, that
// matches the mover's color and the token's kind letter onto the first
// number in the token. Moves are not re-validated, and several same-kind
// pieces make the result ambiguous. Tokens without a usable destination are
// skipped.
func Reconstruct(rec Record, index int, timeControl int) (Position, error) {
	maxIndex := 2*len(rec.Pairs) - 1
	if index < -1 || index > maxIndex {
		return Position{}, fmt.Errorf("%w: %d not in [-1, %d]", ErrIndexOutOfRange, index, maxIndex)
	}
	pos := Position{
		Index:        index,
		Board:        strip.StartingBoard(),
		Turn:         strip.White,
		WhiteSeconds: float64(timeControl),
		BlackSeconds: float64(timeControl),
	}
	for h := 0; h <= index; h++ {
		mover := strip.White
		pair := rec.Pairs[h/2]
		tok := &pair.White
		if h%2 == 1 {
			mover = strip.Black
			tok = pair.Black
		}
		pos.Turn = mover.Opponent()
		if tok == nil {
			pos.Skipped = append(pos.Skipped, h)
			continue
		}
		if !applyToken(&pos.Board, mover, tok.Notation) {
			pos.Skipped = append(pos.Skipped, h)
			continue
		}
		pos.LastMove = tok.Notation
		clock := &pos.WhiteSeconds
		if mover == strip.Black {
			clock = &pos.BlackSeconds
		}
		switch tok.Annotation.Kind {
		case AnnotationRemaining:
			*clock = tok.Annotation.Seconds
		case AnnotationElapsed:
			*clock -= tok.Annotation.Seconds
			if *clock < 0 {
				*clock = 0
			}
		}
	}
	return pos, nil
}

func applyToken(b *strip.Board, mover strip.Color, notation string) bool {
	digits := destinationRe.FindString(notation)
	if digits == "" {
		return false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return false
	}
	dest := strip.Square(n - 1)
	if !dest.Valid() {
		return false
	}
	kind, ok := strip.KindFromLetter(notation[0])
	if !ok {
		return false
	}
	for i, p := range b {
		if p != nil && p.Color == mover && p.Kind == kind {
			b[dest] = p
			if strip.Square(i) != dest {
				b[i] = nil
			}
			return true
		}
	}
	return false
}

// Replay is a cursor over a parsed record, starting before the first move.
type Replay struct {
	rec         Record
	timeControl int
	index       int
}

// NewReplay positions the cursor at -1 (initial position).
func NewReplay(rec Record, timeControl int) *Replay {
	return &Replay{rec: rec.Clone(), timeControl: timeControl, index: -1}
}

func (r *Replay) Record() Record { return r.rec.Clone() }

func (r *Replay) Index() int { return r.index }

// MaxIndex is the index with every half-move applied.
func (r *Replay) MaxIndex() int { return 2*len(r.rec.Pairs) - 1 }

// At reconstructs the position at index without moving the cursor.
func (r *Replay) At(index int) (Position, error) {
	return Reconstruct(r.rec, index, r.timeControl)
}

// Current reconstructs the position under the cursor.
func (r *Replay) Current() Position {
	pos, _ := r.At(r.index)
	return pos
}

// Seek moves the cursor to index.
func (r *Replay) Seek(index int) (Position, error) {
	pos, err := r.At(index)
	if err != nil {
		return Position{}, err
	}
	r.index = index
	return pos, nil
}

// Next advances one half-move; false at the end.
func (r *Replay) Next() (Position, bool) {
	if r.index >= r.MaxIndex() {
		return r.Current(), false
	}
	r.index++
	return r.Current(), true
}

// Prev steps back one half-move; false at the initial position.
func (r *Replay) Prev() (Position, bool) {
	if r.index <= -1 {
		return r.Current(), false
	}
	r.index--
	return r.Current(), true
}
