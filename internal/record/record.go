package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Result is the final result line of a record. The zero value means
// undetermined and is written by omitting the line.
type Result string

const (
	ResultUndetermined Result = ""
	ResultWhiteWins    Result = "1-0"
	ResultBlackWins    Result = "0-1"
	ResultDraw         Result = "1/2-1/2"
)

// ParseResult accepts the three result strings and the empty string.
func ParseResult(s string) (Result, bool) {
	switch r := Result(strings.TrimSpace(s)); r {
	case ResultUndetermined, ResultWhiteWins, ResultBlackWins, ResultDraw:
		return r, true
	}
	return ResultUndetermined, false
}

// AnnotationKind tells which auxiliary value follows a move token.
type AnnotationKind int

const (
	AnnotationNone AnnotationKind = iota
	// AnnotationRemaining is the mover's remaining seconds, written as a bare
	// integer by the device-driven flow.
	AnnotationRemaining
	// AnnotationElapsed is the time spent on the move, written "(12.3s)" by
	// the local flow.
	AnnotationElapsed
)

// Annotation is auxiliary timing data; it never affects notation semantics.
type Annotation struct {
	Kind    AnnotationKind
	Seconds float64
}

// Remaining builds a remaining-seconds annotation.
func Remaining(seconds int) Annotation {
	return Annotation{Kind: AnnotationRemaining, Seconds: float64(seconds)}
}

// Elapsed builds an elapsed-time annotation. Negative durations, from a
// wall clock stepping back, are written as zero.
func Elapsed(seconds float64) Annotation {
	if seconds < 0 {
		seconds = 0
	}
	return Annotation{Kind: AnnotationElapsed, Seconds: seconds}
}

func (a Annotation) String() string {
	switch a.Kind {
	case AnnotationRemaining:
		return strconv.Itoa(int(a.Seconds))
	case AnnotationElapsed:
		return fmt.Sprintf("(%.1fs)", a.Seconds)
	}
	return ""
}

// Token is one move as written in a record.
type Token struct {
	Notation   string
	Annotation Annotation
}

func (t Token) String() string {
	if a := t.Annotation.String(); a != "" {
		return t.Notation + " " + a
	}
	return t.Notation
}

// PlyPair holds white's move and, once played, black's.
type PlyPair struct {
	Number int
	White  Token
	Black  *Token
}

// Full reports whether both slots are used.
func (p PlyPair) Full() bool { return p.Black != nil }

// Record is an ordered, gap-free list of ply pairs plus an optional result.
type Record struct {
	Pairs  []PlyPair
	Result Result
}

// Append adds a move: a new pair when the record is empty or the last pair
// is full, black's slot otherwise.
func (r *Record) Append(t Token) {
	n := len(r.Pairs)
	if n == 0 || r.Pairs[n-1].Full() {
		r.Pairs = append(r.Pairs, PlyPair{Number: n + 1, White: t})
		return
	}
	b := t
	r.Pairs[n-1].Black = &b
}

// HalfMoves is the number of recorded plies.
func (r Record) HalfMoves() int {
	n := 0
	for _, p := range r.Pairs {
		n++
		if p.Black != nil {
			n++
		}
	}
	return n
}

// Empty reports whether no move has been recorded.
func (r Record) Empty() bool { return len(r.Pairs) == 0 }

// Tokens flattens the record into ply order.
func (r Record) Tokens() []Token {
	out := make([]Token, 0, r.HalfMoves())
	for _, p := range r.Pairs {
		out = append(out, p.White)
		if p.Black != nil {
			out = append(out, *p.Black)
		}
	}
	return out
}

// Clone deep-copies the record.
func (r Record) Clone() Record {
	out := Record{Result: r.Result, Pairs: make([]PlyPair, len(r.Pairs))}
	for i, p := range r.Pairs {
		out.Pairs[i] = p
		if p.Black != nil {
			b := *p.Black
			out.Pairs[i].Black = &b
		}
	}
	return out
}
