package strip

// Outcome is the game state after a move, encoded on the wire as an integer.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWhiteWins
	OutcomeBlackWins
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWhiteWins:
		return "white_wins"
	case OutcomeBlackWins:
		return "black_wins"
	case OutcomeDraw:
		return "draw"
	default:
		return "none"
	}
}

// Finished reports whether the game is over.
func (o Outcome) Finished() bool { return o != OutcomeNone }

// Evaluate checks, in order: black mated, white mated, either side
// stalemated or bare kings.
func Evaluate(b *Board) Outcome {
	switch {
	case IsCheckmate(Black, b):
		return OutcomeWhiteWins
	case IsCheckmate(White, b):
		return OutcomeBlackWins
	case IsStalemate(White, b), IsStalemate(Black, b), IsInsufficientMaterial(b):
		return OutcomeDraw
	}
	return OutcomeNone
}
