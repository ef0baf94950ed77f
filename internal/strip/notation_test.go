package strip

import "testing"

func TestNotationSuffixes(t *testing.T) {
	tests := []struct {
		name     string
		codes    []string
		piece    Piece
		dest     Square
		captured bool
		want     string
	}{
		{
			name:  "quiet knight",
			codes: []string{"wK", "", "wR", "wN", "", "bR", "bN", "bK"},
			piece: Piece{White, Knight},
			dest:  3,
			want:  "N4",
		},
		{
			name:  "check",
			codes: []string{"wK", "", "", "bN", "", "wR", "", "bK"},
			piece: Piece{White, Rook},
			dest:  5,
			want:  "R6+",
		},
		{
			name:     "capture mate",
			codes:    []string{"wK", "", "", "", "", "wR", "", "bK"},
			piece:    Piece{White, Rook},
			dest:     5,
			captured: true,
			want:     "Rx6#",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.codes...)
			if got := Notation(tt.piece, tt.dest, tt.captured, &b); got != tt.want {
				t.Fatalf("Notation=%q want %q", got, tt.want)
			}
		})
	}
}

func TestApplyCapture(t *testing.T) {
	b := StartingBoard()
	mv, ok := Apply(&b, 2, 3)
	if !ok || mv.Notation != "R4" || mv.Captured != nil {
		t.Fatalf("unexpected move %+v", mv)
	}
	mv, ok = Apply(&b, 5, 3)
	if !ok || mv.Captured == nil || mv.Captured.Kind != Rook || mv.Notation != "Rx4" {
		t.Fatalf("unexpected capture %+v", mv)
	}
	if b[5] != nil || b[3] == nil || b[3].Color != Black {
		t.Fatalf("board not updated: %v", b)
	}
	if _, ok := Apply(&b, 4, 5); ok {
		t.Fatalf("apply from empty square should fail")
	}
}
