package record

import (
	"strings"
	"testing"
)

func TestAppendFillsPairs(t *testing.T) {
	var r Record
	for _, n := range []string{"N4", "Rx4", "Rx4"} {
		r.Append(Token{Notation: n})
	}
	if len(r.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(r.Pairs))
	}
	if r.Pairs[0].Number != 1 || r.Pairs[1].Number != 2 {
		t.Fatalf("unexpected numbering: %+v", r.Pairs)
	}
	if r.Pairs[0].Black == nil || r.Pairs[0].Black.Notation != "Rx4" {
		t.Fatalf("black slot not filled: %+v", r.Pairs[0])
	}
	if r.Pairs[1].Black != nil {
		t.Fatalf("second pair should only hold white")
	}
	if r.HalfMoves() != 3 {
		t.Fatalf("HalfMoves=%d", r.HalfMoves())
	}
}

func TestFormatLines(t *testing.T) {
	var r Record
	r.Append(Token{Notation: "N4", Annotation: Remaining(590)})
	r.Append(Token{Notation: "N5", Annotation: Remaining(587)})
	r.Append(Token{Notation: "R4", Annotation: Elapsed(3.5)})
	r.Result = ResultDraw
	want := "1. N4 590 N5 587\n2. R4 (3.5s)\n1/2-1/2\n"
	if got := Format(r); got != want {
		t.Fatalf("Format=%q want %q", got, want)
	}
	r.Result = ResultUndetermined
	if got := Format(r); strings.Contains(got, "1/2") {
		t.Fatalf("undetermined result must omit the result line: %q", got)
	}
}

func TestParseAnnotationsAndWarnings(t *testing.T) {
	text := strings.Join([]string{
		"1. N4 590 N5 587",
		"",
		"garbage",
		"2. R4 (3.5s) Kx7+",
		"7. N6",
		"3.",
		"Result: 0-1",
	}, "\n")
	rec, warnings := ParseString(text)
	if len(rec.Pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d: %+v", len(rec.Pairs), rec.Pairs)
	}
	if got := rec.Pairs[0].White.Annotation; got.Kind != AnnotationRemaining || got.Seconds != 590 {
		t.Fatalf("white annotation=%+v", got)
	}
	if got := rec.Pairs[1].White.Annotation; got.Kind != AnnotationElapsed || got.Seconds != 3.5 {
		t.Fatalf("elapsed annotation=%+v", got)
	}
	if rec.Pairs[1].Black == nil || rec.Pairs[1].Black.Notation != "Kx7+" {
		t.Fatalf("black token=%+v", rec.Pairs[1].Black)
	}
	if rec.Pairs[2].Number != 3 {
		t.Fatalf("pair renumbering failed: %+v", rec.Pairs[2])
	}
	if rec.Result != ResultBlackWins {
		t.Fatalf("result=%q", rec.Result)
	}
	// garbage, renumbered 7, empty "3."
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", warnings)
	}
}

func TestNegativeElapsedStaysAnAnnotation(t *testing.T) {
	if got := Elapsed(-2).String(); got != "(0.0s)" {
		t.Fatalf("Elapsed(-2)=%q", got)
	}
	rec, warnings := ParseString("1. N4 (-2.0s) N5 (1.5s)\n2. R4\n")
	if len(rec.Pairs) != 2 || rec.HalfMoves() != 3 {
		t.Fatalf("pairs=%+v", rec.Pairs)
	}
	white := rec.Pairs[0].White
	if white.Notation != "N4" || white.Annotation.Kind != AnnotationElapsed || white.Annotation.Seconds != 0 {
		t.Fatalf("white=%+v", white)
	}
	if b := rec.Pairs[0].Black; b == nil || b.Notation != "N5" {
		t.Fatalf("black=%+v", b)
	}
	if rec.Pairs[1].White.Notation != "R4" {
		t.Fatalf("second pair=%+v", rec.Pairs[1])
	}
	if len(warnings) != 1 || warnings[0].Line != 1 {
		t.Fatalf("warnings=%v", warnings)
	}
}

func TestParseResult(t *testing.T) {
	for _, s := range []string{"", "1-0", "0-1", "1/2-1/2"} {
		if _, ok := ParseResult(s); !ok {
			t.Fatalf("ParseResult(%q) rejected", s)
		}
	}
	if _, ok := ParseResult("2-0"); ok {
		t.Fatalf("ParseResult accepted 2-0")
	}
}
