package protocol

import (
	"errors"
	"testing"

	"github.com/park285/stripchess/internal/strip"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
		ok   bool
	}{
		{in: "[1, 3, 300, 600]", want: Command{Origin: 1, Destination: 3, TimeRemaining: 300, TimeControl: 600}, ok: true},
		{in: " [0,7,1,2]\n", want: Command{Origin: 0, Destination: 7, TimeRemaining: 1, TimeControl: 2}, ok: true},
		{in: "[1, 3, 300]"},
		{in: "[1, 3, 300, 600, 5]"},
		{in: "[1, x, 300, 600]"},
		{in: "[1.5, 3, 300, 600]"},
		{in: "1, 3, 300, 600"},
		{in: "[1, 3, 300, 6"},
		{in: "[8, 3, 300, 600]", want: Command{Origin: 8, Destination: 3, TimeRemaining: 300, TimeControl: 600}, ok: true},
		{in: "[-1, 3, 300, 600]", want: Command{Origin: -1, Destination: 3, TimeRemaining: 300, TimeControl: 600}, ok: true},
		{in: ""},
	}
	for _, tt := range tests {
		got, err := ParseCommand([]byte(tt.in))
		if tt.ok {
			if err != nil || got != tt.want {
				t.Fatalf("ParseCommand(%q)=%+v err=%v", tt.in, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("ParseCommand(%q) err=%v want malformed", tt.in, err)
		}
	}
}

func TestResponseText(t *testing.T) {
	if got := Rejected.String(); got != "[0, 0]" {
		t.Fatalf("rejected=%q", got)
	}
	r := Response{Accepted: true, Outcome: strip.OutcomeDraw}
	if got := r.String(); got != "[1, 3]" {
		t.Fatalf("accepted=%q", got)
	}
	back, err := ParseResponse([]byte(r.String()))
	if err != nil || back != r {
		t.Fatalf("ParseResponse=%+v err=%v", back, err)
	}
	if _, err := ParseResponse([]byte("[2, 0]")); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed status, got %v", err)
	}
	if got := (Command{Origin: 1, Destination: 3, TimeRemaining: 300, TimeControl: 600}).String(); got != "[1, 3, 300, 600]" {
		t.Fatalf("command=%q", got)
	}
}
