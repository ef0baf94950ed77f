package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/stripchess/internal/strip"
)

// ErrMalformedPayload marks a command or response that is not a strict
// integer list of the expected length. Such commands are dropped without
// a response.
var ErrMalformedPayload = errors.New("malformed payload")

// Command is one inbound move command: [origin, destination, timeRemaining, timeControl].
type Command struct {
	Origin        strip.Square
	Destination   strip.Square
	TimeRemaining int
	TimeControl   int
}

func (c Command) String() string {
	return formatList(int(c.Origin), int(c.Destination), c.TimeRemaining, c.TimeControl)
}

// ParseCommand decodes a command payload such as "[1, 3, 300, 600]".
// Square ranges are not checked here; an off-strip square is an illegal
// move and still gets a response.
func ParseCommand(data []byte) (Command, error) {
	vals, err := parseList(data, 4)
	if err != nil {
		return Command{}, err
	}
	c := Command{
		Origin:        strip.Square(vals[0]),
		Destination:   strip.Square(vals[1]),
		TimeRemaining: vals[2],
		TimeControl:   vals[3],
	}
	return c, nil
}

// Response is the acknowledgement sent back per command: [accepted, outcome].
type Response struct {
	Accepted bool
	Outcome  strip.Outcome
}

// Rejected is the response to an illegal command.
var Rejected = Response{}

func (r Response) String() string {
	ok := 0
	if r.Accepted {
		ok = 1
	}
	return formatList(ok, int(r.Outcome))
}

func ParseResponse(data []byte) (Response, error) {
	vals, err := parseList(data, 2)
	if err != nil {
		return Response{}, err
	}
	if vals[0] != 0 && vals[0] != 1 {
		return Response{}, fmt.Errorf("%w: status %d", ErrMalformedPayload, vals[0])
	}
	if vals[1] < int(strip.OutcomeNone) || vals[1] > int(strip.OutcomeDraw) {
		return Response{}, fmt.Errorf("%w: outcome %d", ErrMalformedPayload, vals[1])
	}
	return Response{Accepted: vals[0] == 1, Outcome: strip.Outcome(vals[1])}, nil
}

func parseList(data []byte, n int) ([]int, error) {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedPayload, s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrMalformedPayload, n, len(parts))
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: value %d %q", ErrMalformedPayload, i, strings.TrimSpace(p))
		}
		out[i] = v
	}
	return out, nil
}

func formatList(vals ...int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
	return b.String()
}
