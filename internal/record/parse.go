package record

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	pairLineRe = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)
	elapsedRe  = regexp.MustCompile(`^\((-?\d+(?:\.\d+)?)s\)$`)
	integerRe  = regexp.MustCompile(`^-?\d+$`)
)

// Warning describes a line the parser skipped or repaired.
type Warning struct {
	Line   int
	Text   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s (%q)", w.Line, w.Reason, w.Text)
}

// Parse reads a record. Malformed lines are skipped and reported as
// warnings; only read failures are returned as errors.
func Parse(r io.Reader) (Record, []Warning, error) {
	var (
		rec      Record
		warnings []Warning
	)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if res, ok := resultLine(line); ok {
			rec.Result = res
			continue
		}
		warn := func(reason string) {
			warnings = append(warnings, Warning{Line: lineNo, Text: line, Reason: reason})
		}
		m := pairLineRe.FindStringSubmatch(line)
		if m == nil {
			warn("not a move line")
			continue
		}
		tokens, notes := splitTokens(m[2])
		for _, n := range notes {
			warn(n)
		}
		if len(tokens) == 0 {
			warn("no moves on line")
			continue
		}
		if n, _ := strconv.Atoi(m[1]); n != len(rec.Pairs)+1 {
			warn(fmt.Sprintf("ply number %d renumbered to %d", n, len(rec.Pairs)+1))
		}
		pair := PlyPair{Number: len(rec.Pairs) + 1, White: tokens[0]}
		if len(tokens) > 1 {
			b := tokens[1]
			pair.Black = &b
		}
		rec.Pairs = append(rec.Pairs, pair)
	}
	if err := sc.Err(); err != nil {
		return rec, warnings, fmt.Errorf("read record: %w", err)
	}
	return rec, warnings, nil
}

// ParseString is Parse over an in-memory record.
func ParseString(s string) (Record, []Warning) {
	rec, warnings, _ := Parse(strings.NewReader(s))
	return rec, warnings
}

// ParseFile opens and parses a record file.
func ParseFile(path string) (Record, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, nil, fmt.Errorf("open record: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// resultLine recognises a bare result and the older "Result: <r>" form.
func resultLine(line string) (Result, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(line, "Result:"))
	switch Result(line) {
	case ResultWhiteWins, ResultBlackWins, ResultDraw:
		return Result(line), true
	}
	return ResultUndetermined, false
}

// splitTokens groups move notations with the annotation that follows each.
// The second return value lists what was dropped or repaired.
func splitTokens(body string) ([]Token, []string) {
	var (
		out     []Token
		dropped []string
		notes   []string
	)
	for _, f := range strings.Fields(body) {
		var (
			ann    Annotation
			isAnno bool
		)
		if m := elapsedRe.FindStringSubmatch(f); m != nil {
			secs, _ := strconv.ParseFloat(m[1], 64)
			if secs < 0 {
				notes = append(notes, "negative elapsed time "+f+" read as zero")
			}
			ann, isAnno = Elapsed(secs), true
		} else if integerRe.MatchString(f) {
			secs, _ := strconv.Atoi(f)
			ann, isAnno = Remaining(secs), true
		}
		if isAnno {
			if len(out) == 0 || out[len(out)-1].Annotation.Kind != AnnotationNone {
				dropped = append(dropped, f)
				continue
			}
			out[len(out)-1].Annotation = ann
			continue
		}
		if len(out) == 2 {
			dropped = append(dropped, f)
			continue
		}
		out = append(out, Token{Notation: f})
	}
	if len(dropped) > 0 {
		notes = append(notes, "dropped tokens "+strings.Join(dropped, " "))
	}
	return out, notes
}
