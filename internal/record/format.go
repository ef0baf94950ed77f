package record

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Write renders r as "<N>. <white> [black]" lines, followed by the result
// line when the result is known.
func Write(w io.Writer, r Record) error {
	bw := bufio.NewWriter(w)
	for _, line := range Lines(r) {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Lines returns the text lines of r without trailing newlines.
func Lines(r Record) []string {
	out := make([]string, 0, len(r.Pairs)+1)
	for i, p := range r.Pairs {
		line := fmt.Sprintf("%d. %s", i+1, p.White)
		if p.Black != nil {
			line += " " + p.Black.String()
		}
		out = append(out, line)
	}
	if r.Result != ResultUndetermined {
		out = append(out, string(r.Result))
	}
	return out
}

// Format renders r as a string.
func Format(r Record) string {
	var b strings.Builder
	_ = Write(&b, r)
	return b.String()
}

// WriteFile saves r to path, creating parent directories.
func WriteFile(path string, r Record) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create record dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create record file: %w", err)
	}
	if err := Write(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write record: %w", err)
	}
	return f.Close()
}
