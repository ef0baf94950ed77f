package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("status.turn", map[string]any{"Turn": "white"})
	if err != nil || got != "white to move" {
		t.Fatalf("Render=%q err=%v", got, err)
	}
	if _, err := c.Render("status.turn", map[string]any{}); err == nil {
		t.Fatalf("expected missing data key error")
	}
	if got := c.Text("no.such.key", nil); got != "no.such.key" {
		t.Fatalf("Text fallback=%q", got)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("outcome:\n  draw: \"Remis\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("outcome.draw", nil); got != "Remis" {
		t.Fatalf("override=%q", got)
	}
	if got := c.Text("outcome.none", nil); got != "In progress" {
		t.Fatalf("default kept=%q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte("outcome:\n  draw: \"Egal\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
