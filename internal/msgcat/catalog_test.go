package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCatalog_EmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Render("royale.start", map[string]any{"Warriors": 6, "Factions": 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "6") || !strings.Contains(got, "2") {
		t.Fatalf("placeholders not filled: %q", got)
	}

	if _, err := c.Render("royale.ending.champion", map[string]any{"Winner": "Alice"}); err != nil {
		t.Fatalf("nested key: %v", err)
	}
}

func TestCatalog_MissingKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatal("missing key should error")
	}
	if got := c.MustRender("no.such.key", nil, "fallback line"); got != "fallback line" {
		t.Fatalf("MustRender fallback: %q", got)
	}
}

func TestCatalog_MissingTemplateData(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// missingkey=error: a template that references absent data must not
	// render half-filled text
	if _, err := c.Render("royale.start", map[string]any{}); err == nil {
		t.Fatal("missing data should error")
	}
}

func TestCatalog_OverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "royale:\n  start: \"custom start for {{.Warriors}}\"\n"
	if err := os.WriteFile(filepath.Join(dir, "override.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New with override: %v", err)
	}
	got, err := c.Render("royale.start", map[string]any{"Warriors": 4})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "custom start for 4" {
		t.Fatalf("override not applied: %q", got)
	}
	// untouched keys keep their defaults
	if _, err := c.Render("royale.no_game", map[string]any{"Prefix": "!"}); err != nil {
		t.Fatalf("default key lost after override: %v", err)
	}
}
