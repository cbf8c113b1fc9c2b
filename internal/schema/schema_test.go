package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crazyrex/sanity/internal/schema"
)

func TestDefaultSchema(t *testing.T) {
	s := schema.Default()

	if err := s.Validate(); err != nil {
		t.Fatalf("default schema invalid: %v", err)
	}
	if _, ok := s.Decorator("strong"); !ok {
		t.Error("expected strong decorator")
	}
	if _, ok := s.Annotation("link"); !ok {
		t.Error("expected link annotation")
	}
	if !s.SupportsStyle("h2") || !s.SupportsList("bullet") {
		t.Error("expected h2 style and bullet list")
	}
	if _, ok := s.Decorator("wiggly"); ok {
		t.Error("unknown decorator must not resolve")
	}
}

func TestValidateDuplicates(t *testing.T) {
	s := &schema.Schema{
		Decorators: []schema.Decorator{{Name: "strong"}, {Name: "strong"}},
	}
	if err := s.Validate(); !errors.Is(err, schema.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	s = &schema.Schema{Styles: []schema.Style{{Name: ""}}}
	if err := s.Validate(); !errors.Is(err, schema.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestParseTOML(t *testing.T) {
	data := []byte(`
[[styles]]
name = "normal"
title = "Normal"

[[decorators]]
name = "strong"
title = "Strong"
hotkey = "Mod+B"

[[blockObjects]]
name = "image"
title = "Image"

[[inlineObjects]]
name = "stockTicker"
title = "Stock ticker"
`)
	s, err := schema.ParseTOML(data)
	if err != nil {
		t.Fatalf("ParseTOML: %v", err)
	}
	if d, ok := s.Decorator("strong"); !ok || d.Hotkey != "Mod+B" {
		t.Errorf("decorator = %+v", d)
	}
	if _, ok := s.BlockObject("image"); !ok {
		t.Error("expected image block object")
	}
	if _, ok := s.InlineObject("stockTicker"); !ok {
		t.Error("expected stockTicker inline object")
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
styles:
  - name: normal
    title: Normal
annotations:
  - name: link
    title: Link
`)
	s, err := schema.ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if _, ok := s.Annotation("link"); !ok {
		t.Error("expected link annotation")
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "schema.toml")
	if err := os.WriteFile(tomlPath, []byte("[[styles]]\nname = \"normal\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := schema.Load(tomlPath); err != nil {
		t.Errorf("Load toml: %v", err)
	}

	yamlPath := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(yamlPath, []byte("styles:\n  - name: normal\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := schema.Load(yamlPath); err != nil {
		t.Errorf("Load yaml: %v", err)
	}

	if _, err := schema.Load(filepath.Join(dir, "schema.ini")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
