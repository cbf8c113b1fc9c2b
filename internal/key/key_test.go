package key_test

import (
	"errors"
	"testing"

	"github.com/crazyrex/sanity/internal/key"
)

func TestParseCombos(t *testing.T) {
	tests := []struct {
		spec string
		want key.Combo
	}{
		{"b", key.Combo{Key: key.KeyRune, Rune: 'b'}},
		{"B", key.Combo{Key: key.KeyRune, Rune: 'b'}},
		{"Enter", key.Combo{Key: key.KeyEnter}},
		{"Ctrl+B", key.Combo{Key: key.KeyRune, Rune: 'b', Modifiers: key.ModCtrl}},
		{"Ctrl+Shift+P", key.Combo{Key: key.KeyRune, Rune: 'p', Modifiers: key.ModCtrl | key.ModShift}},
		{"Alt+Enter", key.Combo{Key: key.KeyEnter, Modifiers: key.ModAlt}},
		{"Mod+Enter", key.Combo{Key: key.KeyEnter, Primary: true}},
		{"Shift+Enter", key.Combo{Key: key.KeyEnter, Modifiers: key.ModShift}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := key.Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := key.Parse(""); !errors.Is(err, key.ErrEmptySpec) {
		t.Errorf("expected ErrEmptySpec, got %v", err)
	}
	if _, err := key.Parse("Hyper+X"); !errors.Is(err, key.ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec for unknown modifier, got %v", err)
	}
	if _, err := key.Parse("Ctrl+Blorp"); !errors.Is(err, key.ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec for unknown key, got %v", err)
	}
}

func TestComboMatches(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		event key.Event
		want  bool
	}{
		{"plain char", "b", key.RuneEvent('b', key.ModNone), true},
		{"char case-folded", "b", key.RuneEvent('B', key.ModShift), true},
		{"char wrong mods", "b", key.RuneEvent('b', key.ModCtrl), false},
		{"ctrl char", "Ctrl+B", key.RuneEvent('b', key.ModCtrl), true},
		{"ctrl char missing mod", "Ctrl+B", key.RuneEvent('b', key.ModNone), false},
		{"ctrl char extra alt", "Ctrl+B", key.RuneEvent('b', key.ModCtrl|key.ModAlt), false},
		{"enter", "Enter", key.SpecialEvent(key.KeyEnter, key.ModNone), true},
		{"shift enter vs enter", "Enter", key.SpecialEvent(key.KeyEnter, key.ModShift), false},
		{"mod enter via ctrl", "Mod+Enter", key.SpecialEvent(key.KeyEnter, key.ModCtrl), true},
		{"mod enter via meta", "Mod+Enter", key.SpecialEvent(key.KeyEnter, key.ModMeta), true},
		{"mod enter unmodified", "Mod+Enter", key.SpecialEvent(key.KeyEnter, key.ModNone), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := key.MustParse(tt.spec)
			if got := c.Matches(tt.event); got != tt.want {
				t.Errorf("%s.Matches(%s) = %v, want %v", c, tt.event, got, tt.want)
			}
		})
	}
}

func TestEventIsChar(t *testing.T) {
	if !key.RuneEvent('x', key.ModShift).IsChar() {
		t.Error("shifted character should be a char")
	}
	if key.RuneEvent('x', key.ModCtrl).IsChar() {
		t.Error("ctrl character should not be a char")
	}
	if key.SpecialEvent(key.KeyEnter, key.ModNone).IsChar() {
		t.Error("Enter should not be a char")
	}
}
