package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors.
var (
	// ErrEmptySpec indicates an empty combo specification.
	ErrEmptySpec = errors.New("key: empty combo spec")

	// ErrInvalidSpec indicates a combo specification that cannot be parsed.
	ErrInvalidSpec = errors.New("key: invalid combo spec")
)

// Combo is a parsed hotkey specification that key events are matched
// against.
type Combo struct {
	// Key is the expected key; KeyRune for character combos.
	Key Key

	// Rune is the expected character for KeyRune combos, lowercased.
	Rune rune

	// Modifiers are the required modifier keys.
	Modifiers Modifier

	// Primary requires the platform primary modifier (Ctrl or Meta),
	// whichever the host sends. Set by the "Mod" spec name.
	Primary bool
}

// Parse parses a combo specification.
//
// Supported forms:
//   - single character: "b", "7"
//   - special keys: "Enter", "Escape", "Tab"
//   - with modifiers: "Ctrl+B", "Ctrl+Shift+P", "Alt+Enter"
//   - platform primary: "Mod+Enter" (matches Ctrl+Enter and Meta+Enter)
func Parse(spec string) (Combo, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Combo{}, ErrEmptySpec
	}

	parts := strings.Split(spec, "+")
	var c Combo
	for _, p := range parts[:len(parts)-1] {
		name := strings.ToLower(strings.TrimSpace(p))
		if name == "mod" {
			c.Primary = true
			continue
		}
		mod, ok := modifierNames[name]
		if !ok {
			return Combo{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		c.Modifiers = c.Modifiers.With(mod)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return Combo{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}
	if k := FromName(strings.ToLower(keyPart)); k != KeyNone {
		c.Key = k
		return c, nil
	}
	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Combo{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	c.Key = KeyRune
	c.Rune = unicode.ToLower(runes[0])
	return c, nil
}

// MustParse parses a combo specification, panicking on error. For use with
// compile-time constant specs.
func MustParse(spec string) Combo {
	c, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Matches reports whether the event satisfies the combo.
func (c Combo) Matches(e Event) bool {
	if c.Key == KeyRune {
		if !e.IsRune() || unicode.ToLower(e.Rune) != c.Rune {
			return false
		}
	} else if e.Key != c.Key {
		return false
	}

	mods := e.Modifiers
	if c.Primary {
		if !mods.HasPrimary() {
			return false
		}
		mods = mods &^ (ModCtrl | ModMeta)
	}
	// Shift on character combos is carried in the character, not compared.
	if c.Key == KeyRune {
		mods = mods &^ ModShift
		required := c.Modifiers &^ ModShift
		return mods == required
	}
	return mods == c.Modifiers
}

// String returns the canonical spec form of the combo.
func (c Combo) String() string {
	var parts []string
	if c.Primary {
		parts = append(parts, "Mod")
	}
	if mods := c.Modifiers.String(); mods != "" {
		parts = append(parts, mods)
	}
	if c.Key == KeyRune {
		parts = append(parts, string(c.Rune))
	} else {
		parts = append(parts, c.Key.String())
	}
	return strings.Join(parts, "+")
}
