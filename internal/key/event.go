package key

import (
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// RuneEvent creates an event for a character key.
func RuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// SpecialEvent creates an event for a non-character key.
func SpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character without Ctrl/Alt/Meta.
// Shift alone does not count: for characters it is part of the character.
func (e Event) IsChar() bool {
	if !e.IsRune() || !unicode.IsPrint(e.Rune) {
		return false
	}
	return e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// String returns a canonical representation like "Ctrl+Shift+B" or "Enter".
func (e Event) String() string {
	var parts []string
	if mods := e.Modifiers.String(); mods != "" {
		// Shift on a bare character is folded into the character itself.
		if !(e.IsRune() && e.Modifiers == ModShift) {
			parts = append(parts, mods)
		}
	}
	if e.Key == KeyRune {
		parts = append(parts, string(e.Rune))
	} else {
		parts = append(parts, e.Key.String())
	}
	return strings.Join(parts, "+")
}
