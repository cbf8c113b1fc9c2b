// Package key models keyboard input for the behavior pipeline: key events,
// modifier sets, and parseable hotkey combos like "Ctrl+B" or "Mod+Enter".
package key

// Key identifies a keyboard key. Character keys use KeyRune with the
// character in Event.Rune.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// KeyRune is used for character keys; the character is in Event.Rune.
	KeyRune

	// Special keys.
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyDelete
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyRune:
		return "Rune"
	case KeyEnter:
		return "Enter"
	case KeyEscape:
		return "Escape"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeySpace:
		return "Space"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// keyNames maps lowercase spec names to keys.
var keyNames = map[string]Key{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"space":     KeySpace,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
}

// FromName returns the special key for a spec name, or KeyNone.
func FromName(name string) Key {
	return keyNames[name]
}
