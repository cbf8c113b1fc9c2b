// Package schema describes the content types an editing surface accepts:
// text styles, decorators, annotations, list kinds, and custom block and
// inline object types. Lookups are by name; unknown names are reported to
// callers, never fatal, since persisted content may predate schema edits.
package schema

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	// ErrDuplicateName indicates two entries of the same namespace sharing
	// a name.
	ErrDuplicateName = errors.New("schema: duplicate name")

	// ErrEmptyName indicates an entry without a name.
	ErrEmptyName = errors.New("schema: empty name")
)

// Style is a named text style or list kind.
type Style struct {
	Name  string `toml:"name" yaml:"name"`
	Title string `toml:"title" yaml:"title"`
}

// Decorator is a formatting mark with no block-scoped record, like strong
// or em.
type Decorator struct {
	Name  string `toml:"name" yaml:"name"`
	Title string `toml:"title" yaml:"title"`

	// Hotkey is the combo spec that toggles the decorator, e.g. "Mod+B".
	// Empty means no hotkey.
	Hotkey string `toml:"hotkey" yaml:"hotkey"`
}

// ObjectType describes a custom annotation, block object, or inline
// object type.
type ObjectType struct {
	Name  string `toml:"name" yaml:"name"`
	Title string `toml:"title" yaml:"title"`
}

// Schema enumerates everything the surface may produce or render.
type Schema struct {
	Styles        []Style      `toml:"styles" yaml:"styles"`
	Lists         []Style      `toml:"lists" yaml:"lists"`
	Decorators    []Decorator  `toml:"decorators" yaml:"decorators"`
	Annotations   []ObjectType `toml:"annotations" yaml:"annotations"`
	BlockObjects  []ObjectType `toml:"blockObjects" yaml:"blockObjects"`
	InlineObjects []ObjectType `toml:"inlineObjects" yaml:"inlineObjects"`
}

// Default returns the stock schema: normal/heading/quote styles, the
// usual decorator set, bullet and numbered lists, and a link annotation.
func Default() *Schema {
	return &Schema{
		Styles: []Style{
			{Name: "normal", Title: "Normal"},
			{Name: "h1", Title: "Heading 1"},
			{Name: "h2", Title: "Heading 2"},
			{Name: "h3", Title: "Heading 3"},
			{Name: "h4", Title: "Heading 4"},
			{Name: "h5", Title: "Heading 5"},
			{Name: "h6", Title: "Heading 6"},
			{Name: "blockquote", Title: "Quote"},
		},
		Lists: []Style{
			{Name: "bullet", Title: "Bulleted list"},
			{Name: "number", Title: "Numbered list"},
		},
		Decorators: []Decorator{
			{Name: "strong", Title: "Strong", Hotkey: "Mod+B"},
			{Name: "em", Title: "Emphasis", Hotkey: "Mod+I"},
			{Name: "code", Title: "Code", Hotkey: "Mod+'"},
			{Name: "underline", Title: "Underline", Hotkey: "Mod+U"},
			{Name: "strike-through", Title: "Strike"},
		},
		Annotations: []ObjectType{
			{Name: "link", Title: "Link"},
		},
	}
}

// Decorator returns the decorator with the given name.
func (s *Schema) Decorator(name string) (Decorator, bool) {
	for _, d := range s.Decorators {
		if d.Name == name {
			return d, true
		}
	}
	return Decorator{}, false
}

// Annotation returns the annotation type with the given name.
func (s *Schema) Annotation(name string) (ObjectType, bool) {
	return findType(s.Annotations, name)
}

// BlockObject returns the block object type with the given name.
func (s *Schema) BlockObject(name string) (ObjectType, bool) {
	return findType(s.BlockObjects, name)
}

// InlineObject returns the inline object type with the given name.
func (s *Schema) InlineObject(name string) (ObjectType, bool) {
	return findType(s.InlineObjects, name)
}

// SupportsStyle reports whether the style name is in the schema.
func (s *Schema) SupportsStyle(name string) bool {
	for _, st := range s.Styles {
		if st.Name == name {
			return true
		}
	}
	return false
}

// SupportsList reports whether the list kind is in the schema.
func (s *Schema) SupportsList(kind string) bool {
	for _, l := range s.Lists {
		if l.Name == kind {
			return true
		}
	}
	return false
}

// Validate checks namespace-local name uniqueness.
func (s *Schema) Validate() error {
	namespaces := []struct {
		what  string
		names []string
	}{
		{"style", styleNames(s.Styles)},
		{"list", styleNames(s.Lists)},
		{"decorator", decoratorNames(s.Decorators)},
		{"annotation", typeNames(s.Annotations)},
		{"blockObject", typeNames(s.BlockObjects)},
		{"inlineObject", typeNames(s.InlineObjects)},
	}
	for _, ns := range namespaces {
		seen := make(map[string]bool, len(ns.names))
		for _, name := range ns.names {
			if name == "" {
				return fmt.Errorf("%w: %s", ErrEmptyName, ns.what)
			}
			if seen[name] {
				return fmt.Errorf("%w: %s %q", ErrDuplicateName, ns.what, name)
			}
			seen[name] = true
		}
	}
	return nil
}

func findType(types []ObjectType, name string) (ObjectType, bool) {
	for _, t := range types {
		if t.Name == name {
			return t, true
		}
	}
	return ObjectType{}, false
}

func styleNames(styles []Style) []string {
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = s.Name
	}
	return out
}

func decoratorNames(decorators []Decorator) []string {
	out := make([]string, len(decorators))
	for i, d := range decorators {
		out[i] = d.Name
	}
	return out
}

func typeNames(types []ObjectType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name
	}
	return out
}
