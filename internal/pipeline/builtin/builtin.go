// Package builtin provides the stock behavior plugins of the editing
// surface and their fixed priority order.
//
// Order matters: the first plugin to claim an event wins, so more
// specific behaviors (empty-list-item enter, native-object drops) sit
// before the generic ones they specialize.
package builtin

import (
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/history"
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
	"github.com/crazyrex/sanity/internal/schema"
)

// Options configures the stock plugin set.
type Options struct {
	// Schema describes the allowed content types.
	Schema *schema.Schema

	// History is the surface-owned undo/redo stack, wrapped by exactly
	// the undo/redo plugin.
	History *history.Stack

	// OnSelection observes selection state after document changes.
	// Optional.
	OnSelection func(sel doc.Selection)

	// DecoratorHotkeys overrides the schema's decorator hotkeys,
	// mark name to combo spec. Optional.
	DecoratorHotkeys map[string]string
}

// All returns the full stock plugin set in priority order.
func All(opts Options) ([]pipeline.Plugin, error) {
	s := opts.Schema
	if s == nil {
		s = schema.Default()
	}

	markHotkeys, err := decoratorHotkeys(s, opts.DecoratorHotkeys)
	if err != nil {
		return nil, err
	}

	plugins := []pipeline.Plugin{
		SelectionTracker(opts.OnSelection),
		ListEnter(),
		ListTab(),
		ListToggle(map[string]key.Combo{
			"bullet": key.MustParse("Mod+Shift+8"),
			"number": key.MustParse("Mod+Shift+9"),
		}),
		Enter(),
		MarkHotkeys(markHotkeys),
		SoftBreak(key.MustParse("Shift+Enter")),
		Paste(),
		BlockInsertOnEnter(),
		Drop(),
		BlockStyles(defaultStyleHotkeys()),
		AnnotationToggle("link", key.MustParse("Mod+K")),
		WordExpansion(key.MustParse("Mod+D")),
		SpanWrap(key.MustParse("Mod+Shift+S")),
		InlineObjectInsert(key.MustParse("Mod+Shift+I")),
		BlockObjectInsert(key.MustParse("Mod+Shift+O")),
		UndoRedo(opts.History),
		VoidShim(),
	}
	return plugins, nil
}

// decoratorHotkeys merges schema hotkeys with overrides into parsed
// combos.
func decoratorHotkeys(s *schema.Schema, overrides map[string]string) (map[string]key.Combo, error) {
	out := make(map[string]key.Combo)
	for _, d := range s.Decorators {
		spec := d.Hotkey
		if o, ok := overrides[d.Name]; ok {
			spec = o
		}
		if spec == "" {
			continue
		}
		c, err := key.Parse(spec)
		if err != nil {
			return nil, err
		}
		out[d.Name] = c
	}
	return out, nil
}

// defaultStyleHotkeys maps Mod+Alt+digit to the stock styles.
func defaultStyleHotkeys() map[string]key.Combo {
	return map[string]key.Combo{
		"normal":     key.MustParse("Mod+Alt+0"),
		"h1":         key.MustParse("Mod+Alt+1"),
		"h2":         key.MustParse("Mod+Alt+2"),
		"h3":         key.MustParse("Mod+Alt+3"),
		"h4":         key.MustParse("Mod+Alt+4"),
		"h5":         key.MustParse("Mod+Alt+5"),
		"h6":         key.MustParse("Mod+Alt+6"),
		"blockquote": key.MustParse("Mod+Shift+Q"),
	}
}

// focusedContent returns the focused content block, or nil.
func focusedContent(ctx *pipeline.Context) *doc.Node {
	n := ctx.Doc.FocusedBlock()
	if n == nil || n.Kind != doc.KindContentBlock {
		return nil
	}
	return n
}

// focusedVoid returns the focused void block, or nil.
func focusedVoid(ctx *pipeline.Context) *doc.Node {
	n := ctx.Doc.FocusedBlock()
	if n == nil || n.Kind != doc.KindBlockObject {
		return nil
	}
	return n
}

// isPlainEnter reports an unmodified Enter press.
func isPlainEnter(e key.Event) bool {
	return e.Key == key.KeyEnter && e.Modifiers == key.ModNone
}
