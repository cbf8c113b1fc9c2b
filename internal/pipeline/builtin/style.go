package builtin

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// BlockStyles sets the focused block's style via hotkeys, style name to
// combo. Styles the schema does not allow fall through.
func BlockStyles(hotkeys map[string]key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "block-styles",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			for name, combo := range hotkeys {
				if !combo.Matches(ev.Key) {
					continue
				}
				if !ctx.Schema.SupportsStyle(name) {
					return next()
				}
				if err := ctx.Doc.SetStyle(name); err != nil {
					return pipeline.Fail(err)
				}
				return pipeline.Claim()
			}
			return next()
		}),
	}
}

// AnnotationToggle toggles an annotation of the given type across the
// selection. A collapsed selection is first expanded to the word under
// the caret.
func AnnotationToggle(typeName string, combo key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "annotation-toggle",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !combo.Matches(ev.Key) {
				return next()
			}
			if _, ok := ctx.Schema.Annotation(typeName); !ok {
				return next()
			}
			if ctx.Doc.Selection().IsCollapsed() {
				if err := ctx.Doc.ExpandWord(); err != nil {
					return pipeline.Fail(err)
				}
			}
			def := block.MarkDef{Key: block.NewKey(), Type: typeName}
			if _, err := ctx.Doc.ToggleAnnotation(def); err != nil {
				return pipeline.Fail(err)
			}
			return pipeline.Claim()
		}),
	}
}

// WordExpansion grows a collapsed selection to the word under the
// caret.
func WordExpansion(combo key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "word-expansion",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !combo.Matches(ev.Key) {
				return next()
			}
			if err := ctx.Doc.ExpandWord(); err != nil {
				return pipeline.Fail(err)
			}
			return pipeline.Claim()
		}),
	}
}

// SpanWrap splits spans at the selection edges so the selected text is
// covered by whole spans, without changing marks.
func SpanWrap(combo key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "span-wrap",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !combo.Matches(ev.Key) {
				return next()
			}
			if _, err := ctx.Doc.WrapSpan(); err != nil {
				return pipeline.Fail(err)
			}
			return pipeline.Claim()
		}),
	}
}
