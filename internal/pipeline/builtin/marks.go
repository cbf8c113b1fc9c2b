package builtin

import (
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// MarkHotkeys toggles decorators via their hotkeys, mark name to combo.
// Combos for decorators the schema does not declare fall through.
func MarkHotkeys(hotkeys map[string]key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "mark-hotkeys",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			for name, combo := range hotkeys {
				if !combo.Matches(ev.Key) {
					continue
				}
				if _, ok := ctx.Schema.Decorator(name); !ok {
					return next()
				}
				if err := ctx.Doc.ToggleMark(name); err != nil {
					return pipeline.Fail(err)
				}
				return pipeline.Claim()
			}
			return next()
		}),
	}
}

// SoftBreak inserts a line break inside the focused span without
// splitting the block.
func SoftBreak(combo key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "soft-break",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !combo.Matches(ev.Key) {
				return next()
			}
			if focusedContent(ctx) == nil {
				return next()
			}
			if err := ctx.Doc.SoftBreak(); err != nil {
				return pipeline.Fail(err)
			}
			return pipeline.Claim()
		}),
	}
}
