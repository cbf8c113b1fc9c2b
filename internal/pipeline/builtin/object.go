package builtin

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// InlineObjectInsert inserts an inline object of the schema's first
// declared inline type at the caret. Without inline types the combo
// falls through.
func InlineObjectInsert(combo key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "inline-object-insert",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !combo.Matches(ev.Key) {
				return next()
			}
			if len(ctx.Schema.InlineObjects) == 0 {
				return next()
			}
			c := block.Child{
				Key:  block.NewKey(),
				Type: ctx.Schema.InlineObjects[0].Name,
			}
			if err := ctx.Doc.InsertInline(c); err != nil {
				return pipeline.Fail(err)
			}
			return pipeline.Claim()
		}),
	}
}

// BlockObjectInsert inserts a block object of the schema's first
// declared block object type after the focused block.
func BlockObjectInsert(combo key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "block-object-insert",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !combo.Matches(ev.Key) {
				return next()
			}
			if len(ctx.Schema.BlockObjects) == 0 {
				return next()
			}
			focused := ctx.Doc.FocusedBlock()
			if focused == nil {
				return next()
			}
			b := block.Block{
				Key:  block.NewKey(),
				Type: ctx.Schema.BlockObjects[0].Name,
			}
			inserted, err := ctx.Doc.InsertBlockAfter(b, focused.Key)
			if err != nil {
				return pipeline.Fail(err)
			}
			ctx.Doc.SelectBlockStart(inserted.Key)
			return pipeline.Claim()
		}),
	}
}
