package builtin

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// Enter splits the focused content block at the caret. Splitting at the
// end of a heading or quote starts the new block on the normal style.
func Enter() pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "enter",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !isPlainEnter(ev.Key) {
				return next()
			}
			n := focusedContent(ctx)
			if n == nil {
				return next()
			}
			style := n.Style
			tail, err := ctx.Doc.SplitBlock()
			if err != nil {
				return pipeline.Fail(err)
			}
			if style != "" && style != "normal" && tail.BlockText() == "" {
				if err := ctx.Doc.SetStyle("normal"); err != nil {
					return pipeline.Fail(err)
				}
			}
			return pipeline.Claim()
		}),
	}
}

// BlockInsertOnEnter handles Enter while a void block has focus by
// inserting an empty text block after it and moving focus there.
func BlockInsertOnEnter() pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "block-insert-on-enter",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !isPlainEnter(ev.Key) {
				return next()
			}
			n := focusedVoid(ctx)
			if n == nil {
				return next()
			}
			fresh := block.Block{
				Key:   block.NewKey(),
				Type:  block.TypeBlock,
				Style: "normal",
				Children: []block.Child{
					{Key: block.NewKey(), Type: block.TypeSpan, Text: ""},
				},
			}
			inserted, err := ctx.Doc.InsertBlockAfter(fresh, n.Key)
			if err != nil {
				return pipeline.Fail(err)
			}
			ctx.Doc.SelectBlockStart(inserted.Key)
			return pipeline.Claim()
		}),
	}
}
