package builtin

import (
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// VoidShim guards void blocks against text editing defaults. Backspace
// and Delete remove the focused void block; printable characters are
// swallowed so the engine cannot type into it. Navigation keys fall
// through.
func VoidShim() pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "void-shim",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			n := focusedVoid(ctx)
			if n == nil {
				return next()
			}
			switch {
			case ev.Key.Key == key.KeyBackspace || ev.Key.Key == key.KeyDelete:
				if err := ctx.Doc.RemoveBlock(n.Key); err != nil {
					return pipeline.Fail(err)
				}
				return pipeline.Claim()
			case ev.Key.IsChar():
				return pipeline.Claim()
			default:
				return next()
			}
		}),
	}
}
