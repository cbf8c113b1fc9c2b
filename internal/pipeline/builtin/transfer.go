package builtin

import (
	"github.com/crazyrex/sanity/internal/pipeline"
)

// Paste routes paste payloads through the surface's interceptor chain.
// Unhandled payloads fall through to the engine default.
func Paste() pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "paste",
		Kinds: []pipeline.EventKind{pipeline.KindPaste},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if ctx.Paste == nil {
				return next()
			}
			handled, err := ctx.Paste(ev.Transfer)
			if err != nil {
				return pipeline.Fail(err)
			}
			if !handled {
				return next()
			}
			return pipeline.Claim()
		}),
	}
}

// Drop claims drag-over and drop events that carry a native editor
// node, signalling a move so the reconciler relocates the node instead
// of letting the platform duplicate it. Foreign payloads fall through.
func Drop() pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "drop",
		Kinds: []pipeline.EventKind{pipeline.KindDragOver, pipeline.KindDrop},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !ev.Transfer.IsNativeObject() {
				return next()
			}
			return pipeline.ClaimEffect(pipeline.EffectMove)
		}),
	}
}
