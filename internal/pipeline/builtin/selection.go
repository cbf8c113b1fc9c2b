package builtin

import (
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// SelectionTracker observes the selection after every document change.
// It never claims; the notification rides along and the event continues
// down the chain.
func SelectionTracker(fn func(sel doc.Selection)) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "selection-tracker",
		Kinds: []pipeline.EventKind{pipeline.KindChange},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if fn != nil {
				fn(ctx.Doc.Selection())
			}
			return next()
		}),
	}
}
