package builtin

import (
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// ListEnter handles Enter inside empty list items. An empty item at
// depth above one outdents; an empty item at depth one leaves the list.
// Non-empty items fall through to the generic enter behavior.
func ListEnter() pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "list-enter",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if !isPlainEnter(ev.Key) {
				return next()
			}
			n := focusedContent(ctx)
			if n == nil || n.ListItem == "" || n.BlockText() != "" {
				return next()
			}
			if n.Level > 1 {
				if err := ctx.Doc.IndentList(-1); err != nil {
					return pipeline.Fail(err)
				}
				return pipeline.Claim()
			}
			if err := ctx.Doc.ToggleList(n.ListItem); err != nil {
				return pipeline.Fail(err)
			}
			return pipeline.Claim()
		}),
	}
}

// ListTab indents the focused list item on Tab and outdents it on
// Shift+Tab. Tab outside a list falls through.
func ListTab() pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "list-tab",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if ev.Key.Key != key.KeyTab {
				return next()
			}
			n := focusedContent(ctx)
			if n == nil || n.ListItem == "" {
				return next()
			}
			delta := 1
			if ev.Key.Modifiers.Has(key.ModShift) {
				delta = -1
			}
			if err := ctx.Doc.IndentList(delta); err != nil {
				return pipeline.Fail(err)
			}
			return pipeline.Claim()
		}),
	}
}

// ListToggle toggles list membership via hotkeys, one combo per list
// kind. Kinds the schema does not allow fall through.
func ListToggle(hotkeys map[string]key.Combo) pipeline.Plugin {
	return pipeline.Plugin{
		Name:  "list-toggle",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			for kind, combo := range hotkeys {
				if !combo.Matches(ev.Key) {
					continue
				}
				if !ctx.Schema.SupportsList(kind) {
					return next()
				}
				if err := ctx.Doc.ToggleList(kind); err != nil {
					return pipeline.Fail(err)
				}
				return pipeline.Claim()
			}
			return next()
		}),
	}
}
