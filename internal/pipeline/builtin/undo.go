package builtin

import (
	"errors"

	"github.com/crazyrex/sanity/internal/history"
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// UndoRedo wraps the surface-owned history stack. Mod+Z undoes,
// Mod+Shift+Z and Mod+Y redo. An empty stack claims the combo without
// touching the document.
func UndoRedo(stack *history.Stack) pipeline.Plugin {
	undo := key.MustParse("Mod+Z")
	redoShift := key.MustParse("Mod+Shift+Z")
	redoY := key.MustParse("Mod+Y")

	return pipeline.Plugin{
		Name:  "undo-redo",
		Kinds: []pipeline.EventKind{pipeline.KindKeyDown},
		Handler: pipeline.HandlerFunc(func(ev pipeline.Event, ctx *pipeline.Context, next pipeline.Next) pipeline.Result {
			if stack == nil || ctx.Restore == nil {
				return next()
			}

			// Character combos fold Shift into the character, so Mod+Z
			// and Mod+Shift+Z both match; the modifier decides.
			shifted := ev.Key.Modifiers.Has(key.ModShift)
			isRedo := redoY.Matches(ev.Key) || (redoShift.Matches(ev.Key) && shifted)
			isUndo := !isRedo && undo.Matches(ev.Key) && !shifted
			if !isUndo && !isRedo {
				return next()
			}

			current := history.Capture(ctx.Value(), ctx.Doc.Selection())
			var (
				snap history.Snapshot
				err  error
			)
			if isUndo {
				snap, err = stack.Undo(current)
			} else {
				snap, err = stack.Redo(current)
			}
			if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
				return pipeline.Claim()
			}
			if err != nil {
				return pipeline.Fail(err)
			}
			ctx.Restore(snap)
			return pipeline.Claim()
		}),
	}
}
