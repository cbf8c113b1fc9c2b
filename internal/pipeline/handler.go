package pipeline

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/history"
	"github.com/crazyrex/sanity/internal/schema"
)

// Effect is a side signal a handler can attach to its result.
type Effect string

const (
	// EffectNone is the zero effect.
	EffectNone Effect = ""

	// EffectMove signals that a drag carries an editor node and the drop
	// is a move, with default handling cancelled.
	EffectMove Effect = "move"
)

// Result is the outcome of dispatching an event.
type Result struct {
	// Claimed is true when a handler stopped the chain.
	Claimed bool

	// Effect is an optional side signal (EffectMove for native drags).
	Effect Effect

	// Err is the handler failure, if any. A failed handler still claims
	// the event; half-applied edits must not fall through to defaults.
	Err error
}

// Claim returns a claiming result.
func Claim() Result {
	return Result{Claimed: true}
}

// ClaimEffect returns a claiming result with a side signal.
func ClaimEffect(e Effect) Result {
	return Result{Claimed: true, Effect: e}
}

// Fail returns a claiming result carrying an error.
func Fail(err error) Result {
	return Result{Claimed: true, Err: err}
}

// Next is the continuation to the rest of the chain.
type Next func() Result

// Handler processes an event or delegates via next.
type Handler interface {
	Handle(ev Event, ctx *Context, next Next) Result
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event, ctx *Context, next Next) Result

// Handle implements Handler.
func (f HandlerFunc) Handle(ev Event, ctx *Context, next Next) Result {
	return f(ev, ctx, next)
}

// Plugin is a named handler registered for one or more event kinds.
// Plugins are stateless configuration values; any mutable collaborator
// (like the undo stack) is injected at construction.
type Plugin struct {
	// Name identifies the plugin in logs and tests.
	Name string

	// Kinds lists the event kinds the plugin participates in.
	Kinds []EventKind

	// Handler is the plugin behavior.
	Handler Handler
}

// handles reports whether the plugin participates in the event kind.
func (p Plugin) handles(kind EventKind) bool {
	for _, k := range p.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Context gives handlers access to the surface state they may act on.
// One context value is built per dispatch.
type Context struct {
	// Doc is the live editable tree.
	Doc *doc.Document

	// Schema describes the allowed content types.
	Schema *schema.Schema

	// Value returns the current persisted block sequence.
	Value func() []block.Block

	// Paste asks the surface to run paste interception for the payload.
	// It reports whether the paste was handled; unhandled pastes fall
	// through to the engine default.
	Paste func(t Transfer) (bool, error)

	// Restore asks the surface to replace document and value from an
	// undo/redo snapshot.
	Restore func(s history.Snapshot)
}
