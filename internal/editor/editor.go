// Package editor composes the editing surface: document, schema,
// configuration, plugin chain, resolver, renderer, history, and
// reconciler, behind one instance with callback outputs.
//
// Input flows through the fixed plugin chain; claimed events mutate the
// document, and every mutation is diffed into patches for the sink.
// The fullscreen combo is intercepted at the surface before the chain,
// since fullscreen is surface state, not document state.
package editor

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/config"
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/history"
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/patch"
	"github.com/crazyrex/sanity/internal/path"
	"github.com/crazyrex/sanity/internal/pipeline"
	"github.com/crazyrex/sanity/internal/pipeline/builtin"
	"github.com/crazyrex/sanity/internal/reconcile"
	"github.com/crazyrex/sanity/internal/render"
	"github.com/crazyrex/sanity/internal/resolver"
	"github.com/crazyrex/sanity/internal/schema"
)

// Props configure an editing surface instance.
type Props struct {
	// Value is the initial persisted block sequence.
	Value []block.Block

	// FocusPath is the externally desired focus path, if any.
	FocusPath path.Path

	// Markers are out-of-band annotations addressed by path.
	Markers []render.Marker

	// Schema describes the allowed content. Nil uses the stock schema.
	Schema *schema.Schema

	// Config carries history depth and hotkey overrides. The zero value
	// is replaced by config.Default().
	Config config.Config

	// Fullscreen is the initial fullscreen state.
	Fullscreen bool

	// Extra plugins appended after the stock set, lowest priority.
	Plugins []pipeline.Plugin
}

// Callbacks are the surface outputs. All fields are optional.
type Callbacks struct {
	// OnFocus receives focus path changes.
	OnFocus func(p path.Path)

	// OnPatch receives the patches of each mutation.
	OnPatch func(patches []patch.Patch)

	// OnChange receives the new block sequence after each mutation.
	OnChange func(blocks []block.Block)

	// OnLoading receives paste progress transitions.
	OnLoading func(s reconcile.LoadingStatus)

	// OnToggleFullscreen fires when the fullscreen combo is intercepted.
	OnToggleFullscreen func(fullscreen bool)

	// OnSelection observes the selection after document changes.
	OnSelection func(sel doc.Selection)

	// OnBringIntoView fires when path resolution scrolls to a node.
	OnBringIntoView func(n *doc.Node)
}

// Editor is one editing surface instance.
type Editor struct {
	doc        *doc.Document
	schema     *schema.Schema
	cfg        config.Config
	cb         Callbacks
	chain      *pipeline.Chain
	stack      *history.Stack
	reconciler *reconcile.Reconciler
	resolver   *resolver.Resolver
	renderer   *render.Renderer

	fullscreen      bool
	fullscreenCombo key.Combo
	restoring       bool
}

// New builds an editing surface from props.
func New(props Props, cb Callbacks) (*Editor, error) {
	s := props.Schema
	if s == nil {
		s = schema.Default()
	}
	cfg := props.Config
	if cfg.History.MaxEntries == 0 && cfg.Hotkeys.Fullscreen == "" {
		cfg = config.Default()
	}

	e := &Editor{
		doc:             doc.New(props.Value),
		schema:          s,
		cfg:             cfg,
		cb:              cb,
		stack:           history.New(cfg.History.MaxEntries),
		fullscreen:      props.Fullscreen,
		fullscreenCombo: cfg.FullscreenCombo(),
	}

	e.reconciler = reconcile.New(props.Value, reconcile.Callbacks{
		OnPatch:   cb.OnPatch,
		OnFocus:   cb.OnFocus,
		OnChange:  cb.OnChange,
		OnLoading: cb.OnLoading,
	})
	if len(props.FocusPath) > 0 {
		e.reconciler.SetFocusPath(props.FocusPath)
	} else {
		e.reconciler.SetFocusPath(e.doc.FocusPath())
	}

	e.resolver = resolver.New(func(n *doc.Node) {
		if cb.OnBringIntoView != nil {
			cb.OnBringIntoView(n)
		}
	})

	e.renderer = render.New(s, e.reconciler.Value)
	e.renderer.SetMarkers(props.Markers)

	plugins, err := builtin.All(builtin.Options{
		Schema:           s,
		History:          e.stack,
		OnSelection:      cb.OnSelection,
		DecoratorHotkeys: cfg.Hotkeys.Decorators,
	})
	if err != nil {
		return nil, err
	}
	e.chain = pipeline.NewChain(append(plugins, props.Plugins...)...)

	if len(props.FocusPath) > 0 {
		if n, err := e.resolver.Resolve(e.doc, props.FocusPath); err != nil {
			return nil, err
		} else if n != nil {
			e.doc.SelectBlockStart(topKey(props.FocusPath, n))
		}
	}
	return e, nil
}

func topKey(p path.Path, n *doc.Node) string {
	if len(p) > 0 && p[0].IsKey() {
		return p[0].Key
	}
	return n.Key
}

// Document exposes the live tree.
func (e *Editor) Document() *doc.Document {
	return e.doc
}

// Value returns the persisted sequence as last reconciled.
func (e *Editor) Value() []block.Block {
	return e.reconciler.Value()
}

// Fullscreen reports the current fullscreen state.
func (e *Editor) Fullscreen() bool {
	return e.fullscreen
}

// History exposes the undo stack, for grouping control.
func (e *Editor) History() *history.Stack {
	return e.stack
}

// SetPasteInterceptor installs an external paste interceptor.
func (e *Editor) SetPasteInterceptor(fn reconcile.PasteInterceptor) {
	e.reconciler.SetPasteInterceptor(fn)
}

// SetCopyInterceptor installs an external copy interceptor.
func (e *Editor) SetCopyInterceptor(fn reconcile.CopyInterceptor) {
	e.reconciler.SetCopyInterceptor(fn)
}

// SetMarkers replaces the marker set.
func (e *Editor) SetMarkers(markers []render.Marker) {
	e.renderer.SetMarkers(markers)
}

// SetValue replaces the document after an upstream value change. The
// tree is rebuilt, not mutated; no patches are emitted.
func (e *Editor) SetValue(blocks []block.Block) {
	e.doc = doc.New(blocks)
	e.reconciler.SetValue(blocks)
}

// SetFocusPath resolves an externally requested focus path, moving the
// selection and firing bring-into-view on child and annotation targets.
// Integrity errors surface to the caller.
func (e *Editor) SetFocusPath(p path.Path) error {
	n, err := e.resolver.Resolve(e.doc, p)
	if err != nil {
		return err
	}
	if n != nil {
		e.doc.SelectBlockStart(topKey(p, n))
	}
	e.reconciler.SetFocusPath(p)
	return nil
}

// Render maps the whole document to view descriptors.
func (e *Editor) Render() []render.View {
	return e.renderer.Document(e.doc)
}

// Renderer exposes the node renderer for per-node rendering.
func (e *Editor) Renderer() *render.Renderer {
	return e.renderer
}

// HandleKey routes a key press. The fullscreen combo (and Escape while
// fullscreen) is intercepted here; everything else goes through the
// chain, with unclaimed keys falling through to the default text
// editing behavior.
func (e *Editor) HandleKey(ev key.Event) pipeline.Result {
	if e.fullscreenCombo.Matches(ev) || (e.fullscreen && ev.Key == key.KeyEscape && ev.Modifiers == key.ModNone) {
		e.fullscreen = !e.fullscreen
		if e.cb.OnToggleFullscreen != nil {
			e.cb.OnToggleFullscreen(e.fullscreen)
		}
		return pipeline.Claim()
	}
	return e.dispatch(pipeline.Event{Kind: pipeline.KindKeyDown, Key: ev}, e.defaultKey)
}

// Paste routes a paste payload through the chain, falling through to
// plain insertion of the text payload when nothing handles it.
func (e *Editor) Paste(t pipeline.Transfer) pipeline.Result {
	return e.dispatch(pipeline.Event{Kind: pipeline.KindPaste, Transfer: t}, e.defaultPaste)
}

// Copy builds the outgoing transfer for the current selection.
func (e *Editor) Copy() (pipeline.Transfer, error) {
	return e.reconciler.Copy(e.doc)
}

// DragOver routes a drag-over payload through the chain.
func (e *Editor) DragOver(t pipeline.Transfer) pipeline.Result {
	return e.dispatch(pipeline.Event{Kind: pipeline.KindDragOver, Transfer: t}, nil)
}

// Drop routes a drop payload through the chain.
func (e *Editor) Drop(t pipeline.Transfer) pipeline.Result {
	return e.dispatch(pipeline.Event{Kind: pipeline.KindDrop, Transfer: t}, nil)
}

// dispatch runs one event through the chain and reconciles any
// resulting document change.
func (e *Editor) dispatch(ev pipeline.Event, fallback pipeline.Fallback) pipeline.Result {
	before := history.Capture(e.doc.ToBlocks(), e.doc.Selection())
	e.restoring = false

	res := e.chain.Dispatch(ev, e.context(), fallback)
	if res.Err != nil {
		return res
	}

	after := e.doc.ToBlocks()
	if changed := len(reconcile.Diff(before.Blocks, after)) > 0; changed || e.restoring {
		if changed && !e.restoring {
			e.stack.Push(before)
		}
		e.reconciler.OnDocumentChange(e.doc)
		e.chain.Dispatch(pipeline.Event{Kind: pipeline.KindChange}, e.context(), nil)
	}
	return res
}

// context builds the per-dispatch handler context.
func (e *Editor) context() *pipeline.Context {
	return &pipeline.Context{
		Doc:    e.doc,
		Schema: e.schema,
		Value:  e.reconciler.Value,
		Paste: func(t pipeline.Transfer) (bool, error) {
			return e.reconciler.Paste(e.doc, t)
		},
		Restore: e.restore,
	}
}

// restore replaces the document from an undo or redo snapshot.
func (e *Editor) restore(s history.Snapshot) {
	e.restoring = true
	e.doc = doc.New(s.Blocks)
	if s.Selection.Active {
		e.doc.SetSelection(s.Selection)
	}
}

// defaultKey is the engine default for unclaimed key presses: plain
// text editing.
func (e *Editor) defaultKey(ev pipeline.Event, ctx *pipeline.Context) pipeline.Result {
	k := ev.Key
	switch {
	case k.IsChar():
		if err := ctx.Doc.InsertText(string(k.Rune)); err != nil {
			return pipeline.Result{}
		}
		return pipeline.Claim()
	case k.Key == key.KeySpace && k.Modifiers == key.ModNone:
		if err := ctx.Doc.InsertText(" "); err != nil {
			return pipeline.Result{}
		}
		return pipeline.Claim()
	case k.Key == key.KeyBackspace:
		if err := ctx.Doc.DeleteBackward(); err != nil {
			return pipeline.Result{}
		}
		return pipeline.Claim()
	case k.Key == key.KeyDelete:
		if sel := ctx.Doc.Selection(); sel.Active && !sel.IsCollapsed() {
			if err := ctx.Doc.DeleteSelection(); err != nil {
				return pipeline.Result{}
			}
			return pipeline.Claim()
		}
		return pipeline.Result{}
	default:
		return pipeline.Result{}
	}
}

// defaultPaste is the engine default for unclaimed pastes: insert the
// plain text payload at the caret.
func (e *Editor) defaultPaste(ev pipeline.Event, ctx *pipeline.Context) pipeline.Result {
	if ev.Transfer.Text == "" {
		return pipeline.Result{}
	}
	if err := ctx.Doc.InsertText(ev.Transfer.Text); err != nil {
		return pipeline.Result{}
	}
	return pipeline.Claim()
}
