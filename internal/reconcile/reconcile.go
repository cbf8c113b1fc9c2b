// Package reconcile derives patches from document changes.
//
// The editable tree and the persisted block sequence are two separate
// structures joined by stable keys. After every mutation the
// reconciler diffs the tree-derived sequence against the value it last
// saw, emits the resulting patches to the sink, and reports the new
// focus path. The reconciler never mutates the persisted sequence; the
// sink owns it.
package reconcile

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/clipboard"
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/patch"
	"github.com/crazyrex/sanity/internal/path"
	"github.com/crazyrex/sanity/internal/pipeline"
)

// LoadingStatus is the paste progress signal. Pastes have an observable
// in-progress window; every LoadingStart is followed by LoadingDone.
type LoadingStatus string

const (
	// LoadingStart opens the paste progress window.
	LoadingStart LoadingStatus = "start"

	// LoadingDone closes it.
	LoadingDone LoadingStatus = ""
)

// Callbacks are the outward-facing collaborators of the reconciler.
// All fields are optional.
type Callbacks struct {
	// OnPatch receives the patches of one document change.
	OnPatch func(patches []patch.Patch)

	// OnFocus receives the recomputed focus path. It fires before
	// OnChange so external focus tracking never lags behind.
	OnFocus func(p path.Path)

	// OnChange receives the new block sequence after every change.
	OnChange func(blocks []block.Block)

	// OnLoading receives paste progress transitions.
	OnLoading func(s LoadingStatus)
}

// PasteInterceptor may convert a paste payload into blocks ahead of the
// default converters. handled false falls through.
type PasteInterceptor func(t pipeline.Transfer, value []block.Block, focus path.Path) (blocks []block.Block, handled bool, err error)

// CopyInterceptor may build the outgoing transfer for a copy. handled
// false falls through to the default serialization.
type CopyInterceptor func(blocks []block.Block) (t pipeline.Transfer, handled bool, err error)

// Reconciler tracks the persisted value and turns document changes into
// patches.
type Reconciler struct {
	value     []block.Block
	lastFocus path.Path
	cb        Callbacks

	converters *clipboard.Chain
	pasteHook  PasteInterceptor
	copyHook   CopyInterceptor
}

// New builds a reconciler over the initial persisted value.
func New(initial []block.Block, cb Callbacks) *Reconciler {
	return &Reconciler{
		value:      block.CloneAll(initial),
		cb:         cb,
		converters: clipboard.Default(),
	}
}

// SetPasteInterceptor installs an external paste interceptor.
func (r *Reconciler) SetPasteInterceptor(fn PasteInterceptor) {
	r.pasteHook = fn
}

// SetCopyInterceptor installs an external copy interceptor.
func (r *Reconciler) SetCopyInterceptor(fn CopyInterceptor) {
	r.copyHook = fn
}

// Value returns the persisted sequence the reconciler last saw.
func (r *Reconciler) Value() []block.Block {
	return block.CloneAll(r.value)
}

// SetValue replaces the tracked value after an upstream change. No
// patches are emitted; the upstream already holds this state.
func (r *Reconciler) SetValue(blocks []block.Block) {
	r.value = block.CloneAll(blocks)
}

// SetFocusPath seeds the tracked focus path, normally from the hosting
// surface's focus prop.
func (r *Reconciler) SetFocusPath(p path.Path) {
	r.lastFocus = p.Clone()
}

// OnDocumentChange diffs the document against the tracked value and
// emits the results.
//
// The focus callback fires first, and only when the previously tracked
// focus path had exactly one segment: focus tracking follows top-level
// block focus only, never inline or annotation focus. Callers that
// want tracking must seed a single-segment path via SetFocusPath.
func (r *Reconciler) OnDocumentChange(d *doc.Document) {
	newBlocks := d.ToBlocks()
	patches := Diff(r.value, newBlocks)

	if len(r.lastFocus) == 1 {
		focus := d.FocusPath()
		if !focus.Equal(r.lastFocus) {
			r.lastFocus = focus.Clone()
			if r.cb.OnFocus != nil {
				r.cb.OnFocus(focus)
			}
		}
	}

	r.value = block.CloneAll(newBlocks)
	if len(patches) > 0 && r.cb.OnPatch != nil {
		r.cb.OnPatch(patches)
	}
	if r.cb.OnChange != nil {
		r.cb.OnChange(newBlocks)
	}
}

// Paste runs paste interception for the payload. A handled paste emits
// one insert-after-focus patch to the sink and reports true; an
// unhandled one reports false so the caller falls through to the
// engine default. The loading callback brackets the whole operation.
func (r *Reconciler) Paste(d *doc.Document, t pipeline.Transfer) (bool, error) {
	if r.cb.OnLoading != nil {
		r.cb.OnLoading(LoadingStart)
		defer r.cb.OnLoading(LoadingDone)
	}

	focus := d.FocusPath()
	blocks, handled, err := r.convertPaste(t, focus)
	if err != nil {
		return true, err
	}
	if !handled || len(blocks) == 0 {
		return false, nil
	}

	target := focus
	if target == nil {
		if all := d.Blocks(); len(all) > 0 {
			target = path.Block(all[len(all)-1].Key)
		}
	}
	if r.cb.OnPatch != nil {
		r.cb.OnPatch([]patch.Patch{patch.InsertAfter(target, blocks...)})
	}
	return true, nil
}

func (r *Reconciler) convertPaste(t pipeline.Transfer, focus path.Path) ([]block.Block, bool, error) {
	if r.pasteHook != nil {
		blocks, handled, err := r.pasteHook(t, r.Value(), focus)
		if err != nil || handled {
			return blocks, handled, err
		}
	}
	return r.converters.Convert(t)
}

// Copy builds the outgoing transfer for the content covered by the
// selection, delegating to the copy interceptor when one is installed.
func (r *Reconciler) Copy(d *doc.Document) (pipeline.Transfer, error) {
	blocks := selectedBlocks(d)
	if r.copyHook != nil {
		t, handled, err := r.copyHook(blocks)
		if err != nil || handled {
			return t, err
		}
	}
	return clipboard.Copy(blocks)
}

// selectedBlocks returns the blocks the selection spans, with the
// boundary spans trimmed to the selection offsets. No active selection
// exports every block whole.
func selectedBlocks(d *doc.Document) []block.Block {
	all := d.ToBlocks()
	sel := d.Selection()
	if !sel.Active {
		return all
	}
	start, end := -1, -1
	for i, b := range all {
		if b.Key == sel.Anchor.BlockKey {
			start = i
		}
		if b.Key == sel.Focus.BlockKey {
			end = i
		}
	}
	if start < 0 || end < 0 {
		return all
	}
	first, last := sel.Anchor, sel.Focus
	if start > end {
		start, end = end, start
		first, last = last, first
	}
	if start == end && pointAfter(all[start], first, last) {
		first, last = last, first
	}
	out := block.CloneAll(all[start : end+1])
	if sel.IsCollapsed() {
		// A caret exports its whole block.
		return out
	}
	// Tail first: trimming the head shifts offsets within a shared span.
	trimAfter(&out[len(out)-1], last)
	trimBefore(&out[0], first)
	return out
}

// pointAfter reports whether a sits after b within the block.
func pointAfter(blk block.Block, a, b doc.Point) bool {
	ai, bi := childIndex(blk, a.ChildKey), childIndex(blk, b.ChildKey)
	if ai != bi {
		return ai > bi
	}
	return a.Offset > b.Offset
}

// trimBefore drops the children before the point and cuts the boundary
// span at the point's rune offset.
func trimBefore(b *block.Block, p doc.Point) {
	i := childIndex(*b, p.ChildKey)
	if i < 0 {
		return
	}
	b.Children = b.Children[i:]
	if c := &b.Children[0]; c.IsSpan() {
		runes := []rune(c.Text)
		c.Text = string(runes[clampOffset(p.Offset, len(runes)):])
	}
}

// trimAfter drops the children after the point and cuts the boundary
// span at the point's rune offset.
func trimAfter(b *block.Block, p doc.Point) {
	i := childIndex(*b, p.ChildKey)
	if i < 0 {
		return
	}
	b.Children = b.Children[:i+1]
	if c := &b.Children[i]; c.IsSpan() {
		runes := []rune(c.Text)
		c.Text = string(runes[:clampOffset(p.Offset, len(runes))])
	}
}

func childIndex(b block.Block, key string) int {
	if key == "" {
		return -1
	}
	for i, c := range b.Children {
		if c.Key == key {
			return i
		}
	}
	return -1
}

func clampOffset(off, n int) int {
	switch {
	case off < 0:
		return 0
	case off > n:
		return n
	}
	return off
}
