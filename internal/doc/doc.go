// Package doc provides the live editable document tree.
//
// The tree mirrors a persisted block sequence (package block): every node
// carries the stable key of the record it was built from, which is what
// keeps identity across rebuilds. The tree owns the current selection and
// all editing operations; it is replaced, never mutated in place, when the
// upstream value changes out from under the surface.
//
// The tree is the working representation; the block sequence stays the
// source of truth. Reconciliation between the two is an explicit diff step
// (package reconcile), not mutation observation.
package doc

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/path"
)

// Document is the live editable tree plus its selection state.
type Document struct {
	blocks []*Node
	sel    Selection
}

// New builds a fresh document tree from a block sequence. The input is not
// retained; nodes hold their own copies.
func New(blocks []block.Block) *Document {
	d := &Document{blocks: make([]*Node, 0, len(blocks))}
	for i := range blocks {
		d.blocks = append(d.blocks, nodeFromBlock(blocks[i]))
	}
	d.normalize()
	return d
}

// Blocks returns the top-level block nodes in order.
func (d *Document) Blocks() []*Node {
	return d.blocks
}

// Len returns the number of top-level blocks.
func (d *Document) Len() int {
	return len(d.blocks)
}

// BlockByKey returns the top-level block node with the given key, or nil.
func (d *Document) BlockByKey(key string) *Node {
	for _, n := range d.blocks {
		if n.Key == key {
			return n
		}
	}
	return nil
}

// blockIndex returns the index of the block with the given key, or -1.
func (d *Document) blockIndex(key string) int {
	for i, n := range d.blocks {
		if n.Key == key {
			return i
		}
	}
	return -1
}

// Selection returns the current selection.
func (d *Document) Selection() Selection {
	return d.sel
}

// SetSelection replaces the current selection. Points referencing unknown
// keys deactivate the selection.
func (d *Document) SetSelection(sel Selection) {
	if sel.Active && !d.validPoint(sel.Anchor) {
		sel.Active = false
	}
	if sel.Active && !d.validPoint(sel.Focus) {
		sel.Active = false
	}
	d.sel = sel
}

// Select places a collapsed selection at the given point.
func (d *Document) Select(p Point) {
	d.SetSelection(Selection{Anchor: p, Focus: p, Active: true})
}

// SelectBlockStart places a collapsed selection at the start of the block
// with the given key.
func (d *Document) SelectBlockStart(key string) {
	n := d.BlockByKey(key)
	if n == nil {
		return
	}
	p := Point{BlockKey: key}
	if n.Kind == KindContentBlock && len(n.Children) > 0 {
		p.ChildKey = n.Children[0].Key
	}
	d.Select(p)
}

// FocusedBlock returns the block node containing the selection focus,
// or nil when there is no active selection.
func (d *Document) FocusedBlock() *Node {
	if !d.sel.Active {
		return nil
	}
	return d.BlockByKey(d.sel.Focus.BlockKey)
}

// FocusPath returns the single-segment path of the focused block, or nil
// when there is no active selection.
func (d *Document) FocusPath() path.Path {
	n := d.FocusedBlock()
	if n == nil {
		return nil
	}
	return path.Block(n.Key)
}

// ToBlocks converts the tree back into a persisted block sequence. The
// result shares no state with the tree.
func (d *Document) ToBlocks() []block.Block {
	out := make([]block.Block, 0, len(d.blocks))
	for _, n := range d.blocks {
		out = append(out, n.toBlock())
	}
	return out
}

// validPoint reports whether the point references existing nodes.
func (d *Document) validPoint(p Point) bool {
	n := d.BlockByKey(p.BlockKey)
	if n == nil {
		return false
	}
	if p.ChildKey == "" {
		return true
	}
	return n.Child(p.ChildKey) != nil
}

// normalize ensures every content block has at least one span child, so
// there is always a place for the caret.
func (d *Document) normalize() {
	for _, n := range d.blocks {
		if n.Kind != KindContentBlock {
			continue
		}
		hasSpan := false
		for _, c := range n.Children {
			if c.Kind == KindSpan {
				hasSpan = true
				break
			}
		}
		if !hasSpan {
			n.Children = append(n.Children, &Node{
				Kind: KindSpan,
				Key:  block.NewKey(),
				Type: block.TypeSpan,
			})
		}
	}
}
