// Package render maps document tree nodes to view descriptors.
//
// A view descriptor carries everything a host surface needs to draw a
// node: the resolved persisted record, the markers addressing the node,
// resolved decorator and object type definitions, and the drag-marker
// callbacks for object views. Rendering never fails; unknown marks and
// object types render nothing rather than erroring, since content may
// outlive schema revisions.
package render

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/path"
	"github.com/crazyrex/sanity/internal/schema"
)

// Marker is an out-of-band annotation addressed by path, independent of
// content marks. Validation messages are the typical case.
type Marker struct {
	Path    path.Path
	Level   string
	Message string
}

// ViewKind classifies a view descriptor.
type ViewKind uint8

const (
	// ViewContentBlock is a text block view.
	ViewContentBlock ViewKind = iota

	// ViewSpan is a text span view.
	ViewSpan

	// ViewBlockObject is a custom top-level object view.
	ViewBlockObject

	// ViewInlineObject is a custom inline object view.
	ViewInlineObject
)

// View describes how to draw one node.
type View struct {
	Kind ViewKind
	Node *doc.Node

	// Block is the persisted record for block-level views. The
	// authoritative persisted value is preferred; a block not yet
	// committed upstream falls back to a tree-derived record.
	Block *block.Block

	// Markers are the markers addressing exactly this node.
	Markers []Marker

	// Decorators are the resolved definitions of the span's marks, in
	// mark order. Marks without a definition are omitted.
	Decorators []schema.Decorator

	// ObjectType is the resolved schema type for object views; nil when
	// the type tag is not registered.
	ObjectType *schema.ObjectType

	// Selected reports whether the selection focus sits on this node.
	Selected bool

	// ShowDragMarker and HideDragMarker control the drag affordance on
	// object views.
	ShowDragMarker func()
	HideDragMarker func()
}

// Renderer resolves tree nodes against the persisted value, the schema,
// and the current marker set.
type Renderer struct {
	schema  *schema.Schema
	value   func() []block.Block
	markers []Marker

	showDrag func()
	hideDrag func()
}

// New builds a renderer. value supplies the authoritative persisted
// sequence and may return nil before the first commit.
func New(s *schema.Schema, value func() []block.Block) *Renderer {
	if s == nil {
		s = schema.Default()
	}
	return &Renderer{schema: s, value: value}
}

// SetMarkers replaces the marker set.
func (r *Renderer) SetMarkers(markers []Marker) {
	r.markers = markers
}

// SetDragMarkerHooks installs the drag affordance callbacks handed to
// object views.
func (r *Renderer) SetDragMarkerHooks(show, hide func()) {
	r.showDrag = show
	r.hideDrag = hide
}

// Block renders a top-level node.
func (r *Renderer) Block(d *doc.Document, n *doc.Node) View {
	blockPath := path.Block(n.Key)

	if n.Kind == doc.KindContentBlock {
		return View{
			Kind:     ViewContentBlock,
			Node:     n,
			Block:    r.resolveBlock(n),
			Markers:  r.markersAt(blockPath),
			Selected: r.focusedBlock(d) == n.Key,
		}
	}

	return View{
		Kind:           ViewBlockObject,
		Node:           n,
		Block:          r.resolveBlock(n),
		Markers:        r.markersAt(blockPath),
		ObjectType:     r.objectType(n.Type, r.schema.BlockObjects),
		Selected:       r.focusedBlock(d) == n.Key,
		ShowDragMarker: r.showDrag,
		HideDragMarker: r.hideDrag,
	}
}

// Child renders an inline node of parent. A span collects the markers
// addressing it by key plus the markers of every annotation it
// currently carries.
func (r *Renderer) Child(d *doc.Document, parent, n *doc.Node) View {
	childPath := path.Child(parent.Key, n.Key)

	if n.Kind == doc.KindSpan {
		markers := r.markersAt(childPath)
		for _, def := range n.Annotations(parent) {
			markers = append(markers, r.markersAt(path.Annotation(parent.Key, def.Key))...)
		}
		return View{
			Kind:       ViewSpan,
			Node:       n,
			Markers:    markers,
			Decorators: r.decorators(n.Marks),
			Selected:   r.focusedChild(d) == n.Key,
		}
	}

	return View{
		Kind:           ViewInlineObject,
		Node:           n,
		Markers:        r.markersAt(childPath),
		ObjectType:     r.objectType(n.Type, r.schema.InlineObjects),
		Selected:       r.focusedChild(d) == n.Key,
		ShowDragMarker: r.showDrag,
		HideDragMarker: r.hideDrag,
	}
}

// Document renders every block of d in order.
func (r *Renderer) Document(d *doc.Document) []View {
	blocks := d.Blocks()
	out := make([]View, 0, len(blocks))
	for _, n := range blocks {
		out = append(out, r.Block(d, n))
	}
	return out
}

// resolveBlock prefers the persisted record, falling back to a
// tree-derived conversion for blocks not yet committed.
func (r *Renderer) resolveBlock(n *doc.Node) *block.Block {
	if r.value != nil {
		persisted := r.value()
		if i := block.FindByKey(persisted, n.Key); i >= 0 {
			b := persisted[i].Clone()
			return &b
		}
	}
	b := n.ToBlock()
	return &b
}

// markersAt returns the markers whose path equals p structurally.
func (r *Renderer) markersAt(p path.Path) []Marker {
	var out []Marker
	for _, m := range r.markers {
		if m.Path.Equal(p) {
			out = append(out, m)
		}
	}
	return out
}

// decorators resolves mark names to schema definitions, skipping marks
// with no definition (annotation keys and unknown names).
func (r *Renderer) decorators(marks []string) []schema.Decorator {
	var out []schema.Decorator
	for _, m := range marks {
		if d, ok := r.schema.Decorator(m); ok {
			out = append(out, d)
		}
	}
	return out
}

// objectType resolves a type tag within one namespace.
func (r *Renderer) objectType(name string, types []schema.ObjectType) *schema.ObjectType {
	for _, t := range types {
		if t.Name == name {
			o := t
			return &o
		}
	}
	return nil
}

func (r *Renderer) focusedBlock(d *doc.Document) string {
	if d == nil {
		return ""
	}
	sel := d.Selection()
	if !sel.Active {
		return ""
	}
	return sel.Focus.BlockKey
}

func (r *Renderer) focusedChild(d *doc.Document) string {
	if d == nil {
		return ""
	}
	sel := d.Selection()
	if !sel.Active {
		return ""
	}
	return sel.Focus.ChildKey
}
