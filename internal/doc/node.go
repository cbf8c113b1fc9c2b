package doc

import "github.com/crazyrex/sanity/internal/block"

// Kind is the structural type of a tree node.
type Kind uint8

const (
	// KindContentBlock is a text block with inline children.
	KindContentBlock Kind = iota

	// KindBlockObject is a void top-level object block.
	KindBlockObject

	// KindSpan is a text span inside a content block.
	KindSpan

	// KindInlineObject is a void inline object inside a content block.
	KindInlineObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindContentBlock:
		return "contentBlock"
	case KindBlockObject:
		return "blockObject"
	case KindSpan:
		return "span"
	case KindInlineObject:
		return "inlineObject"
	default:
		return "unknown"
	}
}

// Node is one node of the editable tree. The populated fields depend on
// Kind; Key and Type are always set.
type Node struct {
	Kind Kind
	Key  string
	Type string

	// Content block fields.
	Style    string
	ListItem string
	Level    int
	MarkDefs []block.MarkDef
	Children []*Node

	// Span fields.
	Text  string
	Marks []string

	// Object payload (block and inline objects), plus unmodeled fields.
	Attrs map[string]any
}

// IsVoid reports whether the node has no editable text content.
func (n *Node) IsVoid() bool {
	return n.Kind == KindBlockObject || n.Kind == KindInlineObject
}

// Child returns the child node with the given key, or nil. Only content
// blocks have children.
func (n *Node) Child(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// childIndex returns the index of the child with the given key, or -1.
func (n *Node) childIndex(key string) int {
	for i, c := range n.Children {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// MarkDef returns the annotation record with the given key.
func (n *Node) MarkDef(key string) (block.MarkDef, bool) {
	for _, d := range n.MarkDefs {
		if d.Key == key {
			return d, true
		}
	}
	return block.MarkDef{}, false
}

// HasMark reports whether a span node carries the given mark.
func (n *Node) HasMark(name string) bool {
	for _, m := range n.Marks {
		if m == name {
			return true
		}
	}
	return false
}

// Annotations returns the annotation records referenced by a span's marks,
// resolved through the parent block's markDefs.
func (n *Node) Annotations(parent *Node) []block.MarkDef {
	var defs []block.MarkDef
	for _, m := range n.Marks {
		if d, ok := parent.MarkDef(m); ok {
			defs = append(defs, d)
		}
	}
	return defs
}

// BlockText returns the concatenated text of a content block's spans.
func (n *Node) BlockText() string {
	var s string
	for _, c := range n.Children {
		if c.Kind == KindSpan {
			s += c.Text
		}
	}
	return s
}

// nodeFromBlock builds a tree node from a persisted block record.
func nodeFromBlock(b block.Block) *Node {
	if !b.IsContent() {
		return &Node{
			Kind:  KindBlockObject,
			Key:   b.Key,
			Type:  b.Type,
			Attrs: b.Clone().Attrs,
		}
	}
	n := &Node{
		Kind:     KindContentBlock,
		Key:      b.Key,
		Type:     b.Type,
		Style:    b.Style,
		ListItem: b.ListItem,
		Level:    b.Level,
	}
	clone := b.Clone()
	n.MarkDefs = clone.MarkDefs
	n.Attrs = clone.Attrs
	for _, c := range clone.Children {
		n.Children = append(n.Children, nodeFromChild(c))
	}
	return n
}

// nodeFromChild builds a tree node from a persisted inline child.
func nodeFromChild(c block.Child) *Node {
	if c.IsSpan() {
		return &Node{
			Kind:  KindSpan,
			Key:   c.Key,
			Type:  c.Type,
			Text:  c.Text,
			Marks: c.Marks,
			Attrs: c.Attrs,
		}
	}
	return &Node{
		Kind:  KindInlineObject,
		Key:   c.Key,
		Type:  c.Type,
		Attrs: c.Attrs,
	}
}

// ToBlock converts the node back into a persisted record. The result
// shares no state with the node.
func (n *Node) ToBlock() block.Block {
	return n.toBlock()
}

// toBlock converts the node back into a persisted record.
func (n *Node) toBlock() block.Block {
	b := block.Block{
		Key:      n.Key,
		Type:     n.Type,
		Style:    n.Style,
		ListItem: n.ListItem,
		Level:    n.Level,
	}
	if n.Kind == KindContentBlock {
		for _, d := range n.MarkDefs {
			b.MarkDefs = append(b.MarkDefs, d.Clone())
		}
		for _, c := range n.Children {
			b.Children = append(b.Children, c.toChild())
		}
	}
	if n.Attrs != nil {
		b.Attrs = make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			b.Attrs[k] = v
		}
	}
	return b
}

// toChild converts an inline node back into a persisted child.
func (n *Node) toChild() block.Child {
	c := block.Child{
		Key:  n.Key,
		Type: n.Type,
		Text: n.Text,
	}
	if n.Kind == KindSpan {
		c.Marks = append([]string(nil), n.Marks...)
	}
	if n.Attrs != nil {
		c.Attrs = make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			c.Attrs[k] = v
		}
	}
	return c
}
