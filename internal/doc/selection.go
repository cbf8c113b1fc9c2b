package doc

// Point addresses a caret position: a block, optionally an inline child
// within it, and a rune offset into that child's text.
type Point struct {
	BlockKey string
	ChildKey string
	Offset   int
}

// Selection is the anchor/focus pair owned by the document. It is a cache
// of where the user currently is, never a source of truth.
type Selection struct {
	Anchor Point
	Focus  Point
	Active bool
}

// IsCollapsed reports whether anchor and focus are the same point.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// SingleBlock reports whether the selection starts and ends in one block.
func (s Selection) SingleBlock() bool {
	return s.Anchor.BlockKey == s.Focus.BlockKey
}

// ordered returns the selection endpoints in document order within a
// single block, given the block's child order.
func (s Selection) ordered(n *Node) (start, end Point) {
	ai := n.childIndex(s.Anchor.ChildKey)
	fi := n.childIndex(s.Focus.ChildKey)
	if ai < fi || (ai == fi && s.Anchor.Offset <= s.Focus.Offset) {
		return s.Anchor, s.Focus
	}
	return s.Focus, s.Anchor
}
