package doc

import (
	"unicode"

	"github.com/crazyrex/sanity/internal/block"
)

// Editing operations. All operate at the current selection and keep the
// selection consistent with the mutated tree. Offsets are rune offsets;
// inline objects count as a single position.

// InsertText inserts text at the selection focus. A non-collapsed
// selection is deleted first.
func (d *Document) InsertText(s string) error {
	n, err := d.focusedContent()
	if err != nil {
		return err
	}
	if !d.sel.IsCollapsed() {
		if err := d.DeleteSelection(); err != nil {
			return err
		}
		n, err = d.focusedContent()
		if err != nil {
			return err
		}
	}

	child := n.Child(d.sel.Focus.ChildKey)
	if child == nil {
		// Caret at block level: land in the span at the focus offset.
		d.Select(pointAt(n, absOf(n, d.sel.Focus)))
		child = n.Child(d.sel.Focus.ChildKey)
	}
	if child == nil || child.Kind != KindSpan {
		return ErrNotSpan
	}

	runes := []rune(child.Text)
	off := clamp(d.sel.Focus.Offset, 0, len(runes))
	child.Text = string(runes[:off]) + s + string(runes[off:])

	p := d.sel.Focus
	p.Offset = off + len([]rune(s))
	d.Select(p)
	return nil
}

// SoftBreak inserts a line break inside the current block without
// splitting it.
func (d *Document) SoftBreak() error {
	return d.InsertText("\n")
}

// DeleteSelection removes the selected range. The selection must be within
// a single block. The result is a collapsed selection at the range start.
func (d *Document) DeleteSelection() error {
	n, err := d.focusedContent()
	if err != nil {
		return err
	}
	if !d.sel.SingleBlock() {
		return ErrCrossBlock
	}
	if d.sel.IsCollapsed() {
		return nil
	}

	start, end := d.sel.ordered(n)
	sAbs, eAbs := absOf(n, start), absOf(n, end)
	i := splitAt(n, sAbs)
	j := splitAt(n, eAbs)
	n.Children = append(n.Children[:i], n.Children[j:]...)
	d.ensureSpan(n)
	d.Select(pointAt(n, sAbs))
	return nil
}

// DeleteBackward deletes the rune before the focus, or the selected range.
// At the start of a content block it merges the block into the preceding
// content block.
func (d *Document) DeleteBackward() error {
	n, err := d.focusedContent()
	if err != nil {
		return err
	}
	if !d.sel.IsCollapsed() {
		return d.DeleteSelection()
	}

	abs := absOf(n, d.sel.Focus)
	if abs > 0 {
		i := splitAt(n, abs-1)
		j := splitAt(n, abs)
		n.Children = append(n.Children[:i], n.Children[j:]...)
		d.ensureSpan(n)
		d.Select(pointAt(n, abs-1))
		return nil
	}

	// At block start: merge into the previous content block.
	idx := d.blockIndex(n.Key)
	if idx <= 0 {
		return nil
	}
	prev := d.blocks[idx-1]
	if prev.Kind != KindContentBlock {
		return nil
	}
	junction := blockLen(prev)
	prev.Children = append(prev.Children, n.Children...)
	prev.MarkDefs = append(prev.MarkDefs, n.MarkDefs...)
	d.blocks = append(d.blocks[:idx], d.blocks[idx+1:]...)
	mergeSpans(prev)
	d.Select(pointAt(prev, junction))
	return nil
}

// SplitBlock splits the focused content block at the focus point. The new
// block inherits type, style, and list attributes, and receives the
// children at and after the split point. Returns the new block node; the
// selection moves to its start.
func (d *Document) SplitBlock() (*Node, error) {
	n, err := d.focusedContent()
	if err != nil {
		return nil, err
	}
	if !d.sel.IsCollapsed() {
		if err := d.DeleteSelection(); err != nil {
			return nil, err
		}
	}

	i := splitAt(n, absOf(n, d.sel.Focus))
	next := &Node{
		Kind:     KindContentBlock,
		Key:      block.NewKey(),
		Type:     n.Type,
		Style:    n.Style,
		ListItem: n.ListItem,
		Level:    n.Level,
		Children: append([]*Node(nil), n.Children[i:]...),
	}
	for _, md := range n.MarkDefs {
		next.MarkDefs = append(next.MarkDefs, md.Clone())
	}
	n.Children = n.Children[:i:i]
	d.ensureSpan(n)
	d.ensureSpan(next)

	idx := d.blockIndex(n.Key)
	d.blocks = append(d.blocks[:idx+1], append([]*Node{next}, d.blocks[idx+1:]...)...)
	d.Select(pointAt(next, 0))
	return next, nil
}

// InsertBlockAfter inserts a block after the block with the given key.
// An empty afterKey appends at the end. The selection moves to the start
// of the inserted block. Returns the inserted node.
func (d *Document) InsertBlockAfter(b block.Block, afterKey string) (*Node, error) {
	n := nodeFromBlock(b)
	if n.Kind == KindContentBlock {
		d.ensureSpan(n)
	}

	if afterKey == "" {
		d.blocks = append(d.blocks, n)
	} else {
		idx := d.blockIndex(afterKey)
		if idx < 0 {
			return nil, ErrBlockNotFound
		}
		d.blocks = append(d.blocks[:idx+1], append([]*Node{n}, d.blocks[idx+1:]...)...)
	}
	d.SelectBlockStart(n.Key)
	return n, nil
}

// RemoveBlock removes the block with the given key.
func (d *Document) RemoveBlock(key string) error {
	idx := d.blockIndex(key)
	if idx < 0 {
		return ErrBlockNotFound
	}
	d.blocks = append(d.blocks[:idx], d.blocks[idx+1:]...)
	if d.sel.Active && d.sel.Focus.BlockKey == key {
		d.sel = Selection{}
	}
	return nil
}

// InsertInline inserts an inline object at the focus point, splitting the
// containing span if needed. The selection moves past the object.
func (d *Document) InsertInline(c block.Child) error {
	n, err := d.focusedContent()
	if err != nil {
		return err
	}
	abs := absOf(n, d.sel.Focus)
	i := splitAt(n, abs)
	obj := nodeFromChild(c)
	obj.Kind = KindInlineObject
	n.Children = append(n.Children[:i], append([]*Node{obj}, n.Children[i:]...)...)
	d.Select(pointAt(n, abs+1))
	return nil
}

// ToggleMark toggles a decorator mark over the selection. A collapsed
// selection toggles the span containing the focus. If every covered span
// already carries the mark it is removed from all of them, otherwise it is
// added to the ones missing it.
func (d *Document) ToggleMark(name string) error {
	n, spans, restore, err := d.coveredSpans()
	if err != nil {
		return err
	}
	if len(spans) == 0 {
		return nil
	}

	all := true
	for _, s := range spans {
		if !s.HasMark(name) {
			all = false
			break
		}
	}
	for _, s := range spans {
		if all {
			s.Marks = removeString(s.Marks, name)
		} else if !s.HasMark(name) {
			s.Marks = append(s.Marks, name)
		}
	}
	mergeSpans(n)
	restore()
	return nil
}

// ToggleAnnotation toggles an annotation over the selection. When no
// covered span references an annotation of def's type, def is added to the
// block's markDefs and referenced from every covered span, and applied is
// true. Otherwise the existing references are removed, unreferenced defs
// of that type are dropped, and applied is false.
func (d *Document) ToggleAnnotation(def block.MarkDef) (applied bool, err error) {
	n, spans, restore, err := d.coveredSpans()
	if err != nil {
		return false, err
	}
	if len(spans) == 0 {
		return false, nil
	}

	// Present when any covered span references a def of this type.
	var presentKeys []string
	for _, s := range spans {
		for _, m := range s.Marks {
			if md, ok := n.MarkDef(m); ok && md.Type == def.Type {
				presentKeys = append(presentKeys, m)
			}
		}
	}

	if len(presentKeys) > 0 {
		for _, s := range spans {
			for _, k := range presentKeys {
				s.Marks = removeString(s.Marks, k)
			}
		}
		d.dropUnreferencedDefs(n, def.Type)
		mergeSpans(n)
		restore()
		return false, nil
	}

	if def.Key == "" {
		def.Key = block.NewKey()
	}
	n.MarkDefs = append(n.MarkDefs, def)
	for _, s := range spans {
		if !s.HasMark(def.Key) {
			s.Marks = append(s.Marks, def.Key)
		}
	}
	restore()
	return true, nil
}

// SetStyle sets the text style of the focused content block.
func (d *Document) SetStyle(style string) error {
	n, err := d.focusedContent()
	if err != nil {
		return err
	}
	n.Style = style
	return nil
}

// ToggleList toggles list membership of the focused content block for the
// given list kind.
func (d *Document) ToggleList(kind string) error {
	n, err := d.focusedContent()
	if err != nil {
		return err
	}
	if n.ListItem == kind {
		n.ListItem = ""
		n.Level = 0
		return nil
	}
	n.ListItem = kind
	if n.Level < 1 {
		n.Level = 1
	}
	return nil
}

// maxListLevel bounds list nesting.
const maxListLevel = 10

// IndentList changes the list nesting level of the focused list item by
// delta. Non-list blocks are left untouched.
func (d *Document) IndentList(delta int) error {
	n, err := d.focusedContent()
	if err != nil {
		return err
	}
	if n.ListItem == "" {
		return nil
	}
	n.Level = clamp(n.Level+delta, 1, maxListLevel)
	return nil
}

// ExpandWord expands a collapsed selection to the word around the focus
// within its span. Non-collapsed selections are left untouched.
func (d *Document) ExpandWord() error {
	n, err := d.focusedContent()
	if err != nil {
		return err
	}
	if !d.sel.IsCollapsed() {
		return nil
	}
	child := n.Child(d.sel.Focus.ChildKey)
	if child == nil || child.Kind != KindSpan {
		return ErrNotSpan
	}

	runes := []rune(child.Text)
	off := clamp(d.sel.Focus.Offset, 0, len(runes))
	start, end := off, off
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	for end < len(runes) && !unicode.IsSpace(runes[end]) {
		end++
	}
	if start == end {
		return nil
	}
	d.SetSelection(Selection{
		Anchor: Point{BlockKey: n.Key, ChildKey: child.Key, Offset: start},
		Focus:  Point{BlockKey: n.Key, ChildKey: child.Key, Offset: end},
		Active: true,
	})
	return nil
}

// WrapSpan isolates the selected range into dedicated spans, splitting at
// the range boundaries, and returns the keys of the covered spans.
func (d *Document) WrapSpan() ([]string, error) {
	_, spans, restore, err := d.coveredSpans()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(spans))
	for _, s := range spans {
		keys = append(keys, s.Key)
	}
	restore()
	return keys, nil
}

// focusedContent returns the focused block when it is a content block.
func (d *Document) focusedContent() (*Node, error) {
	n := d.FocusedBlock()
	if n == nil {
		return nil, ErrNoSelection
	}
	if n.Kind != KindContentBlock {
		return nil, ErrNotContentBlock
	}
	return n, nil
}

// coveredSpans splits the block's children at the selection boundaries and
// returns the covered span nodes plus a restore func that re-selects the
// same absolute range after the mutation.
func (d *Document) coveredSpans() (*Node, []*Node, func(), error) {
	n, err := d.focusedContent()
	if err != nil {
		return nil, nil, nil, err
	}
	if !d.sel.SingleBlock() {
		return nil, nil, nil, ErrCrossBlock
	}

	var sAbs, eAbs int
	if d.sel.IsCollapsed() {
		// Cover the whole span under the focus.
		child := n.Child(d.sel.Focus.ChildKey)
		if child == nil || child.Kind != KindSpan {
			return nil, nil, nil, ErrNotSpan
		}
		base := absOf(n, Point{BlockKey: n.Key, ChildKey: child.Key})
		sAbs, eAbs = base, base+childLen(child)
	} else {
		start, end := d.sel.ordered(n)
		sAbs, eAbs = absOf(n, start), absOf(n, end)
	}

	i := splitAt(n, sAbs)
	j := splitAt(n, eAbs)
	var spans []*Node
	for _, c := range n.Children[i:j] {
		if c.Kind == KindSpan {
			spans = append(spans, c)
		}
	}
	restore := func() {
		d.SetSelection(Selection{
			Anchor: pointAt(n, sAbs),
			Focus:  pointAt(n, eAbs),
			Active: true,
		})
	}
	return n, spans, restore, nil
}

// dropUnreferencedDefs removes markDefs of the given type that no span in
// the block references anymore.
func (d *Document) dropUnreferencedDefs(n *Node, defType string) {
	kept := n.MarkDefs[:0]
	for _, md := range n.MarkDefs {
		if md.Type != defType {
			kept = append(kept, md)
			continue
		}
		referenced := false
		for _, c := range n.Children {
			if c.Kind == KindSpan && c.HasMark(md.Key) {
				referenced = true
				break
			}
		}
		if referenced {
			kept = append(kept, md)
		}
	}
	n.MarkDefs = kept
}

// ensureSpan makes sure a content block has at least one span child.
func (d *Document) ensureSpan(n *Node) {
	for _, c := range n.Children {
		if c.Kind == KindSpan {
			return
		}
	}
	n.Children = append(n.Children, &Node{
		Kind: KindSpan,
		Key:  block.NewKey(),
		Type: block.TypeSpan,
	})
}

// childLen returns the selection length of a child: rune count for spans,
// one position for inline objects.
func childLen(c *Node) int {
	if c.Kind == KindSpan {
		return len([]rune(c.Text))
	}
	return 1
}

// blockLen returns the total selection length of the block.
func blockLen(n *Node) int {
	total := 0
	for _, c := range n.Children {
		total += childLen(c)
	}
	return total
}

// absOf converts a point to an absolute offset within the block.
func absOf(n *Node, p Point) int {
	if p.ChildKey == "" {
		return 0
	}
	abs := 0
	for _, c := range n.Children {
		if c.Key == p.ChildKey {
			return abs + clamp(p.Offset, 0, childLen(c))
		}
		abs += childLen(c)
	}
	return abs
}

// pointAt converts an absolute offset back to a point, preferring span
// interiors over boundaries of void children.
func pointAt(n *Node, abs int) Point {
	abs = clamp(abs, 0, blockLen(n))
	run := 0
	var lastSpan *Node
	lastSpanStart := 0
	for _, c := range n.Children {
		l := childLen(c)
		if c.Kind == KindSpan {
			if abs <= run+l {
				return Point{BlockKey: n.Key, ChildKey: c.Key, Offset: abs - run}
			}
			lastSpan = c
			lastSpanStart = run
		}
		run += l
	}
	if lastSpan != nil {
		return Point{BlockKey: n.Key, ChildKey: lastSpan.Key, Offset: min(abs-lastSpanStart, childLen(lastSpan))}
	}
	if len(n.Children) > 0 {
		return Point{BlockKey: n.Key, ChildKey: n.Children[0].Key}
	}
	return Point{BlockKey: n.Key}
}

// splitAt splits the child containing abs so that a child boundary falls
// exactly at abs, and returns the index of the child starting there.
func splitAt(n *Node, abs int) int {
	run := 0
	for i, c := range n.Children {
		l := childLen(c)
		if abs <= run {
			return i
		}
		if abs < run+l {
			if c.Kind != KindSpan {
				// Void children cannot be split; snap to their start.
				return i
			}
			runes := []rune(c.Text)
			left := string(runes[:abs-run])
			right := string(runes[abs-run:])
			c.Text = left
			next := &Node{
				Kind:  KindSpan,
				Key:   block.NewKey(),
				Type:  block.TypeSpan,
				Text:  right,
				Marks: append([]string(nil), c.Marks...),
			}
			n.Children = append(n.Children[:i+1], append([]*Node{next}, n.Children[i+1:]...)...)
			return i + 1
		}
		run += l
	}
	return len(n.Children)
}

// mergeSpans merges adjacent spans carrying identical mark sets.
func mergeSpans(n *Node) {
	if len(n.Children) < 2 {
		return
	}
	out := n.Children[:1]
	for _, c := range n.Children[1:] {
		prev := out[len(out)-1]
		if prev.Kind == KindSpan && c.Kind == KindSpan && sameMarks(prev.Marks, c.Marks) {
			prev.Text += c.Text
			continue
		}
		out = append(out, c)
	}
	n.Children = out
}

// sameMarks compares mark sets ignoring order.
func sameMarks(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, m := range a {
		found := false
		for _, o := range b {
			if m == o {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
