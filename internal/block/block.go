package block

// Built-in type names.
const (
	// TypeBlock is the type of a text content block.
	TypeBlock = "block"

	// TypeSpan is the type of a text span child.
	TypeSpan = "span"
)

// Block is one element of the persisted structured-content sequence.
type Block struct {
	// Key is the stable unique identifier within the sequence.
	Key string

	// Type is the block type name. TypeBlock marks a text content block;
	// anything else is a custom block object.
	Type string

	// Style is the text style of a content block ("normal", "h1", ...).
	Style string

	// ListItem is the list kind ("bullet", "number") when the block is a
	// list item, empty otherwise.
	ListItem string

	// Level is the list nesting level, starting at 1. Zero when not a
	// list item.
	Level int

	// Children holds the ordered inline children of a content block.
	Children []Child

	// MarkDefs holds the block-scoped annotation records, keyed by Key.
	MarkDefs []MarkDef

	// Attrs holds custom object fields and any fields this package does
	// not model. Preserved across JSON round-trips.
	Attrs map[string]any
}

// IsContent reports whether the block is a text content block.
func (b Block) IsContent() bool {
	return b.Type == TypeBlock
}

// Child returns the child with the given key.
func (b Block) Child(key string) (Child, bool) {
	for _, c := range b.Children {
		if c.Key == key {
			return c, true
		}
	}
	return Child{}, false
}

// MarkDef returns the annotation record with the given key.
func (b Block) MarkDef(key string) (MarkDef, bool) {
	for _, d := range b.MarkDefs {
		if d.Key == key {
			return d, true
		}
	}
	return MarkDef{}, false
}

// Text returns the concatenated text of all span children.
func (b Block) Text() string {
	var s string
	for _, c := range b.Children {
		if c.IsSpan() {
			s += c.Text
		}
	}
	return s
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	if b.Children != nil {
		out.Children = make([]Child, len(b.Children))
		for i, c := range b.Children {
			out.Children[i] = c.Clone()
		}
	}
	if b.MarkDefs != nil {
		out.MarkDefs = make([]MarkDef, len(b.MarkDefs))
		for i, d := range b.MarkDefs {
			out.MarkDefs[i] = d.Clone()
		}
	}
	out.Attrs = cloneAttrs(b.Attrs)
	return out
}

// Child is an inline child of a content block: either a text span
// (Type TypeSpan) or a custom inline object.
type Child struct {
	// Key is the stable unique identifier within the parent block.
	Key string

	// Type is TypeSpan for text spans, or the inline object type name.
	Type string

	// Text is the span text. Empty for inline objects.
	Text string

	// Marks lists the active marks on a span. Each entry is either a
	// decorator name or the key of a MarkDef on the parent block.
	Marks []string

	// Attrs holds inline-object fields and unmodeled span fields.
	Attrs map[string]any
}

// IsSpan reports whether the child is a text span.
func (c Child) IsSpan() bool {
	return c.Type == TypeSpan
}

// HasMark reports whether the span carries the given mark.
func (c Child) HasMark(name string) bool {
	for _, m := range c.Marks {
		if m == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the child.
func (c Child) Clone() Child {
	out := c
	if c.Marks != nil {
		out.Marks = append([]string(nil), c.Marks...)
	}
	out.Attrs = cloneAttrs(c.Attrs)
	return out
}

// MarkDef is a block-scoped annotation record (e.g. a link) that spans
// reference by key through their mark list.
type MarkDef struct {
	// Key is the stable unique identifier within the parent block.
	Key string

	// Type is the annotation type name.
	Type string

	// Attrs holds the annotation payload.
	Attrs map[string]any
}

// Clone returns a deep copy of the annotation record.
func (d MarkDef) Clone() MarkDef {
	out := d
	out.Attrs = cloneAttrs(d.Attrs)
	return out
}

// FindByKey returns the index of the block with the given key, or -1.
func FindByKey(blocks []Block, key string) int {
	for i := range blocks {
		if blocks[i].Key == key {
			return i
		}
	}
	return -1
}

// CloneAll returns a deep copy of a block sequence.
func CloneAll(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i := range blocks {
		out[i] = blocks[i].Clone()
	}
	return out
}

func cloneAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
