package block

import (
	"encoding/json"
	"fmt"
)

// Persisted field names.
const (
	fieldKey      = "_key"
	fieldType     = "_type"
	fieldStyle    = "style"
	fieldListItem = "listItem"
	fieldLevel    = "level"
	fieldChildren = "children"
	fieldMarkDefs = "markDefs"
	fieldText     = "text"
	fieldMarks    = "marks"
)

// MarshalJSON writes the block in its persisted form: modeled fields under
// their wire names, Attrs flattened into the same object.
func (b Block) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(b.Attrs)+7)
	for k, v := range b.Attrs {
		m[k] = v
	}
	m[fieldKey] = b.Key
	m[fieldType] = b.Type
	if b.IsContent() {
		if b.Style != "" {
			m[fieldStyle] = b.Style
		}
		if b.ListItem != "" {
			m[fieldListItem] = b.ListItem
		}
		if b.Level > 0 {
			m[fieldLevel] = b.Level
		}
		children := b.Children
		if children == nil {
			children = []Child{}
		}
		m[fieldChildren] = children
		markDefs := b.MarkDefs
		if markDefs == nil {
			markDefs = []MarkDef{}
		}
		m[fieldMarkDefs] = markDefs
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the persisted form, keeping unmodeled fields in Attrs.
func (b *Block) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("block: %w", err)
	}

	*b = Block{}
	for k, raw := range m {
		switch k {
		case fieldKey:
			if err := json.Unmarshal(raw, &b.Key); err != nil {
				return fmt.Errorf("block: _key: %w", err)
			}
		case fieldType:
			if err := json.Unmarshal(raw, &b.Type); err != nil {
				return fmt.Errorf("block: _type: %w", err)
			}
		case fieldStyle:
			if err := json.Unmarshal(raw, &b.Style); err != nil {
				return fmt.Errorf("block: style: %w", err)
			}
		case fieldListItem:
			if err := json.Unmarshal(raw, &b.ListItem); err != nil {
				return fmt.Errorf("block: listItem: %w", err)
			}
		case fieldLevel:
			if err := json.Unmarshal(raw, &b.Level); err != nil {
				return fmt.Errorf("block: level: %w", err)
			}
		case fieldChildren:
			if err := json.Unmarshal(raw, &b.Children); err != nil {
				return fmt.Errorf("block: children: %w", err)
			}
		case fieldMarkDefs:
			if err := json.Unmarshal(raw, &b.MarkDefs); err != nil {
				return fmt.Errorf("block: markDefs: %w", err)
			}
		default:
			if b.Attrs == nil {
				b.Attrs = make(map[string]any)
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("block: %s: %w", k, err)
			}
			b.Attrs[k] = v
		}
	}

	if b.Key == "" {
		return ErrMissingKey
	}
	if b.Type == "" {
		return ErrMissingType
	}
	return nil
}

// MarshalJSON writes the child in its persisted form.
func (c Child) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Attrs)+4)
	for k, v := range c.Attrs {
		m[k] = v
	}
	m[fieldKey] = c.Key
	m[fieldType] = c.Type
	if c.IsSpan() {
		m[fieldText] = c.Text
		marks := c.Marks
		if marks == nil {
			marks = []string{}
		}
		m[fieldMarks] = marks
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the persisted child form.
func (c *Child) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("block: child: %w", err)
	}

	*c = Child{}
	for k, raw := range m {
		switch k {
		case fieldKey:
			if err := json.Unmarshal(raw, &c.Key); err != nil {
				return fmt.Errorf("block: child _key: %w", err)
			}
		case fieldType:
			if err := json.Unmarshal(raw, &c.Type); err != nil {
				return fmt.Errorf("block: child _type: %w", err)
			}
		case fieldText:
			if err := json.Unmarshal(raw, &c.Text); err != nil {
				return fmt.Errorf("block: child text: %w", err)
			}
		case fieldMarks:
			if err := json.Unmarshal(raw, &c.Marks); err != nil {
				return fmt.Errorf("block: child marks: %w", err)
			}
		default:
			if c.Attrs == nil {
				c.Attrs = make(map[string]any)
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("block: child %s: %w", k, err)
			}
			c.Attrs[k] = v
		}
	}

	if c.Key == "" {
		return ErrMissingKey
	}
	if c.Type == "" {
		return ErrMissingType
	}
	return nil
}

// MarshalJSON writes the annotation record in its persisted form.
func (d MarkDef) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Attrs)+2)
	for k, v := range d.Attrs {
		m[k] = v
	}
	m[fieldKey] = d.Key
	m[fieldType] = d.Type
	return json.Marshal(m)
}

// UnmarshalJSON reads the persisted annotation form.
func (d *MarkDef) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("block: markDef: %w", err)
	}

	*d = MarkDef{}
	for k, raw := range m {
		switch k {
		case fieldKey:
			if err := json.Unmarshal(raw, &d.Key); err != nil {
				return fmt.Errorf("block: markDef _key: %w", err)
			}
		case fieldType:
			if err := json.Unmarshal(raw, &d.Type); err != nil {
				return fmt.Errorf("block: markDef _type: %w", err)
			}
		default:
			if d.Attrs == nil {
				d.Attrs = make(map[string]any)
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("block: markDef %s: %w", k, err)
			}
			d.Attrs[k] = v
		}
	}

	if d.Key == "" {
		return ErrMissingKey
	}
	if d.Type == "" {
		return ErrMissingType
	}
	return nil
}

// ParseAll decodes a JSON array of blocks.
func ParseAll(data []byte) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// MarshalAll encodes blocks as a JSON array.
func MarshalAll(blocks []Block) ([]byte, error) {
	return json.Marshal(blocks)
}
