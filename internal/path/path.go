// Package path provides value-addressed paths into a block sequence.
//
// A path is an ordered list of segments. A segment is either a key
// reference, matching the element with that _key inside a keyed sequence,
// or a field-name literal such as "children" or "markDefs". Paths address
// blocks, inline children, and annotations uniformly and compare by value.
package path

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field names that may appear as path segments.
const (
	// FieldChildren descends into a content block's inline children.
	FieldChildren = "children"

	// FieldMarkDefs descends into a content block's annotation records.
	FieldMarkDefs = "markDefs"
)

// Segment is one step of a path: a key reference or a field literal.
// Exactly one of Key and Field is set.
type Segment struct {
	Key   string
	Field string
}

// Key returns a key-reference segment.
func Key(k string) Segment {
	return Segment{Key: k}
}

// Field returns a field-literal segment.
func Field(name string) Segment {
	return Segment{Field: name}
}

// IsKey reports whether the segment is a key reference.
func (s Segment) IsKey() bool {
	return s.Key != ""
}

// String returns the segment in persisted path syntax.
func (s Segment) String() string {
	if s.IsKey() {
		return fmt.Sprintf("[_key==%q]", s.Key)
	}
	return s.Field
}

// MarshalJSON writes key segments as {"_key": k} objects and field
// segments as plain strings, the form the patch sink consumes.
func (s Segment) MarshalJSON() ([]byte, error) {
	if s.IsKey() {
		return json.Marshal(map[string]string{"_key": s.Key})
	}
	return json.Marshal(s.Field)
}

// UnmarshalJSON reads the wire segment form.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var field string
	if err := json.Unmarshal(data, &field); err == nil {
		*s = Segment{Field: field}
		return nil
	}
	var ref struct {
		Key string `json:"_key"`
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("path: invalid segment: %w", err)
	}
	if ref.Key == "" {
		return fmt.Errorf("path: segment object without _key")
	}
	*s = Segment{Key: ref.Key}
	return nil
}

// Path addresses a block, an inline child, or an annotation.
type Path []Segment

// Block returns the path of a top-level block.
func Block(key string) Path {
	return Path{Key(key)}
}

// Child returns the path of an inline child inside a block.
func Child(blockKey, childKey string) Path {
	return Path{Key(blockKey), Field(FieldChildren), Key(childKey)}
}

// Annotation returns the path of an annotation record inside a block.
func Annotation(blockKey, defKey string) Path {
	return Path{Key(blockKey), Field(FieldMarkDefs), Key(defKey)}
}

// Equal reports whether two paths address the same entity. Comparison is
// by segment value, never by slice identity.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// IsSingleKey reports whether the path is exactly one key reference,
// i.e. it addresses a top-level block.
func (p Path) IsSingleKey() bool {
	return len(p) == 1 && p[0].IsKey()
}

// IsChild reports whether the path addresses an inline child.
func (p Path) IsChild() bool {
	return len(p) == 3 && p[0].IsKey() && p[1].Field == FieldChildren && p[2].IsKey()
}

// IsAnnotation reports whether the path addresses an annotation record.
func (p Path) IsAnnotation() bool {
	return len(p) == 3 && p[0].IsKey() && p[1].Field == FieldMarkDefs && p[2].IsKey()
}

// BlockKey returns the key of the addressed top-level block, or "".
func (p Path) BlockKey() string {
	if len(p) == 0 || !p[0].IsKey() {
		return ""
	}
	return p[0].Key
}

// String returns the path in persisted path syntax, e.g.
// [_key=="b1"].children[_key=="c2"].
func (p Path) String() string {
	var sb strings.Builder
	for i, s := range p {
		if i > 0 && !s.IsKey() {
			sb.WriteByte('.')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(nil), p...)
}
