// Package resolver translates value paths into editable-tree nodes.
//
// Resolution covers three addressing modes: a bare block key, a
// [block, "children", child] descent, and a [block, "markDefs", annotation]
// scan that finds the first span currently carrying the annotation.
// Successful child and annotation resolutions trigger a bring-into-view
// effect, deduplicated by path value so unrelated re-resolutions never
// scroll twice.
package resolver

import (
	"fmt"

	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/path"
)

// ScrollFunc brings a resolved node into view. Implementations must be
// idempotent; the resolver may still call them more than once across
// distinct path transitions.
type ScrollFunc func(n *doc.Node)

// IntegrityError reports a path whose key chain does not exist in the
// tree. It means the persisted value and the tree have diverged for that
// path; callers must surface it, not mask it.
type IntegrityError struct {
	// Path is the path that failed to resolve.
	Path path.Path
}

// Error implements error.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("resolver: dangling key reference at %s", e.Path)
}

// Resolver resolves paths against a document and owns the bring-into-view
// deduplication state. One resolver per editing surface.
type Resolver struct {
	scroll ScrollFunc
	last   path.Path
}

// New creates a resolver. scroll may be nil.
func New(scroll ScrollFunc) *Resolver {
	return &Resolver{scroll: scroll}
}

// Resolve resolves p within d.
//
// Returns the addressed node, or nil (with no error) when the path is
// empty, addresses an unknown block, or addresses an annotation no span
// currently carries. A child path whose child key is absent returns an
// IntegrityError.
//
// The bring-into-view effect fires for successful child and annotation
// resolutions, at most once per distinct path value: resolving the same
// path again is effect-free.
func (r *Resolver) Resolve(d *doc.Document, p path.Path) (*doc.Node, error) {
	if len(p) == 0 || !p[0].IsKey() {
		return nil, nil
	}

	// The dedupe state records successful resolutions only.
	changed := !p.Equal(r.last)
	n, err := r.lookup(d, p, changed)
	if err != nil {
		return nil, err
	}
	r.last = p.Clone()
	return n, nil
}

func (r *Resolver) lookup(d *doc.Document, p path.Path, changed bool) (*doc.Node, error) {
	// Fast path: the path is exactly the focused block.
	if p.IsSingleKey() {
		if focused := d.FocusedBlock(); focused != nil && focused.Key == p[0].Key {
			return focused, nil
		}
	}

	switch {
	case p.IsChild():
		n := d.BlockByKey(p.BlockKey())
		if n == nil {
			return nil, &IntegrityError{Path: p}
		}
		child := n.Child(p[2].Key)
		if child == nil {
			return nil, &IntegrityError{Path: p}
		}
		r.bringIntoView(child, changed)
		return child, nil

	case p.IsAnnotation():
		n := d.BlockByKey(p.BlockKey())
		if n == nil {
			return nil, nil
		}
		defKey := p[2].Key
		for _, c := range n.Children {
			if c.Kind == doc.KindSpan && c.HasMark(defKey) {
				if _, ok := n.MarkDef(defKey); ok {
					r.bringIntoView(c, changed)
					return c, nil
				}
			}
		}
		// Annotations may exist in markDefs with no span referencing
		// them; that is not an error.
		return nil, nil

	default:
		return d.BlockByKey(p.BlockKey()), nil
	}
}

// bringIntoView fires the scroll effect on path-value transitions only.
func (r *Resolver) bringIntoView(n *doc.Node, changed bool) {
	if changed && r.scroll != nil {
		r.scroll(n)
	}
}
