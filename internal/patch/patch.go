// Package patch defines the mutation operations the editing surface emits
// against the persisted block sequence, and appliers for consumers that
// hold the sequence as Go values or as raw JSON.
//
// The surface itself never mutates the persisted sequence; it only emits
// patches to the configured sink.
package patch

import (
	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/path"
)

// Kind is the patch operation type.
type Kind string

const (
	// KindSet replaces the value at the path.
	KindSet Kind = "set"

	// KindSetIfMissing sets the value only when the path is absent.
	KindSetIfMissing Kind = "setIfMissing"

	// KindInsert inserts items before or after the path.
	KindInsert Kind = "insert"

	// KindUnset removes the value at the path.
	KindUnset Kind = "unset"
)

// Position specifies where KindInsert places its items relative to Path.
type Position string

const (
	// Before inserts items before the addressed element.
	Before Position = "before"

	// After inserts items after the addressed element.
	After Position = "after"
)

// Patch is one mutation of the persisted block sequence.
type Patch struct {
	Kind     Kind          `json:"type"`
	Path     path.Path     `json:"path"`
	Value    *block.Block  `json:"value,omitempty"`
	Items    []block.Block `json:"items,omitempty"`
	Position Position      `json:"position,omitempty"`
}

// Set returns a patch replacing the block at p.
func Set(p path.Path, b block.Block) Patch {
	return Patch{Kind: KindSet, Path: p, Value: &b}
}

// SetIfMissing returns a patch setting the block at p when absent.
func SetIfMissing(p path.Path, b block.Block) Patch {
	return Patch{Kind: KindSetIfMissing, Path: p, Value: &b}
}

// Insert returns a patch inserting items at pos relative to p. An empty
// path inserts at the sequence start (Before) or end (After).
func Insert(items []block.Block, pos Position, p path.Path) Patch {
	return Patch{Kind: KindInsert, Path: p, Items: items, Position: pos}
}

// InsertAfter returns a patch inserting items after p.
func InsertAfter(p path.Path, items ...block.Block) Patch {
	return Insert(items, After, p)
}

// Unset returns a patch removing the block at p.
func Unset(p path.Path) Patch {
	return Patch{Kind: KindUnset, Path: p}
}
