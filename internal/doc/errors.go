package doc

import "errors"

// Editing errors.
var (
	// ErrNoSelection indicates an edit was attempted without an active
	// selection.
	ErrNoSelection = errors.New("doc: no active selection")

	// ErrNotContentBlock indicates an edit targeting a void object block.
	ErrNotContentBlock = errors.New("doc: focused block is not a content block")

	// ErrNotSpan indicates a text edit targeting a non-span child.
	ErrNotSpan = errors.New("doc: focused child is not a span")

	// ErrBlockNotFound indicates a referenced block key is not in the tree.
	ErrBlockNotFound = errors.New("doc: block not found")

	// ErrCrossBlock indicates a selection spanning multiple blocks where a
	// single-block selection is required.
	ErrCrossBlock = errors.New("doc: selection spans multiple blocks")
)
