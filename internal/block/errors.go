package block

import "errors"

// Model errors.
var (
	// ErrMissingKey indicates a persisted record without a _key field.
	ErrMissingKey = errors.New("block: missing _key")

	// ErrMissingType indicates a persisted record without a _type field.
	ErrMissingType = errors.New("block: missing _type")
)
