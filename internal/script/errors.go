package script

import "errors"

var (
	// ErrScript indicates a script failed to load or run.
	ErrScript = errors.New("script: execution failed")

	// ErrCommand indicates a handler returned an unusable command.
	ErrCommand = errors.New("script: bad command")
)
