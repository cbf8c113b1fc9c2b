package config

import "errors"

var (
	// ErrInvalidCombo indicates a hotkey spec that does not parse.
	ErrInvalidCombo = errors.New("config: invalid key combo")

	// ErrInvalidValue indicates an out-of-range configuration value.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrWatcherClosed indicates use of a closed watcher.
	ErrWatcherClosed = errors.New("config: watcher closed")
)
