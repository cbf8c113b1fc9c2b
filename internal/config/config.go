// Package config holds the editing surface configuration: history
// depth, hotkey overrides, and the schema file location. Configuration
// is TOML on disk, with live reload via the fsnotify watcher.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/crazyrex/sanity/internal/history"
	"github.com/crazyrex/sanity/internal/key"
)

// Config is the full surface configuration.
type Config struct {
	// SchemaPath points to a schema file (TOML or YAML). Empty uses the
	// stock schema.
	SchemaPath string `toml:"schema"`

	History HistoryConfig `toml:"history"`
	Hotkeys HotkeyConfig  `toml:"hotkeys"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	// MaxEntries caps retained undo snapshots.
	MaxEntries int `toml:"max_entries"`
}

// HotkeyConfig carries combo overrides, all in spec form ("Mod+B").
type HotkeyConfig struct {
	// Fullscreen toggles the fullscreen state of the surface.
	Fullscreen string `toml:"fullscreen"`

	// SoftBreak inserts a line break without splitting the block.
	SoftBreak string `toml:"soft_break"`

	// Decorators overrides decorator hotkeys by mark name.
	Decorators map[string]string `toml:"decorators"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{MaxEntries: history.DefaultMaxEntries},
		Hotkeys: HotkeyConfig{
			Fullscreen: "Mod+Enter",
			SoftBreak:  "Shift+Enter",
		},
	}
}

// Parse decodes TOML configuration over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a TOML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks combo specs and bounds.
func (c Config) Validate() error {
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("%w: history.max_entries %d", ErrInvalidValue, c.History.MaxEntries)
	}
	for name, spec := range map[string]string{
		"hotkeys.fullscreen": c.Hotkeys.Fullscreen,
		"hotkeys.soft_break": c.Hotkeys.SoftBreak,
	} {
		if spec == "" {
			continue
		}
		if _, err := key.Parse(spec); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidCombo, name, err)
		}
	}
	for mark, spec := range c.Hotkeys.Decorators {
		if _, err := key.Parse(spec); err != nil {
			return fmt.Errorf("%w: hotkeys.decorators.%s: %v", ErrInvalidCombo, mark, err)
		}
	}
	return nil
}

// FullscreenCombo returns the parsed fullscreen combo, falling back to
// the default when unset.
func (c Config) FullscreenCombo() key.Combo {
	return comboOr(c.Hotkeys.Fullscreen, "Mod+Enter")
}

// SoftBreakCombo returns the parsed soft-break combo.
func (c Config) SoftBreakCombo() key.Combo {
	return comboOr(c.Hotkeys.SoftBreak, "Shift+Enter")
}

func comboOr(spec, def string) key.Combo {
	if spec == "" {
		return key.MustParse(def)
	}
	combo, err := key.Parse(spec)
	if err != nil {
		return key.MustParse(def)
	}
	return combo
}
