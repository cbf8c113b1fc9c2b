package patch

import (
	"errors"
	"fmt"

	"github.com/crazyrex/sanity/internal/block"
)

// Applier errors.
var (
	// ErrTargetNotFound indicates a patch path addressing no block in the
	// sequence.
	ErrTargetNotFound = errors.New("patch: target block not found")

	// ErrInvalidPatch indicates a structurally invalid patch.
	ErrInvalidPatch = errors.New("patch: invalid patch")
)

// Apply applies patches in order to a block sequence and returns the new
// sequence. The input is never mutated. Patch paths address top-level
// blocks by key.
func Apply(blocks []block.Block, patches ...Patch) ([]block.Block, error) {
	out := block.CloneAll(blocks)
	if out == nil {
		out = []block.Block{}
	}

	for _, p := range patches {
		var err error
		out, err = applyOne(out, p)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func applyOne(blocks []block.Block, p Patch) ([]block.Block, error) {
	switch p.Kind {
	case KindSet:
		if p.Value == nil || !p.Path.IsSingleKey() {
			return nil, fmt.Errorf("%w: set needs a block value and a block path", ErrInvalidPatch)
		}
		i := block.FindByKey(blocks, p.Path.BlockKey())
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, p.Path)
		}
		blocks[i] = p.Value.Clone()
		return blocks, nil

	case KindSetIfMissing:
		if p.Value == nil || !p.Path.IsSingleKey() {
			return nil, fmt.Errorf("%w: setIfMissing needs a block value and a block path", ErrInvalidPatch)
		}
		if block.FindByKey(blocks, p.Path.BlockKey()) >= 0 {
			return blocks, nil
		}
		return append(blocks, p.Value.Clone()), nil

	case KindInsert:
		items := block.CloneAll(p.Items)
		if len(p.Path) == 0 {
			if p.Position == Before {
				return append(items, blocks...), nil
			}
			return append(blocks, items...), nil
		}
		if !p.Path.IsSingleKey() {
			return nil, fmt.Errorf("%w: insert path must address a block", ErrInvalidPatch)
		}
		i := block.FindByKey(blocks, p.Path.BlockKey())
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, p.Path)
		}
		at := i
		if p.Position == After {
			at = i + 1
		}
		return append(blocks[:at], append(items, blocks[at:]...)...), nil

	case KindUnset:
		if !p.Path.IsSingleKey() {
			return nil, fmt.Errorf("%w: unset path must address a block", ErrInvalidPatch)
		}
		i := block.FindByKey(blocks, p.Path.BlockKey())
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, p.Path)
		}
		return append(blocks[:i], blocks[i+1:]...), nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidPatch, p.Kind)
	}
}
