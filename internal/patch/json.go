package patch

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ApplyJSON applies patches to a raw JSON array of blocks, for consumers
// that persist the document as JSON without decoding it. The input is not
// modified; the patched document is returned.
func ApplyJSON(docJSON []byte, patches ...Patch) ([]byte, error) {
	if !gjson.ValidBytes(docJSON) {
		return nil, fmt.Errorf("%w: document is not valid JSON", ErrInvalidPatch)
	}

	out := docJSON
	for _, p := range patches {
		var err error
		out, err = applyOneJSON(out, p)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func applyOneJSON(docJSON []byte, p Patch) ([]byte, error) {
	switch p.Kind {
	case KindSet:
		if p.Value == nil || !p.Path.IsSingleKey() {
			return nil, fmt.Errorf("%w: set needs a block value and a block path", ErrInvalidPatch)
		}
		i := indexOfKey(docJSON, p.Path.BlockKey())
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, p.Path)
		}
		raw, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("patch: encode value: %w", err)
		}
		return sjson.SetRawBytes(docJSON, fmt.Sprintf("%d", i), raw)

	case KindSetIfMissing:
		if p.Value == nil || !p.Path.IsSingleKey() {
			return nil, fmt.Errorf("%w: setIfMissing needs a block value and a block path", ErrInvalidPatch)
		}
		if indexOfKey(docJSON, p.Path.BlockKey()) >= 0 {
			return docJSON, nil
		}
		raw, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("patch: encode value: %w", err)
		}
		return sjson.SetRawBytes(docJSON, "-1", raw)

	case KindInsert:
		at := 0
		if len(p.Path) == 0 {
			if p.Position == After {
				at = int(gjson.GetBytes(docJSON, "#").Int())
			}
		} else {
			if !p.Path.IsSingleKey() {
				return nil, fmt.Errorf("%w: insert path must address a block", ErrInvalidPatch)
			}
			i := indexOfKey(docJSON, p.Path.BlockKey())
			if i < 0 {
				return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, p.Path)
			}
			at = i
			if p.Position == After {
				at = i + 1
			}
		}
		return spliceJSON(docJSON, at, p.Items)

	case KindUnset:
		if !p.Path.IsSingleKey() {
			return nil, fmt.Errorf("%w: unset path must address a block", ErrInvalidPatch)
		}
		i := indexOfKey(docJSON, p.Path.BlockKey())
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, p.Path)
		}
		return sjson.DeleteBytes(docJSON, fmt.Sprintf("%d", i))

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidPatch, p.Kind)
	}
}

// indexOfKey returns the array index of the block with the given _key.
func indexOfKey(docJSON []byte, key string) int {
	idx := -1
	gjson.ParseBytes(docJSON).ForEach(func(i, v gjson.Result) bool {
		if v.Get("_key").String() == key {
			idx = int(i.Int())
			return false
		}
		return true
	})
	return idx
}

// spliceJSON inserts items at the given array index.
func spliceJSON(docJSON []byte, at int, items any) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("patch: encode items: %w", err)
	}
	itemsParsed := gjson.ParseBytes(raw).Array()

	existing := gjson.ParseBytes(docJSON).Array()
	if at < 0 {
		at = 0
	}
	if at > len(existing) {
		at = len(existing)
	}

	out := []byte("[]")
	pos := 0
	appendRaw := func(r gjson.Result) error {
		var e error
		out, e = sjson.SetRawBytes(out, fmt.Sprintf("%d", pos), []byte(r.Raw))
		pos++
		return e
	}
	for i, v := range existing {
		if i == at {
			for _, it := range itemsParsed {
				if err := appendRaw(it); err != nil {
					return nil, err
				}
			}
		}
		if err := appendRaw(v); err != nil {
			return nil, err
		}
	}
	if at >= len(existing) {
		for _, it := range itemsParsed {
			if err := appendRaw(it); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
