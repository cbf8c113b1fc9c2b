package block_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/crazyrex/sanity/internal/block"
)

func TestNewKeyUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		k := block.NewKey()
		if len(k) != 12 {
			t.Fatalf("expected 12-char key, got %q", k)
		}
		if seen[k] {
			t.Fatalf("duplicate key %q", k)
		}
		seen[k] = true
	}
}

func TestBlockLookups(t *testing.T) {
	b := block.Block{
		Key:  "b1",
		Type: block.TypeBlock,
		Children: []block.Child{
			{Key: "c1", Type: block.TypeSpan, Text: "Hello "},
			{Key: "c2", Type: "stockTicker", Attrs: map[string]any{"symbol": "GOOG"}},
			{Key: "c3", Type: block.TypeSpan, Text: "world"},
		},
		MarkDefs: []block.MarkDef{
			{Key: "m1", Type: "link", Attrs: map[string]any{"href": "https://example.com"}},
		},
	}

	if _, ok := b.Child("c2"); !ok {
		t.Error("expected child c2")
	}
	if _, ok := b.Child("nope"); ok {
		t.Error("did not expect child nope")
	}
	if _, ok := b.MarkDef("m1"); !ok {
		t.Error("expected markDef m1")
	}
	if got := b.Text(); got != "Hello world" {
		t.Errorf("expected span text only, got %q", got)
	}
}

func TestHasMark(t *testing.T) {
	c := block.Child{Key: "c1", Type: block.TypeSpan, Marks: []string{"strong", "m1"}}

	if !c.HasMark("strong") || !c.HasMark("m1") {
		t.Error("expected marks strong and m1")
	}
	if c.HasMark("em") {
		t.Error("did not expect mark em")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := block.Block{
		Key:  "b1",
		Type: block.TypeBlock,
		Children: []block.Child{
			{Key: "c1", Type: block.TypeSpan, Text: "x", Marks: []string{"strong"}},
		},
		MarkDefs: []block.MarkDef{{Key: "m1", Type: "link", Attrs: map[string]any{"href": "a"}}},
		Attrs:    map[string]any{"custom": 1},
	}

	clone := orig.Clone()
	clone.Children[0].Text = "y"
	clone.Children[0].Marks[0] = "em"
	clone.MarkDefs[0].Attrs["href"] = "b"
	clone.Attrs["custom"] = 2

	if orig.Children[0].Text != "x" || orig.Children[0].Marks[0] != "strong" {
		t.Error("clone shares child state with original")
	}
	if orig.MarkDefs[0].Attrs["href"] != "a" {
		t.Error("clone shares markDef attrs with original")
	}
	if orig.Attrs["custom"] != 1 {
		t.Error("clone shares attrs with original")
	}
}

func TestFindByKey(t *testing.T) {
	blocks := []block.Block{
		{Key: "a", Type: block.TypeBlock},
		{Key: "b", Type: "image"},
	}

	if i := block.FindByKey(blocks, "b"); i != 1 {
		t.Errorf("expected index 1, got %d", i)
	}
	if i := block.FindByKey(blocks, "z"); i != -1 {
		t.Errorf("expected -1, got %d", i)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	raw := []byte(`[
		{
			"_key": "b1",
			"_type": "block",
			"style": "h2",
			"children": [
				{"_key": "c1", "_type": "span", "text": "Go", "marks": ["strong", "m1"]},
				{"_key": "c2", "_type": "mention", "userId": "u42"}
			],
			"markDefs": [{"_key": "m1", "_type": "link", "href": "https://go.dev"}]
		},
		{"_key": "b2", "_type": "image", "asset": {"url": "a.png"}}
	]`)

	blocks, err := block.ParseAll(raw)
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	b1 := blocks[0]
	if b1.Style != "h2" || !b1.IsContent() {
		t.Errorf("unexpected content block: %+v", b1)
	}
	if b1.Children[1].Attrs["userId"] != "u42" {
		t.Error("inline object attrs not preserved")
	}
	if b1.MarkDefs[0].Attrs["href"] != "https://go.dev" {
		t.Error("markDef attrs not preserved")
	}

	b2 := blocks[1]
	if b2.IsContent() {
		t.Error("expected block object")
	}
	if _, ok := b2.Attrs["asset"]; !ok {
		t.Error("block object payload not preserved")
	}

	// Re-encode and decode again; custom fields must survive.
	out, err := json.Marshal(blocks)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := block.ParseAll(out)
	if err != nil {
		t.Fatalf("ParseAll (round 2): %v", err)
	}
	if again[0].Children[1].Attrs["userId"] != "u42" {
		t.Error("inline object attrs lost in round-trip")
	}
	if _, ok := again[1].Attrs["asset"]; !ok {
		t.Error("block object payload lost in round-trip")
	}
}

func TestJSONMissingKey(t *testing.T) {
	_, err := block.ParseAll([]byte(`[{"_type": "block"}]`))
	if !errors.Is(err, block.ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}

	_, err = block.ParseAll([]byte(`[{"_key": "b1"}]`))
	if !errors.Is(err, block.ErrMissingType) {
		t.Errorf("expected ErrMissingType, got %v", err)
	}
}
