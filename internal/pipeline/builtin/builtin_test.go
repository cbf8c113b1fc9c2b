package builtin

import (
	"testing"

	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/history"
	"github.com/crazyrex/sanity/internal/key"
	"github.com/crazyrex/sanity/internal/pipeline"
	"github.com/crazyrex/sanity/internal/schema"
)

func textBlock(key, childKey, text string) block.Block {
	return block.Block{
		Key:   key,
		Type:  block.TypeBlock,
		Style: "normal",
		Children: []block.Child{
			{Key: childKey, Type: block.TypeSpan, Text: text},
		},
	}
}

func listBlock(key, childKey, text, kind string, level int) block.Block {
	b := textBlock(key, childKey, text)
	b.ListItem = kind
	b.Level = level
	return b
}

func newCtx(d *doc.Document) *pipeline.Context {
	return &pipeline.Context{
		Doc:    d,
		Schema: schema.Default(),
		Value:  d.ToBlocks,
	}
}

func dispatch(t *testing.T, plugins []pipeline.Plugin, ev pipeline.Event, ctx *pipeline.Context) pipeline.Result {
	t.Helper()
	chain := pipeline.NewChain(plugins...)
	res := chain.Dispatch(ev, ctx, nil)
	if res.Err != nil {
		t.Fatalf("dispatch: %v", res.Err)
	}
	return res
}

func keyDown(e key.Event) pipeline.Event {
	return pipeline.Event{Kind: pipeline.KindKeyDown, Key: e}
}

func TestAllOrder(t *testing.T) {
	plugins, err := All(Options{History: history.New(10)})
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want := []string{
		"selection-tracker",
		"list-enter",
		"list-tab",
		"list-toggle",
		"enter",
		"mark-hotkeys",
		"soft-break",
		"paste",
		"block-insert-on-enter",
		"drop",
		"block-styles",
		"annotation-toggle",
		"word-expansion",
		"span-wrap",
		"inline-object-insert",
		"block-object-insert",
		"undo-redo",
		"void-shim",
	}
	if len(plugins) != len(want) {
		t.Fatalf("len = %d, want %d", len(plugins), len(want))
	}
	for i, p := range plugins {
		if p.Name != want[i] {
			t.Errorf("plugins[%d] = %q, want %q", i, p.Name, want[i])
		}
	}
}

func TestListEnterOutdentsDeepEmptyItem(t *testing.T) {
	d := doc.New([]block.Block{listBlock("b1", "c1", "", "bullet", 2)})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1"})
	ctx := newCtx(d)

	res := dispatch(t, []pipeline.Plugin{ListEnter()}, keyDown(key.SpecialEvent(key.KeyEnter, key.ModNone)), ctx)
	if !res.Claimed {
		t.Fatal("expected claim")
	}
	n := d.BlockByKey("b1")
	if n.Level != 1 || n.ListItem != "bullet" {
		t.Fatalf("got level=%d listItem=%q, want level=1 listItem=bullet", n.Level, n.ListItem)
	}
}

func TestListEnterLeavesListFromTopEmptyItem(t *testing.T) {
	d := doc.New([]block.Block{listBlock("b1", "c1", "", "bullet", 1)})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1"})
	ctx := newCtx(d)

	res := dispatch(t, []pipeline.Plugin{ListEnter()}, keyDown(key.SpecialEvent(key.KeyEnter, key.ModNone)), ctx)
	if !res.Claimed {
		t.Fatal("expected claim")
	}
	if n := d.BlockByKey("b1"); n.ListItem != "" {
		t.Fatalf("listItem = %q, want removed", n.ListItem)
	}
}

func TestListEnterDelegatesOnNonEmptyItem(t *testing.T) {
	d := doc.New([]block.Block{listBlock("b1", "c1", "item", "bullet", 1)})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1", Offset: 4})
	ctx := newCtx(d)

	res := dispatch(t, []pipeline.Plugin{ListEnter(), Enter()}, keyDown(key.SpecialEvent(key.KeyEnter, key.ModNone)), ctx)
	if !res.Claimed {
		t.Fatal("expected claim by the generic enter")
	}
	if d.Len() != 2 {
		t.Fatalf("blocks = %d, want split into 2", d.Len())
	}
}

func TestListTabIndentAndOutdent(t *testing.T) {
	d := doc.New([]block.Block{listBlock("b1", "c1", "item", "bullet", 1)})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1"})
	ctx := newCtx(d)

	dispatch(t, []pipeline.Plugin{ListTab()}, keyDown(key.SpecialEvent(key.KeyTab, key.ModNone)), ctx)
	if got := d.BlockByKey("b1").Level; got != 2 {
		t.Fatalf("level after Tab = %d, want 2", got)
	}

	dispatch(t, []pipeline.Plugin{ListTab()}, keyDown(key.SpecialEvent(key.KeyTab, key.ModShift)), ctx)
	if got := d.BlockByKey("b1").Level; got != 1 {
		t.Fatalf("level after Shift+Tab = %d, want 1", got)
	}
}

func TestListTabFallsThroughOutsideLists(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "plain")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1"})
	ctx := newCtx(d)

	chain := pipeline.NewChain(ListTab())
	res := chain.Dispatch(keyDown(key.SpecialEvent(key.KeyTab, key.ModNone)), ctx, nil)
	if res.Claimed {
		t.Fatal("Tab outside a list must not be claimed")
	}
}

func TestListToggle(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "item")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1"})
	ctx := newCtx(d)

	toggle := ListToggle(map[string]key.Combo{"bullet": key.MustParse("Mod+Shift+8")})
	ev := keyDown(key.RuneEvent('8', key.ModCtrl|key.ModShift))

	dispatch(t, []pipeline.Plugin{toggle}, ev, ctx)
	if n := d.BlockByKey("b1"); n.ListItem != "bullet" || n.Level != 1 {
		t.Fatalf("got listItem=%q level=%d, want bullet/1", n.ListItem, n.Level)
	}

	dispatch(t, []pipeline.Plugin{toggle}, ev, ctx)
	if n := d.BlockByKey("b1"); n.ListItem != "" {
		t.Fatalf("second toggle kept listItem=%q", n.ListItem)
	}
}

func TestEnterResetsHeadingStyleAtEnd(t *testing.T) {
	b := textBlock("b1", "c1", "Title")
	b.Style = "h1"
	d := doc.New([]block.Block{b})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1", Offset: 5})
	ctx := newCtx(d)

	dispatch(t, []pipeline.Plugin{Enter()}, keyDown(key.SpecialEvent(key.KeyEnter, key.ModNone)), ctx)
	if d.Len() != 2 {
		t.Fatalf("blocks = %d, want 2", d.Len())
	}
	tail := d.Blocks()[1]
	if tail.Style != "normal" {
		t.Fatalf("tail style = %q, want normal", tail.Style)
	}
	if head := d.Blocks()[0]; head.Style != "h1" {
		t.Fatalf("head style = %q, want h1", head.Style)
	}
}

func TestEnterKeepsStyleOnMidSplit(t *testing.T) {
	b := textBlock("b1", "c1", "Title")
	b.Style = "h1"
	d := doc.New([]block.Block{b})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1", Offset: 2})
	ctx := newCtx(d)

	dispatch(t, []pipeline.Plugin{Enter()}, keyDown(key.SpecialEvent(key.KeyEnter, key.ModNone)), ctx)
	if tail := d.Blocks()[1]; tail.Style != "h1" {
		t.Fatalf("tail style = %q, want h1 preserved", tail.Style)
	}
}

func TestMarkHotkeysToggle(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "bold me")})
	d.SetSelection(doc.Selection{
		Anchor: doc.Point{BlockKey: "b1", ChildKey: "c1"},
		Focus:  doc.Point{BlockKey: "b1", ChildKey: "c1", Offset: 4},
		Active: true,
	})
	ctx := newCtx(d)

	marks := MarkHotkeys(map[string]key.Combo{"strong": key.MustParse("Mod+B")})
	dispatch(t, []pipeline.Plugin{marks}, keyDown(key.RuneEvent('b', key.ModCtrl)), ctx)

	n := d.BlockByKey("b1")
	if len(n.Children) < 1 || !n.Children[0].HasMark("strong") {
		t.Fatalf("first span marks = %v, want strong", n.Children[0].Marks)
	}
}

func TestMarkHotkeysUnknownDecoratorFallsThrough(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "text")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1"})
	ctx := newCtx(d)

	marks := MarkHotkeys(map[string]key.Combo{"shimmer": key.MustParse("Mod+G")})
	chain := pipeline.NewChain(marks)
	res := chain.Dispatch(keyDown(key.RuneEvent('g', key.ModCtrl)), ctx, nil)
	if res.Claimed {
		t.Fatal("undeclared decorator must fall through")
	}
}

func TestSoftBreak(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "ab")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1", Offset: 1})
	ctx := newCtx(d)

	dispatch(t, []pipeline.Plugin{SoftBreak(key.MustParse("Shift+Enter"))},
		keyDown(key.SpecialEvent(key.KeyEnter, key.ModShift)), ctx)
	if d.Len() != 1 {
		t.Fatalf("blocks = %d, soft break must not split", d.Len())
	}
	if got := d.BlockByKey("b1").BlockText(); got != "a\nb" {
		t.Fatalf("text = %q, want %q", got, "a\nb")
	}
}

func TestPasteDelegatesToInterceptor(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1"})
	ctx := newCtx(d)

	var seen pipeline.Transfer
	ctx.Paste = func(tr pipeline.Transfer) (bool, error) {
		seen = tr
		return true, nil
	}

	ev := pipeline.Event{
		Kind:     pipeline.KindPaste,
		Transfer: pipeline.Transfer{Kinds: []string{pipeline.TransferText}, Text: "hello"},
	}
	res := dispatch(t, []pipeline.Plugin{Paste()}, ev, ctx)
	if !res.Claimed {
		t.Fatal("handled paste must claim")
	}
	if seen.Text != "hello" {
		t.Fatalf("interceptor got %q", seen.Text)
	}
}

func TestPasteUnhandledFallsThrough(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "")})
	ctx := newCtx(d)
	ctx.Paste = func(tr pipeline.Transfer) (bool, error) { return false, nil }

	chain := pipeline.NewChain(Paste())
	res := chain.Dispatch(pipeline.Event{Kind: pipeline.KindPaste}, ctx, nil)
	if res.Claimed {
		t.Fatal("unhandled paste must fall through to the default")
	}
}

func TestBlockInsertOnEnterAfterVoid(t *testing.T) {
	d := doc.New([]block.Block{{Key: "img1", Type: "image"}})
	d.SelectBlockStart("img1")
	ctx := newCtx(d)

	dispatch(t, []pipeline.Plugin{BlockInsertOnEnter()}, keyDown(key.SpecialEvent(key.KeyEnter, key.ModNone)), ctx)
	if d.Len() != 2 {
		t.Fatalf("blocks = %d, want 2", d.Len())
	}
	fresh := d.Blocks()[1]
	if fresh.Kind != doc.KindContentBlock || fresh.Style != "normal" {
		t.Fatalf("inserted block kind=%v style=%q", fresh.Kind, fresh.Style)
	}
	if focused := d.FocusedBlock(); focused == nil || focused.Key != fresh.Key {
		t.Fatal("focus must move to the inserted block")
	}
}

func TestDropNativeObjectSignalsMove(t *testing.T) {
	d := doc.New(nil)
	ctx := newCtx(d)

	ev := pipeline.Event{
		Kind:     pipeline.KindDrop,
		Transfer: pipeline.Transfer{Kinds: []string{pipeline.TransferBlock}},
	}
	res := dispatch(t, []pipeline.Plugin{Drop()}, ev, ctx)
	if !res.Claimed || res.Effect != pipeline.EffectMove {
		t.Fatalf("got claimed=%v effect=%q, want move claim", res.Claimed, res.Effect)
	}
}

func TestDropForeignPayloadFallsThrough(t *testing.T) {
	d := doc.New(nil)
	ctx := newCtx(d)

	ev := pipeline.Event{
		Kind:     pipeline.KindDrop,
		Transfer: pipeline.Transfer{Kinds: []string{pipeline.TransferText}, Text: "dragged"},
	}
	chain := pipeline.NewChain(Drop())
	res := chain.Dispatch(ev, ctx, nil)
	if res.Claimed {
		t.Fatal("foreign drop must fall through")
	}
}

func TestBlockStyles(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "text")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1"})
	ctx := newCtx(d)

	styles := BlockStyles(map[string]key.Combo{"h2": key.MustParse("Mod+Alt+2")})
	dispatch(t, []pipeline.Plugin{styles}, keyDown(key.RuneEvent('2', key.ModCtrl|key.ModAlt)), ctx)
	if got := d.BlockByKey("b1").Style; got != "h2" {
		t.Fatalf("style = %q, want h2", got)
	}
}

func TestAnnotationToggleExpandsCollapsedSelection(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "visit example now")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1", Offset: 8})
	ctx := newCtx(d)

	dispatch(t, []pipeline.Plugin{AnnotationToggle("link", key.MustParse("Mod+K"))},
		keyDown(key.RuneEvent('k', key.ModCtrl)), ctx)

	n := d.BlockByKey("b1")
	if len(n.MarkDefs) != 1 || n.MarkDefs[0].Type != "link" {
		t.Fatalf("markDefs = %v, want one link", n.MarkDefs)
	}
	var annotated string
	for _, c := range n.Children {
		if c.Kind == doc.KindSpan && len(c.Marks) > 0 {
			annotated = c.Text
		}
	}
	if annotated != "example" {
		t.Fatalf("annotated %q, want the word under the caret", annotated)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	before := []block.Block{textBlock("b1", "c1", "old")}
	d := doc.New([]block.Block{textBlock("b1", "c1", "new")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1", Offset: 3})

	stack := history.New(10)
	stack.Push(history.Capture(before, doc.Selection{}))

	ctx := newCtx(d)
	var restored *history.Snapshot
	ctx.Restore = func(s history.Snapshot) { restored = &s }

	dispatch(t, []pipeline.Plugin{UndoRedo(stack)}, keyDown(key.RuneEvent('z', key.ModCtrl)), ctx)
	if restored == nil {
		t.Fatal("undo must restore a snapshot")
	}
	if got := restored.Blocks[0].Text(); got != "old" {
		t.Fatalf("restored text = %q, want old", got)
	}
	if !stack.CanRedo() {
		t.Fatal("undo must arm redo")
	}
}

func TestUndoOnEmptyStackClaimsQuietly(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "text")})
	ctx := newCtx(d)
	called := false
	ctx.Restore = func(s history.Snapshot) { called = true }

	res := dispatch(t, []pipeline.Plugin{UndoRedo(history.New(10))}, keyDown(key.RuneEvent('z', key.ModCtrl)), ctx)
	if !res.Claimed {
		t.Fatal("empty undo still claims the combo")
	}
	if called {
		t.Fatal("empty undo must not restore")
	}
}

func TestVoidShimDeletesOnBackspace(t *testing.T) {
	d := doc.New([]block.Block{
		textBlock("b1", "c1", "text"),
		{Key: "img1", Type: "image"},
	})
	d.SelectBlockStart("img1")
	ctx := newCtx(d)

	dispatch(t, []pipeline.Plugin{VoidShim()}, keyDown(key.SpecialEvent(key.KeyBackspace, key.ModNone)), ctx)
	if d.BlockByKey("img1") != nil {
		t.Fatal("void block must be removed")
	}
}

func TestVoidShimSwallowsTyping(t *testing.T) {
	d := doc.New([]block.Block{{Key: "img1", Type: "image"}})
	d.SelectBlockStart("img1")
	ctx := newCtx(d)

	res := dispatch(t, []pipeline.Plugin{VoidShim()}, keyDown(key.RuneEvent('x', key.ModNone)), ctx)
	if !res.Claimed {
		t.Fatal("typing into a void block must be swallowed")
	}
	if d.BlockByKey("img1") == nil {
		t.Fatal("void block must survive")
	}
}

func TestVoidShimPassesNavigation(t *testing.T) {
	d := doc.New([]block.Block{{Key: "img1", Type: "image"}})
	d.SelectBlockStart("img1")
	ctx := newCtx(d)

	chain := pipeline.NewChain(VoidShim())
	res := chain.Dispatch(keyDown(key.SpecialEvent(key.KeyDown, key.ModNone)), ctx, nil)
	if res.Claimed {
		t.Fatal("navigation must fall through")
	}
}

func TestSelectionTrackerObservesWithoutClaiming(t *testing.T) {
	d := doc.New([]block.Block{textBlock("b1", "c1", "text")})
	d.Select(doc.Point{BlockKey: "b1", ChildKey: "c1", Offset: 2})

	var seen doc.Selection
	tracker := SelectionTracker(func(sel doc.Selection) { seen = sel })
	ctx := newCtx(d)

	chain := pipeline.NewChain(tracker)
	res := chain.Dispatch(pipeline.Event{Kind: pipeline.KindChange}, ctx, nil)
	if res.Claimed {
		t.Fatal("tracker must not claim")
	}
	if seen.Focus.Offset != 2 {
		t.Fatalf("observed offset = %d, want 2", seen.Focus.Offset)
	}
}
