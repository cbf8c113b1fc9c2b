package resolver_test

import (
	"errors"
	"testing"

	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/doc"
	"github.com/crazyrex/sanity/internal/path"
	"github.com/crazyrex/sanity/internal/resolver"
)

func testDoc() *doc.Document {
	return doc.New([]block.Block{
		{
			Key:  "b1",
			Type: block.TypeBlock,
			Children: []block.Child{
				{Key: "c1", Type: block.TypeSpan, Text: "plain "},
				{Key: "c2", Type: block.TypeSpan, Text: "linked", Marks: []string{"m1"}},
				{Key: "c3", Type: "stockTicker"},
			},
			MarkDefs: []block.MarkDef{
				{Key: "m1", Type: "link"},
				{Key: "m2", Type: "link"},
			},
		},
		{Key: "b2", Type: "image"},
	})
}

func TestResolveBlock(t *testing.T) {
	d := testDoc()
	r := resolver.New(nil)

	n, err := r.Resolve(d, path.Block("b2"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n == nil || n.Key != "b2" {
		t.Errorf("expected b2, got %+v", n)
	}

	n, err = r.Resolve(d, path.Block("missing"))
	if err != nil || n != nil {
		t.Errorf("unknown block should be (nil, nil), got (%v, %v)", n, err)
	}
}

func TestResolveFocusedBlockFastPath(t *testing.T) {
	d := testDoc()
	d.SelectBlockStart("b1")
	r := resolver.New(nil)

	n, err := r.Resolve(d, path.Block("b1"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n != d.FocusedBlock() {
		t.Error("expected the focused block node itself")
	}
}

func TestResolveChild(t *testing.T) {
	d := testDoc()
	var scrolled []*doc.Node
	r := resolver.New(func(n *doc.Node) { scrolled = append(scrolled, n) })

	n, err := r.Resolve(d, path.Child("b1", "c2"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n == nil || n.Key != "c2" {
		t.Fatalf("expected c2, got %+v", n)
	}
	if len(scrolled) != 1 || scrolled[0].Key != "c2" {
		t.Errorf("expected one bring-into-view for c2, got %v", scrolled)
	}
}

func TestResolveChildMissingIsIntegrityError(t *testing.T) {
	d := testDoc()
	r := resolver.New(nil)

	_, err := r.Resolve(d, path.Child("b1", "ghost"))
	var ie *resolver.IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
	if !ie.Path.Equal(path.Child("b1", "ghost")) {
		t.Errorf("error path = %s", ie.Path)
	}
}

func TestResolveAnnotation(t *testing.T) {
	d := testDoc()
	var scrolled int
	r := resolver.New(func(*doc.Node) { scrolled++ })

	// m1 is carried by span c2.
	n, err := r.Resolve(d, path.Annotation("b1", "m1"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n == nil || n.Key != "c2" {
		t.Fatalf("expected first span carrying m1, got %+v", n)
	}
	if scrolled != 1 {
		t.Errorf("expected 1 scroll, got %d", scrolled)
	}

	// m2 exists in markDefs but no span carries it: nil, no error, no scroll.
	n, err = r.Resolve(d, path.Annotation("b1", "m2"))
	if err != nil || n != nil {
		t.Errorf("orphan annotation should be (nil, nil), got (%v, %v)", n, err)
	}
	if scrolled != 1 {
		t.Errorf("orphan annotation must not scroll, count = %d", scrolled)
	}
}

func TestScrollDedupedByPathValue(t *testing.T) {
	d := testDoc()
	var scrolled int
	r := resolver.New(func(*doc.Node) { scrolled++ })

	// Equal path values, distinct slice identities.
	p1 := path.Child("b1", "c2")
	p2 := path.Path{path.Key("b1"), path.Field(path.FieldChildren), path.Key("c2")}

	for _, p := range []path.Path{p1, p2, p1} {
		if _, err := r.Resolve(d, p); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if scrolled != 1 {
		t.Errorf("expected exactly 1 scroll for repeated path value, got %d", scrolled)
	}

	// A genuine transition fires again, and transitioning back fires again.
	if _, err := r.Resolve(d, path.Child("b1", "c1")); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := r.Resolve(d, p1); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if scrolled != 3 {
		t.Errorf("expected one scroll per distinct transition, got %d", scrolled)
	}
}

func TestFailedResolveDoesNotConsumeScroll(t *testing.T) {
	d := testDoc()
	var scrolled int
	r := resolver.New(func(*doc.Node) { scrolled++ })

	// The child does not exist yet; resolution fails.
	p := path.Child("b1", "later")
	if _, err := r.Resolve(d, p); err == nil {
		t.Fatal("expected IntegrityError for missing child")
	}
	if scrolled != 0 {
		t.Fatalf("failed resolve scrolled %d times", scrolled)
	}

	// After the tree catches up, the same path still gets its scroll.
	d.Blocks()[0].Children = append(d.Blocks()[0].Children,
		&doc.Node{Kind: doc.KindSpan, Key: "later", Text: "x"})

	n, err := r.Resolve(d, p)
	if err != nil {
		t.Fatalf("Resolve after repair: %v", err)
	}
	if n == nil || n.Key != "later" {
		t.Errorf("expected repaired child, got %+v", n)
	}
	if scrolled != 1 {
		t.Errorf("expected 1 scroll after repair, got %d", scrolled)
	}
}

func TestResolveEmptyPath(t *testing.T) {
	d := testDoc()
	r := resolver.New(nil)

	if n, err := r.Resolve(d, nil); n != nil || err != nil {
		t.Errorf("nil path should be (nil, nil), got (%v, %v)", n, err)
	}
}
