package path_test

import (
	"encoding/json"
	"testing"

	"github.com/crazyrex/sanity/internal/path"
)

func TestConstructorsAndPredicates(t *testing.T) {
	tests := []struct {
		name         string
		p            path.Path
		singleKey    bool
		child        bool
		annotation   bool
		blockKey     string
		wantSegments int
	}{
		{"block", path.Block("b1"), true, false, false, "b1", 1},
		{"child", path.Child("b1", "c1"), false, true, false, "b1", 3},
		{"annotation", path.Annotation("b1", "m1"), false, false, true, "b1", 3},
		{"empty", path.Path{}, false, false, false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsSingleKey(); got != tt.singleKey {
				t.Errorf("IsSingleKey = %v, want %v", got, tt.singleKey)
			}
			if got := tt.p.IsChild(); got != tt.child {
				t.Errorf("IsChild = %v, want %v", got, tt.child)
			}
			if got := tt.p.IsAnnotation(); got != tt.annotation {
				t.Errorf("IsAnnotation = %v, want %v", got, tt.annotation)
			}
			if got := tt.p.BlockKey(); got != tt.blockKey {
				t.Errorf("BlockKey = %q, want %q", got, tt.blockKey)
			}
			if len(tt.p) != tt.wantSegments {
				t.Errorf("len = %d, want %d", len(tt.p), tt.wantSegments)
			}
		})
	}
}

func TestEqualByValue(t *testing.T) {
	a := path.Child("b1", "c1")
	b := path.Path{path.Key("b1"), path.Field(path.FieldChildren), path.Key("c1")}

	if !a.Equal(b) {
		t.Error("structurally equal paths must compare equal")
	}
	if a.Equal(path.Child("b1", "c2")) {
		t.Error("paths with different keys must not compare equal")
	}
	if a.Equal(path.Annotation("b1", "c1")) {
		t.Error("children and markDefs paths must not compare equal")
	}
	if a.Equal(path.Block("b1")) {
		t.Error("paths of different length must not compare equal")
	}
}

func TestString(t *testing.T) {
	p := path.Child("b1", "c2")
	want := `[_key=="b1"].children[_key=="c2"]`
	if got := p.String(); got != want {
		t.Errorf("String = %s, want %s", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	p := path.Annotation("b1", "m1")

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"_key":"b1"},"markDefs",{"_key":"m1"}]`
	if string(data) != want {
		t.Errorf("wire form = %s, want %s", data, want)
	}

	var back path.Path
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(p) {
		t.Errorf("round-trip mismatch: %s vs %s", back, p)
	}
}

func TestCloneIndependent(t *testing.T) {
	p := path.Child("b1", "c1")
	q := p.Clone()
	q[2] = path.Key("c9")

	if p[2].Key != "c1" {
		t.Error("clone shares backing array with original")
	}
}
