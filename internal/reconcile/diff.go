package reconcile

import (
	"reflect"

	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/patch"
	"github.com/crazyrex/sanity/internal/path"
)

// Diff derives the patches that transform old into new. The sequences
// are joined by block keys: removed keys unset, changed survivors set
// in place at `[{_key}]`, additions inserted after the nearest
// preceding survivor (before the head when there is none). A survivor
// whose relative order changed is treated as a remove plus insert,
// since the patch model has no move operation.
func Diff(old, new []block.Block) []patch.Patch {
	oldByKey := make(map[string]int, len(old))
	for i, b := range old {
		oldByKey[b.Key] = i
	}
	newKeys := make(map[string]bool, len(new))
	for _, b := range new {
		newKeys[b.Key] = true
	}

	stable := stableKeys(old, new, oldByKey, newKeys)

	var patches []patch.Patch

	// Removed and displaced blocks, in old order.
	for _, b := range old {
		if !newKeys[b.Key] || !stable[b.Key] {
			patches = append(patches, patch.Unset(path.Block(b.Key)))
		}
	}

	// Walk the new sequence: rewrite changed survivors, insert the
	// rest. Consecutive insertions share one patch.
	anchor := ""
	var run []block.Block
	flush := func(nextStable string) {
		if len(run) == 0 {
			return
		}
		items := block.CloneAll(run)
		switch {
		case anchor != "":
			patches = append(patches, patch.InsertAfter(path.Block(anchor), items...))
		case nextStable != "":
			patches = append(patches, patch.Insert(items, patch.Before, path.Block(nextStable)))
		default:
			patches = append(patches, patch.Insert(items, patch.After, nil))
		}
		run = nil
	}

	for _, b := range new {
		if stable[b.Key] {
			flush(b.Key)
			if !reflect.DeepEqual(old[oldByKey[b.Key]], b) {
				patches = append(patches, patch.Set(path.Block(b.Key), b.Clone()))
			}
			anchor = b.Key
			continue
		}
		run = append(run, b)
	}
	flush("")

	return patches
}

// stableKeys returns the keys that keep their relative order across the
// two sequences: the longest common subsequence of surviving keys.
func stableKeys(old, new []block.Block, oldByKey map[string]int, newKeys map[string]bool) map[string]bool {
	var os, ns []string
	for _, b := range old {
		if newKeys[b.Key] {
			os = append(os, b.Key)
		}
	}
	for _, b := range new {
		if _, ok := oldByKey[b.Key]; ok {
			ns = append(ns, b.Key)
		}
	}

	// Standard LCS table; sequences are document-sized, not large.
	m, n := len(os), len(ns)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if os[i] == ns[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	stable := make(map[string]bool, table[0][0])
	for i, j := 0, 0; i < m && j < n; {
		switch {
		case os[i] == ns[j]:
			stable[os[i]] = true
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			i++
		default:
			j++
		}
	}
	return stable
}
