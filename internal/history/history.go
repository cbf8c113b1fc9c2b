// Package history provides the undo/redo stack for the editing surface.
//
// The stack stores full value+selection snapshots rather than inverse
// operations: documents are small keyed sequences and snapshot restore is
// what keeps undo correct across the tree rebuilds the surface performs.
//
// The stack is owned by the hosting surface and passed by reference into
// exactly one pipeline plugin; nothing else may mutate it.
package history

import (
	"errors"
	"sync"
	"time"

	"github.com/crazyrex/sanity/internal/block"
	"github.com/crazyrex/sanity/internal/doc"
)

// Stack errors.
var (
	// ErrNothingToUndo is returned when the undo stack is empty.
	ErrNothingToUndo = errors.New("history: nothing to undo")

	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("history: nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 1000

// Snapshot captures the persisted value and selection at one point in
// time. Snapshots own their block copies.
type Snapshot struct {
	Blocks    []block.Block
	Selection doc.Selection
}

// Capture builds a snapshot from a value and selection, copying the
// blocks.
func Capture(blocks []block.Block, sel doc.Selection) Snapshot {
	return Snapshot{Blocks: block.CloneAll(blocks), Selection: sel}
}

type entry struct {
	snapshot  Snapshot
	timestamp time.Time
}

// Stack manages undo/redo snapshots.
type Stack struct {
	mu sync.Mutex

	undo []*entry
	redo []*entry

	// Grouping state: pushes inside a group coalesce into the first.
	grouping   bool
	groupSaved bool

	maxEntries int
}

// New creates a stack holding at most maxEntries undo snapshots.
func New(maxEntries int) *Stack {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Stack{maxEntries: maxEntries}
}

// Push records the state before an edit. Clears the redo stack.
func (s *Stack) Push(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grouping {
		if s.groupSaved {
			return
		}
		s.groupSaved = true
	}

	s.undo = append(s.undo, &entry{snapshot: snap, timestamp: time.Now()})
	s.redo = nil

	if len(s.undo) > s.maxEntries {
		excess := len(s.undo) - s.maxEntries
		s.undo = s.undo[excess:]
	}
}

// Undo pops the last snapshot, pushing current onto the redo stack.
func (s *Stack) Undo(current Snapshot) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undo) == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	e := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, &entry{snapshot: current, timestamp: time.Now()})
	return e.snapshot, nil
}

// Redo pops the last undone snapshot, pushing current onto the undo stack.
func (s *Stack) Redo(current Snapshot) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.redo) == 0 {
		return Snapshot{}, ErrNothingToRedo
	}
	e := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, &entry{snapshot: current, timestamp: time.Now()})
	return e.snapshot, nil
}

// CanUndo reports whether undo is available.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether redo is available.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// UndoCount returns the number of available undo snapshots.
func (s *Stack) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

// BeginGroup starts a group: until EndGroup, only the first Push is
// recorded, so a burst of edits undoes as one step. Nested calls are
// ignored.
func (s *Stack) BeginGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grouping {
		return
	}
	s.grouping = true
	s.groupSaved = false
}

// EndGroup finishes the current group.
func (s *Stack) EndGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grouping = false
	s.groupSaved = false
}

// Clear removes all undo/redo state.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
	s.redo = nil
	s.grouping = false
	s.groupSaved = false
}
