package pipeline

import "github.com/crazyrex/sanity/internal/key"

// EventKind classifies an editing event.
type EventKind uint8

const (
	// KindKeyDown is a key press.
	KindKeyDown EventKind = iota

	// KindPaste is a paste into the surface.
	KindPaste

	// KindCopy is a copy from the surface.
	KindCopy

	// KindDragOver is a drag moving over the surface.
	KindDragOver

	// KindDrop is a drop onto the surface.
	KindDrop

	// KindChange is a post-mutation document change notification.
	KindChange
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case KindKeyDown:
		return "keydown"
	case KindPaste:
		return "paste"
	case KindCopy:
		return "copy"
	case KindDragOver:
		return "dragover"
	case KindDrop:
		return "drop"
	case KindChange:
		return "change"
	default:
		return "unknown"
	}
}

// Native transfer kinds for dragged editor nodes. Other kinds (plain
// text, files) belong to the host platform.
const (
	// TransferBlock tags a dragged block object.
	TransferBlock = "application/x-block"

	// TransferInline tags a dragged inline object.
	TransferInline = "application/x-inline"

	// TransferText tags plain text.
	TransferText = "text/plain"
)

// Transfer is the payload carried by paste, copy, and drag/drop events.
type Transfer struct {
	// Kinds lists the payload representations, most specific first.
	Kinds []string

	// Text is the plain-text representation, when present.
	Text string

	// Data holds representation payloads by kind.
	Data map[string]string
}

// Has reports whether the transfer carries the given kind.
func (t Transfer) Has(kind string) bool {
	for _, k := range t.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// IsNativeObject reports whether the payload is a dragged block or
// inline object of this surface.
func (t Transfer) IsNativeObject() bool {
	return t.Has(TransferBlock) || t.Has(TransferInline)
}

// Event is one editing event flowing through the chain.
type Event struct {
	// Kind classifies the event.
	Kind EventKind

	// Key carries the key press for KindKeyDown events.
	Key key.Event

	// Transfer carries the payload for paste/copy/drag/drop events.
	Transfer Transfer
}
