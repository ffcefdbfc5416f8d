package patch

// Tracker owns at most one tool-inserted block of text in a single document.
// It remembers the block by content, not by offset, because offsets drift as
// the user types. Keep one Tracker per open document.
type Tracker struct {
	// AnchorOffset is where new blocks are inserted. Offsets beyond the end of
	// the document are clamped.
	AnchorOffset int

	last   string
	active bool
}

// NewTracker returns a tracker that inserts at the start of the document.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Last returns the block most recently inserted and whether one is active.
func (t *Tracker) Last() (string, bool) {
	return t.last, t.active
}

// Restore marks text as the active block without emitting mutations. It is
// used when the caller already knows which block a previous run inserted.
func (t *Tracker) Restore(text string) {
	if text == "" {
		t.Reset()
		return
	}
	t.last = text
	t.active = true
}

// Reset forgets the active block.
func (t *Tracker) Reset() {
	t.last = ""
	t.active = false
}

// Upsert replaces the active block with content. The previous block is
// located by the first exact occurrence in document; if it is gone the
// removal is skipped. An empty content only clears the block.
//
// The returned mutations must be applied together against document.
func (t *Tracker) Upsert(document, content string) []Mutation {
	var mutations []Mutation
	var removed *Span
	if t.active {
		if spans := Find(document, t.last, MatchFirst); len(spans) == 1 {
			removed = &spans[0]
			mutations = append(mutations, Delete(spans[0]))
		}
	}
	if content == "" {
		t.Reset()
		return mutations
	}
	anchor := t.anchor(document)
	if removed != nil && anchor > removed.Start && anchor < removed.End {
		anchor = removed.Start
	}
	mutations = append(mutations, Insert(anchor, content))
	t.last = content
	t.active = true
	return mutations
}

// Exists reports whether probe occurs verbatim in document. Callers use it
// to skip an Upsert whose content is already present.
func (t *Tracker) Exists(document, probe string) bool {
	return Exists(document, probe)
}

func (t *Tracker) anchor(document string) int {
	switch {
	case t.AnchorOffset < 0:
		return 0
	case t.AnchorOffset > len(document):
		return len(document)
	default:
		return t.AnchorOffset
	}
}
