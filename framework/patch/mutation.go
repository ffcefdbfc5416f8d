// Package patch implements the host-independent text protocols used by the
// editor bridge: a tracker for one tool-managed block of text, a patcher for
// generated registration blocks, and the range mutations both produce.
//
// Nothing in this package performs I/O. Callers hand in the current document
// text and get back either mutations or a new document.
package patch

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOverlappingMutations is returned by Apply when two mutations touch the
// same bytes of the input document.
var ErrOverlappingMutations = errors.New("overlapping mutations")

// MutationKind classifies a Mutation.
type MutationKind string

const (
	MutationDelete  MutationKind = "delete"
	MutationInsert  MutationKind = "insert"
	MutationReplace MutationKind = "replace"
)

// Span is a half-open byte range [Start, End) into a document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Mutation is one range edit. Offsets refer to the document the mutation was
// computed against, never to the output of an earlier mutation in the same set.
type Mutation struct {
	Kind  MutationKind `json:"kind"`
	Start int          `json:"start"`
	End   int          `json:"end"`
	Text  string       `json:"text,omitempty"`
}

// Delete builds a mutation removing span.
func Delete(span Span) Mutation {
	return Mutation{Kind: MutationDelete, Start: span.Start, End: span.End}
}

// Insert builds a mutation inserting text at offset.
func Insert(offset int, text string) Mutation {
	return Mutation{Kind: MutationInsert, Start: offset, End: offset, Text: text}
}

// Replace builds a mutation replacing span with text.
func Replace(span Span, text string) Mutation {
	return Mutation{Kind: MutationReplace, Start: span.Start, End: span.End, Text: text}
}

// Span returns the range the mutation covers in the input document.
func (m Mutation) Span() Span { return Span{Start: m.Start, End: m.End} }

// Apply applies mutations to document as a single transaction. All offsets
// are interpreted against document. An insert placed at the start of a
// deleted span lands in front of the text that follows the deletion.
func Apply(document string, mutations []Mutation) (string, error) {
	if len(mutations) == 0 {
		return document, nil
	}
	ordered := make([]Mutation, len(mutations))
	copy(ordered, mutations)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start > ordered[j].Start
		}
		return ordered[i].End > ordered[j].End
	})
	out := document
	var prev *Mutation
	for i := range ordered {
		m := ordered[i]
		if m.Start < 0 || m.End < m.Start || m.End > len(document) {
			return document, fmt.Errorf("mutation [%d,%d) out of range for %d bytes", m.Start, m.End, len(document))
		}
		if prev != nil {
			if m.End > prev.Start {
				return document, fmt.Errorf("%w: [%d,%d)", ErrOverlappingMutations, m.Start, m.End)
			}
			// Two inserts at one offset have no defined order.
			if m.Start == m.End && prev.Start == prev.End && m.Start == prev.Start {
				return document, fmt.Errorf("%w: two inserts at %d", ErrOverlappingMutations, m.Start)
			}
		}
		out = out[:m.Start] + m.Text + out[m.End:]
		prev = &ordered[i]
	}
	return out, nil
}
