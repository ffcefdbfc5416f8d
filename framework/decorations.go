package framework

import (
	"sort"

	"github.com/google/uuid"
	"go.lsp.dev/protocol"
)

// HighlightClass is the CSS class the editor paints comment highlights with.
const HighlightClass = "custom-line-highlight"

// Decoration is a highlighted range attached to a review comment.
type Decoration struct {
	ID        string         `json:"id"`
	CommentID string         `json:"commentId"`
	Range     protocol.Range `json:"range"`
	Message   string         `json:"hoverMessage,omitempty"`
	ClassName string         `json:"className"`
}

// Decorations tracks comment highlights for the active document.
type Decorations struct {
	byComment map[string]Decoration
}

// NewDecorations returns an empty set.
func NewDecorations() *Decorations {
	return &Decorations{byComment: make(map[string]Decoration)}
}

// Add highlights rng for commentID. Adding the same comment twice replaces
// the earlier highlight.
func (d *Decorations) Add(commentID string, rng protocol.Range, message string) Decoration {
	dec := Decoration{
		ID:        uuid.NewString(),
		CommentID: commentID,
		Range:     rng,
		Message:   message,
		ClassName: HighlightClass,
	}
	d.byComment[commentID] = dec
	return dec
}

// Remove drops the highlight for commentID.
func (d *Decorations) Remove(commentID string) (Decoration, bool) {
	dec, ok := d.byComment[commentID]
	if ok {
		delete(d.byComment, commentID)
	}
	return dec, ok
}

// All returns the highlights ordered by start position.
func (d *Decorations) All() []Decoration {
	out := make([]Decoration, 0, len(d.byComment))
	for _, dec := range d.byComment {
		out = append(out, dec)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Range.Start, out[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Character != b.Character {
			return a.Character < b.Character
		}
		return out[i].CommentID < out[j].CommentID
	})
	return out
}

// Len returns the number of highlights.
func (d *Decorations) Len() int { return len(d.byComment) }

// Reset clears every highlight.
func (d *Decorations) Reset() {
	d.byComment = make(map[string]Decoration)
}
