package patch

import (
	"strings"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// PositionAt converts a byte offset into a zero-based line/character
// position. Characters are counted in UTF-16 code units, which is what LSP
// clients and browser editors use. Offsets outside the document are clamped.
func PositionAt(document string, offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(document) {
		offset = len(document)
	}
	var line, char uint32
	for i, r := range document {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			char = 0
			continue
		}
		char += uint32(utf16Len(r))
	}
	return protocol.Position{Line: line, Character: char}
}

// OffsetAt converts a position back to a byte offset. A character past the
// end of its line resolves to the end of that line, and a line past the end
// of the document resolves to len(document).
func OffsetAt(document string, pos protocol.Position) int {
	var line uint32
	i := 0
	for line < pos.Line {
		next := strings.IndexByte(document[i:], '\n')
		if next < 0 {
			return len(document)
		}
		i += next + 1
		line++
	}
	var units uint32
	for i < len(document) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(document[i:])
		if r == '\n' {
			break
		}
		units += uint32(utf16Len(r))
		i += size
	}
	return i
}

// RangeOf converts a span to a protocol range.
func RangeOf(document string, span Span) protocol.Range {
	return protocol.Range{
		Start: PositionAt(document, span.Start),
		End:   PositionAt(document, span.End),
	}
}

// SpanOf converts a protocol range to a byte span.
func SpanOf(document string, rng protocol.Range) Span {
	start, end := OffsetAt(document, rng.Start), OffsetAt(document, rng.End)
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// TextEdits converts mutations computed against document into LSP text
// edits an editor can apply in one transaction.
func TextEdits(document string, mutations []Mutation) []protocol.TextEdit {
	if len(mutations) == 0 {
		return nil
	}
	edits := make([]protocol.TextEdit, 0, len(mutations))
	for _, m := range mutations {
		edits = append(edits, protocol.TextEdit{
			Range:   RangeOf(document, m.Span()),
			NewText: m.Text,
		})
	}
	return edits
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
