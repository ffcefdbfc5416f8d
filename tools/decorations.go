package tools

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/lexcodex/swizzle/framework"
)

const defaultHighlightEnd = 1000

// HighlightLineTool adds or removes a comment highlight in the active
// document.
type HighlightLineTool struct{}

func (t *HighlightLineTool) Name() framework.MessageType { return framework.MsgHighlightLine }
func (t *HighlightLineTool) Description() string {
	return "Highlights the lines a review comment refers to."
}
func (t *HighlightLineTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, err
	}
	id := msg.String("id")
	if id == "" {
		return nil, fmt.Errorf("highlight without comment id")
	}
	if !msg.Bool("isCreating") {
		if _, ok := session.Decorations.Remove(id); !ok {
			return nil, nil
		}
		return []framework.Message{decorationsMessage(doc, session)}, nil
	}
	startLine, ok := msg.Int("startLine")
	if !ok {
		return nil, fmt.Errorf("highlight without startLine")
	}
	endLine, ok := msg.Int("endLine")
	if !ok {
		endLine = startLine
	}
	startChar, _ := msg.Int("startCharacter")
	endChar, ok := msg.Int("endCharacter")
	if !ok {
		endChar = defaultHighlightEnd
	}
	rng := protocol.Range{
		Start: protocol.Position{Line: lineIndex(startLine), Character: uint32(max(startChar, 0))},
		End:   protocol.Position{Line: lineIndex(endLine), Character: uint32(max(endChar, 0))},
	}
	session.Decorations.Add(id, rng, msg.String("message"))
	return []framework.Message{decorationsMessage(doc, session)}, nil
}

func lineIndex(line int) uint32 {
	if line < 0 {
		return 0
	}
	return uint32(line)
}

func decorationsMessage(doc *framework.Document, session *framework.Session) framework.Message {
	return framework.NewMessage(framework.MsgDecorations, map[string]any{
		"fileUri":     string(doc.URI),
		"decorations": session.Decorations.All(),
	})
}
