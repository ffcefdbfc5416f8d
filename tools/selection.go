package tools

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/lexcodex/swizzle/framework"
	"github.com/lexcodex/swizzle/framework/patch"
)

// SetSelectionTool records the editor selection and tells the parent page
// whether text is selected.
type SetSelectionTool struct{}

func (t *SetSelectionTool) Name() framework.MessageType { return framework.MsgSetSelection }
func (t *SetSelectionTool) Description() string         { return "Records the editor selection." }
func (t *SetSelectionTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	if _, ok := msg.Get("range"); !ok {
		session.ClearSelection()
		return []framework.Message{framework.NewMessage(framework.MsgDidUnselectRange, nil)}, nil
	}
	var rng protocol.Range
	if err := msg.Decode("range", &rng); err != nil {
		return nil, fmt.Errorf("decode range: %w", err)
	}
	if session.SetSelection(rng) {
		return []framework.Message{framework.NewMessage(framework.MsgDidSelectRange, map[string]any{"range": rng})}, nil
	}
	return []framework.Message{framework.NewMessage(framework.MsgDidUnselectRange, nil)}, nil
}

// GetSelectedTextTool returns the selected text. An empty string is sent
// when nothing is selected.
type GetSelectedTextTool struct{}

func (t *GetSelectedTextTool) Name() framework.MessageType { return framework.MsgGetSelectedText }
func (t *GetSelectedTextTool) Description() string         { return "Returns the selected text." }
func (t *GetSelectedTextTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	text := ""
	if doc, err := session.Active(); err == nil {
		if rng, ok := session.Selection(); ok {
			span := patch.SpanOf(doc.Text, rng)
			text = doc.Text[span.Start:span.End]
		}
	}
	return []framework.Message{framework.NewMessage(framework.MsgSelectedText, map[string]any{"selectedText": text})}, nil
}

// GetSelectedTextRangeTool returns the selection range, or null.
type GetSelectedTextRangeTool struct{}

func (t *GetSelectedTextRangeTool) Name() framework.MessageType {
	return framework.MsgGetSelectedRange
}
func (t *GetSelectedTextRangeTool) Description() string { return "Returns the selection range." }
func (t *GetSelectedTextRangeTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	var rng any
	if r, ok := session.Selection(); ok {
		rng = r
	}
	return []framework.Message{framework.NewMessage(framework.MsgSelectedTextRange, map[string]any{"range": rng})}, nil
}
