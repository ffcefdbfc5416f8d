package tools

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/lexcodex/swizzle/framework"
	"github.com/lexcodex/swizzle/framework/patch"
)

var errNoSelection = errors.New("no selection")

var leadingSpace = regexp.MustCompile(`^\s*`)

// DocumentChangedTool records buffer contents reported by the editor so
// later edits are computed against what the user actually sees.
type DocumentChangedTool struct{}

func (t *DocumentChangedTool) Name() framework.MessageType { return framework.MsgDocumentChanged }
func (t *DocumentChangedTool) Description() string {
	return "Synchronizes the buffer with the editor contents."
}
func (t *DocumentChangedTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, err
	}
	if uri := msg.String("fileUri"); uri != "" && uri != string(doc.URI) {
		return nil, nil
	}
	version, _ := msg.Int("version")
	doc.Sync(msg.String("text"), int32(version))
	return nil, nil
}

// FindAndReplaceTool replaces every occurrence of findText in the active
// document.
type FindAndReplaceTool struct{}

func (t *FindAndReplaceTool) Name() framework.MessageType { return framework.MsgFindAndReplace }
func (t *FindAndReplaceTool) Description() string {
	return "Replaces all occurrences of a string in the active document."
}
func (t *FindAndReplaceTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, err
	}
	mutations := patch.ReplaceAll(doc.Text, msg.String("findText"), msg.String("replaceText"))
	return applyMutations(doc, mutations)
}

// PrependTextTool swaps the managed block at the top of the active document
// for content. Empty content removes the block.
type PrependTextTool struct{}

func (t *PrependTextTool) Name() framework.MessageType { return framework.MsgPrependText }
func (t *PrependTextTool) Description() string {
	return "Inserts or replaces the managed block at the top of the document."
}
func (t *PrependTextTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	return upsertManaged(session, msg.String("content"))
}

// UpsertImportTool prepends an import block unless importStatement already
// appears in the document. The statement is matched on its own so a trailing
// comment on the same line does not defeat the check.
type UpsertImportTool struct{}

func (t *UpsertImportTool) Name() framework.MessageType { return framework.MsgUpsertImport }
func (t *UpsertImportTool) Description() string {
	return "Prepends an import block when the statement is missing."
}
func (t *UpsertImportTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, err
	}
	tracker, err := session.Tracker()
	if err != nil {
		return nil, err
	}
	if tracker.Exists(doc.Text, msg.String("importStatement")) {
		return nil, nil
	}
	return upsertManaged(session, msg.String("content"))
}

// ReplaceTextTool replaces the whole active document.
type ReplaceTextTool struct{}

func (t *ReplaceTextTool) Name() framework.MessageType { return framework.MsgReplaceText }
func (t *ReplaceTextTool) Description() string         { return "Replaces the entire document." }
func (t *ReplaceTextTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, err
	}
	content := msg.String("content")
	if content == doc.Text {
		return nil, nil
	}
	edits := doc.SetText(content)
	return []framework.Message{doc.EditsMessage(edits)}, nil
}

// ReplaceSelectedTextTool replaces the selection with content, keeping the
// selection's leading whitespace and trailing newline so indentation
// survives.
type ReplaceSelectedTextTool struct{}

func (t *ReplaceSelectedTextTool) Name() framework.MessageType {
	return framework.MsgReplaceSelectedText
}
func (t *ReplaceSelectedTextTool) Description() string {
	return "Replaces the selected text, preserving indentation."
}
func (t *ReplaceSelectedTextTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, err
	}
	rng, ok := session.Selection()
	if !ok {
		return nil, errNoSelection
	}
	span := patch.SpanOf(doc.Text, rng)
	selected := doc.Text[span.Start:span.End]
	prefix := leadingSpace.FindString(selected)
	suffix := ""
	if strings.HasSuffix(selected, "\n") {
		suffix = "\n"
	}
	return applyMutations(doc, []patch.Mutation{patch.Replace(span, prefix+msg.String("content")+suffix)})
}

func upsertManaged(session *framework.Session, content string) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, err
	}
	tracker, err := session.Tracker()
	if err != nil {
		return nil, err
	}
	return applyMutations(doc, tracker.Upsert(doc.Text, content))
}

func applyMutations(doc *framework.Document, mutations []patch.Mutation) ([]framework.Message, error) {
	if len(mutations) == 0 {
		return nil, nil
	}
	edits, err := doc.Apply(mutations)
	if err != nil {
		return nil, err
	}
	return []framework.Message{doc.EditsMessage(edits)}, nil
}
