package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/lexcodex/swizzle/framework"
)

// PublishDiagnosticsTool stores diagnostics reported by the language tooling.
type PublishDiagnosticsTool struct{}

func (t *PublishDiagnosticsTool) Name() framework.MessageType { return framework.MsgPublishDiagnostics }
func (t *PublishDiagnosticsTool) Description() string {
	return "Stores diagnostics for a document."
}
func (t *PublishDiagnosticsTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	var params protocol.PublishDiagnosticsParams
	data, err := json.Marshal(msg.Fields)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode diagnostics: %w", err)
	}
	if params.URI == "" {
		if doc, err := session.Active(); err == nil {
			params.URI = doc.URI
		}
	}
	if params.URI == "" {
		return nil, fmt.Errorf("diagnostics without uri")
	}
	session.SetDiagnostics(params.URI, params.Diagnostics)
	return nil, nil
}

// GetFileErrorsTool reports the diagnostics of the active file and of the
// whole workspace. Both lists are sent as JSON strings, which is what the
// parent page parses.
type GetFileErrorsTool struct{}

func (t *GetFileErrorsTool) Name() framework.MessageType { return framework.MsgGetFileErrors }
func (t *GetFileErrorsTool) Description() string {
	return "Returns diagnostics for the active file and all files."
}
func (t *GetFileErrorsTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	this := []protocol.Diagnostic{}
	if doc, err := session.Active(); err == nil {
		if diags := session.Diagnostics(doc.URI); diags != nil {
			this = diags
		}
	}
	all := session.AllDiagnostics()
	thisJSON, err := json.Marshal(this)
	if err != nil {
		return nil, err
	}
	allJSON, err := json.Marshal(all)
	if err != nil {
		return nil, err
	}
	return []framework.Message{framework.NewMessage(framework.MsgFileErrors, map[string]any{
		"thisFilesErrors": string(thisJSON),
		"allFilesErrors":  string(allJSON),
	})}, nil
}
