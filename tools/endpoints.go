package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/lexcodex/swizzle/framework"
	"github.com/lexcodex/swizzle/framework/patch"
)

// InsertEndpointTool adds a route line to the endpoint registry block. A
// line whose route is already registered is left alone.
type InsertEndpointTool struct{}

func (t *InsertEndpointTool) Name() framework.MessageType { return framework.MsgInsertEndpoint }
func (t *InsertEndpointTool) Description() string {
	return "Registers an endpoint in the sorted registry block."
}
func (t *InsertEndpointTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	entry := msg.String("entry")
	if entry == "" {
		return nil, fmt.Errorf("insertEndpoint without entry")
	}
	return patchRegistry(session, msg, func(block patch.RegistryBlock, doc string) (string, bool, error) {
		return block.Upsert(doc, entry)
	})
}

// RemoveEndpointTool drops a route line from the endpoint registry block.
type RemoveEndpointTool struct{}

func (t *RemoveEndpointTool) Name() framework.MessageType { return framework.MsgRemoveEndpoint }
func (t *RemoveEndpointTool) Description() string {
	return "Removes an endpoint from the registry block."
}
func (t *RemoveEndpointTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	matcher := msg.String("entry")
	if matcher == "" {
		return nil, fmt.Errorf("removeEndpoint without entry")
	}
	return patchRegistry(session, msg, func(block patch.RegistryBlock, doc string) (string, bool, error) {
		out, err := block.Remove(doc, matcher)
		return out, out != doc, err
	})
}

type registryEdit func(block patch.RegistryBlock, doc string) (string, bool, error)

// patchRegistry runs edit against the registry file. When that file is the
// active document the buffer is edited and the editor receives the change;
// otherwise the file is rewritten on disk.
func patchRegistry(session *framework.Session, msg framework.Message, edit registryEdit) ([]framework.Message, error) {
	block := session.Registry
	if start := msg.String("startMarker"); start != "" {
		block.StartMarker = start
	}
	if end := msg.String("endMarker"); end != "" {
		block.EndMarker = end
	}
	name := msg.String("fileName")
	if name == "" {
		name = session.RegistryFile
	}
	if name == "" {
		return nil, fmt.Errorf("no endpoint registry file configured")
	}
	path, err := session.Workspace.Resolve(name)
	if err != nil {
		return nil, err
	}

	if doc, err := session.Active(); err == nil && doc.Path == path {
		next, changed, err := edit(block, doc.Text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if !changed {
			return nil, nil
		}
		edits := doc.SetText(next)
		return []framework.Message{doc.EditsMessage(edits), endpointsMessage(block, name, next)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	next, changed, err := edit(block, string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if !changed {
		return nil, nil
	}
	if err := os.WriteFile(path, []byte(next), 0o644); err != nil {
		return nil, err
	}
	return []framework.Message{endpointsMessage(block, name, next)}, nil
}

func endpointsMessage(block patch.RegistryBlock, name, document string) framework.Message {
	entries, _ := block.Entries(document)
	if entries == nil {
		entries = []string{}
	}
	return framework.NewMessage(framework.MsgEndpointsChanged, map[string]any{
		"fileName": name,
		"entries":  entries,
	})
}
