package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lexcodex/swizzle/framework"
)

var errBinaryFile = errors.New("binary file detected")

// OpenFileTool makes a workspace file the active document. A dirty
// document it replaces is saved first.
type OpenFileTool struct{}

func (t *OpenFileTool) Name() framework.MessageType { return framework.MsgOpenFile }
func (t *OpenFileTool) Description() string {
	return "Opens a workspace file in the editor, saving the previous one."
}
func (t *OpenFileTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	name := msg.String("fileName")
	if name == "" {
		return nil, nil
	}
	path, err := session.Workspace.Resolve(name)
	if err != nil {
		return nil, err
	}
	var out []framework.Message
	if active, err := session.Active(); err == nil && active.Path == path {
		out = append(out, withReveal(framework.FileChangedMessage(active), msg))
		return out, nil
	}
	doc, err := LoadDocument(session, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if prev, err := session.Active(); err == nil {
		if err := SaveDocument(prev); err != nil {
			return nil, fmt.Errorf("save %s: %w", prev.Name, err)
		}
	}
	if prev := session.Open(doc); prev != nil {
		if closed, ok := framework.RouterLineMessage(prev, "closed"); ok {
			out = append(out, closed)
		}
	}
	out = append(out, withReveal(framework.FileChangedMessage(doc), msg))
	if opened, ok := framework.RouterLineMessage(doc, "open"); ok {
		out = append(out, opened)
	}
	return out, nil
}

func withReveal(changed framework.Message, msg framework.Message) framework.Message {
	line, okLine := msg.Int("line")
	column, okColumn := msg.Int("column")
	if okLine && okColumn && line > 0 && column > 0 {
		changed.Fields["reveal"] = map[string]int{"line": line, "character": column}
	}
	return changed
}

// NewFileTool accepts the parent page's newFile notice. The page creates
// the file through the backend, so nothing happens here.
type NewFileTool struct{}

func (t *NewFileTool) Name() framework.MessageType { return framework.MsgNewFile }
func (t *NewFileTool) Description() string         { return "Acknowledges a file created elsewhere." }
func (t *NewFileTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	return nil, nil
}

// CreateFileTool creates a workspace file, filling it from the starter
// template for its kind when no content is given, and opens it.
type CreateFileTool struct {
	Open *OpenFileTool
}

func (t *CreateFileTool) Name() framework.MessageType { return framework.MsgCreateFile }
func (t *CreateFileTool) Description() string {
	return "Creates a new file from content or a starter template."
}
func (t *CreateFileTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	name := msg.String("fileName")
	path, err := session.Workspace.Resolve(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("file %s already exists", name)
	}
	content := msg.String("content")
	if content == "" {
		content, _ = framework.StarterFor(name, msg.Bool("hasAuth"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	open := t.Open
	if open == nil {
		open = &OpenFileTool{}
	}
	return open.Execute(ctx, session, framework.NewMessage(framework.MsgOpenFile, map[string]any{"fileName": name}))
}

// SaveFileTool writes the active document to disk.
type SaveFileTool struct{}

func (t *SaveFileTool) Name() framework.MessageType { return framework.MsgSaveFile }
func (t *SaveFileTool) Description() string         { return "Saves the active document." }
func (t *SaveFileTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, nil
	}
	return nil, SaveDocument(doc)
}

// CloseFilesTool saves and closes the active document.
type CloseFilesTool struct{}

func (t *CloseFilesTool) Name() framework.MessageType { return framework.MsgCloseFiles }
func (t *CloseFilesTool) Description() string         { return "Saves and closes open documents." }
func (t *CloseFilesTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	doc, err := session.Active()
	if err != nil {
		return nil, nil
	}
	if err := SaveDocument(doc); err != nil {
		return nil, err
	}
	session.Close()
	if closed, ok := framework.RouterLineMessage(doc, "closed"); ok {
		return []framework.Message{closed}, nil
	}
	return nil, nil
}

// RemoveFileTool closes the active document when the parent page deleted
// its file. Unsaved changes are dropped.
type RemoveFileTool struct{}

func (t *RemoveFileTool) Name() framework.MessageType { return framework.MsgRemoveFile }
func (t *RemoveFileTool) Description() string         { return "Closes the editor of a removed file." }
func (t *RemoveFileTool) Execute(ctx context.Context, session *framework.Session, msg framework.Message) ([]framework.Message, error) {
	path, err := session.Workspace.Resolve(msg.String("fileName"))
	if err != nil {
		return nil, err
	}
	if doc, err := session.Active(); err == nil && doc.Path == path {
		session.Close()
	}
	return nil, nil
}

// LoadDocument reads path into a new document for session.
func LoadDocument(session *framework.Session, path string) (*framework.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !isText(data) {
		return nil, errBinaryFile
	}
	name := session.Workspace.Name(path)
	return &framework.Document{
		URI:        session.Workspace.URI(path),
		Name:       name,
		Path:       path,
		LanguageID: session.Editor.LanguageFor(name),
		Version:    1,
		Text:       string(data),
	}, nil
}

// SaveDocument writes doc to disk if it has unsaved changes.
func SaveDocument(doc *framework.Document) error {
	if doc == nil || !doc.Dirty {
		return nil
	}
	if err := os.WriteFile(doc.Path, []byte(doc.Text), 0o644); err != nil {
		return err
	}
	doc.Dirty = false
	return nil
}

func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	for _, b := range data {
		if b == 0 {
			return false
		}
	}
	return true
}
