// Package framework holds the editor state shared by every transport: the
// active document, its managed-region tracker, selection, highlights and
// diagnostics, plus the message model and tool registry the bridge routes
// parent-page messages through.
package framework

import (
	"errors"

	"github.com/google/uuid"
	"go.lsp.dev/protocol"

	"github.com/lexcodex/swizzle/framework/patch"
)

// ErrNoActiveDocument is returned by operations that need an open file.
var ErrNoActiveDocument = errors.New("no active document")

// SessionConfig carries the settings a session is created with.
type SessionConfig struct {
	Workspace    *Workspace
	Editor       EditorSettings
	Capabilities Capabilities
	Registry     patch.RegistryBlock
	// RegistryFile is the workspace file holding the endpoint registry block.
	RegistryFile string
}

// Session holds the editor state for one bridge: the single active document,
// the managed-region tracker that belongs to it, the selection, comment
// highlights, and diagnostics published by the language tooling.
//
// Session is not safe for concurrent use; the bridge serializes access.
type Session struct {
	ID           string
	Workspace    *Workspace
	Editor       EditorSettings
	Capabilities Capabilities
	Registry     patch.RegistryBlock
	RegistryFile string
	Decorations  *Decorations

	active      *Document
	tracker     *patch.Tracker
	selection   *protocol.Range
	diagnostics map[protocol.DocumentURI][]protocol.Diagnostic
}

// NewSession builds a session with no open document.
func NewSession(cfg SessionConfig) *Session {
	ws := cfg.Workspace
	if ws == nil {
		ws = NewWorkspace("")
	}
	editor := cfg.Editor
	if editor.DefaultLanguage == "" && len(editor.Associations) == 0 {
		editor = DefaultEditorSettings()
	}
	registry := cfg.Registry
	if registry.StartMarker == "" || registry.EndMarker == "" {
		registry = patch.DefaultRegistryBlock()
	}
	return &Session{
		ID:           uuid.NewString(),
		Workspace:    ws,
		Editor:       editor,
		Capabilities: cfg.Capabilities,
		Registry:     registry,
		RegistryFile: cfg.RegistryFile,
		Decorations:  NewDecorations(),
		diagnostics:  make(map[protocol.DocumentURI][]protocol.Diagnostic),
	}
}

// Active returns the open document.
func (s *Session) Active() (*Document, error) {
	if s.active == nil {
		return nil, ErrNoActiveDocument
	}
	return s.active, nil
}

// Open makes doc the active document and returns the one it replaced. The
// new document gets a fresh tracker, selection and highlight set.
func (s *Session) Open(doc *Document) *Document {
	prev := s.active
	s.active = doc
	s.tracker = patch.NewTracker()
	s.selection = nil
	s.Decorations.Reset()
	return prev
}

// Close closes the active document and returns it, or nil if none was open.
func (s *Session) Close() *Document {
	prev := s.active
	s.active = nil
	s.tracker = nil
	s.selection = nil
	s.Decorations.Reset()
	return prev
}

// Tracker returns the managed-region tracker of the active document.
func (s *Session) Tracker() (*patch.Tracker, error) {
	if s.active == nil {
		return nil, ErrNoActiveDocument
	}
	if s.tracker == nil {
		s.tracker = patch.NewTracker()
	}
	return s.tracker, nil
}

// Selection returns the current selection, if any.
func (s *Session) Selection() (protocol.Range, bool) {
	if s.selection == nil {
		return protocol.Range{}, false
	}
	return *s.selection, true
}

// SetSelection records the editor selection. It reports whether the
// selection spans text.
func (s *Session) SetSelection(rng protocol.Range) bool {
	s.selection = &rng
	return rng.Start != rng.End
}

// ClearSelection forgets the selection.
func (s *Session) ClearSelection() {
	s.selection = nil
}

// SetDiagnostics replaces the diagnostics published for uri.
func (s *Session) SetDiagnostics(uri protocol.DocumentURI, diags []protocol.Diagnostic) {
	if len(diags) == 0 {
		delete(s.diagnostics, uri)
		return
	}
	s.diagnostics[uri] = diags
}

// Diagnostics returns the diagnostics published for uri.
func (s *Session) Diagnostics(uri protocol.DocumentURI) []protocol.Diagnostic {
	return s.diagnostics[uri]
}

// AllDiagnostics returns every published diagnostic keyed by document.
func (s *Session) AllDiagnostics() map[protocol.DocumentURI][]protocol.Diagnostic {
	out := make(map[protocol.DocumentURI][]protocol.Diagnostic, len(s.diagnostics))
	for k, v := range s.diagnostics {
		out[k] = v
	}
	return out
}
