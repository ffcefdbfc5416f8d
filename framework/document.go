package framework

import (
	"go.lsp.dev/protocol"

	"github.com/lexcodex/swizzle/framework/patch"
)

// Document is the buffer currently open in the editor.
type Document struct {
	URI        protocol.DocumentURI
	Name       string
	Path       string
	LanguageID protocol.LanguageIdentifier
	Version    int32
	Text       string
	Dirty      bool
}

// Apply applies mutations as one transaction and returns the equivalent
// text edits, computed against the text before the change, for the editor
// to mirror. A failed apply leaves the document untouched.
func (d *Document) Apply(mutations []patch.Mutation) ([]protocol.TextEdit, error) {
	if len(mutations) == 0 {
		return nil, nil
	}
	next, err := patch.Apply(d.Text, mutations)
	if err != nil {
		return nil, err
	}
	edits := patch.TextEdits(d.Text, mutations)
	d.Text = next
	d.Version++
	d.Dirty = true
	return edits, nil
}

// SetText replaces the whole buffer and returns the single edit covering the
// previous contents.
func (d *Document) SetText(text string) []protocol.TextEdit {
	edits := patch.TextEdits(d.Text, []patch.Mutation{
		patch.Replace(patch.Span{Start: 0, End: len(d.Text)}, text),
	})
	d.Text = text
	d.Version++
	d.Dirty = true
	return edits
}

// Sync records text reported by the editor itself. No edits are produced
// because the editor already shows it.
func (d *Document) Sync(text string, version int32) {
	if text == d.Text {
		return
	}
	d.Text = text
	if version > d.Version {
		d.Version = version
	} else {
		d.Version++
	}
	d.Dirty = true
}

// EditsMessage wraps edits in an applyEdits message for the editor.
func (d *Document) EditsMessage(edits []protocol.TextEdit) Message {
	return NewMessage(MsgApplyEdits, map[string]any{
		"fileUri": string(d.URI),
		"version": d.Version,
		"edits":   edits,
	})
}
