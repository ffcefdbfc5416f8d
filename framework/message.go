package framework

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownMessage is returned when no tool is registered for a message type.
var ErrUnknownMessage = errors.New("unknown message type")

// MessageType is the "type" tag carried by every message exchanged with the
// parent frame.
type MessageType string

// Inbound message types, sent by the parent page or the editor.
const (
	MsgOpenFile            MessageType = "openFile"
	MsgNewFile             MessageType = "newFile"
	MsgCreateFile          MessageType = "createFile"
	MsgSaveFile            MessageType = "saveFile"
	MsgCloseFiles          MessageType = "closeFiles"
	MsgRemoveFile          MessageType = "removeFile"
	MsgDocumentChanged     MessageType = "documentChanged"
	MsgSetSelection        MessageType = "setSelection"
	MsgFindAndReplace      MessageType = "findAndReplace"
	MsgUpsertImport        MessageType = "upsertImport"
	MsgPrependText         MessageType = "prependText"
	MsgReplaceText         MessageType = "replaceText"
	MsgGetSelectedText     MessageType = "getSelectedText"
	MsgGetSelectedRange    MessageType = "getSelectedTextRange"
	MsgReplaceSelectedText MessageType = "replaceSelectedText"
	MsgPublishDiagnostics  MessageType = "publishDiagnostics"
	MsgGetFileErrors       MessageType = "getFileErrors"
	MsgHighlightLine       MessageType = "highlightLine"
	MsgInsertEndpoint      MessageType = "insertEndpoint"
	MsgRemoveEndpoint      MessageType = "removeEndpoint"
)

// Outbound message types, posted back to the parent page.
const (
	MsgExtensionReady    MessageType = "extensionReady"
	MsgFileChanged       MessageType = "fileChanged"
	MsgRouterLine        MessageType = "routerLine"
	MsgApplyEdits        MessageType = "applyEdits"
	MsgSelectedText      MessageType = "selectedText"
	MsgSelectedTextRange MessageType = "selectedTextRange"
	MsgDidSelectRange    MessageType = "didSelectRange"
	MsgDidUnselectRange  MessageType = "didUnselectRange"
	MsgFileErrors        MessageType = "fileErrors"
	MsgEndpointsChanged  MessageType = "endpointsChanged"
	MsgDecorations       MessageType = "decorationsChanged"
	MsgError             MessageType = "error"
)

// Message is a postMessage payload: a type tag plus arbitrary fields. On the
// wire it is a flat JSON object, {"type": "...", ...fields}.
type Message struct {
	Type   MessageType
	Fields map[string]any
}

// NewMessage builds a message. fields may be nil.
func NewMessage(t MessageType, fields map[string]any) Message {
	if fields == nil {
		fields = map[string]any{}
	}
	return Message{Type: t, Fields: fields}
}

// ErrorMessage reports a failed inbound message back to the parent frame.
func ErrorMessage(source MessageType, err error) Message {
	return NewMessage(MsgError, map[string]any{
		"source":  string(source),
		"message": err.Error(),
	})
}

// MarshalJSON flattens the message into a single object.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Fields)+1)
	for k, v := range m.Fields {
		out[k] = v
	}
	out["type"] = string(m.Type)
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat object and splits off the type tag.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, _ := raw["type"].(string)
	if t == "" {
		return errors.New("message missing type")
	}
	delete(raw, "type")
	m.Type = MessageType(t)
	m.Fields = raw
	return nil
}

// Get returns a raw field value.
func (m Message) Get(key string) (any, bool) {
	v, ok := m.Fields[key]
	return v, ok
}

// String returns a string field, or "" when absent or not a string.
func (m Message) String(key string) string {
	v, ok := m.Fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns an integer field. JSON numbers arrive as float64; numeric
// strings are accepted too.
func (m Message) Int(key string) (int, bool) {
	switch v := m.Fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// Bool returns a boolean field, false when absent.
func (m Message) Bool(key string) bool {
	b, _ := m.Fields[key].(bool)
	return b
}

// Decode re-encodes a field into v. It is used for structured fields such as
// ranges and diagnostics.
func (m Message) Decode(key string, v any) error {
	raw, ok := m.Fields[key]
	if !ok {
		return fmt.Errorf("field %q missing", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
