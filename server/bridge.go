package server

import (
	"context"
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/lexcodex/swizzle/framework"
)

// hostMessages are parent-page messages aimed at IDE chrome the bridge does
// not own. They are accepted and dropped.
var hostMessages = map[framework.MessageType]bool{
	"closeSearchView": true,
	"openSearchView":  true,
	"openDebugger":    true,
	"closeDebugger":   true,
	"runCommand":      true,
	"saveCookie":      true,
}

// Bridge routes parent-page messages to editor tools against a single
// session. Dispatch calls are serialized; replies are returned to the caller
// while asynchronous events (file reloads, readiness) are queued and pushed
// to subscribers.
type Bridge struct {
	Registry *framework.ToolRegistry
	Session  *framework.Session
	Logger   *zap.Logger

	mu          sync.Mutex
	events      []framework.Message
	subscribers map[int]func(framework.Message)
	nextSub     int
}

// NewBridge wires a registry to a session. A nil logger disables logging.
func NewBridge(registry *framework.ToolRegistry, session *framework.Session, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		Registry:    registry,
		Session:     session,
		Logger:      logger,
		subscribers: make(map[int]func(framework.Message)),
	}
}

// Dispatch handles one inbound message and returns the replies. Tool
// failures are reported as an error message rather than returned, so one bad
// request never tears down a transport.
func (b *Bridge) Dispatch(ctx context.Context, msg framework.Message) []framework.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	log := b.Logger.With(zap.String("type", string(msg.Type)), zap.String("session", b.Session.ID))
	if hostMessages[msg.Type] {
		log.Debug("ignoring host message")
		return nil
	}
	replies, err := b.Registry.Execute(ctx, b.Session, msg)
	if errors.Is(err, framework.ErrUnknownMessage) {
		log.Debug("no handler for message")
		return nil
	}
	if err != nil {
		log.Warn("message failed", zap.Error(err))
		return []framework.Message{framework.ErrorMessage(msg.Type, err)}
	}
	log.Debug("message handled", zap.Int("replies", len(replies)))
	return replies
}

// Ready queues the extensionReady announcement.
func (b *Bridge) Ready() {
	b.Publish(framework.NewMessage(framework.MsgExtensionReady, map[string]any{
		"sessionId":    b.Session.ID,
		"capabilities": b.Session.Capabilities,
	}))
}

// maxQueuedEvents bounds the queue kept for pollers; older events are
// dropped first.
const maxQueuedEvents = 256

// Publish hands events to every subscriber. Without subscribers the events
// are queued for Drain instead.
func (b *Bridge) Publish(msgs ...framework.Message) {
	if len(msgs) == 0 {
		return
	}
	b.mu.Lock()
	if len(b.subscribers) == 0 {
		b.events = append(b.events, msgs...)
		if over := len(b.events) - maxQueuedEvents; over > 0 {
			b.Logger.Debug("dropping queued events", zap.Int("dropped", over))
			b.events = append([]framework.Message(nil), b.events[over:]...)
		}
	}
	subs := make([]func(framework.Message), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	b.mu.Unlock()
	for _, fn := range subs {
		for _, m := range msgs {
			fn(m)
		}
	}
}

// Drain returns and clears the queued events.
func (b *Bridge) Drain() []framework.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// Subscribe registers fn for future events. The returned function removes it.
func (b *Bridge) Subscribe(fn func(framework.Message)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextSub
	b.nextSub++
	b.subscribers[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
	}
}

// DocumentSnapshot is the read-only view of the active document served to
// callers outside the dispatch loop.
type DocumentSnapshot struct {
	URI        string `json:"fileUri"`
	Name       string `json:"fileName"`
	LanguageID string `json:"languageId"`
	Version    int32  `json:"version"`
	Text       string `json:"text"`
	Dirty      bool   `json:"dirty"`
}

// Document returns a copy of the active document.
func (b *Bridge) Document() (DocumentSnapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, err := b.Session.Active()
	if err != nil {
		return DocumentSnapshot{}, false
	}
	return DocumentSnapshot{
		URI:        string(doc.URI),
		Name:       doc.Name,
		LanguageID: string(doc.LanguageID),
		Version:    doc.Version,
		Text:       doc.Text,
		Dirty:      doc.Dirty,
	}, true
}

// ActivePath returns the file system path of the active document.
func (b *Bridge) ActivePath() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, err := b.Session.Active()
	if err != nil {
		return "", false
	}
	return doc.Path, true
}

// Reload re-reads path from disk when it is the active document and the
// buffer has no unsaved changes. It reports whether the buffer changed and
// publishes fileChanged when it did.
func (b *Bridge) Reload(path string) (bool, error) {
	b.mu.Lock()
	doc, err := b.Session.Active()
	if err != nil || doc.Path != path || doc.Dirty {
		b.mu.Unlock()
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		b.mu.Unlock()
		return false, err
	}
	if string(data) == doc.Text {
		b.mu.Unlock()
		return false, nil
	}
	doc.Sync(string(data), doc.Version+1)
	doc.Dirty = false
	changed := framework.FileChangedMessage(doc)
	name := doc.Name
	b.mu.Unlock()

	b.Logger.Info("reloaded document from disk", zap.String("file", name))
	b.Publish(changed)
	return true, nil
}
