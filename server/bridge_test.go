package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/swizzle/framework"
)

func openInBridge(t *testing.T, bridge *Bridge, name string) {
	t.Helper()
	replies := bridge.Dispatch(context.Background(), framework.NewMessage(framework.MsgOpenFile, map[string]any{"fileName": name}))
	require.NotEmpty(t, replies)
	require.Equal(t, framework.MsgFileChanged, replies[0].Type)
}

func TestBridgeSubscribe(t *testing.T) {
	bridge := newTestBridge(t, nil)
	var got []framework.MessageType
	unsubscribe := bridge.Subscribe(func(m framework.Message) { got = append(got, m.Type) })
	bridge.Ready()
	unsubscribe()
	bridge.Ready()

	assert.Equal(t, []framework.MessageType{framework.MsgExtensionReady}, got)
	assert.Len(t, bridge.Drain(), 1)
}

func TestBridgeQueueIsBounded(t *testing.T) {
	bridge := newTestBridge(t, nil)
	for i := 0; i < maxQueuedEvents+10; i++ {
		bridge.Publish(framework.NewMessage(framework.MsgFileChanged, map[string]any{"seq": i}))
	}
	events := bridge.Drain()
	require.Len(t, events, maxQueuedEvents)
	assert.Equal(t, 10, events[0].Fields["seq"])
	assert.Equal(t, maxQueuedEvents+9, events[len(events)-1].Fields["seq"])
	assert.Empty(t, bridge.Drain())
}

func TestBridgeReload(t *testing.T) {
	bridge := newTestBridge(t, map[string]string{"backend/get.users.ts": usersEndpoint})
	openInBridge(t, bridge, "/backend/get.users.ts")
	path, ok := bridge.ActivePath()
	require.True(t, ok)

	changed, err := bridge.Reload(path)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("router.get('/users', requiredAuthentication, async (request, response) => {});\n"), 0o644))
	changed, err = bridge.Reload(path)
	require.NoError(t, err)
	assert.True(t, changed)
	events := bridge.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, "GET /users", events[0].String("tabLabel"))
	assert.Equal(t, true, events[0].Fields["hasPassportAuth"])

	bridge.Dispatch(context.Background(), framework.NewMessage(framework.MsgReplaceText, map[string]any{"content": "local edit"}))
	require.NoError(t, os.WriteFile(path, []byte("external edit"), 0o644))
	changed, err = bridge.Reload(path)
	require.NoError(t, err)
	assert.False(t, changed)
	doc, _ := bridge.Document()
	assert.Equal(t, "local edit", doc.Text)

	changed, err = bridge.Reload(filepath.Join(filepath.Dir(path), "other.ts"))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestWatcherReloadsExternalWrites(t *testing.T) {
	bridge := newTestBridge(t, map[string]string{"backend/get.users.ts": usersEndpoint})
	openInBridge(t, bridge, "/backend/get.users.ts")
	path, _ := bridge.ActivePath()

	watcher, err := NewWatcher(bridge, nil)
	require.NoError(t, err)
	watcher.debounce = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	require.Eventually(t, func() bool {
		watcher.mu.Lock()
		defer watcher.mu.Unlock()
		return watcher.dir == filepath.Dir(path)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("router.delete('/users', x);\n"), 0o644))
	assert.Eventually(t, func() bool {
		doc, ok := bridge.Document()
		return ok && doc.Text == "router.delete('/users', x);\n"
	}, 2*time.Second, 20*time.Millisecond)
}
