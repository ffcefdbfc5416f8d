package cliutils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/swizzle/cmd/internal/workspacecfg"
	"github.com/lexcodex/swizzle/framework"
)

func TestNewLoggerLevels(t *testing.T) {
	logger, err := NewLogger(false, "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
	assert.True(t, logger.Core().Enabled(1))

	logger, err = NewLogger(true, "error")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = NewLogger(false, "loud")
	assert.Error(t, err)
}

func TestBuildBridgeUsesConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.ts"), []byte("x"), 0o644))
	cfg := workspacecfg.Default(root)

	bridge, err := BuildBridge(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, root, bridge.Session.Workspace.Root)
	assert.Equal(t, "/backend/server.ts", bridge.Session.RegistryFile)

	replies := bridge.Dispatch(context.Background(), framework.NewMessage(framework.MsgOpenFile, map[string]any{"fileName": "/a.ts"}))
	require.Len(t, replies, 1)
	assert.Equal(t, framework.MsgFileChanged, replies[0].Type)
}

func TestReadInput(t *testing.T) {
	got, err := ReadInput("-", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o644))
	got, err = ReadInput(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from file", got)

	got, err = ReadOptionalInput(" ", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteFileAtomicKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.ts")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	require.NoError(t, WriteFileAtomic(path, "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
