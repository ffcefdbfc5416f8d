package workspacecfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/swizzle/framework/patch"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(ConfigFile(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, patch.DefaultRegistryBlock(), cfg.Block())
	assert.Equal(t, "typescript", cfg.Editor.DefaultLanguage)
	assert.Equal(t, ":3101", cfg.Server.Addr)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default("/srv/project")
	cfg.RegistryFile = "/frontend/src/RouteList.tsx"
	cfg.Registry = RegistryConfig{StartMarker: "{/*START*/}", EndMarker: "{/*END*/}"}
	cfg.Capabilities.RestoreNavigation = true
	require.NoError(t, Save(ConfigFile(dir), cfg))

	loaded, err := Load(ConfigFile(dir))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	session := loaded.SessionConfig()
	assert.Equal(t, "/srv/project", session.Workspace.Root)
	assert.Equal(t, "{/*END*/}", session.Registry.EndMarker)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := ConfigFile(t.TempDir())
	require.NoError(t, os.WriteFile(path, []byte("workspace: /code\nserver:\n  addr: :9000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/code", cfg.Workspace)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, patch.DefaultStartMarker, cfg.Registry.StartMarker)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("registry:\n  start_marker: X\n  end_marker: X\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("workspace: [\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	assert.Error(t, Save(path, nil))
	cfg := Default("")
	cfg.Workspace = " "
	assert.Error(t, Save(path, cfg))
}
