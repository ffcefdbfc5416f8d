package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/swizzle/cmd/internal/workspacecfg"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "swizzle.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPrependCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "get.users.ts", "body\n")

	_, err := execute(t, "", "prepend", "-f", path, "--content", "import a;\n")
	require.NoError(t, err)
	assert.Equal(t, "import a;\nbody\n", readFile(t, path))

	_, err = execute(t, "", "prepend", "-f", path, "--content", "import b;\n", "--previous", "import a;\n")
	require.NoError(t, err)
	assert.Equal(t, "import b;\nbody\n", readFile(t, path))

	_, err = execute(t, "", "prepend", "-f", path, "--previous", "import b;\n")
	require.NoError(t, err)
	assert.Equal(t, "body\n", readFile(t, path))

	out, err := execute(t, "body\n", "prepend", "-f", "-", "--content", "x\n")
	require.NoError(t, err)
	assert.Equal(t, "x\nbody\n", out)

	_, err = execute(t, "", "prepend")
	assert.Error(t, err)
}

func TestPrependReadsBlocksFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "get.users.ts", "import old;\nbody\n")
	previous := writeFile(t, dir, "previous.txt", "import old;\n")

	_, err := execute(t, "import new;\n", "prepend", "-f", path, "--content-file", "-", "--previous-file", previous)
	require.NoError(t, err)
	assert.Equal(t, "import new;\nbody\n", readFile(t, path))

	out, err := execute(t, "", "prepend", "-f", path, "--previous", "import new;\n", "--content-file", " ", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "body\n", out)
}

func TestEndpointCommands(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "backend/server.ts", "//SWIZZLE_ENDPOINTS_START\n//SWIZZLE_ENDPOINTS_END\n")

	_, err := execute(t, "", "endpoint", "add", "-f", path,
		"app.use('/users/:id', require('./get.users.(id).js'));",
		"app.use('/users', require('./get.users.js'));",
		"app.use('/users', require('./get.users.js'));")
	require.NoError(t, err)
	assert.Equal(t, "//SWIZZLE_ENDPOINTS_START\n"+
		"app.use('/users', require('./get.users.js'));\n"+
		"app.use('/users/:id', require('./get.users.(id).js'));\n"+
		"//SWIZZLE_ENDPOINTS_END\n", readFile(t, path))

	out, err := execute(t, "", "endpoint", "list", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))

	_, err = execute(t, "", "endpoint", "remove", "-f", path, "app.use('/users', require('./get.users.js'));")
	require.NoError(t, err)
	assert.NotContains(t, readFile(t, path), "'/users',")

	_, err = execute(t, "", "endpoint", "add", "-f", writeFile(t, dir, "plain.ts", "x"), "app.use('/a', b);")
	assert.Error(t, err)
	assert.Equal(t, "x", readFile(t, filepath.Join(dir, "plain.ts")))
}

func TestEndpointUsesConfiguredRegistryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "backend/server.ts", "//SWIZZLE_ENDPOINTS_START\n//SWIZZLE_ENDPOINTS_END\n")

	_, err := execute(t, "", "--workspace", dir, "endpoint", "add", "app.use('/a', b);")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "backend", "server.ts")), "app.use('/a', b);")
}

func TestReplaceCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.ts", "foo foo foo")

	out, err := execute(t, "", "replace", "-f", path, "--find", "foo", "--replace", "bar", "--first", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "bar foo foo", out)
	assert.Equal(t, "foo foo foo", readFile(t, path))

	_, err = execute(t, "", "replace", "-f", path, "--find", "foo", "--replace", "bar")
	require.NoError(t, err)
	assert.Equal(t, "bar bar bar", readFile(t, path))
}

func TestInspectAndLabelCommands(t *testing.T) {
	path := writeFile(t, t.TempDir(), "post.users.ts",
		"router.post('/users', requiredAuthentication, async (request, response) => {});\n")

	out, err := execute(t, "", "inspect", path)
	require.NoError(t, err)
	var reports []inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "POST /users", reports[0].TabLabel)
	assert.True(t, reports[0].Facts.HasPassportAuth)
	assert.Equal(t, "typescript", reports[0].Language)

	out, err = execute(t, "", "label", "/frontend/src/pages/SwizzleHomePage.tsx", "get.a.cron.nightly.ts")
	require.NoError(t, err)
	assert.Equal(t, "/frontend/src/pages/SwizzleHomePage.tsx\t/\nget.a.cron.nightly.ts\t⏲ nightly.ts\n", out)
}

func TestStarterCommand(t *testing.T) {
	out, err := execute(t, "", "starter", "endpoint", "--method", "post", "--endpoint", "/orders")
	require.NoError(t, err)
	assert.Contains(t, out, "router.post('/orders'")

	out, err = execute(t, "", "starter", "--for", "/frontend/src/components/Card.tsx", "--auth")
	require.NoError(t, err)
	assert.Contains(t, out, "useAuthUser")

	_, err = execute(t, "", "starter")
	assert.Error(t, err)
	_, err = execute(t, "", "starter", "component")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "swizzle.yaml")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "--workspace", dir, "config", "init"})
	require.NoError(t, root.Execute())

	cfg, err := workspacecfg.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Workspace)

	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "config", "init"})
	assert.Error(t, root.Execute())

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "config", "show"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "registry_file: /backend/server.ts")
}
