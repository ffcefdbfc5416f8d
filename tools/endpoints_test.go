package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/swizzle/framework"
	"github.com/lexcodex/swizzle/framework/patch"
)

const serverSource = "const app = express();\n" +
	"//SWIZZLE_ENDPOINTS_START\n" +
	"app.use('/users', require('./user-dependencies/get.users.js'));\n" +
	"//SWIZZLE_ENDPOINTS_END\n" +
	"app.listen(3000);\n"

func readWorkspaceFile(t *testing.T, session *framework.Session, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(session.Workspace.Root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func TestInsertEndpointOnDisk(t *testing.T) {
	session := newTestSession(t, map[string]string{"backend/server.ts": serverSource})
	entry := "app.use('/users/:id', require('./user-dependencies/get.users.(id).js'));"

	out := run(t, session, &InsertEndpointTool{}, map[string]any{"entry": entry})
	require.Equal(t, []framework.MessageType{framework.MsgEndpointsChanged}, types(out))
	assert.Equal(t, []string{
		"app.use('/users', require('./user-dependencies/get.users.js'));",
		entry,
	}, out[0].Fields["entries"])

	text := readWorkspaceFile(t, session, "backend/server.ts")
	entries, err := patch.DefaultRegistryBlock().Entries(text)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Empty(t, run(t, session, &InsertEndpointTool{}, map[string]any{"entry": entry}))

	run(t, session, &RemoveEndpointTool{}, map[string]any{"entry": entry})
	assert.Equal(t, serverSource, readWorkspaceFile(t, session, "backend/server.ts"))
	assert.Empty(t, run(t, session, &RemoveEndpointTool{}, map[string]any{"entry": entry}))
}

func TestInsertEndpointInActiveBuffer(t *testing.T) {
	session := newTestSession(t, map[string]string{"backend/server.ts": serverSource})
	run(t, session, &OpenFileTool{}, map[string]any{"fileName": "/backend/server.ts"})

	out := run(t, session, &InsertEndpointTool{}, map[string]any{
		"entry": "app.use('/orders', require('./user-dependencies/get.orders.js'));",
	})
	assert.Equal(t, []framework.MessageType{framework.MsgApplyEdits, framework.MsgEndpointsChanged}, types(out))
	assert.Contains(t, activeText(t, session), "'/orders'")
	assert.Equal(t, serverSource, readWorkspaceFile(t, session, "backend/server.ts"))
}

func TestInsertEndpointCustomMarkers(t *testing.T) {
	session := newTestSession(t, map[string]string{
		"frontend/src/RouteList.tsx": "<Routes>\n{/*START*/}\n{/*END*/}\n</Routes>\n",
	})
	run(t, session, &InsertEndpointTool{}, map[string]any{
		"fileName":    "/frontend/src/RouteList.tsx",
		"startMarker": "{/*START*/}",
		"endMarker":   "{/*END*/}",
		"entry":       `<Route path="/about" element={<About />} />`,
	})
	assert.Equal(t, "<Routes>\n{/*START*/}\n<Route path=\"/about\" element={<About />} />\n{/*END*/}\n</Routes>\n",
		readWorkspaceFile(t, session, "frontend/src/RouteList.tsx"))
}

func TestInsertEndpointMissingBlock(t *testing.T) {
	session := newTestSession(t, map[string]string{"backend/server.ts": "app.listen(3000);\n"})
	_, err := (&InsertEndpointTool{}).Execute(context.Background(), session,
		framework.NewMessage(framework.MsgInsertEndpoint, map[string]any{"entry": "app.use('/x', y);"}))
	assert.ErrorIs(t, err, patch.ErrBlockNotFound)
	assert.Equal(t, "app.listen(3000);\n", readWorkspaceFile(t, session, "backend/server.ts"))
}
