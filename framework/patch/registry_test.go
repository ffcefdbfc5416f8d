package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertEntryFallbackReverseOrder(t *testing.T) {
	doc := "//START\napp.use(a)\napp.use(b)\n//END"
	out, err := InsertEntry(doc, "//START", "//END", "app.use(c)")
	require.NoError(t, err)
	assert.Equal(t, "//START\napp.use(c)\napp.use(b)\napp.use(a)\n//END", out)
}

func TestInsertEntryOrdersBySegmentCount(t *testing.T) {
	doc := "<Routes>\n{/*START*/}\n<A/>\n<B path=\"/x\"/>\n<C path=\"/x/:y\"/>\n{/*END*/}\n</Routes>\n"
	out, err := InsertEntry(doc, "{/*START*/}", "{/*END*/}", `<D path="/x/y/z"/>`)
	require.NoError(t, err)

	block := NewRegistryBlock("{/*START*/}", "{/*END*/}")
	entries, err := block.Entries(out)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"<A/>",
		`<B path="/x"/>`,
		`<C path="/x/:y"/>`,
		`<D path="/x/y/z"/>`,
	}, entries)
	assert.True(t, strings.HasPrefix(out, "<Routes>\n{/*START*/}\n"))
	assert.True(t, strings.HasSuffix(out, "{/*END*/}\n</Routes>\n"))
}

func TestInsertEntryOrderingProperty(t *testing.T) {
	doc := DefaultStartMarker + "\n" +
		"router.get('/a/b/c', h);\n" +
		"router.get('/a', h);\n" +
		"router.post('/a/:id', h);\n" +
		"router.get('/a/b', h);\n" +
		DefaultEndMarker
	out, err := InsertEntry(doc, DefaultStartMarker, DefaultEndMarker, "router.delete('/z', h);")
	require.NoError(t, err)

	entries, err := DefaultRegistryBlock().Entries(out)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, SegmentCount(entries[i-1]), SegmentCount(entries[i]), entries)
	}
}

func TestSortEntriesLiteralBeforeParameter(t *testing.T) {
	entries := []string{
		`app.get("/users/:id", h)`,
		`app.get("/users/me", h)`,
		`app.get("/users/(id)", h)`,
	}
	SortEntries(entries)
	assert.Equal(t, `app.get("/users/me", h)`, entries[0])
}

func TestInsertEntryKeepsLiteralDuplicates(t *testing.T) {
	doc := "//S\n//E"
	once, err := InsertEntry(doc, "//S", "//E", "app.use(a)")
	require.NoError(t, err)
	twice, err := InsertEntry(once, "//S", "//E", "app.use(a)")
	require.NoError(t, err)
	assert.Equal(t, "//S\napp.use(a)\napp.use(a)\n//E", twice)
}

func TestRegistryUpsertDeduplicatesByKey(t *testing.T) {
	block := NewRegistryBlock("//S", "//E")
	doc := "//S\nrouter.get('/users', h);\n//E"

	out, changed, err := block.Upsert(doc, "router.get('/users', other);")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, doc, out)

	out, changed, err = block.Upsert(doc, "router.get('/teams', h);")
	require.NoError(t, err)
	assert.True(t, changed)
	ok, err := block.Contains(out, "router.get('/teams', h);")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInsertEntryBlockNotFound(t *testing.T) {
	doc := "no markers here\n"
	out, err := InsertEntry(doc, "//S", "//E", "app.use(a)")
	assert.ErrorIs(t, err, ErrBlockNotFound)
	assert.Equal(t, doc, out)

	_, err = InsertEntry("//S only", "//S", "//E", "x")
	assert.ErrorIs(t, err, ErrBlockNotFound)

	_, err = InsertEntry("//E\n//S", "//S", "//E", "x")
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestInsertEntryTrimsAndDropsBlankLines(t *testing.T) {
	doc := "head\n//S\n\n   app.use(b)  \n\t\n//E\ntail"
	out, err := InsertEntry(doc, "//S", "//E", "  app.use(a)  ")
	require.NoError(t, err)
	assert.Equal(t, "head\n//S\napp.use(b)\napp.use(a)\n//E\ntail", out)
}

func TestRemoveEntry(t *testing.T) {
	doc := "//S\nrouter.get('/users', h);\nrouter.get('/users/:id', h);\n//E\n"

	out, err := RemoveEntry(doc, "//S", "//E", "/users/:id")
	require.NoError(t, err)
	assert.Equal(t, "//S\nrouter.get('/users', h);\n//E\n", out)

	out, err = RemoveEntry(out, "//S", "//E", "router.get('/users', h);")
	require.NoError(t, err)
	assert.Equal(t, "//S\n//E\n", out)

	same, err := RemoveEntry(out, "//S", "//E", "/missing")
	require.NoError(t, err)
	assert.Equal(t, out, same)

	_, err = RemoveEntry("plain", "//S", "//E", "x")
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestEntryKey(t *testing.T) {
	cases := map[string]string{
		`<Route path="/x/:y" element={<C/>}/>`:                      "/x/:y",
		`router.post('/users', requiredAuthentication, h)`:          "/users",
		`app.use(require("./user-dependencies/get.users.(id).js"))`: "get.users.(id)",
		`import Home from './pages/SwizzleHomePage';`:               "SwizzleHomePage",
		`  app.use(a)  `: "app.use(a)",
	}
	for line, want := range cases {
		assert.Equal(t, want, EntryKey(line), line)
	}
}

func TestSegmentCount(t *testing.T) {
	assert.Equal(t, 0, SegmentCount("app.use(a)"))
	assert.Equal(t, 1, SegmentCount(`<B path="/x"/>`))
	assert.Equal(t, 3, SegmentCount(`router.get("/x/y/z", h)`))
}
