package framework

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"go.lsp.dev/protocol"
)

// ErrOutsideWorkspace is returned when a requested path resolves outside the
// workspace root.
var ErrOutsideWorkspace = errors.New("path outside workspace")

// DefaultWorkspaceRoot is where generated projects are mounted in the IDE
// container.
const DefaultWorkspaceRoot = "/swizzle/code"

// Workspace maps the slash-prefixed file names used by the parent page
// ("/backend/user-dependencies/get.users.ts") onto the local file system.
type Workspace struct {
	Root string
}

// NewWorkspace returns a workspace rooted at root, or DefaultWorkspaceRoot
// when root is empty.
func NewWorkspace(root string) *Workspace {
	if root == "" {
		root = DefaultWorkspaceRoot
	}
	return &Workspace{Root: filepath.Clean(root)}
}

// Resolve joins name onto the root and rejects results that escape it.
func (w *Workspace) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty file name", ErrOutsideWorkspace)
	}
	rel := filepath.FromSlash(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	full := filepath.Join(w.Root, rel)
	if !w.Contains(full) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, name)
	}
	return full, nil
}

// Contains reports whether path lies inside the root.
func (w *Workspace) Contains(path string) bool {
	rel, err := filepath.Rel(w.Root, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Name converts an absolute path back into the slash-prefixed form the
// parent page uses.
func (w *Workspace) Name(path string) string {
	rel, err := filepath.Rel(w.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return "/" + filepath.ToSlash(rel)
}

// URI returns the file:// URI of an absolute path.
func (w *Workspace) URI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(PathToURI(path))
}

// PathToURI converts a file system path into a file:// URI.
func PathToURI(path string) string {
	path = filepath.Clean(path)
	if runtime.GOOS == "windows" {
		path = strings.ReplaceAll(path, "\\", "/")
		return "file:///" + strings.ReplaceAll(path, ":", "%3A")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + path
}

// EditorSettings mirrors the preferences the IDE is configured with: the
// default language and tab size, plus glob-to-language associations.
type EditorSettings struct {
	DefaultLanguage string            `yaml:"default_language" json:"default_language"`
	TabSize         int               `yaml:"tab_size" json:"tab_size"`
	Associations    map[string]string `yaml:"associations" json:"associations"`
}

// DefaultEditorSettings returns the stock associations for generated projects.
func DefaultEditorSettings() EditorSettings {
	return EditorSettings{
		DefaultLanguage: "typescript",
		TabSize:         2,
		Associations: map[string]string{
			"*.ts":   "typescript",
			"*.tsx":  "typescriptreact",
			"*.js":   "javascript",
			"*.jsx":  "javascriptreact",
			"*.json": "jsonc",
			"*.md":   "markdown",
			"*.mdx":  "markdown",
			"*.html": "html",
			"*.css":  "css",
			"*.scss": "scss",
		},
	}
}

// LanguageFor picks the language of path from the associations, falling back
// to the default language. Longer patterns win so "*.d.ts" can override "*.ts".
func (s EditorSettings) LanguageFor(path string) protocol.LanguageIdentifier {
	patterns := make([]string, 0, len(s.Associations))
	for p := range s.Associations {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	for _, p := range patterns {
		if MatchGlob(p, path) {
			return protocol.LanguageIdentifier(s.Associations[p])
		}
	}
	return protocol.LanguageIdentifier(s.DefaultLanguage)
}

// Capabilities describes optional host behaviour.
type Capabilities struct {
	// RestoreNavigation allows the host to restore cursor and scroll state
	// when a file is reopened. The bridge leaves it off so the parent page
	// controls where the editor lands.
	RestoreNavigation bool `yaml:"restore_navigation" json:"restoreNavigation"`
}
