package framework

import (
	"regexp"
	"strings"
)

var (
	routerLinePattern    = regexp.MustCompile(`(?m)^router\.(?:get|post|put|patch|delete).*$`)
	swizzleImportPattern = regexp.MustCompile(`import\s+{[^}]*}\s+from\s+['"]swizzle-js['"];?`)
)

// FileFacts are the content heuristics reported to the parent page whenever
// the active file changes.
type FileFacts struct {
	HasPassportAuth bool   `json:"hasPassportAuth"`
	HasGetDb        bool   `json:"hasGetDb"`
	HasNotification bool   `json:"hasNotification"`
	HasStorage      bool   `json:"hasStorage"`
	SwizzleImport   string `json:"swizzleImportStatement,omitempty"`
	RouterLine      string `json:"routerLine,omitempty"`
}

// Inspect scans endpoint source for the markers the parent page toggles UI on.
func Inspect(text string) FileFacts {
	return FileFacts{
		HasPassportAuth: strings.Contains(text, "requiredAuthentication, async"),
		HasGetDb:        strings.Contains(text, "import { db } = from 'swizzle-js'"),
		HasNotification: strings.Contains(text, "import { sendNotification } = from 'swizzle-js'"),
		HasStorage:      strings.Contains(text, "import { saveFile, getFile, deleteFile } = from 'swizzle-js'"),
		SwizzleImport:   swizzleImportPattern.FindString(text),
		RouterLine:      RouterLine(text),
	}
}

// RouterLine returns the first line that registers an express route
// ("router.get(...)"), or "" when there is none.
func RouterLine(text string) string {
	return strings.TrimRight(routerLinePattern.FindString(text), "\r")
}

// FileChangedMessage builds the message announcing doc as the active file.
func FileChangedMessage(doc *Document) Message {
	facts := Inspect(doc.Text)
	label := doc.Name
	if label == "" {
		label = doc.Path
	}
	fields := map[string]any{
		"fileUri":                string(doc.URI),
		"fileName":               doc.Name,
		"languageId":             string(doc.LanguageID),
		"tabLabel":               TabLabel(label),
		"hasPassportAuth":        facts.HasPassportAuth,
		"hasGetDb":               facts.HasGetDb,
		"hasNotification":        facts.HasNotification,
		"hasStorage":             facts.HasStorage,
		"swizzleImportStatement": nil,
	}
	if facts.SwizzleImport != "" {
		fields["swizzleImportStatement"] = facts.SwizzleImport
	}
	return NewMessage(MsgFileChanged, fields)
}

// RouterLineMessage reports the route registered by doc. ok is false when
// the file registers no route. state is "open" or "closed".
func RouterLineMessage(doc *Document, state string) (Message, bool) {
	line := RouterLine(doc.Text)
	if line == "" {
		return Message{}, false
	}
	return NewMessage(MsgRouterLine, map[string]any{
		"fileUri":    string(doc.URI),
		"routerLine": line,
		"fileState":  state,
	}), true
}
