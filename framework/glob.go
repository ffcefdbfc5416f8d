package framework

import (
	"path/filepath"
	"regexp"
	"strings"
)

// MatchGlob supports both filepath.Match and the '**' recursive glob pattern.
func MatchGlob(pattern, value string) bool {
	if pattern == "" {
		return false
	}
	if pattern == "**" {
		return true
	}
	pattern = filepath.ToSlash(pattern)
	value = filepath.ToSlash(value)
	if !strings.Contains(pattern, "**") {
		ok, err := filepath.Match(pattern, value)
		if err != nil {
			return false
		}
		if !ok && !strings.Contains(pattern, "/") {
			// Association patterns like "*.ts" apply to the base name.
			ok, _ = filepath.Match(pattern, filepath.Base(value))
		}
		return ok
	}
	regex, err := regexp.Compile(globToRegex(pattern))
	if err != nil {
		return false
	}
	return regex.MatchString(value)
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch ch {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString(".")
		case '.', '+', '(', ')', '|', '^', '$', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
			b.WriteRune(ch)
		default:
			b.WriteRune(ch)
		}
	}
	b.WriteString("$")
	return b.String()
}
