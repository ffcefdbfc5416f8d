package patch

import "strings"

// MatchPolicy selects which occurrences of a search string an operation acts on.
type MatchPolicy int

const (
	// MatchFirst acts on the leftmost occurrence only.
	MatchFirst MatchPolicy = iota
	// MatchAll acts on every non-overlapping occurrence, scanning left to right.
	MatchAll
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchFirst:
		return "first"
	case MatchAll:
		return "all"
	default:
		return "unknown"
	}
}

// Exists reports whether probe occurs verbatim in document. An empty probe
// is always present.
func Exists(document, probe string) bool {
	return strings.Contains(document, probe)
}

// Find returns the spans of needle in document under policy. An empty needle
// matches nothing.
func Find(document, needle string, policy MatchPolicy) []Span {
	if needle == "" {
		return nil
	}
	var spans []Span
	from := 0
	for from <= len(document) {
		idx := strings.Index(document[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		spans = append(spans, Span{Start: start, End: start + len(needle)})
		if policy == MatchFirst {
			break
		}
		from = start + len(needle)
	}
	return spans
}

// FindAll returns every non-overlapping occurrence of needle.
func FindAll(document, needle string) []Span {
	return Find(document, needle, MatchAll)
}

// ReplaceAll returns one replace mutation per occurrence of find. The
// mutations form a single transaction for Apply.
func ReplaceAll(document, find, replace string) []Mutation {
	return ReplaceMatches(document, find, replace, MatchAll)
}

// ReplaceMatches is ReplaceAll with an explicit policy.
func ReplaceMatches(document, find, replace string, policy MatchPolicy) []Mutation {
	spans := Find(document, find, policy)
	if len(spans) == 0 {
		return nil
	}
	mutations := make([]Mutation, 0, len(spans))
	for _, span := range spans {
		mutations = append(mutations, Replace(span, replace))
	}
	return mutations
}
