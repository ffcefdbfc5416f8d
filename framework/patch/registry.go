package patch

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

// ErrBlockNotFound is returned when a document lacks the start or end marker
// of a registry block. It means the generated scaffold is damaged; callers
// should surface it rather than retry.
var ErrBlockNotFound = errors.New("registry block not found")

const (
	DefaultStartMarker = "//SWIZZLE_ENDPOINTS_START"
	DefaultEndMarker   = "//SWIZZLE_ENDPOINTS_END"
)

var (
	pathAttrPattern  = regexp.MustCompile("\\bpath\\s*=\\s*\\{?\\s*[\"'`]([^\"'`]*)[\"'`]")
	routeCallPattern = regexp.MustCompile("\\.(?:get|post|put|patch|delete|all|use)\\(\\s*[\"'`](/[^\"'`]*)[\"'`]")
	modulePattern    = regexp.MustCompile("(?:require\\(\\s*|from\\s+)[\"'`]([^\"'`]+)[\"'`]")
)

// RegistryBlock is a marker-delimited section of a document holding one
// registration statement per line.
type RegistryBlock struct {
	StartMarker string
	EndMarker   string
}

// NewRegistryBlock returns a block bounded by the given markers.
func NewRegistryBlock(startMarker, endMarker string) RegistryBlock {
	return RegistryBlock{StartMarker: startMarker, EndMarker: endMarker}
}

// DefaultRegistryBlock returns the block used by generated server scaffolds.
func DefaultRegistryBlock() RegistryBlock {
	return NewRegistryBlock(DefaultStartMarker, DefaultEndMarker)
}

// InsertEntry appends entry to the block and re-sorts it. The entry is added
// even when an identical line already exists; use RegistryBlock.Upsert to skip
// entries whose key is present.
func InsertEntry(document, startMarker, endMarker, entry string) (string, error) {
	return NewRegistryBlock(startMarker, endMarker).Insert(document, entry)
}

// RemoveEntry drops the first line matching matcher from the block.
func RemoveEntry(document, startMarker, endMarker, matcher string) (string, error) {
	return NewRegistryBlock(startMarker, endMarker).Remove(document, matcher)
}

// Entries returns the trimmed, non-blank lines inside the block in file order.
func (b RegistryBlock) Entries(document string) ([]string, error) {
	loc, err := b.locate(document)
	if err != nil {
		return nil, err
	}
	return splitEntries(document[loc.interior.Start:loc.interior.End]), nil
}

// Insert appends entry, sorts the block and splices it back into document.
// On error the original document is returned unchanged.
func (b RegistryBlock) Insert(document, entry string) (string, error) {
	loc, err := b.locate(document)
	if err != nil {
		return document, err
	}
	entries := splitEntries(document[loc.interior.Start:loc.interior.End])
	if line := strings.TrimSpace(entry); line != "" {
		entries = append(entries, line)
	}
	SortEntries(entries)
	return b.splice(document, loc, entries), nil
}

// Upsert inserts entry unless a line with the same EntryKey is already in
// the block. The boolean reports whether the document changed.
func (b RegistryBlock) Upsert(document, entry string) (string, bool, error) {
	entries, err := b.Entries(document)
	if err != nil {
		return document, false, err
	}
	key := EntryKey(entry)
	for _, existing := range entries {
		if EntryKey(existing) == key {
			return document, false, nil
		}
	}
	out, err := b.Insert(document, entry)
	if err != nil {
		return document, false, err
	}
	return out, true, nil
}

// Remove drops the first line whose trimmed text equals matcher or whose
// EntryKey equals the key of matcher. A missing line is not an error; the
// document is returned unchanged.
func (b RegistryBlock) Remove(document, matcher string) (string, error) {
	loc, err := b.locate(document)
	if err != nil {
		return document, err
	}
	entries := splitEntries(document[loc.interior.Start:loc.interior.End])
	want := strings.TrimSpace(matcher)
	key := EntryKey(matcher)
	for i, line := range entries {
		if line == want || EntryKey(line) == key {
			entries = append(entries[:i], entries[i+1:]...)
			return b.splice(document, loc, entries), nil
		}
	}
	return document, nil
}

// Contains reports whether the block holds a line with the same key as entry.
func (b RegistryBlock) Contains(document, entry string) (bool, error) {
	entries, err := b.Entries(document)
	if err != nil {
		return false, err
	}
	key := EntryKey(entry)
	for _, line := range entries {
		if EntryKey(line) == key {
			return true, nil
		}
	}
	return false, nil
}

type blockLocation struct {
	block    Span
	interior Span
}

func (b RegistryBlock) locate(document string) (blockLocation, error) {
	if b.StartMarker == "" || b.EndMarker == "" {
		return blockLocation{}, fmt.Errorf("%w: empty marker", ErrBlockNotFound)
	}
	start := strings.Index(document, b.StartMarker)
	if start < 0 {
		return blockLocation{}, fmt.Errorf("%w: missing %q", ErrBlockNotFound, b.StartMarker)
	}
	interiorStart := start + len(b.StartMarker)
	rel := strings.Index(document[interiorStart:], b.EndMarker)
	if rel < 0 {
		return blockLocation{}, fmt.Errorf("%w: missing %q", ErrBlockNotFound, b.EndMarker)
	}
	interiorEnd := interiorStart + rel
	return blockLocation{
		block:    Span{Start: start, End: interiorEnd + len(b.EndMarker)},
		interior: Span{Start: interiorStart, End: interiorEnd},
	}, nil
}

func (b RegistryBlock) splice(document string, loc blockLocation, entries []string) string {
	var sb strings.Builder
	sb.WriteString(document[:loc.block.Start])
	sb.WriteString(b.StartMarker)
	sb.WriteByte('\n')
	if len(entries) > 0 {
		sb.WriteString(strings.Join(entries, "\n"))
		sb.WriteByte('\n')
	}
	sb.WriteString(b.EndMarker)
	sb.WriteString(document[loc.block.End:])
	return sb.String()
}

func splitEntries(interior string) []string {
	var entries []string
	for _, line := range strings.Split(interior, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries
}

// SortEntries orders registration lines so that a router scanning them top
// to bottom sees shallower paths first. Lines are ranked by SegmentCount;
// ties, including lines with no route path, are ordered by descending string
// comparison, which puts literal segments ahead of ":" and "(" parameters.
func SortEntries(entries []string) {
	sort.SliceStable(entries, func(i, j int) bool {
		ci, cj := SegmentCount(entries[i]), SegmentCount(entries[j])
		if ci != cj {
			return ci < cj
		}
		return entries[i] > entries[j]
	})
}

// RoutePath extracts the route path declared by a registration line, either
// a path="..." attribute or the first argument of a router method call.
func RoutePath(line string) (string, bool) {
	if m := pathAttrPattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := routeCallPattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// SegmentCount returns the number of "/" characters in the route path of
// line, or 0 when the line declares no path.
func SegmentCount(line string) int {
	p, ok := RoutePath(line)
	if !ok {
		return 0
	}
	return strings.Count(p, "/")
}

// EntryKey is the identity used to detect duplicate registrations: the route
// path when one is declared, otherwise the module name of a required or
// imported file, otherwise the trimmed line itself.
func EntryKey(line string) string {
	if p, ok := RoutePath(line); ok {
		return p
	}
	if m := modulePattern.FindStringSubmatch(line); m != nil {
		base := path.Base(m[1])
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return strings.TrimSpace(line)
}
