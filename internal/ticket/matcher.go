// Package ticket extracts issue-tracker keys from free-form text.
package ticket

import (
	"regexp"
	"sort"
	"strings"
)

// keyPattern matches PROJECT-123 style keys on word boundaries, any case.
var keyPattern = regexp.MustCompile(`(?i)\b([a-z]+)-(\d+)\b`)

// Matcher finds ticket keys in commit messages. Keys whose project prefix
// appears in the denylist are ignored, so vulnerability identifiers like
// CWE-79 or CVE-2024 never reach the issue tracker.
type Matcher struct {
	denylist map[string]struct{}
}

// NewMatcher builds a matcher with the given denied prefixes. Prefixes are
// compared case-insensitively.
func NewMatcher(denylist []string) *Matcher {
	denied := make(map[string]struct{}, len(denylist))
	for _, p := range denylist {
		denied[strings.ToUpper(p)] = struct{}{}
	}
	return &Matcher{denylist: denied}
}

// Extract returns the uppercased ticket keys found in text, in order of
// appearance, duplicates included.
func (m *Matcher) Extract(text string) []string {
	var keys []string
	for _, match := range keyPattern.FindAllStringSubmatch(text, -1) {
		prefix := strings.ToUpper(match[1])
		if _, denied := m.denylist[prefix]; denied {
			continue
		}
		keys = append(keys, prefix+"-"+match[2])
	}
	return keys
}

// ExtractAll returns the sorted, deduplicated union of keys across all
// messages.
func (m *Matcher) ExtractAll(messages []string) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, msg := range messages {
		for _, key := range m.Extract(msg) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
