package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type suggestSource []suggestKey

type suggestKey struct {
	key   string
	entry int
}

func (s suggestSource) String(i int) string { return s[i].key }
func (s suggestSource) Len() int            { return len(s) }

// Suggest returns up to limit destination ids whose keys fuzzily match query,
// best first.
func (c *Catalog) Suggest(query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	source := make(suggestSource, 0, len(c.keys.refs))
	for _, ref := range c.keys.refs {
		source = append(source, suggestKey{key: ref.key, entry: ref.entry})
	}

	var out []string
	seen := make(map[int]bool)
	for _, match := range fuzzy.FindFrom(query, source) {
		entry := source[match.Index].entry
		if seen[entry] {
			continue
		}
		seen[entry] = true
		out = append(out, c.entries[entry].ID)
		if len(out) == limit {
			break
		}
	}
	return out
}
