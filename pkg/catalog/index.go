package catalog

import (
	"strings"

	"PortfolioVoice/internal/entity"
)

// Scope restricts a lookup to some kinds and, optionally, one parent.
type Scope struct {
	Kinds  []entity.Kind
	Parent string
}

func (s Scope) contains(e entity.DestinationEntry) bool {
	if s.Parent != "" && e.Parent != s.Parent {
		return false
	}
	if len(s.Kinds) == 0 {
		return true
	}
	for _, k := range s.Kinds {
		if k == e.Kind {
			return true
		}
	}
	return false
}

var (
	IndexSections = Scope{Kinds: []entity.Kind{entity.KindSection}}
	AboutSections = Scope{Kinds: []entity.Kind{entity.KindAboutSection}}
	Pages         = Scope{Kinds: []entity.Kind{entity.KindPage}}
	ProjectPages  = Scope{Kinds: []entity.Kind{entity.KindProjectPage}}
	FilterTags    = Scope{Kinds: []entity.Kind{entity.KindFilterTag}}
)

// SectionsOf scopes a lookup to the subsections of one project page.
func SectionsOf(project string) Scope {
	return Scope{Kinds: []entity.Kind{entity.KindProjectSection}, Parent: project}
}

// minContainedKey keeps short keys such as "ai" from matching any target
// that merely contains them.
const minContainedKey = 3

type keyRef struct {
	key   string
	entry int
}

// keyIndex maps every lookup key of an entry (id, slug, display name and
// aliases) in exact and lowercased form. Built once when the catalog loads.
type keyIndex struct {
	exact  map[string][]int
	folded map[string][]int
	refs   []keyRef
}

func newKeyIndex(entries []entity.DestinationEntry) *keyIndex {
	idx := &keyIndex{
		exact:  make(map[string][]int),
		folded: make(map[string][]int),
	}

	for i, e := range entries {
		seenExact := make(map[string]bool)
		seenFolded := make(map[string]bool)
		keys := append([]string{e.ID, e.Slug, e.DisplayName}, e.Aliases...)
		for _, key := range keys {
			key = strings.Join(strings.Fields(key), " ")
			if key == "" || seenExact[key] {
				continue
			}
			seenExact[key] = true
			idx.exact[key] = append(idx.exact[key], i)

			lower := strings.ToLower(key)
			if seenFolded[lower] {
				continue
			}
			seenFolded[lower] = true
			idx.folded[lower] = append(idx.folded[lower], i)
			idx.refs = append(idx.refs, keyRef{key: lower, entry: i})
		}
	}
	return idx
}

// Lookup resolves target against the entries in scopes, trying in turn an
// exact key, the key with hyphens and spaces swapped, a case-insensitive key
// and finally a key that contains or is contained in the target, the longest
// one within the earliest scope. Earlier scopes win within a step; a later
// step never beats an earlier one.
func (c *Catalog) Lookup(target string, scopes ...Scope) (entity.DestinationEntry, bool) {
	target = strings.Join(strings.Fields(target), " ")
	if target == "" {
		return entity.DestinationEntry{}, false
	}

	variants := swapVariants(target)

	steps := []func() (int, bool){
		func() (int, bool) { return c.pick(c.keys.exact[target], scopes) },
		func() (int, bool) {
			for _, v := range variants[1:] {
				if i, ok := c.pick(c.keys.exact[v], scopes); ok {
					return i, true
				}
			}
			return 0, false
		},
		func() (int, bool) {
			for _, v := range variants {
				if i, ok := c.pick(c.keys.folded[strings.ToLower(v)], scopes); ok {
					return i, true
				}
			}
			return 0, false
		},
		func() (int, bool) { return c.partial(variants, scopes) },
	}

	for _, step := range steps {
		if i, ok := step(); ok {
			return c.entries[i], true
		}
	}
	return entity.DestinationEntry{}, false
}

func swapVariants(target string) []string {
	out := []string{target}
	for _, v := range []string{
		strings.ReplaceAll(target, " ", "-"),
		strings.ReplaceAll(target, "-", " "),
	} {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

// pick returns the candidate in the earliest scope, first declared within it.
func (c *Catalog) pick(candidates []int, scopes []Scope) (int, bool) {
	if len(scopes) == 0 {
		if len(candidates) == 0 {
			return 0, false
		}
		return candidates[0], true
	}

	for _, scope := range scopes {
		for _, i := range candidates {
			if scope.contains(c.entries[i]) {
				return i, true
			}
		}
	}
	return 0, false
}

func (c *Catalog) rank(i int, scopes []Scope) int {
	if len(scopes) == 0 {
		return 0
	}
	for r, scope := range scopes {
		if scope.contains(c.entries[i]) {
			return r
		}
	}
	return -1
}

func (c *Catalog) partial(variants []string, scopes []Scope) (int, bool) {
	best, bestLen, bestRank := -1, 0, 0
	for _, ref := range c.keys.refs {
		r := c.rank(ref.entry, scopes)
		if r < 0 {
			continue
		}

		matched := false
		for _, v := range variants {
			v = strings.ToLower(v)
			if strings.Contains(ref.key, v) || (len(ref.key) >= minContainedKey && strings.Contains(v, ref.key)) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		switch {
		case best < 0,
			r < bestRank,
			r == bestRank && len(ref.key) > bestLen,
			r == bestRank && len(ref.key) == bestLen && ref.entry < best:
			best, bestLen, bestRank = ref.entry, len(ref.key), r
		}
	}
	return best, best >= 0
}
