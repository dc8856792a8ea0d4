package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"PortfolioVoice/internal/entity"
	"PortfolioVoice/pkg/nlp"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type fileEntry struct {
	ID          string               `yaml:"id"`
	Kind        entity.Kind          `yaml:"kind"`
	Page        string               `yaml:"page"`
	Anchor      string               `yaml:"anchor"`
	URL         string               `yaml:"url"`
	Filter      string               `yaml:"filter"`
	Parent      string               `yaml:"parent"`
	DisplayName string               `yaml:"display_name"`
	Description string               `yaml:"description"`
	External    bool                 `yaml:"external"`
	Aliases     []string             `yaml:"aliases"`
	Keywords    []entity.KeywordHint `yaml:"keywords"`
}

type file struct {
	IndexPage       string                   `yaml:"index_page"`
	AboutPage       string                   `yaml:"about_page"`
	Home            string                   `yaml:"home"`
	Fallback        string                   `yaml:"fallback"`
	Entries         []fileEntry              `yaml:"entries"`
	ProjectSections []entity.SectionTemplate `yaml:"project_sections"`
	Boosts          []entity.Boost           `yaml:"boosts"`
}

// Catalog is the read-only registry of voice destinations. It is safe for
// concurrent use once built.
type Catalog struct {
	entries   []entity.DestinationEntry
	byID      map[string]int
	byKind    map[entity.Kind][]int
	templates []entity.SectionTemplate
	boosts    []entity.Boost
	indexPage string
	aboutPage string
	home      string
	fallback  string
	keys      *keyIndex
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return build(f)
}

func build(f file) (*Catalog, error) {
	if f.IndexPage == "" {
		f.IndexPage = "index.html"
	}

	c := &Catalog{
		byID:      make(map[string]int),
		byKind:    make(map[entity.Kind][]int),
		indexPage: f.IndexPage,
		aboutPage: f.AboutPage,
		home:      f.Home,
		fallback:  f.Fallback,
	}

	for i := range f.ProjectSections {
		tpl := f.ProjectSections[i]
		if tpl.Slug == "" {
			return nil, fmt.Errorf("%w: project section %d has no slug", ErrInvalidCatalog, i)
		}
		if tpl.DisplayName == "" {
			tpl.DisplayName = tpl.Slug
		}
		tpl.KeywordHints = normalizeHints(tpl.KeywordHints)
		c.templates = append(c.templates, tpl)
	}

	lastProject := -1
	for i, fe := range f.Entries {
		if fe.Kind == entity.KindProjectPage {
			lastProject = i
		}
	}

	for i, fe := range f.Entries {
		if err := c.add(toEntry(fe)); err != nil {
			return nil, err
		}
		if i == lastProject {
			if err := c.expandProjectSections(); err != nil {
				return nil, err
			}
		}
	}

	for _, b := range f.Boosts {
		if b.ID == "" && b.Kind == "" {
			return nil, fmt.Errorf("%w: boost needs an id or a kind", ErrInvalidCatalog)
		}
		if b.ID != "" {
			if _, ok := c.byID[b.ID]; !ok {
				return nil, fmt.Errorf("%w: boost references unknown id %q", ErrInvalidCatalog, b.ID)
			}
		}
		if b.Kind != "" && !b.Kind.Valid() {
			return nil, fmt.Errorf("%w: boost references unknown kind %q", ErrInvalidCatalog, b.Kind)
		}
		phrases := make([]string, 0, len(b.Any))
		for _, p := range b.Any {
			if p = nlp.Normalize(p); p != "" {
				phrases = append(phrases, p)
			}
		}
		b.Any = phrases
		c.boosts = append(c.boosts, b)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	c.keys = newKeyIndex(c.entries)
	return c, nil
}

func toEntry(fe fileEntry) entity.DestinationEntry {
	e := entity.DestinationEntry{
		ID:           fe.ID,
		Kind:         fe.Kind,
		Page:         fe.Page,
		Anchor:       fe.Anchor,
		Parent:       fe.Parent,
		Slug:         slugOf(fe.ID),
		DisplayName:  fe.DisplayName,
		Description:  fe.Description,
		IsExternal:   fe.External,
		Aliases:      fe.Aliases,
		KeywordHints: normalizeHints(fe.Keywords),
	}
	if e.DisplayName == "" {
		e.DisplayName = fe.ID
	}

	switch {
	case fe.External:
		e.Locator = fe.URL
	case fe.Kind == entity.KindFilterTag:
		e.Locator = fe.Filter
		if e.Locator == "" {
			e.Locator = fe.ID
		}
	default:
		e.Locator = fe.Page + fe.Anchor
	}
	return e
}

func (c *Catalog) expandProjectSections() error {
	for _, idx := range c.byKind[entity.KindProjectPage] {
		project := c.entries[idx]
		for _, tpl := range c.templates {
			anchor := "#" + tpl.Slug
			err := c.add(entity.DestinationEntry{
				ID:          project.ID + "::" + tpl.Slug,
				Kind:        entity.KindProjectSection,
				Locator:     project.Page + anchor,
				Page:        project.Page,
				Anchor:      anchor,
				Parent:      project.ID,
				Slug:        tpl.Slug,
				DisplayName: project.DisplayName + " " + tpl.DisplayName,
				Aliases:     tpl.Aliases,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Catalog) add(e entity.DestinationEntry) error {
	if e.ID == "" {
		return fmt.Errorf("%w: entry %d has no id", ErrInvalidCatalog, len(c.entries))
	}
	if _, dup := c.byID[e.ID]; dup {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, e.ID)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: entry %q has unknown kind %q", ErrInvalidCatalog, e.ID, e.Kind)
	}
	if e.Locator == "" {
		return fmt.Errorf("%w: entry %q has no locator", ErrInvalidCatalog, e.ID)
	}

	c.byID[e.ID] = len(c.entries)
	c.byKind[e.Kind] = append(c.byKind[e.Kind], len(c.entries))
	c.entries = append(c.entries, e)
	return nil
}

func (c *Catalog) validate() error {
	for _, e := range c.entries {
		switch e.Kind {
		case entity.KindAboutSection:
			parent, ok := c.Entry(e.Parent)
			if !ok || parent.Kind != entity.KindPage {
				return fmt.Errorf("%w: about section %q references missing page %q", ErrInvalidCatalog, e.ID, e.Parent)
			}
		case entity.KindProjectSection:
			parent, ok := c.Entry(e.Parent)
			if !ok || parent.Kind != entity.KindProjectPage {
				return fmt.Errorf("%w: project section %q references missing project %q", ErrInvalidCatalog, e.ID, e.Parent)
			}
		}
		for _, hint := range e.KeywordHints {
			if hint.Weight < 0 {
				return fmt.Errorf("%w: entry %q has negative weight for %q", ErrInvalidCatalog, e.ID, hint.Phrase)
			}
		}
	}

	if _, ok := c.Entry(c.home); !ok {
		return fmt.Errorf("%w: home entry %q not found", ErrInvalidCatalog, c.home)
	}
	if _, ok := c.Entry(c.fallback); !ok {
		return fmt.Errorf("%w: fallback entry %q not found", ErrInvalidCatalog, c.fallback)
	}
	return nil
}

func normalizeHints(hints []entity.KeywordHint) []entity.KeywordHint {
	out := make([]entity.KeywordHint, 0, len(hints))
	for _, h := range hints {
		h.Phrase = nlp.Normalize(h.Phrase)
		if h.Phrase == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}

func slugOf(id string) string {
	if i := strings.LastIndex(id, "::"); i >= 0 {
		return id[i+2:]
	}
	return id
}

func (c *Catalog) Entry(id string) (entity.DestinationEntry, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return entity.DestinationEntry{}, false
	}
	return c.entries[idx], true
}

// Entries returns every destination in declaration order.
func (c *Catalog) Entries() []entity.DestinationEntry {
	out := make([]entity.DestinationEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) ByKind(kind entity.Kind) []entity.DestinationEntry {
	idxs := c.byKind[kind]
	out := make([]entity.DestinationEntry, 0, len(idxs))
	for _, idx := range idxs {
		out = append(out, c.entries[idx])
	}
	return out
}

func (c *Catalog) SectionTemplates() []entity.SectionTemplate {
	out := make([]entity.SectionTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) Boosts() []entity.Boost {
	out := make([]entity.Boost, len(c.boosts))
	copy(out, c.boosts)
	return out
}

func (c *Catalog) Home() entity.DestinationEntry {
	e, _ := c.Entry(c.home)
	return e
}

func (c *Catalog) Fallback() entity.DestinationEntry {
	e, _ := c.Entry(c.fallback)
	return e
}

func (c *Catalog) IndexPage() string {
	return c.indexPage
}

func (c *Catalog) AboutPage() string {
	return c.aboutPage
}
