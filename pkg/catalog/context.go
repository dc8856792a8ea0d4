package catalog

import (
	"strings"

	"PortfolioVoice/internal/entity"
)

// ContextFor derives the page flags for the page at currentPath. It accepts
// bare file names, site paths and full URLs; an empty file is the index page.
func (c *Catalog) ContextFor(currentPath string) entity.PageContext {
	page := c.PageFile(currentPath)
	_, onProject := c.ProjectForPage(page)

	return entity.PageContext{
		CurrentPageID:   page,
		IsOnIndexPage:   page == c.indexPage,
		IsOnProjectPage: onProject,
		IsOnAboutPage:   c.aboutPage != "" && page == c.aboutPage,
	}
}

func (c *Catalog) PageFile(currentPath string) string {
	p := strings.TrimSpace(currentPath)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return c.indexPage
	}
	return p
}

// ProjectForPage returns the project page entry served by the given file.
func (c *Catalog) ProjectForPage(page string) (entity.DestinationEntry, bool) {
	for _, idx := range c.byKind[entity.KindProjectPage] {
		if c.entries[idx].Page == page {
			return c.entries[idx], true
		}
	}
	return entity.DestinationEntry{}, false
}

// InferProject finds the project whose id appears in pageName. The longest
// id wins so "oracle-ai.html" maps to oracle-ai rather than oracle.
func (c *Catalog) InferProject(pageName string) (entity.DestinationEntry, bool) {
	name := strings.ToLower(pageName)
	best := -1
	for _, idx := range c.byKind[entity.KindProjectPage] {
		id := strings.ToLower(c.entries[idx].ID)
		if !strings.Contains(name, id) {
			continue
		}
		if best < 0 || len(id) > len(c.entries[best].ID) {
			best = idx
		}
	}
	if best < 0 {
		return entity.DestinationEntry{}, false
	}
	return c.entries[best], true
}
