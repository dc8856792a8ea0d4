package resolver

import (
	"fmt"
	"strings"
	"time"

	"PortfolioVoice/internal/entity"
	"PortfolioVoice/pkg/catalog"
)

const (
	FilterRetryWindow   = 2 * time.Second
	FilterRetryInterval = 100 * time.Millisecond

	suggestionLimit = 3
)

const (
	AdvisoryUnclear  = "Command unclear, taking you to the closest match"
	advisoryFallback = "Couldn't find %s, navigating to %s instead"
)

// Policy controls how remote intents below Threshold are reported. They are
// always resolved.
type Policy struct {
	Threshold     float64
	ReportUnclear bool
}

func DefaultPolicy() Policy {
	return Policy{Threshold: 0.4, ReportUnclear: true}
}

// Linker turns an external locator into the link handed to the page, for
// example a presigned download url.
type Linker interface {
	Link(locator string) (string, error)
}

type IResolver interface {
	Resolve(intent entity.Intent, pageCtx entity.PageContext) entity.Resolution
}

type resolver struct {
	catalog *catalog.Catalog
	policy  Policy
	linker  Linker
}

// New builds a resolver. A nil linker hands external locators through as is.
func New(cat *catalog.Catalog, policy Policy, linker Linker) IResolver {
	return &resolver{
		catalog: cat,
		policy:  policy,
		linker:  linker,
	}
}

// Resolve maps intent to at least one navigation effect. It never fails:
// anything it cannot place goes to the catalog's fallback destination.
func (r *resolver) Resolve(intent entity.Intent, pageCtx entity.PageContext) entity.Resolution {
	res := r.resolve(intent, pageCtx)

	if intent.Source == entity.SourceRemote && intent.Confidence < r.policy.Threshold {
		res.LowConfidence = true
		if r.policy.ReportUnclear && res.Advisory == "" {
			res.Advisory = AdvisoryUnclear
		}
	}
	return res
}

func (r *resolver) resolve(intent entity.Intent, pageCtx entity.PageContext) entity.Resolution {
	target := strings.TrimSpace(intent.Target)

	switch intent.Action {
	case entity.ActionGoHome:
		return r.goHome(pageCtx)

	case entity.ActionNavigateSection:
		if entry, ok := r.lookupSection(target, pageCtx); ok {
			return r.goTo(entry, pageCtx)
		}

	case entity.ActionNavigatePage:
		if entry, ok := r.catalog.Lookup(target, catalog.Pages, catalog.ProjectPages); ok {
			return r.goTo(entry, pageCtx)
		}

	case entity.ActionNavigateProject:
		if entry, ok := r.catalog.Lookup(target, catalog.ProjectPages); ok {
			return r.goTo(entry, pageCtx)
		}

	case entity.ActionNavigateProjectSection:
		if entry, ok := r.lookupProjectSection(target, pageCtx); ok {
			return r.goTo(entry, pageCtx)
		}
		if entry, ok := r.lookupSection(target, pageCtx); ok {
			return r.goTo(entry, pageCtx)
		}

	case entity.ActionFilterProjects:
		if entry, ok := r.catalog.Lookup(target, catalog.FilterTags); ok {
			return r.filter(entry, pageCtx)
		}
	}

	return r.fallback(target, pageCtx)
}

func (r *resolver) goHome(pageCtx entity.PageContext) entity.Resolution {
	home := r.catalog.Home()
	if pageCtx.IsOnIndexPage {
		return entity.Resolution{
			Effects: []entity.NavigationEffect{scroll(home.Anchor)},
			Target:  home.ID,
		}
	}
	return entity.Resolution{
		Effects: []entity.NavigationEffect{redirect(r.catalog.IndexPage())},
		Target:  home.ID,
	}
}

func (r *resolver) lookupSection(target string, pageCtx entity.PageContext) (entity.DestinationEntry, bool) {
	if pageCtx.IsOnAboutPage {
		return r.catalog.Lookup(target, catalog.AboutSections, catalog.IndexSections, catalog.Pages)
	}
	return r.catalog.Lookup(target, catalog.IndexSections, catalog.AboutSections, catalog.Pages)
}

// lookupProjectSection accepts "project::section" or a bare section name.
// A bare name needs a project: the current project page, or a project whose
// id appears in the current page name.
func (r *resolver) lookupProjectSection(target string, pageCtx entity.PageContext) (entity.DestinationEntry, bool) {
	if project, section, ok := strings.Cut(target, "::"); ok {
		p, found := r.catalog.Lookup(project, catalog.ProjectPages)
		if !found {
			return entity.DestinationEntry{}, false
		}
		return r.catalog.Lookup(section, catalog.SectionsOf(p.ID))
	}

	project, ok := r.catalog.ProjectForPage(pageCtx.CurrentPageID)
	if !ok {
		project, ok = r.catalog.InferProject(pageCtx.CurrentPageID)
	}
	if !ok {
		return entity.DestinationEntry{}, false
	}
	return r.catalog.Lookup(target, catalog.SectionsOf(project.ID))
}

func (r *resolver) goTo(entry entity.DestinationEntry, pageCtx entity.PageContext) entity.Resolution {
	res := entity.Resolution{Target: entry.ID}

	switch {
	case entry.IsExternal:
		res.Effects = []entity.NavigationEffect{{
			Kind:    entity.EffectOpenExternal,
			Payload: r.link(entry.Locator),
		}}
	case entry.Kind == entity.KindFilterTag:
		return r.filter(entry, pageCtx)
	case entry.Page == pageCtx.CurrentPageID:
		res.Effects = []entity.NavigationEffect{scroll(entry.Anchor)}
	case entry.Anchor != "":
		res.Effects = []entity.NavigationEffect{{
			Kind:    entity.EffectRedirectToPageWithAnchor,
			Payload: entry.Page + entry.Anchor,
		}}
	default:
		res.Effects = []entity.NavigationEffect{redirect(entry.Page)}
	}
	return res
}

func (r *resolver) filter(entry entity.DestinationEntry, pageCtx entity.PageContext) entity.Resolution {
	apply := entity.NavigationEffect{
		Kind:    entity.EffectApplyFilter,
		Payload: entry.Locator,
	}

	if pageCtx.IsOnIndexPage {
		return entity.Resolution{
			Effects: []entity.NavigationEffect{apply},
			Target:  entry.ID,
		}
	}

	apply.Deferred = true
	apply.RetryWindow = FilterRetryWindow
	apply.RetryInterval = FilterRetryInterval
	return entity.Resolution{
		Effects: []entity.NavigationEffect{redirect(r.catalog.IndexPage()), apply},
		Target:  entry.ID,
	}
}

func (r *resolver) fallback(target string, pageCtx entity.PageContext) entity.Resolution {
	dest := r.catalog.Fallback()
	res := r.goTo(dest, pageCtx)
	res.Fallback = true

	name := target
	if name == "" {
		name = "that"
	}
	res.Advisory = fmt.Sprintf(advisoryFallback, name, strings.ToLower(dest.DisplayName))

	if target != "" {
		res.Suggestions = r.catalog.Suggest(target, suggestionLimit)
	}
	return res
}

func (r *resolver) link(locator string) string {
	if r.linker == nil {
		return locator
	}
	link, err := r.linker.Link(locator)
	if err != nil || link == "" {
		return locator
	}
	return link
}

func scroll(anchor string) entity.NavigationEffect {
	return entity.NavigationEffect{Kind: entity.EffectScrollWithinPage, Payload: anchor}
}

func redirect(page string) entity.NavigationEffect {
	return entity.NavigationEffect{Kind: entity.EffectRedirectToPage, Payload: page}
}
