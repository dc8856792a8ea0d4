package interpreter

import (
	"fmt"
	"strings"

	"PortfolioVoice/internal/entity"
	"PortfolioVoice/pkg/catalog"
)

var promptGroups = []struct {
	kind  entity.Kind
	title string
}{
	{entity.KindSection, "MAIN SECTIONS"},
	{entity.KindPage, "STANDALONE PAGES"},
	{entity.KindAboutSection, "ABOUT PAGE SECTIONS"},
	{entity.KindProjectPage, "PROJECT PAGES"},
	{entity.KindFilterTag, "PROJECT FILTERS"},
}

// BuildSystemPrompt describes every destination and the visitor's current
// page so the hosted model needs no outside knowledge of the site.
func BuildSystemPrompt(cat *catalog.Catalog, pageCtx entity.PageContext) string {
	var b strings.Builder

	b.WriteString("You are a navigation assistant for a portfolio website.\n")
	b.WriteString("Your job is to interpret voice commands and determine the user's navigation intent.\n\n")

	b.WriteString("Current context:\n")
	fmt.Fprintf(&b, "- Current page: %s\n", pageCtx.CurrentPageID)
	fmt.Fprintf(&b, "- Is on index page: %t\n", pageCtx.IsOnIndexPage)
	fmt.Fprintf(&b, "- Is on project page: %t\n", pageCtx.IsOnProjectPage)
	fmt.Fprintf(&b, "- Is on about page: %t\n\n", pageCtx.IsOnAboutPage)

	b.WriteString("Available navigation targets:\n")
	for _, group := range promptGroups {
		entries := cat.ByKind(group.kind)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", group.title)
		for _, e := range entries {
			writeEntry(&b, e)
		}
	}

	if templates := cat.SectionTemplates(); len(templates) > 0 {
		b.WriteString("\nPROJECT PAGE SECTIONS (within every project page, target \"<project>::<section>\" or just \"<section>\"):\n")
		for _, tpl := range templates {
			fmt.Fprintf(&b, "- %s: %s", tpl.Slug, tpl.DisplayName)
			if len(tpl.Aliases) > 0 {
				fmt.Fprintf(&b, " (also %s)", quoteAll(tpl.Aliases))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRespond with ONLY a JSON object in this exact format:\n")
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  \"action\": %s,\n", quoteAll(actionNames(), " | "))
	b.WriteString("  \"target\": \"target-name\",\n")
	b.WriteString("  \"confidence\": 0.0-1.0\n")
	b.WriteString("}\n\n")

	b.WriteString("Examples:\n")
	b.WriteString("- \"show me your work\" -> {\"action\": \"navigate_section\", \"target\": \"projects\", \"confidence\": 0.95}\n")
	b.WriteString("- \"tell me more about her\" -> {\"action\": \"navigate_page\", \"target\": \"about\", \"confidence\": 0.95}\n")
	b.WriteString("- \"open tidbit\" -> {\"action\": \"navigate_project\", \"target\": \"tidbit\", \"confidence\": 0.95}\n")
	b.WriteString("- \"oracle ai final designs\" -> {\"action\": \"navigate_project_section\", \"target\": \"oracle-ai::final-designs\", \"confidence\": 0.9}\n")
	b.WriteString("- \"show me ai projects\" -> {\"action\": \"filter_projects\", \"target\": \"ai\", \"confidence\": 0.9}\n")
	b.WriteString("- \"go back home\" -> {\"action\": \"go_home\", \"target\": \"landing\", \"confidence\": 0.95}\n")

	return b.String()
}

func writeEntry(b *strings.Builder, e entity.DestinationEntry) {
	fmt.Fprintf(b, "- %s: %s", e.ID, e.DisplayName)
	if e.Description != "" {
		fmt.Fprintf(b, ", %s", e.Description)
	}
	if !e.IsExternal && e.Kind != entity.KindFilterTag {
		fmt.Fprintf(b, " [%s]", e.Locator)
	}

	var phrases []string
	phrases = append(phrases, e.Aliases...)
	for _, hint := range e.KeywordHints {
		phrases = append(phrases, hint.Phrase)
	}
	if len(phrases) > 0 {
		fmt.Fprintf(b, " (use for %s)", quoteAll(dedupe(phrases)))
	}
	b.WriteString("\n")
}

func actionNames() []string {
	return []string{
		string(entity.ActionNavigateSection),
		string(entity.ActionNavigatePage),
		string(entity.ActionNavigateProject),
		string(entity.ActionNavigateProjectSection),
		string(entity.ActionFilterProjects),
		string(entity.ActionGoHome),
		string(entity.ActionUnknown),
	}
}

func quoteAll(values []string, sep ...string) string {
	joiner := ", "
	if len(sep) > 0 {
		joiner = sep[0]
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, joiner)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
