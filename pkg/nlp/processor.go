package nlp

import (
	"context"
	"math"
	"strings"

	"PortfolioVoice/internal/entity"
)

// comboBonus is added when a project page and a project section phrase
// match in the same utterance.
const comboBonus = 2

type scorer struct {
	entries   []entity.DestinationEntry
	templates []entity.SectionTemplate
	boosts    []entity.Boost
	home      entity.DestinationEntry
	catalog   Catalog
}

func NewScorer(cat Catalog) IScorer {
	return &scorer{
		entries:   cat.Entries(),
		templates: cat.SectionTemplates(),
		boosts:    cat.Boosts(),
		home:      cat.Home(),
		catalog:   cat,
	}
}

// Score picks the highest scoring destination for utterance. It never fails:
// with nothing matching, the home entry wins with score 0.
func (s *scorer) Score(utterance string) entity.Intent {
	text := Normalize(utterance)
	rows := s.score(text)

	best := -1
	bestScore := math.Inf(-1)
	for i, row := range rows {
		if row.Total > bestScore {
			best = i
			bestScore = row.Total
		}
	}

	if best < 0 {
		return s.intentFor(s.home, 0)
	}

	winner := s.entries[best]
	if winner.Kind == entity.KindProjectPage {
		if slug, ok := s.bestTemplate(text); ok {
			if section, exists := s.catalog.Entry(winner.ID + "::" + slug); exists {
				return s.intentFor(section, bestScore+1)
			}
		}
	}

	return s.intentFor(winner, bestScore)
}

func (s *scorer) Breakdown(utterance string) []EntryScore {
	return s.score(Normalize(utterance))
}

func (s *scorer) Infer(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error) {
	return s.Score(utterance), nil
}

func (s *scorer) score(text string) []EntryScore {
	templateScores := make([]float64, len(s.templates))
	for i, tpl := range s.templates {
		templateScores[i], _ = sumHints(text, tpl.KeywordHints)
	}

	rows := make([]EntryScore, 0, len(s.entries))
	for _, entry := range s.entries {
		base, matches := sumHints(text, entry.KeywordHints)
		row := EntryScore{
			ID:      entry.ID,
			Kind:    entry.Kind,
			Base:    base,
			Matches: matches,
		}

		if entry.Kind == entity.KindProjectPage && base > 0 {
			for i, tplScore := range templateScores {
				if tplScore <= 0 {
					continue
				}
				combo := base + tplScore + comboBonus
				row.Combo += combo
				row.Matches = append(row.Matches, MatchResult{
					Keyword: s.templates[i].Slug,
					Score:   combo,
					Type:    "combo",
				})
			}
		}

		for _, boost := range s.boosts {
			if !boost.Applies(entry) {
				continue
			}
			if phrase, ok := containsAny(text, boost.Any); ok {
				row.Boost += boost.Weight
				row.Matches = append(row.Matches, MatchResult{
					Keyword: phrase,
					Score:   boost.Weight,
					Type:    "boost",
				})
			}
		}

		row.Total = row.Base + row.Combo + row.Boost
		rows = append(rows, row)
	}

	return rows
}

// bestTemplate returns the highest scoring section template with a positive
// score, first declared on ties.
func (s *scorer) bestTemplate(text string) (string, bool) {
	slug := ""
	best := 0.0
	for _, tpl := range s.templates {
		score, _ := sumHints(text, tpl.KeywordHints)
		if score > best {
			best = score
			slug = tpl.Slug
		}
	}
	return slug, slug != ""
}

func (s *scorer) intentFor(entry entity.DestinationEntry, score float64) entity.Intent {
	return entity.Intent{
		Action:     actionFor(entry, s.home.ID),
		Target:     entry.ID,
		Confidence: 1,
		Score:      score,
		Source:     entity.SourceLocal,
	}
}

func actionFor(entry entity.DestinationEntry, homeID string) entity.Action {
	if entry.ID == homeID {
		return entity.ActionGoHome
	}

	switch entry.Kind {
	case entity.KindSection, entity.KindAboutSection:
		return entity.ActionNavigateSection
	case entity.KindPage:
		return entity.ActionNavigatePage
	case entity.KindProjectPage:
		return entity.ActionNavigateProject
	case entity.KindProjectSection:
		return entity.ActionNavigateProjectSection
	case entity.KindFilterTag:
		return entity.ActionFilterProjects
	}
	return entity.ActionUnknown
}

func sumHints(text string, hints []entity.KeywordHint) (float64, []MatchResult) {
	total := 0.0
	var matches []MatchResult
	for _, hint := range hints {
		if hint.Phrase == "" || !strings.Contains(text, hint.Phrase) {
			continue
		}
		total += hint.Weight
		matches = append(matches, MatchResult{
			Keyword: hint.Phrase,
			Score:   hint.Weight,
			Type:    "keyword",
		})
	}
	return total, matches
}

func containsAny(text string, phrases []string) (string, bool) {
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(text, phrase) {
			return phrase, true
		}
	}
	return "", false
}
