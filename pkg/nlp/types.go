package nlp

import (
	"context"

	"PortfolioVoice/internal/entity"
)

type MatchResult struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
	Type    string  `json:"type"`
}

// EntryScore is one row of a scoring pass, in catalog declaration order.
type EntryScore struct {
	ID      string        `json:"id"`
	Kind    entity.Kind   `json:"kind"`
	Base    float64       `json:"base"`
	Boost   float64       `json:"boost"`
	Combo   float64       `json:"combo"`
	Total   float64       `json:"total"`
	Matches []MatchResult `json:"matches,omitempty"`
}

// Catalog is the read side of the destination catalog the scorer needs.
type Catalog interface {
	Entries() []entity.DestinationEntry
	SectionTemplates() []entity.SectionTemplate
	Boosts() []entity.Boost
	Home() entity.DestinationEntry
	Entry(id string) (entity.DestinationEntry, bool)
}

type IScorer interface {
	Score(utterance string) entity.Intent
	Breakdown(utterance string) []EntryScore
	Infer(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error)
}
