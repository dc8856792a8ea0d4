package voice

import (
	"time"

	"PortfolioVoice/internal/entity"
	"PortfolioVoice/pkg/nlp"
)

type ProxyRequest struct {
	SystemPrompt string `json:"systemPrompt"`
	Transcript   string `json:"transcript"`
}

type ProxyResponse struct {
	Reply        string      `json:"reply"`
	FullResponse interface{} `json:"fullResponse"`
}

type CommandRequest struct {
	Utterance   string `json:"utterance" validate:"max=500"`
	CurrentPage string `json:"currentPage" validate:"max=256"`
	Session     string `json:"session" validate:"max=64"`
}

type CommandResponse struct {
	ID         string              `json:"id"`
	Session    string              `json:"session"`
	Intent     entity.Intent       `json:"intent"`
	Resolution entity.Resolution   `json:"resolution"`
	Advisory   string              `json:"advisory,omitempty"`
	Generation uint64              `json:"generation"`
	Superseded bool                `json:"superseded"`
	Source     entity.IntentSource `json:"source"`
}

type ScoreRequest struct {
	Utterance string `json:"utterance" validate:"max=500"`
}

type ScoreResponse struct {
	Normalized string           `json:"normalized"`
	Intent     entity.Intent    `json:"intent"`
	Breakdown  []nlp.EntryScore `json:"breakdown"`
}

type CatalogResponse struct {
	Home      string                    `json:"home"`
	Fallback  string                    `json:"fallback"`
	IndexPage string                    `json:"index_page"`
	AboutPage string                    `json:"about_page"`
	Entries   []entity.DestinationEntry `json:"entries"`
}

type StatsResponse struct {
	Total         int            `json:"total"`
	BySource      map[string]int `json:"by_source"`
	ByAction      map[string]int `json:"by_action"`
	ByTarget      map[string]int `json:"by_target"`
	RemoteErrors  map[string]int `json:"remote_errors"`
	Fallbacks     int            `json:"fallbacks"`
	LowConfidence int            `json:"low_confidence"`
	Superseded    int            `json:"superseded"`
	AvgLatencyMs  float64        `json:"avg_latency_ms"`
	RemoteHealthy bool           `json:"remote_healthy"`
	LastCommandAt *time.Time     `json:"last_command_at,omitempty"`
}

// CommandFrame is what a websocket client sends for each utterance.
type CommandFrame struct {
	Utterance   string `json:"utterance"`
	CurrentPage string `json:"currentPage"`
}

type ErrorFrame struct {
	Error string `json:"error"`
}
