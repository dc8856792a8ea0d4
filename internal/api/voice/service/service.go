package voiceService

import (
	"context"
	"fmt"

	"PortfolioVoice/internal/api/voice"
	"PortfolioVoice/internal/entity"
)

type IProxyService interface {
	Complete(ctx context.Context, req voice.ProxyRequest) (*voice.ProxyResponse, error)
}

type INavigationService interface {
	ProcessCommand(ctx context.Context, req voice.CommandRequest) (*voice.CommandResponse, error)
	Score(ctx context.Context, req voice.ScoreRequest) (*voice.ScoreResponse, error)
	GetCatalog(ctx context.Context, kind string) (*voice.CatalogResponse, error)
	GetStats(ctx context.Context) *voice.StatsResponse
	// Subscribe delivers every outcome of session until the returned
	// function is called.
	Subscribe(session string, fn func(entity.VoiceCommand)) func()
	NewSession() string
}

// IUpstream is a hosted chat model. The openai and gemini clients both
// satisfy it.
type IUpstream interface {
	Complete(ctx context.Context, systemPrompt, transcript string) (string, interface{}, error)
}

// IntentSource turns an utterance into an intent. The local scorer and the
// remote interpreter are both sources.
type IntentSource interface {
	Infer(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error)
}

type Strategy string

const (
	StrategyLocal  Strategy = "local"
	StrategyRemote Strategy = "remote"
)

type Fallback string

const (
	FallbackLocal   Fallback = "local"
	FallbackDefault Fallback = "default"
)

const AdvisoryRemoteUnavailable = "Voice service unavailable, using offline matching"

func ParseStrategy(raw string) (Strategy, error) {
	switch s := Strategy(raw); s {
	case StrategyLocal, StrategyRemote:
		return s, nil
	}
	return "", fmt.Errorf("unknown intent strategy %q", raw)
}

func ParseFallback(raw string) (Fallback, error) {
	switch f := Fallback(raw); f {
	case FallbackLocal, FallbackDefault:
		return f, nil
	}
	return "", fmt.Errorf("unknown remote fallback %q", raw)
}
