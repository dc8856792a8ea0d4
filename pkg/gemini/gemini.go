package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"PortfolioVoice/pkg/response"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

var ErrMissingAPIKey = errors.New("gemini API key is required")

// IGemini answers one system prompt plus one transcript, like the OpenAI
// client, so either can back the voice proxy.
type IGemini interface {
	Complete(ctx context.Context, systemPrompt, transcript string) (string, interface{}, error)
	Close()
}

type Options struct {
	APIKey    string
	ModelName string
}

type geminiClient struct {
	modelName string
	client    *genai.Client
}

func NewGeminiClient(ctx context.Context, opts Options) (IGemini, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.ModelName == "" {
		opts.ModelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: opts.ModelName,
		client:    client,
	}, nil
}

func (g *geminiClient) Complete(ctx context.Context, systemPrompt, transcript string) (string, interface{}, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(150)

	res, err := model.GenerateContent(ctx, genai.Text(transcript))
	if err != nil {
		return "", nil, upstreamError(err)
	}

	return replyText(res), res, nil
}

func replyText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}

func upstreamError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &response.Error{
			Code: apiErr.Code,
			Err:  fmt.Errorf("Gemini API error: %w", err),
		}
	}
	return &response.Error{
		Code: http.StatusBadGateway,
		Err:  fmt.Errorf("Gemini API error: %w", err),
	}
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
