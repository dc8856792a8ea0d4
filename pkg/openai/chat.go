package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"PortfolioVoice/pkg/response"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel = openai.GPT4oMini

	temperature = 0.3
	maxTokens   = 150
)

// IChatGPT answers one system prompt plus one transcript. The raw completion
// is returned alongside the reply text so callers can pass it through.
type IChatGPT interface {
	Complete(ctx context.Context, systemPrompt, transcript string) (string, interface{}, error)
}

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

type chatGPTService struct {
	client *openai.Client
	model  string
}

func NewChatGPT(opts Options) IChatGPT {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &chatGPTService{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
	}
}

func (c *chatGPTService) Complete(ctx context.Context, systemPrompt, transcript string) (string, interface{}, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: transcript,
				},
			},
			Temperature: temperature,
			MaxTokens:   maxTokens,
		},
	)
	if err != nil {
		return "", nil, upstreamError(err)
	}

	if len(resp.Choices) == 0 {
		return "", resp, nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), resp, nil
}

// upstreamError keeps the status OpenAI answered with; anything that never
// got a status becomes a 502.
func upstreamError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &response.Error{
			Code: apiErr.HTTPStatusCode,
			Err:  fmt.Errorf("ChatGPT API error: %w", err),
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &response.Error{
			Code: reqErr.HTTPStatusCode,
			Err:  fmt.Errorf("ChatGPT API error: %w", err),
		}
	}

	return &response.Error{
		Code: http.StatusBadGateway,
		Err:  fmt.Errorf("ChatGPT API error: %w", err),
	}
}
