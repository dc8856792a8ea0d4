package voiceService

import (
	"context"
	"errors"
	"strings"
	"time"

	"PortfolioVoice/pkg/interpreter"
	"PortfolioVoice/pkg/response"
)

type upstreamTransport struct {
	upstream IUpstream
	timeout  time.Duration
}

// NewUpstreamTransport lets the interpreter call the hosted model in process
// instead of going through the HTTP proxy. A positive timeout bounds each call.
func NewUpstreamTransport(upstream IUpstream, timeout time.Duration) interpreter.Transport {
	return &upstreamTransport{upstream: upstream, timeout: timeout}
}

func (t *upstreamTransport) Complete(ctx context.Context, systemPrompt, transcript string) (string, error) {
	if t.upstream == nil {
		return "", &interpreter.InterpretError{Kind: interpreter.KindNotConfigured, Err: errors.New("no upstream configured")}
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	reply, _, err := t.upstream.Complete(ctx, systemPrompt, transcript)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &interpreter.InterpretError{Kind: interpreter.KindTimeout, Err: err}
		}
		var respErr *response.Error
		if errors.As(err, &respErr) {
			return "", &interpreter.InterpretError{Kind: interpreter.KindUpstream, Status: respErr.Code, Err: err}
		}
		return "", &interpreter.InterpretError{Kind: interpreter.KindUnreachable, Err: err}
	}

	if strings.TrimSpace(reply) == "" {
		return "", &interpreter.InterpretError{Kind: interpreter.KindEmptyReply, Err: errors.New("upstream returned no content")}
	}
	return reply, nil
}
