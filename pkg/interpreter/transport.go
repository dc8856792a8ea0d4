package interpreter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const notConfiguredCode = "UPSTREAM_NOT_CONFIGURED"

// Transport delivers a prompt pair to the hosted model and returns its reply
// text. Failures are *InterpretError values.
type Transport interface {
	Complete(ctx context.Context, systemPrompt, transcript string) (string, error)
}

type proxyRequest struct {
	SystemPrompt string `json:"systemPrompt"`
	Transcript   string `json:"transcript"`
}

type proxyResponse struct {
	Reply   string `json:"reply"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// HTTPTransport talks to the POST /api/voice proxy.
type HTTPTransport struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPTransport(url string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		url:     url,
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (t *HTTPTransport) Complete(ctx context.Context, systemPrompt, transcript string) (string, error) {
	if t.url == "" {
		return "", newError(KindNotConfigured, errors.New("voice proxy url is empty"))
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	body, err := jsoniter.Marshal(proxyRequest{SystemPrompt: systemPrompt, Transcript: transcript})
	if err != nil {
		return "", newError(KindUnreachable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return "", newError(KindUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", transportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(ctx, err)
	}

	var payload proxyResponse
	decodeErr := jsoniter.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && payload.Code == notConfiguredCode {
			return "", newError(KindNotConfigured, errors.New(payload.Error))
		}
		return "", &InterpretError{
			Kind:   KindUpstream,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("proxy returned %s", resp.Status),
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return "", newError(KindEmptyReply, errors.New("empty response body"))
	}
	if decodeErr != nil {
		return "", newError(KindMalformedReply, decodeErr)
	}

	reply := strings.TrimSpace(payload.Reply)
	if reply == "" {
		return "", newError(KindEmptyReply, errors.New("proxy reply is empty"))
	}
	return reply, nil
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newError(KindTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(KindTimeout, err)
	}
	return newError(KindUnreachable, err)
}
