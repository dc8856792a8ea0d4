package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"PortfolioVoice/internal/entity"
	"PortfolioVoice/pkg/catalog"

	jsoniter "github.com/json-iterator/go"
)

type IInterpreter interface {
	Interpret(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error)
	Infer(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error)
}

type interpreter struct {
	transport Transport
	catalog   *catalog.Catalog
}

func New(transport Transport, cat *catalog.Catalog) IInterpreter {
	return &interpreter{
		transport: transport,
		catalog:   cat,
	}
}

// Interpret asks the hosted model for an intent. Every failure is an
// *InterpretError; callers fall back rather than surface it.
func (i *interpreter) Interpret(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error) {
	if i.transport == nil {
		return entity.Intent{}, newError(KindNotConfigured, errors.New("no transport"))
	}

	reply, err := i.transport.Complete(ctx, BuildSystemPrompt(i.catalog, pageCtx), utterance)
	if err != nil {
		var ie *InterpretError
		if errors.As(err, &ie) {
			return entity.Intent{}, err
		}
		return entity.Intent{}, newError(KindUnreachable, err)
	}

	return ParseReply(reply)
}

func (i *interpreter) Infer(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error) {
	return i.Interpret(ctx, utterance, pageCtx)
}

// ParseReply pulls the first JSON object out of the model's reply text and
// turns it into a remote intent. A missing confidence counts as 1.
func ParseReply(reply string) (entity.Intent, error) {
	if strings.TrimSpace(reply) == "" {
		return entity.Intent{}, newError(KindEmptyReply, errors.New("reply is empty"))
	}

	raw, ok := ExtractJSON(reply)
	if !ok {
		return entity.Intent{}, newError(KindMalformedReply, errors.New("no JSON object in reply"))
	}

	var fields map[string]interface{}
	if err := jsoniter.UnmarshalFromString(raw, &fields); err != nil {
		return entity.Intent{}, newError(KindMalformedReply, err)
	}

	action, ok := fields["action"].(string)
	if !ok || strings.TrimSpace(action) == "" {
		return entity.Intent{}, newError(KindInvalidShape, errors.New("missing action"))
	}

	target, ok := fields["target"].(string)
	if !ok || strings.TrimSpace(target) == "" {
		return entity.Intent{}, newError(KindInvalidShape, errors.New("missing target"))
	}

	confidence := 1.0
	if v, present := fields["confidence"]; present && v != nil {
		c, ok := v.(float64)
		if !ok {
			return entity.Intent{}, newError(KindInvalidShape, fmt.Errorf("confidence is %T", v))
		}
		confidence = clamp(c)
	}

	return entity.Intent{
		Action:     entity.ParseAction(action),
		Target:     strings.TrimSpace(target),
		Confidence: confidence,
		Source:     entity.SourceRemote,
	}, nil
}

// ExtractJSON returns the first balanced {...} in text, skipping braces that
// appear inside JSON strings.
func ExtractJSON(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
