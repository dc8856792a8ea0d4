package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"PortfolioVoice/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

var getenv = os.Getenv

func writeJSON(w io.Writer, v interface{}) error {
	data, err := jsoniter.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func describeEffect(e entity.NavigationEffect) string {
	payload := e.Payload
	if payload == "" && e.Kind == entity.EffectScrollWithinPage {
		payload = "(top)"
	}
	s := fmt.Sprintf("%s %s", e.Kind, payload)
	if e.Deferred {
		s += fmt.Sprintf(" (deferred, retry every %v for %v)", e.RetryInterval, e.RetryWindow)
	}
	return s
}

func describeIntent(i entity.Intent) string {
	parts := []string{string(i.Action)}
	if i.Target != "" {
		parts = append(parts, i.Target)
	}
	parts = append(parts, fmt.Sprintf("[%s", i.Source))
	if i.Source == entity.SourceLocal {
		parts = append(parts, fmt.Sprintf("score %.0f]", i.Score))
	} else {
		parts = append(parts, fmt.Sprintf("confidence %.2f]", i.Confidence))
	}
	return strings.Join(parts, " ")
}
