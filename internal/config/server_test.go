package config

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func testVoiceConfig() *VoiceConfig {
	return &VoiceConfig{
		AppPort:             "0",
		Upstream:            UpstreamOpenAI,
		Strategy:            "local",
		RemoteFallback:      "local",
		RemoteTimeout:       time.Second,
		ConfidenceThreshold: 0.4,
		ReportUnclear:       true,
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewServerRequiresDependencies(t *testing.T) {
	logger := quietLogger()

	tests := []struct {
		name    string
		options []ServerOption
	}{
		{"no fiber", []ServerOption{WithLogger(logger), WithVoiceConfig(testVoiceConfig()), WithCatalog("")}},
		{"no logger", []ServerOption{WithFiber(fiber.New()), WithVoiceConfig(testVoiceConfig()), WithCatalog("")}},
		{"no config", []ServerOption{WithFiber(fiber.New()), WithLogger(logger), WithCatalog("")}},
		{"no catalog", []ServerOption{WithFiber(fiber.New()), WithLogger(logger), WithVoiceConfig(testVoiceConfig())}},
		{"middleware before logger", []ServerOption{WithMiddleware(), WithLogger(logger)}},
		{"missing catalog file", []ServerOption{WithCatalog("/does/not/exist.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewServer(tt.options...); err == nil {
				t.Error("NewServer() error = nil, want an error")
			}
		})
	}
}

func TestWithUpstreamWithoutKey(t *testing.T) {
	s, err := NewServer(
		WithFiber(fiber.New()),
		WithLogger(quietLogger()),
		WithVoiceConfig(testVoiceConfig()),
		WithCatalog(""),
		WithUpstream(context.Background()),
	)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if s.upstream != nil {
		t.Errorf("upstream = %v, want nil without a key", s.upstream)
	}
	if s.remoteSource() != nil {
		t.Error("remoteSource() != nil, want nil without proxy or key")
	}
}

func TestWithUpstreamOpenAI(t *testing.T) {
	cfg := testVoiceConfig()
	cfg.OpenAIKey = "sk-test"

	s, err := NewServer(
		WithFiber(fiber.New()),
		WithLogger(quietLogger()),
		WithVoiceConfig(cfg),
		WithCatalog(""),
		WithUpstream(context.Background()),
	)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if s.upstream == nil {
		t.Fatal("upstream = nil, want the openai client")
	}
	if s.remoteSource() == nil {
		t.Error("remoteSource() = nil, want the in-process interpreter")
	}
}

func TestServerRoutes(t *testing.T) {
	s, err := NewServer(
		WithFiber(NewFiber(quietLogger())),
		WithLogger(quietLogger()),
		WithValidator(NewValidator()),
		WithVoiceConfig(testVoiceConfig()),
		WithCatalog(""),
		WithMiddleware(),
		WithUtils(),
	)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	s.RegisterHandler()
	s.mount()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodOptions, "/api/voice", "", http.StatusOK},
		{http.MethodPost, "/api/voice", `{"systemPrompt":"p","transcript":"t"}`, http.StatusInternalServerError},
		{http.MethodPost, "/api/v1/navigation/command", `{"utterance":"open tidbit","currentPage":"/"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/navigation/catalog", "", http.StatusOK},
		{http.MethodGet, "/api/v1/navigation/stats", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := s.engine.Test(req, 5000)
			if err != nil {
				t.Fatalf("Test() error = %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if resp.Header.Get("X-Request-ID") == "" {
				t.Error("X-Request-ID header missing")
			}
		})
	}
}

func TestValidatorUsesJSONNames(t *testing.T) {
	type payload struct {
		Utterance string `json:"utterance" validate:"required"`
	}

	err := NewValidator().Struct(payload{})
	if err == nil || !strings.Contains(err.Error(), "utterance") {
		t.Errorf("Struct() error = %v, want it to name the json field", err)
	}
}
