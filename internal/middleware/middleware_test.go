package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func ok(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func TestCORSMiddleware(t *testing.T) {
	m := New(quietLogger())
	app := fiber.New()
	app.All("/api/voice", m.NewCORSMiddleware, ok)

	resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/api/voice", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	want := map[string]string{
		fiber.HeaderAccessControlAllowOrigin:  "*",
		fiber.HeaderAccessControlAllowMethods: "POST, OPTIONS",
		fiber.HeaderAccessControlAllowHeaders: "Content-Type, Authorization",
		fiber.HeaderAccessControlMaxAge:       "86400",
	}
	for header, value := range want {
		if got := resp.Header.Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	m := New(quietLogger())
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"caller id kept", "req-123", true},
		{"minted when missing", "", false},
		{"minted when oversized", strings.Repeat("x", maxRequestIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDKey, tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			body, _ := io.ReadAll(resp.Body)

			got := resp.Header.Get(RequestIDKey)
			if string(body) != got {
				t.Errorf("locals id = %q, header id = %q", body, got)
			}
			if tt.keep && got != tt.header {
				t.Errorf("request id = %q, want %q", got, tt.header)
			}
			if !tt.keep && len(got) != 26 {
				t.Errorf("request id = %q, want a ULID", got)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	m := &middleware{
		rateLimitter: newRateLimiter(0, 2),
		log:          quietLogger(),
	}
	app := fiber.New()
	app.Get("/", m.NewRateLimiter, ok)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		statuses = append(statuses, resp.StatusCode)
	}

	want := []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, statuses[i], want[i])
		}
	}
}

func TestSanitizeRequestBody(t *testing.T) {
	long := strings.Repeat("a", maxLoggedField+50)

	tests := []struct {
		name     string
		body     string
		contains string
		excludes string
	}{
		{"not json", "utterance=home", "[non-JSON body]", ""},
		{"secret redacted", `{"api_key":"sk-live","transcript":"home"}`, `"api_key":"[SECRET]"`, "sk-live"},
		{"long prompt truncated", `{"systemPrompt":"` + long + `"}`, "[250 chars]", long},
		{"short kept", `{"utterance":"open tidbit"}`, `"utterance":"open tidbit"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeRequestBody(tt.body)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("sanitizeRequestBody() = %q, want it to contain %q", got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("sanitizeRequestBody() = %q, want %q removed", got, tt.excludes)
			}
		})
	}
}
