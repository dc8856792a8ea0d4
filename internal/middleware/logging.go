package middleware

import (
	"fmt"
	"strings"
	"time"

	"PortfolioVoice/pkg/log"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const maxLoggedField = 200

var sensitiveFields = []string{
	"password", "token", "secret", "key", "api_key", "apiKey",
	"auth", "credential", "authorization",
}

type loggingMiddleware struct {
	logger *logrus.Logger
}

func newLoggingMiddleware(logger *logrus.Logger) *loggingMiddleware {
	return &loggingMiddleware{
		logger: logger,
	}
}

// NewLoggingMiddleware writes one access line per request. Prompt bodies are
// truncated and credentials redacted before they reach the log.
func (m *middleware) NewLoggingMiddleware(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	latency := time.Since(start)
	status := c.Response().StatusCode()

	logFields := log.Fields{
		"request_id":    m.GetRequestID(c),
		"method":        c.Method(),
		"path":          c.Path(),
		"status":        status,
		"latency_ms":    latency.Milliseconds(),
		"ip":            c.IP(),
		"user_agent":    c.Get(fiber.HeaderUserAgent),
		"response_size": len(c.Response().Body()),
	}

	if body := c.Request().Body(); len(body) > 0 {
		logFields["request_body"] = sanitizeRequestBody(string(body))
	}

	entry := m.loggingMiddleware.logger.WithFields(logFields)
	switch {
	case status >= 500:
		entry.Error("Server error")
	case status >= 400:
		entry.Warn("Client error")
	default:
		entry.Info("Success")
	}

	return err
}

func sanitizeRequestBody(body string) string {
	var jsonBody map[string]interface{}
	if err := jsoniter.UnmarshalFromString(body, &jsonBody); err != nil {
		return "[non-JSON body]"
	}

	for _, field := range sensitiveFields {
		if _, exists := jsonBody[field]; exists {
			jsonBody[field] = "[SECRET]"
		}
	}

	for field, value := range jsonBody {
		if s, ok := value.(string); ok && len(s) > maxLoggedField {
			jsonBody[field] = fmt.Sprintf("%s... [%d chars]", strings.TrimSpace(s[:maxLoggedField]), len(s))
		}
	}

	sanitized, err := jsoniter.MarshalToString(jsonBody)
	if err != nil {
		return "[sanitization-failed]"
	}

	return sanitized
}
