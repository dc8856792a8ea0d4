package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type corsPolicy struct {
	allowOrigin  string
	allowMethods string
	allowHeaders string
	maxAge       time.Duration
}

func newCORSPolicy() *corsPolicy {
	return &corsPolicy{
		allowOrigin:  "*",
		allowMethods: "POST, OPTIONS",
		allowHeaders: "Content-Type, Authorization",
		maxAge:       24 * time.Hour,
	}
}

// NewCORSMiddleware stamps the proxy's CORS headers on every response,
// including errors and preflight replies.
func (m *middleware) NewCORSMiddleware(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderAccessControlAllowOrigin, m.cors.allowOrigin)
	ctx.Set(fiber.HeaderAccessControlAllowMethods, m.cors.allowMethods)
	ctx.Set(fiber.HeaderAccessControlAllowHeaders, m.cors.allowHeaders)
	ctx.Set(fiber.HeaderAccessControlMaxAge, strconv.Itoa(int(m.cors.maxAge.Seconds())))

	return ctx.Next()
}
