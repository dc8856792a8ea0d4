package voiceHandler

import (
	"time"

	"PortfolioVoice/internal/api/voice"
	contextPkg "PortfolioVoice/pkg/context"
	"PortfolioVoice/pkg/handlerUtil"
	"PortfolioVoice/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const proxyTimeout = 30 * time.Second

// Proxy forwards a prompt pair to the hosted model so the credential never
// leaves the server. OPTIONS is a CORS preflight; anything but POST is 405.
func (h *VoiceHandler) Proxy(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	switch ctx.Method() {
	case fiber.MethodOptions:
		return ctx.SendStatus(fiber.StatusOK)
	case fiber.MethodPost:
	default:
		return errHandler.Handle(ctx, requestID, voice.ErrMethodNotAllowed, ctx.Path(), "voice_proxy")
	}

	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), proxyTimeout)
	defer cancel()

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing voice proxy request")

	var req voice.ProxyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, voice.ErrMissingFields, ctx.Path(), "voice_proxy")
	}

	res, err := h.proxyService.Complete(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "voice_proxy")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
