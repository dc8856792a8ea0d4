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

const commandTimeout = 30 * time.Second

func (h *VoiceHandler) ProcessCommand(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), commandTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req voice.CommandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id":   requestID,
		"path":         ctx.Path(),
		"current_page": req.CurrentPage,
	}).Debug("Processing navigation command")

	res, err := h.navigationService.ProcessCommand(contextPkg.WithSession(c, req.Session), req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_command")
	}

	// Returned even past the deadline; a slow remote has already fallen back.
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *VoiceHandler) Score(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), commandTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req voice.ScoreRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.navigationService.Score(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "score_utterance")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *VoiceHandler) GetCatalog(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	res, err := h.navigationService.GetCatalog(contextPkg.FromFiberCtx(ctx), ctx.Query("kind"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_catalog")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *VoiceHandler) GetStats(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.navigationService.GetStats(contextPkg.FromFiberCtx(ctx)))
}
