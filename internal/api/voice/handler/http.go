package voiceHandler

import (
	voiceService "PortfolioVoice/internal/api/voice/service"
	"PortfolioVoice/internal/middleware"
	"PortfolioVoice/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type VoiceHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	proxyService      voiceService.IProxyService
	navigationService voiceService.INavigationService
	utils             utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ps voiceService.IProxyService,
	ns voiceService.INavigationService,
	utils utils.IUtils,
) *VoiceHandler {
	return &VoiceHandler{
		log:               log,
		validator:         validate,
		middleware:        middleware,
		proxyService:      ps,
		navigationService: ns,
		utils:             utils,
	}
}

// Start mounts the handler under /api: the model proxy at /api/voice and
// the navigation endpoints at /api/v1/navigation.
func (h *VoiceHandler) Start(srv fiber.Router) {
	srv.All("/voice", h.middleware.NewCORSMiddleware, h.middleware.NewRateLimiter, h.Proxy)

	navigation := srv.Group("/v1/navigation")
	navigation.Use(h.middleware.NewRateLimiter)

	navigation.Post("/command", h.ProcessCommand)
	navigation.Post("/score", h.Score)
	navigation.Get("/catalog", h.GetCatalog)
	navigation.Get("/stats", h.GetStats)

	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
	navigation.Use("/ws", wsMiddleware)
	navigation.Get("/ws", websocket.New(h.handleWebSocket))
}
