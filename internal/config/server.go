package config

import (
	"context"
	"errors"
	"fmt"

	voiceHandler "PortfolioVoice/internal/api/voice/handler"
	voiceService "PortfolioVoice/internal/api/voice/service"
	"PortfolioVoice/internal/entity"
	"PortfolioVoice/internal/middleware"
	"PortfolioVoice/pkg/catalog"
	"PortfolioVoice/pkg/eventbus"
	"PortfolioVoice/pkg/gemini"
	"PortfolioVoice/pkg/interpreter"
	"PortfolioVoice/pkg/nlp"
	"PortfolioVoice/pkg/openai"
	"PortfolioVoice/pkg/redis"
	"PortfolioVoice/pkg/resolver"
	"PortfolioVoice/pkg/s3"
	"PortfolioVoice/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	voiceConfig  *VoiceConfig
	catalog      *catalog.Catalog
	redisServer  redis.IRedis
	s3Client     s3.ItfS3
	upstream     voiceService.IUpstream
	geminiClient gemini.IGemini
	commandBus   *eventbus.Bus[entity.VoiceCommand]
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.voiceConfig == nil {
		return nil, fmt.Errorf("voice config is required")
	}
	if server.catalog == nil {
		return nil, fmt.Errorf("destination catalog is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithVoiceConfig(cfg *VoiceConfig) ServerOption {
	return func(s *Server) error {
		if cfg == nil {
			return fmt.Errorf("voice config is nil")
		}
		s.voiceConfig = cfg
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithCatalog loads the destination catalog from path, or the embedded one
// when path is empty.
func WithCatalog(path string) ServerOption {
	return func(s *Server) error {
		cat, err := catalog.Load(path)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to load destination catalog: %v", err)
			}
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		s.catalog = cat
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithS3Client(opts s3.Options) ServerOption {
	return func(s *Server) error {
		client, err := s3.New(opts)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

// WithUpstream picks the hosted model named by the voice config. A missing
// credential is not an error: the proxy then answers 500 and the navigation
// service scores locally.
func WithUpstream(ctx context.Context) ServerOption {
	return func(s *Server) error {
		if s.voiceConfig == nil {
			return fmt.Errorf("voice config must be set before the upstream")
		}
		cfg := s.voiceConfig

		if cfg.UpstreamKey() == "" {
			if s.log != nil {
				s.log.Warnf("No API key for upstream %s, proxy disabled", cfg.Upstream)
			}
			return nil
		}

		switch cfg.Upstream {
		case UpstreamGemini:
			client, err := gemini.NewGeminiClient(ctx, gemini.Options{
				APIKey:    cfg.GeminiKey,
				ModelName: cfg.GeminiModel,
			})
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to create Gemini client: %v", err)
				}
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			s.geminiClient = client
			s.upstream = client
		default:
			s.upstream = openai.NewChatGPT(openai.Options{
				APIKey:  cfg.OpenAIKey,
				Model:   cfg.OpenAIModel,
				BaseURL: cfg.OpenAIBaseURL,
			})
		}
		return nil
	}
}

func WithCommandBus(bus *eventbus.Bus[entity.VoiceCommand]) ServerOption {
	return func(s *Server) error {
		s.commandBus = bus
		return nil
	}
}

func (s *Server) RegisterHandler() {
	if s.utils == nil {
		s.utils = utils.New()
	}
	if s.validator == nil {
		s.validator = NewValidator()
	}
	if s.middleware == nil {
		s.middleware = middleware.New(s.log)
	}
	if s.commandBus == nil {
		s.commandBus = eventbus.New[entity.VoiceCommand]()
	}

	// Voice Domain
	proxyServices := voiceService.NewProxyService(s.log, s.upstream, s.redisServer, s.voiceConfig.CacheTTL, s.utils)
	navigationServices := voiceService.NewNavigationService(
		s.log,
		s.catalog,
		nlp.NewScorer(s.catalog),
		s.remoteSource(),
		resolver.New(s.catalog, s.voiceConfig.Policy(), s.linker()),
		s.commandBus,
		s.utils,
		s.voiceConfig.Navigation(),
	)
	voiceHandlers := voiceHandler.New(s.log, s.validator, s.middleware, proxyServices, navigationServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, voiceHandlers)
}

// remoteSource prefers the HTTP proxy and falls back to calling the upstream
// in process. nil means there is no remote path.
func (s *Server) remoteSource() voiceService.IntentSource {
	cfg := s.voiceConfig
	switch {
	case cfg.ProxyURL != "":
		return interpreter.New(interpreter.NewHTTPTransport(cfg.ProxyURL, cfg.RemoteTimeout), s.catalog)
	case s.upstream != nil:
		return interpreter.New(voiceService.NewUpstreamTransport(s.upstream, cfg.RemoteTimeout), s.catalog)
	}
	return nil
}

func (s *Server) linker() resolver.Linker {
	if s.s3Client == nil {
		return nil
	}
	return s.s3Client
}

func (s *Server) Run() error {
	s.mount()
	return s.engine.Listen(fmt.Sprintf(":%s", s.voiceConfig.AppPort))
}

func (s *Server) mount() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware)

	router := s.engine.Group("/api")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

// Shutdown stops the listener and releases upstream and cache clients.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if err := s.engine.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if s.geminiClient != nil {
		s.geminiClient.Close()
	}
	if s.redisServer != nil {
		if err := s.redisServer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"catalog": len(s.catalog.Entries()),
		})
	})
}
