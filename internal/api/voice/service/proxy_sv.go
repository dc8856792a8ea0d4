package voiceService

import (
	"context"
	"net/http"
	"time"

	"PortfolioVoice/internal/api/voice"
	contextPkg "PortfolioVoice/pkg/context"
	"PortfolioVoice/pkg/redis"
	"PortfolioVoice/pkg/response"
	"PortfolioVoice/pkg/utils"

	"github.com/sirupsen/logrus"
)

type proxyService struct {
	log      *logrus.Logger
	upstream IUpstream
	cache    redis.IRedis
	cacheTTL time.Duration
	utils    utils.IUtils
}

// NewProxyService answers POST /api/voice. upstream is nil when no
// credential is configured; cache may be nil.
func NewProxyService(
	log *logrus.Logger,
	upstream IUpstream,
	cache redis.IRedis,
	cacheTTL time.Duration,
	utils utils.IUtils,
) IProxyService {
	return &proxyService{
		log:      log,
		upstream: upstream,
		cache:    cache,
		cacheTTL: cacheTTL,
		utils:    utils,
	}
}

func (s *proxyService) Complete(ctx context.Context, req voice.ProxyRequest) (*voice.ProxyResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.SystemPrompt == "" || req.Transcript == "" {
		return nil, voice.ErrMissingFields
	}

	if s.upstream == nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Error("Upstream credential not configured")
		return nil, voice.ErrUpstreamNotConfigured
	}

	key := s.utils.HashKey(req.SystemPrompt, req.Transcript)
	if reply, ok := s.cached(ctx, key); ok {
		return &voice.ProxyResponse{
			Reply:        reply,
			FullResponse: map[string]interface{}{"cached": true},
		}, nil
	}

	reply, raw, err := s.upstream.Complete(ctx, req.SystemPrompt, req.Transcript)
	if err != nil {
		status := response.StatusOf(err, http.StatusBadGateway)
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"status":     status,
		}).Error("Upstream call failed")
		return nil, &voice.UpstreamError{Status: status, Details: err.Error()}
	}

	if reply != "" {
		s.store(ctx, key, reply)
	}

	return &voice.ProxyResponse{
		Reply:        reply,
		FullResponse: raw,
	}, nil
}

func (s *proxyService) cached(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	reply, ok, err := s.cache.GetReply(ctx, key)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Reply cache lookup failed")
		return "", false
	}

	return reply, ok
}

func (s *proxyService) store(ctx context.Context, key, reply string) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}

	if err := s.cache.SetReply(ctx, key, reply, s.cacheTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to cache reply")
	}
}
