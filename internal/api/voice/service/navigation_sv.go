package voiceService

import (
	"context"
	"strings"
	"time"

	"PortfolioVoice/internal/api/voice"
	"PortfolioVoice/internal/entity"
	"PortfolioVoice/pkg/catalog"
	contextPkg "PortfolioVoice/pkg/context"
	"PortfolioVoice/pkg/eventbus"
	"PortfolioVoice/pkg/interpreter"
	"PortfolioVoice/pkg/log"
	"PortfolioVoice/pkg/nlp"
	"PortfolioVoice/pkg/resolver"
	"PortfolioVoice/pkg/utils"

	"github.com/sirupsen/logrus"
)

type NavigationOptions struct {
	Strategy Strategy
	Fallback Fallback
}

type navigationService struct {
	log           *logrus.Logger
	catalog       *catalog.Catalog
	scorer        nlp.IScorer
	remote        IntentSource
	resolver      resolver.IResolver
	bus           *eventbus.Bus[entity.VoiceCommand]
	sessions      *sessionTracker
	stats         *statsRecorder
	remoteHealthy *eventbus.Value[bool]
	utils         utils.IUtils
	opts          NavigationOptions
}

// NewNavigationService wires the intent sources to the resolver. remote may
// be nil, in which case every command is scored locally.
func NewNavigationService(
	log *logrus.Logger,
	cat *catalog.Catalog,
	scorer nlp.IScorer,
	remote IntentSource,
	res resolver.IResolver,
	bus *eventbus.Bus[entity.VoiceCommand],
	utils utils.IUtils,
	opts NavigationOptions,
) INavigationService {
	if bus == nil {
		bus = eventbus.New[entity.VoiceCommand]()
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyLocal
	}
	if opts.Fallback == "" {
		opts.Fallback = FallbackLocal
	}

	s := &navigationService{
		log:           log,
		catalog:       cat,
		scorer:        scorer,
		remote:        remote,
		resolver:      res,
		bus:           bus,
		sessions:      newSessionTracker(sessionIdleTimeout),
		stats:         newStatsRecorder(),
		remoteHealthy: eventbus.NewValue(true),
		utils:         utils,
		opts:          opts,
	}

	bus.Subscribe(s.stats.record)
	s.remoteHealthy.Subscribe(func(healthy bool) {
		if healthy {
			s.log.Info("Remote intent interpreter recovered")
			return
		}
		s.log.Warn("Remote intent interpreter unavailable, serving local matches")
	})

	return s
}

func (s *navigationService) NewSession() string {
	return s.utils.NewSessionID()
}

func (s *navigationService) ProcessCommand(ctx context.Context, req voice.CommandRequest) (*voice.CommandResponse, error) {
	start := time.Now()

	session := req.Session
	if session == "" {
		session = contextPkg.GetSession(ctx)
	}
	if session == "" {
		session = s.NewSession()
	}
	ctx = contextPkg.WithSession(ctx, session)
	generation := s.sessions.next(session, start)

	pageCtx := s.catalog.ContextFor(req.CurrentPage)
	intent, advisory, remoteErr := s.infer(ctx, req.Utterance, pageCtx)
	resolution := s.resolver.Resolve(intent, pageCtx)
	if resolution.Advisory != "" {
		advisory = resolution.Advisory
	}

	id, err := s.utils.NewULIDFromTimestamp(start)
	if err != nil {
		id = s.NewSession()
	}

	cmd := entity.VoiceCommand{
		ID:         id,
		Session:    session,
		Utterance:  req.Utterance,
		Context:    pageCtx,
		Intent:     intent,
		Resolution: resolution,
		Advisory:   advisory,
		Source:     intent.Source,
		Generation: generation,
		Latency:    time.Since(start).Milliseconds(),
		CreatedAt:  start,
	}
	if remoteErr != nil {
		cmd.RemoteErr = string(interpreter.KindOf(remoteErr))
	}

	cmd = s.publish(cmd)

	log.WithSession(s.log, ctx).WithFields(log.Fields{
		"generation": generation,
		"action":     intent.Action,
		"target":     resolution.Target,
		"source":     intent.Source,
		"superseded": cmd.Superseded,
		"latency_ms": cmd.Latency,
	}).Info("Voice command resolved")

	return ToCommandResponse(cmd), nil
}

// publish marks cmd superseded unless it is still the latest generation of
// its session, then hands it to the bus.
func (s *navigationService) publish(cmd entity.VoiceCommand) entity.VoiceCommand {
	s.sessions.publishing(cmd.Session, cmd.Generation, func(latest bool) {
		cmd.Superseded = !latest
		s.bus.Publish(cmd)
	})
	return cmd
}

// infer runs the configured source. A remote failure is recovered here and
// reported through the advisory, never returned to the caller.
func (s *navigationService) infer(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, string, error) {
	if strings.TrimSpace(utterance) == "" {
		return entity.DefaultIntent(), "", nil
	}
	if s.opts.Strategy == StrategyLocal || s.remote == nil {
		return s.local(ctx, utterance, pageCtx), "", nil
	}

	intent, err := s.remote.Infer(ctx, utterance, pageCtx)
	if err == nil {
		s.remoteHealthy.Set(true)
		return intent, "", nil
	}

	s.remoteHealthy.Set(false)
	log.WithSession(s.log, ctx).WithFields(log.Fields{
		"error":    err.Error(),
		"kind":     interpreter.KindOf(err),
		"fallback": s.opts.Fallback,
	}).Warn("Remote intent interpretation failed")

	if s.opts.Fallback == FallbackDefault {
		return entity.DefaultIntent(), AdvisoryRemoteUnavailable, err
	}
	return s.local(ctx, utterance, pageCtx), AdvisoryRemoteUnavailable, err
}

func (s *navigationService) local(ctx context.Context, utterance string, pageCtx entity.PageContext) entity.Intent {
	intent, err := s.scorer.Infer(ctx, utterance, pageCtx)
	if err != nil {
		return entity.DefaultIntent()
	}
	return intent
}

func (s *navigationService) Score(ctx context.Context, req voice.ScoreRequest) (*voice.ScoreResponse, error) {
	rows := s.scorer.Breakdown(req.Utterance)
	breakdown := make([]nlp.EntryScore, 0, len(rows))
	for _, row := range rows {
		if row.Total > 0 {
			breakdown = append(breakdown, row)
		}
	}

	return &voice.ScoreResponse{
		Normalized: nlp.Normalize(req.Utterance),
		Intent:     s.scorer.Score(req.Utterance),
		Breakdown:  breakdown,
	}, nil
}

func (s *navigationService) GetCatalog(ctx context.Context, kind string) (*voice.CatalogResponse, error) {
	entries := s.catalog.Entries()
	if kind != "" {
		k := entity.Kind(kind)
		if !k.Valid() {
			return nil, voice.ErrUnknownKind
		}
		entries = s.catalog.ByKind(k)
	}

	return &voice.CatalogResponse{
		Home:      s.catalog.Home().ID,
		Fallback:  s.catalog.Fallback().ID,
		IndexPage: s.catalog.IndexPage(),
		AboutPage: s.catalog.AboutPage(),
		Entries:   entries,
	}, nil
}

func (s *navigationService) GetStats(ctx context.Context) *voice.StatsResponse {
	stats := s.stats.snapshot()
	stats.RemoteHealthy = s.remoteHealthy.Get()
	return stats
}

func (s *navigationService) Subscribe(session string, fn func(entity.VoiceCommand)) func() {
	return s.bus.Subscribe(func(cmd entity.VoiceCommand) {
		if cmd.Session == session {
			fn(cmd)
		}
	})
}

// ToCommandResponse is the wire form of a published outcome.
func ToCommandResponse(cmd entity.VoiceCommand) *voice.CommandResponse {
	return &voice.CommandResponse{
		ID:         cmd.ID,
		Session:    cmd.Session,
		Intent:     cmd.Intent,
		Resolution: cmd.Resolution,
		Advisory:   cmd.Advisory,
		Generation: cmd.Generation,
		Superseded: cmd.Superseded,
		Source:     cmd.Source,
	}
}
