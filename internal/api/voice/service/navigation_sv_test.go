package voiceService

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"PortfolioVoice/internal/api/voice"
	"PortfolioVoice/internal/entity"
	"PortfolioVoice/pkg/catalog"
	"PortfolioVoice/pkg/eventbus"
	"PortfolioVoice/pkg/interpreter"
	"PortfolioVoice/pkg/nlp"
	"PortfolioVoice/pkg/resolver"
	"PortfolioVoice/pkg/utils"
)

type fakeRemote struct {
	intent  entity.Intent
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeRemote) Infer(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error) {
	if utterance == "slow" && f.release != nil {
		close(f.started)
		<-f.release
	}
	return f.intent, f.err
}

func newNavigation(t *testing.T, remote IntentSource, opts NavigationOptions) INavigationService {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	return NewNavigationService(
		quietLogger(),
		cat,
		nlp.NewScorer(cat),
		remote,
		resolver.New(cat, resolver.DefaultPolicy(), nil),
		eventbus.New[entity.VoiceCommand](),
		utils.New(),
		opts,
	)
}

func TestProcessCommand(t *testing.T) {
	remoteAbout := &fakeRemote{intent: entity.Intent{
		Action: entity.ActionNavigatePage, Target: "about", Confidence: 0.9, Source: entity.SourceRemote,
	}}
	remoteDown := &fakeRemote{err: interpreter.ErrTimeout}

	tests := []struct {
		name     string
		remote   IntentSource
		opts     NavigationOptions
		req      voice.CommandRequest
		source   entity.IntentSource
		target   string
		effect   entity.EffectKind
		advisory string
		fallback bool
	}{
		{
			name:   "local scorer",
			opts:   NavigationOptions{Strategy: StrategyLocal},
			req:    voice.CommandRequest{Utterance: "open tidbit", CurrentPage: "/"},
			source: entity.SourceLocal,
			target: "tidbit",
			effect: entity.EffectRedirectToPage,
		},
		{
			name:   "nil remote scores locally",
			opts:   NavigationOptions{Strategy: StrategyRemote},
			req:    voice.CommandRequest{Utterance: "take me home", CurrentPage: "/index.html"},
			source: entity.SourceLocal,
			target: "landing",
			effect: entity.EffectScrollWithinPage,
		},
		{
			name:   "remote intent",
			remote: remoteAbout,
			opts:   NavigationOptions{Strategy: StrategyRemote},
			req:    voice.CommandRequest{Utterance: "who is she", CurrentPage: "/"},
			source: entity.SourceRemote,
			target: "about",
			effect: entity.EffectRedirectToPage,
		},
		{
			name:     "remote failure falls back to local",
			remote:   remoteDown,
			opts:     NavigationOptions{Strategy: StrategyRemote, Fallback: FallbackLocal},
			req:      voice.CommandRequest{Utterance: "open tidbit", CurrentPage: "/"},
			source:   entity.SourceLocal,
			target:   "tidbit",
			effect:   entity.EffectRedirectToPage,
			advisory: AdvisoryRemoteUnavailable,
		},
		{
			name:     "remote failure falls back to default",
			remote:   remoteDown,
			opts:     NavigationOptions{Strategy: StrategyRemote, Fallback: FallbackDefault},
			req:      voice.CommandRequest{Utterance: "open tidbit", CurrentPage: "/"},
			source:   entity.SourceDefault,
			target:   "projects",
			effect:   entity.EffectScrollWithinPage,
			advisory: "Couldn't find that, navigating to projects instead",
			fallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newNavigation(t, tt.remote, tt.opts)

			res, err := svc.ProcessCommand(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("ProcessCommand() error = %v", err)
			}
			if res.Source != tt.source {
				t.Errorf("Source = %v, want %v", res.Source, tt.source)
			}
			if res.Resolution.Target != tt.target {
				t.Errorf("Target = %q, want %q", res.Resolution.Target, tt.target)
			}
			if got := res.Resolution.Primary().Kind; got != tt.effect {
				t.Errorf("primary effect = %v, want %v", got, tt.effect)
			}
			if res.Advisory != tt.advisory {
				t.Errorf("Advisory = %q, want %q", res.Advisory, tt.advisory)
			}
			if res.Resolution.Fallback != tt.fallback {
				t.Errorf("Fallback = %v, want %v", res.Resolution.Fallback, tt.fallback)
			}
			if res.Session == "" || res.Generation != 1 || res.Superseded {
				t.Errorf("session = %q generation = %d superseded = %v, want new session, 1, false",
					res.Session, res.Generation, res.Superseded)
			}
		})
	}
}

type countingRemote struct {
	calls int
}

func (c *countingRemote) Infer(ctx context.Context, utterance string, pageCtx entity.PageContext) (entity.Intent, error) {
	c.calls++
	return entity.Intent{Action: entity.ActionGoHome, Confidence: 1, Source: entity.SourceRemote}, nil
}

func TestProcessCommandBlankUtterance(t *testing.T) {
	for _, utterance := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", utterance), func(t *testing.T) {
			remote := &countingRemote{}
			svc := newNavigation(t, remote, NavigationOptions{Strategy: StrategyRemote})

			res, err := svc.ProcessCommand(context.Background(), voice.CommandRequest{Utterance: utterance, CurrentPage: "/about.html"})
			if err != nil {
				t.Fatalf("ProcessCommand() error = %v", err)
			}
			if len(res.Resolution.Effects) == 0 {
				t.Fatal("ProcessCommand() returned no navigation effect")
			}
			if res.Resolution.Target != "projects" || !res.Resolution.Fallback {
				t.Errorf("Target = %q fallback = %v, want projects true", res.Resolution.Target, res.Resolution.Fallback)
			}
			if res.Advisory == "" {
				t.Error("Advisory is empty, want feedback for the user")
			}
			if remote.calls != 0 {
				t.Errorf("remote calls = %d, want 0", remote.calls)
			}
		})
	}
}

func TestProcessCommandRemoteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Upstream API error: 500","details":"overloaded"}`))
	}))
	defer srv.Close()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	remote := interpreter.New(interpreter.NewHTTPTransport(srv.URL, time.Second), cat)

	tests := []struct {
		name     string
		fallback Fallback
		effect   entity.NavigationEffect
		advisory string
	}{
		{
			name:     "local fallback",
			fallback: FallbackLocal,
			effect:   entity.NavigationEffect{Kind: entity.EffectRedirectToPage, Payload: "tidbit.html"},
			advisory: AdvisoryRemoteUnavailable,
		},
		{
			name:     "default fallback",
			fallback: FallbackDefault,
			effect:   entity.NavigationEffect{Kind: entity.EffectRedirectToPageWithAnchor, Payload: "index.html#projects"},
			advisory: "Couldn't find that, navigating to projects instead",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newNavigation(t, remote, NavigationOptions{Strategy: StrategyRemote, Fallback: tt.fallback})

			res, err := svc.ProcessCommand(context.Background(), voice.CommandRequest{Utterance: "open tidbit", CurrentPage: "/about.html"})
			if err != nil {
				t.Fatalf("ProcessCommand() error = %v", err)
			}
			if got := res.Resolution.Primary(); got.Kind != tt.effect.Kind || got.Payload != tt.effect.Payload {
				t.Errorf("primary effect = %+v, want %+v", got, tt.effect)
			}
			if res.Advisory != tt.advisory {
				t.Errorf("Advisory = %q, want %q", res.Advisory, tt.advisory)
			}

			stats := svc.GetStats(context.Background())
			if stats.RemoteErrors[string(interpreter.KindUpstream)] != 1 {
				t.Errorf("RemoteErrors = %v, want 1 upstream", stats.RemoteErrors)
			}
		})
	}
}

func TestProcessCommandLastWriterWins(t *testing.T) {
	remote := &fakeRemote{
		intent:  entity.Intent{Action: entity.ActionGoHome, Target: "landing", Confidence: 1, Source: entity.SourceRemote},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newNavigation(t, remote, NavigationOptions{Strategy: StrategyRemote})

	var (
		wg   sync.WaitGroup
		slow *voice.CommandResponse
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow, _ = svc.ProcessCommand(context.Background(), voice.CommandRequest{Utterance: "slow", Session: "s1"})
	}()

	<-remote.started
	fast, err := svc.ProcessCommand(context.Background(), voice.CommandRequest{Utterance: "fast", Session: "s1"})
	if err != nil {
		t.Fatalf("ProcessCommand() error = %v", err)
	}
	close(remote.release)
	wg.Wait()

	if fast.Generation != 2 || fast.Superseded {
		t.Errorf("fast = generation %d superseded %v, want 2 false", fast.Generation, fast.Superseded)
	}
	if slow == nil {
		t.Fatal("slow command returned nil")
	}
	if slow.Generation != 1 || !slow.Superseded {
		t.Errorf("slow = generation %d superseded %v, want 1 true", slow.Generation, slow.Superseded)
	}

	if got := svc.GetStats(context.Background()).Superseded; got != 1 {
		t.Errorf("stats superseded = %d, want 1", got)
	}
}

func TestSubscribeFiltersBySession(t *testing.T) {
	svc := newNavigation(t, nil, NavigationOptions{})

	var got []string
	unsubscribe := svc.Subscribe("mine", func(cmd entity.VoiceCommand) {
		got = append(got, cmd.Utterance)
	})

	ctx := context.Background()
	svc.ProcessCommand(ctx, voice.CommandRequest{Utterance: "open tidbit", Session: "mine"})
	svc.ProcessCommand(ctx, voice.CommandRequest{Utterance: "open oracle", Session: "theirs"})
	unsubscribe()
	svc.ProcessCommand(ctx, voice.CommandRequest{Utterance: "take me home", Session: "mine"})

	if len(got) != 1 || got[0] != "open tidbit" {
		t.Errorf("delivered = %v, want [open tidbit]", got)
	}
}

func TestStatsAndRemoteHealth(t *testing.T) {
	remote := &fakeRemote{err: interpreter.ErrUnreachable}
	svc := newNavigation(t, remote, NavigationOptions{Strategy: StrategyRemote})
	ctx := context.Background()

	svc.ProcessCommand(ctx, voice.CommandRequest{Utterance: "open tidbit"})
	svc.ProcessCommand(ctx, voice.CommandRequest{Utterance: "gibberish words"})

	stats := svc.GetStats(ctx)
	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2", stats.Total)
	}
	if stats.RemoteErrors[string(interpreter.KindUnreachable)] != 2 {
		t.Errorf("RemoteErrors = %v, want 2 unreachable", stats.RemoteErrors)
	}
	if stats.BySource[string(entity.SourceLocal)] != 2 {
		t.Errorf("BySource = %v, want 2 local", stats.BySource)
	}
	if stats.RemoteHealthy {
		t.Errorf("RemoteHealthy = true, want false")
	}
	if stats.LastCommandAt == nil {
		t.Errorf("LastCommandAt = nil, want a time")
	}
}

func TestScore(t *testing.T) {
	svc := newNavigation(t, nil, NavigationOptions{})

	res, err := svc.Score(context.Background(), voice.ScoreRequest{Utterance: "Open TIDBIT!"})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if res.Normalized != "open tidbit" {
		t.Errorf("Normalized = %q, want %q", res.Normalized, "open tidbit")
	}
	if res.Intent.Target != "tidbit" {
		t.Errorf("Intent.Target = %q, want %q", res.Intent.Target, "tidbit")
	}
	if len(res.Breakdown) == 0 {
		t.Fatal("Breakdown is empty")
	}
	for _, row := range res.Breakdown {
		if row.Total <= 0 {
			t.Errorf("Breakdown row %s has total %v", row.ID, row.Total)
		}
	}
}

func TestGetCatalog(t *testing.T) {
	svc := newNavigation(t, nil, NavigationOptions{})
	ctx := context.Background()

	all, err := svc.GetCatalog(ctx, "")
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if all.Home != "landing" || all.Fallback != "projects" || all.IndexPage != "index.html" {
		t.Errorf("GetCatalog() = %s/%s/%s, want landing/projects/index.html", all.Home, all.Fallback, all.IndexPage)
	}

	filters, err := svc.GetCatalog(ctx, string(entity.KindFilterTag))
	if err != nil {
		t.Fatalf("GetCatalog(filter_tag) error = %v", err)
	}
	if len(filters.Entries) != 5 {
		t.Errorf("filter entries = %d, want 5", len(filters.Entries))
	}

	if _, err := svc.GetCatalog(ctx, "galaxy"); !errors.Is(err, voice.ErrUnknownKind) {
		t.Errorf("GetCatalog(galaxy) error = %v, want %v", err, voice.ErrUnknownKind)
	}
}

func TestProcessCommandStalledUpstreamFallsBack(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	remote := interpreter.New(NewUpstreamTransport(stallingUpstream{}, 50*time.Millisecond), cat)
	svc := newNavigation(t, remote, NavigationOptions{Strategy: StrategyRemote})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := svc.ProcessCommand(ctx, voice.CommandRequest{Utterance: "open tidbit", CurrentPage: "/"})
	if err != nil {
		t.Fatalf("ProcessCommand() error = %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("ProcessCommand() outlived the caller deadline")
	}
	if res.Source != entity.SourceLocal || res.Resolution.Target != "tidbit" {
		t.Errorf("source = %v target = %q, want local tidbit", res.Source, res.Resolution.Target)
	}
	if res.Advisory != AdvisoryRemoteUnavailable {
		t.Errorf("Advisory = %q, want %q", res.Advisory, AdvisoryRemoteUnavailable)
	}
	if got := svc.GetStats(ctx).RemoteErrors[string(interpreter.KindTimeout)]; got != 1 {
		t.Errorf("timeout errors = %d, want 1", got)
	}
}

func TestSubscribeDeliversInGenerationOrder(t *testing.T) {
	bus := eventbus.New[entity.VoiceCommand]()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	svc := NewNavigationService(quietLogger(), cat, nlp.NewScorer(cat), nil,
		resolver.New(cat, resolver.DefaultPolicy(), nil), bus, utils.New(), NavigationOptions{})

	var got []string
	unsubscribe := svc.Subscribe("s1", func(cmd entity.VoiceCommand) {
		got = append(got, fmt.Sprintf("%d:%v", cmd.Generation, cmd.Superseded))
	})
	defer unsubscribe()

	ctx := context.Background()
	first, _ := svc.ProcessCommand(ctx, voice.CommandRequest{Utterance: "open tidbit", Session: "s1"})
	second, _ := svc.ProcessCommand(ctx, voice.CommandRequest{Utterance: "open oracle", Session: "s1"})

	if first.Superseded || second.Superseded {
		t.Errorf("superseded = %v, %v, want both false for sequential commands", first.Superseded, second.Superseded)
	}
	if want := "[1:false 2:false]"; fmt.Sprint(got) != want {
		t.Errorf("delivered = %v, want %s", got, want)
	}
}
