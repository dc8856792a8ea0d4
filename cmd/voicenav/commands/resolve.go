package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"PortfolioVoice/internal/api/voice"
	voiceService "PortfolioVoice/internal/api/voice/service"
	"PortfolioVoice/pkg/interpreter"
	"PortfolioVoice/pkg/nlp"
	"PortfolioVoice/pkg/resolver"
	"PortfolioVoice/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	resolvePage      string
	resolveRemote    bool
	resolveProxy     string
	resolveTimeout   time.Duration
	resolveThreshold float64
)

func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <utterance>",
		Short: "Resolve an utterance into navigation effects",
		Long: `Run the full pipeline: intent source, fallback, then the resolver.

By default the local scorer produces the intent. With --remote the hosted
model is asked through the voice proxy (--proxy or VOICE_PROXY_URL) and the
local scorer takes over if that fails.

Examples:
  voicenav resolve "open tidbit"
  voicenav resolve --page /oracle-ai.html "show me the final designs"
  voicenav resolve --remote --proxy http://localhost:3000/api/voice "who is naima"`,
		Args: cobra.ExactArgs(1),
		RunE: runResolve,
	}

	cmd.Flags().StringVar(&resolvePage, "page", "/", "Current page path")
	cmd.Flags().BoolVar(&resolveRemote, "remote", false, "Ask the hosted model through the voice proxy")
	cmd.Flags().StringVar(&resolveProxy, "proxy", "", "Voice proxy URL (default: VOICE_PROXY_URL)")
	cmd.Flags().DurationVar(&resolveTimeout, "timeout", 8*time.Second, "Remote call timeout")
	cmd.Flags().Float64Var(&resolveThreshold, "threshold", resolver.DefaultPolicy().Threshold, "Confidence threshold for remote intents")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	if resolveThreshold < 0 || resolveThreshold > 1 {
		return fmt.Errorf("--threshold must be 0-1, got %f", resolveThreshold)
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	strategy := voiceService.StrategyLocal
	var remote voiceService.IntentSource
	if resolveRemote {
		proxy := resolveProxy
		if proxy == "" {
			proxy = getenv("VOICE_PROXY_URL")
		}
		if proxy == "" {
			return fmt.Errorf("--remote needs --proxy or VOICE_PROXY_URL")
		}
		strategy = voiceService.StrategyRemote
		remote = interpreter.New(interpreter.NewHTTPTransport(proxy, resolveTimeout), cat)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	policy := resolver.DefaultPolicy()
	policy.Threshold = resolveThreshold

	svc := voiceService.NewNavigationService(
		logger,
		cat,
		nlp.NewScorer(cat),
		remote,
		resolver.New(cat, policy, nil),
		nil,
		utils.New(),
		voiceService.NavigationOptions{Strategy: strategy, Fallback: voiceService.FallbackLocal},
	)

	res, err := svc.ProcessCommand(context.Background(), voice.CommandRequest{
		Utterance:   args[0],
		CurrentPage: resolvePage,
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), res)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Intent:  %s\n", describeIntent(res.Intent))
	fmt.Fprintf(w, "Target:  %s\n", res.Resolution.Target)
	for i, e := range res.Resolution.Effects {
		fmt.Fprintf(w, "Effect %d: %s\n", i+1, describeEffect(e))
	}
	if res.Advisory != "" {
		fmt.Fprintf(w, "Advisory: %s\n", res.Advisory)
	}
	if len(res.Resolution.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s\n", strings.Join(res.Resolution.Suggestions, ", "))
	}
	return nil
}
