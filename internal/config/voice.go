package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	voiceService "PortfolioVoice/internal/api/voice/service"
	"PortfolioVoice/pkg/resolver"
)

const (
	UpstreamOpenAI = "openai"
	UpstreamGemini = "gemini"
)

// VoiceConfig is everything the voice service reads from the environment.
type VoiceConfig struct {
	AppPort string
	AppEnv  string

	Upstream      string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiModel   string

	ProxyURL            string
	Strategy            string
	RemoteFallback      string
	RemoteTimeout       time.Duration
	ConfidenceThreshold float64
	ReportUnclear       bool
	CatalogPath         string

	CacheTTL      time.Duration
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSBucket          string
	PresignExpiry      time.Duration
}

func LoadVoiceConfig() (*VoiceConfig, error) {
	cfg := &VoiceConfig{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		Upstream:      getEnv("VOICE_UPSTREAM", UpstreamOpenAI),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL_NAME", "gemini-1.5-flash"),

		ProxyURL:            os.Getenv("VOICE_PROXY_URL"),
		RemoteFallback:      getEnv("VOICE_REMOTE_FALLBACK", string(voiceService.FallbackLocal)),
		RemoteTimeout:       getEnvDuration("VOICE_REMOTE_TIMEOUT", 8*time.Second),
		ConfidenceThreshold: getEnvFloat("VOICE_CONFIDENCE_THRESHOLD", resolver.DefaultPolicy().Threshold),
		ReportUnclear:       getEnvBool("VOICE_REPORT_UNCLEAR", true),
		CatalogPath:         os.Getenv("VOICE_CATALOG_PATH"),

		CacheTTL:      getEnvDuration("VOICE_CACHE_TTL", 10*time.Minute),
		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AWSRegion:          os.Getenv("AWS_REGION"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSBucket:          os.Getenv("AWS_BUCKET_NAME"),
		PresignExpiry:      getEnvDuration("AWS_PRESIGN_EXPIRY", 15*time.Minute),
	}

	defaultStrategy := voiceService.StrategyLocal
	if cfg.ProxyURL != "" {
		defaultStrategy = voiceService.StrategyRemote
	}
	cfg.Strategy = getEnv("VOICE_INTENT_STRATEGY", string(defaultStrategy))

	return cfg, cfg.Validate()
}

func (c *VoiceConfig) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("VOICE_CONFIDENCE_THRESHOLD must be 0-1, got %f", c.ConfidenceThreshold)
	}
	if c.Upstream != UpstreamOpenAI && c.Upstream != UpstreamGemini {
		return fmt.Errorf("VOICE_UPSTREAM must be %s or %s, got %q", UpstreamOpenAI, UpstreamGemini, c.Upstream)
	}
	strategy, err := voiceService.ParseStrategy(c.Strategy)
	if err != nil {
		return fmt.Errorf("VOICE_INTENT_STRATEGY: %w", err)
	}
	if _, err := voiceService.ParseFallback(c.RemoteFallback); err != nil {
		return fmt.Errorf("VOICE_REMOTE_FALLBACK: %w", err)
	}
	if strategy == voiceService.StrategyRemote && c.ProxyURL == "" && c.UpstreamKey() == "" {
		return fmt.Errorf("VOICE_INTENT_STRATEGY=remote needs VOICE_PROXY_URL or an upstream API key")
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("VOICE_REMOTE_TIMEOUT must be positive, got %v", c.RemoteTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("VOICE_CACHE_TTL must not be negative, got %v", c.CacheTTL)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must not be negative, got %d", c.RedisDB)
	}
	return nil
}

// UpstreamKey is the credential of the selected upstream, empty when unset.
func (c *VoiceConfig) UpstreamKey() string {
	if c.Upstream == UpstreamGemini {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

func (c *VoiceConfig) Policy() resolver.Policy {
	return resolver.Policy{
		Threshold:     c.ConfidenceThreshold,
		ReportUnclear: c.ReportUnclear,
	}
}

func (c *VoiceConfig) Navigation() voiceService.NavigationOptions {
	return voiceService.NavigationOptions{
		Strategy: voiceService.Strategy(c.Strategy),
		Fallback: voiceService.Fallback(c.RemoteFallback),
	}
}

func (c *VoiceConfig) RedisEnabled() bool {
	return c.RedisAddress != ""
}

func (c *VoiceConfig) S3Enabled() bool {
	return c.AWSRegion != "" && c.AWSBucket != ""
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
